package questiongen

import (
	"context"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"jobsim-backend/lib/ai/refusal"
	llmclient "jobsim-backend/lib/llm"
	"jobsim-backend/models"
)

// Provider генерирует следующий вопрос интервью по состоянию сессии
type Provider interface {
	Generate(ctx context.Context, role string, st *models.ConversationState) (question string, err error)
}

var Instance Provider

const (
	maxPromtSkills        = 7
	maxPromtExperienceLen = 400
	maxPromtAnswerLen     = 300

	// подставляется, когда очистка ответа модели оставила пустую строку
	FallbackQuestion = "Can you tell me about a challenging project you worked on?"
)

func NewHandler() {
	Instance = NewInstance(llmclient.Instance, refusal.NewMatcher())
}

func NewInstance(llm llmclient.Provider, refusalMatcher refusal.Matcher) Provider {
	return impl{
		llm:            llm,
		refusalMatcher: refusalMatcher,
	}
}

type impl struct {
	llm            llmclient.Provider
	refusalMatcher refusal.Matcher
}

func (i impl) getLogger(role string) *log.Entry {
	return log.WithField("role", role)
}

func (i impl) Generate(ctx context.Context, role string, st *models.ConversationState) (string, error) {
	// потребляем сложность, выставленную оценкой предыдущего ответа
	difficulty := st.TakeNextDifficulty()

	var promt string
	switch {
	case !st.IsFirstTurn():
		promt = buildFollowUp(role, difficulty, st)
	case st.HasCvData():
		promt = buildCvOpener(role, st)
	default:
		promt = buildGenericOpener(role)
	}

	logger := i.getLogger(role).WithField("difficulty", difficulty)
	logger.Info("генерация вопроса интервью")
	answer, err := i.llm.Complete(ctx, sysPromt, promt, llmclient.Options{
		Temperature: 0.7,
		MaxTokens:   150,
	})
	if err != nil {
		return "", errors.Wrap(err, "ошибка генерации вопроса интервью")
	}
	if i.refusalMatcher.IsRefusal(answer) {
		logger.Warnf("модель отказалась генерировать вопрос: %v", answer)
		return "", errors.New("модель отказалась генерировать вопрос")
	}

	question := Sanitize(answer)
	logger.Infof("сгенерирован вопрос: %v", question)
	return question, nil
}

// известные вступительные фразы, которые модель добавляет вопреки промпту
var preamblePrefixes = []string{
	"here is a question:",
	"here's a question:",
	"here is the question:",
	"here is your question:",
	"here's your question:",
	"sure, here is a question:",
	"question:",
}

var enumerationMarker = regexp.MustCompile(`^(\d+[.)]\s*|[a-zA-Z][.)]\s+|[-*•]\s+)`)

// Sanitize приводит сырой ответ модели к виду одиночного вопроса:
// убирает вступления, обёртки из кавычек и звёздочек, маркеры списков,
// гарантирует вопросительный знак в конце. Пустой результат заменяется
// фиксированным запасным вопросом.
func Sanitize(raw string) string {
	question := strings.TrimSpace(raw)

	for {
		stripped := question
		lowered := strings.ToLower(stripped)
		for _, prefix := range preamblePrefixes {
			if strings.HasPrefix(lowered, prefix) {
				stripped = strings.TrimSpace(stripped[len(prefix):])
				break
			}
		}
		stripped = strings.Trim(stripped, "\"'*`“”‘’ \n")
		stripped = enumerationMarker.ReplaceAllString(stripped, "")
		stripped = strings.TrimSpace(stripped)
		if stripped == question {
			break
		}
		question = stripped
	}

	question = strings.TrimRight(question, ".! ")
	if question == "" {
		return FallbackQuestion
	}
	if !strings.HasSuffix(question, "?") {
		question += "?"
	}
	return question
}
