package answereval

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"

	"jobsim-backend/lib/ai/jsonextract"
	"jobsim-backend/lib/ai/refusal"
	llmclient "jobsim-backend/lib/llm"
	"jobsim-backend/lib/utils/helpers"
	"jobsim-backend/models"
	interviewapimodels "jobsim-backend/models/api/interview"
)

// Provider оценивает транскрибированный ответ кандидата на заданный вопрос.
// Любой сбой внешней модели превращается в refusal-образный результат,
// а не ошибку: оценка не на критическом пути генерации следующего вопроса.
type Provider interface {
	Evaluate(ctx context.Context, question, transcript string, st *models.ConversationState) interviewapimodels.Evaluation
}

var Instance Provider

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

const evalSysPromt = "You are an expert interview coach providing answer evaluations. You must return only a valid JSON object as specified."

const evalPromtPattern = `The candidate was asked the following interview question: "%s".
The candidate provided this answer: "%s".

Evaluate the answer. Provide a numeric score from 1.0 to 5.0 and concise, constructive feedback (2-3 sentences) highlighting strengths and areas for improvement.
%s
Return ONLY a JSON object with two keys: 'score' (number) and 'feedback' (string).
Example: {"score": 4.0, "feedback": "Great example of problem-solving. Consider quantifying the impact next time."}`

func difficultyGuidance(difficulty models.Difficulty) string {
	switch difficulty {
	case models.DifficultyEasy:
		return "This was an easy question: give credit for addressing the core concept, even without depth."
	case models.DifficultyHard:
		return "This was a hard question: reserve high scores for depth and sophistication of the answer."
	default:
		return "Focus on clarity, relevance to the question, and completeness."
	}
}

func (i impl) Evaluate(ctx context.Context, question, transcript string, st *models.ConversationState) interviewapimodels.Evaluation {
	promt := fmt.Sprintf(evalPromtPattern, question, transcript, difficultyGuidance(st.CurrentDifficulty))

	answer, err := i.llm.CompleteJSON(ctx, evalSysPromt, promt, llmclient.Options{
		Temperature: 0.5,
		MaxTokens:   200,
	})
	if err != nil {
		// транспортный сбой отличаем от отказа текстом, но ход не прерываем
		log.WithError(err).Error("ошибка запроса оценки ответа к LLM")
		return interviewapimodels.Evaluation{
			Score:    0,
			Feedback: fmt.Sprintf("Evaluation service unavailable: %v", err),
			Refusal:  true,
		}
	}

	eval := i.parseEvaluation(answer)
	if !eval.Refusal && eval.Score > 0 {
		// оценка определяет сложность следующего вопроса
		st.CurrentDifficultyNext = models.NextDifficulty(eval.Score)
	}
	return eval
}

// разбор ответа модели с восстановлением: отказ -> поиск JSON ->
// починка усечённого объекта -> проверка типов -> нормализация оценки
func (i impl) parseEvaluation(answer string) interviewapimodels.Evaluation {
	if i.refusalMatcher.IsRefusal(answer) {
		log.Warnf("модель отказалась оценивать ответ: %v", helpers.Truncate(answer, 200))
		return interviewapimodels.Evaluation{
			Score:    0,
			Feedback: helpers.Truncate(helpers.FirstSentence(answer), 200),
			Refusal:  true,
		}
	}

	payload, found := jsonextract.Payload(answer)
	if !found {
		log.Warnf("в ответе модели с оценкой не найден JSON: %v", helpers.Truncate(answer, 200))
		return interviewapimodels.Evaluation{
			Score:    1.0,
			Feedback: fmt.Sprintf("AI evaluation was not in the expected format: %v", helpers.Truncate(answer, 120)),
			Refusal:  true,
		}
	}

	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		log.WithError(err).Warnf("ошибка декодирования json с оценкой: %v", helpers.Truncate(payload, 200))
		return interviewapimodels.Evaluation{
			Score:    1.0,
			Feedback: fmt.Sprintf("AI evaluation was not in the expected format: %v", helpers.Truncate(payload, 120)),
			Refusal:  true,
		}
	}

	score, scoreOk := raw["score"].(float64)
	feedback, feedbackOk := raw["feedback"].(string)
	if !scoreOk || !feedbackOk || math.IsNaN(score) || math.IsInf(score, 0) {
		log.Warnf("модель вернула оценку с неверными типами полей: %v", helpers.Truncate(payload, 200))
		return interviewapimodels.Evaluation{
			Score:    0,
			Feedback: "Error processing evaluation from AI: malformed score or feedback.",
			Refusal:  false,
		}
	}

	return interviewapimodels.Evaluation{
		Score:    models.ClampScore(score),
		Feedback: feedback,
		Refusal:  false,
	}
}
