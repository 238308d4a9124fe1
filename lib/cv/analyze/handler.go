package cvanalyze

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"jobsim-backend/config"
	"jobsim-backend/lib/ai/jsonextract"
	llmclient "jobsim-backend/lib/llm"
	"jobsim-backend/lib/utils/helpers"
)

// CvData - структурированные данные резюме для контекста интервью
type CvData struct {
	Skills            []string `json:"skills"`
	ExperienceSummary string   `json:"experience_summary"`
}

// Provider извлекает навыки и описание опыта из текста резюме через LLM.
// Любой сбой возвращается как ошибка с деградированным результатом:
// обогащение резюме не на критическом пути хода интервью.
type Provider interface {
	Extract(ctx context.Context, cvText string) (CvData, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		llm:           llmclient.Instance,
		maxTextLength: config.Conf.CV.MaxTextLength,
	}
}

func NewInstance(llm llmclient.Provider, maxTextLength int) Provider {
	return impl{
		llm:           llm,
		maxTextLength: maxTextLength,
	}
}

type impl struct {
	llm           llmclient.Provider
	maxTextLength int
}

const extractSysPromt = "You are an expert HR analyst specializing in accurately parsing resumes into structured JSON data. Only return the JSON object."

const extractPromtPattern = `Analyze the following resume text and extract the key skills and a brief summary of relevant professional experience (max 3-4 sentences).
Focus on tangible skills, technologies, and responsibilities. Avoid generic phrases if possible.
Return the skills as a JSON list of strings, e.g. ["Python", "Flask API Development", "Project Management"].
Return the experience summary as a single string.
Output ONLY a valid JSON object with two keys: 'skills' (a list of strings) and 'experience_summary' (a string).

Resume Text:
%s`

func (i impl) Extract(ctx context.Context, cvText string) (CvData, error) {
	degraded := CvData{Skills: []string{}}
	if cvText == "" {
		degraded.ExperienceSummary = "Error: empty resume text."
		return degraded, errors.New("пустой текст резюме")
	}

	// усечение до лимита контекста модели, по рунам
	if runes := []rune(cvText); len(runes) > i.maxTextLength {
		log.Warnf("текст резюме усечён с %v до %v символов для обработки LLM", len(runes), i.maxTextLength)
		cvText = string(runes[:i.maxTextLength])
	}

	answer, err := i.llm.CompleteJSON(ctx, extractSysPromt, fmt.Sprintf(extractPromtPattern, cvText), llmclient.Options{
		Temperature: 0.2,
		MaxTokens:   500,
	})
	if err != nil {
		log.WithError(err).Error("ошибка извлечения данных резюме через LLM")
		degraded.ExperienceSummary = "Error: AI processing of the resume failed."
		return degraded, err
	}

	payload, found := jsonextract.Payload(answer)
	if !found {
		degraded.ExperienceSummary = "Error: AI returned invalid JSON format."
		return degraded, errors.Errorf("в ответе LLM не найден JSON, ответ: %v", helpers.Truncate(answer, 200))
	}

	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		degraded.ExperienceSummary = "Error: AI returned invalid JSON format."
		return degraded, errors.Wrapf(err, "ошибка декодирования json с данными резюме, json: %v", helpers.Truncate(payload, 200))
	}

	data, ok := validate(raw)
	if !ok {
		degraded.ExperienceSummary = "Error: Malformed or incomplete data from AI."
		return degraded, errors.Errorf("LLM вернула неполную структуру данных резюме: %v", helpers.Truncate(payload, 200))
	}
	log.Infof("данные резюме извлечены, навыков: %v", len(data.Skills))
	return data, nil
}

// skills должен быть списком строк, experience_summary строкой
func validate(raw map[string]interface{}) (CvData, bool) {
	rawSkills, ok := raw["skills"].([]interface{})
	if !ok {
		return CvData{}, false
	}
	summary, ok := raw["experience_summary"].(string)
	if !ok {
		return CvData{}, false
	}
	skills := make([]string, 0, len(rawSkills))
	for _, rawSkill := range rawSkills {
		skill, ok := rawSkill.(string)
		if !ok {
			return CvData{}, false
		}
		skills = append(skills, skill)
	}
	return CvData{Skills: skills, ExperienceSummary: summary}, true
}
