package interviewapimodels

import (
	"strings"

	"github.com/pkg/errors"
)

type TurnRequest struct {
	SessionID string `json:"session_id"` // Идентификатор сессии интервью, пустой для новой сессии
	Role      string `json:"role"`       // Позиция, на которую проходит интервью
	Audio     string `json:"audio"`      // Ответ кандидата, base64 wav
}

func (r TurnRequest) Validate() error {
	if len(strings.TrimSpace(r.Role)) == 0 {
		return errors.New("не заполнен параметр role")
	}
	return nil
}

type Evaluation struct {
	Score    float64 `json:"score"`    // оценка ответа 1.0-5.0, 0 при отказе модели
	Feedback string  `json:"feedback"` // краткая обратная связь
	Refusal  bool    `json:"refusal"`  // модель отказалась оценивать ответ
}

type CvDebug struct {
	Skills     []string `json:"skills"`     // навыки из резюме, null если резюме не обработано
	Experience *string  `json:"experience"` // краткое описание опыта, null если резюме не обработано
}

type TurnResponse struct {
	SessionID      string      `json:"session_id"`
	Question       string      `json:"question"`
	Transcript     string      `json:"transcript"` // транскрипт ответа или заглушка, если аудио не передано
	Evaluation     interface{} `json:"evaluation"` // Evaluation или строка-заглушка
	CvSummaryDebug CvDebug     `json:"cv_summary_debug"`
}
