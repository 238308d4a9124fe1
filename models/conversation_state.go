package models

// ConversationState - состояние одной сессии интервью.
// Хранится только в памяти процесса, без персистентности.
type ConversationState struct {
	CvSkills              []string
	CvExperienceSummary   string
	PreviousQuestions     []string
	PreviousAnswers       []string
	PreviousScores        []float64
	CurrentDifficulty     Difficulty
	CurrentDifficultyNext Difficulty // транзитная, выставляется оценкой ответа, потребляется генерацией вопроса
}

// HasCvData - данные резюме заполняются только один раз за сессию
func (s *ConversationState) HasCvData() bool {
	return len(s.CvSkills) > 0 || s.CvExperienceSummary != ""
}

func (s *ConversationState) IsFirstTurn() bool {
	return len(s.PreviousQuestions) == 0
}

func (s *ConversationState) LastQuestion() string {
	if len(s.PreviousQuestions) == 0 {
		return ""
	}
	return s.PreviousQuestions[len(s.PreviousQuestions)-1]
}

func (s *ConversationState) LastAnswer() string {
	if len(s.PreviousAnswers) == 0 {
		return ""
	}
	return s.PreviousAnswers[len(s.PreviousAnswers)-1]
}

func (s *ConversationState) LastScore() (float64, bool) {
	if len(s.PreviousScores) == 0 {
		return 0, false
	}
	return s.PreviousScores[len(s.PreviousScores)-1], true
}

// TakeNextDifficulty потребляет CurrentDifficultyNext:
// значение переносится в CurrentDifficulty и сбрасывается.
// Возвращает актуальную сложность для генерации вопроса.
func (s *ConversationState) TakeNextDifficulty() Difficulty {
	if s.CurrentDifficultyNext != "" {
		s.CurrentDifficulty = s.CurrentDifficultyNext
		s.CurrentDifficultyNext = ""
	}
	if s.CurrentDifficulty == "" {
		s.CurrentDifficulty = DifficultyNormal
	}
	return s.CurrentDifficulty
}
