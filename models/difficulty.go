package models

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyNormal Difficulty = "normal"
	DifficultyHard   Difficulty = "hard"
)

const (
	MinScore = 1.0
	MaxScore = 5.0
)

// ClampScore приводит оценку к допустимому диапазону [1.0, 5.0]
func ClampScore(score float64) float64 {
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}

// NextDifficulty определяет сложность следующего вопроса по оценке ответа
func NextDifficulty(score float64) Difficulty {
	score = ClampScore(score)
	if score < 2.5 {
		return DifficultyEasy
	}
	if score >= 4.0 {
		return DifficultyHard
	}
	return DifficultyNormal
}
