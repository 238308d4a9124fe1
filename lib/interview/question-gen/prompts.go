package questiongen

import (
	"fmt"
	"strings"

	"jobsim-backend/lib/utils/helpers"
	"jobsim-backend/models"
)

const sysPromt = "You are an expert interviewer generating concise, high-quality interview questions."

const genericOpenerPattern = `Generate one %s interview question suitable for a '%s' position. The question should be insightful and allow the candidate to demonstrate their skills and experience. Do not ask for lists (e.g. "list three things"). Phrase it as a direct question a human interviewer would ask.`

const cvOpenerPattern = `Generate one %s interview question for a '%s' position, tailored to this candidate.
Candidate skills: %s.
Experience summary: %s
The question should reference the candidate's background where natural. Do not ask for lists. Phrase it as a direct question a human interviewer would ask.`

const followUpPattern = `You are continuing an interview for a '%s' position.
Previous question: "%s"
Candidate's answer (may be truncated): "%s"%s
%s
Generate one %s follow-up question. Do not repeat the previous question, do not ask for lists, and phrase it as a direct question a human interviewer would ask.`

// ключевые слова технических ролей
var technicalRoleKeywords = []string{
	"engineer", "developer", "programmer", "data", "devops",
	"scientist", "architect", "analyst", "qa", "sre", "backend",
	"frontend", "fullstack", "software",
}

// выбор технического либо поведенческого вопроса: технические роли
// чередуются по чётности номера хода, чтобы интервью не было однобоким
func questionKind(role string, turn int) string {
	lowered := strings.ToLower(role)
	isTechnical := false
	for _, keyword := range technicalRoleKeywords {
		if strings.Contains(lowered, keyword) {
			isTechnical = true
			break
		}
	}
	if isTechnical && turn%2 == 0 {
		return "technical"
	}
	return "behavioral"
}

func difficultyTone(difficulty models.Difficulty) string {
	switch difficulty {
	case models.DifficultyEasy:
		return "Ask a simpler, more accessible follow-up that lets the candidate regain confidence."
	case models.DifficultyHard:
		return "Ask a deeper, more complex follow-up that probes the limits of the candidate's expertise."
	default:
		return "Ask a neutral follow-up of comparable difficulty."
	}
}

func buildGenericOpener(role string) string {
	return fmt.Sprintf(genericOpenerPattern, questionKind(role, 0), role)
}

func buildCvOpener(role string, st *models.ConversationState) string {
	skills := st.CvSkills
	if len(skills) > maxPromtSkills {
		skills = skills[:maxPromtSkills]
	}
	return fmt.Sprintf(cvOpenerPattern,
		questionKind(role, 0),
		role,
		strings.Join(skills, ", "),
		helpers.Truncate(st.CvExperienceSummary, maxPromtExperienceLen),
	)
}

func buildFollowUp(role string, difficulty models.Difficulty, st *models.ConversationState) string {
	scorePart := ""
	if score, ok := st.LastScore(); ok {
		scorePart = fmt.Sprintf("\nThe answer was scored %.1f out of 5.", score)
	}
	return fmt.Sprintf(followUpPattern,
		role,
		st.LastQuestion(),
		helpers.Truncate(st.LastAnswer(), maxPromtAnswerLen),
		scorePart,
		difficultyTone(difficulty),
		questionKind(role, len(st.PreviousQuestions)),
	)
}
