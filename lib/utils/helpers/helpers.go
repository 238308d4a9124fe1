package helpers

import (
	"context"
	"strings"
)

func IsContextDone(ctx context.Context) bool {
	if ctx == nil {
		return true
	}
	select {
	case <-ctx.Done():
		return true
	default:
	}
	return false
}

// Truncate обрезает строку до limit рун, добавляя многоточие.
// Срез по рунам, чтобы не разрезать многобайтовый символ.
func Truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}

// FirstSentence возвращает первое предложение текста
func FirstSentence(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.IndexAny(text, ".!\n"); idx >= 0 {
		return strings.TrimSpace(text[:idx+1])
	}
	return text
}
