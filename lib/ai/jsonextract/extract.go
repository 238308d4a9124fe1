package jsonextract

import "strings"

// Payload ищет JSON-объект в свободном тексте ответа модели.
// Лестница поиска начала: маркер "```json" -> маркер "```" -> первая "{",
// берётся самое раннее совпадение. Найденный фрагмент очищается от
// code-fence маркеров; усечённый объект (начинается с кавычки, без скобки)
// дополняется скобками. Возвращает (фрагмент, true) либо ("", false),
// если JSON в тексте не обнаружен.
func Payload(raw string) (string, bool) {
	start := payloadStart(raw)
	if start < 0 {
		return "", false
	}
	payload := strings.TrimSpace(raw[start:])
	payload = stripFences(payload)
	payload = repairTruncated(payload)
	if payload == "" {
		return "", false
	}
	return payload, true
}

func payloadStart(raw string) int {
	start := -1
	for _, marker := range []string{"```json", "```", "{"} {
		idx := strings.Index(raw, marker)
		if idx >= 0 && (start < 0 || idx < start) {
			start = idx
		}
	}
	return start
}

func stripFences(payload string) string {
	payload = strings.TrimPrefix(payload, "```json")
	payload = strings.TrimPrefix(payload, "```")
	payload = strings.TrimSpace(payload)
	if idx := strings.LastIndex(payload, "```"); idx >= 0 {
		payload = payload[:idx]
	}
	return strings.TrimSpace(payload)
}

// ответ модели бывает обрезан до содержимого объекта: {"score": ... без скобок
func repairTruncated(payload string) string {
	if strings.HasPrefix(payload, "\"") {
		return "{" + payload + "}"
	}
	return payload
}
