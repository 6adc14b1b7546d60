package summarize

import "strings"

// SplitChunks splits normalized text into chunks of at most maxChars,
// preferring sentence boundaries so chunks do not end mid-sentence. A
// single sentence longer than maxChars becomes its own oversized chunk
// rather than being cut.
func SplitChunks(text string, maxChars int) []string {
	text = collapse(text)
	if text == "" {
		return nil
	}
	if maxChars <= 0 || len(text) <= maxChars {
		return []string{text}
	}

	var chunks []string
	var current []string
	for _, sentence := range strings.Split(text, ". ") {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		candidate := strings.Join(append(append([]string{}, current...), sentence), ". ")
		if len(candidate) <= maxChars {
			current = append(current, sentence)
			continue
		}
		if len(current) > 0 {
			chunks = append(chunks, strings.Join(current, ". "))
		}
		current = []string{sentence}
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, ". "))
	}
	return chunks
}

// Truncate cuts text to at most maxChars runes, appending an ellipsis
// marker when anything was dropped.
func Truncate(text string, maxChars int) string {
	if maxChars <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	return strings.TrimSpace(string(runes[:maxChars])) + "..."
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
