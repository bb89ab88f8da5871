package validation

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const maxQuestionLength = 2000

// IsValidQuestion checks if a question makes sense (not gibberish).
// It is deliberately lenient: a slightly odd question is better processed
// than rejected.
func IsValidQuestion(question string) bool {
	trimmed := strings.TrimSpace(question)

	// At least 2 characters ("매출" is a valid question)
	n := utf8.RuneCountInString(trimmed)
	if n < 2 || n > maxQuestionLength {
		return false
	}

	if isRepeatedCharacters(trimmed) || hasExcessiveRepetition(trimmed) {
		return false
	}

	letterCount, digitCount, punctCount, totalChars := 0, 0, 0, 0
	for _, r := range trimmed {
		if unicode.IsSpace(r) {
			continue
		}
		totalChars++
		switch {
		case unicode.IsLetter(r):
			letterCount++
		case unicode.IsDigit(r):
			digitCount++
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			punctCount++
		}
	}

	if totalChars == 0 {
		return false
	}

	// Should have some letters (at least 30% of characters)
	if float64(letterCount)/float64(totalChars) < 0.3 {
		return false
	}

	// More than 30% punctuation is excessive
	if float64(punctCount)/float64(totalChars) > 0.3 {
		return false
	}

	// More than 50% digits is suspicious
	if float64(digitCount)/float64(totalChars) > 0.5 {
		return false
	}

	return !hasKeyboardMashing(trimmed)
}

// isRepeatedCharacters checks if a string is just one repeated character
func isRepeatedCharacters(s string) bool {
	var first rune
	for i, r := range s {
		if i == 0 {
			first = r
			continue
		}
		if r != first {
			return false
		}
	}
	return utf8.RuneCountInString(s) >= 3
}

// hasExcessiveRepetition checks for 5+ consecutive identical characters
func hasExcessiveRepetition(s string) bool {
	var prev rune
	count := 0
	for _, r := range s {
		if r == prev && !unicode.IsSpace(r) {
			count++
			if count >= 5 {
				return true
			}
			continue
		}
		prev, count = r, 1
	}
	return false
}

// hasKeyboardMashing checks short inputs for keyboard mashing sequences
func hasKeyboardMashing(s string) bool {
	if utf8.RuneCountInString(s) >= 30 {
		return false
	}
	lower := strings.ToLower(s)
	for _, pattern := range []string{"asdf", "qwer", "zxcv", "hjkl", "ㅁㄴㅇㄹ", "ㅂㅈㄷㄱ"} {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}
