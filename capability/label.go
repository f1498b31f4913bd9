package capability

import (
	"strings"
	"unicode"
)

// Label turns a programmatic attribute name into its display label:
// "servicesResolved" becomes "Services resolved", "rssi" becomes "Rssi".
func Label(name string) string {
	words := splitCamelCase(name)
	if len(words) == 0 {
		return ""
	}
	for index, word := range words {
		words[index] = strings.ToLower(word)
	}
	runes := []rune(strings.Join(words, " "))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func splitCamelCase(name string) []string {
	runes := []rune(strings.TrimSpace(name))
	result := []string{}
	start := 0
	for index := 1; index < len(runes); index++ {
		previous, current := runes[index-1], runes[index]
		boundary := false
		switch {
		case unicode.IsUpper(current) && !unicode.IsUpper(previous):
			boundary = true
		case unicode.IsUpper(previous) && unicode.IsUpper(current) && index+1 < len(runes) && unicode.IsLower(runes[index+1]):
			boundary = true
		case unicode.IsDigit(current) != unicode.IsDigit(previous):
			boundary = true
		}
		if boundary {
			result = append(result, string(runes[start:index]))
			start = index
		}
	}
	if start < len(runes) {
		result = append(result, string(runes[start:]))
	}
	return result
}

// folded is the matching key of user typed attribute names: case and white
// space do not matter.
func folded(text string) string {
	return strings.Map(func(char rune) rune {
		if unicode.IsSpace(char) {
			return -1
		}
		return unicode.ToLower(char)
	}, text)
}
