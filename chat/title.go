package chat

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const DefaultTitle = "New Chat"

var firstSentence = regexp.MustCompile(`^(.+?)[.!?\n]`)

// TitleFromMessage derives a short conversation title from a prompt.
func TitleFromMessage(message string) string {
	if message == "" {
		return DefaultTitle
	}
	if utf8.RuneCountInString(message) <= 30 {
		return message
	}
	if m := firstSentence.FindStringSubmatch(message); m != nil && utf8.RuneCountInString(m[1]) >= 10 {
		return truncateRunes(m[1], 50)
	}
	words := strings.Fields(message)
	if len(words) == 0 {
		return DefaultTitle
	}
	if len(words) > 8 {
		words = words[:8]
	}
	return strings.Join(words, " ")
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
