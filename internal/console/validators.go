package console

import (
	"strconv"
	"unicode/utf8"
)

const maxTaskNameLength = 10

// isNumeric reports whether text is a non-negative integer.
func isNumeric(text string) bool {
	if text == "" {
		return false
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return false
	}
	return n >= 0
}

func validTaskName(name string) bool {
	return utf8.RuneCountInString(name) <= maxTaskNameLength
}

func validTargetStatus(text string) bool {
	return text == "1" || text == "2"
}
