package parser

import (
	"strings"

	"github.com/mcncl/jsonlayer/internal/models"
)

// ParseEmbedded interprets text held in a JSON string as a nested document.
// It succeeds only when the trimmed text starts with '{' or '[' and parses
// to an object or array; bare scalars are not worth drilling into.
func ParseEmbedded(text string) (models.Value, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || (trimmed[0] != '{' && trimmed[0] != '[') {
		return nil, false
	}
	v, err := ParseString(trimmed)
	if err != nil || !models.IsContainer(v) {
		return nil, false
	}
	return v, true
}

// IsJSONString reports whether v is a string that ParseEmbedded accepts.
func IsJSONString(v models.Value) bool {
	s, ok := v.(models.String)
	if !ok {
		return false
	}
	_, ok = ParseEmbedded(string(s))
	return ok
}
