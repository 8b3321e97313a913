package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// textPolicy 去掉所有标签，只保留文本
var textPolicy = bluemonday.StrictPolicy()

// SanitizeText strips markup from admin-entered free text and trims it.
// Entities produced by the policy are decoded back so the stored value is
// plain text.
func SanitizeText(s string) string {
	if s == "" {
		return ""
	}
	cleaned := textPolicy.Sanitize(s)
	cleaned = html.UnescapeString(cleaned)
	return strings.Join(strings.Fields(cleaned), " ")
}
