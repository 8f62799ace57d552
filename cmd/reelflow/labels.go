package main

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var labelCaser = cases.Title(language.English)

// statusLabel turns a status token like CREATOR_BRIEFING into a
// human-readable column heading like "Creator Briefing".
func statusLabel(status string) string {
	token := strings.TrimSpace(status)
	if token == "" {
		return ""
	}
	words := strings.ReplaceAll(strings.ToLower(token), "_", " ")
	return labelCaser.String(words)
}
