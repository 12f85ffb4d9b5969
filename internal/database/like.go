package database

import "strings"

// LikeEscape is appended to LIKE comparisons built with ContainsPattern.
// '!' works as an escape character on postgres, mysql and sqlite alike.
const LikeEscape = "ESCAPE '!'"

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// ContainsPattern lowercases term and wraps it for a case-insensitive
// substring match, escaping LIKE wildcards so they match literally.
func ContainsPattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
}
