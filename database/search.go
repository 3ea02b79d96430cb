package database

import (
	"fmt"
	"strings"
)

// SearchQueryParser validates and transforms user search queries to PostgreSQL tsquery format.
// Enforces minimum/maximum length and sanitizes special characters.
type SearchQueryParser struct {
	minLength int
	maxLength int
}

// NewSearchQueryParser creates a SearchQueryParser with default limits:
// minimum 2 characters, maximum 200 characters.
func NewSearchQueryParser() *SearchQueryParser {
	return &SearchQueryParser{
		minLength: 2,
		maxLength: 200,
	}
}

// Parse converts a user's search query to PostgreSQL tsquery format.
// Performs the following transformations:
//  1. Trims whitespace
//  2. Validates length
//  3. Removes tsquery operators and quotes
//  4. Splits into words
//  5. Filters out single-character words
//  6. Converts to lowercase
//  7. Joins with " & " (AND operator)
//
// Examples:
//
//	"React Native" → "react & native"
//	"design (systems)" → "design & systems"
//	"a go b" → "go"
func (p *SearchQueryParser) Parse(query string) (string, error) {
	query = strings.TrimSpace(query)

	if len(query) < p.minLength {
		return "", fmt.Errorf("search query must be at least %d characters", p.minLength)
	}

	if len(query) > p.maxLength {
		return "", fmt.Errorf("search query too long (max %d characters)", p.maxLength)
	}

	words := strings.Fields(p.sanitize(query))
	if len(words) == 0 {
		return "", fmt.Errorf("search query is empty")
	}

	validWords := p.filterValidWords(words)
	if len(validWords) == 0 {
		return "", fmt.Errorf("no valid search terms")
	}

	return strings.Join(validWords, " & "), nil
}

var tsqueryReplacer = strings.NewReplacer(
	`"`, " ", "'", " ", "(", " ", ")", " ",
	"&", " ", "|", " ", "!", " ", ":", " ", "*", " ", "<", " ", ">", " ", `\`, " ",
)

func (p *SearchQueryParser) sanitize(query string) string {
	return tsqueryReplacer.Replace(query)
}

func (p *SearchQueryParser) filterValidWords(words []string) []string {
	valid := []string{}
	for _, word := range words {
		if len(word) >= 2 {
			valid = append(valid, strings.ToLower(word))
		}
	}
	return valid
}
