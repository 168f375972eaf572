// Package validation checks user-supplied request parameters before they
// reach the API: identifiers, space keys, CQL, titles, labels, and limits.
// Failures carry the validation exit code.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/grandcamel/confluence-skills/internal/errors"
)

var (
	numericRe  = regexp.MustCompile(`^[0-9]+$`)
	spaceKeyRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]+$`)
	labelRe    = regexp.MustCompile(`^[a-z0-9_-]+$`)
)

// DefaultLimit is used when a caller passes no result limit.
const DefaultLimit = 25

// MaxLimit caps a single request's result window.
const MaxLimit = 250

func invalid(format string, args ...interface{}) error {
	return errors.NewError(fmt.Sprintf(format, args...), errors.ExitValidationError)
}

// ID validates a numeric content identifier. fieldName names the parameter
// in the error message ("page_id", "comment_id", ...).
func ID(value, fieldName string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", invalid("%s is required", fieldName)
	}
	if !numericRe.MatchString(value) {
		return "", invalid("%s must be numeric, got %q", fieldName, value)
	}
	return value, nil
}

// PageID validates a page identifier.
func PageID(value string) (string, error) {
	return ID(value, "page_id")
}

// CommentID validates a comment identifier.
func CommentID(value string) (string, error) {
	return ID(value, "comment_id")
}

// SpaceKey validates and uppercases a space key: letters, digits, and
// underscores, starting with a letter, at least two characters.
func SpaceKey(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", invalid("space key is required")
	}
	if !spaceKeyRe.MatchString(value) {
		return "", invalid("invalid space key %q: letters, digits, and underscores only, starting with a letter", value)
	}
	return strings.ToUpper(value), nil
}

// CQL validates a CQL query: non-empty with balanced parentheses and
// double quotes. Semantic errors are left to the API.
func CQL(query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", invalid("CQL query is required")
	}
	depth := 0
	inQuote := false
	for _, r := range query {
		switch r {
		case '"':
			inQuote = !inQuote
		case '(':
			if !inQuote {
				depth++
			}
		case ')':
			if !inQuote {
				depth--
			}
			if depth < 0 {
				return "", invalid("CQL query has unbalanced parentheses")
			}
		}
	}
	if depth != 0 {
		return "", invalid("CQL query has unbalanced parentheses")
	}
	if inQuote {
		return "", invalid("CQL query has an unterminated quote")
	}
	return query, nil
}

// ContentType validates a content type against allowed values (lowercased).
// With no explicit allowed list, page, blogpost, comment, and attachment
// are accepted.
func ContentType(value string, allowed ...string) (string, error) {
	if len(allowed) == 0 {
		allowed = []string{"page", "blogpost", "comment", "attachment"}
	}
	value = strings.ToLower(strings.TrimSpace(value))
	for _, a := range allowed {
		if value == a {
			return value, nil
		}
	}
	return "", invalid("invalid content type %q (want one of %s)", value, strings.Join(allowed, ", "))
}

// Title validates a page title: non-empty, at most 255 characters, without
// the characters Confluence rejects in titles.
func Title(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", invalid("title is required")
	}
	if len([]rune(value)) > 255 {
		return "", invalid("title exceeds 255 characters")
	}
	if i := strings.IndexAny(value, ":|"); i >= 0 {
		return "", invalid("title contains invalid character %q", string(value[i]))
	}
	return value, nil
}

// Label validates and lowercases a label name: letters, digits, hyphens,
// and underscores, no spaces.
func Label(value string) (string, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return "", invalid("label is required")
	}
	if !labelRe.MatchString(value) {
		return "", invalid("invalid label %q: letters, digits, hyphens, and underscores only", value)
	}
	return value, nil
}

// Limit validates a result limit. Zero takes the default; the result is
// always within [1, MaxLimit].
func Limit(value, defaultValue int) (int, error) {
	if defaultValue <= 0 {
		defaultValue = DefaultLimit
	}
	if value == 0 {
		return defaultValue, nil
	}
	if value < 1 {
		return 0, invalid("limit must be at least 1, got %d", value)
	}
	if value > MaxLimit {
		return 0, invalid("limit must be at most %d, got %d", MaxLimit, value)
	}
	return value, nil
}
