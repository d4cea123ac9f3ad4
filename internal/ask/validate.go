package ask

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var scopePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._:/-]{0,254}$`)

// trims the question, normalizes a blank scope to nil and checks bounds
func (q Query) normalize() (Query, error) {
	q.QuestionText = strings.TrimSpace(q.QuestionText)

	if q.QuestionText == "" {
		return q, fmt.Errorf("%w: question must not be empty", ErrInvalidQuery)
	}

	if utf8.RuneCountInString(q.QuestionText) > MaxQuestionRunes {
		return q, fmt.Errorf("%w: question exceeds %d characters", ErrInvalidQuery, MaxQuestionRunes)
	}

	if q.DatasetScope != nil {
		scope := strings.TrimSpace(*q.DatasetScope)

		switch {
		case scope == "":
			q.DatasetScope = nil
		case !scopePattern.MatchString(scope):
			return q, fmt.Errorf("%w: malformed dataset id %q", ErrInvalidQuery, scope)
		default:
			q.DatasetScope = &scope
		}
	}

	if q.ExactLimit < 0 || q.ExactLimit > MaxExactLimit {
		return q, fmt.Errorf("%w: exact limit must be between 0 and %d", ErrInvalidQuery, MaxExactLimit)
	}

	if q.SemanticLimit < 1 || q.SemanticLimit > MaxSemanticLimit {
		return q, fmt.Errorf("%w: semantic limit must be between 1 and %d", ErrInvalidQuery, MaxSemanticLimit)
	}

	return q, nil
}
