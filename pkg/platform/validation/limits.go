package validation

import (
	"fmt"
	"unicode/utf8"

	dErrors "regadmin/pkg/domain-errors"
)

// HTTP body limits
const (
	// MaxBodySize is the maximum allowed request body size (64 KB).
	// The only bodies accepted are the refresh form posts.
	MaxBodySize = 64 * 1024
)

// String length limits
const (
	// MaxSearchTermLength bounds the search text carried in q parameters.
	// Keep in sync with the max tag on the handler's search params.
	MaxSearchTermLength = 200
)

// CheckStringLength validates that a string does not exceed max characters.
// Characters are runes, matching the validator's max tag.
func CheckStringLength(fieldName, value string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s exceeds max length of %d", fieldName, max))
	}
	return nil
}
