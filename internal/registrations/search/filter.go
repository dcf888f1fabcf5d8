// Package search derives the displayed subset of registrations from a search term.
package search

import (
	"strings"

	"regadmin/internal/registrations/models"
)

// Filter returns the records matching term, in their original order. The
// result shares record pointers with the input; neither is modified.
func Filter(records []*models.Registration, term string) []*models.Registration {
	out := make([]*models.Registration, 0, len(records))
	needle := strings.ToLower(term)
	for _, r := range records {
		if r == nil {
			continue
		}
		if term == "" || matches(r, term, needle) {
			out = append(out, r)
		}
	}
	return out
}

// Matches reports whether a single record passes the filter.
// Name and address match case-insensitively; mobile numbers match as typed.
func Matches(r *models.Registration, term string) bool {
	if r == nil {
		return false
	}
	if term == "" {
		return true
	}
	return matches(r, term, strings.ToLower(term))
}

func matches(r *models.Registration, term, lowered string) bool {
	if r.FullName != nil && strings.Contains(strings.ToLower(*r.FullName), lowered) {
		return true
	}
	if r.MobileNumber != nil && strings.Contains(*r.MobileNumber, term) {
		return true
	}
	return r.Address != nil && strings.Contains(strings.ToLower(*r.Address), lowered)
}
