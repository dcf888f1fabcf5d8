package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Collection is the backend table registrations are read from.
const Collection = "registrations"

// NotAvailable is rendered for any field that is not present.
const NotAvailable = "N/A"

// StatusPending is the only status value with a highlighted style.
const StatusPending = "pending"

// Registration is a single applicant record. The backend enforces no schema,
// so every field is optional and decoded defensively: numbers and booleans are
// stringified and nulls are left nil.
type Registration struct {
	ID              *string `json:"id,omitempty"`
	FullName        *string `json:"full_name,omitempty"`
	MobileNumber    *string `json:"mobile_number,omitempty"`
	Address         *string `json:"address,omitempty"`
	CustomerID      *string `json:"customer_id,omitempty"`
	Ward            *string `json:"ward,omitempty"`
	CategoryDetails *string `json:"category_details,omitempty"`
	Category        *string `json:"category,omitempty"`
	CategoryName    *string `json:"category_name,omitempty"`
	Status          *string `json:"status,omitempty"`
	CreatedAt       *string `json:"created_at,omitempty"`
}

// fields maps backend column names to the record's slots.
func (r *Registration) fields() map[string]**string {
	return map[string]**string{
		"id":               &r.ID,
		"full_name":        &r.FullName,
		"mobile_number":    &r.MobileNumber,
		"address":          &r.Address,
		"customer_id":      &r.CustomerID,
		"ward":             &r.Ward,
		"category_details": &r.CategoryDetails,
		"category":         &r.Category,
		"category_name":    &r.CategoryName,
		"status":           &r.Status,
		"created_at":       &r.CreatedAt,
	}
}

// UnmarshalJSON accepts any JSON object. Unknown columns are ignored.
func (r *Registration) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("decode registration: %w", err)
	}
	*r = *FromMap(raw)
	return nil
}

// FromMap builds a Registration from a loosely typed row, as produced by
// JSON, YAML or row_to_json decoding.
func FromMap(raw map[string]any) *Registration {
	r := &Registration{}
	for key, slot := range r.fields() {
		v, ok := raw[key]
		if !ok {
			continue
		}
		if s, ok := scalarString(v); ok {
			*slot = &s
		}
	}
	return r
}

func scalarString(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case bool:
		return strconv.FormatBool(t), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case uint64:
		return strconv.FormatUint(t, 10), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case time.Time:
		return t.Format(time.RFC3339Nano), true
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t), true
		}
		return string(b), true
	}
}

// Present reports whether s is set and non-empty.
func Present(s *string) bool {
	return s != nil && *s != ""
}

// OrNA returns the value of s, or NotAvailable when it is not present.
func OrNA(s *string) string {
	if Present(s) {
		return *s
	}
	return NotAvailable
}

// Key identifies the record in a rendered list: its id, or the position when
// the id is missing.
func (r *Registration) Key(index int) string {
	if Present(r.ID) {
		return *r.ID
	}
	return strconv.Itoa(index)
}

// CategoryLabel resolves category_details, then category, then category_name.
func (r *Registration) CategoryLabel() string {
	for _, c := range []*string{r.CategoryDetails, r.Category, r.CategoryName} {
		if Present(c) {
			return *c
		}
	}
	return NotAvailable
}

// IsPending reports whether the status is exactly "pending".
func (r *Registration) IsPending() bool {
	return r.Status != nil && *r.Status == StatusPending
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z07",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParseTimestamp parses the timestamp shapes Postgres and PostgREST emit.
// Values without an offset are read as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
