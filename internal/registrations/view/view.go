// Package view turns page state into the data the admin templates and the
// JSON endpoint render.
package view

import (
	"time"

	"regadmin/internal/platform/toast"
	"regadmin/internal/registrations/models"
)

// State selects which of the three table bodies is rendered.
type State string

const (
	StateLoading State = "loading"
	StateEmpty   State = "empty"
	StateRows    State = "rows"
)

// StatusTone picks the status badge style.
type StatusTone string

const (
	TonePending  StatusTone = "pending"
	ToneResolved StatusTone = "resolved"
)

const (
	LoadingText   = "Loading registrations..."
	EmptyText     = "No registrations found"
	AccuracyLabel = "100%"
	InvalidDate   = "Invalid Date"
)

// Columns are the table headings, in display order.
var Columns = []string{
	"Name",
	"Mobile",
	"Customer ID",
	"Ward",
	"Category Details",
	"Status",
	"Registration Date",
}

// Row is one rendered registration.
type Row struct {
	Key        string     `json:"key"`
	Name       string     `json:"name"`
	Mobile     string     `json:"mobile"`
	CustomerID string     `json:"customer_id"`
	Ward       string     `json:"ward"`
	Category   string     `json:"category_details"`
	Status     string     `json:"status"`
	StatusTone StatusTone `json:"status_tone"`
	Date       string     `json:"registration_date"`
}

// Pending reports whether the row uses the highlighted status style.
func (r Row) Pending() bool {
	return r.StatusTone == TonePending
}

// Stats backs the statistics card. Accuracy is a fixed label.
type Stats struct {
	Total    int    `json:"total"`
	Filtered int    `json:"filtered"`
	Accuracy string `json:"accuracy"`
}

// Page is everything one render needs.
type Page struct {
	Title       string `json:"-"`
	Description string `json:"-"`
	Search      string `json:"search"`
	Loading     bool   `json:"loading"`
	State       State  `json:"state"`
	Stats
	Rows        []Row          `json:"rows"`
	Notices     []toast.Notice `json:"notifications"`
	FetchedAt   *time.Time     `json:"fetched_at,omitempty"`
	GeneratedAt time.Time      `json:"generated_at"`
}

// ColumnCount is the colspan of the placeholder rows.
func (p Page) ColumnCount() int {
	return len(Columns)
}

// Columns exposes the table headings to templates.
func (p Page) Columns() []string {
	return Columns
}

// Formatter renders registration timestamps as dates.
type Formatter struct {
	Location *time.Location
	Layout   string
}

// Date formats raw in the configured zone, "N/A" when absent and
// "Invalid Date" when unparseable.
func (f Formatter) Date(raw *string) string {
	if !models.Present(raw) {
		return models.NotAvailable
	}
	t, err := models.ParseTimestamp(*raw)
	if err != nil {
		return InvalidDate
	}
	loc := f.Location
	if loc == nil {
		loc = time.UTC
	}
	layout := f.Layout
	if layout == "" {
		layout = "1/2/2006"
	}
	return t.In(loc).Format(layout)
}

// Input is the page state a render is built from.
type Input struct {
	Title       string
	Description string
	Search      string
	Loading     bool
	Total       int
	Filtered    []*models.Registration
	Notices     []toast.Notice
	FetchedAt   time.Time
	GeneratedAt time.Time
}

// Build derives the render model. Rows are only populated in StateRows.
func Build(in Input, f Formatter) Page {
	p := Page{
		Title:       in.Title,
		Description: in.Description,
		Search:      in.Search,
		Loading:     in.Loading,
		Stats: Stats{
			Total:    in.Total,
			Filtered: len(in.Filtered),
			Accuracy: AccuracyLabel,
		},
		Rows:        []Row{},
		Notices:     in.Notices,
		GeneratedAt: in.GeneratedAt,
	}
	if p.Notices == nil {
		p.Notices = []toast.Notice{}
	}
	if !in.FetchedAt.IsZero() {
		at := in.FetchedAt
		p.FetchedAt = &at
	}

	switch {
	case in.Loading:
		p.State = StateLoading
	case len(in.Filtered) == 0:
		p.State = StateEmpty
	default:
		p.State = StateRows
		p.Rows = make([]Row, 0, len(in.Filtered))
		for i, r := range in.Filtered {
			p.Rows = append(p.Rows, buildRow(r, i, f))
		}
	}
	return p
}

func buildRow(r *models.Registration, index int, f Formatter) Row {
	tone := ToneResolved
	if r.IsPending() {
		tone = TonePending
	}
	return Row{
		Key:        r.Key(index),
		Name:       models.OrNA(r.FullName),
		Mobile:     models.OrNA(r.MobileNumber),
		CustomerID: models.OrNA(r.CustomerID),
		Ward:       models.OrNA(r.Ward),
		Category:   r.CategoryLabel(),
		Status:     models.OrNA(r.Status),
		StatusTone: tone,
		Date:       f.Date(r.CreatedAt),
	}
}
