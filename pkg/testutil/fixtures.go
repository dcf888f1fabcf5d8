package testutil

import (
	"fmt"
	"sync/atomic"

	"regadmin/internal/registrations/models"
)

var seq atomic.Int64

// Str returns a pointer to s, for building optional fields inline.
func Str(s string) *string {
	return &s
}

// RegistrationOption customizes a test registration.
type RegistrationOption func(*models.Registration)

func WithID(id string) RegistrationOption {
	return func(r *models.Registration) { r.ID = Str(id) }
}

func WithFullName(name string) RegistrationOption {
	return func(r *models.Registration) { r.FullName = Str(name) }
}

func WithMobile(mobile string) RegistrationOption {
	return func(r *models.Registration) { r.MobileNumber = Str(mobile) }
}

func WithAddress(address string) RegistrationOption {
	return func(r *models.Registration) { r.Address = Str(address) }
}

func WithStatus(status string) RegistrationOption {
	return func(r *models.Registration) { r.Status = Str(status) }
}

func WithCategory(category string) RegistrationOption {
	return func(r *models.Registration) { r.Category = Str(category) }
}

func WithCategoryDetails(details string) RegistrationOption {
	return func(r *models.Registration) { r.CategoryDetails = Str(details) }
}

func WithCreatedAt(ts string) RegistrationOption {
	return func(r *models.Registration) { r.CreatedAt = Str(ts) }
}

// NewTestRegistration builds a registration with a unique id and the given overrides.
// Only id is set by default; every other field starts absent.
func NewTestRegistration(opts ...RegistrationOption) *models.Registration {
	r := &models.Registration{ID: Str(fmt.Sprintf("test-%d", seq.Add(1)))}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// AshaRao is the canonical single pending registration used across page,
// handler and e2e tests.
func AshaRao() *models.Registration {
	return NewTestRegistration(
		WithID("1"),
		WithFullName("Asha Rao"),
		WithMobile("9876543210"),
		WithStatus(models.StatusPending),
		WithCreatedAt("2024-01-05T00:00:00Z"),
	)
}
