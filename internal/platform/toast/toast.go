// Package toast queues transient notices for the admin page.
//
// The page emits notices when a fetch settles; the next render drains them so
// each notice is shown once.
package toast

import (
	"sync"
	"time"
)

// Variant selects the notice style. The zero value is the default style.
type Variant string

const (
	VariantDefault     Variant = ""
	VariantDestructive Variant = "destructive"
)

// DefaultCapacity bounds the feed when no capacity is given.
const DefaultCapacity = 50

// Notice is a single transient message.
type Notice struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Variant     Variant   `json:"variant,omitempty"`
	At          time.Time `json:"at"`
}

// Destructive reports whether the notice uses the error style.
func (n Notice) Destructive() bool {
	return n.Variant == VariantDestructive
}

// Notifier accepts notices.
type Notifier interface {
	Notify(n Notice)
}

// Feed is a bounded in-memory Notifier. When full, the oldest notice is dropped.
type Feed struct {
	mu       sync.Mutex
	notices  []Notice
	capacity int
	now      func() time.Time
}

type Option func(*Feed)

func WithCapacity(n int) Option {
	return func(f *Feed) {
		if n > 0 {
			f.capacity = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(f *Feed) {
		f.now = now
	}
}

func NewFeed(opts ...Option) *Feed {
	f := &Feed{
		capacity: DefaultCapacity,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Notify appends n, stamping it when At is zero.
func (f *Feed) Notify(n Notice) {
	if n.At.IsZero() {
		n.At = f.now()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.notices) >= f.capacity {
		copy(f.notices, f.notices[1:])
		f.notices = f.notices[:len(f.notices)-1]
	}
	f.notices = append(f.notices, n)
}

// Drain returns the queued notices in arrival order and empties the feed.
func (f *Feed) Drain() []Notice {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.notices
	f.notices = nil
	if out == nil {
		return []Notice{}
	}
	return out
}

// Len returns the number of queued notices.
func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.notices)
}

var _ Notifier = (*Feed)(nil)
