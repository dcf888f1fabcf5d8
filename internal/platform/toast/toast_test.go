package toast_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"regadmin/internal/platform/toast"
)

func TestFeed_DrainReturnsNoticesOnce(t *testing.T) {
	fixed := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	feed := toast.NewFeed(toast.WithClock(func() time.Time { return fixed }))

	feed.Notify(toast.Notice{Title: "Success", Description: "Loaded 1 registrations"})
	feed.Notify(toast.Notice{Title: "Error", Description: "Failed to fetch registrations", Variant: toast.VariantDestructive})

	got := feed.Drain()
	require.Len(t, got, 2)
	assert.Equal(t, "Success", got[0].Title)
	assert.Equal(t, fixed, got[0].At)
	assert.False(t, got[0].Destructive())
	assert.True(t, got[1].Destructive())

	again := feed.Drain()
	assert.NotNil(t, again)
	assert.Empty(t, again)
}

func TestFeed_DropsOldestWhenFull(t *testing.T) {
	feed := toast.NewFeed(toast.WithCapacity(3))
	for i := range 5 {
		feed.Notify(toast.Notice{Title: fmt.Sprintf("n%d", i)})
	}

	got := feed.Drain()
	require.Len(t, got, 3)
	assert.Equal(t, "n2", got[0].Title)
	assert.Equal(t, "n4", got[2].Title)
}

func TestFeed_ConcurrentNotify(t *testing.T) {
	feed := toast.NewFeed()
	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			feed.Notify(toast.Notice{Title: "x"})
		}()
	}
	wg.Wait()
	assert.Equal(t, 20, feed.Len())
}
