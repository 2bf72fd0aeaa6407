package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntryBuckets(t *testing.T) {
	cases := []struct {
		name      string
		entry     Entry
		completed bool
		reading   bool
	}{
		{
			name:      "untouched entry is neither reading nor completed",
			entry:     Entry{Progress: 0, Status: StatusUnread},
			completed: false,
			reading:   false,
		},
		{
			name:      "just below the threshold still counts as reading",
			entry:     Entry{Progress: 97, Status: StatusReading},
			completed: false,
			reading:   true,
		},
		{
			name:      "threshold progress counts as completed",
			entry:     Entry{Progress: 98, Status: StatusReading},
			completed: true,
			reading:   false,
		},
		{
			name:      "full progress counts as completed",
			entry:     Entry{Progress: 100, Status: StatusReading},
			completed: true,
			reading:   false,
		},
		{
			name:      "explicit completed status overrides low progress",
			entry:     Entry{Progress: 40, Status: StatusCompleted},
			completed: true,
			reading:   false,
		},
		{
			name:      "barely started is reading",
			entry:     Entry{Progress: 0.5, Status: StatusReading},
			completed: false,
			reading:   true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.completed, tc.entry.IsCompleted())
			assert.Equal(t, tc.reading, tc.entry.IsReading())
		})
	}
}

func TestEntryMatchesFilter(t *testing.T) {
	untouched := Entry{Progress: 0, Status: StatusUnread}
	reading := Entry{Progress: 50, Status: StatusReading}
	completed := Entry{Progress: 99, Status: StatusReading}

	t.Run("all matches everything", func(t *testing.T) {
		assert.True(t, untouched.MatchesFilter(FilterAll))
		assert.True(t, reading.MatchesFilter(FilterAll))
		assert.True(t, completed.MatchesFilter(FilterAll))
	})

	t.Run("reading bucket", func(t *testing.T) {
		assert.False(t, untouched.MatchesFilter(FilterReading))
		assert.True(t, reading.MatchesFilter(FilterReading))
		assert.False(t, completed.MatchesFilter(FilterReading))
	})

	t.Run("completed bucket", func(t *testing.T) {
		assert.False(t, untouched.MatchesFilter(FilterCompleted))
		assert.False(t, reading.MatchesFilter(FilterCompleted))
		assert.True(t, completed.MatchesFilter(FilterCompleted))
	})

	t.Run("unknown filter behaves like all", func(t *testing.T) {
		assert.True(t, untouched.MatchesFilter("whatever"))
	})
}
