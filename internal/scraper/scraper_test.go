package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyURL(t *testing.T) {
	tests := []struct {
		name    string
		date    string
		want    string
		wantErr bool
	}{
		{"single digit month and day", "2026-08-05", "https://www.producthunt.com/leaderboard/daily/2026/8/5", false},
		{"double digits", "2026-12-25", "https://www.producthunt.com/leaderboard/daily/2026/12/25", false},
		{"no zero padding", "2026-01-01", "https://www.producthunt.com/leaderboard/daily/2026/1/1", false},
		{"not a date", "yesterday", "", true},
		{"wrong layout", "08/28/2026", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := dailyURL(tt.date)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew(t *testing.T) {
	t.Run("at least one attempt", func(t *testing.T) {
		s := New(Options{MaxAttempts: 0})
		assert.Equal(t, 1, s.maxAttempts)
	})

	t.Run("options are kept", func(t *testing.T) {
		s := New(Options{Headless: true, UserAgent: "agent", MaxAttempts: 3})
		assert.True(t, s.headless)
		assert.Equal(t, "agent", s.userAgent)
		assert.Equal(t, 3, s.maxAttempts)
	})
}
