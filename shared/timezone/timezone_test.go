package timezone_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tempo/shared/timezone"
)

func TestLoad(t *testing.T) {
	loc, err := timezone.Load("Europe/Rome")
	require.NoError(t, err)
	assert.Equal(t, "Europe/Rome", loc.String())

	cached, err := timezone.Load("Europe/Rome")
	require.NoError(t, err)
	assert.Same(t, loc, cached)

	_, err = timezone.Load("Mars/Olympus_Mons")
	assert.ErrorIs(t, err, timezone.ErrUnknown)

	_, err = timezone.Load("")
	assert.ErrorIs(t, err, timezone.ErrUnknown)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name       string
		candidates []string
		expected   string
	}{
		{
			name:       "input zone wins",
			candidates: []string{"Europe/London", "Europe/Rome"},
			expected:   "Europe/London",
		},
		{
			name:       "field default when input is empty",
			candidates: []string{"", "Europe/Rome"},
			expected:   "Europe/Rome",
		},
		{
			name:       "unknown input falls through to field default",
			candidates: []string{"Not/AZone", "Europe/Rome"},
			expected:   "Europe/Rome",
		},
		{
			name:       "nothing configured",
			candidates: []string{"", ""},
			expected:   timezone.UTC,
		},
		{
			name:       "no candidates",
			candidates: nil,
			expected:   timezone.UTC,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, timezone.Resolve(tt.candidates...))
		})
	}
}

func TestAppTimezone(t *testing.T) {
	timezone.Init("Asia/Jakarta")
	t.Cleanup(func() { timezone.Init(timezone.UTC) })

	assert.Equal(t, "Asia/Jakarta", timezone.Name())

	utcTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-01-01 19:00", timezone.Format(utcTime, "2006-01-02 15:04"))
	assert.Equal(t, "Asia/Jakarta", timezone.Now().Location().String())

	timezone.Init("Bogus/Zone")
	assert.Equal(t, "Asia/Jakarta", timezone.Name())
}
