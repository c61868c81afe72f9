//go:build unit

package schedule_test

import (
	"testing"

	"bookline/internal/domain/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		input   string
		minutes int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"08:30", 510, false},
		{"23:59", 1439, false},
		{"09:15:30", 555, false},
		{"24:00", 0, true},
		{"8:30pm", 0, true},
		{"", 0, true},
		{"abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := schedule.ParseTimeOfDay(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, schedule.ErrInvalidTimeOfDay)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.minutes, got.Minutes())
		})
	}
}

func TestTimeOfDayString(t *testing.T) {
	tod, err := schedule.NewTimeOfDay(9, 5)
	require.NoError(t, err)
	assert.Equal(t, "09:05", tod.String())

	assert.Equal(t, "14:30", schedule.TimeOfDay(870).String())
}

func TestNewInterval(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		iv, err := schedule.NewInterval(schedule.TimeOfDay(540), schedule.TimeOfDay(600))
		require.NoError(t, err)
		assert.Equal(t, 60, iv.DurationMin())
	})

	t.Run("end before start", func(t *testing.T) {
		_, err := schedule.NewInterval(schedule.TimeOfDay(600), schedule.TimeOfDay(540))
		assert.ErrorIs(t, err, schedule.ErrInvalidTimeOfDay)
	})

	t.Run("zero length", func(t *testing.T) {
		_, err := schedule.NewInterval(schedule.TimeOfDay(600), schedule.TimeOfDay(600))
		assert.ErrorIs(t, err, schedule.ErrInvalidTimeOfDay)
	})

	t.Run("past midnight", func(t *testing.T) {
		_, err := schedule.NewInterval(schedule.TimeOfDay(1400), schedule.TimeOfDay(1500))
		assert.ErrorIs(t, err, schedule.ErrInvalidTimeOfDay)
	})
}

func TestIntervalContains(t *testing.T) {
	outer := mustInterval(t, "09:00", "17:00")

	assert.True(t, outer.Contains(mustInterval(t, "09:00", "17:00")))
	assert.True(t, outer.Contains(mustInterval(t, "10:00", "11:00")))
	assert.False(t, outer.Contains(mustInterval(t, "08:30", "09:30")))
	assert.False(t, outer.Contains(mustInterval(t, "16:30", "17:30")))
}
