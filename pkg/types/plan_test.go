package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTOUWindowContains(t *testing.T) {
	t.Run("all day all week", func(t *testing.T) {
		w := &TOUWindow{Label: RateLabelPeak, Start: "00:00", End: "24:00"}
		for dow := time.Sunday; dow <= time.Saturday; dow++ {
			for hour := 0; hour < 24; hour++ {
				assert.True(t, w.Contains(dow, hour), "dow=%d hour=%d", dow, hour)
			}
		}
	})

	t.Run("hour range is half open", func(t *testing.T) {
		w := &TOUWindow{Label: RateLabelPeak, Start: "14:00", End: "20:00"}
		assert.False(t, w.Contains(time.Monday, 13))
		assert.True(t, w.Contains(time.Monday, 14))
		assert.True(t, w.Contains(time.Monday, 19))
		assert.False(t, w.Contains(time.Monday, 20))
	})

	t.Run("minutes truncated", func(t *testing.T) {
		w := &TOUWindow{Label: RateLabelPeak, Start: "14:30", End: "20:45"}
		// 14:30 truncates to hour 14, 20:45 to hour 20
		assert.True(t, w.Contains(time.Monday, 14))
		assert.False(t, w.Contains(time.Monday, 20))
	})

	t.Run("day set filters", func(t *testing.T) {
		w := &TOUWindow{
			Label: RateLabelPeak,
			Days:  []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
			Start: "14:00",
			End:   "20:00",
		}
		assert.True(t, w.Contains(time.Monday, 15))
		assert.False(t, w.Contains(time.Sunday, 15))
		assert.False(t, w.Contains(time.Saturday, 15))
	})

	t.Run("wraps midnight", func(t *testing.T) {
		w := &TOUWindow{Label: RateLabelOffpeak, Start: "22:00", End: "06:00"}
		assert.True(t, w.Contains(time.Monday, 22))
		assert.True(t, w.Contains(time.Monday, 23))
		assert.True(t, w.Contains(time.Monday, 0))
		assert.True(t, w.Contains(time.Monday, 5))
		assert.False(t, w.Contains(time.Monday, 6))
		assert.False(t, w.Contains(time.Monday, 12))
	})

	t.Run("empty days matches every day", func(t *testing.T) {
		w := &TOUWindow{Label: RateLabelOffpeak, Start: "00:00", End: "07:00"}
		assert.True(t, w.Contains(time.Sunday, 3))
		assert.True(t, w.Contains(time.Wednesday, 3))
	})
}

func TestDateJSON(t *testing.T) {
	t.Run("calendar date", func(t *testing.T) {
		var d Date
		assert.NoError(t, d.UnmarshalJSON([]byte(`"2025-08-25"`)))
		assert.Equal(t, 2025, d.Year())
		assert.Equal(t, time.August, d.Month())
		assert.Equal(t, 25, d.Day())

		b, err := d.MarshalJSON()
		assert.NoError(t, err)
		assert.Equal(t, `"2025-08-25"`, string(b))
	})

	t.Run("rfc3339 truncates to day", func(t *testing.T) {
		var d Date
		assert.NoError(t, d.UnmarshalJSON([]byte(`"2025-08-25T15:04:05Z"`)))
		assert.Equal(t, 25, d.Day())
		assert.Equal(t, 0, d.Hour())
	})

	t.Run("invalid", func(t *testing.T) {
		var d Date
		assert.Error(t, d.UnmarshalJSON([]byte(`"25/08/2025"`)))
	})
}

func TestDateBefore(t *testing.T) {
	a := NewDate(2025, time.June, 30)
	b := NewDate(2025, time.July, 1)
	assert.True(t, a.Before(b))
	assert.False(t, b.Before(a))
	assert.False(t, b.Before(b))
}
