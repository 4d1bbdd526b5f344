package clock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/innocentmk82/efecosall-sub001/internal/ports/out/clock"
)

type fixed time.Time

func (f fixed) Now() time.Time { return time.Time(f) }

func TestCurrentMonth(t *testing.T) {
	t.Parallel()

	// 23:30 UTC on the last day of March is already April in Athens.
	c := fixed(time.Date(2025, 3, 31, 23, 30, 0, 0, time.UTC))

	utc := clock.CurrentMonth(c, time.UTC)
	assert.True(t, utc.Start.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, utc.End.Equal(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)))

	athens, err := time.LoadLocation("Europe/Athens")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	local := clock.CurrentMonth(c, athens)
	assert.True(t, local.Start.Equal(time.Date(2025, 4, 1, 0, 0, 0, 0, athens)))
}
