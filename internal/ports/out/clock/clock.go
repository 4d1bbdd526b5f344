package clock

import (
	"time"

	"github.com/innocentmk82/efecosall-sub001/internal/domain"
)

// Clock is the time source for record timestamps and the default budget month.
type Clock interface {
	Now() time.Time
}

// CurrentMonth is the calendar month in loc that contains c.Now().
func CurrentMonth(c Clock, loc *time.Location) domain.Window {
	return domain.MonthWindow(c.Now(), loc)
}
