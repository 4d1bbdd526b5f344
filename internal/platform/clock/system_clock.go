package clock

import "time"

// SystemClock reads the wall clock in UTC at microsecond resolution, the finest
// precision Postgres and Firestore keep, so stored timestamps read back unchanged.
type SystemClock struct{}

func NewSystemClock() SystemClock { return SystemClock{} }

func (SystemClock) Now() time.Time { return time.Now().UTC().Truncate(time.Microsecond) }
