package fixedloop

import "time"

// Clock is the monotonic time source the loop measures frames with.
// Time values returned by Now must carry a monotonic reading (or be
// strictly synthetic) so that Sub is immune to wall-clock adjustments.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// SystemClock is the default Clock backed by the runtime's monotonic clock.
var SystemClock Clock = systemClock{}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) Sleep(d time.Duration) {
	time.Sleep(d)
}
