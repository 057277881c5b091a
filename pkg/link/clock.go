package link

import "time"

// Clock supplies the millisecond uptime counter the scheduler runs on.
// Elapsed time is computed with uint32 subtraction, so wrap-around is safe.
type Clock interface {
	Millis() uint32
	Sleep(d time.Duration)
}

// SystemClock counts milliseconds since it was created.
type SystemClock struct {
	start time.Time
}

// NewSystemClock creates a clock starting at zero.
func NewSystemClock() *SystemClock {
	return &SystemClock{start: time.Now()}
}

func (c *SystemClock) Millis() uint32 {
	return uint32(time.Since(c.start) / time.Millisecond)
}

func (c *SystemClock) Sleep(d time.Duration) {
	time.Sleep(d)
}
