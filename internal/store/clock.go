package store

import "time"

// Clock supplies the wall time stamped onto records. Injectable so tests
// (and replays) produce deterministic timestamps.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the real-time clock used by default.
func SystemClock() Clock { return systemClock{} }
