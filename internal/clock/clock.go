// Package clock abstracts wall-clock reads so the session core can be
// tested with deterministic timestamps.
package clock

import "time"

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// System reads the real wall clock, truncated to second resolution to
// match the log's HH:MM:SS granularity.
type System struct{}

// Now returns the current local time truncated to the second.
func (System) Now() time.Time {
	return time.Now().Truncate(time.Second)
}

// Fixed is a Clock that returns a preset sequence of times, advancing one
// step per Now call and repeating the last entry when exhausted.
type Fixed struct {
	Times []time.Time
	idx   int
}

// Now returns the next preset time.
func (f *Fixed) Now() time.Time {
	if len(f.Times) == 0 {
		return time.Time{}
	}
	t := f.Times[f.idx]
	if f.idx < len(f.Times)-1 {
		f.idx++
	}
	return t
}
