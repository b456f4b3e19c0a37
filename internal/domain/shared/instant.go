package shared

import "time"

// layoutDisplay is the external timestamp format used across all four
// output streams (spec.md §6): "dd/MM/yyyy HH:mm".
const layoutDisplay = "02/01/2006 15:04"

// Instant is a minute-resolution point in simulated time. All engine
// arithmetic happens in Instant; rendering to the external
// "dd/MM/yyyy HH:mm" format happens only at serialization, never
// internally, so a run is reproducible regardless of output format.
type Instant struct {
	t time.Time
}

// NewInstant truncates t to minute resolution and wraps it.
func NewInstant(t time.Time) Instant {
	return Instant{t: t.Truncate(time.Minute)}
}

// Zero reports whether the instant was never set.
func (i Instant) Zero() bool {
	return i.t.IsZero()
}

// Time returns the underlying time.Time.
func (i Instant) Time() time.Time {
	return i.t
}

// Add returns the instant offset by d, truncated to minute resolution.
func (i Instant) Add(d time.Duration) Instant {
	return NewInstant(i.t.Add(d))
}

// AddHours returns the instant offset by a fractional number of hours,
// the unit most of the engine's configured durations are expressed in.
func (i Instant) AddHours(hours float64) Instant {
	return i.Add(time.Duration(hours * float64(time.Hour)))
}

// AddSeconds returns the instant offset by a whole number of seconds,
// used for the "t, then t+1s" tied-timestamp ordering pattern. Unlike
// Add, it does not re-truncate to minute resolution: every caller of
// AddSeconds starts from an already minute-aligned Instant and needs
// the added second to survive as a genuine tie-break, not be rounded
// back away by NewInstant. The external Format layout omits seconds,
// so this sub-minute offset never leaks into rendered output — it
// only ever affects Before/After ordering and StateAt history lookup.
func (i Instant) AddSeconds(seconds int) Instant {
	return Instant{t: i.t.Add(time.Duration(seconds) * time.Second)}
}

// Before reports whether i occurs strictly before o.
func (i Instant) Before(o Instant) bool {
	return i.t.Before(o.t)
}

// After reports whether i occurs strictly after o.
func (i Instant) After(o Instant) bool {
	return i.t.After(o.t)
}

// Sub returns the duration i-o.
func (i Instant) Sub(o Instant) time.Duration {
	return i.t.Sub(o.t)
}

// DayKey returns the midnight-aligned local day this instant falls on,
// used to detect day-boundary crossings in the step driver.
func (i Instant) DayKey() Instant {
	y, m, d := i.t.Date()
	return NewInstant(time.Date(y, m, d, 0, 0, 0, 0, i.t.Location()))
}

// Format renders the instant using the external contract format.
func (i Instant) Format() string {
	if i.Zero() {
		return ""
	}
	return i.t.Format(layoutDisplay)
}

func (i Instant) String() string {
	return i.Format()
}
