package autosave

import "time"

// Policy is the autosave countdown.
//
// Every period the countdown expires. A dirty canvas is then saved; a
// clean one is not, and the countdown simply restarts. A manual save
// restarts it too.
type Policy struct {
	period   time.Duration
	deadline time.Time
}

// NewPolicy starts a countdown of period at now. A non-positive period
// selects DefaultPeriod.
func NewPolicy(period time.Duration, now time.Time) *Policy {
	if period <= 0 {
		period = DefaultPeriod
	}
	return &Policy{period: period, deadline: now.Add(period)}
}

// Period returns the countdown length.
func (p *Policy) Period() time.Duration { return p.period }

// Tick advances the countdown to now and reports whether a save is due.
func (p *Policy) Tick(now time.Time, dirty bool) bool {
	if now.Before(p.deadline) {
		return false
	}
	p.Reset(now)
	return dirty
}

// Reset restarts the countdown at now.
func (p *Policy) Reset(now time.Time) {
	p.deadline = now.Add(p.period)
}

// Remaining returns the time left before the countdown expires.
func (p *Policy) Remaining(now time.Time) time.Duration {
	return max(p.deadline.Sub(now), 0)
}

// Fraction returns how much of the countdown is left, from 1 right after a
// reset down to 0 at expiry.
func (p *Policy) Fraction(now time.Time) float64 {
	return float64(p.Remaining(now)) / float64(p.period)
}
