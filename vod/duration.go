package vod

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"
)

// ClipDelay compensates for the lag between the moment a viewer presses the
// clip button and the moment Twitch records as the clip's position.
const ClipDelay = 30 * time.Second

// Components is an hours/minutes/seconds triple as found in Twitch durations
// ("3h15m42s") and VOD offsets (?t=1h2m3s). Fields are not normalised: 125
// minutes is a valid value.
type Components struct {
	Hours   int
	Minutes int
	Seconds int
}

// String renders c the way Twitch expects in a ?t= parameter, without padding.
func (c Components) String() string {
	return fmt.Sprintf("%dh%dm%ds", c.Hours, c.Minutes, c.Seconds)
}

// maxOffsetMillis is the largest offset, in milliseconds, that fits in a
// time.Duration.
const maxOffsetMillis = math.MaxInt64 / int64(time.Millisecond)

// millis returns the total length of c in milliseconds, counting negative
// fields as zero. ok is false when the total exceeds maxOffsetMillis.
func (c Components) millis() (ms int64, ok bool) {
	for _, p := range [...]struct {
		n    int
		unit int64
	}{{c.Hours, 60 * 60 * 1000}, {c.Minutes, 60 * 1000}, {c.Seconds, 1000}} {
		n := max(int64(p.n), 0)
		if n > (maxOffsetMillis-ms)/p.unit {
			return maxOffsetMillis, false
		}
		ms += n * p.unit
	}
	return ms, true
}

// ComponentsFromSeconds splits a second count into hours, minutes and seconds.
func ComponentsFromSeconds(n int) Components {
	if n < 0 {
		n = 0
	}
	return Components{Hours: n / 3600, Minutes: n % 3600 / 60, Seconds: n % 60}
}

var componentsPattern = regexp.MustCompile(`^(?:(\d+)h)?(?:(\d+)m)?(?:(\d+)s)?$`)

// ParseComponents parses strings like "1h2m3s", "45m", "90s" or "". Units must
// appear in h, m, s order; missing units are zero.
func ParseComponents(s string) (Components, error) {
	m := componentsPattern.FindStringSubmatch(s)
	if m == nil {
		return Components{}, fmt.Errorf("%w: %q", ErrInvalidOffset, s)
	}
	var out Components
	for i, dst := range []*int{&out.Hours, &out.Minutes, &out.Seconds} {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return Components{}, fmt.Errorf("%w: %q", ErrInvalidOffset, s)
		}
		*dst = n
	}
	if _, ok := out.millis(); !ok {
		return Components{}, fmt.Errorf("%w: %q out of range", ErrInvalidOffset, s)
	}
	return out, nil
}

// AddOffset returns base moved forward by c. Components are added as raw
// milliseconds, so out-of-range minutes or seconds carry naturally. Totals
// beyond the range of time.Duration saturate.
func AddOffset(base time.Time, c Components) time.Time {
	ms, _ := c.millis()
	return base.Add(time.Duration(ms) * time.Millisecond)
}

// Difference returns the distance between a and b in whole hours, minutes and
// seconds after removing ClipDelay. The delay is subtracted from the signed
// delta before taking the absolute value, so Difference(a, b) and
// Difference(b, a) differ by up to a minute.
func Difference(a, b time.Time) Components {
	ms := a.Sub(b).Milliseconds() - ClipDelay.Milliseconds()
	if ms < 0 {
		ms = -ms
	}
	s := ms / 1000
	m := s / 60
	s %= 60
	h := m / 60
	m %= 60
	return Components{Hours: int(h), Minutes: int(m), Seconds: int(s)}
}
