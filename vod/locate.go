package vod

import (
	"context"
	"time"
)

// Match is the VOD that was live at a given moment and the position of that
// moment inside it.
type Match struct {
	Broadcast Broadcast
	Offset    Components
}

// URL returns the VOD link with the offset as a ?t= parameter.
func (m Match) URL() string {
	return m.Broadcast.URL + "?t=" + m.Offset.String()
}

// FindBroadcast returns the first broadcast in list order whose interval
// contains t.
func FindBroadcast(broadcasts []Broadcast, t time.Time) (Broadcast, bool) {
	for _, b := range broadcasts {
		if b.Contains(t) {
			return b, true
		}
	}
	return Broadcast{}, false
}

// Locator finds which of a streamer's VODs covers a moment.
type Locator struct {
	Gateway Gateway
}

// Locate searches the first page of userID's archive for a VOD that was live
// at target and computes the offset into it, ClipDelay included.
func (l *Locator) Locate(ctx context.Context, userID string, target time.Time) (Match, error) {
	broadcasts, err := l.Gateway.ListBroadcasts(ctx, userID)
	if err != nil {
		return Match{}, err
	}
	if len(broadcasts) == 0 {
		return Match{}, ErrNoBroadcasts
	}
	b, ok := FindBroadcast(broadcasts, target)
	if !ok {
		return Match{}, ErrNoMatchingBroadcast
	}
	return Match{Broadcast: b, Offset: Difference(target, b.Start)}, nil
}
