package vod

import (
	"context"
	"time"
)

// Streamer identifies a Twitch channel.
type Streamer struct {
	ID          string
	DisplayName string
}

// ClipRef is the archived VOD a clip was cut from. BroadcastURL carries the
// clip position as a ?t= offset.
type ClipRef struct {
	BroadcastID  string
	BroadcastURL string
}

// Broadcast is an archived VOD with its start time and total length.
type Broadcast struct {
	ID       string
	URL      string
	Start    time.Time
	Duration Components
}

// End returns the last instant covered by b.
func (b Broadcast) End() time.Time { return AddOffset(b.Start, b.Duration) }

// Contains reports whether t lies in [Start, End], both ends inclusive.
func (b Broadcast) Contains(t time.Time) bool {
	return !t.Before(b.Start) && !t.After(b.End())
}

// Gateway supplies the provider data needed to resolve a link.
type Gateway interface {
	// LookupUser returns ErrUserNotFound for unknown logins.
	LookupUser(ctx context.Context, login string) (Streamer, error)
	// LookupClip returns a nil ClipRef when the clip's VOD has been deleted.
	LookupClip(ctx context.Context, slug string) (*ClipRef, error)
	// GetBroadcast returns the creation time of a VOD.
	GetBroadcast(ctx context.Context, id string) (time.Time, error)
	// ListBroadcasts returns one page of a user's archived VODs, newest first.
	ListBroadcasts(ctx context.Context, userID string) ([]Broadcast, error)
}
