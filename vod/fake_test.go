package vod

import (
	"context"
	"time"
)

// fakeGateway is an in-memory Gateway keyed by login, clip slug and VOD id.
type fakeGateway struct {
	users      map[string]Streamer
	clips      map[string]*ClipRef
	broadcasts map[string]time.Time
	lists      map[string][]Broadcast

	err   error
	calls []string
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		users:      map[string]Streamer{},
		clips:      map[string]*ClipRef{},
		broadcasts: map[string]time.Time{},
		lists:      map[string][]Broadcast{},
	}
}

func (f *fakeGateway) LookupUser(_ context.Context, login string) (Streamer, error) {
	f.calls = append(f.calls, "user:"+login)
	if f.err != nil {
		return Streamer{}, f.err
	}
	s, ok := f.users[login]
	if !ok {
		return Streamer{}, ErrUserNotFound
	}
	return s, nil
}

func (f *fakeGateway) LookupClip(_ context.Context, slug string) (*ClipRef, error) {
	f.calls = append(f.calls, "clip:"+slug)
	c, ok := f.clips[slug]
	if !ok {
		return nil, ErrClipNotFound
	}
	return c, nil
}

func (f *fakeGateway) GetBroadcast(_ context.Context, id string) (time.Time, error) {
	f.calls = append(f.calls, "vod:"+id)
	t, ok := f.broadcasts[id]
	if !ok {
		return time.Time{}, ErrBroadcastNotFound
	}
	return t, nil
}

func (f *fakeGateway) ListBroadcasts(_ context.Context, userID string) ([]Broadcast, error) {
	f.calls = append(f.calls, "list:"+userID)
	return f.lists[userID], nil
}
