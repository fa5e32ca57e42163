package vod

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Jonathanpatta/twitch-clip-vod-sync/twitchapi"
)

// HelixGateway implements Gateway on top of the Twitch Helix API.
type HelixGateway struct {
	Client *twitchapi.HelixClient
	// PageSize is the number of archived VODs fetched by ListBroadcasts.
	PageSize int
}

// NewHelixGateway returns a gateway using client and one page of pageSize VODs.
func NewHelixGateway(client *twitchapi.HelixClient, pageSize int) *HelixGateway {
	return &HelixGateway{Client: client, PageSize: pageSize}
}

// notFound reports whether err means Helix has no such record.
func notFound(err error) bool {
	var ae *twitchapi.APIError
	if errors.As(err, &ae) && ae.StatusCode == http.StatusNotFound {
		return true
	}
	return errors.Is(err, twitchapi.ErrNotFound)
}

// LookupUser implements Gateway.
func (g *HelixGateway) LookupUser(ctx context.Context, login string) (Streamer, error) {
	u, err := g.Client.GetUser(ctx, login)
	if err != nil {
		if notFound(err) {
			return Streamer{}, ErrUserNotFound
		}
		return Streamer{}, gatewayErr("lookup user", err)
	}
	name := u.DisplayName
	if name == "" {
		name = u.Login
	}
	return Streamer{ID: u.ID, DisplayName: name}, nil
}

// LookupClip implements Gateway. The clip's position inside its VOD is
// carried as a ?t= offset on the returned BroadcastURL.
func (g *HelixGateway) LookupClip(ctx context.Context, slug string) (*ClipRef, error) {
	c, err := g.Client.GetClip(ctx, slug)
	if err != nil {
		if notFound(err) {
			return nil, ErrClipNotFound
		}
		return nil, gatewayErr("lookup clip", err)
	}
	if c.VideoID == "" {
		return nil, nil
	}
	var offset Components
	if c.VODOffset != nil {
		offset = ComponentsFromSeconds(*c.VODOffset)
	}
	return &ClipRef{
		BroadcastID:  c.VideoID,
		BroadcastURL: twitchapi.VideoURL(c.VideoID) + "?t=" + offset.String(),
	}, nil
}

// GetBroadcast implements Gateway.
func (g *HelixGateway) GetBroadcast(ctx context.Context, id string) (time.Time, error) {
	v, err := g.Client.GetVideo(ctx, id)
	if err != nil {
		if notFound(err) {
			return time.Time{}, ErrBroadcastNotFound
		}
		return time.Time{}, gatewayErr("get video", err)
	}
	created, err := time.Parse(time.RFC3339, v.CreatedAt)
	if err != nil {
		return time.Time{}, gatewayErr("get video", fmt.Errorf("video %s created_at: %w", id, err))
	}
	return created.UTC(), nil
}

// ListBroadcasts implements Gateway. Only the first page is fetched.
func (g *HelixGateway) ListBroadcasts(ctx context.Context, userID string) ([]Broadcast, error) {
	videos, err := g.Client.ListVideos(ctx, userID, g.PageSize)
	if err != nil {
		return nil, gatewayErr("list videos", err)
	}
	out := make([]Broadcast, 0, len(videos))
	for _, v := range videos {
		b, err := toBroadcast(v)
		if err != nil {
			return nil, gatewayErr("list videos", err)
		}
		out = append(out, b)
	}
	return out, nil
}

func toBroadcast(v twitchapi.VideoMeta) (Broadcast, error) {
	created, err := time.Parse(time.RFC3339, v.CreatedAt)
	if err != nil {
		return Broadcast{}, fmt.Errorf("video %s created_at: %w", v.ID, err)
	}
	dur, err := ParseComponents(v.Duration)
	if err != nil {
		return Broadcast{}, fmt.Errorf("video %s duration: %w", v.ID, err)
	}
	u := v.URL
	if u == "" {
		u = twitchapi.VideoURL(v.ID)
	}
	return Broadcast{ID: v.ID, URL: u, Start: created.UTC(), Duration: dur}, nil
}
