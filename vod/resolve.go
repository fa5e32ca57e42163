package vod

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// LinkKind tells clip links apart from direct VOD links.
type LinkKind int

const (
	KindClip LinkKind = iota + 1
	KindVOD
)

func (k LinkKind) String() string {
	switch k {
	case KindClip:
		return "clip"
	case KindVOD:
		return "vod"
	default:
		return "unknown"
	}
}

var (
	clipURLPattern = regexp.MustCompile(`^(?:https?://)?(?:clips\.twitch\.tv/[^/?#\s]+|(?:www\.|m\.)?twitch\.tv/[^/?#\s]+/clip/[^/?#\s]+)/?(?:[?#]\S*)?$`)
	vodURLPattern  = regexp.MustCompile(`^(?:https?://)?(?:www\.|m\.)?twitch\.tv/videos/\d+/?(?:[?#]\S*)?$`)
)

// ClassifyURL reports whether raw is a clip link or a VOD link.
func ClassifyURL(raw string) (LinkKind, error) {
	raw = strings.TrimSpace(raw)
	switch {
	case clipURLPattern.MatchString(raw):
		if _, err := clipSlug(raw); err != nil {
			return 0, err
		}
		return KindClip, nil
	case vodURLPattern.MatchString(raw):
		return KindVOD, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}
}

// lastSegment returns the last path segment of a link, ignoring the query,
// fragment and a trailing slash. It yields the slug of a clip link and the
// id of a VOD link.
func lastSegment(raw string) string {
	if i := strings.IndexAny(raw, "?#"); i >= 0 {
		raw = raw[:i]
	}
	raw = strings.TrimSuffix(raw, "/")
	return raw[strings.LastIndex(raw, "/")+1:]
}

// clipSlug returns the clip id of a clip link. Embed links
// (clips.twitch.tv/embed?clip=<slug>) carry it in the clip parameter.
func clipSlug(raw string) (string, error) {
	slug := lastSegment(raw)
	if slug != "embed" {
		return slug, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if slug = u.Query().Get("clip"); slug == "" {
		return "", fmt.Errorf("%w: %q has no clip parameter", ErrInvalidURL, raw)
	}
	return slug, nil
}

// linkOffset parses the ?t= parameter of a VOD link. A link without one
// points at the start of the VOD.
func linkOffset(raw string) (Components, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Components{}, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	return ParseComponents(u.Query().Get("t"))
}

// Resolver turns a clip or VOD link into the wall-clock moment it points at.
type Resolver struct {
	Gateway Gateway
}

// Resolve returns the moment raw refers to: the VOD's creation time plus the
// link's offset.
func (r *Resolver) Resolve(ctx context.Context, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	kind, err := ClassifyURL(raw)
	if err != nil {
		return time.Time{}, err
	}

	var id, workingURL string
	switch kind {
	case KindClip:
		slug, err := clipSlug(raw)
		if err != nil {
			return time.Time{}, err
		}
		clip, err := r.Gateway.LookupClip(ctx, slug)
		if err != nil {
			return time.Time{}, err
		}
		if clip == nil {
			return time.Time{}, ErrClipBroadcastRemoved
		}
		id, workingURL = clip.BroadcastID, clip.BroadcastURL
	default:
		id, workingURL = lastSegment(raw), raw
	}

	start, err := r.Gateway.GetBroadcast(ctx, id)
	if err != nil {
		return time.Time{}, err
	}
	offset, err := linkOffset(workingURL)
	if err != nil {
		return time.Time{}, err
	}
	return AddOffset(start, offset), nil
}
