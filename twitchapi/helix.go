// Package twitchapi contains minimal helpers to interact with Twitch Helix APIs
// for user, clip and archived VOD lookups, using an app access token.
package twitchapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Jonathanpatta/twitch-clip-vod-sync/telemetry"
)

// DefaultBaseURL is the Helix API root.
const DefaultBaseURL = "https://api.twitch.tv/helix"

// MaxPageSize is the largest "first" value Helix accepts.
const MaxPageSize = 100

// ErrNotFound is returned when Helix answers with an empty data array.
var ErrNotFound = errors.New("not found")

// APIError is a non-2xx Helix response.
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("helix request failed: %s: %s", e.Status, e.Body)
}

// HelixClient provides minimal methods needed for clip and VOD lookups.
type HelixClient struct {
	AppTokenSource *TokenSource
	ClientID       string
	BaseURL        string
	HTTPClient     *http.Client
}

func (hc *HelixClient) http() *http.Client {
	if hc.HTTPClient != nil {
		return hc.HTTPClient
	}
	return http.DefaultClient
}

func (hc *HelixClient) baseURL() string {
	if hc.BaseURL != "" {
		return strings.TrimSuffix(hc.BaseURL, "/")
	}
	return DefaultBaseURL
}

// get issues an authenticated GET to endpoint and decodes the JSON body into out.
func (hc *HelixClient) get(ctx context.Context, endpoint string, q url.Values, out any) error {
	tok, err := hc.AppTokenSource.Get(ctx)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, hc.baseURL()+"/"+endpoint, nil)
	if err != nil {
		return err
	}
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Client-Id", hc.ClientID)
	req.Header.Set("Authorization", "Bearer "+tok)
	var resp *http.Response
	telemetry.TimeFunc(telemetry.HelixDuration, func() {
		resp, err = hc.http().Do(req)
	})
	if err != nil {
		telemetry.ObserveHelix(endpoint, 0)
		return err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Warn("failed to close response body", slog.Any("err", err))
		}
	}()
	telemetry.ObserveHelix(endpoint, resp.StatusCode)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Status: resp.Status, Body: strings.TrimSpace(string(b))}
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// User is a Helix user record.
type User struct {
	ID          string `json:"id"`
	Login       string `json:"login"`
	DisplayName string `json:"display_name"`
}

// GetUser resolves a login name to its user record.
func (hc *HelixClient) GetUser(ctx context.Context, login string) (User, error) {
	if login == "" {
		return User{}, fmt.Errorf("login empty")
	}
	var body struct {
		Data []User `json:"data"`
	}
	if err := hc.get(ctx, "users", url.Values{"login": {login}}, &body); err != nil {
		return User{}, err
	}
	if len(body.Data) == 0 {
		return User{}, fmt.Errorf("user %q: %w", login, ErrNotFound)
	}
	return body.Data[0], nil
}

// Clip is a Helix clip record. VideoID is empty when the source VOD is gone;
// VODOffset is nil when Twitch does not know the clip's position.
type Clip struct {
	ID            string  `json:"id"`
	URL           string  `json:"url"`
	BroadcasterID string  `json:"broadcaster_id"`
	VideoID       string  `json:"video_id"`
	VODOffset     *int    `json:"vod_offset"`
	Duration      float64 `json:"duration"`
	CreatedAt     string  `json:"created_at"`
}

// GetClip looks up a clip by its slug.
func (hc *HelixClient) GetClip(ctx context.Context, id string) (Clip, error) {
	if id == "" {
		return Clip{}, fmt.Errorf("clip id empty")
	}
	var body struct {
		Data []Clip `json:"data"`
	}
	if err := hc.get(ctx, "clips", url.Values{"id": {id}}, &body); err != nil {
		return Clip{}, err
	}
	if len(body.Data) == 0 {
		return Clip{}, fmt.Errorf("clip %q: %w", id, ErrNotFound)
	}
	return body.Data[0], nil
}

// VideoMeta is a Helix video record.
type VideoMeta struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	Duration  string `json:"duration"`
	CreatedAt string `json:"created_at"`
}

// GetVideo looks up a single video by id.
func (hc *HelixClient) GetVideo(ctx context.Context, id string) (VideoMeta, error) {
	if id == "" {
		return VideoMeta{}, fmt.Errorf("video id empty")
	}
	var body struct {
		Data []VideoMeta `json:"data"`
	}
	if err := hc.get(ctx, "videos", url.Values{"id": {id}}, &body); err != nil {
		return VideoMeta{}, err
	}
	if len(body.Data) == 0 {
		return VideoMeta{}, fmt.Errorf("video %q: %w", id, ErrNotFound)
	}
	return body.Data[0], nil
}

// ListVideos returns the first page of a user's archive videos, newest first.
// Older pages are never needed: only the most recent archives can overlap a
// moment that is still inside a clip's VOD.
func (hc *HelixClient) ListVideos(ctx context.Context, userID string, first int) ([]VideoMeta, error) {
	if userID == "" {
		return nil, fmt.Errorf("userID empty")
	}
	if first <= 0 {
		first = 20
	}
	if first > MaxPageSize {
		first = MaxPageSize
	}
	q := url.Values{}
	q.Set("user_id", userID)
	q.Set("type", "archive")
	q.Set("first", strconv.Itoa(first))
	var body struct {
		Data []VideoMeta `json:"data"`
	}
	if err := hc.get(ctx, "videos", q, &body); err != nil {
		return nil, err
	}
	return body.Data, nil
}

// VideoURL returns the public watch URL of a VOD.
func VideoURL(id string) string {
	return "https://www.twitch.tv/videos/" + id
}
