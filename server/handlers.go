// Package server exposes the HTTP API handlers.
package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/Jonathanpatta/twitch-clip-vod-sync/vod"
)

// Syncer resolves a clip or VOD link against a streamer's VODs.
type Syncer interface {
	Sync(ctx context.Context, login, rawURL string) (vod.Result, error)
}

// TokenSource yields the Helix app token; readiness fails without one.
type TokenSource interface {
	Get(ctx context.Context) (string, error)
}

// Handlers holds dependencies for all HTTP handlers.
type Handlers struct {
	syncer  Syncer
	tokens  TokenSource
	timeout time.Duration
}

// NewHandlers creates a new Handlers instance with the given dependencies.
// timeout bounds each /sync resolution; zero means no extra deadline.
func NewHandlers(syncer Syncer, tokens TokenSource, timeout time.Duration) *Handlers {
	return &Handlers{syncer: syncer, tokens: tokens, timeout: timeout}
}

type syncResponse struct {
	URL      string    `json:"url"`
	Streamer string    `json:"streamer"`
	VODID    string    `json:"vod_id"`
	VODURL   string    `json:"vod_url"`
	Offset   string    `json:"offset"`
	Moment   time.Time `json:"moment"`
}

type errorResponse struct {
	Error string `json:"error"`
	Class string `json:"class"`
}

// HandleSync resolves ?url= (clip or VOD link) against ?streamer='s VODs.
func (h *Handlers) HandleSync(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	streamer := strings.TrimSpace(q.Get("streamer"))
	link := strings.TrimSpace(q.Get("url"))
	if streamer == "" || link == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: "streamer and url query parameters are required",
			Class: vod.ErrorClassInvalidInput.String(),
		})
		return
	}

	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	res, err := h.syncer.Sync(ctx, strings.ToLower(streamer), link)
	if err != nil {
		class := vod.Classify(err)
		writeJSON(w, statusForClass(class), errorResponse{Error: err.Error(), Class: class.String()})
		return
	}
	writeJSON(w, http.StatusOK, syncResponse{
		URL:      res.URL,
		Streamer: res.Streamer.DisplayName,
		VODID:    res.Match.Broadcast.ID,
		VODURL:   res.Match.Broadcast.URL,
		Offset:   res.Match.Offset.String(),
		Moment:   res.Moment,
	})
}

func statusForClass(c vod.ErrorClass) int {
	switch c {
	case vod.ErrorClassInvalidInput:
		return http.StatusBadRequest
	case vod.ErrorClassNotFound, vod.ErrorClassNoMatch:
		return http.StatusNotFound
	case vod.ErrorClassGateway:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
