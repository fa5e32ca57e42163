// Package testutil provides a mock Twitch Helix server for tests.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Jonathanpatta/twitch-clip-vod-sync/twitchapi"
)

// MockTwitchServer creates a test server that mocks Twitch Helix API responses
type MockTwitchServer struct {
	*httptest.Server

	mu       sync.Mutex
	Handlers map[string]http.HandlerFunc
	Requests []*http.Request
}

// NewMockTwitchServer creates a new mock Twitch API server
func NewMockTwitchServer(t *testing.T) *MockTwitchServer {
	t.Helper()
	m := &MockTwitchServer{
		Handlers: make(map[string]http.HandlerFunc),
	}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		m.Requests = append(m.Requests, r)
		handler, ok := m.Handlers[r.URL.Path]
		m.mu.Unlock()
		if ok {
			handler(w, r)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(m.Close)
	return m
}

// HelixClient returns a client pointed at the mock with a pre-seeded app token.
func (m *MockTwitchServer) HelixClient() *twitchapi.HelixClient {
	ts := &twitchapi.TokenSource{ClientID: "test-client-id", ClientSecret: "test-secret", TokenURL: m.URL + "/oauth2/token"}
	ts.SetToken("test-token", time.Now().Add(time.Hour))
	return &twitchapi.HelixClient{
		AppTokenSource: ts,
		ClientID:       "test-client-id",
		BaseURL:        m.URL + "/helix",
		HTTPClient:     m.Client(),
	}
}

// LastRequest returns the most recent request received, or nil.
func (m *MockTwitchServer) LastRequest() *http.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Requests) == 0 {
		return nil
	}
	return m.Requests[len(m.Requests)-1]
}

func (m *MockTwitchServer) handle(path string, h http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Handlers[path] = h
}

func writeData(w http.ResponseWriter, data any, extra map[string]any) {
	response := map[string]any{"data": data}
	for k, v := range extra {
		response[k] = v
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(response) //nolint:errcheck // test mock response
}

// MockUserResponse adds a handler for /helix/users endpoint answering only login.
func (m *MockTwitchServer) MockUserResponse(userID, login, displayName string) {
	m.handle("/helix/users", func(w http.ResponseWriter, r *http.Request) {
		users := []map[string]string{}
		if r.URL.Query().Get("login") == login {
			users = append(users, map[string]string{"id": userID, "login": login, "display_name": displayName})
		}
		writeData(w, users, nil)
	})
}

// MockClipResponse adds a handler for /helix/clips. An empty videoID mimics a
// clip whose VOD was deleted; a negative offset is sent as null.
func (m *MockTwitchServer) MockClipResponse(slug, videoID string, vodOffset int) {
	m.handle("/helix/clips", func(w http.ResponseWriter, r *http.Request) {
		clips := []map[string]any{}
		if r.URL.Query().Get("id") == slug {
			clip := map[string]any{
				"id":         slug,
				"url":        "https://clips.twitch.tv/" + slug,
				"video_id":   videoID,
				"vod_offset": nil,
			}
			if vodOffset >= 0 {
				clip["vod_offset"] = vodOffset
			}
			clips = append(clips, clip)
		}
		writeData(w, clips, nil)
	})
}

// MockVideosResponse adds a handler for /helix/videos answering lookups by id
// and listings by user_id from the same set of videos. Listings always carry a
// next-page cursor, as Helix does for users with more archives.
func (m *MockTwitchServer) MockVideosResponse(videos []map[string]string) {
	m.handle("/helix/videos", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		key, want := "user_id", q.Get("user_id")
		if id := q.Get("id"); id != "" {
			key, want = "id", id
		}
		out := []map[string]string{}
		for _, v := range videos {
			if v[key] == want {
				out = append(out, v)
			}
		}
		if key == "id" {
			writeData(w, out, nil)
			return
		}
		writeData(w, out, map[string]any{"pagination": map[string]string{"cursor": "next-page"}})
	})
}

// MockStatus makes path answer with status and an error body.
func (m *MockTwitchServer) MockStatus(path string, status int) {
	m.handle(path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": http.StatusText(status), "status": status}) //nolint:errcheck // test mock response
	})
}

// MockOAuthTokenResponse adds a handler for OAuth token endpoint
func (m *MockTwitchServer) MockOAuthTokenResponse(accessToken string, expiresIn int) {
	m.handle("/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		response := map[string]any{
			"access_token": accessToken,
			"expires_in":   expiresIn,
			"token_type":   "bearer",
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(response) //nolint:errcheck // test mock response
	})
}
