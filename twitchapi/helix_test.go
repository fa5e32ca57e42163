package twitchapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Jonathanpatta/twitch-clip-vod-sync/telemetry"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *HelixClient {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Verify headers
		if r.Header.Get("Client-Id") != "test-client-id" {
			t.Errorf("missing or wrong Client-Id header")
		}
		if r.Header.Get("Authorization") != "Bearer test-token" {
			t.Errorf("missing or wrong Authorization header")
		}
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	ts := &TokenSource{
		ClientID:     "test-client-id",
		ClientSecret: "test-secret",
	}
	// Pre-seed the token to avoid OAuth calls
	ts.SetToken("test-token", time.Now().Add(1*time.Hour))

	return &HelixClient{
		AppTokenSource: ts,
		ClientID:       "test-client-id",
		BaseURL:        server.URL + "/helix/",
		HTTPClient:     server.Client(),
	}
}

func respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func TestHelixClient_GetUser(t *testing.T) {
	tests := []struct {
		response     any
		name         string
		login        string
		wantID       string
		wantDisplay  string
		errContains  string
		statusCode   int
		wantErr      bool
		wantNotFound bool
	}{
		{
			name:  "successful user lookup",
			login: "testuser",
			response: map[string]any{
				"data": []map[string]string{
					{"id": "12345", "login": "testuser", "display_name": "TestUser"},
				},
			},
			statusCode:  http.StatusOK,
			wantID:      "12345",
			wantDisplay: "TestUser",
		},
		{
			name:  "user not found",
			login: "nonexistent",
			response: map[string]any{
				"data": []map[string]string{},
			},
			statusCode:   http.StatusOK,
			wantErr:      true,
			wantNotFound: true,
			errContains:  `user "nonexistent"`,
		},
		{
			name:        "server error",
			login:       "testuser",
			response:    map[string]any{"error": "Internal Server Error"},
			statusCode:  http.StatusInternalServerError,
			wantErr:     true,
			errContains: "helix request failed",
		},
		{
			name:        "empty login",
			login:       "",
			wantErr:     true,
			errContains: "login empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/helix/users" {
					t.Errorf("path = %s, want /helix/users", r.URL.Path)
				}
				if r.URL.Query().Get("login") != tt.login {
					t.Errorf("login query param = %s, want %s", r.URL.Query().Get("login"), tt.login)
				}
				respond(w, tt.statusCode, tt.response)
			})

			user, err := client.GetUser(context.Background(), tt.login)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("GetUser() error = nil, want error containing %q", tt.errContains)
				}
				if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("GetUser() error = %v, want error containing %q", err, tt.errContains)
				}
				if tt.wantNotFound != errors.Is(err, ErrNotFound) {
					t.Errorf("errors.Is(err, ErrNotFound) = %v, want %v", !tt.wantNotFound, tt.wantNotFound)
				}
				return
			}

			if err != nil {
				t.Fatalf("GetUser() unexpected error = %v", err)
			}
			if user.ID != tt.wantID || user.DisplayName != tt.wantDisplay {
				t.Errorf("GetUser() = %+v, want id %s display %s", user, tt.wantID, tt.wantDisplay)
			}
		})
	}
}

func TestHelixClient_GetClip(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("id") {
		case "WithVOD":
			respond(w, http.StatusOK, map[string]any{"data": []map[string]any{
				{"id": "WithVOD", "video_id": "987", "vod_offset": 120, "duration": 29.9},
			}})
		case "Orphan":
			respond(w, http.StatusOK, map[string]any{"data": []map[string]any{
				{"id": "Orphan", "video_id": "", "vod_offset": nil},
			}})
		default:
			respond(w, http.StatusOK, map[string]any{"data": []any{}})
		}
	})

	clip, err := client.GetClip(context.Background(), "WithVOD")
	if err != nil {
		t.Fatalf("GetClip() error = %v", err)
	}
	if clip.VideoID != "987" || clip.VODOffset == nil || *clip.VODOffset != 120 {
		t.Errorf("GetClip() = %+v, want video 987 offset 120", clip)
	}

	clip, err = client.GetClip(context.Background(), "Orphan")
	if err != nil {
		t.Fatalf("GetClip() error = %v", err)
	}
	if clip.VideoID != "" || clip.VODOffset != nil {
		t.Errorf("GetClip() = %+v, want no video and nil offset", clip)
	}

	if _, err := client.GetClip(context.Background(), "Missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetClip() error = %v, want ErrNotFound", err)
	}
	if _, err := client.GetClip(context.Background(), ""); err == nil || !strings.Contains(err.Error(), "clip id empty") {
		t.Errorf("GetClip(\"\") error = %v, want clip id empty", err)
	}
}

func TestHelixClient_GetVideo(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("id") != "v1" {
			respond(w, http.StatusOK, map[string]any{"data": []any{}})
			return
		}
		respond(w, http.StatusOK, map[string]any{"data": []map[string]string{
			{"id": "v1", "user_id": "1", "duration": "1h2m3s", "created_at": "2024-01-01T00:00:00Z"},
		}})
	})

	v, err := client.GetVideo(context.Background(), "v1")
	if err != nil {
		t.Fatalf("GetVideo() error = %v", err)
	}
	if v.CreatedAt != "2024-01-01T00:00:00Z" || v.Duration != "1h2m3s" {
		t.Errorf("GetVideo() = %+v", v)
	}
	if _, err := client.GetVideo(context.Background(), "v2"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetVideo() error = %v, want ErrNotFound", err)
	}
}

func TestHelixClient_ListVideos(t *testing.T) {
	tests := []struct {
		response    any
		name        string
		userID      string
		wantFirst   string
		errContains string
		first       int
		statusCode  int
		wantVideos  int
		wantErr     bool
	}{
		{
			name:   "successful video list",
			userID: "12345",
			first:  20,
			response: map[string]any{
				"data": []map[string]string{
					{"id": "v123", "title": "Test Video 1", "duration": "1h30m45s", "created_at": "2024-01-01T10:00:00Z"},
					{"id": "v124", "title": "Test Video 2", "duration": "45m30s", "created_at": "2024-01-01T09:00:00Z"},
				},
				"pagination": map[string]string{"cursor": "next-cursor-123"},
			},
			wantFirst:  "20",
			wantVideos: 2,
		},
		{
			name:   "empty result",
			userID: "12345",
			response: map[string]any{
				"data":       []map[string]string{},
				"pagination": map[string]string{},
			},
			wantFirst: "20",
		},
		{
			name:   "page size capped",
			userID: "12345",
			first:  500,
			response: map[string]any{
				"data":       []map[string]string{{"id": "v125", "duration": "2h", "created_at": "2024-01-01T08:00:00Z"}},
				"pagination": map[string]string{},
			},
			wantFirst:  "100",
			wantVideos: 1,
		},
		{
			name:        "empty userID",
			userID:      "",
			wantErr:     true,
			errContains: "userID empty",
		},
		{
			name:        "unauthorized",
			userID:      "12345",
			response:    map[string]any{"error": "Unauthorized"},
			statusCode:  http.StatusUnauthorized,
			wantErr:     true,
			errContains: "401",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				q := r.URL.Query()
				if q.Get("user_id") != tt.userID {
					t.Errorf("user_id = %s, want %s", q.Get("user_id"), tt.userID)
				}
				if q.Get("type") != "archive" {
					t.Errorf("type = %s, want archive", q.Get("type"))
				}
				if tt.wantFirst != "" && q.Get("first") != tt.wantFirst {
					t.Errorf("first = %s, want %s", q.Get("first"), tt.wantFirst)
				}
				if q.Get("after") != "" {
					t.Errorf("after = %s, want none", q.Get("after"))
				}
				status := tt.statusCode
				if status == 0 {
					status = http.StatusOK
				}
				respond(w, status, tt.response)
			})

			videos, err := client.ListVideos(context.Background(), tt.userID, tt.first)

			if tt.wantErr {
				if err == nil || !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("ListVideos() error = %v, want error containing %q", err, tt.errContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("ListVideos() unexpected error = %v", err)
			}
			if len(videos) != tt.wantVideos {
				t.Errorf("ListVideos() returned %d videos, want %d", len(videos), tt.wantVideos)
			}
			// a returned cursor is not followed
			if n := calls.Load(); n != 1 {
				t.Errorf("ListVideos() made %d requests, want 1", n)
			}
		})
	}
}

func TestAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusTooManyRequests, map[string]any{"message": "slow down"})
	})
	_, err := client.GetUser(context.Background(), "x")
	var ae *APIError
	if !errors.As(err, &ae) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if ae.StatusCode != http.StatusTooManyRequests || !strings.Contains(ae.Body, "slow down") {
		t.Errorf("APIError = %+v", ae)
	}
}

func TestHelixRequestLatencyObserved(t *testing.T) {
	var samples []float64
	prev := telemetry.HelixDuration
	telemetry.HelixDuration = prometheus.ObserverFunc(func(v float64) { samples = append(samples, v) })
	t.Cleanup(func() { telemetry.HelixDuration = prev })

	var status atomic.Int32
	status.Store(http.StatusOK)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(5 * time.Millisecond)
		respond(w, int(status.Load()), map[string]any{"data": []map[string]string{{"id": "1", "login": "x"}}})
	})
	if _, err := client.GetUser(context.Background(), "x"); err != nil {
		t.Fatalf("GetUser() error = %v", err)
	}
	status.Store(http.StatusServiceUnavailable)
	if _, err := client.GetUser(context.Background(), "x"); err == nil {
		t.Fatal("GetUser() error = nil, want 503")
	}

	if len(samples) != 2 {
		t.Fatalf("observed %d samples, want 2", len(samples))
	}
	for _, v := range samples {
		if v < 0.005 {
			t.Errorf("sample = %vs, want >= 5ms", v)
		}
	}
}

func TestVideoURL(t *testing.T) {
	if got := VideoURL("123"); got != "https://www.twitch.tv/videos/123" {
		t.Errorf("VideoURL() = %s", got)
	}
}
