package spotify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"
)

func discardLogger() *log.Logger {
	return log.New(io.Discard)
}

func staticTokens() oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "test-token", TokenType: "Bearer"})
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, staticTokens(), 0, discardLogger()), srv
}

const activePlaybackBody = `{
	"is_playing": true,
	"item": {
		"id": "track1",
		"name": "Doxy",
		"artists": [{"id": "a1", "name": "Miles Davis"}, {"id": "a2", "name": "Sonny Rollins"}],
		"album": {
			"name": "Bags' Groove",
			"images": [{"url": "https://img/large.jpg", "height": 640, "width": 640}, {"url": "https://img/small.jpg", "height": 64, "width": 64}]
		},
		"preview_url": "https://preview/doxy.mp3",
		"uri": "spotify:track:track1",
		"external_urls": {"spotify": "https://open.spotify.com/track/track1"}
	}
}`

func TestCurrentlyPlayingStates(t *testing.T) {
	testCases := []struct {
		name      string
		status    int
		body      string
		wantState PlaybackState
	}{
		{name: "active playback", status: http.StatusOK, body: activePlaybackBody, wantState: PlaybackActive},
		{name: "no content", status: http.StatusNoContent, body: "", wantState: PlaybackEmpty},
		{name: "null item", status: http.StatusOK, body: `{"is_playing": false, "item": null}`, wantState: PlaybackEmpty},
		{name: "server error", status: http.StatusInternalServerError, body: `{"error":"boom"}`, wantState: PlaybackError},
		{name: "rate limited", status: http.StatusTooManyRequests, body: "", wantState: PlaybackError},
		{name: "malformed payload", status: http.StatusOK, body: `{"is_playing": tru`, wantState: PlaybackError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/me/player/currently-playing" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				w.WriteHeader(tc.status)
				fmt.Fprint(w, tc.body)
			})

			result := client.CurrentlyPlaying(context.Background())
			if result.State != tc.wantState {
				t.Errorf("expected state %v, got %v", tc.wantState, result.State)
			}
			if tc.wantState == PlaybackActive && result.Snapshot == nil {
				t.Error("expected a snapshot for active playback")
			}
			if tc.wantState != PlaybackActive && result.Snapshot != nil {
				t.Error("expected no snapshot for non-active playback")
			}
		})
	}
}

func TestCurrentlyPlayingTransportFailures(t *testing.T) {
	t.Run("hanging upstream times out and degrades to error", func(t *testing.T) {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-release
		}))
		t.Cleanup(srv.Close)
		t.Cleanup(func() { close(release) })

		client := New(srv.URL, staticTokens(), 50*time.Millisecond, discardLogger())

		result := client.CurrentlyPlaying(context.Background())
		if result.State != PlaybackError {
			t.Errorf("expected PlaybackError for a timed-out call, got %v", result.State)
		}
	})

	t.Run("unreachable upstream degrades to error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		baseURL := srv.URL
		srv.Close()

		client := New(baseURL, staticTokens(), 0, discardLogger())

		result := client.CurrentlyPlaying(context.Background())
		if result.State != PlaybackError {
			t.Errorf("expected PlaybackError for an unreachable upstream, got %v", result.State)
		}
	})
}

func TestCurrentlyPlayingParsesSnapshot(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, activePlaybackBody)
	})

	result := client.CurrentlyPlaying(context.Background())
	if result.State != PlaybackActive {
		t.Fatalf("expected active state, got %v", result.State)
	}

	snap := result.Snapshot
	if !snap.IsPlaying {
		t.Error("expected is_playing to be true")
	}
	if snap.Item.Name != "Doxy" {
		t.Errorf("expected track name 'Doxy', got %q", snap.Item.Name)
	}
	if len(snap.Item.Artists) != 2 || snap.Item.Artists[1].Name != "Sonny Rollins" {
		t.Errorf("unexpected artists: %+v", snap.Item.Artists)
	}
	if len(snap.Item.Album.Images) != 2 || snap.Item.Album.Images[0].URL != "https://img/large.jpg" {
		t.Errorf("unexpected album images: %+v", snap.Item.Album.Images)
	}
	if snap.Item.PreviewURL == nil || *snap.Item.PreviewURL != "https://preview/doxy.mp3" {
		t.Errorf("unexpected preview url: %v", snap.Item.PreviewURL)
	}
	if snap.Item.ExternalURLs.Spotify != "https://open.spotify.com/track/track1" {
		t.Errorf("unexpected external url: %q", snap.Item.ExternalURLs.Spotify)
	}
}

func TestClientAttachesBearerToken(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		fmt.Fprint(w, `{"devices": []}`)
	})

	if _, err := client.Devices(context.Background()); err != nil {
		t.Fatalf("Devices failed: %v", err)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("expected bearer token header, got %q", gotAuth)
	}
}

func TestDevices(t *testing.T) {
	t.Run("decodes device list", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/me/player/devices" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			fmt.Fprint(w, `{"devices": [{"id": "d1", "name": "Office Mac", "type": "Computer", "is_active": true}]}`)
		})

		devices, err := client.Devices(context.Background())
		if err != nil {
			t.Fatalf("Devices failed: %v", err)
		}
		if len(devices.Devices) != 1 {
			t.Fatalf("expected 1 device, got %d", len(devices.Devices))
		}
		if devices.Devices[0].Type != "Computer" {
			t.Errorf("expected device type 'Computer', got %q", devices.Devices[0].Type)
		}
	})

	t.Run("empty list is valid", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"devices": []}`)
		})

		devices, err := client.Devices(context.Background())
		if err != nil {
			t.Fatalf("Devices failed: %v", err)
		}
		if len(devices.Devices) != 0 {
			t.Errorf("expected no devices, got %d", len(devices.Devices))
		}
	})

	t.Run("error status maps to ErrUpstream", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		_, err := client.Devices(context.Background())
		if !errors.Is(err, ErrUpstream) {
			t.Errorf("expected ErrUpstream, got %v", err)
		}
	})

	t.Run("malformed payload maps to ErrUpstream", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"devices": `)
		})

		_, err := client.Devices(context.Background())
		if !errors.Is(err, ErrUpstream) {
			t.Errorf("expected ErrUpstream, got %v", err)
		}
	})
}

func TestSearchSendsFixedQuery(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != searchQuery {
			t.Errorf("expected query %q, got %q", searchQuery, got)
		}
		if got := r.URL.Query().Get("type"); got != "track" {
			t.Errorf("expected type 'track', got %q", got)
		}
		fmt.Fprint(w, `{"tracks": {"items": [{"id": "t1", "name": "Doxy"}]}}`)
	})

	results, err := client.Search(context.Background())
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results.Tracks.Items) != 1 {
		t.Errorf("expected 1 search result, got %d", len(results.Tracks.Items))
	}
}

func TestProfile(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/me" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"id": "wtflewis", "display_name": "Lewis", "product": "premium"}`)
	})

	profile, err := client.Profile(context.Background())
	if err != nil {
		t.Fatalf("Profile failed: %v", err)
	}
	if profile.Product != "premium" {
		t.Errorf("expected product 'premium', got %q", profile.Product)
	}
}

func TestRecentlyPlayed(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/me/player/recently-played" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"items": [{"played_at": "2026-08-30T21:04:00Z", "track": {"id": "t9", "name": "So What", "album": {"name": "Kind of Blue", "images": [{"url": "https://img/kob.jpg"}]}}}]}`)
	})

	recent, err := client.RecentlyPlayed(context.Background())
	if err != nil {
		t.Fatalf("RecentlyPlayed failed: %v", err)
	}
	if len(recent.Items) != 1 {
		t.Fatalf("expected 1 history item, got %d", len(recent.Items))
	}
	if recent.Items[0].Track.Name != "So What" {
		t.Errorf("expected track 'So What', got %q", recent.Items[0].Track.Name)
	}
}
