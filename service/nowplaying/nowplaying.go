// Aggregates the portfolio's now-playing card from the Spotify Web API and
// the optional YouTube activity feed.
//
// The contract with the widget is "always return a complete object with
// best-effort fields": once authentication succeeds, individual upstream
// failures degrade the affected fields to null instead of failing the whole
// response.
package nowplaying

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/wtflewis/my-portfolyo/models"
	"github.com/wtflewis/my-portfolyo/service/spotify"
	"github.com/wtflewis/my-portfolyo/service/youtube"
)

// Service orchestrates the upstream calls for one now-playing snapshot.
// It holds no per-request state; concurrent requests are fully isolated.
type Service struct {
	spotify *spotify.Client
	youtube *youtube.Client // nil when the integration is not configured
	logger  *log.Logger
}

func New(spotifyClient *spotify.Client, youtubeClient *youtube.Client, logger *log.Logger) *Service {
	return &Service{
		spotify: spotifyClient,
		youtube: youtubeClient,
		logger:  logger,
	}
}

// enrichment collects the results of the independent upstream calls issued
// once playback is known to be active. Each field stays nil when its call
// failed.
type enrichment struct {
	devices  *spotify.DevicesResponse
	profile  *spotify.Profile
	activity json.RawMessage
}

// Snapshot builds one aggregated result. The only error it returns is
// spotify.ErrAuthentication; every other upstream condition is absorbed
// into the payload.
func (s *Service) Snapshot(ctx context.Context) (*models.NowPlaying, error) {
	// Nothing can proceed without a token.
	if err := s.spotify.Authenticate(); err != nil {
		return nil, err
	}

	playback := s.spotify.CurrentlyPlaying(ctx)
	if playback.State != spotify.PlaybackActive {
		return s.fallback(ctx), nil
	}

	enr := s.enrich(ctx)

	return s.normalize(playback.Snapshot, enr), nil
}

// fallback substitutes the most recent history entry when nothing is
// actively playing. Only the title and album image are carried over; no
// enrichment calls are made.
func (s *Service) fallback(ctx context.Context) *models.NowPlaying {
	out := &models.NowPlaying{IsPlaying: false}

	recent, err := s.spotify.RecentlyPlayed(ctx)
	if err != nil {
		s.logger.Warn("recently-played fallback failed", "err", err)
		return out
	}
	if len(recent.Items) == 0 {
		return out
	}

	track := recent.Items[0].Track
	out.Title = ptr(track.Name)
	if len(track.Album.Images) > 0 {
		out.AlbumImageURL = ptr(track.Album.Images[0].URL)
	}
	return out
}

// enrich issues the independent upstream calls concurrently; they share no
// data, so end-to-end latency is bounded by the slowest single call. Each
// goroutine writes only its own field.
func (s *Service) enrich(ctx context.Context) enrichment {
	var enr enrichment
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		devices, err := s.spotify.Devices(ctx)
		if err != nil {
			s.logger.Warn("device list unavailable", "err", err)
			return
		}
		enr.devices = devices
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		profile, err := s.spotify.Profile(ctx)
		if err != nil {
			s.logger.Warn("account profile unavailable", "err", err)
			return
		}
		enr.profile = profile
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := s.spotify.Search(ctx); err != nil {
			s.logger.Warn("track search unavailable", "err", err)
		}
	}()

	// History is fetched alongside the others but only read on the
	// fallback path.
	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := s.spotify.RecentlyPlayed(ctx); err != nil {
			s.logger.Warn("playback history unavailable", "err", err)
		}
	}()

	if s.youtube != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			activity, err := s.youtube.Activities(ctx)
			if err != nil {
				s.logger.Warn("youtube activity unavailable", "err", err)
				return
			}
			enr.activity = activity
		}()
	}

	wg.Wait()
	return enr
}

// normalize maps the raw upstream entities onto the stable widget contract.
func (s *Service) normalize(snap *spotify.CurrentlyPlaying, enr enrichment) *models.NowPlaying {
	out := &models.NowPlaying{
		IsPlaying:       snap.IsPlaying,
		YouTubeActivity: enr.activity,
	}

	track := snap.Item
	out.Title = ptr(track.Name)
	out.Album = ptr(track.Album.Name)
	out.URI = ptr(track.URI)
	out.PreviewURL = track.PreviewURL
	if track.ExternalURLs.Spotify != "" {
		out.SongURL = ptr(track.ExternalURLs.Spotify)
	}

	if len(track.Artists) > 0 {
		names := make([]string, len(track.Artists))
		for i, artist := range track.Artists {
			names[i] = artist.Name
		}
		out.Artist = ptr(strings.Join(names, ", "))
	}

	// The Web API orders album images largest first; the first entry is
	// taken as the canonical artwork. That ordering is an upstream
	// convention, not something we verify.
	if len(track.Album.Images) > 0 {
		out.AlbumImageURL = ptr(track.Album.Images[0].URL)
	}

	if enr.devices != nil && len(enr.devices.Devices) > 0 {
		device := enr.devices.Devices[0]
		out.DeviceName = ptr(device.Name)
		out.DeviceType = ptr(device.Type)
		out.DeviceTypeLocalized = ptr(LocalizeDeviceType(device.Type))
	}

	if enr.profile != nil {
		out.AccountTier = ptr(enr.profile.Product)
	}

	return out
}

func ptr(s string) *string {
	return &s
}
