package spotify

// Response types based on https://developer.spotify.com/documentation/web-api/reference/

// Image represents an image resource.
type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// Artist represents a contributing artist on a track.
type Artist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Album represents the album a track belongs to.
type Album struct {
	Name   string  `json:"name"`
	Images []Image `json:"images"`
}

type externalURLs struct {
	Spotify string `json:"spotify"`
}

// Track represents a Spotify track.
type Track struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Artists      []Artist     `json:"artists"`
	Album        Album        `json:"album"`
	PreviewURL   *string      `json:"preview_url"`
	URI          string       `json:"uri"`
	ExternalURLs externalURLs `json:"external_urls"`
}

// CurrentlyPlaying is the player's state at call time. Item is nil when
// nothing is active.
type CurrentlyPlaying struct {
	IsPlaying bool   `json:"is_playing"`
	Item      *Track `json:"item"`
}

// Device represents a playback device registered to the account.
type Device struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	IsActive bool   `json:"is_active"`
}

// DevicesResponse wraps the device list endpoint's payload.
type DevicesResponse struct {
	Devices []Device `json:"devices"`
}

// SearchResponse wraps the track search endpoint's payload.
type SearchResponse struct {
	Tracks struct {
		Items []Track `json:"items"`
	} `json:"tracks"`
}

// Profile represents the authenticated account's profile.
type Profile struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Product     string `json:"product"` // premium, free, etc.
}

// PlayHistoryItem is one entry of the playback history.
type PlayHistoryItem struct {
	Track    Track  `json:"track"`
	PlayedAt string `json:"played_at"`
}

// RecentlyPlayedResponse wraps the playback history endpoint's payload.
type RecentlyPlayedResponse struct {
	Items []PlayHistoryItem `json:"items"`
}
