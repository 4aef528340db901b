package models

import "encoding/json"

// NowPlaying is the payload served to the portfolio's music widget.
// IsPlaying is the only field that is always populated; everything else
// degrades to null when the data is unavailable.
type NowPlaying struct {
	IsPlaying           bool            `json:"isPlaying"`
	Title               *string         `json:"title"`
	Artist              *string         `json:"artist"`
	Album               *string         `json:"album"`
	AlbumImageURL       *string         `json:"albumImageUrl"`
	SongURL             *string         `json:"songUrl"`
	DeviceName          *string         `json:"deviceName"`
	DeviceType          *string         `json:"deviceType"`
	DeviceTypeLocalized *string         `json:"deviceTypeLocalized"`
	PreviewURL          *string         `json:"previewUrl"`
	URI                 *string         `json:"uri"`
	AccountTier         *string         `json:"accountTier"`
	YouTubeActivity     json.RawMessage `json:"youtubeActivity"`
}
