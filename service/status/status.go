// Presence indicator for the portfolio header. The status is derived from
// the local hour of day until a real presence provider is wired in.
package status

import (
	"time"

	"github.com/wtflewis/my-portfolyo/models"
)

// ForHour maps an hour of day (0-23) to a presence status.
func ForHour(hour int) string {
	switch {
	case hour >= 0 && hour < 8:
		return "offline"
	case hour >= 8 && hour < 22:
		return "online"
	default:
		return "idle"
	}
}

// Current returns the presence status at the given time.
func Current(now time.Time) models.Status {
	return models.Status{
		Status:    ForHour(now.Hour()),
		Timestamp: now.UnixMilli(),
	}
}
