package activity

import (
	"time"

	"github.com/BradenHooton/loginwatch/internal/models"
)

// DefaultPresenceWindow is how recent an activity ping must be for an account to show as online
const DefaultPresenceWindow = 5 * time.Second

// PresenceStatus derives online/offline from the last activity ping.
// It is independent of login history and of the suspicion verdict.
func PresenceStatus(lastActiveAt *time.Time, now time.Time, window time.Duration) string {
	if lastActiveAt == nil {
		return models.StatusOffline
	}
	if window <= 0 {
		window = DefaultPresenceWindow
	}
	if now.Sub(*lastActiveAt) < window {
		return models.StatusOnline
	}
	return models.StatusOffline
}
