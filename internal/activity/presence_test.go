package activity

import (
	"errors"
	"testing"
	"time"

	"github.com/BradenHooton/loginwatch/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestPresenceStatus(t *testing.T) {
	justNow := testNow.Add(-4 * time.Second)
	boundary := testNow.Add(-5 * time.Second)
	stale := testNow.Add(-1 * time.Minute)

	tests := []struct {
		name       string
		lastActive *time.Time
		want       string
	}{
		{"never active", nil, models.StatusOffline},
		{"inside window", &justNow, models.StatusOnline},
		{"exactly at window", &boundary, models.StatusOffline},
		{"stale", &stale, models.StatusOffline},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PresenceStatus(tt.lastActive, testNow, DefaultPresenceWindow))
		})
	}
}

func TestPresenceStatus_NonPositiveWindowUsesDefault(t *testing.T) {
	recent := testNow.Add(-1 * time.Second)

	assert.Equal(t, models.StatusOnline, PresenceStatus(&recent, testNow, 0))
}

func TestDetectDevice(t *testing.T) {
	assert.Equal(t, models.DeviceMobile, DetectDevice("Mozilla/5.0 (iPhone) Mobile/15E148"))
	assert.Equal(t, models.DeviceDesktop, DetectDevice("Mozilla/5.0 (X11; Linux x86_64)"))
	assert.Equal(t, models.DeviceDesktop, DetectDevice(""))
	// tablets are not detected from live traffic
	assert.Equal(t, models.DeviceDesktop, DetectDevice("Mozilla/5.0 (iPad; CPU OS 17_4)"))
}

func TestValidateEvents(t *testing.T) {
	valid := newEvent("ok", testNow)

	assert.NoError(t, ValidateEvents([]*models.LoginEvent{valid}))

	missingUser := newEvent("no-user", testNow)
	missingUser.UserID = ""
	zeroTime := newEvent("zero", time.Time{})
	badDevice := newEvent("device", testNow)
	badDevice.Device = "toaster"

	for _, e := range []*models.LoginEvent{missingUser, zeroTime, badDevice, nil} {
		err := ValidateEvents([]*models.LoginEvent{valid, e})
		assert.True(t, errors.Is(err, models.ErrBadRequest))
	}
}
