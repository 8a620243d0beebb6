package activity

import (
	"strings"

	"github.com/BradenHooton/loginwatch/internal/models"
)

// DetectDevice classifies live traffic by user agent. Tablets are not
// detected; anything without "Mobile" is treated as desktop.
func DetectDevice(userAgent string) string {
	if strings.Contains(userAgent, "Mobile") {
		return models.DeviceMobile
	}
	return models.DeviceDesktop
}
