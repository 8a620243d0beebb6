package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	pkghttp "github.com/BradenHooton/loginwatch/pkg/http"
	"github.com/stretchr/testify/assert"
)

func TestForwardedFor(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"absent", "", ""},
		{"single", "203.0.113.5", "203.0.113.5"},
		{"chain uses first", "203.0.113.5, 10.0.0.1", "203.0.113.5"},
		{"skips garbage", "unknown, 2001:db8::1", "2001:db8::1"},
		{"all invalid", "not-an-ip", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
			if tt.header != "" {
				req.Header.Set("X-Forwarded-For", tt.header)
			}
			assert.Equal(t, tt.want, pkghttp.ForwardedFor(req))
		})
	}
}

func TestUserAgent(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("User-Agent", "  curl/8.0  ")
	assert.Equal(t, "curl/8.0", pkghttp.UserAgent(req))
}
