package detector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	chromeWindowsUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	firefoxLinuxUA  = "Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0"
	safariMacUA     = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15"
	iphoneUA        = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_1 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Mobile/15E148 Safari/604.1"
	androidUA       = "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36"
)

func TestDetectDeviceType(t *testing.T) {
	assert.Equal(t, "desktop", DetectDeviceType(chromeWindowsUA))
	assert.Equal(t, "desktop", DetectDeviceType(safariMacUA))
	assert.Equal(t, "mobile", DetectDeviceType(iphoneUA))
	assert.Equal(t, "mobile", DetectDeviceType(androidUA))
	assert.Equal(t, "mobile", DetectDeviceType("something iPad something"))
	assert.Equal(t, "desktop", DetectDeviceType(""))
}

func TestDetectBrowser(t *testing.T) {
	assert.Equal(t, "Chrome", DetectBrowser(chromeWindowsUA))
	assert.Equal(t, "Firefox", DetectBrowser(firefoxLinuxUA))
	assert.Equal(t, "Safari", DetectBrowser(safariMacUA))
	assert.Equal(t, "unknown", DetectBrowser("curl/8.4.0"))
	assert.Equal(t, "unknown", DetectBrowser(""))
}

func TestDetectBrowser_ChromeBeforeSafari(t *testing.T) {
	// Chrome UAs carry a Safari token; precedence must pick Chrome.
	assert.Equal(t, "Chrome", DetectBrowser(chromeWindowsUA))
	assert.Equal(t, "Chrome", DetectBrowser(androidUA))
}

func TestDetectOS(t *testing.T) {
	assert.Equal(t, "Windows", DetectOS(chromeWindowsUA))
	assert.Equal(t, "Linux", DetectOS(firefoxLinuxUA))
	assert.Equal(t, "macOS", DetectOS(safariMacUA))
	assert.Equal(t, "Android", DetectOS("Mozilla/5.0 (Android 14; Mobile; rv:121.0) Gecko/121.0 Firefox/121.0"))
	assert.Equal(t, "unknown", DetectOS("curl/8.4.0"))
}

func TestGetClientIP(t *testing.T) {
	assert.Equal(t, "203.0.113.7", GetClientIP("10.0.0.1:1234", "203.0.113.7, 10.0.0.2", ""))
	assert.Equal(t, "203.0.113.7", GetClientIP("10.0.0.1:1234", "", "203.0.113.7"))
	assert.Equal(t, "10.0.0.1", GetClientIP("10.0.0.1:1234", "", ""))
	assert.Equal(t, "127.0.0.1", GetClientIP("", "", ""))
}

func TestGetClientIP_ForwardedForWins(t *testing.T) {
	assert.Equal(t, "198.51.100.1", GetClientIP("10.0.0.1:1234", "198.51.100.1", "203.0.113.7"))
}
