package detector

import "strings"

// User-agent parsing is deliberately token-based. Precedence is fixed and
// first-match-wins: Chrome UAs also contain "Safari", so Chrome is tested
// first; Chromium-based Edge reports as Chrome under this policy.
var browserTokens = []string{"Chrome", "Firefox", "Safari", "Edge"}

var osTokens = []struct {
	token string
	name  string
}{
	{"Windows", "Windows"},
	{"Mac", "macOS"},
	{"Linux", "Linux"},
	{"Android", "Android"},
	{"iOS", "iOS"},
}

var mobileTokens = []string{"mobile", "android", "iphone", "ipad", "ipod"}

func DetectDeviceType(userAgent string) string {
	ua := strings.ToLower(userAgent)

	for _, token := range mobileTokens {
		if strings.Contains(ua, token) {
			return "mobile"
		}
	}

	return "desktop"
}

func DetectBrowser(userAgent string) string {
	for _, token := range browserTokens {
		if strings.Contains(userAgent, token) {
			return token
		}
	}
	return "unknown"
}

func DetectOS(userAgent string) string {
	for _, entry := range osTokens {
		if strings.Contains(userAgent, entry.token) {
			return entry.name
		}
	}
	return "unknown"
}

// GetClientIP picks the best-effort client address: the first forwarded-for
// entry, then the real-ip header, then the remote address, else loopback.
func GetClientIP(remoteAddr, xForwardedFor, xRealIP string) string {
	if xForwardedFor != "" {
		ips := strings.Split(xForwardedFor, ",")
		if ip := strings.TrimSpace(ips[0]); ip != "" {
			return ip
		}
	}

	if xRealIP != "" {
		return xRealIP
	}

	if remoteAddr != "" {
		if idx := strings.LastIndex(remoteAddr, ":"); idx != -1 {
			return remoteAddr[:idx]
		}
		return remoteAddr
	}

	return "127.0.0.1"
}
