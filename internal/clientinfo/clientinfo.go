// Package clientinfo deriva un descriptor de cliente (tipo de dispositivo,
// browser, sistema operativo) a partir del User-Agent del request.
package clientinfo

import (
	"strings"

	"github.com/dropDatabas3/sessiond/internal/domain/repository"
)

// Detector resuelve el descriptor de cliente de un request.
type Detector interface {
	Detect(userAgent string) repository.ClientInfo
}

// UADetector clasifica por token matching sobre el User-Agent. Suficiente
// para los campos device_type/browser/os que captura la sesión; no intenta
// fingerprinting.
type UADetector struct{}

func NewDetector() *UADetector { return &UADetector{} }

func (UADetector) Detect(userAgent string) repository.ClientInfo {
	ua := strings.ToLower(userAgent)
	ci := repository.ClientInfo{
		Type:    "unknown",
		Browser: "unknown",
		OS:      "unknown",
		Raw:     userAgent,
	}
	if ua == "" {
		return ci
	}

	switch {
	case strings.Contains(ua, "bot") || strings.Contains(ua, "crawler") || strings.Contains(ua, "spider"):
		ci.Type = "bot"
	case strings.Contains(ua, "ipad") || strings.Contains(ua, "tablet"):
		ci.Type = "tablet"
	case strings.Contains(ua, "mobile") || strings.Contains(ua, "iphone") || strings.Contains(ua, "android"):
		ci.Type = "mobile"
	default:
		ci.Type = "desktop"
	}

	// El orden importa: Edge y Opera contienen "chrome", Chrome contiene
	// "safari".
	switch {
	case strings.Contains(ua, "edg/") || strings.Contains(ua, "edge"):
		ci.Browser = "Edge"
	case strings.Contains(ua, "opr/") || strings.Contains(ua, "opera"):
		ci.Browser = "Opera"
	case strings.Contains(ua, "firefox"):
		ci.Browser = "Firefox"
	case strings.Contains(ua, "chrome"):
		ci.Browser = "Chrome"
	case strings.Contains(ua, "safari"):
		ci.Browser = "Safari"
	case strings.Contains(ua, "curl"):
		ci.Browser = "curl"
	}

	switch {
	case strings.Contains(ua, "windows"):
		ci.OS = "Windows"
	case strings.Contains(ua, "android"):
		ci.OS = "Android"
	case strings.Contains(ua, "iphone") || strings.Contains(ua, "ipad") || strings.Contains(ua, "ios"):
		ci.OS = "iOS"
	case strings.Contains(ua, "mac os") || strings.Contains(ua, "macintosh"):
		ci.OS = "macOS"
	case strings.Contains(ua, "linux"):
		ci.OS = "Linux"
	}

	return ci
}
