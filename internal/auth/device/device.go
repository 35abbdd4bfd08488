// Package device derives a human-readable client description from the
// User-Agent header. Recorded with login audit events only; nothing is
// fingerprinted or persisted per client.
package device

import (
	"strings"

	"github.com/mssola/useragent"
)

// Describe extracts "Browser on OS" from a User-Agent string, for example
// "Chrome on Mac OS X" or "Safari on iPhone".
func Describe(userAgentString string) string {
	if userAgentString == "" {
		return "Unknown Device"
	}

	ua := useragent.New(userAgentString)

	browser, _ := ua.Browser()
	os := ua.OS()

	if ua.Mobile() {
		if platform := ua.Platform(); platform != "" {
			return strings.TrimSpace(browser + " on " + platform)
		}
	}

	if browser == "" {
		browser = "Unknown Browser"
	}
	if os == "" {
		os = "Unknown OS"
	}

	return strings.TrimSpace(browser + " on " + os)
}
