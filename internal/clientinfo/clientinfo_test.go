package clientinfo

import "testing"

func TestDetect(t *testing.T) {
	d := NewDetector()

	cases := []struct {
		name    string
		ua      string
		typ     string
		browser string
		os      string
	}{
		{
			"chrome windows",
			"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			"desktop", "Chrome", "Windows",
		},
		{
			"edge windows",
			"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 Chrome/120.0.0.0 Safari/537.36 Edg/120.0.0.0",
			"desktop", "Edge", "Windows",
		},
		{
			"firefox linux",
			"Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0",
			"desktop", "Firefox", "Linux",
		},
		{
			"safari iphone",
			"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 Version/17.0 Mobile/15E148 Safari/604.1",
			"mobile", "Safari", "iOS",
		},
		{
			"chrome android",
			"Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 Chrome/120.0.0.0 Mobile Safari/537.36",
			"mobile", "Chrome", "Android",
		},
		{
			"safari ipad",
			"Mozilla/5.0 (iPad; CPU OS 17_0 like Mac OS X) AppleWebKit/605.1.15 Version/17.0 Safari/604.1",
			"tablet", "Safari", "iOS",
		},
		{
			"googlebot",
			"Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)",
			"bot", "unknown", "unknown",
		},
		{
			"curl",
			"curl/8.4.0",
			"desktop", "curl", "unknown",
		},
		{
			"empty",
			"",
			"unknown", "unknown", "unknown",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ci := d.Detect(tc.ua)
			if ci.Type != tc.typ || ci.Browser != tc.browser || ci.OS != tc.os {
				t.Fatalf("got %s/%s/%s, want %s/%s/%s",
					ci.Type, ci.Browser, ci.OS, tc.typ, tc.browser, tc.os)
			}
			if ci.Raw != tc.ua {
				t.Fatalf("raw = %q", ci.Raw)
			}
		})
	}
}
