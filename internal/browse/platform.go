package browse

import (
	"net/url"
	"strings"
)

// DefaultPlatformHost is the minutes-publishing platform this fetcher
// targets. Tenants live under /tenant/<name>/ on the shared host.
const DefaultPlatformHost = "kaigiroku.net"

// PlatformIDs carries the platform identifiers parsed from a minutes URL.
type PlatformIDs struct {
	Tenant     string
	CouncilID  string
	ScheduleID string
}

// IsPlatformURL reports whether raw points at the configured platform.
func IsPlatformURL(raw, platformHost string) bool {
	if platformHost == "" {
		platformHost = DefaultPlatformHost
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return host == platformHost || strings.HasSuffix(host, "."+platformHost)
}

// ParsePlatformIDs extracts tenant and council/schedule identifiers from a
// platform URL. Missing pieces come back empty; the caller decides whether
// to synthesize substitutes.
func ParsePlatformIDs(raw string) PlatformIDs {
	u, err := url.Parse(raw)
	if err != nil {
		return PlatformIDs{}
	}
	ids := PlatformIDs{
		CouncilID:  u.Query().Get("council_id"),
		ScheduleID: u.Query().Get("schedule_id"),
	}
	segs := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, s := range segs {
		if s == "tenant" && i+1 < len(segs) {
			ids.Tenant = segs[i+1]
			break
		}
	}
	return ids
}

// resolveURL makes href absolute against base. Unparseable input comes back
// unchanged so the caller can still log the raw value.
func resolveURL(base, href string) string {
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	h, err := url.Parse(href)
	if err != nil {
		return href
	}
	return b.ResolveReference(h).String()
}
