//
//  internal/requestinfo/requestinfo.go
//
//  Lightweight types and helpers that collect per-request metadata
//  (user-agent fingerprint, IP + geolocation, referrer, and timestamp).
//  Analytics events are built from these values, so they are inert and
//  safe to log or JSON-encode.
//
//  Dependencies
//  • github.com/avct/uasurfer          (UA parsing)
//  • github.com/oschwald/geoip2-golang (MaxMind lookup, optional)
//

package requestinfo

import (
	"context"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/avct/uasurfer"
	"github.com/oschwald/geoip2-golang"

	"github.com/yanizio/linkbio/internal/cache"
)

//
//  -----------------------------
//  Struct definitions
//  -----------------------------
//

// UA holds the parsed user-agent properties recorded with analytics events.
type UA struct {
	Browser string // "Chrome", "Firefox", "Safari", …
	OS      string // "macOS", "Windows", "Android", "iOS", …
	Device  string // "Desktop", "Phone", "Tablet", "TV", …
	IsBot   bool
}

// Geo holds IP-based geolocation hints.  Empty when no database is loaded.
type Geo struct {
	IP         net.IP
	CountryISO string
	City       string
}

// RequestInfo is attached to the request context by Enrich.
type RequestInfo struct {
	UA        UA
	Geo       Geo
	Referrer  string // host of the Referer header, "" for direct traffic
	Timestamp time.Time
}

//
//  -----------------------------
//  Package-level state
//  -----------------------------
//

// geoReader is a singleton MaxMind handle, safe for concurrent reads.
var geoReader *geoip2.Reader

// uaCache memoises parses; real traffic repeats a small set of UA strings.
var uaCache = cache.New[string, UA](4096)

// InitGeo opens the GeoLite2-City database.  An empty path disables geo
// lookups.
func InitGeo(dbPath string) error {
	if dbPath == "" {
		return nil
	}
	r, err := geoip2.Open(dbPath)
	if err != nil {
		return err
	}
	geoReader = r
	return nil
}

// CloseGeo releases the MaxMind handle.
func CloseGeo() {
	if geoReader != nil {
		_ = geoReader.Close()
		geoReader = nil
	}
}

//
//  -----------------------------
//  Context helpers
//  -----------------------------
//

type ctxKey struct{} // unexported, collision-proof

// FromContext returns the pointer previously stored by Enrich, or nil.
func FromContext(ctx context.Context) *RequestInfo {
	v, _ := ctx.Value(ctxKey{}).(*RequestInfo)
	return v
}

// WithInfo stores info in ctx.  Used by Enrich and tests.
func WithInfo(ctx context.Context, info *RequestInfo) context.Context {
	return context.WithValue(ctx, ctxKey{}, info)
}

//
//  -----------------------------
//  Internal helpers
//  -----------------------------
//

// ParseUA converts a raw header into our UA struct using uasurfer.
func ParseUA(header string) UA {
	if ua, ok := uaCache.Get(header); ok {
		return ua
	}
	u := uasurfer.Parse(header)

	osName := strings.TrimPrefix(u.OS.Name.String(), "OS")
	if osName == "MacOSX" {
		osName = "macOS"
	}

	ua := UA{
		Browser: strings.TrimPrefix(u.Browser.Name.String(), "Browser"),
		OS:      osName,
		Device:  deviceTypeToString(u.DeviceType),
		IsBot:   u.IsBot(),
	}
	uaCache.Add(header, ua)
	return ua
}

// deviceTypeToString maps uasurfer.DeviceType to a user-friendly string.
func deviceTypeToString(dt uasurfer.DeviceType) string {
	switch dt {
	case uasurfer.DeviceComputer:
		return "Desktop"
	case uasurfer.DevicePhone:
		return "Phone"
	case uasurfer.DeviceTablet:
		return "Tablet"
	case uasurfer.DeviceConsole:
		return "Console"
	case uasurfer.DeviceWearable:
		return "Wearable"
	case uasurfer.DeviceTV:
		return "TV"
	default:
		return "Unknown"
	}
}

// referrerHost returns the Referer host, dropping self-referrals.
func referrerHost(ref, selfHost string) string {
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil || u.Host == "" {
		return ""
	}
	host := strings.ToLower(strings.TrimPrefix(u.Hostname(), "www."))
	if host == strings.ToLower(selfHost) {
		return ""
	}
	return host
}

// lookupGeo returns best-effort Geo data using the global reader.
func lookupGeo(ip net.IP) Geo {
	if geoReader == nil || ip == nil {
		return Geo{IP: ip}
	}
	rec, err := geoReader.City(ip)
	if err != nil {
		return Geo{IP: ip}
	}
	return Geo{
		IP:         ip,
		CountryISO: rec.Country.IsoCode,
		City:       rec.City.Names["en"],
	}
}
