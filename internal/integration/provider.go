// internal/integration/provider.go
//
// Known third-party providers and the config keys each one needs.
//
// Context
// -------
// linkbio never calls the providers itself.  It stores the owner's config
// and publishes events (subscriber.created, booking.created) that an
// external worker forwards.  The table below is the whole contract: which
// providers exist, which kind each belongs to, and which keys must be
// present before the integration can be enabled.

package integration

import "strings"

// Integration kinds.
const (
	KindEmailMarketing = "email_marketing"
	KindScheduling     = "scheduling"
)

// Provider describes one supported service.
type Provider struct {
	Name     string
	Kind     string
	Required []string
}

var providers = map[string]Provider{
	"mailchimp":       {Name: "mailchimp", Kind: KindEmailMarketing, Required: []string{"api_key", "list_id"}},
	"convertkit":      {Name: "convertkit", Kind: KindEmailMarketing, Required: []string{"api_key", "form_id"}},
	"calendly":        {Name: "calendly", Kind: KindScheduling, Required: []string{"scheduling_url"}},
	"google_calendar": {Name: "google_calendar", Kind: KindScheduling, Required: []string{"calendar_id", "token"}},
}

// Lookup returns the provider named name.
func Lookup(name string) (Provider, bool) {
	p, ok := providers[name]
	return p, ok
}

// secretHints mark config keys whose values are masked on read.
var secretHints = []string{"api_key", "token", "secret", "password"}

// IsSecretKey reports whether a config key holds a credential.
func IsSecretKey(key string) bool {
	k := strings.ToLower(key)
	for _, h := range secretHints {
		if strings.Contains(k, h) {
			return true
		}
	}
	return false
}

// Mask hides all but the last four characters of a secret.
func Mask(v string) string {
	if len(v) <= 4 {
		return strings.Repeat("•", len(v))
	}
	return strings.Repeat("•", 8) + v[len(v)-4:]
}
