// internal/config/model.go
//
// Typed configuration model for linkbio.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                           – dotenv values,
//   • `conf/global.yaml`                        – primary static file,
//   • `LINKBIO_`-prefixed environment overrides – highest precedence.
//
// Any value whose string begins with the prefix `vault:` is resolved through
// the Vault client after validation (see secrets.go), so callers never see a
// Vault URI once startup completes.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Oxford commas, two spaces after periods.  No em-dash.

package config

import "time"

//
// HTTP section
//

// HTTP holds web-server tunables.  PublicHost is the platform's own host; it
// is never accepted as a custom domain.
type HTTP struct {
	ListenAddr      string        `koanf:"listen_addr"      validate:"required,hostname_port"`
	PublicHost      string        `koanf:"public_host"      validate:"required,hostname"`
	ForceHTTPS      bool          `koanf:"force_https"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

//
// Database section
//

// Database holds the DSN template and its secret.
//
// The DSN is kept in YAML with a `{password}` placeholder so operators can
// tweak host, port, or flags without touching Vault.  Password is usually a
// `vault:` reference and is injected at runtime.
type Database struct {
	DSN          string `koanf:"dsn"            validate:"required"`
	Password     string `koanf:"password"`
	MaxOpenConns int    `koanf:"max_open_conns" validate:"gte=0"`
	MaxIdleConns int    `koanf:"max_idle_conns" validate:"gte=0"`
}

//
// Auth section
//

// Auth configures verification of tokens issued by the hosted auth provider.
type Auth struct {
	JWTSecret  string        `koanf:"jwt_secret"  validate:"required"`
	CookieName string        `koanf:"cookie_name"`
	SessionTTL time.Duration `koanf:"session_ttl"`
}

//
// Optional backends
//

// Redis backs the shared rate-limit store.  Empty Addr selects the in-memory
// store.
type Redis struct {
	Addr     string `koanf:"addr"     validate:"omitempty,hostname_port"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"       validate:"gte=0"`
}

// NATS receives domain events.  Empty URL selects the log-only publisher.
type NATS struct {
	URL string `koanf:"url" validate:"omitempty,url"`
}

// Geo points at an optional GeoLite2-City database.
type Geo struct {
	CityDB string `koanf:"city_db"`
}

//
// Feature sections
//

// Domains configures custom-domain verification.
type Domains struct {
	CNAMETarget string        `koanf:"cname_target" validate:"required,fqdn"`
	TXTPrefix   string        `koanf:"txt_prefix"`
	HostTTL     time.Duration `koanf:"host_ttl"`
	MaxHosts    int           `koanf:"max_hosts"    validate:"gte=0"`
}

// RateLimit uses ulule/limiter formatted rates, e.g. "120-M".
type RateLimit struct {
	Public string `koanf:"public"`
}

// Log controls the zap level.
type Log struct {
	Level string `koanf:"level" validate:"omitempty,oneof=debug info warn error"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime, never set in YAML or env.
type Paths struct {
	Root string // LINKBIO_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP      HTTP      `koanf:"http"`
	Database  Database  `koanf:"database"`
	Auth      Auth      `koanf:"auth"`
	Redis     Redis     `koanf:"redis"`
	NATS      NATS      `koanf:"nats"`
	Geo       Geo       `koanf:"geo"`
	Domains   Domains   `koanf:"domains"`
	RateLimit RateLimit `koanf:"ratelimit"`
	Log       Log       `koanf:"log"`
	Paths     Paths     `koanf:"-"`
}

// applyDefaults fills optional values left empty by every layer.
func (c *Config) applyDefaults() {
	if c.HTTP.ShutdownTimeout <= 0 {
		c.HTTP.ShutdownTimeout = 10 * time.Second
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 15
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Auth.CookieName == "" {
		c.Auth.CookieName = "linkbio_session"
	}
	if c.Auth.SessionTTL <= 0 {
		c.Auth.SessionTTL = 14 * 24 * time.Hour
	}
	if c.Domains.TXTPrefix == "" {
		c.Domains.TXTPrefix = "_linkbio"
	}
	if c.Domains.HostTTL <= 0 {
		c.Domains.HostTTL = 30 * time.Minute
	}
	if c.Domains.MaxHosts == 0 {
		c.Domains.MaxHosts = 1000
	}
	if c.RateLimit.Public == "" {
		c.RateLimit.Public = "120-M"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}
