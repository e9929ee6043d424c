// components/auth/auth.go
//
// Auth component – browser session exchange.
//
// Login, signup, and password reset happen at the hosted auth provider.
// The SPA receives the provider's token and trades it for an HttpOnly
// cookie here, so later API calls need no Authorization header.
//
// Routes
//   POST   /api/session   {"token": "…"} → verify, upsert user, set cookie
//   DELETE /api/session   clear cookie
//
//------------------------------------------------------------------------------

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yanizio/linkbio/internal/api"
	"github.com/yanizio/linkbio/internal/auth"
	"github.com/yanizio/linkbio/internal/component"
	"github.com/yanizio/linkbio/internal/form"
	"github.com/yanizio/linkbio/internal/session"
	"github.com/yanizio/linkbio/internal/user"
)

// Compile-time assertion: *Component satisfies component.Component.
var _ component.Component = (*Component)(nil)

// Component encapsulates the session exchange.
type Component struct {
	env component.Env
}

/*────────────────── component.Component methods ───────────────────────────*/

// Name returns the canonical component key.
func (c *Component) Name() string { return "auth" }

// Order places auth right after profile.
func (c *Component) Order() int { return 15 }

// Migrations returns nil – sessions are stateless cookies.
func (c *Component) Migrations() []string { return nil }

// Init keeps the shared environment.
func (c *Component) Init(env component.Env) error { c.env = env; return nil }

// Routes registers the session endpoints.
func (c *Component) Routes(r chi.Router) {
	r.Post("/api/session", c.handleLogin)
	r.Delete("/api/session", c.handleLogout)
}

// Register component at program start.
func init() { component.Register(&Component{}) }

/*──────────────────────────── Handlers ─────────────────────────────────────*/

type loginReq struct {
	Token string `json:"token" validate:"required"`
}

func (c *Component) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in loginReq
	if err := form.Decode(r, &in); err != nil {
		api.Fail(w, r, err)
		return
	}

	cfg := c.env.Config()
	claims, err := auth.Parse([]byte(cfg.Auth.JWTSecret), in.Token)
	if err != nil {
		zap.L().Debug("session token rejected", zap.Error(err))
		api.Fail(w, r, auth.ErrUnauthorized)
		return
	}
	uid, err := user.Ensure(r.Context(), c.env.DB(), claims.Subject, claims.Email)
	if err != nil {
		api.Fail(w, r, err)
		return
	}

	session.Set(w, r, cfg.Auth.CookieName, in.Token, cfg.Auth.SessionTTL)
	api.OK(w, map[string]any{"user_id": uid})
}

func (c *Component) handleLogout(w http.ResponseWriter, r *http.Request) {
	session.Clear(w, r, c.env.Config().Auth.CookieName)
	api.NoContent(w)
}
