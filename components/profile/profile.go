// components/profile/profile.go
//
// Profile component – the authenticated user's own account row.
//
// Routes
//   GET   /api/profile   current user (created from token claims on first call)
//   PATCH /api/profile   display_name, bio, avatar_url, timezone
//
//------------------------------------------------------------------------------

package profile

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/linkbio/internal/api"
	"github.com/yanizio/linkbio/internal/auth"
	"github.com/yanizio/linkbio/internal/component"
	"github.com/yanizio/linkbio/internal/form"
	"github.com/yanizio/linkbio/internal/user"
)

// Compile-time assertion: *Component satisfies component.Component.
var _ component.Component = (*Component)(nil)

// Component serves /api/profile.
type Component struct {
	env component.Env
}

/*────────────────── component.Component methods ───────────────────────────*/

// Name returns the canonical component key.
func (c *Component) Name() string { return "profile" }

// Order runs first; every other table references app_user.
func (c *Component) Order() int { return 10 }

// Migrations owns the app_user table.
func (c *Component) Migrations() []string { return user.Schema }

// Init keeps the shared environment.
func (c *Component) Init(env component.Env) error { c.env = env; return nil }

// Routes registers the profile endpoints.
func (c *Component) Routes(r chi.Router) {
	r.With(c.env.RequireUser()).Route("/api/profile", func(r chi.Router) {
		r.Get("/", c.handleGet)
		r.Patch("/", c.handlePatch)
	})
}

// Register component at program start.
func init() { component.Register(&Component{}) }

/*──────────────────────────── Handlers ─────────────────────────────────────*/

func (c *Component) handleGet(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserID(r.Context())
	u, err := user.ByID(r.Context(), c.env.DB(), uid)
	if err != nil {
		api.Fail(w, r, err)
		return
	}
	api.OK(w, u)
}

func (c *Component) handlePatch(w http.ResponseWriter, r *http.Request) {
	var p user.Patch
	if err := form.Decode(r, &p); err != nil {
		api.Fail(w, r, err)
		return
	}
	uid, _ := auth.UserID(r.Context())
	if err := user.Update(r.Context(), c.env.DB(), uid, p); err != nil {
		api.Fail(w, r, err)
		return
	}
	c.handleGet(w, r)
}
