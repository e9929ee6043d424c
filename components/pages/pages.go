// components/pages/pages.go
//
// Pages component – the owner's single page and its blocks.
//
// Routes
//   GET    /api/page                    caller's page
//   POST   /api/page                    create (one per user)
//   PATCH  /api/page                    title, description, theme, published, slug
//   DELETE /api/page                    soft delete
//   GET    /api/page/slug-available     ?slug=
//   GET    /api/page/blocks             list
//   POST   /api/page/blocks             append
//   PUT    /api/page/blocks/order       {"ids": […]}
//   PATCH  /api/page/blocks/{id}        config, visible
//   DELETE /api/page/blocks/{id}
//
// Notes
//   Slugs are normalised with routing.MakeSlug before validation, so
//   "Jane Doe" becomes "jane-doe".
//
//------------------------------------------------------------------------------

package pages

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/linkbio/internal/acl"
	"github.com/yanizio/linkbio/internal/api"
	"github.com/yanizio/linkbio/internal/auth"
	"github.com/yanizio/linkbio/internal/block"
	"github.com/yanizio/linkbio/internal/component"
	"github.com/yanizio/linkbio/internal/form"
	"github.com/yanizio/linkbio/internal/page"
	"github.com/yanizio/linkbio/internal/routing"
)

// Compile-time assertion: *Component satisfies component.Component.
var _ component.Component = (*Component)(nil)

// Component serves /api/page.
type Component struct {
	env component.Env
}

/*────────────────── component.Component methods ───────────────────────────*/

func (c *Component) Name() string { return "pages" }
func (c *Component) Order() int   { return 20 }

// Migrations owns page and block.
func (c *Component) Migrations() []string {
	return append(append([]string{}, page.Schema...), block.Schema...)
}

func (c *Component) Init(env component.Env) error { c.env = env; return nil }

// Routes registers page and block endpoints.  Block routes and page
// mutations after creation need an existing page.
func (c *Component) Routes(r chi.Router) {
	r.With(c.env.RequireUser()).Route("/api/page", func(r chi.Router) {
		r.Get("/", c.handleGet)
		r.Post("/", c.handleCreate)
		r.Get("/slug-available", c.handleSlugAvailable)

		r.Group(func(r chi.Router) {
			r.Use(c.env.RequirePage())
			r.Patch("/", c.handlePatch)
			r.Delete("/", c.handleDelete)

			r.Get("/blocks", c.handleListBlocks)
			r.Post("/blocks", c.handleCreateBlock)
			r.Put("/blocks/order", c.handleOrderBlocks)
			r.Patch("/blocks/{id}", c.handlePatchBlock)
			r.Delete("/blocks/{id}", c.handleDeleteBlock)
		})
	})
}

func init() { component.Register(&Component{}) }

/*──────────────────────────── Page handlers ────────────────────────────────*/

func (c *Component) handleGet(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserID(r.Context())
	p, err := page.ByUser(r.Context(), c.env.DB(), uid)
	if err != nil {
		api.Fail(w, r, err)
		return
	}
	api.OK(w, p)
}

func (c *Component) handleCreate(w http.ResponseWriter, r *http.Request) {
	var in page.NewPage
	if err := form.Decode(r, &in); err != nil {
		api.Fail(w, r, err)
		return
	}
	in.Slug = routing.MakeSlug(in.Slug)
	if err := checkSlug(in.Slug); err != nil {
		api.Fail(w, r, err)
		return
	}

	uid, _ := auth.UserID(r.Context())
	if _, err := page.Create(r.Context(), c.env.DB(), uid, in); err != nil {
		api.Fail(w, r, slugError(err))
		return
	}
	p, err := page.ByUser(r.Context(), c.env.DB(), uid)
	if err != nil {
		api.Fail(w, r, err)
		return
	}
	api.Created(w, p)
}

func (c *Component) handlePatch(w http.ResponseWriter, r *http.Request) {
	var in page.Patch
	if err := form.Decode(r, &in); err != nil {
		api.Fail(w, r, err)
		return
	}
	if in.Slug != nil {
		s := routing.MakeSlug(*in.Slug)
		if err := checkSlug(s); err != nil {
			api.Fail(w, r, err)
			return
		}
		in.Slug = &s
	}

	pid, _ := acl.PageID(r.Context())
	if err := page.Update(r.Context(), c.env.DB(), pid, in); err != nil {
		api.Fail(w, r, slugError(err))
		return
	}
	c.handleGet(w, r)
}

func (c *Component) handleDelete(w http.ResponseWriter, r *http.Request) {
	pid, _ := acl.PageID(r.Context())
	if err := page.SoftDelete(r.Context(), c.env.DB(), pid); err != nil {
		api.Fail(w, r, err)
		return
	}
	api.NoContent(w)
}

func (c *Component) handleSlugAvailable(w http.ResponseWriter, r *http.Request) {
	slug := routing.MakeSlug(r.URL.Query().Get("slug"))
	ok, err := page.SlugAvailable(r.Context(), c.env.DB(), slug)
	if err != nil {
		api.Fail(w, r, err)
		return
	}
	api.OK(w, map[string]any{"slug": slug, "available": ok})
}

// checkSlug reports invalid and reserved slugs as field errors.
func checkSlug(slug string) error {
	switch {
	case routing.Reserved(slug):
		return form.Errors{{Name: "slug", Message: "This address is reserved."}}
	case !routing.ValidSlug(slug):
		return form.Errors{{Name: "slug", Message: "Use 3 to 40 lowercase letters, digits, or dashes."}}
	}
	return nil
}

// slugError turns slug collisions into messages the editor can show.
func slugError(err error) error {
	if errors.Is(err, page.ErrSlugReserved) {
		return form.Errors{{Name: "slug", Message: "This address is reserved."}}
	}
	return err
}
