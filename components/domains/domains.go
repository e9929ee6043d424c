// components/domains/domains.go
//
// Domains component – custom hosts for the owner's page.
//
// Routes
//   GET    /api/domains
//   POST   /api/domains               {"host": "links.example.com"}
//   POST   /api/domains/{id}/verify   DNS check, TXT or CNAME
//   DELETE /api/domains/{id}
//
// Host cache
//   The public router resolves custom hosts through env.Hosts().  Verify and
//   Delete invalidate the host so the next visitor request reloads it from
//   the database.
//
//------------------------------------------------------------------------------

package domains

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yanizio/linkbio/internal/acl"
	"github.com/yanizio/linkbio/internal/api"
	"github.com/yanizio/linkbio/internal/component"
	"github.com/yanizio/linkbio/internal/domain"
	"github.com/yanizio/linkbio/internal/events"
	"github.com/yanizio/linkbio/internal/form"
	"github.com/yanizio/linkbio/internal/metrics"
)

var _ component.Component = (*Component)(nil)

// Component serves /api/domains and owns `domain`.
type Component struct {
	env      component.Env
	verifier *domain.Verifier
}

func (c *Component) Name() string         { return "domains" }
func (c *Component) Order() int           { return 40 }
func (c *Component) Migrations() []string { return domain.Schema }

// Init builds the DNS verifier from config.
func (c *Component) Init(env component.Env) error {
	c.env = env
	cfg := env.Config().Domains
	c.verifier = &domain.Verifier{
		Resolver:    env.DNS(),
		TXTPrefix:   cfg.TXTPrefix,
		CNAMETarget: cfg.CNAMETarget,
	}
	return nil
}

func (c *Component) Routes(r chi.Router) {
	r.With(c.env.RequireUser(), c.env.RequirePage()).Route("/api/domains", func(r chi.Router) {
		r.Get("/", c.handleList)
		r.Post("/", c.handleCreate)
		r.Post("/{id}/verify", c.handleVerify)
		r.Delete("/{id}", c.handleDelete)
	})
}

func init() { component.Register(&Component{}) }

func (c *Component) handleList(w http.ResponseWriter, r *http.Request) {
	pid, _ := acl.PageID(r.Context())
	ds, err := domain.List(r.Context(), c.env.DB(), pid)
	if err != nil {
		api.Fail(w, r, err)
		return
	}
	api.OK(w, ds)
}

func (c *Component) handleCreate(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Host string `json:"host" validate:"required"`
	}
	if err := form.Decode(r, &in); err != nil {
		api.Fail(w, r, err)
		return
	}
	host, err := domain.NormalizeHost(in.Host, c.env.Config().HTTP.PublicHost)
	if err != nil {
		api.Fail(w, r, err)
		return
	}

	pid, _ := acl.PageID(r.Context())
	id, err := domain.Create(r.Context(), c.env.DB(), pid, host)
	if err != nil {
		api.Fail(w, r, err)
		return
	}
	d, err := domain.Get(r.Context(), c.env.DB(), pid, id)
	if err != nil {
		api.Fail(w, r, err)
		return
	}
	api.Created(w, d)
}

// handleVerify runs the DNS check and stores the outcome.  A failed check
// is a normal 200 response carrying the reason.
func (c *Component) handleVerify(w http.ResponseWriter, r *http.Request) {
	id, err := api.IDParam(r, "id")
	if err != nil {
		api.Fail(w, r, err)
		return
	}
	ctx := r.Context()
	pid, _ := acl.PageID(ctx)
	d, err := domain.Get(ctx, c.env.DB(), pid, id)
	if err != nil {
		api.Fail(w, r, err)
		return
	}

	res := c.verifier.Verify(ctx, d)
	if err := domain.SaveResult(ctx, c.env.DB(), d.ID, res); err != nil {
		api.Fail(w, r, err)
		return
	}
	c.env.Hosts().Invalidate(d.Host)

	if res.Verified {
		metrics.DomainVerificationsTotal.WithLabelValues("verified").Inc()
		component.Publish(ctx, c.env, events.DomainVerified, map[string]any{
			"page_id": pid,
			"host":    d.Host,
			"method":  res.Method,
		})
	} else {
		metrics.DomainVerificationsTotal.WithLabelValues("failed").Inc()
	}
	zap.L().Info("domain verification",
		zap.String("host", d.Host), zap.Bool("verified", res.Verified), zap.String("reason", res.Reason))

	d, err = domain.Get(ctx, c.env.DB(), pid, id)
	if err != nil {
		api.Fail(w, r, err)
		return
	}
	api.OK(w, map[string]any{"domain": d, "result": res})
}

func (c *Component) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := api.IDParam(r, "id")
	if err != nil {
		api.Fail(w, r, err)
		return
	}
	ctx := r.Context()
	pid, _ := acl.PageID(ctx)
	d, err := domain.Get(ctx, c.env.DB(), pid, id)
	if err != nil {
		api.Fail(w, r, err)
		return
	}
	if err := domain.Delete(ctx, c.env.DB(), pid, id); err != nil {
		api.Fail(w, r, err)
		return
	}
	c.env.Hosts().Invalidate(d.Host)
	api.NoContent(w)
}
