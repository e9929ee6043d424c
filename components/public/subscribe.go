// components/public/subscribe.go

package public

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/linkbio/internal/api"
	"github.com/yanizio/linkbio/internal/component"
	"github.com/yanizio/linkbio/internal/database"
	"github.com/yanizio/linkbio/internal/events"
	"github.com/yanizio/linkbio/internal/form"
	"github.com/yanizio/linkbio/internal/integration"
	"github.com/yanizio/linkbio/internal/page"
)

type subscribeReq struct {
	Email string `json:"email" validate:"required,email,max=320"`
}

// handleSubscribe stores an email capture for a page that has an enabled
// email-marketing integration.  The provider call is left to whoever
// consumes subscriber.created.
func (c *Component) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	var in subscribeReq
	if err := form.Decode(r, &in); err != nil {
		api.Fail(w, r, err)
		return
	}
	ctx := r.Context()
	p, err := page.BySlug(ctx, c.env.DB(), chi.URLParam(r, "slug"))
	if err != nil {
		api.Fail(w, r, err)
		return
	}
	integ, err := integration.EnabledOfKind(ctx, c.env.DB(), p.ID, integration.KindEmailMarketing)
	if errors.Is(err, database.ErrNotFound) {
		api.Fail(w, r, api.Errorf(http.StatusNotFound, "this page does not collect emails"))
		return
	}
	if err != nil {
		api.Fail(w, r, err)
		return
	}

	id, err := integration.AddSubscriber(ctx, c.env.DB(), p.ID, in.Email, integ.Provider)
	if errors.Is(err, database.ErrConflict) {
		api.Fail(w, r, api.Errorf(http.StatusConflict, "already subscribed"))
		return
	}
	if err != nil {
		api.Fail(w, r, err)
		return
	}

	component.Publish(ctx, c.env, events.SubscriberCreated, map[string]any{
		"page_id":       p.ID,
		"subscriber_id": id,
		"email":         in.Email,
		"provider":      integ.Provider,
	})
	api.Created(w, map[string]any{"subscribed": true})
}
