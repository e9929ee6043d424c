// components/public/redirect.go

package public

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/yanizio/linkbio/internal/analytics"
	"github.com/yanizio/linkbio/internal/api"
	"github.com/yanizio/linkbio/internal/component"
	"github.com/yanizio/linkbio/internal/events"
	"github.com/yanizio/linkbio/internal/link"
	"github.com/yanizio/linkbio/internal/metrics"
)

// handleRedirect sends the visitor on when the link is active.  Expired
// links answer 410 so crawlers drop them; inactive and not-yet-started
// links look like they do not exist.
func (c *Component) handleRedirect(w http.ResponseWriter, r *http.Request) {
	id, err := api.IDParam(r, "id")
	if err != nil {
		api.Fail(w, r, err)
		return
	}
	l, err := link.ForRedirect(r.Context(), c.env.DB(), id, c.env.Now())
	if err != nil {
		api.Fail(w, r, err)
		return
	}
	metrics.LinkClicksTotal.WithLabelValues(string(l.Status)).Inc()

	switch l.Status {
	case link.StatusActive:
	case link.StatusExpired:
		api.Error(w, http.StatusGone, "this link has expired")
		return
	default:
		api.Error(w, http.StatusNotFound, "not found")
		return
	}

	if err := link.CountClick(r.Context(), c.env.DB(), l.ID); err != nil {
		zap.L().Warn("count click", zap.Int64("link_id", l.ID), zap.Error(err))
	}
	c.record(r.Context(), l.PageID, &l.ID, analytics.KindLinkClick)
	component.Publish(r.Context(), c.env, events.LinkClicked, map[string]any{
		"page_id": l.PageID,
		"link_id": l.ID,
		"url":     l.URL,
	})

	w.Header().Set("Cache-Control", "no-store")
	http.Redirect(w, r, l.URL, http.StatusFound)
}
