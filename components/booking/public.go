// components/booking/public.go

package booking

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/linkbio/internal/api"
	"github.com/yanizio/linkbio/internal/booking"
	"github.com/yanizio/linkbio/internal/component"
	"github.com/yanizio/linkbio/internal/events"
	"github.com/yanizio/linkbio/internal/form"
	"github.com/yanizio/linkbio/internal/metrics"
	"github.com/yanizio/linkbio/internal/page"
	"github.com/yanizio/linkbio/internal/user"
)

// target is the owner and meeting type behind a public booking URL.
type target struct {
	ownerID int64
	loc     *time.Location
	mt      *booking.MeetingType
}

// resolve maps {slug}/{meetingSlug} to a published page's owner and an
// active meeting type.  Any miss is a 404.
func (c *Component) resolve(r *http.Request) (*target, error) {
	ctx := r.Context()
	p, err := page.BySlug(ctx, c.env.DB(), chi.URLParam(r, "slug"))
	if err != nil {
		return nil, err
	}
	owner, err := user.ByID(ctx, c.env.DB(), p.UserID)
	if err != nil {
		return nil, err
	}
	mt, err := booking.ActiveTypeBySlug(ctx, c.env.DB(), owner.ID, chi.URLParam(r, "meetingSlug"))
	if err != nil {
		return nil, err
	}
	return &target{ownerID: owner.ID, loc: owner.Location(), mt: mt}, nil
}

func (c *Component) handleSlots(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		api.Fail(w, r, form.Errors{{Name: "date", Message: "This field is required."}})
		return
	}
	t, err := c.resolve(r)
	if err != nil {
		api.Fail(w, r, err)
		return
	}
	slots, err := booking.DaySlots(r.Context(), c.env.DB(), t.ownerID, t.loc, t.mt, date, c.env.Now())
	if err != nil {
		api.Fail(w, r, err)
		return
	}
	api.OK(w, map[string]any{
		"meeting_type": t.mt,
		"timezone":     t.loc.String(),
		"date":         date,
		"slots":        slots,
	})
}

func (c *Component) handleBook(w http.ResponseWriter, r *http.Request) {
	var in booking.Request
	if err := form.Decode(r, &in); err != nil {
		api.Fail(w, r, err)
		return
	}
	t, err := c.resolve(r)
	if err != nil {
		api.Fail(w, r, err)
		return
	}

	b, err := booking.Book(r.Context(), c.env.DB(), t.ownerID, t.loc, t.mt, in, c.env.Now())
	if errors.Is(err, booking.ErrSlotUnavailable) {
		metrics.BookingsTotal.WithLabelValues("conflict").Inc()
		api.Fail(w, r, api.Errorf(http.StatusConflict, "that time is no longer available"))
		return
	}
	if err != nil {
		metrics.BookingsTotal.WithLabelValues("error").Inc()
		api.Fail(w, r, err)
		return
	}
	metrics.BookingsTotal.WithLabelValues("confirmed").Inc()

	component.Publish(r.Context(), c.env, events.BookingCreated, map[string]any{
		"booking_id":   b.PublicID,
		"user_id":      t.ownerID,
		"meeting_type": t.mt.Slug,
		"guest_name":   b.GuestName,
		"guest_email":  b.GuestEmail,
		"starts_at":    b.StartsAt,
		"ends_at":      b.EndsAt,
	})
	api.Created(w, b)
}
