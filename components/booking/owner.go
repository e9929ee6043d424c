// components/booking/owner.go

package booking

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/linkbio/internal/api"
	"github.com/yanizio/linkbio/internal/auth"
	"github.com/yanizio/linkbio/internal/booking"
	"github.com/yanizio/linkbio/internal/component"
	"github.com/yanizio/linkbio/internal/events"
	"github.com/yanizio/linkbio/internal/form"
	"github.com/yanizio/linkbio/internal/user"
)

// defaultDays is the span of GET /api/bookings without explicit bounds.
const defaultDays = 30

/*──────────────────────────── Meeting types ───────────────────────────────*/

func (c *Component) handleListTypes(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserID(r.Context())
	ts, err := booking.ListTypes(r.Context(), c.env.DB(), uid)
	if err != nil {
		api.Fail(w, r, err)
		return
	}
	api.OK(w, ts)
}

func (c *Component) handleCreateType(w http.ResponseWriter, r *http.Request) {
	var in booking.TypeInput
	if err := form.Decode(r, &in); err != nil {
		api.Fail(w, r, err)
		return
	}
	uid, _ := auth.UserID(r.Context())
	id, err := booking.CreateType(r.Context(), c.env.DB(), uid, in)
	if err != nil {
		api.Fail(w, r, err)
		return
	}
	mt, err := booking.GetType(r.Context(), c.env.DB(), uid, id)
	if err != nil {
		api.Fail(w, r, err)
		return
	}
	api.Created(w, mt)
}

func (c *Component) handlePatchType(w http.ResponseWriter, r *http.Request) {
	id, err := api.IDParam(r, "id")
	if err != nil {
		api.Fail(w, r, err)
		return
	}
	var in booking.TypePatch
	if err := form.Decode(r, &in); err != nil {
		api.Fail(w, r, err)
		return
	}
	uid, _ := auth.UserID(r.Context())
	if err := booking.UpdateType(r.Context(), c.env.DB(), uid, id, in); err != nil {
		api.Fail(w, r, err)
		return
	}
	mt, err := booking.GetType(r.Context(), c.env.DB(), uid, id)
	if err != nil {
		api.Fail(w, r, err)
		return
	}
	api.OK(w, mt)
}

func (c *Component) handleDeleteType(w http.ResponseWriter, r *http.Request) {
	id, err := api.IDParam(r, "id")
	if err != nil {
		api.Fail(w, r, err)
		return
	}
	uid, _ := auth.UserID(r.Context())
	if err := booking.DeleteType(r.Context(), c.env.DB(), uid, id); err != nil {
		api.Fail(w, r, err)
		return
	}
	api.NoContent(w)
}

/*──────────────────────────── Availability ────────────────────────────────*/

func (c *Component) handleGetAvailability(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserID(r.Context())
	ws, err := booking.ListWindows(r.Context(), c.env.DB(), uid)
	if err != nil {
		api.Fail(w, r, err)
		return
	}
	api.OK(w, map[string]any{"windows": ws})
}

func (c *Component) handlePutAvailability(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Windows []booking.WindowInput `json:"windows"`
	}
	if err := form.Decode(r, &in); err != nil {
		api.Fail(w, r, err)
		return
	}
	ws, err := booking.ParseWindows(in.Windows)
	if err != nil {
		api.Fail(w, r, err)
		return
	}
	uid, _ := auth.UserID(r.Context())
	if err := booking.ReplaceWindows(r.Context(), c.env.DB(), uid, ws); err != nil {
		api.Fail(w, r, err)
		return
	}
	api.OK(w, map[string]any{"windows": ws})
}

/*──────────────────────────── Bookings ────────────────────────────────────*/

func (c *Component) handleListBookings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	uid, _ := auth.UserID(ctx)
	owner, err := user.ByID(ctx, c.env.DB(), uid)
	if err != nil {
		api.Fail(w, r, err)
		return
	}
	from, to, err := bookingRange(r.URL.Query().Get("from"), r.URL.Query().Get("to"),
		c.env.Now(), owner.Location())
	if err != nil {
		api.Fail(w, r, err)
		return
	}
	bs, err := booking.ListBookings(ctx, c.env.DB(), uid, from, to)
	if err != nil {
		api.Fail(w, r, err)
		return
	}
	api.OK(w, bs)
}

// bookingRange parses inclusive local dates into [from, to).  Without a
// from it starts today; without a to it covers defaultDays.
func bookingRange(fromStr, toStr string, now time.Time, loc *time.Location) (time.Time, time.Time, error) {
	local := now.In(loc)
	from := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)

	var fe form.Errors
	if fromStr != "" {
		t, err := time.ParseInLocation(time.DateOnly, fromStr, loc)
		if err != nil {
			fe.Add("from", "Must be a YYYY-MM-DD date.")
		}
		from = t
	}
	to := from.AddDate(0, 0, defaultDays)
	if toStr != "" {
		t, err := time.ParseInLocation(time.DateOnly, toStr, loc)
		if err != nil {
			fe.Add("to", "Must be a YYYY-MM-DD date.")
		}
		to = t.AddDate(0, 0, 1)
	}
	if err := fe.Err(); err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !to.After(from) {
		return time.Time{}, time.Time{}, form.Errors{{Name: "to", Message: "Must not be before from."}}
	}
	return from, to, nil
}

func (c *Component) handleCancel(w http.ResponseWriter, r *http.Request) {
	publicID := chi.URLParam(r, "id")
	uid, _ := auth.UserID(r.Context())
	if err := booking.Cancel(r.Context(), c.env.DB(), uid, publicID); err != nil {
		api.Fail(w, r, err)
		return
	}
	component.Publish(r.Context(), c.env, events.BookingCancelled, map[string]any{
		"booking_id": publicID,
		"user_id":    uid,
	})
	api.NoContent(w)
}
