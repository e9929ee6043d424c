// components/booking/booking.go
//
// Booking component – meeting types, weekly availability, and bookings.
//
// Owner routes (session required)
//   GET    /api/meeting-types
//   POST   /api/meeting-types
//   PATCH  /api/meeting-types/{id}
//   DELETE /api/meeting-types/{id}
//   GET    /api/availability
//   PUT    /api/availability           {"windows": [{weekday, start, end}, …]}
//   GET    /api/bookings?from=&to=     dates in the owner's time zone
//   POST   /api/bookings/{id}/cancel   id is the public booking id
//
// Public routes (behind env.Public())
//   GET    /api/public/book/{slug}/{meetingSlug}/slots?date=YYYY-MM-DD
//   POST   /api/public/book/{slug}/{meetingSlug}
//
// Time zones
//   Availability is stored as minutes from local midnight and interpreted in
//   the owner's profile time zone.  Bookings are stored in UTC.
//
//------------------------------------------------------------------------------

package booking

import (
	"github.com/go-chi/chi/v5"

	"github.com/yanizio/linkbio/internal/booking"
	"github.com/yanizio/linkbio/internal/component"
)

var _ component.Component = (*Component)(nil)

// Component owns `meeting_type`, `availability`, and `booking`.
type Component struct {
	env component.Env
}

func (c *Component) Name() string                 { return "booking" }
func (c *Component) Order() int                   { return 50 }
func (c *Component) Migrations() []string         { return booking.Schema }
func (c *Component) Init(env component.Env) error { c.env = env; return nil }

func (c *Component) Routes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(c.env.RequireUser())

		r.Get("/api/meeting-types", c.handleListTypes)
		r.Post("/api/meeting-types", c.handleCreateType)
		r.Patch("/api/meeting-types/{id}", c.handlePatchType)
		r.Delete("/api/meeting-types/{id}", c.handleDeleteType)

		r.Get("/api/availability", c.handleGetAvailability)
		r.Put("/api/availability", c.handlePutAvailability)

		r.Get("/api/bookings", c.handleListBookings)
		r.Post("/api/bookings/{id}/cancel", c.handleCancel)
	})

	r.With(c.env.Public()).Route("/api/public/book/{slug}/{meetingSlug}", func(r chi.Router) {
		r.Get("/slots", c.handleSlots)
		r.Post("/", c.handleBook)
	})
}

func init() { component.Register(&Component{}) }
