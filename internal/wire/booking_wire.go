package wire

import (
	"campus-booking/internal/adaptor"
	"campus-booking/internal/data/repository"
	"campus-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	r.Route("/api/bookings", func(r chi.Router) {
		// POST /api/bookings/create - expand and store a booking
		r.Post("/create", bookingHandler.CreateBooking)

		// GET /api/bookings/all - upcoming confirmed bookings
		r.Get("/all", bookingHandler.ListUpcoming)

		// GET /api/bookings - every booking
		r.Get("/", bookingHandler.ListAll)

		r.Get("/{id}", bookingHandler.GetBookingByID)
	})
}
