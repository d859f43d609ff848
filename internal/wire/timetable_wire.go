package wire

import (
	"campus-booking/internal/adaptor"
	"campus-booking/internal/data/repository"
	"campus-booking/pkg/middleware"
	"campus-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireTimetable(
	r chi.Router,
	timetableHandler *adaptor.TimetableHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// Imports rewrite the shared artifacts and create bookings for everyone,
	// so they need a scheduler session.
	r.Route("/api/csv", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))
		r.Use(middleware.Scheduler(log))

		r.Post("/upload", timetableHandler.Upload)
		r.Post("/save_timetable", timetableHandler.SaveTimetable)
		r.Get("/getData", timetableHandler.Preview)
		r.Get("/download", timetableHandler.Download)
	})
}
