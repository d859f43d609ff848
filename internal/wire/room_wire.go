package wire

import (
	"campus-booking/internal/adaptor"
	"campus-booking/internal/data/repository"
	"campus-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireRoom(
	r chi.Router,
	roomHandler *adaptor.RoomHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	r.Route("/api/rooms/{id}", func(r chi.Router) {
		r.Get("/status", roomHandler.RoomStatus)
		r.Get("/calendar.ics", roomHandler.Calendar)
	})
}
