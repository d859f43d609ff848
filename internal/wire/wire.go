package wire

import (
	"net/http"

	"campus-booking/internal/adaptor"
	"campus-booking/internal/data/repository"
	"campus-booking/internal/usecase"
	"campus-booking/pkg/middleware"
	"campus-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// App holds the wired HTTP router.
type App struct {
	Router *chi.Mux
}

// Wiring builds services and handlers and mounts every route.
func Wiring(repo *repository.Repository, infra usecase.Infra, config *utils.Config, logger *zap.Logger) (*App, error) {
	service, err := usecase.NewService(repo, infra, config, logger)
	if err != nil {
		return nil, err
	}
	handler := adaptor.NewHandler(service, config.Import.MaxUploadBytes, logger)

	return &App{
		Router: setupRouter(handler, repo, config, logger),
	}, nil
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.CORS.AllowedOrigins))

	wireBooking(r, handler.Booking, repo, config, logger)
	wireRoom(r, handler.Room, repo, config, logger)
	wireTimetable(r, handler.Timetable, repo, config, logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
