package routes

import (
	"log/slog"
	"net/http"

	"gamelogger/internal/clients/igdb"
	"gamelogger/internal/controllers"
	"gamelogger/internal/middleware"
	"gamelogger/internal/services"
	"gamelogger/internal/storage/sqlite"
	"gamelogger/internal/storage/uploads"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func SetupRouter(log *slog.Logger, storage *sqlite.Storage, photos uploads.IPhotos, catalog *igdb.Client, corsOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Logger(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	logService := services.NewLogService(storage, catalog, log)
	timerService := services.NewTimerService(storage, log)
	settingsService := services.NewSettingsService(storage, log)

	logController := controllers.NewLogController(logService, log)
	timerController := controllers.NewTimerController(timerService, log)
	discoverController := controllers.NewDiscoverController(catalog, log)
	settingsController := controllers.NewSettingsController(settingsService, log)
	photoController := controllers.NewPhotoController(photos, log)

	r.Route("/api", func(r chi.Router) {
		r.Route("/logs", func(r chi.Router) {
			r.Get("/", logController.GetAll)
			r.Delete("/", logController.DeleteAll)
			r.Get("/photos", logController.GetPhotos)
			r.Get("/watch", logController.Watch)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", logController.GetByID)
				r.Post("/", logController.Save)
				r.Delete("/", logController.Delete)
				r.Put("/review", logController.UpdateReview)
				r.Post("/timer", timerController.Toggle)
				r.Put("/playtime", timerController.SetPlaytime)
				r.Get("/elapsed", timerController.Elapsed)
			})
		})

		r.Route("/discover", func(r chi.Router) {
			r.Get("/trending", discoverController.Trending)
			r.Get("/search", discoverController.Search)
			r.Get("/random", discoverController.Random)
		})
		r.Get("/games/{id}", discoverController.Details)

		r.Route("/settings", func(r chi.Router) {
			r.Get("/theme", settingsController.GetTheme)
			r.Put("/theme", settingsController.SetTheme)
		})

		r.Post("/photos", photoController.Upload)
	})

	fileServer := http.StripPrefix(uploads.BaseURI+"/", http.FileServer(http.Dir(photos.Dir())))
	r.Get(uploads.BaseURI+"/*", fileServer.ServeHTTP)

	return r
}
