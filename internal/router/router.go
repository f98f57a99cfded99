package router

import (
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/FACorreiaa/apuntes-marketplace/docs"

	appLogger "github.com/FACorreiaa/apuntes-marketplace/app/logger"
	appMiddleware "github.com/FACorreiaa/apuntes-marketplace/app/middleware"
	"github.com/FACorreiaa/apuntes-marketplace/internal/api"
	"github.com/FACorreiaa/apuntes-marketplace/internal/api/auth"
	"github.com/FACorreiaa/apuntes-marketplace/internal/api/listing"
	"github.com/FACorreiaa/apuntes-marketplace/internal/api/storage"
	"github.com/FACorreiaa/apuntes-marketplace/internal/api/user"
)

// Config contains dependencies needed for the router setup
type Config struct {
	AuthHandler    *auth.AuthHandler
	UserHandler    *user.UserHandler
	ListingHandler *listing.ListingHandler
	// StorageHandler is optional; without it image uploads are not offered.
	StorageHandler *storage.StorageHandler

	AuthenticateMiddleware func(http.Handler) http.Handler
	// AuthRateLimit guards the credential endpoints. Nil disables it.
	AuthRateLimit func(http.Handler) http.Handler

	AllowedOrigins []string
	ClientDir      string
	Timeout        time.Duration
	Logger         *slog.Logger
}

// SetupRouter builds the application router with server-wide middleware,
// the JSON API under /api and the client bundle everywhere else.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(appLogger.StructuredLogger(cfg.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))
	r.Use(middleware.Compress(5, "application/json", "text/html", "text/css", "application/javascript"))
	r.Use(appMiddleware.SecurityHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})

	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			if cfg.AuthRateLimit != nil {
				r.Use(cfg.AuthRateLimit)
			}
			r.Post("/signup", cfg.AuthHandler.Signup)
			r.Post("/signin", cfg.AuthHandler.Signin)
			r.Post("/google", cfg.AuthHandler.Google)
			r.Get("/signout", cfg.AuthHandler.SignOut)
		})

		r.Route("/user", func(r chi.Router) {
			r.Get("/{id}", cfg.UserHandler.GetUser)

			r.Group(func(r chi.Router) {
				r.Use(cfg.AuthenticateMiddleware)
				r.Post("/update/{id}", cfg.UserHandler.UpdateUser)
				r.Delete("/delete/{id}", cfg.UserHandler.DeleteUser)
				r.Get("/listings/{id}", cfg.UserHandler.GetUserListings)
			})
		})

		r.Route("/listing", func(r chi.Router) {
			r.Get("/get", cfg.ListingHandler.GetListings)
			r.Get("/get/{id}", cfg.ListingHandler.GetListing)

			r.Group(func(r chi.Router) {
				r.Use(cfg.AuthenticateMiddleware)
				r.Post("/create", cfg.ListingHandler.CreateListing)
				r.Post("/update/{id}", cfg.ListingHandler.UpdateListing)
				r.Delete("/delete/{id}", cfg.ListingHandler.DeleteListing)
			})
		})

		if cfg.StorageHandler != nil {
			r.With(cfg.AuthenticateMiddleware).Post("/storage/presign", cfg.StorageHandler.PresignUpload)
		}

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Not found")
		})
		r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
			api.ErrorResponse(w, r, http.StatusMethodNotAllowed, "Method not allowed")
		})
	})

	r.NotFound(clientHandler(cfg.ClientDir))

	return r
}

// clientHandler serves files from the client bundle and falls back to
// index.html so client-side routes survive a reload.
func clientHandler(dir string) http.HandlerFunc {
	root := http.Dir(dir)
	files := http.FileServer(root)
	index := filepath.Join(dir, "index.html")

	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			api.ErrorResponse(w, r, http.StatusNotFound, "Not found")
			return
		}

		name := path.Clean("/" + r.URL.Path)
		if f, err := root.Open(name); err == nil {
			info, statErr := f.Stat()
			_ = f.Close()
			if statErr == nil && !info.IsDir() {
				files.ServeHTTP(w, r)
				return
			}
		}

		if _, err := os.Stat(index); err != nil {
			api.ErrorResponse(w, r, http.StatusNotFound, "Not found")
			return
		}
		if strings.HasSuffix(r.URL.Path, "/index.html") {
			r.URL.Path = "/"
		}
		http.ServeFile(w, r, index)
	}
}
