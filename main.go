package main

import (
	"crypto/tls"
	"encoding/json"
	stdlog "log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/LPTrade994/repricer-ready-pro-keepa/src/config"
	"github.com/LPTrade994/repricer-ready-pro-keepa/src/database"
	"github.com/LPTrade994/repricer-ready-pro-keepa/src/handlers"
	"github.com/LPTrade994/repricer-ready-pro-keepa/src/logger"
	"github.com/LPTrade994/repricer-ready-pro-keepa/src/model"
	"github.com/LPTrade994/repricer-ready-pro-keepa/src/services"
	"github.com/LPTrade994/repricer-ready-pro-keepa/src/utils"
)

const sessionJanitorInterval = 30 * time.Minute

func proxyHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Forwarded-Proto") == "https" {
			r.URL.Scheme = "https"
			r.TLS = &tls.ConnectionState{}
		}
		next.ServeHTTP(w, r)
	})
}

var limiter = rate.NewLimiter(rate.Every(100*time.Millisecond), 30)

func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			logger.L.Warn("Rate limit exceeded", "path", r.URL.Path)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		allowedOrigins := map[string]bool{
			"http://localhost:3000":    true,
			config.Cfg.FrontendBaseURL: true,
		}

		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE, PATCH")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization, X-Requested-With, If-None-Match")
			w.Header().Set("Access-Control-Expose-Headers", "ETag, Content-Disposition")
		} else if origin == "" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		utils.SendJSONError(w, "not found", http.StatusNotFound)
		return
	}
	http.NotFound(w, r)
}

// startSessionJanitor periodically removes expired sessions so abandoned
// working tables do not pile up in the database.
func startSessionJanitor() {
	go func() {
		ticker := time.NewTicker(sessionJanitorInterval)
		defer ticker.Stop()
		for range ticker.C {
			deleted, err := model.DeleteExpiredSessions(database.DB)
			if err != nil {
				logger.L.Error("Session janitor failed", "error", err)
				continue
			}
			if deleted > 0 {
				logger.L.Info("Expired sessions removed", "count", deleted)
			}
		}
	}()
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)

	logger.L.Info("Repricer backend server starting...")

	if len(config.Cfg.SessionJWTSecret) < 32 {
		logger.L.Error("SESSION_JWT_SECRET configuration invalid, must be at least 32 characters.")
		os.Exit(1)
	}

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)
	database.RunMigrations(config.Cfg.DatabasePath)

	reportCache := cache.New(services.DefaultCacheExpiration, services.CacheCleanupInterval)

	sessionService := services.NewSessionService(database.DB, reportCache, config.Cfg.DefaultFeePct)

	sessionHandler := handlers.NewSessionHandler(sessionService)
	uploadHandler := handlers.NewUploadHandler(sessionService)
	tableHandler := handlers.NewTableHandler(sessionService)
	exportHandler := handlers.NewExportHandler(sessionService)

	startSessionJanitor()

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(handlers.ContextualLoggerMiddleware)
	r.Use(proxyHeadersMiddleware)
	r.Use(enableCORS)
	r.Use(rateLimitMiddleware)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "Repricer Backend is running"})
	})

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Group(func(r chi.Router) {
			r.Post("/session", sessionHandler.HandleCreateSession)
		})

		// Session-scoped routes
		r.Group(func(r chi.Router) {
			r.Use(handlers.SessionAuthMiddleware)

			r.Post("/upload", uploadHandler.HandleUpload)
			r.Post("/process", tableHandler.HandleProcess)
			r.Get("/table", tableHandler.HandleGetTable)
			r.Get("/asins", tableHandler.HandleGetASINs)
			r.Patch("/table/cell", tableHandler.HandleEditCell)
			r.Post("/table/scale-price", tableHandler.HandleScalePrice)
			r.Post("/table/align-to-competitor", tableHandler.HandleAlignToCompetitor)
			r.Get("/export", exportHandler.HandleExport)
			r.Delete("/session", sessionHandler.HandleDeleteSession)
		})
	})

	r.NotFound(notFoundHandler)

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		stdlog.Fatalf("Failed to start server: %v", err)
	}
}
