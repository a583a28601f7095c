package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dating-backend/internal/config"
	"dating-backend/internal/handlers"
	"dating-backend/internal/middleware"
	"dating-backend/internal/repository"
	"dating-backend/internal/services"
	"dating-backend/internal/storage"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Run() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	// Run migrations
	if err := repository.Migrate(cfg.Database.DSN()); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Connect to database
	db, err := pgxpool.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Database connection established")

	// Initialize storage
	s3Storage, err := storage.NewS3Storage(context.Background(), cfg.AWS)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create S3 storage")
	}

	// Initialize repositories
	memberRepo := repository.NewMemberRepository(db)
	photoRepo := repository.NewPhotoRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	roleRepo := repository.NewRoleRepository(db)

	// Initialize services
	tokenService := services.NewTokenService(cfg.JWT.Secret)
	accountService := services.NewAccountService(memberRepo, roleRepo, tokenService)
	memberService := services.NewMemberService(memberRepo)
	photoService := services.NewPhotoService(photoRepo, s3Storage)
	adminService := services.NewAdminService(memberRepo, roleRepo)
	hub := services.NewHub()

	var pusher services.Pusher
	if cfg.APNS.Enabled {
		pushService, err := services.NewPushService(cfg.APNS)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create push service")
		}
		pusher = pushService
	}
	messageService := services.NewMessageService(messageRepo, memberRepo, hub, pusher)

	// Initialize handlers
	accountHandler := handlers.NewAccountHandler(accountService)
	memberHandler := handlers.NewMemberHandler(memberService, photoService)
	messageHandler := handlers.NewMessageHandler(messageService)
	adminHandler := handlers.NewAdminHandler(adminService, photoService)
	wsHandler := handlers.NewWebSocketHandler(hub, tokenService)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware)

	// Routes
	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Post("/account/register", accountHandler.Register)
		r.Post("/account/login", accountHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(tokenService, memberRepo))

			r.Route("/users", func(r chi.Router) {
				r.Get("/", memberHandler.GetMembers)
				r.Get("/{username}", memberHandler.GetMember)
				r.Put("/", memberHandler.UpdateProfile)
				r.Post("/add-photo", memberHandler.AddPhoto)
				r.Put("/set-main-photo/{photoID}", memberHandler.SetMainPhoto)
				r.Delete("/delete-photo/{photoID}", memberHandler.DeletePhoto)
				r.Put("/push-token", memberHandler.UpdatePushToken)
			})

			r.Route("/messages", func(r chi.Router) {
				r.Get("/", messageHandler.GetMessages)
				r.Post("/", messageHandler.CreateMessage)
				r.Get("/thread/{username}", messageHandler.GetThread)
				r.Delete("/{messageID}", messageHandler.DeleteMessage)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole("admin"))
					r.Get("/users-with-roles", adminHandler.GetUsersWithRoles)
					r.Post("/edit-roles/{username}", adminHandler.EditRoles)
				})
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole("admin", "moderator"))
					r.Get("/photos-to-moderate", adminHandler.GetPhotosForModeration)
					r.Post("/approve-photo/{photoID}", adminHandler.ApprovePhoto)
					r.Post("/reject-photo/{photoID}", adminHandler.RejectPhoto)
				})
			})
		})
	})

	// WebSocket route
	r.Get("/ws", wsHandler.HandleWebSocket)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
