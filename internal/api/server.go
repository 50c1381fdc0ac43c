package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"tablebook/internal/auth"
	"tablebook/internal/booking"
	"tablebook/internal/cache"
	"tablebook/internal/clock"
	"tablebook/internal/config"
	"tablebook/internal/database"
	"tablebook/internal/handlers"
	"tablebook/internal/logger"
	"tablebook/internal/messaging"
	"tablebook/internal/metrics"
	"tablebook/internal/middleware"
	"tablebook/internal/service"
	"tablebook/internal/store"
	"tablebook/internal/store/memstore"
	"tablebook/internal/store/postgres"
)

// Server wires the HTTP API: stores, reservation engine, sweep, sink.
type Server struct {
	router   *gin.Engine
	config   *config.Config
	db       *database.DB          // nil with the memory store
	nats     *messaging.NATSClient // nil when NATS is not configured
	cache    *cache.Client         // nil when the cache is not configured
	sweeper  *booking.Sweeper
	services *service.Services
}

// NewServer builds a fully wired server and starts the expiry sweep.
func NewServer(cfg *config.Config) *Server {
	gin.SetMode(cfg.GinMode)

	var stores *store.Stores
	var db *database.DB
	switch cfg.StoreDriver {
	case config.StorePostgres:
		conn, err := database.Connect(cfg.Database)
		if err != nil {
			logger.Fatal("Failed to connect to database", "error", err)
		}
		if err := conn.RunMigrations(); err != nil {
			logger.Fatal("Failed to run migrations", "error", err)
		}
		db = conn
		stores = postgres.New(conn)
	case config.StoreMemory:
		stores = memstore.New().Stores()
	default:
		logger.Fatal("Unknown store driver", "driver", cfg.StoreDriver)
	}

	var notifier booking.Notifier = messaging.NewLogNotifier()
	var natsClient *messaging.NATSClient
	if cfg.NATSEnabled {
		client, err := messaging.NewNATSClient(cfg.NATS)
		if err != nil {
			logger.Fatal("Failed to connect to NATS", "error", err)
		}
		natsClient = client
		notifier = client
	}

	var cacheClient *cache.Client
	if cfg.CacheEnabled {
		client, err := cache.NewClient(cfg.Cache)
		if err != nil {
			// The catalog works without the cache; don't refuse to start.
			slog.Warn("Cache unavailable, serving catalog from the store", "error", err)
		} else {
			cacheClient = client
		}
	}

	clk := clock.NewSystem()
	engine := booking.NewEngine(stores, notifier, clk, cfg.Reservation.LockDuration)
	sweeper := booking.NewSweeper(engine, cfg.Reservation.SweepInterval)
	resolver := auth.NewResolver(cfg.Auth)
	services := service.NewServices(service.NewEventService(stores, cacheClient, clk), engine)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(metrics.Middleware())

	server := &Server{
		router:   router,
		config:   cfg,
		db:       db,
		nats:     natsClient,
		cache:    cacheClient,
		sweeper:  sweeper,
		services: services,
	}

	server.setupRoutes(resolver)

	if cfg.StoreDriver == config.StoreMemory {
		seedIfEmpty(stores, clk)
	}

	sweeper.Start(context.Background())

	return server
}

func (s *Server) setupRoutes(resolver *auth.Resolver) {
	h := handlers.NewHandlers(s.services, resolver)

	api := s.router.Group("/api")
	{
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/admin-login", h.AdminLogin)
			authRoutes.POST("/user-login", h.UserLogin)
		}

		events := api.Group("/events")
		{
			events.GET("", h.ListEvents)
			events.GET("/:id", h.GetEvent)
			events.GET("/:id/seats", h.ListEventSeats)
		}

		authed := api.Group("")
		authed.Use(middleware.Authenticate(resolver))
		{
			authed.POST("/bookings", h.CreateBooking)

			me := authed.Group("/me")
			{
				me.GET("/bookings", h.MyBookings)
				me.GET("/tickets", h.MyTickets)
			}

			admin := authed.Group("/admin")
			admin.Use(middleware.RequireAdmin())
			{
				admin.GET("/bookings", h.AdminListBookings)
				admin.POST("/bookings/:id/confirm", h.AdminConfirmBooking)
				admin.POST("/bookings/:id/reject", h.AdminRejectBooking)

				admin.POST("/events", h.AdminCreateEvent)
				admin.PUT("/events/:id", h.AdminUpdateEvent)
				admin.DELETE("/events/:id", h.AdminDeleteEvent)
				admin.GET("/events/:id/analytics", h.AdminEventAnalytics)

				admin.POST("/seats", h.AdminCreateSeats)
				admin.GET("/seats", h.AdminListSeats)
			}
		}
	}

	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", metrics.Handler())
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "tablebook-api",
		"version": "1.0.0",
	})
}

// Run starts the HTTP server.
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%s", s.config.Port)
	return s.router.Run(addr)
}

// GetRouter returns the router for testing.
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// Cleanup stops the sweep and closes connections.
func (s *Server) Cleanup() error {
	s.sweeper.Stop()

	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			slog.Error("Error closing NATS connection", "error", err)
		}
	}
	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			slog.Error("Error closing cache connection", "error", err)
		}
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			slog.Error("Error closing database connection", "error", err)
			return err
		}
	}

	return nil
}
