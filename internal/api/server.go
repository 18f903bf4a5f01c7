package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"skydesk/internal/access"
	"skydesk/internal/booking"
	"skydesk/internal/cache"
	"skydesk/internal/config"
	"skydesk/internal/database"
	"skydesk/internal/documents"
	"skydesk/internal/grid"
	"skydesk/internal/handlers"
	"skydesk/internal/logger"
	"skydesk/internal/messaging"
	"skydesk/internal/metrics"
	"skydesk/internal/middleware"
	"skydesk/internal/notify"
	"skydesk/internal/storage"
)

// Server представляет HTTP сервер API
type Server struct {
	router *gin.Engine
	config *config.Config
	db     *database.DB
	nats   *messaging.NATSClient
	valkey *cache.ValkeyClient
}

// NewServer создает новый экземпляр сервера.
// База данных обязательна; NATS и Valkey опциональны - без них сервис
// работает, но без трансляции уведомлений и без кеша справочников.
func NewServer(cfg *config.Config) *Server {
	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	if err := db.RunMigrations(); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		slog.Warn("NATS unavailable, toasts stay local", "error", err)
		natsClient = nil
	}

	valkeyClient, err := cache.NewValkeyClient(cfg.Valkey)
	if err != nil {
		slog.Warn("Valkey unavailable, filter options are not cached", "error", err)
		valkeyClient = nil
	}

	notifiers := notify.Multi{notify.NewSlogNotifier()}
	var opts []access.Option
	if natsClient != nil {
		notifiers = append(notifiers, notify.NewBroadcast(natsClient, messaging.SubjectToasts))
		opts = append(opts, access.WithEvents(natsClient))
	}

	store := storage.NewSQLStore(db)
	entityAccess := access.NewService(store, notifiers, opts...)

	gridCtrl := grid.NewController(entityAccess, cfg.GridPageSize)
	bookings := booking.NewService(entityAccess)
	resolver := documents.NewResolver(entityAccess)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics())

	server := &Server{
		router: router,
		config: cfg,
		db:     db,
		nats:   natsClient,
		valkey: valkeyClient,
	}

	server.setupRoutes(handlers.NewHandlers(gridCtrl, entityAccess, bookings, resolver, valkeyClient))

	return server
}

// setupRoutes настраивает все API роуты
func (s *Server) setupRoutes(h *handlers.Handlers) {
	api := s.router.Group("/api")
	{
		// Админский грид
		admin := api.Group("/admin")
		{
			admin.GET("/:entity", h.ShowGrid)
			admin.POST("/:entity", h.CreateRecord)
			admin.GET("/:entity/schema", h.GetGridSchema)
			admin.GET("/:entity/options/:field", h.GetFilterOptions)
			admin.PATCH("/:entity/:id", h.UpdateRecord)
			admin.DELETE("/:entity/:id", h.DeleteRecord)
		}

		// Клиентский поток бронирования
		bookings := api.Group("/bookings")
		{
			bookings.POST("", h.PurchaseTicket)
			bookings.PATCH("/cancel", h.CancelTicket)
		}

		api.GET("/profile/:passengerID", h.GetProfile)
		api.GET("/tickets/:id/document", h.GetTicketDocument)
	}

	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(metrics.Handler()))
}

// healthCheck обрабатывает health check запросы
func (s *Server) healthCheck(c *gin.Context) {
	dbHealth := s.db.HealthCheck(c.Request.Context())

	status := http.StatusOK
	if dbHealth.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status":   dbHealth.Status,
		"service":  "skydesk-api",
		"database": dbHealth,
		"nats":     s.nats != nil,
		"valkey":   s.valkey != nil,
	})
}

// Run запускает HTTP сервер
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%s", s.config.Port)
	return s.router.Run(addr)
}

// GetRouter возвращает роутер для тестирования
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// Cleanup закрывает соединения
func (s *Server) Cleanup() error {
	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			slog.Error("Error closing NATS connection", "error", err)
		}
	}

	if s.valkey != nil {
		if err := s.valkey.Close(); err != nil {
			slog.Error("Error closing Valkey connection", "error", err)
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
