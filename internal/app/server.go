package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"crm-service/internal/cache"
	"crm-service/internal/config"
	"crm-service/internal/db"
	authhandler "crm-service/internal/handlers/auth"
	calloghandler "crm-service/internal/handlers/calllog"
	clienthandler "crm-service/internal/handlers/client"
	eventhandler "crm-service/internal/handlers/event"
	grouphandler "crm-service/internal/handlers/group"
	orderhandler "crm-service/internal/handlers/order"
	userhandler "crm-service/internal/handlers/user"
	wshandler "crm-service/internal/handlers/ws"
	"crm-service/internal/middleware"
	"crm-service/internal/migrate"
	"crm-service/internal/pkg/jwt"
	"crm-service/internal/repository/postgres"
	authservice "crm-service/internal/service/auth"
	callogservice "crm-service/internal/service/calllog"
	clientservice "crm-service/internal/service/client"
	eventservice "crm-service/internal/service/event"
	groupservice "crm-service/internal/service/group"
	orderservice "crm-service/internal/service/order"
	"crm-service/internal/ws"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Server wires configuration, storage, services and the HTTP surface.
type Server struct {
	cfg    config.AppConfig
	logger *zap.Logger

	pool      *pgxpool.Pool
	hub       *ws.Hub
	hubCancel context.CancelFunc

	httpServer *http.Server
}

// handlers collects the route handlers for the router.
type handlers struct {
	auth    *authhandler.AuthHandler
	user    *userhandler.UserHandler
	client  *clienthandler.ClientHandler
	group   *grouphandler.GroupHandler
	order   *orderhandler.OrderHandler
	callLog *calloghandler.CallLogHandler
	event   *eventhandler.GlobalEventHandler
	ws      *wshandler.WSHandler

	authMW *middleware.AuthMiddleware
}

// NewServer builds a fully wired server: migrations applied, admin account
// ensured, hub running, routes registered.
func NewServer() (*Server, error) {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := migrate.Up(ctx, cfg.DatabaseDSN); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	// Redis is optional: without it the cache store always misses.
	rdb, err := db.NewRedisClient(db.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
	})
	if err != nil {
		logger.Warn("redis unavailable, list caching disabled", zap.Error(err))
		rdb = nil
	}
	cacheStore := cache.New(rdb, 5*time.Minute, logger)

	jwtMgr, err := jwt.NewManager(cfg.JWT)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create jwt manager: %w", err)
	}

	hubCtx, hubCancel := context.WithCancel(context.Background())
	hub := ws.NewHub(logger)
	go hub.Run(hubCtx)

	userRepo := postgres.NewUserRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	groupRepo := postgres.NewGroupRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	callLogRepo := postgres.NewCallLogRepository(pool)
	eventRepo := postgres.NewGlobalEventRepository(pool)

	authService := authservice.NewAuthService(userRepo, jwtMgr, logger)
	clientService := clientservice.NewClientService(clientRepo, callLogRepo, cacheStore, logger)
	groupService := groupservice.NewGroupService(groupRepo, cacheStore, logger)
	orderService := orderservice.NewOrderService(orderRepo, cacheStore, hub, logger)
	callLogService := callogservice.NewCallLogService(callLogRepo, cacheStore, logger)
	eventService := eventservice.NewGlobalEventService(eventRepo, cacheStore, hub, logger)

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := authService.EnsureAdminExists(ctx, cfg.AdminEmail, cfg.AdminPassword, cfg.AdminName); err != nil {
			hubCancel()
			pool.Close()
			return nil, fmt.Errorf("failed to ensure admin account: %w", err)
		}
	}

	h := handlers{
		auth:    authhandler.NewAuthHandler(authService, logger),
		user:    userhandler.NewUserHandler(authService),
		client:  clienthandler.NewClientHandler(clientService),
		group:   grouphandler.NewGroupHandler(groupService),
		order:   orderhandler.NewOrderHandler(orderService),
		callLog: calloghandler.NewCallLogHandler(callLogService),
		event:   eventhandler.NewGlobalEventHandler(eventService),
		ws:      wshandler.NewWSHandler(hub, logger),
		authMW:  middleware.NewAuthMiddleware(authService),
	}

	router := newRouter(h, logger)

	return &Server{
		cfg:       cfg,
		logger:    logger,
		pool:      pool,
		hub:       hub,
		hubCancel: hubCancel,
		httpServer: &http.Server{
			Addr:    cfg.HTTPAddr,
			Handler: router,
		},
	}, nil
}

// Start serves HTTP until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("server listening", zap.String("addr", s.cfg.HTTPAddr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests, stops the hub and closes the pool.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)

	s.hubCancel()
	s.pool.Close()
	s.logger.Sync()

	return err
}
