// Package app wires configuration, storage, services and HTTP routes into a
// runnable Fiber application.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"foodorder/internal/config"
	"foodorder/internal/database"
	"foodorder/internal/handlers"
	"foodorder/internal/middleware"
	"foodorder/internal/models"
	"foodorder/internal/repositories"
	"foodorder/internal/services"
	"foodorder/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App is the assembled service.
type App struct {
	Fiber *fiber.App
	Auth  *services.AuthService

	db  *gorm.DB
	rdb *redis.Client
	mq  *rabbitmq.Client
}

// New builds the application from cfg. Redis and RabbitMQ are optional: an
// empty address disables them and an unreachable broker is logged and
// skipped.
func New(cfg *config.Config) (*App, error) {
	db, err := database.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	a := &App{db: db}

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	menuStore := repositories.NewGORMMenuRepository(db)
	var menuRepo repositories.MenuRepository = menuStore
	if cfg.RedisAddr != "" {
		a.rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := a.rdb.Ping(ctx).Err(); err != nil {
			logrus.WithError(err).WithField("addr", cfg.RedisAddr).Warn("redis unreachable, menu cache will fall through")
		}
		cancel()
		menuRepo = repositories.NewCachedMenuRepository(menuRepo, a.rdb, cfg.MenuCacheTTL)
	}

	// --- Event publisher ---
	var publisher services.OrderEventPublisher
	if cfg.RabbitMQURL != "" {
		mq, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: cfg.OrderEventsQueue})
		if err != nil {
			logrus.WithError(err).Warn("order events disabled")
		} else {
			a.mq = mq
			publisher = mq
		}
	}

	// --- Services ---
	a.Auth = services.NewAuthService(userRepo, cfg.JWTSecret,
		services.WithTokenDuration(cfg.TokenTTL),
		services.WithAdminSignup(cfg.AllowAdminSignup),
	)
	menuService := services.NewMenuService(menuRepo)
	// Orders validate menu references against the database, never the cache.
	orderService := services.NewOrderService(orderRepo, menuStore, publisher)

	if cfg.AdminUsername != "" {
		if err := a.Auth.EnsureAdmin(context.Background(), cfg.AdminUsername, cfg.AdminPassword); err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to bootstrap admin: %w", err)
		}
	}

	// --- HTTP ---
	a.Fiber = fiber.New(fiber.Config{
		AppName:      "foodorder",
		ErrorHandler: errorHandler,
	})
	a.Fiber.Use(middleware.RequestLogger(logrus.StandardLogger()))

	auth := middleware.AuthRequired(a.Auth)
	handlers.NewAuthHandler(a.Auth).RegisterRoutes(a.Fiber)
	handlers.NewMenuHandler(menuService).RegisterRoutes(a.Fiber, auth)
	handlers.NewOrderHandler(orderService).RegisterRoutes(a.Fiber, auth)

	a.Fiber.Get("/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "ok"})
	})
	a.Fiber.Get("/health", a.handleHealth)

	return a, nil
}

func (a *App) handleHealth(c *fiber.Ctx) error {
	status := fiber.StatusOK
	body := fiber.Map{
		"status":   "healthy",
		"time":     time.Now().Format(time.RFC3339),
		"database": "up",
		"events":   a.mq != nil,
		"cache":    a.rdb != nil,
	}
	if err := database.Ping(a.db); err != nil {
		middleware.RequestLog(c).WithError(err).Error("database ping failed")
		status = fiber.StatusServiceUnavailable
		body["status"] = "unhealthy"
		body["database"] = "down"
	}
	return c.Status(status).JSON(body)
}

// StartEventAudit consumes the order events queue and logs every event.
func (a *App) StartEventAudit() error {
	if a.mq == nil {
		return errors.New("order events are not enabled")
	}
	return a.mq.ConsumeOrderEvents(func(event models.OrderEvent) error {
		logrus.WithFields(logrus.Fields{
			"event_id":        event.ID,
			"type":            event.Type,
			"order_id":        event.OrderID,
			"owner_id":        event.OwnerID,
			"status":          event.Status,
			"previous_status": event.PreviousStatus,
			"actor_id":        event.ActorID,
		}).Info("order event")
		return nil
	})
}

// Close releases the broker, cache and database connections.
func (a *App) Close() error {
	var errs []error
	if a.mq != nil {
		errs = append(errs, a.mq.Close())
	}
	if a.rdb != nil {
		errs = append(errs, a.rdb.Close())
	}
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
	}
	return errors.Join(errs...)
}

// errorHandler renders errors that escape the handlers, such as unknown
// routes, in the same JSON shape the handlers use.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"message": utils.StatusMessage(code),
		"error":   err.Error(),
	})
}
