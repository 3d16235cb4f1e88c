package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/Leganyst/booking-core/internal/api/health"
	"github.com/Leganyst/booking-core/internal/api/rest"
	"github.com/Leganyst/booking-core/internal/booking"
	"github.com/Leganyst/booking-core/internal/broker"
	"github.com/Leganyst/booking-core/internal/cache"
	"github.com/Leganyst/booking-core/internal/config"
	"github.com/Leganyst/booking-core/internal/db"
	"github.com/Leganyst/booking-core/internal/jobs"
	"github.com/Leganyst/booking-core/internal/logging"
	"github.com/Leganyst/booking-core/internal/model"
	"github.com/Leganyst/booking-core/internal/repository"
	"github.com/Leganyst/booking-core/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// 1. Конфиг: .env (если есть) поверх окружения, затем проверка целиком.
	if err := godotenv.Overload(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config:\n%w", err)
	}

	logger := logging.New(os.Stdout, logging.Config(cfg.Log))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Подключаемся к БД через GORM и накатываем миграции.
	gormDB, err := db.NewGormDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("init db: %w", err)
	}
	if err := model.AutoMigrate(gormDB); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return fmt.Errorf("sql DB: %w", err)
	}
	defer sqlDB.Close()

	store := repository.NewStore(gormDB)

	// 3. Кэш сетки слотов и брокер событий.
	var slots cache.SlotCache = cache.None{}
	if cfg.Redis.Addr != "" {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		defer client.Close()
		slots = cache.NewRedisSlotCache(client, cfg.Redis.TTL, logger)
	}

	publisher, err := broker.New(cfg.Broker, logger)
	if err != nil {
		return fmt.Errorf("broker: %w", err)
	}
	defer publisher.Close()

	// 4. Сервисы.
	clock := booking.SystemClock{Loc: cfg.Booking.Location()}
	policy := cfg.Booking.Policy()

	bookings := service.NewBookingService(store, policy, clock, logger, publisher, slots)
	restaurants := service.NewRestaurantService(store, slots, clock, policy.HorizonDays, logger)
	identity := service.NewIdentityService(store.Users)
	reviews := service.NewReviewService(store, logger)

	reminder := jobs.NewReminder(store.Reservations, publisher, clock, logger)
	scheduler, err := jobs.Schedule(cfg.ReminderCron, reminder, 5*time.Minute, logger)
	if err != nil {
		return fmt.Errorf("reminder schedule: %w", err)
	}

	// 5. HTTP API и gRPC health.
	e := rest.New(rest.Deps{
		Bookings:    bookings,
		Restaurants: restaurants,
		Identity:    identity,
		Reviews:     reviews,
		Ping:        store.Ping,
		JWTSecret:   []byte(cfg.JWTSecret),
		Log:         logger,
	})
	grpcHealth := health.New(store, logger)

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.GRPCAddr, err)
	}

	// 6. Запускаем всё и ждём сигнала.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server listening", slog.String("addr", cfg.HTTPAddr))
		if err := e.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		logger.Info("grpc health server listening", slog.String("addr", cfg.GRPCAddr))
		if err := grpcHealth.Serve(lis); err != nil {
			return fmt.Errorf("grpc serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		grpcHealth.Watch(gctx, 15*time.Second)
		return nil
	})

	scheduler.Start()
	logger.Info("reminder job scheduled", slog.String("spec", cfg.ReminderCron))

	// 7. Грейсфул-шатдаун: по сигналу или при падении любого из серверов.
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		<-scheduler.Stop().Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown", slog.Any("error", err))
		}
		grpcHealth.GracefulStop()
		return nil
	})

	return g.Wait()
}
