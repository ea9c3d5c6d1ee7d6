package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/rocketscienceinc/tictactoe-coordinator/internal/config"
	"github.com/rocketscienceinc/tictactoe-coordinator/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-coordinator/internal/repository"
	"github.com/rocketscienceinc/tictactoe-coordinator/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-coordinator/internal/service"
	"github.com/rocketscienceinc/tictactoe-coordinator/internal/telemetry"
	"github.com/rocketscienceinc/tictactoe-coordinator/internal/transport/websocket"
	"github.com/rocketscienceinc/tictactoe-coordinator/internal/usecase"
)

const (
	driverNone   = "none"
	driverRedis  = "redis"
	driverSQLite = "sqlite"
)

var (
	ErrAddrNotFound  = errors.New("redis address string is empty")
	ErrUnknownDriver = errors.New("unknown persistence driver")
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	provider, shutdownTracing, err := telemetry.Setup(ctx, conf.Telemetry)
	if err != nil {
		return fmt.Errorf("could not set up tracing: %w", err)
	}

	defer func() {
		if shutdownErr := shutdownTracing(context.Background()); shutdownErr != nil {
			log.Error("could not flush traces", "error", shutdownErr)
		}
	}()

	recorder, closer, err := newRecorder(ctx, conf)
	if err != nil {
		return fmt.Errorf("could not set up persistence: %w", err)
	}

	defer func() {
		if err = closer.Close(); err != nil {
			log.Error("could not close storage", "error", err)
		}
	}()

	limiter := service.NewRateLimiter(service.RateLimitOptions{
		Limit:  conf.RateLimit.Limit,
		Window: conf.RateLimit.Window,
	})

	registry := usecase.NewRegistry(
		logger,
		usecase.Options{
			RoomTTL:           conf.Rooms.RoomTTL,
			SessionIdleTTL:    conf.Rooms.SessionIdleTTL,
			MaxNonces:         conf.Rooms.MaxNonces,
			AutoCreateOnJoin:  conf.Rooms.AutoCreateOnJoin,
			AIDecisionTimeout: conf.AI.DecisionTimeout,
			RecordTimeout:     conf.Persistence.RecordTimeout,
			DefaultStrategy:   conf.AI.DefaultStrategy,
		},
		pkg.NewIDGenerator(pkg.DefaultNames),
		limiter,
		service.NewBotService(),
		recorder,
		telemetry.NewMoveTracer(provider),
	)
	admin := usecase.NewAdmin(logger, conf.AdminKey, registry)
	collector := usecase.NewCollector(logger, registry, limiter, conf.Rooms.GCInterval)

	wsServer := websocket.NewServer(logger)
	gateway := websocket.NewGateway(logger, registry, admin, wsServer)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		collector.Run(groupCtx)
		return nil
	})

	group.Go(func() error {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		if wsErr := wsServer.Start(groupCtx, conf.SocketPort, gateway); wsErr != nil {
			return fmt.Errorf("WebSocket server error: %w", wsErr)
		}
		return nil
	})

	err = group.Wait()
	gateway.Wait()
	if err != nil {
		return err
	}

	log.Info("Application context canceled, shutting down")

	return nil
}

// newRecorder - opens the storage chosen by the persistence driver.
func newRecorder(ctx context.Context, conf *config.Config) (repository.Recorder, io.Closer, error) {
	switch conf.Persistence.Driver {
	case "", driverNone:
		return repository.NopRecorder{}, noopCloser{}, nil

	case driverRedis:
		redisAddrString := conf.Redis.GetRedisAddr()
		if redisAddrString == "" {
			return nil, nil, ErrAddrNotFound
		}

		redisStorage, err := storage.NewRedis(ctx, redisAddrString)
		if err != nil {
			return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
		}

		return repository.NewRedisRecorder(redisStorage, conf.Persistence.Expire), redisStorage, nil

	case driverSQLite:
		sqliteStorage, err := storage.NewSQLite(conf.SQLiteStoragePath)
		if err != nil {
			return nil, nil, fmt.Errorf("could not open sqlite storage: %w", err)
		}

		if err = sqliteStorage.Init(ctx); err != nil {
			_ = sqliteStorage.Close()
			return nil, nil, fmt.Errorf("could not init sqlite storage: %w", err)
		}

		return repository.NewSQLiteRecorder(sqliteStorage.Connection), sqliteStorage, nil

	default:
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownDriver, conf.Persistence.Driver)
	}
}

type noopCloser struct{}

func (noopCloser) Close() error {
	return nil
}
