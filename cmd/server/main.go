package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	eventAdapter "github.com/wekeepgrowing/semo-payment-method/internal/adapter/event"
	grpcHandler "github.com/wekeepgrowing/semo-payment-method/internal/adapter/handler/grpc"
	httpHandler "github.com/wekeepgrowing/semo-payment-method/internal/adapter/handler/http"
	"github.com/wekeepgrowing/semo-payment-method/internal/config"
	domainEvent "github.com/wekeepgrowing/semo-payment-method/internal/domain/event"
	"github.com/wekeepgrowing/semo-payment-method/internal/domain/repository"
	"github.com/wekeepgrowing/semo-payment-method/internal/infrastructure/database"
	grpcServer "github.com/wekeepgrowing/semo-payment-method/internal/infrastructure/grpc"
	httpServer "github.com/wekeepgrowing/semo-payment-method/internal/infrastructure/http"
	"github.com/wekeepgrowing/semo-payment-method/internal/infrastructure/provider"
	"github.com/wekeepgrowing/semo-payment-method/internal/middleware/auth"
	"github.com/wekeepgrowing/semo-payment-method/internal/usecase"
	"github.com/wekeepgrowing/semo-payment-method/pkg/logger"
	"github.com/wekeepgrowing/semo-payment-method/pkg/messaging"
	pb "github.com/wekeepgrowing/semo-payment-method/proto/paymentmethod/v1"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	zapLogger, err := logger.NewZapLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Provisioning ledger (optional)
	var attempts repository.ProvisioningAttemptRepository
	if cfg.Database.Enabled {
		db, err := database.NewConnection(&cfg.Database, zapLogger)
		if err != nil {
			zapLogger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer func() {
			if err := database.Close(db, zapLogger); err != nil {
				zapLogger.Error("Failed to close database connection", zap.Error(err))
			}
		}()

		if err := database.Migrate(db, zapLogger); err != nil {
			zapLogger.Fatal("Failed to run database migrations", zap.Error(err))
		}
		attempts = database.NewRepositories(db, zapLogger).ProvisioningAttempt
	} else {
		zapLogger.Info("Provisioning ledger disabled")
	}

	// Event publisher (optional)
	var publisher domainEvent.Publisher
	if cfg.Redis.Enabled {
		redisClient, err := messaging.NewRedisClient(ctx, messaging.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password.Reveal(),
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			zapLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		publisher = eventAdapter.NewRedisPublisher(redisClient, cfg.Redis.Channel, zapLogger)
	}

	// Payment processor
	processor, err := provider.NewFactory(cfg, zapLogger).GetProcessorFromString(cfg.Provisioning.Provider)
	if err != nil {
		zapLogger.Fatal("Failed to create payment processor", zap.Error(err))
	}

	provisioning := usecase.NewProvisioningUsecase(processor, attempts, publisher, cfg.Provisioning.Deadline, zapLogger)

	// gRPC server
	grpcSrv := grpcServer.NewServer(
		grpcServer.WithAddress(cfg.Server.GRPC.Addr()),
		grpcServer.WithLogger(zapLogger),
	)
	grpcSrv.RegisterService(pb.ServiceName, func(s *grpc.Server) {
		pb.RegisterPaymentMethodServiceServer(s, grpcHandler.NewProvisioningHandler(provisioning, zapLogger))
	})

	go func() {
		if err := grpcSrv.Start(); err != nil {
			zapLogger.Fatal("Failed to start gRPC server", zap.Error(err))
		}
	}()

	// HTTP gateway (optional)
	var httpSrv *httpServer.Server
	if cfg.Server.HTTP.Enabled {
		httpSrv = httpServer.NewServer(
			httpServer.WithAddress(cfg.Server.HTTP.Addr()),
			httpServer.WithLogger(zapLogger),
			httpServer.WithServiceName(cfg.Service.Name),
		)
		handler := httpHandler.NewProvisioningHandler(provisioning, zapLogger)
		httpSrv.RegisterRoutes(func(e *echo.Echo) {
			v1 := e.Group("/api/v1", auth.JWTMiddleware(auth.JWTConfig{
				Secret: cfg.JWT.Secret.Reveal(),
				Logger: zapLogger,
			}))
			handler.RegisterRoutes(v1)
		})

		go func() {
			if err := httpSrv.Start(); err != nil {
				zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
			}
		}()
	}

	zapLogger.Info("Payment method service started",
		zap.String("environment", cfg.Service.Environment),
		zap.String("provider", processor.GetProviderName()),
		zap.String("grpc_address", cfg.Server.GRPC.Addr()),
		zap.Bool("http_enabled", cfg.Server.HTTP.Enabled),
		zap.Bool("ledger_enabled", attempts != nil),
		zap.Bool("events_enabled", publisher != nil),
	)

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	zapLogger.Info("Shutting down servers...")

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, shutdownTimeout)
	defer shutdownCancel()

	if httpSrv != nil {
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			zapLogger.Error("Failed to shutdown HTTP server", zap.Error(err))
		}
	}
	if err := grpcSrv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Failed to shutdown gRPC server", zap.Error(err))
	}

	zapLogger.Info("Servers stopped")
}
