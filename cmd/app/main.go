package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Mr-Sumi/Gipza-v2-sub001/cmd"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/adapters/out/postgres/catalogrepo"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/adapters/out/postgres/orderrepo"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"golang.org/x/sync/errgroup"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	config, err := cmd.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	logger := newLogger(config)
	db := openDatabase(config)
	metrics.Register()

	app := cmd.NewCompositionRoot(config, db, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, app, config, logger)
	stop()

	if closeErr := app.Close(); closeErr != nil {
		logger.Error("failed to close notifier", "error", closeErr)
	}
	if err != nil {
		logger.Error("service stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("service stopped")
}

func run(ctx context.Context, app cmd.CompositionRoot, config cmd.Config, logger *slog.Logger) error {
	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	e := newWebServer(app, config)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server listening", "port", config.HTTPPort)
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", config.HTTPPort)); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	if consumer := app.CreateCourierConsumer(); consumer != nil {
		g.Go(func() error {
			defer func() {
				if err := consumer.Close(); err != nil {
					logger.Error("failed to close courier consumer", "error", err)
				}
			}()
			return consumer.Consume(gctx)
		})
	} else {
		logger.Warn("kafka brokers not configured, courier consumer disabled")
	}

	return g.Wait()
}

func newWebServer(app cmd.CompositionRoot, config cmd.Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(gommonLevel(config.LogLevel))
	app.CreateHTTPServer().Register(e)
	return e
}

func openDatabase(config cmd.Config) *gorm.DB {
	db, err := gorm.Open(gormpostgres.Open(config.DSN()), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}

	models := append(orderrepo.Models(), &catalogrepo.PriceDTO{})
	if err = db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}
	return db
}

func newLogger(config cmd.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slogLevel(config.LogLevel)}
	var handler slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if config.Env == "production" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	return slog.New(handler).With("service", "order-service")
}

func slogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func gommonLevel(level string) log.Lvl {
	switch level {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	default:
		return log.INFO
	}
}
