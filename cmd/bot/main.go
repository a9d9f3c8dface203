package main

import (
	"context"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Freeeeeet/escape_bot/internal/app"
	"github.com/Freeeeeet/escape_bot/internal/config"
	"github.com/Freeeeeet/escape_bot/internal/controller"
	"github.com/Freeeeeet/escape_bot/internal/controller/handlers"
	"github.com/Freeeeeet/escape_bot/internal/repository"
	"github.com/Freeeeeet/escape_bot/internal/repository/base"
	"github.com/Freeeeeet/escape_bot/internal/service"
	"github.com/Freeeeeet/escape_bot/migrations"
	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Info("Starting escape bot",
		zap.String("environment", cfg.Environment),
		zap.String("timezone", cfg.Location.String()),
		zap.Int("admins", len(cfg.AdminTelegramIDs)),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to create connection pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := runMigrations(ctx, pool, cfg.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}

	// Репозитории
	tx := base.NewTransactor(pool)
	memberRepo := repository.NewMemberRepository(pool)
	themeRepo := repository.NewThemeRepository(pool)
	timeRepo := repository.NewTimeRepository(pool)
	reservationRepo := repository.NewReservationRepository(pool)
	waitingRepo := repository.NewWaitingRepository(pool)

	// Сервисы
	memberService := service.NewMemberService(memberRepo, cfg.AdminTelegramIDs, logger)
	catalogService := service.NewCatalogService(themeRepo, timeRepo, reservationRepo, logger)
	reservationService := service.NewReservationService(tx, memberRepo, themeRepo, timeRepo, reservationRepo, waitingRepo, logger)
	waitingService := service.NewWaitingService(tx, memberRepo, themeRepo, timeRepo, reservationRepo, waitingRepo, logger)

	cmdHandlers := handlers.NewHandlers(memberService, reservationService, waitingService, catalogService, cfg.Location, logger)

	botInstance, err := bot.New(cfg.TelegramToken,
		bot.WithMiddlewares(cmdHandlers.RequestLogger),
		bot.WithDefaultHandler(cmdHandlers.HandleDefault),
	)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	botController := controller.NewBotController(botInstance, cmdHandlers, logger)
	if err := botController.RegisterHandlers(ctx); err != nil {
		logger.Warn("Bot commands menu not set", zap.Error(err))
	}

	scheduler := app.NewScheduler(waitingService, botController, cfg.SweepInterval, cfg.Location, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	if err := botController.Start(ctx); err != nil {
		logger.Error("Bot stopped with error", zap.Error(err))
	}

	logger.Info("Shutting down")
}

// runMigrations применяет миграции из каталога на диске, а если его нет, то встроенные
func runMigrations(ctx context.Context, pool *pgxpool.Pool, path string, logger *zap.Logger) error {
	var fsys fs.FS = migrations.FS
	dir := "."
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		fsys, dir = nil, path
	}

	migrator, err := app.NewMigrator(pool, fsys, dir, logger)
	if err != nil {
		return err
	}
	defer migrator.Close()

	return migrator.Run(ctx)
}
