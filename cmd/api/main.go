package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/tu-usuario/libreria-stock/internal/application/audit"
	"github.com/tu-usuario/libreria-stock/internal/application/auth"
	"github.com/tu-usuario/libreria-stock/internal/application/catalog"
	"github.com/tu-usuario/libreria-stock/internal/application/inventory"
	infrapdf "github.com/tu-usuario/libreria-stock/internal/infrastructure/pdf"
	"github.com/tu-usuario/libreria-stock/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/libreria-stock/internal/interfaces/http"
	"github.com/tu-usuario/libreria-stock/pkg/config"
	"github.com/tu-usuario/libreria-stock/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	bookRepo := postgres.NewBookRepository(pool)
	storeRepo := postgres.NewStoreRepository(pool)
	recordRepo := postgres.NewInventoryRecordRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	historyRepo := postgres.NewStatusHistoryRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	consolidator := inventory.NewStockConsolidator(recordRepo, log)
	movementsUC := inventory.NewRegisterMovementUseCase(txRunner, bookRepo, storeRepo)
	reservationsUC := inventory.NewReservationUseCase(txRunner, bookRepo, storeRepo)
	queriesUC := inventory.NewQueryUseCase(recordRepo, movementRepo, historyRepo)
	bookUC := catalog.NewBookUseCase(txRunner, bookRepo, storeRepo, consolidator)
	storeUC := catalog.NewStoreUseCase(storeRepo, recordRepo)
	auditorUC := audit.NewConsistencyAuditor(bookRepo, storeRepo, recordRepo, consolidator, log)
	reportPDF := infrapdf.NewMarotoReportGenerator()
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Librería Stock API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		BookUC:       bookUC,
		StoreUC:      storeUC,
		Movements:    movementsUC,
		Reservations: reservationsUC,
		Queries:      queriesUC,
		Consolidator: consolidator,
		Auditor:      auditorUC,
		ReportPDF:    reportPDF,
		AuthUC:       authUC,
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
