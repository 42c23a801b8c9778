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

	"github.com/jhoicas/almacen-erp/internal/application/adjustment"
	"github.com/jhoicas/almacen-erp/internal/application/auth"
	"github.com/jhoicas/almacen-erp/internal/application/grn"
	"github.com/jhoicas/almacen-erp/internal/application/purchase"
	"github.com/jhoicas/almacen-erp/internal/application/purchasereturn"
	appstock "github.com/jhoicas/almacen-erp/internal/application/stock"
	"github.com/jhoicas/almacen-erp/internal/application/transfer"
	"github.com/jhoicas/almacen-erp/internal/application/usecase"
	infrapdf "github.com/jhoicas/almacen-erp/internal/infrastructure/pdf"
	"github.com/jhoicas/almacen-erp/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/almacen-erp/internal/interfaces/http"
	"github.com/jhoicas/almacen-erp/pkg/config"
	"github.com/jhoicas/almacen-erp/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
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

	// Repositorios sobre el pool (lecturas y escrituras de un solo paso).
	// Las escrituras multi-tabla pasan por el TxRunner.
	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	ledgerRepo := postgres.NewStockLedgerRepository(pool)
	purchaseRepo := postgres.NewPurchaseRepository(pool)
	returnRepo := postgres.NewPurchaseReturnRepository(pool)
	transferRepo := postgres.NewTransferRepository(pool)
	adjustmentRepo := postgres.NewAdjustmentRepository(pool)
	grnRepo := postgres.NewGrnRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	writer := appstock.NewLedgerWriter()
	kardexPDF := infrapdf.NewMarotoKardexGenerator()

	stockUC := appstock.NewQueryUseCase(stockRepo, ledgerRepo, productRepo, warehouseRepo, kardexPDF)
	purchaseUC := purchase.NewUseCase(txRunner, purchaseRepo, productRepo, warehouseRepo, supplierRepo, grnRepo, writer)
	returnUC := purchasereturn.NewUseCase(txRunner, returnRepo, purchaseRepo, productRepo, stockRepo, writer)
	transferUC := transfer.NewUseCase(txRunner, transferRepo, productRepo, warehouseRepo, stockRepo, writer)
	adjustmentUC := adjustment.NewUseCase(txRunner, adjustmentRepo, productRepo, warehouseRepo, stockRepo, writer)
	grnUC := grn.NewUseCase(grnRepo, productRepo, warehouseRepo)

	productUC := usecase.NewProductUseCase(productRepo, categoryRepo, warehouseRepo, txRunner, writer)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo)
	warehouseUC := usecase.NewWarehouseUseCase(warehouseRepo)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo)
	customerUC := usecase.NewCustomerUseCase(customerRepo)

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
		Title:    "Almacén ERP API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		StockUC:          stockUC,
		PurchaseUC:       purchaseUC,
		PurchaseReturnUC: returnUC,
		TransferUC:       transferUC,
		AdjustmentUC:     adjustmentUC,
		GrnUC:            grnUC,
		ProductUC:        productUC,
		CategoryUC:       categoryUC,
		WarehouseUC:      warehouseUC,
		SupplierUC:       supplierUC,
		CustomerUC:       customerUC,
		AuthUC:           authUC,
		JWTSecret:        cfg.JWT.Secret,
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
