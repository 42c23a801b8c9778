package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/almacen-erp/internal/application/adjustment"
	"github.com/jhoicas/almacen-erp/internal/application/auth"
	"github.com/jhoicas/almacen-erp/internal/application/grn"
	"github.com/jhoicas/almacen-erp/internal/application/purchase"
	"github.com/jhoicas/almacen-erp/internal/application/purchasereturn"
	"github.com/jhoicas/almacen-erp/internal/application/stock"
	"github.com/jhoicas/almacen-erp/internal/application/transfer"
	"github.com/jhoicas/almacen-erp/internal/application/usecase"
	"github.com/jhoicas/almacen-erp/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	StockUC          *stock.QueryUseCase
	PurchaseUC       *purchase.UseCase
	PurchaseReturnUC *purchasereturn.UseCase
	TransferUC       *transfer.UseCase
	AdjustmentUC     *adjustment.UseCase
	GrnUC            *grn.UseCase
	ProductUC        *usecase.ProductUseCase
	CategoryUC       *usecase.CategoryUseCase
	WarehouseUC      *usecase.WarehouseUseCase
	SupplierUC       *usecase.SupplierUseCase
	CustomerUC       *usecase.CustomerUseCase
	AuthUC           *auth.AuthUseCase
	JWTSecret        string
}

// Router registra las rutas de la API.
//
// Lectura: cualquier usuario autenticado. Mutaciones de documentos que tocan
// existencias: admin o bodeguero. Mutaciones de datos maestros: admin.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	warehouseOps := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)
	adminOnly := RequireRole(entity.RoleAdmin)

	// Stock y libro de inventario (solo lectura: el libro se escribe
	// exclusivamente a través de los documentos)
	stockHandler := NewStockHandler(deps.StockUC)
	stockGroup := protected.Group("/stock")
	stockGroup.Get("/", stockHandler.ListStock)
	stockGroup.Get("/:productId/:warehouseId", stockHandler.GetStock)

	ledger := protected.Group("/stock-ledger")
	ledger.Get("/", stockHandler.ListLedger)
	ledger.Get("/report.pdf", stockHandler.KardexPDF)
	ledger.Get("/:id", stockHandler.GetLedgerEntry)

	// Purchases
	purchases := protected.Group("/purchases")
	purchaseHandler := NewPurchaseHandler(deps.PurchaseUC)
	purchases.Get("/", purchaseHandler.List)
	purchases.Get("/:id", purchaseHandler.GetByID)
	purchases.Post("/", warehouseOps, purchaseHandler.Create)
	purchases.Put("/:id", warehouseOps, purchaseHandler.Update)
	purchases.Post("/:id/receive", warehouseOps, purchaseHandler.Receive)
	purchases.Post("/:id/cancel", warehouseOps, purchaseHandler.Cancel)
	purchases.Delete("/:id", warehouseOps, purchaseHandler.Delete)

	// Purchase returns
	returns := protected.Group("/purchase-returns")
	returnHandler := NewPurchaseReturnHandler(deps.PurchaseReturnUC)
	returns.Get("/", returnHandler.List)
	returns.Get("/:id", returnHandler.GetByID)
	returns.Post("/", warehouseOps, returnHandler.Create)
	returns.Put("/:id", warehouseOps, returnHandler.Update)
	returns.Post("/:id/approve", warehouseOps, returnHandler.Approve)
	returns.Post("/:id/complete", warehouseOps, returnHandler.Complete)
	returns.Post("/:id/cancel", warehouseOps, returnHandler.Cancel)
	returns.Delete("/:id", warehouseOps, returnHandler.Delete)

	// Transfers
	transfers := protected.Group("/transfers")
	transferHandler := NewTransferHandler(deps.TransferUC)
	transfers.Get("/", transferHandler.List)
	transfers.Get("/:id", transferHandler.GetByID)
	transfers.Post("/", warehouseOps, transferHandler.Create)
	transfers.Put("/:id", warehouseOps, transferHandler.Update)
	transfers.Post("/:id/approve", warehouseOps, transferHandler.Approve)
	transfers.Post("/:id/receive", warehouseOps, transferHandler.Receive)
	transfers.Post("/:id/cancel", warehouseOps, transferHandler.Cancel)
	transfers.Delete("/:id", warehouseOps, transferHandler.Delete)

	// Adjustments
	adjustments := protected.Group("/adjustments")
	adjustmentHandler := NewAdjustmentHandler(deps.AdjustmentUC)
	adjustments.Get("/", adjustmentHandler.List)
	adjustments.Get("/:id", adjustmentHandler.GetByID)
	adjustments.Post("/", warehouseOps, adjustmentHandler.Create)
	adjustments.Put("/:id", warehouseOps, adjustmentHandler.Update)
	adjustments.Post("/:id/approve", warehouseOps, adjustmentHandler.Approve)
	adjustments.Post("/:id/complete", warehouseOps, adjustmentHandler.Complete)
	adjustments.Post("/:id/cancel", warehouseOps, adjustmentHandler.Cancel)
	adjustments.Delete("/:id", warehouseOps, adjustmentHandler.Delete)

	// GRNs (nunca tocan existencias)
	grns := protected.Group("/grns")
	grnHandler := NewGrnHandler(deps.GrnUC)
	grns.Get("/", grnHandler.List)
	grns.Get("/:id", grnHandler.GetByID)
	grns.Post("/", warehouseOps, grnHandler.Create)
	grns.Put("/:id", warehouseOps, grnHandler.Update)
	grns.Post("/:id/verify", warehouseOps, grnHandler.Verify)
	grns.Post("/:id/cancel", warehouseOps, grnHandler.Cancel)
	grns.Delete("/:id", warehouseOps, grnHandler.Delete)

	// Products
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", adminOnly, productHandler.Create)
	products.Put("/:id", adminOnly, productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Delete)

	// Categories
	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Post("/", adminOnly, categoryHandler.Create)
	categories.Put("/:id", adminOnly, categoryHandler.Update)
	categories.Delete("/:id", adminOnly, categoryHandler.Delete)

	// Warehouses
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Post("/", adminOnly, warehouseHandler.Create)
	warehouses.Put("/:id", adminOnly, warehouseHandler.Update)
	warehouses.Delete("/:id", adminOnly, warehouseHandler.Delete)

	// Suppliers
	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Post("/", adminOnly, supplierHandler.Create)
	suppliers.Put("/:id", adminOnly, supplierHandler.Update)
	suppliers.Delete("/:id", adminOnly, supplierHandler.Delete)

	// Customers
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Post("/", adminOnly, customerHandler.Create)
	customers.Put("/:id", adminOnly, customerHandler.Update)
	customers.Delete("/:id", adminOnly, customerHandler.Delete)
}
