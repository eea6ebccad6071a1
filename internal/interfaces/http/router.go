package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/libreria-stock/internal/application/audit"
	"github.com/tu-usuario/libreria-stock/internal/application/auth"
	"github.com/tu-usuario/libreria-stock/internal/application/catalog"
	"github.com/tu-usuario/libreria-stock/internal/application/inventory"
	"github.com/tu-usuario/libreria-stock/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	BookUC       *catalog.BookUseCase
	StoreUC      *catalog.StoreUseCase
	Movements    *inventory.RegisterMovementUseCase
	Reservations *inventory.ReservationUseCase
	Queries      *inventory.QueryUseCase
	Consolidator *inventory.StockConsolidator
	Auditor      *audit.ConsistencyAuditor
	ReportPDF    audit.ReportPDFGenerator
	AuthUC       *auth.AuthUseCase
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	manageCatalog := RequireRole(entity.RoleAdmin, entity.RoleAlmacenista)
	operateStock := RequireRole(entity.RoleAdmin, entity.RoleAlmacenista)
	sell := RequireRole(entity.RoleAdmin, entity.RoleAlmacenista, entity.RoleVendedor)
	adminOnly := RequireRole(entity.RoleAdmin)

	// Books (protegido; mutaciones de catálogo para admin/almacenista)
	books := protected.Group("/books")
	bookHandler := NewBookHandler(deps.BookUC)
	books.Get("/", bookHandler.List)
	books.Get("/:id", bookHandler.GetByID)
	books.Post("/", manageCatalog, bookHandler.Create)
	books.Put("/:id", manageCatalog, bookHandler.Update)
	books.Post("/:id/redistribute", manageCatalog, bookHandler.Redistribute)
	books.Post("/:id/deactivate", manageCatalog, bookHandler.Deactivate)
	books.Delete("/:id", adminOnly, bookHandler.Delete)

	// Stores (protegido)
	stores := protected.Group("/stores")
	storeHandler := NewStoreHandler(deps.StoreUC)
	stores.Get("/", storeHandler.List)
	stores.Get("/:id", storeHandler.GetByID)
	stores.Post("/", manageCatalog, storeHandler.Create)
	stores.Put("/:id", manageCatalog, storeHandler.Update)
	stores.Post("/:id/deactivate", manageCatalog, storeHandler.Deactivate)
	stores.Post("/:id/activate", manageCatalog, storeHandler.Activate)
	stores.Delete("/:id", adminOnly, storeHandler.Delete)

	// Inventory: movimientos y consultas (protegido)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Movements, deps.Queries, deps.Consolidator)
	invGroup.Post("/movements", operateStock, inventoryHandler.RegisterMovement)
	invGroup.Post("/transfers", operateStock, inventoryHandler.Transfer)
	invGroup.Post("/physical-counts", operateStock, inventoryHandler.PhysicalCount)
	invGroup.Post("/mark-depleted", operateStock, inventoryHandler.MarkDepleted)
	// Las rutas con sufijo fijo van antes que /records/:book_id/:store_id para
	// que Fiber no capture "movements" como store_id.
	invGroup.Get("/records/:record_id/movements", inventoryHandler.MovementsByRecord)
	invGroup.Get("/records/:record_id/status-history", inventoryHandler.StatusHistory)
	invGroup.Get("/records/:book_id/:store_id", inventoryHandler.GetRecord)
	invGroup.Get("/stores/:store_id/records", inventoryHandler.ListByStore)
	invGroup.Get("/books/:book_id/records", inventoryHandler.ListByBook)
	invGroup.Get("/books/:book_id/movements", inventoryHandler.MovementsByBook)
	invGroup.Get("/books/:book_id/stock", inventoryHandler.ConsolidatedStock)
	invGroup.Get("/low-stock", inventoryHandler.LowStock)

	// Reservations (protegido; vendedores incluidos)
	reservations := protected.Group("/reservations", sell)
	reservationHandler := NewReservationHandler(deps.Reservations)
	reservations.Post("/", reservationHandler.Reserve)
	reservations.Post("/release", reservationHandler.Release)
	reservations.Post("/confirm-sale", reservationHandler.ConfirmSale)

	// Audit (solo admin)
	auditGroup := protected.Group("/audit", adminOnly)
	auditHandler := NewAuditHandler(deps.Auditor, deps.ReportPDF)
	auditGroup.Get("/report", auditHandler.Report)
	auditGroup.Get("/report/pdf", auditHandler.ReportPDF)
	auditGroup.Post("/repair", auditHandler.Repair)
}
