package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/libreria-stock/internal/application/dto"
	"github.com/tu-usuario/libreria-stock/internal/application/inventory"
	"github.com/tu-usuario/libreria-stock/internal/domain"
	"github.com/tu-usuario/libreria-stock/internal/domain/entity"
)

// InventoryHandler maneja movimientos manuales, consultas de inventario y la
// vista consolidada por libro (protegido).
type InventoryHandler struct {
	movements    *inventory.RegisterMovementUseCase
	queries      *inventory.QueryUseCase
	consolidator *inventory.StockConsolidator
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	movements *inventory.RegisterMovementUseCase,
	queries *inventory.QueryUseCase,
	consolidator *inventory.StockConsolidator,
) *InventoryHandler {
	return &InventoryHandler{movements: movements, queries: queries, consolidator: consolidator}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento manual de inventario
// @Description  type: inbound | outbound | writeoff. Las entradas crean el
//
//	registro del par libro+tienda si aún no existe.
//
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "book_id, store_id, type, qty, reason, sale_ref, note"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	input := inventory.MovementInput{
		BookID:  in.BookID,
		StoreID: in.StoreID,
		Qty:     in.Qty,
		Reason:  in.Reason,
		Actor:   GetUserID(c),
		SaleRef: in.SaleRef,
		Note:    in.Note,
	}
	var err error
	switch in.Type {
	case entity.MovementInbound:
		err = h.movements.RegisterInbound(c.Context(), input)
	case entity.MovementOutbound:
		err = h.movements.RegisterOutbound(c.Context(), input)
	case entity.MovementWriteOff:
		err = h.movements.RegisterWriteOff(c.Context(), input)
	default:
		err = domain.ErrInvalidInput
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "movimiento registrado"})
}

// Transfer godoc
// @Summary      Trasladar stock entre tiendas
// @Description  Salida en origen y entrada en destino en una sola transacción;
//
//	ambos movimientos comparten la referencia de traslado.
//
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "book_id, from_store_id, to_store_id, qty, note"
// @Success      201   {object}  map[string]string
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/transfers [post]
func (h *InventoryHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	err := h.movements.Transfer(c.Context(), inventory.TransferInput{
		BookID:      in.BookID,
		FromStoreID: in.FromStoreID,
		ToStoreID:   in.ToStoreID,
		Qty:         in.Qty,
		Actor:       GetUserID(c),
		Note:        in.Note,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "traslado registrado"})
}

// PhysicalCount godoc
// @Summary      Registrar conteo físico de un par libro+tienda
// @Description  Con auto_adjust corrige total y disponible (nunca el reservado)
//
//	y deja un movimiento de ajuste con la diferencia aplicada.
//
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PhysicalCountRequest  true  "book_id, store_id, counted_qty, auto_adjust"
// @Success      201   {object}  map[string]string
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/physical-counts [post]
func (h *InventoryHandler) PhysicalCount(c *fiber.Ctx) error {
	var in dto.PhysicalCountRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	err := h.movements.PhysicalCount(c.Context(), inventory.PhysicalCountInput{
		BookID:     in.BookID,
		StoreID:    in.StoreID,
		CountedQty: in.CountedQty,
		Actor:      GetUserID(c),
		AutoAdjust: in.AutoAdjust,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "conteo registrado"})
}

// MarkDepleted godoc
// @Summary      Marcar un par libro+tienda como agotado histórico
// @Description  Solo es legal desde el estado depleted; el registro deja de
//
//	emitir alertas de stock bajo hasta que reingrese mercancía.
//
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MarkDepletedRequest  true  "book_id, store_id, reason"
// @Success      200   {object}  map[string]string
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/mark-depleted [post]
func (h *InventoryHandler) MarkDepleted(c *fiber.Ctx) error {
	var in dto.MarkDepletedRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	err := h.movements.MarkHistoricallyDepleted(c.Context(), in.BookID, in.StoreID, GetUserID(c), in.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "registro marcado como agotado histórico"})
}

// GetRecord godoc
// @Summary      Registro de inventario de un par libro+tienda
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        book_id   path  string  true  "ID del libro"
// @Param        store_id  path  string  true  "ID de la tienda"
// @Success      200  {object}  dto.InventoryRecordResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/records/{book_id}/{store_id} [get]
func (h *InventoryHandler) GetRecord(c *fiber.Ctx) error {
	rec, err := h.queries.GetRecord(c.Context(), c.Params("book_id"), c.Params("store_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toRecordResponse(rec))
}

// ListByStore godoc
// @Summary      Registros de inventario de una tienda
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        store_id  path   string  true   "ID de la tienda"
// @Param        limit     query  int     false  "Máximo de resultados (default 50)"
// @Param        offset    query  int     false  "Desplazamiento"
// @Success      200  {array}  dto.InventoryRecordResponse
// @Router       /api/inventory/stores/{store_id}/records [get]
func (h *InventoryHandler) ListByStore(c *fiber.Ctx) error {
	records, err := h.queries.ListByStore(c.Context(), c.Params("store_id"),
		c.QueryInt("limit"), c.QueryInt("offset"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toRecordResponses(records))
}

// ListByBook godoc
// @Summary      Registros de inventario de un libro en todas las tiendas
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        book_id  path  string  true  "ID del libro"
// @Success      200  {array}  dto.InventoryRecordResponse
// @Router       /api/inventory/books/{book_id}/records [get]
func (h *InventoryHandler) ListByBook(c *fiber.Ctx) error {
	records, err := h.queries.ListByBook(c.Context(), c.Params("book_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toRecordResponses(records))
}

// ConsolidatedStock godoc
// @Summary      Vista consolidada de stock de un libro sobre tiendas activas
// @Description  Si la lectura falla, responde un consolidado degradado
//
//	(degraded=true) en lugar de error.
//
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        book_id  path  string  true  "ID del libro"
// @Success      200  {object}  inventory.ConsolidatedStock
// @Router       /api/inventory/books/{book_id}/stock [get]
func (h *InventoryHandler) ConsolidatedStock(c *fiber.Ctx) error {
	return c.JSON(h.consolidator.Consolidate(c.Context(), c.Params("book_id")))
}

// LowStock godoc
// @Summary      Registros en stock bajo o agotado
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        store_id  query  string  false  "Filtrar por tienda; vacío = todas las tiendas activas"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/inventory/low-stock [get]
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	records, err := h.queries.ListLowStock(c.Context(), c.Query("store_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"total":   len(records),
		"records": toRecordResponses(records),
	})
}

// MovementsByBook godoc
// @Summary      Historial de movimientos de un libro
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        book_id  path   string  true   "ID del libro"
// @Param        from     query  string  false  "Fecha inicial (RFC3339)"
// @Param        to       query  string  false  "Fecha final (RFC3339)"
// @Param        limit    query  int     false  "Máximo de resultados (default 50)"
// @Param        offset   query  int     false  "Desplazamiento"
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/inventory/books/{book_id}/movements [get]
func (h *InventoryHandler) MovementsByBook(c *fiber.Ctx) error {
	from, to, err := dateRange(c)
	if err != nil {
		return respondError(c, domain.ErrInvalidInput)
	}
	movements, err := h.queries.MovementsByBook(c.Context(), c.Params("book_id"),
		from, to, c.QueryInt("limit"), c.QueryInt("offset"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toMovementResponses(movements))
}

// MovementsByRecord godoc
// @Summary      Historial de movimientos de un registro
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        record_id  path   string  true   "ID del registro"
// @Param        from       query  string  false  "Fecha inicial (RFC3339)"
// @Param        to         query  string  false  "Fecha final (RFC3339)"
// @Param        limit      query  int     false  "Máximo de resultados (default 50)"
// @Param        offset     query  int     false  "Desplazamiento"
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/inventory/records/{record_id}/movements [get]
func (h *InventoryHandler) MovementsByRecord(c *fiber.Ctx) error {
	from, to, err := dateRange(c)
	if err != nil {
		return respondError(c, domain.ErrInvalidInput)
	}
	movements, err := h.queries.MovementsByRecord(c.Context(), c.Params("record_id"),
		from, to, c.QueryInt("limit"), c.QueryInt("offset"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toMovementResponses(movements))
}

// StatusHistory godoc
// @Summary      Historial de transiciones de estado de un registro
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        record_id  path   string  true   "ID del registro"
// @Param        limit      query  int     false  "Máximo de resultados (default 50)"
// @Param        offset     query  int     false  "Desplazamiento"
// @Success      200  {array}  dto.StatusChangeResponse
// @Router       /api/inventory/records/{record_id}/status-history [get]
func (h *InventoryHandler) StatusHistory(c *fiber.Ctx) error {
	changes, err := h.queries.StatusHistory(c.Context(), c.Params("record_id"),
		c.QueryInt("limit"), c.QueryInt("offset"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toStatusChangeResponses(changes))
}

// dateRange parsea los query params from/to en RFC3339; ausentes quedan nil.
func dateRange(c *fiber.Ctx) (from, to *time.Time, err error) {
	if s := c.Query("from"); s != "" {
		t, perr := time.Parse(time.RFC3339, s)
		if perr != nil {
			return nil, nil, perr
		}
		from = &t
	}
	if s := c.Query("to"); s != "" {
		t, perr := time.Parse(time.RFC3339, s)
		if perr != nil {
			return nil, nil, perr
		}
		to = &t
	}
	return from, to, nil
}
