package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/libreria-stock/internal/application/dto"
	"github.com/tu-usuario/libreria-stock/internal/application/inventory"
)

// ReservationHandler maneja apartados, liberaciones y confirmación de ventas
// (protegido).
type ReservationHandler struct {
	uc *inventory.ReservationUseCase
}

// NewReservationHandler construye el handler.
func NewReservationHandler(uc *inventory.ReservationUseCase) *ReservationHandler {
	return &ReservationHandler{uc: uc}
}

// Reserve godoc
// @Summary      Apartar unidades de un libro
// @Description  store_id vacío deja que el sistema elija la tienda activa con
//
//	mayor disponible. reservation_ref identifica el carrito dueño.
//
// @Tags         reservations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReserveRequest  true  "book_id, store_id (opcional), qty, reservation_ref, note"
// @Success      201   {object}  map[string]string
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/reservations [post]
func (h *ReservationHandler) Reserve(c *fiber.Ctx) error {
	var in dto.ReserveRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	err := h.uc.Reserve(c.Context(), inventory.ReservationInput{
		BookID:         in.BookID,
		StoreID:        in.StoreID,
		Quantity:       in.Qty,
		Actor:          GetUserID(c),
		ReservationRef: in.ReservationRef,
		Note:           in.Note,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "unidades apartadas"})
}

// Release godoc
// @Summary      Liberar unidades apartadas
// @Tags         reservations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReserveRequest  true  "book_id, store_id (opcional), qty, reservation_ref"
// @Success      200   {object}  map[string]string
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/reservations/release [post]
func (h *ReservationHandler) Release(c *fiber.Ctx) error {
	var in dto.ReserveRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	err := h.uc.Release(c.Context(), inventory.ReservationInput{
		BookID:         in.BookID,
		StoreID:        in.StoreID,
		Quantity:       in.Qty,
		Actor:          GetUserID(c),
		ReservationRef: in.ReservationRef,
		Note:           in.Note,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "apartado liberado"})
}

// ConfirmSale godoc
// @Summary      Confirmar venta consumiendo primero el apartado
// @Description  Decrementa reservado y total con un único movimiento de salida
//
//	de razón sale; si el apartado no cubre la cantidad, el resto
//	sale del disponible.
//
// @Tags         reservations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ConfirmSaleRequest  true  "book_id, store_id (opcional), qty, sale_ref, reservation_ref"
// @Success      201   {object}  map[string]string
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/reservations/confirm-sale [post]
func (h *ReservationHandler) ConfirmSale(c *fiber.Ctx) error {
	var in dto.ConfirmSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	err := h.uc.ConfirmSale(c.Context(), inventory.SaleInput{
		BookID:         in.BookID,
		StoreID:        in.StoreID,
		Quantity:       in.Qty,
		Actor:          GetUserID(c),
		SaleRef:        in.SaleRef,
		ReservationRef: in.ReservationRef,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "venta confirmada"})
}
