package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/libreria-stock/internal/application/catalog"
	"github.com/tu-usuario/libreria-stock/internal/application/dto"
)

// StoreHandler maneja las tiendas físicas (protegido).
type StoreHandler struct {
	uc *catalog.StoreUseCase
}

// NewStoreHandler construye el handler.
func NewStoreHandler(uc *catalog.StoreUseCase) *StoreHandler {
	return &StoreHandler{uc: uc}
}

// Create godoc
// @Summary      Dar de alta una tienda
// @Tags         stores
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStoreRequest  true  "name y address"
// @Success      201   {object}  dto.StoreResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/stores [post]
func (h *StoreHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateStoreRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	store, err := h.uc.CreateStore(c.Context(), in.Name, in.Address)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toStoreResponse(store))
}

// GetByID godoc
// @Summary      Detalle de tienda
// @Tags         stores
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la tienda"
// @Success      200  {object}  dto.StoreResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stores/{id} [get]
func (h *StoreHandler) GetByID(c *fiber.Ctx) error {
	store, err := h.uc.GetStore(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toStoreResponse(store))
}

// List godoc
// @Summary      Listar tiendas
// @Tags         stores
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Máximo de resultados (default 50)"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {array}  dto.StoreResponse
// @Router       /api/stores [get]
func (h *StoreHandler) List(c *fiber.Ctx) error {
	stores, err := h.uc.ListStores(c.Context(), c.QueryInt("limit"), c.QueryInt("offset"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toStoreResponses(stores))
}

// Update godoc
// @Summary      Actualizar nombre y dirección de la tienda
// @Tags         stores
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID de la tienda"
// @Param        body  body  dto.UpdateStoreRequest  true  "name y address"
// @Success      200   {object}  dto.StoreResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stores/{id} [put]
func (h *StoreHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateStoreRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	store, err := h.uc.UpdateStore(c.Context(), c.Params("id"), in.Name, in.Address)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toStoreResponse(store))
}

// Deactivate godoc
// @Summary      Desactivar tienda (sale de distribución y consolidación)
// @Tags         stores
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la tienda"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stores/{id}/deactivate [post]
func (h *StoreHandler) Deactivate(c *fiber.Ctx) error {
	if err := h.uc.DeactivateStore(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "tienda desactivada"})
}

// Activate godoc
// @Summary      Reactivar tienda
// @Tags         stores
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la tienda"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stores/{id}/activate [post]
func (h *StoreHandler) Activate(c *fiber.Ctx) error {
	if err := h.uc.ActivateStore(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "tienda activada"})
}

// Delete godoc
// @Summary      Borrar tienda inactiva sin reservas vigentes
// @Tags         stores
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la tienda"
// @Success      200  {object}  map[string]string
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stores/{id} [delete]
func (h *StoreHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteStore(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "tienda eliminada"})
}
