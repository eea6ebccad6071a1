package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/libreria-stock/internal/application/catalog"
	"github.com/tu-usuario/libreria-stock/internal/application/dto"
)

// BookHandler maneja el catálogo de libros (protegido).
type BookHandler struct {
	uc *catalog.BookUseCase
}

// NewBookHandler construye el handler.
func NewBookHandler(uc *catalog.BookUseCase) *BookHandler {
	return &BookHandler{uc: uc}
}

// Create godoc
// @Summary      Dar de alta un libro con distribución inicial de stock
// @Tags         books
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBookRequest  true  "title, author, isbn, price, initial_stock, threshold_alert"
// @Success      201   {object}  dto.BookResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/books [post]
func (h *BookHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBookRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	book, err := h.uc.CreateBook(c.Context(), catalog.CreateBookInput{
		Title:          in.Title,
		Author:         in.Author,
		ISBN:           in.ISBN,
		Price:          in.Price,
		InitialStock:   in.InitialStock,
		ThresholdAlert: in.ThresholdAlert,
		Actor:          GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toBookResponse(book))
}

// GetByID godoc
// @Summary      Detalle de libro con stock consolidado
// @Tags         books
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del libro"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/books/{id} [get]
func (h *BookHandler) GetByID(c *fiber.Ctx) error {
	result, err := h.uc.GetBook(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"book":  toBookResponse(result.Book),
		"stock": result.Stock,
	})
}

// List godoc
// @Summary      Listar libros
// @Tags         books
// @Security     Bearer
// @Produce      json
// @Param        active  query  bool  false  "Solo libros activos"
// @Param        limit   query  int   false  "Máximo de resultados (default 50)"
// @Param        offset  query  int   false  "Desplazamiento"
// @Success      200  {array}  dto.BookResponse
// @Router       /api/books [get]
func (h *BookHandler) List(c *fiber.Ctx) error {
	books, err := h.uc.ListBooks(c.Context(),
		c.QueryBool("active"), c.QueryInt("limit"), c.QueryInt("offset"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toBookResponses(books))
}

// Update godoc
// @Summary      Actualizar datos de catálogo del libro
// @Tags         books
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del libro"
// @Param        body  body  dto.UpdateBookRequest  true  "title, author, isbn, price"
// @Success      200   {object}  dto.BookResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/books/{id} [put]
func (h *BookHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateBookRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	book, err := h.uc.UpdateBook(c.Context(), c.Params("id"), catalog.UpdateBookInput{
		Title:  in.Title,
		Author: in.Author,
		ISBN:   in.ISBN,
		Price:  in.Price,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toBookResponse(book))
}

// Redistribute godoc
// @Summary      Fijar el total del libro y repartirlo entre tiendas activas
// @Description  Preserva el reservado por tienda; falla si el nuevo total no
//
//	cubre las reservas vigentes.
//
// @Tags         books
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del libro"
// @Param        body  body  dto.RedistributeRequest  true  "new_total"
// @Success      200   {object}  map[string]string
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/books/{id}/redistribute [post]
func (h *BookHandler) Redistribute(c *fiber.Ctx) error {
	var in dto.RedistributeRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.uc.Redistribute(c.Context(), c.Params("id"), in.NewTotal, GetUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "stock redistribuido"})
}

// Deactivate godoc
// @Summary      Desactivar libro liberando todos sus apartados
// @Tags         books
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del libro"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/books/{id}/deactivate [post]
func (h *BookHandler) Deactivate(c *fiber.Ctx) error {
	if err := h.uc.DeactivateBook(c.Context(), c.Params("id"), GetUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "libro desactivado"})
}

// Delete godoc
// @Summary      Borrar libro y sus registros de inventario
// @Tags         books
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del libro"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/books/{id} [delete]
func (h *BookHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteBook(c.Context(), c.Params("id"), GetUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "libro eliminado"})
}
