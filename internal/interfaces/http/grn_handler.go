package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/almacen-erp/internal/application/dto"
	"github.com/jhoicas/almacen-erp/internal/application/grn"
	"github.com/jhoicas/almacen-erp/internal/domain/repository"
)

// GrnHandler maneja las notas de recepción de mercancía (protegido).
// Un GRN nunca escribe el libro de inventario; la entrada la hace la compra.
type GrnHandler struct {
	uc *grn.UseCase
}

// NewGrnHandler construye el handler.
func NewGrnHandler(uc *grn.UseCase) *GrnHandler {
	return &GrnHandler{uc: uc}
}

// Create godoc
// @Summary      Crear nota de recepción (borrador)
// @Tags         grns
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateGrnRequest  true  "Datos de la recepción"
// @Success      201   {object}  dto.GrnResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/grns [post]
func (h *GrnHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateGrnRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.WarehouseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "warehouse_id es requerido"})
	}
	if len(in.Items) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "la recepción requiere al menos una línea"})
	}
	out, err := h.uc.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener nota de recepción por ID
// @Tags         grns
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la recepción"
// @Success      200  {object}  dto.GrnResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/grns/{id} [get]
func (h *GrnHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar notas de recepción
// @Tags         grns
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Filtrar por bodega"
// @Param        status        query  string  false  "draft | verified | cancelled"
// @Success      200  {object}  dto.GrnListResponse
// @Router       /api/grns [get]
func (h *GrnHandler) List(c *fiber.Ctx) error {
	f := repository.GrnFilter{
		WarehouseID: c.Query("warehouse_id"),
		Status:      c.Query("status"),
		Search:      c.Query("search"),
	}
	limit, offset := pageParams(c)
	out, err := h.uc.List(c.Context(), f, dto.PageRequest{Limit: limit, Offset: offset})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar nota de recepción (solo borrador)
// @Tags         grns
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "ID de la recepción"
// @Param        body  body  dto.UpdateGrnRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.GrnResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/grns/{id} [put]
func (h *GrnHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateGrnRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Verify godoc
// @Summary      Verificar nota de recepción (draft → verified)
// @Tags         grns
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la recepción"
// @Success      200  {object}  dto.GrnResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/grns/{id}/verify [post]
func (h *GrnHandler) Verify(c *fiber.Ctx) error {
	out, err := h.uc.Verify(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar nota de recepción (solo borrador)
// @Tags         grns
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la recepción"
// @Success      200  {object}  dto.GrnResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/grns/{id}/cancel [post]
func (h *GrnHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.uc.Cancel(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar nota de recepción (solo borrador)
// @Tags         grns
// @Security     Bearer
// @Param        id  path  string  true  "ID de la recepción"
// @Success      204
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/grns/{id} [delete]
func (h *GrnHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
