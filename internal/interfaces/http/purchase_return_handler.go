package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/almacen-erp/internal/application/dto"
	"github.com/jhoicas/almacen-erp/internal/application/purchasereturn"
	"github.com/jhoicas/almacen-erp/internal/domain/repository"
)

// PurchaseReturnHandler maneja las devoluciones a proveedor (protegido).
type PurchaseReturnHandler struct {
	uc *purchasereturn.UseCase
}

// NewPurchaseReturnHandler construye el handler.
func NewPurchaseReturnHandler(uc *purchasereturn.UseCase) *PurchaseReturnHandler {
	return &PurchaseReturnHandler{uc: uc}
}

// Create godoc
// @Summary      Crear devolución a proveedor (borrador)
// @Tags         purchase-returns
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseReturnRequest  true  "Datos de la devolución"
// @Success      201   {object}  dto.PurchaseReturnResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/purchase-returns [post]
func (h *PurchaseReturnHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePurchaseReturnRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.PurchaseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "purchase_id es requerido"})
	}
	if len(in.Items) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "la devolución requiere al menos una línea"})
	}
	out, err := h.uc.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener devolución por ID
// @Tags         purchase-returns
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la devolución"
// @Success      200  {object}  dto.PurchaseReturnResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-returns/{id} [get]
func (h *PurchaseReturnHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar devoluciones
// @Tags         purchase-returns
// @Security     Bearer
// @Produce      json
// @Param        supplier_id   query  string  false  "Filtrar por proveedor"
// @Param        warehouse_id  query  string  false  "Filtrar por bodega"
// @Param        status        query  string  false  "draft | approved | completed | cancelled"
// @Success      200  {object}  dto.PurchaseReturnListResponse
// @Router       /api/purchase-returns [get]
func (h *PurchaseReturnHandler) List(c *fiber.Ctx) error {
	f := repository.PurchaseReturnFilter{
		SupplierID:  c.Query("supplier_id"),
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
// @Summary      Actualizar devolución (solo borrador)
// @Tags         purchase-returns
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                           true  "ID de la devolución"
// @Param        body  body  dto.UpdatePurchaseReturnRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.PurchaseReturnResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/purchase-returns/{id} [put]
func (h *PurchaseReturnHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdatePurchaseReturnRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Approve godoc
// @Summary      Aprobar devolución (draft → approved, valida disponibilidad)
// @Tags         purchase-returns
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la devolución"
// @Success      200  {object}  dto.PurchaseReturnResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/purchase-returns/{id}/approve [post]
func (h *PurchaseReturnHandler) Approve(c *fiber.Ctx) error {
	out, err := h.uc.Approve(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Complete godoc
// @Summary      Completar devolución (approved → completed, escribe el libro)
// @Tags         purchase-returns
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la devolución"
// @Success      200  {object}  dto.PurchaseReturnResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/purchase-returns/{id}/complete [post]
func (h *PurchaseReturnHandler) Complete(c *fiber.Ctx) error {
	out, err := h.uc.Complete(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar devolución (draft o approved)
// @Tags         purchase-returns
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la devolución"
// @Success      200  {object}  dto.PurchaseReturnResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/purchase-returns/{id}/cancel [post]
func (h *PurchaseReturnHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.uc.Cancel(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar devolución (solo borrador)
// @Tags         purchase-returns
// @Security     Bearer
// @Param        id  path  string  true  "ID de la devolución"
// @Success      204
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/purchase-returns/{id} [delete]
func (h *PurchaseReturnHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
