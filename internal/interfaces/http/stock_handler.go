package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/almacen-erp/internal/application/dto"
	"github.com/jhoicas/almacen-erp/internal/application/stock"
	"github.com/jhoicas/almacen-erp/internal/domain/repository"
)

// StockHandler expone las consultas de existencias y del libro de inventario.
type StockHandler struct {
	uc *stock.QueryUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *stock.QueryUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// ListStock godoc
// @Summary      Listar existencias por (producto, bodega)
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  false  "Filtrar por producto"
// @Param        warehouse_id  query  string  false  "Filtrar por bodega"
// @Param        limit         query  int     false  "Límite"  default(20)
// @Param        offset        query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.StockListResponse
// @Router       /api/stock [get]
func (h *StockHandler) ListStock(c *fiber.Ctx) error {
	f := repository.StockFilter{
		ProductID:   c.Query("product_id"),
		WarehouseID: c.Query("warehouse_id"),
	}
	limit, offset := pageParams(c)
	out, err := h.uc.ListStock(f, limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetStock godoc
// @Summary      Obtener la cuenta de existencias de (producto, bodega)
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        productId    path  string  true  "ID del producto"
// @Param        warehouseId  path  string  true  "ID de la bodega"
// @Success      200  {object}  dto.StockResponse
// @Router       /api/stock/{productId}/{warehouseId} [get]
func (h *StockHandler) GetStock(c *fiber.Ctx) error {
	productID := c.Params("productId")
	warehouseID := c.Params("warehouseId")
	if productID == "" || warehouseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "productId y warehouseId son requeridos"})
	}
	out, err := h.uc.GetStock(productID, warehouseID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListLedger godoc
// @Summary      Listar asientos del libro de inventario
// @Tags         stock-ledger
// @Security     Bearer
// @Produce      json
// @Param        product_id      query  string  false  "Filtrar por producto"
// @Param        warehouse_id    query  string  false  "Filtrar por bodega"
// @Param        direction       query  string  false  "in | out"
// @Param        reference_type  query  string  false  "purchase, transfer_in, ..."
// @Param        date_from       query  string  false  "YYYY-MM-DD"
// @Param        date_to         query  string  false  "YYYY-MM-DD"
// @Success      200  {object}  dto.StockLedgerListResponse
// @Router       /api/stock-ledger [get]
func (h *StockHandler) ListLedger(c *fiber.Ctx) error {
	f := repository.StockLedgerFilter{
		ProductID:     c.Query("product_id"),
		WarehouseID:   c.Query("warehouse_id"),
		Direction:     c.Query("direction"),
		ReferenceType: c.Query("reference_type"),
	}
	var err error
	if f.DateFrom, err = parseDateParam(c.Query("date_from")); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "date_from inválida (YYYY-MM-DD)"})
	}
	if f.DateTo, err = parseDateParam(c.Query("date_to")); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "date_to inválida (YYYY-MM-DD)"})
	}
	limit, offset := pageParams(c)
	out, err := h.uc.ListLedger(f, limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetLedgerEntry godoc
// @Summary      Obtener un asiento del libro por ID
// @Tags         stock-ledger
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del asiento"
// @Success      200  {object}  dto.StockLedgerResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock-ledger/{id} [get]
func (h *StockHandler) GetLedgerEntry(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.GetLedgerEntry(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// KardexPDF godoc
// @Summary      Generar el kardex de (producto, bodega) en PDF
// @Tags         stock-ledger
// @Security     Bearer
// @Produce      application/pdf
// @Param        product_id    query  string  true  "ID del producto"
// @Param        warehouse_id  query  string  true  "ID de la bodega"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock-ledger/report.pdf [get]
func (h *StockHandler) KardexPDF(c *fiber.Ctx) error {
	productID := c.Query("product_id")
	warehouseID := c.Query("warehouse_id")
	if productID == "" || warehouseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id y warehouse_id son requeridos"})
	}
	pdfBytes, err := h.uc.KardexPDF(c.Context(), productID, warehouseID)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="kardex.pdf"`)
	return c.Send(pdfBytes)
}

// pageParams lee limit/offset de la query con los topes del resto de listados.
func pageParams(c *fiber.Ctx) (limit, offset int) {
	limit = c.QueryInt("limit", 20)
	offset = c.QueryInt("offset", 0)
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// parseDateParam acepta YYYY-MM-DD o RFC3339; vacío devuelve nil.
func parseDateParam(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, err
		}
	}
	return &t, nil
}
