package stock

import (
	"context"

	"github.com/jhoicas/almacen-erp/internal/application/dto"
	"github.com/jhoicas/almacen-erp/internal/domain"
	"github.com/jhoicas/almacen-erp/internal/domain/entity"
	"github.com/jhoicas/almacen-erp/internal/domain/repository"
)

// KardexPDFGenerator genera el kardex (libro por producto y bodega) en PDF.
type KardexPDFGenerator interface {
	GenerateKardexPDF(ctx context.Context, product *entity.Product, warehouse *entity.Warehouse, account *entity.Stock, entries []*entity.StockLedger) ([]byte, error)
}

// QueryUseCase consultas de existencias y del libro de inventario
// (insumo de las vistas de kardex y estadísticas de la capa excluida).
type QueryUseCase struct {
	stockRepo     repository.StockRepository
	ledgerRepo    repository.StockLedgerRepository
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	pdf           KardexPDFGenerator
}

// NewQueryUseCase construye el caso de uso.
func NewQueryUseCase(
	stockRepo repository.StockRepository,
	ledgerRepo repository.StockLedgerRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	pdf KardexPDFGenerator,
) *QueryUseCase {
	return &QueryUseCase{
		stockRepo:     stockRepo,
		ledgerRepo:    ledgerRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		pdf:           pdf,
	}
}

// ListStock lista las cuentas de existencias con filtros.
func (uc *QueryUseCase) ListStock(f repository.StockFilter, limit, offset int) (*dto.StockListResponse, error) {
	list, err := uc.stockRepo.List(f, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockResponse, 0, len(list))
	for _, s := range list {
		items = append(items, dto.ToStockResponse(s))
	}
	return &dto.StockListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// GetStock devuelve la cuenta de (producto, bodega); cuenta vacía si no existe.
func (uc *QueryUseCase) GetStock(productID, warehouseID string) (*dto.StockResponse, error) {
	s, err := uc.stockRepo.Get(productID, warehouseID)
	if err != nil {
		return nil, err
	}
	out := dto.ToStockResponse(s)
	return &out, nil
}

// ListLedger lista asientos del libro con filtros y paginación.
func (uc *QueryUseCase) ListLedger(f repository.StockLedgerFilter, limit, offset int) (*dto.StockLedgerListResponse, error) {
	list, err := uc.ledgerRepo.List(f, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockLedgerResponse, 0, len(list))
	for _, e := range list {
		items = append(items, dto.ToStockLedgerResponse(e))
	}
	return &dto.StockLedgerListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// GetLedgerEntry devuelve un asiento por ID.
func (uc *QueryUseCase) GetLedgerEntry(id string) (*dto.StockLedgerResponse, error) {
	e, err := uc.ledgerRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, domain.ErrNotFound
	}
	out := dto.ToStockLedgerResponse(e)
	return &out, nil
}

// KardexPDF genera el kardex en PDF para (producto, bodega): todos los
// asientos en orden de inserción más el estado actual de la cuenta.
func (uc *QueryUseCase) KardexPDF(ctx context.Context, productID, warehouseID string) ([]byte, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	warehouse, err := uc.warehouseRepo.GetByID(warehouseID)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, domain.ErrNotFound
	}
	account, err := uc.stockRepo.Get(productID, warehouseID)
	if err != nil {
		return nil, err
	}
	entries, err := uc.ledgerRepo.ListByAccount(productID, warehouseID)
	if err != nil {
		return nil, err
	}
	return uc.pdf.GenerateKardexPDF(ctx, product, warehouse, account, entries)
}
