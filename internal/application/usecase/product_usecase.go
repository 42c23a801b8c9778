package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/almacen-erp/internal/application/dto"
	"github.com/jhoicas/almacen-erp/internal/application/stock"
	"github.com/jhoicas/almacen-erp/internal/domain"
	"github.com/jhoicas/almacen-erp/internal/domain/entity"
	"github.com/jhoicas/almacen-erp/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. Las existencias y el
// costo promedio se manejan vía el libro de inventario, nunca aquí; la única
// excepción es la carga inicial opcional al crear (asiento opening_stock).
type ProductUseCase struct {
	repo       repository.ProductRepository
	categories repository.CategoryRepository
	warehouses repository.WarehouseRepository
	txRunner   stock.TxRunner
	writer     *stock.LedgerWriter
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	repo repository.ProductRepository,
	categories repository.CategoryRepository,
	warehouses repository.WarehouseRepository,
	txRunner stock.TxRunner,
	writer *stock.LedgerWriter,
) *ProductUseCase {
	return &ProductUseCase{
		repo:       repo,
		categories: categories,
		warehouses: warehouses,
		txRunner:   txRunner,
		writer:     writer,
	}
}

// Create crea un producto. Si viene OpeningStock, escribe el asiento de
// entrada inicial en la misma transacción: producto sin asiento o asiento
// sin producto son imposibles.
func (uc *ProductUseCase) Create(ctx context.Context, userID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.SKU == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.repo.GetBySKU(in.SKU)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if in.CategoryID != "" {
		if c, err := uc.categories.GetByID(in.CategoryID); err != nil || c == nil {
			return nil, domain.ErrNotFound
		}
	}
	if in.OpeningStock != nil {
		if in.OpeningStock.Quantity <= 0 || in.OpeningStock.UnitCost.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		if w, err := uc.warehouses.GetByID(in.OpeningStock.WarehouseID); err != nil || w == nil {
			return nil, domain.ErrNotFound
		}
	}
	if in.UnitMeasure == "" {
		in.UnitMeasure = "94" // unidad, código UN/ECE por defecto
	}

	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		SKU:         in.SKU,
		Name:        in.Name,
		Description: in.Description,
		CategoryID:  in.CategoryID,
		Price:       in.Price,
		UnitMeasure: in.UnitMeasure,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := uc.txRunner.Run(ctx, func(tx stock.TxRepos) error {
		if err := tx.Products.Create(product); err != nil {
			return err
		}
		if in.OpeningStock == nil {
			return nil
		}
		_, err := uc.writer.Record(tx.Stock, tx.Ledger, stock.RecordInput{
			ProductID:       product.ID,
			WarehouseID:     in.OpeningStock.WarehouseID,
			Direction:       entity.DirectionIn,
			ReferenceType:   entity.RefOpeningStock,
			ReferenceID:     product.ID,
			ReferenceNumber: product.SKU,
			Quantity:        in.OpeningStock.Quantity,
			UnitCost:        in.OpeningStock.UnitCost,
			ActorID:         userID,
			TransactionDate: now,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	out := dto.ToProductResponse(product)
	return &out, nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	out := dto.ToProductResponse(product)
	return &out, nil
}

// List devuelve productos paginados, con búsqueda por nombre/SKU y filtro
// por categoría.
func (uc *ProductUseCase) List(ctx context.Context, search, categoryID string, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(search, categoryID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, dto.ToProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Update actualiza datos maestros del producto. No permite modificar SKU ni
// nada derivado del libro.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.CategoryID != nil {
		if c, err := uc.categories.GetByID(*in.CategoryID); err != nil || c == nil {
			return nil, domain.ErrNotFound
		}
		product.CategoryID = *in.CategoryID
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if in.UnitMeasure != nil {
		product.UnitMeasure = *in.UnitMeasure
	}
	if in.IsActive != nil {
		product.IsActive = *in.IsActive
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	out := dto.ToProductResponse(product)
	return &out, nil
}

// Delete elimina un producto.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(id)
}
