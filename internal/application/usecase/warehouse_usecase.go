package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/almacen-erp/internal/application/dto"
	"github.com/jhoicas/almacen-erp/internal/domain"
	"github.com/jhoicas/almacen-erp/internal/domain/entity"
	"github.com/jhoicas/almacen-erp/internal/domain/repository"
)

// WarehouseUseCase casos de uso CRUD para bodegas.
type WarehouseUseCase struct {
	repo repository.WarehouseRepository
}

// NewWarehouseUseCase construye el caso de uso.
func NewWarehouseUseCase(repo repository.WarehouseRepository) *WarehouseUseCase {
	return &WarehouseUseCase{repo: repo}
}

// Create crea una bodega.
func (uc *WarehouseUseCase) Create(ctx context.Context, in dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error) {
	if in.Code == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	w := &entity.Warehouse{
		ID:        uuid.New().String(),
		Code:      in.Code,
		Name:      in.Name,
		Address:   in.Address,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(w); err != nil {
		return nil, err
	}
	out := dto.ToWarehouseResponse(w)
	return &out, nil
}

// GetByID obtiene una bodega por ID.
func (uc *WarehouseUseCase) GetByID(ctx context.Context, id string) (*dto.WarehouseResponse, error) {
	w, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, domain.ErrNotFound
	}
	out := dto.ToWarehouseResponse(w)
	return &out, nil
}

// List devuelve bodegas paginadas.
func (uc *WarehouseUseCase) List(ctx context.Context, page dto.PageRequest) ([]dto.WarehouseResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.WarehouseResponse, 0, len(list))
	for _, w := range list {
		items = append(items, dto.ToWarehouseResponse(w))
	}
	return items, nil
}

// Update actualiza una bodega. El código no se modifica.
func (uc *WarehouseUseCase) Update(ctx context.Context, id string, in dto.UpdateWarehouseRequest) (*dto.WarehouseResponse, error) {
	w, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		w.Name = *in.Name
	}
	if in.Address != nil {
		w.Address = *in.Address
	}
	if in.IsActive != nil {
		w.IsActive = *in.IsActive
	}
	w.UpdatedAt = time.Now()
	if err := uc.repo.Update(w); err != nil {
		return nil, err
	}
	out := dto.ToWarehouseResponse(w)
	return &out, nil
}

// Delete elimina una bodega.
func (uc *WarehouseUseCase) Delete(ctx context.Context, id string) error {
	w, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if w == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(id)
}
