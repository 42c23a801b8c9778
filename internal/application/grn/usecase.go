// Package grn implementa las notas de recepción de mercancía:
// draft -> verified o draft -> cancelled. El GRN documenta cantidades
// pedidas vs recibidas; nunca muta el stock (eso lo hace la recepción de
// la compra que lo referencia).
package grn

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-erp/internal/application/docnumber"
	"github.com/jhoicas/almacen-erp/internal/application/dto"
	"github.com/jhoicas/almacen-erp/internal/domain"
	"github.com/jhoicas/almacen-erp/internal/domain/entity"
	"github.com/jhoicas/almacen-erp/internal/domain/repository"
)

// UseCase orquesta las operaciones de GRNs.
type UseCase struct {
	grns       repository.GrnRepository
	products   repository.ProductRepository
	warehouses repository.WarehouseRepository
}

// NewUseCase construye el caso de uso de GRNs.
func NewUseCase(
	grns repository.GrnRepository,
	products repository.ProductRepository,
	warehouses repository.WarehouseRepository,
) *UseCase {
	return &UseCase{grns: grns, products: products, warehouses: warehouses}
}

// Create registra un GRN en draft con número GRN-XXXXXX.
func (uc *UseCase) Create(ctx context.Context, userID string, in dto.CreateGrnRequest) (*dto.GrnResponse, error) {
	if in.WarehouseID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if w, err := uc.warehouses.GetByID(in.WarehouseID); err != nil || w == nil {
		return nil, domain.ErrNotFound
	}

	items, err := uc.buildItems(in.Items)
	if err != nil {
		return nil, err
	}

	number, err := docnumber.Generate(docnumber.PrefixGrn, uc.grns.ExistsByNumber)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	grnDate := in.GrnDate
	if grnDate.IsZero() {
		grnDate = now
	}

	g := &entity.Grn{
		ID:          uuid.New().String(),
		GrnNumber:   number,
		WarehouseID: in.WarehouseID,
		GrnDate:     grnDate,
		Status:      entity.GrnStatusDraft,
		Notes:       in.Notes,
		ReceivedBy:  userID,
		CreatedAt:   now,
		UpdatedAt:   now,
		Items:       items,
	}
	for i := range g.Items {
		g.Items[i].GrnID = g.ID
	}

	if err := uc.grns.Create(g); err != nil {
		return nil, err
	}
	out := dto.ToGrnResponse(g)
	return &out, nil
}

// GetByID carga un GRN con sus líneas.
func (uc *UseCase) GetByID(ctx context.Context, id string) (*dto.GrnResponse, error) {
	g, err := uc.loadGrn(id)
	if err != nil {
		return nil, err
	}
	out := dto.ToGrnResponse(g)
	return &out, nil
}

// List devuelve GRNs paginados según filtro.
func (uc *UseCase) List(ctx context.Context, f repository.GrnFilter, page dto.PageRequest) (*dto.GrnListResponse, error) {
	page.DefaultPage()
	list, err := uc.grns.List(f, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.GrnResponse, 0, len(list))
	for _, g := range list {
		items = append(items, dto.ToGrnResponse(g))
	}
	return &dto.GrnListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Update modifica cabecera y/o reemplaza las líneas. Solo en draft.
func (uc *UseCase) Update(ctx context.Context, id string, in dto.UpdateGrnRequest) (*dto.GrnResponse, error) {
	g, err := uc.loadGrn(id)
	if err != nil {
		return nil, err
	}
	if !g.CanEditItems() {
		return nil, &domain.InvalidStateError{DocumentID: id, CurrentState: g.Status, Transition: "update"}
	}

	if in.GrnDate != nil {
		g.GrnDate = *in.GrnDate
	}
	if in.Notes != nil {
		g.Notes = *in.Notes
	}
	if len(in.Items) > 0 {
		items, err := uc.buildItems(in.Items)
		if err != nil {
			return nil, err
		}
		for i := range items {
			items[i].GrnID = g.ID
		}
		if err := uc.grns.ReplaceItems(g.ID, items); err != nil {
			return nil, err
		}
		g.Items = items
	}
	g.UpdatedAt = time.Now()

	if err := uc.grns.Update(g); err != nil {
		return nil, err
	}
	out := dto.ToGrnResponse(g)
	return &out, nil
}

// Verify marca el GRN como verificado (draft -> verified).
func (uc *UseCase) Verify(ctx context.Context, id, userID string) (*dto.GrnResponse, error) {
	g, err := uc.loadGrn(id)
	if err != nil {
		return nil, err
	}
	if g.Status != entity.GrnStatusDraft {
		return nil, &domain.InvalidStateError{DocumentID: id, CurrentState: g.Status, Transition: "verify"}
	}
	now := time.Now()
	g.Status = entity.GrnStatusVerified
	g.VerifiedBy = userID
	g.VerifiedAt = &now
	g.UpdatedAt = now
	if err := uc.grns.Update(g); err != nil {
		return nil, err
	}
	out := dto.ToGrnResponse(g)
	return &out, nil
}

// Cancel anula un GRN en draft.
func (uc *UseCase) Cancel(ctx context.Context, id string) (*dto.GrnResponse, error) {
	g, err := uc.loadGrn(id)
	if err != nil {
		return nil, err
	}
	if g.Status != entity.GrnStatusDraft {
		return nil, &domain.InvalidStateError{DocumentID: id, CurrentState: g.Status, Transition: "cancel"}
	}
	g.Status = entity.GrnStatusCancelled
	g.UpdatedAt = time.Now()
	if err := uc.grns.Update(g); err != nil {
		return nil, err
	}
	out := dto.ToGrnResponse(g)
	return &out, nil
}

// Delete elimina un GRN en draft.
func (uc *UseCase) Delete(ctx context.Context, id string) error {
	g, err := uc.loadGrn(id)
	if err != nil {
		return err
	}
	if g.Status != entity.GrnStatusDraft {
		return &domain.InvalidStateError{DocumentID: id, CurrentState: g.Status, Transition: "delete"}
	}
	return uc.grns.Delete(id)
}

func (uc *UseCase) loadGrn(id string) (*entity.Grn, error) {
	g, err := uc.grns.GetByID(id)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, domain.ErrNotFound
	}
	return g, nil
}

func (uc *UseCase) buildItems(reqs []dto.GrnItemRequest) ([]entity.GrnItem, error) {
	items := make([]entity.GrnItem, 0, len(reqs))
	for _, r := range reqs {
		if r.ProductID == "" || r.OrderedQuantity <= 0 || r.ReceivedQuantity < 0 || r.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		prod, err := uc.products.GetByID(r.ProductID)
		if err != nil || prod == nil {
			return nil, domain.ErrNotFound
		}
		items = append(items, entity.GrnItem{
			ID:               uuid.New().String(),
			ProductID:        r.ProductID,
			OrderedQuantity:  r.OrderedQuantity,
			ReceivedQuantity: r.ReceivedQuantity,
			UnitPrice:        r.UnitPrice,
			Total:            r.UnitPrice.Mul(decimal.NewFromInt(r.ReceivedQuantity)).Round(2),
			SerialNumbers:    r.SerialNumbers,
			Notes:            r.Notes,
		})
	}
	return items, nil
}
