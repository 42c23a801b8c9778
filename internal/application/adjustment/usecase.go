// Package adjustment implementa los ajustes manuales de inventario:
// draft -> approved (valida disponibilidad si es decremento) -> completed
// (escribe los asientos). Un ajuste es todo-o-nada: si una línea no alcanza,
// ninguna se aplica.
package adjustment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/almacen-erp/internal/application/docnumber"
	"github.com/jhoicas/almacen-erp/internal/application/dto"
	"github.com/jhoicas/almacen-erp/internal/application/stock"
	"github.com/jhoicas/almacen-erp/internal/domain"
	"github.com/jhoicas/almacen-erp/internal/domain/entity"
	"github.com/jhoicas/almacen-erp/internal/domain/repository"
)

// UseCase orquesta las operaciones de ajustes.
type UseCase struct {
	txRunner    stock.TxRunner
	adjustments repository.AdjustmentRepository
	products    repository.ProductRepository
	warehouses  repository.WarehouseRepository
	stocks      repository.StockRepository
	writer      *stock.LedgerWriter
}

// NewUseCase construye el caso de uso de ajustes.
func NewUseCase(
	txRunner stock.TxRunner,
	adjustments repository.AdjustmentRepository,
	products repository.ProductRepository,
	warehouses repository.WarehouseRepository,
	stocks repository.StockRepository,
	writer *stock.LedgerWriter,
) *UseCase {
	return &UseCase{
		txRunner:    txRunner,
		adjustments: adjustments,
		products:    products,
		warehouses:  warehouses,
		stocks:      stocks,
		writer:      writer,
	}
}

// Create registra un ajuste en draft con número ADJ-XXXXXX.
func (uc *UseCase) Create(ctx context.Context, userID string, in dto.CreateAdjustmentRequest) (*dto.AdjustmentResponse, error) {
	if in.WarehouseID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.Type != entity.AdjustmentTypeIncrease && in.Type != entity.AdjustmentTypeDecrease {
		return nil, domain.ErrInvalidInput
	}
	if w, err := uc.warehouses.GetByID(in.WarehouseID); err != nil || w == nil {
		return nil, domain.ErrNotFound
	}

	items, err := uc.buildItems(in.Items)
	if err != nil {
		return nil, err
	}

	number, err := docnumber.Generate(docnumber.PrefixAdjustment, uc.adjustments.ExistsByNumber)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	adjustmentDate := in.AdjustmentDate
	if adjustmentDate.IsZero() {
		adjustmentDate = now
	}

	a := &entity.Adjustment{
		ID:               uuid.New().String(),
		AdjustmentNumber: number,
		WarehouseID:      in.WarehouseID,
		AdjustmentDate:   adjustmentDate,
		Status:           entity.AdjustmentStatusDraft,
		Type:             in.Type,
		Reason:           in.Reason,
		Notes:            in.Notes,
		CreatedBy:        userID,
		CreatedAt:        now,
		UpdatedAt:        now,
		Items:            items,
	}
	for i := range a.Items {
		a.Items[i].AdjustmentID = a.ID
	}

	if err := uc.adjustments.Create(a); err != nil {
		return nil, err
	}
	out := dto.ToAdjustmentResponse(a)
	return &out, nil
}

// GetByID carga un ajuste con sus líneas.
func (uc *UseCase) GetByID(ctx context.Context, id string) (*dto.AdjustmentResponse, error) {
	a, err := uc.loadAdjustment(id)
	if err != nil {
		return nil, err
	}
	out := dto.ToAdjustmentResponse(a)
	return &out, nil
}

// List devuelve ajustes paginados según filtro.
func (uc *UseCase) List(ctx context.Context, f repository.AdjustmentFilter, page dto.PageRequest) (*dto.AdjustmentListResponse, error) {
	page.DefaultPage()
	list, err := uc.adjustments.List(f, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.AdjustmentResponse, 0, len(list))
	for _, a := range list {
		items = append(items, dto.ToAdjustmentResponse(a))
	}
	return &dto.AdjustmentListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Update modifica cabecera y/o reemplaza las líneas. Solo en draft.
func (uc *UseCase) Update(ctx context.Context, id string, in dto.UpdateAdjustmentRequest) (*dto.AdjustmentResponse, error) {
	a, err := uc.loadAdjustment(id)
	if err != nil {
		return nil, err
	}
	if !a.CanEditItems() {
		return nil, &domain.InvalidStateError{DocumentID: id, CurrentState: a.Status, Transition: "update"}
	}

	if in.AdjustmentDate != nil {
		a.AdjustmentDate = *in.AdjustmentDate
	}
	if in.Type != nil {
		if *in.Type != entity.AdjustmentTypeIncrease && *in.Type != entity.AdjustmentTypeDecrease {
			return nil, domain.ErrInvalidInput
		}
		a.Type = *in.Type
	}
	if in.Reason != nil {
		a.Reason = *in.Reason
	}
	if in.Notes != nil {
		a.Notes = *in.Notes
	}
	if len(in.Items) > 0 {
		items, err := uc.buildItems(in.Items)
		if err != nil {
			return nil, err
		}
		for i := range items {
			items[i].AdjustmentID = a.ID
		}
		if err := uc.adjustments.ReplaceItems(a.ID, items); err != nil {
			return nil, err
		}
		a.Items = items
	}
	a.UpdatedAt = time.Now()

	if err := uc.adjustments.Update(a); err != nil {
		return nil, err
	}
	out := dto.ToAdjustmentResponse(a)
	return &out, nil
}

// Approve pasa el ajuste de draft a approved. Si el ajuste es un decremento
// valida que las líneas quepan en las existencias; un incremento siempre
// se puede aprobar.
func (uc *UseCase) Approve(ctx context.Context, id, userID string) (*dto.AdjustmentResponse, error) {
	a, err := uc.loadAdjustment(id)
	if err != nil {
		return nil, err
	}
	if a.Status != entity.AdjustmentStatusDraft {
		return nil, &domain.InvalidStateError{DocumentID: id, CurrentState: a.Status, Transition: "approve"}
	}

	if a.Type == entity.AdjustmentTypeDecrease {
		if err := stock.CheckAvailability(uc.stocks, a.WarehouseID, linesOf(a.Items)); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	a.Status = entity.AdjustmentStatusApproved
	a.ApprovedBy = userID
	a.ApprovedAt = &now
	a.UpdatedAt = now
	if err := uc.adjustments.Update(a); err != nil {
		return nil, err
	}
	out := dto.ToAdjustmentResponse(a)
	return &out, nil
}

// Complete pasa el ajuste de approved a completed escribiendo los asientos.
// Incrementos entran al costo unitario de la línea (o al promedio de la
// cuenta si la línea no trae costo); decrementos salen al promedio. Si una
// sola línea no alcanza, la transacción entera hace rollback.
func (uc *UseCase) Complete(ctx context.Context, id, userID string) (*dto.AdjustmentResponse, error) {
	var (
		a       *entity.Adjustment
		entries []*entity.StockLedger
	)
	err := uc.txRunner.Run(ctx, func(tx stock.TxRepos) error {
		var err error
		a, err = tx.Adjustments.GetByID(id)
		if err != nil {
			return err
		}
		if a == nil {
			return domain.ErrNotFound
		}
		if a.Status != entity.AdjustmentStatusApproved {
			return &domain.InvalidStateError{DocumentID: id, CurrentState: a.Status, Transition: "complete"}
		}

		switch a.Type {
		case entity.AdjustmentTypeDecrease:
			entries, err = uc.applyDecrease(tx, a, userID)
		case entity.AdjustmentTypeIncrease:
			entries, err = uc.applyIncrease(tx, a, userID)
		default:
			err = domain.ErrInvalidInput
		}
		if err != nil {
			return err
		}

		a.Status = entity.AdjustmentStatusCompleted
		a.UpdatedAt = time.Now()
		return tx.Adjustments.Update(a)
	})
	if err != nil {
		return nil, err
	}
	out := dto.ToAdjustmentResponseWithLedger(a, entries)
	return &out, nil
}

func (uc *UseCase) applyDecrease(tx stock.TxRepos, a *entity.Adjustment, userID string) ([]*entity.StockLedger, error) {
	locked, err := stock.LockAndCheckAvailability(tx.Stock, a.WarehouseID, linesOf(a.Items))
	if err != nil {
		return nil, err
	}
	entries := make([]*entity.StockLedger, 0, len(a.Items))
	for _, it := range a.Items {
		entry, err := uc.writer.RecordOnLocked(locked[it.ProductID], tx.Stock, tx.Ledger, stock.RecordInput{
			ProductID:       it.ProductID,
			WarehouseID:     a.WarehouseID,
			Direction:       entity.DirectionOut,
			ReferenceType:   entity.RefAdjustment,
			ReferenceID:     a.ID,
			ReferenceNumber: a.AdjustmentNumber,
			Quantity:        it.Quantity,
			Notes:           a.Reason,
			ActorID:         userID,
			TransactionDate: a.AdjustmentDate,
		})
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (uc *UseCase) applyIncrease(tx stock.TxRepos, a *entity.Adjustment, userID string) ([]*entity.StockLedger, error) {
	entries := make([]*entity.StockLedger, 0, len(a.Items))
	for _, it := range a.Items {
		s, err := tx.Stock.GetForUpdate(it.ProductID, a.WarehouseID)
		if err != nil {
			return nil, err
		}
		// Línea sin costo: la mercancía encontrada entra al promedio actual
		// de la cuenta para no distorsionar la valuación.
		unitCost := it.UnitCost
		if unitCost.IsZero() {
			unitCost = s.AverageCost
		}
		entry, err := uc.writer.RecordOnLocked(s, tx.Stock, tx.Ledger, stock.RecordInput{
			ProductID:       it.ProductID,
			WarehouseID:     a.WarehouseID,
			Direction:       entity.DirectionIn,
			ReferenceType:   entity.RefAdjustment,
			ReferenceID:     a.ID,
			ReferenceNumber: a.AdjustmentNumber,
			Quantity:        it.Quantity,
			UnitCost:        unitCost,
			Notes:           a.Reason,
			ActorID:         userID,
			TransactionDate: a.AdjustmentDate,
		})
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Cancel anula un ajuste que aún no escribió asientos (draft o approved).
func (uc *UseCase) Cancel(ctx context.Context, id string) (*dto.AdjustmentResponse, error) {
	a, err := uc.loadAdjustment(id)
	if err != nil {
		return nil, err
	}
	if a.Status != entity.AdjustmentStatusDraft && a.Status != entity.AdjustmentStatusApproved {
		return nil, &domain.InvalidStateError{DocumentID: id, CurrentState: a.Status, Transition: "cancel"}
	}
	a.Status = entity.AdjustmentStatusCancelled
	a.UpdatedAt = time.Now()
	if err := uc.adjustments.Update(a); err != nil {
		return nil, err
	}
	out := dto.ToAdjustmentResponse(a)
	return &out, nil
}

// Delete elimina un ajuste en draft.
func (uc *UseCase) Delete(ctx context.Context, id string) error {
	a, err := uc.loadAdjustment(id)
	if err != nil {
		return err
	}
	if a.Status != entity.AdjustmentStatusDraft {
		return &domain.InvalidStateError{DocumentID: id, CurrentState: a.Status, Transition: "delete"}
	}
	return uc.adjustments.Delete(id)
}

func (uc *UseCase) loadAdjustment(id string) (*entity.Adjustment, error) {
	a, err := uc.adjustments.GetByID(id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	return a, nil
}

func (uc *UseCase) buildItems(reqs []dto.AdjustmentItemRequest) ([]entity.AdjustmentItem, error) {
	items := make([]entity.AdjustmentItem, 0, len(reqs))
	for _, r := range reqs {
		if r.ProductID == "" || r.Quantity <= 0 || r.UnitCost.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		prod, err := uc.products.GetByID(r.ProductID)
		if err != nil || prod == nil {
			return nil, domain.ErrNotFound
		}
		items = append(items, entity.AdjustmentItem{
			ID:        uuid.New().String(),
			ProductID: r.ProductID,
			Quantity:  r.Quantity,
			UnitCost:  r.UnitCost,
			Notes:     r.Notes,
		})
	}
	return items, nil
}

func linesOf(items []entity.AdjustmentItem) []stock.Line {
	lines := make([]stock.Line, 0, len(items))
	for _, it := range items {
		lines = append(lines, stock.Line{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return lines
}
