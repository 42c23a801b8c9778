// Package purchasereturn implementa las devoluciones de compra al proveedor:
// draft -> approved (solo valida disponibilidad) -> completed (escribe las
// salidas en el libro al costo promedio). La devolución es el asiento de
// compensación de una compra ya recibida.
package purchasereturn

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-erp/internal/application/docnumber"
	"github.com/jhoicas/almacen-erp/internal/application/dto"
	"github.com/jhoicas/almacen-erp/internal/application/stock"
	"github.com/jhoicas/almacen-erp/internal/domain"
	"github.com/jhoicas/almacen-erp/internal/domain/entity"
	"github.com/jhoicas/almacen-erp/internal/domain/repository"
)

// UseCase orquesta las operaciones de devoluciones de compra.
type UseCase struct {
	txRunner  stock.TxRunner
	returns   repository.PurchaseReturnRepository
	purchases repository.PurchaseRepository
	products  repository.ProductRepository
	stocks    repository.StockRepository
	writer    *stock.LedgerWriter
}

// NewUseCase construye el caso de uso de devoluciones.
func NewUseCase(
	txRunner stock.TxRunner,
	returns repository.PurchaseReturnRepository,
	purchases repository.PurchaseRepository,
	products repository.ProductRepository,
	stocks repository.StockRepository,
	writer *stock.LedgerWriter,
) *UseCase {
	return &UseCase{
		txRunner:  txRunner,
		returns:   returns,
		purchases: purchases,
		products:  products,
		stocks:    stocks,
		writer:    writer,
	}
}

// Create registra una devolución en draft contra una compra ya recibida.
// Proveedor y bodega se heredan de la compra.
func (uc *UseCase) Create(ctx context.Context, userID string, in dto.CreatePurchaseReturnRequest) (*dto.PurchaseReturnResponse, error) {
	if in.PurchaseID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	p, err := uc.purchases.GetByID(in.PurchaseID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	// Solo se devuelve mercancía que ya entró al inventario.
	if p.Status != entity.PurchaseStatusPending {
		return nil, &domain.InvalidStateError{DocumentID: p.ID, CurrentState: p.Status, Transition: "return"}
	}

	items, total, err := uc.buildItems(in.Items)
	if err != nil {
		return nil, err
	}

	number, err := docnumber.Generate(docnumber.PrefixPurchaseReturn, uc.returns.ExistsByNumber)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	returnDate := in.ReturnDate
	if returnDate.IsZero() {
		returnDate = now
	}

	r := &entity.PurchaseReturn{
		ID:           uuid.New().String(),
		ReturnNumber: number,
		PurchaseID:   p.ID,
		SupplierID:   p.SupplierID,
		WarehouseID:  p.WarehouseID,
		ReturnDate:   returnDate,
		Status:       entity.PurchaseReturnStatusDraft,
		Reason:       in.Reason,
		TotalAmount:  total,
		Notes:        in.Notes,
		CreatedBy:    userID,
		CreatedAt:    now,
		UpdatedAt:    now,
		Items:        items,
	}
	for i := range r.Items {
		r.Items[i].ReturnID = r.ID
	}

	if err := uc.returns.Create(r); err != nil {
		return nil, err
	}
	out := dto.ToPurchaseReturnResponse(r)
	return &out, nil
}

// GetByID carga una devolución con sus líneas.
func (uc *UseCase) GetByID(ctx context.Context, id string) (*dto.PurchaseReturnResponse, error) {
	r, err := uc.loadReturn(id)
	if err != nil {
		return nil, err
	}
	out := dto.ToPurchaseReturnResponse(r)
	return &out, nil
}

// List devuelve devoluciones paginadas según filtro.
func (uc *UseCase) List(ctx context.Context, f repository.PurchaseReturnFilter, page dto.PageRequest) (*dto.PurchaseReturnListResponse, error) {
	page.DefaultPage()
	list, err := uc.returns.List(f, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PurchaseReturnResponse, 0, len(list))
	for _, r := range list {
		items = append(items, dto.ToPurchaseReturnResponse(r))
	}
	return &dto.PurchaseReturnListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Update modifica cabecera y/o reemplaza las líneas. Solo en draft.
func (uc *UseCase) Update(ctx context.Context, id string, in dto.UpdatePurchaseReturnRequest) (*dto.PurchaseReturnResponse, error) {
	r, err := uc.loadReturn(id)
	if err != nil {
		return nil, err
	}
	if !r.CanEditItems() {
		return nil, &domain.InvalidStateError{DocumentID: id, CurrentState: r.Status, Transition: "update"}
	}

	if in.ReturnDate != nil {
		r.ReturnDate = *in.ReturnDate
	}
	if in.Reason != nil {
		r.Reason = *in.Reason
	}
	if in.Notes != nil {
		r.Notes = *in.Notes
	}
	if len(in.Items) > 0 {
		items, total, err := uc.buildItems(in.Items)
		if err != nil {
			return nil, err
		}
		for i := range items {
			items[i].ReturnID = r.ID
		}
		if err := uc.returns.ReplaceItems(r.ID, items); err != nil {
			return nil, err
		}
		r.Items = items
		r.TotalAmount = total
	}
	r.UpdatedAt = time.Now()

	if err := uc.returns.Update(r); err != nil {
		return nil, err
	}
	out := dto.ToPurchaseReturnResponse(r)
	return &out, nil
}

// Approve pasa la devolución de draft a approved. Verifica que las líneas
// quepan en las existencias actuales pero no escribe nada en el libro:
// la disponibilidad se revalida bajo bloqueo en Complete.
func (uc *UseCase) Approve(ctx context.Context, id, userID string) (*dto.PurchaseReturnResponse, error) {
	r, err := uc.loadReturn(id)
	if err != nil {
		return nil, err
	}
	if r.Status != entity.PurchaseReturnStatusDraft {
		return nil, &domain.InvalidStateError{DocumentID: id, CurrentState: r.Status, Transition: "approve"}
	}

	if err := stock.CheckAvailability(uc.stocks, r.WarehouseID, linesOf(r.Items)); err != nil {
		return nil, err
	}

	now := time.Now()
	r.Status = entity.PurchaseReturnStatusApproved
	r.ApprovedBy = userID
	r.ApprovedAt = &now
	r.UpdatedAt = now
	if err := uc.returns.Update(r); err != nil {
		return nil, err
	}
	out := dto.ToPurchaseReturnResponse(r)
	return &out, nil
}

// Complete pasa la devolución de approved a completed escribiendo una salida
// por línea al costo promedio actual de cada cuenta. Bloquea todas las
// cuentas, revalida la disponibilidad y solo entonces escribe: si una línea
// no alcanza, la transacción entera hace rollback.
func (uc *UseCase) Complete(ctx context.Context, id, userID string) (*dto.PurchaseReturnResponse, error) {
	var (
		r       *entity.PurchaseReturn
		entries []*entity.StockLedger
	)
	err := uc.txRunner.Run(ctx, func(tx stock.TxRepos) error {
		var err error
		r, err = tx.Returns.GetByID(id)
		if err != nil {
			return err
		}
		if r == nil {
			return domain.ErrNotFound
		}
		if r.Status != entity.PurchaseReturnStatusApproved {
			return &domain.InvalidStateError{DocumentID: id, CurrentState: r.Status, Transition: "complete"}
		}

		locked, err := stock.LockAndCheckAvailability(tx.Stock, r.WarehouseID, linesOf(r.Items))
		if err != nil {
			return err
		}

		entries = make([]*entity.StockLedger, 0, len(r.Items))
		for _, it := range r.Items {
			entry, err := uc.writer.RecordOnLocked(locked[it.ProductID], tx.Stock, tx.Ledger, stock.RecordInput{
				ProductID:       it.ProductID,
				WarehouseID:     r.WarehouseID,
				Direction:       entity.DirectionOut,
				ReferenceType:   entity.RefPurchaseReturn,
				ReferenceID:     r.ID,
				ReferenceNumber: r.ReturnNumber,
				Quantity:        it.Quantity,
				Notes:           r.Reason,
				ActorID:         userID,
				TransactionDate: r.ReturnDate,
			})
			if err != nil {
				return err
			}
			entries = append(entries, entry)
		}

		r.Status = entity.PurchaseReturnStatusCompleted
		r.UpdatedAt = time.Now()
		return tx.Returns.Update(r)
	})
	if err != nil {
		return nil, err
	}
	out := dto.ToPurchaseReturnResponseWithLedger(r, entries)
	return &out, nil
}

// Cancel anula una devolución que aún no escribió asientos (draft o approved).
func (uc *UseCase) Cancel(ctx context.Context, id string) (*dto.PurchaseReturnResponse, error) {
	r, err := uc.loadReturn(id)
	if err != nil {
		return nil, err
	}
	if r.Status != entity.PurchaseReturnStatusDraft && r.Status != entity.PurchaseReturnStatusApproved {
		return nil, &domain.InvalidStateError{DocumentID: id, CurrentState: r.Status, Transition: "cancel"}
	}
	r.Status = entity.PurchaseReturnStatusCancelled
	r.UpdatedAt = time.Now()
	if err := uc.returns.Update(r); err != nil {
		return nil, err
	}
	out := dto.ToPurchaseReturnResponse(r)
	return &out, nil
}

// Delete elimina una devolución en draft.
func (uc *UseCase) Delete(ctx context.Context, id string) error {
	r, err := uc.loadReturn(id)
	if err != nil {
		return err
	}
	if r.Status != entity.PurchaseReturnStatusDraft {
		return &domain.InvalidStateError{DocumentID: id, CurrentState: r.Status, Transition: "delete"}
	}
	return uc.returns.Delete(id)
}

func (uc *UseCase) loadReturn(id string) (*entity.PurchaseReturn, error) {
	r, err := uc.returns.GetByID(id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

func (uc *UseCase) buildItems(reqs []dto.PurchaseReturnItemRequest) ([]entity.PurchaseReturnItem, decimal.Decimal, error) {
	items := make([]entity.PurchaseReturnItem, 0, len(reqs))
	total := decimal.Zero
	for _, r := range reqs {
		if r.ProductID == "" || r.Quantity <= 0 || r.UnitPrice.IsNegative() {
			return nil, decimal.Zero, domain.ErrInvalidInput
		}
		prod, err := uc.products.GetByID(r.ProductID)
		if err != nil || prod == nil {
			return nil, decimal.Zero, domain.ErrNotFound
		}
		lineTotal := r.UnitPrice.Mul(decimal.NewFromInt(r.Quantity)).Round(2)
		items = append(items, entity.PurchaseReturnItem{
			ID:        uuid.New().String(),
			ProductID: r.ProductID,
			Quantity:  r.Quantity,
			UnitPrice: r.UnitPrice,
			Total:     lineTotal,
			Notes:     r.Notes,
		})
		total = total.Add(lineTotal)
	}
	return items, total.Round(2), nil
}

func linesOf(items []entity.PurchaseReturnItem) []stock.Line {
	lines := make([]stock.Line, 0, len(items))
	for _, it := range items {
		lines = append(lines, stock.Line{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return lines
}
