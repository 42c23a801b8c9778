// Package transfer implementa los traslados entre bodegas:
// pending -> approved (valida disponibilidad en origen) -> completed
// (recepción: salida en origen y entrada en destino por cada línea, al
// costo promedio del origen capturado bajo bloqueo).
package transfer

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

// UseCase orquesta las operaciones de traslados.
type UseCase struct {
	txRunner   stock.TxRunner
	transfers  repository.TransferRepository
	products   repository.ProductRepository
	warehouses repository.WarehouseRepository
	stocks     repository.StockRepository
	writer     *stock.LedgerWriter
}

// NewUseCase construye el caso de uso de traslados.
func NewUseCase(
	txRunner stock.TxRunner,
	transfers repository.TransferRepository,
	products repository.ProductRepository,
	warehouses repository.WarehouseRepository,
	stocks repository.StockRepository,
	writer *stock.LedgerWriter,
) *UseCase {
	return &UseCase{
		txRunner:   txRunner,
		transfers:  transfers,
		products:   products,
		warehouses: warehouses,
		stocks:     stocks,
		writer:     writer,
	}
}

// Create registra un traslado en pending con número TRF-XXXXXX.
// Origen y destino deben existir y ser distintos.
func (uc *UseCase) Create(ctx context.Context, userID string, in dto.CreateTransferRequest) (*dto.TransferResponse, error) {
	if in.FromWarehouseID == "" || in.ToWarehouseID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.FromWarehouseID == in.ToWarehouseID {
		return nil, domain.ErrInvalidInput
	}
	if w, err := uc.warehouses.GetByID(in.FromWarehouseID); err != nil || w == nil {
		return nil, domain.ErrNotFound
	}
	if w, err := uc.warehouses.GetByID(in.ToWarehouseID); err != nil || w == nil {
		return nil, domain.ErrNotFound
	}

	items, err := uc.buildItems(in.Items)
	if err != nil {
		return nil, err
	}

	number, err := docnumber.Generate(docnumber.PrefixTransfer, uc.transfers.ExistsByNumber)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	transferDate := in.TransferDate
	if transferDate.IsZero() {
		transferDate = now
	}

	t := &entity.Transfer{
		ID:              uuid.New().String(),
		TransferNumber:  number,
		FromWarehouseID: in.FromWarehouseID,
		ToWarehouseID:   in.ToWarehouseID,
		TransferDate:    transferDate,
		Status:          entity.TransferStatusPending,
		Notes:           in.Notes,
		RequestedBy:     userID,
		CreatedAt:       now,
		UpdatedAt:       now,
		Items:           items,
	}
	for i := range t.Items {
		t.Items[i].TransferID = t.ID
	}

	if err := uc.transfers.Create(t); err != nil {
		return nil, err
	}
	out := dto.ToTransferResponse(t)
	return &out, nil
}

// GetByID carga un traslado con sus líneas.
func (uc *UseCase) GetByID(ctx context.Context, id string) (*dto.TransferResponse, error) {
	t, err := uc.loadTransfer(id)
	if err != nil {
		return nil, err
	}
	out := dto.ToTransferResponse(t)
	return &out, nil
}

// List devuelve traslados paginados según filtro.
func (uc *UseCase) List(ctx context.Context, f repository.TransferFilter, page dto.PageRequest) (*dto.TransferListResponse, error) {
	page.DefaultPage()
	list, err := uc.transfers.List(f, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TransferResponse, 0, len(list))
	for _, t := range list {
		items = append(items, dto.ToTransferResponse(t))
	}
	return &dto.TransferListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Update modifica cabecera y/o reemplaza las líneas. Solo en pending.
func (uc *UseCase) Update(ctx context.Context, id string, in dto.UpdateTransferRequest) (*dto.TransferResponse, error) {
	t, err := uc.loadTransfer(id)
	if err != nil {
		return nil, err
	}
	if !t.CanEditItems() {
		return nil, &domain.InvalidStateError{DocumentID: id, CurrentState: t.Status, Transition: "update"}
	}

	if in.TransferDate != nil {
		t.TransferDate = *in.TransferDate
	}
	if in.Notes != nil {
		t.Notes = *in.Notes
	}
	if len(in.Items) > 0 {
		items, err := uc.buildItems(in.Items)
		if err != nil {
			return nil, err
		}
		for i := range items {
			items[i].TransferID = t.ID
		}
		if err := uc.transfers.ReplaceItems(t.ID, items); err != nil {
			return nil, err
		}
		t.Items = items
	}
	t.UpdatedAt = time.Now()

	if err := uc.transfers.Update(t); err != nil {
		return nil, err
	}
	out := dto.ToTransferResponse(t)
	return &out, nil
}

// Approve pasa el traslado de pending a approved validando que las líneas
// quepan en la bodega origen. No escribe asientos.
func (uc *UseCase) Approve(ctx context.Context, id, userID string) (*dto.TransferResponse, error) {
	t, err := uc.loadTransfer(id)
	if err != nil {
		return nil, err
	}
	if t.Status != entity.TransferStatusPending {
		return nil, &domain.InvalidStateError{DocumentID: id, CurrentState: t.Status, Transition: "approve"}
	}

	if err := stock.CheckAvailability(uc.stocks, t.FromWarehouseID, linesOf(t.Items)); err != nil {
		return nil, err
	}

	now := time.Now()
	t.Status = entity.TransferStatusApproved
	t.ApprovedBy = userID
	t.ApprovedAt = &now
	t.UpdatedAt = now
	if err := uc.transfers.Update(t); err != nil {
		return nil, err
	}
	out := dto.ToTransferResponse(t)
	return &out, nil
}

// Receive completa el traslado: por cada línea escribe la salida en la
// bodega origen y la entrada en la destino al costo promedio que el origen
// tenía bajo bloqueo, en una sola transacción. El valor sale de una cuenta
// y entra a la otra sin crearse ni destruirse.
func (uc *UseCase) Receive(ctx context.Context, id, userID string) (*dto.TransferResponse, error) {
	var (
		t       *entity.Transfer
		entries []*entity.StockLedger
	)
	err := uc.txRunner.Run(ctx, func(tx stock.TxRepos) error {
		var err error
		t, err = tx.Transfers.GetByID(id)
		if err != nil {
			return err
		}
		if t == nil {
			return domain.ErrNotFound
		}
		if t.Status != entity.TransferStatusApproved {
			return &domain.InvalidStateError{DocumentID: id, CurrentState: t.Status, Transition: "receive"}
		}

		locked, err := stock.LockAndCheckAvailability(tx.Stock, t.FromWarehouseID, linesOf(t.Items))
		if err != nil {
			return err
		}

		entries = make([]*entity.StockLedger, 0, 2*len(t.Items))
		for _, it := range t.Items {
			src := locked[it.ProductID]
			// Costo promedio del origen antes de la salida: es la base de
			// costo con la que la mercancía entra al destino.
			avgCost := src.AverageCost

			outEntry, err := uc.writer.RecordOnLocked(src, tx.Stock, tx.Ledger, stock.RecordInput{
				ProductID:       it.ProductID,
				WarehouseID:     t.FromWarehouseID,
				Direction:       entity.DirectionOut,
				ReferenceType:   entity.RefTransferOut,
				ReferenceID:     t.ID,
				ReferenceNumber: t.TransferNumber,
				Quantity:        it.Quantity,
				Notes:           t.Notes,
				ActorID:         userID,
				TransactionDate: t.TransferDate,
			})
			if err != nil {
				return err
			}
			entries = append(entries, outEntry)

			inEntry, err := uc.writer.Record(tx.Stock, tx.Ledger, stock.RecordInput{
				ProductID:       it.ProductID,
				WarehouseID:     t.ToWarehouseID,
				Direction:       entity.DirectionIn,
				ReferenceType:   entity.RefTransferIn,
				ReferenceID:     t.ID,
				ReferenceNumber: t.TransferNumber,
				Quantity:        it.Quantity,
				UnitCost:        avgCost,
				Notes:           t.Notes,
				ActorID:         userID,
				TransactionDate: t.TransferDate,
			})
			if err != nil {
				return err
			}
			entries = append(entries, inEntry)
		}

		now := time.Now()
		t.Status = entity.TransferStatusCompleted
		t.ReceivedBy = userID
		t.ReceivedAt = &now
		t.UpdatedAt = now
		return tx.Transfers.Update(t)
	})
	if err != nil {
		return nil, err
	}
	out := dto.ToTransferResponseWithLedger(t, entries)
	return &out, nil
}

// Cancel anula un traslado que aún no escribió asientos (pending o approved).
func (uc *UseCase) Cancel(ctx context.Context, id string) (*dto.TransferResponse, error) {
	t, err := uc.loadTransfer(id)
	if err != nil {
		return nil, err
	}
	if t.Status != entity.TransferStatusPending && t.Status != entity.TransferStatusApproved {
		return nil, &domain.InvalidStateError{DocumentID: id, CurrentState: t.Status, Transition: "cancel"}
	}
	t.Status = entity.TransferStatusCancelled
	t.UpdatedAt = time.Now()
	if err := uc.transfers.Update(t); err != nil {
		return nil, err
	}
	out := dto.ToTransferResponse(t)
	return &out, nil
}

// Delete elimina un traslado en pending.
func (uc *UseCase) Delete(ctx context.Context, id string) error {
	t, err := uc.loadTransfer(id)
	if err != nil {
		return err
	}
	if t.Status != entity.TransferStatusPending {
		return &domain.InvalidStateError{DocumentID: id, CurrentState: t.Status, Transition: "delete"}
	}
	return uc.transfers.Delete(id)
}

func (uc *UseCase) loadTransfer(id string) (*entity.Transfer, error) {
	t, err := uc.transfers.GetByID(id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

func (uc *UseCase) buildItems(reqs []dto.TransferItemRequest) ([]entity.TransferItem, error) {
	items := make([]entity.TransferItem, 0, len(reqs))
	for _, r := range reqs {
		if r.ProductID == "" || r.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		prod, err := uc.products.GetByID(r.ProductID)
		if err != nil || prod == nil {
			return nil, domain.ErrNotFound
		}
		items = append(items, entity.TransferItem{
			ID:            uuid.New().String(),
			ProductID:     r.ProductID,
			Quantity:      r.Quantity,
			SerialNumbers: r.SerialNumbers,
			Notes:         r.Notes,
		})
	}
	return items, nil
}

func linesOf(items []entity.TransferItem) []stock.Line {
	lines := make([]stock.Line, 0, len(items))
	for _, it := range items {
		lines = append(lines, stock.Line{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return lines
}
