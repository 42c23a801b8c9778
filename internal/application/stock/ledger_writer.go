package stock

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-erp/internal/domain"
	"github.com/jhoicas/almacen-erp/internal/domain/costing"
	"github.com/jhoicas/almacen-erp/internal/domain/entity"
	"github.com/jhoicas/almacen-erp/internal/domain/repository"
)

// RecordInput entrada para registrar un movimiento en el libro.
// UnitCost es obligatorio en entradas; en salidas se ignora porque el costo
// siempre es el promedio actual de la cuenta (promedio ponderado).
type RecordInput struct {
	ProductID       string
	WarehouseID     string
	Direction       string // entity.DirectionIn | entity.DirectionOut
	ReferenceType   string
	ReferenceID     string
	ReferenceNumber string
	Quantity        int64
	UnitCost        decimal.Decimal
	Notes           string
	ActorID         string
	TransactionDate time.Time
}

// LedgerWriter registra movimientos contra una cuenta de existencias:
// bloquea la fila, aplica la política de costeo, actualiza la cuenta y
// agrega exactamente un asiento inmutable, todo dentro de la transacción
// del caller. Una escritura parcial (cuenta sin asiento o viceversa) es
// imposible mientras el caller use TxRunner.
type LedgerWriter struct{}

// NewLedgerWriter construye el escritor.
func NewLedgerWriter() *LedgerWriter { return &LedgerWriter{} }

// Record muta la cuenta y escribe el asiento. En salidas revalida la
// disponibilidad aunque el caller ya haya pasado por AvailabilityGuard
// (defensa en profundidad). BalanceAfter del asiento es la cantidad de la
// cuenta inmediatamente después de esta llamada.
func (w *LedgerWriter) Record(stockRepo repository.StockRepository, ledgerRepo repository.StockLedgerRepository, in RecordInput) (*entity.StockLedger, error) {
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	s, err := stockRepo.GetForUpdate(in.ProductID, in.WarehouseID)
	if err != nil {
		return nil, err
	}
	entry, err := w.recordOn(s, stockRepo, ledgerRepo, in)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// RecordOnLocked registra el movimiento sobre una cuenta ya bloqueada por
// LockAndCheckAvailability, evitando releer la fila en transiciones
// multi-línea.
func (w *LedgerWriter) RecordOnLocked(s *entity.Stock, stockRepo repository.StockRepository, ledgerRepo repository.StockLedgerRepository, in RecordInput) (*entity.StockLedger, error) {
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	return w.recordOn(s, stockRepo, ledgerRepo, in)
}

func (w *LedgerWriter) recordOn(s *entity.Stock, stockRepo repository.StockRepository, ledgerRepo repository.StockLedgerRepository, in RecordInput) (*entity.StockLedger, error) {
	var unitCost, totalCost decimal.Decimal
	var err error

	switch in.Direction {
	case entity.DirectionIn:
		unitCost, totalCost, err = costing.ApplyInbound(s, in.Quantity, in.UnitCost)
	case entity.DirectionOut:
		unitCost, totalCost, err = costing.ApplyOutbound(s, in.Quantity)
	default:
		return nil, domain.ErrInvalidInput
	}
	if err != nil {
		return nil, err
	}

	s.UpdatedAt = time.Now()
	if err := stockRepo.Upsert(s); err != nil {
		return nil, err
	}

	entry := &entity.StockLedger{
		ID:              uuid.New().String(),
		ProductID:       in.ProductID,
		WarehouseID:     in.WarehouseID,
		Direction:       in.Direction,
		ReferenceType:   in.ReferenceType,
		ReferenceID:     in.ReferenceID,
		ReferenceNumber: in.ReferenceNumber,
		Quantity:        in.Quantity,
		UnitCost:        unitCost,
		TotalCost:       totalCost,
		BalanceAfter:    s.Quantity,
		Notes:           in.Notes,
		CreatedBy:       in.ActorID,
		TransactionDate: in.TransactionDate,
		CreatedAt:       time.Now(),
	}
	if err := ledgerRepo.Create(entry); err != nil {
		return nil, err
	}
	return entry, nil
}
