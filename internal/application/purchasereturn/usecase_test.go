package purchasereturn_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-erp/internal/application/dto"
	"github.com/jhoicas/almacen-erp/internal/application/purchasereturn"
	"github.com/jhoicas/almacen-erp/internal/application/stock"
	"github.com/jhoicas/almacen-erp/internal/domain"
	"github.com/jhoicas/almacen-erp/internal/domain/entity"
	"github.com/jhoicas/almacen-erp/internal/memrepo"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// newFixture siembra una compra ya recibida (P1 x10 a 250) con su stock.
func newFixture(t *testing.T) (*purchasereturn.UseCase, *memrepo.Store) {
	t.Helper()
	store := memrepo.New()
	store.SeedSupplier("S1")
	store.SeedWarehouse("W1")
	store.SeedProduct("P1")

	require.NoError(t, store.Purchases.Create(&entity.Purchase{
		ID:            "compra-1",
		InvoiceNumber: "INV-P-AAA111",
		SupplierID:    "S1",
		WarehouseID:   "W1",
		InvoiceDate:   time.Now(),
		Status:        entity.PurchaseStatusPending,
		Items: []entity.PurchaseItem{
			{ID: "li-1", PurchaseID: "compra-1", ProductID: "P1", Quantity: 10, UnitPrice: dec("250")},
		},
	}))
	store.SeedStock(&entity.Stock{
		ProductID:   "P1",
		WarehouseID: "W1",
		Quantity:    10,
		AverageCost: dec("250"),
		TotalValue:  dec("2500"),
	})

	uc := purchasereturn.NewUseCase(
		store.TxRunner(),
		store.Returns,
		store.Purchases,
		store.Products,
		store.Stocks,
		stock.NewLedgerWriter(),
	)
	return uc, store
}

func createRequest(qty int64) dto.CreatePurchaseReturnRequest {
	return dto.CreatePurchaseReturnRequest{
		PurchaseID: "compra-1",
		Reason:     "mercancía defectuosa",
		Items: []dto.PurchaseReturnItemRequest{
			{ProductID: "P1", Quantity: qty, UnitPrice: dec("250")},
		},
	}
}

func TestCreate_HeredaProveedorYBodega(t *testing.T) {
	uc, _ := newFixture(t)

	out, err := uc.Create(context.Background(), "user-1", createRequest(4))
	require.NoError(t, err)

	assert.Equal(t, entity.PurchaseReturnStatusDraft, out.Status)
	assert.True(t, strings.HasPrefix(out.ReturnNumber, "PRET-"), "número %q", out.ReturnNumber)
	assert.Equal(t, "S1", out.SupplierID)
	assert.Equal(t, "W1", out.WarehouseID)
	assert.True(t, out.TotalAmount.Equal(dec("1000")))
}

func TestCreate_SoloContraCompraRecibida(t *testing.T) {
	uc, store := newFixture(t)
	ctx := context.Background()

	require.NoError(t, store.Purchases.Create(&entity.Purchase{
		ID:          "compra-draft",
		SupplierID:  "S1",
		WarehouseID: "W1",
		Status:      entity.PurchaseStatusDraft,
		Items:       []entity.PurchaseItem{{ProductID: "P1", Quantity: 1, UnitPrice: dec("10")}},
	}))

	in := createRequest(1)
	in.PurchaseID = "compra-draft"
	_, err := uc.Create(ctx, "user-1", in)
	var stateErr *domain.InvalidStateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, "return", stateErr.Transition)

	in.PurchaseID = "no-existe"
	_, err = uc.Create(ctx, "user-1", in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApprove_ValidaDisponibilidadSinEscribir(t *testing.T) {
	uc, store := newFixture(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, "user-1", createRequest(4))
	require.NoError(t, err)

	out, err := uc.Approve(ctx, created.ID, "jefe-1")
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseReturnStatusApproved, out.Status)
	assert.Equal(t, "jefe-1", out.ApprovedBy)

	// Aprobar no escribe asientos ni muta existencias.
	assert.Empty(t, store.Ledger.Entries)
	s, err := store.Stocks.Get("P1", "W1")
	require.NoError(t, err)
	assert.EqualValues(t, 10, s.Quantity)
}

func TestApprove_InsuficienteRechaza(t *testing.T) {
	uc, _ := newFixture(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, "user-1", createRequest(15))
	require.NoError(t, err)

	_, err = uc.Approve(ctx, created.ID, "jefe-1")
	var insErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &insErr)
	assert.EqualValues(t, 15, insErr.Requested)
	assert.EqualValues(t, 10, insErr.Available)
}

func TestComplete_SalidaAlCostoPromedio(t *testing.T) {
	uc, store := newFixture(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, "user-1", createRequest(4))
	require.NoError(t, err)
	_, err = uc.Approve(ctx, created.ID, "jefe-1")
	require.NoError(t, err)

	out, err := uc.Complete(ctx, created.ID, "user-2")
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseReturnStatusCompleted, out.Status)
	require.Len(t, out.Ledger, 1)

	// La salida se valora al promedio de la cuenta, no al precio de la línea.
	e := out.Ledger[0]
	assert.Equal(t, entity.DirectionOut, e.Direction)
	assert.Equal(t, entity.RefPurchaseReturn, e.ReferenceType)
	assert.True(t, e.UnitCost.Equal(dec("250")), "costo %s", e.UnitCost)
	assert.True(t, e.TotalCost.Equal(dec("1000")))
	assert.EqualValues(t, 6, e.BalanceAfter)

	s, err := store.Stocks.Get("P1", "W1")
	require.NoError(t, err)
	assert.EqualValues(t, 6, s.Quantity)
	assert.True(t, s.TotalValue.Equal(dec("1500")))
	assert.True(t, s.AverageCost.Equal(dec("250")))
}

func TestComplete_SoloDesdeAprobada(t *testing.T) {
	uc, _ := newFixture(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, "user-1", createRequest(4))
	require.NoError(t, err)

	_, err = uc.Complete(ctx, created.ID, "user-1")
	var stateErr *domain.InvalidStateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, entity.PurchaseReturnStatusDraft, stateErr.CurrentState)
	assert.Equal(t, "complete", stateErr.Transition)
}

func TestComplete_RevalidaBajoBloqueo(t *testing.T) {
	uc, store := newFixture(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, "user-1", createRequest(8))
	require.NoError(t, err)
	_, err = uc.Approve(ctx, created.ID, "jefe-1")
	require.NoError(t, err)

	// Entre aprobar y completar, otro movimiento drenó la cuenta.
	store.SeedStock(&entity.Stock{
		ProductID:   "P1",
		WarehouseID: "W1",
		Quantity:    5,
		AverageCost: dec("250"),
		TotalValue:  dec("1250"),
	})

	_, err = uc.Complete(ctx, created.ID, "user-1")
	var insErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &insErr)
	assert.EqualValues(t, 5, insErr.Available)

	// Nada se escribió y el documento sigue aprobado.
	assert.Empty(t, store.Ledger.Entries)
	got, err := uc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseReturnStatusApproved, got.Status)
}

func TestCancel_AntesDeCompletar(t *testing.T) {
	uc, _ := newFixture(t)
	ctx := context.Background()

	draft, err := uc.Create(ctx, "user-1", createRequest(2))
	require.NoError(t, err)
	out, err := uc.Cancel(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseReturnStatusCancelled, out.Status)

	approved, err := uc.Create(ctx, "user-1", createRequest(2))
	require.NoError(t, err)
	_, err = uc.Approve(ctx, approved.ID, "jefe-1")
	require.NoError(t, err)
	out, err = uc.Cancel(ctx, approved.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseReturnStatusCancelled, out.Status)

	completed, err := uc.Create(ctx, "user-1", createRequest(2))
	require.NoError(t, err)
	_, err = uc.Approve(ctx, completed.ID, "jefe-1")
	require.NoError(t, err)
	_, err = uc.Complete(ctx, completed.ID, "user-1")
	require.NoError(t, err)

	_, err = uc.Cancel(ctx, completed.ID)
	var stateErr *domain.InvalidStateError
	assert.ErrorAs(t, err, &stateErr)
}

func TestUpdate_SoloBorrador(t *testing.T) {
	uc, _ := newFixture(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, "user-1", createRequest(4))
	require.NoError(t, err)

	out, err := uc.Update(ctx, created.ID, dto.UpdatePurchaseReturnRequest{
		Items: []dto.PurchaseReturnItemRequest{
			{ProductID: "P1", Quantity: 2, UnitPrice: dec("300")},
		},
	})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.True(t, out.TotalAmount.Equal(dec("600")))

	_, err = uc.Approve(ctx, created.ID, "jefe-1")
	require.NoError(t, err)

	reason := "otro motivo"
	_, err = uc.Update(ctx, created.ID, dto.UpdatePurchaseReturnRequest{Reason: &reason})
	var stateErr *domain.InvalidStateError
	assert.ErrorAs(t, err, &stateErr)
}
