package purchase_test

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-erp/internal/application/dto"
	"github.com/jhoicas/almacen-erp/internal/application/purchase"
	"github.com/jhoicas/almacen-erp/internal/application/stock"
	"github.com/jhoicas/almacen-erp/internal/domain"
	"github.com/jhoicas/almacen-erp/internal/domain/entity"
	"github.com/jhoicas/almacen-erp/internal/memrepo"
)

func newFixture(t *testing.T) (*purchase.UseCase, *memrepo.Store) {
	t.Helper()
	store := memrepo.New()
	store.SeedSupplier("S1")
	store.SeedWarehouse("W1")
	store.SeedProduct("P1")
	store.SeedProduct("P2")
	uc := purchase.NewUseCase(
		store.TxRunner(),
		store.Purchases,
		store.Products,
		store.Warehouses,
		store.Suppliers,
		store.Grns,
		stock.NewLedgerWriter(),
	)
	return uc, store
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func createRequest() dto.CreatePurchaseRequest {
	return dto.CreatePurchaseRequest{
		SupplierID:  "S1",
		WarehouseID: "W1",
		Items: []dto.PurchaseItemRequest{
			{ProductID: "P1", Quantity: 10, UnitPrice: dec("100"), Tax: dec("19"), Discount: dec("5")},
			{ProductID: "P2", Quantity: 3, UnitPrice: dec("250.50")},
		},
	}
}

func TestCreate_BorradorConTotales(t *testing.T) {
	uc, store := newFixture(t)

	out, err := uc.Create(context.Background(), "user-1", createRequest())
	require.NoError(t, err)

	assert.Equal(t, entity.PurchaseStatusDraft, out.Status)
	assert.True(t, strings.HasPrefix(out.InvoiceNumber, "INV-P-"), "número %q", out.InvoiceNumber)
	assert.Len(t, out.Items, 2)

	// 10×100 + 3×250.50 = 1751.50; total = subtotal - desc + imp
	assert.True(t, out.Subtotal.Equal(dec("1751.50")), "subtotal %s", out.Subtotal)
	assert.True(t, out.TaxAmount.Equal(dec("19")))
	assert.True(t, out.DiscountAmount.Equal(dec("5")))
	assert.True(t, out.TotalAmount.Equal(dec("1765.50")), "total %s", out.TotalAmount)

	// Crear no toca el inventario.
	assert.Empty(t, store.Ledger.Entries)
	s, err := store.Stocks.Get("P1", "W1")
	require.NoError(t, err)
	assert.Zero(t, s.Quantity)
}

func TestCreate_Validaciones(t *testing.T) {
	uc, _ := newFixture(t)
	ctx := context.Background()

	in := createRequest()
	in.SupplierID = ""
	_, err := uc.Create(ctx, "user-1", in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = createRequest()
	in.SupplierID = "no-existe"
	_, err = uc.Create(ctx, "user-1", in)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	in = createRequest()
	in.Items[0].Quantity = 0
	_, err = uc.Create(ctx, "user-1", in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = createRequest()
	in.Items[0].ProductID = "no-existe"
	_, err = uc.Create(ctx, "user-1", in)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	in = createRequest()
	in.Items = nil
	_, err = uc.Create(ctx, "user-1", in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_NumeracionAgotada(t *testing.T) {
	uc, store := newFixture(t)
	store.Purchases.TakenNumbers = func(string) bool { return true }

	_, err := uc.Create(context.Background(), "user-1", createRequest())
	assert.ErrorIs(t, err, domain.ErrDuplicateReference)
}

func TestReceive_EscribeEntradasAlPrecioDeLinea(t *testing.T) {
	uc, store := newFixture(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, "user-1", createRequest())
	require.NoError(t, err)

	out, err := uc.Receive(ctx, created.ID, "user-2")
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseStatusPending, out.Status)
	require.Len(t, out.Ledger, 2)

	// Un asiento de entrada por línea, al precio unitario de la línea.
	entries := store.Ledger.ByReference(created.ID)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, entity.DirectionIn, e.Direction)
		assert.Equal(t, entity.RefPurchase, e.ReferenceType)
		assert.Equal(t, created.InvoiceNumber, e.ReferenceNumber)
		assert.Equal(t, "user-2", e.CreatedBy)
	}

	s1, err := store.Stocks.Get("P1", "W1")
	require.NoError(t, err)
	assert.EqualValues(t, 10, s1.Quantity)
	assert.True(t, s1.AverageCost.Equal(dec("100")), "promedio %s", s1.AverageCost)
	assert.True(t, s1.TotalValue.Equal(dec("1000")))

	s2, err := store.Stocks.Get("P2", "W1")
	require.NoError(t, err)
	assert.EqualValues(t, 3, s2.Quantity)
	assert.True(t, s2.AverageCost.Equal(dec("250.5")))
}

func TestReceive_SoloDesdeBorrador(t *testing.T) {
	uc, _ := newFixture(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, "user-1", createRequest())
	require.NoError(t, err)
	_, err = uc.Receive(ctx, created.ID, "user-1")
	require.NoError(t, err)

	_, err = uc.Receive(ctx, created.ID, "user-1")
	var stateErr *domain.InvalidStateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, entity.PurchaseStatusPending, stateErr.CurrentState)
	assert.Equal(t, "receive", stateErr.Transition)
}

func TestReceive_NoExiste(t *testing.T) {
	uc, _ := newFixture(t)
	_, err := uc.Receive(context.Background(), "no-existe", "user-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdate_ReemplazaLineasEnBorrador(t *testing.T) {
	uc, _ := newFixture(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, "user-1", createRequest())
	require.NoError(t, err)

	out, err := uc.Update(ctx, created.ID, dto.UpdatePurchaseRequest{
		Items: []dto.PurchaseItemRequest{
			{ProductID: "P1", Quantity: 4, UnitPrice: dec("200")},
		},
	})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.True(t, out.Subtotal.Equal(dec("800")))
	assert.True(t, out.TotalAmount.Equal(dec("800")))

	got, err := uc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "P1", got.Items[0].ProductID)
}

func TestUpdate_RechazadoTrasRecibir(t *testing.T) {
	uc, _ := newFixture(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, "user-1", createRequest())
	require.NoError(t, err)
	_, err = uc.Receive(ctx, created.ID, "user-1")
	require.NoError(t, err)

	notes := "cambio tardío"
	_, err = uc.Update(ctx, created.ID, dto.UpdatePurchaseRequest{Notes: &notes})
	var stateErr *domain.InvalidStateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, "update", stateErr.Transition)
}

func TestCancel_SoloBorrador(t *testing.T) {
	uc, store := newFixture(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, "user-1", createRequest())
	require.NoError(t, err)

	out, err := uc.Cancel(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseStatusCancelled, out.Status)
	assert.Empty(t, store.Ledger.Entries)

	// Una compra recibida no se cancela, se compensa con devolución.
	received, err := uc.Create(ctx, "user-1", createRequest())
	require.NoError(t, err)
	_, err = uc.Receive(ctx, received.ID, "user-1")
	require.NoError(t, err)

	_, err = uc.Cancel(ctx, received.ID)
	var stateErr *domain.InvalidStateError
	assert.ErrorAs(t, err, &stateErr)
}

func TestDelete_SoloBorrador(t *testing.T) {
	uc, _ := newFixture(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, "user-1", createRequest())
	require.NoError(t, err)
	require.NoError(t, uc.Delete(ctx, created.ID))

	_, err = uc.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	received, err := uc.Create(ctx, "user-1", createRequest())
	require.NoError(t, err)
	_, err = uc.Receive(ctx, received.ID, "user-1")
	require.NoError(t, err)

	err = uc.Delete(ctx, received.ID)
	var stateErr *domain.InvalidStateError
	assert.ErrorAs(t, err, &stateErr)
}
