package transfer_test

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-erp/internal/application/dto"
	"github.com/jhoicas/almacen-erp/internal/application/stock"
	"github.com/jhoicas/almacen-erp/internal/application/transfer"
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

// newFixture siembra dos bodegas y existencias de P1 en el origen:
// 10 unidades al promedio 250 (valor 2500).
func newFixture(t *testing.T) (*transfer.UseCase, *memrepo.Store) {
	t.Helper()
	store := memrepo.New()
	store.SeedWarehouse("W1")
	store.SeedWarehouse("W2")
	store.SeedProduct("P1")
	store.SeedStock(&entity.Stock{
		ProductID:   "P1",
		WarehouseID: "W1",
		Quantity:    10,
		AverageCost: dec("250"),
		TotalValue:  dec("2500"),
	})

	uc := transfer.NewUseCase(
		store.TxRunner(),
		store.Transfers,
		store.Products,
		store.Warehouses,
		store.Stocks,
		stock.NewLedgerWriter(),
	)
	return uc, store
}

func createRequest(qty int64) dto.CreateTransferRequest {
	return dto.CreateTransferRequest{
		FromWarehouseID: "W1",
		ToWarehouseID:   "W2",
		Items: []dto.TransferItemRequest{
			{ProductID: "P1", Quantity: qty},
		},
	}
}

func TestCreate_Pendiente(t *testing.T) {
	uc, store := newFixture(t)

	out, err := uc.Create(context.Background(), "user-1", createRequest(4))
	require.NoError(t, err)

	assert.Equal(t, entity.TransferStatusPending, out.Status)
	assert.True(t, strings.HasPrefix(out.TransferNumber, "TRF-"), "número %q", out.TransferNumber)
	assert.Equal(t, "user-1", out.RequestedBy)
	assert.Empty(t, store.Ledger.Entries)
}

func TestCreate_Validaciones(t *testing.T) {
	uc, _ := newFixture(t)
	ctx := context.Background()

	in := createRequest(4)
	in.ToWarehouseID = "W1" // origen == destino
	_, err := uc.Create(ctx, "user-1", in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = createRequest(4)
	in.ToWarehouseID = "no-existe"
	_, err = uc.Create(ctx, "user-1", in)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	in = createRequest(0)
	_, err = uc.Create(ctx, "user-1", in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestApprove_ValidaOrigen(t *testing.T) {
	uc, _ := newFixture(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, "user-1", createRequest(4))
	require.NoError(t, err)

	out, err := uc.Approve(ctx, created.ID, "jefe-1")
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusApproved, out.Status)
	assert.Equal(t, "jefe-1", out.ApprovedBy)

	big, err := uc.Create(ctx, "user-1", createRequest(99))
	require.NoError(t, err)
	_, err = uc.Approve(ctx, big.ID, "jefe-1")
	var insErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &insErr)
	assert.EqualValues(t, 10, insErr.Available)
}

func TestReceive_MueveValorEntreBodegas(t *testing.T) {
	uc, store := newFixture(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, "user-1", createRequest(4))
	require.NoError(t, err)
	_, err = uc.Approve(ctx, created.ID, "jefe-1")
	require.NoError(t, err)

	out, err := uc.Receive(ctx, created.ID, "bodeguero-2")
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusCompleted, out.Status)
	assert.Equal(t, "bodeguero-2", out.ReceivedBy)

	// Un par de asientos por línea: salida en origen, entrada en destino.
	require.Len(t, out.Ledger, 2)
	outEntry, inEntry := out.Ledger[0], out.Ledger[1]

	assert.Equal(t, entity.DirectionOut, outEntry.Direction)
	assert.Equal(t, entity.RefTransferOut, outEntry.ReferenceType)
	assert.Equal(t, "W1", outEntry.WarehouseID)
	assert.True(t, outEntry.UnitCost.Equal(dec("250")))
	assert.EqualValues(t, 6, outEntry.BalanceAfter)

	assert.Equal(t, entity.DirectionIn, inEntry.Direction)
	assert.Equal(t, entity.RefTransferIn, inEntry.ReferenceType)
	assert.Equal(t, "W2", inEntry.WarehouseID)
	// La entrada al destino lleva el promedio que el origen tenía bajo bloqueo.
	assert.True(t, inEntry.UnitCost.Equal(dec("250")))
	assert.EqualValues(t, 4, inEntry.BalanceAfter)

	src, err := store.Stocks.Get("P1", "W1")
	require.NoError(t, err)
	dst, err := store.Stocks.Get("P1", "W2")
	require.NoError(t, err)
	assert.EqualValues(t, 6, src.Quantity)
	assert.EqualValues(t, 4, dst.Quantity)
	assert.True(t, dst.AverageCost.Equal(dec("250")))

	// El valor sale de una cuenta y entra a la otra sin crearse ni destruirse.
	assert.True(t, src.TotalValue.Add(dst.TotalValue).Equal(dec("2500")),
		"valor total %s + %s", src.TotalValue, dst.TotalValue)
}

func TestReceive_SoloAprobado(t *testing.T) {
	uc, store := newFixture(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, "user-1", createRequest(4))
	require.NoError(t, err)

	_, err = uc.Receive(ctx, created.ID, "user-1")
	var stateErr *domain.InvalidStateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, entity.TransferStatusPending, stateErr.CurrentState)
	assert.Equal(t, "receive", stateErr.Transition)
	assert.Empty(t, store.Ledger.Entries)
}

func TestReceive_RevalidaBajoBloqueo(t *testing.T) {
	uc, store := newFixture(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, "user-1", createRequest(8))
	require.NoError(t, err)
	_, err = uc.Approve(ctx, created.ID, "jefe-1")
	require.NoError(t, err)

	// El origen perdió existencias después de la aprobación.
	store.SeedStock(&entity.Stock{
		ProductID:   "P1",
		WarehouseID: "W1",
		Quantity:    3,
		AverageCost: dec("250"),
		TotalValue:  dec("750"),
	})

	_, err = uc.Receive(ctx, created.ID, "user-1")
	var insErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &insErr)
	assert.Empty(t, store.Ledger.Entries)

	got, err := uc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusApproved, got.Status)
}

func TestUpdate_SoloPendiente(t *testing.T) {
	uc, _ := newFixture(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, "user-1", createRequest(4))
	require.NoError(t, err)

	out, err := uc.Update(ctx, created.ID, dto.UpdateTransferRequest{
		Items: []dto.TransferItemRequest{
			{ProductID: "P1", Quantity: 2, SerialNumbers: []string{"SN-1", "SN-2"}},
		},
	})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.EqualValues(t, 2, out.Items[0].Quantity)

	_, err = uc.Approve(ctx, created.ID, "jefe-1")
	require.NoError(t, err)

	notes := "cambio tardío"
	_, err = uc.Update(ctx, created.ID, dto.UpdateTransferRequest{Notes: &notes})
	var stateErr *domain.InvalidStateError
	assert.ErrorAs(t, err, &stateErr)
}

func TestCancel_AntesDeRecibir(t *testing.T) {
	uc, _ := newFixture(t)
	ctx := context.Background()

	pending, err := uc.Create(ctx, "user-1", createRequest(2))
	require.NoError(t, err)
	out, err := uc.Cancel(ctx, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusCancelled, out.Status)

	approved, err := uc.Create(ctx, "user-1", createRequest(2))
	require.NoError(t, err)
	_, err = uc.Approve(ctx, approved.ID, "jefe-1")
	require.NoError(t, err)
	out, err = uc.Cancel(ctx, approved.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusCancelled, out.Status)

	completed, err := uc.Create(ctx, "user-1", createRequest(2))
	require.NoError(t, err)
	_, err = uc.Approve(ctx, completed.ID, "jefe-1")
	require.NoError(t, err)
	_, err = uc.Receive(ctx, completed.ID, "user-1")
	require.NoError(t, err)

	_, err = uc.Cancel(ctx, completed.ID)
	var stateErr *domain.InvalidStateError
	assert.ErrorAs(t, err, &stateErr)
}

func TestDelete_SoloPendiente(t *testing.T) {
	uc, _ := newFixture(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, "user-1", createRequest(2))
	require.NoError(t, err)
	require.NoError(t, uc.Delete(ctx, created.ID))

	_, err = uc.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
