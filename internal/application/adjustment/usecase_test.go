package adjustment_test

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-erp/internal/application/adjustment"
	"github.com/jhoicas/almacen-erp/internal/application/dto"
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

func newFixture(t *testing.T) (*adjustment.UseCase, *memrepo.Store) {
	t.Helper()
	store := memrepo.New()
	store.SeedWarehouse("W1")
	store.SeedProduct("P1")
	store.SeedProduct("P2")

	uc := adjustment.NewUseCase(
		store.TxRunner(),
		store.Adjustments,
		store.Products,
		store.Warehouses,
		store.Stocks,
		stock.NewLedgerWriter(),
	)
	return uc, store
}

func seedAccount(store *memrepo.Store, productID string, qty int64, avg string) {
	avgDec := dec(avg)
	store.SeedStock(&entity.Stock{
		ProductID:   productID,
		WarehouseID: "W1",
		Quantity:    qty,
		AverageCost: avgDec,
		TotalValue:  avgDec.Mul(decimal.NewFromInt(qty)).Round(2),
	})
}

func increaseRequest(items ...dto.AdjustmentItemRequest) dto.CreateAdjustmentRequest {
	return dto.CreateAdjustmentRequest{
		WarehouseID: "W1",
		Type:        entity.AdjustmentTypeIncrease,
		Reason:      "conteo físico",
		Items:       items,
	}
}

func decreaseRequest(items ...dto.AdjustmentItemRequest) dto.CreateAdjustmentRequest {
	return dto.CreateAdjustmentRequest{
		WarehouseID: "W1",
		Type:        entity.AdjustmentTypeDecrease,
		Reason:      "merma",
		Items:       items,
	}
}

func TestCreate_Borrador(t *testing.T) {
	uc, store := newFixture(t)

	out, err := uc.Create(context.Background(), "user-1",
		increaseRequest(dto.AdjustmentItemRequest{ProductID: "P1", Quantity: 5, UnitCost: dec("100")}))
	require.NoError(t, err)

	assert.Equal(t, entity.AdjustmentStatusDraft, out.Status)
	assert.True(t, strings.HasPrefix(out.AdjustmentNumber, "ADJ-"), "número %q", out.AdjustmentNumber)
	assert.Equal(t, entity.AdjustmentTypeIncrease, out.Type)
	assert.Empty(t, store.Ledger.Entries)
}

func TestCreate_TipoInvalido(t *testing.T) {
	uc, _ := newFixture(t)

	in := increaseRequest(dto.AdjustmentItemRequest{ProductID: "P1", Quantity: 5})
	in.Type = "recount"
	_, err := uc.Create(context.Background(), "user-1", in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIncrease_EntraAlCostoDeLinea(t *testing.T) {
	uc, store := newFixture(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, "user-1",
		increaseRequest(dto.AdjustmentItemRequest{ProductID: "P1", Quantity: 5, UnitCost: dec("100")}))
	require.NoError(t, err)
	_, err = uc.Approve(ctx, created.ID, "jefe-1")
	require.NoError(t, err)

	out, err := uc.Complete(ctx, created.ID, "user-2")
	require.NoError(t, err)
	assert.Equal(t, entity.AdjustmentStatusCompleted, out.Status)
	require.Len(t, out.Ledger, 1)
	assert.Equal(t, entity.RefAdjustment, out.Ledger[0].ReferenceType)
	assert.True(t, out.Ledger[0].UnitCost.Equal(dec("100")))

	s, err := store.Stocks.Get("P1", "W1")
	require.NoError(t, err)
	assert.EqualValues(t, 5, s.Quantity)
	assert.True(t, s.AverageCost.Equal(dec("100")))
	assert.True(t, s.TotalValue.Equal(dec("500")))
}

func TestIncrease_SinCostoUsaElPromedio(t *testing.T) {
	uc, store := newFixture(t)
	ctx := context.Background()
	seedAccount(store, "P1", 10, "250")

	created, err := uc.Create(ctx, "user-1",
		increaseRequest(dto.AdjustmentItemRequest{ProductID: "P1", Quantity: 2}))
	require.NoError(t, err)
	_, err = uc.Approve(ctx, created.ID, "jefe-1")
	require.NoError(t, err)

	out, err := uc.Complete(ctx, created.ID, "user-1")
	require.NoError(t, err)
	require.Len(t, out.Ledger, 1)

	// Mercancía encontrada sin costo: entra al promedio actual para no
	// distorsionar la valuación.
	assert.True(t, out.Ledger[0].UnitCost.Equal(dec("250")), "costo %s", out.Ledger[0].UnitCost)

	s, err := store.Stocks.Get("P1", "W1")
	require.NoError(t, err)
	assert.EqualValues(t, 12, s.Quantity)
	assert.True(t, s.AverageCost.Equal(dec("250")))
	assert.True(t, s.TotalValue.Equal(dec("3000")))
}

func TestDecrease_SaleAlPromedio(t *testing.T) {
	uc, store := newFixture(t)
	ctx := context.Background()
	seedAccount(store, "P1", 10, "250")

	created, err := uc.Create(ctx, "user-1",
		decreaseRequest(dto.AdjustmentItemRequest{ProductID: "P1", Quantity: 4}))
	require.NoError(t, err)
	_, err = uc.Approve(ctx, created.ID, "jefe-1")
	require.NoError(t, err)

	out, err := uc.Complete(ctx, created.ID, "user-1")
	require.NoError(t, err)
	require.Len(t, out.Ledger, 1)
	e := out.Ledger[0]
	assert.Equal(t, entity.DirectionOut, e.Direction)
	assert.True(t, e.UnitCost.Equal(dec("250")))
	assert.True(t, e.TotalCost.Equal(dec("1000")))
	assert.EqualValues(t, 6, e.BalanceAfter)

	s, err := store.Stocks.Get("P1", "W1")
	require.NoError(t, err)
	assert.EqualValues(t, 6, s.Quantity)
	assert.True(t, s.TotalValue.Equal(dec("1500")))
}

func TestDecrease_ApproveValidaDisponibilidad(t *testing.T) {
	uc, store := newFixture(t)
	ctx := context.Background()
	seedAccount(store, "P1", 3, "100")

	created, err := uc.Create(ctx, "user-1",
		decreaseRequest(dto.AdjustmentItemRequest{ProductID: "P1", Quantity: 5}))
	require.NoError(t, err)

	_, err = uc.Approve(ctx, created.ID, "jefe-1")
	var insErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &insErr)
	assert.EqualValues(t, 3, insErr.Available)
	assert.Empty(t, store.Ledger.Entries)
}

func TestDecrease_TodoONada(t *testing.T) {
	uc, store := newFixture(t)
	ctx := context.Background()
	seedAccount(store, "P1", 10, "100")
	seedAccount(store, "P2", 8, "50")

	created, err := uc.Create(ctx, "user-1", decreaseRequest(
		dto.AdjustmentItemRequest{ProductID: "P1", Quantity: 2},
		dto.AdjustmentItemRequest{ProductID: "P2", Quantity: 6},
	))
	require.NoError(t, err)
	_, err = uc.Approve(ctx, created.ID, "jefe-1")
	require.NoError(t, err)

	// Entre aprobar y completar, la segunda cuenta perdió existencias.
	seedAccount(store, "P2", 4, "50")

	_, err = uc.Complete(ctx, created.ID, "user-1")
	var insErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &insErr)
	assert.Equal(t, "P2", insErr.ProductID)

	// Ninguna línea se aplicó, ni siquiera la que sí alcanzaba.
	assert.Empty(t, store.Ledger.Entries)
	s, err := store.Stocks.Get("P1", "W1")
	require.NoError(t, err)
	assert.EqualValues(t, 10, s.Quantity)

	got, err := uc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.AdjustmentStatusApproved, got.Status)
}

func TestComplete_SoloAprobado(t *testing.T) {
	uc, _ := newFixture(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, "user-1",
		increaseRequest(dto.AdjustmentItemRequest{ProductID: "P1", Quantity: 1, UnitCost: dec("10")}))
	require.NoError(t, err)

	_, err = uc.Complete(ctx, created.ID, "user-1")
	var stateErr *domain.InvalidStateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, entity.AdjustmentStatusDraft, stateErr.CurrentState)
	assert.Equal(t, "complete", stateErr.Transition)
}

func TestUpdate_SoloBorrador(t *testing.T) {
	uc, _ := newFixture(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, "user-1",
		increaseRequest(dto.AdjustmentItemRequest{ProductID: "P1", Quantity: 5, UnitCost: dec("100")}))
	require.NoError(t, err)

	out, err := uc.Update(ctx, created.ID, dto.UpdateAdjustmentRequest{
		Items: []dto.AdjustmentItemRequest{
			{ProductID: "P2", Quantity: 3, UnitCost: dec("80")},
		},
	})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "P2", out.Items[0].ProductID)

	_, err = uc.Approve(ctx, created.ID, "jefe-1")
	require.NoError(t, err)

	reason := "otro motivo"
	_, err = uc.Update(ctx, created.ID, dto.UpdateAdjustmentRequest{Reason: &reason})
	var stateErr *domain.InvalidStateError
	assert.ErrorAs(t, err, &stateErr)
}

func TestCancel_AntesDeCompletar(t *testing.T) {
	uc, _ := newFixture(t)
	ctx := context.Background()

	draft, err := uc.Create(ctx, "user-1",
		increaseRequest(dto.AdjustmentItemRequest{ProductID: "P1", Quantity: 1, UnitCost: dec("10")}))
	require.NoError(t, err)
	out, err := uc.Cancel(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.AdjustmentStatusCancelled, out.Status)

	completed, err := uc.Create(ctx, "user-1",
		increaseRequest(dto.AdjustmentItemRequest{ProductID: "P1", Quantity: 1, UnitCost: dec("10")}))
	require.NoError(t, err)
	_, err = uc.Approve(ctx, completed.ID, "jefe-1")
	require.NoError(t, err)
	_, err = uc.Complete(ctx, completed.ID, "user-1")
	require.NoError(t, err)

	_, err = uc.Cancel(ctx, completed.ID)
	var stateErr *domain.InvalidStateError
	assert.ErrorAs(t, err, &stateErr)
}
