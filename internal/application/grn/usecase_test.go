package grn_test

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-erp/internal/application/dto"
	"github.com/jhoicas/almacen-erp/internal/application/grn"
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

func newFixture(t *testing.T) (*grn.UseCase, *memrepo.Store) {
	t.Helper()
	store := memrepo.New()
	store.SeedWarehouse("W1")
	store.SeedProduct("P1")
	uc := grn.NewUseCase(store.Grns, store.Products, store.Warehouses)
	return uc, store
}

func createRequest() dto.CreateGrnRequest {
	return dto.CreateGrnRequest{
		WarehouseID: "W1",
		Items: []dto.GrnItemRequest{
			{ProductID: "P1", OrderedQuantity: 10, ReceivedQuantity: 8, UnitPrice: dec("120"), SerialNumbers: []string{"SN-1", "SN-2"}},
		},
	}
}

func TestCreate_Borrador(t *testing.T) {
	uc, _ := newFixture(t)

	out, err := uc.Create(context.Background(), "bodeguero-1", createRequest())
	require.NoError(t, err)

	assert.Equal(t, entity.GrnStatusDraft, out.Status)
	assert.True(t, strings.HasPrefix(out.GrnNumber, "GRN-"), "número %q", out.GrnNumber)
	assert.Equal(t, "bodeguero-1", out.ReceivedBy)
	require.Len(t, out.Items, 1)
	assert.EqualValues(t, 8, out.Items[0].ReceivedQuantity)
	// Total = recibido × precio, no pedido × precio.
	assert.True(t, out.Items[0].Total.Equal(dec("960")), "total %s", out.Items[0].Total)
}

func TestCreate_RecibidoCeroEsValido(t *testing.T) {
	uc, _ := newFixture(t)

	in := createRequest()
	in.Items[0].ReceivedQuantity = 0
	out, err := uc.Create(context.Background(), "bodeguero-1", in)
	require.NoError(t, err)
	assert.True(t, out.Items[0].Total.IsZero())
}

func TestCreate_Validaciones(t *testing.T) {
	uc, _ := newFixture(t)
	ctx := context.Background()

	in := createRequest()
	in.Items[0].OrderedQuantity = 0
	_, err := uc.Create(ctx, "u", in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = createRequest()
	in.Items[0].ReceivedQuantity = -1
	_, err = uc.Create(ctx, "u", in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = createRequest()
	in.Items[0].ProductID = "no-existe"
	_, err = uc.Create(ctx, "u", in)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	in = createRequest()
	in.WarehouseID = "no-existe"
	_, err = uc.Create(ctx, "u", in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVerify_MarcaVerificado(t *testing.T) {
	uc, store := newFixture(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, "bodeguero-1", createRequest())
	require.NoError(t, err)

	out, err := uc.Verify(ctx, created.ID, "supervisor-1")
	require.NoError(t, err)
	assert.Equal(t, entity.GrnStatusVerified, out.Status)
	assert.Equal(t, "supervisor-1", out.VerifiedBy)

	// El GRN documenta la recepción pero nunca muta inventario.
	assert.Empty(t, store.Ledger.Entries)
	s, err := store.Stocks.Get("P1", "W1")
	require.NoError(t, err)
	assert.Zero(t, s.Quantity)

	_, err = uc.Verify(ctx, created.ID, "supervisor-1")
	var stateErr *domain.InvalidStateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, entity.GrnStatusVerified, stateErr.CurrentState)
}

func TestUpdate_SoloBorrador(t *testing.T) {
	uc, _ := newFixture(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, "bodeguero-1", createRequest())
	require.NoError(t, err)

	out, err := uc.Update(ctx, created.ID, dto.UpdateGrnRequest{
		Items: []dto.GrnItemRequest{
			{ProductID: "P1", OrderedQuantity: 10, ReceivedQuantity: 10, UnitPrice: dec("120")},
		},
	})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.EqualValues(t, 10, out.Items[0].ReceivedQuantity)

	_, err = uc.Verify(ctx, created.ID, "supervisor-1")
	require.NoError(t, err)

	notes := "cambio tardío"
	_, err = uc.Update(ctx, created.ID, dto.UpdateGrnRequest{Notes: &notes})
	var stateErr *domain.InvalidStateError
	assert.ErrorAs(t, err, &stateErr)
}

func TestCancel_SoloBorrador(t *testing.T) {
	uc, _ := newFixture(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, "bodeguero-1", createRequest())
	require.NoError(t, err)
	out, err := uc.Cancel(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.GrnStatusCancelled, out.Status)

	verified, err := uc.Create(ctx, "bodeguero-1", createRequest())
	require.NoError(t, err)
	_, err = uc.Verify(ctx, verified.ID, "supervisor-1")
	require.NoError(t, err)

	_, err = uc.Cancel(ctx, verified.ID)
	var stateErr *domain.InvalidStateError
	assert.ErrorAs(t, err, &stateErr)
}

func TestDelete_SoloBorrador(t *testing.T) {
	uc, _ := newFixture(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, "bodeguero-1", createRequest())
	require.NoError(t, err)
	require.NoError(t, uc.Delete(ctx, created.ID))

	_, err = uc.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNumeracionAgotada(t *testing.T) {
	uc, store := newFixture(t)
	store.Grns.TakenNumbers = func(string) bool { return true }

	_, err := uc.Create(context.Background(), "u", createRequest())
	assert.ErrorIs(t, err, domain.ErrDuplicateReference)
}
