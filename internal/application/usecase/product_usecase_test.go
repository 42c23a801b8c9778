package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-erp/internal/application/dto"
	"github.com/jhoicas/almacen-erp/internal/application/stock"
	"github.com/jhoicas/almacen-erp/internal/application/usecase"
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

func newProductFixture(t *testing.T) (*usecase.ProductUseCase, *memrepo.Store) {
	t.Helper()
	store := memrepo.New()
	store.SeedWarehouse("W1")
	require.NoError(t, store.Categories.Create(&entity.Category{ID: "C1", Name: "Repuestos"}))
	uc := usecase.NewProductUseCase(
		store.Products,
		store.Categories,
		store.Warehouses,
		store.TxRunner(),
		stock.NewLedgerWriter(),
	)
	return uc, store
}

func TestProductCreate_SinStockInicial(t *testing.T) {
	uc, store := newProductFixture(t)

	out, err := uc.Create(context.Background(), "user-1", dto.CreateProductRequest{
		SKU:        "FIL-001",
		Name:       "Filtro de aceite",
		CategoryID: "C1",
		Price:      dec("45000"),
	})
	require.NoError(t, err)
	assert.Equal(t, "FIL-001", out.SKU)
	assert.True(t, out.IsActive)
	// Sin unidad explícita aplica el código UN/ECE de unidad.
	assert.Equal(t, "94", out.UnitMeasure)
	assert.Empty(t, store.Ledger.Entries)
}

func TestProductCreate_ConStockInicial(t *testing.T) {
	uc, store := newProductFixture(t)

	out, err := uc.Create(context.Background(), "user-1", dto.CreateProductRequest{
		SKU:  "FIL-002",
		Name: "Filtro de aire",
		OpeningStock: &dto.OpeningStockRequest{
			WarehouseID: "W1",
			Quantity:    20,
			UnitCost:    dec("15000"),
		},
	})
	require.NoError(t, err)

	// El asiento inicial queda en el libro con el SKU como número de referencia.
	require.Len(t, store.Ledger.Entries, 1)
	e := store.Ledger.Entries[0]
	assert.Equal(t, entity.RefOpeningStock, e.ReferenceType)
	assert.Equal(t, out.ID, e.ReferenceID)
	assert.Equal(t, "FIL-002", e.ReferenceNumber)
	assert.Equal(t, entity.DirectionIn, e.Direction)
	assert.EqualValues(t, 20, e.BalanceAfter)

	s, err := store.Stocks.Get(out.ID, "W1")
	require.NoError(t, err)
	assert.EqualValues(t, 20, s.Quantity)
	assert.True(t, s.AverageCost.Equal(dec("15000")))
	assert.True(t, s.TotalValue.Equal(dec("300000")))
}

func TestProductCreate_StockInicialInvalido(t *testing.T) {
	uc, store := newProductFixture(t)
	ctx := context.Background()

	_, err := uc.Create(ctx, "user-1", dto.CreateProductRequest{
		SKU:          "FIL-003",
		Name:         "Filtro",
		OpeningStock: &dto.OpeningStockRequest{WarehouseID: "W1", Quantity: 0},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, "user-1", dto.CreateProductRequest{
		SKU:          "FIL-003",
		Name:         "Filtro",
		OpeningStock: &dto.OpeningStockRequest{WarehouseID: "no-existe", Quantity: 5, UnitCost: dec("10")},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Nada quedó a medias: ni producto ni asiento.
	p, err := store.Products.GetBySKU("FIL-003")
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.Empty(t, store.Ledger.Entries)
}

func TestProductCreate_SKUDuplicado(t *testing.T) {
	uc, _ := newProductFixture(t)
	ctx := context.Background()

	_, err := uc.Create(ctx, "user-1", dto.CreateProductRequest{SKU: "DUP-1", Name: "Uno"})
	require.NoError(t, err)

	_, err = uc.Create(ctx, "user-1", dto.CreateProductRequest{SKU: "DUP-1", Name: "Dos"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestProductCreate_CategoriaInexistente(t *testing.T) {
	uc, _ := newProductFixture(t)

	_, err := uc.Create(context.Background(), "user-1", dto.CreateProductRequest{
		SKU:        "CAT-X",
		Name:       "Producto",
		CategoryID: "no-existe",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductUpdate_CamposParciales(t *testing.T) {
	uc, _ := newProductFixture(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, "user-1", dto.CreateProductRequest{SKU: "UPD-1", Name: "Original", Price: dec("100")})
	require.NoError(t, err)

	name := "Renombrado"
	inactive := false
	out, err := uc.Update(ctx, created.ID, dto.UpdateProductRequest{Name: &name, IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, "Renombrado", out.Name)
	assert.False(t, out.IsActive)
	// El precio no cambia si no viene en el request.
	assert.True(t, out.Price.Equal(dec("100")))
}

func TestProductDelete_NoExiste(t *testing.T) {
	uc, _ := newProductFixture(t)
	err := uc.Delete(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
