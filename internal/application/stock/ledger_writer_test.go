package stock_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-erp/internal/application/stock"
	"github.com/jhoicas/almacen-erp/internal/domain"
	"github.com/jhoicas/almacen-erp/internal/domain/entity"
	"github.com/jhoicas/almacen-erp/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeStockRepo struct {
	accounts map[string]*entity.Stock
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{accounts: make(map[string]*entity.Stock)}
}

func key(productID, warehouseID string) string { return productID + "|" + warehouseID }

func (r *fakeStockRepo) Get(productID, warehouseID string) (*entity.Stock, error) {
	if s, ok := r.accounts[key(productID, warehouseID)]; ok {
		cp := *s
		return &cp, nil
	}
	return entity.NewStock(productID, warehouseID), nil
}

func (r *fakeStockRepo) GetForUpdate(productID, warehouseID string) (*entity.Stock, error) {
	return r.Get(productID, warehouseID)
}

func (r *fakeStockRepo) Upsert(s *entity.Stock) error {
	cp := *s
	r.accounts[key(s.ProductID, s.WarehouseID)] = &cp
	return nil
}

func (r *fakeStockRepo) List(f repository.StockFilter, limit, offset int) ([]*entity.Stock, error) {
	var out []*entity.Stock
	for _, s := range r.accounts {
		if f.ProductID != "" && s.ProductID != f.ProductID {
			continue
		}
		if f.WarehouseID != "" && s.WarehouseID != f.WarehouseID {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

type fakeLedgerRepo struct {
	entries []*entity.StockLedger
	failOn  int // si > 0, Create falla en el asiento n-ésimo (1-based)
}

func (r *fakeLedgerRepo) Create(e *entity.StockLedger) error {
	if r.failOn > 0 && len(r.entries)+1 == r.failOn {
		return errors.New("fallo simulado de inserción")
	}
	cp := *e
	r.entries = append(r.entries, &cp)
	return nil
}

func (r *fakeLedgerRepo) GetByID(id string) (*entity.StockLedger, error) {
	for _, e := range r.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, nil
}

func (r *fakeLedgerRepo) List(f repository.StockLedgerFilter, limit, offset int) ([]*entity.StockLedger, error) {
	return r.entries, nil
}

func (r *fakeLedgerRepo) ListByAccount(productID, warehouseID string) ([]*entity.StockLedger, error) {
	var out []*entity.StockLedger
	for _, e := range r.entries {
		if e.ProductID == productID && e.WarehouseID == warehouseID {
			out = append(out, e)
		}
	}
	return out, nil
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func inbound(productID string, qty int64, cost string) stock.RecordInput {
	return stock.RecordInput{
		ProductID:       productID,
		WarehouseID:     "W1",
		Direction:       entity.DirectionIn,
		ReferenceType:   entity.RefPurchase,
		ReferenceID:     "doc-1",
		ReferenceNumber: "INV-P-ABC123",
		Quantity:        qty,
		UnitCost:        dec(cost),
		ActorID:         "user-1",
		TransactionDate: time.Now(),
	}
}

func outbound(productID string, qty int64) stock.RecordInput {
	return stock.RecordInput{
		ProductID:       productID,
		WarehouseID:     "W1",
		Direction:       entity.DirectionOut,
		ReferenceType:   entity.RefPurchaseReturn,
		ReferenceID:     "doc-2",
		ReferenceNumber: "PRET-XYZ789",
		Quantity:        qty,
		ActorID:         "user-1",
		TransactionDate: time.Now(),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Record: entradas y salidas
// ──────────────────────────────────────────────────────────────────────────────

// Una entrada sobre cuenta vacía crea la cuenta y deja exactamente un
// asiento con BalanceAfter igual a la nueva cantidad.
func TestRecord_EntradaCreaCuentaYAsiento(t *testing.T) {
	stocks := newFakeStockRepo()
	ledger := &fakeLedgerRepo{}
	w := stock.NewLedgerWriter()

	entry, err := w.Record(stocks, ledger, inbound("P1", 20, "800.00"))
	require.NoError(t, err)

	assert.Equal(t, int64(20), entry.BalanceAfter)
	assert.True(t, dec("800.00").Equal(entry.UnitCost))
	assert.True(t, dec("16000.00").Equal(entry.TotalCost))
	require.Len(t, ledger.entries, 1)

	s, err := stocks.Get("P1", "W1")
	require.NoError(t, err)
	assert.Equal(t, int64(20), s.Quantity)
	assert.True(t, dec("16000.00").Equal(s.TotalValue))
}

// La salida valora al promedio actual de la cuenta, no al costo del
// documento de origen.
func TestRecord_SalidaValoraAlPromedio(t *testing.T) {
	stocks := newFakeStockRepo()
	ledger := &fakeLedgerRepo{}
	w := stock.NewLedgerWriter()

	_, err := w.Record(stocks, ledger, inbound("P1", 20, "800.00"))
	require.NoError(t, err)
	_, err = w.Record(stocks, ledger, inbound("P1", 10, "900.00"))
	require.NoError(t, err)

	entry, err := w.Record(stocks, ledger, outbound("P1", 5))
	require.NoError(t, err)

	// promedio ponderado 25000/30 = 833.3333; el libro lo redondea a 2dp
	assert.True(t, dec("833.33").Equal(entry.UnitCost), "costo: %s", entry.UnitCost)
	assert.True(t, dec("4166.67").Equal(entry.TotalCost), "total: %s", entry.TotalCost)
	assert.Equal(t, int64(25), entry.BalanceAfter)
}

// Una salida que excede la disponibilidad se rechaza con
// InsufficientStockError sin mutar la cuenta ni escribir asiento.
func TestRecord_SalidaInsuficienteNoMuta(t *testing.T) {
	stocks := newFakeStockRepo()
	ledger := &fakeLedgerRepo{}
	w := stock.NewLedgerWriter()

	_, err := w.Record(stocks, ledger, inbound("P1", 10, "500.00"))
	require.NoError(t, err)

	_, err = w.Record(stocks, ledger, outbound("P1", 11))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "P1", insufficient.ProductID)
	assert.Equal(t, int64(11), insufficient.Requested)
	assert.Equal(t, int64(10), insufficient.Available)

	s, _ := stocks.Get("P1", "W1")
	assert.Equal(t, int64(10), s.Quantity, "la cuenta no debe cambiar")
	assert.Len(t, ledger.entries, 1, "no debe haber asiento de la salida fallida")
}

// Cantidad cero o negativa se rechaza antes de tocar nada.
func TestRecord_CantidadInvalida(t *testing.T) {
	stocks := newFakeStockRepo()
	ledger := &fakeLedgerRepo{}
	w := stock.NewLedgerWriter()

	_, err := w.Record(stocks, ledger, inbound("P1", 0, "100.00"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = w.Record(stocks, ledger, inbound("P1", -3, "100.00"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, ledger.entries)
}

// Vaciar la cuenta resetea promedio y valor a cero (convención de cuenta
// vacía), pero el asiento conserva el costo al que salió.
func TestRecord_VaciarCuentaReseteaPromedio(t *testing.T) {
	stocks := newFakeStockRepo()
	ledger := &fakeLedgerRepo{}
	w := stock.NewLedgerWriter()

	_, err := w.Record(stocks, ledger, inbound("P1", 8, "250.00"))
	require.NoError(t, err)

	entry, err := w.Record(stocks, ledger, outbound("P1", 8))
	require.NoError(t, err)
	assert.True(t, dec("250").Equal(entry.UnitCost))
	assert.Equal(t, int64(0), entry.BalanceAfter)

	s, _ := stocks.Get("P1", "W1")
	assert.Equal(t, int64(0), s.Quantity)
	assert.True(t, s.AverageCost.IsZero(), "promedio: %s", s.AverageCost)
	assert.True(t, s.TotalValue.IsZero(), "valor: %s", s.TotalValue)
}

// ──────────────────────────────────────────────────────────────────────────────
// Invariantes del libro
// ──────────────────────────────────────────────────────────────────────────────

// Reproducir los asientos de la cuenta en orden debe reconstruir exactamente
// la cantidad actual, y cada BalanceAfter debe coincidir con el acumulado.
func TestLedger_ReproduccionReconstruyeLaCuenta(t *testing.T) {
	stocks := newFakeStockRepo()
	ledger := &fakeLedgerRepo{}
	w := stock.NewLedgerWriter()

	movs := []stock.RecordInput{
		inbound("P1", 20, "800.00"),
		inbound("P1", 10, "900.00"),
		outbound("P1", 5),
		inbound("P1", 15, "750.00"),
		outbound("P1", 30),
	}
	for _, m := range movs {
		_, err := w.Record(stocks, ledger, m)
		require.NoError(t, err)
	}

	entries, err := ledger.ListByAccount("P1", "W1")
	require.NoError(t, err)
	require.Len(t, entries, len(movs))

	var balance int64
	for i, e := range entries {
		balance += e.SignedQuantity()
		assert.Equal(t, balance, e.BalanceAfter, "asiento %d", i)
	}

	s, _ := stocks.Get("P1", "W1")
	assert.Equal(t, balance, s.Quantity, "la reproducción debe igualar la cuenta")
}

// El valor de la cuenta es siempre cantidad × promedio (redondeado a 2dp).
func TestLedger_InvarianteDeValoracion(t *testing.T) {
	stocks := newFakeStockRepo()
	ledger := &fakeLedgerRepo{}
	w := stock.NewLedgerWriter()

	_, err := w.Record(stocks, ledger, inbound("P1", 7, "333.33"))
	require.NoError(t, err)
	_, err = w.Record(stocks, ledger, inbound("P1", 13, "421.77"))
	require.NoError(t, err)
	_, err = w.Record(stocks, ledger, outbound("P1", 9))
	require.NoError(t, err)

	s, _ := stocks.Get("P1", "W1")
	expected := s.AverageCost.Mul(decimal.NewFromInt(s.Quantity)).Round(2)
	assert.True(t, expected.Equal(s.TotalValue),
		"valor %s debe ser qty %d × promedio %s", s.TotalValue, s.Quantity, s.AverageCost)
}

// ──────────────────────────────────────────────────────────────────────────────
// AvailabilityGuard
// ──────────────────────────────────────────────────────────────────────────────

// Líneas repetidas del mismo producto se acumulan contra el mismo saldo:
// dos líneas de 6 sobre una cuenta de 10 deben rechazarse.
func TestCheckAvailability_LineasRepetidasAcumulan(t *testing.T) {
	stocks := newFakeStockRepo()
	ledger := &fakeLedgerRepo{}
	w := stock.NewLedgerWriter()
	_, err := w.Record(stocks, ledger, inbound("P1", 10, "100.00"))
	require.NoError(t, err)

	err = stock.CheckAvailability(stocks, "W1", []stock.Line{
		{ProductID: "P1", Quantity: 6},
		{ProductID: "P1", Quantity: 6},
	})
	require.Error(t, err)

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, int64(4), insufficient.Available, "la segunda línea ve el saldo restante")
}

// Todas las líneas caben → nil, sin mutaciones.
func TestCheckAvailability_TodasLasLineasCaben(t *testing.T) {
	stocks := newFakeStockRepo()
	ledger := &fakeLedgerRepo{}
	w := stock.NewLedgerWriter()
	_, err := w.Record(stocks, ledger, inbound("P1", 10, "100.00"))
	require.NoError(t, err)
	_, err = w.Record(stocks, ledger, inbound("P2", 5, "40.00"))
	require.NoError(t, err)

	err = stock.CheckAvailability(stocks, "W1", []stock.Line{
		{ProductID: "P1", Quantity: 6},
		{ProductID: "P2", Quantity: 5},
		{ProductID: "P1", Quantity: 4},
	})
	assert.NoError(t, err)
}

// Un producto sin cuenta en la bodega se trata como saldo cero.
func TestCheckAvailability_CuentaInexistenteEsCero(t *testing.T) {
	stocks := newFakeStockRepo()

	err := stock.CheckAvailability(stocks, "W1", []stock.Line{
		{ProductID: "P-nunca-visto", Quantity: 1},
	})
	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, int64(0), insufficient.Available)
}

// LockAndCheckAvailability devuelve las cuentas bloqueadas listas para
// RecordOnLocked; múltiples líneas del mismo producto comparten la cuenta.
func TestLockAndCheck_DevuelveCuentasBloqueadas(t *testing.T) {
	stocks := newFakeStockRepo()
	ledger := &fakeLedgerRepo{}
	w := stock.NewLedgerWriter()
	_, err := w.Record(stocks, ledger, inbound("P1", 10, "100.00"))
	require.NoError(t, err)
	_, err = w.Record(stocks, ledger, inbound("P2", 3, "55.00"))
	require.NoError(t, err)

	locked, err := stock.LockAndCheckAvailability(stocks, "W1", []stock.Line{
		{ProductID: "P1", Quantity: 4},
		{ProductID: "P2", Quantity: 3},
		{ProductID: "P1", Quantity: 6},
	})
	require.NoError(t, err)
	require.Len(t, locked, 2)

	// Escribir las salidas sobre las cuentas bloqueadas sin releer.
	for _, ln := range []stock.Line{{ProductID: "P1", Quantity: 4}, {ProductID: "P2", Quantity: 3}, {ProductID: "P1", Quantity: 6}} {
		_, err := w.RecordOnLocked(locked[ln.ProductID], stocks, ledger, outbound(ln.ProductID, ln.Quantity))
		require.NoError(t, err)
	}

	s1, _ := stocks.Get("P1", "W1")
	s2, _ := stocks.Get("P2", "W1")
	assert.Equal(t, int64(0), s1.Quantity)
	assert.Equal(t, int64(0), s2.Quantity)
}

// Si una línea no cabe, no se devuelve nada: el caller hace rollback.
func TestLockAndCheck_RechazoTotal(t *testing.T) {
	stocks := newFakeStockRepo()
	ledger := &fakeLedgerRepo{}
	w := stock.NewLedgerWriter()
	_, err := w.Record(stocks, ledger, inbound("P1", 10, "100.00"))
	require.NoError(t, err)

	locked, err := stock.LockAndCheckAvailability(stocks, "W1", []stock.Line{
		{ProductID: "P1", Quantity: 4},
		{ProductID: "P-faltante", Quantity: 1},
	})
	assert.Nil(t, locked)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
}
