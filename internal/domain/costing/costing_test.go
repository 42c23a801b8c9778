package costing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-erp/internal/domain"
	"github.com/jhoicas/almacen-erp/internal/domain/costing"
	"github.com/jhoicas/almacen-erp/internal/domain/entity"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Caso 1: primera entrada sobre cuenta vacía — qty=20 a 800.00
// debe dejar qty=20, promedio 800.00 y valor 16000.00.
func TestApplyInbound_PrimeraEntrada(t *testing.T) {
	s := entity.NewStock("P1", "W1")

	unitCost, totalCost, err := costing.ApplyInbound(s, 20, dec("800.00"))
	require.NoError(t, err)

	assert.Equal(t, int64(20), s.Quantity)
	assert.True(t, dec("800").Equal(s.AverageCost), "promedio: %s", s.AverageCost)
	assert.True(t, dec("16000.00").Equal(s.TotalValue), "valor: %s", s.TotalValue)
	assert.True(t, dec("800.00").Equal(unitCost))
	assert.True(t, dec("16000.00").Equal(totalCost))
}

// Caso 2: segunda entrada a costo distinto recalcula el promedio ponderado.
// 20@800 + 10@900 => qty=30, valor=25000.00, promedio 833.3333.
func TestApplyInbound_PromedioPonderado(t *testing.T) {
	s := entity.NewStock("P1", "W1")
	_, _, err := costing.ApplyInbound(s, 20, dec("800.00"))
	require.NoError(t, err)

	_, totalCost, err := costing.ApplyInbound(s, 10, dec("900.00"))
	require.NoError(t, err)

	assert.Equal(t, int64(30), s.Quantity)
	assert.True(t, dec("9000.00").Equal(totalCost))
	assert.True(t, dec("25000.00").Equal(s.TotalValue), "valor: %s", s.TotalValue)
	assert.True(t, dec("833.3333").Equal(s.AverageCost), "promedio: %s", s.AverageCost)
}

// Caso 3: la salida usa el promedio actual y no lo cambia.
// Desde 30@833.3333 salen 5 => costo total 4166.67, valor 20833.33.
func TestApplyOutbound_UsaPromedioActual(t *testing.T) {
	s := entity.NewStock("P1", "W1")
	_, _, err := costing.ApplyInbound(s, 20, dec("800.00"))
	require.NoError(t, err)
	_, _, err = costing.ApplyInbound(s, 10, dec("900.00"))
	require.NoError(t, err)

	avgBefore := s.AverageCost

	unitCost, totalCost, err := costing.ApplyOutbound(s, 5)
	require.NoError(t, err)

	assert.Equal(t, int64(25), s.Quantity)
	assert.True(t, dec("833.33").Equal(unitCost), "costo unitario: %s", unitCost)
	assert.True(t, dec("4166.67").Equal(totalCost), "costo total: %s", totalCost)
	assert.True(t, dec("20833.33").Equal(s.TotalValue), "valor: %s", s.TotalValue)
	assert.True(t, avgBefore.Equal(s.AverageCost), "la salida no cambia el promedio")
}

// Caso 4: salida mayor al disponible se rechaza con InsufficientStockError
// nombrando producto, solicitado y disponible; la cuenta no se muta.
func TestApplyOutbound_StockInsuficiente(t *testing.T) {
	s := entity.NewStock("P1", "W1")
	_, _, err := costing.ApplyInbound(s, 25, dec("10.00"))
	require.NoError(t, err)

	qtyBefore, valueBefore := s.Quantity, s.TotalValue

	_, _, err = costing.ApplyOutbound(s, 1000)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var insuffErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &insuffErr)
	assert.Equal(t, "P1", insuffErr.ProductID)
	assert.Equal(t, int64(1000), insuffErr.Requested)
	assert.Equal(t, int64(25), insuffErr.Available)

	assert.Equal(t, qtyBefore, s.Quantity, "la cantidad no debe cambiar")
	assert.True(t, valueBefore.Equal(s.TotalValue), "el valor no debe cambiar")
}

// Caso 5: vaciar la cuenta aplica la convención promedio 0, valor 0.
func TestApplyOutbound_CuentaEnCero(t *testing.T) {
	s := entity.NewStock("P1", "W1")
	_, _, err := costing.ApplyInbound(s, 3, dec("10.00"))
	require.NoError(t, err)

	unitCost, _, err := costing.ApplyOutbound(s, 3)
	require.NoError(t, err)

	assert.Equal(t, int64(0), s.Quantity)
	assert.True(t, s.AverageCost.IsZero(), "promedio por convención 0")
	assert.True(t, s.TotalValue.IsZero(), "valor por convención 0")
	assert.True(t, dec("10.00").Equal(unitCost), "el asiento lleva el costo usado, no el reseteado")
}

// Invariante de valuación: tras cualquier secuencia de operaciones,
// TotalValue ≈ Quantity * AverageCost dentro de un centavo.
func TestInvarianteValuacion(t *testing.T) {
	s := entity.NewStock("P1", "W1")
	steps := []struct {
		in   bool
		qty  int64
		cost string
	}{
		{true, 20, "800.00"}, {true, 10, "900.00"}, {false, 5, ""},
		{true, 7, "123.45"}, {false, 11, ""}, {true, 1, "999.99"}, {false, 20, ""},
	}
	for i, st := range steps {
		var err error
		if st.in {
			_, _, err = costing.ApplyInbound(s, st.qty, dec(st.cost))
		} else {
			_, _, err = costing.ApplyOutbound(s, st.qty)
		}
		require.NoError(t, err, "paso %d", i)

		expected := s.AverageCost.Mul(decimal.NewFromInt(s.Quantity))
		drift := s.TotalValue.Sub(expected).Abs()
		assert.True(t, drift.LessThanOrEqual(dec("0.01")),
			"paso %d: deriva %s (valor %s vs %s)", i, drift, s.TotalValue, expected)
	}
}

// Entradas inválidas: cantidad no positiva o costo negativo.
func TestApplyInbound_EntradaInvalida(t *testing.T) {
	s := entity.NewStock("P1", "W1")

	_, _, err := costing.ApplyInbound(s, 0, dec("1.00"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, _, err = costing.ApplyInbound(s, 5, dec("-1.00"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, _, err = costing.ApplyOutbound(s, -2)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
