package docnumber_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-erp/internal/application/docnumber"
	"github.com/jhoicas/almacen-erp/internal/domain"
)

// El número generado lleva el prefijo y un sufijo de 6 caracteres A-Z0-9.
func TestGenerate_Formato(t *testing.T) {
	number, err := docnumber.Generate(docnumber.PrefixPurchase, func(string) (bool, error) {
		return false, nil
	})
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(number, "INV-P-"), "número: %s", number)
	suffix := strings.TrimPrefix(number, "INV-P-")
	assert.Len(t, suffix, 6)
	for _, r := range suffix {
		assert.Contains(t, "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789", string(r))
	}
}

// Una colisión fuerza la regeneración del sufijo hasta encontrar uno libre.
func TestGenerate_RegeneraEnColision(t *testing.T) {
	calls := 0
	number, err := docnumber.Generate(docnumber.PrefixTransfer, func(string) (bool, error) {
		calls++
		return calls <= 2, nil // las dos primeras propuestas ya existen
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.True(t, strings.HasPrefix(number, "TRF-"))
}

// Agotar el presupuesto de reintentos devuelve ErrDuplicateReference.
func TestGenerate_AgotaReintentos(t *testing.T) {
	calls := 0
	_, err := docnumber.Generate(docnumber.PrefixAdjustment, func(string) (bool, error) {
		calls++
		return true, nil // todo está tomado
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDuplicateReference)
	assert.Equal(t, 5, calls, "debe respetar el presupuesto de reintentos")
}

// Un error del verificador se propaga envuelto, sin reintentar.
func TestGenerate_ErrorDelVerificador(t *testing.T) {
	boom := errors.New("bd caída")
	calls := 0
	_, err := docnumber.Generate(docnumber.PrefixGrn, func(string) (bool, error) {
		calls++
		return false, boom
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}
