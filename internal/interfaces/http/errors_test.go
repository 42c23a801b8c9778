package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-erp/internal/application/dto"
	"github.com/jhoicas/almacen-erp/internal/domain"
)

// respond levanta una app mínima que responde el error dado y devuelve
// status + body decodificado.
func respond(t *testing.T, err error) (int, dto.ErrorResponse) {
	t.Helper()
	app := fiber.New()
	app.Get("/x", func(c *fiber.Ctx) error {
		return respondError(c, err)
	})
	resp, aerr := app.Test(httptest.NewRequest("GET", "/x", nil))
	require.NoError(t, aerr)
	defer resp.Body.Close()

	body, aerr := io.ReadAll(resp.Body)
	require.NoError(t, aerr)
	var out dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &out))
	return resp.StatusCode, out
}

func TestRespondError_StockInsuficiente(t *testing.T) {
	status, body := respond(t, &domain.InsufficientStockError{
		ProductID: "P1",
		Requested: 8,
		Available: 3,
	})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", body.Code)
	assert.Contains(t, body.Message, "P1")
}

func TestRespondError_TransicionInvalida(t *testing.T) {
	status, body := respond(t, &domain.InvalidStateError{
		DocumentID:   "doc-1",
		CurrentState: "completed",
		Transition:   "cancel",
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Equal(t, "INVALID_STATE", body.Code)
	assert.Contains(t, body.Message, "cancel")
}

func TestRespondError_Sentinelas(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"no encontrado", domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
		{"usuario no encontrado", domain.ErrUserNotFound, fiber.StatusNotFound, "NOT_FOUND"},
		{"entrada inválida", domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
		{"duplicado", domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
		{"email existente", domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS"},
		{"colisión de número", domain.ErrDuplicateReference, fiber.StatusConflict, "NUMBER_COLLISION"},
		{"no autorizado", domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
		{"prohibido", domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := respond(t, tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, body.Code)
		})
	}
}

func TestRespondError_ErrorEnvuelto(t *testing.T) {
	// Los handlers envuelven con contexto; el mapeo sigue funcionando.
	status, body := respond(t, errors.Join(errors.New("cargando compra"), domain.ErrNotFound))
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body.Code)
}

func TestRespondError_Desconocido(t *testing.T) {
	status, body := respond(t, errors.New("falla de red"))
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL", body.Code)
}
