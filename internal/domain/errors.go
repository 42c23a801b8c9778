package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	// ErrDuplicateReference: la generación del número de documento agotó los
	// reintentos por colisión; el caller debe reintentar la creación.
	ErrDuplicateReference = errors.New("colisión de número de documento")
)

// InsufficientStockError indica que una salida excede la cantidad disponible.
// Siempre nombra el producto ofensor y cuánto falta, para que el operador
// pueda corregir la entrada. errors.Is(err, ErrInsufficientStock) == true.
type InsufficientStockError struct {
	ProductID string
	Requested int64
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para producto %s: solicitado %d, disponible %d",
		e.ProductID, e.Requested, e.Available)
}

// Is permite detectar el error con el centinela ErrInsufficientStock.
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// InvalidStateError indica una transición intentada desde un estado que no la
// permite. Nunca hay mutación cuando se retorna este error.
type InvalidStateError struct {
	DocumentID   string
	CurrentState string
	Transition   string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("transición %q no permitida desde el estado %q (documento %s)",
		e.Transition, e.CurrentState, e.DocumentID)
}
