// Package docnumber genera números de documento legibles: prefijo más
// sufijo aleatorio de 6 caracteres (A-Z, 0-9), regenerado en colisión.
package docnumber

import (
	"crypto/rand"
	"fmt"

	"github.com/jhoicas/almacen-erp/internal/domain"
)

const (
	suffixLen = 6
	charset   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	// Presupuesto de reintentos ante colisiones. Con 36^6 combinaciones las
	// colisiones reales son rarísimas; agotar el presupuesto devuelve
	// ErrDuplicateReference y el caller debe reintentar la creación.
	maxAttempts = 5
)

// Prefijos por tipo de documento.
const (
	PrefixPurchase       = "INV-P-"
	PrefixPurchaseReturn = "PRET-"
	PrefixTransfer       = "TRF-"
	PrefixAdjustment     = "ADJ-"
	PrefixGrn            = "GRN-"
)

// Generate produce un número único prefix+sufijo verificando con exists.
func Generate(prefix string, exists func(number string) (bool, error)) (string, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		number := prefix + randomSuffix()
		taken, err := exists(number)
		if err != nil {
			return "", fmt.Errorf("verificar número de documento: %w", err)
		}
		if !taken {
			return number, nil
		}
	}
	return "", domain.ErrDuplicateReference
}

func randomSuffix() string {
	buf := make([]byte, suffixLen)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand solo falla si el SO está roto; no hay degradación útil.
		panic(fmt.Sprintf("docnumber: leer aleatorios: %v", err))
	}
	for i, b := range buf {
		buf[i] = charset[int(b)%len(charset)]
	}
	return string(buf)
}
