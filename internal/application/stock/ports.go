package stock

import (
	"context"

	"github.com/jhoicas/almacen-erp/internal/domain/repository"
)

// TxRepos agrupa los repositorios atados a una misma transacción de BD.
// Todo lo que una transición de documento toque (cuentas, libro, el propio
// documento) pasa por estos repos para garantizar atomicidad.
type TxRepos struct {
	Stock       repository.StockRepository
	Ledger      repository.StockLedgerRepository
	Purchases   repository.PurchaseRepository
	Returns     repository.PurchaseReturnRepository
	Transfers   repository.TransferRepository
	Adjustments repository.AdjustmentRepository
	Grns        repository.GrnRepository
	Products    repository.ProductRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Commit si fn retorna nil, Rollback si no.
// Garantiza el todo-o-nada del motor de inventario.
type TxRunner interface {
	Run(ctx context.Context, fn func(r TxRepos) error) error
}
