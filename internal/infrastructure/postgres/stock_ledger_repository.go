package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/almacen-erp/internal/domain/entity"
	"github.com/jhoicas/almacen-erp/internal/domain/repository"
)

var _ repository.StockLedgerRepository = (*StockLedgerRepo)(nil)

// StockLedgerRepo implementación del libro de inventario sobre PostgreSQL.
// Solo INSERT y SELECT: los asientos son inmutables.
type StockLedgerRepo struct {
	q Querier
}

// NewStockLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockLedgerRepository(q Querier) *StockLedgerRepo {
	return &StockLedgerRepo{q: q}
}

const ledgerColumns = `id, product_id, warehouse_id, direction, reference_type, reference_id,
		reference_number, quantity, unit_cost, total_cost, balance_after, notes, created_by,
		transaction_date, created_at`

// Create persiste un asiento del libro.
func (r *StockLedgerRepo) Create(entry *entity.StockLedger) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_ledger (` + ledgerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	createdBy := (*string)(nil)
	if entry.CreatedBy != "" {
		createdBy = &entry.CreatedBy
	}
	_, err := r.q.Exec(context.Background(), query,
		entry.ID, entry.ProductID, entry.WarehouseID, entry.Direction, entry.ReferenceType,
		entry.ReferenceID, entry.ReferenceNumber, entry.Quantity, entry.UnitCost, entry.TotalCost,
		entry.BalanceAfter, entry.Notes, createdBy, entry.TransactionDate, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create ledger entry: %w", err)
	}
	return nil
}

// GetByID obtiene un asiento por ID.
func (r *StockLedgerRepo) GetByID(id string) (*entity.StockLedger, error) {
	query := `SELECT ` + ledgerColumns + ` FROM stock_ledger WHERE id = $1`
	e, err := scanLedgerRow(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ledger entry: %w", err)
	}
	return e, nil
}

// List lista asientos con filtros opcionales y paginación, del más reciente
// al más antiguo.
func (r *StockLedgerRepo) List(f repository.StockLedgerFilter, limit, offset int) ([]*entity.StockLedger, error) {
	query := `SELECT ` + ledgerColumns + ` FROM stock_ledger WHERE 1=1`
	args := []any{}
	pos := 1
	if f.ProductID != "" {
		query += fmt.Sprintf(" AND product_id = $%d", pos)
		args = append(args, f.ProductID)
		pos++
	}
	if f.WarehouseID != "" {
		query += fmt.Sprintf(" AND warehouse_id = $%d", pos)
		args = append(args, f.WarehouseID)
		pos++
	}
	if f.Direction != "" {
		query += fmt.Sprintf(" AND direction = $%d", pos)
		args = append(args, f.Direction)
		pos++
	}
	if f.ReferenceType != "" {
		query += fmt.Sprintf(" AND reference_type = $%d", pos)
		args = append(args, f.ReferenceType)
		pos++
	}
	if f.DateFrom != nil {
		query += fmt.Sprintf(" AND transaction_date >= $%d", pos)
		args = append(args, *f.DateFrom)
		pos++
	}
	if f.DateTo != nil {
		query += fmt.Sprintf(" AND transaction_date <= $%d", pos)
		args = append(args, *f.DateTo)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ledger: %w", err)
	}
	defer rows.Close()
	return scanLedgerRows(rows)
}

// ListByAccount devuelve todos los asientos de (producto, bodega) en orden de
// inserción, para reconstrucción y kardex.
func (r *StockLedgerRepo) ListByAccount(productID, warehouseID string) ([]*entity.StockLedger, error) {
	query := `SELECT ` + ledgerColumns + ` FROM stock_ledger
		WHERE product_id = $1 AND warehouse_id = $2 ORDER BY created_at ASC`
	rows, err := r.q.Query(context.Background(), query, productID, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("list ledger by account: %w", err)
	}
	defer rows.Close()
	return scanLedgerRows(rows)
}

func scanLedgerRow(row pgx.Row) (*entity.StockLedger, error) {
	var e entity.StockLedger
	var createdBy *string
	err := row.Scan(
		&e.ID, &e.ProductID, &e.WarehouseID, &e.Direction, &e.ReferenceType, &e.ReferenceID,
		&e.ReferenceNumber, &e.Quantity, &e.UnitCost, &e.TotalCost, &e.BalanceAfter, &e.Notes,
		&createdBy, &e.TransactionDate, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if createdBy != nil {
		e.CreatedBy = *createdBy
	}
	return &e, nil
}

func scanLedgerRows(rows pgx.Rows) ([]*entity.StockLedger, error) {
	var list []*entity.StockLedger
	for rows.Next() {
		e, err := scanLedgerRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}
