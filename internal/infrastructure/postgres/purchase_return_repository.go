package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/almacen-erp/internal/domain"
	"github.com/jhoicas/almacen-erp/internal/domain/entity"
	"github.com/jhoicas/almacen-erp/internal/domain/repository"
)

var _ repository.PurchaseReturnRepository = (*PurchaseReturnRepo)(nil)

// PurchaseReturnRepo implementación de PurchaseReturnRepository sobre PostgreSQL.
type PurchaseReturnRepo struct {
	q Querier
}

// NewPurchaseReturnRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseReturnRepository(q Querier) *PurchaseReturnRepo {
	return &PurchaseReturnRepo{q: q}
}

const returnColumns = `id, return_number, purchase_id, supplier_id, warehouse_id, return_date, status,
		reason, total_amount, notes, created_by, approved_by, approved_at, created_at, updated_at`

// Create persiste la devolución con sus líneas.
func (r *PurchaseReturnRepo) Create(ret *entity.PurchaseReturn) error {
	query := `
		INSERT INTO purchase_returns (` + returnColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		ret.ID, ret.ReturnNumber, ret.PurchaseID, ret.SupplierID, ret.WarehouseID, ret.ReturnDate,
		ret.Status, ret.Reason, ret.TotalAmount, ret.Notes, ret.CreatedBy, nullable(ret.ApprovedBy),
		ret.ApprovedAt, ret.CreatedAt, ret.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert purchase return: %w", err)
	}
	return r.insertItems(ret.ID, ret.Items)
}

// GetByID carga la devolución con sus líneas; nil si no existe.
func (r *PurchaseReturnRepo) GetByID(id string) (*entity.PurchaseReturn, error) {
	query := `SELECT ` + returnColumns + ` FROM purchase_returns WHERE id = $1`
	ret, err := r.scanReturn(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase return: %w", err)
	}
	items, err := r.loadItems(ret.ID)
	if err != nil {
		return nil, err
	}
	ret.Items = items
	return ret, nil
}

// Update persiste cambios de cabecera (incluido el estado).
func (r *PurchaseReturnRepo) Update(ret *entity.PurchaseReturn) error {
	query := `
		UPDATE purchase_returns SET return_date = $2, status = $3, reason = $4, total_amount = $5,
			notes = $6, approved_by = $7, approved_at = $8, updated_at = $9
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		ret.ID, ret.ReturnDate, ret.Status, ret.Reason, ret.TotalAmount, ret.Notes,
		nullable(ret.ApprovedBy), ret.ApprovedAt, ret.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update purchase return: %w", err)
	}
	return nil
}

// ReplaceItems reemplaza las líneas en bloque.
func (r *PurchaseReturnRepo) ReplaceItems(returnID string, items []entity.PurchaseReturnItem) error {
	if _, err := r.q.Exec(context.Background(),
		`DELETE FROM purchase_return_items WHERE return_id = $1`, returnID); err != nil {
		return fmt.Errorf("delete return items: %w", err)
	}
	return r.insertItems(returnID, items)
}

// List lista devoluciones con filtros opcionales y paginación (con sus líneas).
func (r *PurchaseReturnRepo) List(f repository.PurchaseReturnFilter, limit, offset int) ([]*entity.PurchaseReturn, error) {
	query := `SELECT ` + returnColumns + ` FROM purchase_returns WHERE 1=1`
	args := []any{}
	pos := 1
	if f.SupplierID != "" {
		query += fmt.Sprintf(" AND supplier_id = $%d", pos)
		args = append(args, f.SupplierID)
		pos++
	}
	if f.WarehouseID != "" {
		query += fmt.Sprintf(" AND warehouse_id = $%d", pos)
		args = append(args, f.WarehouseID)
		pos++
	}
	if f.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, f.Status)
		pos++
	}
	if f.Search != "" {
		query += fmt.Sprintf(" AND (return_number ILIKE $%d OR notes ILIKE $%d)", pos, pos)
		args = append(args, "%"+f.Search+"%")
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchase returns: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseReturn
	for rows.Next() {
		ret, err := r.scanReturn(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase return: %w", err)
		}
		list = append(list, ret)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, ret := range list {
		items, err := r.loadItems(ret.ID)
		if err != nil {
			return nil, err
		}
		ret.Items = items
	}
	return list, nil
}

// Delete elimina la devolución; las líneas caen por FK ON DELETE CASCADE.
func (r *PurchaseReturnRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM purchase_returns WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete purchase return: %w", err)
	}
	return nil
}

// ExistsByNumber verifica si ya existe una devolución con ese número.
func (r *PurchaseReturnRepo) ExistsByNumber(returnNumber string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(context.Background(),
		`SELECT EXISTS(SELECT 1 FROM purchase_returns WHERE return_number = $1)`, returnNumber).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists return number: %w", err)
	}
	return exists, nil
}

func (r *PurchaseReturnRepo) scanReturn(row pgx.Row) (*entity.PurchaseReturn, error) {
	var ret entity.PurchaseReturn
	var approvedBy *string
	err := row.Scan(
		&ret.ID, &ret.ReturnNumber, &ret.PurchaseID, &ret.SupplierID, &ret.WarehouseID,
		&ret.ReturnDate, &ret.Status, &ret.Reason, &ret.TotalAmount, &ret.Notes, &ret.CreatedBy,
		&approvedBy, &ret.ApprovedAt, &ret.CreatedAt, &ret.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if approvedBy != nil {
		ret.ApprovedBy = *approvedBy
	}
	return &ret, nil
}

func (r *PurchaseReturnRepo) insertItems(returnID string, items []entity.PurchaseReturnItem) error {
	for i := range items {
		it := &items[i]
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		it.ReturnID = returnID
		_, err := r.q.Exec(context.Background(), `
			INSERT INTO purchase_return_items (id, return_id, product_id, quantity, unit_price, total, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			it.ID, it.ReturnID, it.ProductID, it.Quantity, it.UnitPrice, it.Total, it.Notes,
		)
		if err != nil {
			return fmt.Errorf("insert return item: %w", err)
		}
	}
	return nil
}

func (r *PurchaseReturnRepo) loadItems(returnID string) ([]entity.PurchaseReturnItem, error) {
	rows, err := r.q.Query(context.Background(), `
		SELECT id, return_id, product_id, quantity, unit_price, total, notes
		FROM purchase_return_items WHERE return_id = $1 ORDER BY id`, returnID)
	if err != nil {
		return nil, fmt.Errorf("load return items: %w", err)
	}
	defer rows.Close()
	var items []entity.PurchaseReturnItem
	for rows.Next() {
		var it entity.PurchaseReturnItem
		if err := rows.Scan(&it.ID, &it.ReturnID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.Total, &it.Notes); err != nil {
			return nil, fmt.Errorf("scan return item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
