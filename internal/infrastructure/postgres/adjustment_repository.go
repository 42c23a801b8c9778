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

var _ repository.AdjustmentRepository = (*AdjustmentRepo)(nil)

// AdjustmentRepo implementación de AdjustmentRepository sobre PostgreSQL.
type AdjustmentRepo struct {
	q Querier
}

// NewAdjustmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAdjustmentRepository(q Querier) *AdjustmentRepo {
	return &AdjustmentRepo{q: q}
}

const adjustmentColumns = `id, adjustment_number, warehouse_id, adjustment_date, status, type, reason,
		notes, created_by, approved_by, approved_at, created_at, updated_at`

// Create persiste el ajuste con sus líneas.
func (r *AdjustmentRepo) Create(a *entity.Adjustment) error {
	query := `
		INSERT INTO adjustments (` + adjustmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		a.ID, a.AdjustmentNumber, a.WarehouseID, a.AdjustmentDate, a.Status, a.Type, a.Reason,
		a.Notes, a.CreatedBy, nullable(a.ApprovedBy), a.ApprovedAt, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert adjustment: %w", err)
	}
	return r.insertItems(a.ID, a.Items)
}

// GetByID carga el ajuste con sus líneas; nil si no existe.
func (r *AdjustmentRepo) GetByID(id string) (*entity.Adjustment, error) {
	query := `SELECT ` + adjustmentColumns + ` FROM adjustments WHERE id = $1`
	a, err := r.scanAdjustment(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get adjustment: %w", err)
	}
	items, err := r.loadItems(a.ID)
	if err != nil {
		return nil, err
	}
	a.Items = items
	return a, nil
}

// Update persiste cambios de cabecera (incluido el estado).
func (r *AdjustmentRepo) Update(a *entity.Adjustment) error {
	query := `
		UPDATE adjustments SET adjustment_date = $2, status = $3, type = $4, reason = $5,
			notes = $6, approved_by = $7, approved_at = $8, updated_at = $9
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		a.ID, a.AdjustmentDate, a.Status, a.Type, a.Reason, a.Notes,
		nullable(a.ApprovedBy), a.ApprovedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update adjustment: %w", err)
	}
	return nil
}

// ReplaceItems reemplaza las líneas en bloque.
func (r *AdjustmentRepo) ReplaceItems(adjustmentID string, items []entity.AdjustmentItem) error {
	if _, err := r.q.Exec(context.Background(),
		`DELETE FROM adjustment_items WHERE adjustment_id = $1`, adjustmentID); err != nil {
		return fmt.Errorf("delete adjustment items: %w", err)
	}
	return r.insertItems(adjustmentID, items)
}

// List lista ajustes con filtros opcionales y paginación (con sus líneas).
func (r *AdjustmentRepo) List(f repository.AdjustmentFilter, limit, offset int) ([]*entity.Adjustment, error) {
	query := `SELECT ` + adjustmentColumns + ` FROM adjustments WHERE 1=1`
	args := []any{}
	pos := 1
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
	if f.Type != "" {
		query += fmt.Sprintf(" AND type = $%d", pos)
		args = append(args, f.Type)
		pos++
	}
	if f.Search != "" {
		query += fmt.Sprintf(" AND (adjustment_number ILIKE $%d OR reason ILIKE $%d)", pos, pos)
		args = append(args, "%"+f.Search+"%")
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list adjustments: %w", err)
	}
	defer rows.Close()
	var list []*entity.Adjustment
	for rows.Next() {
		a, err := r.scanAdjustment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan adjustment: %w", err)
		}
		list = append(list, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, a := range list {
		items, err := r.loadItems(a.ID)
		if err != nil {
			return nil, err
		}
		a.Items = items
	}
	return list, nil
}

// Delete elimina el ajuste; las líneas caen por FK ON DELETE CASCADE.
func (r *AdjustmentRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM adjustments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete adjustment: %w", err)
	}
	return nil
}

// ExistsByNumber verifica si ya existe un ajuste con ese número.
func (r *AdjustmentRepo) ExistsByNumber(adjustmentNumber string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(context.Background(),
		`SELECT EXISTS(SELECT 1 FROM adjustments WHERE adjustment_number = $1)`, adjustmentNumber).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists adjustment number: %w", err)
	}
	return exists, nil
}

func (r *AdjustmentRepo) scanAdjustment(row pgx.Row) (*entity.Adjustment, error) {
	var a entity.Adjustment
	var approvedBy *string
	err := row.Scan(
		&a.ID, &a.AdjustmentNumber, &a.WarehouseID, &a.AdjustmentDate, &a.Status, &a.Type,
		&a.Reason, &a.Notes, &a.CreatedBy, &approvedBy, &a.ApprovedAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if approvedBy != nil {
		a.ApprovedBy = *approvedBy
	}
	return &a, nil
}

func (r *AdjustmentRepo) insertItems(adjustmentID string, items []entity.AdjustmentItem) error {
	for i := range items {
		it := &items[i]
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		it.AdjustmentID = adjustmentID
		_, err := r.q.Exec(context.Background(), `
			INSERT INTO adjustment_items (id, adjustment_id, product_id, quantity, unit_cost, notes)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			it.ID, it.AdjustmentID, it.ProductID, it.Quantity, it.UnitCost, it.Notes,
		)
		if err != nil {
			return fmt.Errorf("insert adjustment item: %w", err)
		}
	}
	return nil
}

func (r *AdjustmentRepo) loadItems(adjustmentID string) ([]entity.AdjustmentItem, error) {
	rows, err := r.q.Query(context.Background(), `
		SELECT id, adjustment_id, product_id, quantity, unit_cost, notes
		FROM adjustment_items WHERE adjustment_id = $1 ORDER BY id`, adjustmentID)
	if err != nil {
		return nil, fmt.Errorf("load adjustment items: %w", err)
	}
	defer rows.Close()
	var items []entity.AdjustmentItem
	for rows.Next() {
		var it entity.AdjustmentItem
		if err := rows.Scan(&it.ID, &it.AdjustmentID, &it.ProductID, &it.Quantity, &it.UnitCost, &it.Notes); err != nil {
			return nil, fmt.Errorf("scan adjustment item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
