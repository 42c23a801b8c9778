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

var _ repository.GrnRepository = (*GrnRepo)(nil)

// GrnRepo implementación de GrnRepository sobre PostgreSQL.
type GrnRepo struct {
	q Querier
}

// NewGrnRepository construye el adaptador. Pasar pool o tx (Querier).
func NewGrnRepository(q Querier) *GrnRepo {
	return &GrnRepo{q: q}
}

const grnColumns = `id, grn_number, warehouse_id, grn_date, status, notes, received_by,
		verified_by, verified_at, created_at, updated_at`

// Create persiste el GRN con sus líneas.
func (r *GrnRepo) Create(g *entity.Grn) error {
	query := `
		INSERT INTO grns (` + grnColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		g.ID, g.GrnNumber, g.WarehouseID, g.GrnDate, g.Status, g.Notes, g.ReceivedBy,
		nullable(g.VerifiedBy), g.VerifiedAt, g.CreatedAt, g.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert grn: %w", err)
	}
	return r.insertItems(g.ID, g.Items)
}

// GetByID carga el GRN con sus líneas; nil si no existe.
func (r *GrnRepo) GetByID(id string) (*entity.Grn, error) {
	query := `SELECT ` + grnColumns + ` FROM grns WHERE id = $1`
	g, err := r.scanGrn(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get grn: %w", err)
	}
	items, err := r.loadItems(g.ID)
	if err != nil {
		return nil, err
	}
	g.Items = items
	return g, nil
}

// Update persiste cambios de cabecera (incluido el estado).
func (r *GrnRepo) Update(g *entity.Grn) error {
	query := `
		UPDATE grns SET grn_date = $2, status = $3, notes = $4, verified_by = $5,
			verified_at = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		g.ID, g.GrnDate, g.Status, g.Notes, nullable(g.VerifiedBy), g.VerifiedAt, g.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update grn: %w", err)
	}
	return nil
}

// ReplaceItems reemplaza las líneas en bloque.
func (r *GrnRepo) ReplaceItems(grnID string, items []entity.GrnItem) error {
	if _, err := r.q.Exec(context.Background(),
		`DELETE FROM grn_items WHERE grn_id = $1`, grnID); err != nil {
		return fmt.Errorf("delete grn items: %w", err)
	}
	return r.insertItems(grnID, items)
}

// List lista GRNs con filtros opcionales y paginación (con sus líneas).
func (r *GrnRepo) List(f repository.GrnFilter, limit, offset int) ([]*entity.Grn, error) {
	query := `SELECT ` + grnColumns + ` FROM grns WHERE 1=1`
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
	if f.Search != "" {
		query += fmt.Sprintf(" AND (grn_number ILIKE $%d OR notes ILIKE $%d)", pos, pos)
		args = append(args, "%"+f.Search+"%")
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list grns: %w", err)
	}
	defer rows.Close()
	var list []*entity.Grn
	for rows.Next() {
		g, err := r.scanGrn(rows)
		if err != nil {
			return nil, fmt.Errorf("scan grn: %w", err)
		}
		list = append(list, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, g := range list {
		items, err := r.loadItems(g.ID)
		if err != nil {
			return nil, err
		}
		g.Items = items
	}
	return list, nil
}

// Delete elimina el GRN; las líneas caen por FK ON DELETE CASCADE.
func (r *GrnRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM grns WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete grn: %w", err)
	}
	return nil
}

// ExistsByNumber verifica si ya existe un GRN con ese número.
func (r *GrnRepo) ExistsByNumber(grnNumber string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(context.Background(),
		`SELECT EXISTS(SELECT 1 FROM grns WHERE grn_number = $1)`, grnNumber).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists grn number: %w", err)
	}
	return exists, nil
}

func (r *GrnRepo) scanGrn(row pgx.Row) (*entity.Grn, error) {
	var g entity.Grn
	var verifiedBy *string
	err := row.Scan(
		&g.ID, &g.GrnNumber, &g.WarehouseID, &g.GrnDate, &g.Status, &g.Notes, &g.ReceivedBy,
		&verifiedBy, &g.VerifiedAt, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if verifiedBy != nil {
		g.VerifiedBy = *verifiedBy
	}
	return &g, nil
}

func (r *GrnRepo) insertItems(grnID string, items []entity.GrnItem) error {
	for i := range items {
		it := &items[i]
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		it.GrnID = grnID
		_, err := r.q.Exec(context.Background(), `
			INSERT INTO grn_items (id, grn_id, product_id, ordered_quantity, received_quantity, unit_price, total, serial_numbers, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			it.ID, it.GrnID, it.ProductID, it.OrderedQuantity, it.ReceivedQuantity, it.UnitPrice,
			it.Total, it.SerialNumbers, it.Notes,
		)
		if err != nil {
			return fmt.Errorf("insert grn item: %w", err)
		}
	}
	return nil
}

func (r *GrnRepo) loadItems(grnID string) ([]entity.GrnItem, error) {
	rows, err := r.q.Query(context.Background(), `
		SELECT id, grn_id, product_id, ordered_quantity, received_quantity, unit_price, total, serial_numbers, notes
		FROM grn_items WHERE grn_id = $1 ORDER BY id`, grnID)
	if err != nil {
		return nil, fmt.Errorf("load grn items: %w", err)
	}
	defer rows.Close()
	var items []entity.GrnItem
	for rows.Next() {
		var it entity.GrnItem
		if err := rows.Scan(&it.ID, &it.GrnID, &it.ProductID, &it.OrderedQuantity, &it.ReceivedQuantity,
			&it.UnitPrice, &it.Total, &it.SerialNumbers, &it.Notes); err != nil {
			return nil, fmt.Errorf("scan grn item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
