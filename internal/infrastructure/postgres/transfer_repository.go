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

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo implementación de TransferRepository sobre PostgreSQL.
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

const transferColumns = `id, transfer_number, from_warehouse_id, to_warehouse_id, transfer_date, status,
		notes, requested_by, approved_by, approved_at, received_by, received_at, created_at, updated_at`

// Create persiste el traslado con sus líneas.
func (r *TransferRepo) Create(t *entity.Transfer) error {
	query := `
		INSERT INTO transfers (` + transferColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		t.ID, t.TransferNumber, t.FromWarehouseID, t.ToWarehouseID, t.TransferDate, t.Status,
		t.Notes, t.RequestedBy, nullable(t.ApprovedBy), t.ApprovedAt, nullable(t.ReceivedBy),
		t.ReceivedAt, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert transfer: %w", err)
	}
	return r.insertItems(t.ID, t.Items)
}

// GetByID carga el traslado con sus líneas; nil si no existe.
func (r *TransferRepo) GetByID(id string) (*entity.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE id = $1`
	t, err := r.scanTransfer(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	items, err := r.loadItems(t.ID)
	if err != nil {
		return nil, err
	}
	t.Items = items
	return t, nil
}

// Update persiste cambios de cabecera (incluido el estado).
func (r *TransferRepo) Update(t *entity.Transfer) error {
	query := `
		UPDATE transfers SET transfer_date = $2, status = $3, notes = $4, approved_by = $5,
			approved_at = $6, received_by = $7, received_at = $8, updated_at = $9
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		t.ID, t.TransferDate, t.Status, t.Notes, nullable(t.ApprovedBy), t.ApprovedAt,
		nullable(t.ReceivedBy), t.ReceivedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update transfer: %w", err)
	}
	return nil
}

// ReplaceItems reemplaza las líneas en bloque.
func (r *TransferRepo) ReplaceItems(transferID string, items []entity.TransferItem) error {
	if _, err := r.q.Exec(context.Background(),
		`DELETE FROM transfer_items WHERE transfer_id = $1`, transferID); err != nil {
		return fmt.Errorf("delete transfer items: %w", err)
	}
	return r.insertItems(transferID, items)
}

// List lista traslados con filtros opcionales y paginación (con sus líneas).
func (r *TransferRepo) List(f repository.TransferFilter, limit, offset int) ([]*entity.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE 1=1`
	args := []any{}
	pos := 1
	if f.FromWarehouseID != "" {
		query += fmt.Sprintf(" AND from_warehouse_id = $%d", pos)
		args = append(args, f.FromWarehouseID)
		pos++
	}
	if f.ToWarehouseID != "" {
		query += fmt.Sprintf(" AND to_warehouse_id = $%d", pos)
		args = append(args, f.ToWarehouseID)
		pos++
	}
	if f.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, f.Status)
		pos++
	}
	if f.Search != "" {
		query += fmt.Sprintf(" AND (transfer_number ILIKE $%d OR notes ILIKE $%d)", pos, pos)
		args = append(args, "%"+f.Search+"%")
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Transfer
	for rows.Next() {
		t, err := r.scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transfer: %w", err)
		}
		list = append(list, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, t := range list {
		items, err := r.loadItems(t.ID)
		if err != nil {
			return nil, err
		}
		t.Items = items
	}
	return list, nil
}

// Delete elimina el traslado; las líneas caen por FK ON DELETE CASCADE.
func (r *TransferRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM transfers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete transfer: %w", err)
	}
	return nil
}

// ExistsByNumber verifica si ya existe un traslado con ese número.
func (r *TransferRepo) ExistsByNumber(transferNumber string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(context.Background(),
		`SELECT EXISTS(SELECT 1 FROM transfers WHERE transfer_number = $1)`, transferNumber).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists transfer number: %w", err)
	}
	return exists, nil
}

func (r *TransferRepo) scanTransfer(row pgx.Row) (*entity.Transfer, error) {
	var t entity.Transfer
	var approvedBy, receivedBy *string
	err := row.Scan(
		&t.ID, &t.TransferNumber, &t.FromWarehouseID, &t.ToWarehouseID, &t.TransferDate, &t.Status,
		&t.Notes, &t.RequestedBy, &approvedBy, &t.ApprovedAt, &receivedBy, &t.ReceivedAt,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if approvedBy != nil {
		t.ApprovedBy = *approvedBy
	}
	if receivedBy != nil {
		t.ReceivedBy = *receivedBy
	}
	return &t, nil
}

func (r *TransferRepo) insertItems(transferID string, items []entity.TransferItem) error {
	for i := range items {
		it := &items[i]
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		it.TransferID = transferID
		_, err := r.q.Exec(context.Background(), `
			INSERT INTO transfer_items (id, transfer_id, product_id, quantity, serial_numbers, notes)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			it.ID, it.TransferID, it.ProductID, it.Quantity, it.SerialNumbers, it.Notes,
		)
		if err != nil {
			return fmt.Errorf("insert transfer item: %w", err)
		}
	}
	return nil
}

func (r *TransferRepo) loadItems(transferID string) ([]entity.TransferItem, error) {
	rows, err := r.q.Query(context.Background(), `
		SELECT id, transfer_id, product_id, quantity, serial_numbers, notes
		FROM transfer_items WHERE transfer_id = $1 ORDER BY id`, transferID)
	if err != nil {
		return nil, fmt.Errorf("load transfer items: %w", err)
	}
	defer rows.Close()
	var items []entity.TransferItem
	for rows.Next() {
		var it entity.TransferItem
		if err := rows.Scan(&it.ID, &it.TransferID, &it.ProductID, &it.Quantity, &it.SerialNumbers, &it.Notes); err != nil {
			return nil, fmt.Errorf("scan transfer item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
