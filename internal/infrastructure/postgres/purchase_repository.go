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

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

// PurchaseRepo implementación de PurchaseRepository sobre PostgreSQL (usable con pool o tx).
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

const purchaseColumns = `id, invoice_number, supplier_id, warehouse_id, grn_id, invoice_date, due_date,
		status, subtotal, tax_amount, discount_amount, shipping_cost, total_amount, notes,
		created_by, created_at, updated_at`

// Create persiste la compra con sus líneas.
func (r *PurchaseRepo) Create(p *entity.Purchase) error {
	query := `
		INSERT INTO purchases (` + purchaseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.InvoiceNumber, p.SupplierID, p.WarehouseID, nullable(p.GrnID), p.InvoiceDate, p.DueDate,
		p.Status, p.Subtotal, p.TaxAmount, p.DiscountAmount, p.ShippingCost, p.TotalAmount, p.Notes,
		p.CreatedBy, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert purchase: %w", err)
	}
	return r.insertItems(p.ID, p.Items)
}

// GetByID carga la compra con sus líneas; nil si no existe.
func (r *PurchaseRepo) GetByID(id string) (*entity.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE id = $1`
	p, err := r.scanPurchase(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	items, err := r.loadItems(p.ID)
	if err != nil {
		return nil, err
	}
	p.Items = items
	return p, nil
}

// Update persiste cambios de cabecera (incluido el estado).
func (r *PurchaseRepo) Update(p *entity.Purchase) error {
	query := `
		UPDATE purchases SET supplier_id = $2, warehouse_id = $3, grn_id = $4, invoice_date = $5,
			due_date = $6, status = $7, subtotal = $8, tax_amount = $9, discount_amount = $10,
			shipping_cost = $11, total_amount = $12, notes = $13, updated_at = $14
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.SupplierID, p.WarehouseID, nullable(p.GrnID), p.InvoiceDate, p.DueDate, p.Status,
		p.Subtotal, p.TaxAmount, p.DiscountAmount, p.ShippingCost, p.TotalAmount, p.Notes, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update purchase: %w", err)
	}
	return nil
}

// ReplaceItems reemplaza las líneas en bloque.
func (r *PurchaseRepo) ReplaceItems(purchaseID string, items []entity.PurchaseItem) error {
	if _, err := r.q.Exec(context.Background(),
		`DELETE FROM purchase_items WHERE purchase_id = $1`, purchaseID); err != nil {
		return fmt.Errorf("delete purchase items: %w", err)
	}
	return r.insertItems(purchaseID, items)
}

// List lista compras con filtros opcionales y paginación (con sus líneas).
func (r *PurchaseRepo) List(f repository.PurchaseFilter, limit, offset int) ([]*entity.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE 1=1`
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
		query += fmt.Sprintf(" AND (invoice_number ILIKE $%d OR notes ILIKE $%d)", pos, pos)
		args = append(args, "%"+f.Search+"%")
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()
	var list []*entity.Purchase
	for rows.Next() {
		p, err := r.scanPurchase(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, p := range list {
		items, err := r.loadItems(p.ID)
		if err != nil {
			return nil, err
		}
		p.Items = items
	}
	return list, nil
}

// Delete elimina la compra; las líneas caen por FK ON DELETE CASCADE.
func (r *PurchaseRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM purchases WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete purchase: %w", err)
	}
	return nil
}

// ExistsByNumber verifica si ya existe una compra con ese número de factura.
func (r *PurchaseRepo) ExistsByNumber(invoiceNumber string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(context.Background(),
		`SELECT EXISTS(SELECT 1 FROM purchases WHERE invoice_number = $1)`, invoiceNumber).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists purchase number: %w", err)
	}
	return exists, nil
}

func (r *PurchaseRepo) scanPurchase(row pgx.Row) (*entity.Purchase, error) {
	var p entity.Purchase
	var grnID *string
	err := row.Scan(
		&p.ID, &p.InvoiceNumber, &p.SupplierID, &p.WarehouseID, &grnID, &p.InvoiceDate, &p.DueDate,
		&p.Status, &p.Subtotal, &p.TaxAmount, &p.DiscountAmount, &p.ShippingCost, &p.TotalAmount,
		&p.Notes, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if grnID != nil {
		p.GrnID = *grnID
	}
	return &p, nil
}

func (r *PurchaseRepo) insertItems(purchaseID string, items []entity.PurchaseItem) error {
	for i := range items {
		it := &items[i]
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		it.PurchaseID = purchaseID
		_, err := r.q.Exec(context.Background(), `
			INSERT INTO purchase_items (id, purchase_id, product_id, quantity, unit_price, discount, tax, total, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			it.ID, it.PurchaseID, it.ProductID, it.Quantity, it.UnitPrice, it.Discount, it.Tax, it.Total, it.Notes,
		)
		if err != nil {
			return fmt.Errorf("insert purchase item: %w", err)
		}
	}
	return nil
}

func (r *PurchaseRepo) loadItems(purchaseID string) ([]entity.PurchaseItem, error) {
	rows, err := r.q.Query(context.Background(), `
		SELECT id, purchase_id, product_id, quantity, unit_price, discount, tax, total, notes
		FROM purchase_items WHERE purchase_id = $1 ORDER BY id`, purchaseID)
	if err != nil {
		return nil, fmt.Errorf("load purchase items: %w", err)
	}
	defer rows.Close()
	var items []entity.PurchaseItem
	for rows.Next() {
		var it entity.PurchaseItem
		if err := rows.Scan(&it.ID, &it.PurchaseID, &it.ProductID, &it.Quantity, &it.UnitPrice,
			&it.Discount, &it.Tax, &it.Total, &it.Notes); err != nil {
			return nil, fmt.Errorf("scan purchase item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// nullable convierte string vacío a NULL para columnas con FK opcional.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
