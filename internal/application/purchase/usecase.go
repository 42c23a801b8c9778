// Package purchase implementa el ciclo de vida de las compras a proveedor:
// draft -> pending (recepción, escribe entradas en el libro) o
// draft -> cancelled. Después de recibir, una compra solo se compensa con
// una devolución.
package purchase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-erp/internal/application/docnumber"
	"github.com/jhoicas/almacen-erp/internal/application/dto"
	"github.com/jhoicas/almacen-erp/internal/application/stock"
	"github.com/jhoicas/almacen-erp/internal/domain"
	"github.com/jhoicas/almacen-erp/internal/domain/entity"
	"github.com/jhoicas/almacen-erp/internal/domain/repository"
)

// UseCase orquesta las operaciones de compras.
type UseCase struct {
	txRunner   stock.TxRunner
	purchases  repository.PurchaseRepository
	products   repository.ProductRepository
	warehouses repository.WarehouseRepository
	suppliers  repository.SupplierRepository
	grns       repository.GrnRepository
	writer     *stock.LedgerWriter
}

// NewUseCase construye el caso de uso de compras.
func NewUseCase(
	txRunner stock.TxRunner,
	purchases repository.PurchaseRepository,
	products repository.ProductRepository,
	warehouses repository.WarehouseRepository,
	suppliers repository.SupplierRepository,
	grns repository.GrnRepository,
	writer *stock.LedgerWriter,
) *UseCase {
	return &UseCase{
		txRunner:   txRunner,
		purchases:  purchases,
		products:   products,
		warehouses: warehouses,
		suppliers:  suppliers,
		grns:       grns,
		writer:     writer,
	}
}

// Create registra una compra en estado draft con número INV-P-XXXXXX.
// No toca el stock: eso ocurre en Receive.
func (uc *UseCase) Create(ctx context.Context, userID string, in dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	if in.SupplierID == "" || in.WarehouseID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.validateRefs(in.SupplierID, in.WarehouseID, in.GrnID); err != nil {
		return nil, err
	}

	items, subtotal, taxTotal, discountTotal, err := uc.buildItems(in.Items)
	if err != nil {
		return nil, err
	}

	number, err := docnumber.Generate(docnumber.PrefixPurchase, uc.purchases.ExistsByNumber)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	invoiceDate := in.InvoiceDate
	if invoiceDate.IsZero() {
		invoiceDate = now
	}

	p := &entity.Purchase{
		ID:             uuid.New().String(),
		InvoiceNumber:  number,
		SupplierID:     in.SupplierID,
		WarehouseID:    in.WarehouseID,
		GrnID:          in.GrnID,
		InvoiceDate:    invoiceDate,
		DueDate:        in.DueDate,
		Status:         entity.PurchaseStatusDraft,
		Subtotal:       subtotal,
		TaxAmount:      taxTotal,
		DiscountAmount: discountTotal,
		ShippingCost:   in.ShippingCost.Round(2),
		Notes:          in.Notes,
		CreatedBy:      userID,
		CreatedAt:      now,
		UpdatedAt:      now,
		Items:          items,
	}
	p.TotalAmount = subtotal.Sub(discountTotal).Add(taxTotal).Add(p.ShippingCost).Round(2)
	for i := range p.Items {
		p.Items[i].PurchaseID = p.ID
	}

	if err := uc.purchases.Create(p); err != nil {
		return nil, err
	}
	out := dto.ToPurchaseResponse(p)
	return &out, nil
}

// GetByID carga una compra con sus líneas.
func (uc *UseCase) GetByID(ctx context.Context, id string) (*dto.PurchaseResponse, error) {
	p, err := uc.loadPurchase(id)
	if err != nil {
		return nil, err
	}
	out := dto.ToPurchaseResponse(p)
	return &out, nil
}

// List devuelve compras paginadas según filtro.
func (uc *UseCase) List(ctx context.Context, f repository.PurchaseFilter, page dto.PageRequest) (*dto.PurchaseListResponse, error) {
	page.DefaultPage()
	list, err := uc.purchases.List(f, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PurchaseResponse, 0, len(list))
	for _, p := range list {
		items = append(items, dto.ToPurchaseResponse(p))
	}
	return &dto.PurchaseListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Update modifica cabecera y/o reemplaza las líneas en bloque. Solo en draft.
func (uc *UseCase) Update(ctx context.Context, id string, in dto.UpdatePurchaseRequest) (*dto.PurchaseResponse, error) {
	p, err := uc.loadPurchase(id)
	if err != nil {
		return nil, err
	}
	if !p.CanEditItems() {
		return nil, &domain.InvalidStateError{DocumentID: id, CurrentState: p.Status, Transition: "update"}
	}

	if in.SupplierID != nil {
		p.SupplierID = *in.SupplierID
	}
	if in.WarehouseID != nil {
		p.WarehouseID = *in.WarehouseID
	}
	if err := uc.validateRefs(p.SupplierID, p.WarehouseID, p.GrnID); err != nil {
		return nil, err
	}
	if in.InvoiceDate != nil {
		p.InvoiceDate = *in.InvoiceDate
	}
	if in.DueDate != nil {
		p.DueDate = in.DueDate
	}
	if in.ShippingCost != nil {
		p.ShippingCost = in.ShippingCost.Round(2)
	}
	if in.Notes != nil {
		p.Notes = *in.Notes
	}

	if len(in.Items) > 0 {
		items, subtotal, taxTotal, discountTotal, err := uc.buildItems(in.Items)
		if err != nil {
			return nil, err
		}
		for i := range items {
			items[i].PurchaseID = p.ID
		}
		if err := uc.purchases.ReplaceItems(p.ID, items); err != nil {
			return nil, err
		}
		p.Items = items
		p.Subtotal = subtotal
		p.TaxAmount = taxTotal
		p.DiscountAmount = discountTotal
	}
	p.TotalAmount = p.Subtotal.Sub(p.DiscountAmount).Add(p.TaxAmount).Add(p.ShippingCost).Round(2)
	p.UpdatedAt = time.Now()

	if err := uc.purchases.Update(p); err != nil {
		return nil, err
	}
	out := dto.ToPurchaseResponse(p)
	return &out, nil
}

// Receive pasa la compra de draft a pending escribiendo una entrada en el
// libro por cada línea, al precio unitario de la línea. Todo dentro de una
// transacción: si una línea falla, ninguna se aplica.
func (uc *UseCase) Receive(ctx context.Context, id, userID string) (*dto.PurchaseResponse, error) {
	var (
		p       *entity.Purchase
		entries []*entity.StockLedger
	)
	err := uc.txRunner.Run(ctx, func(r stock.TxRepos) error {
		var err error
		p, err = r.Purchases.GetByID(id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		if p.Status != entity.PurchaseStatusDraft {
			return &domain.InvalidStateError{DocumentID: id, CurrentState: p.Status, Transition: "receive"}
		}

		entries = make([]*entity.StockLedger, 0, len(p.Items))
		for _, it := range p.Items {
			entry, err := uc.writer.Record(r.Stock, r.Ledger, stock.RecordInput{
				ProductID:       it.ProductID,
				WarehouseID:     p.WarehouseID,
				Direction:       entity.DirectionIn,
				ReferenceType:   entity.RefPurchase,
				ReferenceID:     p.ID,
				ReferenceNumber: p.InvoiceNumber,
				Quantity:        it.Quantity,
				UnitCost:        it.UnitPrice,
				ActorID:         userID,
				TransactionDate: p.InvoiceDate,
			})
			if err != nil {
				return err
			}
			entries = append(entries, entry)
		}

		p.Status = entity.PurchaseStatusPending
		p.UpdatedAt = time.Now()
		return r.Purchases.Update(p)
	})
	if err != nil {
		return nil, err
	}
	out := dto.ToPurchaseResponseWithLedger(p, entries)
	return &out, nil
}

// Cancel anula una compra en draft. Una compra recibida no se cancela:
// se compensa con una devolución.
func (uc *UseCase) Cancel(ctx context.Context, id string) (*dto.PurchaseResponse, error) {
	p, err := uc.loadPurchase(id)
	if err != nil {
		return nil, err
	}
	if p.Status != entity.PurchaseStatusDraft {
		return nil, &domain.InvalidStateError{DocumentID: id, CurrentState: p.Status, Transition: "cancel"}
	}
	p.Status = entity.PurchaseStatusCancelled
	p.UpdatedAt = time.Now()
	if err := uc.purchases.Update(p); err != nil {
		return nil, err
	}
	out := dto.ToPurchaseResponse(p)
	return &out, nil
}

// Delete elimina una compra en draft con sus líneas.
func (uc *UseCase) Delete(ctx context.Context, id string) error {
	p, err := uc.loadPurchase(id)
	if err != nil {
		return err
	}
	if p.Status != entity.PurchaseStatusDraft {
		return &domain.InvalidStateError{DocumentID: id, CurrentState: p.Status, Transition: "delete"}
	}
	return uc.purchases.Delete(id)
}

func (uc *UseCase) loadPurchase(id string) (*entity.Purchase, error) {
	p, err := uc.purchases.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// validateRefs verifica proveedor, bodega y GRN opcional.
func (uc *UseCase) validateRefs(supplierID, warehouseID, grnID string) error {
	if s, err := uc.suppliers.GetByID(supplierID); err != nil || s == nil {
		return domain.ErrNotFound
	}
	if w, err := uc.warehouses.GetByID(warehouseID); err != nil || w == nil {
		return domain.ErrNotFound
	}
	if grnID != "" {
		if g, err := uc.grns.GetByID(grnID); err != nil || g == nil {
			return domain.ErrNotFound
		}
	}
	return nil
}

// buildItems valida las líneas, calcula totales y devuelve las entidades.
func (uc *UseCase) buildItems(reqs []dto.PurchaseItemRequest) (items []entity.PurchaseItem, subtotal, taxTotal, discountTotal decimal.Decimal, err error) {
	items = make([]entity.PurchaseItem, 0, len(reqs))
	for _, r := range reqs {
		if r.ProductID == "" || r.Quantity <= 0 || r.UnitPrice.IsNegative() || r.Discount.IsNegative() || r.Tax.IsNegative() {
			return nil, decimal.Zero, decimal.Zero, decimal.Zero, domain.ErrInvalidInput
		}
		prod, perr := uc.products.GetByID(r.ProductID)
		if perr != nil || prod == nil {
			return nil, decimal.Zero, decimal.Zero, decimal.Zero, domain.ErrNotFound
		}

		qty := decimal.NewFromInt(r.Quantity)
		lineBase := r.UnitPrice.Mul(qty)
		lineTotal := lineBase.Sub(r.Discount).Add(r.Tax).Round(2)

		items = append(items, entity.PurchaseItem{
			ID:        uuid.New().String(),
			ProductID: r.ProductID,
			Quantity:  r.Quantity,
			UnitPrice: r.UnitPrice,
			Discount:  r.Discount,
			Tax:       r.Tax,
			Total:     lineTotal,
			Notes:     r.Notes,
		})
		subtotal = subtotal.Add(lineBase)
		taxTotal = taxTotal.Add(r.Tax)
		discountTotal = discountTotal.Add(r.Discount)
	}
	return items, subtotal.Round(2), taxTotal.Round(2), discountTotal.Round(2), nil
}
