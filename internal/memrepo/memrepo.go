// Package memrepo provee repositorios en memoria para las pruebas de los
// casos de uso. No son transaccionales: el TxRunner ejecuta la función
// directamente sobre los mismos mapas, por lo que las pruebas de rollback
// deben verificar estados, no reversiones parciales.
package memrepo

import (
	"context"
	"strings"

	"github.com/jhoicas/almacen-erp/internal/application/stock"
	"github.com/jhoicas/almacen-erp/internal/domain/entity"
	"github.com/jhoicas/almacen-erp/internal/domain/repository"
)

// Store agrupa todos los repositorios en memoria sobre los que opera una
// prueba. Los campos exportados permiten sembrar y examinar estado directo.
type Store struct {
	Stocks      *StockRepo
	Ledger      *LedgerRepo
	Purchases   *PurchaseRepo
	Returns     *PurchaseReturnRepo
	Transfers   *TransferRepo
	Adjustments *AdjustmentRepo
	Grns        *GrnRepo
	Products    *ProductRepo
	Warehouses  *WarehouseRepo
	Suppliers   *SupplierRepo
	Categories  *CategoryRepo
	Customers   *CustomerRepo
	Users       *UserRepo
}

// New construye un Store vacío.
func New() *Store {
	return &Store{
		Stocks:      &StockRepo{accounts: make(map[string]*entity.Stock)},
		Ledger:      &LedgerRepo{},
		Purchases:   &PurchaseRepo{byID: make(map[string]*entity.Purchase)},
		Returns:     &PurchaseReturnRepo{byID: make(map[string]*entity.PurchaseReturn)},
		Transfers:   &TransferRepo{byID: make(map[string]*entity.Transfer)},
		Adjustments: &AdjustmentRepo{byID: make(map[string]*entity.Adjustment)},
		Grns:        &GrnRepo{byID: make(map[string]*entity.Grn)},
		Products:    &ProductRepo{byID: make(map[string]*entity.Product)},
		Warehouses:  &WarehouseRepo{byID: make(map[string]*entity.Warehouse)},
		Suppliers:   &SupplierRepo{byID: make(map[string]*entity.Supplier)},
		Categories:  &CategoryRepo{byID: make(map[string]*entity.Category)},
		Customers:   &CustomerRepo{byID: make(map[string]*entity.Customer)},
		Users:       &UserRepo{byID: make(map[string]*entity.User)},
	}
}

// TxRunner devuelve un stock.TxRunner que pasa los repositorios del Store
// tal cual, sin transacción real.
func (s *Store) TxRunner() stock.TxRunner { return runner{s} }

type runner struct{ s *Store }

func (r runner) Run(ctx context.Context, fn func(tx stock.TxRepos) error) error {
	return fn(stock.TxRepos{
		Stock:       r.s.Stocks,
		Ledger:      r.s.Ledger,
		Purchases:   r.s.Purchases,
		Returns:     r.s.Returns,
		Transfers:   r.s.Transfers,
		Adjustments: r.s.Adjustments,
		Grns:        r.s.Grns,
		Products:    r.s.Products,
	})
}

var (
	_ repository.StockRepository          = (*StockRepo)(nil)
	_ repository.StockLedgerRepository    = (*LedgerRepo)(nil)
	_ repository.PurchaseRepository       = (*PurchaseRepo)(nil)
	_ repository.PurchaseReturnRepository = (*PurchaseReturnRepo)(nil)
	_ repository.TransferRepository       = (*TransferRepo)(nil)
	_ repository.AdjustmentRepository     = (*AdjustmentRepo)(nil)
	_ repository.GrnRepository            = (*GrnRepo)(nil)
	_ repository.ProductRepository        = (*ProductRepo)(nil)
	_ repository.WarehouseRepository      = (*WarehouseRepo)(nil)
	_ repository.SupplierRepository       = (*SupplierRepo)(nil)
	_ repository.CategoryRepository       = (*CategoryRepo)(nil)
	_ repository.CustomerRepository       = (*CustomerRepo)(nil)
	_ repository.UserRepository           = (*UserRepo)(nil)
)

// ──────────────────────────────────────────────────────────────────────────────
// Siembra
// ──────────────────────────────────────────────────────────────────────────────

// SeedProduct registra un producto activo con el ID dado.
func (s *Store) SeedProduct(id string) *entity.Product {
	p := &entity.Product{ID: id, SKU: "SKU-" + id, Name: "Producto " + id, IsActive: true}
	s.Products.byID[id] = p
	return p
}

// SeedWarehouse registra una bodega activa con el ID dado.
func (s *Store) SeedWarehouse(id string) *entity.Warehouse {
	w := &entity.Warehouse{ID: id, Code: id, Name: "Bodega " + id, IsActive: true}
	s.Warehouses.byID[id] = w
	return w
}

// SeedSupplier registra un proveedor activo con el ID dado.
func (s *Store) SeedSupplier(id string) *entity.Supplier {
	sp := &entity.Supplier{ID: id, Name: "Proveedor " + id, IsActive: true}
	s.Suppliers.byID[id] = sp
	return sp
}

// SeedStock fija la cuenta de existencias de (producto, bodega).
func (s *Store) SeedStock(st *entity.Stock) {
	cp := *st
	s.Stocks.accounts[stockKey(st.ProductID, st.WarehouseID)] = &cp
}

func stockKey(productID, warehouseID string) string { return productID + "|" + warehouseID }

// ──────────────────────────────────────────────────────────────────────────────
// Stock y libro
// ──────────────────────────────────────────────────────────────────────────────

// StockRepo implementa repository.StockRepository sobre un mapa.
type StockRepo struct {
	accounts map[string]*entity.Stock
}

func (r *StockRepo) Get(productID, warehouseID string) (*entity.Stock, error) {
	if s, ok := r.accounts[stockKey(productID, warehouseID)]; ok {
		cp := *s
		return &cp, nil
	}
	return entity.NewStock(productID, warehouseID), nil
}

func (r *StockRepo) GetForUpdate(productID, warehouseID string) (*entity.Stock, error) {
	return r.Get(productID, warehouseID)
}

func (r *StockRepo) Upsert(s *entity.Stock) error {
	cp := *s
	r.accounts[stockKey(s.ProductID, s.WarehouseID)] = &cp
	return nil
}

func (r *StockRepo) List(f repository.StockFilter, limit, offset int) ([]*entity.Stock, error) {
	var out []*entity.Stock
	for _, s := range r.accounts {
		if f.ProductID != "" && s.ProductID != f.ProductID {
			continue
		}
		if f.WarehouseID != "" && s.WarehouseID != f.WarehouseID {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

// LedgerRepo implementa repository.StockLedgerRepository acumulando los
// asientos en orden de inserción. Entries queda expuesto para aserciones.
type LedgerRepo struct {
	Entries []*entity.StockLedger
}

func (r *LedgerRepo) Create(e *entity.StockLedger) error {
	cp := *e
	r.Entries = append(r.Entries, &cp)
	return nil
}

func (r *LedgerRepo) GetByID(id string) (*entity.StockLedger, error) {
	for _, e := range r.Entries {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, nil
}

func (r *LedgerRepo) List(f repository.StockLedgerFilter, limit, offset int) ([]*entity.StockLedger, error) {
	return r.Entries, nil
}

func (r *LedgerRepo) ListByAccount(productID, warehouseID string) ([]*entity.StockLedger, error) {
	var out []*entity.StockLedger
	for _, e := range r.Entries {
		if e.ProductID == productID && e.WarehouseID == warehouseID {
			out = append(out, e)
		}
	}
	return out, nil
}

// ByReference devuelve los asientos cuyo ReferenceID coincide.
func (r *LedgerRepo) ByReference(referenceID string) []*entity.StockLedger {
	var out []*entity.StockLedger
	for _, e := range r.Entries {
		if e.ReferenceID == referenceID {
			out = append(out, e)
		}
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Documentos
// ──────────────────────────────────────────────────────────────────────────────

// PurchaseRepo implementa repository.PurchaseRepository. TakenNumbers, si se
// asigna, fuerza el resultado de ExistsByNumber (para probar colisiones).
type PurchaseRepo struct {
	byID         map[string]*entity.Purchase
	TakenNumbers func(string) bool
}

func (r *PurchaseRepo) Create(p *entity.Purchase) error {
	cp := *p
	cp.Items = append([]entity.PurchaseItem(nil), p.Items...)
	r.byID[p.ID] = &cp
	return nil
}

func (r *PurchaseRepo) GetByID(id string) (*entity.Purchase, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	cp.Items = append([]entity.PurchaseItem(nil), p.Items...)
	return &cp, nil
}

func (r *PurchaseRepo) Update(p *entity.Purchase) error {
	stored, ok := r.byID[p.ID]
	if !ok {
		return nil
	}
	items := stored.Items
	cp := *p
	cp.Items = items
	r.byID[p.ID] = &cp
	return nil
}

func (r *PurchaseRepo) ReplaceItems(purchaseID string, items []entity.PurchaseItem) error {
	if p, ok := r.byID[purchaseID]; ok {
		p.Items = append([]entity.PurchaseItem(nil), items...)
	}
	return nil
}

func (r *PurchaseRepo) List(f repository.PurchaseFilter, limit, offset int) ([]*entity.Purchase, error) {
	var out []*entity.Purchase
	for _, p := range r.byID {
		if f.SupplierID != "" && p.SupplierID != f.SupplierID {
			continue
		}
		if f.WarehouseID != "" && p.WarehouseID != f.WarehouseID {
			continue
		}
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if f.Search != "" && !strings.Contains(p.InvoiceNumber, f.Search) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *PurchaseRepo) Delete(id string) error {
	delete(r.byID, id)
	return nil
}

func (r *PurchaseRepo) ExistsByNumber(n string) (bool, error) {
	if r.TakenNumbers != nil {
		return r.TakenNumbers(n), nil
	}
	for _, p := range r.byID {
		if p.InvoiceNumber == n {
			return true, nil
		}
	}
	return false, nil
}

// PurchaseReturnRepo implementa repository.PurchaseReturnRepository.
type PurchaseReturnRepo struct {
	byID         map[string]*entity.PurchaseReturn
	TakenNumbers func(string) bool
}

func (r *PurchaseReturnRepo) Create(ret *entity.PurchaseReturn) error {
	cp := *ret
	cp.Items = append([]entity.PurchaseReturnItem(nil), ret.Items...)
	r.byID[ret.ID] = &cp
	return nil
}

func (r *PurchaseReturnRepo) GetByID(id string) (*entity.PurchaseReturn, error) {
	ret, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *ret
	cp.Items = append([]entity.PurchaseReturnItem(nil), ret.Items...)
	return &cp, nil
}

func (r *PurchaseReturnRepo) Update(ret *entity.PurchaseReturn) error {
	stored, ok := r.byID[ret.ID]
	if !ok {
		return nil
	}
	items := stored.Items
	cp := *ret
	cp.Items = items
	r.byID[ret.ID] = &cp
	return nil
}

func (r *PurchaseReturnRepo) ReplaceItems(returnID string, items []entity.PurchaseReturnItem) error {
	if ret, ok := r.byID[returnID]; ok {
		ret.Items = append([]entity.PurchaseReturnItem(nil), items...)
	}
	return nil
}

func (r *PurchaseReturnRepo) List(f repository.PurchaseReturnFilter, limit, offset int) ([]*entity.PurchaseReturn, error) {
	var out []*entity.PurchaseReturn
	for _, ret := range r.byID {
		if f.SupplierID != "" && ret.SupplierID != f.SupplierID {
			continue
		}
		if f.WarehouseID != "" && ret.WarehouseID != f.WarehouseID {
			continue
		}
		if f.Status != "" && ret.Status != f.Status {
			continue
		}
		out = append(out, ret)
	}
	return out, nil
}

func (r *PurchaseReturnRepo) Delete(id string) error {
	delete(r.byID, id)
	return nil
}

func (r *PurchaseReturnRepo) ExistsByNumber(n string) (bool, error) {
	if r.TakenNumbers != nil {
		return r.TakenNumbers(n), nil
	}
	for _, ret := range r.byID {
		if ret.ReturnNumber == n {
			return true, nil
		}
	}
	return false, nil
}

// TransferRepo implementa repository.TransferRepository.
type TransferRepo struct {
	byID         map[string]*entity.Transfer
	TakenNumbers func(string) bool
}

func (r *TransferRepo) Create(t *entity.Transfer) error {
	cp := *t
	cp.Items = append([]entity.TransferItem(nil), t.Items...)
	r.byID[t.ID] = &cp
	return nil
}

func (r *TransferRepo) GetByID(id string) (*entity.Transfer, error) {
	t, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	cp.Items = append([]entity.TransferItem(nil), t.Items...)
	return &cp, nil
}

func (r *TransferRepo) Update(t *entity.Transfer) error {
	stored, ok := r.byID[t.ID]
	if !ok {
		return nil
	}
	items := stored.Items
	cp := *t
	cp.Items = items
	r.byID[t.ID] = &cp
	return nil
}

func (r *TransferRepo) ReplaceItems(transferID string, items []entity.TransferItem) error {
	if t, ok := r.byID[transferID]; ok {
		t.Items = append([]entity.TransferItem(nil), items...)
	}
	return nil
}

func (r *TransferRepo) List(f repository.TransferFilter, limit, offset int) ([]*entity.Transfer, error) {
	var out []*entity.Transfer
	for _, t := range r.byID {
		if f.FromWarehouseID != "" && t.FromWarehouseID != f.FromWarehouseID {
			continue
		}
		if f.ToWarehouseID != "" && t.ToWarehouseID != f.ToWarehouseID {
			continue
		}
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *TransferRepo) Delete(id string) error {
	delete(r.byID, id)
	return nil
}

func (r *TransferRepo) ExistsByNumber(n string) (bool, error) {
	if r.TakenNumbers != nil {
		return r.TakenNumbers(n), nil
	}
	for _, t := range r.byID {
		if t.TransferNumber == n {
			return true, nil
		}
	}
	return false, nil
}

// AdjustmentRepo implementa repository.AdjustmentRepository.
type AdjustmentRepo struct {
	byID         map[string]*entity.Adjustment
	TakenNumbers func(string) bool
}

func (r *AdjustmentRepo) Create(a *entity.Adjustment) error {
	cp := *a
	cp.Items = append([]entity.AdjustmentItem(nil), a.Items...)
	r.byID[a.ID] = &cp
	return nil
}

func (r *AdjustmentRepo) GetByID(id string) (*entity.Adjustment, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	cp.Items = append([]entity.AdjustmentItem(nil), a.Items...)
	return &cp, nil
}

func (r *AdjustmentRepo) Update(a *entity.Adjustment) error {
	stored, ok := r.byID[a.ID]
	if !ok {
		return nil
	}
	items := stored.Items
	cp := *a
	cp.Items = items
	r.byID[a.ID] = &cp
	return nil
}

func (r *AdjustmentRepo) ReplaceItems(adjustmentID string, items []entity.AdjustmentItem) error {
	if a, ok := r.byID[adjustmentID]; ok {
		a.Items = append([]entity.AdjustmentItem(nil), items...)
	}
	return nil
}

func (r *AdjustmentRepo) List(f repository.AdjustmentFilter, limit, offset int) ([]*entity.Adjustment, error) {
	var out []*entity.Adjustment
	for _, a := range r.byID {
		if f.WarehouseID != "" && a.WarehouseID != f.WarehouseID {
			continue
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if f.Type != "" && a.Type != f.Type {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *AdjustmentRepo) Delete(id string) error {
	delete(r.byID, id)
	return nil
}

func (r *AdjustmentRepo) ExistsByNumber(n string) (bool, error) {
	if r.TakenNumbers != nil {
		return r.TakenNumbers(n), nil
	}
	for _, a := range r.byID {
		if a.AdjustmentNumber == n {
			return true, nil
		}
	}
	return false, nil
}

// GrnRepo implementa repository.GrnRepository.
type GrnRepo struct {
	byID         map[string]*entity.Grn
	TakenNumbers func(string) bool
}

func (r *GrnRepo) Create(g *entity.Grn) error {
	cp := *g
	cp.Items = append([]entity.GrnItem(nil), g.Items...)
	r.byID[g.ID] = &cp
	return nil
}

func (r *GrnRepo) GetByID(id string) (*entity.Grn, error) {
	g, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *g
	cp.Items = append([]entity.GrnItem(nil), g.Items...)
	return &cp, nil
}

func (r *GrnRepo) Update(g *entity.Grn) error {
	stored, ok := r.byID[g.ID]
	if !ok {
		return nil
	}
	items := stored.Items
	cp := *g
	cp.Items = items
	r.byID[g.ID] = &cp
	return nil
}

func (r *GrnRepo) ReplaceItems(grnID string, items []entity.GrnItem) error {
	if g, ok := r.byID[grnID]; ok {
		g.Items = append([]entity.GrnItem(nil), items...)
	}
	return nil
}

func (r *GrnRepo) List(f repository.GrnFilter, limit, offset int) ([]*entity.Grn, error) {
	var out []*entity.Grn
	for _, g := range r.byID {
		if f.WarehouseID != "" && g.WarehouseID != f.WarehouseID {
			continue
		}
		if f.Status != "" && g.Status != f.Status {
			continue
		}
		out = append(out, g)
	}
	return out, nil
}

func (r *GrnRepo) Delete(id string) error {
	delete(r.byID, id)
	return nil
}

func (r *GrnRepo) ExistsByNumber(n string) (bool, error) {
	if r.TakenNumbers != nil {
		return r.TakenNumbers(n), nil
	}
	for _, g := range r.byID {
		if g.GrnNumber == n {
			return true, nil
		}
	}
	return false, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Datos maestros
// ──────────────────────────────────────────────────────────────────────────────

// ProductRepo implementa repository.ProductRepository.
type ProductRepo struct {
	byID map[string]*entity.Product
}

func (r *ProductRepo) Create(p *entity.Product) error {
	cp := *p
	r.byID[p.ID] = &cp
	return nil
}

func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *ProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	for _, p := range r.byID {
		if p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) Update(p *entity.Product) error {
	cp := *p
	r.byID[p.ID] = &cp
	return nil
}

func (r *ProductRepo) List(search, categoryID string, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.byID {
		if categoryID != "" && p.CategoryID != categoryID {
			continue
		}
		if search != "" && !strings.Contains(p.Name, search) && !strings.Contains(p.SKU, search) {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *ProductRepo) Delete(id string) error {
	delete(r.byID, id)
	return nil
}

// WarehouseRepo implementa repository.WarehouseRepository.
type WarehouseRepo struct {
	byID map[string]*entity.Warehouse
}

func (r *WarehouseRepo) Create(w *entity.Warehouse) error {
	cp := *w
	r.byID[w.ID] = &cp
	return nil
}

func (r *WarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	w, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *w
	return &cp, nil
}

func (r *WarehouseRepo) Update(w *entity.Warehouse) error {
	cp := *w
	r.byID[w.ID] = &cp
	return nil
}

func (r *WarehouseRepo) List(limit, offset int) ([]*entity.Warehouse, error) {
	var out []*entity.Warehouse
	for _, w := range r.byID {
		cp := *w
		out = append(out, &cp)
	}
	return out, nil
}

func (r *WarehouseRepo) Delete(id string) error {
	delete(r.byID, id)
	return nil
}

// SupplierRepo implementa repository.SupplierRepository.
type SupplierRepo struct {
	byID map[string]*entity.Supplier
}

func (r *SupplierRepo) Create(s *entity.Supplier) error {
	cp := *s
	r.byID[s.ID] = &cp
	return nil
}

func (r *SupplierRepo) GetByID(id string) (*entity.Supplier, error) {
	s, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *SupplierRepo) Update(s *entity.Supplier) error {
	cp := *s
	r.byID[s.ID] = &cp
	return nil
}

func (r *SupplierRepo) List(search string, limit, offset int) ([]*entity.Supplier, error) {
	var out []*entity.Supplier
	for _, s := range r.byID {
		if search != "" && !strings.Contains(s.Name, search) {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

func (r *SupplierRepo) Delete(id string) error {
	delete(r.byID, id)
	return nil
}

// CategoryRepo implementa repository.CategoryRepository.
type CategoryRepo struct {
	byID map[string]*entity.Category
}

func (r *CategoryRepo) Create(c *entity.Category) error {
	cp := *c
	r.byID[c.ID] = &cp
	return nil
}

func (r *CategoryRepo) GetByID(id string) (*entity.Category, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *CategoryRepo) Update(c *entity.Category) error {
	cp := *c
	r.byID[c.ID] = &cp
	return nil
}

func (r *CategoryRepo) List(limit, offset int) ([]*entity.Category, error) {
	var out []*entity.Category
	for _, c := range r.byID {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (r *CategoryRepo) Delete(id string) error {
	delete(r.byID, id)
	return nil
}

// CustomerRepo implementa repository.CustomerRepository.
type CustomerRepo struct {
	byID map[string]*entity.Customer
}

func (r *CustomerRepo) Create(c *entity.Customer) error {
	cp := *c
	r.byID[c.ID] = &cp
	return nil
}

func (r *CustomerRepo) GetByID(id string) (*entity.Customer, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *CustomerRepo) Update(c *entity.Customer) error {
	cp := *c
	r.byID[c.ID] = &cp
	return nil
}

func (r *CustomerRepo) List(search string, limit, offset int) ([]*entity.Customer, error) {
	var out []*entity.Customer
	for _, c := range r.byID {
		if search != "" && !strings.Contains(c.Name, search) {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (r *CustomerRepo) Delete(id string) error {
	delete(r.byID, id)
	return nil
}

// UserRepo implementa repository.UserRepository.
type UserRepo struct {
	byID map[string]*entity.User
}

func (r *UserRepo) Create(u *entity.User) error {
	cp := *u
	r.byID[u.ID] = &cp
	return nil
}

func (r *UserRepo) GetByID(id string) (*entity.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepo) GetByEmail(email string) (*entity.User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) Update(u *entity.User) error {
	cp := *u
	r.byID[u.ID] = &cp
	return nil
}

func (r *UserRepo) List(limit, offset int) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.byID {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}
