// Package costing implementa la política de costeo promedio ponderado
// (servicio de dominio puro, sin I/O). Es el único lugar donde se calcula
// costo promedio y valor total; todos los documentos la invocan igual.
package costing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-erp/internal/domain"
	"github.com/jhoicas/almacen-erp/internal/domain/entity"
)

// Precisión interna del costo promedio. Se guarda con 4 decimales para que
// el invariante TotalValue == Quantity * AverageCost se sostenga dentro de
// un centavo; el libro y las respuestas de la API redondean a 2.
const avgCostScale = 4

// moneyScale precisión de valores monetarios en el libro.
const moneyScale = 2

// ApplyInbound aplica una entrada a la cuenta: suma cantidad, acumula valor y
// recalcula el promedio ponderado.
//
//	NuevoValor = ValorActual + Cantidad*CostoUnitario
//	NuevoPromedio = NuevoValor / NuevaCantidad
//
// Devuelve el costo unitario y el costo total a registrar en el libro.
func ApplyInbound(s *entity.Stock, qty int64, unitCost decimal.Decimal) (ledgerUnitCost, ledgerTotalCost decimal.Decimal, err error) {
	if qty <= 0 || unitCost.IsNegative() {
		return decimal.Zero, decimal.Zero, domain.ErrInvalidInput
	}
	qtyDec := decimal.NewFromInt(qty)
	totalCost := unitCost.Mul(qtyDec).Round(moneyScale)

	newQty := s.Quantity + qty
	newValue := s.TotalValue.Add(totalCost).Round(moneyScale)

	s.Quantity = newQty
	s.TotalValue = newValue
	// newQty > 0 siempre en una entrada; no hay división por cero.
	s.AverageCost = newValue.DivRound(decimal.NewFromInt(newQty), avgCostScale)

	return unitCost.Round(moneyScale), totalCost, nil
}

// ApplyOutbound aplica una salida a la cuenta usando el costo promedio
// actual como costo unitario (método de promedio ponderado): resta cantidad
// y valor, el promedio no cambia. El caller debe haber validado
// disponibilidad (AvailabilityGuard); aquí se revalida por defensa.
func ApplyOutbound(s *entity.Stock, qty int64) (unitCostUsed, totalCostUsed decimal.Decimal, err error) {
	if qty <= 0 {
		return decimal.Zero, decimal.Zero, domain.ErrInvalidInput
	}
	if qty > s.Quantity {
		return decimal.Zero, decimal.Zero, &domain.InsufficientStockError{
			ProductID: s.ProductID,
			Requested: qty,
			Available: s.Quantity,
		}
	}
	// Snapshot del promedio antes de mutar: si la cuenta queda en cero el
	// promedio se resetea, pero el asiento debe llevar el costo usado.
	avgUsed := s.AverageCost
	qtyDec := decimal.NewFromInt(qty)
	totalCost := avgUsed.Mul(qtyDec).Round(moneyScale)

	s.Quantity -= qty
	s.TotalValue = s.TotalValue.Sub(totalCost).Round(moneyScale)
	if s.Quantity == 0 {
		// Convención: cuenta en cero tiene promedio 0 y valor 0 (descarta el
		// residuo de redondeo acumulado).
		s.AverageCost = decimal.Zero
		s.TotalValue = decimal.Zero
	}

	return avgUsed.Round(moneyScale), totalCost, nil
}
