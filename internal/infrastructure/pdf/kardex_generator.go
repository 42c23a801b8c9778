// Package pdf implementa la generación del kardex de inventario en PDF: el
// libro cronológico de entradas y salidas de un producto en una bodega.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Producto + SKU      │  Bodega + Fecha de emisión   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: Existencia actual / Costo promedio / Valor total   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Documento | Tipo | Ent. | Sal. | Costo |     │
//	│         Saldo                                                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: leyenda del método de valoración                    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	appstock "github.com/jhoicas/almacen-erp/internal/application/stock"
	"github.com/jhoicas/almacen-erp/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 160, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoKardexGenerator implementa stock.KardexPDFGenerator usando Maroto v2.
type MarotoKardexGenerator struct{}

// NewMarotoKardexGenerator construye el generador.
func NewMarotoKardexGenerator() *MarotoKardexGenerator { return &MarotoKardexGenerator{} }

var _ appstock.KardexPDFGenerator = (*MarotoKardexGenerator)(nil)

// GenerateKardexPDF genera el kardex del producto en la bodega y devuelve sus
// bytes. Los asientos llegan en orden cronológico ascendente.
func (g *MarotoKardexGenerator) GenerateKardexPDF(
	_ context.Context,
	product *entity.Product,
	warehouse *entity.Warehouse,
	account *entity.Stock,
	entries []*entity.StockLedger,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Kardex de Inventario", true).
		WithAuthor("almacen-erp", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(product, warehouse))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(account))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableEntryRows(entries) {
		m.AddRows(r)
	}
	if len(entries) == 0 {
		m.AddRows(emptyRow())
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar kardex: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: producto + SKU (izq) y bodega (der).
func headerRow(product *entity.Product, warehouse *entity.Warehouse) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(product.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("SKU: "+product.SKU, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("KARDEX DE INVENTARIO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(warehouse.Code+" — "+warehouse.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 7,
			}),
			text.New(nonEmpty(warehouse.Address, "—"), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

// summaryRow: estado actual de la cuenta (producto, bodega).
func summaryRow(account *entity.Stock) core.Row {
	cell := func(label, value string) core.Col {
		return col.New(4).Add(
			text.New(label, props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 11, Top: 7}),
		)
	}
	return row.New(14).Add(
		cell("EXISTENCIA ACTUAL", fmt.Sprintf("%d", account.Quantity)),
		cell("COSTO PROMEDIO", "$"+formatMoney(account.AverageCost.StringFixed(2))),
		cell("VALOR TOTAL", "$"+formatMoney(account.TotalValue.StringFixed(2))),
	)
}

// tableHeaderRow: cabecera de la tabla de movimientos.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 2, align.Left),
		h("Documento", 3, align.Left),
		h("Tipo", 2, align.Left),
		h("Entrada", 1, align.Right),
		h("Salida", 1, align.Right),
		h("Costo Unit.", 2, align.Right),
		h("Saldo", 1, align.Right),
	)
}

// tableEntryRows: una fila por asiento del libro.
func tableEntryRows(entries []*entity.StockLedger) []core.Row {
	result := make([]core.Row, 0, len(entries))
	for _, e := range entries {
		in, out := "", ""
		qtyColor := colorGray
		if e.Direction == entity.DirectionOut {
			out = fmt.Sprintf("%d", e.Quantity)
			qtyColor = colorRed
		} else {
			in = fmt.Sprintf("%d", e.Quantity)
		}
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(
				e.TransactionDate.Format("02/01/2006"),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(3).Add(text.New(
				e.ReferenceNumber,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				referenceLabel(e.ReferenceType),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1, Color: colorGray},
			)),
			col.New(1).Add(text.New(
				in,
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				out,
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1, Color: qtyColor},
			)),
			col.New(2).Add(text.New(
				"$"+formatMoney(e.UnitCost.StringFixed(2)),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				fmt.Sprintf("%d", e.BalanceAfter),
				props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// emptyRow: marcador cuando el libro no tiene movimientos.
func emptyRow() core.Row {
	return row.New(10).Add(col.New(12).Add(
		text.New("Sin movimientos registrados para este producto en la bodega.", props.Text{
			Size: 8, Align: align.Center, Color: colorGray, Top: 3,
		}),
	))
}

// footerRow: leyenda del método de valoración.
func footerRow() core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(
			"Inventario valorado por el método de costo promedio ponderado. "+
				"Los asientos del libro son inmutables; las correcciones se registran "+
				"como movimientos de compensación.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

// referenceLabel traduce el tipo de documento a una etiqueta corta.
func referenceLabel(refType string) string {
	switch refType {
	case entity.RefPurchase:
		return "Compra"
	case entity.RefPurchaseReturn:
		return "Dev. compra"
	case entity.RefTransferIn:
		return "Trasl. entrada"
	case entity.RefTransferOut:
		return "Trasl. salida"
	case entity.RefAdjustment:
		return "Ajuste"
	case entity.RefOpeningStock:
		return "Saldo inicial"
	default:
		return refType
	}
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney inserta puntos de miles en la parte entera de un string
// numérico con decimales separados por punto.
// Ej: "25000.50" → "25.000,50", "1000000.00" → "1.000.000,00"
func formatMoney(s string) string {
	intPart, decPart := s, ""
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			intPart, decPart = s[:i], s[i+1:]
			break
		}
	}
	n := len(intPart)
	if n > 3 {
		buf := make([]byte, 0, n+n/3)
		for i := 0; i < n; i++ {
			if i > 0 && (n-i)%3 == 0 {
				buf = append(buf, '.')
			}
			buf = append(buf, intPart[i])
		}
		intPart = string(buf)
	}
	if decPart == "" {
		return intPart
	}
	return intPart + "," + decPart
}
