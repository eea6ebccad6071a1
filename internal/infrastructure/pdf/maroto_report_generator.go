// Package pdf genera el reporte de consistencia de inventario en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + fecha de generación                        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: libros revisados / tiendas / hallazgos             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Libro | Caché | Consolidado | Diferencia             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TIENDAS SIN REGISTROS + LIBROS SIN VERIFICAR                │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strconv"

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

	"github.com/tu-usuario/libreria-stock/internal/application/audit"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 180, Green: 40, Blue: 40}
)

var _ audit.ReportPDFGenerator = (*MarotoReportGenerator)(nil)

// MarotoReportGenerator implementa audit.ReportPDFGenerator usando Maroto v2.
type MarotoReportGenerator struct{}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

// Generate genera el PDF del reporte y devuelve sus bytes.
func (g *MarotoReportGenerator) Generate(report *audit.Report) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de consistencia de inventario", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	// Tabla de deriva por libro
	if len(report.Inconsistent) > 0 {
		m.AddRows(sectionTitleRow("LIBROS CON DERIVA DE STOCK"))
		m.AddRows(driftHeaderRow())
		for _, r := range driftRows(report.Inconsistent) {
			m.AddRows(r)
		}
	} else {
		m.AddRows(sectionTitleRow("SIN DERIVA DE STOCK DETECTADA"))
	}

	if len(report.StoresWithoutRecords) > 0 {
		m.AddRows(line.NewRow(2))
		m.AddRows(sectionTitleRow("TIENDAS ACTIVAS SIN REGISTROS DE INVENTARIO"))
		for _, r := range storeRows(report.StoresWithoutRecords) {
			m.AddRows(r)
		}
	}

	if len(report.DegradedBooks) > 0 {
		m.AddRows(line.NewRow(2))
		m.AddRows(sectionTitleRow("LIBROS SIN VERIFICAR (CONSOLIDACIÓN DEGRADADA)"))
		for _, r := range degradedRows(report.DegradedBooks) {
			m.AddRows(r)
		}
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: título (izq) y fecha de generación (der).
func headerRow(report *audit.Report) core.Row {
	fecha := report.GeneratedAt.Format("02/01/2006 15:04")
	return row.New(14).Add(
		col.New(8).Add(
			text.New("REPORTE DE CONSISTENCIA DE INVENTARIO", props.Text{
				Style: fontstyle.Bold, Size: 12, Color: colorPrimary, Top: 2,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 4, Color: colorGray,
			}),
		),
	)
}

// summaryRow: contadores globales del reporte.
func summaryRow(report *audit.Report) core.Row {
	stat := func(label string, value int) core.Col {
		return col.New(3).Add(
			text.New(strconv.Itoa(value), props.Text{
				Style: fontstyle.Bold, Size: 14, Align: align.Center, Top: 1,
				Color: colorPrimary,
			}),
			text.New(label, props.Text{
				Size: 7, Align: align.Center, Top: 9, Color: colorGray,
			}),
		)
	}
	return row.New(16).Add(
		stat("Libros revisados", report.BooksChecked),
		stat("Tiendas revisadas", report.StoresChecked),
		stat("Libros con deriva", len(report.Inconsistent)),
		stat("Sin verificar", len(report.DegradedBooks)),
	)
}

func sectionTitleRow(title string) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(title, props.Text{
			Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 2,
		}),
	))
}

// driftHeaderRow: cabecera de la tabla de deriva.
func driftHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
		}))
	}
	return row.New(7).Add(
		h("Libro", 6, align.Left),
		h("Caché", 2, align.Right),
		h("Consolidado", 2, align.Right),
		h("Diferencia", 2, align.Right),
	)
}

// driftRows: una fila por libro con deriva.
func driftRows(drifts []audit.BookDrift) []core.Row {
	result := make([]core.Row, 0, len(drifts))
	for _, d := range drifts {
		result = append(result, row.New(6).Add(
			col.New(6).Add(text.New(d.Title, props.Text{
				Size: 8, Align: align.Left, Top: 1, Left: 1,
			})),
			col.New(2).Add(text.New(strconv.Itoa(d.CachedStock), props.Text{
				Size: 8, Align: align.Right, Top: 1, Right: 1,
			})),
			col.New(2).Add(text.New(strconv.Itoa(d.ConsolidatedStock), props.Text{
				Size: 8, Align: align.Right, Top: 1, Right: 1,
			})),
			col.New(2).Add(text.New(fmt.Sprintf("%+d", d.Difference), props.Text{
				Size: 8, Align: align.Right, Top: 1, Right: 1,
				Style: fontstyle.Bold, Color: colorAlert,
			})),
		))
	}
	return result
}

func storeRows(stores []audit.StoreFinding) []core.Row {
	result := make([]core.Row, 0, len(stores))
	for _, s := range stores {
		result = append(result, row.New(5).Add(col.New(12).Add(
			text.New(fmt.Sprintf("%s  (%s)", s.Name, s.StoreID), props.Text{
				Size: 8, Top: 0.5, Left: 2, Color: colorGray,
			}),
		)))
	}
	return result
}

func degradedRows(bookIDs []string) []core.Row {
	result := make([]core.Row, 0, len(bookIDs))
	for _, id := range bookIDs {
		result = append(result, row.New(5).Add(col.New(12).Add(
			text.New(id, props.Text{Size: 8, Top: 0.5, Left: 2, Color: colorGray}),
		)))
	}
	return result
}
