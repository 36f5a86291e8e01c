package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

const (
	pageWidth = 190.0
	barHeight = 6.0
)

// BarSegment is one slice of a horizontal stacked bar, sized by Fraction (0-1).
type BarSegment struct {
	Label    string
	Fraction float64
}

// WeightBar is a labelled stacked bar, used to show how much each grade
// category contributed to a course result.
type WeightBar struct {
	Label    string
	Segments []BarSegment
}

// Document describes a single-page tabular PDF with optional bars.
type Document struct {
	Title    string
	Subtitle []string
	Table    Dataset
	Bars     []WeightBar
	Footer   []string
}

var segmentPalette = [][3]int{
	{52, 101, 164},
	{78, 154, 6},
	{237, 212, 0},
	{204, 0, 0},
	{117, 80, 123},
}

// PDFExporter renders documents into PDF bytes.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates the PDF for doc.
func (e *PDFExporter) Render(doc Document) ([]byte, error) {
	if len(doc.Table.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	if doc.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, strings.ToUpper(doc.Title), "", 1, "C", false, 0, "")
	}
	pdf.SetFont("Arial", "", 10)
	for _, line := range doc.Subtitle {
		pdf.CellFormat(0, 6, line, "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	writeTable(pdf, doc.Table)

	if len(doc.Bars) > 0 {
		pdf.Ln(6)
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 7, "Category weighting", "", 1, "", false, 0, "")
		for _, bar := range doc.Bars {
			writeBar(pdf, bar)
		}
	}

	if len(doc.Footer) > 0 {
		pdf.Ln(6)
		pdf.SetFont("Arial", "B", 10)
		for _, line := range doc.Footer {
			pdf.CellFormat(0, 6, line, "", 1, "", false, 0, "")
		}
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func writeTable(pdf *gofpdf.Fpdf, data Dataset) {
	pdf.SetFont("Arial", "B", 9)
	colWidth := pageWidth / float64(len(data.Headers))
	for _, header := range data.Headers {
		pdf.CellFormat(colWidth, 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range data.Rows {
		for _, cell := range data.record(row) {
			pdf.CellFormat(colWidth, 7, cell, "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.SetFont("Arial", "B", 9)
	for _, row := range data.Footer {
		for _, cell := range data.record(row) {
			pdf.CellFormat(colWidth, 7, cell, "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}
}

func writeBar(pdf *gofpdf.Fpdf, bar WeightBar) {
	const labelWidth = 50.0
	barWidth := pageWidth - labelWidth

	pdf.SetFont("Arial", "", 8)
	pdf.CellFormat(labelWidth, barHeight, bar.Label, "", 0, "", false, 0, "")

	x, y := pdf.GetXY()
	for i, seg := range bar.Segments {
		if seg.Fraction <= 0 {
			continue
		}
		w := barWidth * seg.Fraction
		color := segmentPalette[i%len(segmentPalette)]
		pdf.SetFillColor(color[0], color[1], color[2])
		pdf.Rect(x, y, w, barHeight, "F")
		if w > 12 {
			pdf.SetXY(x, y)
			pdf.SetTextColor(255, 255, 255)
			pdf.CellFormat(w, barHeight, seg.Label, "", 0, "C", false, 0, "")
			pdf.SetTextColor(0, 0, 0)
		}
		x += w
	}
	pdf.SetXY(pdf.GetX(), y)
	pdf.Ln(barHeight + 1)
}
