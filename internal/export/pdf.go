package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/tilepack/internal/model"
)

// itemColor represents an RGB color for a placed item.
type itemColor struct {
	R, G, B int
}

var itemColors = []itemColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
	qrSize       = 40.0
)

// ExportPDF generates a PDF document with a preview of the packed bin,
// followed by a summary page with statistics, the settings used and a QR
// code of the manifest summary.
func ExportPDF(path string, result model.PackResult, settings model.PackSettings) error {
	if len(result.Placed) == 0 {
		return fmt.Errorf("no placed items to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	pdf.AddPage()
	renderBinPage(pdf, result)

	pdf.AddPage()
	if err := renderSummaryPage(pdf, result, settings); err != nil {
		return err
	}

	return pdf.OutputFileAndClose(path)
}

// renderBinPage draws the packed bin with every placed item.
func renderBinPage(pdf *fpdf.Fpdf, result model.PackResult) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Bin %s (used %s, order %s)", result.Bin, result.Size, result.Order)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Items: %d | Used area: %d | Total area: %d | Efficiency: %.1f%%",
		len(result.Placed), result.UsedArea(), result.TotalArea(), result.Efficiency())
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight

	// Preview the candidate bin, which always contains the used box
	extent := result.Bin
	if extent.Width < result.Size.Width || extent.Height < result.Size.Height {
		extent = result.Size
	}
	scale := previewScale(extent, drawWidth, drawHeight)

	canvasW := float64(extent.Width) * scale
	canvasH := float64(extent.Height) * scale
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// Candidate bin
	pdf.SetFillColor(240, 240, 240)
	pdf.SetDrawColor(160, 160, 160)
	pdf.SetLineWidth(0.3)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	// Used bounding box
	pdf.SetFillColor(255, 255, 255)
	pdf.SetDrawColor(60, 60, 60)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, float64(result.Size.Width)*scale, float64(result.Size.Height)*scale, "FD")

	for _, r := range result.Leftovers {
		drawHatchPattern(pdf, offsetX+float64(r.X)*scale, offsetY+float64(r.Y)*scale,
			float64(r.Width)*scale, float64(r.Height)*scale)
	}

	for i, it := range result.Placed {
		col := itemColors[i%len(itemColors)]
		pw := float64(it.Width) * scale
		ph := float64(it.Height) * scale
		px := offsetX + float64(it.X)*scale
		py := offsetY + float64(it.Y)*scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.2)
		pdf.Rect(px, py, pw, ph, "FD")

		// Label only rectangles large enough to hold it
		if pw > 15 && ph > 8 {
			pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
			pdf.SetTextColor(0, 0, 0)

			label := it.Label
			dims := it.Rect().Size().String()
			labelW := pdf.GetStringWidth(label)
			dimsW := pdf.GetStringWidth(dims)

			if labelW < pw-2 {
				pdf.SetXY(px+(pw-labelW)/2, py+ph/2-4)
				pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")
			}
			if ph > 14 && dimsW < pw-2 {
				pdf.SetXY(px+(pw-dimsW)/2, py+ph/2)
				pdf.CellFormat(dimsW, 4, dims, "", 0, "C", false, 0, "")
			}
		}
	}

	drawDimensionAnnotations(pdf, extent, offsetX, offsetY, canvasW, canvasH)
	drawItemsLegend(pdf, result.Placed, offsetY+canvasH+6)
}

// previewScale returns the mm-per-unit factor that fits extent into the
// drawing area. A degenerate extent draws at unit scale.
func previewScale(extent model.Size, drawWidth, drawHeight float64) float64 {
	if extent.Width <= 0 || extent.Height <= 0 {
		return 1
	}
	return math.Min(drawWidth/float64(extent.Width), drawHeight/float64(extent.Height))
}

// drawHatchPattern draws diagonal lines inside a rectangle to mark a
// leftover region.
func drawHatchPattern(pdf *fpdf.Fpdf, x, y, w, h float64) {
	pdf.SetDrawColor(180, 180, 180)
	pdf.SetLineWidth(0.15)

	spacing := 3.0
	for d := spacing; d < w+h; d += spacing {
		x1 := x + math.Max(0, d-h)
		y1 := y + math.Min(h, d)
		x2 := x + math.Min(w, d)
		y2 := y + math.Max(0, d-w)
		pdf.Line(x1, y1, x2, y2)
	}
}

// drawDimensionAnnotations adds width and height labels outside the bin rectangle.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, extent model.Size, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%d", extent.Width)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	heightLabel := fmt.Sprintf("%d", extent.Height)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	hLabelW := pdf.GetStringWidth(heightLabel)
	pdf.SetXY(offsetX-3-hLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(hLabelW, 4, heightLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawItemsLegend renders a compact legend of placed items below the preview.
func drawItemsLegend(pdf *fpdf.Fpdf, placed []model.Item, startY float64) {
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Items placed:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight

	for i, it := range placed {
		// Stop at the page edge, the summary page lists totals
		if startY > pageHeight-marginBottom {
			break
		}
		col := itemColors[i%len(itemColors)]
		label := fmt.Sprintf("%s (%s)", it.Label, it.Submitted())
		if it.Flipped {
			label += " F"
		}
		labelW := pdf.GetStringWidth(label) + 6

		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")

		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}

// renderSummaryPage draws the final summary page with overall statistics.
func renderSummaryPage(pdf *fpdf.Fpdf, result model.PackResult, settings model.PackSettings) error {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Packing Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	fallback := "no"
	if result.Fallback {
		fallback = "yes"
	}
	y = drawKeyValues(pdf, y, 10, [][2]string{
		{"Bin", result.Bin.String()},
		{"Used Size", result.Size.String()},
		{"Winning Order", result.Order},
		{"Fallback", fallback},
		{"Efficiency", fmt.Sprintf("%.1f%%", result.Efficiency())},
		{"Items Placed", fmt.Sprintf("%d", len(result.Placed))},
		{"Unplaced Items", fmt.Sprintf("%d", len(result.Unplaced))},
		{"Leftover Area", fmt.Sprintf("%d", model.TotalLeftoverArea(result.Leftovers))},
	})

	if err := drawManifestQR(pdf, result); err != nil {
		return err
	}

	if len(result.Unplaced) > 0 {
		y += 6
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 7, "WARNING: Unplaced Items", "", 0, "L", false, 0, "")
		y += 8

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
		for i, it := range result.Unplaced {
			if y > pageHeight-marginBottom-40 {
				pdf.SetXY(marginLeft+5, y)
				pdf.CellFormat(200, 5, fmt.Sprintf("... and %d more", len(result.Unplaced)-i), "", 0, "L", false, 0, "")
				y += 5
				break
			}
			pdf.SetXY(marginLeft+5, y)
			pdf.CellFormat(200, 5, fmt.Sprintf("- %s: %s", it.Label, it.Submitted()), "", 0, "L", false, 0, "")
			y += 5
		}
	}

	y += 6
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Pack Settings", "", 0, "L", false, 0, "")
	y += 9

	flip := "off"
	if settings.AllowFlip {
		flip = "on"
	}
	drawKeyValues(pdf, y, 9, [][2]string{
		{"Max Bin Side", fmt.Sprintf("%d", settings.MaxBinSide)},
		{"Discard Step", fmt.Sprintf("%d", settings.DiscardStep)},
		{"Flipping", flip},
		{"Space Policy", string(settings.SpacePolicy)},
		{"Genetic Ordering", fmt.Sprintf("%t", settings.Genetic.Enabled)},
	})

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by tilepack", "", 0, "C", false, 0, "")
	return nil
}

// drawKeyValues prints label/value pairs one per line starting at y and
// returns the y position after the last line.
func drawKeyValues(pdf *fpdf.Fpdf, y, fontSize float64, pairs [][2]string) float64 {
	lineH := fontSize / 2
	pdf.SetFont("Helvetica", "", fontSize)
	for _, kv := range pairs {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, lineH+1, kv[0]+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", fontSize)
		pdf.CellFormat(60, lineH+1, kv[1], "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", fontSize)
		y += lineH + 2
	}
	return y
}

// drawManifestQR places a QR code of the manifest summary in the top right
// corner of the current page.
func drawManifestQR(pdf *fpdf.Fpdf, result model.PackResult) error {
	data, err := json.Marshal(BuildManifest(result).Summary())
	if err != nil {
		return fmt.Errorf("failed to marshal manifest summary: %w", err)
	}

	png, err := qrcode.Encode(string(data), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	pdf.RegisterImageOptionsReader("manifest_qr", fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))
	x := pageWidth - marginRight - qrSize
	y := marginTop + 18
	pdf.ImageOptions("manifest_qr", x, y, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(x, y+qrSize+1)
	pdf.CellFormat(qrSize, 3, "Manifest summary", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	return nil
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}
