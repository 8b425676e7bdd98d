package report

import (
	"bytes"
	"fmt"
	"log"
	"math"
	"path/filepath"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"github.com/sdeskprojs/vamas_converter_go/internal/analysis"
	"github.com/sdeskprojs/vamas_converter_go/internal/parser"
)

const (
	inchToMm               = 25.4
	pdfPageWidthLandscape  = 11 * inchToMm // Letter landscape
	pdfPageHeightLandscape = 8.5 * inchToMm
	pdfMargin              = 0.5 * inchToMm
	pdfContentWidth        = pdfPageWidthLandscape - (2 * pdfMargin)
	maxRankedRows          = 10
)

// HeatmapKey is the plotImages key of the intensity heatmap.
const HeatmapKey = "heatmap_intensity"

// SpectrumKey is the plotImages key of a block's spectrum plot.
func SpectrumKey(blockIndex int) string {
	return fmt.Sprintf("spectrum_%d", blockIndex)
}

// pdfStyler holds reusable styling and state for PDF generation
type pdfStyler struct {
	pdf         *gofpdf.Fpdf
	tr          func(string) string // UTF-8 to the core font code page
	styles      map[string]func()
	lineHeight  float64
	currentY    float64 // manually tracked Y position for flowing content
	pageHeight  float64
	contentTopY float64
}

func newPDFStyler(pdf *gofpdf.Fpdf) *pdfStyler {
	s := &pdfStyler{
		pdf:         pdf,
		tr:          pdf.UnicodeTranslatorFromDescriptor(""),
		styles:      make(map[string]func()),
		lineHeight:  6, // mm
		pageHeight:  pdfPageHeightLandscape - pdfMargin,
		contentTopY: pdfMargin,
	}
	s.currentY = s.contentTopY
	s.defineStyles()
	return s
}

func (s *pdfStyler) defineStyles() {
	s.styles["h1"] = func() {
		s.pdf.SetFont("Arial", "B", 16)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["h2"] = func() {
		s.pdf.SetFont("Arial", "B", 14)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["normal"] = func() {
		s.pdf.SetFont("Arial", "", 10)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["tableHeader"] = func() {
		s.pdf.SetFont("Arial", "B", 9)
		s.pdf.SetFillColor(200, 200, 200) // Light grey
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["tableCell"] = func() {
		s.pdf.SetFont("Arial", "", 9)
		s.pdf.SetTextColor(50, 50, 50)
	}
	s.styles["tableCellRed"] = func() {
		s.pdf.SetFont("Arial", "B", 9)
		s.pdf.SetTextColor(200, 0, 0)
	}
}

func (s *pdfStyler) applyStyle(styleName string) {
	if fn, ok := s.styles[styleName]; ok {
		fn()
	} else {
		s.styles["normal"]()
	}
}

func (s *pdfStyler) checkAddPage(neededHeight float64) {
	if s.currentY+neededHeight > s.pageHeight {
		s.newPage()
	}
}

func (s *pdfStyler) newPage() {
	s.pdf.AddPage()
	s.currentY = s.contentTopY
}

func (s *pdfStyler) writeParagraph(text string, styleName string, align string) {
	s.applyStyle(styleName)
	text = s.tr(text)
	lines := len(s.pdf.SplitLines([]byte(text), pdfContentWidth))
	s.checkAddPage(float64(max(lines, 1)) * s.lineHeight)

	s.pdf.SetXY(pdfMargin, s.currentY)
	s.pdf.MultiCell(pdfContentWidth, s.lineHeight, text, "", align, false)
	s.currentY = s.pdf.GetY() + 1
}

func (s *pdfStyler) addSpacer(height float64) {
	s.checkAddPage(height)
	s.currentY += height
}

// table draws rows under a grey header row. Cells of column redCol are
// highlighted when redRow returns true for their row.
func (s *pdfStyler) table(headers []string, widthsRel []float64, rows [][]string, redCol int, redRow func(int) bool) {
	widths := make([]float64, len(widthsRel))
	for i, rel := range widthsRel {
		widths[i] = rel * pdfContentWidth
	}

	drawHeader := func() {
		s.applyStyle("tableHeader")
		x := pdfMargin
		for i, h := range headers {
			s.pdf.SetXY(x, s.currentY)
			s.pdf.CellFormat(widths[i], s.lineHeight, s.tr(h), "1", 0, "C", true, 0, "")
			x += widths[i]
		}
		s.currentY += s.lineHeight
	}

	s.checkAddPage(s.lineHeight * 2)
	drawHeader()
	for r, row := range rows {
		if s.currentY+s.lineHeight > s.pageHeight {
			s.newPage()
			drawHeader()
		}
		x := pdfMargin
		for i, cell := range row {
			if i == redCol && redRow != nil && redRow(r) {
				s.applyStyle("tableCellRed")
			} else {
				s.applyStyle("tableCell")
			}
			s.pdf.SetXY(x, s.currentY)
			s.pdf.CellFormat(widths[i], s.lineHeight, s.tr(cell), "1", 0, "C", false, 0, "")
			x += widths[i]
		}
		s.currentY += s.lineHeight
	}
}

func (s *pdfStyler) addImage(imageBytes []byte, imageName string, width float64, height float64, caption string, styleName string) {
	s.pdf.RegisterImageReader(imageName, "PNG", bytes.NewReader(imageBytes))

	if width > pdfContentWidth {
		ratio := pdfContentWidth / width
		width = pdfContentWidth
		height *= ratio
	}

	captionHeight := 0.0
	if caption != "" {
		captionHeight = s.lineHeight + 1
	}
	s.checkAddPage(height + captionHeight)

	s.pdf.Image(imageName, pdfMargin, s.currentY, width, height, false, "PNG", 0, "")
	s.currentY += height

	if caption != "" {
		s.addSpacer(1)
		s.writeParagraph(caption, styleName, "C")
	}
	s.addSpacer(2)
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// BuildPDFReport writes a conversion report for one decoded file: header
// summary, block table, rankings, heatmap and one spectrum per block.
func BuildPDFReport(path string, doc *parser.Document, results *analysis.AnalysisResults, plotImages map[string][]byte) error {
	pdf := gofpdf.New("L", "mm", "Letter", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	pdf.AddPage()

	styler := newPDFStyler(pdf)

	title := "VAMAS Conversion Report"
	if results != nil && results.Source != "" {
		title = fmt.Sprintf("%s: %s", title, filepath.Base(results.Source))
	}
	styler.writeParagraph(title, "h1", "C")
	styler.addSpacer(5)

	if doc == nil || doc.Header == nil {
		styler.writeParagraph("No document to display.", "normal", "L")
		return pdf.OutputFileAndClose(path)
	}

	styler.writeParagraph("Experiment", "h2", "L")
	var headerRows [][]string
	for _, key := range doc.Header.Fields.Keys() {
		v, _ := doc.Header.Fields.Get(key)
		headerRows = append(headerRows, []string{key, headerValue(v)})
	}
	styler.table([]string{"Field", "Value"}, []float64{0.35, 0.65}, headerRows, -1, nil)
	styler.addSpacer(5)

	if len(doc.Warnings) > 0 {
		styler.writeParagraph(fmt.Sprintf("Decoder Warnings (%d)", len(doc.Warnings)), "h2", "L")
		for _, w := range doc.Warnings {
			styler.writeParagraph(w, "normal", "L")
		}
		styler.addSpacer(5)
	}

	if results == nil || len(results.Results) == 0 {
		styler.writeParagraph("No analysis results to display.", "normal", "L")
		return pdf.OutputFileAndClose(path)
	}

	styler.newPage()
	styler.writeParagraph(fmt.Sprintf("Blocks (%d)", len(results.Results)), "h2", "L")
	blockRows := make([][]string, 0, len(results.Results))
	for _, res := range results.Results {
		blockRows = append(blockRows, []string{
			strconv.Itoa(res.BlockIndex),
			res.BlockID,
			res.Technique,
			fmt.Sprintf("%s %s", res.Species, res.Transition),
			strconv.Itoa(res.NumRows),
			fmt.Sprintf("%s .. %s", formatValue(res.XMin), formatValue(res.XMax)),
			formatValue(res.PeakY),
			formatValue(res.Zoom),
		})
	}
	styler.table(
		[]string{"#", "Block", "Technique", "Species", "Rows", "X Range", "Peak", "Zoom"},
		[]float64{0.05, 0.25, 0.1, 0.12, 0.08, 0.18, 0.12, 0.1},
		blockRows, 6,
		func(r int) bool { return results.Results[r].Error != "" },
	)
	styler.addSpacer(5)

	rankings := []struct {
		Title      string
		Data       []analysis.RankedBlockInfo
		ValueLabel string
	}{
		{"Blocks by Peak Intensity", results.RankedByPeak, "Peak"},
		{"Blocks by Signal Standard Deviation", results.RankedByNoise, "Std. Deviation"},
		{"Blocks by Signal Range", results.RankedBySpan, "Range"},
	}
	for _, rankSet := range rankings {
		styler.writeParagraph(rankSet.Title, "h2", "L")
		if len(rankSet.Data) == 0 {
			styler.writeParagraph("No data.", "normal", "L")
			continue
		}
		var rows [][]string
		for i, item := range rankSet.Data {
			if i >= maxRankedRows {
				break
			}
			rows = append(rows, []string{strconv.Itoa(i + 1), item.BlockID, formatValue(item.Value)})
		}
		styler.table([]string{"Rank", "Block", rankSet.ValueLabel}, []float64{0.1, 0.6, 0.3}, rows, -1, nil)
		styler.addSpacer(5)
	}

	if len(results.AnalysisErrors) > 0 {
		styler.writeParagraph("Analysis Notes", "h2", "L")
		for _, e := range results.AnalysisErrors {
			styler.writeParagraph(e, "normal", "L")
		}
	}

	styler.newPage()
	styler.writeParagraph("Graphical Analysis", "h1", "C")
	styler.addSpacer(5)

	imgWidth := pdfContentWidth * 0.9
	if imgBytes, ok := plotImages[HeatmapKey]; ok && len(imgBytes) > 0 {
		styler.addImage(imgBytes, HeatmapKey, imgWidth, imgWidth*0.5, "Signal intensity per block", "normal")
	}

	plotWidth := pdfContentWidth * 0.8
	plotHeight := plotWidth * 0.5
	for _, res := range results.Results {
		key := SpectrumKey(res.BlockIndex)
		imgBytes, ok := plotImages[key]
		if !ok || len(imgBytes) == 0 {
			log.Printf("Spectrum plot for block %d (%s) not available", res.BlockIndex, res.BlockID)
			continue
		}
		styler.addImage(imgBytes, key, plotWidth, plotHeight, res.BlockID, "normal")
	}

	return pdf.OutputFileAndClose(path)
}
