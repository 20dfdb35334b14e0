package oematch

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/xuri/excelize/v2"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// DefaultSheetName is the name of the exported worksheet.
const DefaultSheetName = "匹配结果"

// EMUPerPixel converts screen pixels (96 DPI) to drawing offsets.
const EMUPerPixel = 9525

// Export columns, in output order.
const (
	colInput = iota
	colAuxiliaryCode
	colApplication
	colYear
	colMatchedIdentifier
	colDrive
	colImage
	colPrice
)

var exportColumns = []string{
	"input", "auxiliary_code", "application", "year",
	"matched_identifier", "drive", "image", "price",
}

// DefaultHeaders returns the export column titles.
func DefaultHeaders() []string {
	return []string{"输入 OE", "XX 编码", "适用车型", "年份", "OEM", "驱动", "图片", "广州价"}
}

// Geometry fixes the size of export cells and embedded images.
type Geometry struct {
	ImageWidth       int     // image box width, px
	ImageHeight      int     // image box height, px
	ImageCellWidth   int     // rendered width of the image column, px
	ImageColumnWidth float64 // image column width, characters
	TextColumnWidth  float64 // default column width, characters
	WideColumnWidth  float64 // application and matched identifier columns, characters
	HeaderRowHeight  float64 // points
	DataRowHeight    float64 // points
}

// DefaultGeometry returns a 6.0cm × 2.15cm image box (227×81 px) inside a
// 34-character column (about 251 px) and a 61pt row.
func DefaultGeometry() Geometry {
	return Geometry{
		ImageWidth:       227,
		ImageHeight:      81,
		ImageCellWidth:   251,
		ImageColumnWidth: 34,
		TextColumnWidth:  15,
		WideColumnWidth:  35,
		HeaderRowHeight:  25,
		DataRowHeight:    61,
	}
}

// ImageOffsetEMU returns the top-left offset, in EMU, that centers the image
// box inside its cell. Offsets never go negative.
func (g Geometry) ImageOffsetEMU() (x, y int) {
	rowPx := int(g.DataRowHeight * 96 / 72)
	x = max(0, (g.ImageCellWidth-g.ImageWidth)/2) * EMUPerPixel
	y = max(0, (rowPx-g.ImageHeight)/2) * EMUPerPixel
	return x, y
}

// Render writes results into a new workbook. Image embedding failures are
// logged and the affected row is written without its picture.
func Render(results []ResultRow, opts ...Option) (*excelize.File, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return newRenderer(o).render(results)
}

type renderer struct {
	opts   *Options
	file   *excelize.File
	sheet  string
	styles struct {
		header  int
		data    int
		wrapped int
	}
}

func newRenderer(o *Options) *renderer {
	return &renderer{opts: o, sheet: o.sheetName}
}

func (r *renderer) render(results []ResultRow) (*excelize.File, error) {
	r.file = excelize.NewFile()
	if err := r.file.SetSheetName(r.file.GetSheetName(0), r.sheet); err != nil {
		r.file.Close()
		return nil, fmt.Errorf("name sheet %q: %w", r.sheet, err)
	}
	if err := r.layout(); err != nil {
		r.file.Close()
		return nil, err
	}
	for i, res := range results {
		if err := r.writeRow(i+2, res); err != nil {
			r.file.Close()
			return nil, err
		}
	}
	return r.file, nil
}

// layout sets column widths, styles and the header row.
func (r *renderer) layout() error {
	f, g := r.file, r.opts.geometry

	for i := range exportColumns {
		width := g.TextColumnWidth
		switch i {
		case colApplication, colMatchedIdentifier:
			width = g.WideColumnWidth
		case colImage:
			width = g.ImageColumnWidth
		}
		name := ColToName(i)
		if err := f.SetColWidth(r.sheet, name, name, width); err != nil {
			return fmt.Errorf("set width of column %s: %w", name, err)
		}
	}

	center := &excelize.Alignment{Horizontal: "center", Vertical: "center"}
	var err error
	if r.styles.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"F1F5F9"}},
		Alignment: center,
	}); err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	if r.styles.data, err = f.NewStyle(&excelize.Style{Alignment: center}); err != nil {
		return fmt.Errorf("create data style: %w", err)
	}
	if r.styles.wrapped, err = f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	}); err != nil {
		return fmt.Errorf("create wrapped style: %w", err)
	}

	for i, h := range r.opts.headers {
		if err := f.SetCellStr(r.sheet, NewCellRef(1, i).CellName(), h); err != nil {
			return fmt.Errorf("write header %q: %w", h, err)
		}
	}
	last := NewCellRef(1, len(exportColumns)-1).CellName()
	if err := f.SetCellStyle(r.sheet, "A1", last, r.styles.header); err != nil {
		return fmt.Errorf("style header row: %w", err)
	}
	return f.SetRowHeight(r.sheet, 1, g.HeaderRowHeight)
}

func (r *renderer) writeRow(row int, res ResultRow) error {
	f := r.file
	cell := func(col int) string { return NewCellRef(row, col).CellName() }

	if err := f.SetRowHeight(r.sheet, row, r.opts.geometry.DataRowHeight); err != nil {
		return fmt.Errorf("set height of row %d: %w", row, err)
	}
	if err := f.SetCellStyle(r.sheet, cell(0), cell(len(exportColumns)-1), r.styles.data); err != nil {
		return fmt.Errorf("style row %d: %w", row, err)
	}
	if err := f.SetCellStyle(r.sheet, cell(colMatchedIdentifier), cell(colMatchedIdentifier), r.styles.wrapped); err != nil {
		return fmt.Errorf("style row %d: %w", row, err)
	}

	texts := map[int]string{
		colInput:         res.Input,
		colAuxiliaryCode: res.AuxiliaryCode,
		colApplication:   res.Application,
		colYear:          res.Year,
		colDrive:         res.Drive,
	}
	for col, text := range texts {
		if text == "" {
			continue
		}
		if err := f.SetCellStr(r.sheet, cell(col), text); err != nil {
			return fmt.Errorf("write %s: %w", cell(col), err)
		}
	}

	if err := r.writeMatchedIdentifier(cell(colMatchedIdentifier), res); err != nil {
		return err
	}

	if res.Image != nil {
		if err := r.embedImage(cell(colImage), res.Image); err != nil {
			r.opts.logger.Warn("image not embedded",
				"cell", cell(colImage), "input", res.Input, "extension", res.Image.Extension, "error", err)
		}
	} else if res.ImageLabel != "" {
		if err := f.SetCellStr(r.sheet, cell(colImage), res.ImageLabel); err != nil {
			return fmt.Errorf("write %s: %w", cell(colImage), err)
		}
	}

	if res.Price != nil && res.Price != "" {
		if err := f.SetCellValue(r.sheet, cell(colPrice), res.Price); err != nil {
			return fmt.Errorf("write %s: %w", cell(colPrice), err)
		}
	}
	return nil
}

// writeMatchedIdentifier writes the matched identifier as rich text with the
// token that matched the input highlighted.
func (r *renderer) writeMatchedIdentifier(cell string, res ResultRow) error {
	if res.MatchedIdentifier == "" {
		return nil
	}
	if res.Input == "" {
		return r.file.SetCellStr(r.sheet, cell, res.MatchedIdentifier)
	}

	runs := HighlightRuns(res.MatchedIdentifier, res.Input, r.opts.normalizer())
	rich := make([]excelize.RichTextRun, 0, len(runs))
	for _, run := range runs {
		rt := excelize.RichTextRun{Text: run.Text}
		if run.Kind == RunHighlight {
			rt.Font = &excelize.Font{Bold: true, Color: "FF0000"}
		}
		rich = append(rich, rt)
	}
	if err := r.file.SetCellRichText(r.sheet, cell, rich); err != nil {
		return fmt.Errorf("write rich text at %s: %w", cell, err)
	}
	return nil
}

// vectorImageTypes are picture formats excelize can store but not add, since
// AddPictureFromBytes needs a raster header to size the drawing.
var vectorImageTypes = map[string]bool{"emf": true, "emz": true, "wmf": true, "wmz": true, "svg": true}

// embedImage anchors img at cell, scaled to the geometry's image box and
// offset to sit centered in the cell.
func (r *renderer) embedImage(cell string, img *EmbeddedImage) error {
	g := r.opts.geometry
	if vectorImageTypes[img.Extension] {
		return fmt.Errorf("%s pictures cannot be re-embedded", img.Extension)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(img.Data))
	if err != nil {
		return fmt.Errorf("decode %s image: %w", img.Extension, err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return fmt.Errorf("image has no pixels")
	}

	offX, offY := g.ImageOffsetEMU()
	return r.file.AddPictureFromBytes(r.sheet, cell, &excelize.Picture{
		Extension: "." + img.Extension,
		File:      img.Data,
		Format: &excelize.GraphicOptions{
			OffsetX:     offX / EMUPerPixel,
			OffsetY:     offY / EMUPerPixel,
			ScaleX:      float64(g.ImageWidth) / float64(cfg.Width),
			ScaleY:      float64(g.ImageHeight) / float64(cfg.Height),
			Positioning: "oneCell",
		},
	})
}

// createOutput opens the export destination.
var createOutput = func(path string) (io.WriteCloser, error) { return os.Create(path) }

// ExportToExcel renders results and writes the workbook to outputPath. On any
// failure, flushing included, the partial file is removed.
func ExportToExcel(results []ResultRow, outputPath string, opts ...Option) error {
	out, err := createOutput(outputPath)
	if err != nil {
		return fmt.Errorf("create output file %q: %w", outputPath, err)
	}

	if err := ExportWriter(results, out, opts...); err != nil {
		out.Close()
		os.Remove(outputPath)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(outputPath)
		return fmt.Errorf("close output file %q: %w", outputPath, err)
	}
	return nil
}

// ExportBytes renders results and returns the workbook bytes.
func ExportBytes(results []ResultRow, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := ExportWriter(results, &buf, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportWriter renders results and writes the workbook to w.
func ExportWriter(results []ResultRow, w io.Writer, opts ...Option) error {
	f, err := Render(results, opts...)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
