// Package oematch matches part identifiers against a reference workbook and
// renders the matches, pictures included, into a new workbook.
package oematch

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"
)

// ProcessFiles matches every identifier of the query file against the
// reference workbook. Query files ending in .csv are read as CSV; anything
// else must be a workbook.
func ProcessFiles(referencePath, queryPath string, opts ...Option) ([]ResultRow, error) {
	return NewMatcher(opts...).ProcessFiles(referencePath, queryPath)
}

// ProcessReaders is ProcessFiles over readers. Both inputs must be workbooks.
func ProcessReaders(reference, query io.Reader, opts ...Option) ([]ResultRow, error) {
	return NewMatcher(opts...).ProcessReaders(reference, query)
}

// Matcher runs the reference → index → match pipeline with a fixed set of
// options. It keeps no state between calls.
type Matcher struct {
	opts *Options
}

// NewMatcher creates a Matcher.
func NewMatcher(opts ...Option) *Matcher {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &Matcher{opts: o}
}

// Reference is a parsed reference sheet.
type Reference struct {
	Sheet     string
	HeaderRow int
	Columns   ColumnMap
	Images    map[int]*EmbeddedImage
	Index     *ReferenceIndex
}

// LoadReference resolves the columns of the first sheet of f, associates its
// pictures with rows and builds the identifier index.
func (m *Matcher) LoadReference(f *excelize.File) (*Reference, error) {
	ws, err := FirstSheet(f)
	if err != nil {
		return nil, fmt.Errorf("reference: %w", err)
	}
	headerRow, cols, err := ResolveColumns(ws, m.opts.candidates)
	if err != nil {
		return nil, err
	}
	images, err := AssociateImages(f, ws.Name())
	if err != nil {
		return nil, err
	}
	idx := BuildIndex(ws, headerRow, cols, images,
		IndexNormalizer(m.opts.normalizer()),
		IndexLogger(m.opts.logger),
	)

	m.opts.logger.Info("reference indexed",
		"sheet", ws.Name(),
		"header_row", headerRow,
		"columns", len(cols),
		"images", len(images),
		"records", len(idx.Records()),
		"keys", idx.Len(),
		"collisions", idx.Collisions(),
	)
	return &Reference{Sheet: ws.Name(), HeaderRow: headerRow, Columns: cols, Images: images, Index: idx}, nil
}

// Match runs the query sheet against a loaded reference.
func (m *Matcher) Match(ref *Reference, query Worksheet) ([]ResultRow, error) {
	results, stats := Match(query, ref.Index,
		MatchQueryNames(QueryCandidates(m.opts.candidates[FieldIdentifier], m.opts.queryNames)),
		MatchNormalizer(m.opts.normalizer()),
		MatchImageLabels(m.opts.matchedLabel, m.opts.missingLabel),
	)
	m.opts.logger.Info("queries matched",
		"queries", stats.Queries,
		"hits", stats.Hits,
		"misses", stats.Misses(),
		"with_image", stats.WithImage,
	)

	if m.opts.filter == "" {
		return results, nil
	}
	filtered, err := FilterResults(results, m.opts.filter)
	if err != nil {
		return nil, err
	}
	m.opts.logger.Info("results filtered", "filter", m.opts.filter, "kept", len(filtered))
	return filtered, nil
}

// Process matches a query sheet against a reference workbook.
func (m *Matcher) Process(reference *excelize.File, query Worksheet) ([]ResultRow, error) {
	ref, err := m.LoadReference(reference)
	if err != nil {
		return nil, err
	}
	return m.Match(ref, query)
}

// ProcessFiles opens both files and matches them. The reference is indexed
// while the query is read.
func (m *Matcher) ProcessFiles(referencePath, queryPath string) ([]ResultRow, error) {
	var (
		ref        *Reference
		query      Worksheet
		closeQuery = func() {}
		g          errgroup.Group
	)
	g.Go(func() error {
		f, err := excelize.OpenFile(referencePath)
		if err != nil {
			return fmt.Errorf("open reference %q: %w", referencePath, err)
		}
		defer f.Close()
		ref, err = m.LoadReference(f)
		return err
	})
	g.Go(func() error {
		ws, closeFn, err := OpenQuery(queryPath)
		if err != nil {
			return err
		}
		query, closeQuery = ws, closeFn
		return nil
	})
	err := g.Wait()
	defer closeQuery()
	if err != nil {
		return nil, err
	}
	return m.Match(ref, query)
}

// ProcessReaders decodes both workbooks and matches them.
func (m *Matcher) ProcessReaders(reference, query io.Reader) ([]ResultRow, error) {
	ref, err := excelize.OpenReader(reference)
	if err != nil {
		return nil, fmt.Errorf("open reference reader: %w", err)
	}
	defer ref.Close()

	qf, err := excelize.OpenReader(query)
	if err != nil {
		return nil, fmt.Errorf("open query reader: %w", err)
	}
	defer qf.Close()

	qs, err := FirstSheet(qf)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return m.Process(ref, qs)
}

// Export writes results to outputPath using the Matcher's options.
func (m *Matcher) Export(results []ResultRow, outputPath string) error {
	return ExportToExcel(results, outputPath, m.optionList()...)
}

// optionList replays the Matcher's options for the export functions.
func (m *Matcher) optionList() []Option {
	o := m.opts
	return []Option{
		WithLogger(o.logger),
		WithSheetName(o.sheetName),
		WithHeaders(o.headers),
		WithImageLabels(o.matchedLabel, o.missingLabel),
		WithGeometry(o.geometry),
		WithWidthFolding(o.foldWidth),
	}
}

// OpenQuery opens a query sheet. The returned func releases the file.
func OpenQuery(path string) (Worksheet, func(), error) {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		file, err := os.Open(path)
		if err != nil {
			return nil, nil, fmt.Errorf("open query %q: %w", path, err)
		}
		defer file.Close()
		ws, err := ReadCSVSheet(filepath.Base(path), file)
		if err != nil {
			return nil, nil, err
		}
		return ws, func() {}, nil
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open query %q: %w", path, err)
	}
	ws, err := FirstSheet(f)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("query %q: %w", path, err)
	}
	return ws, func() { f.Close() }, nil
}
