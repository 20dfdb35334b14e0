package oematch

import (
	"log/slog"
	"strings"
)

// ReferenceRecord is the data extracted from one reference row. It is built
// once and never modified; every token of the row points at the same record.
type ReferenceRecord struct {
	Row           int // 1-based source row
	AuxiliaryCode string
	Application   string
	Year          string
	Identifier    string // full identifier cell text, unsplit
	Drive         string
	Price         any
	Image         *EmbeddedImage
}

// ReferenceIndex maps normalized identifier tokens to reference records.
type ReferenceIndex struct {
	entries    map[string]*ReferenceRecord
	records    []*ReferenceRecord
	collisions int
}

// NewReferenceIndex creates an empty index.
func NewReferenceIndex() *ReferenceIndex {
	return &ReferenceIndex{entries: make(map[string]*ReferenceRecord)}
}

// Lookup returns the record registered under a normalized key.
func (idx *ReferenceIndex) Lookup(key string) (*ReferenceRecord, bool) {
	rec, ok := idx.entries[key]
	return rec, ok
}

// Len returns the number of keys.
func (idx *ReferenceIndex) Len() int { return len(idx.entries) }

// Records returns the indexed records in row order.
func (idx *ReferenceIndex) Records() []*ReferenceRecord { return idx.records }

// Collisions returns how many insertions replaced a key set by an earlier row.
func (idx *ReferenceIndex) Collisions() int { return idx.collisions }

// put registers rec under key. A later row overwrites an earlier one.
func (idx *ReferenceIndex) put(key string, rec *ReferenceRecord) bool {
	prev, exists := idx.entries[key]
	idx.entries[key] = rec
	if exists && prev != rec {
		idx.collisions++
		return true
	}
	return false
}

type indexConfig struct {
	normalize func(string) string
	logger    *slog.Logger
}

// IndexOption configures BuildIndex.
type IndexOption func(*indexConfig)

// IndexNormalizer replaces Normalize as the key function.
func IndexNormalizer(fn func(string) string) IndexOption {
	return func(c *indexConfig) { c.normalize = fn }
}

// IndexLogger sets the logger that reports key collisions.
func IndexLogger(l *slog.Logger) IndexOption {
	return func(c *indexConfig) { c.logger = l }
}

// BuildIndex walks every row after headerRow and registers each identifier
// token of length three or more (after normalization) under that row's record.
// Rows with an empty identifier cell are skipped.
func BuildIndex(ws Worksheet, headerRow int, cols ColumnMap, images map[int]*EmbeddedImage, opts ...IndexOption) *ReferenceIndex {
	cfg := indexConfig{normalize: Normalize, logger: discardLogger}
	for _, opt := range opts {
		opt(&cfg)
	}

	idx := NewReferenceIndex()
	idCol, ok := cols.Index(FieldIdentifier)
	if !ok {
		return idx
	}

	text := func(row int, f Field) string {
		col, ok := cols.Index(f)
		if !ok {
			return ""
		}
		return Text(Resolve(ws.Cell(row, col)))
	}

	for row := headerRow + 1; row <= ws.MaxRow(); row++ {
		raw := Text(Resolve(ws.Cell(row, idCol)))
		if strings.TrimSpace(raw) == "" {
			continue
		}

		var rec *ReferenceRecord
		for _, token := range SplitTokens(raw) {
			key := cfg.normalize(token)
			if len(key) < minTokenLength {
				continue
			}
			if rec == nil {
				rec = &ReferenceRecord{
					Row:           row,
					AuxiliaryCode: text(row, FieldAuxiliaryCode),
					Application:   text(row, FieldApplication),
					Year:          text(row, FieldYear),
					Identifier:    raw,
					Drive:         text(row, FieldDrive),
					Image:         images[row],
				}
				if col, ok := cols.Index(FieldPrice); ok {
					rec.Price = Resolve(ws.Cell(row, col))
				}
				idx.records = append(idx.records, rec)
			}
			if idx.put(key, rec) {
				cfg.logger.Debug("identifier token reassigned to later row",
					"key", key, "row", row)
			}
		}
	}
	return idx
}
