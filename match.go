package oematch

import (
	"strings"
)

// Image presence labels written for matched rows.
const (
	ImageMatched = "matched"
	ImageMissing = "no image"
)

// ResultRow is the outcome of one query. On a miss only Input is set.
type ResultRow struct {
	Input             string         `json:"input"`
	Matched           bool           `json:"matched"`
	AuxiliaryCode     string         `json:"auxiliary_code,omitempty"`
	Application       string         `json:"application,omitempty"`
	Year              string         `json:"year,omitempty"`
	MatchedIdentifier string         `json:"matched_identifier,omitempty"`
	Drive             string         `json:"drive,omitempty"`
	ImageLabel        string         `json:"image,omitempty"`
	Image             *EmbeddedImage `json:"-"`
	Price             any            `json:"price,omitempty"`
}

// HasImage reports whether the row carries a picture.
func (r ResultRow) HasImage() bool { return r.Image != nil }

// QueryLayout describes where the identifiers of a query sheet live.
type QueryLayout struct {
	HeaderRow bool // row 1 is a header and is skipped
	Column    int  // 0-based identifier column
}

// DetectQueryLayout inspects row 1 of a query sheet. If one of its cells names
// the identifier column, row 1 is a header and that cell's column is used;
// otherwise row 1 is data and column 0 is used. Empty names means the default
// identifier candidates plus DefaultQueryNames.
func DetectQueryLayout(ws Worksheet, names []string) QueryLayout {
	if len(names) == 0 {
		names = defaultQueryCandidates()
	}
	if ws.MaxRow() == 0 {
		return QueryLayout{}
	}
	col := FindColumn(RowTexts(ws, 1), names)
	if col == -1 {
		return QueryLayout{}
	}
	return QueryLayout{HeaderRow: true, Column: col}
}

// MatchStats summarizes a Match call.
type MatchStats struct {
	Queries   int
	Hits      int
	WithImage int
}

// Misses returns the number of queries without a match.
func (s MatchStats) Misses() int { return s.Queries - s.Hits }

type matchConfig struct {
	names        []string
	normalize    func(string) string
	matchedLabel string
	missingLabel string
}

// MatchOption configures Match.
type MatchOption func(*matchConfig)

// MatchQueryNames replaces the header names used to detect the identifier
// column. See QueryCandidates.
func MatchQueryNames(names []string) MatchOption {
	return func(c *matchConfig) { c.names = names }
}

// MatchNormalizer replaces Normalize as the key function. It must agree with
// the function the index was built with.
func MatchNormalizer(fn func(string) string) MatchOption {
	return func(c *matchConfig) { c.normalize = fn }
}

// MatchImageLabels overrides the image presence labels.
func MatchImageLabels(matched, missing string) MatchOption {
	return func(c *matchConfig) {
		c.matchedLabel = matched
		c.missingLabel = missing
	}
}

// Match looks up every query identifier in idx and returns one row per
// non-empty identifier, in sheet order.
func Match(ws Worksheet, idx *ReferenceIndex, opts ...MatchOption) ([]ResultRow, MatchStats) {
	cfg := matchConfig{
		names:        defaultQueryCandidates(),
		normalize:    Normalize,
		matchedLabel: ImageMatched,
		missingLabel: ImageMissing,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	layout := DetectQueryLayout(ws, cfg.names)
	start := 1
	if layout.HeaderRow {
		start = 2
	}

	var (
		results []ResultRow
		stats   MatchStats
	)
	for row := start; row <= ws.MaxRow(); row++ {
		if ws.RowWidth(row) == 0 {
			continue
		}
		input := strings.TrimSpace(Text(Resolve(ws.Cell(row, layout.Column))))
		if input == "" {
			continue
		}

		result := ResultRow{Input: input}
		if rec, ok := idx.Lookup(cfg.normalize(input)); ok {
			result = rowFromRecord(input, rec, cfg.matchedLabel, cfg.missingLabel)
			stats.Hits++
			if rec.Image != nil {
				stats.WithImage++
			}
		}
		stats.Queries++
		results = append(results, result)
	}
	return results, stats
}

func defaultQueryCandidates() []string {
	return QueryCandidates(DefaultCandidates()[FieldIdentifier], DefaultQueryNames)
}

func rowFromRecord(input string, rec *ReferenceRecord, matchedLabel, missingLabel string) ResultRow {
	label := missingLabel
	if rec.Image != nil {
		label = matchedLabel
	}
	return ResultRow{
		Input:             input,
		Matched:           true,
		AuxiliaryCode:     rec.AuxiliaryCode,
		Application:       rec.Application,
		Year:              rec.Year,
		MatchedIdentifier: rec.Identifier,
		Drive:             rec.Drive,
		ImageLabel:        label,
		Image:             rec.Image,
		Price:             rec.Price,
	}
}
