// Package config loads oematch settings from a TOML or YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/javajack/oematch"
)

// Config is the file representation of the matcher settings. Empty values fall
// back to the library defaults.
type Config struct {
	Columns Columns `toml:"columns" yaml:"columns"`
	Query   Query   `toml:"query" yaml:"query"`
	Match   Match   `toml:"match" yaml:"match"`
	Export  Export  `toml:"export" yaml:"export"`
	Logging Logging `toml:"logging" yaml:"logging"`
}

// Columns lists reference header names per field.
type Columns struct {
	Identifier    []string `toml:"identifier" yaml:"identifier"`
	AuxiliaryCode []string `toml:"auxiliary_code" yaml:"auxiliary_code"`
	Application   []string `toml:"application" yaml:"application"`
	Year          []string `toml:"year" yaml:"year"`
	Drive         []string `toml:"drive" yaml:"drive"`
	Price         []string `toml:"price" yaml:"price"`
}

// Query configures query sheet detection.
type Query struct {
	Names []string `toml:"names" yaml:"names"`
}

// Match configures key normalization and result filtering.
type Match struct {
	FoldWidth bool   `toml:"fold_width" yaml:"fold_width"`
	Filter    string `toml:"filter" yaml:"filter"`
}

// Export configures the output workbook.
type Export struct {
	SheetName        string   `toml:"sheet_name" yaml:"sheet_name"`
	Headers          []string `toml:"headers" yaml:"headers"`
	MatchedLabel     string   `toml:"matched_label" yaml:"matched_label"`
	MissingLabel     string   `toml:"missing_label" yaml:"missing_label"`
	ImageWidth       int      `toml:"image_width" yaml:"image_width"`
	ImageHeight      int      `toml:"image_height" yaml:"image_height"`
	ImageCellWidth   int      `toml:"image_cell_width" yaml:"image_cell_width"`
	ImageColumnWidth float64  `toml:"image_column_width" yaml:"image_column_width"`
	TextColumnWidth  float64  `toml:"text_column_width" yaml:"text_column_width"`
	WideColumnWidth  float64  `toml:"wide_column_width" yaml:"wide_column_width"`
	HeaderRowHeight  float64  `toml:"header_row_height" yaml:"header_row_height"`
	DataRowHeight    float64  `toml:"data_row_height" yaml:"data_row_height"`
}

// Logging configures the command's logger.
type Logging struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
}

// Default returns the configuration matching the library defaults.
func Default() Config {
	cands := oematch.DefaultCandidates()
	g := oematch.DefaultGeometry()
	return Config{
		Columns: Columns{
			Identifier:    cands[oematch.FieldIdentifier],
			AuxiliaryCode: cands[oematch.FieldAuxiliaryCode],
			Application:   cands[oematch.FieldApplication],
			Year:          cands[oematch.FieldYear],
			Drive:         cands[oematch.FieldDrive],
			Price:         cands[oematch.FieldPrice],
		},
		Query: Query{Names: append([]string(nil), oematch.DefaultQueryNames...)},
		Export: Export{
			SheetName:        oematch.DefaultSheetName,
			Headers:          oematch.DefaultHeaders(),
			MatchedLabel:     oematch.ImageMatched,
			MissingLabel:     oematch.ImageMissing,
			ImageWidth:       g.ImageWidth,
			ImageHeight:      g.ImageHeight,
			ImageCellWidth:   g.ImageCellWidth,
			ImageColumnWidth: g.ImageColumnWidth,
			TextColumnWidth:  g.TextColumnWidth,
			WideColumnWidth:  g.WideColumnWidth,
			HeaderRowHeight:  g.HeaderRowHeight,
			DataRowHeight:    g.DataRowHeight,
		},
		Logging: Logging{Level: "info", Format: "auto"},
	}
}

// Load reads a config file over the defaults. The format follows the file
// extension: .toml, .yaml or .yml. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return &cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		return nil, fmt.Errorf("config %q: unsupported extension, use .toml, .yaml or .yml", path)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %q: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings the library cannot fall back on.
func (c *Config) Validate() error {
	var errs []error
	if len(c.Columns.Identifier) == 0 {
		errs = append(errs, errors.New("columns.identifier: at least one header name is required"))
	}
	if n := len(c.Export.Headers); n != 0 && n != 8 {
		errs = append(errs, fmt.Errorf("export.headers: need 8 titles, got %d", n))
	}
	e := c.Export
	if e.ImageWidth <= 0 || e.ImageHeight <= 0 {
		errs = append(errs, errors.New("export.image_width and export.image_height must be positive"))
	}
	if e.DataRowHeight <= 0 || e.HeaderRowHeight <= 0 {
		errs = append(errs, errors.New("export row heights must be positive"))
	}
	if e.ImageColumnWidth <= 0 || e.TextColumnWidth <= 0 || e.WideColumnWidth <= 0 {
		errs = append(errs, errors.New("export column widths must be positive"))
	}
	return errors.Join(errs...)
}

// Options converts the configuration into matcher options.
func (c *Config) Options() []oematch.Option {
	e := c.Export
	return []oematch.Option{
		oematch.WithCandidates(oematch.Candidates{
			oematch.FieldIdentifier:    c.Columns.Identifier,
			oematch.FieldAuxiliaryCode: c.Columns.AuxiliaryCode,
			oematch.FieldApplication:   c.Columns.Application,
			oematch.FieldYear:          c.Columns.Year,
			oematch.FieldDrive:         c.Columns.Drive,
			oematch.FieldPrice:         c.Columns.Price,
		}),
		oematch.WithQueryNames(c.Query.Names),
		oematch.WithWidthFolding(c.Match.FoldWidth),
		oematch.WithFilter(c.Match.Filter),
		oematch.WithSheetName(e.SheetName),
		oematch.WithHeaders(e.Headers),
		oematch.WithImageLabels(e.MatchedLabel, e.MissingLabel),
		oematch.WithGeometry(oematch.Geometry{
			ImageWidth:       e.ImageWidth,
			ImageHeight:      e.ImageHeight,
			ImageCellWidth:   e.ImageCellWidth,
			ImageColumnWidth: e.ImageColumnWidth,
			TextColumnWidth:  e.TextColumnWidth,
			WideColumnWidth:  e.WideColumnWidth,
			HeaderRowHeight:  e.HeaderRowHeight,
			DataRowHeight:    e.DataRowHeight,
		}),
	}
}
