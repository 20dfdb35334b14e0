package oematch

import "log/slog"

var discardLogger = slog.New(slog.DiscardHandler)

// Options holds configuration for the Matcher.
type Options struct {
	candidates   Candidates
	queryNames   []string
	foldWidth    bool
	logger       *slog.Logger
	sheetName    string
	headers      []string
	matchedLabel string
	missingLabel string
	geometry     Geometry
	filter       string
}

func defaultOptions() *Options {
	return &Options{
		candidates:   DefaultCandidates(),
		queryNames:   DefaultQueryNames,
		logger:       discardLogger,
		sheetName:    DefaultSheetName,
		headers:      DefaultHeaders(),
		matchedLabel: ImageMatched,
		missingLabel: ImageMissing,
		geometry:     DefaultGeometry(),
	}
}

// Option configures the Matcher.
type Option func(*Options)

// WithCandidates replaces the header names for the given fields. Fields not
// present in c keep their defaults.
func WithCandidates(c Candidates) Option {
	return func(o *Options) {
		for f, names := range c {
			if len(names) > 0 {
				o.candidates[f] = names
			}
		}
	}
}

// WithQueryNames sets the query-only header names that mark the query
// identifier column. The reference identifier candidates always apply too.
func WithQueryNames(names []string) Option {
	return func(o *Options) {
		if len(names) > 0 {
			o.queryNames = names
		}
	}
}

// WithWidthFolding folds full-width letters and digits to ASCII before
// normalizing identifiers (default: false).
func WithWidthFolding(fold bool) Option {
	return func(o *Options) { o.foldWidth = fold }
}

// WithLogger sets the structured logger (default: discard).
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithSheetName sets the name of the exported worksheet.
func WithSheetName(name string) Option {
	return func(o *Options) {
		if name != "" {
			o.sheetName = name
		}
	}
}

// WithHeaders sets the eight export column titles.
func WithHeaders(headers []string) Option {
	return func(o *Options) {
		if len(headers) == len(exportColumns) {
			o.headers = headers
		}
	}
}

// WithImageLabels sets the image presence labels for matched rows.
func WithImageLabels(matched, missing string) Option {
	return func(o *Options) {
		o.matchedLabel = matched
		o.missingLabel = missing
	}
}

// WithGeometry sets the export cell and image geometry.
func WithGeometry(g Geometry) Option {
	return func(o *Options) { o.geometry = g }
}

// WithFilter keeps only result rows for which the expression is true.
// See FilterResults.
func WithFilter(expression string) Option {
	return func(o *Options) { o.filter = expression }
}

func (o *Options) normalizer() func(string) string {
	if o.foldWidth {
		return NormalizeFolded
	}
	return Normalize
}
