package oematch

// RunKind tags a rich-text run.
type RunKind int

const (
	RunPlain RunKind = iota
	RunHighlight
)

// Run is one styled segment of a rich-text cell.
type Run struct {
	Kind RunKind
	Text string
}

// HighlightRuns splits matched into identifier segments and the separators
// between them. Segments whose normalized form equals the normalized input are
// highlighted; everything else, separators included, is plain. normalize may
// be nil, in which case Normalize is used.
func HighlightRuns(matched, input string, normalize func(string) string) []Run {
	if normalize == nil {
		normalize = Normalize
	}
	if matched == "" {
		return nil
	}
	want := normalize(input)

	var runs []Run
	emit := func(segment string) {
		if segment == "" {
			return
		}
		kind := RunPlain
		if want != "" && !isSeparator(segment) && normalize(segment) == want {
			kind = RunHighlight
		}
		runs = append(runs, Run{Kind: kind, Text: segment})
	}

	pos := 0
	for _, loc := range separatorPattern.FindAllStringIndex(matched, -1) {
		emit(matched[pos:loc[0]])
		emit(matched[loc[0]:loc[1]])
		pos = loc[1]
	}
	emit(matched[pos:])
	return runs
}
