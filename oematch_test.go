package oematch

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestProcessFiles_EndToEndMatch(t *testing.T) {
	dir := t.TempDir()
	refPath := saveWorkbook(t, createReferenceWorkbook(t), dir, "reference.xlsx")
	queryPath := saveWorkbook(t, createQueryWorkbook(t, "OE", "1234abc"), dir, "query.xlsx")

	results, err := ProcessFiles(refPath, queryPath)
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, "Model X", r.Application)
	assert.Equal(t, "1234-ABC / 5678DEF", r.MatchedIdentifier)
	assert.Equal(t, "L", r.Drive)
	assert.Equal(t, 120.5, r.Price)
	require.NotNil(t, r.Image)

	data, err := ExportBytes(results)
	require.NoError(t, err)
	out := openExport(t, data)

	pics, err := out.GetPictures(DefaultSheetName, "G2")
	require.NoError(t, err)
	require.Len(t, pics, 1)

	runs, err := out.GetCellRichText(DefaultSheetName, "E2")
	require.NoError(t, err)
	var highlighted []string
	for _, run := range runs {
		if run.Font != nil && run.Font.Bold {
			highlighted = append(highlighted, run.Text)
		}
	}
	assert.Equal(t, []string{"1234-ABC"}, highlighted)
}

func TestProcessFiles_EndToEndMiss(t *testing.T) {
	dir := t.TempDir()
	refPath := saveWorkbook(t, createReferenceWorkbook(t), dir, "reference.xlsx")
	queryPath := saveWorkbook(t, createQueryWorkbook(t, "", "9999ZZZ"), dir, "query.xlsx")

	results, err := ProcessFiles(refPath, queryPath)
	require.NoError(t, err)
	require.Equal(t, []ResultRow{{Input: "9999ZZZ"}}, results)

	data, err := ExportBytes(results)
	require.NoError(t, err)
	out := openExport(t, data)
	cells, err := out.GetPictureCells(DefaultSheetName)
	require.NoError(t, err)
	assert.Empty(t, cells)
}

func TestProcessFiles_OrderPreserved(t *testing.T) {
	dir := t.TempDir()
	refPath := saveWorkbook(t, createReferenceWorkbook(t), dir, "reference.xlsx")
	ids := []any{"ABC123", "nope-1", "", "1234ABC", 99887766, "ABC123"}
	queryPath := saveWorkbook(t, createQueryWorkbook(t, "OEM", ids...), dir, "query.xlsx")

	results, err := ProcessFiles(refPath, queryPath)
	require.NoError(t, err)

	inputs := make([]string, len(results))
	for i, r := range results {
		inputs[i] = r.Input
	}
	assert.Equal(t, []string{"ABC123", "nope-1", "1234ABC", "99887766", "ABC123"}, inputs)
	assert.Equal(t, []bool{true, false, true, true, true}, []bool{
		results[0].Matched, results[1].Matched, results[2].Matched, results[3].Matched, results[4].Matched,
	})
}

func TestProcessFiles_CSVQuery(t *testing.T) {
	dir := t.TempDir()
	refPath := saveWorkbook(t, createReferenceWorkbook(t), dir, "reference.xlsx")
	queryPath := writeFile(t, dir, "query.csv", "序号,输入\n1,5678-DEF\n2,\n3,9999ZZZ\n")

	results, err := ProcessFiles(refPath, queryPath)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Model X", results[0].Application)
	assert.False(t, results[1].Matched)
}

func TestProcessFiles_MissingIdentifierColumn(t *testing.T) {
	dir := t.TempDir()
	f := excelize.NewFile()
	require.NoError(t, f.SetCellStr("Sheet1", "A1", "Code"))
	require.NoError(t, f.SetCellStr("Sheet1", "A2", "XX-001"))
	refPath := saveWorkbook(t, f, dir, "reference.xlsx")
	f.Close()
	queryPath := saveWorkbook(t, createQueryWorkbook(t, "", "1234ABC"), dir, "query.xlsx")

	_, err := ProcessFiles(refPath, queryPath)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingIdentifierColumn))
}

func TestProcessFiles_MissingFiles(t *testing.T) {
	dir := t.TempDir()
	refPath := saveWorkbook(t, createReferenceWorkbook(t), dir, "reference.xlsx")

	_, err := ProcessFiles(dir+"/nope.xlsx", refPath)
	assert.ErrorContains(t, err, "open reference")

	_, err = ProcessFiles(refPath, dir+"/nope.xlsx")
	assert.ErrorContains(t, err, "open query")

	_, err = ProcessFiles(refPath, dir+"/nope.csv")
	assert.ErrorContains(t, err, "open query")
}

func TestProcessReaders(t *testing.T) {
	ref, err := createReferenceWorkbook(t).WriteToBuffer()
	require.NoError(t, err)
	query, err := createQueryWorkbook(t, "OE", "abc123").WriteToBuffer()
	require.NoError(t, err)

	results, err := ProcessReaders(bytes.NewReader(ref.Bytes()), bytes.NewReader(query.Bytes()))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Model 3", results[0].Application, "later row wins")

	_, err = ProcessReaders(bytes.NewReader([]byte("junk")), bytes.NewReader(query.Bytes()))
	assert.Error(t, err)
}

func TestMatcher_FilterAndExport(t *testing.T) {
	dir := t.TempDir()
	refPath := saveWorkbook(t, createReferenceWorkbook(t), dir, "reference.xlsx")
	queryPath := saveWorkbook(t, createQueryWorkbook(t, "OE", "1234ABC", "9999ZZZ", "99887766"), dir, "query.xlsx")

	m := NewMatcher(WithFilter("Matched && HasImage()"), WithSheetName("Hits"))
	results, err := m.ProcessFiles(refPath, queryPath)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "1234ABC", results[0].Input)

	outPath := dir + "/out.xlsx"
	require.NoError(t, m.Export(results, outPath))
	out, err := excelize.OpenFile(outPath)
	require.NoError(t, err)
	defer out.Close()
	assert.Equal(t, []string{"Hits"}, out.GetSheetList())
}

func TestMatcher_LoadReference(t *testing.T) {
	ref, err := NewMatcher().LoadReference(createReferenceWorkbook(t))
	require.NoError(t, err)
	assert.Equal(t, "Sheet1", ref.Sheet)
	assert.Equal(t, 2, ref.HeaderRow)
	assert.Len(t, ref.Images, 2)
	assert.Equal(t, 4, ref.Index.Len())
}

func TestOpenQuery_ReleasesFile(t *testing.T) {
	dir := t.TempDir()
	path := saveWorkbook(t, createQueryWorkbook(t, "", "1234ABC"), dir, "query.xlsx")

	ws, closeFn, err := OpenQuery(path)
	require.NoError(t, err)
	assert.Equal(t, 1, ws.MaxRow())
	closeFn()
	require.NoError(t, os.Remove(path))
}

func TestMatcher_IdentifierCandidatesDetectQueryHeader(t *testing.T) {
	dir := t.TempDir()
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Part No", "Application"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"1234-ABC", "Model X"}))
	refPath := saveWorkbook(t, f, dir, "reference.xlsx")
	require.NoError(t, f.Close())
	queryPath := writeFile(t, dir, "query.csv", "#,Part No\n1,1234abc\n")

	m := NewMatcher(WithCandidates(Candidates{FieldIdentifier: {"Part No"}}))
	results, err := m.ProcessFiles(refPath, queryPath)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "1234abc", results[0].Input)
	assert.Equal(t, "Model X", results[0].Application)
}
