package oematch

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// EmbeddedImage is a picture payload taken from the reference workbook.
// It is shared read-only between the record that owns it and every result
// row that reuses it.
type EmbeddedImage struct {
	Data      []byte
	Extension string // "png", "jpeg", ... without the leading dot
}

// AssociateImages maps each picture on a sheet to the 1-based row its
// top-left corner is anchored to. When several pictures share a row, the last
// one enumerated is kept. Pictures without a payload are skipped.
func AssociateImages(f *excelize.File, sheet string) (map[int]*EmbeddedImage, error) {
	cells, err := f.GetPictureCells(sheet)
	if err != nil {
		return nil, fmt.Errorf("list pictures on sheet %q: %w", sheet, err)
	}

	images := make(map[int]*EmbeddedImage)
	for _, cell := range cells {
		_, row, err := excelize.CellNameToCoordinates(cell)
		if err != nil {
			continue
		}
		pics, err := f.GetPictures(sheet, cell)
		if err != nil {
			return nil, fmt.Errorf("read pictures at %s!%s: %w", sheet, cell, err)
		}
		for _, pic := range pics {
			if len(pic.File) == 0 {
				continue
			}
			images[row] = &EmbeddedImage{
				Data:      pic.File,
				Extension: strings.ToLower(strings.TrimPrefix(pic.Extension, ".")),
			}
		}
	}
	return images, nil
}
