// Package spreadsheet converts cafes to and from .xlsx workbooks.
package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"cafelist/form"
	"cafelist/model"

	"github.com/xuri/excelize/v2"
)

const (
	SheetName   = "Cafes"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Header is the first row of every exported sheet, and the column order
// expected on import.
var Header = []string{
	"Name", "Map URL", "Image URL", "Location", "Seats",
	"Has Toilet", "Has Wifi", "Has Sockets", "Can Take Calls", "Coffee Price",
}

// ErrNoRows is returned when a workbook has no data rows.
var ErrNoRows = errors.New("workbook must have a header and at least one row of data")

// Export writes all cafes to w as an .xlsx workbook.
func Export(w io.Writer, cafes []model.Cafe) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, c := range cafes {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			c.Name, c.MapURL, c.ImgURL, c.Location, c.Seats,
			yesNo(c.HasToilet), yesNo(c.HasWifi), yesNo(c.HasSockets), yesNo(c.CanTakeCalls),
			c.CoffeePrice,
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// ImportResult holds the rows read from a workbook. Skipped lists the
// 1-based sheet row numbers that were missing required cells.
type ImportResult struct {
	Cafes   []model.Cafe
	Skipped []int
}

// Import reads cafes from the first sheet of an .xlsx workbook. Amenity
// cells follow the add form: anything but "None", "none" or "no" is true.
func Import(r io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoRows
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, ErrNoRows
	}

	res := &ImportResult{}
	for i, row := range rows[1:] {
		cell := func(col int) string {
			if col < len(row) {
				return strings.TrimSpace(row[col])
			}
			return ""
		}

		cafe := model.Cafe{
			Name:         cell(0),
			MapURL:       cell(1),
			ImgURL:       cell(2),
			Location:     cell(3),
			Seats:        cell(4),
			HasToilet:    form.Amenity(cell(5)),
			HasWifi:      form.Amenity(cell(6)),
			HasSockets:   form.Amenity(cell(7)),
			CanTakeCalls: form.Amenity(cell(8)),
			CoffeePrice:  cell(9),
		}
		if cafe.Name == "" || cafe.MapURL == "" || cafe.ImgURL == "" ||
			cafe.Location == "" || cafe.Seats == "" || cafe.CoffeePrice == "" {
			res.Skipped = append(res.Skipped, i+2)
			continue
		}
		res.Cafes = append(res.Cafes, cafe)
	}
	return res, nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
