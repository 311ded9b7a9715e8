package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ncss/coffeerun/internal/domain"
	"github.com/ncss/coffeerun/internal/pkg/timefmt"
)

const ordersSheet = "Orders"

var ordersHeader = []string{"Person", "Coffee", "Size", "Sugar", "Price", "Ordered"}

// RunOrders builds a workbook listing every coffee on run with a total row
// at the bottom, ready for the fetcher to take to the cafe.
func RunOrders(run domain.Run, f *timefmt.Formatter) (*bytes.Buffer, error) {
	wb := excelize.NewFile()
	defer wb.Close()

	if err := wb.SetSheetName("Sheet1", ordersSheet); err != nil {
		return nil, fmt.Errorf("wb.SetSheetName -> %w", err)
	}

	rows := make([][]interface{}, 0, len(run.Coffees)+1)
	for _, c := range run.Coffees {
		rows = append(rows, []interface{}{
			c.Person.Name,
			c.PrettyPrint(),
			c.Spec.Size.Name(),
			c.Spec.Sugar,
			c.GetPrice().InexactFloat64(),
			f.JSON(c.Modified),
		})
	}
	rows = append(rows, []interface{}{"Total", "", "", "", run.TotalCost().InexactFloat64(), ""})

	if err := writeSheet(wb, ordersSheet, ordersHeader, rows); err != nil {
		return nil, err
	}

	if err := wb.SetDocProps(&excelize.DocProperties{
		Title:   fmt.Sprintf("Run %d at %s", run.ID, run.ReadTime(f)),
		Creator: run.Fetcher.Name,
	}); err != nil {
		return nil, fmt.Errorf("wb.SetDocProps -> %w", err)
	}

	buf, err := wb.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("wb.WriteToBuffer -> %w", err)
	}

	return buf, nil
}

func writeSheet(wb *excelize.File, sheet string, header []string, rows [][]interface{}) error {
	for col, h := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("excelize.CoordinatesToCellName -> %w", err)
		}
		if err = wb.SetCellStr(sheet, cell, h); err != nil {
			return fmt.Errorf("wb.SetCellStr %s -> %w", cell, err)
		}
	}

	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return fmt.Errorf("excelize.CoordinatesToCellName -> %w", err)
		}
		if err = wb.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("wb.SetSheetRow %s -> %w", cell, err)
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(header))
	if bold, err := wb.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = wb.SetCellStyle(sheet, "A1", lastCol+"1", bold)
	}
	_ = wb.SetColWidth(sheet, "A", "B", 28)
	_ = wb.SetColWidth(sheet, "C", lastCol, 12)

	return nil
}
