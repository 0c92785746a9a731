// Package xlsx формирует выгрузку справочника доноров в формате Excel.
package xlsx

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/magabrotheeeer/lifeflow/internal/models"
)

// Имена листов выгрузки.
const (
	DonorsSheet = "Donors"
	StatsSheet  = "Stats"
)

// ContentType MIME-тип файла xlsx.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DonorHeader заголовки листа доноров.
var DonorHeader = []string{
	"ID",
	"Name",
	"Phone",
	"Blood Type",
	"Address",
	"Registered At",
	"Last Donation",
	"Never Donated",
}

var donorColumnWidths = []float64{38, 24, 16, 11, 32, 20, 14, 14}

// ExportDonors строит книгу с листом доноров и листом статистики.
func ExportDonors(donors []models.Donor, stats models.DonorStats) ([]byte, error) {
	const op = "xlsx.ExportDonors"

	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	index, err := f.NewSheet(DonorsSheet)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create sheet: %w", op, err)
	}
	if _, err := f.NewSheet(StatsSheet); err != nil {
		return nil, fmt.Errorf("%s: failed to create sheet: %w", op, err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#F8D7DA"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create header style: %w", op, err)
	}

	if err := writeRow(f, DonorsSheet, 1, toAny(DonorHeader)); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	last, _ := excelize.CoordinatesToCellName(len(DonorHeader), 1)
	if err := f.SetCellStyle(DonorsSheet, "A1", last, headerStyle); err != nil {
		return nil, fmt.Errorf("%s: failed to set header style: %w", op, err)
	}
	for i, width := range donorColumnWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(DonorsSheet, col, col, width); err != nil {
			return nil, fmt.Errorf("%s: failed to set column width: %w", op, err)
		}
	}

	for i, d := range donors {
		lastDonation := ""
		if d.LastDonationDate != nil {
			lastDonation = d.LastDonationDate.Format(time.DateOnly)
		}
		never := "No"
		if d.NeverDonated {
			never = "Yes"
		}
		row := []any{
			d.ID,
			d.Name,
			d.Phone,
			string(d.BloodType),
			d.Address,
			d.RegisteredAt.Format(time.DateTime),
			lastDonation,
			never,
		}
		if err := writeRow(f, DonorsSheet, i+2, row); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := f.SetPanes(DonorsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("%s: failed to freeze panes: %w", op, err)
	}

	if err := writeStats(f, stats, headerStyle); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("%s: failed to write workbook: %w", op, err)
	}
	return buf.Bytes(), nil
}

func writeStats(f *excelize.File, stats models.DonorStats, headerStyle int) error {
	if err := writeRow(f, StatsSheet, 1, []any{"Blood Type", "Count", "Percentage"}); err != nil {
		return err
	}
	if err := f.SetCellStyle(StatsSheet, "A1", "C1", headerStyle); err != nil {
		return err
	}
	row := 2
	for _, c := range stats.PerBloodType {
		if err := writeRow(f, StatsSheet, row, []any{string(c.BloodType), c.Count, c.Percentage}); err != nil {
			return err
		}
		row++
	}
	if err := writeRow(f, StatsSheet, row, []any{"Total", stats.Total}); err != nil {
		return err
	}
	return writeRow(f, StatsSheet, row+1, []any{fmt.Sprintf("Registered in last %d days", stats.RecentDays), stats.RecentCount})
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("failed to convert coordinates: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
