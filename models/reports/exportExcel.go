package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

// ExportLedgerExcel renders the month's reconciled ledger as a spreadsheet.
// Returns the open file; the caller streams and closes it.
func ExportLedgerExcel(ctx context.Context, year int, month time.Month) (*excelize.File, error) {
	result, err := GetAccountingDashboard(ctx, year, month)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := "Ledger"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Date", "Type", "ManagementNo", "Site", "Counterparty", "Amount", "Settled", "Balance"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for i, e := range result.Display {
		row := i + 2
		f.SetCellValue(sheet, "A"+fmt.Sprint(row), e.Date.Format("2006-01-02"))
		f.SetCellValue(sheet, "B"+fmt.Sprint(row), string(e.Type))
		f.SetCellValue(sheet, "C"+fmt.Sprint(row), e.ManagementNo)
		f.SetCellValue(sheet, "D"+fmt.Sprint(row), e.SiteName)
		f.SetCellValue(sheet, "E"+fmt.Sprint(row), e.Counterparty)
		f.SetCellValue(sheet, "F"+fmt.Sprint(row), e.Amount.InexactFloat64())
		f.SetCellValue(sheet, "G"+fmt.Sprint(row), e.Settled)
		f.SetCellValue(sheet, "H"+fmt.Sprint(row), e.Balance.InexactFloat64())
	}

	summaryRow := len(result.Display) + 3
	f.SetCellValue(sheet, "A"+fmt.Sprint(summaryRow), "Final balance")
	f.SetCellValue(sheet, "B"+fmt.Sprint(summaryRow), result.FinalBalance.InexactFloat64())

	return f, nil
}

// ExportAnnualExcel renders the fiscal year P&L, one row per month.
func ExportAnnualExcel(ctx context.Context, fiscalYear int) (*excelize.File, error) {
	report, err := GetAnnualPerformance(ctx, fiscalYear)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := "AnnualPerformance"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Month", "Revenue", "CostOfSales", "LaborCost", "MaterialCost",
		"GrossProfit", "VariableCost", "FixedCost", "OperatingProfit", "Actual"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for i, m := range report.Months {
		row := i + 2
		f.SetCellValue(sheet, "A"+fmt.Sprint(row), m.Name)
		f.SetCellValue(sheet, "B"+fmt.Sprint(row), m.Revenue.InexactFloat64())
		f.SetCellValue(sheet, "C"+fmt.Sprint(row), m.CostOfSales.InexactFloat64())
		f.SetCellValue(sheet, "D"+fmt.Sprint(row), m.LaborCost.InexactFloat64())
		f.SetCellValue(sheet, "E"+fmt.Sprint(row), m.MaterialCost.InexactFloat64())
		f.SetCellValue(sheet, "F"+fmt.Sprint(row), m.GrossProfit.InexactFloat64())
		f.SetCellValue(sheet, "G"+fmt.Sprint(row), m.VariableCost.InexactFloat64())
		f.SetCellValue(sheet, "H"+fmt.Sprint(row), m.FixedCost.InexactFloat64())
		f.SetCellValue(sheet, "I"+fmt.Sprint(row), m.OperatingProfit.InexactFloat64())
		f.SetCellValue(sheet, "J"+fmt.Sprint(row), m.IsActual)
	}

	ytdRow := len(report.Months) + 3
	f.SetCellValue(sheet, "A"+fmt.Sprint(ytdRow), "YTD")
	f.SetCellValue(sheet, "B"+fmt.Sprint(ytdRow), report.YTDRevenue.InexactFloat64())
	f.SetCellValue(sheet, "F"+fmt.Sprint(ytdRow), report.YTDGrossProfit.InexactFloat64())
	f.SetCellValue(sheet, "I"+fmt.Sprint(ytdRow), report.YTDOperating.InexactFloat64())

	return f, nil
}
