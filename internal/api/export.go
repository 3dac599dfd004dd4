package api

import (
	"bytes" // Workbook buffer

	"krishisaarthi/internal/service" // Price read model

	"github.com/xuri/excelize/v2" // XLSX writer
)

const priceSheet = "Market Prices"

var priceHeader = []any{"Date", "Crop", "Crop Type", "Market", "Price", "Agent", "Company"}

// pricesWorkbook renders observations as a single-sheet workbook with a bold header row
func pricesWorkbook(prices []service.PriceView) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", priceSheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(priceSheet, "A1", &priceHeader); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(priceSheet, "A1", "G1", bold); err != nil {
		return nil, err
	}
	for i, p := range prices {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []any{
			p.Date.Format("2006-01-02"),
			p.CropName,
			string(p.CropType),
			p.MarketName,
			p.Price,
			deref(p.Agent.Name),
			deref(p.Agent.CompanyName),
		}
		if err := f.SetSheetRow(priceSheet, cell, &row); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(priceSheet, "A", "G", 18); err != nil {
		return nil, err
	}
	return f.WriteToBuffer()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
