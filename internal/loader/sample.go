package loader

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

type sampleSheet struct {
	file    string
	columns []string
	rows    [][]any
}

// Sample exports in the formats the schema mapper is built to handle:
// a Groww-style portfolio, a Zerodha-style portfolio, an index fund
// disclosure, and a sector fund disclosure that identifies holdings by
// ISIN and whose "Weightage (%)" header matches no weight alias, so
// its weight column is only found by numeric inference.
var sampleSheets = []sampleSheet{
	{
		file:    "sample_portfolio.xlsx",
		columns: []string{"Company Name", "Symbol", "Sector", "Quantity", "Avg Cost", "LTP"},
		rows: [][]any{
			{"Infosys Ltd", "INFY", "IT Services", 10, 1450.25, 1520.50},
			{"HDFC Bank Ltd", "HDFCBANK", "Banking", 5, 1650.75, 1680.25},
			{"Reliance Industries Ltd", "RELIANCE", "Oil & Gas", 8, 2450.50, 2520.75},
			{"Tata Consultancy Services Ltd", "TCS", "IT Services", 3, 3550.25, 3480.50},
			{"ITC Ltd", "ITC", "FMCG", 20, 420.75, 430.25},
		},
	},
	{
		file:    "sample_zerodha_portfolio.xlsx",
		columns: []string{"Instrument", "Tradingsymbol", "Type", "Industry", "Qty.", "Avg.", "Last Price"},
		rows: [][]any{
			{"Infosys Ltd", "INFY", "EQ", "IT Services", 10, 1450.25, 1520.50},
			{"HDFC Bank Ltd", "HDFCBANK", "EQ", "Banking", 5, 1650.75, 1680.25},
			{"Reliance Industries Ltd", "RELIANCE", "EQ", "Oil & Gas", 8, 2450.50, 2520.75},
		},
	},
	{
		file:    "Nifty50_Index_Fund.xlsx",
		columns: []string{"Company Name", "Symbol", "Sector", "% of Net Assets"},
		rows: [][]any{
			{"Reliance Industries Ltd", "RELIANCE", "Oil & Gas", 11.5},
			{"HDFC Bank Ltd", "HDFCBANK", "Banking", 9.2},
			{"ICICI Bank Ltd", "ICICIBANK", "Banking", 8.1},
			{"Infosys Ltd", "INFY", "IT Services", 7.3},
			{"Tata Consultancy Services Ltd", "TCS", "IT Services", 5.9},
			{"Larsen & Toubro Ltd", "LT", "Construction", 4.3},
			{"Hindustan Unilever Ltd", "HINDUNILVR", "FMCG", 3.8},
			{"State Bank of India", "SBIN", "Banking", 3.5},
			{"Bharti Airtel Ltd", "BHARTIARTL", "Telecom", 3.2},
			{"ITC Ltd", "ITC", "FMCG", 3.1},
			{"Kotak Mahindra Bank Ltd", "KOTAKBANK", "Banking", 2.9},
			{"Axis Bank Ltd", "AXISBANK", "Banking", 2.7},
			{"Mahindra & Mahindra Ltd", "M&M", "Automobile", 2.5},
			{"Maruti Suzuki India Ltd", "MARUTI", "Automobile", 2.3},
			{"Tata Motors Ltd", "TATAMOTORS", "Automobile", 2.1},
			{"Asian Paints Ltd", "ASIANPAINT", "Consumer Durables", 1.9},
			{"Tata Steel Ltd", "TATASTEEL", "Metals", 1.8},
			{"Sun Pharmaceutical Industries Ltd", "SUNPHARMA", "Pharmaceuticals", 1.7},
			{"Coal India Ltd", "COALINDIA", "Energy", 1.6},
			{"Bajaj Finance Ltd", "BAJFINANCE", "Financial Services", 1.5},
		},
	},
	{
		file:    "Technology_Sector_Fund.xlsx",
		columns: []string{"Security", "ISIN", "Industry", "Weightage (%)"},
		rows: [][]any{
			{"Infosys Ltd", "INE009A01021", "IT Services", 13.5},
			{"Tata Consultancy Services Ltd", "INE467B01029", "IT Services", 12.8},
			{"Wipro Ltd", "INE075A01022", "IT Services", 8.5},
			{"HCL Technologies Ltd", "INE860A01027", "IT Services", 7.9},
			{"Tech Mahindra Ltd", "INE669C01036", "IT Services", 6.5},
			{"Bharti Airtel Ltd", "INE397D01024", "Telecom", 5.8},
			{"Tata Communications Ltd", "INE151A01013", "Telecom", 4.3},
			{"Persistent Systems Ltd", "INE262H01013", "IT Services", 3.9},
			{"LTIMindtree Ltd", "INE214T01019", "IT Services", 3.7},
			{"Tata Elxsi Ltd", "INE670A01012", "IT Services", 3.5},
			{"Mphasis Ltd", "INE356A01018", "IT Services", 3.2},
			{"Coforge Ltd", "INE591G01017", "IT Services", 2.9},
			{"Cyient Ltd", "INE136B01020", "IT Services", 2.6},
			{"Oracle Financial Services Software Ltd", "INE881D01027", "Software", 2.4},
			{"Sonata Software Ltd", "INE269A01021", "Software", 2.2},
			{"KPIT Technologies Ltd", "INE058I01045", "IT Services", 2.0},
			{"Indiamart Intermesh Ltd", "INE933S01016", "E-Commerce", 1.8},
			{"Zensar Technologies Ltd", "INE218A01016", "IT Services", 1.6},
			{"Intellect Design Arena Ltd", "INE306R01017", "Software", 1.5},
			{"Birlasoft Ltd", "INE836A01035", "IT Services", 1.4},
		},
	},
}

// WriteSamples generates the sample workbooks under dir and returns
// the paths written. It is wired to the sample subcommand so new
// users have something to analyze immediately.
func WriteSamples(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create sample dir: %w", err)
	}
	var paths []string
	for _, s := range sampleSheets {
		path := filepath.Join(dir, s.file)
		if err := writeSheet(path, s); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeSheet(path string, s sampleSheet) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for col, h := range s.columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	for row, values := range s.rows {
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
