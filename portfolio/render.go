package portfolio

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"

	"github.com/status-im/wallet-aggregator/aggregator"
)

// Output formats
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

const (
	fiatPlaces   = 2
	cryptoPlaces = 8
)

// Render writes records in the requested format
func Render(w io.Writer, format string, records []aggregator.WalletRecord, fiat string) error {
	switch strings.ToLower(format) {
	case "", FormatTable:
		return RenderTable(w, records, fiat)
	case FormatJSON:
		return RenderJSON(w, records)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// RenderJSON writes records as an indented JSON array
func RenderJSON(w io.Writer, records []aggregator.WalletRecord) error {
	if records == nil {
		records = []aggregator.WalletRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// RenderTable writes one row per record followed by the fiat total
func RenderTable(w io.Writer, records []aggregator.WalletRecord, fiat string) error {
	fiatLabel := strings.ToUpper(fiat)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Crypto", "Address", "Balance", "Price " + fiatLabel, "Value " + fiatLabel, "Source"})
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_LEFT,
	})

	for _, r := range records {
		table.Append([]string{
			strings.ToUpper(r.Currency),
			r.Address,
			FormatCrypto(r.CryptoValue),
			FormatFiat(r.ConversionPrice),
			FormatFiat(r.FiatValue),
			r.PriceSource,
		})
	}
	table.SetFooter([]string{"", "", "", "Total", Total(records).StringFixed(fiatPlaces), ""})
	table.Render()
	return nil
}

// Total sums the fiat values of records
func Total(records []aggregator.WalletRecord) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(decimal.NewFromFloat(r.FiatValue))
	}
	return total
}

// FormatFiat renders a fiat amount with two decimal places
func FormatFiat(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(fiatPlaces)
}

// FormatCrypto renders a crypto amount without trailing zeros
func FormatCrypto(v float64) string {
	return decimal.NewFromFloat(v).Round(cryptoPlaces).String()
}
