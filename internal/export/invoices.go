// Package export renders invoice listings as downloadable CSV and
// XLSX files.
package export

import (
	"bytes"
	"encoding/csv"
	"io"

	"github.com/xuri/excelize/v2"

	invoicedomain "github.com/abogados-sv/facturacion/internal/invoice/domain"
)

var invoiceHeader = []string{
	"Numero",
	"Fecha",
	"Cliente",
	"Tipo",
	"Forma de pago",
	"Subtotal",
	"IVA",
	"Total",
	"Estado DTE",
}

func invoiceRow(inv *invoicedomain.Invoice) []string {
	return []string{
		inv.Number,
		inv.InvoiceDate.Format("2006-01-02"),
		inv.ClientName,
		inv.DocumentType,
		inv.PaymentMethod,
		inv.Subtotal.StringFixed(2),
		inv.IVA.StringFixed(2),
		inv.Total.StringFixed(2),
		inv.DTEStatus,
	}
}

// InvoicesCSV streams the listing as UTF-8 CSV with a BOM so Excel
// renders the accented client names correctly.
func InvoicesCSV(w io.Writer, invoices []invoicedomain.Invoice) error {
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(invoiceHeader); err != nil {
		return err
	}
	for i := range invoices {
		if err := cw.Write(invoiceRow(&invoices[i])); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// InvoicesXLSX renders the listing as a spreadsheet.
func InvoicesXLSX(invoices []invoicedomain.Invoice) (io.Reader, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Facturas"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	for col, name := range invoiceHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return nil, err
		}
	}

	for i := range invoices {
		inv := &invoices[i]
		row := i + 2

		values := []any{
			inv.Number,
			inv.InvoiceDate.Format("2006-01-02"),
			inv.ClientName,
			inv.DocumentType,
			inv.PaymentMethod,
			inv.Subtotal.InexactFloat64(),
			inv.IVA.InexactFloat64(),
			inv.Total.InexactFloat64(),
			inv.DTEStatus,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return &buf, nil
}
