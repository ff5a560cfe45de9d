package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"

	appconfig "github.com/abogados-sv/facturacion/internal/config"
	invoicedomain "github.com/abogados-sv/facturacion/internal/invoice/domain"
)

var documentTitles = map[string]string{
	invoicedomain.DocConsumidorFinal: "Factura Consumidor Final",
	invoicedomain.DocCreditoFiscal:   "Comprobante de Crédito Fiscal",
	invoicedomain.DocSujetoExcluido:  "Factura Sujeto Excluido",
}

type PDFProvider struct {
	firmName    string
	firmNIT     string
	firmAddress string
}

func New(cfg appconfig.Config) Provider {
	return &PDFProvider{
		firmName:    cfg.DTE.IssuerName,
		firmNIT:     cfg.DTE.IssuerNIT,
		firmAddress: "24 Calle oriente, col. lopez, #13, san miguel, san miguel",
	}
}

func (p *PDFProvider) GenerateInvoice(ctx context.Context, inv *invoicedomain.Invoice) (io.Reader, error) {
	if inv == nil {
		return nil, fmt.Errorf("invoice is required")
	}

	title := documentTitles[inv.DocumentType]
	if title == "" {
		title = "Factura"
	}

	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Página {current} de {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(12, p.firmName, props.Text{
			Size:  16,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)
	m.AddRow(12,
		col.New(12).Add(
			text.New(p.firmAddress, props.Text{Size: 9}),
			text.New("NIT: "+p.firmNIT, props.Text{Size: 9, Top: 4}),
		),
	)

	m.AddRow(10,
		text.NewCol(12, title, props.Text{
			Size:  13,
			Style: fontstyle.Bold,
			Align: align.Left,
			Top:   2,
		}),
	)

	m.AddRow(24,
		col.New(6).Add(
			text.New("Número: "+inv.Number, props.Text{Top: 0, Size: 9}),
			text.New("Fecha: "+inv.InvoiceDate.Format("02/01/2006"), props.Text{Top: 4, Size: 9}),
			text.New("Forma de pago: "+inv.PaymentMethod, props.Text{Top: 8, Size: 9}),
			text.New("Estado DTE: "+inv.DTEStatus, props.Text{Top: 12, Size: 9}),
		),
		col.New(6).Add(
			text.New("Cliente", props.Text{Style: fontstyle.Bold, Size: 9}),
			text.New(inv.ClientName, props.Text{Top: 4, Size: 9}),
		),
	)

	m.AddRow(8,
		text.NewCol(6, "Descripción", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Cantidad", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Precio", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Subtotal", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	for _, item := range inv.Items {
		m.AddRow(8,
			text.NewCol(6, item.ServiceName, props.Text{Size: 9}),
			text.NewCol(2, fmt.Sprintf("%d", item.Quantity), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, "$"+item.AppliedUnitPrice.StringFixed(2), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, "$"+item.LineSubtotal.StringFixed(2), props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(8,
		col.New(8),
		text.NewCol(2, "Subtotal", props.Text{Size: 9}),
		text.NewCol(2, "$"+inv.Subtotal.StringFixed(2), props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(8,
		col.New(8),
		text.NewCol(2, "IVA 13%", props.Text{Size: 9}),
		text.NewCol(2, "$"+inv.IVA.StringFixed(2), props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(8,
		col.New(8),
		text.NewCol(2, "Total", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "$"+inv.Total.StringFixed(2), props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	if inv.Observations != "" {
		m.AddRow(12,
			text.NewCol(12, "Observaciones: "+inv.Observations, props.Text{Size: 8, Top: 4}),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(doc.GetBytes()), nil
}
