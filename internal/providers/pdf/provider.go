package pdf

import (
	"context"
	"io"

	invoicedomain "github.com/abogados-sv/facturacion/internal/invoice/domain"
)

// Provider renders printable documents for the console.
type Provider interface {
	GenerateInvoice(ctx context.Context, inv *invoicedomain.Invoice) (io.Reader, error)
}
