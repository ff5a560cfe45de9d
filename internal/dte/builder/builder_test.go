package builder

import (
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clientdomain "github.com/abogados-sv/facturacion/internal/client/domain"
	"github.com/abogados-sv/facturacion/internal/config"
	invoicedomain "github.com/abogados-sv/facturacion/internal/invoice/domain"
)

func testIssuer() Issuer {
	return IssuerFromConfig(config.DTEConfig{
		IssuerNIT:  "0614-000000-000-0",
		IssuerNRC:  "000000",
		IssuerName: "Despacho Juridico",
	})
}

func testInvoice(docType string, prices ...string) *invoicedomain.Invoice {
	inv := &invoicedomain.Invoice{
		Number:       "INV-20250601100000-1",
		InvoiceDate:  time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		DocumentType: docType,
	}
	for _, p := range prices {
		inv.Items = append(inv.Items, invoicedomain.InvoiceItem{
			ServiceName:      "Escritura de compraventa",
			Quantity:         1,
			AppliedUnitPrice: decimal.RequireFromString(p),
		})
	}
	return inv
}

func body(t *testing.T, payload map[string]any) map[string]any {
	t.Helper()
	dte, ok := payload["dte"].(map[string]any)
	require.True(t, ok)
	return dte
}

func TestNewIdentifiersFormat(t *testing.T) {
	iss := testIssuer()
	now := time.Date(2025, 6, 1, 14, 30, 5, 0, time.UTC)
	ids := NewIdentifiers("01", iss, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), now)

	assert.Regexp(t, regexp.MustCompile(`^[0-9A-F]{8}-[0-9A-F]{4}-[0-9A-F]{4}-[0-9A-F]{4}-[0-9A-F]{12}$`), ids.CodigoGeneracion)
	assert.Regexp(t, regexp.MustCompile(`^DTE-01-M002P001-\d{15}$`), ids.NumeroControl)
	assert.Equal(t, "2025-06-01", ids.FecEmi)
	assert.Equal(t, "14:30:05", ids.HorEmi)
}

func TestBuildFacturaSplitsInclusiveIVA(t *testing.T) {
	iss := testIssuer()
	inv := testInvoice(invoicedomain.DocConsumidorFinal, "113.00")
	ids := NewIdentifiers("01", iss, inv.InvoiceDate, time.Now())

	dte := body(t, BuildFactura(iss, inv, nil, ids))

	ident := dte["identificacion"].(map[string]any)
	assert.Equal(t, "01", ident["tipoDte"])
	assert.Equal(t, 1, ident["version"])
	assert.Equal(t, "00", ident["ambiente"])

	cuerpo := dte["cuerpoDocumento"].([]any)
	require.Len(t, cuerpo, 1)
	line := cuerpo[0].(map[string]any)
	assert.Equal(t, 100.00, line["ventaGravada"])
	assert.Equal(t, 13.00, line["ivaItem"])
	assert.Equal(t, 113.00, line["precioUni"])

	resumen := dte["resumen"].(map[string]any)
	assert.Equal(t, 100.00, resumen["totalGravada"])
	assert.Equal(t, 13.00, resumen["totalIva"])
	assert.Equal(t, 113.00, resumen["montoTotalOperacion"])
	assert.Equal(t, "113.00 DOLARES", resumen["totalLetras"])

	receptor := dte["receptor"].(map[string]any)
	assert.Equal(t, "VENTA AL PUBLICO", receptor["nombre"])
	assert.Equal(t, "00000000-0", receptor["numDocumento"])
}

func TestBuildFacturaUsesClientIdentity(t *testing.T) {
	iss := testIssuer()
	inv := testInvoice(invoicedomain.DocConsumidorFinal, "50.00")
	client := &clientdomain.Client{
		Name:             "Maria Lopez",
		DUI:              "01234567-8",
		Phone:            "77778888",
		Email:            "maria@example.com",
		DepartmentCode:   "06",
		MunicipalityCode: "14",
	}
	ids := NewIdentifiers("01", iss, inv.InvoiceDate, time.Now())

	dte := body(t, BuildFactura(iss, inv, client, ids))
	receptor := dte["receptor"].(map[string]any)

	assert.Equal(t, "Maria Lopez", receptor["nombre"])
	assert.Equal(t, "01234567-8", receptor["numDocumento"])
	assert.Equal(t, "maria@example.com", receptor["correo"])
	direccion := receptor["direccion"].(map[string]any)
	assert.Equal(t, "06", direccion["departamento"])
	assert.Equal(t, "14", direccion["municipio"])
}

func TestBuildCreditoFiscalTributos(t *testing.T) {
	iss := testIssuer()
	inv := testInvoice(invoicedomain.DocCreditoFiscal, "340.00")
	client := &clientdomain.Client{
		Name:         "Constructora XYZ, S.A. de C.V.",
		NIT:          "0614-111111-111-1",
		NRC:          "123456",
		ActivityCode: "41001",
	}
	ids := NewIdentifiers("03", iss, inv.InvoiceDate, time.Now())

	dte := body(t, BuildCreditoFiscal(iss, inv, client, ids))

	ident := dte["identificacion"].(map[string]any)
	assert.Equal(t, "03", ident["tipoDte"])
	assert.Equal(t, 3, ident["version"])

	cuerpo := dte["cuerpoDocumento"].([]any)
	require.Len(t, cuerpo, 1)
	line := cuerpo[0].(map[string]any)
	assert.Equal(t, 300.88, line["ventaGravada"])
	assert.Equal(t, []any{"20"}, line["tributos"])
	assert.NotContains(t, line, "ivaItem")

	resumen := dte["resumen"].(map[string]any)
	tributos := resumen["tributos"].([]any)
	require.Len(t, tributos, 1)
	trib := tributos[0].(map[string]any)
	assert.Equal(t, "20", trib["codigo"])
	assert.Equal(t, "Impuesto al Valor Agregado 13%", trib["descripcion"])
	assert.Equal(t, 39.12, trib["valor"])
	assert.Equal(t, 340.00, resumen["montoTotalOperacion"])

	receptor := dte["receptor"].(map[string]any)
	assert.Equal(t, "0614-111111-111-1", receptor["nit"])
	assert.Equal(t, "123456", receptor["nrc"])
}

func TestBuildSujetoExcluidoTotals(t *testing.T) {
	iss := testIssuer()
	inv := testInvoice(invoicedomain.DocSujetoExcluido, "75.50", "24.50")
	ids := NewIdentifiers("14", iss, inv.InvoiceDate, time.Now())

	dte := body(t, BuildSujetoExcluido(iss, inv, nil, ids))

	ident := dte["identificacion"].(map[string]any)
	assert.Equal(t, "14", ident["tipoDte"])
	assert.Equal(t, 1, ident["version"])

	cuerpo := dte["cuerpoDocumento"].([]any)
	require.Len(t, cuerpo, 2)
	first := cuerpo[0].(map[string]any)
	assert.Equal(t, 75.50, first["compra"])
	assert.NotContains(t, first, "ventaGravada")

	resumen := dte["resumen"].(map[string]any)
	assert.Equal(t, 100.00, resumen["totalCompra"])
	assert.Equal(t, 100.00, resumen["totalPagar"])
	assert.Equal(t, "100.00 DOLARES", resumen["totalLetras"])

	sujeto := dte["sujetoExcluido"].(map[string]any)
	assert.Equal(t, "CONSUMIDOR FINAL", sujeto["nombre"])
}

func TestIssuerDefaults(t *testing.T) {
	iss := IssuerFromConfig(config.DTEConfig{})
	assert.Equal(t, "M002", iss.Estable)
	assert.Equal(t, "P001", iss.PuntoVenta)
	assert.Equal(t, "69100", iss.ActivityCode)
}
