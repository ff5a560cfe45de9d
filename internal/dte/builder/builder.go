// Package builder constructs the Hacienda DTE JSON payloads for the
// three document types the firm emits: factura (01), crédito fiscal
// (03) and sujeto excluido (14).
package builder

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	clientdomain "github.com/abogados-sv/facturacion/internal/client/domain"
	"github.com/abogados-sv/facturacion/internal/config"
	invoicedomain "github.com/abogados-sv/facturacion/internal/invoice/domain"
	"github.com/abogados-sv/facturacion/internal/pricing"
)

// Issuer is the emitting firm's fiscal identity.
type Issuer struct {
	NIT                 string
	NRC                 string
	Name                string
	TradeName           string
	ActivityCode        string
	ActivityDesc        string
	Departamento        string
	Municipio           string
	Complemento         string
	Phone               string
	Email               string
	Estable             string
	PuntoVenta          string
	TipoEstablecimiento string
}

// IssuerFromConfig fills the issuer block, defaulting the fields the
// environment does not override.
func IssuerFromConfig(cfg config.DTEConfig) Issuer {
	iss := Issuer{
		NIT:                 cfg.IssuerNIT,
		NRC:                 cfg.IssuerNRC,
		Name:                cfg.IssuerName,
		TradeName:           cfg.IssuerName,
		ActivityCode:        "69100",
		ActivityDesc:        "Actividades juridicas",
		Departamento:        "12",
		Municipio:           "22",
		Complemento:         "24 Calle oriente, col. lopez, #13, san miguel, san miguel",
		Phone:               "00000000",
		Email:               "",
		Estable:             cfg.Establecimiento,
		PuntoVenta:          cfg.PuntoVenta,
		TipoEstablecimiento: "02",
	}
	if iss.Estable == "" {
		iss.Estable = "M002"
	}
	if iss.PuntoVenta == "" {
		iss.PuntoVenta = "P001"
	}
	return iss
}

func (i Issuer) payload() map[string]any {
	return map[string]any{
		"nit":                 i.NIT,
		"nrc":                 i.NRC,
		"nombre":              i.Name,
		"nombreComercial":     i.TradeName,
		"codActividad":        i.ActivityCode,
		"descActividad":       i.ActivityDesc,
		"direccion":           i.address(),
		"telefono":            i.Phone,
		"correo":              i.Email,
		"codEstable":          i.Estable,
		"codPuntoVenta":       i.PuntoVenta,
		"codPuntoVentaMH":     i.PuntoVenta,
		"codEstableMH":        i.Estable,
		"tipoEstablecimiento": i.TipoEstablecimiento,
	}
}

func (i Issuer) address() map[string]any {
	return map[string]any{
		"departamento": i.Departamento,
		"municipio":    i.Municipio,
		"complemento":  i.Complemento,
	}
}

// Identifiers are the per-transmission document identifiers. They are
// generated before the first attempt and survive offline retries.
type Identifiers struct {
	CodigoGeneracion string
	NumeroControl    string
	FecEmi           string
	HorEmi           string
}

// NewIdentifiers mints the codigoGeneracion (uppercase UUID) and the
// numeroControl `DTE-<tipo>-<estable><punto>-<15 digits>`.
func NewIdentifiers(docType string, iss Issuer, invoiceDate, now time.Time) Identifiers {
	return Identifiers{
		CodigoGeneracion: strings.ToUpper(uuid.NewString()),
		NumeroControl:    fmt.Sprintf("DTE-%s-%s%s-%s", docType, iss.Estable, iss.PuntoVenta, randomDigits(15)),
		FecEmi:           invoiceDate.Format("2006-01-02"),
		HorEmi:           now.Format("15:04:05"),
	}
}

func randomDigits(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		d, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteByte('0')
			continue
		}
		b.WriteString(d.String())
	}
	return b.String()
}

func money(v decimal.Decimal) float64 {
	f, _ := pricing.Round2(v).Float64()
	return f
}

func identification(docType string, version int, ids Identifiers) map[string]any {
	return map[string]any{
		"codigoGeneracion": ids.CodigoGeneracion,
		"motivoContin":     nil,
		"fecEmi":           ids.FecEmi,
		"tipoModelo":       1,
		"tipoDte":          docType,
		"version":          version,
		"tipoContingencia": nil,
		"ambiente":         "00",
		"numeroControl":    ids.NumeroControl,
		"horEmi":           ids.HorEmi,
		"tipoOperacion":    1,
		"tipoMoneda":       "USD",
	}
}

func extension(observaciones string) map[string]any {
	return map[string]any{
		"observaciones": observaciones,
		"placaVehiculo": nil,
		"docuRecibe":    nil,
		"nombEntrega":   nil,
		"nombRecibe":    nil,
		"docuEntrega":   nil,
	}
}

func pagos(total decimal.Decimal) []any {
	return []any{map[string]any{
		"plazo":      nil,
		"periodo":    nil,
		"codigo":     "01",
		"referencia": nil,
		"montoPago":  money(total),
	}}
}

func observationsOrDefault(inv *invoicedomain.Invoice, fallback string) string {
	obs := strings.TrimSpace(inv.Observations)
	if obs == "" {
		return fallback
	}
	return obs
}

func clientOrNil(c *clientdomain.Client, pick func(*clientdomain.Client) string, fallback string) string {
	if c != nil {
		if v := strings.TrimSpace(pick(c)); v != "" {
			return v
		}
	}
	return fallback
}

// BuildFactura assembles the type 01 payload. Line amounts are VAT
// inclusive; each line reports its own ivaItem derived from the
// inclusive gross.
func BuildFactura(iss Issuer, inv *invoicedomain.Invoice, client *clientdomain.Client, ids Identifiers) map[string]any {
	receptor := map[string]any{
		"correo":        nil,
		"nombre":        "VENTA AL PUBLICO",
		"tipoDocumento": "13",
		"direccion":     iss.address(),
		"numDocumento":  "00000000-0",
		"nrc":           nil,
		"telefono":      "00000000",
		"codActividad":  nil,
		"descActividad": nil,
	}
	if client != nil {
		receptor["nombre"] = clientOrNil(client, func(c *clientdomain.Client) string { return c.Name }, "VENTA AL PUBLICO")
		receptor["numDocumento"] = clientOrNil(client, func(c *clientdomain.Client) string {
			if c.NIT != "" {
				return c.NIT
			}
			return c.DUI
		}, "00000000-0")
		receptor["telefono"] = clientOrNil(client, func(c *clientdomain.Client) string { return c.Phone }, "00000000")
		if client.Email != "" {
			receptor["correo"] = client.Email
		}
		receptor["direccion"] = map[string]any{
			"departamento": clientOrNil(client, func(c *clientdomain.Client) string { return c.DepartmentCode }, iss.Departamento),
			"municipio":    clientOrNil(client, func(c *clientdomain.Client) string { return c.MunicipalityCode }, iss.Municipio),
			"complemento":  iss.Complemento,
		}
	}

	cuerpo := make([]any, 0, len(inv.Items))
	totalGravada := decimal.Zero
	totalIVA := decimal.Zero
	for i, item := range inv.Items {
		gross := item.AppliedUnitPrice.Mul(decimal.NewFromInt(item.Quantity))
		split := pricing.SplitGrossAmount(gross)
		totalGravada = totalGravada.Add(split.Subtotal)
		totalIVA = totalIVA.Add(split.IVA)

		cuerpo = append(cuerpo, map[string]any{
			"numItem":         i + 1,
			"tipoItem":        1,
			"codigo":          "SERV",
			"descripcion":     item.ServiceName,
			"cantidad":        float64(item.Quantity),
			"uniMedida":       59,
			"precioUni":       money(item.AppliedUnitPrice),
			"montoDescu":      0,
			"ventaGravada":    money(split.Subtotal),
			"ventaExenta":     0,
			"ventaNoSuj":      0,
			"noGravado":       0,
			"ivaItem":         money(split.IVA),
			"psv":             0,
			"codTributo":      nil,
			"tributos":        nil,
			"numeroDocumento": nil,
		})
	}

	totalGravada = pricing.Round2(totalGravada)
	totalIVA = pricing.Round2(totalIVA)
	totalOperacion := pricing.Round2(totalGravada.Add(totalIVA))

	resumen := map[string]any{
		"totalDescu":          0,
		"ivaRete1":            0,
		"pagos":               pagos(totalOperacion),
		"porcentajeDescuento": 0,
		"saldoFavor":          0,
		"totalNoGravado":      0,
		"totalGravada":        money(totalGravada),
		"descuExenta":         0,
		"subTotal":            money(totalGravada),
		"totalLetras":         fmt.Sprintf("%s DOLARES", totalOperacion.StringFixed(2)),
		"descuNoSuj":          0,
		"subTotalVentas":      money(totalGravada),
		"reteRenta":           0,
		"tributos":            nil,
		"totalNoSuj":          0,
		"montoTotalOperacion": money(totalOperacion),
		"totalIva":            money(totalIVA),
		"descuGravada":        0,
		"totalExenta":         0,
		"condicionOperacion":  1,
		"totalPagar":          money(totalOperacion),
		"numPagoElectronico":  nil,
	}

	return map[string]any{
		"dte": map[string]any{
			"apendice":             nil,
			"identificacion":       identification("01", 1, ids),
			"resumen":              resumen,
			"extension":            extension(observationsOrDefault(inv, "Venta al mostrador")),
			"cuerpoDocumento":      cuerpo,
			"emisor":               iss.payload(),
			"documentoRelacionado": nil,
			"ventaTercero":         nil,
			"otrosDocumentos":      nil,
			"receptor":             receptor,
		},
	}
}

// BuildCreditoFiscal assembles the type 03 payload. Lines are reported
// VAT exclusive with tributo 20, and the total IVA rides the resumen
// tributos block.
func BuildCreditoFiscal(iss Issuer, inv *invoicedomain.Invoice, client *clientdomain.Client, ids Identifiers) map[string]any {
	name := clientOrNil(client, func(c *clientdomain.Client) string { return c.Name }, "CLIENTE")
	receptor := map[string]any{
		"nombre":          name,
		"nombreComercial": name,
		"direccion": map[string]any{
			"departamento": clientOrNil(client, func(c *clientdomain.Client) string { return c.DepartmentCode }, iss.Departamento),
			"municipio":    clientOrNil(client, func(c *clientdomain.Client) string { return c.MunicipalityCode }, iss.Municipio),
			"complemento":  iss.Complemento,
		},
		"correo":        clientOrNil(client, func(c *clientdomain.Client) string { return c.Email }, ""),
		"nit":           clientOrNil(client, func(c *clientdomain.Client) string { return c.NIT }, ""),
		"nrc":           clientOrNil(client, func(c *clientdomain.Client) string { return c.NRC }, ""),
		"telefono":      clientOrNil(client, func(c *clientdomain.Client) string { return c.Phone }, "00000000"),
		"codActividad":  clientOrNil(client, func(c *clientdomain.Client) string { return c.ActivityCode }, ""),
		"descActividad": nil,
	}

	cuerpo := make([]any, 0, len(inv.Items))
	totalGravada := decimal.Zero
	totalIVA := decimal.Zero
	for i, item := range inv.Items {
		gross := item.AppliedUnitPrice.Mul(decimal.NewFromInt(item.Quantity))
		split := pricing.SplitGrossAmount(gross)
		totalGravada = totalGravada.Add(split.Subtotal)
		totalIVA = totalIVA.Add(split.IVA)

		cuerpo = append(cuerpo, map[string]any{
			"numItem":         i + 1,
			"tipoItem":        1,
			"codigo":          "SERVICIO",
			"descripcion":     item.ServiceName,
			"cantidad":        float64(item.Quantity),
			"uniMedida":       59,
			"precioUni":       money(item.AppliedUnitPrice),
			"montoDescu":      0,
			"ventaGravada":    money(split.Subtotal),
			"ventaExenta":     0,
			"ventaNoSuj":      0,
			"noGravado":       0,
			"psv":             0,
			"codTributo":      nil,
			"tributos":        []any{"20"},
			"numeroDocumento": nil,
		})
	}

	totalGravada = pricing.Round2(totalGravada)
	totalIVA = pricing.Round2(totalIVA)
	totalOperacion := pricing.Round2(totalGravada.Add(totalIVA))

	resumen := map[string]any{
		"totalDescu":          0,
		"ivaRete1":            0,
		"pagos":               pagos(totalOperacion),
		"porcentajeDescuento": 0,
		"saldoFavor":          0,
		"totalNoGravado":      0,
		"totalGravada":        money(totalGravada),
		"descuExenta":         0,
		"subTotal":            money(totalGravada),
		"totalLetras":         fmt.Sprintf("%s DOLARES", totalOperacion.StringFixed(2)),
		"descuNoSuj":          0,
		"subTotalVentas":      money(totalGravada),
		"reteRenta":           0,
		"tributos": []any{map[string]any{
			"codigo":      "20",
			"descripcion": "Impuesto al Valor Agregado 13%",
			"valor":       money(totalIVA),
		}},
		"totalNoSuj":          0,
		"montoTotalOperacion": money(totalOperacion),
		"descuGravada":        0,
		"totalExenta":         0,
		"condicionOperacion":  1,
		"totalPagar":          money(totalOperacion),
		"ivaPerci1":           0,
		"numPagoElectronico":  nil,
	}

	return map[string]any{
		"dte": map[string]any{
			"apendice":             nil,
			"identificacion":       identification("03", 3, ids),
			"resumen":              resumen,
			"extension":            extension(observationsOrDefault(inv, "Crédito fiscal para deducción fiscal del cliente")),
			"cuerpoDocumento":      cuerpo,
			"emisor":               iss.payload(),
			"documentoRelacionado": nil,
			"ventaTercero":         nil,
			"otrosDocumentos":      nil,
			"receptor":             receptor,
		},
	}
}

// BuildSujetoExcluido assembles the type 14 payload. Amounts carry no
// VAT split; lines report the gross compra figure.
func BuildSujetoExcluido(iss Issuer, inv *invoicedomain.Invoice, client *clientdomain.Client, ids Identifiers) map[string]any {
	sujeto := map[string]any{
		"tipoDocumento": "13",
		"nombre":        clientOrNil(client, func(c *clientdomain.Client) string { return c.Name }, "CONSUMIDOR FINAL"),
		"telefono":      clientOrNil(client, func(c *clientdomain.Client) string { return c.Phone }, "00000000"),
		"descActividad": nil,
		"numDocumento": clientOrNil(client, func(c *clientdomain.Client) string {
			if c.DUI != "" {
				return c.DUI
			}
			return c.NIT
		}, "000000000"),
		"direccion": map[string]any{
			"departamento": clientOrNil(client, func(c *clientdomain.Client) string { return c.DepartmentCode }, iss.Departamento),
			"municipio":    clientOrNil(client, func(c *clientdomain.Client) string { return c.MunicipalityCode }, iss.Municipio),
			"complemento":  clientOrNil(client, func(c *clientdomain.Client) string { return c.Address }, iss.Complemento),
		},
		"codActividad": clientOrNil(client, func(c *clientdomain.Client) string { return c.ActivityCode }, ""),
		"correo":       clientOrNil(client, func(c *clientdomain.Client) string { return c.Email }, ""),
	}

	cuerpo := make([]any, 0, len(inv.Items))
	totalCompra := decimal.Zero
	for i, item := range inv.Items {
		lineTotal := pricing.Round2(item.AppliedUnitPrice.Mul(decimal.NewFromInt(item.Quantity)))
		totalCompra = totalCompra.Add(lineTotal)

		cuerpo = append(cuerpo, map[string]any{
			"numItem":     i + 1,
			"tipoItem":    1,
			"codigo":      "SERV",
			"descripcion": item.ServiceName,
			"cantidad":    float64(item.Quantity),
			"uniMedida":   59,
			"precioUni":   money(item.AppliedUnitPrice),
			"montoDescu":  0,
			"compra":      money(lineTotal),
		})
	}
	totalCompra = pricing.Round2(totalCompra)

	resumen := map[string]any{
		"observaciones":      observationsOrDefault(inv, "Venta a consumidor final - Sujeto Excluido"),
		"totalDescu":         0,
		"pagos":              pagos(totalCompra),
		"subTotal":           money(totalCompra),
		"descu":              0,
		"reteRenta":          0,
		"condicionOperacion": 1,
		"ivaRete1":           0,
		"totalLetras":        fmt.Sprintf("%s DOLARES", totalCompra.StringFixed(2)),
		"totalCompra":        money(totalCompra),
		"totalPagar":         money(totalCompra),
	}

	return map[string]any{
		"dte": map[string]any{
			"apendice":        nil,
			"cuerpoDocumento": cuerpo,
			"resumen":         resumen,
			"sujetoExcluido":  sujeto,
			"emisor":          iss.payload(),
			"identificacion":  identification("14", 1, ids),
		},
	}
}
