package invoice

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manuelveliznajera/backend-SDigitales/internal/config"
	"github.com/manuelveliznajera/backend-SDigitales/internal/models"
)

func testRenderer() *Renderer {
	r := NewRenderer(config.InvoiceConfig{
		WhatsAppNumber: "50249998437",
		BrandName:      "MVTech - Soluciones Digitales",
		ContactLine:    "www.mvtechgt.com | ventas@mvtechgt.com | +502 49998437",
		TagLine:        "Jesús Mi Buen Pastor",
		LogoPath:       "testdata/missing-logo.png",
	})
	r.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return r
}

func productLine(id int, nombre string, cantidad int, precio int64) models.DetalleVenta {
	pid := id
	return models.DetalleVenta{
		ID:             id,
		ProductoID:     &pid,
		Cantidad:       cantidad,
		PrecioUnitario: decimal.NewFromInt(precio),
		Subtotal:       decimal.NewFromInt(precio * int64(cantidad)),
		Producto:       &models.Producto{ID: pid, NombreProducto: nombre},
	}
}

func testVenta(detalles ...models.DetalleVenta) *models.Venta {
	return &models.Venta{
		ID:              42,
		ClienteNombre:   "María López",
		ClienteTelefono: "55512345",
		ClienteCorreo:   "maria@example.com",
		Total:           decimal.NewFromInt(250),
		Estado:          "En Proceso",
		Fecha:           time.Date(2025, 5, 30, 9, 30, 0, 0, time.UTC),
		MetodoPago:      &models.MetodoPago{ID: 1, Nombre: "Efectivo"},
		DetalleVenta:    detalles,
	}
}

func TestRenderProducesPDF(t *testing.T) {
	var buf bytes.Buffer
	err := testRenderer().Render(testVenta(
		productLine(1, "Office 2021", 1, 150),
		productLine(2, "Antivirus", 1, 100),
	), &buf)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(buf.String(), "%PDF-"))
	assert.Contains(t, buf.String(), "%%EOF")
}

func TestRenderWithCoupon(t *testing.T) {
	venta := testVenta(productLine(1, "Office 2021", 1, 250))
	venta.Cupon = &models.Cupon{ID: 1, Codigo: "PROMO10", Tipo: models.CuponPorcentaje, Valor: decimal.NewFromInt(10)}

	var buf bytes.Buffer
	require.NoError(t, testRenderer().Render(venta, &buf))
	assert.NotZero(t, buf.Len())
}

func TestRenderTruncatesToOnePage(t *testing.T) {
	detalles := make([]models.DetalleVenta, 50)
	for i := range detalles {
		detalles[i] = productLine(i+1, fmt.Sprintf("Producto %d", i+1), 1, 10)
	}

	var buf bytes.Buffer
	require.NoError(t, testRenderer().Render(testVenta(detalles...), &buf))

	// Still a single finished document regardless of line-item count.
	assert.True(t, strings.HasPrefix(buf.String(), "%PDF-"))
	assert.Contains(t, buf.String(), "%%EOF")
}

func TestRenderLicenseLine(t *testing.T) {
	lid := 7
	venta := testVenta(models.DetalleVenta{
		ID:         1,
		LicenciaID: &lid,
		Cantidad:   1,
		Licencia:   &models.Licencia{ID: lid, Clave: "AAAA-BBBB-CCCC"},
	})

	var buf bytes.Buffer
	require.NoError(t, testRenderer().Render(venta, &buf))
	assert.NotZero(t, buf.Len())
}

func TestMaxTableRows(t *testing.T) {
	// available = 752 - (tableTop + 24) - 140
	assert.Equal(t, 11, maxTableRows(300))
	assert.Equal(t, 22, maxTableRows(10))
	assert.Equal(t, 0, maxTableRows(600))
}

func TestFileName(t *testing.T) {
	venta := testVenta()
	venta.ClienteNombre = "Cliente #1 (VIP)"
	assert.Equal(t, "factura_42_Cliente 1 VIP.pdf", FileName(venta))

	venta.ClienteNombre = "???"
	assert.Equal(t, "factura_42_cliente.pdf", FileName(venta))
}

func TestSupportLink(t *testing.T) {
	link := testRenderer().SupportLink(42)
	assert.True(t, strings.HasPrefix(link, "https://wa.me/50249998437?text="))
	assert.Contains(t, link, "FAC-42")
	assert.NotContains(t, link, "+", "spaces must be percent-encoded")
	assert.Contains(t, link, "%20")
}
