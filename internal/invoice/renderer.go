package invoice

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/rs/zerolog/log"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/manuelveliznajera/backend-SDigitales/internal/config"
	"github.com/manuelveliznajera/backend-SDigitales/internal/models"
	"github.com/manuelveliznajera/backend-SDigitales/internal/service"
	"github.com/manuelveliznajera/backend-SDigitales/internal/utils"
)

// Page geometry in points. Letter, 40pt margins all around, single page.
const (
	pageWidth  = 612.0
	pageHeight = 792.0
	margin     = 40.0
	pageBottom = pageHeight - margin

	tableStartX   = 40.0
	headerBandH   = 24.0
	rowHeight     = 26.0
	reserveBottom = 140.0 // totals + QR + footer

	footerY = pageHeight - 75.0
)

// colWidths sum to 520, the full printable table width.
var colWidths = [6]float64{30, 180, 130, 50, 65, 65}

var headers = [6]string{"#", "Producto", "Serial", "Cantidad", "Precio", "Subtotal"}

// Renderer turns a resolved sale aggregate into a one-page PDF invoice.
// Line items beyond the page's row budget are dropped, not paginated.
type Renderer struct {
	cfg config.InvoiceConfig
	now func() time.Time
}

// NewRenderer constructs a Renderer with the given branding.
func NewRenderer(cfg config.InvoiceConfig) *Renderer {
	return &Renderer{cfg: cfg, now: time.Now}
}

// FileName returns the invoice file name for a sale: the sale id plus the
// client name stripped to word characters.
func FileName(venta *models.Venta) string {
	return fmt.Sprintf("factura_%d_%s.pdf", venta.ID, utils.SanitizeClientName(venta.ClienteNombre))
}

// Render writes the finished PDF for a sale to w.
func (r *Renderer) Render(venta *models.Venta, w io.Writer) error {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, margin)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	r.drawWatermark(pdf)
	r.drawHeader(pdf, tr, venta)
	y := r.drawInfoBlocks(pdf, tr, venta)
	y = r.drawTable(pdf, tr, venta, y)
	boxTop, boxHeight := r.drawTotals(pdf, tr, venta, y)
	r.drawQR(pdf, tr, venta, boxTop+boxHeight)
	r.drawFooter(pdf, tr, venta)

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render invoice: %w", err)
	}
	return pdf.Output(w)
}

func (r *Renderer) drawWatermark(pdf *fpdf.Fpdf) {
	if _, err := os.Stat(r.cfg.LogoPath); err != nil {
		return
	}
	pdf.SetAlpha(0.08, "Normal")
	pdf.ImageOptions(r.cfg.LogoPath, 150, 200, 300, 0, false, fpdf.ImageOptions{}, 0, "")
	pdf.SetAlpha(1, "Normal")
}

func (r *Renderer) drawHeader(pdf *fpdf.Fpdf, tr func(string) string, venta *models.Venta) {
	if _, err := os.Stat(r.cfg.LogoPath); err == nil {
		pdf.ImageOptions(r.cfg.LogoPath, 40, 30, 80, 0, false, fpdf.ImageOptions{}, 0, "")
	}

	// Boxed invoice number, top right.
	pdf.SetLineWidth(1)
	pdf.SetDrawColor(0xd3, 0x2f, 0x2f)
	pdf.Rect(380, 30, 160, 30, "D")
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(0xd3, 0x2f, 0x2f)
	cellAt(pdf, 380, 38, 160, 16, "C", tr(fmt.Sprintf("FAC-%d", venta.ID)))

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0x33, 0x33, 0x33)
	stamp := r.now().Format("2/1/2006, 15:04:05")
	cellAt(pdf, 380, 70, 192, 12, "R", tr("Fecha de impresión: "+stamp))
}

// drawInfoBlocks renders the client and sale info sections and returns the
// y where the table starts.
func (r *Renderer) drawInfoBlocks(pdf *fpdf.Fpdf, tr func(string) string, venta *models.Venta) float64 {
	y := 110.0

	y = r.blockHeading(pdf, tr, "Datos del Cliente", y)
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(0x33, 0x33, 0x33)
	direccion := "N/A"
	if venta.ClienteDireccion != nil && *venta.ClienteDireccion != "" {
		direccion = *venta.ClienteDireccion
	}
	for _, line := range []string{
		"Nombre: " + venta.ClienteNombre,
		"Teléfono: " + venta.ClienteTelefono,
		"Correo: " + venta.ClienteCorreo,
		"Dirección: " + direccion,
	} {
		cellAt(pdf, 50, y, 460, 14, "L", tr(line))
		y += 16
	}
	y += 16

	y = r.blockHeading(pdf, tr, "Información de la Venta", y)
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(0x33, 0x33, 0x33)
	metodo := "N/A"
	if venta.MetodoPago != nil {
		metodo = venta.MetodoPago.Nombre
	}
	cellAt(pdf, 50, y, 230, 14, "L", tr(fmt.Sprintf("ID Venta: %d", venta.ID)))
	cellAt(pdf, 300, y, 230, 14, "L", tr("Método de Pago: "+metodo))
	y += 16
	cellAt(pdf, 50, y, 230, 14, "L", tr("Fecha: "+venta.Fecha.Format("2/1/2006, 15:04:05")))
	cellAt(pdf, 300, y, 230, 14, "L", tr("Estado: "+venta.Estado))
	y += 16
	if venta.Cupon != nil {
		cellAt(pdf, 50, y, 460, 14, "L", tr("Cupón Aplicado: "+venta.Cupon.Codigo))
		y += 16
	}

	return y + 10
}

func (r *Renderer) blockHeading(pdf *fpdf.Fpdf, tr func(string) string, title string, y float64) float64 {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetTextColor(0, 0, 0)
	cellAt(pdf, 50, y, 460, 16, "L", tr(title))
	pdf.SetDrawColor(0x00, 0x4a, 0xad)
	pdf.Line(40, y+18, 560, y+18)
	return y + 28
}

// maxTableRows returns how many line-item rows fit between a table header at
// tableTop and the reserved totals/QR/footer area.
func maxTableRows(tableTop float64) int {
	available := pageBottom - (tableTop + headerBandH) - reserveBottom
	n := int(available / rowHeight)
	if n < 0 {
		return 0
	}
	return n
}

// drawTable renders the line-item table and returns the y below the last row.
// At most maxTableRows items are drawn; the rest are omitted.
func (r *Renderer) drawTable(pdf *fpdf.Fpdf, tr func(string) string, venta *models.Venta, tableTop float64) float64 {
	tableWidth := 0.0
	for _, w := range colWidths {
		tableWidth += w
	}

	pdf.SetFillColor(0x00, 0x4a, 0xad)
	pdf.Rect(tableStartX, tableTop-5, tableWidth, headerBandH, "F")
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetTextColor(0xff, 0xff, 0xff)
	x := tableStartX
	for i, h := range headers {
		cellAt(pdf, x+5, tableTop, colWidths[i]-10, 14, "L", tr(h))
		x += colWidths[i]
	}

	items := venta.DetalleVenta
	if max := maxTableRows(tableTop); len(items) > max {
		log.Warn().Int("venta_id", venta.ID).Int("omitted", len(items)-max).Msg("invoice table truncated to one page")
		items = items[:max]
	}

	y := tableTop + 28
	pdf.SetFont("Helvetica", "", 10)
	serial := 0
	for i, item := range items {
		if i%2 == 0 {
			pdf.SetFillColor(0xf7, 0xf7, 0xf7)
		} else {
			pdf.SetFillColor(0xff, 0xff, 0xff)
		}
		pdf.SetDrawColor(0xe0, 0xe0, 0xe0)
		pdf.Rect(tableStartX, y-4, tableWidth, rowHeight, "FD")

		producto := "Producto"
		if item.Producto != nil {
			producto = item.Producto.NombreProducto
		}
		serialText := "—"
		if item.Licencia != nil && item.Licencia.Clave != "" {
			serial++
			serialText = fmt.Sprintf("Licencia #%d: %s", serial, item.Licencia.Clave)
		}

		pdf.SetTextColor(0, 0, 0)
		x = tableStartX + 5
		cellAt(pdf, x, y, colWidths[0]-10, 12, "L", fmt.Sprintf("%d", i+1))
		x += colWidths[0]
		cellAt(pdf, x, y, colWidths[1]-10, 12, "L", tr(producto))
		x += colWidths[1]
		cellAt(pdf, x, y+3, colWidths[2]-10, 12, "L", tr(serialText))
		x += colWidths[2]
		cellAt(pdf, x, y+3, colWidths[3]-10, 12, "L", fmt.Sprintf("%d", item.Cantidad))
		x += colWidths[3]
		cellAt(pdf, x, y, colWidths[4]-10, 12, "L", "Q"+item.PrecioUnitario.StringFixed(2))
		x += colWidths[4]
		cellAt(pdf, x, y, colWidths[5]-10, 12, "L", "Q"+item.Subtotal.StringFixed(2))

		y += rowHeight
	}

	pdf.SetDrawColor(0x00, 0x4a, 0xad)
	pdf.Line(tableStartX, y+3, 550, y+3)
	return y
}

// drawTotals renders the totals box with the discount line when a coupon was
// applied. Returns the box top and height for positioning the QR below it.
func (r *Renderer) drawTotals(pdf *fpdf.Fpdf, tr func(string) string, venta *models.Venta, y float64) (float64, float64) {
	descuento := service.ComputeDiscount(venta.Total, venta.Cupon)
	total := venta.Total.Sub(descuento)

	boxHeight := 30.0
	if venta.Cupon != nil {
		boxHeight = 52.0
	}
	boxTop := y + 10
	if limit := pageBottom - (boxHeight + 120); boxTop > limit {
		boxTop = limit
	}

	pdf.SetFillColor(0xff, 0xff, 0xff)
	pdf.SetDrawColor(0xcc, 0xcc, 0xcc)
	pdf.Rect(340, boxTop, 210, boxHeight, "FD")

	textY := boxTop + 12
	if venta.Cupon != nil {
		pdf.SetFillColor(0xf2, 0xf2, 0xf2)
		pdf.SetDrawColor(0xe0, 0xe0, 0xe0)
		pdf.Rect(340, textY-3, 210, 20, "FD")
		pdf.SetFont("Helvetica", "", 12)
		pdf.SetTextColor(0, 0, 0)
		cellAt(pdf, 350, textY, 105, 14, "L", tr(fmt.Sprintf("Descuento (%s):", venta.Cupon.Codigo)))
		cellAt(pdf, 460, textY, 80, 14, "R", "-Q"+descuento.StringFixed(2))
		textY += 22
	}

	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetTextColor(0, 0, 0)
	cellAt(pdf, 350, textY, 100, 15, "L", "Total:")
	cellAt(pdf, 460, textY, 80, 15, "R", "Q"+total.StringFixed(2))

	return boxTop, boxHeight
}

// SupportLink returns the WhatsApp deep link encoded in the invoice QR.
func (r *Renderer) SupportLink(ventaID int) string {
	msg := fmt.Sprintf("Hola, consulto sobre la activación de mi licencia MVTech. Mi número de factura es #FAC-%d. Gracias.", ventaID)
	encoded := strings.ReplaceAll(url.QueryEscape(msg), "+", "%20")
	return fmt.Sprintf("https://wa.me/%s?text=%s", r.cfg.WhatsAppNumber, encoded)
}

// drawQR places the support QR below the totals box, clamped so it never
// overlaps the footer. A QR encoding failure is logged and skipped.
func (r *Renderer) drawQR(pdf *fpdf.Fpdf, tr func(string) string, venta *models.Venta, belowTotals float64) {
	png, err := qrcode.Encode(r.SupportLink(venta.ID), qrcode.Medium, 120)
	if err != nil {
		log.Error().Err(err).Int("venta_id", venta.ID).Msg("failed to encode support QR")
		return
	}

	name := fmt.Sprintf("qr-%d", venta.ID)
	pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))

	qrY := belowTotals + 15
	if limit := pageBottom - 120; qrY > limit {
		qrY = limit
	}
	pdf.ImageOptions(name, 40, qrY, 90, 0, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(0x33, 0x33, 0x33)
	cellAt(pdf, 40, qrY+95, 120, 11, "L", tr("Soporte WhatsApp"))
	pdf.SetTextColor(0x00, 0x4a, 0xad)
	cellAt(pdf, 40, qrY+108, 120, 11, "L", tr("Escanea para ayuda"))
}

func (r *Renderer) drawFooter(pdf *fpdf.Fpdf, tr func(string) string, venta *models.Venta) {
	pdf.SetDrawColor(0x00, 0x4a, 0xad)
	pdf.Line(40, footerY-5, pageWidth-40, footerY-5)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(0, 0, 0)
	cellAt(pdf, 40, footerY, 350, 12, "L", tr(fmt.Sprintf("FAC-%d | %s", venta.ID, r.cfg.BrandName)))

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0x33, 0x33, 0x33)
	cellAt(pdf, 40, footerY+14, 350, 12, "L", tr(r.cfg.ContactLine))

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(0x66, 0x66, 0x66)
	cellAt(pdf, 40, footerY+24, 350, 11, "L", tr(r.cfg.TagLine))
}

// cellAt draws a single aligned text cell at absolute coordinates.
func cellAt(pdf *fpdf.Fpdf, x, y, w, h float64, align, text string) {
	pdf.SetXY(x, y)
	pdf.CellFormat(w, h, text, "", 0, align, false, 0, "")
}
