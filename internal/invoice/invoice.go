// Package invoice draws the PDF invoice of an order.
package invoice

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/skip2/go-qrcode"

	"boutique/internal/models"
)

const qrSize = 40.0 // mm

// Filename is the name the browser is given for the order's invoice.
func Filename(o models.Order) string {
	return "invoice-" + o.ID.String() + ".pdf"
}

// Lines returns one "<title> - <qty> x $<price>" line per ordered product.
func Lines(o models.Order) []string {
	lines := make([]string, 0, len(o.Products))
	for _, it := range o.Products {
		lines = append(lines, fmt.Sprintf("%s - %d x $%s", it.Product.Title, it.Quantity, it.Product.Price.String()))
	}
	return lines
}

// Reference is the payload of the QR code printed under the total.
func Reference(o models.Order) string {
	return fmt.Sprintf("ORDER:%s\nTOTAL:%s", o.ID, o.Total().StringFixed(2))
}

// Write renders the invoice of o as PDF into w.
func Write(w io.Writer, o models.Order) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice "+o.ID.String(), true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "U", 26)
	pdf.Cell(0, 12, "Invoice")
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "", 14)
	pdf.Cell(0, 8, "-----------------------")
	pdf.Ln(8)
	for _, line := range Lines(o) {
		pdf.Cell(0, 8, tr(line))
		pdf.Ln(8)
	}
	pdf.Cell(0, 8, "---")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 20)
	pdf.Cell(0, 10, "Total Price: $"+o.Total().String())
	pdf.Ln(14)

	png, err := qrcode.Encode(Reference(o), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("encode invoice qr: %w", err)
	}
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", opts, bytes.NewReader(png))
	pdf.ImageOptions("qr", pdf.GetX(), pdf.GetY(), qrSize, qrSize, false, opts, 0, "")

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render invoice: %w", err)
	}
	return pdf.Output(w)
}
