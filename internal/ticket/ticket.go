// Package ticket builds the issued ticket artifact and its printable PDF.
package ticket

import (
	"bytes"
	"fmt"
	"net/url"
	"time"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"

	"github.com/unikiala/unikiala-api/internal/model"
	"github.com/unikiala/unikiala-api/internal/utils"
)

const qrService = "https://api.qrserver.com/v1/create-qr-code/"

// QRURL returns the hosted QR image for a reference code, magenta on black.
func QRURL(code string) string {
	return qrService + "?size=250x250&data=" + url.QueryEscape(code) + "&color=FF00FF&bgcolor=000000&margin=1"
}

// Ticket is the proof of purchase shown after an approved payment. It is
// never persisted.
type Ticket struct {
	Code      string      `json:"code"`
	QRURL     string      `json:"qr_url"`
	BuyerName string      `json:"buyer_name"`
	Quantity  int         `json:"quantity"`
	Total     int64       `json:"total"`
	Event     model.Event `json:"event"`
	IssuedAt  time.Time   `json:"issued_at"`
}

func New(code, buyer string, quantity int, total int64, ev model.Event, issuedAt time.Time) Ticket {
	return Ticket{
		Code:      code,
		QRURL:     QRURL(code),
		BuyerName: buyer,
		Quantity:  quantity,
		Total:     total,
		Event:     ev,
		IssuedAt:  issuedAt,
	}
}

// RenderPDF draws the print view of t. The QR code is encoded locally so the
// PDF does not depend on the QR service being reachable.
func RenderPDF(t Ticket) ([]byte, error) {
	png, err := qrcode.Encode(t.Code, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("ticket: encode qr: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A5", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()

	w, h := pdf.GetPageSize()
	pdf.SetFillColor(10, 10, 10)
	pdf.Rect(0, 0, w, h, "F")

	pdf.SetTextColor(255, 0, 255)
	pdf.SetFont("Helvetica", "B", 22)
	pdf.CellFormat(0, 12, "UNIKIALA", "", 1, "C", false, 0, "")
	pdf.SetTextColor(200, 200, 200)
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 6, tr("Bilhete Oficial"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 16)
	pdf.MultiCell(0, 8, tr(t.Event.Title), "", "C", false)
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 11)
	lines := []string{
		"Categoria: " + t.Event.CategoryOrDefault(),
		"Local: " + t.Event.Location,
		"Data: " + t.Event.Date,
		"Titular: " + t.BuyerName,
		fmt.Sprintf("Quantidade: %d", t.Quantity),
		"Total: " + utils.FormatKz(t.Total),
	}
	for _, l := range lines {
		pdf.CellFormat(0, 7, tr(l), "", 1, "L", false, 0, "")
	}

	imgOpts := gofpdf.ImageOptions{ImageType: "png"}
	pdf.RegisterImageOptionsReader("qr", imgOpts, bytes.NewReader(png))
	size := 60.0
	pdf.ImageOptions("qr", (w-size)/2, pdf.GetY()+6, size, size, true, imgOpts, 0, "")

	pdf.SetTextColor(255, 0, 255)
	pdf.SetFont("Courier", "B", 14)
	pdf.CellFormat(0, 10, t.Code, "", 1, "C", false, 0, "")

	pdf.SetY(-22)
	pdf.SetTextColor(150, 150, 150)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(0, 5, tr("Apresente este código à entrada do evento."), "T", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, "Emitido em "+t.IssuedAt.Format("02/01/2006 15:04"), "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("ticket: render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
