// Package vouchers renders printable tour vouchers, one A4 page per tourist.
package vouchers

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/signintech/gopdf"
	"golang.org/x/image/font/gofont/goregular"

	"ms-tours/internal/models"
	"ms-tours/internal/tours/qr"
)

const (
	fontFamily = "goregular"
	dateLayout = "2006-01-02"
	qrSize     = 120.0
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate returns a PDF with a voucher page for every tourist of event. The
// QR code links to the tour's TripAdvisor page and is left out when the event
// has no tour or the tour has no link.
func (g *Generator) Generate(event models.TourEventWithTourists) ([]byte, error) {
	if len(event.Tourists) == 0 {
		return nil, fmt.Errorf("tour event %d has no tourists", event.ID)
	}

	var qrCode []byte
	if event.Tour != nil && event.Tour.TripAdvisorLink != "" {
		code, err := qr.Encode(event.Tour.TripAdvisorLink, qr.DefaultSize)
		if err != nil {
			return nil, fmt.Errorf("failed to encode voucher QR code: %w", err)
		}
		qrCode = code
	}

	pdf := &gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.SetInfo(gopdf.PdfInfo{Title: event.EventName + " Vouchers", Creator: "ms-tours"})

	if err := pdf.AddTTFFontData(fontFamily, goregular.TTF); err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}

	for _, tourist := range event.Tourists {
		pdf.AddPage()
		if err := addHeader(pdf); err != nil {
			return nil, err
		}

		pdf.SetY(90)
		if err := addVoucherInfo(pdf, event, tourist); err != nil {
			return nil, err
		}

		if len(qrCode) > 0 {
			pdf.SetY(pdf.GetY() + 20)
			addQRCode(pdf, qrCode)
		}

		pdf.SetY(gopdf.PageSizeA4.H - 60)
		if err := addFooter(pdf); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := pdf.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func addHeader(pdf *gopdf.GoPdf) error {
	if err := pdf.SetFont(fontFamily, "", 20); err != nil {
		return fmt.Errorf("failed to set font: %w", err)
	}
	pdf.SetXY(40, 40)
	return pdf.Cell(nil, "TOUR VOUCHER")
}

func addVoucherInfo(pdf *gopdf.GoPdf, event models.TourEventWithTourists, tourist models.Tourist) error {
	if err := pdf.SetFont(fontFamily, "", 12); err != nil {
		return fmt.Errorf("failed to set font: %w", err)
	}

	info := []struct {
		Label string
		Value string
	}{
		{"Tourist", tourist.Name},
		{"Email", tourist.Email},
		{"Country", tourist.Country},
		{"Tour Event", event.EventName},
		{"Tour", event.TourName()},
		{"From", event.DateFrom.Format(dateLayout)},
		{"To", event.DateTo.Format(dateLayout)},
	}

	for _, item := range info {
		if item.Value == "" {
			continue
		}
		pdf.SetX(40)
		if err := pdf.Cell(nil, item.Label+": "+item.Value); err != nil {
			return fmt.Errorf("failed to write voucher line: %w", err)
		}
		pdf.Br(20)
	}
	return nil
}

func addQRCode(pdf *gopdf.GoPdf, qrCode []byte) {
	img, err := png.Decode(bytes.NewReader(qrCode))
	if err != nil {
		pdf.SetX(40)
		pdf.Cell(nil, "Failed to load QR code")
		return
	}

	rect := &gopdf.Rect{W: qrSize, H: qrSize}
	if err := pdf.ImageFrom(img, 40, pdf.GetY(), rect); err != nil {
		pdf.SetX(40)
		pdf.Cell(nil, "Failed to draw QR code")
	}
}

func addFooter(pdf *gopdf.GoPdf) error {
	if err := pdf.SetFont(fontFamily, "", 9); err != nil {
		return fmt.Errorf("failed to set font: %w", err)
	}
	pdf.SetX(40)
	return pdf.Cell(nil, "Please show this voucher to your guide at the meeting point.")
}
