package invoice

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Shakilofficial/nextmart-server/models"
	"github.com/go-pdf/fpdf"
)

// RenderError is returned when the invoice cannot be produced, either
// because a required order field is absent or a remote asset could not be
// fetched.
type RenderError struct {
	Reason string
	Err    error
}

func (e *RenderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invoice render: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("invoice render: %s", e.Reason)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Line is one row of the invoice summary block.
type Line struct {
	Label string
	Value string
}

// Summary returns the summary rows exactly as they are printed: amounts come
// from the order's own fields, FinalAmount is never recomputed.
func Summary(order models.Order) []Line {
	return []Line{
		{Label: "Subtotal:", Value: fmt.Sprintf("%.2f", order.TotalAmount)},
		{Label: "Discount:", Value: fmt.Sprintf("-%.2f", order.Discount)},
		{Label: "Delivery Charge:", Value: fmt.Sprintf("%.2f", order.DeliveryCharge)},
		{Label: "TOTAL:", Value: fmt.Sprintf("%.2f", order.FinalAmount)},
	}
}

// Renderer produces PDF invoices from populated order snapshots. Construct
// once and inject; it is safe for concurrent use.
type Renderer struct {
	logoURL    string
	httpClient *http.Client
}

func NewRenderer(logoURL string) *Renderer {
	return &Renderer{
		logoURL: logoURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// rose palette carried over from the web storefront
var (
	colorHeader    = rgb{252, 231, 243}
	colorBanner    = rgb{251, 113, 133}
	colorHighlight = rgb{244, 63, 94}
	colorLightRow  = rgb{253, 242, 248}
	colorText      = rgb{0, 0, 0}
	colorWhite     = rgb{255, 255, 255}
)

type rgb struct{ r, g, b int }

// Render produces the invoice PDF for a paid order. The input is not
// mutated.
func (r *Renderer) Render(ctx context.Context, detail models.OrderDetail) ([]byte, error) {
	if err := validate(detail); err != nil {
		return nil, err
	}

	logo, logoType, err := r.fetchLogo(ctx)
	if err != nil {
		return nil, &RenderError{Reason: "fetch logo", Err: err}
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()

	// Header band with logo and contact details.
	fill(pdf, colorHeader)
	pdf.Rect(0, 0, pageW, 35, "F")

	pdf.RegisterImageOptionsReader("logo", fpdf.ImageOptions{ImageType: logoType}, bytes.NewReader(logo))
	pdf.ImageOptions("logo", pageW-45, 8, 28, 0, false, fpdf.ImageOptions{ImageType: logoType}, 0, "")

	text(pdf, colorText)
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetXY(10, 20)
	pdf.CellFormat(pageW-55, 4, "Level-2, 00, Nexa Plaza, Tangail, Dhaka", "", 2, "L", false, 0, "")
	pdf.CellFormat(pageW-55, 4, "Email: support@nexa.com", "", 2, "L", false, 0, "")
	pdf.CellFormat(pageW-55, 4, "Phone: + 06 223 456 678", "", 2, "L", false, 0, "")

	// Invoice banner.
	fill(pdf, colorBanner)
	pdf.Rect(15, 42, pageW-30, 10, "F")
	text(pdf, colorWhite)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(15, 44)
	pdf.CellFormat(pageW-30, 6, "INVOICE", "", 0, "C", false, 0, "")

	// Invoice and customer details, two columns.
	detailsY := 60.0
	text(pdf, colorText)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetXY(15, detailsY)
	pdf.CellFormat(80, 5, "INVOICE DETAILS", "", 2, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(80, 4, fmt.Sprintf("Invoice ID: %s", detail.ID.Hex()), "", 2, "L", false, 0, "")
	pdf.CellFormat(80, 4, fmt.Sprintf("Date: %s", detail.CreatedAt.Format("02/01/2006")), "", 2, "L", false, 0, "")
	pdf.CellFormat(80, 4, fmt.Sprintf("Payment Method: %s", detail.PaymentMethod), "", 2, "L", false, 0, "")
	pdf.CellFormat(80, 4, fmt.Sprintf("Payment Status: %s", detail.PaymentStatus), "", 2, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetXY(110, detailsY)
	pdf.CellFormat(80, 5, "CUSTOMER DETAILS", "", 2, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(80, 4, fmt.Sprintf("Name: %s", detail.User.Name), "", 2, "L", false, 0, "")
	pdf.CellFormat(80, 4, "Shipping Address:", "", 2, "L", false, 0, "")
	pdf.MultiCell(80, 4, detail.ShippingAddress, "", "L", false)

	// Line-item table.
	tableY := detailsY + 35
	fill(pdf, colorBanner)
	pdf.Rect(15, tableY, pageW-30, 9, "F")
	text(pdf, colorWhite)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetXY(15, tableY+2)
	pdf.CellFormat(85, 5, "PRODUCT", "", 0, "L", false, 0, "")
	pdf.CellFormat(25, 5, "QTY", "", 0, "C", false, 0, "")
	pdf.CellFormat(35, 5, "UNIT PRICE", "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 5, "AMOUNT", "", 0, "R", false, 0, "")

	rowY := tableY + 9
	text(pdf, colorText)
	pdf.SetFont("Helvetica", "", 8)
	for i, item := range detail.Items {
		if i%2 == 1 {
			fill(pdf, colorLightRow)
			pdf.Rect(15, rowY, pageW-30, 8, "F")
		}
		amount := item.UnitPrice * float64(item.Quantity)
		pdf.SetXY(15, rowY+2)
		pdf.CellFormat(85, 4, item.ProductName, "", 0, "L", false, 0, "")
		pdf.CellFormat(25, 4, fmt.Sprintf("%d", item.Quantity), "", 0, "C", false, 0, "")
		pdf.CellFormat(35, 4, fmt.Sprintf("%.2f", item.UnitPrice), "", 0, "R", false, 0, "")
		pdf.CellFormat(35, 4, fmt.Sprintf("%.2f", amount), "", 0, "R", false, 0, "")
		rowY += 8
	}

	// Notes on the left, summary box on the right.
	summaryY := rowY + 8
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetXY(15, summaryY)
	pdf.CellFormat(90, 5, "NOTES", "", 2, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.MultiCell(90, 4, "Thank you for your business. We appreciate your trust in Nexa.", "", "L", false)

	boxX := pageW - 15 - 70
	draw(pdf, colorHighlight)
	pdf.Rect(boxX, summaryY, 70, 38, "D")

	lines := Summary(detail.Order)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetXY(boxX+4, summaryY+4)
	pdf.CellFormat(62, 5, "ORDER SUMMARY", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	lineY := summaryY + 11
	for _, line := range lines[:len(lines)-1] {
		pdf.SetXY(boxX+4, lineY)
		pdf.CellFormat(32, 4, line.Label, "", 0, "L", false, 0, "")
		pdf.CellFormat(30, 4, line.Value, "", 0, "R", false, 0, "")
		lineY += 6
	}

	total := lines[len(lines)-1]
	fill(pdf, colorHighlight)
	pdf.Rect(boxX, summaryY+30, 70, 8, "F")
	text(pdf, colorWhite)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetXY(boxX+4, summaryY+32)
	pdf.CellFormat(32, 4, total.Label, "", 0, "L", false, 0, "")
	pdf.CellFormat(30, 4, total.Value, "", 0, "R", false, 0, "")

	// Footer band.
	_, pageH := pdf.GetPageSize()
	fill(pdf, colorHeader)
	pdf.Rect(0, pageH-25, pageW, 18, "F")
	text(pdf, colorText)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetXY(0, pageH-22)
	pdf.CellFormat(pageW, 5, "Thank you for shopping with Nexa!", "", 2, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(pageW, 4, "This is a computer-generated invoice and does not require a signature.", "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, &RenderError{Reason: "write pdf", Err: err}
	}
	return buf.Bytes(), nil
}

func validate(detail models.OrderDetail) error {
	if detail.ID.IsZero() {
		return &RenderError{Reason: "order id is missing"}
	}
	if detail.User.Name == "" {
		return &RenderError{Reason: "customer name is missing"}
	}
	if detail.ShippingAddress == "" {
		return &RenderError{Reason: "shipping address is missing"}
	}
	if len(detail.Items) == 0 {
		return &RenderError{Reason: "order has no line items"}
	}
	for _, item := range detail.Items {
		if item.ProductName == "" {
			return &RenderError{Reason: "line item is missing its product name"}
		}
	}
	return nil
}

func (r *Renderer) fetchLogo(ctx context.Context) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.logoURL, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}

	imageType := "PNG"
	switch resp.Header.Get("Content-Type") {
	case "image/jpeg", "image/jpg":
		imageType = "JPG"
	case "image/gif":
		imageType = "GIF"
	}
	return body, imageType, nil
}

func fill(pdf *fpdf.Fpdf, c rgb) { pdf.SetFillColor(c.r, c.g, c.b) }
func text(pdf *fpdf.Fpdf, c rgb) { pdf.SetTextColor(c.r, c.g, c.b) }
func draw(pdf *fpdf.Fpdf, c rgb) { pdf.SetDrawColor(c.r, c.g, c.b) }
