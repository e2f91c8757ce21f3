package invoice

import (
	"bytes"
	"fmt"

	"storefront-service/internal/domain"

	"github.com/jung-kurt/gofpdf"
)

// Business fills the header and the From block.
type Business struct {
	Name         string
	Tagline      string
	AddressLines []string
	Email        string
	Phone        string
}

// Renderer turns a finalized order into an A4 PDF invoice. Rendering is a
// pure function of the order snapshot: the same order always produces
// byte-identical output.
type Renderer struct {
	biz Business
}

func NewRenderer(biz Business) *Renderer {
	return &Renderer{biz: biz}
}

// density shrinks the visual layout as the item count grows so more lines
// fit per page. It never touches the computed amounts.
type density struct {
	title   float64
	heading float64
	body    float64
	rowH    float64
	gap     float64
}

func densityFor(itemCount int) density {
	switch {
	case itemCount <= 5:
		return density{title: 18, heading: 12, body: 10, rowH: 9, gap: 10}
	case itemCount <= 12:
		return density{title: 15, heading: 11, body: 9, rowH: 7, gap: 7}
	default:
		return density{title: 13, heading: 10, body: 8, rowH: 6, gap: 5}
	}
}

func paymentMethodLabel(m domain.PaymentMethod) string {
	if m == domain.PaymentBankTransfer {
		return "Bank Transfer"
	}
	return "Cash on Delivery"
}

func (r *Renderer) Render(order *domain.Order) ([]byte, error) {
	d := densityFor(len(order.Items))

	pdf := gofpdf.New("P", "mm", "A4", "")
	// Pin the document metadata to the order timestamp so repeated renders
	// of one snapshot are byte-identical.
	pdf.SetCreationDate(order.CreatedAt.UTC())
	pdf.SetModificationDate(order.CreatedAt.UTC())
	pdf.SetAutoPageBreak(true, 15)
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Helvetica", "B", d.title)
	pdf.CellFormat(0, d.rowH+2, r.biz.Name, "", 1, "C", false, 0, "")
	if r.biz.Tagline != "" {
		pdf.SetFont("Helvetica", "I", d.body)
		pdf.CellFormat(0, d.rowH-2, r.biz.Tagline, "", 1, "C", false, 0, "")
	}
	pdf.Ln(d.gap / 2)

	// Invoice meta block
	pdf.SetFont("Helvetica", "B", d.heading)
	pdf.CellFormat(95, d.rowH, "INVOICE", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", d.body)
	pdf.CellFormat(95, d.rowH, "Invoice #: "+order.ID, "", 1, "R", false, 0, "")
	pdf.CellFormat(95, d.rowH, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(95, d.rowH, "Date: "+order.CreatedAt.Format("02 January 2006"), "", 1, "R", false, 0, "")
	pdf.CellFormat(95, d.rowH, "", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", d.body)
	pdf.CellFormat(95, d.rowH, "Amount Due: LKR "+order.GrandTotal.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", d.body)
	pdf.CellFormat(95, d.rowH, "", "", 0, "L", false, 0, "")
	methodLine := "Payment Method: " + paymentMethodLabel(order.PaymentMethod)
	if order.PaymentMethod == domain.PaymentBankTransfer && order.PaymentSlipRef != "" {
		methodLine += " (payment slip uploaded)"
	}
	pdf.CellFormat(95, d.rowH, methodLine, "", 1, "R", false, 0, "")
	pdf.Ln(d.gap)

	// From / Bill To
	fromLines := append([]string{r.biz.Name}, r.biz.AddressLines...)
	fromLines = append(fromLines, "Email: "+r.biz.Email, "Phone: "+r.biz.Phone)
	billLines := []string{
		order.Customer.FirstName + " " + order.Customer.LastName,
		order.Customer.Street,
		order.Customer.City + ", " + order.Customer.District,
		order.Customer.State + " " + order.Customer.Postcode,
		"Email: " + order.Customer.Email,
		"Phone: " + order.Customer.Phone,
	}
	pdf.SetFont("Helvetica", "B", d.heading)
	pdf.CellFormat(95, d.rowH, "From:", "", 0, "L", false, 0, "")
	pdf.CellFormat(95, d.rowH, "Bill To:", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", d.body)
	n := len(fromLines)
	if len(billLines) > n {
		n = len(billLines)
	}
	for i := 0; i < n; i++ {
		var left, right string
		if i < len(fromLines) {
			left = fromLines[i]
		}
		if i < len(billLines) {
			right = billLines[i]
		}
		pdf.CellFormat(95, d.rowH-2, left, "", 0, "L", false, 0, "")
		pdf.CellFormat(95, d.rowH-2, right, "", 1, "L", false, 0, "")
	}
	pdf.Ln(d.gap)

	// Line item table
	pdf.SetFont("Helvetica", "B", d.body)
	pdf.CellFormat(90, d.rowH, "Item", "B", 0, "L", false, 0, "")
	pdf.CellFormat(25, d.rowH, "Quantity", "B", 0, "R", false, 0, "")
	pdf.CellFormat(35, d.rowH, "Price", "B", 0, "R", false, 0, "")
	pdf.CellFormat(40, d.rowH, "Total", "B", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", d.body)
	for _, it := range order.Items {
		name := it.Name
		if it.Color != "" || it.Size != "" {
			name += " (" + variantLabel(it) + ")"
		}
		pdf.CellFormat(90, d.rowH, name, "B", 0, "L", false, 0, "")
		pdf.CellFormat(25, d.rowH, fmt.Sprintf("%d", it.Quantity), "B", 0, "R", false, 0, "")
		pdf.CellFormat(35, d.rowH, "LKR "+it.UnitPrice.StringFixed(2), "B", 0, "R", false, 0, "")
		pdf.CellFormat(40, d.rowH, "LKR "+it.LineTotal().StringFixed(2), "B", 1, "R", false, 0, "")
	}
	pdf.Ln(d.gap / 2)

	// Totals
	pdf.CellFormat(150, d.rowH, "Subtotal", "", 0, "R", false, 0, "")
	pdf.CellFormat(40, d.rowH, "LKR "+order.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.CellFormat(150, d.rowH, "Shipping", "", 0, "R", false, 0, "")
	pdf.CellFormat(40, d.rowH, "LKR "+order.ShippingCost.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "B", d.heading)
	pdf.CellFormat(150, d.rowH, "Grand Total", "T", 0, "R", false, 0, "")
	pdf.CellFormat(40, d.rowH, "LKR "+order.GrandTotal.StringFixed(2), "T", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice: %w", err)
	}
	return buf.Bytes(), nil
}

func variantLabel(it domain.OrderItem) string {
	switch {
	case it.Color != "" && it.Size != "":
		return it.Color + ", " + it.Size
	case it.Color != "":
		return it.Color
	default:
		return it.Size
	}
}
