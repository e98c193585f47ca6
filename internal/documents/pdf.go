package documents

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/db/models"
	pkgerrors "github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/errors"
)

const shopName = "Dhananjee Fruit & Sweet Centre"

// Generator renders customer-facing PDF documents.
type Generator interface {
	Invoice(order *models.Order) ([]byte, error)
	OrderStatement(userID string, orders []models.Order) ([]byte, error)
}

type generator struct{}

// NewGenerator builds the PDF generator.
func NewGenerator() Generator {
	return &generator{}
}

// Invoice renders a single-order invoice.
func (g *generator) Invoice(order *models.Order) ([]byte, error) {
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order is required")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, shopName)
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Invoice for order %s", order.OrderID))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", order.CreatedAt.Format("2006-01-02")))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Payment: %s (%s)", order.PaymentMethod, order.PaymentStatus))
	pdf.Ln(10)

	writeItemTable(pdf, order.Items)

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(150, 8, "Total", "T", 0, "R", false, 0, "")
	pdf.CellFormat(40, 8, "Rs. "+order.TotalAmount.StringFixed(2), "T", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render invoice pdf")
	}
	return buf.Bytes(), nil
}

// OrderStatement renders every order a user has placed, one section each.
func (g *generator) OrderStatement(userID string, orders []models.Order) ([]byte, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, shopName)
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Order history for %s", userID))
	pdf.Ln(10)

	if len(orders) == 0 {
		pdf.Cell(0, 6, "No orders on record.")
	}

	for _, order := range orders {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, fmt.Sprintf("Order %s - %s", order.OrderID, order.CreatedAt.Format("2006-01-02")))
		pdf.Ln(8)

		pdf.SetFont("Helvetica", "", 10)
		writeItemTable(pdf, order.Items)

		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(150, 7, "Total", "T", 0, "R", false, 0, "")
		pdf.CellFormat(40, 7, "Rs. "+order.TotalAmount.StringFixed(2), "T", 1, "R", false, 0, "")
		pdf.Ln(6)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render statement pdf")
	}
	return buf.Bytes(), nil
}

func writeItemTable(pdf *gofpdf.Fpdf, items []models.OrderItem) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(90, 7, "Item", "B", 0, "L", false, 0, "")
	pdf.CellFormat(30, 7, "Unit price", "B", 0, "R", false, 0, "")
	pdf.CellFormat(30, 7, "Qty", "B", 0, "R", false, 0, "")
	pdf.CellFormat(40, 7, "Amount", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range items {
		lineTotal := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		pdf.CellFormat(90, 7, item.Name, "", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, item.UnitPrice.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("%d", item.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(40, 7, lineTotal.StringFixed(2), "", 1, "R", false, 0, "")
	}
}
