// services/receipt.go
package services

import (
	"fmt"
	"html/template"
	"strings"

	"beautystudio-backend/models"
)

// Business identity printed on every receipt.
const (
	businessName    = "LUCERO GLAM STUDIO"
	businessTagline = "Centro de Belleza y Estética"
)

const receiptDateLayout = "02/01/2006 15:04"

// receiptData is the fully resolved document handed to the template.
type receiptData struct {
	BusinessName    string
	BusinessTagline string
	Number          string
	InvoiceDate     string
	AppointmentDate string
	ClientName      string
	Items           []models.InvoiceItem
	Subtotal        float64
	LateFee         float64
	Discount        float64
	Total           float64
	Paid            float64
	Change          float64
	Notes           string
}

var receiptTemplate = template.Must(template.New("receipt").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Factura {{.Number}}</title>
<style>
@media print { @page { size: 80mm auto; margin: 0; } body { margin: 0; } }
body { font-family: 'Courier New', monospace; font-size: 12px; width: 80mm; padding: 4mm; }
.header { text-align: center; border-bottom: 1px dashed #000; padding-bottom: 6px; }
.business-name { font-size: 14px; font-weight: bold; letter-spacing: 1px; }
.row { display: flex; justify-content: space-between; }
.section { border-top: 1px dashed #000; margin-top: 6px; padding-top: 6px; }
.total { font-weight: bold; font-size: 13px; }
.notes { font-style: italic; }
</style>
</head>
<body>
<div class="header">
  <div class="business-name">{{.BusinessName}}</div>
  <div>{{.BusinessTagline}}</div>
</div>
<div class="section">
  <div class="row"><span>FACTURA N°:</span><span>{{.Number}}</span></div>
  <div class="row"><span>Fecha:</span><span>{{.InvoiceDate}}</span></div>
  <div class="row"><span>Cita:</span><span>{{.AppointmentDate}}</span></div>
  <div class="row"><span>Cliente:</span><span>{{.ClientName}}</span></div>
</div>
<div class="section">
{{range .Items}}  <div class="row"><span>{{.ServiceName}} x{{.Quantity}}</span><span>${{printf "%.2f" .LineTotal}}</span></div>
{{end}}</div>
<div class="section">
  <div class="row"><span>Subtotal:</span><span>${{printf "%.2f" .Subtotal}}</span></div>
{{if gt .LateFee 0.0}}  <div class="row"><span>Recargo por demora:</span><span>+${{printf "%.2f" .LateFee}}</span></div>
{{end}}{{if gt .Discount 0.0}}  <div class="row"><span>Descuento:</span><span>-${{printf "%.2f" .Discount}}</span></div>
{{end}}  <div class="row total"><span>TOTAL:</span><span>${{printf "%.2f" .Total}}</span></div>
  <div class="row"><span>Pagado:</span><span>${{printf "%.2f" .Paid}}</span></div>
{{if gt .Change 0.0}}  <div class="row"><span>Cambio:</span><span>${{printf "%.2f" .Change}}</span></div>
{{end}}</div>
{{if .Notes}}<div class="section notes">{{.Notes}}</div>
{{end}}<div class="section" style="text-align:center">¡Gracias por su visita!</div>
</body>
</html>
`))

// RenderReceipt produces the print-ready document for a saved invoice. The
// invoice must carry its embedded appointment chain; items may be empty, in
// which case the appointment's service becomes the single line.
func RenderReceipt(invoice models.Invoice, items []models.InvoiceItem) (string, error) {
	data := receiptData{
		BusinessName:    businessName,
		BusinessTagline: businessTagline,
		Number:          fmt.Sprintf("#%06d", invoice.ID),
		InvoiceDate:     invoice.InvoiceDate.Format(receiptDateLayout),
		Items:           items,
		Subtotal:        invoice.TotalAmount - invoice.LateFee + invoice.Discount,
		LateFee:         invoice.LateFee,
		Discount:        invoice.Discount,
		Total:           invoice.TotalAmount,
		Paid:            invoice.PaidAmount,
		Change:          invoice.ChangeAmount,
		Notes:           invoice.Notes,
	}
	if invoice.Appointment != nil {
		data.AppointmentDate = invoice.Appointment.AppointmentDate.Format(receiptDateLayout)
		if invoice.Appointment.Client != nil {
			data.ClientName = invoice.Appointment.Client.FullName()
		}
		if len(data.Items) == 0 && invoice.Appointment.Service != nil {
			svc := invoice.Appointment.Service
			data.Items = []models.InvoiceItem{{
				ServiceName: svc.Name,
				UnitPrice:   svc.Price,
				Quantity:    1,
				LineTotal:   svc.Price,
			}}
		}
	}

	var out strings.Builder
	if err := receiptTemplate.Execute(&out, data); err != nil {
		return "", fmt.Errorf("render receipt: %w", err)
	}
	return out.String(), nil
}
