package notification

import (
	"bytes"
	"fmt"
	"html/template"
)

// OrderInvoiceSubject is the subject line for the post-payment invoice email.
const OrderInvoiceSubject = "Order confirmed - Payment Success!"

var orderInvoiceTmpl = template.Must(template.New("orderInvoice").Parse(`
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; background-color: #f4f4f4; margin: 0; padding: 0; }
        .container { max-width: 600px; margin: 40px auto; background: #ffffff; border-radius: 8px; overflow: hidden; }
        .header { background: #fb7185; padding: 24px; text-align: center; color: white; }
        .content { padding: 24px; color: #333; font-size: 15px; line-height: 1.6; }
        .footer { background: #fce7f3; padding: 16px; text-align: center; font-size: 12px; color: #999; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header"><h1>Nexa</h1></div>
        <div class="content">
            <p>Hi {{.UserName}},</p>
            <p>Your payment was received and your order is confirmed. Your invoice is attached to this email.</p>
            <p>Thank you for shopping with <strong>Nexa</strong>.</p>
        </div>
        <div class="footer">
            <p>This is an automated message, please do not reply directly to this email.</p>
        </div>
    </div>
</body>
</html>
`))

// OrderInvoiceBody renders the invoice email HTML for the given customer.
func OrderInvoiceBody(userName string) (string, error) {
	var buf bytes.Buffer
	if err := orderInvoiceTmpl.Execute(&buf, struct{ UserName string }{UserName: userName}); err != nil {
		return "", fmt.Errorf("template render failed: %w", err)
	}
	return buf.String(), nil
}
