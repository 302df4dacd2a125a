package utils

import (
	"fmt"
	"log"
	"os"

	"github.com/wneessen/go-mail"

	"foodstore_back_end/internal/models"
)

func sendEmail(to, subject, htmlBody string) error {
	msg := mail.NewMsg()

	if err := msg.From(os.Getenv("SMTP_FROM")); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	client, err := mail.NewClient(os.Getenv("SMTP_HOST"),
		mail.WithPort(587),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(os.Getenv("SMTP_USERNAME")),
		mail.WithPassword(os.Getenv("SMTP_PASSWORD")),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return err
	}

	log.Println("📤 Envoi de l'e-mail à", to)
	return client.DialAndSend(msg)
}

// SendOrderConfirmationEmail notifie l'utilisateur qu'une commande est créée.
// Appelée en fire-and-forget : un échec est loggé, jamais remonté au client.
func SendOrderConfirmationEmail(to string, order models.OrderDetails) {
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">Order confirmed</h2>
		<p>Your order has been placed successfully.</p>
		<table style="width: 100%%; border-collapse: collapse; margin: 20px 0;">
			<tr><td style="padding: 8px; border: 1px solid #ddd;">Product</td><td style="padding: 8px; border: 1px solid #ddd;">%s</td></tr>
			<tr><td style="padding: 8px; border: 1px solid #ddd;">Quantity</td><td style="padding: 8px; border: 1px solid #ddd;">%d</td></tr>
			<tr><td style="padding: 8px; border: 1px solid #ddd;">Total</td><td style="padding: 8px; border: 1px solid #ddd;">%.2f</td></tr>
		</table>
		<p>Order ID: %s</p>
	</div>
</body>
</html>`, order.ProductName, order.Quantity, order.TotalPrice, order.ID)

	if err := sendEmail(to, "Order confirmation", body); err != nil {
		log.Printf("⚠️ Échec envoi e-mail de confirmation à %s: %v", to, err)
	}
}

// SendOrderStatusEmail notifie l'utilisateur d'un changement de statut.
func SendOrderStatusEmail(to string, order models.Order) {
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">Order update</h2>
		<p>Your order %s is now <strong>%s</strong>.</p>
	</div>
</body>
</html>`, order.ID, order.Status)

	if err := sendEmail(to, "Order status update", body); err != nil {
		log.Printf("⚠️ Échec envoi e-mail de statut à %s: %v", to, err)
	}
}
