package utils

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"os"
	"path/filepath"

	"github.com/shopkart-dev/shopkart-api/models"
)

type EmailData struct {
	Name    string
	Message string
	OrderID string
	Total   string
}

func SendEmail(emailTo string, emailSubject string, data EmailData, templatePath string) error {
	tmpl, err := template.ParseFiles(templatePath)
	if err != nil {
		return fmt.Errorf("template parse error: %w", err)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("template execution error: %w", err)
	}

	message := fmt.Sprintf(
		"From: %s\r\nSubject: %s\r\nMIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n\r\n%s",
		os.Getenv("FROM_EMAIL"),
		emailSubject,
		body.String(),
	)

	auth := smtp.PlainAuth(
		"",
		os.Getenv("FROM_EMAIL"),
		os.Getenv("FROM_EMAIL_PASSWORD"),
		os.Getenv("FROM_EMAIL_SMTP"),
	)

	if err := smtp.SendMail(os.Getenv("SMTP_ADDRESS"), auth, os.Getenv("FROM_EMAIL"), []string{emailTo}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// SendOrderConfirmation emails the buyer after a settled checkout.
// Best effort; callers log failures and move on.
func SendOrderConfirmation(user *models.User, order *models.Order) error {
	if os.Getenv("SMTP_ADDRESS") == "" {
		return nil
	}

	emailData := EmailData{
		Name:    user.Name,
		Message: "Thank you for your purchase! Your payment has been received and your order is being prepared.",
		OrderID: order.ID.Hex(),
		Total:   fmt.Sprintf("%.2f", order.Total()),
	}

	templatePath := filepath.Join("templates", "order_confirmation.html")
	return SendEmail(user.Email, "Order Confirmation", emailData, templatePath)
}
