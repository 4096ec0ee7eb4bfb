package utils

import (
	"lms/config"
	"log"
	"time"

	"github.com/go-resty/resty/v2"
)

// CertificateIssuedEvent is the payload posted to the certificate webhook
type CertificateIssuedEvent struct {
	CertificateNumber string    `json:"certificate_number"`
	CertificateURL    string    `json:"certificate_url"`
	UserID            uint      `json:"user_id"`
	CourseID          uint      `json:"course_id"`
	IssuedAt          time.Time `json:"issued_at"`
}

// NotifyCertificateIssued posts the issuance event to the configured webhook.
// Best-effort: failures are logged so certificate problems stay visible to
// operators, but nothing upstream depends on this call.
func NotifyCertificateIssued(event CertificateIssuedEvent) {
	webhookURL := config.AppConfig.CertificateWebhook
	if webhookURL == "" {
		return
	}

	client := resty.New().SetTimeout(10 * time.Second)

	resp, err := client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(event).
		Post(webhookURL)
	if err != nil {
		log.Printf("[WEBHOOK] Failed to notify certificate issuance %s: %v", event.CertificateNumber, err)
		return
	}

	if resp.StatusCode() >= 300 {
		log.Printf("[WEBHOOK] Certificate webhook returned %d for %s", resp.StatusCode(), event.CertificateNumber)
	}
}
