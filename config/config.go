package config

import (
	"fmt"
	"os"
)

type Config struct {
	Port    string
	Env     string
	MongoURI string
	MongoDB  string
	RedisURL string

	// SSLCommerz credentials and callback URLs
	SSLStoreID       string
	SSLStorePassword string
	SSLSandbox       bool
	SSLValidationURL string // success callback, receives tran_id
	SSLFailURL       string
	SSLCancelURL     string
	SSLIPNURL        string

	// Frontend redirect targets after reconciliation
	PaymentSuccessURL string
	PaymentFailURL    string

	// SMTP for invoice delivery
	SMTPHost       string
	SMTPPort       string
	SMTPUser       string
	SMTPPassword   string
	SMTPSenderName string

	PaymentSNSTopicARN string
	InvoiceLogoURL     string
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("APP_ENV", "development"),
		MongoURI: os.Getenv("MONGO_URI"),
		MongoDB:  getEnv("MONGO_DB", "nexa"),
		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379"),

		SSLStoreID:       os.Getenv("SSL_STORE_ID"),
		SSLStorePassword: os.Getenv("SSL_STORE_PASS"),
		SSLSandbox:       getEnv("SSL_SANDBOX", "true") == "true",
		SSLValidationURL: os.Getenv("SSL_VALIDATION_URL"),
		SSLFailURL:       os.Getenv("SSL_FAILED_URL"),
		SSLCancelURL:     os.Getenv("SSL_CANCEL_URL"),
		SSLIPNURL:        os.Getenv("SSL_IPN_URL"),

		PaymentSuccessURL: getEnv("PAYMENT_SUCCESS_URL", "http://localhost:3000/payment/success"),
		PaymentFailURL:    getEnv("PAYMENT_FAIL_URL", "http://localhost:3000/payment/failed"),

		SMTPHost:       os.Getenv("SMTP_HOST"),
		SMTPPort:       getEnv("SMTP_PORT", "587"),
		SMTPUser:       os.Getenv("SMTP_USER"),
		SMTPPassword:   os.Getenv("SMTP_PASS"),
		SMTPSenderName: getEnv("SMTP_SENDER_NAME", "Nexa"),

		PaymentSNSTopicARN: getEnv("PAYMENT_SNS_TOPIC_ARN", "arn:aws:sns:eu-west-2:000000000000:payment-events"),
		InvoiceLogoURL:     getEnv("INVOICE_LOGO_URL", "https://res.cloudinary.com/dcyupktj6/image/upload/v1743785261/kr6igjlpka34xpm4rxbp.png"),
	}

	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGO_URI is required")
	}
	if cfg.SSLStoreID == "" || cfg.SSLStorePassword == "" {
		return nil, fmt.Errorf("SSL_STORE_ID and SSL_STORE_PASS are required")
	}
	if cfg.SSLValidationURL == "" || cfg.SSLFailURL == "" || cfg.SSLCancelURL == "" {
		return nil, fmt.Errorf("SSLCommerz callback URLs are required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
