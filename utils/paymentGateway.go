package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"

	"learnhub/config"

	"github.com/go-resty/resty/v2"
)

// GatewayOrder is the order record returned by the payment gateway
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// CreatePaymentOrder creates an order with the payment gateway (Razorpay API
// shape). Amount is in the smallest currency unit.
func CreatePaymentOrder(amount int64, currency, receipt string) (*GatewayOrder, error) {
	client := resty.New()
	resp, err := client.R().
		SetBasicAuth(config.AppConfig.RazorpayKeyID, config.AppConfig.RazorpaySecret).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{
			"amount":   amount,
			"currency": currency,
			"receipt":  receipt,
		}).
		Post(config.AppConfig.RazorpayBaseURL + "/orders")
	if err != nil {
		log.Printf("Failed to create gateway order: %v", err)
		return nil, err
	}
	if resp.StatusCode() != 200 {
		log.Printf("Gateway order creation failed: %s", resp.String())
		return nil, fmt.Errorf("gateway returned status %d", resp.StatusCode())
	}

	var order GatewayOrder
	if err := json.Unmarshal(resp.Body(), &order); err != nil {
		log.Printf("Failed to parse gateway response: %v", err)
		return nil, err
	}
	return &order, nil
}

// VerifyPaymentSignature checks the HMAC the gateway sends back after
// checkout (sha256 of "orderID|paymentID" keyed with the secret)
func VerifyPaymentSignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(config.AppConfig.RazorpaySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
