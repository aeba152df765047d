// Package entitlement decides whether a caller has unlocked the full results.
// It verifies checkout callbacks, issues signed unlock tokens and exposes the
// unlocked flag to HTTP handlers through the request context.
package entitlement

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

var (
	// ErrInvalidSignature is returned when a payment signature does not match
	ErrInvalidSignature = errors.New("invalid payment signature")
	// ErrNotConfigured is returned when no secret is available to verify or sign with
	ErrNotConfigured = errors.New("unlock is not configured")
)

// PaymentSignature returns the hex HMAC-SHA256 of "orderID|paymentID" under secret.
func PaymentSignature(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyPaymentSignature checks a checkout callback signature in constant time.
func VerifyPaymentSignature(secret, orderID, paymentID, signature string) error {
	if secret == "" {
		return ErrNotConfigured
	}
	if orderID == "" || paymentID == "" || signature == "" {
		return ErrInvalidSignature
	}
	expected := PaymentSignature(secret, orderID, paymentID)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrInvalidSignature
	}
	return nil
}
