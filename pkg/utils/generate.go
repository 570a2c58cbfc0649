package utils

import (
	"github.com/google/uuid"
)

func GenerateUUIDString() string {
	return uuid.New().String()
}

// GenerateTransactionID returns the payment's unique transaction identifier.
func GenerateTransactionID() string {
	return uuid.New().String()
}

// GenerateRefundReference returns a simulated provider refund reference.
func GenerateRefundReference() string {
	return "RF-" + uuid.New().String()
}
