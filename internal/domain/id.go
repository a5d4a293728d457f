package domain

import "crypto/rand"

const idAlphabet = "1234567890ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewShipmentCode returns a public shipment identifier like SHP4K7Q2M9X1B.
// Codes are assigned once at creation and never change.
func NewShipmentCode() string {
	return "SHP" + randomCode(10)
}

// NewPaymentCode returns a public payment identifier like PAY-8H3T6W2N5Z0.
func NewPaymentCode() string {
	return "PAY-" + randomCode(10)
}

func randomCode(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		panic("domain: crypto/rand unavailable: " + err.Error())
	}
	for i, b := range buf {
		buf[i] = idAlphabet[int(b)%len(idAlphabet)]
	}
	return string(buf)
}
