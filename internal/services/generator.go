package services

import (
	"math/rand"
	"strconv"
)

// Card credential generation uses uniform draws within fixed ranges.
// Duplicate card numbers are caught by the unique index on insert. The
// top-level rand functions are safe for concurrent card creation.
const (
	minCardNumber = 1_000_000_000_000_000
	maxCardNumber = 9_999_999_999_999_999
	minCVV        = 100
	maxCVV        = 999
	minPIN        = 1000
	maxPIN        = 9999
)

func generateCardNumber() string {
	return strconv.FormatInt(minCardNumber+rand.Int63n(maxCardNumber-minCardNumber+1), 10)
}

func generateCVV() int {
	return minCVV + rand.Intn(maxCVV-minCVV+1)
}

func generatePIN() int {
	return minPIN + rand.Intn(maxPIN-minPIN+1)
}

// IBAN, SWIFT and account numbers are opaque identifiers; nothing validates
// their checksum structure downstream.
func generateIBAN() string {
	return "CZ" + digits(22)
}

func generateSwift() string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	out := make([]byte, 8)
	for i := range out {
		out[i] = letters[rand.Intn(len(letters))]
	}
	return string(out)
}

func generateAccountNumber() string {
	return digits(10)
}

func digits(n int) string {
	out := make([]byte, n)
	for i := range out {
		out[i] = byte('0' + rand.Intn(10))
	}
	return string(out)
}
