package domain

import (
	"errors"
	"time"
)

// ErrTransactionNotFound is returned when a customer has no installment
// sale with the requested id.
var ErrTransactionNotFound = errors.New("transaction not found")

// InstallmentSale is a purchase paid across scheduled monthly payments.
// Other transaction kinds exist in the store but are filtered out at query
// time, so this package never sees them.
type InstallmentSale struct {
	ID         string
	CustomerID string

	// Amount is the total sales price of the purchased item.
	Amount float64

	// Notes carries the free-text note entered at sale time, typically
	// "Cicilan: <item>". Empty when the store column is NULL.
	Notes string

	CreatedAt time.Time

	// Installments ordered ascending by Month.
	Installments []Installment
}
