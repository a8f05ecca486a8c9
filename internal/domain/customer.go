package domain

import "errors"

// ErrCustomerNotFound is returned when a lookup matches no customer row.
var ErrCustomerNotFound = errors.New("customer not found")

type Customer struct {
	ID    string
	Name  string
	Phone string
}
