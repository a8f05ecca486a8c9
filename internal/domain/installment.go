package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// InstallmentStatus is the two-value payment state of an installment.
// The store carries a free-text status column; it is reified here at the
// ingestion boundary so nothing downstream compares against a raw string.
type InstallmentStatus int

const (
	StatusUnpaid InstallmentStatus = iota
	StatusPaid
)

// rawStatusPaid is the literal the administrative tooling writes for a
// settled installment. Anything else counts as unpaid.
const rawStatusPaid = "Lunas"

func ParseInstallmentStatus(raw string) InstallmentStatus {
	if strings.TrimSpace(raw) == rawStatusPaid {
		return StatusPaid
	}
	return StatusUnpaid
}

func (s InstallmentStatus) String() string {
	if s == StatusPaid {
		return "Lunas"
	}
	return "Belum Lunas"
}

func (s InstallmentStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

type Installment struct {
	ID string

	// Month is the 1-based sequence position within its transaction.
	Month int

	Amount  float64
	DueDate time.Time
	Status  InstallmentStatus

	// PaidDate is set only when Status is StatusPaid.
	PaidDate *time.Time
}
