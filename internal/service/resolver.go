package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"angsuran-portal/internal/domain"
)

// minSuffixLen is the shortest phone suffix accepted for login.
const minSuffixLen = 4

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

type CustomerFinder interface {
	FindByPhoneSuffix(ctx context.Context, digits string) (*domain.Customer, error)
}

// ResolverService establishes which customer is viewing the portal from
// the trailing digits of their registered phone number.
type ResolverService struct {
	customers CustomerFinder
}

func NewResolverService(customers CustomerFinder) *ResolverService {
	return &ResolverService{customers: customers}
}

// Resolve strips non-digit characters from the supplied code, rejects
// anything shorter than four digits before touching the store, and suffix
// matches against registered phone numbers. A shared suffix resolves to an
// arbitrary one of the matching customers.
func (s *ResolverService) Resolve(ctx context.Context, code string) (*domain.Customer, error) {
	digits := stripNonDigits(code)
	if len(digits) < minSuffixLen {
		return nil, &ValidationError{Message: "Masukkan minimal 4 digit terakhir nomor HP"}
	}

	customer, err := s.customers.FindByPhoneSuffix(ctx, digits)
	if err != nil {
		if errors.Is(err, domain.ErrCustomerNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("resolve customer: %w", err)
	}

	return customer, nil
}

func stripNonDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
