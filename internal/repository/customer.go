package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"angsuran-portal/internal/domain"
)

type CustomerRepository struct {
	db *sql.DB
}

func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// FindByPhoneSuffix returns one customer whose phone number ends with the
// supplied digits. When several customers share the suffix, the pick is
// arbitrary (LIMIT 1 without an ORDER BY, matching the legacy lookup).
func (r *CustomerRepository) FindByPhoneSuffix(ctx context.Context, digits string) (*domain.Customer, error) {
	query := `
		SELECT id, name, phone
		FROM customers
		WHERE phone LIKE '%' || $1
		LIMIT 1
	`

	var c domain.Customer
	err := r.db.QueryRowContext(ctx, query, digits).Scan(&c.ID, &c.Name, &c.Phone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find customer by phone suffix: %w", err)
	}

	return &c, nil
}

// GetProfile fetches the name and phone shown in the dashboard header.
func (r *CustomerRepository) GetProfile(ctx context.Context, id string) (*domain.Customer, error) {
	query := `
		SELECT id, name, phone
		FROM customers
		WHERE id = $1
	`

	var c domain.Customer
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.Phone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get customer profile: %w", err)
	}

	return &c, nil
}
