package repository

import (
	"context"
	"database/sql"
	"fmt"

	"angsuran-portal/internal/domain"
)

// installmentSaleKind is the transaction type the portal reports on; every
// other kind (cash sales, adjustments) is excluded by the query itself.
const installmentSaleKind = "CICILAN"

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// ListInstallmentSales returns every installment-sale transaction of a
// customer with its nested installments, most recent purchase first.
// Installments come back sorted ascending by month. A customer without
// installment sales yields an empty slice, not an error.
func (r *TransactionRepository) ListInstallmentSales(ctx context.Context, customerID string) ([]domain.InstallmentSale, error) {
	query := `
		SELECT
			t.id,
			t.customer_id,
			t.amount,
			t.notes,
			t.created_at,

			i.id        AS installment_id,
			i.month,
			i.amount    AS installment_amount,
			i.due_date,
			i.status,
			i.paid_date
		FROM transactions t
		LEFT JOIN installments i ON i.transaction_id = t.id
		WHERE t.customer_id = $1
		  AND t.type = $2
		ORDER BY t.created_at DESC, t.id, i.month ASC
	`

	rows, err := r.db.QueryContext(ctx, query, customerID, installmentSaleKind)
	if err != nil {
		return nil, fmt.Errorf("list installment sales: %w", err)
	}
	defer rows.Close()

	var result []domain.InstallmentSale

	for rows.Next() {
		var (
			trx   domain.InstallmentSale
			notes sql.NullString

			instID     sql.NullString
			instMonth  sql.NullInt64
			instAmount sql.NullFloat64
			dueDate    sql.NullTime
			rawStatus  sql.NullString
			paidDate   sql.NullTime
		)

		if err := rows.Scan(
			&trx.ID,
			&trx.CustomerID,
			&trx.Amount,
			&notes,
			&trx.CreatedAt,
			&instID,
			&instMonth,
			&instAmount,
			&dueDate,
			&rawStatus,
			&paidDate,
		); err != nil {
			return nil, fmt.Errorf("scan installment sale row: %w", err)
		}

		if notes.Valid {
			trx.Notes = notes.String
		}

		// Rows arrive grouped by transaction; reuse the open group while
		// the id stays the same.
		if len(result) == 0 || result[len(result)-1].ID != trx.ID {
			result = append(result, trx)
		}
		current := &result[len(result)-1]

		// LEFT JOIN leaves installment columns NULL for a transaction
		// without any installments.
		if !instID.Valid {
			continue
		}

		inst := domain.Installment{
			ID:      instID.String,
			Month:   int(instMonth.Int64),
			Amount:  instAmount.Float64,
			DueDate: dueDate.Time,
			Status:  domain.ParseInstallmentStatus(rawStatus.String),
		}
		if paidDate.Valid {
			d := paidDate.Time
			inst.PaidDate = &d
		}

		current.Installments = append(current.Installments, inst)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate installment sales: %w", err)
	}

	return result, nil
}
