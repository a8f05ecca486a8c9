package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"angsuran-portal/internal/domain"
)

type fakeDashboardRepo struct {
	profile *domain.Customer
	sales   []domain.InstallmentSale

	profileErr error
	salesErr   error

	salesCalls int
}

func (f *fakeDashboardRepo) GetProfile(ctx context.Context, id string) (*domain.Customer, error) {
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	return f.profile, nil
}

func (f *fakeDashboardRepo) ListInstallmentSales(ctx context.Context, customerID string) ([]domain.InstallmentSale, error) {
	f.salesCalls++
	if f.salesErr != nil {
		return nil, f.salesErr
	}
	return f.sales, nil
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func makeSale(id string, total float64, notes string, installments []domain.Installment) domain.InstallmentSale {
	return domain.InstallmentSale{
		ID:           id,
		CustomerID:   "cust-1",
		Amount:       total,
		Notes:        notes,
		CreatedAt:    date(2024, time.March, 1),
		Installments: installments,
	}
}

// twelve monthly installments of 500k due on the 5th, the first `paid` of
// them settled.
func twelveInstallments(paid int) []domain.Installment {
	out := make([]domain.Installment, 0, 12)
	for m := 1; m <= 12; m++ {
		inst := domain.Installment{
			ID:      "i-" + string(rune('a'+m-1)),
			Month:   m,
			Amount:  500_000,
			DueDate: date(2024, time.Month(m), 5),
			Status:  domain.StatusUnpaid,
		}
		if m <= paid {
			inst.Status = domain.StatusPaid
			d := date(2024, time.Month(m), 3)
			inst.PaidDate = &d
		}
		out = append(out, inst)
	}
	return out
}

func TestLoad_DerivedMetrics(t *testing.T) {
	repo := &fakeDashboardRepo{
		profile: &domain.Customer{ID: "cust-1", Name: "Budi Santoso", Phone: "081234567890"},
		sales: []domain.InstallmentSale{
			makeSale("trx-1", 6_000_000, "Cicilan: Kulkas 2 Pintu", twelveInstallments(3)),
		},
	}
	svc := NewDashboardService(repo, repo)

	dash, err := svc.Load(context.Background(), "cust-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if dash.Customer.Name != "Budi Santoso" {
		t.Fatalf("unexpected header name %q", dash.Customer.Name)
	}
	if len(dash.Transactions) != 1 {
		t.Fatalf("expected 1 view model, got %d", len(dash.Transactions))
	}

	trx := dash.Transactions[0]
	if trx.Item != "Kulkas 2 Pintu" {
		t.Fatalf("note prefix not stripped: %q", trx.Item)
	}
	if trx.Tenor != 12 {
		t.Fatalf("expected tenor 12, got %d", trx.Tenor)
	}
	if trx.Monthly != 500_000 {
		t.Fatalf("expected monthly 500000, got %v", trx.Monthly)
	}
	if trx.DownPayment != 0 {
		t.Fatalf("down payment must report zero, got %v", trx.DownPayment)
	}
	if trx.PaidCount != 3 {
		t.Fatalf("expected 3 paid, got %d", trx.PaidCount)
	}
	if trx.Progress != 25 {
		t.Fatalf("expected progress 25, got %d", trx.Progress)
	}
	// installments 4..12 outstanding
	if want := 9 * 500_000.0; trx.RemainingDebt != want {
		t.Fatalf("expected remaining %v, got %v", want, trx.RemainingDebt)
	}
	if trx.NextDueDay == nil || *trx.NextDueDay != 5 {
		t.Fatalf("expected next due day 5, got %v", trx.NextDueDay)
	}
}

func TestLoad_SortsInstallmentsByMonth(t *testing.T) {
	unsorted := []domain.Installment{
		{ID: "i-3", Month: 3, Amount: 100, DueDate: date(2024, time.March, 10)},
		{ID: "i-1", Month: 1, Amount: 100, DueDate: date(2024, time.January, 10)},
		{ID: "i-2", Month: 2, Amount: 100, DueDate: date(2024, time.February, 10)},
	}
	repo := &fakeDashboardRepo{
		profile: &domain.Customer{ID: "cust-1", Name: "Budi", Phone: "0812"},
		sales:   []domain.InstallmentSale{makeSale("trx-1", 300, "Cicilan: TV", unsorted)},
	}

	dash, err := NewDashboardService(repo, repo).Load(context.Background(), "cust-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	trx := dash.Transactions[0]
	for i, inst := range trx.Installments {
		if inst.Month != i+1 {
			t.Fatalf("installments not ascending by month: %+v", trx.Installments)
		}
	}
	if trx.Installments[0].Label != "Cicilan Ke-1" {
		t.Fatalf("unexpected label %q", trx.Installments[0].Label)
	}
	// monthly must be the month-1 installment even when input was unsorted
	if trx.Monthly != 100 {
		t.Fatalf("expected monthly 100, got %v", trx.Monthly)
	}
	// next unpaid is month 1 → due day 10
	if trx.NextDueDay == nil || *trx.NextDueDay != 10 {
		t.Fatalf("expected next due day 10, got %v", trx.NextDueDay)
	}
}

func TestLoad_FullyPaid(t *testing.T) {
	repo := &fakeDashboardRepo{
		profile: &domain.Customer{ID: "cust-1", Name: "Budi", Phone: "0812"},
		sales: []domain.InstallmentSale{
			makeSale("trx-1", 6_000_000, "Cicilan: Mesin Cuci", twelveInstallments(12)),
		},
	}

	dash, err := NewDashboardService(repo, repo).Load(context.Background(), "cust-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	trx := dash.Transactions[0]
	if trx.RemainingDebt != 0 {
		t.Fatalf("fully paid must have zero remaining, got %v", trx.RemainingDebt)
	}
	if trx.Progress != 100 {
		t.Fatalf("expected progress 100, got %d", trx.Progress)
	}
	if trx.NextDueDay != nil {
		t.Fatalf("fully paid must have no next due day, got %d", *trx.NextDueDay)
	}
}

func TestLoad_ZeroInstallments(t *testing.T) {
	repo := &fakeDashboardRepo{
		profile: &domain.Customer{ID: "cust-1", Name: "Budi", Phone: "0812"},
		sales:   []domain.InstallmentSale{makeSale("trx-1", 1_000_000, "", nil)},
	}

	dash, err := NewDashboardService(repo, repo).Load(context.Background(), "cust-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	trx := dash.Transactions[0]
	if trx.Tenor != 0 {
		t.Fatalf("expected tenor 0, got %d", trx.Tenor)
	}
	if trx.Monthly != 0 {
		t.Fatalf("monthly must guard empty schedule, got %v", trx.Monthly)
	}
	if trx.Progress != 0 {
		t.Fatalf("progress with tenor 0 must be 0, got %d", trx.Progress)
	}
	if trx.Item != "" {
		t.Fatalf("empty note must produce empty item, got %q", trx.Item)
	}
}

func TestLoad_EmptyResultIsNotAnError(t *testing.T) {
	repo := &fakeDashboardRepo{
		profile: &domain.Customer{ID: "cust-1", Name: "Budi", Phone: "0812"},
	}

	dash, err := NewDashboardService(repo, repo).Load(context.Background(), "cust-1")
	if err != nil {
		t.Fatalf("zero installment sales must succeed, got %v", err)
	}
	if dash.Transactions == nil {
		t.Fatal("transactions must be an empty slice, not nil")
	}
	if len(dash.Transactions) != 0 {
		t.Fatalf("expected empty transactions, got %d", len(dash.Transactions))
	}
}

func TestLoad_OneViewModelPerSale(t *testing.T) {
	repo := &fakeDashboardRepo{
		profile: &domain.Customer{ID: "cust-1", Name: "Budi", Phone: "0812"},
		sales: []domain.InstallmentSale{
			makeSale("trx-1", 6_000_000, "Cicilan: Kulkas", twelveInstallments(3)),
			makeSale("trx-2", 1_800_000, "Cicilan: Kipas Angin", twelveInstallments(12)[:6]),
		},
	}

	dash, err := NewDashboardService(repo, repo).Load(context.Background(), "cust-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if len(dash.Transactions) != 2 {
		t.Fatalf("expected 2 view models, got %d", len(dash.Transactions))
	}
	if dash.Transactions[0].Tenor != 12 || dash.Transactions[1].Tenor != 6 {
		t.Fatalf("tenor mismatch: %d, %d", dash.Transactions[0].Tenor, dash.Transactions[1].Tenor)
	}
	// one retrieval serves the whole payload; switching the active
	// purchase needs no re-query
	if repo.salesCalls != 1 {
		t.Fatalf("expected a single retrieval, got %d", repo.salesCalls)
	}
}

func TestLoad_PropagatesProfileError(t *testing.T) {
	repo := &fakeDashboardRepo{profileErr: domain.ErrCustomerNotFound}

	_, err := NewDashboardService(repo, repo).Load(context.Background(), "nope")
	if !errors.Is(err, domain.ErrCustomerNotFound) {
		t.Fatalf("expected ErrCustomerNotFound, got %v", err)
	}
}
