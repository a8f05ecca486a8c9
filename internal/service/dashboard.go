package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"angsuran-portal/internal/domain"
)

// itemNotePrefix is the literal the sales tooling prepends to the item
// description in the transaction note.
const itemNotePrefix = "Cicilan: "

type ProfileGetter interface {
	GetProfile(ctx context.Context, id string) (*domain.Customer, error)
}

type InstallmentSaleLister interface {
	ListInstallmentSales(ctx context.Context, customerID string) ([]domain.InstallmentSale, error)
}

type Profile struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type InstallmentView struct {
	ID      string                   `json:"id"`
	Month   int                      `json:"month"`
	Label   string                   `json:"label"`
	Amount  float64                  `json:"amount"`
	DueDate time.Time                `json:"due_date"`
	Status  domain.InstallmentStatus `json:"status"`
	// PaidDate is null while the installment is outstanding.
	PaidDate *time.Time `json:"paid_date"`
}

type TransactionView struct {
	ID   string `json:"id"`
	Item string `json:"item"`

	TotalPrice float64 `json:"total_price"`

	// DownPayment is a documented placeholder: the store records no down
	// payment, so the portal always reports zero rather than inferring one.
	DownPayment float64 `json:"down_payment"`

	// Tenor is the total number of scheduled installments.
	Tenor int `json:"tenor"`

	// Monthly is the first installment's amount, shown as a representative
	// figure; it is not an average.
	Monthly float64 `json:"monthly"`

	RemainingDebt float64 `json:"remaining_debt"`
	PaidCount     int     `json:"paid_count"`

	// Progress is round(100 * paid / tenor); zero when tenor is zero.
	Progress int `json:"progress"`

	// NextDueDay is the day of month the next unpaid installment falls
	// due, null once everything is settled.
	NextDueDay *int `json:"next_due_day"`

	Installments []InstallmentView `json:"installments"`
}

type Dashboard struct {
	Customer     Profile           `json:"customer"`
	Transactions []TransactionView `json:"transactions"`
}

// DashboardService loads everything one dashboard render needs in a single
// call: the customer header plus a view model per installment sale. The
// whole set is returned at once so switching between purchases happens
// client-side without another query. Nothing is cached; every call
// re-fetches from the store.
type DashboardService struct {
	profiles ProfileGetter
	sales    InstallmentSaleLister
}

func NewDashboardService(profiles ProfileGetter, sales InstallmentSaleLister) *DashboardService {
	return &DashboardService{profiles: profiles, sales: sales}
}

func (s *DashboardService) Load(ctx context.Context, customerID string) (*Dashboard, error) {
	customer, err := s.profiles.GetProfile(ctx, customerID)
	if err != nil {
		return nil, err
	}

	sales, err := s.sales.ListInstallmentSales(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("load dashboard: %w", err)
	}

	// Empty, not nil: zero installment sales is a distinct success state
	// and must serialize as an empty list.
	views := make([]TransactionView, 0, len(sales))
	for _, sale := range sales {
		views = append(views, buildTransactionView(sale))
	}

	return &Dashboard{
		Customer: Profile{
			Name:  customer.Name,
			Phone: customer.Phone,
		},
		Transactions: views,
	}, nil
}

func buildTransactionView(sale domain.InstallmentSale) TransactionView {
	installments := make([]domain.Installment, len(sale.Installments))
	copy(installments, sale.Installments)
	sort.Slice(installments, func(i, j int) bool {
		return installments[i].Month < installments[j].Month
	})

	var (
		paidCount     int
		remainingDebt float64
		nextDueDay    *int
	)

	views := make([]InstallmentView, 0, len(installments))
	for _, inst := range installments {
		if inst.Status == domain.StatusPaid {
			paidCount++
		} else {
			remainingDebt += inst.Amount
			if nextDueDay == nil {
				day := inst.DueDate.Day()
				nextDueDay = &day
			}
		}

		views = append(views, InstallmentView{
			ID:       inst.ID,
			Month:    inst.Month,
			Label:    fmt.Sprintf("Cicilan Ke-%d", inst.Month),
			Amount:   inst.Amount,
			DueDate:  inst.DueDate,
			Status:   inst.Status,
			PaidDate: inst.PaidDate,
		})
	}

	tenor := len(installments)

	var monthly float64
	if tenor > 0 {
		monthly = installments[0].Amount
	}

	progress := 0
	if tenor > 0 {
		progress = int(math.Round(float64(paidCount) / float64(tenor) * 100))
	}

	return TransactionView{
		ID:            sale.ID,
		Item:          strings.TrimPrefix(sale.Notes, itemNotePrefix),
		TotalPrice:    sale.Amount,
		DownPayment:   0,
		Tenor:         tenor,
		Monthly:       monthly,
		RemainingDebt: remainingDebt,
		PaidCount:     paidCount,
		Progress:      progress,
		NextDueDay:    nextDueDay,
		Installments:  views,
	}
}
