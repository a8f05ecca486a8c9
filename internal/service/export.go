package service

import (
	"context"
	"fmt"
	"time"

	"angsuran-portal/internal/domain"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// ScheduleStorage keeps generated schedule files and hands out the URLs
// they can be downloaded from. Backed by local disk or S3.
type ScheduleStorage interface {
	Save(ctx context.Context, fileName string, data []byte) (string, error)
	URL(ctx context.Context, saved string) (string, error)
}

type ExportResult struct {
	File string `json:"file"`
	URL  string `json:"url"`
}

// ExportService renders a customer's payment schedule for one purchase as
// an XLSX file. Schedules are a handful of rows, so generation happens
// inline with the request.
type ExportService struct {
	profiles ProfileGetter
	sales    InstallmentSaleLister
	storage  ScheduleStorage
}

func NewExportService(profiles ProfileGetter, sales InstallmentSaleLister, storage ScheduleStorage) *ExportService {
	return &ExportService{profiles: profiles, sales: sales, storage: storage}
}

func (s *ExportService) ExportSchedule(ctx context.Context, customerID, transactionID string) (*ExportResult, error) {
	customer, err := s.profiles.GetProfile(ctx, customerID)
	if err != nil {
		return nil, err
	}

	sales, err := s.sales.ListInstallmentSales(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("export schedule: %w", err)
	}

	var view *TransactionView
	for _, sale := range sales {
		if sale.ID == transactionID {
			v := buildTransactionView(sale)
			view = &v
			break
		}
	}
	if view == nil {
		return nil, domain.ErrTransactionNotFound
	}

	data, err := renderScheduleXLSX(customer, view)
	if err != nil {
		return nil, fmt.Errorf("render schedule: %w", err)
	}

	fileName := fmt.Sprintf("jadwal_angsuran_%s_%s.xlsx", fileTimestamp(), uuid.NewString())

	saved, err := s.storage.Save(ctx, fileName, data)
	if err != nil {
		return nil, fmt.Errorf("store schedule: %w", err)
	}

	url, err := s.storage.URL(ctx, saved)
	if err != nil {
		return nil, fmt.Errorf("schedule url: %w", err)
	}

	return &ExportResult{File: saved, URL: url}, nil
}

const scheduleSheet = "Jadwal Angsuran"

var scheduleHeaders = []string{"Angsuran", "Jumlah", "Jatuh Tempo", "Status", "Tanggal Bayar"}

func renderScheduleXLSX(customer *domain.Customer, view *TransactionView) ([]byte, error) {
	f := excelize.NewFile()
	f.SetSheetName(f.GetSheetName(0), scheduleSheet)

	_ = f.SetDocProps(&excelize.DocProperties{
		Creator: "angsuran-portal",
	})

	// Summary block above the schedule table.
	_ = f.SetCellValue(scheduleSheet, "A1", "Pelanggan")
	_ = f.SetCellValue(scheduleSheet, "B1", customer.Name)
	_ = f.SetCellValue(scheduleSheet, "A2", "Barang")
	_ = f.SetCellValue(scheduleSheet, "B2", view.Item)
	_ = f.SetCellValue(scheduleSheet, "A3", "Sisa Hutang")
	_ = f.SetCellValue(scheduleSheet, "B3", view.RemainingDebt)

	const headerRow = 5
	for i, header := range scheduleHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		_ = f.SetCellValue(scheduleSheet, cell, header)
	}

	row := headerRow + 1
	for _, inst := range view.Installments {
		paid := ""
		if inst.PaidDate != nil {
			paid = inst.PaidDate.Format("2006-01-02")
		}

		values := []any{
			inst.Label,
			inst.Amount,
			inst.DueDate.Format("2006-01-02"),
			inst.Status.String(),
			paid,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(scheduleSheet, cell, v)
		}
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func fileTimestamp() string {
	return time.Now().Format("20060102_150405")
}
