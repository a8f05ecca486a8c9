package rest

import (
	"errors"
	"log"
	"net/http"

	"angsuran-portal/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (h *Handler) exportSchedule(w http.ResponseWriter, r *http.Request) {
	customerID, ok := customerIDParam(w, r)
	if !ok {
		return
	}

	rawTrx := chi.URLParam(r, "transaction_id")
	trxID, err := uuid.Parse(rawTrx)
	if err != nil {
		ErrorBadRequest(w, "ID transaksi tidak valid.")
		return
	}

	res, err := h.exporter.ExportSchedule(r.Context(), customerID, trxID.String())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCustomerNotFound):
			ErrorNotFound(w, msgNotFound)
		case errors.Is(err, domain.ErrTransactionNotFound):
			ErrorNotFound(w, "Transaksi tidak ditemukan.")
		default:
			log.Printf("[HTTP] schedule export error: %v", err)
			ErrorInternal(w, msgLoadFailed)
		}
		return
	}

	Success(w, "", res)
}
