package rest

import (
	"errors"
	"log"
	"net/http"

	"angsuran-portal/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (h *Handler) getDashboard(w http.ResponseWriter, r *http.Request) {
	customerID, ok := customerIDParam(w, r)
	if !ok {
		return
	}

	dash, err := h.dashboard.Load(r.Context(), customerID)
	if err != nil {
		if errors.Is(err, domain.ErrCustomerNotFound) {
			ErrorNotFound(w, msgNotFound)
			return
		}
		log.Printf("[HTTP] dashboard load error: %v", err)
		ErrorInternal(w, msgLoadFailed)
		return
	}

	// an empty transaction list is a regular success payload; the front
	// end renders its "Tidak Ada Tagihan" state from it
	Success(w, "", dash)
}

func customerIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	raw := chi.URLParam(r, "customer_id")
	id, err := uuid.Parse(raw)
	if err != nil {
		ErrorBadRequest(w, msgBadCustomerID)
		return "", false
	}
	return id.String(), true
}
