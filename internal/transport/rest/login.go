package rest

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"angsuran-portal/internal/domain"
	"angsuran-portal/internal/service"
)

type LoginRequest struct {
	// Code is the trailing digits of the registered phone number.
	Code string `json:"code"`
}

type LoginResponse struct {
	CustomerID string `json:"customer_id"`
	Name       string `json:"name"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ErrorBadRequest(w, "invalid JSON")
		return
	}

	customer, err := h.resolver.Resolve(r.Context(), req.Code)
	if err != nil {
		var vErr *service.ValidationError
		switch {
		case errors.As(err, &vErr):
			ErrorBadRequest(w, vErr.Message)
		case errors.Is(err, domain.ErrCustomerNotFound):
			ErrorNotFound(w, msgNotFound)
		default:
			// store failures never reach the customer verbatim
			log.Printf("[HTTP] login resolve error: %v", err)
			ErrorInternal(w, msgLoadFailed)
		}
		return
	}

	Success(w, "", LoginResponse{
		CustomerID: customer.ID,
		Name:       customer.Name,
	})
}
