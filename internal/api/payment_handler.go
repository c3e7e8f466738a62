package api

import (
	"net/http"

	apppayment "github.com/ironfitwear/storefront/internal/application/payment"
	domain "github.com/ironfitwear/storefront/internal/domain/payment"
)

type paymentHandler struct {
	payments *apppayment.Service
}

type createPlanOrderRequest struct {
	Plan string `json:"plan"`
}

func (h *paymentHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req createPlanOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	p := principalFromContext(r.Context())
	res, err := h.payments.CreatePlanOrder(r.Context(), p.ID, domain.Plan(req.Plan))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"orderId":  res.ProviderOrderID,
		"amount":   res.AmountPaise,
		"currency": res.Currency,
		"keyId":    res.KeyID,
	})
}

func (h *paymentHandler) verify(w http.ResponseWriter, r *http.Request) {
	var req verifyPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.payments.VerifyPayment(r.Context(), req.ProviderOrderID, req.ProviderPaymentID, req.ProviderSignature)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPaymentView(p))
}

func (h *paymentHandler) history(w http.ResponseWriter, r *http.Request) {
	p := principalFromContext(r.Context())
	payments, err := h.payments.History(r.Context(), p.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	views := make([]paymentView, 0, len(payments))
	for _, pay := range payments {
		views = append(views, newPaymentView(pay))
	}
	writeJSON(w, http.StatusOK, views)
}
