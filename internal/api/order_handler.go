package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	apporder "github.com/ironfitwear/storefront/internal/application/order"
	domain "github.com/ironfitwear/storefront/internal/domain/order"
	"github.com/ironfitwear/storefront/internal/pkg/apperr"
)

type orderHandler struct {
	orders *apporder.Service
}

type orderItemRequest struct {
	ProductID string `json:"product"`
	Qty       int    `json:"qty"`
}

type placeOrderRequest struct {
	Items           []orderItemRequest  `json:"orderItems"`
	ShippingAddress shippingAddressView `json:"shippingAddress"`
	CouponCode      string              `json:"couponCode"`
}

type placeOrderResponse struct {
	Order       orderView `json:"order"`
	KeyID       string    `json:"keyId"`
	AmountPaise int64     `json:"amount"`
	Currency    string    `json:"currency"`
}

func (h *orderHandler) place(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	items := make([]apporder.ItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, apporder.ItemInput{ProductID: it.ProductID, Qty: it.Qty})
	}

	p := principalFromContext(r.Context())
	res, err := h.orders.PlaceOrder(r.Context(), apporder.PlaceOrderInput{
		UserID: p.ID,
		Items:  items,
		ShippingAddress: domain.ShippingAddress{
			Address:    req.ShippingAddress.Address,
			City:       req.ShippingAddress.City,
			PostalCode: req.ShippingAddress.PostalCode,
			Country:    req.ShippingAddress.Country,
		},
		CouponCode: req.CouponCode,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, placeOrderResponse{
		Order:       newOrderView(res.Order),
		KeyID:       res.KeyID,
		AmountPaise: res.AmountPaise,
		Currency:    res.Currency,
	})
}

type verifyPaymentRequest struct {
	ProviderOrderID   string `json:"razorpay_order_id"`
	ProviderPaymentID string `json:"razorpay_payment_id"`
	ProviderSignature string `json:"razorpay_signature"`
}

func (h *orderHandler) verify(w http.ResponseWriter, r *http.Request) {
	var req verifyPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	o, err := h.orders.ConfirmPayment(r.Context(), req.ProviderOrderID, req.ProviderPaymentID, req.ProviderSignature)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newOrderView(o))
}

func (h *orderHandler) mine(w http.ResponseWriter, r *http.Request) {
	p := principalFromContext(r.Context())
	orders, err := h.orders.ListForUser(r.Context(), p.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newOrderViews(orders))
}

func (h *orderHandler) list(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newOrderViews(orders))
}

func (h *orderHandler) get(w http.ResponseWriter, r *http.Request) {
	p := principalFromContext(r.Context())
	o, err := h.orders.GetByID(r.Context(), chi.URLParam(r, "id"), p.ID, p.IsAdmin)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newOrderView(o))
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *orderHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	status, ok := domain.ParseStatus(req.Status)
	if !ok {
		writeError(w, r, apperr.Newf(apperr.KindValidation, "unknown status %q", req.Status))
		return
	}

	p := principalFromContext(r.Context())
	o, err := h.orders.UpdateStatus(r.Context(), chi.URLParam(r, "id"), status, p.IsAdmin)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newOrderView(o))
}
