package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	appcoupon "github.com/ironfitwear/storefront/internal/application/coupon"
)

type couponHandler struct {
	coupons *appcoupon.Service
}

type validateCouponRequest struct {
	Code        string  `json:"code"`
	OrderAmount float64 `json:"orderAmount"`
}

// validate both checks and consumes the coupon; the returned discount is the
// absolute amount the server will honor at checkout.
func (h *couponHandler) validate(w http.ResponseWriter, r *http.Request) {
	var req validateCouponRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.coupons.Validate(r.Context(), req.Code, req.OrderAmount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"code":            res.Code,
		"discountPercent": res.DiscountPercent,
		"discount":        res.Discount,
	})
}

type createCouponRequest struct {
	Code            string    `json:"code"`
	DiscountPercent int       `json:"discountPercent"`
	MaxDiscount     float64   `json:"maxDiscount"`
	MinOrderAmount  float64   `json:"minOrderAmount"`
	ExpiresAt       time.Time `json:"expiryDate"`
	UsageLimit      int       `json:"usageLimit"`
}

func (h *couponHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createCouponRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	c, err := h.coupons.Create(r.Context(), appcoupon.CreateInput{
		Code:            req.Code,
		DiscountPercent: req.DiscountPercent,
		MaxDiscount:     req.MaxDiscount,
		MinOrderAmount:  req.MinOrderAmount,
		ExpiresAt:       req.ExpiresAt,
		UsageLimit:      req.UsageLimit,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newCouponView(c))
}

func (h *couponHandler) list(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.coupons.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	views := make([]couponView, 0, len(coupons))
	for _, c := range coupons {
		views = append(views, newCouponView(c))
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *couponHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.coupons.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "coupon removed"})
}
