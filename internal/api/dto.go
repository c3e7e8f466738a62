package api

import (
	"time"

	"github.com/ironfitwear/storefront/internal/domain/coupon"
	"github.com/ironfitwear/storefront/internal/domain/order"
	"github.com/ironfitwear/storefront/internal/domain/payment"
	"github.com/ironfitwear/storefront/internal/domain/product"
	"github.com/ironfitwear/storefront/internal/domain/user"
)

// Wire shapes. Field names follow what the storefront client already binds
// to, so they stay camelCase regardless of Go conventions.

type productView struct {
	ID            string   `json:"_id"`
	Name          string   `json:"name"`
	Slug          string   `json:"slug"`
	Image         string   `json:"image"`
	Images        []string `json:"images,omitempty"`
	Brand         string   `json:"brand"`
	Category      string   `json:"category"`
	Description   string   `json:"description"`
	Price         float64  `json:"price"`
	OriginalPrice float64  `json:"originalPrice"`
	CountInStock  int      `json:"countInStock"`
	Sizes         []string `json:"sizes,omitempty"`
	Colors        []string `json:"colors,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	Rating        float64  `json:"rating"`
	NumReviews    int      `json:"numReviews"`
}

func newProductView(p *product.Product) productView {
	return productView{
		ID:            p.ID,
		Name:          p.Name,
		Slug:          p.Slug,
		Image:         p.Image,
		Images:        p.Images,
		Brand:         p.Brand,
		Category:      p.Category,
		Description:   p.Description,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		CountInStock:  p.CountInStock,
		Sizes:         p.Sizes,
		Colors:        p.Colors,
		Tags:          p.Tags,
		Rating:        p.Rating,
		NumReviews:    p.NumReviews,
	}
}

func newProductViews(products []*product.Product) []productView {
	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, newProductView(p))
	}
	return views
}

type authView struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
	Token   string `json:"token"`
}

type userView struct {
	ID      string    `json:"_id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	Phone   string    `json:"phone,omitempty"`
	IsAdmin bool      `json:"isAdmin"`
	Created time.Time `json:"createdAt"`
}

func newUserView(u *user.User) userView {
	return userView{
		ID:      u.ID,
		Name:    u.Name,
		Email:   u.Email,
		Phone:   u.Phone,
		IsAdmin: u.IsAdmin,
		Created: u.CreatedAt,
	}
}

type lineItemView struct {
	ProductID string  `json:"product"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	Qty       int     `json:"qty"`
	Price     float64 `json:"price"`
}

type shippingAddressView struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

type orderView struct {
	ID                string              `json:"_id"`
	UserID            string              `json:"user"`
	Items             []lineItemView      `json:"orderItems"`
	ShippingAddress   shippingAddressView `json:"shippingAddress"`
	ItemsPrice        float64             `json:"itemsPrice"`
	TaxPrice          float64             `json:"taxPrice"`
	ShippingPrice     float64             `json:"shippingPrice"`
	CouponCode        string              `json:"couponCode,omitempty"`
	DiscountAmount    float64             `json:"discountAmount"`
	TotalPrice        float64             `json:"totalPrice"`
	ProviderOrderID   string              `json:"razorpayOrderId,omitempty"`
	ProviderPaymentID string              `json:"razorpayPaymentId,omitempty"`
	IsPaid            bool                `json:"isPaid"`
	PaidAt            *time.Time          `json:"paidAt,omitempty"`
	Status            order.Status        `json:"status"`
	IsDelivered       bool                `json:"isDelivered"`
	DeliveredAt       *time.Time          `json:"deliveredAt,omitempty"`
	CreatedAt         time.Time           `json:"createdAt"`
}

func newOrderView(o *order.Order) orderView {
	items := make([]lineItemView, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, lineItemView{
			ProductID: it.ProductID,
			Name:      it.Name,
			Image:     it.Image,
			Qty:       it.Qty,
			Price:     it.UnitPrice,
		})
	}
	return orderView{
		ID:     o.ID,
		UserID: o.UserID,
		Items:  items,
		ShippingAddress: shippingAddressView{
			Address:    o.ShippingAddress.Address,
			City:       o.ShippingAddress.City,
			PostalCode: o.ShippingAddress.PostalCode,
			Country:    o.ShippingAddress.Country,
		},
		ItemsPrice:        o.ItemsPrice,
		TaxPrice:          o.TaxPrice,
		ShippingPrice:     o.ShippingPrice,
		CouponCode:        o.CouponCode,
		DiscountAmount:    o.DiscountAmount,
		TotalPrice:        o.TotalPrice,
		ProviderOrderID:   o.ProviderOrderID,
		ProviderPaymentID: o.ProviderPaymentID,
		IsPaid:            o.IsPaid,
		PaidAt:            o.PaidAt,
		Status:            o.Status,
		IsDelivered:       o.IsDelivered,
		DeliveredAt:       o.DeliveredAt,
		CreatedAt:         o.CreatedAt,
	}
}

func newOrderViews(orders []*order.Order) []orderView {
	views := make([]orderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, newOrderView(o))
	}
	return views
}

type couponView struct {
	ID              string    `json:"_id"`
	Code            string    `json:"code"`
	DiscountPercent int       `json:"discountPercent"`
	MaxDiscount     float64   `json:"maxDiscount"`
	MinOrderAmount  float64   `json:"minOrderAmount"`
	ExpiresAt       time.Time `json:"expiryDate"`
	IsActive        bool      `json:"isActive"`
	UsageLimit      int       `json:"usageLimit"`
	UsedCount       int       `json:"usedCount"`
}

func newCouponView(c *coupon.Coupon) couponView {
	return couponView{
		ID:              c.ID,
		Code:            c.Code,
		DiscountPercent: c.DiscountPercent,
		MaxDiscount:     c.MaxDiscount,
		MinOrderAmount:  c.MinOrderAmount,
		ExpiresAt:       c.ExpiresAt,
		IsActive:        c.IsActive,
		UsageLimit:      c.UsageLimit,
		UsedCount:       c.UsedCount,
	}
}

type paymentView struct {
	ID                string         `json:"_id"`
	Plan              payment.Plan   `json:"plan"`
	Amount            float64        `json:"amount"`
	Currency          string         `json:"currency"`
	ProviderOrderID   string         `json:"razorpayOrderId"`
	ProviderPaymentID string         `json:"razorpayPaymentId,omitempty"`
	Status            payment.Status `json:"status"`
	CreatedAt         time.Time      `json:"createdAt"`
}

func newPaymentView(p *payment.Payment) paymentView {
	return paymentView{
		ID:                p.ID,
		Plan:              p.Plan,
		Amount:            p.Amount,
		Currency:          p.Currency,
		ProviderOrderID:   p.ProviderOrderID,
		ProviderPaymentID: p.ProviderPaymentID,
		Status:            p.Status,
		CreatedAt:         p.CreatedAt,
	}
}
