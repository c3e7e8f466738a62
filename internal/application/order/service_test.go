package order

import (
	"context"
	"fmt"
	"testing"
	"time"

	appcoupon "github.com/ironfitwear/storefront/internal/application/coupon"
	"github.com/ironfitwear/storefront/internal/application/inventory"
	coupondomain "github.com/ironfitwear/storefront/internal/domain/coupon"
	domain "github.com/ironfitwear/storefront/internal/domain/order"
	"github.com/ironfitwear/storefront/internal/domain/product"
	"github.com/ironfitwear/storefront/internal/infrastructure/id"
	"github.com/ironfitwear/storefront/internal/infrastructure/memory"
	"github.com/ironfitwear/storefront/internal/infrastructure/razorpay"
	"github.com/ironfitwear/storefront/internal/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "s3cr3t"

type fakeProvider struct {
	orders int
	fail   bool
}

func (f *fakeProvider) CreateOrder(_ context.Context, _ int64, _, _ string) (string, error) {
	if f.fail {
		return "", apperr.Upstream("payment provider unavailable", nil)
	}
	f.orders++
	return fmt.Sprintf("order_%d", f.orders), nil
}

func (f *fakeProvider) VerifySignature(orderID, paymentID, signature string) bool {
	return signature == razorpay.Sign(testSecret, orderID, paymentID)
}

func (f *fakeProvider) KeyID() string { return "rzp_test_key" }

type fixture struct {
	svc      *Service
	products *memory.ProductRepository
	orders   *memory.OrderRepository
	coupons  *memory.CouponRepository
	provider *fakeProvider
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	products := memory.NewProductRepository()
	orders := memory.NewOrderRepository()
	coupons := memory.NewCouponRepository()
	provider := &fakeProvider{}
	ids := id.NewUUIDGenerator()

	svc := NewService(
		orders,
		products,
		inventory.NewService(products),
		appcoupon.NewService(coupons, ids),
		provider,
		ids,
	)
	return &fixture{svc: svc, products: products, orders: orders, coupons: coupons, provider: provider}
}

func (f *fixture) seedProduct(t *testing.T, id, name string, price float64, stock int) {
	t.Helper()
	p := product.New(id, name)
	p.Price = price
	p.CountInStock = stock
	require.NoError(t, f.products.Insert(context.Background(), p))
}

func (f *fixture) stock(t *testing.T, id string) int {
	t.Helper()
	p, err := f.products.Get(context.Background(), id)
	require.NoError(t, err)
	return p.CountInStock
}

func (f *fixture) place(t *testing.T, items ...ItemInput) *PlaceOrderResult {
	t.Helper()
	res, err := f.svc.PlaceOrder(context.Background(), PlaceOrderInput{
		UserID: "user-1",
		Items:  items,
	})
	require.NoError(t, err)
	return res
}

func sign(orderID, paymentID string) string {
	return razorpay.Sign(testSecret, orderID, paymentID)
}

func TestPlaceOrderComputesTotals(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "p1", "Iron Tee", 500, 10)
	f.seedProduct(t, "p2", "Iron Cap", 250, 10)

	res := f.place(t, ItemInput{ProductID: "p1", Qty: 2}, ItemInput{ProductID: "p2", Qty: 1})
	o := res.Order

	assert.Equal(t, 1250.0, o.ItemsPrice)
	// subtotal above 999 ships free
	assert.Equal(t, 0.0, o.ShippingPrice)
	assert.Equal(t, 1250.0, o.TotalPrice)
	assert.Equal(t, domain.StatusProcessing, o.Status)
	assert.False(t, o.IsPaid)
	assert.Equal(t, "order_1", o.ProviderOrderID)
	assert.Equal(t, int64(125000), res.AmountPaise)
	assert.Equal(t, "INR", res.Currency)
	assert.Equal(t, "rzp_test_key", res.KeyID)

	// price and name snapshots
	require.Len(t, o.Items, 2)
	assert.Equal(t, 500.0, o.Items[0].UnitPrice)
	assert.Equal(t, "Iron Tee", o.Items[0].Name)

	// placement never touches stock
	assert.Equal(t, 10, f.stock(t, "p1"))
}

func TestPlaceOrderChargesShippingBelowThreshold(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "p1", "Iron Tee", 500, 10)

	res := f.place(t, ItemInput{ProductID: "p1", Qty: 1})
	assert.Equal(t, 99.0, res.Order.ShippingPrice)
	assert.Equal(t, 599.0, res.Order.TotalPrice)
}

func TestPlaceOrderValidations(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "p1", "Iron Tee", 500, 1)
	ctx := context.Background()

	_, err := f.svc.PlaceOrder(ctx, PlaceOrderInput{UserID: "u"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = f.svc.PlaceOrder(ctx, PlaceOrderInput{UserID: "u", Items: []ItemInput{{ProductID: "p1", Qty: 0}}})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = f.svc.PlaceOrder(ctx, PlaceOrderInput{UserID: "u", Items: []ItemInput{{ProductID: "ghost", Qty: 1}}})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = f.svc.PlaceOrder(ctx, PlaceOrderInput{UserID: "u", Items: []ItemInput{{ProductID: "p1", Qty: 2}}})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestPlaceOrderAppliesCoupon(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "p1", "Iron Tee", 500, 10)
	require.NoError(t, f.coupons.Insert(context.Background(), &coupondomain.Coupon{
		ID: "c1", Code: "SAVE20", DiscountPercent: 20, MaxDiscount: 100,
		ExpiresAt: time.Now().Add(time.Hour), IsActive: true,
	}))

	res, err := f.svc.PlaceOrder(context.Background(), PlaceOrderInput{
		UserID:     "user-1",
		Items:      []ItemInput{{ProductID: "p1", Qty: 4}}, // 2000
		CouponCode: "save20",
	})
	require.NoError(t, err)
	o := res.Order
	assert.Equal(t, "SAVE20", o.CouponCode)
	assert.Equal(t, 100.0, o.DiscountAmount) // 20% of 2000 capped at 100
	assert.Equal(t, 1900.0, o.TotalPrice)
}

func TestPlaceOrderRejectsInvalidCoupon(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "p1", "Iron Tee", 500, 10)

	_, err := f.svc.PlaceOrder(context.Background(), PlaceOrderInput{
		UserID:     "user-1",
		Items:      []ItemInput{{ProductID: "p1", Qty: 1}},
		CouponCode: "GHOST",
	})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestPlaceOrderProviderDown(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "p1", "Iron Tee", 500, 10)
	f.provider.fail = true

	_, err := f.svc.PlaceOrder(context.Background(), PlaceOrderInput{
		UserID: "user-1",
		Items:  []ItemInput{{ProductID: "p1", Qty: 1}},
	})
	assert.Equal(t, apperr.KindUpstream, apperr.KindOf(err))
}

func TestConfirmPaymentIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "p1", "Iron Tee", 500, 10)
	res := f.place(t, ItemInput{ProductID: "p1", Qty: 2})
	ctx := context.Background()

	poid := res.Order.ProviderOrderID
	sig := sign(poid, "pay_123")

	first, err := f.svc.ConfirmPayment(ctx, poid, "pay_123", sig)
	require.NoError(t, err)
	assert.True(t, first.IsPaid)
	require.NotNil(t, first.PaidAt)
	assert.Equal(t, "pay_123", first.ProviderPaymentID)
	assert.Equal(t, 8, f.stock(t, "p1"))

	// duplicated webhook: still paid, stock decremented exactly once
	second, err := f.svc.ConfirmPayment(ctx, poid, "pay_123", sig)
	require.NoError(t, err)
	assert.True(t, second.IsPaid)
	assert.Equal(t, 8, f.stock(t, "p1"))
}

func TestConfirmPaymentRejectsBadSignature(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "p1", "Iron Tee", 500, 10)
	res := f.place(t, ItemInput{ProductID: "p1", Qty: 2})
	ctx := context.Background()

	_, err := f.svc.ConfirmPayment(ctx, res.Order.ProviderOrderID, "pay_123", "forged")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	// order stays unpaid and retryable; stock untouched
	o, err := f.orders.Get(ctx, res.Order.ID)
	require.NoError(t, err)
	assert.False(t, o.IsPaid)
	assert.Equal(t, 10, f.stock(t, "p1"))

	// retry with the correct signature succeeds
	_, err = f.svc.ConfirmPayment(ctx, res.Order.ProviderOrderID, "pay_123", sign(res.Order.ProviderOrderID, "pay_123"))
	require.NoError(t, err)
}

func TestConfirmPaymentUnknownOrder(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.ConfirmPayment(context.Background(), "order_ghost", "pay_1", sign("order_ghost", "pay_1"))
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestUpdateStatusRequiresAdmin(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.UpdateStatus(context.Background(), "any", domain.StatusShipped, false)
	assert.Equal(t, apperr.KindAuthorization, apperr.KindOf(err))
}

func TestUpdateStatusDelivered(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "p1", "Iron Tee", 500, 10)
	res := f.place(t, ItemInput{ProductID: "p1", Qty: 1})
	ctx := context.Background()

	o, err := f.svc.UpdateStatus(ctx, res.Order.ID, domain.StatusShipped, true)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusShipped, o.Status)

	o, err = f.svc.UpdateStatus(ctx, res.Order.ID, domain.StatusDelivered, true)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelivered, o.Status)
	assert.True(t, o.IsDelivered)
	require.NotNil(t, o.DeliveredAt)

	// delivered is terminal
	_, err = f.svc.UpdateStatus(ctx, res.Order.ID, domain.StatusShipped, true)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestCancelRestoresStockExactlyOnce(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "p1", "Iron Tee", 500, 10)
	res := f.place(t, ItemInput{ProductID: "p1", Qty: 3})
	ctx := context.Background()

	poid := res.Order.ProviderOrderID
	_, err := f.svc.ConfirmPayment(ctx, poid, "pay_1", sign(poid, "pay_1"))
	require.NoError(t, err)
	assert.Equal(t, 7, f.stock(t, "p1"))

	o, err := f.svc.UpdateStatus(ctx, res.Order.ID, domain.StatusCancelled, true)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, o.Status)
	assert.Equal(t, 10, f.stock(t, "p1"))

	// cancelling an already-cancelled order is a no-op
	o, err = f.svc.UpdateStatus(ctx, res.Order.ID, domain.StatusCancelled, true)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, o.Status)
	assert.Equal(t, 10, f.stock(t, "p1"))
}

func TestCancelUnpaidOrderLeavesStockAlone(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "p1", "Iron Tee", 500, 10)
	res := f.place(t, ItemInput{ProductID: "p1", Qty: 3})

	// never paid, so never decremented: restore must not run
	_, err := f.svc.UpdateStatus(context.Background(), res.Order.ID, domain.StatusCancelled, true)
	require.NoError(t, err)
	assert.Equal(t, 10, f.stock(t, "p1"))
}

func TestGetByIDOwnership(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "p1", "Iron Tee", 500, 10)
	res := f.place(t, ItemInput{ProductID: "p1", Qty: 1})
	ctx := context.Background()

	_, err := f.svc.GetByID(ctx, res.Order.ID, "user-1", false)
	require.NoError(t, err)

	_, err = f.svc.GetByID(ctx, res.Order.ID, "other-user", false)
	assert.Equal(t, apperr.KindAuthorization, apperr.KindOf(err))

	_, err = f.svc.GetByID(ctx, res.Order.ID, "other-user", true)
	require.NoError(t, err)
}

func TestListForUser(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "p1", "Iron Tee", 500, 10)
	f.place(t, ItemInput{ProductID: "p1", Qty: 1})
	f.place(t, ItemInput{ProductID: "p1", Qty: 2})

	mine, err := f.svc.ListForUser(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	none, err := f.svc.ListForUser(context.Background(), "someone-else")
	require.NoError(t, err)
	assert.Empty(t, none)
}
