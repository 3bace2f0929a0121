package service

import (
	"context"
	"strings"

	"convertapi/internal/apperr"
	"convertapi/internal/model"
	"convertapi/internal/payment"
)

// Checkout defaults used when the request omits a value.
const (
	DefaultCheckoutAmount   int64 = 1000
	DefaultCheckoutCurrency       = "usd"
)

// CheckoutRequest is the body of a checkout session request.
// Nil or empty fields take the defaults.
type CheckoutRequest struct {
	Amount   *int64 `json:"amount"`
	Currency string `json:"currency"`
}

// PaymentService is the Payment Session Adapter use case. Amounts are in the
// currency's smallest unit and are forwarded unchecked; the provider decides.
type PaymentService interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*model.CheckoutSession, error)
	CreatePaymentIntent(ctx context.Context, amount int64) (*model.PaymentIntent, error)
}

type paymentService struct {
	gateway payment.Gateway
}

// NewPaymentService constructs a PaymentService.
func NewPaymentService(gateway payment.Gateway) PaymentService {
	return &paymentService{gateway: gateway}
}

func (s *paymentService) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*model.CheckoutSession, error) {
	amount := DefaultCheckoutAmount
	if req.Amount != nil {
		amount = *req.Amount
	}
	currency := strings.ToLower(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = DefaultCheckoutCurrency
	}
	return s.gateway.CreateCheckoutSession(ctx, amount, currency)
}

func (s *paymentService) CreatePaymentIntent(ctx context.Context, amount int64) (*model.PaymentIntent, error) {
	pi, err := s.gateway.CreatePaymentIntent(ctx, amount)
	if err != nil {
		return nil, err
	}
	if pi.ClientSecret == "" {
		return nil, apperr.New(apperr.KindPayment, "payment.CreatePaymentIntent", "provider returned no client secret")
	}
	return pi, nil
}
