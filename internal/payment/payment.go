// Package payment creates checkout sessions and payment intents with Stripe.
package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"convertapi/internal/apperr"
	"convertapi/internal/config"
	"convertapi/internal/logging"
	"convertapi/internal/model"
)

// Gateway is the payment provider surface used by the service layer.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, amount int64, currency string) (*model.CheckoutSession, error)
	CreatePaymentIntent(ctx context.Context, amount int64) (*model.PaymentIntent, error)
}

// Stripe implements Gateway on the Stripe API.
type Stripe struct {
	api         *client.API
	successURL  string
	cancelURL   string
	currency    string
	productName string
}

// NewStripe builds a client with its own backend so settings never leak
// into stripe-go's package globals. Requests are traced through otelhttp
// and never retried.
func NewStripe(cfg config.StripeConfig, logger *logging.Logger) *Stripe {
	bc := &stripe.BackendConfig{
		HTTPClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     leveledLogger{logger},
	}
	if cfg.BackendURL != "" {
		bc.URL = stripe.String(cfg.BackendURL)
	}

	backends := &stripe.Backends{
		API:     stripe.GetBackendWithConfig(stripe.APIBackend, bc),
		Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, bc),
		Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, bc),
	}

	sc := &client.API{}
	sc.Init(cfg.SecretKey, backends)

	return &Stripe{
		api:         sc,
		successURL:  cfg.SuccessURL,
		cancelURL:   cfg.CancelURL,
		currency:    cfg.Currency,
		productName: cfg.ProductName,
	}
}

// CreateCheckoutSession opens a hosted checkout for one card-paid line item.
func (s *Stripe) CreateCheckoutSession(ctx context.Context, amount int64, currency string) (*model.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(s.productName),
					},
					UnitAmount: stripe.Int64(amount),
				},
				Quantity: stripe.Int64(1),
			},
		},
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(s.successURL),
		CancelURL:  stripe.String(s.cancelURL),
	}
	params.Context = ctx

	sess, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, providerError("payment.CreateCheckoutSession", err)
	}
	return &model.CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

// CreatePaymentIntent creates an intent in the configured currency.
func (s *Stripe) CreatePaymentIntent(ctx context.Context, amount int64) (*model.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(s.currency),
	}
	params.Context = ctx

	pi, err := s.api.PaymentIntents.New(params)
	if err != nil {
		return nil, providerError("payment.CreatePaymentIntent", err)
	}
	return &model.PaymentIntent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

// providerError keeps Stripe's own message as the caller-facing text.
func providerError(op string, err error) error {
	var se *stripe.Error
	if errors.As(err, &se) && se.Msg != "" {
		return apperr.New(apperr.KindPayment, op, se.Msg)
	}
	return apperr.Wrap(apperr.KindPayment, op, err)
}

// leveledLogger routes stripe-go diagnostics into the JSON log.
type leveledLogger struct {
	l *logging.Logger
}

func (x leveledLogger) log(level, format string, v ...interface{}) {
	x.l.Log(map[string]any{
		"component": "stripe",
		"level":     level,
		"msg":       fmt.Sprintf(format, v...),
	})
}

func (x leveledLogger) Debugf(format string, v ...interface{}) {}

func (x leveledLogger) Infof(format string, v ...interface{}) {}

func (x leveledLogger) Warnf(format string, v ...interface{}) { x.log("warn", format, v...) }

func (x leveledLogger) Errorf(format string, v ...interface{}) { x.log("error", format, v...) }
