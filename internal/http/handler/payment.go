package handler

import (
	"encoding/json"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"convertapi/internal/service"
)

// CreatePaymentIntent godoc
// @Summary Create a payment intent
// @Tags payments
// @Produce json
// @Param amount query int true "amount in the smallest currency unit"
// @Success 200 {object} model.PaymentIntent
// @Failure 400 {object} errorPayload
// @Router /create-payment-intent [post]
func CreatePaymentIntent(payments service.PaymentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		amount, err := strconv.ParseInt(c.Query("amount"), 10, 64)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_AMOUNT", "amount must be an integer")
		}

		pi, err := payments.CreatePaymentIntent(c.UserContext(), amount)
		if err != nil {
			return writeAppError(c, err)
		}
		return c.JSON(pi)
	}
}

// CreateCheckoutSession godoc
// @Summary Create a hosted checkout session
// @Description Missing amount defaults to 1000 and missing currency to usd.
// @Tags payments
// @Accept json
// @Produce json
// @Param request body service.CheckoutRequest false "amount and currency"
// @Success 200 {object} model.CheckoutSession
// @Failure 400 {object} errorPayload
// @Router /create-checkout-session [post]
func CreateCheckoutSession(payments service.PaymentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req service.CheckoutRequest
		if body := c.Body(); len(body) > 0 {
			if err := json.Unmarshal(body, &req); err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "body must be a JSON object with amount and currency")
			}
		}

		sess, err := payments.CreateCheckoutSession(c.UserContext(), req)
		if err != nil {
			return writeAppError(c, err)
		}
		return c.JSON(sess)
	}
}
