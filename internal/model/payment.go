package model

// CheckoutSession is the provider handle for a hosted checkout page.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// PaymentIntent is the provider handle for a client-confirmed payment.
type PaymentIntent struct {
	ID           string `json:"-"`
	ClientSecret string `json:"clientSecret"`
}
