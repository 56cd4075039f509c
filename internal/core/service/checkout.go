package service

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"log/slog"
	"net/url"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/livemedia/linkgate/internal/core/domain"
	"github.com/livemedia/linkgate/internal/payment"
)

// OrderRefPrefix marks order references minted for provider checkouts.
const OrderRefPrefix = "DODO-"

// PaymentGateway defines the provider interface for checkout creation.
type PaymentGateway interface {
	CreateCheckout(ctx context.Context, payload []byte) (*payment.Response, error)
}

// CheckoutService creates hosted checkout sessions at the payment
// provider.
type CheckoutService struct {
	gateway PaymentGateway
	logger  *slog.Logger

	// newOrderRef is swappable in tests.
	newOrderRef func() string
}

// NewCheckoutService creates a CheckoutService.
func NewCheckoutService(gateway PaymentGateway, logger *slog.Logger) *CheckoutService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CheckoutService{
		gateway:     gateway,
		logger:      logger,
		newOrderRef: NewOrderRef,
	}
}

// NewOrderRef mints a sortable, unguessable order reference.
func NewOrderRef() string {
	return OrderRefPrefix + ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}

// CheckoutRequest is the storefront's checkout submission.
type CheckoutRequest struct {
	SKU             string `json:"sku"`
	ProductID       string `json:"dodo_product_id"`
	Email           string `json:"email"`
	AffonsoReferral string `json:"affonso_referral"`
	Ref             string `json:"ref"`

	// BaseURL is the public origin used to build the return and
	// cancel URLs. Set by the transport layer, not the client.
	BaseURL string `json:"-"`
}

// CheckoutResult carries the outcome of a checkout creation.
//
// When the provider accepted, CheckoutURL and CheckoutID are filled
// from its reply. When it refused, they are empty and Upstream holds
// the raw rejection for the caller to relay.
type CheckoutResult struct {
	OrderRef    string
	CheckoutURL string
	CheckoutID  string
	Upstream    *payment.Response
}

// OK reports whether the provider accepted the checkout.
func (r *CheckoutResult) OK() bool {
	return r.Upstream.OK()
}

// providerPayload is the request shape the provider expects.
type providerPayload struct {
	ProductCart []providerCartItem `json:"product_cart"`
	ReturnURL   string             `json:"return_url"`
	CancelURL   string             `json:"cancel_url"`
	Metadata    providerMetadata   `json:"metadata"`
}

type providerCartItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type providerMetadata struct {
	SKU             string `json:"sku"`
	AffonsoReferral string `json:"affonso_referral"`
	Ref             string `json:"ref"`
	OrderID         string `json:"order_id"`
}

// providerReply is the subset of the provider's success body we
// surface to the storefront.
type providerReply struct {
	CheckoutURL string `json:"checkout_url"`
	SessionID   string `json:"session_id"`
}

// returnURLs builds the post-payment and cancel destinations, both
// carrying the order reference, email and SKU list so the thank-you
// page can issue the download links.
func returnURLs(base, orderRef, email, sku string) (string, string) {
	q := url.Values{}
	q.Set("order", orderRef)
	q.Set("email", email)
	q.Set("skus", sku)

	return base + "/thankyou?" + q.Encode(), base + "/cancel?" + q.Encode()
}

// Create validates the submission, stamps it with a fresh order
// reference and creates a checkout session at the provider.
//
// A provider rejection is not an error: the result carries the raw
// upstream reply for the caller to relay. An error means the provider
// was unreachable or replied with garbage.
func (s *CheckoutService) Create(ctx context.Context, req *CheckoutRequest) (*CheckoutResult, error) {
	if req.ProductID == "" {
		return nil, domain.ErrMissingProductID
	}

	orderRef := s.newOrderRef()
	returnURL, cancelURL := returnURLs(req.BaseURL, orderRef, req.Email, req.SKU)

	payload := providerPayload{
		ProductCart: []providerCartItem{{ProductID: req.ProductID, Quantity: 1}},
		ReturnURL:   returnURL,
		CancelURL:   cancelURL,
		Metadata: providerMetadata{
			SKU:             req.SKU,
			AffonsoReferral: req.AffonsoReferral,
			Ref:             req.Ref,
			OrderID:         orderRef,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, domain.ErrInternalServer.WithDetails("marshal checkout payload").WithCause(err)
	}

	resp, err := s.gateway.CreateCheckout(ctx, body)
	if err != nil {
		return nil, domain.ErrUpstream.WithDetails("provider unreachable").WithCause(err)
	}

	result := &CheckoutResult{OrderRef: orderRef, Upstream: resp}

	if !resp.OK() {
		s.logger.Warn("provider rejected checkout",
			"order_ref", orderRef,
			"product_id", req.ProductID,
			"status", resp.Status,
			"body", resp.BodySample())
		return result, nil
	}

	var reply providerReply
	if err := json.Unmarshal(resp.Body, &reply); err != nil {
		return nil, domain.ErrUpstream.WithDetails("unparseable provider reply").WithCause(err)
	}
	result.CheckoutURL = reply.CheckoutURL
	result.CheckoutID = reply.SessionID

	s.logger.Info("checkout session created",
		"order_ref", orderRef,
		"product_id", req.ProductID,
		"checkout_id", result.CheckoutID)

	return result, nil
}
