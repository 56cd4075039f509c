package handler

// issueRequest is the POST /issue submission.
type issueRequest struct {
	SKU     string `json:"sku"`
	OrderID string `json:"orderId"`
	Email   string `json:"email"`
}

// issueResponse is the POST /issue reply: the download URL and its
// expiry as epoch milliseconds.
type issueResponse struct {
	URL string `json:"url"`
	Exp int64  `json:"exp"`
}

// errorResponse is the JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}

// checkoutResponse is the successful POST /dodo/create-checkout reply.
type checkoutResponse struct {
	CheckoutURL string `json:"checkout_url"`
	CheckoutID  string `json:"checkout_id"`
	OrderID     string `json:"order_id"`
}

// checkoutErrorResponse relays a provider rejection.
type checkoutErrorResponse struct {
	Error    string `json:"error"`
	Status   int    `json:"status"`
	Upstream string `json:"upstream"`
	Details  any    `json:"details"`
}

// debugResponse reports a raw provider probe.
type debugResponse struct {
	RequestTo   string `json:"request_to"`
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	BodySample  string `json:"body_sample"`
}

// healthResponse is the GET /health reply.
type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// readyResponse is the GET /ready reply.
type readyResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}
