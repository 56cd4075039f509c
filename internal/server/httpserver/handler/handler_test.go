package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/livemedia/linkgate/internal/blob"
	"github.com/livemedia/linkgate/internal/catalog"
	"github.com/livemedia/linkgate/internal/core/domain"
	"github.com/livemedia/linkgate/internal/core/service"
	"github.com/livemedia/linkgate/internal/payment"
	"github.com/livemedia/linkgate/internal/storage"
	"github.com/livemedia/linkgate/internal/storage/memory"
	"github.com/livemedia/linkgate/internal/telemetry/metric"
	"github.com/livemedia/linkgate/pkg/token"
)

type fixture struct {
	handler *Handler
	kv      *memory.Store
	grants  *storage.GrantStore
	catalog *catalog.KVCatalog
	blobDir string
}

// newFixture builds a handler over in-memory storage with one catalog
// entry EBOOK-01 -> guide.zip and the matching file on disk.
func newFixture(t *testing.T, mutate func(*Config)) *fixture {
	t.Helper()

	log := slog.New(slog.DiscardHandler)

	kv := memory.New()
	t.Cleanup(func() { kv.Close() })
	grants := storage.NewGrantStore(kv)

	cat := catalog.NewKVCatalog(kv)
	ctx := context.Background()
	if err := cat.Put(ctx, &domain.Product{SKU: "EBOOK-01", Filename: "guide.zip", Title: "The Field Guide"}); err != nil {
		t.Fatalf("catalog.Put() error: %v", err)
	}

	blobDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(blobDir, "guide.zip"), []byte("PK\x03\x04 guide payload"), 0o600); err != nil {
		t.Fatalf("write blob: %v", err)
	}
	blobs, err := blob.NewFSStore(blobDir)
	if err != nil {
		t.Fatalf("NewFSStore() error: %v", err)
	}

	issuer := service.NewIssueService(cat, grants, 24*time.Hour, log)

	cfg := Config{
		Issue:    issuer,
		Download: service.NewDownloadService(grants, blobs, log),
		ThankYou: service.NewThankYouService(cat, log),
		Metrics:  metric.New(),
		Logger:   log,
	}
	if mutate != nil {
		mutate(&cfg)
	}

	return &fixture{
		handler: New(cfg),
		kv:      kv,
		grants:  grants,
		catalog: cat,
		blobDir: blobDir,
	}
}

func (f *fixture) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func TestIssueSuccess(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(http.MethodPost, "/issue", `{"sku":"ebook-01","orderId":"1042","email":"buyer@example.com"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %q", rec.Code, rec.Body.String())
	}

	var resp issueResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}

	i := strings.Index(resp.URL, "/download?t=")
	if i < 0 {
		t.Fatalf("URL = %q, want a /download?t= link", resp.URL)
	}
	if !strings.HasPrefix(resp.URL, "http://") {
		t.Errorf("URL = %q, want origin derived from request", resp.URL)
	}
	if tok := resp.URL[i+len("/download?t="):]; !token.Valid(tok) {
		t.Errorf("URL token %q is not a valid token", tok)
	}
	if resp.Exp <= time.Now().UnixMilli() {
		t.Errorf("Exp = %d is not in the future", resp.Exp)
	}
}

func TestIssueUsesPublicBaseURL(t *testing.T) {
	f := newFixture(t, func(cfg *Config) {
		cfg.PublicBaseURL = "https://dl.example.com/"
	})

	rec := f.do(http.MethodPost, "/issue", `{"sku":"EBOOK-01"}`)

	var resp issueResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if !strings.HasPrefix(resp.URL, "https://dl.example.com/download?t=") {
		t.Errorf("URL = %q, want the configured base", resp.URL)
	}
}

func TestIssueMissingSKU(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(http.MethodPost, "/issue", `{"orderId":"1042"}`)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if resp.Error != "Missing SKU" {
		t.Errorf("error = %q, want %q", resp.Error, "Missing SKU")
	}
}

func TestIssueUnknownSKU(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(http.MethodPost, "/issue", `{"sku":"vanished"}`)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if resp.Error != "No filename for SKU VANISHED" {
		t.Errorf("error = %q", resp.Error)
	}
}

func TestIssueInvalidJSON(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(http.MethodPost, "/issue", `{"sku": `)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestDownloadRoundTrip(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(http.MethodPost, "/issue", `{"sku":"EBOOK-01"}`)
	var issued issueResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &issued); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	link := issued.URL[strings.Index(issued.URL, "/download"):]

	rec = f.do(http.MethodGet, link, "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %q", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/zip" {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="guide.zip"` {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if got := rec.Body.String(); got != "PK\x03\x04 guide payload" {
		t.Errorf("body = %q", got)
	}
}

func TestDownloadMissingToken(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(http.MethodGet, "/download", "")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if rec.Body.String() != "Missing token" {
		t.Errorf("body = %q, want %q", rec.Body.String(), "Missing token")
	}
}

func TestDownloadUnknownToken(t *testing.T) {
	f := newFixture(t, nil)

	unknown, err := token.Generate()
	if err != nil {
		t.Fatal(err)
	}
	rec := f.do(http.MethodGet, "/download?t="+unknown, "")

	if rec.Code != http.StatusGone {
		t.Errorf("status = %d, want 410", rec.Code)
	}
	if rec.Body.String() != "Token invalid or expired" {
		t.Errorf("body = %q, want %q", rec.Body.String(), "Token invalid or expired")
	}
}

func TestDownloadMalformedToken(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(http.MethodGet, "/download?t=not-a-token", "")

	if rec.Code != http.StatusGone {
		t.Errorf("status = %d, want 410", rec.Code)
	}
	if rec.Body.String() != "Token invalid or expired" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestDownloadExpiredToken(t *testing.T) {
	f := newFixture(t, nil)

	// Freeze the store clock so the record outlives its own deadline,
	// exercising the explicit expiry check.
	frozen := time.Now()
	f.kv.SetNow(func() time.Time { return frozen })

	grant, err := domain.NewDownloadGrant("#1042", "", "EBOOK-01", "guide.zip", 10*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	if err := f.grants.Put(context.Background(), grant); err != nil {
		t.Fatal(err)
	}
	time.Sleep(20 * time.Millisecond)

	rec := f.do(http.MethodGet, "/download?t="+grant.Token, "")

	if rec.Code != http.StatusGone {
		t.Errorf("status = %d, want 410", rec.Code)
	}
	if rec.Body.String() != "Token expired" {
		t.Errorf("body = %q, want %q", rec.Body.String(), "Token expired")
	}
}

func TestDownloadFileMissing(t *testing.T) {
	f := newFixture(t, nil)

	ctx := context.Background()
	if err := f.catalog.Put(ctx, &domain.Product{SKU: "GHOST-01", Filename: "ghost.zip"}); err != nil {
		t.Fatal(err)
	}

	rec := f.do(http.MethodPost, "/issue", `{"sku":"GHOST-01"}`)
	var issued issueResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &issued); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}

	rec = f.do(http.MethodGet, issued.URL[strings.Index(issued.URL, "/download"):], "")

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if rec.Body.String() != "File not found" {
		t.Errorf("body = %q, want %q", rec.Body.String(), "File not found")
	}
}

func TestThankYouMissingSKUs(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(http.MethodGet, "/thankyou", "")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if rec.Body.String() != "Missing 'skus' query param" {
		t.Errorf("body = %q, want %q", rec.Body.String(), "Missing 'skus' query param")
	}
}

func TestThankYouPage(t *testing.T) {
	f := newFixture(t, func(cfg *Config) {
		cfg.SupportEmail = "help@example.com"
	})

	rec := f.do(http.MethodGet, "/thankyou?skus=EBOOK-01,GONE-99&order=1042", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %q", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}

	page := rec.Body.String()
	for _, want := range []string{"The Field Guide", "#1042", "24 hours", "help@example.com"} {
		if !strings.Contains(page, want) {
			t.Errorf("page is missing %q", want)
		}
	}
	// Download buttons defer issuance to the buyer's click; the page
	// itself carries no pre-minted links.
	if strings.Contains(page, "/download?t=") {
		t.Errorf("page embeds a pre-minted download link:\n%s", page)
	}
	if !strings.Contains(page, `onclick="downloadNow('EBOOK-01')"`) {
		t.Errorf("page is missing the download action for EBOOK-01:\n%s", page)
	}
	if !strings.Contains(page, "fetch('/issue'") {
		t.Errorf("page script does not post to /issue:\n%s", page)
	}
	// The unmapped SKU renders disabled, not dropped.
	if !strings.Contains(page, "Missing filename for GONE-99") {
		t.Errorf("page is missing the disabled item hint:\n%s", page)
	}
}

func TestThankYouRenderWritesNoGrants(t *testing.T) {
	f := newFixture(t, nil)

	for i := 0; i < 2; i++ {
		rec := f.do(http.MethodGet, "/thankyou?skus=EBOOK-01&order=1042&email=buyer@example.com", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %q", rec.Code, rec.Body.String())
		}
	}

	// Page views must not mint tokens; grants appear only when a
	// download button posts to /issue.
	stored := 0
	err := f.kv.Scan(context.Background(), storage.GrantKeyPrefix, func(string, []byte) bool {
		stored++
		return true
	})
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if stored != 0 {
		t.Errorf("rendering left %d grant(s) in storage, want 0", stored)
	}
}

func TestCheckoutMissingProductID(t *testing.T) {
	f := newFixture(t, func(cfg *Config) {
		cfg.Checkout = service.NewCheckoutService(
			payment.NewClient(payment.Config{BaseURL: "http://127.0.0.1:0", APIKey: "sk_test_x"}, slog.New(slog.DiscardHandler)),
			slog.New(slog.DiscardHandler))
	})

	rec := f.do(http.MethodPost, "/dodo/create-checkout", `{"sku":"EBOOK-01"}`)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if resp.Error != "Missing dodo_product_id" {
		t.Errorf("error = %q", resp.Error)
	}
}

func TestCheckoutSuccess(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"checkout_url":"https://test.dodopayments.com/c/abc","session_id":"cs_abc"}`))
	}))
	defer provider.Close()

	f := newFixture(t, func(cfg *Config) {
		cfg.Checkout = service.NewCheckoutService(
			payment.NewClient(payment.Config{BaseURL: provider.URL, APIKey: "sk_test_x"}, slog.New(slog.DiscardHandler)),
			slog.New(slog.DiscardHandler))
	})

	rec := f.do(http.MethodPost, "/dodo/create-checkout", `{"sku":"EBOOK-01","dodo_product_id":"pdt_123","email":"buyer@example.com"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %q", rec.Code, rec.Body.String())
	}

	var resp struct {
		CheckoutURL string `json:"checkout_url"`
		CheckoutID  string `json:"checkout_id"`
		OrderID     string `json:"order_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if resp.CheckoutURL != "https://test.dodopayments.com/c/abc" {
		t.Errorf("checkout_url = %q", resp.CheckoutURL)
	}
	if resp.CheckoutID != "cs_abc" {
		t.Errorf("checkout_id = %q", resp.CheckoutID)
	}
	if !strings.HasPrefix(resp.OrderID, "DODO-") {
		t.Errorf("order_id = %q, want DODO- prefix", resp.OrderID)
	}
}

func TestCheckoutProviderRejection(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"code":"invalid_product"}`))
	}))
	defer provider.Close()

	f := newFixture(t, func(cfg *Config) {
		cfg.Checkout = service.NewCheckoutService(
			payment.NewClient(payment.Config{BaseURL: provider.URL, APIKey: "sk_test_x"}, slog.New(slog.DiscardHandler)),
			slog.New(slog.DiscardHandler))
	})

	rec := f.do(http.MethodPost, "/dodo/create-checkout", `{"dodo_product_id":"pdt_bad"}`)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want the provider's 422", rec.Code)
	}

	var resp struct {
		Error    string          `json:"error"`
		Status   int             `json:"status"`
		Upstream string          `json:"upstream"`
		Details  json.RawMessage `json:"details"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if resp.Error != "Dodo upstream error" {
		t.Errorf("error = %q", resp.Error)
	}
	if resp.Status != http.StatusUnprocessableEntity {
		t.Errorf("status field = %d", resp.Status)
	}
	if !strings.Contains(resp.Upstream, "/checkouts") {
		t.Errorf("upstream = %q", resp.Upstream)
	}
	if !strings.Contains(string(resp.Details), "invalid_product") {
		t.Errorf("details = %s", resp.Details)
	}
}

func TestCheckoutProviderUnreachable(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	provider.Close()

	f := newFixture(t, func(cfg *Config) {
		cfg.Checkout = service.NewCheckoutService(
			payment.NewClient(payment.Config{BaseURL: provider.URL, APIKey: "sk_test_x"}, slog.New(slog.DiscardHandler)),
			slog.New(slog.DiscardHandler))
	})

	rec := f.do(http.MethodPost, "/dodo/create-checkout", `{"dodo_product_id":"pdt_123"}`)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if resp.Error != "Payment provider unavailable" {
		t.Errorf("error = %q", resp.Error)
	}
}

func TestDebugProbeDisabledByDefault(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(http.MethodPost, "/_debug/dodo", `{}`)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 when the probe is off", rec.Code)
	}
}

func TestDebugProbe(t *testing.T) {
	var gotPing []byte
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPing, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"code":"missing_fields"}`))
	}))
	defer provider.Close()

	f := newFixture(t, func(cfg *Config) {
		cfg.DebugProbe = true
		cfg.Gateway = payment.NewClient(payment.Config{BaseURL: provider.URL, APIKey: "sk_test_x"}, slog.New(slog.DiscardHandler))
	})

	rec := f.do(http.MethodPost, "/_debug/dodo", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %q", rec.Code, rec.Body.String())
	}
	if string(gotPing) != `{"ping":true}` {
		t.Errorf("probe payload = %q", gotPing)
	}
	var resp debugResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if resp.Status != http.StatusUnprocessableEntity {
		t.Errorf("probe status = %d, want 422", resp.Status)
	}
	if !strings.Contains(resp.RequestTo, "/checkouts") {
		t.Errorf("request_to = %q", resp.RequestTo)
	}
	if !strings.Contains(resp.BodySample, "missing_fields") {
		t.Errorf("body_sample = %q", resp.BodySample)
	}
}

func TestHealth(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(http.MethodGet, "/health", "")

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	var resp healthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("status = %q", resp.Status)
	}
}

func TestReady(t *testing.T) {
	f := newFixture(t, func(cfg *Config) {
		cfg.Ready = func(ctx context.Context) error { return nil }
	})

	rec := f.do(http.MethodGet, "/ready", "")

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestReadyBackendDown(t *testing.T) {
	f := newFixture(t, func(cfg *Config) {
		cfg.Ready = func(ctx context.Context) error { return errors.New("kv unreachable") }
	})

	rec := f.do(http.MethodGet, "/ready", "")

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}
