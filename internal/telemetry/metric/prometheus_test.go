package metric

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCountersAppearInScrape(t *testing.T) {
	m := New()

	m.GrantsIssued.Inc()
	m.DownloadsServed.Inc()
	m.DownloadBytes.Add(1024)
	m.RedemptionsDenied.WithLabelValues(ReasonExpired).Inc()
	m.Checkouts.WithLabelValues(OutcomeCreated).Inc()
	m.RequestDuration.WithLabelValues("/download", "GET", "200").Observe(0.05)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read scrape: %v", err)
	}
	page := string(body)

	for _, want := range []string{
		"linkgate_grants_issued_total 1",
		"linkgate_downloads_served_total 1",
		"linkgate_download_bytes_total 1024",
		`linkgate_redemptions_denied_total{reason="expired"} 1`,
		`linkgate_checkouts_total{outcome="created"} 1`,
		"linkgate_http_request_duration_seconds_bucket",
		"go_goroutines",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("scrape missing %q", want)
		}
	}
}

func TestInstancesAreIndependent(t *testing.T) {
	// Two instances must not clash on registration.
	a := New()
	b := New()

	a.GrantsIssued.Inc()

	srv := httptest.NewServer(b.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if strings.Contains(string(body), "linkgate_grants_issued_total 1") {
		t.Error("instance b sees instance a's counter")
	}
}
