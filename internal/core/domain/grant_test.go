package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestNewDownloadGrant(t *testing.T) {
	g, err := NewDownloadGrant("#1001", "buyer@example.com", "EBOOK-01", "files/ebook_01.zip", 24*time.Hour)
	if err != nil {
		t.Fatalf("NewDownloadGrant() error: %v", err)
	}

	if len(g.Token) != 64 {
		t.Errorf("token length = %d, want 64", len(g.Token))
	}
	if g.OrderID != "#1001" {
		t.Errorf("OrderID = %q, want %q", g.OrderID, "#1001")
	}
	if g.IsExpired() {
		t.Error("fresh grant reported expired")
	}

	remaining := g.TTLRemaining()
	if remaining <= 23*time.Hour || remaining > 24*time.Hour {
		t.Errorf("TTLRemaining() = %v, want just under 24h", remaining)
	}
}

func TestDownloadGrantValidate(t *testing.T) {
	tests := []struct {
		name    string
		grant   DownloadGrant
		wantErr bool
	}{
		{
			name:  "valid",
			grant: DownloadGrant{SKU: "EBOOK-01", Filename: "files/a.zip", ExpiresAt: time.Now().UnixMilli()},
		},
		{
			name:    "empty sku",
			grant:   DownloadGrant{Filename: "files/a.zip", ExpiresAt: 1},
			wantErr: true,
		},
		{
			name:    "whitespace sku",
			grant:   DownloadGrant{SKU: "   ", Filename: "files/a.zip", ExpiresAt: 1},
			wantErr: true,
		},
		{
			name:    "empty filename",
			grant:   DownloadGrant{SKU: "EBOOK-01", ExpiresAt: 1},
			wantErr: true,
		},
		{
			name:    "no expiry",
			grant:   DownloadGrant{SKU: "EBOOK-01", Filename: "files/a.zip"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.grant.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !IsDomainError(err, "LG-GRNT-4001") {
				t.Errorf("Validate() error code = %q, want LG-GRNT-4001", GetErrorCode(err))
			}
		})
	}
}

func TestDownloadGrantIsExpired(t *testing.T) {
	past := DownloadGrant{ExpiresAt: time.Now().Add(-time.Minute).UnixMilli()}
	if !past.IsExpired() {
		t.Error("grant expiring a minute ago not reported expired")
	}

	future := DownloadGrant{ExpiresAt: time.Now().Add(time.Minute).UnixMilli()}
	if future.IsExpired() {
		t.Error("grant expiring in a minute reported expired")
	}
	if future.TTLRemaining() <= 0 {
		t.Error("TTLRemaining() for live grant not positive")
	}
	if got := past.TTLRemaining(); got != 0 {
		t.Errorf("TTLRemaining() for expired grant = %v, want 0", got)
	}
}

func TestDownloadGrantAttachmentName(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"files/practical_go.zip", "practical_go.zip"},
		{"practical_go.zip", "practical_go.zip"},
		{"a/b/c/deep.zip", "deep.zip"},
		{"", DefaultAttachmentName},
		{"/", DefaultAttachmentName},
	}

	for _, tt := range tests {
		g := DownloadGrant{Filename: tt.filename}
		if got := g.AttachmentName(); got != tt.want {
			t.Errorf("AttachmentName(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}

func TestDownloadGrantJSONOmitsToken(t *testing.T) {
	g, err := NewDownloadGrant("#1", "a@b.c", "SKU", "f.zip", time.Hour)
	if err != nil {
		t.Fatalf("NewDownloadGrant() error: %v", err)
	}

	raw, err := json.Marshal(g)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if strings.Contains(string(raw), g.Token) {
		t.Error("marshaled grant contains its token")
	}
	if !strings.Contains(string(raw), `"exp"`) {
		t.Error("marshaled grant missing exp field")
	}
}

func TestDownloadGrantClone(t *testing.T) {
	g := &DownloadGrant{Token: "abc", SKU: "S1", Filename: "f.zip", ExpiresAt: 42}
	clone := g.Clone()

	clone.SKU = "S2"
	if g.SKU != "S1" {
		t.Error("mutating clone affected original")
	}
}
