package domain

import "strings"

// Product is the catalog view of a purchasable item: a SKU mapped to
// the blob store key of its deliverable file and a display title.
type Product struct {
	SKU      string `json:"sku"`
	Filename string `json:"filename"`
	Title    string `json:"title,omitempty"`
}

// DisplayTitle returns the product's title, deriving one from the
// filename when none is set.
func (p *Product) DisplayTitle() string {
	if p.Title != "" {
		return p.Title
	}
	return TitleFromFilename(p.Filename)
}

// NormalizeSKU canonicalizes a SKU: trimmed, upper-cased.
func NormalizeSKU(sku string) string {
	return strings.ToUpper(strings.TrimSpace(sku))
}

// SplitSKUList parses a comma-separated SKU list into normalized,
// non-empty entries, preserving order.
func SplitSKUList(raw string) []string {
	parts := strings.Split(raw, ",")
	skus := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := NormalizeSKU(p); s != "" {
			skus = append(skus, s)
		}
	}
	return skus
}

// NormalizeOrderRef ensures an order reference carries the leading "#"
// used in customer-facing copy.
func NormalizeOrderRef(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ref
	}
	if strings.HasPrefix(ref, "#") {
		return ref
	}
	return "#" + ref
}

// TitleFromFilename derives a human-readable title from an object key:
// basename without the .zip suffix, underscores as spaces, word-initial
// letters upper-cased.
func TitleFromFilename(filename string) string {
	base := filename
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}
	if strings.HasSuffix(strings.ToLower(base), ".zip") {
		base = base[:len(base)-len(".zip")]
	}
	base = strings.Join(strings.Fields(strings.ReplaceAll(base, "_", " ")), " ")

	b := []byte(base)
	prevWord := false
	for i, c := range b {
		isWord := c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
		if c >= 'a' && c <= 'z' && !prevWord {
			b[i] = c - 'a' + 'A'
		}
		prevWord = isWord
	}
	return string(b)
}
