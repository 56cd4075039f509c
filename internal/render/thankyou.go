// Package render produces the customer-facing thank-you page.
//
// The page is the one piece of HTML this service owns: one download
// button per SKU in the order, rendered server-side with html/template
// so titles and order refs are escaped. Clicking a button posts to
// /issue and follows the minted link, so nothing is written to storage
// until the buyer acts.
package render

import (
	"html/template"
	"io"
)

// Item is one product on the page. Items without a catalog mapping
// render disabled with a hint instead of a download button.
type Item struct {
	SKU         string
	Title       string
	Unavailable bool
}

// ThankYouData feeds the thank-you template. OrderRef and Email are
// echoed back through the page's issue requests so grants carry the
// purchase context.
type ThankYouData struct {
	OrderRef     string
	Email        string
	Items        []Item
	ExpiresHours int
	LogoURL      string
	SupportEmail string
}

var thankYouTmpl = template.Must(template.New("thankyou").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta name="robots" content="noindex">
<title>Thank you for your order</title>
<style>
body{font-family:-apple-system,BlinkMacSystemFont,"Segoe UI",sans-serif;max-width:640px;margin:3rem auto;padding:0 1rem;color:#1a1a1a}
h1{font-size:1.5rem}
.brand{text-align:center;margin-bottom:2rem}
.brand img{max-height:76px}
ul{list-style:none;padding:0}
li{margin:1rem 0;padding:1rem;border:1px solid #ddd;border-radius:8px}
button.dl{display:inline-block;margin-top:.5rem;padding:.5rem 1rem;background:#1a7f37;color:#fff;border:0;border-radius:6px;font-size:1rem;cursor:pointer}
button.dl:disabled{background:#999;cursor:default}
p.note{color:#555;font-size:.9rem}
p.err{color:#c0392b;font-size:.9rem}
p.msg{color:#c0392b;font-size:.9rem;min-height:1rem;margin:.25rem 0 0}
</style>
</head>
<body>
{{- if .LogoURL}}
<div class="brand"><img src="{{.LogoURL}}" alt="logo"></div>
{{- end}}
<h1>Payment successful{{if .OrderRef}} &middot; order {{.OrderRef}}{{end}}</h1>
{{- if .Email}}
<p class="note">Receipt sent to {{.Email}}.</p>
{{- end}}
<p>Click Download Now for each item. Links stay valid for {{.ExpiresHours}} hours after you request them.</p>
<ul>
{{- range .Items}}
<li><strong>{{.Title}}</strong><br>
{{- if .Unavailable}}
<p class="err">Missing filename for {{.SKU}}. Contact support with your order number.</p>
<button class="dl" disabled>Download Now</button>
{{- else}}
<button class="dl" id="btn-{{.SKU}}" onclick="downloadNow('{{.SKU}}')">Download Now</button>
{{- end}}
<p class="msg" id="msg-{{.SKU}}"></p>
</li>
{{- end}}
</ul>
<p class="note">{{if .SupportEmail}}Questions? Write to <a href="mailto:{{.SupportEmail}}">{{.SupportEmail}}</a>.{{end}}</p>
<script>
async function downloadNow(sku) {
  const msg = document.getElementById('msg-' + sku);
  msg.textContent = '';
  const resp = await fetch('/issue', {
    method: 'POST',
    headers: {'content-type': 'application/json'},
    body: JSON.stringify({orderId: {{.OrderRef}}, email: {{.Email}}, sku: sku}),
  });
  const data = await resp.json();
  if (!resp.ok) {
    msg.textContent = data.error || 'Something went wrong. Please try again.';
    return;
  }
  location.href = data.url;
}
</script>
</body>
</html>
`))

// ThankYou writes the thank-you page.
func ThankYou(w io.Writer, data ThankYouData) error {
	return thankYouTmpl.Execute(w, data)
}
