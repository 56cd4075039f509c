// Package service provides the domain services for linkgate.
//
// Each service owns one operation family:
//
//   - IssueService: mint download grants for paid SKUs
//   - DownloadService: redeem tokens into file streams
//   - ThankYouService: assemble per-SKU download links for the
//     post-purchase page
//   - CheckoutService: create hosted checkout sessions at the payment
//     provider
//
// Services depend on narrow interfaces (GrantRepository, the catalog,
// the blob store) so storage engines swap without touching business
// rules.
package service
