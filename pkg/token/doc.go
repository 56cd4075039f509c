// Package token provides download-token generation utilities.
//
// Download tokens are opaque bearer strings: 32 bytes from a CSPRNG,
// hex-encoded to 64 characters. They carry no structure and no embedded
// claims; all metadata lives in the grant record stored under the token.
//
// Security:
//
//   - Uses crypto/rand for CSPRNG
//   - 256 bits of entropy per token; collision probability is negligible
//     at any realistic issuance volume
package token
