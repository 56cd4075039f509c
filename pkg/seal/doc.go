// Package seal provides authenticated encryption for stored records.
//
// Grant records carry buyer contact details; when a sealing key is
// configured they are encrypted at rest. The algorithm is chosen per
// architecture:
//
//   - AES-GCM where hardware AES is available (amd64, arm64)
//   - ChaCha20-Poly1305 otherwise
//
// The nonce is generated per seal and prepended to the ciphertext.
package seal
