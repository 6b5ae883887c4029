// Package domain contains shared domain types used across entity sub-packages.
// The transaction context, command vocabulary, handlers, fact validators,
// stage table machinery and document types live in sub-packages. This root
// package holds the sentinel errors and typed error values that every layer
// uses to classify failures.
package domain
