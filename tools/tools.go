//go:build tools
// +build tools

// Package tools documents development tool dependencies. These are installed
// with `go install` and are not runtime dependencies.
package tools

// mockgen - generates the repository and auth mocks under internal/mocks.
//   Install: go install go.uber.org/mock/mockgen@v0.5.2
//   Regenerate: go generate ./internal/mocks/...
//
// Air - live reload during local development.
//   Install: go install github.com/air-verse/air@v1.63.0
