// Package mocks provides generated mock implementations for testing.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for
// the session core's ports. Hand-written doubles for the same ports live in
// internal/mocks/session; the generated mocks are used where per-call
// expectations matter (error injection, call-count assertions).
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
package mocks

// Generate mock for the DocumentStore port.
// This creates MockDocumentStore with methods for GetRoleRecord, PutRoleRecord, PutUserRecord.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=document_store_mock.go github.com/givechain/givechain-ui-api/internal/ports DocumentStore
