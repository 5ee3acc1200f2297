// test/mocks/mocks.go

// Package mocks contains generated mocks for the application's ports.
// To regenerate mocks, run `make mocks` from the root directory.
package mocks

//go:generate mockgen -source=../../internal/core/ports/gateway.go -destination=gateway_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/identity.go -destination=identity_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/guard.go -destination=guard_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/cart.go -destination=cart_mock.go -package=mocks
