// Package keyregistry implements the capability key registry inside Custodia.
//
// Layering:
// - domain: key records, holdings, invariants, errors
// - application: issuer-gated mutations and holder queries using explicit ports
// - ports: stable boundaries for persistence
// - adapters: concrete HTTP and memory implementations
// - transport: module-private DTOs for HTTP contracts
//
// Boundary notes:
// - A key is a balance with multiple simultaneous holders, not a single-owner
//   reference; soulbound floors are tracked per holder.
// - Only the registered issuer (the trust service) may mint, burn, or set
//   soulbound floors. Transfers are initiated by holders directly.
package keyregistry
