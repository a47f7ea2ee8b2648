// Package trustservice implements trust lifecycle and key management inside
// Custodia.
//
// Layering:
// - domain: trust entities, invariants, errors
// - application: root-gated commands and ring validation using explicit ports
// - ports: stable boundaries for persistence, key registry access, and events
// - adapters: concrete HTTP, memory, postgres, and key-registry implementations
// - transport: module-private DTOs for HTTP contracts
//
// Boundary notes:
// - This module is the only issuer registered with the key registry; every
//   mint, burn, and soulbound-floor change flows through it.
// - ValidateKeyRing is the single choke point for "a set of keys within one
//   trust" and is reused by the permission broker for distributions.
package trustservice
