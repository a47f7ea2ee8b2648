// Package permissionbroker mediates every ledger mutation in Custodia.
//
// Layering:
// - domain: trusted-role entries, withdrawal allowances, errors
// - application: root-gated provisioning and ledger-facing authorization checks
// - ports: stable boundaries for persistence, trust directory access, and events
// - adapters: concrete HTTP, memory, and trust-directory implementations
// - transport: module-private DTOs for HTTP contracts
//
// Boundary notes:
// - Trusted-role sets are keyed by (ledger, trust, role); re-adding a member
//   or removing a non-member is rejected, never ignored.
// - Withdrawal allowances are per (ledger, provider, key, asset) so different
//   beneficiaries of one trust can carry different budgets against the same
//   provider and asset.
// - AuthorizeWithdrawal only checks; the ledger consumes the allowance after
//   its own overdraft check so a failed withdrawal never burns budget.
package permissionbroker
