// Package ledgerservice implements the multi-context balance ledger inside
// Custodia.
//
// Layering:
// - domain: balance contexts, the balance book, errors
// - application: authorized write operations and the read surface
// - ports: stable boundaries for persistence, broker authorization, and events
// - adapters: concrete HTTP, memory, postgres, broker, and event publisher
//   implementations
// - transport: module-private DTOs for HTTP contracts
//
// Boundary notes:
// - Balances live in three nested contexts: per key, per trust (sum of its
//   keys), global (sum of all trusts). The sums are maintained incrementally
//   on every mutation, never recomputed.
// - Asset and provider registries track exactly the nonzero balance cells;
//   registry membership changes only on zero-crossings and only together with
//   the paired balance change.
// - Every write is authorized by the permission broker and applied as one
//   atomic unit; a failed precondition leaves no partial state behind.
package ledgerservice
