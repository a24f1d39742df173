// Package report renders engine results for humans: a plain-text console
// summary and a self-contained HTML visualization of one plan.
//
// Both renderers consume the knapsack result and route plans strictly
// read-only and write to an io.Writer, so they compose with files, buffers
// and stdout alike. All listings (per-node pickups, detours, tied plans)
// are emitted in deterministic order.
package report
