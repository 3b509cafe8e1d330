// Package primitives provides the foundational data structures the resolver reads:
// nodes, the frozen node tree, charts, events and chart documents.
//
// Core invariants:
// - Trees are immutable once frozen; every read is lock-free
// - Node ids are dense and stable for the lifetime of a chart
// - Names are unique within an owner, not across the whole tree
package primitives
