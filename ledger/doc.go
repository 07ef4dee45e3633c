// Package ledger implements the append-only, tamper-evident record chain at
// the core of wipeforge.
//
// # Core Components
//
// Record: a single chain entry committing to its position, timestamp,
// payload and the digest of its predecessor.
//
// Chain: the ordered sequence of records, offering genesis initialization,
// linked appends and a full-chain validation pass.
//
// # Security Properties
//
// Any retroactive edit to a stored record either breaks that record's own
// digest or the link carried by its successor, and a single linear Validate
// pass reports every such break. The package provides internal consistency
// verification only: no consensus, no replication, no authorship signatures.
package ledger
