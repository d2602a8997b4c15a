// Package store persists the narration catalog in SQLite: synthesized
// segments, playlist ordering, and the merged-audio ledger.
//
// The Store manages the database connection, schema migrations, and every
// mutation of playlist positions and ledger rows. Playlist position updates
// run inside single transactions so item positions always read as a
// contiguous 1..N sequence between operations. The ledger is append-mostly;
// which segments count as "unprocessed" is derived from ledger contents
// rather than tracked as a mutable flag.
//
// Treat this package as the single source of truth for catalog semantics;
// schema changes are added as new files under migrations/.
package store
