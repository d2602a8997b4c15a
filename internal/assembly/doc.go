// Package assembly orchestrates merging ordered audio segments into single
// episode files. It resolves segment sets (explicit ids, playlist order, or
// the unprocessed backlog), drives the concatenation engine, and records each
// produced episode in the merged-file ledger. A ledger row exists if and only
// if its output file was fully produced; failures at any stage leave the
// ledger untouched.
package assembly
