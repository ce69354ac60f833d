/*
Package domain defines the core data model for the Sentinel dashboard client.

The central type is the Snapshot: an atomic, immutable-once-captured view of
the monitored hospital system (environmental readings, risk predictions,
inventory and the agent's proposed actions). Snapshots are always replaced
wholesale; no component ever exposes a partially updated one.

The package also defines the Action lifecycle (PENDING -> EXECUTED), the
SyncMode flag (LIVE vs FALLBACK) and the Ticket bookkeeping record for
in-flight executions.
*/
package domain
