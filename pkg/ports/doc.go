/*
Package ports defines the driven ports (interfaces) for the Sentinel core.

These interfaces decouple the sync/execution logic from external
implementations, allowing the core to run against the real HTTP service,
in-memory fakes in tests, or the bundled demo backend.

# Key Interfaces

  - SnapshotSource: the remote risk service (scan + execute_action).
  - Notifier: transient, self-clearing operator notifications.
  - HospitalStore: mutable hospital state behind the demo service
    (inventory quantities and the system log).
*/
package ports
