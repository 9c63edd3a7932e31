// Package coordinator drives incremental regeneration. Change notifications
// are folded per type identity and handed to one background worker; each
// type moves Idle -> Queued -> Regenerating -> Idle. Suspend delays work
// without losing it, Refuse drops new requests.
package coordinator
