// Package trace records what a machine run did, in order.
//
// A Collector is a machine.Observer that turns every callback into an Entry
// stamped by a logical Clock. Entries are plain strings and integers so the
// same trace can be written to the journal, printed by the CLI, or compared
// byte-for-byte against a golden file through MarshalCanonical.
//
// CANONICAL JSON:
//
// MarshalCanonical follows RFC 8785: object keys sorted by UTF-16 code units,
// strings NFC-normalized, no HTML escaping, no floats, no null. Two equal
// traces always marshal to identical bytes.
package trace
