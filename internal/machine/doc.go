// Package machine implements the turnstile state-dispatch engine.
//
// A Machine models a turn-based process as a set of comparable states, a
// transition function between them, and a growing registry of consumers that
// react to queued events.
//
// ARCHITECTURE:
//
// Two-Phase Run Loop:
// Run alternates between two phases until the transition halts it.
//  1. Drain: pop events queued under the current state, one at a time, and
//     hand each to the consumers interested in that state in priority order.
//     Consumers may emit further events and register further consumers.
//  2. Advance: once the current state's queue is empty, ask the Transition
//     for the next state. A halt decision ends Run; otherwise the machine
//     moves to the next state, enqueues the seed events, and drains again.
//
// Everything happens on the calling goroutine. There are no suspension
// points: each consumer invocation runs to completion before the next one.
//
// ORDERING GUARANTEES:
//
//   - Within one state's queue, events come out last-in-first-out.
//   - Within one dispatch, consumers run in ascending priority order; ties
//     keep registration order.
//   - A consumer only ever sees events whose State() is in its States().
//
// Events queued for a state the machine never revisits stay queued for the
// life of the machine. Events whose state has no interested consumer are
// dropped and counted in Stats.Unclaimed.
package machine
