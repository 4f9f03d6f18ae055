/*
Package pipeline applies an ordered sequence of transforms to a raw
extracted value, producing a typed result plus a per-step outcome log.

# Built-in steps

trim, normalize_space, regex (capture-group extraction), to_number
(thousands-separator aware), and to_price (number + currency
detection). Built-ins are pure and run inline; a failing step logs
"error: ..." and the value passes through unchanged.

# Custom steps

Custom steps name a processor in a caller-supplied Registry. They run
only in dev mode, offloaded individually to a bounded worker pool and
bounded by a timeout. A timed-out task is abandoned without committing
its result; a fault is logged and the value is unchanged. Processors
can be native Go functions (Register) or sandboxed JavaScript compiled
with goja (RegisterScript): scripts execute in a fresh hardened runtime
per call and are interrupted when their window expires.

The pipeline never aborts early: every step runs and logs an outcome
regardless of what earlier steps did.
*/
package pipeline
