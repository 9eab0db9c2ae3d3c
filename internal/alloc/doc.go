// Package alloc provides a lock-free, capacity-bounded stack allocator for
// storage that is refilled every step, such as the secondary particle bank.
//
// The host creates a [Store], hands its [View] to a kernel, and after the
// kernel completes reads [Store.Size] and calls [Store.Reset]. Concurrent
// threads calling [View.Allocate] never receive overlapping slots. There is
// no per-slot free: reset is the only way to reclaim space.
//
// # Exhaustion
//
// A failed claim is not rolled back, so once the capacity is overrun every
// later request in the same step fails. [Store.Claimed] reports the total
// demand, which lets the caller size a retry.
package alloc
