// Package notify delivers beatmap status change events.
//
// Notify never blocks the caller: the webhook notifier posts each event from
// its own goroutine and only logs delivery failures.
package notify
