// Package reconcile merges a stored beatmap with a fresh catalog copy.
//
// Reconcile is a pure function returning a Plan: an Outcome, the ordered store
// Actions that realize it and an optional status notification.
//
// # Precedence rules
//
//  1. No fetched record answers the query: the stored row is deleted.
//  2. The answering record has a different checksum: the stored row is deleted
//     and the new map is stored from scratch.
//  3. Same checksum: plays, passes, rating and attribution carry over.
//     A frozen record keeps its status. A ranked, approved or loved map that
//     the catalog suddenly reports as pending keeps its status and becomes
//     frozen ("frozen" event). Any other status change is accepted
//     ("status_change" event).
//
// # Usage
//
//	plan := reconcile.Reconcile(stored, fetched, reconcile.ByID(stored.ID), time.Now())
//	for _, action := range plan.Actions {
//	    // apply against the store
//	}
package reconcile
