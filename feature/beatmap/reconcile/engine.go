package reconcile

import (
	"time"

	"beatmap-cache/feature/beatmap/models"
)

// Reconcile merges the stored record old (nil if none) with the records the
// catalog returned for key, producing the plan to persist.
//
// It is a pure function: neither old nor fetched is modified, and the merged
// record shares no memory with either.
func Reconcile(old *models.Beatmap, fetched []models.Beatmap, key Key, now time.Time) Plan {
	candidate, found := selectCandidate(fetched, key)

	if !found {
		if old == nil {
			return Plan{Outcome: OutcomeNoChange}
		}
		return Plan{
			Outcome: OutcomeDeleted,
			Actions: []Action{{Type: ActionDelete, MD5: old.MD5, Reason: "withdrawn from catalog"}},
		}
	}

	candidate.LastUpdate = now.Unix()

	if old == nil {
		return replaced(candidate, nil, Action{})
	}

	if candidate.MD5 != old.MD5 {
		// a different map now lives under this id: start over, no carryover
		return replaced(candidate, nil, Action{Type: ActionDelete, MD5: old.MD5, Reason: "checksum changed"})
	}

	// same map from the player's pov, keep the local stats
	local := old.Clone()
	candidate.Plays = local.Plays
	candidate.Passes = local.Passes
	candidate.Rating = local.Rating
	candidate.AttributedBy = local.AttributedBy
	// the import freeze only applies to new maps, afterwards frozen is local authority
	candidate.Frozen = local.Frozen

	var event *models.StatusEvent
	switch {
	case old.Frozen:
		candidate.Status = old.Status
		candidate.Frozen = true
	case candidate.Status != old.Status:
		action := models.ActionStatusChange
		if candidate.Status == models.StatusPending && old.Status.FreezesOnImport() {
			// the catalog lost data on a ranked map, keep ours
			candidate.Status = old.Status
			candidate.Frozen = true
			action = models.ActionFrozen
		}
		event = &models.StatusEvent{Old: old.Clone(), New: candidate.Clone(), Action: action}
	}

	return replaced(candidate, event, Action{})
}

// replaced builds a Replaced plan, optionally preceded by a delete action.
func replaced(b models.Beatmap, event *models.StatusEvent, pre Action) Plan {
	var actions []Action
	if pre.Type != "" {
		actions = append(actions, pre)
	}
	persisted := b.Clone()
	actions = append(actions, Action{Type: ActionUpsert, MD5: b.MD5, Reason: "synchronized with catalog", Beatmap: &persisted})

	served := b.Clone()
	return Plan{
		Outcome: OutcomeReplaced,
		Actions: actions,
		Beatmap: &served,
		Event:   event,
	}
}

// selectCandidate returns a deep copy of the fetched record matching key.
func selectCandidate(fetched []models.Beatmap, key Key) (models.Beatmap, bool) {
	for _, b := range fetched {
		if key.Matches(b) {
			return b.Clone(), true
		}
	}
	return models.Beatmap{}, false
}
