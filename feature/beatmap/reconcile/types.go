package reconcile

import "beatmap-cache/feature/beatmap/models"

// Outcome is the overall result of reconciling one beatmap.
type Outcome string

const (
	// OutcomeDeleted means the catalog no longer has the map; the stored row goes.
	OutcomeDeleted Outcome = "deleted"
	// OutcomeReplaced means a merged (or brand-new) record must be persisted.
	OutcomeReplaced Outcome = "replaced"
	// OutcomeNoChange means there is nothing to write.
	OutcomeNoChange Outcome = "no_change"
)

// ActionType represents the type of store mutation.
type ActionType string

const (
	// ActionDelete removes the row keyed by Action.MD5.
	ActionDelete ActionType = "delete"
	// ActionUpsert inserts or replaces Action.Beatmap.
	ActionUpsert ActionType = "upsert"
)

// Action represents a planned store mutation.
type Action struct {
	// Type specifies the action to perform.
	Type ActionType `json:"type"`

	// MD5 is the checksum of the affected row.
	MD5 string `json:"md5"`

	// Reason explains why this action is needed.
	Reason string `json:"reason"`

	// Beatmap is the record to persist. Only populated for ActionUpsert.
	Beatmap *models.Beatmap `json:"beatmap,omitempty"`
}

// Plan is the result of Reconcile. Actions must be applied in order.
type Plan struct {
	Outcome Outcome `json:"outcome"`

	Actions []Action `json:"actions"`

	// Beatmap is the record callers should serve after the plan is applied.
	// Nil when the outcome is not OutcomeReplaced.
	Beatmap *models.Beatmap `json:"beatmap,omitempty"`

	// Event is the status notification to dispatch, if any.
	Event *models.StatusEvent `json:"event,omitempty"`
}

// Key is the identity the catalog was queried with; it selects the
// fetched record that answers the query.
type Key struct {
	MD5 string
	ID  int
}

// ByMD5 matches the fetched record with this checksum.
func ByMD5(md5 string) Key { return Key{MD5: md5} }

// ByID matches the fetched record with this beatmap id.
func ByID(id int) Key { return Key{ID: id} }

// Matches reports whether b answers the query.
func (k Key) Matches(b models.Beatmap) bool {
	if k.MD5 != "" {
		return b.MD5 == k.MD5
	}
	return b.ID == k.ID
}
