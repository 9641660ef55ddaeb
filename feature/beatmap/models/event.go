package models

// EventAction names what reconciliation did about a status disagreement.
type EventAction string

const (
	// ActionFrozen means the catalog regressed a ranked map to pending and the
	// local status was kept and frozen.
	ActionFrozen EventAction = "frozen"
	// ActionStatusChange means the catalog's new status was accepted.
	ActionStatusChange EventAction = "status_change"
)

// StatusEvent is the outbound notification produced by reconciliation.
type StatusEvent struct {
	Old    Beatmap     `json:"old"`
	New    Beatmap     `json:"new"`
	Action EventAction `json:"action"`
}
