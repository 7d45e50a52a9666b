// Package queue defines message payloads exchanged over the message broker
// and the background consumer that persists them as an audit trail.
package queue

// InterventionEvent is published after a successful create, update or
// delete of an intervention.  It carries enough for the audit log to
// answer "who touched which record when" without querying the database.
type InterventionEvent struct {
	Action         string `json:"action"` // created | updated | deleted
	InterventionID uint64 `json:"intervention_id"`
	Actor          string `json:"actor"` // username of the caller
	Role           string `json:"role"`
	Mecanicien     string `json:"mecanicien,omitempty"` // owning worker, when known
	OccurredAt     string `json:"occurred_at"`          // RFC 3339 UTC
}
