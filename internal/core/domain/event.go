package domain

// PostingEvent describes a completed posting operation for outbound
// messaging. Delivery is best-effort and never affects the transaction
// that produced it.
type PostingEvent struct {
	Kind       string `json:"kind"` // e.g. "document.accepted", "payment.created"
	DocumentID string `json:"documentID"`
	Summary    string `json:"summary"`
}
