package domain

import "time"

// WorkflowState tracks one shopper's order from cart editing to sharing.
type WorkflowState string

const (
	StateDraft      WorkflowState = "DRAFT"
	StateValidating WorkflowState = "VALIDATING"
	StateSubmitting WorkflowState = "SUBMITTING"
	StatePlaced     WorkflowState = "PLACED"
	StatePDFReady   WorkflowState = "PDF_READY"
	StateShared     WorkflowState = "SHARED"
)

var transitions = map[WorkflowState][]WorkflowState{
	StateDraft:      {StateValidating},
	StateValidating: {StateSubmitting},
	StateSubmitting: {StatePlaced},
	StatePlaced:     {StatePDFReady},
	StatePDFReady:   {StatePDFReady, StateShared},
	StateShared:     {StateShared},
}

// CanTransitionTo reports whether next may follow from. Returning to Draft is
// always allowed: it is either a rejection or an explicit reset.
func CanTransitionTo(from, next WorkflowState) bool {
	if next == StateDraft {
		return true
	}
	for _, s := range transitions[from] {
		if s == next {
			return true
		}
	}
	return false
}

// HasOrder is true once the order has been persisted.
func (s WorkflowState) HasOrder() bool {
	return s == StatePlaced || s == StatePDFReady || s == StateShared
}

func (s WorkflowState) String() string {
	return string(s)
}

type Session struct {
	ID        string        `json:"id"`
	State     WorkflowState `json:"state"`
	Lines     []CartLine    `json:"lines"`
	Contact   Contact       `json:"contact"`
	Order     *Order        `json:"order,omitempty"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

func NewSession(id string) *Session {
	return &Session{ID: id, State: StateDraft, UpdatedAt: time.Now()}
}
