// Package review is the staff-side workflow: search and filter the full
// transaction listing, stage eligible transactions in a selection set, and
// forward the selection to settlement as a batch.
//
// The workflow is single-goroutine state. The view reads the selection,
// dispatches the batch itself, and applies the outcome back here once the
// response is accepted; the workflow never runs I/O of its own.
package review

import (
	"strings"

	"github.com/google/uuid"

	"github.com/novabank/payportal/internal/transaction"
)

type StatusFilter int

const (
	FilterAll StatusFilter = iota
	// FilterPending shows transactions no one has verified yet.
	FilterPending
	// FilterVerified means eligible-for-submission: verified and not yet
	// forwarded. A submitted transaction leaves this filter for good.
	FilterVerified
)

func (f StatusFilter) String() string {
	switch f {
	case FilterPending:
		return "Pending"
	case FilterVerified:
		return "Verified"
	default:
		return "All"
	}
}

// Workflow holds one staff session's listing snapshot and selection set.
// Never shared across sessions.
type Workflow struct {
	txs      []*transaction.Transaction
	selected map[uuid.UUID]struct{}
	term     string
	filter   StatusFilter
}

func New() *Workflow {
	return &Workflow{selected: map[uuid.UUID]struct{}{}}
}

// Reload replaces the listing snapshot and prunes the selection set: any
// member whose transaction is gone or no longer eligible is dropped, so a
// transaction submitted elsewhere cannot be submitted again from here.
func (w *Workflow) Reload(txs []*transaction.Transaction) {
	w.txs = txs

	eligible := make(map[uuid.UUID]struct{}, len(txs))

	for _, tx := range txs {
		if tx.EligibleForSubmission() {
			eligible[tx.ID] = struct{}{}
		}
	}

	for id := range w.selected {
		if _, ok := eligible[id]; !ok {
			delete(w.selected, id)
		}
	}
}

func (w *Workflow) SetSearch(term string) {
	w.term = term
}

func (w *Workflow) SearchTerm() string {
	return w.term
}

func (w *Workflow) SetFilter(f StatusFilter) {
	w.filter = f
}

func (w *Workflow) Filter() StatusFilter {
	return w.filter
}

// CycleFilter advances All -> Pending -> Verified -> All.
func (w *Workflow) CycleFilter() {
	w.filter = (w.filter + 1) % 3
}

// Visible returns the transactions matching the current search term and
// status filter, in listing order.
func (w *Workflow) Visible() []*transaction.Transaction {
	var out []*transaction.Transaction

	for _, tx := range w.txs {
		if !w.matchesSearch(tx) {
			continue
		}

		switch w.filter {
		case FilterPending:
			if tx.Verified {
				continue
			}
		case FilterVerified:
			if !tx.EligibleForSubmission() {
				continue
			}
		}

		out = append(out, tx)
	}

	return out
}

func (w *Workflow) matchesSearch(tx *transaction.Transaction) bool {
	if w.term == "" {
		return true
	}

	return strings.Contains(strings.ToLower(tx.CustomerName), strings.ToLower(w.term)) ||
		strings.Contains(tx.RecipientAccount, w.term) ||
		strings.Contains(tx.SwiftCode, strings.ToUpper(w.term))
}

// ToggleSelect flips membership for an eligible transaction and reports the
// resulting state. Ineligible identifiers are refused.
func (w *Workflow) ToggleSelect(id uuid.UUID) bool {
	if _, ok := w.selected[id]; ok {
		delete(w.selected, id)
		return false
	}

	for _, tx := range w.txs {
		if tx.ID == id && tx.EligibleForSubmission() {
			w.selected[id] = struct{}{}
			return true
		}
	}

	return false
}

func (w *Workflow) Selected(id uuid.UUID) bool {
	_, ok := w.selected[id]
	return ok
}

func (w *Workflow) SelectionCount() int {
	return len(w.selected)
}

// SelectedIDs returns the selection in listing order.
func (w *Workflow) SelectedIDs() []uuid.UUID {
	var ids []uuid.UUID

	for _, tx := range w.txs {
		if _, ok := w.selected[tx.ID]; ok {
			ids = append(ids, tx.ID)
		}
	}

	return ids
}

// SelectAllEligible replaces the selection with every currently visible
// transaction satisfying the submission precondition. Recomputed from the
// live listing on every call; eligibility is never cached.
func (w *Workflow) SelectAllEligible() {
	w.selected = map[uuid.UUID]struct{}{}

	for _, tx := range w.Visible() {
		if tx.EligibleForSubmission() {
			w.selected[tx.ID] = struct{}{}
		}
	}
}

func (w *Workflow) ClearSelection() {
	w.selected = map[uuid.UUID]struct{}{}
}

// ApplySubmitResult records a settled batch: identifiers the backend
// accepted leave the selection; rejected ones stay selected so the operator
// can see exactly what failed. A selection toggled while the batch was in
// flight is untouched unless the backend reported it submitted.
func (w *Workflow) ApplySubmitResult(result *transaction.SubmitResult) {
	for _, id := range result.Submitted {
		delete(w.selected, id)
	}
}
