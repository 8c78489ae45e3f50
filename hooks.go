package attendmerge

import (
	"github.com/agentstation/attendmerge/pkg/reconcile"
)

// Hook function types for row events
type (
	// RowAcceptedHook is called for each presence row appended to the ledger
	RowAcceptedHook func(outcome reconcile.RowOutcome)

	// RowSkippedHook is called for each presence row that was not appended:
	// duplicates, rows without time data and rows with unparseable dates
	RowSkippedHook func(outcome reconcile.RowOutcome)
)

// hooks holds the callbacks of one run
type hooks struct {
	onRowAccepted []RowAcceptedHook
	onRowSkipped  []RowSkippedHook
}

// newHooks creates a new hooks instance
func newHooks() *hooks {
	return &hooks{}
}

// OnRowAccepted registers a callback for accepted rows
func (h *hooks) OnRowAccepted(fn RowAcceptedHook) {
	if fn != nil {
		h.onRowAccepted = append(h.onRowAccepted, fn)
	}
}

// OnRowSkipped registers a callback for skipped rows
func (h *hooks) OnRowSkipped(fn RowSkippedHook) {
	if fn != nil {
		h.onRowSkipped = append(h.onRowSkipped, fn)
	}
}

// trigger replays the row outcomes of a result in presence-log order
func (h *hooks) trigger(result *reconcile.Result) {
	if result == nil {
		return
	}
	for _, o := range result.Outcomes {
		if o.Outcome == reconcile.OutcomeAccepted {
			for _, hook := range h.onRowAccepted {
				hook(o)
			}
			continue
		}
		for _, hook := range h.onRowSkipped {
			hook(o)
		}
	}
}
