package reconcile

import (
	"strings"

	"github.com/agentstation/attendmerge/pkg/attendance"
)

// Difference splits presence rows into candidates, whose key is absent from
// ledgerKeys, and duplicates. Presence rows must already carry their resolved
// department. Relative order is preserved in both results.
func Difference(ledgerKeys KeySet, policy KeyPolicy, presence []attendance.Record) (candidates, duplicates []attendance.Record) {
	for _, rec := range presence {
		k, ok := policy.Key(rec, rec.Department)
		if !ok {
			continue
		}
		if ledgerKeys.Has(k) {
			duplicates = append(duplicates, rec)
			continue
		}
		candidates = append(candidates, rec)
	}
	return candidates, duplicates
}

// HasTimeData reports whether at least one of clock-in, clock-out or work
// hours is non-empty.
func HasTimeData(rec attendance.Record) bool {
	return strings.TrimSpace(rec.ClockIn) != "" ||
		strings.TrimSpace(rec.ClockOut) != "" ||
		strings.TrimSpace(rec.WorkHours) != ""
}

// FilterValid keeps candidates with time data. Rejected rows are returned in
// order for reporting.
func FilterValid(candidates []attendance.Record) (accepted, rejected []attendance.Record) {
	for _, rec := range candidates {
		if HasTimeData(rec) {
			accepted = append(accepted, rec)
		} else {
			rejected = append(rejected, rec)
		}
	}
	return accepted, rejected
}
