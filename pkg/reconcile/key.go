package reconcile

import (
	"github.com/agentstation/attendmerge/pkg/attendance"
)

// CompositeKey identifies one physical attendance event across both tables.
// All components are compared by exact string equality.
type CompositeKey struct {
	Date       string `json:"date" yaml:"date"`
	Department string `json:"department" yaml:"department"`
	// Identity is the employee id or the canonical name, per KeyPolicy.
	Identity string `json:"identity" yaml:"identity"`
}

// String returns the key as "date|department|identity".
func (k CompositeKey) String() string {
	return k.Date + "|" + k.Department + "|" + k.Identity
}

// Key builds the composite key of a normalized record using dept as the
// department component. It reports false when the record has no valid date.
func (p KeyPolicy) Key(rec attendance.Record, dept string) (CompositeKey, bool) {
	if !rec.DateValid {
		return CompositeKey{}, false
	}
	k := CompositeKey{Date: rec.DateKey(), Department: dept}
	switch p {
	case KeyByName:
		k.Identity = rec.EmployeeName
	default:
		k.Identity = rec.EmployeeID
	}
	return k, true
}

// KeySet is a set of composite keys.
type KeySet map[CompositeKey]struct{}

// Has reports whether k is in the set.
func (s KeySet) Has(k CompositeKey) bool {
	_, ok := s[k]
	return ok
}

// Add inserts k.
func (s KeySet) Add(k CompositeKey) {
	s[k] = struct{}{}
}

// LedgerKeys returns the key of every dated ledger row. Department components
// come from the index so they match the presence rows it was applied to.
func LedgerKeys(policy KeyPolicy, ledger *attendance.Table, idx *DepartmentIndex) KeySet {
	keys := make(KeySet)
	if ledger == nil {
		return keys
	}
	for _, rec := range ledger.Records {
		if k, ok := policy.Key(rec, idx.DepartmentFor(rec)); ok {
			keys.Add(k)
		}
	}
	return keys
}
