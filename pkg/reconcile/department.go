package reconcile

import (
	"sort"

	"github.com/agentstation/attendmerge/pkg/attendance"
)

// DepartmentIndex maps an employee id to the department of that employee's
// most recent dated row.
type DepartmentIndex struct {
	departments map[string]string
}

// BuildDepartmentIndex sorts the source rows by date ascending and keeps the
// last department seen per employee id. The sort is stable, so rows sharing a
// date resolve in input order, ledger rows before presence rows. Rows without a
// valid date or with a blank department do not contribute.
func BuildDepartmentIndex(policy DepartmentPolicy, ledger, presence *attendance.Table) *DepartmentIndex {
	var rows []attendance.Record
	if ledger != nil {
		rows = append(rows, ledger.Records...)
	}
	if policy == DepartmentFromUnion && presence != nil {
		rows = append(rows, presence.Records...)
	}

	dated := rows[:0:0]
	for _, r := range rows {
		if r.DateValid && r.Department != "" {
			dated = append(dated, r)
		}
	}
	sort.SliceStable(dated, func(i, j int) bool {
		return dated[i].Date.Before(dated[j].Date)
	})

	idx := &DepartmentIndex{departments: make(map[string]string)}
	for _, r := range dated {
		idx.departments[r.EmployeeID] = r.Department
	}
	return idx
}

// Resolve returns the indexed department for an employee id.
func (idx *DepartmentIndex) Resolve(employeeID string) (string, bool) {
	if idx == nil {
		return "", false
	}
	d, ok := idx.departments[employeeID]
	return d, ok
}

// DepartmentFor returns the indexed department for rec, or its own department
// when the employee is not indexed.
func (idx *DepartmentIndex) DepartmentFor(rec attendance.Record) string {
	if d, ok := idx.Resolve(rec.EmployeeID); ok {
		return d
	}
	return rec.Department
}

// Apply overwrites the department of every record in t whose employee id is
// indexed. Records of unknown employees keep their own value. It returns the
// number of records whose department changed.
func (idx *DepartmentIndex) Apply(t *attendance.Table) int {
	if t == nil {
		return 0
	}
	changed := 0
	for i := range t.Records {
		d, ok := idx.Resolve(t.Records[i].EmployeeID)
		if !ok {
			continue
		}
		if t.Records[i].Department != d {
			changed++
		}
		t.Records[i].Department = d
	}
	return changed
}

// Len returns the number of indexed employees.
func (idx *DepartmentIndex) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.departments)
}
