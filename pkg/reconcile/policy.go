package reconcile

import (
	"fmt"
	"strings"

	"github.com/agentstation/attendmerge/pkg/errors"
)

// KeyPolicy selects the identity component of the composite key.
type KeyPolicy string

// Key policies. A run uses exactly one.
const (
	// KeyByEmployeeID keys rows on (date, department, employee id).
	KeyByEmployeeID KeyPolicy = "employee_id"

	// KeyByName keys rows on (date, department, canonical name).
	KeyByName KeyPolicy = "name"
)

// String returns the string representation of a key policy.
func (p KeyPolicy) String() string {
	return string(p)
}

// Description returns a human-readable description of the policy.
func (p KeyPolicy) Description() string {
	switch p {
	case KeyByEmployeeID:
		return "date + department + employee id"
	case KeyByName:
		return "date + department + canonical name"
	default:
		return "unknown"
	}
}

// ParseKeyPolicy parses a key policy name. An empty string selects the default.
func ParseKeyPolicy(s string) (KeyPolicy, error) {
	switch KeyPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", KeyByEmployeeID, "id", "employee-id":
		return KeyByEmployeeID, nil
	case KeyByName:
		return KeyByName, nil
	default:
		return "", errors.NewValidationError("key_policy", s,
			fmt.Sprintf("unknown key policy %q (want %s or %s)", s, KeyByEmployeeID, KeyByName))
	}
}

// DepartmentPolicy selects which rows feed the department index.
type DepartmentPolicy string

// Department policies.
const (
	// DepartmentFromLedger builds the index from ledger rows only.
	DepartmentFromLedger DepartmentPolicy = "ledger"

	// DepartmentFromUnion builds the index from ledger and presence rows together,
	// so a department change seen only in the presence log still wins when newer.
	DepartmentFromUnion DepartmentPolicy = "union"
)

// String returns the string representation of a department policy.
func (p DepartmentPolicy) String() string {
	return string(p)
}

// ParseDepartmentPolicy parses a department policy name. An empty string
// selects the default.
func ParseDepartmentPolicy(s string) (DepartmentPolicy, error) {
	switch DepartmentPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", DepartmentFromLedger:
		return DepartmentFromLedger, nil
	case DepartmentFromUnion:
		return DepartmentFromUnion, nil
	default:
		return "", errors.NewValidationError("department_policy", s,
			fmt.Sprintf("unknown department policy %q (want %s or %s)", s, DepartmentFromLedger, DepartmentFromUnion))
	}
}
