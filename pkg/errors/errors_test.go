package errors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/agentstation/attendmerge/pkg/errors"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestMalformedWorkbookError(t *testing.T) {
	t.Run("missing columns", func(t *testing.T) {
		err := pkgerrors.NewMalformedWorkbookError("ledger", "Sheet1", 0, []string{"일자", "사원번호"}, "")
		assert.Equal(t, `malformed ledger (sheet "Sheet1") workbook: missing required columns 일자, 사원번호 in header row 0`, err.Error())
		assert.True(t, pkgerrors.IsMalformedWorkbook(err))
	})

	t.Run("message only", func(t *testing.T) {
		err := &pkgerrors.MalformedWorkbookError{Source: "presence", HeaderRow: 1, Message: "header row 1 is absent"}
		assert.Equal(t, "malformed presence workbook: header row 1 is absent", err.Error())
	})

	t.Run("wrapped error", func(t *testing.T) {
		base := pkgerrors.NewMalformedWorkbookError("presence", "", 1, []string{"소속부서"}, "")
		wrapped := fmt.Errorf("loading: %w", base)
		assert.True(t, pkgerrors.IsMalformedWorkbook(wrapped))

		var target *pkgerrors.MalformedWorkbookError
		require.True(t, errors.As(wrapped, &target))
		assert.Equal(t, []string{"소속부서"}, target.Missing)
	})
}

func TestDateParseError(t *testing.T) {
	err := pkgerrors.NewDateParseError("presence", 7, "not-a-date")
	assert.Equal(t, `presence row 7: cannot parse date "not-a-date"`, err.Error())
	assert.True(t, pkgerrors.IsDateParse(err))
	assert.False(t, pkgerrors.IsMalformedWorkbook(err))
}

func TestEmptyInputError(t *testing.T) {
	err := pkgerrors.NewEmptyInputError("ledger")
	assert.Equal(t, "ledger has no data rows", err.Error())
	assert.True(t, pkgerrors.IsEmptyInput(err))
}

func TestStageError(t *testing.T) {
	t.Run("unwrap", func(t *testing.T) {
		base := pkgerrors.NewMalformedWorkbookError("ledger", "", 0, []string{"일자"}, "")
		err := pkgerrors.NewStageError("load", base)
		assert.Contains(t, err.Error(), "load failed")
		assert.True(t, pkgerrors.IsMalformedWorkbook(err))
		assert.Equal(t, error(base), err.Unwrap())
	})

	t.Run("wrap keeps first stage", func(t *testing.T) {
		inner := pkgerrors.WrapStage("load", errors.New("boom"))
		outer := pkgerrors.WrapStage("merge", inner)

		var se *pkgerrors.StageError
		require.True(t, errors.As(outer, &se))
		assert.Equal(t, "load", se.Stage)
	})

	t.Run("nil", func(t *testing.T) {
		assert.Nil(t, pkgerrors.WrapStage("load", nil))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{
			Field:   "key_policy",
			Message: "must be one of employee_id, name",
		}
		assert.Equal(t, "validation failed for field key_policy: must be one of employee_id, name", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrInvalidInput))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{Message: "invalid configuration"}
		assert.Equal(t, "validation failed: invalid configuration", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})

	t.Run("wrap helper", func(t *testing.T) {
		assert.Nil(t, pkgerrors.WrapValidation("id_width", nil))
		err := pkgerrors.WrapValidation("id_width", errors.New("must be positive"))
		assert.True(t, pkgerrors.IsValidationError(err))
	})
}

func TestConfigError(t *testing.T) {
	base := errors.New("yaml: line 3")
	err := pkgerrors.NewConfigError("config file", "cannot parse", base)
	assert.Contains(t, err.Error(), "config file")
	assert.Contains(t, err.Error(), "cannot parse")
	assert.Contains(t, err.Error(), "yaml: line 3")
	assert.Equal(t, base, err.Unwrap())

	assert.Equal(t, "configuration error: bad", (&pkgerrors.ConfigError{Message: "bad"}).Error())
}

func TestIOError(t *testing.T) {
	t.Run("unwrap", func(t *testing.T) {
		baseErr := errors.New("disk full")
		err := pkgerrors.NewIOError("write", "/data/merged.xlsx", baseErr)
		assert.Equal(t, baseErr, err.Unwrap())
		assert.Contains(t, err.Error(), "/data/merged.xlsx")
	})

	t.Run("wrap helper", func(t *testing.T) {
		err := pkgerrors.WrapIO("open", "ledger.xlsx", errors.New("no such file"))
		ioErr, ok := err.(*pkgerrors.IOError)
		require.True(t, ok)
		assert.Equal(t, "open", ioErr.Operation)
		assert.Equal(t, "ledger.xlsx", ioErr.Path)
	})
}
