package handlers

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/agentstation/attendmerge"
	"github.com/agentstation/attendmerge/internal/server/response"
	"github.com/agentstation/attendmerge/pkg/attendance"
	"github.com/agentstation/attendmerge/pkg/constants"
	"github.com/agentstation/attendmerge/pkg/logging"
	"github.com/agentstation/attendmerge/pkg/reconcile"
	"github.com/agentstation/attendmerge/pkg/workbook"
)

// Response headers of a merge download.
const (
	HeaderAppendedRows = "X-Appended-Rows"
	HeaderRunID        = "X-Run-ID"
)

// upload is one multipart file read fully into memory.
type upload struct {
	format workbook.Format
	data   []byte
}

// HandleMerge handles POST /api/v1/merge.
//
// The multipart fields "presence" and "ledger" carry the two workbooks
// (.xlsx or .csv). Query parameters key_policy, department_policy and
// drop_invalid_ledger_dates override the server defaults for this request.
// The merged workbook is returned as an attachment; with dry_run=true the
// JSON result is returned instead.
func (h *Handlers) HandleMerge(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		response.MethodNotAllowed(w, r.Method)
		return
	}
	if !h.parseForm(w, r) {
		return
	}

	presence, ok := h.formFile(w, r, "presence")
	if !ok {
		return
	}
	ledger, ok := h.formFile(w, r, "ledger")
	if !ok {
		return
	}

	opts, err := requestOptions(r)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	opts = append(h.options(), opts...)
	opts = append(opts,
		attendmerge.WithPresenceFormat(presence.format),
		attendmerge.WithLedgerFormat(ledger.format),
	)

	dryRun := queryBool(r, "dry_run")
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if dryRun {
		result, err := attendmerge.Merge(ctx, bytes.NewReader(presence.data), bytes.NewReader(ledger.data), nil,
			append(opts, attendmerge.WithDryRun(true))...)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		response.OK(w, result)
		return
	}

	var out bytes.Buffer
	result, err := attendmerge.Merge(ctx, bytes.NewReader(presence.data), bytes.NewReader(ledger.data), &out, opts...)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	logger.Info().
		Str("run_id", result.RunID).
		Int("appended", result.Appended).
		Int("bytes", out.Len()).
		Msg("merge served")

	w.Header().Set("Content-Type", constants.ContentTypeXLSX)
	w.Header().Set("Content-Disposition", attachment(constants.DefaultOutputFile))
	w.Header().Set("Content-Length", strconv.Itoa(out.Len()))
	w.Header().Set(HeaderAppendedRows, strconv.Itoa(result.Appended))
	w.Header().Set(HeaderRunID, result.RunID)
	w.WriteHeader(http.StatusOK)
	if _, err := out.WriteTo(w); err != nil {
		logger.Warn().Err(err).Msg("client went away during download")
	}
}

// HandleInspect handles POST /api/v1/inspect. The multipart field "file" is
// loaded with the layout of ?source=presence|ledger (default ledger) and
// summarized.
func (h *Handlers) HandleInspect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		response.MethodNotAllowed(w, r.Method)
		return
	}
	if !h.parseForm(w, r) {
		return
	}
	file, ok := h.formFile(w, r, "file")
	if !ok {
		return
	}

	source := attendance.SourceLedger
	switch s := attendance.Source(strings.ToLower(r.URL.Query().Get("source"))); s {
	case "", attendance.SourceLedger:
	case attendance.SourcePresence:
		source = s
	default:
		response.BadRequest(w, "invalid source", "source must be presence or ledger")
		return
	}

	opts := append(h.options(), attendmerge.WithPresenceFormat(file.format), attendmerge.WithLedgerFormat(file.format))
	in, err := attendmerge.Inspect(r.Context(), bytes.NewReader(file.data), source, opts...)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, in)
}

func (h *Handlers) parseForm(w http.ResponseWriter, r *http.Request) bool {
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			response.RequestTooLarge(w, fmt.Sprintf("uploads are limited to %d bytes", tooLarge.Limit))
			return false
		}
		response.BadRequest(w, "expected a multipart/form-data upload", err.Error())
		return false
	}
	return true
}

func (h *Handlers) formFile(w http.ResponseWriter, r *http.Request, field string) (upload, bool) {
	f, header, err := r.FormFile(field)
	if err != nil {
		response.BadRequest(w, "missing upload", fmt.Sprintf("form field %q is required", field))
		return upload{}, false
	}
	defer func() { _ = f.Close() }()

	format, err := workbook.DetectFormat(header.Filename)
	if err != nil {
		response.ErrorFromType(w, err)
		return upload{}, false
	}
	data, err := io.ReadAll(f)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			response.RequestTooLarge(w, "")
			return upload{}, false
		}
		response.InternalError(w, err)
		return upload{}, false
	}
	return upload{format: format, data: data}, true
}

func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	logging.FromContext(r.Context()).Warn().Err(err).Msg("request failed")
	response.ErrorFromType(w, err)
}

// requestOptions turns query parameters into merge options.
func requestOptions(r *http.Request) ([]attendmerge.Option, error) {
	q := r.URL.Query()
	var opts []attendmerge.Option
	if v := q.Get("key_policy"); v != "" {
		p, err := reconcile.ParseKeyPolicy(v)
		if err != nil {
			return nil, err
		}
		opts = append(opts, attendmerge.WithKeyPolicy(p))
	}
	if v := q.Get("department_policy"); v != "" {
		p, err := reconcile.ParseDepartmentPolicy(v)
		if err != nil {
			return nil, err
		}
		opts = append(opts, attendmerge.WithDepartmentPolicy(p))
	}
	if q.Has("drop_invalid_ledger_dates") {
		opts = append(opts, attendmerge.WithDropInvalidLedgerDates(queryBool(r, "drop_invalid_ledger_dates")))
	}
	return opts, nil
}

func queryBool(r *http.Request, key string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(key))
	return err == nil && v
}

// attachment builds a Content-Disposition value with an ASCII fallback and
// the UTF-8 file name per RFC 6266.
func attachment(name string) string {
	return fmt.Sprintf(`attachment; filename="merged.xlsx"; filename*=UTF-8''%s`, url.PathEscape(name))
}
