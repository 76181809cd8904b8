package employeehandler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"hrms/internal/domain/auth"
	"hrms/internal/domain/employee"
	"hrms/internal/domain/exchange"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

const bulkUploadEndpoint = "employees.bulk-upload"

type idsRequest struct {
	IDs    []string `json:"ids"`
	Format string   `json:"format"`
}

func exportFormat(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", exchange.FormatCSV:
		return exchange.FormatCSV, nil
	case exchange.FormatXLSX:
		return exchange.FormatXLSX, nil
	default:
		return "", exchange.ErrUnsupportedFormat
	}
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := exportFormat(r.URL.Query().Get("format"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	h.export(w, r, format, nil)
}

func (h *Handler) handleBulkExport(w http.ResponseWriter, r *http.Request) {
	var payload idsRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	if len(payload.IDs) == 0 {
		shared.FailField(w, middleware.GetRequestID(r.Context()), "ids", "must contain at least one id")
		return
	}
	format, err := exportFormat(payload.Format)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	h.export(w, r, format, payload.IDs)
}

// export renders into memory first so a failure can still be reported as an
// error envelope.
func (h *Handler) export(w http.ResponseWriter, r *http.Request, format string, ids []string) {
	var buf bytes.Buffer
	rows, err := h.Exchange.Export(r.Context(), &buf, format, ids)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.Audit(r, h.Audit, "employee.export", "employee", "", nil, map[string]any{"rows": rows, "format": format, "ids": ids})

	name := "employees-" + h.now().UTC().Format("20060102") + "." + format
	w.Header().Set("Content-Type", exchange.ContentType(format))
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger().Warn("export write failed", "err", err)
	}
}

func (h *Handler) handleBulkUpload(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	upload, ok := formFile(w, r, "file")
	if !ok {
		return
	}
	defer upload.Close()
	body, err := io.ReadAll(upload)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}

	user, _ := middleware.GetUser(r.Context())
	key := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	hash := middleware.RequestHash(body)
	if key != "" && h.Idempotency != nil {
		stored, found, err := h.Idempotency.Check(r.Context(), user.UserID, bulkUploadEndpoint, key, hash)
		if errors.Is(err, middleware.ErrIdempotencyConflict) {
			api.Fail(w, http.StatusConflict, "idempotency_conflict", err.Error(), requestID)
			return
		}
		if err != nil {
			shared.WriteError(w, r, err)
			return
		}
		if found {
			w.Header().Set("Idempotent-Replay", "true")
			api.Success(w, stored, requestID)
			return
		}
	}

	name := r.FormValue("format")
	if name == "" {
		name = upload.name
	}
	format := exchange.DetectFormat(name, upload.contentType)
	columns, rows, err := exchange.ReadRows(bytes.NewReader(body), format)
	if err != nil {
		shared.FailField(w, requestID, "file", "could not be read as "+format+": "+err.Error())
		return
	}
	if touchesCompensation(columns) && !h.can(r, auth.PermCompensationWrite) {
		api.Fail(w, http.StatusForbidden, "forbidden", "compensation columns require additional permission", requestID)
		return
	}

	started := time.Now()
	result, err := h.Exchange.ImportRows(r.Context(), columns, rows)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.Audit(r, h.Audit, "employee.import", "employee", "", nil, map[string]any{
		"file":       upload.name,
		"created":    result.Created,
		"updated":    result.Updated,
		"failed":     len(result.Errors),
		"durationMs": time.Since(started).Milliseconds(),
	})

	if key != "" && h.Idempotency != nil {
		encoded, err := json.Marshal(result)
		if err == nil {
			err = h.Idempotency.Save(r.Context(), user.UserID, bulkUploadEndpoint, key, hash, encoded)
		}
		if err != nil {
			h.logger().Warn("idempotency save failed", "key", key, "err", err)
		}
	}
	api.Success(w, result, requestID)
}

func touchesCompensation(columns []string) bool {
	for _, column := range columns {
		if employee.IsCompensationField(strings.ToLower(strings.TrimSpace(column))) {
			return true
		}
	}
	return false
}

func (h *Handler) handleBulkDelete(w http.ResponseWriter, r *http.Request) {
	var payload idsRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	keys, err := h.Documents.FilesOf(r.Context(), payload.IDs)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	removed, err := h.Employees.BulkDelete(r.Context(), payload.IDs)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	h.Documents.Purge(r.Context(), keys)
	shared.Audit(r, h.Audit, "employee.bulk_delete", "employee", "", map[string]any{"ids": payload.IDs}, map[string]int{"deleted": removed})
	api.Success(w, map[string]int{"deleted": removed}, middleware.GetRequestID(r.Context()))
}
