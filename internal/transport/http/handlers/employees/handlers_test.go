package employeehandler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrms/internal/domain/audit"
	"hrms/internal/domain/auth"
	"hrms/internal/domain/documents"
	docstore "hrms/internal/domain/documents/memstore"
	"hrms/internal/domain/employee"
	employeestore "hrms/internal/domain/employee/memstore"
	"hrms/internal/domain/exchange"
	"hrms/internal/domain/offboarding"
	offboardingstore "hrms/internal/domain/offboarding/memstore"
	"hrms/internal/platform/config"
	cryptoutil "hrms/internal/platform/crypto"
	"hrms/internal/platform/metrics"
	"hrms/internal/platform/rbac"
	"hrms/internal/platform/storage"
	employeehandler "hrms/internal/transport/http/handlers/employees"
	"hrms/internal/transport/http/middleware"
)

const (
	secret    = "employees-secret"
	roleClerk = "clerk"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details struct {
			Fields []struct {
				Field  string `json:"field"`
				Reason string `json:"reason"`
			} `json:"fields"`
		} `json:"details"`
	} `json:"error"`
}

func (e envelope) fields() []string {
	if e.Error == nil {
		return nil
	}
	out := make([]string, 0, len(e.Error.Details.Fields))
	for _, f := range e.Error.Details.Fields {
		out = append(out, f.Field)
	}
	return out
}

type harness struct {
	router    http.Handler
	trail     *audit.Memory
	filesRoot string
	hr        string
	clerk     string
	staff     string
}

func token(t *testing.T, id, role string) string {
	t.Helper()
	signed, err := auth.GenerateToken(secret, auth.Claims{UserID: id, Email: id + "@example.com", Role: role}, time.Hour)
	require.NoError(t, err)
	return signed
}

func newHarness(t *testing.T, directory string) *harness {
	t.Helper()
	crypto, err := cryptoutil.New(strings.Repeat("k", 32))
	require.NoError(t, err)
	root := t.TempDir()
	blobs, err := storage.NewLocal(root, crypto)
	require.NoError(t, err)

	policy := rbac.DefaultPolicy()
	policy.Roles[roleClerk] = []string{auth.PermEmployeesRead, auth.PermEmployeesWrite, auth.PermEmployeesImport}
	enforcer, err := rbac.New(policy)
	require.NoError(t, err)

	employees := employee.NewService(employeestore.New(), employee.Options{}, nil)
	trail := audit.NewMemory()
	h := &employeehandler.Handler{
		Employees:       employees,
		Exchange:        exchange.NewService(employees, metrics.New(), nil),
		Offboarding:     offboarding.NewService(offboardingstore.New(), employees, nil),
		Documents:       documents.NewService(docstore.New(), blobs, employees, "/api/v1", nil),
		Perms:           enforcer,
		Audit:           trail,
		Idempotency:     middleware.NewMemoryIdempotency(),
		DirectoryPolicy: directory,
		Now:             func() time.Time { return time.Date(2025, 3, 31, 9, 0, 0, 0, time.UTC) },
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Auth(secret))
	r.Route("/api/v1", h.RegisterRoutes)
	return &harness{
		router:    r,
		trail:     trail,
		filesRoot: root,
		hr:        token(t, "hr-1", auth.RoleHR),
		clerk:     token(t, "clerk-1", roleClerk),
		staff:     token(t, "staff-1", auth.RoleEmployee),
	}
}

func (h *harness) raw(t *testing.T, req *http.Request, bearer string) *httptest.ResponseRecorder {
	t.Helper()
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func (h *harness) do(t *testing.T, method, path, bearer string, body any) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, "/api/v1"+path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := h.raw(t, req, bearer)
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func (h *harness) create(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	status, env := h.do(t, http.MethodPost, "/employees", h.hr, body)
	require.Equal(t, http.StatusCreated, status, env.Error)
	return decode[map[string]any](t, env)
}

type upload struct {
	field       string
	fileName    string
	contentType string
	content     []byte
}

func multipartRequest(t *testing.T, path string, fields map[string]string, file upload) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, value := range fields {
		require.NoError(t, w.WriteField(name, value))
	}
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, file.field, file.fileName))
	header.Set("Content-Type", file.contentType)
	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(file.content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1"+path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func fullChecklist() map[string]string {
	return map[string]string{
		offboarding.ItemLaptopReturned:    offboarding.StatusPending,
		offboarding.ItemAccessCard:        offboarding.StatusPending,
		offboarding.ItemDocuments:         offboarding.StatusSubmitted,
		offboarding.ItemNoDues:            "",
		offboarding.ItemKnowledgeTransfer: offboarding.StatusPending,
	}
}

func countFiles(t *testing.T, root string) int {
	t.Helper()
	count := 0
	require.NoError(t, filepath.WalkDir(root, func(_ string, d os.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			count++
		}
		return err
	}))
	return count
}

func TestCreateAndReadEmployee(t *testing.T) {
	h := newHarness(t, config.DirectoryAllowlist)
	created := h.create(t, map[string]any{
		"employee_code":   "E100",
		"first_name":      "Asha",
		"last_name":       "Rao",
		"email":           "asha@example.com",
		"department":      "Engineering",
		"designation":     "Developer",
		"date_of_joining": "2024-01-15",
		"annual_ctc":      "1200000",
	})
	id := created["id"].(string)
	assert.Equal(t, employee.StatusActive, created["status"])
	assert.Equal(t, "2024-01-15", created["date_of_joining"])
	assert.Equal(t, "1200000", created["annual_ctc"])
	assert.Equal(t, created["created_at"], created["updated_at"])

	status, env := h.do(t, http.MethodGet, "/employees/"+id, h.hr, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "1200000", decode[map[string]any](t, env)["annual_ctc"])

	status, env = h.do(t, http.MethodGet, "/employees/"+id, h.staff, nil)
	require.Equal(t, http.StatusOK, status)
	view := decode[map[string]any](t, env)
	assert.NotContains(t, view, "annual_ctc")
	assert.Equal(t, "Asha", view["first_name"])

	status, env = h.do(t, http.MethodGet, "/employees/not-a-uuid", h.hr, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "not_found", env.Error.Code)
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	h := newHarness(t, config.DirectoryAllowlist)

	status, env := h.do(t, http.MethodPost, "/employees", h.hr, map[string]any{
		"first_name": "Asha",
		"email":      "nope",
	})
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "validation_error", env.Error.Code)
	assert.Subset(t, env.fields(), []string{"employee_code", "department", "designation", "email"})

	h.create(t, map[string]any{"employee_code": "E1", "first_name": "A", "department": "Ops", "designation": "Lead"})
	status, env = h.do(t, http.MethodPost, "/employees", h.hr, map[string]any{
		"employee_code": "E1", "first_name": "B", "department": "Ops", "designation": "Lead",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "duplicate_employee_code", env.Error.Code)

	status, _ = h.do(t, http.MethodPost, "/employees", h.staff, map[string]any{"employee_code": "E2"})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = h.do(t, http.MethodPost, "/employees", "", map[string]any{"employee_code": "E2"})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestCompensationWritesNeedPermission(t *testing.T) {
	h := newHarness(t, config.DirectoryAllowlist)

	status, env := h.do(t, http.MethodPost, "/employees", h.clerk, map[string]any{
		"employee_code": "E5", "first_name": "C", "department": "Ops", "designation": "Lead", "bonus": "100",
	})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "forbidden", env.Error.Code)

	status, env = h.do(t, http.MethodPost, "/employees", h.clerk, map[string]any{
		"employee_code": "E5", "first_name": "C", "department": "Ops", "designation": "Lead",
	})
	require.Equal(t, http.StatusCreated, status)
	assert.NotContains(t, decode[map[string]any](t, env), "bonus")
}

func TestManagerResolutionThroughPatch(t *testing.T) {
	h := newHarness(t, config.DirectoryAllowlist)
	manager := h.create(t, map[string]any{"employee_code": "M1", "first_name": "Maya", "last_name": "Iyer", "department": "Ops", "designation": "Head"})
	report := h.create(t, map[string]any{"employee_code": "R1", "first_name": "Ravi", "department": "Ops", "designation": "Analyst"})
	reportID := report["id"].(string)

	status, env := h.do(t, http.MethodPatch, "/employees/"+reportID, h.hr, map[string]any{"reporting_manager": "Maya Iyer"})
	require.Equal(t, http.StatusOK, status, env.Error)
	patched := decode[map[string]any](t, env)
	assert.Equal(t, manager["id"], patched["reporting_manager"])
	assert.Equal(t, "M1", patched["reporting_manager_code"])
	assert.Equal(t, "Maya Iyer", patched["reporting_manager_name"])

	status, env = h.do(t, http.MethodPatch, "/employees/"+reportID, h.hr, map[string]any{"reporting_manager": "Nobody Here"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env.fields(), "reporting_manager")

	status, env = h.do(t, http.MethodPatch, "/employees/"+reportID, h.hr, map[string]any{"reporting_manager": ""})
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decode[map[string]any](t, env)["reporting_manager"])

	events, err := h.trail.List(context.Background(), audit.Filter{Action: "employee.update", EntityID: reportID}, false, 10, 0)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "hr-1", events[0].ActorID)
	assert.Equal(t, "employee.update", events[0].Action)
}

func TestAnonymousDirectoryAccess(t *testing.T) {
	h := newHarness(t, config.DirectoryAllowlist)
	h.create(t, map[string]any{"employee_code": "E1", "first_name": "Asha", "department": "Engineering", "designation": "Dev", "annual_ctc": "900000"})
	h.create(t, map[string]any{"employee_code": "E2", "first_name": "Bilal", "department": "Sales", "designation": "Rep"})

	status, _ := h.do(t, http.MethodGet, "/employees", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	status, _ = h.do(t, http.MethodGet, "/employees?limit=5", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	status, _ = h.do(t, http.MethodGet, "/employees?department=Engineering&debug=1", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, env := h.do(t, http.MethodGet, "/employees?department=Engineering", "", nil)
	require.Equal(t, http.StatusOK, status)
	rows := decode[[]map[string]any](t, env)
	require.Len(t, rows, 1)
	assert.Equal(t, "E1", rows[0]["employee_code"])
	assert.NotContains(t, rows[0], "annual_ctc")

	status, env = h.do(t, http.MethodGet, "/employees?query=bil", h.hr, nil)
	require.Equal(t, http.StatusOK, status)
	rows = decode[[]map[string]any](t, env)
	require.Len(t, rows, 1)
	assert.Equal(t, "E2", rows[0]["employee_code"])

	status, env = h.do(t, http.MethodGet, "/employees?limit=abc", h.hr, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env.fields(), "limit")

	off := newHarness(t, config.DirectoryOff)
	status, _ = off.do(t, http.MethodGet, "/employees?department=Engineering", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestSections(t *testing.T) {
	h := newHarness(t, config.DirectoryAllowlist)
	emp := h.create(t, map[string]any{
		"employee_code": "E1", "first_name": "Asha", "department": "Ops", "designation": "Dev",
		"date_of_birth": "1990-05-01", "basic_pay": "40000",
	})
	id := emp["id"].(string)

	status, env := h.do(t, http.MethodGet, "/employees/"+id+"/overview", h.hr, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "1990-05-01", decode[map[string]any](t, env)["date_of_birth"])

	status, env = h.do(t, http.MethodGet, "/employees/"+id+"/overview", h.staff, nil)
	require.Equal(t, http.StatusOK, status)
	assert.NotContains(t, decode[map[string]any](t, env), "date_of_birth")

	status, _ = h.do(t, http.MethodGet, "/employees/"+id+"/salary", h.staff, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, env = h.do(t, http.MethodGet, "/employees/"+id+"/salary", h.hr, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "40000", decode[map[string]any](t, env)["basic_pay"])

	status, env = h.do(t, http.MethodPatch, "/employees/"+id+"/job", h.hr, map[string]any{"designation": "Senior Dev"})
	require.Equal(t, http.StatusOK, status, env.Error)
	assert.Equal(t, "Senior Dev", decode[map[string]any](t, env)["designation"])

	status, env = h.do(t, http.MethodPatch, "/employees/"+id+"/overview", h.hr, map[string]any{"designation": "CEO"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env.fields(), "designation")
}

func TestLifecycleOperations(t *testing.T) {
	h := newHarness(t, config.DirectoryAllowlist)
	emp := h.create(t, map[string]any{"employee_code": "E7", "first_name": "Lena", "last_name": "Das", "department": "Ops", "designation": "Lead"})
	id := emp["id"].(string)

	status, env := h.do(t, http.MethodPost, "/employees/"+id+"/deactivate", h.hr, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, employee.StatusInactive, decode[map[string]any](t, env)["status"])

	status, env = h.do(t, http.MethodGet, "/employees/"+id+"/final-settlement", h.hr, nil)
	require.Equal(t, http.StatusOK, status)
	settlement := decode[map[string]any](t, env)
	assert.Equal(t, "80000", settlement["total_payable"])
	assert.Equal(t, "Lena Das", settlement["employee_name"])

	status, _ = h.do(t, http.MethodGet, "/employees/"+id+"/final-settlement", h.staff, nil)
	assert.Equal(t, http.StatusForbidden, status)

	rec := h.raw(t, httptest.NewRequest(http.MethodGet, "/api/v1/employees/"+id+"/salary-slip/download", nil), h.hr)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))

	status, env = h.do(t, http.MethodGet, "/employees/stats", h.hr, nil)
	require.Equal(t, http.StatusOK, status)
	stats := decode[employee.Stats](t, env)
	assert.Equal(t, 1, stats.TotalEmployees)
	assert.Equal(t, 1, stats.Inactive)

	status, env = h.do(t, http.MethodGet, "/employees/filter/departments", h.hr, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []any{"Ops"}, decode[map[string]any](t, env)["values"])

	status, _ = h.do(t, http.MethodGet, "/employees/filter/colours", h.hr, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = h.do(t, http.MethodDelete, "/employees/"+id, h.hr, nil)
	require.Equal(t, http.StatusOK, status)
	status, _ = h.do(t, http.MethodGet, "/employees/"+id, h.hr, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func bulkCSV() []byte {
	return []byte(strings.Join([]string{
		"employee_code,first_name,department,designation,email",
		"E201,Ravi,Sales,Rep,ravi@example.com",
		",NoCode,Sales,Rep,",
		"E202,Mina,Sales,Rep,not-an-email",
		"E203,Omar,Sales,Rep,",
	}, "\n"))
}

func TestBulkUploadWithIdempotency(t *testing.T) {
	h := newHarness(t, config.DirectoryAllowlist)
	send := func(content []byte, key string) *httptest.ResponseRecorder {
		req := multipartRequest(t, "/employees/bulk-upload", nil, upload{field: "file", fileName: "people.csv", contentType: "text/csv", content: content})
		if key != "" {
			req.Header.Set("Idempotency-Key", key)
		}
		return h.raw(t, req, h.hr)
	}

	rec := send(bulkCSV(), "import-1")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	result := decode[exchange.Result](t, env)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 0, result.Updated)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, 2, result.Errors[0].Row)
	assert.Equal(t, 3, result.Errors[1].Row)

	rec = send(bulkCSV(), "import-1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "true", rec.Header().Get("Idempotent-Replay"))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, result, decode[exchange.Result](t, env))

	rec = send([]byte("employee_code,first_name,department,designation\nE300,X,Y,Z"), "import-1")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = send(bulkCSV(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	again := decode[exchange.Result](t, env)
	assert.Equal(t, 0, again.Created)
	assert.Equal(t, 2, again.Updated)

	status, env := h.do(t, http.MethodGet, "/employees?department=Sales", h.hr, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]map[string]any](t, env), 2)

	events, err := h.trail.List(context.Background(), audit.Filter{Action: "employee.import"}, true, 10, 0)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestBulkUploadGuards(t *testing.T) {
	h := newHarness(t, config.DirectoryAllowlist)

	req := multipartRequest(t, "/employees/bulk-upload", nil, upload{
		field: "file", fileName: "pay.csv", contentType: "text/csv",
		content: []byte("employee_code,first_name,department,designation,annual_ctc\nE1,A,B,C,100"),
	})
	rec := h.raw(t, req, h.clerk)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = multipartRequest(t, "/employees/bulk-upload", map[string]string{"format": "xlsx"}, upload{
		field: "file", fileName: "people.csv", contentType: "text/csv", content: bulkCSV(),
	})
	rec = h.raw(t, req, h.hr)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = multipartRequest(t, "/employees/bulk-upload", nil, upload{
		field: "attachment", fileName: "people.csv", contentType: "text/csv", content: bulkCSV(),
	})
	rec = h.raw(t, req, h.hr)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = multipartRequest(t, "/employees/bulk-upload", nil, upload{
		field: "file", fileName: "people.csv", contentType: "text/csv", content: bulkCSV(),
	})
	rec = h.raw(t, req, h.staff)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestExport(t *testing.T) {
	h := newHarness(t, config.DirectoryAllowlist)
	first := h.create(t, map[string]any{"employee_code": "E1", "first_name": "Asha", "department": "Ops", "designation": "Dev", "annual_ctc": "1000"})
	h.create(t, map[string]any{"employee_code": "E2", "first_name": "Bilal", "department": "Ops", "designation": "Dev"})

	rec := h.raw(t, httptest.NewRequest(http.MethodGet, "/api/v1/employees/export", nil), h.hr)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, exchange.ContentType(exchange.FormatCSV), rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "employees-20250331.csv")
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(employee.Fields, ","), strings.TrimSpace(lines[0]))

	rec = h.raw(t, httptest.NewRequest(http.MethodGet, "/api/v1/employees/export?format=xlsx", nil), h.hr)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, exchange.ContentType(exchange.FormatXLSX), rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))

	status, env := h.do(t, http.MethodGet, "/employees/export?format=pdf", h.hr, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env.fields(), "format")

	body, err := json.Marshal(map[string]any{"ids": []string{first["id"].(string)}})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/employees/bulk-export", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec = h.raw(t, req, h.hr)
	require.Equal(t, http.StatusOK, rec.Code)
	lines = strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "E1,"))

	status, env = h.do(t, http.MethodPost, "/employees/bulk-export", h.hr, map[string]any{"ids": []string{}})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env.fields(), "ids")

	status, _ = h.do(t, http.MethodGet, "/employees/export", h.clerk, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestBulkDeletePurgesFiles(t *testing.T) {
	h := newHarness(t, config.DirectoryAllowlist)
	keep := h.create(t, map[string]any{"employee_code": "K1", "first_name": "Kim", "department": "Ops", "designation": "Dev"})
	drop := h.create(t, map[string]any{"employee_code": "D1", "first_name": "Dan", "department": "Ops", "designation": "Dev"})
	dropID := drop["id"].(string)

	req := multipartRequest(t, "/employees/"+dropID+"/documents/upload", map[string]string{"document_type": documents.TypeResume}, upload{
		field: "file", fileName: "cv.pdf", contentType: "application/pdf", content: []byte("%PDF-1.4 resume"),
	})
	require.Equal(t, http.StatusCreated, h.raw(t, req, h.hr).Code)
	require.Equal(t, 1, countFiles(t, h.filesRoot))

	status, env := h.do(t, http.MethodPost, "/employees/bulk-delete", h.hr, map[string]any{
		"ids": []string{dropID, "00000000-0000-0000-0000-000000000000"},
	})
	require.Equal(t, http.StatusOK, status, env.Error)
	assert.Equal(t, map[string]int{"deleted": 1}, decode[map[string]int](t, env))
	assert.Equal(t, 0, countFiles(t, h.filesRoot))

	status, _ = h.do(t, http.MethodGet, "/employees/"+keep["id"].(string), h.hr, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = h.do(t, http.MethodPost, "/employees/bulk-delete", h.clerk, map[string]any{"ids": []string{keep["id"].(string)}})
	assert.Equal(t, http.StatusForbidden, status)
}

func TestOffboardingEndpoints(t *testing.T) {
	h := newHarness(t, config.DirectoryAllowlist)
	emp := h.create(t, map[string]any{"employee_code": "E9", "first_name": "Omar", "department": "Ops", "designation": "Dev"})
	id := emp["id"].(string)
	request := map[string]any{
		"resignation_date":  "2025-01-10",
		"last_working_date": "2025-02-10",
		"reason_for_exit":   "Relocation",
		"checklist":         fullChecklist(),
	}

	status, env := h.do(t, http.MethodPost, "/employees/"+id+"/offboarding", h.hr, request)
	require.Equal(t, http.StatusCreated, status, env.Error)
	created := decode[offboarding.Offboarding](t, env)
	require.Len(t, created.Checklist, len(offboarding.Items))

	status, env = h.do(t, http.MethodPost, "/employees/"+id+"/offboarding", h.hr, request)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "offboarding_exists", env.Error.Code)

	other := h.create(t, map[string]any{"employee_code": "E10", "first_name": "Pia", "department": "Ops", "designation": "Dev"})
	bad := map[string]any{
		"resignation_date":  "2025-03-10",
		"last_working_date": "2025-02-10",
		"checklist":         map[string]string{"PARKING_PASS": "PENDING"},
	}
	status, env = h.do(t, http.MethodPost, "/employees/"+other["id"].(string)+"/offboarding", h.hr, bad)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env.fields(), "last_working_date")
	assert.Contains(t, env.fields(), "checklist.PARKING_PASS")

	status, env = h.do(t, http.MethodGet, "/employees/"+id+"/offboarding", h.hr, nil)
	require.Equal(t, http.StatusOK, status)
	fetched := decode[offboarding.Offboarding](t, env)
	assert.Equal(t, "Relocation", fetched.ReasonForExit)

	itemID := fetched.Checklist[0].ID
	status, env = h.do(t, http.MethodPatch, "/employees/offboarding/checklist/"+itemID, h.hr, map[string]string{"status": offboarding.StatusSubmitted})
	require.Equal(t, http.StatusOK, status, env.Error)
	assert.Equal(t, offboarding.StatusSubmitted, decode[offboarding.ChecklistItem](t, env).Status)

	status, env = h.do(t, http.MethodPatch, "/employees/offboarding/checklist/"+itemID, h.hr, map[string]string{"status": "DONE"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = h.do(t, http.MethodGet, "/employees/offboarding/checklist/"+itemID, h.hr, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, offboarding.StatusSubmitted, decode[offboarding.ChecklistItem](t, env).Status)

	replaced := fullChecklist()
	for key := range replaced {
		replaced[key] = offboarding.StatusSubmitted
	}
	status, env = h.do(t, http.MethodPut, "/employees/"+id+"/offboarding/checklist", h.hr, map[string]any{"checklist": replaced})
	require.Equal(t, http.StatusOK, status, env.Error)
	for _, item := range decode[[]offboarding.ChecklistItem](t, env) {
		assert.Equal(t, offboarding.StatusSubmitted, item.Status)
	}

	status, _ = h.do(t, http.MethodGet, "/employees/offboarding/checklist/00000000-0000-0000-0000-000000000000", h.hr, nil)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = h.do(t, http.MethodGet, "/employees/"+id+"/offboarding", h.staff, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestDocumentsAndPhoto(t *testing.T) {
	h := newHarness(t, config.DirectoryAllowlist)
	emp := h.create(t, map[string]any{"employee_code": "E4", "first_name": "Sara", "department": "Ops", "designation": "Dev"})
	id := emp["id"].(string)

	req := multipartRequest(t, "/employees/"+id+"/documents/upload", map[string]string{"document_type": documents.TypeIDProof}, upload{
		field: "file", fileName: "passport scan.pdf", contentType: "application/pdf", content: []byte("%PDF-1.4 passport"),
	})
	rec := h.raw(t, req, h.hr)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	req = multipartRequest(t, "/employees/"+id+"/documents/upload", map[string]string{"document_type": "TAX_FORM"}, upload{
		field: "file", fileName: "tax.pdf", contentType: "application/pdf", content: []byte("x"),
	})
	assert.Equal(t, http.StatusBadRequest, h.raw(t, req, h.hr).Code)

	status, env := h.do(t, http.MethodGet, "/employees/"+id+"/documents", h.staff, nil)
	require.Equal(t, http.StatusOK, status)
	docs := decode[[]documents.Document](t, env)
	require.Len(t, docs, 1)
	assert.Equal(t, "/api/v1/employees/"+id+"/documents/download/ID_PROOF", docs[0].URL)
	require.NotNil(t, docs[0].Size)
	assert.EqualValues(t, len("%PDF-1.4 passport"), *docs[0].Size)

	rec = h.raw(t, httptest.NewRequest(http.MethodGet, "/api/v1/employees/"+id+"/documents/download/ID_PROOF", nil), h.staff)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	assert.Equal(t, "%PDF-1.4 passport", rec.Body.String())

	status, _ = h.do(t, http.MethodGet, "/employees/"+id+"/documents/download/RESUME", h.hr, nil)
	assert.Equal(t, http.StatusNotFound, status)

	req = multipartRequest(t, "/employees/"+id+"/documents/upload", map[string]string{"document_type": "RESUME"}, upload{
		field: "file", fileName: "resume.pdf", contentType: "application/pdf", content: []byte("<html><script>alert(1)</script></html>"),
	})
	require.Equal(t, http.StatusCreated, h.raw(t, req, h.hr).Code)
	rec = h.raw(t, httptest.NewRequest(http.MethodGet, "/api/v1/employees/"+id+"/documents/download/RESUME", nil), h.staff)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/octet-stream", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")

	req = multipartRequest(t, "/employees/"+id+"/photo", nil, upload{
		field: "photo", fileName: "notes.txt", contentType: "text/plain", content: []byte("hello"),
	})
	assert.Equal(t, http.StatusBadRequest, h.raw(t, req, h.hr).Code)

	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	req = multipartRequest(t, "/employees/"+id+"/photo", nil, upload{
		field: "photo", fileName: "me.png", contentType: "image/png", content: png,
	})
	rec = h.raw(t, req, h.hr)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = h.raw(t, httptest.NewRequest(http.MethodGet, "/api/v1/employees/"+id+"/photo", nil), h.staff)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, png, rec.Body.Bytes())
}
