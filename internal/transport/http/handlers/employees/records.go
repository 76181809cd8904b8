package employeehandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/auth"
	"hrms/internal/domain/employee"
	"hrms/internal/domain/salaryslip"
	"hrms/internal/domain/validation"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

func (h *Handler) present(r *http.Request, emp employee.Employee) employee.Employee {
	employee.FilterEmployeeFields(&emp, h.can(r, auth.PermCompensationRead))
	return emp
}

// guardCompensation answers 403 when the payload writes pay fields the caller
// may not change.
func (h *Handler) guardCompensation(w http.ResponseWriter, r *http.Request, p employee.Patch) bool {
	if employee.TouchesCompensation(p) && !h.can(r, auth.PermCompensationWrite) {
		api.Fail(w, http.StatusForbidden, "forbidden", "compensation fields require additional permission", middleware.GetRequestID(r.Context()))
		return false
	}
	return true
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	v := validation.New()
	query := employee.Query{
		Search:     q.Get("search"),
		Department: q.Get("department"),
		Status:     q.Get("status"),
		Location:   q.Get("location"),
		Sort:       q.Get("sort"),
		Limit:      shared.QueryInt(r, v, "limit"),
		Offset:     shared.QueryInt(r, v, "offset"),
	}
	if query.Search == "" {
		query.Search = q.Get("query")
	}
	if err := v.Err(); err != nil {
		shared.WriteError(w, r, err)
		return
	}

	records, err := h.Employees.List(r.Context(), query)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	sensitive := h.can(r, auth.PermCompensationRead)
	for i := range records {
		employee.FilterEmployeeFields(&records[i], sensitive)
	}
	api.Success(w, records, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	patch, ok := shared.DecodePatch(w, r)
	if !ok || !h.guardCompensation(w, r, patch) {
		return
	}
	emp, err := h.Employees.Create(r.Context(), patch)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.Audit(r, h.Audit, "employee.create", "employee", emp.ID, nil, emp)
	api.Created(w, h.present(r, emp), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Employees.Get(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, h.present(r, emp), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleReplace(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, true)
}

func (h *Handler) handlePatch(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, false)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request, full bool) {
	patch, ok := shared.DecodePatch(w, r)
	if !ok || !h.guardCompensation(w, r, patch) {
		return
	}
	id := chi.URLParam(r, "employeeID")
	before, err := h.Employees.Get(r.Context(), id)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	emp, err := h.Employees.Update(r.Context(), id, patch, full)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.Audit(r, h.Audit, "employee.update", "employee", emp.ID, before, emp)
	api.Success(w, h.present(r, emp), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "employeeID")
	before, err := h.Employees.Get(r.Context(), id)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	keys, err := h.Documents.FilesOf(r.Context(), []string{id})
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	if err := h.Employees.Delete(r.Context(), id); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	h.Documents.Purge(r.Context(), keys)
	shared.Audit(r, h.Audit, "employee.delete", "employee", id, before, nil)
	api.Success(w, map[string]string{"status": "deleted", "id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetSection(section string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sensitive := h.can(r, auth.PermCompensationRead)
		if section == employee.SectionSalary && !sensitive {
			api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", middleware.GetRequestID(r.Context()))
			return
		}
		view, err := h.Employees.Section(r.Context(), chi.URLParam(r, "employeeID"), section)
		if err != nil {
			shared.WriteError(w, r, err)
			return
		}
		if !sensitive {
			delete(view, employee.FieldDateOfBirth)
		}
		api.Success(w, view, middleware.GetRequestID(r.Context()))
	}
}

func (h *Handler) handlePatchSection(section string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patch, ok := shared.DecodePatch(w, r)
		if !ok || !h.guardCompensation(w, r, patch) {
			return
		}
		id := chi.URLParam(r, "employeeID")
		before, err := h.Employees.Get(r.Context(), id)
		if err != nil {
			shared.WriteError(w, r, err)
			return
		}
		emp, err := h.Employees.UpdateSection(r.Context(), id, section, patch)
		if err != nil {
			shared.WriteError(w, r, err)
			return
		}
		shared.Audit(r, h.Audit, "employee.update."+section, "employee", emp.ID, before, emp)
		view, err := employee.Project(emp, section)
		if err != nil {
			shared.WriteError(w, r, err)
			return
		}
		if !h.can(r, auth.PermCompensationRead) {
			delete(view, employee.FieldDateOfBirth)
		}
		api.Success(w, view, middleware.GetRequestID(r.Context()))
	}
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Employees.Stats(r.Context())
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, stats, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleFilterValues(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	values, err := h.Employees.FilterValues(r.Context(), category)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, map[string]any{"category": category, "values": values}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Employees.Deactivate(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.Audit(r, h.Audit, "employee.deactivate", "employee", emp.ID, nil, map[string]string{"status": emp.Status})
	api.Success(w, h.present(r, emp), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleFinalSettlement(w http.ResponseWriter, r *http.Request) {
	settlement, err := h.Employees.FinalSettlement(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, settlement, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSalarySlip(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Employees.Get(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	pdf, err := salaryslip.Render(emp, h.now())
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.Audit(r, h.Audit, "employee.salary_slip.download", "employee", emp.ID, nil, nil)
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+salaryslip.FileName(emp)+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		h.logger().Warn("salary slip write failed", "employee_id", emp.ID, "err", err)
	}
}
