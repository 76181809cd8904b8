package employeehandler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/audit"
	"hrms/internal/domain/auth"
	"hrms/internal/domain/documents"
	"hrms/internal/domain/employee"
	"hrms/internal/domain/exchange"
	"hrms/internal/domain/offboarding"
	"hrms/internal/transport/http/middleware"
)

type Handler struct {
	Employees       *employee.Service
	Exchange        *exchange.Service
	Offboarding     *offboarding.Service
	Documents       *documents.Service
	Perms           middleware.PermissionStore
	Audit           audit.Trail
	Idempotency     middleware.Idempotency
	DirectoryPolicy string
	Logger          *slog.Logger
	Now             func() time.Time
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *Handler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *Handler) can(r *http.Request, permission string) bool {
	return middleware.Can(r, h.Perms, permission)
}

func (h *Handler) require(permissions ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		for i := len(permissions) - 1; i >= 0; i-- {
			next = middleware.RequirePermission(permissions[i], h.Perms)(next)
		}
		return next
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.With(middleware.Directory(h.DirectoryPolicy, h.Perms)).Get("/", h.handleList)
		r.With(h.require(auth.PermEmployeesWrite)).Post("/", h.handleCreate)
		r.With(h.require(auth.PermEmployeesRead)).Get("/stats", h.handleStats)
		r.With(h.require(auth.PermEmployeesRead)).Get("/filter/{category}", h.handleFilterValues)

		r.With(h.require(auth.PermEmployeesExport, auth.PermCompensationRead)).Get("/export", h.handleExport)
		r.With(h.require(auth.PermEmployeesExport, auth.PermCompensationRead)).Post("/bulk-export", h.handleBulkExport)
		r.With(h.require(auth.PermEmployeesImport)).Post("/bulk-upload", h.handleBulkUpload)
		r.With(h.require(auth.PermEmployeesDelete)).Post("/bulk-delete", h.handleBulkDelete)

		r.With(h.require(auth.PermOffboardingRead)).Get("/offboarding/checklist/{itemID}", h.handleGetChecklistItem)
		r.With(h.require(auth.PermOffboardingWrite)).Patch("/offboarding/checklist/{itemID}", h.handleUpdateChecklistItem)

		r.Route("/{employeeID}", func(r chi.Router) {
			r.With(h.require(auth.PermEmployeesRead)).Get("/", h.handleGet)
			r.With(h.require(auth.PermEmployeesWrite)).Put("/", h.handleReplace)
			r.With(h.require(auth.PermEmployeesWrite)).Patch("/", h.handlePatch)
			r.With(h.require(auth.PermEmployeesDelete)).Delete("/", h.handleDelete)

			for _, section := range employee.Sections {
				r.With(h.require(auth.PermEmployeesRead)).Get("/"+section, h.handleGetSection(section))
				r.With(h.require(auth.PermEmployeesWrite)).Patch("/"+section, h.handlePatchSection(section))
			}

			r.With(h.require(auth.PermEmployeesWrite)).Post("/deactivate", h.handleDeactivate)
			r.With(h.require(auth.PermCompensationRead)).Get("/final-settlement", h.handleFinalSettlement)
			r.With(h.require(auth.PermSalarySlipDownload)).Get("/salary-slip/download", h.handleSalarySlip)

			r.With(h.require(auth.PermEmployeesRead)).Get("/photo", h.handleGetPhoto)
			r.With(h.require(auth.PermEmployeesWrite)).Post("/photo", h.handleUploadPhoto)

			r.With(h.require(auth.PermOffboardingWrite)).Post("/offboarding", h.handleCreateOffboarding)
			r.With(h.require(auth.PermOffboardingRead)).Get("/offboarding", h.handleGetOffboarding)
			r.With(h.require(auth.PermOffboardingWrite)).Put("/offboarding/checklist", h.handleReplaceChecklist)

			r.With(h.require(auth.PermDocumentsWrite)).Post("/documents/upload", h.handleUploadDocument)
			r.With(h.require(auth.PermDocumentsRead)).Get("/documents", h.handleListDocuments)
			r.With(h.require(auth.PermDocumentsRead)).Get("/documents/download/{documentType}", h.handleDownloadDocument)
		})
	})
}
