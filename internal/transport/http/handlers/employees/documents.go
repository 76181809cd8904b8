package employeehandler

import (
	"errors"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type multipartFile struct {
	multipart.File
	name        string
	contentType string
}

// formFile answers the request itself when the multipart field is missing.
func formFile(w http.ResponseWriter, r *http.Request, field string) (*multipartFile, bool) {
	file, header, err := r.FormFile(field)
	if err != nil {
		requestID := middleware.GetRequestID(r.Context())
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			api.Fail(w, http.StatusRequestEntityTooLarge, "payload_too_large", "upload too large", requestID)
			return nil, false
		}
		shared.FailField(w, requestID, field, "is required")
		return nil, false
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return &multipartFile{File: file, name: header.Filename, contentType: contentType}, true
}

func (h *Handler) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	upload, ok := formFile(w, r, "file")
	if !ok {
		return
	}
	defer upload.Close()

	employeeID := chi.URLParam(r, "employeeID")
	doc, err := h.Documents.Upload(r.Context(), employeeID, r.FormValue("document_type"), upload.name, upload.contentType, upload)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.Audit(r, h.Audit, "document.upload", "employee", employeeID, nil, doc)
	api.Created(w, doc, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.Documents.List(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, docs, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDownloadDocument(w http.ResponseWriter, r *http.Request) {
	doc, data, err := h.Documents.Download(r.Context(), chi.URLParam(r, "employeeID"), chi.URLParam(r, "documentType"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", downloadType(data))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.FileName}))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger().Warn("document write failed", "document_id", doc.ID, "err", err)
	}
}

func (h *Handler) handleUploadPhoto(w http.ResponseWriter, r *http.Request) {
	upload, ok := formFile(w, r, "photo")
	if !ok {
		return
	}
	defer upload.Close()

	emp, err := h.Documents.UploadPhoto(r.Context(), chi.URLParam(r, "employeeID"), upload.name, upload.contentType, upload)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.Audit(r, h.Audit, "employee.photo.upload", "employee", emp.ID, nil, map[string]string{"photo": emp.Photo})
	api.Success(w, h.present(r, emp), middleware.GetRequestID(r.Context()))
}

// downloadType sniffs the stored bytes instead of trusting the uploader's
// header. Markup is never served as renderable content.
func downloadType(data []byte) string {
	detected := http.DetectContentType(data)
	media, _, _ := mime.ParseMediaType(detected)
	switch media {
	case "text/html", "text/xml", "image/svg+xml":
		return "application/octet-stream"
	}
	return detected
}

func (h *Handler) handleGetPhoto(w http.ResponseWriter, r *http.Request) {
	data, err := h.Documents.Photo(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger().Warn("photo write failed", "err", err)
	}
}
