package documents

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"hrms/internal/domain/employee"
	"hrms/internal/domain/validation"
	"hrms/internal/platform/storage"
)

// Employees is the part of the lifecycle service documents depend on.
type Employees interface {
	Get(ctx context.Context, id string) (employee.Employee, error)
	SetPhoto(ctx context.Context, id, ref string) (employee.Employee, error)
}

type Service struct {
	store     StoreAPI
	blobs     Blobs
	employees Employees
	urlPrefix string
	logger    *slog.Logger
}

func NewService(store StoreAPI, blobs Blobs, employees Employees, urlPrefix string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, blobs: blobs, employees: employees, urlPrefix: strings.TrimSuffix(urlPrefix, "/"), logger: logger}
}

// Upload stores a file for (employee, type), replacing any earlier file of
// the same type.
func (s *Service) Upload(ctx context.Context, employeeID, documentType, fileName, contentType string, r io.Reader) (Document, error) {
	v := validation.New()
	v.Required("document_type", documentType)
	v.Enum("document_type", documentType, Types)
	v.Required("file", fileName)
	if err := v.Err(); err != nil {
		return Document{}, err
	}
	if _, err := s.employees.Get(ctx, employeeID); err != nil {
		return Document{}, err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	name := storage.SafeName(fileName)
	key := fmt.Sprintf("documents/%s/%s/%s-%s", employeeID, strings.ToLower(documentType), uuid.NewString(), name)
	size, err := s.blobs.Put(ctx, key, r)
	if err != nil {
		return Document{}, err
	}

	doc, previous, err := s.store.Upsert(ctx, Document{
		EmployeeID:   employeeID,
		DocumentType: documentType,
		FileName:     name,
		ContentType:  contentType,
		StorageKey:   key,
	})
	if err != nil {
		s.discard(ctx, key)
		return Document{}, err
	}
	if previous != "" && previous != key {
		s.discard(ctx, previous)
	}
	doc.Size = &size
	doc.URL = s.url(doc)
	s.logger.Info("document uploaded", "employee_id", employeeID, "document_type", documentType, "bytes", size)
	return doc, nil
}

func (s *Service) discard(ctx context.Context, key string) {
	if err := s.blobs.Delete(ctx, key); err != nil {
		s.logger.Warn("stored file cleanup failed", "key", key, "err", err)
	}
}

func (s *Service) url(doc Document) string {
	return fmt.Sprintf("%s/employees/%s/documents/download/%s", s.urlPrefix, doc.EmployeeID, doc.DocumentType)
}

// List returns the documents of an employee. A file that cannot be inspected
// is listed with a nil size instead of failing the whole listing.
func (s *Service) List(ctx context.Context, employeeID string) ([]Document, error) {
	if _, err := s.employees.Get(ctx, employeeID); err != nil {
		return nil, err
	}
	docs, err := s.store.List(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	for i := range docs {
		docs[i].URL = s.url(docs[i])
		size, err := s.blobs.Size(ctx, docs[i].StorageKey)
		if err != nil {
			s.logger.Warn("document size lookup failed", "document_id", docs[i].ID, "err", err)
			continue
		}
		docs[i].Size = &size
	}
	return docs, nil
}

// Download returns the document row and the file contents.
func (s *Service) Download(ctx context.Context, employeeID, documentType string) (Document, []byte, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return Document{}, nil, ErrNotFound
	}
	doc, err := s.store.Get(ctx, employeeID, documentType)
	if err != nil {
		return Document{}, nil, err
	}
	data, err := s.blobs.Get(ctx, doc.StorageKey)
	if errors.Is(err, storage.ErrNotFound) {
		return Document{}, nil, ErrFileMissing
	}
	if err != nil {
		return Document{}, nil, err
	}
	return doc, data, nil
}

// UploadPhoto stores an image and points the employee record at it.
func (s *Service) UploadPhoto(ctx context.Context, employeeID, fileName, contentType string, r io.Reader) (employee.Employee, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return employee.Employee{}, validation.Field("photo", ErrNotAnImage.Error())
	}
	current, err := s.employees.Get(ctx, employeeID)
	if err != nil {
		return employee.Employee{}, err
	}
	key := fmt.Sprintf("photos/%s/%s-%s", employeeID, uuid.NewString(), storage.SafeName(fileName))
	if _, err := s.blobs.Put(ctx, key, r); err != nil {
		return employee.Employee{}, err
	}
	updated, err := s.employees.SetPhoto(ctx, employeeID, key)
	if err != nil {
		s.discard(ctx, key)
		return employee.Employee{}, err
	}
	if current.Photo != "" && current.Photo != key {
		s.discard(ctx, current.Photo)
	}
	return updated, nil
}

// Photo returns the stored photo of an employee.
func (s *Service) Photo(ctx context.Context, employeeID string) ([]byte, error) {
	emp, err := s.employees.Get(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if emp.Photo == "" {
		return nil, ErrNotFound
	}
	data, err := s.blobs.Get(ctx, emp.Photo)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrFileMissing
	}
	return data, err
}

// FilesOf collects the storage keys owned by the given employees, documents
// and photos alike. Call it before the rows are deleted.
func (s *Service) FilesOf(ctx context.Context, employeeIDs []string) ([]string, error) {
	keys, err := s.store.StorageKeys(ctx, employeeIDs)
	if err != nil {
		return nil, err
	}
	for _, id := range employeeIDs {
		emp, err := s.employees.Get(ctx, id)
		if errors.Is(err, employee.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if emp.Photo != "" {
			keys = append(keys, emp.Photo)
		}
	}
	return keys, nil
}

// Purge removes stored files. Failures are logged and skipped.
func (s *Service) Purge(ctx context.Context, keys []string) {
	for _, key := range keys {
		s.discard(ctx, key)
	}
}
