package documents

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrms/internal/domain/employee"
	"hrms/internal/platform/db"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{DB: pool}
}

func (s *Store) Upsert(ctx context.Context, doc Document) (Document, string, error) {
	var previous string
	err := s.DB.QueryRow(ctx, `
    WITH prev AS (
      SELECT storage_key FROM employee_documents WHERE employee_id = $1 AND document_type = $2
    )
    INSERT INTO employee_documents (employee_id, document_type, file_name, storage_key, content_type)
    VALUES ($1,$2,$3,$4,$5)
    ON CONFLICT (employee_id, document_type) DO UPDATE
      SET file_name = EXCLUDED.file_name,
          storage_key = EXCLUDED.storage_key,
          content_type = EXCLUDED.content_type,
          uploaded_at = now()
    RETURNING id::text, uploaded_at, COALESCE((SELECT storage_key FROM prev), '')
  `, doc.EmployeeID, doc.DocumentType, doc.FileName, doc.StorageKey, doc.ContentType).Scan(&doc.ID, &doc.UploadedAt, &previous)
	if db.IsForeignKeyViolation(err) {
		return Document{}, "", employee.ErrNotFound
	}
	if err != nil {
		return Document{}, "", err
	}
	return doc, previous, nil
}

const selectDocument = `
  SELECT id::text, employee_id::text, document_type, file_name, storage_key, content_type, uploaded_at
  FROM employee_documents`

func scanDocument(row pgx.Row) (Document, error) {
	var doc Document
	err := row.Scan(&doc.ID, &doc.EmployeeID, &doc.DocumentType, &doc.FileName, &doc.StorageKey, &doc.ContentType, &doc.UploadedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	return doc, err
}

func (s *Store) List(ctx context.Context, employeeID string) ([]Document, error) {
	rows, err := s.DB.Query(ctx, selectDocument+" WHERE employee_id::text = $1 ORDER BY document_type", employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, employeeID, documentType string) (Document, error) {
	return scanDocument(s.DB.QueryRow(ctx, selectDocument+" WHERE employee_id::text = $1 AND document_type = $2", employeeID, documentType))
}

func (s *Store) StorageKeys(ctx context.Context, employeeIDs []string) ([]string, error) {
	rows, err := s.DB.Query(ctx, "SELECT storage_key FROM employee_documents WHERE employee_id::text = ANY($1)", employeeIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	keys := []string{}
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}
