package offboarding

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrms/internal/domain/employee"
	"hrms/internal/platform/db"
)

const employeeConstraint = "offboardings_employee_id_key"

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{DB: pool}
}

func (s *Store) Create(ctx context.Context, off Offboarding, checklist map[string]string) (Offboarding, error) {
	err := db.WithTx(ctx, s.DB, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, `
      INSERT INTO offboardings (employee_id, resignation_date, last_working_date, reason_for_exit, additional_notes)
      VALUES ($1,$2,$3,$4,$5)
      RETURNING id::text, created_at
    `, off.EmployeeID, dateArg(off.ResignationDate), dateArg(off.LastWorkingDate), off.ReasonForExit, off.AdditionalNotes).Scan(&off.ID, &off.CreatedAt); err != nil {
			return err
		}
		items, err := replaceChecklist(ctx, tx, off.ID, checklist)
		if err != nil {
			return err
		}
		off.Checklist = items
		return nil
	})
	if db.IsUniqueViolation(err, employeeConstraint) {
		return Offboarding{}, ErrExists
	}
	if db.IsForeignKeyViolation(err) {
		return Offboarding{}, employee.ErrNotFound
	}
	if err != nil {
		return Offboarding{}, err
	}
	return off, nil
}

func dateArg(d *employee.Date) *time.Time {
	if d == nil {
		return nil
	}
	return &d.Time
}

func (s *Store) GetByEmployee(ctx context.Context, employeeID string) (Offboarding, error) {
	var off Offboarding
	var resignation, lastDay *time.Time
	err := s.DB.QueryRow(ctx, `
    SELECT id::text, employee_id::text, resignation_date, last_working_date, reason_for_exit, additional_notes, created_at
    FROM offboardings
    WHERE employee_id::text = $1
  `, employeeID).Scan(&off.ID, &off.EmployeeID, &resignation, &lastDay, &off.ReasonForExit, &off.AdditionalNotes, &off.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Offboarding{}, ErrNotFound
	}
	if err != nil {
		return Offboarding{}, err
	}
	if resignation != nil {
		off.ResignationDate = employee.NewDate(*resignation)
	}
	if lastDay != nil {
		off.LastWorkingDate = employee.NewDate(*lastDay)
	}
	off.Checklist, err = listItems(ctx, s.DB, off.ID)
	if err != nil {
		return Offboarding{}, err
	}
	return off, nil
}

func (s *Store) ReplaceChecklist(ctx context.Context, offboardingID string, checklist map[string]string) ([]ChecklistItem, error) {
	var items []ChecklistItem
	err := db.WithTx(ctx, s.DB, func(tx pgx.Tx) error {
		var err error
		items, err = replaceChecklist(ctx, tx, offboardingID, checklist)
		return err
	})
	return items, err
}

func replaceChecklist(ctx context.Context, q db.Querier, offboardingID string, checklist map[string]string) ([]ChecklistItem, error) {
	if _, err := q.Exec(ctx, "DELETE FROM offboarding_checklist_items WHERE offboarding_id::text = $1", offboardingID); err != nil {
		return nil, err
	}
	for _, item := range Items {
		status, ok := checklist[item]
		if !ok {
			continue
		}
		if _, err := q.Exec(ctx, `
      INSERT INTO offboarding_checklist_items (offboarding_id, item, status)
      VALUES ($1,$2,$3)
    `, offboardingID, item, status); err != nil {
			return nil, err
		}
	}
	return listItems(ctx, q, offboardingID)
}

const selectItem = "SELECT id::text, offboarding_id::text, item, status, updated_at FROM offboarding_checklist_items"

func listItems(ctx context.Context, q db.Querier, offboardingID string) ([]ChecklistItem, error) {
	rows, err := q.Query(ctx, selectItem+" WHERE offboarding_id::text = $1", offboardingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []ChecklistItem{}
	for rows.Next() {
		var item ChecklistItem
		if err := rows.Scan(&item.ID, &item.OffboardingID, &item.Item, &item.Status, &item.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sortItems(items)
	return items, nil
}

func scanItem(row pgx.Row) (ChecklistItem, error) {
	var item ChecklistItem
	err := row.Scan(&item.ID, &item.OffboardingID, &item.Item, &item.Status, &item.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ChecklistItem{}, ErrItemNotFound
	}
	return item, err
}

func (s *Store) GetItem(ctx context.Context, itemID string) (ChecklistItem, error) {
	return scanItem(s.DB.QueryRow(ctx, selectItem+" WHERE id::text = $1", itemID))
}

func (s *Store) UpdateItemStatus(ctx context.Context, itemID, status string) (ChecklistItem, error) {
	return scanItem(s.DB.QueryRow(ctx, `
    UPDATE offboarding_checklist_items SET status = $2, updated_at = now()
    WHERE id::text = $1
    RETURNING id::text, offboarding_id::text, item, status, updated_at
  `, itemID, status))
}
