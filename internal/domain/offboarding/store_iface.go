package offboarding

import "context"

type StoreAPI interface {
	// Create writes the offboarding and its checklist together.
	Create(ctx context.Context, off Offboarding, checklist map[string]string) (Offboarding, error)
	GetByEmployee(ctx context.Context, employeeID string) (Offboarding, error)
	// ReplaceChecklist drops every item of the offboarding and writes the given map.
	ReplaceChecklist(ctx context.Context, offboardingID string, checklist map[string]string) ([]ChecklistItem, error)
	GetItem(ctx context.Context, itemID string) (ChecklistItem, error)
	UpdateItemStatus(ctx context.Context, itemID, status string) (ChecklistItem, error)
}
