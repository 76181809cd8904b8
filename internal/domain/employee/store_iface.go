package employee

import "context"

type StoreAPI interface {
	Create(ctx context.Context, changes Changes) (Employee, error)
	Get(ctx context.Context, id string) (Employee, error)
	GetByCode(ctx context.Context, code string) (Employee, error)
	Update(ctx context.Context, id string, changes Changes) (Employee, error)
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) (int, error)
	List(ctx context.Context, q Query) ([]Employee, error)
	ListByIDs(ctx context.Context, ids []string) ([]Employee, error)
	FindByName(ctx context.Context, firstName, lastName string) ([]Employee, error)
	Stats(ctx context.Context) (Stats, error)
	Distinct(ctx context.Context, field string) ([]string, error)
}
