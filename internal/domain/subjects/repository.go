package subjects

import "context"

type Repository interface {
	Create(ctx context.Context, s Subject) error
	GetByID(ctx context.Context, id string) (Subject, error)
	List(ctx context.Context) ([]Subject, error)
}
