package catalog

import "context"

type Repository interface {
	Insert(ctx context.Context, product *Product) error
	Get(ctx context.Context, id string) (*Product, error)
	Delete(ctx context.Context, id string) error
}
