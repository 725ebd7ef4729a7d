package store

import (
	"context"

	"github.com/seantiz/catsapi/internal/model"
)

// Store defines the persistence operations for cats.
type Store interface {
	CreateCat(ctx context.Context, c *model.Cat) error
	GetCat(ctx context.Context, id int64) (*model.Cat, error)
	ListCats(ctx context.Context, limit, offset int) ([]*model.Cat, int, error)
	Ping(ctx context.Context) error
	Close() error
}
