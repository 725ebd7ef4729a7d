// Package cats implements the cat catalogue service used by the HTTP
// controllers. The service is constructed explicitly with its store.
package cats

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/seantiz/catsapi/internal/model"
	"github.com/seantiz/catsapi/internal/store"
)

// ErrNotFound is returned when no cat has the requested ID.
var ErrNotFound = errors.New("cat not found")

// CreateCat is the validated input for Create.
type CreateCat struct {
	Name  string `json:"name" validate:"required,min=1,max=64"`
	Age   int    `json:"age" validate:"gte=0,lte=40"`
	Breed string `json:"breed" validate:"required,min=1,max=64"`
}

// Page is a slice of the catalogue together with the total size.
type Page struct {
	Cats   []*model.Cat `json:"cats"`
	Total  int          `json:"total"`
	Limit  int          `json:"limit"`
	Offset int          `json:"offset"`
}

// Service holds the catalogue operations.
type Service struct {
	store  store.Store
	logger *slog.Logger
}

// NewService creates a cats service backed by s.
func NewService(s store.Store, logger *slog.Logger) *Service {
	return &Service{store: s, logger: logger}
}

// Create adds a cat to the catalogue.
func (s *Service) Create(ctx context.Context, in CreateCat) (*model.Cat, error) {
	c := &model.Cat{
		Name:      in.Name,
		Age:       in.Age,
		Breed:     in.Breed,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateCat(ctx, c); err != nil {
		return nil, fmt.Errorf("create cat: %w", err)
	}

	s.logger.Debug("cat created", "cat_id", c.ID, "name", c.Name)
	return c, nil
}

// FindAll returns a page of cats in insertion order.
func (s *Service) FindAll(ctx context.Context, limit, offset int) (*Page, error) {
	list, total, err := s.store.ListCats(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list cats: %w", err)
	}
	if list == nil {
		list = []*model.Cat{}
	}
	return &Page{Cats: list, Total: total, Limit: limit, Offset: offset}, nil
}

// FindOne returns the cat with the given ID or ErrNotFound.
func (s *Service) FindOne(ctx context.Context, id int64) (*model.Cat, error) {
	c, err := s.store.GetCat(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find cat %d: %w", id, err)
	}
	return c, nil
}

// Ready reports whether the backing store can serve requests.
func (s *Service) Ready(ctx context.Context) error {
	if err := s.store.Ping(ctx); err != nil {
		return fmt.Errorf("store unavailable: %w", err)
	}
	return nil
}
