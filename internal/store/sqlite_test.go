package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/seantiz/catsapi/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(MemoryPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func makeTestCat(name string) *model.Cat {
	return &model.Cat{
		Name:      name,
		Age:       3,
		Breed:     "Siamese",
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestCreateAndGetCat(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	c := makeTestCat("Tom")

	if err := s.CreateCat(ctx, c); err != nil {
		t.Fatalf("CreateCat: %v", err)
	}
	if c.ID == 0 {
		t.Fatal("CreateCat did not assign an ID")
	}

	got, err := s.GetCat(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetCat: %v", err)
	}

	if got.Name != c.Name {
		t.Errorf("Name = %q, want %q", got.Name, c.Name)
	}
	if got.Age != c.Age {
		t.Errorf("Age = %d, want %d", got.Age, c.Age)
	}
	if got.Breed != c.Breed {
		t.Errorf("Breed = %q, want %q", got.Breed, c.Breed)
	}
	if !got.CreatedAt.Equal(c.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, c.CreatedAt)
	}
}

func TestCreateCatAssignsSequentialIDs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var prev int64
	for i := 0; i < 3; i++ {
		c := makeTestCat(fmt.Sprintf("cat-%d", i))
		if err := s.CreateCat(ctx, c); err != nil {
			t.Fatalf("CreateCat[%d]: %v", i, err)
		}
		if c.ID <= prev {
			t.Errorf("ID[%d] = %d, want > %d", i, c.ID, prev)
		}
		prev = c.ID
	}
}

func TestGetCatNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetCat(context.Background(), 999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListCatsPagination(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := s.CreateCat(ctx, makeTestCat(fmt.Sprintf("cat-%d", i))); err != nil {
			t.Fatalf("CreateCat[%d]: %v", i, err)
		}
	}

	cats, total, err := s.ListCats(ctx, 3, 0)
	if err != nil {
		t.Fatalf("ListCats: %v", err)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if len(cats) != 3 {
		t.Errorf("len(cats) = %d, want 3", len(cats))
	}

	cats2, _, err := s.ListCats(ctx, 3, 3)
	if err != nil {
		t.Fatalf("ListCats page 2: %v", err)
	}
	if len(cats2) != 2 {
		t.Errorf("len(cats) page 2 = %d, want 2", len(cats2))
	}
}

func TestListCatsInsertionOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	names := []string{"Tom", "Felix", "Garfield"}
	for _, n := range names {
		if err := s.CreateCat(ctx, makeTestCat(n)); err != nil {
			t.Fatalf("CreateCat(%s): %v", n, err)
		}
	}

	cats, _, err := s.ListCats(ctx, 10, 0)
	if err != nil {
		t.Fatalf("ListCats: %v", err)
	}
	for i, c := range cats {
		if c.Name != names[i] {
			t.Errorf("cats[%d].Name = %q, want %q", i, c.Name, names[i])
		}
	}
}

func TestListCatsEmpty(t *testing.T) {
	s := newTestStore(t)

	cats, total, err := s.ListCats(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("ListCats: %v", err)
	}
	if total != 0 {
		t.Errorf("total = %d, want 0", total)
	}
	if cats != nil {
		t.Errorf("cats = %v, want nil", cats)
	}
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cats.db")
	ctx := context.Background()

	s1, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	c := makeTestCat("Tom")
	if err := s1.CreateCat(ctx, c); err != nil {
		t.Fatalf("CreateCat: %v", err)
	}
	s1.Close()

	s2, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer s2.Close()

	got, err := s2.GetCat(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetCat after reopen: %v", err)
	}
	if got.Name != "Tom" {
		t.Errorf("Name = %q, want %q", got.Name, "Tom")
	}
}

func TestMigrationIdempotency(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.db.Exec(createCatsTable); err != nil {
		t.Fatalf("second migration: %v", err)
	}
}
