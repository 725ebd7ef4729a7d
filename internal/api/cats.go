package api

import (
	"net/http"

	"github.com/seantiz/catsapi/internal/cats"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

func (s *Server) createCat(r *http.Request) (any, error) {
	in, err := decodeBody[cats.CreateCat](r)
	if err != nil {
		return nil, err
	}
	return s.cats.Create(r.Context(), in)
}

func (s *Server) findAllCats(r *http.Request) (any, error) {
	limit := parseIntQuery(r, "limit", defaultListLimit)
	offset := parseIntQuery(r, "offset", 0)

	if limit <= 0 || limit > maxListLimit {
		limit = defaultListLimit
	}
	if offset < 0 {
		offset = 0
	}

	return s.cats.FindAll(r.Context(), limit, offset)
}

func (s *Server) findOneCat(r *http.Request) (any, error) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		return nil, err
	}
	return s.cats.FindOne(r.Context(), id)
}

// forbiddenCats always refuses.
func (s *Server) forbiddenCats(*http.Request) (any, error) {
	return nil, errForbidden()
}
