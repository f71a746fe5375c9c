package memory

import (
	"context"
	"slices"
	"strings"

	"rentalstore-backend/internal/domain"

	"github.com/google/uuid"
)

type customerRepository struct{ db *db }

func (r *customerRepository) Create(ctx context.Context, c *domain.Customer) error {
	return r.db.do(ctx, func(st *state) error {
		c.ID = uuid.New()
		st.customers[c.ID] = *c
		return nil
	})
}

func (r *customerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	var out domain.Customer
	err := r.db.do(ctx, func(st *state) error {
		c, ok := st.customers[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *customerRepository) List(ctx context.Context) ([]domain.Customer, error) {
	var out []domain.Customer
	err := r.db.do(ctx, func(st *state) error {
		out = sortedValues(st.customers, func(a, b domain.Customer) int { return strings.Compare(a.Name, b.Name) })
		return nil
	})
	return out, err
}

func (r *customerRepository) Update(ctx context.Context, c *domain.Customer) error {
	return r.db.do(ctx, func(st *state) error {
		if _, ok := st.customers[c.ID]; !ok {
			return domain.ErrNotFound
		}
		st.customers[c.ID] = *c
		return nil
	})
}

func (r *customerRepository) Delete(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	var out domain.Customer
	err := r.db.do(ctx, func(st *state) error {
		c, ok := st.customers[id]
		if !ok {
			return domain.ErrNotFound
		}
		delete(st.customers, id)
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

type genreRepository struct{ db *db }

func (r *genreRepository) Create(ctx context.Context, g *domain.Genre) error {
	return r.db.do(ctx, func(st *state) error {
		g.ID = uuid.New()
		st.genres[g.ID] = *g
		return nil
	})
}

func (r *genreRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Genre, error) {
	var out domain.Genre
	err := r.db.do(ctx, func(st *state) error {
		g, ok := st.genres[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = g
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *genreRepository) List(ctx context.Context) ([]domain.Genre, error) {
	var out []domain.Genre
	err := r.db.do(ctx, func(st *state) error {
		out = sortedValues(st.genres, func(a, b domain.Genre) int { return strings.Compare(a.Name, b.Name) })
		return nil
	})
	return out, err
}

func (r *genreRepository) Update(ctx context.Context, g *domain.Genre) error {
	return r.db.do(ctx, func(st *state) error {
		if _, ok := st.genres[g.ID]; !ok {
			return domain.ErrNotFound
		}
		st.genres[g.ID] = *g
		return nil
	})
}

func (r *genreRepository) Delete(ctx context.Context, id uuid.UUID) (*domain.Genre, error) {
	var out domain.Genre
	err := r.db.do(ctx, func(st *state) error {
		g, ok := st.genres[id]
		if !ok {
			return domain.ErrNotFound
		}
		delete(st.genres, id)
		out = g
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

type movieRepository struct{ db *db }

func (r *movieRepository) Create(ctx context.Context, m *domain.Movie) error {
	return r.db.do(ctx, func(st *state) error {
		m.ID = uuid.New()
		st.movies[m.ID] = *m
		return nil
	})
}

func (r *movieRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Movie, error) {
	var out domain.Movie
	err := r.db.do(ctx, func(st *state) error {
		m, ok := st.movies[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *movieRepository) List(ctx context.Context) ([]domain.Movie, error) {
	var out []domain.Movie
	err := r.db.do(ctx, func(st *state) error {
		out = sortedValues(st.movies, compareTitle)
		return nil
	})
	return out, err
}

func (r *movieRepository) Update(ctx context.Context, m *domain.Movie) error {
	return r.db.do(ctx, func(st *state) error {
		if _, ok := st.movies[m.ID]; !ok {
			return domain.ErrNotFound
		}
		st.movies[m.ID] = *m
		return nil
	})
}

func (r *movieRepository) Delete(ctx context.Context, id uuid.UUID) (*domain.Movie, error) {
	var out domain.Movie
	err := r.db.do(ctx, func(st *state) error {
		m, ok := st.movies[id]
		if !ok {
			return domain.ErrNotFound
		}
		delete(st.movies, id)
		out = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func compareTitle(a, b domain.Movie) int {
	return strings.Compare(a.Title, b.Title)
}

func sortedValues[K comparable, V any](m map[K]V, cmpFn func(a, b V) int) []V {
	out := make([]V, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	slices.SortStableFunc(out, cmpFn)
	return out
}
