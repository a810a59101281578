package offeringrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/kcesar/training-api/internal/domain"
	"github.com/kcesar/training-api/internal/ports/out/offeringrepo"
)

// Repo is an in-memory implementation of offeringrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu   sync.RWMutex
	byID map[domain.OfferingID]offeringrepo.Offering
}

func NewRepo() *Repo {
	return &Repo{
		byID: make(map[domain.OfferingID]offeringrepo.Offering),
	}
}

func (r *Repo) Create(ctx context.Context, o offeringrepo.Offering) error {
	_ = ctx
	if o.ID == "" {
		return offeringrepo.ErrAlreadyExists // treat empty ID as invalid
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[o.ID]; ok {
		return offeringrepo.ErrAlreadyExists
	}
	r.byID[o.ID] = o
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.OfferingID) (offeringrepo.Offering, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.byID[id]
	if !ok {
		return offeringrepo.Offering{}, offeringrepo.ErrNotFound
	}
	return o, nil
}

func (r *Repo) List(ctx context.Context) ([]offeringrepo.Offering, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]offeringrepo.Offering, 0, len(r.byID))
	for _, o := range r.byID {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.When.Equal(b.When) {
			return a.When.Before(b.When)
		}
		return a.ID < b.ID
	})
	return out, nil
}
