package signuprepo

import (
	"context"
	"sort"
	"sync"

	"github.com/kcesar/training-api/internal/domain"
	"github.com/kcesar/training-api/internal/ports/out/signuprepo"
)

// Repo is an in-memory implementation of signuprepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu   sync.RWMutex
	byID map[domain.SignupID]signuprepo.Signup
}

func NewRepo() *Repo {
	return &Repo{
		byID: make(map[domain.SignupID]signuprepo.Signup),
	}
}

func (r *Repo) Create(ctx context.Context, s signuprepo.Signup) error {
	_ = ctx
	if s.ID == "" {
		return signuprepo.ErrAlreadyExists // treat empty ID as invalid
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[s.ID]; ok {
		return signuprepo.ErrAlreadyExists
	}
	r.byID[s.ID] = s
	return nil
}

func (r *Repo) SoftDelete(ctx context.Context, memberID domain.MemberID, offeringID domain.OfferingID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.byID {
		if s.MemberID == memberID && s.OfferingID == offeringID && !s.Deleted {
			s.Deleted = true
			r.byID[id] = s
			return nil
		}
	}
	return signuprepo.ErrNotFound
}

func (r *Repo) ListActiveByMember(ctx context.Context, memberID domain.MemberID) ([]signuprepo.Signup, error) {
	return r.list(ctx, memberID, false)
}

func (r *Repo) ListByMember(ctx context.Context, memberID domain.MemberID, includeDeleted bool) ([]signuprepo.Signup, error) {
	return r.list(ctx, memberID, includeDeleted)
}

func (r *Repo) list(ctx context.Context, memberID domain.MemberID, includeDeleted bool) ([]signuprepo.Signup, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]signuprepo.Signup, 0)
	for _, s := range r.byID {
		if s.MemberID != memberID {
			continue
		}
		if s.Deleted && !includeDeleted {
			continue
		}
		out = append(out, s)
	}
	sortSignups(out)
	return out, nil
}

func (r *Repo) CountsByOffering(ctx context.Context) (map[domain.OfferingID]signuprepo.Counts, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[domain.OfferingID]signuprepo.Counts)
	for _, s := range r.byID {
		if s.Deleted {
			continue
		}
		c := out[s.OfferingID]
		if s.OnWaitList {
			c.Waiting++
		} else {
			c.Current++
		}
		out[s.OfferingID] = c
	}
	return out, nil
}

func (r *Repo) CountsForOffering(ctx context.Context, offeringID domain.OfferingID) (signuprepo.Counts, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	var c signuprepo.Counts
	for _, s := range r.byID {
		if s.Deleted || s.OfferingID != offeringID {
			continue
		}
		if s.OnWaitList {
			c.Waiting++
		} else {
			c.Current++
		}
	}
	return c, nil
}

func sortSignups(ss []signuprepo.Signup) {
	// Creation order keeps waitlist FIFO semantics observable in tests.
	sort.Slice(ss, func(i, j int) bool {
		if !ss[i].Created.Equal(ss[j].Created) {
			return ss[i].Created.Before(ss[j].Created)
		}
		return ss[i].ID < ss[j].ID
	})
}
