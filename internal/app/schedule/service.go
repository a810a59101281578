package schedule

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/kcesar/training-api/internal/domain"
	"github.com/kcesar/training-api/internal/platform/metrics"
	clockport "github.com/kcesar/training-api/internal/ports/out/clock"
	"github.com/kcesar/training-api/internal/ports/out/offeringrepo"
	"github.com/kcesar/training-api/internal/ports/out/signuprepo"
)

// Caller is the authenticated identity a schedule operation runs as. The
// HTTP adapter derives the capability flags from the token's roles.
type Caller struct {
	MemberID domain.MemberID

	// CanManageOthers lets the caller register/withdraw other members.
	CanManageOthers bool
	// CanViewOthers lets the caller view another member's schedule.
	CanViewOthers bool
}

// Service implements course registration with capacity and FIFO waitlist
// tracking, plus the grouped schedule view.
type Service struct {
	offerings offeringrepo.Repository
	signups   signuprepo.Repository
	clk       clockport.Clock

	newSignupID func() domain.SignupID

	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func NewService(offerings offeringrepo.Repository, signups signuprepo.Repository, clk clockport.Clock, opts ...Option) *Service {
	s := &Service{
		offerings: offerings,
		signups:   signups,
		clk:       clk,
		newSignupID: func() domain.SignupID {
			return domain.SignupID(uuid.NewString())
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetNewSignupIDForTest overrides signup ID generation for deterministic tests.
// It should not be used in production code.
func (s *Service) SetNewSignupIDForTest(fn func() domain.SignupID) {
	if fn != nil {
		s.newSignupID = fn
	}
}

// Register creates a signup for the member against the offering and returns
// the member's recomputed schedule.
//
// The signup is waitlisted when anyone is already waiting or when the
// confirmed count has reached capacity; otherwise it is confirmed. Withdrawn
// signups are ignored, so re-registration after withdrawal starts fresh.
func (s *Service) Register(ctx context.Context, caller Caller, memberID domain.MemberID, offeringID domain.OfferingID) (domain.ScheduleView, error) {
	if !caller.CanManageOthers && !sameMember(caller.MemberID, memberID) {
		return domain.ScheduleView{}, &Error{Status: 403, Code: "FORBIDDEN", Message: "cannot change another member's schedule"}
	}

	off, err := s.offerings.GetByID(ctx, offeringID)
	if err != nil {
		if errors.Is(err, offeringrepo.ErrNotFound) {
			return domain.ScheduleView{}, &Error{Status: 404, Code: "SESSION_NOT_FOUND", Message: "session not found"}
		}
		return domain.ScheduleView{}, err
	}

	// One active signup per course series, across all of its offerings.
	active, err := s.signups.ListActiveByMember(ctx, memberID)
	if err != nil {
		return domain.ScheduleView{}, err
	}
	if len(active) > 0 {
		offs, err := s.offerings.List(ctx)
		if err != nil {
			return domain.ScheduleView{}, err
		}
		courseByID := make(map[domain.OfferingID]string, len(offs))
		for _, o := range offs {
			courseByID[o.ID] = o.CourseName
		}
		for _, sg := range active {
			if courseByID[sg.OfferingID] == off.CourseName {
				return domain.ScheduleView{}, &Error{Status: 409, Code: "ALREADY_REGISTERED", Message: "already registered for this course"}
			}
		}
	}

	counts, err := s.signups.CountsForOffering(ctx, offeringID)
	if err != nil {
		return domain.ScheduleView{}, err
	}
	waitlisted := domain.ShouldWaitlist(counts.Current, counts.Waiting, off.Capacity)

	if err := s.signups.Create(ctx, signuprepo.Signup{
		ID:         s.newSignupID(),
		MemberID:   memberID,
		OfferingID: offeringID,
		Created:    s.clk.Now(),
		OnWaitList: waitlisted,
	}); err != nil {
		return domain.ScheduleView{}, err
	}

	if s.metrics != nil {
		outcome := "confirmed"
		if waitlisted {
			outcome = "waitlisted"
		}
		s.metrics.SignupsCreated.WithLabelValues(outcome).Inc()
	}
	s.logger.InfoContext(ctx, "signup created",
		"memberId", string(memberID), "offeringId", string(offeringID), "waitlisted", waitlisted)

	return s.viewForMember(ctx, memberID)
}

// Withdraw soft-deletes the member's active signup for the offering. Counts
// and history stay queryable; no waitlisted signup is promoted.
func (s *Service) Withdraw(ctx context.Context, caller Caller, memberID domain.MemberID, offeringID domain.OfferingID) (domain.ScheduleView, error) {
	if !caller.CanManageOthers && !sameMember(caller.MemberID, memberID) {
		return domain.ScheduleView{}, &Error{Status: 403, Code: "FORBIDDEN", Message: "cannot change another member's schedule"}
	}

	if _, err := s.offerings.GetByID(ctx, offeringID); err != nil {
		if errors.Is(err, offeringrepo.ErrNotFound) {
			return domain.ScheduleView{}, &Error{Status: 404, Code: "SESSION_NOT_FOUND", Message: "session not found"}
		}
		return domain.ScheduleView{}, err
	}

	if err := s.signups.SoftDelete(ctx, memberID, offeringID); err != nil {
		if errors.Is(err, signuprepo.ErrNotFound) {
			return domain.ScheduleView{}, &Error{Status: 404, Code: "SIGNUP_NOT_FOUND", Message: "signup not found"}
		}
		return domain.ScheduleView{}, err
	}

	if s.metrics != nil {
		s.metrics.Withdrawals.Inc()
	}
	s.logger.InfoContext(ctx, "signup withdrawn",
		"memberId", string(memberID), "offeringId", string(offeringID))

	return s.viewForMember(ctx, memberID)
}

// Schedule returns the public schedule with no member context.
func (s *Service) Schedule(ctx context.Context) (domain.ScheduleView, error) {
	return s.buildView(ctx, false, nil)
}

// MemberSchedule returns the schedule annotated with the member's
// registration state per offering.
func (s *Service) MemberSchedule(ctx context.Context, caller Caller, memberID domain.MemberID) (domain.ScheduleView, error) {
	if !caller.CanViewOthers && !sameMember(caller.MemberID, memberID) {
		return domain.ScheduleView{}, &Error{Status: 403, Code: "FORBIDDEN", Message: "cannot view another member's schedule"}
	}
	return s.viewForMember(ctx, memberID)
}

func (s *Service) viewForMember(ctx context.Context, memberID domain.MemberID) (domain.ScheduleView, error) {
	active, err := s.signups.ListActiveByMember(ctx, memberID)
	if err != nil {
		return domain.ScheduleView{}, err
	}
	return s.buildView(ctx, true, active)
}

// buildView groups offerings by course name and orders each group by
// scheduled time. Without a member context the Registered field stays unset.
func (s *Service) buildView(ctx context.Context, withMember bool, signups []signuprepo.Signup) (domain.ScheduleView, error) {
	offs, err := s.offerings.List(ctx)
	if err != nil {
		return domain.ScheduleView{}, err
	}
	counts, err := s.signups.CountsByOffering(ctx)
	if err != nil {
		return domain.ScheduleView{}, err
	}

	byOffering := make(map[domain.OfferingID]domain.Registration, len(signups))
	for _, sg := range signups {
		if sg.OnWaitList {
			byOffering[sg.OfferingID] = domain.RegistrationWaitlisted
		} else {
			byOffering[sg.OfferingID] = domain.RegistrationConfirmed
		}
	}

	items := make(map[string][]domain.OfferingStatus)
	for _, o := range offs {
		c := counts[o.ID]
		st := domain.OfferingStatus{
			ID:       o.ID,
			When:     o.When,
			Location: o.Location,
			Capacity: o.Capacity,
			Current:  min(c.Current, o.Capacity),
			Waiting:  c.Waiting,
		}
		if withMember {
			reg := domain.RegistrationNone
			if r, ok := byOffering[o.ID]; ok {
				reg = r
			}
			st.Registered = &reg
		}
		items[o.CourseName] = append(items[o.CourseName], st)
	}
	for name := range items {
		group := items[name]
		sort.Slice(group, func(i, j int) bool {
			if !group[i].When.Equal(group[j].When) {
				return group[i].When.Before(group[j].When)
			}
			return group[i].ID < group[j].ID
		})
		items[name] = group
	}

	return domain.ScheduleView{Items: items}, nil
}

func sameMember(a, b domain.MemberID) bool {
	return strings.EqualFold(string(a), string(b))
}
