package trainees

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kcesar/training-api/internal/domain"
	"github.com/kcesar/training-api/internal/platform/metrics"
	"github.com/kcesar/training-api/internal/ports/out/accounts"
	clockport "github.com/kcesar/training-api/internal/ports/out/clock"
	"github.com/kcesar/training-api/internal/ports/out/memberdb"
	"github.com/kcesar/training-api/internal/ports/out/messaging"
	"github.com/kcesar/training-api/internal/ports/out/tokens"
)

// wacLevelNovice is the classification assigned to every new trainee.
const wacLevelNovice = "Novice"

const welcomeSubject = "Welcome to ESAR basic training"

// welcomeTemplate is the invitation body. {name} and {username} are replaced
// with the selected account's display name and username; %s receives the
// forgot-password URL twice (href and link text).
const welcomeTemplate = "{name}<br/><br/><p>Welcome to the basic training program for King County Explorer Search and Rescue.</p>" +
	"<p>In order to track your progress through the program and register for courses, please use the training portal at " +
	"<a href=\"https://training.kcesar.org\">https://training.kcesar.org</a>. An account for this system has been created for you " +
	"with username <strong>{username}</strong>. You can set the password for this account after visiting the password reset page " +
	"at <a href=\"%s\">%s</a>."

// Service implements the trainee enrollment and invitation workflows. Each
// workflow acquires one bearer token, then issues the external API calls in
// sequence; later calls consume earlier results.
type Service struct {
	tokens    tokens.Provider
	memberDB  memberdb.Client
	accounts  accounts.Client
	messaging messaging.Client
	clk       clockport.Clock

	settings Settings

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

func NewService(
	tp tokens.Provider,
	db memberdb.Client,
	ac accounts.Client,
	mg messaging.Client,
	clk clockport.Clock,
	settings Settings,
	opts ...Option,
) *Service {
	s := &Service{
		tokens:    tp,
		memberDB:  db,
		accounts:  ac,
		messaging: mg,
		clk:       clk,
		settings:  settings,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateTrainee validates the details, creates a member record in the
// membership database, then records a unit membership for that member.
//
// There is no duplicate detection: every call creates a new record. There is
// also no compensation if the membership call fails after the member call
// succeeded; the upstream error is surfaced and reconciliation is manual.
func (s *Service) CreateTrainee(ctx context.Context, in CreateTraineeInput) (TraineeCreated, error) {
	if strings.TrimSpace(in.First) == "" {
		return TraineeCreated{}, &Error{Status: 400, Code: "VALIDATION_ERROR", Message: "first name is required"}
	}
	if strings.TrimSpace(in.Last) == "" {
		return TraineeCreated{}, &Error{Status: 400, Code: "VALIDATION_ERROR", Message: "last name is required"}
	}

	// Both bounds use the injected clock; the birthdate must fall strictly
	// between 100 and 10 years before now.
	now := s.clk.Now()
	if !in.BirthDate.After(now.AddDate(-100, 0, 0)) || !in.BirthDate.Before(now.AddDate(-10, 0, 0)) {
		return TraineeCreated{}, &Error{Status: 400, Code: "VALIDATION_ERROR", Message: "birthdate is out of range"}
	}

	token, err := s.tokens.TokenForScope(ctx, s.settings.DatabaseScope)
	if err != nil {
		s.upstreamError("token")
		return TraineeCreated{}, fmt.Errorf("acquire database token: %w", err)
	}

	memberID, err := s.memberDB.CreateMember(ctx, token, memberdb.NewMember{
		First:        in.First,
		Middle:       in.Middle,
		Last:         in.Last,
		Gender:       domain.NormalizeGender(in.Gender),
		WacLevel:     wacLevelNovice,
		WacLevelDate: now,
		BirthDate:    truncateToDate(in.BirthDate),
	})
	if err != nil {
		s.upstreamError("database")
		return TraineeCreated{}, fmt.Errorf("create member: %w", err)
	}

	if err := s.memberDB.CreateMembership(ctx, token, memberID, memberdb.NewMembership{
		UnitID: s.settings.UnitID,
		Status: s.settings.NewMemberStatus,
		Start:  now,
	}); err != nil {
		// The member record now exists without a membership status.
		s.upstreamError("database")
		return TraineeCreated{}, fmt.Errorf("create membership for member %s: %w", memberID, err)
	}

	if s.metrics != nil {
		s.metrics.TraineesCreated.Inc()
	}
	s.logger.InfoContext(ctx, "trainee enrolled", "memberId", string(memberID))

	return TraineeCreated{
		MemberID: memberID,
		Name:     fmt.Sprintf("%s %s", in.First, in.Last),
	}, nil
}

// Invite emails a welcome message with a password-reset link to one of the
// member's identity accounts. When the member has multiple accounts the
// caller must disambiguate with username (matched case-insensitively).
//
// The workflow is not idempotent: each successful call sends one email.
func (s *Service) Invite(ctx context.Context, memberID domain.MemberID, username string) error {
	token, err := s.tokens.TokenForScope(ctx, s.settings.DatabaseScope)
	if err != nil {
		s.upstreamError("token")
		return fmt.Errorf("acquire database token: %w", err)
	}

	accts, err := s.accounts.ListForMember(ctx, token, memberID)
	if err != nil {
		s.upstreamError("accounts")
		return fmt.Errorf("list accounts for member %s: %w", memberID, err)
	}
	if len(accts) == 0 {
		return &Error{Status: 400, Code: "NO_ACCOUNT", Message: "Member does not have an account"}
	}

	var account *accounts.Account
	if strings.TrimSpace(username) == "" {
		if len(accts) > 1 {
			return &Error{Status: 400, Code: "MULTIPLE_ACCOUNTS", Message: "Member has multiple accounts. Use 'username' query parameter to specify."}
		}
		account = &accts[0]
	} else {
		for i := range accts {
			if strings.EqualFold(username, accts[i].Username) {
				account = &accts[i]
				break
			}
		}
		if account == nil {
			return &Error{Status: 400, Code: "UNKNOWN_USERNAME", Message: "Member does not have account with that username"}
		}
	}

	resetURL := strings.TrimRight(s.settings.AuthAuthority, "/") + "/forgotpassword?username=" + account.Username
	message := fmt.Sprintf(welcomeTemplate, resetURL, resetURL)
	message = strings.ReplaceAll(message, "{username}", account.Username)
	message = strings.ReplaceAll(message, "{name}", account.Name)

	if err := s.messaging.SendEmail(ctx, token, messaging.Email{
		To:      account.Email,
		Subject: welcomeSubject,
		Message: message,
	}); err != nil {
		s.upstreamError("messaging")
		return fmt.Errorf("send welcome email for member %s: %w", memberID, err)
	}

	if s.metrics != nil {
		s.metrics.InvitesSent.Inc()
	}
	s.logger.InfoContext(ctx, "invitation sent", "memberId", string(memberID), "username", account.Username)

	return nil
}

func (s *Service) upstreamError(service string) {
	if s.metrics != nil {
		s.metrics.UpstreamErrors.WithLabelValues(service).Inc()
	}
}

// truncateToDate drops the time component, keeping date-only semantics for
// the membership database.
func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
