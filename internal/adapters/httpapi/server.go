package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kcesar/training-api/internal/adapters/esarhttp"
	"github.com/kcesar/training-api/internal/app/schedule"
	"github.com/kcesar/training-api/internal/app/trainees"
	"github.com/kcesar/training-api/internal/domain"
)

// Roles recognized in inbound tokens.
const (
	// RoleTraining marks training administrators, who may change any
	// member's schedule.
	RoleTraining = "esar.training"
	// RoleMembers marks unit members, who may view other members' schedules.
	RoleMembers = "sec.esar.members"
)

// Server is the HTTP adapter implementation.
type Server struct {
	trainees *trainees.Service
	schedule *schedule.Service
	logger   *slog.Logger
}

func NewServer(traineesSvc *trainees.Service, scheduleSvc *schedule.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{trainees: traineesSvc, schedule: scheduleSvc, logger: logger}
}

type createTraineeRequest struct {
	First     string `json:"First"`
	Middle    string `json:"Middle"`
	Last      string `json:"Last"`
	Gender    string `json:"Gender"`
	BirthDate string `json:"BirthDate"`
}

type traineeCreatedResponse struct {
	MemberID string `json:"MemberId"`
	Name     string `json:"Name"`
}

func (s *Server) createTrainee(w http.ResponseWriter, r *http.Request) {
	var req createTraineeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_JSON", "request body is not valid JSON")
		return
	}
	birthDate, err := parseBirthDate(req.BirthDate)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "birthdate is not a valid date")
		return
	}

	created, err := s.trainees.CreateTrainee(r.Context(), trainees.CreateTraineeInput{
		First:     req.First,
		Middle:    req.Middle,
		Last:      req.Last,
		Gender:    req.Gender,
		BirthDate: birthDate,
	})
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, traineeCreatedResponse{
		MemberID: string(created.MemberID),
		Name:     created.Name,
	})
}

type inviteResponse struct {
	Success bool `json:"Success"`
}

func (s *Server) invite(w http.ResponseWriter, r *http.Request) {
	memberID := domain.MemberID(chi.URLParam(r, "memberId"))
	username := r.URL.Query().Get("username")

	if err := s.trainees.Invite(r.Context(), memberID, username); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, inviteResponse{Success: true})
}

func (s *Server) getSchedule(w http.ResponseWriter, r *http.Request) {
	view, err := s.schedule.Schedule(r.Context())
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, scheduleViewResponse(view))
}

func (s *Server) getMemberSchedule(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(r)
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing identity")
		return
	}
	memberID := domain.MemberID(chi.URLParam(r, "memberId"))

	view, err := s.schedule.MemberSchedule(r.Context(), caller, memberID)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, scheduleViewResponse(view))
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(r)
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing identity")
		return
	}
	memberID := domain.MemberID(chi.URLParam(r, "memberId"))
	offeringID := domain.OfferingID(chi.URLParam(r, "sessionId"))

	view, err := s.schedule.Register(r.Context(), caller, memberID, offeringID)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, scheduleViewResponse(view))
}

func (s *Server) withdraw(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(r)
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing identity")
		return
	}
	memberID := domain.MemberID(chi.URLParam(r, "memberId"))
	offeringID := domain.OfferingID(chi.URLParam(r, "sessionId"))

	view, err := s.schedule.Withdraw(r.Context(), caller, memberID, offeringID)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, scheduleViewResponse(view))
}

// writeAppError maps application errors onto HTTP responses. Upstream and
// token failures deliberately surface as opaque server errors; details go to
// the log, not the caller.
func (s *Server) writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	var te *trainees.Error
	if errors.As(err, &te) {
		writeError(w, r, te.Status, te.Code, te.Message)
		return
	}
	var se *schedule.Error
	if errors.As(err, &se) {
		writeError(w, r, se.Status, se.Code, se.Message)
		return
	}

	s.logger.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)

	var he *esarhttp.HTTPError
	if errors.As(err, &he) {
		writeError(w, r, http.StatusBadGateway, "UPSTREAM_ERROR", "upstream service error")
		return
	}
	writeError(w, r, http.StatusInternalServerError, "INTERNAL", "internal server error")
}

func callerFromRequest(r *http.Request) (schedule.Caller, bool) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		return schedule.Caller{}, false
	}
	return schedule.Caller{
		MemberID:        domain.MemberID(claims.MemberID),
		CanManageOthers: claims.HasRole(RoleTraining),
		CanViewOthers:   claims.HasRole(RoleMembers) || claims.HasRole(RoleTraining),
	}, true
}

func parseBirthDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// Response DTOs keep the shape the original site's frontend consumes.
type offeringStatusResponse struct {
	ID         string    `json:"Id"`
	When       time.Time `json:"When"`
	Location   string    `json:"Location"`
	Capacity   int       `json:"Capacity"`
	Current    int       `json:"Current"`
	Waiting    int       `json:"Waiting"`
	Registered *string   `json:"Registered,omitempty"`
}

type scheduleResponse struct {
	Items map[string][]offeringStatusResponse `json:"Items"`
}

func scheduleViewResponse(v domain.ScheduleView) scheduleResponse {
	items := make(map[string][]offeringStatusResponse, len(v.Items))
	for course, group := range v.Items {
		out := make([]offeringStatusResponse, 0, len(group))
		for _, o := range group {
			resp := offeringStatusResponse{
				ID:       string(o.ID),
				When:     o.When,
				Location: o.Location,
				Capacity: o.Capacity,
				Current:  o.Current,
				Waiting:  o.Waiting,
			}
			if o.Registered != nil {
				reg := string(*o.Registered)
				resp.Registered = &reg
			}
			out = append(out, resp)
		}
		items[course] = out
	}
	return scheduleResponse{Items: items}
}
