package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kcesar/training-api/internal/adapters/esarhttp"
	memofferingrepo "github.com/kcesar/training-api/internal/adapters/memory/offeringrepo"
	memsignuprepo "github.com/kcesar/training-api/internal/adapters/memory/signuprepo"
	"github.com/kcesar/training-api/internal/app/schedule"
	"github.com/kcesar/training-api/internal/app/trainees"
	"github.com/kcesar/training-api/internal/domain"
	"github.com/kcesar/training-api/internal/ports/out/accounts"
	"github.com/kcesar/training-api/internal/ports/out/memberdb"
	"github.com/kcesar/training-api/internal/ports/out/messaging"
	"github.com/kcesar/training-api/internal/ports/out/offeringrepo"
)

type stubTokens struct{}

func (stubTokens) TokenForScope(context.Context, string) (string, error) { return "tok", nil }

type stubMemberDB struct {
	memberID domain.MemberID
	err      error
}

func (s stubMemberDB) CreateMember(context.Context, string, memberdb.NewMember) (domain.MemberID, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.memberID, nil
}

func (s stubMemberDB) CreateMembership(context.Context, string, domain.MemberID, memberdb.NewMembership) error {
	return s.err
}

type stubAccounts struct {
	accts []accounts.Account
	err   error
}

func (s stubAccounts) ListForMember(context.Context, string, domain.MemberID) ([]accounts.Account, error) {
	return s.accts, s.err
}

type stubMessaging struct{}

func (stubMessaging) SendEmail(context.Context, string, messaging.Email) error { return nil }

type fixedClock struct{}

func (fixedClock) Now() time.Time { return time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC) }

type testEnv struct {
	handler   http.Handler
	offerings *memofferingrepo.Repo
}

func newTestEnv(t *testing.T, db stubMemberDB, ac stubAccounts) *testEnv {
	t.Helper()

	traineeSvc := trainees.NewService(stubTokens{}, db, ac, stubMessaging{}, fixedClock{}, trainees.Settings{
		DatabaseScope:   "database-readwrite",
		UnitID:          uuid.MustParse("11111111-2222-3333-4444-555555555555"),
		NewMemberStatus: "trainee",
		AuthAuthority:   "https://auth.example.org",
	})

	offerings := memofferingrepo.NewRepo()
	scheduleSvc := schedule.NewService(offerings, memsignuprepo.NewRepo(), fixedClock{})

	api := NewServer(traineeSvc, scheduleSvc, nil)
	handler := NewRouter(api, RouterOptions{AuthMiddleware: NewDevAuthMiddleware("")})
	return &testEnv{handler: handler, offerings: offerings}
}

func (e *testEnv) addOffering(t *testing.T, id, course string, capacity int) {
	t.Helper()
	require.NoError(t, e.offerings.Create(context.Background(), offeringrepo.Offering{
		ID:         domain.OfferingID(id),
		CourseName: course,
		When:       time.Date(2026, 9, 12, 8, 0, 0, 0, time.UTC),
		Location:   "Camp Edward",
		Capacity:   capacity,
	}))
}

func (e *testEnv) do(t *testing.T, method, path, member string, roles string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if member != "" {
		req.Header.Set("X-Debug-Member", member)
	}
	if roles != "" {
		req.Header.Set("X-Debug-Roles", roles)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) (code, message string) {
	t.Helper()
	var body struct {
		Error struct {
			Code    string `json:"Code"`
			Message string `json:"Message"`
		} `json:"Error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error.Code, body.Error.Message
}

func TestPublicScheduleNeedsNoAuth(t *testing.T) {
	env := newTestEnv(t, stubMemberDB{memberID: "m-1"}, stubAccounts{})
	env.addOffering(t, "o-1", "Course A", 24)

	rec := env.do(t, http.MethodGet, "/api/schedule", "", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Items map[string][]struct {
			ID         string  `json:"Id"`
			Capacity   int     `json:"Capacity"`
			Registered *string `json:"Registered"`
		} `json:"Items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Items["Course A"], 1)
	assert.Equal(t, "o-1", body.Items["Course A"][0].ID)
	assert.Equal(t, 24, body.Items["Course A"][0].Capacity)
	assert.Nil(t, body.Items["Course A"][0].Registered)
}

func TestProtectedRoutesRequireIdentity(t *testing.T) {
	env := newTestEnv(t, stubMemberDB{memberID: "m-1"}, stubAccounts{})

	rec := env.do(t, http.MethodGet, "/api/schedule/m-1", "", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterAndMemberSchedule(t *testing.T) {
	env := newTestEnv(t, stubMemberDB{memberID: "m-1"}, stubAccounts{})
	env.addOffering(t, "o-1", "Course A", 24)

	rec := env.do(t, http.MethodPost, "/api/schedule/m-1/session/o-1", "m-1", "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Items map[string][]struct {
			Current    int     `json:"Current"`
			Registered *string `json:"Registered"`
		} `json:"Items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Items["Course A"], 1)
	assert.Equal(t, 1, body.Items["Course A"][0].Current)
	require.NotNil(t, body.Items["Course A"][0].Registered)
	assert.Equal(t, "yes", *body.Items["Course A"][0].Registered)
}

func TestRegisterOtherMemberNeedsTrainingRole(t *testing.T) {
	env := newTestEnv(t, stubMemberDB{memberID: "m-1"}, stubAccounts{})
	env.addOffering(t, "o-1", "Course A", 24)

	rec := env.do(t, http.MethodPost, "/api/schedule/m-2/session/o-1", "m-1", "", "")
	require.Equal(t, http.StatusForbidden, rec.Code)
	code, _ := decodeError(t, rec)
	assert.Equal(t, "FORBIDDEN", code)

	rec = env.do(t, http.MethodPost, "/api/schedule/m-2/session/o-1", "m-1", "esar.training", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestViewOtherMemberScheduleNeedsMembersRole(t *testing.T) {
	env := newTestEnv(t, stubMemberDB{memberID: "m-1"}, stubAccounts{})

	rec := env.do(t, http.MethodGet, "/api/schedule/m-2", "m-1", "", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/schedule/m-2", "m-1", "sec.esar.members", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWithdraw(t *testing.T) {
	env := newTestEnv(t, stubMemberDB{memberID: "m-1"}, stubAccounts{})
	env.addOffering(t, "o-1", "Course A", 24)

	rec := env.do(t, http.MethodPost, "/api/schedule/m-1/session/o-1", "m-1", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/schedule/m-1/session/o-1", "m-1", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/schedule/m-1/session/o-1", "m-1", "", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	code, _ := decodeError(t, rec)
	assert.Equal(t, "SIGNUP_NOT_FOUND", code)
}

func TestCreateTrainee(t *testing.T) {
	env := newTestEnv(t, stubMemberDB{memberID: "m-42"}, stubAccounts{})

	rec := env.do(t, http.MethodPost, "/trainees", "admin", "esar.training",
		`{"First":"Ada","Last":"Lovelace","Gender":"female","BirthDate":"1999-03-14"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		MemberID string `json:"MemberId"`
		Name     string `json:"Name"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "m-42", body.MemberID)
	assert.Equal(t, "Ada Lovelace", body.Name)
}

func TestCreateTraineeBadInput(t *testing.T) {
	env := newTestEnv(t, stubMemberDB{memberID: "m-42"}, stubAccounts{})

	rec := env.do(t, http.MethodPost, "/trainees", "admin", "", `{not json`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	code, _ := decodeError(t, rec)
	assert.Equal(t, "BAD_JSON", code)

	rec = env.do(t, http.MethodPost, "/trainees", "admin", "",
		`{"First":"Ada","Last":"Lovelace","BirthDate":"not-a-date"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	code, message := decodeError(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", code)
	assert.Equal(t, "birthdate is not a valid date", message)

	rec = env.do(t, http.MethodPost, "/trainees", "admin", "",
		`{"First":"","Last":"Lovelace","BirthDate":"1999-03-14"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	_, message = decodeError(t, rec)
	assert.Equal(t, "first name is required", message)
}

func TestInvite(t *testing.T) {
	ac := stubAccounts{accts: []accounts.Account{
		{Username: "ada", Name: "Ada Lovelace", Email: "ada@example.org"},
	}}
	env := newTestEnv(t, stubMemberDB{memberID: "m-1"}, ac)

	rec := env.do(t, http.MethodPost, "/trainees/m-1/invite", "admin", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool `json:"Success"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
}

func TestInviteMultipleAccounts(t *testing.T) {
	ac := stubAccounts{accts: []accounts.Account{
		{Username: "ada1", Email: "a@example.org"},
		{Username: "ada2", Email: "b@example.org"},
	}}
	env := newTestEnv(t, stubMemberDB{memberID: "m-1"}, ac)

	rec := env.do(t, http.MethodPost, "/trainees/m-1/invite", "admin", "", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	code, message := decodeError(t, rec)
	assert.Equal(t, "MULTIPLE_ACCOUNTS", code)
	assert.Equal(t, "Member has multiple accounts. Use 'username' query parameter to specify.", message)
}

func TestUpstreamFailureMapsToBadGateway(t *testing.T) {
	ac := stubAccounts{err: &esarhttp.HTTPError{StatusCode: 503, Body: "down"}}
	env := newTestEnv(t, stubMemberDB{memberID: "m-1"}, ac)

	rec := env.do(t, http.MethodPost, "/trainees/m-1/invite", "admin", "", "")
	require.Equal(t, http.StatusBadGateway, rec.Code)
	code, _ := decodeError(t, rec)
	assert.Equal(t, "UPSTREAM_ERROR", code)
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t, stubMemberDB{}, stubAccounts{})
	rec := env.do(t, http.MethodGet, "/healthz", "", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
