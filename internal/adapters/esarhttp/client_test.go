package esarhttp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kcesar/training-api/internal/ports/out/accounts"
	"github.com/kcesar/training-api/internal/ports/out/memberdb"
	"github.com/kcesar/training-api/internal/ports/out/messaging"
)

func TestCreateMember(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"m-42"}`))
	}))
	defer srv.Close()

	c := NewMemberDBClient(NewClient(), srv.URL+"/")

	id, err := c.CreateMember(context.Background(), "tok-1", memberdb.NewMember{
		First:        "Ada",
		Last:         "Lovelace",
		Gender:       "female",
		WacLevel:     "Novice",
		WacLevelDate: time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC),
		BirthDate:    time.Date(1999, 3, 14, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, "m-42", string(id))

	assert.Equal(t, "/members", gotPath)
	assert.Equal(t, "Bearer tok-1", gotAuth)
	assert.Equal(t, "Ada", gotBody["First"])
	assert.Equal(t, "female", gotBody["Gender"])
	assert.Equal(t, "1999-03-14", gotBody["BirthDate"], "birthdate crosses the wire as a date")
}

func TestCreateMemberMissingID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewMemberDBClient(NewClient(), srv.URL)
	_, err := c.CreateMember(context.Background(), "tok", memberdb.NewMember{})
	assert.ErrorContains(t, err, "missing id")
}

func TestCreateMembership(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	unitID := uuid.MustParse("11111111-2222-3333-4444-555555555555")
	c := NewMemberDBClient(NewClient(), srv.URL)

	err := c.CreateMembership(context.Background(), "tok", "m-42", memberdb.NewMembership{
		UnitID: unitID,
		Status: "trainee",
		Start:  time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, "/members/m-42/memberships", gotPath)
	unit, ok := gotBody["Unit"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, unitID.String(), unit["Id"])
	assert.Equal(t, "trainee", gotBody["Status"])
}

func TestListForMember(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"data":[
			{"username":"ada1","name":"Ada Lovelace","email":"ada@example.org"},
			{"username":"ada2","name":"Ada L","email":"ada2@example.org"}
		]}`))
	}))
	defer srv.Close()

	c := NewAccountsClient(NewClient(), srv.URL)
	got, err := c.ListForMember(context.Background(), "tok", "m-42")
	require.NoError(t, err)

	assert.Equal(t, "/account/formember/m-42", gotPath)
	assert.Equal(t, []accounts.Account{
		{Username: "ada1", Name: "Ada Lovelace", Email: "ada@example.org"},
		{Username: "ada2", Name: "Ada L", Email: "ada2@example.org"},
	}, got)
}

func TestSendEmail(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewMessagingClient(NewClient(), srv.URL)
	err := c.SendEmail(context.Background(), "tok", messaging.Email{
		To:      "ada@example.org",
		Subject: "Welcome",
		Message: "<p>hello</p>",
	})
	require.NoError(t, err)

	assert.Equal(t, "/send/email", gotPath)
	assert.Equal(t, "ada@example.org", gotBody["To"])
	assert.Equal(t, "Welcome", gotBody["Subject"])
}

func TestNon2xxBecomesHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewAccountsClient(NewClient(), srv.URL)
	_, err := c.ListForMember(context.Background(), "secret-token", "m-1")

	var he *HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusServiceUnavailable, he.StatusCode)
	assert.Contains(t, he.Body, "database unavailable")
	assert.NotContains(t, err.Error(), "secret-token", "tokens never leak into errors")
}
