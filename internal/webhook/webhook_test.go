package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

type memJournal struct {
	mu      sync.Mutex
	entries []Entry
	err     error
}

func (j *memJournal) Record(_ context.Context, e Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, e)
	return j.err
}

func validContact() Submission {
	return Submission{
		Type:    TypeContact,
		Email:   " Rima@Example.SE ",
		Name:    "Rima",
		Subject: "Samarbete",
		Message: "Hej! Vill du laga mat tillsammans?",
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		sub  Submission
		want ValidationErrors
	}{
		{"valid newsletter", Submission{Type: TypeNewsletter, Email: "a@b.se"}, nil},
		{"valid contact", validContact().Normalize(), nil},
		{"empty email", Submission{Type: TypeNewsletter}, ValidationErrors{"email": ErrKeyRequired}},
		{"malformed email", Submission{Type: TypeNewsletter, Email: "not-an-email"}, ValidationErrors{"email": ErrKeyEmail}},
		{"email without dotted domain", Submission{Type: TypeNewsletter, Email: "a@localhost"}, ValidationErrors{"email": ErrKeyEmail}},
		{"display name form", Submission{Type: TypeNewsletter, Email: "Rima <a@b.se>"}, ValidationErrors{"email": ErrKeyEmail}},
		{"unknown type", Submission{Type: "spam", Email: "a@b.se"}, ValidationErrors{"type": ErrKeyRequired}},
		{"contact missing fields", Submission{Type: TypeContact, Email: "a@b.se"}, ValidationErrors{"name": ErrKeyRequired, "message": ErrKeyRequired}},
		{"short message", Submission{Type: TypeContact, Email: "a@b.se", Name: "R", Message: "Hej då"}, ValidationErrors{"message": ErrKeyMessageShort}},
	}
	for _, tc := range cases {
		err := tc.sub.Validate()
		if tc.want == nil {
			require.NoError(t, err, tc.name)
			continue
		}
		var verrs ValidationErrors
		require.True(t, errors.As(err, &verrs), tc.name)
		require.Equal(t, tc.want, verrs, tc.name)
	}
}

func TestMessageLengthCountsRunes(t *testing.T) {
	t.Parallel()

	s := Submission{Type: TypeContact, Email: "a@b.se", Name: "Å", Message: "åäöåäöåäöå"}
	require.NoError(t, s.Validate())
}

func TestSubmitPostsJSON(t *testing.T) {
	t.Parallel()

	var (
		got     map[string]string
		headers http.Header
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		headers = r.Header.Clone()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	t.Cleanup(srv.Close)

	journal := &memJournal{}
	c := NewClient(srv.URL, WithJournal(journal), WithIDGenerator(func() string { return "01TESTID" }))
	res, err := c.Submit(context.Background(), validContact())
	require.NoError(t, err)
	require.Equal(t, Result{ID: "01TESTID", HTTPStatus: http.StatusAccepted}, res)

	require.Equal(t, map[string]string{
		"type":    "contact",
		"email":   "rima@example.se",
		"name":    "Rima",
		"subject": "Samarbete",
		"message": "Hej! Vill du laga mat tillsammans?",
	}, got)
	require.Equal(t, "application/json", headers.Get("Content-Type"))
	require.Equal(t, "01TESTID", headers.Get("Idempotency-Key"))

	require.Len(t, journal.entries, 1)
	require.Equal(t, StatusSent, journal.entries[0].Status)
	require.Equal(t, http.StatusAccepted, journal.entries[0].HTTPStatus)
	require.False(t, journal.entries[0].CreatedAt.IsZero())
}

func TestSubmitNewsletterOmitsContactFields(t *testing.T) {
	t.Parallel()

	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
	}))
	t.Cleanup(srv.Close)

	_, err := NewClient(srv.URL).Submit(context.Background(), Submission{Type: TypeNewsletter, Email: "a@b.se", Message: "ignored"})
	require.NoError(t, err)
	require.Equal(t, map[string]any{"type": "newsletter", "email": "a@b.se"}, got)
}

func TestSubmitInvalidEmailDoesNotPost(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	t.Cleanup(srv.Close)

	journal := &memJournal{}
	c := NewClient(srv.URL, WithJournal(journal))
	s := validContact()
	s.Email = "rima-at-example"
	_, err := c.Submit(context.Background(), s)

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	require.Equal(t, ErrKeyEmail, verrs["email"])
	require.Zero(t, calls.Load())
	require.Empty(t, journal.entries)
}

func TestSubmitRejectedWithoutRetry(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	journal := &memJournal{}
	_, err := NewClient(srv.URL, WithJournal(journal)).Submit(context.Background(), validContact())
	require.ErrorIs(t, err, ErrRejected)
	require.Contains(t, err.Error(), "503")
	require.Equal(t, int32(1), calls.Load())
	require.Equal(t, StatusFailed, journal.entries[0].Status)
	require.Equal(t, http.StatusServiceUnavailable, journal.entries[0].HTTPStatus)
}

func TestSubmitUnavailable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url).Submit(context.Background(), validContact())
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestSubmitWithoutEndpointIsDryRun(t *testing.T) {
	t.Parallel()

	journal := &memJournal{err: errors.New("db locked")}
	res, err := NewClient("", WithJournal(journal)).Submit(context.Background(), Submission{Type: TypeNewsletter, Email: "a@b.se"})
	require.NoError(t, err, "journal failures never reach the caller")
	require.True(t, res.DryRun)
	require.NotEmpty(t, res.ID)
	require.Equal(t, StatusSkipped, journal.entries[0].Status)
}
