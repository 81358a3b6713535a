package http

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/metis-placement/metis.go/pkg/connection"
	"github.com/metis-placement/metis.go/pkg/constants"
)

// RoundTripFunc .
type RoundTripFunc func(req *http.Request) *http.Response

// RoundTrip .
func (f RoundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}

// NewTestClient returns *http.Client with Transport replaced to avoid making real calls
func NewTestClient(fn RoundTripFunc) *http.Client {
	return &http.Client{
		Transport: fn,
	}
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

type ConnectionTestSuite struct {
	suite.Suite
	session *connection.StaticSession
	last    *http.Request
	reply   *http.Response
	con     *Connection
}

func TestConnectionTestSuite(t *testing.T) {
	suite.Run(t, new(ConnectionTestSuite))
}

func (s *ConnectionTestSuite) SetupTest() {
	u, err := url.Parse("https://metis.test/api/v1/")
	s.Require().NoError(err)

	s.session = connection.NewStaticSession("tok-1", "nl-BE")
	cfg := connection.NewConfig(u)
	cfg.Session = s.session
	s.reply = nil

	s.con = New(cfg).SetHTTPClient(NewTestClient(func(req *http.Request) *http.Response {
		s.last = req
		if s.reply != nil {
			return s.reply
		}
		return jsonResponse(200, `{"id": 3, "name": "Ada"}`)
	}))
}

func (s *ConnectionTestSuite) TestDecodesResponse() {
	type person struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}

	got, err := connection.Get[person](context.Background(), s.con, "/students/")
	s.Require().NoError(err)
	s.Equal(person{ID: 3, Name: "Ada"}, got)
	s.Equal("https://metis.test/api/v1/students/", s.last.URL.String())
}

func (s *ConnectionTestSuite) TestAbsoluteLocatorPassesThrough() {
	err := s.con.Send(context.Background(), http.MethodGet, "https://other.test/api/v1/projects/4/", nil, nil)
	s.Require().NoError(err)
	s.Equal("other.test", s.last.URL.Host)
	s.Equal("/api/v1/projects/4/", s.last.URL.Path)
}

func (s *ConnectionTestSuite) TestHeadersOnGet() {
	s.Require().NoError(s.con.Send(context.Background(), http.MethodGet, "/user/account/", nil, nil))

	s.Equal("nl", s.last.Header.Get(constants.HeaderAcceptLanguage))
	s.Empty(s.last.Header.Get(constants.HeaderCSRFToken))
	s.NotEmpty(s.last.Header.Get(constants.HeaderRequestID))
	s.Empty(s.last.Header.Get(constants.HeaderContentType))
}

func (s *ConnectionTestSuite) TestHeadersOnMutation() {
	_, err := connection.Post[map[string]any](context.Background(), s.con, "/students/", map[string]any{"user": 1})
	s.Require().NoError(err)

	s.Equal("tok-1", s.last.Header.Get(constants.HeaderCSRFToken))
	s.Equal(constants.ContentTypeJSON, s.last.Header.Get(constants.HeaderContentType))

	body, err := io.ReadAll(s.last.Body)
	s.Require().NoError(err)
	s.JSONEq(`{"user": 1}`, string(body))
}

func (s *ConnectionTestSuite) TestSessionReadPerRequest() {
	s.session.SetCSRFToken("tok-2")
	s.session.SetLocale("")
	s.Require().NoError(connection.Delete(context.Background(), s.con, "/students/1/"))

	s.Equal("tok-2", s.last.Header.Get(constants.HeaderCSRFToken))
	s.Equal("en", s.last.Header.Get(constants.HeaderAcceptLanguage))
}

func (s *ConnectionTestSuite) TestRequestIDsDiffer() {
	s.Require().NoError(s.con.Send(context.Background(), http.MethodGet, "/a/", nil, nil))
	first := s.last.Header.Get(constants.HeaderRequestID)
	s.Require().NoError(s.con.Send(context.Background(), http.MethodGet, "/a/", nil, nil))
	s.NotEqual(first, s.last.Header.Get(constants.HeaderRequestID))
}

func (s *ConnectionTestSuite) TestValidationError() {
	s.reply = jsonResponse(400, `{"name": ["This field is required."], "email": ["Invalid.", "Too long."]}`)

	err := s.con.Send(context.Background(), http.MethodPost, "/contacts/", map[string]any{}, nil)
	s.Require().Error(err)
	s.True(errors.Is(err, connection.ErrValidation))
	s.False(errors.Is(err, connection.ErrServer))

	fields := connection.FieldErrors(err)
	s.Equal([]string{"This field is required."}, fields["name"])
	s.Equal([]string{"Invalid.", "Too long."}, fields["email"])
}

func (s *ConnectionTestSuite) TestStatusKinds() {
	cases := map[int]error{
		401: connection.ErrAuthorization,
		403: connection.ErrAuthorization,
		500: connection.ErrServer,
		503: connection.ErrServer,
	}
	for status, want := range cases {
		s.reply = jsonResponse(status, `{"detail": "nope"}`)
		err := s.con.Send(context.Background(), http.MethodGet, "/x/", nil, nil)
		s.True(errors.Is(err, want), "status %d", status)

		var apiErr *connection.APIError
		s.Require().True(errors.As(err, &apiErr))
		s.Equal("nope", apiErr.Body.Message)
		s.Equal(status, apiErr.Status)
	}
}

func (s *ConnectionTestSuite) TestEmptyBodyWithDestination() {
	s.reply = &http.Response{StatusCode: 204, Body: io.NopCloser(bytes.NewReader(nil)), Header: http.Header{}}
	var dst map[string]any
	s.Require().NoError(s.con.Send(context.Background(), http.MethodDelete, "/x/1/", nil, &dst))
	s.Nil(dst)
}

func TestNoBaseURL(t *testing.T) {
	con := New(&connection.Config{})
	err := con.Send(context.Background(), http.MethodGet, "/students/", nil, nil)
	require.ErrorIs(t, err, constants.ErrNoBaseURL)
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	u, err := url.Parse(base)
	require.NoError(t, err)
	con := New(connection.NewConfig(u))

	err = con.Send(context.Background(), http.MethodGet, "/students/", nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, connection.ErrTransport)

	var apiErr *connection.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 0, apiErr.Status)
	assert.Equal(t, connection.KindTransport, apiErr.Kind())
}

func TestAgainstServer(t *testing.T) {
	var gotLang string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLang = r.Header.Get(constants.HeaderAcceptLanguage)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id": 1}, {"id": 2}]`))
	}))
	defer srv.Close()

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	cfg := connection.NewConfig(u)
	cfg.Session = connection.NewStaticSession("", "en-GB")

	got, err := connection.Get[[]map[string]int](context.Background(), New(cfg), "/projects/")
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "en", gotLang)
}

func TestParseErrorBody(t *testing.T) {
	body := ParseErrorBody("text/html", []byte("<h1>Bad Gateway</h1>"))
	assert.Equal(t, "<h1>Bad Gateway</h1>", body.Message)

	body = ParseErrorBody("application/json; charset=utf-8", []byte(`{"non_field_errors": ["Overlap."], "count": 3}`))
	assert.Equal(t, []string{"Overlap."}, body.Fields["non_field_errors"])
	assert.Equal(t, []string{"3"}, body.Fields["count"])

	body = ParseErrorBody("application/json", nil)
	assert.Empty(t, body.Message)
	assert.Nil(t, body.Fields)
}
