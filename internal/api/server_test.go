package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ieee-synapse/synapse-api/internal/blob"
	"github.com/ieee-synapse/synapse-api/internal/config"
	"github.com/ieee-synapse/synapse-api/internal/domain"
	"github.com/ieee-synapse/synapse-api/internal/pkg/objectid"
	"github.com/ieee-synapse/synapse-api/internal/repository/memstore"
	"github.com/ieee-synapse/synapse-api/internal/session"
)

type stubVerifier map[string]string

func (v stubVerifier) Verify(_ context.Context, token string) (string, error) {
	email, ok := v[token]
	if !ok {
		return "", errors.New("bad token")
	}

	return email, nil
}

type testServer struct {
	t      *testing.T
	server *Server
	store  *memstore.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	conf := &config.AppConfig{
		API: &config.APIConfig{
			Environment:        config.EnvLocal,
			Port:               "8000",
			BaseURL:            "localhost:8000",
			JWTSigningKey:      "test-signing-key-0123456789",
			AllowedCORSDomains: []string{"http://localhost:3000"},
			MaxImageBytes:      1024,
		},
		Gin: &config.GinConfig{Mode: "test"},
	}
	store := memstore.New(blob.NewMemoryBackend())
	sessions := session.NewResolver(store)
	verifier := stubVerifier{
		"ada":  "ada@example.com",
		"bob":  "bob@example.com",
		"root": "root@example.com",
	}

	return &testServer{
		t:      t,
		server: NewServer(conf, store, sessions, verifier),
		store:  store,
	}
}

func (s *testServer) do(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	s.server.Router.ServeHTTP(rr, req)

	return rr
}

func (s *testServer) json(method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	return s.do(req, token)
}

func (s *testServer) form(method, path string, fields map[string]string, image []byte, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(s.t, w.WriteField(k, v))
	}
	if image != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="image"; filename="thumb.png"`)
		h.Set("Content-Type", "image/png")
		part, err := w.CreatePart(h)
		require.NoError(s.t, err)
		_, err = part.Write(image)
		require.NoError(s.t, err)
	}
	require.NoError(s.t, w.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())

	return s.do(req, token)
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())

	return out
}

func (s *testServer) signIn(role, googleToken string) string {
	rr := s.json(http.MethodPost, "/api/v1/auth/"+role, map[string]string{"token": googleToken}, "")
	require.Equal(s.t, http.StatusOK, rr.Code, rr.Body.String())

	body := decode[map[string]string](s.t, rr)
	assert.Equal(s.t, "bearer", body["token_type"])

	return body["access_token"]
}

func (s *testServer) registeredUser(name string) string {
	token := s.signIn("user", name)
	rr := s.json(http.MethodPatch, "/api/v1/users/register", map[string]any{
		"name":                  name,
		"email":                 name + "@example.com",
		"phone_number":          "+91 98765-43210",
		"college_or_university": "IIT",
		"course":                "CSE",
		"year":                  2,
		"gender":                "F",
	}, token)
	require.Equal(s.t, http.StatusOK, rr.Code, rr.Body.String())

	return token
}

func (s *testServer) superadmin() string {
	_, err := s.store.Superadmins().Insert(context.Background(), domain.Account{
		ID:        objectid.New(),
		Email:     "root@example.com",
		Name:      "Root",
		CreatedOn: time.Now(),
	})
	require.NoError(s.t, err)

	return s.signIn("superadmin", "root")
}

func (s *testServer) createEvent(token string, fields map[string]string) string {
	rr := s.form(http.MethodPost, "/api/v1/root/events", fields, nil, token)
	require.Equal(s.t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = s.json(http.MethodGet, "/api/v1/root/getEvent/"+session.Current(time.Now()).String(), nil, token)
	require.Equal(s.t, http.StatusOK, rr.Code, rr.Body.String())
	page := decode[struct {
		Data []struct {
			ID   string `json:"event_id"`
			Name string `json:"event_name"`
		} `json:"data"`
	}](s.t, rr)
	for _, e := range page.Data {
		if e.Name == fields["event_name"] {
			return e.ID
		}
	}
	s.t.Fatalf("event %q not listed", fields["event_name"])

	return ""
}

func TestHealthcheck(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(httptest.NewRequest(http.MethodGet, "/", nil), "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestAuthGuards(t *testing.T) {
	s := newTestServer(t)
	root := s.superadmin()
	user := s.signIn("user", "ada")

	tests := []struct {
		name   string
		path   string
		token  string
		status int
	}{
		{name: "no token", path: "/api/v1/users/profile", status: http.StatusUnauthorized},
		{name: "garbage token", path: "/api/v1/users/profile", token: "nope", status: http.StatusUnauthorized},
		{name: "superadmin on user route", path: "/api/v1/users/profile", token: root, status: http.StatusForbidden},
		{name: "user on sudo route", path: "/api/v1/root/getUser/all-users", token: user, status: http.StatusForbidden},
		{name: "user on superadmin route", path: "/api/v1/super/all-admins", token: user, status: http.StatusForbidden},
		{name: "superadmin on admin route", path: "/api/v1/admin/profile", token: root, status: http.StatusForbidden},
		{name: "superadmin profile", path: "/api/v1/admin/super/profile", token: root, status: http.StatusOK},
		{name: "sudo report", path: "/api/v1/root/getUser/all-users", token: root, status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := s.json(http.MethodGet, tt.path, nil, tt.token)
			assert.Equal(t, tt.status, rr.Code, rr.Body.String())
		})
	}
}

func TestSignInRejectsUnknownToken(t *testing.T) {
	s := newTestServer(t)

	rr := s.json(http.MethodPost, "/api/v1/auth/user", map[string]string{"token": "mallory"}, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = s.json(http.MethodPost, "/api/v1/auth/user", map[string]string{}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = s.json(http.MethodPost, "/api/v1/auth/admin", map[string]string{"token": "ada"}, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRegisterProfileValidation(t *testing.T) {
	s := newTestServer(t)
	token := s.signIn("user", "ada")

	rr := s.json(http.MethodPatch, "/api/v1/users/register", map[string]any{
		"name":                  "ada",
		"email":                 "ada@example.com",
		"phone_number":          "12-34",
		"college_or_university": "IIT",
		"course":                "CSE",
		"year":                  5,
		"gender":                "X",
	}, token)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	body := decode[map[string]string](t, rr)
	assert.Contains(t, body["detail"], "phone_number")
	assert.Contains(t, body["detail"], "year")
}

func TestEventRegistrationFlow(t *testing.T) {
	s := newTestServer(t)
	root := s.superadmin()
	ada := s.registeredUser("ada")
	bob := s.registeredUser("bob")

	eventID := s.createEvent(root, map[string]string{
		"event_name":         "Hackathon",
		"event_team_allowed": "true",
		"event_team_size":    "3",
	})

	path := fmt.Sprintf("/api/v1/users/register-event?event_id=%s", eventID)
	rr := s.json(http.MethodPatch, path, nil, ada)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = s.json(http.MethodPatch, path, nil, ada)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = s.json(http.MethodPatch, path, nil, bob)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = s.json(http.MethodPost, "/api/v1/team/register", map[string]any{
		"event_id":  eventID,
		"team_name": "  Rocket   Owls ",
		"members":   []any{},
	}, ada)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	code := decode[map[string]string](t, rr)["team_code"]
	require.Len(t, code, 5)

	rr = s.json(http.MethodPatch, fmt.Sprintf("/api/v1/team/join?event_id=%s&team_code=%s", eventID, code), nil, bob)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = s.json(http.MethodGet, "/api/v1/users/registered", nil, bob)
	require.Equal(t, http.StatusOK, rr.Code)
	regs := decode[struct {
		RegisteredEvent []struct {
			EventID  string  `json:"event_id"`
			TeamName *string `json:"team_name"`
			Role     *string `json:"role"`
		} `json:"registered_event"`
	}](t, rr)
	require.Len(t, regs.RegisteredEvent, 1)
	require.NotNil(t, regs.RegisteredEvent[0].TeamName)
	assert.Equal(t, "rocket owls", *regs.RegisteredEvent[0].TeamName)
	require.NotNil(t, regs.RegisteredEvent[0].Role)
	assert.Equal(t, "member", *regs.RegisteredEvent[0].Role)

	rr = s.json(http.MethodGet, fmt.Sprintf("/api/v1/users/event?event_id=%s", eventID), nil, ada)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = s.json(http.MethodDelete, "/api/v1/root/events/"+eventID, nil, root)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = s.json(http.MethodGet, "/api/v1/users/registered", nil, ada)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"registered_event":[]}`, rr.Body.String())
}

func TestEventImage(t *testing.T) {
	s := newTestServer(t)
	root := s.superadmin()
	ada := s.registeredUser("ada")

	rr := s.form(http.MethodPost, "/api/v1/root/events", map[string]string{"event_name": "Big"}, make([]byte, 2048), root)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Image size exceeds 1KB")

	img := []byte("\x89PNG\r\n\x1a\nthumbnail")
	rr = s.form(http.MethodPost, "/api/v1/root/events", map[string]string{"event_name": "Small"}, img, root)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = s.json(http.MethodGet, "/api/v1/users/events", nil, ada)
	require.Equal(t, http.StatusOK, rr.Code)
	events := decode[struct {
		Data []struct {
			ThumbnailID *string `json:"event_thumbnail_id"`
		} `json:"data"`
	}](t, rr)
	require.Len(t, events.Data, 1)
	require.NotNil(t, events.Data[0].ThumbnailID)

	rr = s.json(http.MethodGet, "/api/v1/users/image/"+*events.Data[0].ThumbnailID, nil, ada)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))
	assert.Equal(t, img, rr.Body.Bytes())

	rr = s.json(http.MethodGet, "/api/v1/users/image/"+objectid.New(), nil, ada)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRemarksAndReports(t *testing.T) {
	s := newTestServer(t)
	root := s.superadmin()
	ada := s.registeredUser("ada")
	eventID := s.createEvent(root, map[string]string{"event_name": "Quiz"})

	rr := s.json(http.MethodPatch, "/api/v1/users/register-event?event_id="+eventID, nil, ada)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = s.json(http.MethodGet, "/api/v1/root/getUser/"+session.Current(time.Now()).String(), nil, root)
	require.Equal(t, http.StatusOK, rr.Code)
	users := decode[struct {
		Year  string `json:"year"`
		Count int    `json:"count"`
		Data  []struct {
			ID string `json:"user_id"`
		} `json:"data"`
	}](t, rr)
	require.Equal(t, 1, users.Count)
	userID := users.Data[0].ID

	remarkPath := fmt.Sprintf("/api/v1/root/remarks/user?event_id=%s&user_id=%s&user_email=ada@example.com", eventID, userID)
	rr = s.json(http.MethodDelete, remarkPath, nil, root)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = s.json(http.MethodPatch, remarkPath, nil, root)
	assert.Equal(t, http.StatusBadRequest, rr.Code, "remark is required")

	rr = s.json(http.MethodPatch, remarkPath+"&remark=punctual", nil, root)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = s.json(http.MethodGet, "/api/v1/root/getEvent/all-events", nil, root)
	require.Equal(t, http.StatusOK, rr.Code)
	all := decode[struct {
		Data map[string]struct {
			Count int `json:"count"`
			Data  []struct {
				RemarkedUsers int `json:"no_of_remarked_user"`
			} `json:"data"`
		} `json:"data"`
	}](t, rr)
	current := all.Data[session.Current(time.Now()).String()]
	require.Equal(t, 1, current.Count)
	assert.Equal(t, 1, current.Data[0].RemarkedUsers)

	rr = s.json(http.MethodGet, "/api/v1/root/getUser/20xx_2025", nil, root)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAdminLifecycle(t *testing.T) {
	s := newTestServer(t)
	root := s.superadmin()

	admin := map[string]any{
		"name":                  "Bob",
		"email":                 "BOB@example.com",
		"phone_number":          "9876543210",
		"college_or_university": "IIT",
		"course":                "CSE",
		"year":                  3,
		"gender":                "M",
		"team":                  "Tech",
		"role":                  "Lead",
	}
	rr := s.json(http.MethodPost, "/api/v1/super/register-admin", admin, root)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = s.json(http.MethodPost, "/api/v1/super/register-admin", admin, root)
	assert.Equal(t, http.StatusConflict, rr.Code)

	bob := s.signIn("admin", "bob")
	rr = s.json(http.MethodGet, "/api/v1/admin/profile", nil, bob)
	require.Equal(t, http.StatusOK, rr.Code)
	profile := decode[struct {
		Data map[string]any `json:"data"`
	}](t, rr)
	assert.Equal(t, "bob@example.com", profile.Data["email"])
	assert.NotContains(t, profile.Data, "created_by")

	year := session.Current(time.Now()).String()
	rr = s.json(http.MethodGet, "/api/v1/super/"+year+"/admins", nil, root)
	require.Equal(t, http.StatusOK, rr.Code)
	list := decode[struct {
		Data []domain.Account `json:"data"`
	}](t, rr)
	require.Len(t, list.Data, 1)

	rr = s.json(http.MethodDelete, fmt.Sprintf("/api/v1/super/delete-admin?admin_id=%s&email=bob@example.com", list.Data[0].ID), nil, root)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = s.json(http.MethodGet, "/api/v1/admin/profile", nil, bob)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
