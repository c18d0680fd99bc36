package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/garnizeh/seekaclimb/api"
	dbfs "github.com/garnizeh/seekaclimb/db"
	"github.com/garnizeh/seekaclimb/internal/config"
	"github.com/garnizeh/seekaclimb/internal/db"
	"github.com/garnizeh/seekaclimb/internal/repository/sqlrepo"
	"github.com/garnizeh/seekaclimb/pkg/models"
)

const testSecret = "testsecret"

func init() {
	api.SetLogger(slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

type testServer struct {
	*httptest.Server
	repo *sqlrepo.SQLRepo
}

func setupServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	d, err := db.New(ctx, db.DriverSQLite, "file:"+name+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("db.New: %v", err)
	}
	if err := db.Migrate(ctx, d, dbfs.Migrations); err != nil {
		d.Close()
		t.Fatalf("migrate: %v", err)
	}

	cfg := &config.Config{
		JWTSecret:     testSecret,
		TokenDuration: time.Hour,
		PageSize:      10,
		StaticDir:     t.TempDir(),
		MaxBodyBytes:  1 << 20,
	}

	srv := httptest.NewServer(api.SetupRoutes(cfg, "1.2.3", "2025-08-24T00:00:00Z", d))
	t.Cleanup(func() { srv.Close(); d.Close() })

	return &testServer{Server: srv, repo: sqlrepo.New(d, nil)}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (int, []byte) {
	t.Helper()

	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		rd = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, s.URL+path, rd)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer res.Body.Close()

	data, _ := io.ReadAll(res.Body)
	return res.StatusCode, data
}

// login registers name and returns a token and the user id.
func (s *testServer) login(t *testing.T, name string) (string, int64) {
	t.Helper()
	creds := map[string]string{"userName": name, "password": "pw-" + name}

	if status, body := s.do(t, http.MethodPost, "/auth/register", "", creds); status != http.StatusOK {
		t.Fatalf("register: %d %s", status, body)
	}
	status, body := s.do(t, http.MethodPost, "/auth/login", "", creds)
	if status != http.StatusOK {
		t.Fatalf("login: %d %s", status, body)
	}

	var sess struct {
		Token  string `json:"token"`
		UserID int64  `json:"user_id"`
	}
	if err := json.Unmarshal(body, &sess); err != nil {
		t.Fatalf("unmarshal session: %v", err)
	}
	return sess.Token, sess.UserID
}

func errorOf(t *testing.T, body []byte) string {
	t.Helper()
	var e struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err != nil {
		t.Fatalf("error body is not json: %s", body)
	}
	return e.Error
}

func (s *testServer) seedPlace(t *testing.T, name string) (int64, int64) {
	t.Helper()
	ctx := context.Background()
	pid, err := s.repo.CreatePlace(ctx, &models.Place{Name: name, Lat: 48.4, Long: 2.6})
	if err != nil {
		t.Fatalf("create place: %v", err)
	}
	wid, err := s.repo.CreateWall(ctx, &models.Wall{PlaceID: pid, PictureURL: "seed.jpg", Name: "Main"})
	if err != nil {
		t.Fatalf("create wall: %v", err)
	}
	return pid, wid
}
