package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/atinyakov/museum/internal/auth"
	"github.com/atinyakov/museum/internal/common"
	"github.com/atinyakov/museum/internal/middleware"
	"github.com/atinyakov/museum/internal/models"
	"github.com/atinyakov/museum/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// memStore is an in-memory catalog and manager store used to drive the router end to end.
type memStore struct {
	mu         sync.Mutex
	nextID     int64
	categories map[int64]models.Category
	pieces     map[int64]models.PieceOfArt
	managers   map[string]models.Manager
}

func newMemStore() *memStore {
	return &memStore{
		categories: map[int64]models.Category{},
		pieces:     map[int64]models.PieceOfArt{},
		managers:   map[string]models.Manager{},
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

type memCategories struct{ *memStore }

func (s memCategories) Get(_ context.Context, id int64) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &c, nil
}

func (s memCategories) GetByName(_ context.Context, name string) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.categories {
		if c.Name == name {
			return &c, nil
		}
	}
	return nil, common.ErrNotFound
}

func (s memCategories) List(_ context.Context, offset, limit int) ([]models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return window(out, offset, limit), nil
}

func (s memCategories) taken(name string, except int64) bool {
	for _, c := range s.categories {
		if c.Name == name && c.ID != except {
			return true
		}
	}
	return false
}

func (s memCategories) Create(_ context.Context, in models.CategoryCreate) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.taken(in.Name, 0) {
		return nil, common.ErrDuplicateName
	}
	now := time.Now()
	c := models.Category{ID: s.id(), Name: in.Name, Description: in.Description, CreatedAt: now, UpdatedAt: now}
	s.categories[c.ID] = c
	return &c, nil
}

func (s memCategories) Update(_ context.Context, id int64, in models.CategoryUpdate) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	in.Apply(&c)
	if s.taken(c.Name, id) {
		return nil, common.ErrDuplicateName
	}
	s.categories[id] = c
	return &c, nil
}

func (s memCategories) Delete(_ context.Context, id int64) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	for _, p := range s.pieces {
		if p.CategoryID == id {
			return nil, common.ErrCategoryInUse
		}
	}
	delete(s.categories, id)
	return &c, nil
}

type memPieces struct{ *memStore }

func (s memPieces) withCategory(p models.PieceOfArt) *models.PieceOfArt {
	c := s.categories[p.CategoryID]
	p.Category = &c
	return &p
}

func (s memPieces) Get(_ context.Context, id int64) (*models.PieceOfArt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pieces[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return s.withCategory(p), nil
}

func (s memPieces) List(_ context.Context, f models.PieceFilter) ([]models.PieceOfArt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.PieceOfArt{}
	for _, p := range s.pieces {
		if f.CategoryID != nil && p.CategoryID != *f.CategoryID {
			continue
		}
		out = append(out, *s.withCategory(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return window(out, f.Offset, f.Limit), nil
}

func (s memPieces) ExistsInCategory(_ context.Context, categoryID int64, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.pieces {
		if p.CategoryID == categoryID && p.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (s memPieces) Create(_ context.Context, in models.PieceCreate) (*models.PieceOfArt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[in.CategoryID]; !ok {
		return nil, fmt.Errorf("category %d: %w", in.CategoryID, common.ErrCategoryNotFound)
	}
	p := models.PieceOfArt{ID: s.id(), Name: in.Name, Description: in.Description, ImageURL: in.ImageURL, CategoryID: in.CategoryID}
	s.pieces[p.ID] = p
	return s.withCategory(p), nil
}

func (s memPieces) Update(_ context.Context, id int64, in models.PieceUpdate) (*models.PieceOfArt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pieces[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	in.Apply(&p)
	if _, ok := s.categories[p.CategoryID]; !ok {
		return nil, common.ErrCategoryNotFound
	}
	s.pieces[id] = p
	return s.withCategory(p), nil
}

func (s memPieces) Delete(_ context.Context, id int64) (*models.PieceOfArt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pieces[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	delete(s.pieces, id)
	return &p, nil
}

type memManagers struct{ *memStore }

func (s memManagers) FindByEmail(_ context.Context, email string) (*models.Manager, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.managers[email]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &m, nil
}

func (s memManagers) Create(_ context.Context, m *models.Manager) (*models.Manager, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.managers[m.Email]; ok {
		return nil, common.ErrDuplicateEmail
	}
	m.ID = s.id()
	s.managers[m.Email] = *m
	return m, nil
}

func window[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return items[:0]
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

type testAPI struct {
	t      *testing.T
	server *httptest.Server
	store  *memStore
	tokens *auth.TokenService
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	store := newMemStore()
	log := zap.NewNop()

	creds := service.NewCredentialServiceWithCost(memManagers{store}, bcrypt.MinCost)
	_, err := creds.Create(context.Background(), models.ManagerCreate{
		Email: "admin@museum.com", FirstName: "Admin", LastName: "User", Password: "Admin123!",
	})
	require.NoError(t, err)

	tokens, err := auth.NewTokenService([]byte("test-secret"), 30*time.Minute)
	require.NoError(t, err)

	catalog := service.NewCatalogService(memCategories{store}, memPieces{store})
	router := NewRouter(Handlers{
		Auth:       &AuthHandler{Credentials: creds, Tokens: tokens, Log: log},
		Categories: &CategoryHandler{Catalog: catalog, Log: log},
		Pieces:     &PieceHandler{Catalog: catalog, Log: log},
	}, middleware.BearerAuth(tokens, creds, log), []string{"http://localhost:3000"}, log)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &testAPI{t: t, server: srv, store: store, tokens: tokens}
}

func (a *testAPI) do(method, path, token, body string) (*http.Response, []byte) {
	a.t.Helper()
	req, err := http.NewRequest(method, a.server.URL+path, strings.NewReader(body))
	require.NoError(a.t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := a.server.Client().Do(req)
	require.NoError(a.t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)
	return resp, raw
}

func (a *testAPI) login(username, password string) *http.Response {
	a.t.Helper()
	form := url.Values{"username": {username}, "password": {password}}
	resp, err := a.server.Client().PostForm(a.server.URL+"/api/auth/login", form)
	require.NoError(a.t, err)
	return resp
}

func (a *testAPI) token() string {
	a.t.Helper()
	resp := a.login("admin@museum.com", "Admin123!")
	defer resp.Body.Close()
	require.Equal(a.t, http.StatusOK, resp.StatusCode)

	var tok TokenResponse
	require.NoError(a.t, json.NewDecoder(resp.Body).Decode(&tok))
	return tok.AccessToken
}

func TestRouter_CatalogFlow(t *testing.T) {
	api := newTestAPI(t)
	token := api.token()

	resp, body := api.do(http.MethodPost, "/api/categories", token, `{"name":"Art","description":"Fine art"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var cat models.Category
	require.NoError(t, json.Unmarshal(body, &cat))

	resp, _ = api.do(http.MethodPost, "/api/categories", token, `{"name":"Art"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = api.do(http.MethodPost, "/api/pieces", token,
		fmt.Sprintf(`{"name":"Mona Lisa","image_url":"https://picsum.photos/1","category_id":%d}`, cat.ID))
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var piece models.PieceOfArt
	require.NoError(t, json.Unmarshal(body, &piece))
	require.NotNil(t, piece.Category)
	assert.Equal(t, "Art", piece.Category.Name)

	resp, body = api.do(http.MethodGet, fmt.Sprintf("/api/pieces?category_id=%d", cat.ID), "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var pieces []models.PieceOfArt
	require.NoError(t, json.Unmarshal(body, &pieces))
	assert.Len(t, pieces, 1)

	resp, body = api.do(http.MethodGet, "/api/pieces?category_id=999", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))

	resp, _ = api.do(http.MethodDelete, fmt.Sprintf("/api/categories/%d", cat.ID), token, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = api.do(http.MethodDelete, fmt.Sprintf("/api/pieces/%d", piece.ID), token, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = api.do(http.MethodDelete, fmt.Sprintf("/api/categories/%d", cat.ID), token, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = api.do(http.MethodGet, fmt.Sprintf("/api/categories/%d", cat.ID), "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_MutationsRequireToken(t *testing.T) {
	api := newTestAPI(t)

	resp, body := api.do(http.MethodPost, "/api/categories", "", `{"name":"Art"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Bearer", resp.Header.Get("WWW-Authenticate"))
	assert.Contains(t, string(body), common.KindUnauthenticated)

	resp, _ = api.do(http.MethodPost, "/api/categories", "garbage", `{"name":"Art"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	expired, err := api.tokens.IssueWithTTL("admin@museum.com", -time.Minute)
	require.NoError(t, err)
	resp, _ = api.do(http.MethodPost, "/api/categories", expired, `{"name":"Art"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	ghost, err := api.tokens.Issue("ghost@museum.com")
	require.NoError(t, err)
	resp, _ = api.do(http.MethodPost, "/api/categories", ghost, `{"name":"Art"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	api.store.mu.Lock()
	defer api.store.mu.Unlock()
	assert.Empty(t, api.store.categories)
}

func TestRouter_ReadsArePublic(t *testing.T) {
	api := newTestAPI(t)

	resp, body := api.do(http.MethodGet, "/api/categories", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))

	resp, _ = api.do(http.MethodGet, "/api/categories?limit=0", "", "")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, body = api.do(http.MethodGet, "/api/healthcheck", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestRouter_LoginFailures(t *testing.T) {
	api := newTestAPI(t)

	resp := api.login("admin@museum.com", "wrong-password")
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = api.login("ghost@museum.com", "Admin123!")
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_RejectsNonJSONMutation(t *testing.T) {
	api := newTestAPI(t)
	token := api.token()

	req, err := http.NewRequest(http.MethodPost, api.server.URL+"/api/categories", strings.NewReader("name=Art"))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := api.server.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
}
