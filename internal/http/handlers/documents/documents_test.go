package documents

import (
	"bytes"
	"context"
	"docregistry/internal/models"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockCreator struct{ mock.Mock }

func (m *mockCreator) AddDocument(ctx context.Context, caller string, doc *models.Document) (string, error) {
	args := m.Called(ctx, caller, doc)
	return args.String(0), args.Error(1)
}

type mockUpdater struct{ mock.Mock }

func (m *mockUpdater) UpdateDocument(ctx context.Context, caller string, id string, upd models.DocumentUpdate) (int64, error) {
	args := m.Called(ctx, caller, id, upd)
	return args.Get(0).(int64), args.Error(1)
}

type mockDeleter struct{ mock.Mock }

func (m *mockDeleter) DeleteDocument(ctx context.Context, caller string, id string) error {
	args := m.Called(ctx, caller, id)
	return args.Error(0)
}

type mockProvider struct{ mock.Mock }

func (m *mockProvider) DocumentByID(ctx context.Context, id string) (*models.Document, error) {
	args := m.Called(ctx, id)
	doc, _ := args.Get(0).(*models.Document)
	return doc, args.Error(1)
}

func (m *mockProvider) VersionByNumber(ctx context.Context, id string, version int64) (*models.DocumentVersion, error) {
	args := m.Called(ctx, id, version)
	ver, _ := args.Get(0).(*models.DocumentVersion)
	return ver, args.Error(1)
}

type mockGranter struct{ mock.Mock }

func (m *mockGranter) GrantPermission(ctx context.Context, caller string, id string, identity string, level models.PermissionLevel) error {
	args := m.Called(ctx, caller, id, identity, level)
	return args.Error(0)
}

type mockChecker struct{ mock.Mock }

func (m *mockChecker) HasPermission(ctx context.Context, id string, identity string, required models.PermissionLevel) (bool, error) {
	args := m.Called(ctx, id, identity, required)
	return args.Bool(0), args.Error(1)
}

func identityCtx(req *http.Request, identity string) context.Context {
	return context.WithValue(req.Context(), models.IdentityContextKey, identity)
}

func TestCreate_Success(t *testing.T) {
	body := map[string]any{
		"id":               "d1",
		"title":            "Will.pdf",
		"file_type":        "pdf",
		"storage_location": "ipfs://Qm1",
		"content_hash":     strings.Repeat("aa", 32),
		"size":             1000,
	}
	raw, _ := json.Marshal(body)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/documents", bytes.NewReader(raw))
	ctx := identityCtx(req, "alice")

	creator := new(mockCreator)
	creator.On("AddDocument", ctx, "alice", mock.Anything).Return("d1", nil)

	Create(ctx, slog.Default(), w, req, creator)

	resp := w.Result()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var parsed map[string]map[string]any
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	assert.Equal(t, "d1", parsed["data"]["id"])
	creator.AssertExpectations(t)
}

func TestCreate_Conflict(t *testing.T) {
	raw, _ := json.Marshal(map[string]any{"id": "d1", "title": "x", "file_type": "pdf"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/documents", bytes.NewReader(raw))
	ctx := identityCtx(req, "alice")

	creator := new(mockCreator)
	creator.On("AddDocument", ctx, "alice", mock.Anything).Return("", models.ErrAlreadyExists)

	Create(ctx, slog.Default(), w, req, creator)

	assert.Equal(t, http.StatusConflict, w.Result().StatusCode)
}

func TestCreate_BadBody(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/documents", strings.NewReader("{broken"))
	ctx := identityCtx(req, "alice")

	Create(ctx, slog.Default(), w, req, new(mockCreator))

	assert.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
}

func TestUpdate_ReturnsNewVersion(t *testing.T) {
	raw, _ := json.Marshal(map[string]any{
		"title":            "Will v2.pdf",
		"storage_location": "ipfs://Qm9",
		"content_hash":     strings.Repeat("bb", 32),
		"size":             2000,
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/documents/d1", bytes.NewReader(raw))
	ctx := identityCtx(req, "bob")

	updater := new(mockUpdater)
	updater.On("UpdateDocument", ctx, "bob", "d1", mock.Anything).Return(int64(2), nil)

	Update(ctx, slog.Default(), w, req, "d1", updater)

	resp := w.Result()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var parsed map[string]map[string]any
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	assert.Equal(t, float64(2), parsed["data"]["version"])
}

func TestUpdate_Forbidden(t *testing.T) {
	raw, _ := json.Marshal(map[string]any{"title": "x"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/documents/d1", bytes.NewReader(raw))
	ctx := identityCtx(req, "mallory")

	updater := new(mockUpdater)
	updater.On("UpdateDocument", ctx, "mallory", "d1", mock.Anything).Return(int64(0), models.ErrNotAuthorized)

	Update(ctx, slog.Default(), w, req, "d1", updater)

	assert.Equal(t, http.StatusForbidden, w.Result().StatusCode)
}

func TestDelete_NotFound(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/documents/missing", nil)
	ctx := identityCtx(req, "alice")

	deleter := new(mockDeleter)
	deleter.On("DeleteDocument", ctx, "alice", "missing").Return(models.ErrDocumentNotFound)

	Delete(ctx, slog.Default(), w, req, "missing", deleter)

	assert.Equal(t, http.StatusNotFound, w.Result().StatusCode)
}

func TestGetVersion_Success(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/documents/d1/versions/1", nil)
	ctx := req.Context()

	provider := new(mockProvider)
	provider.On("VersionByNumber", ctx, "d1", int64(1)).Return(&models.DocumentVersion{
		DocumentID:  "d1",
		Version:     1,
		ChangeNotes: models.InitialVersionNotes,
		UpdatedBy:   "alice",
	}, nil)

	GetVersion(ctx, slog.Default(), w, req, "d1", "1", provider)

	resp := w.Result()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var parsed map[string]map[string]any
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	assert.Equal(t, models.InitialVersionNotes, parsed["data"]["change_notes"])
}

func TestGetVersion_BadNumber(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/documents/d1/versions/one", nil)
	ctx := req.Context()

	GetVersion(ctx, slog.Default(), w, req, "d1", "one", new(mockProvider))

	assert.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
}

func TestGrant_UnknownLevel(t *testing.T) {
	raw, _ := json.Marshal(map[string]any{"identity": "bob", "level": 7})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/documents/d1/permissions", bytes.NewReader(raw))
	ctx := identityCtx(req, "alice")

	granter := new(mockGranter)
	granter.On("GrantPermission", ctx, "alice", "d1", "bob", models.PermissionLevel(7)).
		Return(models.ErrUnknownPermissionLevel)

	Grant(ctx, slog.Default(), w, req, "d1", granter)

	assert.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
}

func TestAccess_Allowed(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/documents/d1/access?identity=bob&level=view", nil)
	ctx := req.Context()

	checker := new(mockChecker)
	checker.On("HasPermission", ctx, "d1", "bob", models.PermissionView).Return(true, nil)

	Access(ctx, slog.Default(), w, req, "d1", checker)

	resp := w.Result()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var parsed map[string]map[string]bool
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	assert.True(t, parsed["data"]["allowed"])
}

func TestAccess_BadLevel(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/documents/d1/access?identity=bob&level=owner", nil)
	ctx := req.Context()

	Access(ctx, slog.Default(), w, req, "d1", new(mockChecker))

	assert.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
}
