package documentservice

import (
	"context"
	"docregistry/internal/models"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) CreateDocument(ctx context.Context, doc *models.Document, ver *models.DocumentVersion) error {
	args := m.Called(ctx, doc, ver)
	return args.Error(0)
}

func (m *MockDocumentRepository) DocumentByID(ctx context.Context, id string) (*models.Document, error) {
	args := m.Called(ctx, id)
	doc, _ := args.Get(0).(*models.Document)
	return doc, args.Error(1)
}

func (m *MockDocumentRepository) UpdateDocument(ctx context.Context, id string, upd models.DocumentUpdate, updatedBy string, updatedAt time.Time) (int64, error) {
	args := m.Called(ctx, id, upd, updatedBy, updatedAt)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDocumentRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDocumentRepository) VersionByNumber(ctx context.Context, id string, version int64) (*models.DocumentVersion, error) {
	args := m.Called(ctx, id, version)
	ver, _ := args.Get(0).(*models.DocumentVersion)
	return ver, args.Error(1)
}

func (m *MockDocumentRepository) UpsertGrant(ctx context.Context, documentID string, identity string, level models.PermissionLevel) error {
	args := m.Called(ctx, documentID, identity, level)
	return args.Error(0)
}

func (m *MockDocumentRepository) PermissionLevel(ctx context.Context, documentID string, identity string) (models.PermissionLevel, error) {
	args := m.Called(ctx, documentID, identity)
	return args.Get(0).(models.PermissionLevel), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value interface{}) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockCache) Del(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time {
	return c.t
}

var testNow = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func validHash() string {
	return strings.Repeat("aa", 32)
}

func newService(repo *MockDocumentRepository, cache *MockCache) *DocumentService {
	return New(slog.Default(), repo, cache, fixedClock{t: testNow})
}

func TestAddDocument_Success_VersionOneWritten(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mockRepo := new(MockDocumentRepository)
	mockCache := new(MockCache)
	service := newService(mockRepo, mockCache)

	doc := &models.Document{
		ID:              "d1",
		Title:           "Will.pdf",
		FileType:        "pdf",
		StorageLocation: "ipfs://Qm1",
		ContentHash:     validHash(),
		Size:            1000,
	}

	mockRepo.On("CreateDocument", ctx, doc, mock.MatchedBy(func(ver *models.DocumentVersion) bool {
		return ver.DocumentID == "d1" &&
			ver.Version == 1 &&
			ver.ChangeNotes == models.InitialVersionNotes &&
			ver.UpdatedBy == "alice" &&
			ver.ContentHash == doc.ContentHash
	})).Return(nil)

	id, err := service.AddDocument(ctx, "alice", doc)

	assert.NoError(t, err)
	assert.Equal(t, "d1", id)
	assert.Equal(t, "alice", doc.OwnerID)
	assert.Equal(t, int64(1), doc.LatestVersion)
	assert.Equal(t, doc.CreatedAt, doc.UpdatedAt)
	mockRepo.AssertExpectations(t)
}

func TestAddDocument_GeneratesIDWhenEmpty(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mockRepo := new(MockDocumentRepository)
	mockCache := new(MockCache)
	service := newService(mockRepo, mockCache)

	doc := &models.Document{
		Title:           "notes.txt",
		FileType:        "txt",
		StorageLocation: "ipfs://Qm2",
		ContentHash:     validHash(),
	}

	mockRepo.On("CreateDocument", ctx, doc, mock.Anything).Return(nil)

	id, err := service.AddDocument(ctx, "alice", doc)

	assert.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.LessOrEqual(t, len(id), models.MaxIDLen)
}

func TestAddDocument_AlreadyExists(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mockRepo := new(MockDocumentRepository)
	mockCache := new(MockCache)
	service := newService(mockRepo, mockCache)

	doc := &models.Document{
		ID:              "d1",
		Title:           "Will.pdf",
		FileType:        "pdf",
		StorageLocation: "ipfs://Qm1",
		ContentHash:     validHash(),
	}

	mockRepo.On("CreateDocument", ctx, doc, mock.Anything).Return(models.ErrAlreadyExists)

	_, err := service.AddDocument(ctx, "alice", doc)

	assert.ErrorIs(t, err, models.ErrAlreadyExists)
}

func TestAddDocument_InvalidHashRejectedBeforeWrite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mockRepo := new(MockDocumentRepository)
	mockCache := new(MockCache)
	service := newService(mockRepo, mockCache)

	doc := &models.Document{
		ID:              "d1",
		Title:           "Will.pdf",
		FileType:        "pdf",
		StorageLocation: "ipfs://Qm1",
		ContentHash:     "not-a-hash",
	}

	_, err := service.AddDocument(ctx, "alice", doc)

	assert.ErrorIs(t, err, models.ErrInvalidParams)
	mockRepo.AssertNotCalled(t, "CreateDocument", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddDocument_NegativeSizeRejected(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mockRepo := new(MockDocumentRepository)
	mockCache := new(MockCache)
	service := newService(mockRepo, mockCache)

	doc := &models.Document{
		ID:              "d1",
		Title:           "Will.pdf",
		FileType:        "pdf",
		StorageLocation: "ipfs://Qm1",
		ContentHash:     validHash(),
		Size:            -1,
	}

	_, err := service.AddDocument(ctx, "alice", doc)

	assert.ErrorIs(t, err, models.ErrInvalidParams)
}

func validUpdate() models.DocumentUpdate {
	return models.DocumentUpdate{
		Title:           "Will v2.pdf",
		StorageLocation: "ipfs://Qm9",
		ContentHash:     strings.Repeat("bb", 32),
		Size:            2000,
		ChangeNotes:     "second draft",
	}
}

func TestUpdateDocument_OwnerSucceeds(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mockRepo := new(MockDocumentRepository)
	mockCache := new(MockCache)
	service := newService(mockRepo, mockCache)

	upd := validUpdate()

	mockRepo.On("DocumentByID", ctx, "d1").Return(&models.Document{ID: "d1", OwnerID: "alice", LatestVersion: 1}, nil)
	mockRepo.On("UpdateDocument", ctx, "d1", upd, "alice", testNow).Return(int64(2), nil)
	mockCache.On("Del", ctx, []string{"doc:d1"}).Return(nil)

	version, err := service.UpdateDocument(ctx, "alice", "d1", upd)

	assert.NoError(t, err)
	assert.Equal(t, int64(2), version)
	mockRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

func TestUpdateDocument_StrangerDenied(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mockRepo := new(MockDocumentRepository)
	mockCache := new(MockCache)
	service := newService(mockRepo, mockCache)

	mockRepo.On("DocumentByID", ctx, "d1").Return(&models.Document{ID: "d1", OwnerID: "alice"}, nil)
	mockRepo.On("PermissionLevel", ctx, "d1", "bob").Return(models.PermissionNone, nil)

	_, err := service.UpdateDocument(ctx, "bob", "d1", validUpdate())

	assert.ErrorIs(t, err, models.ErrNotAuthorized)
	mockRepo.AssertNotCalled(t, "UpdateDocument", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateDocument_ViewGrantInsufficient(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mockRepo := new(MockDocumentRepository)
	mockCache := new(MockCache)
	service := newService(mockRepo, mockCache)

	mockRepo.On("DocumentByID", ctx, "d1").Return(&models.Document{ID: "d1", OwnerID: "alice"}, nil)
	mockRepo.On("PermissionLevel", ctx, "d1", "bob").Return(models.PermissionView, nil)

	_, err := service.UpdateDocument(ctx, "bob", "d1", validUpdate())

	assert.ErrorIs(t, err, models.ErrNotAuthorized)
}

func TestUpdateDocument_EditGranteeSucceeds(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mockRepo := new(MockDocumentRepository)
	mockCache := new(MockCache)
	service := newService(mockRepo, mockCache)

	upd := validUpdate()

	mockRepo.On("DocumentByID", ctx, "d1").Return(&models.Document{ID: "d1", OwnerID: "alice", LatestVersion: 1}, nil)
	mockRepo.On("PermissionLevel", ctx, "d1", "bob").Return(models.PermissionEdit, nil)
	mockRepo.On("UpdateDocument", ctx, "d1", upd, "bob", testNow).Return(int64(2), nil)
	mockCache.On("Del", ctx, []string{"doc:d1"}).Return(nil)

	version, err := service.UpdateDocument(ctx, "bob", "d1", upd)

	assert.NoError(t, err)
	assert.Equal(t, int64(2), version)
}

func TestUpdateDocument_NotFound(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mockRepo := new(MockDocumentRepository)
	mockCache := new(MockCache)
	service := newService(mockRepo, mockCache)

	mockRepo.On("DocumentByID", ctx, "missing").Return(nil, models.ErrDocumentNotFound)

	_, err := service.UpdateDocument(ctx, "alice", "missing", validUpdate())

	assert.ErrorIs(t, err, models.ErrDocumentNotFound)
}

func TestDeleteDocument_OwnerOnly(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mockRepo := new(MockDocumentRepository)
	mockCache := new(MockCache)
	service := newService(mockRepo, mockCache)

	mockRepo.On("DocumentByID", ctx, "d1").Return(&models.Document{ID: "d1", OwnerID: "alice"}, nil)

	// An ADMIN grant does not unlock deletion; only true ownership does.
	err := service.DeleteDocument(ctx, "bob", "d1")

	assert.ErrorIs(t, err, models.ErrNotAuthorized)
	mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeleteDocument_Success(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mockRepo := new(MockDocumentRepository)
	mockCache := new(MockCache)
	service := newService(mockRepo, mockCache)

	mockRepo.On("DocumentByID", ctx, "d1").Return(&models.Document{ID: "d1", OwnerID: "alice"}, nil)
	mockRepo.On("Delete", ctx, "d1").Return(nil)
	mockCache.On("Del", ctx, []string{"doc:d1"}).Return(nil)

	err := service.DeleteDocument(ctx, "alice", "d1")

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestVersionByNumber_SurvivesDocumentDeletion(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mockRepo := new(MockDocumentRepository)
	mockCache := new(MockCache)
	service := newService(mockRepo, mockCache)

	orphan := &models.DocumentVersion{
		DocumentID:  "d1",
		Version:     1,
		ChangeNotes: models.InitialVersionNotes,
	}

	// The version read never touches the documents table, so it returns the
	// orphaned record after the document is gone.
	mockRepo.On("VersionByNumber", ctx, "d1", int64(1)).Return(orphan, nil)

	ver, err := service.VersionByNumber(ctx, "d1", 1)

	assert.NoError(t, err)
	assert.Equal(t, orphan, ver)
	mockRepo.AssertNotCalled(t, "DocumentByID", mock.Anything, mock.Anything)
}

func TestVersionByNumber_InvalidNumber(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mockRepo := new(MockDocumentRepository)
	mockCache := new(MockCache)
	service := newService(mockRepo, mockCache)

	_, err := service.VersionByNumber(ctx, "d1", 0)

	assert.ErrorIs(t, err, models.ErrInvalidParams)
}

func TestGrantPermission_InvalidLevelRejectedBeforeRead(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mockRepo := new(MockDocumentRepository)
	mockCache := new(MockCache)
	service := newService(mockRepo, mockCache)

	err := service.GrantPermission(ctx, "alice", "d1", "bob", models.PermissionLevel(7))

	assert.ErrorIs(t, err, models.ErrUnknownPermissionLevel)
	mockRepo.AssertNotCalled(t, "DocumentByID", mock.Anything, mock.Anything)
	mockRepo.AssertNotCalled(t, "UpsertGrant", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGrantPermission_NonOwnerDenied(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mockRepo := new(MockDocumentRepository)
	mockCache := new(MockCache)
	service := newService(mockRepo, mockCache)

	mockRepo.On("DocumentByID", ctx, "d1").Return(&models.Document{ID: "d1", OwnerID: "alice"}, nil)

	// Even an ADMIN grantee cannot grant further permissions.
	err := service.GrantPermission(ctx, "bob", "d1", "carol", models.PermissionView)

	assert.ErrorIs(t, err, models.ErrNotAuthorized)
	mockRepo.AssertNotCalled(t, "UpsertGrant", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGrantPermission_OwnerUpserts(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mockRepo := new(MockDocumentRepository)
	mockCache := new(MockCache)
	service := newService(mockRepo, mockCache)

	mockRepo.On("DocumentByID", ctx, "d1").Return(&models.Document{ID: "d1", OwnerID: "alice"}, nil)
	mockRepo.On("UpsertGrant", ctx, "d1", "bob", models.PermissionEdit).Return(nil)

	err := service.GrantPermission(ctx, "alice", "d1", "bob", models.PermissionEdit)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestHasPermission_AbsentDocumentIsFalse(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mockRepo := new(MockDocumentRepository)
	mockCache := new(MockCache)
	service := newService(mockRepo, mockCache)

	mockRepo.On("DocumentByID", ctx, "missing").Return(nil, models.ErrDocumentNotFound)

	ok, err := service.HasPermission(ctx, "missing", "alice", models.PermissionView)

	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestDocumentByID_CacheMissFallsBackToRepo(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mockRepo := new(MockDocumentRepository)
	mockCache := new(MockCache)
	service := newService(mockRepo, mockCache)

	doc := &models.Document{ID: "d1", OwnerID: "alice", Title: "Will.pdf", LatestVersion: 1}

	mockCache.On("Get", ctx, "doc:d1").Return("", nil)
	mockRepo.On("DocumentByID", ctx, "d1").Return(doc, nil)
	mockCache.On("Set", ctx, "doc:d1", mock.Anything).Return(nil)

	got, err := service.DocumentByID(ctx, "d1")

	assert.NoError(t, err)
	assert.Equal(t, doc, got)
	mockRepo.AssertExpectations(t)
}

func TestDocumentByID_RepoFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mockRepo := new(MockDocumentRepository)
	mockCache := new(MockCache)
	service := newService(mockRepo, mockCache)

	mockCache.On("Get", ctx, "doc:d1").Return("", nil)
	mockRepo.On("DocumentByID", ctx, "d1").Return(nil, errors.New("db down"))

	_, err := service.DocumentByID(ctx, "d1")

	assert.ErrorIs(t, err, models.ErrInternal)
}
