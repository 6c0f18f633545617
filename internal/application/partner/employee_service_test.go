package partner

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/retaildash/backend/internal/domain/partner"
	"github.com/retaildash/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// =============================================================================
// Mocks
// =============================================================================

type MockEmployeeRepository struct {
	mock.Mock
}

func (m *MockEmployeeRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Employee, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Employee), args.Error(1)
}

func (m *MockEmployeeRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Employee, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Employee), args.Error(1)
}

func (m *MockEmployeeRepository) FindOrderProcessors(ctx context.Context) ([]partner.Employee, error) {
	args := m.Called(ctx)
	return args.Get(0).([]partner.Employee), args.Error(1)
}

func (m *MockEmployeeRepository) Create(ctx context.Context, employee *partner.Employee) error {
	return m.Called(ctx, employee).Error(0)
}

func (m *MockEmployeeRepository) Update(ctx context.Context, employee *partner.Employee) error {
	return m.Called(ctx, employee).Error(0)
}

func (m *MockEmployeeRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status partner.EmployeeStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockEmployeeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockEmployeeRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) GenerateUploadURL(ctx context.Context, key, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, key, contentType, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockObjectStorage) GenerateDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, key, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockObjectStorage) DeleteObject(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockObjectStorage) ObjectExists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

// =============================================================================
// Helpers
// =============================================================================

func newTestEmployee(t *testing.T, dept partner.Department) *partner.Employee {
	t.Helper()
	e, err := partner.NewEmployee(partner.Contact{
		Name:  "Sam Seller",
		Email: "sam@example.com",
	}, partner.EmployeeJob{
		Position:   "Associate",
		Department: dept,
		Salary:     decimal.NewFromInt(42000),
		HireDate:   time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return e
}

func validEmployeeRequest() EmployeeRequest {
	return EmployeeRequest{
		Name:       "Sam Seller",
		Email:      "sam@example.com",
		Position:   "Associate",
		Department: "sales",
		Salary:     decimal.NewFromInt(42000),
		HireDate:   time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

// =============================================================================
// Tests
// =============================================================================

func TestEmployeeService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizes the department and creates an active employee", func(t *testing.T) {
		repo := new(MockEmployeeRepository)
		svc := NewEmployeeService(repo, zap.NewNop())
		repo.On("Create", mock.Anything, mock.AnythingOfType("*partner.Employee")).Return(nil).Once()

		resp, err := svc.Create(ctx, validEmployeeRequest())

		require.NoError(t, err)
		assert.Equal(t, "Sales", resp.Department)
		assert.Equal(t, "active", resp.Status)
		assert.True(t, resp.CanProcessOrders)
		repo.AssertExpectations(t)
	})

	t.Run("rejects unknown department", func(t *testing.T) {
		repo := new(MockEmployeeRepository)
		svc := NewEmployeeService(repo, nil)
		req := validEmployeeRequest()
		req.Department = "Finance"

		_, err := svc.Create(ctx, req)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_DEPARTMENT", domainErr.Code)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestEmployeeService_ChangeStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("toggles and persists", func(t *testing.T) {
		repo := new(MockEmployeeRepository)
		svc := NewEmployeeService(repo, zap.NewNop())
		e := newTestEmployee(t, partner.DepartmentSales)
		repo.On("FindByID", mock.Anything, e.ID).Return(e, nil).Once()
		repo.On("UpdateStatus", mock.Anything, e.ID, partner.EmployeeStatusInactive).Return(nil).Once()

		resp, err := svc.ChangeStatus(ctx, e.ID, nil)

		require.NoError(t, err)
		assert.Equal(t, "inactive", resp.Status)
		assert.False(t, resp.CanProcessOrders)
		repo.AssertExpectations(t)
	})

	t.Run("sets an explicit status", func(t *testing.T) {
		repo := new(MockEmployeeRepository)
		svc := NewEmployeeService(repo, zap.NewNop())
		e := newTestEmployee(t, partner.DepartmentSales)
		status := "active"
		repo.On("FindByID", mock.Anything, e.ID).Return(e, nil).Once()
		repo.On("UpdateStatus", mock.Anything, e.ID, partner.EmployeeStatusActive).Return(nil).Once()

		resp, err := svc.ChangeStatus(ctx, e.ID, &status)

		require.NoError(t, err)
		assert.Equal(t, "active", resp.Status)
	})

	t.Run("restores the snapshot when the write fails", func(t *testing.T) {
		repo := new(MockEmployeeRepository)
		core, logs := observer.New(zap.WarnLevel)
		svc := NewEmployeeService(repo, zap.New(core))
		e := newTestEmployee(t, partner.DepartmentSales)
		writeErr := errors.New("connection reset")
		repo.On("FindByID", mock.Anything, e.ID).Return(e, nil).Once()
		repo.On("UpdateStatus", mock.Anything, e.ID, partner.EmployeeStatusInactive).Return(writeErr).Once()

		resp, err := svc.ChangeStatus(ctx, e.ID, nil)

		assert.Nil(t, resp)
		assert.ErrorIs(t, err, writeErr)
		assert.Equal(t, partner.EmployeeStatusActive, e.Status)
		var changeErr *StatusChangeError
		require.ErrorAs(t, err, &changeErr)
		assert.Equal(t, e.ID, changeErr.Employee.ID)
		assert.Equal(t, "active", changeErr.Employee.Status)
		assert.True(t, changeErr.Employee.CanProcessOrders)
		entries := logs.FilterMessage("employee status change rolled back").All()
		require.Len(t, entries, 1)
		assert.Equal(t, "active", entries[0].ContextMap()["restored"])
	})

	t.Run("rejects an invalid status", func(t *testing.T) {
		repo := new(MockEmployeeRepository)
		svc := NewEmployeeService(repo, zap.NewNop())
		e := newTestEmployee(t, partner.DepartmentSales)
		status := "retired"
		repo.On("FindByID", mock.Anything, e.ID).Return(e, nil).Once()

		_, err := svc.ChangeStatus(ctx, e.ID, &status)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATUS", domainErr.Code)
		repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestEmployeeService_EligibleProcessors(t *testing.T) {
	repo := new(MockEmployeeRepository)
	svc := NewEmployeeService(repo, zap.NewNop())
	seller := newTestEmployee(t, partner.DepartmentSales)
	repo.On("FindOrderProcessors", mock.Anything).Return([]partner.Employee{*seller}, nil).Once()

	resp, err := svc.EligibleProcessors(context.Background())

	require.NoError(t, err)
	require.Len(t, resp, 1)
	assert.Equal(t, seller.ID, resp[0].ID)
}

func TestEmployeeService_List(t *testing.T) {
	repo := new(MockEmployeeRepository)
	svc := NewEmployeeService(repo, zap.NewNop())
	matchFilter := mock.MatchedBy(func(f shared.Filter) bool {
		return f.Filters["department"] == "HR" && f.Filters["status"] == "active" && f.Search == "ann"
	})
	repo.On("FindAll", mock.Anything, matchFilter).Return([]partner.Employee{}, nil).Once()
	repo.On("Count", mock.Anything, matchFilter).Return(int64(0), nil).Once()

	items, total, err := svc.List(context.Background(), EmployeeListFilter{Search: "ann", Department: "hr", Status: "active"})

	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, int64(0), total)
	repo.AssertExpectations(t)
}

func TestEmployeeService_ProfileImage(t *testing.T) {
	ctx := context.Background()
	expires := time.Now().Add(15 * time.Minute)

	setup := func(t *testing.T) (*EmployeeService, *MockEmployeeRepository, *MockObjectStorage, *partner.Employee) {
		repo := new(MockEmployeeRepository)
		store := new(MockObjectStorage)
		svc := NewEmployeeService(repo, zap.NewNop())
		svc.SetStorage(store, ProfileImageConfig{UploadURLExpiry: 10 * time.Minute})
		e := newTestEmployee(t, partner.DepartmentSupport)
		repo.On("FindByID", mock.Anything, e.ID).Return(e, nil).Maybe()
		return svc, repo, store, e
	}

	t.Run("issues an upload URL under the employee prefix", func(t *testing.T) {
		svc, _, store, e := setup(t)
		store.On("GenerateUploadURL", mock.Anything, mock.AnythingOfType("string"), "image/png", 10*time.Minute).
			Return("https://s3.local/upload", expires, nil).Once()

		resp, err := svc.RequestProfileImageUpload(ctx, e.ID, ProfileImageUploadRequest{FileName: "Me.PNG", ContentType: "image/png"})

		require.NoError(t, err)
		assert.Equal(t, "https://s3.local/upload", resp.UploadURL)
		assert.True(t, strings.HasPrefix(resp.StorageKey, "employees/"+e.ID.String()+"/"))
		assert.True(t, strings.HasSuffix(resp.StorageKey, ".png"))
	})

	t.Run("rejects non-image content", func(t *testing.T) {
		svc, _, store, e := setup(t)

		_, err := svc.RequestProfileImageUpload(ctx, e.ID, ProfileImageUploadRequest{FileName: "x.svg", ContentType: "image/svg+xml"})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "DISALLOWED_CONTENT_TYPE", domainErr.Code)
		store.AssertNotCalled(t, "GenerateUploadURL", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("confirm attaches the image and deletes the old one", func(t *testing.T) {
		svc, repo, store, e := setup(t)
		oldKey := "employees/" + e.ID.String() + "/old.png"
		newKey := "employees/" + e.ID.String() + "/new.png"
		e.SetProfileImage(oldKey)
		store.On("ObjectExists", mock.Anything, newKey).Return(true, nil).Once()
		repo.On("Update", mock.Anything, e).Return(nil).Once()
		store.On("DeleteObject", mock.Anything, oldKey).Return(nil).Once()

		resp, err := svc.ConfirmProfileImage(ctx, e.ID, ConfirmProfileImageRequest{StorageKey: newKey})

		require.NoError(t, err)
		assert.True(t, resp.HasProfileImage)
		assert.Equal(t, newKey, e.ProfileImageURL)
		store.AssertExpectations(t)
	})

	t.Run("confirm refuses a missing upload", func(t *testing.T) {
		svc, repo, store, e := setup(t)
		key := "employees/" + e.ID.String() + "/never-uploaded.png"
		store.On("ObjectExists", mock.Anything, key).Return(false, nil).Once()

		_, err := svc.ConfirmProfileImage(ctx, e.ID, ConfirmProfileImageRequest{StorageKey: key})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "UPLOAD_NOT_FOUND", domainErr.Code)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("confirm refuses another employee's key", func(t *testing.T) {
		svc, _, _, e := setup(t)

		_, err := svc.ConfirmProfileImage(ctx, e.ID, ConfirmProfileImageRequest{StorageKey: "employees/" + uuid.NewString() + "/a.png"})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STORAGE_KEY", domainErr.Code)
	})

	t.Run("download URL for the current image", func(t *testing.T) {
		svc, _, store, e := setup(t)
		key := "employees/" + e.ID.String() + "/me.jpg"
		e.SetProfileImage(key)
		store.On("GenerateDownloadURL", mock.Anything, key, time.Hour).Return("https://s3.local/me.jpg", expires, nil).Once()

		resp, err := svc.ProfileImage(ctx, e.ID)

		require.NoError(t, err)
		assert.Equal(t, "https://s3.local/me.jpg", resp.URL)
	})

	t.Run("storage disabled", func(t *testing.T) {
		svc := NewEmployeeService(new(MockEmployeeRepository), zap.NewNop())

		_, err := svc.ProfileImage(ctx, uuid.New())

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "STORAGE_DISABLED", domainErr.Code)
	})
}

func TestEmployeeService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("removes the profile image object", func(t *testing.T) {
		repo := new(MockEmployeeRepository)
		store := new(MockObjectStorage)
		svc := NewEmployeeService(repo, zap.NewNop())
		svc.SetStorage(store, DefaultProfileImageConfig())
		e := newTestEmployee(t, partner.DepartmentHR)
		e.SetProfileImage("employees/" + e.ID.String() + "/me.png")
		repo.On("FindByID", mock.Anything, e.ID).Return(e, nil).Once()
		repo.On("Delete", mock.Anything, e.ID).Return(nil).Once()
		store.On("DeleteObject", mock.Anything, e.ProfileImageURL).Return(errors.New("gone")).Once()

		require.NoError(t, svc.Delete(ctx, e.ID))
		store.AssertExpectations(t)
	})

	t.Run("employee with orders stays", func(t *testing.T) {
		repo := new(MockEmployeeRepository)
		svc := NewEmployeeService(repo, zap.NewNop())
		e := newTestEmployee(t, partner.DepartmentSales)
		inUse := shared.NewDomainError("IN_USE", "The employee is still referenced by other records")
		repo.On("FindByID", mock.Anything, e.ID).Return(e, nil).Once()
		repo.On("Delete", mock.Anything, e.ID).Return(inUse).Once()

		assert.ErrorIs(t, svc.Delete(ctx, e.ID), inUse)
	})
}
