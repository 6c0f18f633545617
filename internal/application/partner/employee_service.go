package partner

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/retaildash/backend/internal/domain/partner"
	"github.com/retaildash/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ObjectStorage defines the object storage operations used for profile images.
// Implemented by the infrastructure layer (S3, MinIO, RustFS).
type ObjectStorage interface {
	// GenerateUploadURL returns a presigned URL for uploading an object and its expiry
	GenerateUploadURL(ctx context.Context, key, contentType string, expiresIn time.Duration) (string, time.Time, error)

	// GenerateDownloadURL returns a presigned URL for downloading an object and its expiry
	GenerateDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error)

	// DeleteObject deletes an object
	DeleteObject(ctx context.Context, key string) error

	// ObjectExists checks if an object exists
	ObjectExists(ctx context.Context, key string) (bool, error)
}

// allowedImageTypes is the whitelist of profile image content types.
// SVG is not accepted since it can carry scripts.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// ProfileImageConfig holds presigned URL lifetimes
type ProfileImageConfig struct {
	UploadURLExpiry   time.Duration
	DownloadURLExpiry time.Duration
}

// DefaultProfileImageConfig returns the default URL lifetimes
func DefaultProfileImageConfig() ProfileImageConfig {
	return ProfileImageConfig{
		UploadURLExpiry:   15 * time.Minute,
		DownloadURLExpiry: time.Hour,
	}
}

// EmployeeService handles employee-related business operations
type EmployeeService struct {
	employeeRepo partner.EmployeeRepository
	storage      ObjectStorage
	imageConfig  ProfileImageConfig
	logger       *zap.Logger
}

// NewEmployeeService creates a new EmployeeService
func NewEmployeeService(employeeRepo partner.EmployeeRepository, logger *zap.Logger) *EmployeeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmployeeService{
		employeeRepo: employeeRepo,
		imageConfig:  DefaultProfileImageConfig(),
		logger:       logger,
	}
}

// SetStorage enables profile images
func (s *EmployeeService) SetStorage(storage ObjectStorage, cfg ProfileImageConfig) {
	defaults := DefaultProfileImageConfig()
	if cfg.UploadURLExpiry <= 0 {
		cfg.UploadURLExpiry = defaults.UploadURLExpiry
	}
	if cfg.DownloadURLExpiry <= 0 {
		cfg.DownloadURLExpiry = defaults.DownloadURLExpiry
	}
	s.storage = storage
	s.imageConfig = cfg
}

// Create creates a new active employee
func (s *EmployeeService) Create(ctx context.Context, req EmployeeRequest) (*EmployeeResponse, error) {
	job, err := req.job()
	if err != nil {
		return nil, err
	}
	employee, err := partner.NewEmployee(req.contact(), job)
	if err != nil {
		return nil, err
	}
	if err := s.employeeRepo.Create(ctx, employee); err != nil {
		return nil, err
	}

	s.logger.Info("employee created",
		zap.String("employee_id", employee.ID.String()),
		zap.String("department", string(employee.Department)),
	)
	response := ToEmployeeResponse(employee)
	return &response, nil
}

// GetByID retrieves an employee by ID
func (s *EmployeeService) GetByID(ctx context.Context, id uuid.UUID) (*EmployeeResponse, error) {
	employee, err := s.employeeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToEmployeeResponse(employee)
	return &response, nil
}

// List retrieves a page of employees
func (s *EmployeeService) List(ctx context.Context, filter EmployeeListFilter) ([]EmployeeResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}.Normalize()
	if filter.Department != "" {
		dept, err := partner.ParseDepartment(filter.Department)
		if err != nil {
			return nil, 0, err
		}
		domainFilter.Filters["department"] = string(dept)
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	employees, err := s.employeeRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.employeeRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToEmployeeResponses(employees), total, nil
}

// EligibleProcessors lists the employees orders can be attributed to
func (s *EmployeeService) EligibleProcessors(ctx context.Context) ([]EmployeeResponse, error) {
	employees, err := s.employeeRepo.FindOrderProcessors(ctx)
	if err != nil {
		return nil, err
	}
	return ToEmployeeResponses(employees), nil
}

// Update replaces an employee's contact and employment fields
func (s *EmployeeService) Update(ctx context.Context, id uuid.UUID, req EmployeeRequest) (*EmployeeResponse, error) {
	employee, err := s.employeeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	job, err := req.job()
	if err != nil {
		return nil, err
	}
	if err := employee.Update(req.contact(), job); err != nil {
		return nil, err
	}
	if err := s.employeeRepo.Update(ctx, employee); err != nil {
		return nil, err
	}
	response := ToEmployeeResponse(employee)
	return &response, nil
}

// StatusChangeError is returned when a status change could not be stored.
// Employee is the record with its previous status restored.
type StatusChangeError struct {
	Employee EmployeeResponse
	Err      error
}

func (e *StatusChangeError) Error() string {
	return fmt.Sprintf("change status of employee %s: %v", e.Employee.ID, e.Err)
}

func (e *StatusChangeError) Unwrap() error {
	return e.Err
}

// ChangeStatus sets the employee status, or flips it when status is nil.
// The new status is applied tentatively and rolled back to the snapshot if
// it cannot be stored; the snapshot is then returned in a StatusChangeError
// so callers can settle on the stored state.
func (s *EmployeeService) ChangeStatus(ctx context.Context, id uuid.UUID, status *string) (*EmployeeResponse, error) {
	employee, err := s.employeeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	snapshot := employee.Status
	if status == nil {
		employee.ToggleStatus()
	} else if err := employee.SetStatus(partner.EmployeeStatus(*status)); err != nil {
		return nil, err
	}

	if err := s.employeeRepo.UpdateStatus(ctx, id, employee.Status); err != nil {
		attempted := employee.Status
		employee.Status = snapshot
		s.logger.Warn("employee status change rolled back",
			zap.String("employee_id", id.String()),
			zap.String("attempted", string(attempted)),
			zap.String("restored", string(snapshot)),
			zap.Error(err),
		)
		return nil, &StatusChangeError{Employee: ToEmployeeResponse(employee), Err: err}
	}

	s.logger.Info("employee status changed",
		zap.String("employee_id", id.String()),
		zap.String("from", string(snapshot)),
		zap.String("to", string(employee.Status)),
	)
	response := ToEmployeeResponse(employee)
	return &response, nil
}

// Delete deletes an employee. Employees with orders cannot be deleted.
func (s *EmployeeService) Delete(ctx context.Context, id uuid.UUID) error {
	employee, err := s.employeeRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.employeeRepo.Delete(ctx, id); err != nil {
		return err
	}
	if employee.ProfileImageURL != "" {
		s.deleteObject(ctx, employee.ProfileImageURL)
	}
	s.logger.Info("employee deleted", zap.String("employee_id", id.String()))
	return nil
}

// RequestProfileImageUpload returns a presigned URL the client uploads the
// image to. The image is attached by ConfirmProfileImage once uploaded.
func (s *EmployeeService) RequestProfileImageUpload(ctx context.Context, id uuid.UUID, req ProfileImageUploadRequest) (*ProfileImageUploadResponse, error) {
	if err := s.requireStorage(); err != nil {
		return nil, err
	}
	if _, err := s.employeeRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	contentType := strings.ToLower(strings.TrimSpace(req.ContentType))
	if !allowedImageTypes[contentType] {
		return nil, shared.NewDomainErrorf("DISALLOWED_CONTENT_TYPE",
			"Content type %q is not allowed. Allowed types: JPEG, PNG, GIF and WebP images.", req.ContentType)
	}

	key := profileImageKey(id, req.FileName)
	uploadURL, expiresAt, err := s.storage.GenerateUploadURL(ctx, key, contentType, s.imageConfig.UploadURLExpiry)
	if err != nil {
		s.logger.Error("failed to generate upload URL", zap.String("key", key), zap.Error(err))
		return nil, shared.NewDomainError("UPLOAD_URL_FAILED", "Failed to generate upload URL")
	}
	return &ProfileImageUploadResponse{
		UploadURL:  uploadURL,
		StorageKey: key,
		ExpiresAt:  expiresAt,
	}, nil
}

// ConfirmProfileImage attaches an uploaded image and removes the previous one
func (s *EmployeeService) ConfirmProfileImage(ctx context.Context, id uuid.UUID, req ConfirmProfileImageRequest) (*EmployeeResponse, error) {
	if err := s.requireStorage(); err != nil {
		return nil, err
	}
	if !strings.HasPrefix(req.StorageKey, profileImagePrefix(id)) {
		return nil, shared.NewDomainError("INVALID_STORAGE_KEY", "Storage key does not belong to this employee")
	}
	employee, err := s.employeeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	exists, err := s.storage.ObjectExists(ctx, req.StorageKey)
	if err != nil {
		s.logger.Error("failed to verify upload", zap.String("key", req.StorageKey), zap.Error(err))
		return nil, shared.NewDomainError("STORAGE_CHECK_FAILED", "Failed to verify upload")
	}
	if !exists {
		return nil, shared.NewDomainError("UPLOAD_NOT_FOUND", "File not found in storage. Please upload the file first.")
	}

	previous := employee.ProfileImageURL
	employee.SetProfileImage(req.StorageKey)
	if err := s.employeeRepo.Update(ctx, employee); err != nil {
		return nil, err
	}
	if previous != "" && previous != req.StorageKey {
		s.deleteObject(ctx, previous)
	}

	response := ToEmployeeResponse(employee)
	return &response, nil
}

// ProfileImage returns a download URL for the employee's image
func (s *EmployeeService) ProfileImage(ctx context.Context, id uuid.UUID) (*ProfileImageResponse, error) {
	if err := s.requireStorage(); err != nil {
		return nil, err
	}
	employee, err := s.employeeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if employee.ProfileImageURL == "" {
		return nil, shared.NewDomainError("PROFILE_IMAGE_NOT_FOUND", "Employee has no profile image")
	}
	url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, employee.ProfileImageURL, s.imageConfig.DownloadURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to generate download URL: %w", err)
	}
	return &ProfileImageResponse{URL: url, ExpiresAt: expiresAt}, nil
}

func (s *EmployeeService) requireStorage() error {
	if s.storage == nil {
		return shared.NewDomainError("STORAGE_DISABLED", "Profile images are not enabled")
	}
	return nil
}

// deleteObject removes an image; a leftover object is not worth failing the request for
func (s *EmployeeService) deleteObject(ctx context.Context, key string) {
	if s.storage == nil {
		return
	}
	if err := s.storage.DeleteObject(ctx, key); err != nil {
		s.logger.Warn("failed to delete profile image", zap.String("key", key), zap.Error(err))
	}
}

func profileImagePrefix(id uuid.UUID) string {
	return "employees/" + id.String() + "/"
}

// profileImageKey builds employees/{id}/{unique}{ext}
func profileImageKey(id uuid.UUID, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return profileImagePrefix(id) + uuid.New().String() + ext
}
