package admin

import (
	"context"
	"crypto/subtle"
	"strings"

	"github.com/retaildash/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DefaultConfirmationPhrase must be typed to confirm a purge unless configured otherwise
const DefaultConfirmationPhrase = "DELETE ALL"

// ErrConfirmationMismatch is returned when the typed phrase does not match
var ErrConfirmationMismatch = shared.NewDomainError("CONFIRMATION_MISMATCH", "Confirmation phrase does not match")

// CacheInvalidator drops every cached read model after a purge
type CacheInvalidator interface {
	InvalidateAll(ctx context.Context)
}

// PurgeService deletes every business record
type PurgeService struct {
	purger       shared.Purger
	confirmation string
	caches       []CacheInvalidator
	logger       *zap.Logger
}

// NewPurgeService creates a new PurgeService
func NewPurgeService(purger shared.Purger, confirmation string, logger *zap.Logger) *PurgeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if confirmation == "" {
		confirmation = DefaultConfirmationPhrase
	}
	return &PurgeService{
		purger:       purger,
		confirmation: confirmation,
		logger:       logger,
	}
}

// AddCache registers a cache to clear after a purge
func (s *PurgeService) AddCache(c CacheInvalidator) {
	s.caches = append(s.caches, c)
}

// Purge removes order items, orders, product details, products, employees
// and customers in one transaction, then clears the caches
func (s *PurgeService) Purge(ctx context.Context, req PurgeRequest) (*PurgeResponse, error) {
	typed := strings.TrimSpace(req.Confirm)
	if subtle.ConstantTimeCompare([]byte(typed), []byte(s.confirmation)) != 1 {
		s.logger.Warn("purge rejected, confirmation mismatch")
		return nil, ErrConfirmationMismatch
	}

	report, err := s.purger.PurgeAll(ctx)
	if err != nil {
		s.logger.Error("purge failed", zap.Error(err))
		return nil, err
	}
	for _, c := range s.caches {
		c.InvalidateAll(ctx)
	}

	total := report.Total()
	s.logger.Warn("all business data purged", zap.Int64("rows", total))
	return &PurgeResponse{Deleted: report, Total: total}, nil
}
