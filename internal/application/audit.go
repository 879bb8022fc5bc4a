package application

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/linskybing/formbuilder-go/internal/apperr"
	"github.com/linskybing/formbuilder-go/internal/domain/audit"
	"github.com/linskybing/formbuilder-go/internal/logger"
	"github.com/linskybing/formbuilder-go/internal/repository"
	"github.com/linskybing/formbuilder-go/pkg/types"
	"go.uber.org/zap"
)

type AuditService struct {
	Repos *repository.Repos

	wg sync.WaitGroup
}

func NewAuditService(repos *repository.Repos) *AuditService {
	return &AuditService{
		Repos: repos,
	}
}

// Record writes an audit row in the background. The actor is taken from ctx
// before the goroutine starts; failures are only logged.
func (s *AuditService) Record(ctx context.Context, action, resourceType, resourceID string, before, after any, description string) {
	if s == nil {
		return
	}
	actor, _ := types.ActorFrom(ctx)
	entry := &audit.AuditLog{
		UserID:       actor.UserID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		OldData:      marshalAudit(before),
		NewData:      marshalAudit(after),
		IPAddress:    actor.IP,
		UserAgent:    actor.UserAgent,
		Description:  description,
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.Repos.Audit.CreateAuditLog(entry); err != nil {
			logger.L().Warn("audit log write failed",
				zap.String("action", action),
				zap.String("resource_type", resourceType),
				zap.String("resource_id", resourceID),
				zap.Error(err))
		}
	}()
}

// Wait blocks until every pending Record has finished.
func (s *AuditService) Wait() {
	if s == nil {
		return
	}
	s.wg.Wait()
}

func (s *AuditService) QueryAuditLogs(ctx context.Context, params repository.AuditQueryParams) ([]audit.AuditLog, error) {
	if params.Limit <= 0 || params.Limit > 500 {
		params.Limit = 100
	}
	logs, err := s.Repos.WithContext(ctx).Audit.GetAuditLogs(params)
	if err != nil {
		return nil, storeErr("audit.Query", "audit log", err)
	}
	return logs, nil
}

// Prune deletes audit rows older than the retention window.
func (s *AuditService) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	if retention <= 0 {
		return 0, apperr.Validationf("audit.Prune", "retention must be positive")
	}
	n, err := s.Repos.WithContext(ctx).Audit.PruneAuditLogs(time.Now().Add(-retention))
	if err != nil {
		return 0, storeErr("audit.Prune", "audit log", err)
	}
	return n, nil
}

func marshalAudit(v any) []byte {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		logger.L().Warn("audit marshal failed", zap.Error(err))
		return nil
	}
	return b
}
