// Package service provides the ident service implementation
package service

import (
	"context"

	"geulpi/internal/modkit/repokit"
	perr "geulpi/internal/platform/errors"
	dom "geulpi/internal/services/ident/domain"
	"geulpi/internal/services/ident/repo"
)

// Service implements domain.ReaderPort over a bound postgres repo
type Service struct {
	storage repo.Storage
}

// New constructs an ident service from a queryer and binder
func New(q repokit.Queryer, binder repokit.Binder[repo.Storage]) *Service {
	return &Service{storage: repokit.MustBind(binder, q)}
}

// CallerContext implements domain.ReaderPort
func (s *Service) CallerContext(ctx context.Context, userID string) (dom.CallerContext, error) {
	if userID == "" {
		return dom.CallerContext{}, perr.InvalidArgf("empty user id")
	}
	return s.storage.CallerContext(ctx, userID)
}
