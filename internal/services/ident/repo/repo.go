// Package repo provides the postgres repository for caller identity
package repo

import (
	"context"
	"errors"

	"geulpi/internal/modkit/repokit"
	perr "geulpi/internal/platform/errors"
	"geulpi/internal/services/ident/domain"

	"github.com/jackc/pgx/v5"
)

type binder struct{}

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the ident repository
type Storage interface {
	CallerContext(ctx context.Context, userID string) (domain.CallerContext, error)
}

type pg struct{ q repokit.Queryer }

// CallerContext implements Storage
func (s *pg) CallerContext(ctx context.Context, userID string) (domain.CallerContext, error) {
	const sql = `
		SELECT
			u.id::text,
			u.email,
			COALESCE(u.display_name, ''),
			COALESCE(u.timezone, 'UTC'),
			u.created_at
		FROM users u
		WHERE u.id = $1::uuid
	`
	var cc domain.CallerContext
	err := s.q.QueryRow(ctx, sql, userID).Scan(
		&cc.UserID,
		&cc.Email,
		&cc.DisplayName,
		&cc.Timezone,
		&cc.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.CallerContext{}, perr.NotFoundf("user %q", userID)
		}
		return domain.CallerContext{}, perr.Wrapf(err, perr.ErrorCodeDB, "caller context for %q", userID)
	}
	return cc, nil
}
