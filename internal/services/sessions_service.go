package services

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-taskmaster/internal/models"
)

type sessionServiceImpl struct {
	logger zerolog.Logger
	pgPool PgxPool
}

func NewSessionService(
	logger zerolog.Logger,
	pgPool PgxPool,
) SessionService {
	return &sessionServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

func (s *sessionServiceImpl) GetSessionByID(ctx context.Context, sessionID string) (*models.Session, error) {
	session := &models.Session{
		ID: sessionID,
	}

	const selectSessionByIDQuery = `
SELECT user_id,
       fingerprint,
       refresh_token,
       expires_at,
       created_at,
       updated_at
FROM sessions
WHERE id = $1
`
	err := s.pgPool.QueryRow(
		ctx,
		selectSessionByIDQuery,
		session.ID,
	).Scan(
		&session.UserID,
		&session.Fingerprint,
		&session.RefreshToken,
		&session.ExpiresAt,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			s.logger.Warn().
				Str("session_id", session.ID).
				Msg("session not found")
			return nil, ErrSessionNotFound
		}

		s.logger.Error().
			Err(err).
			Str("session_id", session.ID).
			Msg("failed to select session by id")
		return nil, err
	}
	s.logger.Debug().
		Str("session_id", session.ID).
		Str("user_id", session.UserID).
		Time("expires_at", session.ExpiresAt).
		Msg("selected session by id")

	return session, nil
}

func (s *sessionServiceImpl) GetUserBySessionID(ctx context.Context, sessionID string) (*models.User, error) {
	user := &models.User{}

	const selectUserBySessionIDQuery = `
SELECT u.id,
       u.email,
       u.created_at,
       u.updated_at
FROM sessions s
JOIN users u ON u.id = s.user_id
WHERE s.id = $1 AND s.expires_at > now()
`
	err := s.pgPool.QueryRow(
		ctx,
		selectUserBySessionIDQuery,
		sessionID,
	).Scan(
		&user.ID,
		&user.Email,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			s.logger.Warn().
				Str("session_id", sessionID).
				Msg("no user for session")
			return nil, ErrUserNotFound
		}

		s.logger.Error().
			Err(err).
			Str("session_id", sessionID).
			Msg("failed to select user by session id")
		return nil, err
	}
	s.logger.Debug().
		Str("session_id", sessionID).
		Str("user_id", user.ID).
		Msg("selected user by session id")

	return user, nil
}

// isNoRows also treats malformed uuids as missing rows.
func isNoRows(err error) bool {
	if errors.Is(err, pgx.ErrNoRows) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.InvalidTextRepresentation
}
