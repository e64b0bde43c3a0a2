package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/adanyl0v/go-taskmaster/internal/models"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserAlreadyExists    = errors.New("user already exists")
	ErrUserPasswordMismatch = errors.New("user password mismatch")
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionExpired       = errors.New("session expired")
	ErrFingerprintMismatch  = errors.New("fingerprint mismatch")
	ErrTaskNotFound         = errors.New("task not found")
	ErrInvalidTaskTitle     = errors.New("invalid task title")
	ErrInvalidTaskStatus    = errors.New("invalid task status")
	ErrInvalidTaskPriority  = errors.New("invalid task priority")
)

// PgxPool is the subset of *pgxpool.Pool the services use.
type PgxPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type AuthService interface {
	// Login authenticates the user by email and password.
	//
	// It deletes all sessions with the same user ID and creates
	// a new session and generates a new JWT token pair.
	//
	// It returns ErrUserNotFound if the user with the given
	// email doesn't exist or ErrUserPasswordMismatch if the
	// given password doesn't match the user's password.
	Login(ctx context.Context, params LoginParams) (*LoginResult, error)

	// Refresh rotates the refresh token of the session it belongs to.
	//
	// It returns ErrSessionNotFound if the session with the
	// given refresh token doesn't exist or ErrSessionExpired
	// if the session is expired.
	Refresh(ctx context.Context, params RefreshParams) (*LoginResult, error)

	// Register a user with the given email and password.
	//
	// It hashes the password, generates a unique ID and creates a
	// session with the given fingerprint and a fresh JWT token pair.
	//
	// It returns ErrUserAlreadyExists if the user
	// with the given email already exists.
	Register(ctx context.Context, params LoginParams) (*LoginResult, error)

	// Logout invalidates all sessions with the given user ID.
	Logout(ctx context.Context, userID string) error

	// GetSession resolves the session an access token was issued for.
	//
	// The token error is returned wrapped, so callers can check for
	// jwt.ErrTokenExpired and fall back to Refresh. It returns
	// ErrSessionNotFound, ErrSessionExpired or ErrFingerprintMismatch
	// when the session itself can't be used.
	GetSession(ctx context.Context, accessToken, fingerprint string) (*models.Session, error)

	// GetUser returns the owner of the given session.
	GetUser(ctx context.Context, sessionID string) (*models.User, error)

	// ParseJWTToken parses the given JWT token and returns the registered
	// claims or jwt.ErrTokenExpired if the token is expired.
	ParseJWTToken(token string) (*jwt.RegisteredClaims, error)
}

type SessionService interface {
	GetSessionByID(ctx context.Context, sessionID string) (*models.Session, error)
	// GetUserBySessionID returns ErrUserNotFound for unknown or
	// expired sessions.
	GetUserBySessionID(ctx context.Context, sessionID string) (*models.User, error)
}

// TaskService is the tasks table client. Every operation is scoped to
// the given user, so a user can never observe or mutate foreign rows.
type TaskService interface {
	CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error)
	// ListTasks returns the user's tasks, newest first.
	ListTasks(ctx context.Context, userID string) ([]*models.Task, error)
	SetTaskStatus(ctx context.Context, params SetTaskStatusParams) (*models.Task, error)
	// ToggleTaskStatus flips the status in a single statement.
	ToggleTaskStatus(ctx context.Context, params TaskRef) (*models.Task, error)
	DeleteTask(ctx context.Context, params TaskRef) error
}

type LoginParams struct {
	Email       string
	Password    string
	Fingerprint string
}

type LoginResult struct {
	UserID                string
	SessionID             string
	AccessToken           string
	AccessTokenExpiresAt  time.Time
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
}

type RefreshParams struct {
	RefreshToken string
	Fingerprint  string
}

type CreateTaskParams struct {
	UserID      string
	Title       string
	Description string
	Priority    models.Priority
	DueDate     *time.Time
}

type SetTaskStatusParams struct {
	ID     string
	UserID string
	Status models.Status
}

type TaskRef struct {
	ID     string
	UserID string
}
