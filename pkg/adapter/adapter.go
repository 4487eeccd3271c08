package adapter

import (
	"context"
	"log/slog"

	"github.com/tendant/authstore/pkg/fieldmap"
	"github.com/tendant/authstore/pkg/sqlexec"
)

// Record is a flat field-name-to-value mapping crossing the adapter
// boundary. On writes keys are camelCase domain names; on reads keys are the
// storage column names (see package documentation for why these differ).
type Record = sqlexec.Record

// SessionAndUser pairs a session row with the user row it references.
type SessionAndUser struct {
	Session Record
	User    Record
}

// Adapter is the persistence capability surface the authentication framework
// calls. A nil record result means not found; errors are infrastructure
// failures only.
type Adapter interface {
	CreateUser(ctx context.Context, user Record) (Record, error)
	GetUser(ctx context.Context, id string) (Record, error)
	GetUserByEmail(ctx context.Context, email string) (Record, error)
	GetUserByAccount(ctx context.Context, provider, providerAccountID string) (Record, error)
	UpdateUser(ctx context.Context, user Record) (Record, error)
	LinkAccount(ctx context.Context, account Record) error
	CreateSession(ctx context.Context, session Record) (Record, error)
	UpdateSession(ctx context.Context, session Record) (Record, error)
	DeleteSession(ctx context.Context, sessionToken string) error
	CreateVerificationToken(ctx context.Context, token Record) (Record, error)
	UseVerificationToken(ctx context.Context, identifier, token string) (Record, error)
	GetSessionAndUser(ctx context.Context, sessionToken string) (*SessionAndUser, error)
}

// SQLAdapter implements Adapter on top of a sqlexec.Executor.
type SQLAdapter struct {
	exec   sqlexec.Executor
	logger *slog.Logger
}

// Option configures a SQLAdapter.
type Option func(*SQLAdapter)

// WithLogger sets the logger used for the adapter's diagnostic events.
func WithLogger(logger *slog.Logger) Option {
	return func(a *SQLAdapter) {
		a.logger = logger
	}
}

// New creates a SQLAdapter using the given executor.
func New(exec sqlexec.Executor, opts ...Option) *SQLAdapter {
	a := &SQLAdapter{
		exec:   exec,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

var _ Adapter = (*SQLAdapter)(nil)

// CreateUser inserts a user and returns the input fields plus the
// storage-generated id, coerced to a string even when the protocol reports
// it as a number.
func (a *SQLAdapter) CreateUser(ctx context.Context, user Record) (Record, error) {
	res, err := a.exec.Execute(ctx, "INSERT INTO users SET ?", fieldmap.SnakeCaseFlat(user))
	if err != nil {
		return nil, err
	}

	out := make(Record, len(user)+1)
	for k, v := range user {
		out[k] = v
	}
	out["id"] = asString(res.LastInsertID)
	return out, nil
}

// GetUser fetches a user by id. Returns nil when no row matches.
func (a *SQLAdapter) GetUser(ctx context.Context, id string) (Record, error) {
	res, err := a.exec.Execute(ctx, "SELECT * FROM users WHERE id = ? LIMIT 1", id)
	if err != nil {
		return nil, err
	}
	return firstRow(res), nil
}

// GetUserByEmail fetches a user by email. Returns nil when no row matches.
func (a *SQLAdapter) GetUserByEmail(ctx context.Context, email string) (Record, error) {
	res, err := a.exec.Execute(ctx, "SELECT * FROM users WHERE email = ? LIMIT 1", email)
	if err != nil {
		return nil, err
	}
	return firstRow(res), nil
}

// GetUserByAccount resolves a provider linkage to its user. Returns nil when
// no account matches.
func (a *SQLAdapter) GetUserByAccount(ctx context.Context, provider, providerAccountID string) (Record, error) {
	res, err := a.exec.Execute(ctx,
		"SELECT u.* FROM users u JOIN accounts a ON u.id = a.user_id WHERE a.provider = ? AND a.provider_account_id = ?",
		provider, providerAccountID)
	if err != nil {
		return nil, err
	}
	return firstRow(res), nil
}

// UpdateUser updates the row matching user["id"] and re-fetches it. The
// update record is applied as-is, without the snake_case mapping the other
// writes get; callers supplying camelCase profile fields here hit columns
// verbatim. Kept for compatibility with the system this reimplements.
func (a *SQLAdapter) UpdateUser(ctx context.Context, user Record) (Record, error) {
	if _, err := a.exec.Execute(ctx, "UPDATE users SET ? WHERE id = ?", user, user["id"]); err != nil {
		return nil, err
	}

	res, err := a.exec.Execute(ctx, "SELECT * FROM users WHERE id = ?", user["id"])
	if err != nil {
		return nil, err
	}
	return firstRow(res), nil
}

// LinkAccount inserts a provider-account row for a user. Only a fixed
// whitelist of fields is persisted; anything else on the input record is
// dropped before the statement is built.
func (a *SQLAdapter) LinkAccount(ctx context.Context, account Record) error {
	rec := Record{
		"user_id":             account["userId"],
		"provider":            account["provider"],
		"type":                account["type"],
		"provider_account_id": account["providerAccountId"],
		"access_token":        account["access_token"],
		"refresh_token":       account["refresh_token"],
		"expires_in":          account["expires_in"],
	}

	res, err := a.exec.Execute(ctx, "INSERT INTO accounts SET ?", rec)
	if err != nil {
		return err
	}

	a.logger.Info("account inserted", "insert_id", res.LastInsertID)
	return nil
}

// CreateSession inserts a session row and returns the input unchanged; the
// row is not re-fetched.
func (a *SQLAdapter) CreateSession(ctx context.Context, session Record) (Record, error) {
	res, err := a.exec.Execute(ctx, "INSERT INTO sessions SET ?", fieldmap.SnakeCaseFlat(session))
	if err != nil {
		return nil, err
	}

	a.logger.Info("session inserted", "insert_id", res.LastInsertID)
	return session, nil
}

// UpdateSession updates the row matching session["sessionToken"] and
// re-fetches it. Returns nil when the token matches no row.
func (a *SQLAdapter) UpdateSession(ctx context.Context, session Record) (Record, error) {
	if _, err := a.exec.Execute(ctx, "UPDATE sessions SET ? WHERE session_token = ?",
		fieldmap.SnakeCaseFlat(session), session["sessionToken"]); err != nil {
		return nil, err
	}

	res, err := a.exec.Execute(ctx, "SELECT * FROM sessions WHERE session_token = ?", session["sessionToken"])
	if err != nil {
		return nil, err
	}
	return firstRow(res), nil
}

// DeleteSession removes the session with the given token.
func (a *SQLAdapter) DeleteSession(ctx context.Context, sessionToken string) error {
	_, err := a.exec.Execute(ctx, "DELETE FROM sessions WHERE session_token = ?", sessionToken)
	return err
}

// CreateVerificationToken inserts a verification token exactly as given (no
// field mapping; the token shape has no camelCase fields) and returns the
// input unchanged.
func (a *SQLAdapter) CreateVerificationToken(ctx context.Context, token Record) (Record, error) {
	if _, err := a.exec.Execute(ctx, "INSERT INTO verification_tokens SET ?", token); err != nil {
		return nil, err
	}
	return token, nil
}

// UseVerificationToken consumes a token: the row is looked up and, if
// present, deleted in the same call so it cannot be used twice. Returns nil
// when no row matches.
func (a *SQLAdapter) UseVerificationToken(ctx context.Context, identifier, token string) (Record, error) {
	res, err := a.exec.Execute(ctx,
		"SELECT * FROM verification_tokens WHERE identifier = ? AND token = ?", identifier, token)
	if err != nil {
		return nil, err
	}

	row := firstRow(res)
	if row == nil {
		return nil, nil
	}

	if _, err := a.exec.Execute(ctx,
		"DELETE FROM verification_tokens WHERE identifier = ? AND token = ?", identifier, token); err != nil {
		return nil, err
	}
	return row, nil
}

// GetSessionAndUser fetches a session by token, then the user it references.
// Returns nil when either row is missing. The session's expires field is
// coerced to time.Time before returning.
func (a *SQLAdapter) GetSessionAndUser(ctx context.Context, sessionToken string) (*SessionAndUser, error) {
	if sessionToken == "" {
		a.logger.Debug("empty session token in GetSessionAndUser")
	}

	res, err := a.exec.Execute(ctx, "SELECT * FROM sessions WHERE session_token = ?", sessionToken)
	if err != nil {
		return nil, err
	}

	session := firstRow(res)
	a.logger.Debug("session fetched", "found", session != nil)
	if session == nil {
		return nil, nil
	}

	userRes, err := a.exec.Execute(ctx, "SELECT * FROM users WHERE id = ?", session["user_id"])
	if err != nil {
		return nil, err
	}

	user := firstRow(userRes)
	if user == nil {
		return nil, nil
	}

	session["expires"] = coerceTime(session["expires"])
	return &SessionAndUser{Session: session, User: user}, nil
}
