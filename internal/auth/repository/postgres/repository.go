package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/driveshare/auth-service/internal/auth/domain"
)

// PgxIface is the subset of pgxpool.Pool the repository needs; pgxmock
// satisfies it in tests.
type PgxIface interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresRepository struct {
	db PgxIface
}

func NewPostgresRepository(db PgxIface) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetAccountByIdentifier(ctx context.Context, identifier string) (*domain.Account, error) {
	query := `
		SELECT id, email, phone, full_name, password_hash,
		       email_verified, phone_verified, active, created_at, updated_at
		FROM users
		WHERE email = $1 OR phone = $1
		LIMIT 1;
	`
	return r.scanAccount(r.db.QueryRow(ctx, query, identifier))
}

func (r *PostgresRepository) GetAccountByID(ctx context.Context, id string) (*domain.Account, error) {
	query := `
		SELECT id, email, phone, full_name, password_hash,
		       email_verified, phone_verified, active, created_at, updated_at
		FROM users
		WHERE id = $1
		LIMIT 1;
	`
	return r.scanAccount(r.db.QueryRow(ctx, query, id))
}

func (r *PostgresRepository) scanAccount(row pgx.Row) (*domain.Account, error) {
	var account domain.Account
	err := row.Scan(&account.ID, &account.Email, &account.Phone, &account.FullName,
		&account.PasswordHash, &account.EmailVerified, &account.PhoneVerified,
		&account.Active, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

func (r *PostgresRepository) CreateAccount(ctx context.Context, account *domain.Account) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO users (id, email, phone, full_name, password_hash,
                           email_verified, phone_verified, active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
    `, account.ID, account.Email, account.Phone, account.FullName, account.PasswordHash,
		account.EmailVerified, account.PhoneVerified, account.Active,
		account.CreatedAt, account.UpdatedAt)

	return err
}

func (r *PostgresRepository) MarkChannelVerified(ctx context.Context, accountID string, purpose domain.OTPPurpose) error {
	column := "email_verified"
	if purpose == domain.PurposePhoneVerify {
		column = "phone_verified"
	}
	query := fmt.Sprintf(`
		UPDATE users
		SET %s = true, active = true, updated_at = now()
		WHERE id = $1
	`, column)
	_, err := r.db.Exec(ctx, query, accountID)
	return err
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, accountID, passwordHash string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1
	`, accountID, passwordHash)
	return err
}

// ReplaceChallenge inserts the new challenge and consumes the rest of the
// pair's live challenges in a single transaction, so at most one challenge is
// ever active. The insert itself carries the cooldown guard: if any challenge
// for the pair was created inside the window, zero rows land and the caller
// sees a rate limit, even when two instances race past the same recency read.
func (r *PostgresRepository) ReplaceChallenge(ctx context.Context, c *domain.OTPChallenge, cooldown time.Duration) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		INSERT INTO otp_challenges (id, identifier, purpose, code, attempts_remaining,
		                            consumed, expires_at, created_at)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8
		WHERE NOT EXISTS (
			SELECT 1 FROM otp_challenges
			WHERE identifier = $2 AND purpose = $3 AND created_at > $9
		)
	`, c.ID, c.Identifier, c.Purpose, c.Code, c.AttemptsRemaining, c.Consumed,
		c.ExpiresAt, c.CreatedAt, c.CreatedAt.Add(-cooldown))
	if err != nil {
		return false, fmt.Errorf("failed to store challenge: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	_, err = tx.Exec(ctx, `
		UPDATE otp_challenges SET consumed = true
		WHERE identifier = $1 AND purpose = $2 AND consumed = false AND id <> $3
	`, c.Identifier, c.Purpose, c.ID)
	if err != nil {
		return false, fmt.Errorf("failed to invalidate prior challenges: %w", err)
	}

	return true, tx.Commit(ctx)
}

func (r *PostgresRepository) LatestChallenge(ctx context.Context, identifier string, purpose domain.OTPPurpose) (*domain.OTPChallenge, error) {
	query := `
		SELECT id, identifier, purpose, code, attempts_remaining, consumed, expires_at, created_at
		FROM otp_challenges
		WHERE identifier = $1 AND purpose = $2
		ORDER BY created_at DESC
		LIMIT 1;
	`
	row := r.db.QueryRow(ctx, query, identifier, purpose)

	var c domain.OTPChallenge
	err := row.Scan(&c.ID, &c.Identifier, &c.Purpose, &c.Code, &c.AttemptsRemaining,
		&c.Consumed, &c.ExpiresAt, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}
	return &c, nil
}

// DecrementChallengeAttempts is the atomic decrement-then-check: concurrent
// wrong guesses each observe a distinct remaining count.
func (r *PostgresRepository) DecrementChallengeAttempts(ctx context.Context, challengeID string) (int, error) {
	var remaining int
	err := r.db.QueryRow(ctx, `
		UPDATE otp_challenges
		SET attempts_remaining = attempts_remaining - 1
		WHERE id = $1 AND attempts_remaining > 0
		RETURNING attempts_remaining
	`, challengeID).Scan(&remaining)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to decrement attempts: %w", err)
	}
	return remaining, nil
}

func (r *PostgresRepository) ConsumeChallenge(ctx context.Context, challengeID string, now time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE otp_challenges
		SET consumed = true
		WHERE id = $1 AND consumed = false AND attempts_remaining > 0 AND expires_at > $2
	`, challengeID, now)
	if err != nil {
		return false, fmt.Errorf("failed to consume challenge: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PostgresRepository) CreateSession(ctx context.Context, s *domain.Session) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO sessions (id, account_id, lineage_id, ip_address, user_agent,
		                      terminated, last_seen_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, s.ID, s.AccountID, s.LineageID, s.IPAddress, s.UserAgent,
		s.Terminated, s.LastSeenAt, s.CreatedAt)
	return err
}

func (r *PostgresRepository) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, account_id, lineage_id, ip_address, user_agent, terminated, last_seen_at, created_at
		FROM sessions
		WHERE id = $1
		LIMIT 1;
	`, id)

	var s domain.Session
	err := row.Scan(&s.ID, &s.AccountID, &s.LineageID, &s.IPAddress, &s.UserAgent,
		&s.Terminated, &s.LastSeenAt, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &s, nil
}

func (r *PostgresRepository) ListSessions(ctx context.Context, accountID string) ([]domain.Session, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, account_id, lineage_id, ip_address, user_agent, terminated, last_seen_at, created_at
		FROM sessions
		WHERE account_id = $1 AND terminated = false
		ORDER BY created_at DESC
	`, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.Session
	for rows.Next() {
		var s domain.Session
		if err := rows.Scan(&s.ID, &s.AccountID, &s.LineageID, &s.IPAddress, &s.UserAgent,
			&s.Terminated, &s.LastSeenAt, &s.CreatedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func (r *PostgresRepository) TerminateSession(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE sessions SET terminated = true WHERE id = $1 AND terminated = false
	`, id)
	return err
}

func (r *PostgresRepository) TouchSession(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE sessions SET last_seen_at = now() WHERE id = $1
	`, id)
	return err
}

// AdvanceLineage is the refresh-rotation compare-and-swap: only the holder of
// the current lineage id can rotate, and only once.
func (r *PostgresRepository) AdvanceLineage(ctx context.Context, sessionID, oldLineageID, newLineageID string) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE sessions
		SET lineage_id = $3, last_seen_at = now()
		WHERE id = $1 AND lineage_id = $2 AND terminated = false
	`, sessionID, oldLineageID, newLineageID)
	if err != nil {
		return false, fmt.Errorf("failed to advance lineage: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PostgresRepository) RecordLoginAttempt(ctx context.Context, identifier, ip string, success bool) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO login_attempts (id, identifier, ip_address, attempt_time, successful)
		VALUES (gen_random_uuid(), $1, $2, now(), $3)
	`, identifier, ip, success)
	return err
}

func (r *PostgresRepository) CountRecentFailedAttempts(ctx context.Context, identifier, ip string, window time.Duration) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM login_attempts
		WHERE identifier = $1 AND ip_address = $2 AND successful = false
		  AND attempt_time > now() - make_interval(secs => $3)
	`, identifier, ip, window.Seconds()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count login attempts: %w", err)
	}
	return count, nil
}
