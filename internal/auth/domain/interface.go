package domain

//go:generate mockgen -destination=../../mocks/mock_repository.go -package=mocks github.com/driveshare/auth-service/internal/auth/domain AuthRepository

import (
	"context"
	"time"
)

type AuthRepository interface {
	GetAccountByIdentifier(ctx context.Context, identifier string) (*Account, error)
	GetAccountByID(ctx context.Context, id string) (*Account, error)
	CreateAccount(ctx context.Context, account *Account) error
	MarkChannelVerified(ctx context.Context, accountID string, purpose OTPPurpose) error
	UpdatePassword(ctx context.Context, accountID, passwordHash string) error

	// ReplaceChallenge inserts the new challenge and consumes every other
	// active challenge for its (identifier, purpose) pair, atomically. The
	// insert is conditional on no challenge for the pair being younger than
	// cooldown; false means the cooldown is still running and nothing changed.
	ReplaceChallenge(ctx context.Context, challenge *OTPChallenge, cooldown time.Duration) (bool, error)
	LatestChallenge(ctx context.Context, identifier string, purpose OTPPurpose) (*OTPChallenge, error)
	// DecrementChallengeAttempts conditionally decrements and returns the
	// remaining attempt count.
	DecrementChallengeAttempts(ctx context.Context, challengeID string) (int, error)
	// ConsumeChallenge marks the challenge used; false means it was already
	// consumed, exhausted, or expired.
	ConsumeChallenge(ctx context.Context, challengeID string, now time.Time) (bool, error)

	CreateSession(ctx context.Context, session *Session) error
	GetSession(ctx context.Context, id string) (*Session, error)
	ListSessions(ctx context.Context, accountID string) ([]Session, error)
	TerminateSession(ctx context.Context, id string) error
	TouchSession(ctx context.Context, id string) error
	// AdvanceLineage swaps the session's lineage id; false means the old
	// lineage no longer matched or the session is terminated.
	AdvanceLineage(ctx context.Context, sessionID, oldLineageID, newLineageID string) (bool, error)

	RecordLoginAttempt(ctx context.Context, identifier, ip string, success bool) error
	CountRecentFailedAttempts(ctx context.Context, identifier, ip string, window time.Duration) (int, error)
}
