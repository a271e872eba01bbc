package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/driveshare/auth-service/internal/auth/domain"
	autherror "github.com/driveshare/auth-service/internal/errors"
	authconstant "github.com/driveshare/auth-service/pkg/constant"
)

// OTPService issues and validates one-time codes. One challenge per
// (identifier, purpose) pair is active at a time; issuing a new code
// invalidates the previous one.
type OTPService struct {
	repo        domain.AuthRepository
	codeLength  int
	ttl         time.Duration
	cooldown    time.Duration
	maxAttempts int
}

func NewOTPService(repo domain.AuthRepository, codeLength, expiryMinutes, maxAttempts, cooldownSeconds int) *OTPService {
	if codeLength <= 0 {
		codeLength = authconstant.DefaultOTPLength
	}
	return &OTPService{
		repo:        repo,
		codeLength:  codeLength,
		ttl:         time.Duration(expiryMinutes) * time.Minute,
		cooldown:    time.Duration(cooldownSeconds) * time.Second,
		maxAttempts: maxAttempts,
	}
}

// Issue generates a fresh challenge for the pair, replacing any active one.
// A second issue inside the cooldown window is rejected rather than silently
// reusing the prior code. The read here is only a fast path; the store
// re-checks the cooldown inside the replace transaction, so concurrent issues
// across instances cannot both get through.
func (s *OTPService) Issue(ctx context.Context, identifier string, purpose domain.OTPPurpose) (*domain.OTPChallenge, error) {
	latest, err := s.repo.LatestChallenge(ctx, identifier, purpose)
	if err != nil {
		return nil, err
	}
	if latest != nil && time.Since(latest.CreatedAt) < s.cooldown {
		return nil, autherror.ErrOTPRateLimited
	}

	code, err := s.generateCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate otp code: %w", err)
	}

	now := time.Now()
	challenge := &domain.OTPChallenge{
		ID:                uuid.NewString(),
		Identifier:        identifier,
		Purpose:           purpose,
		Code:              code,
		AttemptsRemaining: s.maxAttempts,
		Consumed:          false,
		ExpiresAt:         now.Add(s.ttl),
		CreatedAt:         now,
	}

	replaced, err := s.repo.ReplaceChallenge(ctx, challenge, s.cooldown)
	if err != nil {
		return nil, err
	}
	if !replaced {
		return nil, autherror.ErrOTPRateLimited
	}

	return challenge, nil
}

// Validate checks the supplied code against the pair's newest challenge.
// Wrong codes burn an attempt; burning the last one makes the challenge
// terminal even for a later correct code. A correct code consumes the
// challenge exactly once.
func (s *OTPService) Validate(ctx context.Context, identifier string, purpose domain.OTPPurpose, code string) error {
	challenge, err := s.repo.LatestChallenge(ctx, identifier, purpose)
	if err != nil {
		return err
	}
	if challenge == nil {
		return autherror.ErrOTPNotFound
	}
	if challenge.Consumed {
		return autherror.ErrOTPAlreadyConsumed
	}
	if challenge.AttemptsRemaining <= 0 {
		return autherror.ErrOTPAttemptsExhausted
	}
	now := time.Now()
	if challenge.Expired(now) {
		return autherror.ErrOTPExpired
	}

	if !strings.EqualFold(code, challenge.Code) {
		remaining, err := s.repo.DecrementChallengeAttempts(ctx, challenge.ID)
		if err != nil {
			return err
		}
		if remaining <= 0 {
			return autherror.ErrOTPAttemptsExhausted
		}
		return autherror.ErrOTPInvalid
	}

	consumed, err := s.repo.ConsumeChallenge(ctx, challenge.ID, now)
	if err != nil {
		return err
	}
	if !consumed {
		// Lost the race against a concurrent validate or reissue.
		return autherror.ErrOTPAlreadyConsumed
	}
	return nil
}

// generateCode draws uniformly from the canonical alphabet using rejection
// sampling, so every code is equally likely.
func (s *OTPService) generateCode() (string, error) {
	const alphabet = authconstant.OTPAlphabet
	limit := byte(256 - 256%len(alphabet))

	code := make([]byte, 0, s.codeLength)
	buf := make([]byte, s.codeLength*2)
	for len(code) < s.codeLength {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			code = append(code, alphabet[int(b)%len(alphabet)])
			if len(code) == s.codeLength {
				break
			}
		}
	}
	return string(code), nil
}
