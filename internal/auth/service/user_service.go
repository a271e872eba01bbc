package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/driveshare/auth-service/config"
	"github.com/driveshare/auth-service/internal/auth/domain"
	"github.com/driveshare/auth-service/internal/auth/dto"
	autherror "github.com/driveshare/auth-service/internal/errors"
	"github.com/driveshare/auth-service/internal/notification"
)

// dummyPasswordHash is compared against when the identifier resolves to no
// account, so unknown identifiers and wrong passwords fail in the same
// latency class and login timing leaks nothing.
var dummyPasswordHash, _ = bcrypt.GenerateFromPassword([]byte("driveshare-no-such-account"), bcrypt.DefaultCost)

// UserService composes identity resolution, credential verification, OTP
// issuance and the token/session lifecycle into the public auth flows.
type UserService struct {
	repo         domain.AuthRepository
	tokenService TokenGenerator
	otpService   *OTPService
	dispatcher   notification.Dispatcher
	cfg          *config.Config
}

func NewUserService(repo domain.AuthRepository, tokenService TokenGenerator, otpService *OTPService,
	dispatcher notification.Dispatcher, cfg *config.Config) *UserService {
	return &UserService{
		repo:         repo,
		tokenService: tokenService,
		otpService:   otpService,
		dispatcher:   dispatcher,
		cfg:          cfg,
	}
}

// Register creates an inactive account and sends a verification code to the
// supplied channel.
func (s *UserService) Register(ctx context.Context, input dto.RegisterInput) (*domain.Account, error) {
	identifier, channel, err := resolveRegistrationChannel(input)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetAccountByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, autherror.ErrIdentifierTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	account := &domain.Account{
		ID:           uuid.NewString(),
		FullName:     input.FullName,
		PasswordHash: string(hashedPassword),
		Active:       false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if channel == notification.ChannelEmail {
		account.Email = &identifier
	} else {
		account.Phone = &identifier
	}

	if err := s.repo.CreateAccount(ctx, account); err != nil {
		return nil, err
	}

	purpose := domain.PurposeEmailVerify
	if channel == notification.ChannelSMS {
		purpose = domain.PurposePhoneVerify
	}
	if err := s.issueAndDispatch(ctx, identifier, purpose, channel); err != nil {
		return nil, err
	}

	return account, nil
}

// Login verifies the credential and issues a login OTP. No tokens are handed
// out until the code is verified. Unknown identifiers and wrong passwords
// fail identically.
func (s *UserService) Login(ctx context.Context, input dto.LoginInput) error {
	identifier, channel, err := classifyIdentifier(input.Identifier)
	if err != nil {
		return autherror.ErrInvalidCredentials
	}

	window := time.Duration(s.cfg.LoginWindowMinutes) * time.Minute
	failures, err := s.repo.CountRecentFailedAttempts(ctx, identifier, input.IPAddress, window)
	if err != nil {
		return err
	}
	if failures >= s.cfg.LoginMaxAttempts {
		return autherror.ErrTooManyLoginAttempts
	}

	account, err := s.repo.GetAccountByIdentifier(ctx, identifier)
	if err != nil {
		return err
	}

	if account == nil {
		_ = bcrypt.CompareHashAndPassword(dummyPasswordHash, []byte(input.Password))
		_ = s.repo.RecordLoginAttempt(ctx, identifier, input.IPAddress, false)
		return autherror.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(input.Password)) != nil {
		_ = s.repo.RecordLoginAttempt(ctx, identifier, input.IPAddress, false)
		return autherror.ErrInvalidCredentials
	}

	if !account.Active {
		return autherror.ErrAccountInactive
	}

	if err := s.issueAndDispatch(ctx, identifier, domain.PurposeLogin, channel); err != nil {
		return err
	}

	if err := s.repo.RecordLoginAttempt(ctx, identifier, input.IPAddress, true); err != nil {
		log.Printf("warn: failed to record login attempt for %s: %v", identifier, err)
	}

	return nil
}

// VerifyOTP validates the pair's active challenge and, on success, opens a
// session and mints a token pair. Channel-verification purposes also flip the
// matching verified flag and activate the account.
func (s *UserService) VerifyOTP(ctx context.Context, input dto.VerifyOTPInput) (*domain.Account, *dto.TokenResponse, error) {
	purpose, err := domain.ParseOTPPurpose(input.OTPType)
	if err != nil {
		return nil, nil, autherror.NewValidationError(map[string]string{"otp_type": err.Error()})
	}

	identifier, _, err := classifyIdentifier(input.Identifier)
	if err != nil {
		return nil, nil, autherror.ErrAccountNotFound
	}

	account, err := s.repo.GetAccountByIdentifier(ctx, identifier)
	if err != nil {
		return nil, nil, err
	}
	if account == nil {
		return nil, nil, autherror.ErrAccountNotFound
	}

	if err := s.otpService.Validate(ctx, identifier, purpose, input.OTPCode); err != nil {
		return nil, nil, err
	}

	switch purpose {
	case domain.PurposeEmailVerify, domain.PurposePhoneVerify:
		if err := s.repo.MarkChannelVerified(ctx, account.ID, purpose); err != nil {
			return nil, nil, err
		}
		account, err = s.repo.GetAccountByID(ctx, account.ID)
		if err != nil {
			return nil, nil, err
		}
	case domain.PurposeLogin:
		if !account.Active {
			return nil, nil, autherror.ErrAccountInactive
		}
	}

	now := time.Now()
	session := &domain.Session{
		ID:         uuid.NewString(),
		AccountID:  account.ID,
		LineageID:  uuid.NewString(),
		IPAddress:  input.IPAddress,
		UserAgent:  input.UserAgent,
		LastSeenAt: now,
		CreatedAt:  now,
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, nil, err
	}

	accessToken, refreshToken, _, err := s.tokenService.Generate(account.ID, session.ID, session.LineageID)
	if err != nil {
		return nil, nil, err
	}

	return account, &dto.TokenResponse{Access: accessToken, Refresh: refreshToken}, nil
}

// ResendOTP reissues the pair's code, subject to the cooldown. Unknown
// identifiers return success so the endpoint cannot be used for enumeration.
func (s *UserService) ResendOTP(ctx context.Context, input dto.ResendOTPInput) error {
	purpose, err := domain.ParseOTPPurpose(input.OTPType)
	if err != nil {
		return autherror.NewValidationError(map[string]string{"otp_type": err.Error()})
	}

	identifier, channel, err := classifyIdentifier(input.Identifier)
	if err != nil {
		return nil
	}

	account, err := s.repo.GetAccountByIdentifier(ctx, identifier)
	if err != nil {
		return err
	}
	if account == nil {
		return nil
	}

	return s.issueAndDispatch(ctx, identifier, purpose, channel)
}

// RequestPasswordReset issues a reset code without requiring a password.
func (s *UserService) RequestPasswordReset(ctx context.Context, input dto.PasswordResetInput) error {
	identifier, channel, err := classifyIdentifier(input.Identifier)
	if err != nil {
		return nil
	}

	account, err := s.repo.GetAccountByIdentifier(ctx, identifier)
	if err != nil {
		return err
	}
	if account == nil {
		return nil
	}

	return s.issueAndDispatch(ctx, identifier, domain.PurposePasswordReset, channel)
}

// ConfirmPasswordReset validates the reset code and replaces the credential.
// It issues no tokens; the client logs in again afterwards.
func (s *UserService) ConfirmPasswordReset(ctx context.Context, input dto.PasswordResetConfirmInput) error {
	identifier, _, err := classifyIdentifier(input.Identifier)
	if err != nil {
		return autherror.ErrAccountNotFound
	}

	account, err := s.repo.GetAccountByIdentifier(ctx, identifier)
	if err != nil {
		return err
	}
	if account == nil {
		return autherror.ErrAccountNotFound
	}

	if err := s.otpService.Validate(ctx, identifier, domain.PurposePasswordReset, input.OTPCode); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.repo.UpdatePassword(ctx, account.ID, string(hashedPassword))
}

// ChangePassword replaces the credential for an authenticated account after
// re-checking the old password.
func (s *UserService) ChangePassword(ctx context.Context, accountID string, input dto.ChangePasswordInput) error {
	account, err := s.repo.GetAccountByID(ctx, accountID)
	if err != nil {
		return err
	}
	if account == nil {
		return autherror.ErrAccountNotFound
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(input.OldPassword)) != nil {
		return autherror.ErrInvalidCredentials
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.repo.UpdatePassword(ctx, account.ID, string(hashedPassword))
}

// Refresh rotates the presented refresh token. A stale lineage id means the
// token was already rotated away: the whole session is revoked before the
// call fails, killing both the attacker's and the legitimate client's tokens.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	claims, err := s.tokenService.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	session, err := s.repo.GetSession(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, autherror.ErrTokenInvalid
	}
	if session.Terminated {
		return nil, autherror.ErrTokenRevoked
	}

	if session.LineageID != claims.LineageID {
		if err := s.repo.TerminateSession(ctx, session.ID); err != nil {
			log.Printf("warn: failed to revoke session %s on token reuse: %v", session.ID, err)
		}
		return nil, autherror.ErrTokenReused
	}

	newLineageID := uuid.NewString()
	swapped, err := s.repo.AdvanceLineage(ctx, session.ID, claims.LineageID, newLineageID)
	if err != nil {
		return nil, err
	}
	if !swapped {
		// A concurrent refresh won the swap; this presentation is a reuse.
		if err := s.repo.TerminateSession(ctx, session.ID); err != nil {
			log.Printf("warn: failed to revoke session %s on token reuse: %v", session.ID, err)
		}
		return nil, autherror.ErrTokenReused
	}

	accessToken, newRefreshToken, _, err := s.tokenService.Generate(session.AccountID, session.ID, newLineageID)
	if err != nil {
		return nil, err
	}

	return &dto.TokenResponse{Access: accessToken, Refresh: newRefreshToken}, nil
}

// AuthorizeAccess verifies a bearer access token and checks that its session
// is still alive. Last-seen is updated off the request path.
func (s *UserService) AuthorizeAccess(ctx context.Context, tokenString string) (*JWTCustomClaims, error) {
	claims, err := s.tokenService.VerifyAccessToken(tokenString)
	if err != nil {
		return nil, err
	}

	session, err := s.repo.GetSession(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, autherror.ErrTokenInvalid
	}
	if session.Terminated {
		return nil, autherror.ErrTokenRevoked
	}

	go func(id string) {
		touchCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.repo.TouchSession(touchCtx, id); err != nil {
			log.Printf("warn: failed to touch session %s: %v", id, err)
		}
	}(session.ID)

	return claims, nil
}

// Logout revokes the caller's session. Already-terminated sessions are fine;
// the operation is idempotent.
func (s *UserService) Logout(ctx context.Context, sessionID string) error {
	return s.repo.TerminateSession(ctx, sessionID)
}

func (s *UserService) Profile(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.repo.GetAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, autherror.ErrAccountNotFound
	}
	return account, nil
}

func (s *UserService) ListSessions(ctx context.Context, accountID string) ([]domain.Session, error) {
	return s.repo.ListSessions(ctx, accountID)
}

// TerminateSession ends one of the caller's own sessions. Terminating a
// session that belongs to someone else is forbidden, not not-found, so the
// caller learns nothing about other accounts' session ids.
func (s *UserService) TerminateSession(ctx context.Context, sessionID, accountID string) error {
	session, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if session == nil {
		return autherror.ErrSessionNotFound
	}
	if session.AccountID != accountID {
		return autherror.ErrForbidden
	}
	return s.repo.TerminateSession(ctx, session.ID)
}

func (s *UserService) issueAndDispatch(ctx context.Context, identifier string, purpose domain.OTPPurpose,
	channel notification.Channel) error {
	challenge, err := s.otpService.Issue(ctx, identifier, purpose)
	if err != nil {
		return err
	}

	s.dispatcher.Dispatch(notification.Message{
		Channel:   channel,
		Recipient: identifier,
		Code:      challenge.Code,
		Purpose:   purpose,
	})
	return nil
}
