package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pingchat/internal/common"
	"pingchat/internal/dbmysql"
	"pingchat/internal/user"
)

// Service orchestrates signup, login and logout. All operations are
// single-attempt; failures are classified into the common error
// taxonomy and propagated without retry.
type Service interface {
	Signup(ctx context.Context, email, password, displayName string) (*dbmysql.User, string, error)
	Login(ctx context.Context, email, password string) (*dbmysql.User, string, error)
	Logout(ctx context.Context) error
}

type authService struct {
	creds  user.CredentialRepository
	users  user.UserRepository
	tokens *common.TokenManager
}

func NewService(creds user.CredentialRepository, users user.UserRepository, tokens *common.TokenManager) Service {
	return &authService{creds: creds, users: users, tokens: tokens}
}

// Signup creates the credential first and the directory record second.
// If the directory write fails after the credential write succeeded,
// the error is surfaced verbatim and nothing is rolled back or
// retried: the orphaned credential is an accepted inconsistency window.
func (s *authService) Signup(ctx context.Context, email, password, displayName string) (*dbmysql.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	displayName = strings.TrimSpace(displayName)

	if err := common.ValidateEmail(email); err != nil {
		return nil, "", err
	}
	if err := common.ValidatePassword(password); err != nil {
		return nil, "", err
	}
	if err := common.ValidateDisplayName(displayName); err != nil {
		return nil, "", err
	}

	hashed, err := common.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	uid := uuid.NewString()
	cred := &dbmysql.Credential{
		UID:          uid,
		Email:        email,
		PasswordHash: hashed,
	}
	if err := s.creds.Create(ctx, cred); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", common.ErrAccountExists
		}
		return nil, "", fmt.Errorf("credential creation failed: %w", err)
	}

	record := &dbmysql.User{
		UID:         uid,
		Email:       email,
		DisplayName: displayName,
	}
	if err := s.users.Create(ctx, record); err != nil {
		return nil, "", fmt.Errorf("directory record creation failed: %w", err)
	}

	token, err := s.tokens.Generate(uid, email)
	if err != nil {
		return nil, "", err
	}

	return record, token, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*dbmysql.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if err := common.ValidateEmail(email); err != nil {
		return nil, "", err
	}

	cred, err := s.creds.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", common.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("credential lookup failed: %w", err)
	}

	if err := common.CheckPassword(password, cred.PasswordHash); err != nil {
		return nil, "", common.ErrInvalidCredentials
	}

	record, err := s.users.GetByUID(ctx, cred.UID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", fmt.Errorf("directory lookup failed: %w", err)
		}
		// Orphaned credential: the session is still established from
		// the credential alone.
		record = &dbmysql.User{UID: cred.UID, Email: cred.Email}
	}

	token, err := s.tokens.Generate(cred.UID, cred.Email)
	if err != nil {
		return nil, "", err
	}

	return record, token, nil
}

// Logout always succeeds locally; the session lives in the client-held
// token and is simply dropped.
func (s *authService) Logout(ctx context.Context) error {
	return nil
}
