package user

import (
	"context"

	"gorm.io/gorm"

	"pingchat/internal/dbmysql"
)

type CredentialRepository interface {
	Create(ctx context.Context, cred *dbmysql.Credential) error
	GetByEmail(ctx context.Context, email string) (*dbmysql.Credential, error)
}

type credentialRepository struct {
	db *gorm.DB
}

func NewCredentialRepository(db *gorm.DB) CredentialRepository {
	return &credentialRepository{db: db}
}

func (r *credentialRepository) Create(ctx context.Context, cred *dbmysql.Credential) error {
	return r.db.WithContext(ctx).Create(cred).Error
}

func (r *credentialRepository) GetByEmail(ctx context.Context, email string) (*dbmysql.Credential, error) {
	var cred dbmysql.Credential
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&cred).Error
	if err != nil {
		return nil, err
	}
	return &cred, nil
}
