package user

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pingchat/internal/dbmysql"
)

// prefixSentinel is a maximal code point appended to a search term so
// that `field BETWEEN term AND term+sentinel` approximates a
// starts-with match without a full-text index.
const prefixSentinel = ""

type UserRepository interface {
	// Create upserts the directory record by uid; re-invoking with the
	// same uid overwrites the prior record entirely.
	Create(ctx context.Context, user *dbmysql.User) error
	GetByUID(ctx context.Context, uid string) (*dbmysql.User, error)
	// FindByEmailOrName returns raw matches from two independent
	// prefix-range queries (email lowercased, display name as-is),
	// concatenated. Deduplication is the caller's responsibility.
	FindByEmailOrName(ctx context.Context, term string) ([]*dbmysql.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *dbmysql.User) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(user).Error
}

func (r *userRepository) GetByUID(ctx context.Context, uid string) (*dbmysql.User, error) {
	var user dbmysql.User
	err := r.db.WithContext(ctx).Where("uid = ?", uid).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmailOrName(ctx context.Context, term string) ([]*dbmysql.User, error) {
	emailTerm := strings.ToLower(term)

	var byEmail []*dbmysql.User
	err := r.db.WithContext(ctx).
		Where("email >= ? AND email <= ?", emailTerm, emailTerm+prefixSentinel).
		Find(&byEmail).Error
	if err != nil {
		return nil, err
	}

	var byName []*dbmysql.User
	err = r.db.WithContext(ctx).
		Where("display_name >= ? AND display_name <= ?", term, term+prefixSentinel).
		Find(&byName).Error
	if err != nil {
		return nil, err
	}

	return append(byEmail, byName...), nil
}
