// Package memberstore persists member accounts with gorm and adapts them
// to the engine's PrincipalProvider interface. Production runs on
// postgres; tests swap in sqlite through the same *gorm.DB handle.
package memberstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	lectureauth "github.com/ktnu/lectureauth"
)

// ErrDuplicateEmail reports a registration against an email that already
// has an account.
var ErrDuplicateEmail = errors.New("memberstore: email already registered")

// DefaultRole is assigned to newly registered members.
const DefaultRole = "USER"

// Member is the persisted account row.
type Member struct {
	ID           int64  `gorm:"primaryKey"`
	Username     string `gorm:"size:64;not null"`
	Email        string `gorm:"size:255;not null;uniqueIndex"`
	PasswordHash string `gorm:"size:255;not null"`
	Role         string `gorm:"size:32;not null"`
	Active       bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Store implements lectureauth.PrincipalProvider over a gorm handle.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates the members table.
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&Member{})
}

// Create registers a new member with an already-hashed credential.
func (s *Store) Create(ctx context.Context, username, email, passwordHash string) (Member, error) {
	member := Member{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         DefaultRole,
		Active:       true,
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&Member{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return Member{}, storeError(err)
	}
	if count > 0 {
		return Member{}, ErrDuplicateEmail
	}

	if err := s.db.WithContext(ctx).Create(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return Member{}, ErrDuplicateEmail
		}
		return Member{}, storeError(err)
	}
	return member, nil
}

func (s *Store) FindByEmail(ctx context.Context, email string) (lectureauth.Principal, error) {
	var member Member
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&member).Error
	if err != nil {
		return lectureauth.Principal{}, lookupError(err)
	}
	return toPrincipal(member), nil
}

func (s *Store) FindByNameAndEmail(ctx context.Context, name, email string) (lectureauth.Principal, error) {
	var member Member
	err := s.db.WithContext(ctx).Where("username = ? AND email = ?", name, email).First(&member).Error
	if err != nil {
		return lectureauth.Principal{}, lookupError(err)
	}
	return toPrincipal(member), nil
}

func (s *Store) FindByID(ctx context.Context, id int64) (lectureauth.Principal, error) {
	var member Member
	err := s.db.WithContext(ctx).First(&member, id).Error
	if err != nil {
		return lectureauth.Principal{}, lookupError(err)
	}
	return toPrincipal(member), nil
}

func (s *Store) UpdateCredentialHash(ctx context.Context, id int64, hash string) error {
	result := s.db.WithContext(ctx).Model(&Member{}).Where("id = ?", id).Update("password_hash", hash)
	if result.Error != nil {
		return storeError(result.Error)
	}
	if result.RowsAffected == 0 {
		return lectureauth.ErrPrincipalNotFound
	}
	return nil
}

// Deactivate soft-deletes the account. Outstanding access tokens keep
// working until they expire; refresh is cut off at the engine.
func (s *Store) Deactivate(ctx context.Context, id int64) error {
	result := s.db.WithContext(ctx).Model(&Member{}).Where("id = ?", id).Update("active", false)
	if result.Error != nil {
		return storeError(result.Error)
	}
	if result.RowsAffected == 0 {
		return lectureauth.ErrPrincipalNotFound
	}
	return nil
}

func toPrincipal(m Member) lectureauth.Principal {
	return lectureauth.Principal{
		ID:             m.ID,
		Name:           m.Username,
		Email:          m.Email,
		CredentialHash: m.PasswordHash,
		Role:           m.Role,
		Active:         m.Active,
	}
}

func lookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return lectureauth.ErrPrincipalNotFound
	}
	return storeError(err)
}

func storeError(err error) error {
	return fmt.Errorf("%w: %v", lectureauth.ErrStoreUnavailable, err)
}
