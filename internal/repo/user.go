package repo

import (
	"time"

	"github.com/SahilDudhatWork/Synthia.AI/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepo struct {
	db *gorm.DB
}

type UserRepoInterface interface {
	GetByID(id uuid.UUID) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Upsert(user *models.User) error
	Update(id uuid.UUID, fields map[string]interface{}) error
}

func NewUserRepository(db *gorm.DB) UserRepoInterface {
	return &UserRepo{db: db}
}

func (r *UserRepo) GetByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, notFound(err, "get user")
	}
	return &user, nil
}

func (r *UserRepo) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, notFound(err, "get user by email")
	}
	return &user, nil
}

// Upsert creates the profile row on first visit to settings and refreshes it
// afterwards.
func (r *UserRepo) Upsert(user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.UpdatedAt = time.Now()
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "name", "avatar_url", "timezone", "locale", "updated_at"}),
	}).Create(user).Error
}

func (r *UserRepo) Update(id uuid.UUID, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	result := r.db.Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return notFound(result.Error, "update user")
	}
	if result.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "update user")
	}
	return nil
}

type AppUserRepo struct {
	db *gorm.DB
}

type AppUserRepoInterface interface {
	GetByEmail(email string) (*models.AppUser, error)
}

func NewAppUserRepository(db *gorm.DB) AppUserRepoInterface {
	return &AppUserRepo{db: db}
}

func (r *AppUserRepo) GetByEmail(email string) (*models.AppUser, error) {
	var user models.AppUser
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, notFound(err, "get app user")
	}
	return &user, nil
}
