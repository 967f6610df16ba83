package repo

import (
	"time"

	"github.com/SahilDudhatWork/Synthia.AI/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ImageRepo struct {
	db *gorm.DB
}

type ImageRepoInterface interface {
	Create(image *models.Image) error
}

func NewImageRepository(db *gorm.DB) ImageRepoInterface {
	return &ImageRepo{db: db}
}

func (r *ImageRepo) Create(image *models.Image) error {
	if image.ID == uuid.Nil {
		image.ID = uuid.New()
	}
	image.CreatedAt = time.Now()
	return r.db.Create(image).Error
}
