package repository

import (
	"time"

	"github.com/onegreenvn/title-studio-backend/internal/models"
	"github.com/onegreenvn/title-studio-backend/internal/utils"

	"gorm.io/gorm"
)

type GenerationLogRepository struct {
	db *gorm.DB
}

func NewGenerationLogRepository(db *gorm.DB) *GenerationLogRepository {
	return &GenerationLogRepository{db: db}
}

// Create creates a new generation log entry
func (r *GenerationLogRepository) Create(log *models.GenerationLog) error {
	return r.db.Create(log).Error
}

// GetByUserID returns a user's generation attempts, newest first, paginated
func (r *GenerationLogRepository) GetByUserID(userID string, page, pageSize int) ([]models.GenerationLog, int64, error) {
	var logs []models.GenerationLog
	var total int64

	query := r.db.Model(&models.GenerationLog{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("created_at DESC").
		Offset(utils.CalculateOffset(page, pageSize)).
		Limit(pageSize).
		Find(&logs).Error
	if err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

// DeleteOlderThan deletes log entries created before the cutoff
func (r *GenerationLogRepository) DeleteOlderThan(cutoff time.Time) error {
	return r.db.Where("created_at < ?", cutoff).Delete(&models.GenerationLog{}).Error
}
