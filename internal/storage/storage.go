package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fedguard/appealbot/internal/models"
	"gorm.io/gorm"
)

var ErrAppealNotFound = errors.New("appeal not found")

type Storage struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Storage {
	return &Storage{db: db}
}

func (s *Storage) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&models.Appeal{}); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}
	return nil
}

// CreateAppeal inserts a new appeal in the pending state and returns the
// assigned id.
func (s *Storage) CreateAppeal(
	ctx context.Context,
	userID int64,
	username string,
	appealType models.AppealType,
	submittedAt time.Time,
) (int64, error) {
	appeal := &models.Appeal{
		UserID:      userID,
		Username:    username,
		AppealType:  appealType,
		Status:      models.AppealStatusPending,
		SubmittedAt: submittedAt,
	}

	if err := s.db.WithContext(ctx).Create(appeal).Error; err != nil {
		return 0, fmt.Errorf("creating appeal: %w", err)
	}

	return appeal.ID, nil
}

func (s *Storage) CountByStatus(ctx context.Context, status models.AppealStatus) (int64, error) {
	var total int64
	if err := s.db.
		WithContext(ctx).
		Model(&models.Appeal{}).
		Where("status = ?", status.String()).
		Count(&total).
		Error; err != nil {
		return 0, fmt.Errorf("counting appeals: %w", err)
	}
	return total, nil
}

// ListByStatus returns appeals in ascending id order. The page is short when
// the table is exhausted and empty when offset is past the end.
func (s *Storage) ListByStatus(
	ctx context.Context,
	status models.AppealStatus,
	limit, offset int,
) ([]*models.Appeal, error) {
	var result []*models.Appeal
	if err := s.db.
		WithContext(ctx).
		Where("status = ?", status.String()).
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&result).
		Error; err != nil {
		return nil, fmt.Errorf("listing appeals: %w", err)
	}
	return result, nil
}

// UpdateStatus sets the status unconditionally and returns the number of
// affected rows, zero when the id does not exist.
func (s *Storage) UpdateStatus(ctx context.Context, id int64, status models.AppealStatus) (int64, error) {
	res := s.db.
		WithContext(ctx).
		Model(&models.Appeal{}).
		Where("id = ?", id).
		Update("status", status.String())
	if res.Error != nil {
		return 0, fmt.Errorf("updating appeal status: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (s *Storage) GetAppealUserID(ctx context.Context, id int64) (int64, error) {
	var appeal models.Appeal
	if err := s.db.
		WithContext(ctx).
		Select("user_id").
		Where("id = ?", id).
		First(&appeal).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrAppealNotFound
		}
		return 0, fmt.Errorf("getting appeal user: %w", err)
	}
	return appeal.UserID, nil
}

func (s *Storage) GetAppeal(ctx context.Context, id int64) (*models.Appeal, error) {
	var appeal models.Appeal
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&appeal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAppealNotFound
		}
		return nil, fmt.Errorf("getting appeal: %w", err)
	}
	return &appeal, nil
}
