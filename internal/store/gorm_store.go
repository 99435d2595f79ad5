package store

import (
	"context"
	"errors"
	"fmt"

	"quiz-master-backend/internal/models"

	"gorm.io/gorm"
)

// GormStore keeps results in the game_results and game_result_entries tables.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func orderedEntries(db *gorm.DB) *gorm.DB {
	return db.Order("rank ASC")
}

func (s *GormStore) Save(ctx context.Context, result *models.GameResult) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.GameResult{}).Where("id = ?", result.ID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrResultExists
		}
		return tx.Create(result).Error
	})
	if errors.Is(err, ErrResultExists) {
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}
	return nil
}

func (s *GormStore) List(ctx context.Context, limit int) ([]models.GameResult, error) {
	if limit <= 0 {
		return nil, nil
	}

	var results []models.GameResult
	err := s.db.WithContext(ctx).
		Preload("Entries", orderedEntries).
		Order("finished_at DESC").
		Limit(limit).
		Find(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	return results, nil
}

func (s *GormStore) GetByCode(ctx context.Context, code string) (*models.GameResult, error) {
	var result models.GameResult
	err := s.db.WithContext(ctx).
		Where("code = ?", code).
		Preload("Entries", orderedEntries).
		Order("finished_at DESC").
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrResultNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get result: %w", err)
	}
	return &result, nil
}
