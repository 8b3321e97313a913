package services

import (
	"context"
	"errors"

	"hemicycle/internal/logger"
	"hemicycle/internal/models"
	"hemicycle/internal/utils"

	"gorm.io/gorm"
)

// PageResult is the envelope of every paginated listing.
type PageResult[T any] struct {
	Items   []T   `json:"items"`
	Total   int64 `json:"total"`
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
}

func paginate[T any](query *gorm.DB, page utils.Page, preloads ...string) (*PageResult[T], error) {
	out := &PageResult[T]{Items: []T{}, Page: page.Page, PerPage: page.PerPage}
	query = query.Session(&gorm.Session{})
	if err := query.Count(&out.Total).Error; err != nil {
		return nil, err
	}
	if out.Total == 0 {
		return out, nil
	}
	find := query.Offset(page.Offset()).Limit(page.PerPage)
	for _, p := range preloads {
		find = find.Preload(p)
	}
	if err := find.Find(&out.Items).Error; err != nil {
		return nil, err
	}
	return out, nil
}

type LegislatorFilter struct {
	Chamber models.Chamber
	GroupID uint
	Active  *bool
}

type LegislatorService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLegislatorService(db *gorm.DB, baseLog *logger.Logger) *LegislatorService {
	return &LegislatorService{db: db, log: baseLog.With("service", "LegislatorService")}
}

func (s *LegislatorService) Groups(ctx context.Context, chamber models.Chamber) ([]models.PoliticalGroup, error) {
	var groups []models.PoliticalGroup
	q := s.db.WithContext(ctx).Order("chamber ASC, rank ASC, name ASC")
	if chamber != "" {
		q = q.Where("chamber = ?", chamber)
	}
	err := q.Find(&groups).Error
	return groups, err
}

func (s *LegislatorService) List(ctx context.Context, f LegislatorFilter, page utils.Page) (*PageResult[models.Legislator], error) {
	q := s.db.WithContext(ctx).Model(&models.Legislator{})
	if f.Chamber != "" {
		q = q.Where("chamber = ?", f.Chamber)
	}
	if f.GroupID != 0 {
		q = q.Where("group_id = ?", f.GroupID)
	}
	if f.Active != nil {
		q = q.Where("active = ?", *f.Active)
	}
	return paginate[models.Legislator](q.Order("last_name ASC, first_name ASC, id ASC"), page, "Group")
}

func (s *LegislatorService) Get(ctx context.Context, id uint) (*models.Legislator, error) {
	var leg models.Legislator
	err := s.db.WithContext(ctx).Preload("Group").First(&leg, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("legislator", id)
	}
	if err != nil {
		return nil, err
	}
	return &leg, nil
}
