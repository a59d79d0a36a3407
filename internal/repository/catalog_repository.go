package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/Barbearia-Digital/service-booking/internal/domain"
	"github.com/Barbearia-Digital/service-booking/internal/domain/catalog"
	"gorm.io/gorm"
)

// ServiceModel is the GORM model for the cortes table.
type ServiceModel struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	Name        string    `gorm:"type:varchar(100);not null"`
	Description string    `gorm:"type:text"`
	PriceCents  int64     `gorm:"not null"`
	CreatedAt   time.Time `gorm:"type:timestamptz;not null;default:now()"`
}

// TableName sets the table name.
func (ServiceModel) TableName() string { return "cortes" }

// GormServiceRepository implements catalog.ServiceRepository using GORM.
type GormServiceRepository struct {
	db *gorm.DB
}

// NewGormServiceRepository creates a new GormServiceRepository.
func NewGormServiceRepository(db *gorm.DB) *GormServiceRepository {
	return &GormServiceRepository{db: db}
}

// Save persists a new catalog entry.
func (r *GormServiceRepository) Save(ctx context.Context, s *catalog.Service) error {
	model := ServiceModel{
		Name:        s.Name(),
		Description: s.Description(),
		PriceCents:  s.PriceCents(),
		CreatedAt:   s.CreatedAt(),
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return err
	}
	s.AssignID(model.ID)
	return nil
}

// FindByID returns a catalog entry by ID.
func (r *GormServiceRepository) FindByID(ctx context.Context, id int64) (*catalog.Service, error) {
	var model ServiceModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Corte", strconv.FormatInt(id, 10))
		}
		return nil, err
	}
	return toServiceDomain(&model), nil
}

// FindByName returns a catalog entry by name, ignoring case.
func (r *GormServiceRepository) FindByName(ctx context.Context, name string) (*catalog.Service, error) {
	var model ServiceModel
	if err := r.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Corte", name)
		}
		return nil, err
	}
	return toServiceDomain(&model), nil
}

// List returns the catalog ordered by ID.
func (r *GormServiceRepository) List(ctx context.Context) ([]*catalog.Service, error) {
	var models []ServiceModel
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]*catalog.Service, len(models))
	for i := range models {
		out[i] = toServiceDomain(&models[i])
	}
	return out, nil
}

func toServiceDomain(m *ServiceModel) *catalog.Service {
	return catalog.Reconstruct(m.ID, m.Name, m.Description, m.PriceCents, m.CreatedAt)
}
