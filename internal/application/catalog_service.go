package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/Barbearia-Digital/service-booking/internal/domain"
	"github.com/Barbearia-Digital/service-booking/internal/domain/catalog"
	"github.com/Barbearia-Digital/service-booking/internal/pricing"
	"go.uber.org/zap"
)

// CreateServiceRequest holds data to add a haircut to the catalog.
type CreateServiceRequest struct {
	Name        string  `json:"nome" binding:"required"`
	Description string  `json:"descricao"`
	Price       float64 `json:"preco" binding:"required"`
}

// ServiceDTO is the API representation of a catalog entry.
type ServiceDTO struct {
	ID          int64   `json:"id"`
	Name        string  `json:"nome"`
	Description string  `json:"descricao"`
	Price       float64 `json:"preco"`
}

// CatalogService handles catalog use cases.
type CatalogService struct {
	repo   catalog.ServiceRepository
	logger *zap.Logger
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(repo catalog.ServiceRepository, logger *zap.Logger) *CatalogService {
	return &CatalogService{repo: repo, logger: logger}
}

// ListServices returns the whole catalog.
func (s *CatalogService) ListServices(ctx context.Context) ([]*ServiceDTO, error) {
	services, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	dtos := make([]*ServiceDTO, len(services))
	for i, svc := range services {
		dtos[i] = toServiceDTO(svc)
	}
	return dtos, nil
}

// CreateService adds a catalog entry (admin only). Names are unique ignoring case.
func (s *CatalogService) CreateService(ctx context.Context, req CreateServiceRequest) (*ServiceDTO, error) {
	if _, err := s.repo.FindByName(ctx, req.Name); err == nil {
		return nil, domain.NewConflictError(fmt.Sprintf("corte já cadastrado: %s", req.Name))
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	svc, err := catalog.NewService(req.Name, req.Description, pricing.FromDecimal(req.Price))
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, svc); err != nil {
		return nil, fmt.Errorf("failed to save service: %w", err)
	}

	s.logger.Info("service created", zap.Int64("id", svc.ID()), zap.String("nome", svc.Name()))
	return toServiceDTO(svc), nil
}

func toServiceDTO(s *catalog.Service) *ServiceDTO {
	return &ServiceDTO{
		ID:          s.ID(),
		Name:        s.Name(),
		Description: s.Description(),
		Price:       pricing.ToDecimal(s.PriceCents()),
	}
}
