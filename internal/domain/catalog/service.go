package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/Barbearia-Digital/service-booking/internal/domain"
)

// Service is a haircut offered by the shop ("corte").
type Service struct {
	id          int64
	name        string
	description string
	priceCents  int64
	createdAt   time.Time
}

// NewService creates a catalog entry. The price must be positive.
func NewService(name, description string, priceCents int64) (*Service, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("nome é obrigatório")
	}
	if priceCents <= 0 {
		return nil, domain.NewValidationError("preco deve ser maior que zero")
	}
	return &Service{
		name:        name,
		description: strings.TrimSpace(description),
		priceCents:  priceCents,
		createdAt:   time.Now().UTC(),
	}, nil
}

// Reconstruct rebuilds a Service from persistence.
func Reconstruct(id int64, name, description string, priceCents int64, createdAt time.Time) *Service {
	return &Service{id: id, name: name, description: description, priceCents: priceCents, createdAt: createdAt}
}

// AssignID is called by the repository once the row has a key.
func (s *Service) AssignID(id int64) { s.id = id }

func (s *Service) ID() int64           { return s.id }
func (s *Service) Name() string        { return s.name }
func (s *Service) Description() string { return s.description }
func (s *Service) PriceCents() int64   { return s.priceCents }
func (s *Service) CreatedAt() time.Time { return s.createdAt }

// ServiceRepository defines persistence operations for the catalog.
type ServiceRepository interface {
	Save(ctx context.Context, s *Service) error
	FindByID(ctx context.Context, id int64) (*Service, error)
	// FindByName matches case-insensitively.
	FindByName(ctx context.Context, name string) (*Service, error)
	List(ctx context.Context) ([]*Service, error)
}
