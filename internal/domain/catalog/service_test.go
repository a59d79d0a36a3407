package catalog

import (
	"testing"

	"github.com/Barbearia-Digital/service-booking/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewService(t *testing.T) {
	s, err := NewService(" Degradê ", "Corte degradê", 4500)
	require.NoError(t, err)
	assert.Equal(t, "Degradê", s.Name())
	assert.Equal(t, int64(4500), s.PriceCents())

	_, err = NewService("", "x", 4500)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = NewService("Barba", "x", 0)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
