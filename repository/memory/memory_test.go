package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/meinhoongagan/conectados/models"
	"github.com/meinhoongagan/conectados/repository"
	"github.com/meinhoongagan/conectados/repository/storetest"
)

func TestStoreContract(t *testing.T) {
	storetest.Run(t, func(*testing.T) repository.Store { return New() })
}

func TestEmailMatchIgnoresCase(t *testing.T) {
	ctx := context.Background()
	s := New()
	u := models.User{Name: "Ana", Email: "ana@example.com", Roles: datatypes.JSONSlice[models.Role]{models.RoleSeeker}, ActiveRole: models.RoleSeeker}
	require.NoError(t, s.Users().Create(ctx, &u))

	dup := models.User{Name: "Otra", Email: "ANA@example.com"}
	assert.ErrorIs(t, s.Users().Create(ctx, &dup), repository.ErrDuplicate)

	got, err := s.Users().FindByEmail(ctx, "Ana@Example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}
