package service

import (
	"testing"

	adminRepository "github.com/mraprguild/guardbot/internal/modules/admin/repository"
	adminService "github.com/mraprguild/guardbot/internal/modules/admin/service"
	"github.com/mraprguild/guardbot/internal/modules/settings/repository"
	apperrors "github.com/mraprguild/guardbot/internal/shared/errors"
	"github.com/mraprguild/guardbot/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const superAdminID int64 = 1

func newService(t *testing.T) *Service {
	t.Helper()

	store, err := storage.New(t.TempDir())
	require.NoError(t, err)

	admins := adminService.New(adminRepository.NewStoreStorage(store))
	require.NoError(t, admins.EnsureSuperAdmin(superAdminID))

	return New(repository.NewStoreStorage(store), admins)
}

func TestWelcome_DefaultWhenUnset(t *testing.T) {
	svc := newService(t)

	welcome := svc.Welcome()
	assert.Equal(t, defaultWelcome, welcome.Message)
	assert.Empty(t, welcome.BottomText)
}

func TestSetWelcome(t *testing.T) {
	svc := newService(t)

	require.NoError(t, svc.SetWelcome(superAdminID, "Hello there!", "Enjoy your stay"))

	welcome := svc.Welcome()
	assert.Equal(t, "Hello there!", welcome.Message)
	assert.Equal(t, "Enjoy your stay", welcome.BottomText)
	assert.Equal(t, superAdminID, welcome.UpdatedBy)
}

func TestSetWelcome_RequiresAdmin(t *testing.T) {
	svc := newService(t)

	err := svc.SetWelcome(99, "Hijacked", "")
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	welcome := svc.Welcome()
	assert.Equal(t, defaultWelcome, welcome.Message)
}
