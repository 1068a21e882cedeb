package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/monad-vault/internal/logger"
	"github.com/MKhiriev/monad-vault/internal/mock"
	"github.com/MKhiriev/monad-vault/models"
)

var errDiskFull = errors.New("disk full")

func TestInitializeStorageFailure(t *testing.T) {
	// Arrange
	ctrl := gomock.NewController(t)
	kv := mock.NewMockKVStore(ctrl)
	keychain := mock.NewMockKeyChainService(ctrl)

	kv.EXPECT().Get(gomock.Any(), authRecordKey).Return(nil, errDiskFull)

	svc := NewService(kv, keychain, logger.Nop(), Options{})

	// Act
	_, err := svc.Initialize(context.Background())

	// Assert
	assert.ErrorIs(t, err, errDiskFull)
}

func TestSetPasswordPersistFailureLeavesSessionLocked(t *testing.T) {
	// Arrange
	ctrl := gomock.NewController(t)
	kv := mock.NewMockKVStore(ctrl)
	keychain := mock.NewMockKeyChainService(ctrl)

	params := models.KdfParams{MemoryKiB: 64 * 1024, Time: 1, Parallelism: 4}
	keychain.EXPECT().DefaultParams().Return(params).AnyTimes()
	keychain.EXPECT().DeriveKey(testPassword, gomock.Nil(), params).Return(nil, []byte("salt-bytes"), nil)
	keychain.EXPECT().HashSecret(testPassword).Return("hashed")
	kv.EXPECT().Set(gomock.Any(), authRecordKey, gomock.Any()).Return(errDiskFull)

	svc := NewService(kv, keychain, logger.Nop(), Options{})

	// Act
	err := svc.SetPassword(context.Background(), testPassword, "")

	// Assert
	require.ErrorIs(t, err, errDiskFull)
	assert.False(t, svc.State().Unlocked, "a failed persist must not unlock the session")
	assert.False(t, svc.State().HasPassword)
}

func TestUnlockStorageFailure(t *testing.T) {
	// Arrange
	ctrl := gomock.NewController(t)
	kv := mock.NewMockKVStore(ctrl)
	keychain := mock.NewMockKeyChainService(ctrl)

	kv.EXPECT().Get(gomock.Any(), authRecordKey).Return(nil, errDiskFull)

	svc := NewService(kv, keychain, logger.Nop(), Options{})

	// Act
	err := svc.Unlock(context.Background(), testPassword)

	// Assert
	assert.ErrorIs(t, err, errDiskFull)
	assert.False(t, svc.State().Unlocked)
}
