package mailinglist

import (
	"context"
	"testing"

	"github.com/akeren/tablebook/internal/models"
	"github.com/akeren/tablebook/internal/testutil"
	apperrors "github.com/akeren/tablebook/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSignup_WritesUserEmail(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewMailingListRepository(db)

	first, err := repo.CreateSignup(context.Background(), &models.EmailSignup{Email: "guest@example.com"})
	require.NoError(t, err)
	assert.NotZero(t, first.ID)
	assert.False(t, first.CreatedAt.IsZero())

	_, err = repo.CreateSignup(context.Background(), &models.EmailSignup{Email: "guest@example.com"})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Table("user_email").Where("email = ?", "guest@example.com").Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestCreateSignup_StoreFailure(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = NewMailingListRepository(db).CreateSignup(context.Background(), &models.EmailSignup{Email: "guest@example.com"})

	assert.Equal(t, apperrors.ErrorTypeDatabaseError, apperrors.GetErrorType(err))
}
