package repositories_test

import (
	"fmt"
	"sync/atomic"
	"testing"

	"notes/internal/database"
	"notes/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var dbCounter atomic.Int64

// newTestDB opens a private in-memory SQLite database with the schema migrated.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(database.Config{
		Driver: database.DriverSQLite,
		DSN:    fmt.Sprintf("file:repositories_test_%d?mode=memory&cache=shared", dbCounter.Add(1)),
	})
	require.NoError(t, err)
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{Email: email, PasswordHash: "$2a$04$notarealhash"}
	require.NoError(t, db.Create(user).Error)
	return user
}
