package services_test

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"testing"

	"notes/internal/database"
	"notes/internal/models"
	"notes/internal/repositories"
	"notes/internal/services"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestMain silences service logging for cleaner output.
func TestMain(m *testing.M) {
	log.Logger = zerolog.Nop()
	os.Exit(m.Run())
}

var dbCounter atomic.Int64

type fatalf interface {
	Helper()
	Fatalf(format string, args ...interface{})
}

// fixture wires both services to a private in-memory SQLite database.
type fixture struct {
	db    *gorm.DB
	notes *services.NoteService
	users *services.UserService
	owner *models.User
}

func newFixture(t fatalf) *fixture {
	t.Helper()
	n := dbCounter.Add(1)
	db, err := database.Open(database.Config{
		Driver: database.DriverSQLite,
		DSN:    fmt.Sprintf("file:services_test_%d?mode=memory&cache=shared", n),
	})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}

	users := services.NewUserService(repositories.NewGORMUserRepository(db), bcrypt.MinCost)
	owner, err := users.Create(context.Background(), fmt.Sprintf("owner%d@example.com", n), "password123")
	if err != nil {
		t.Fatalf("create owner: %v", err)
	}

	return &fixture{
		db:    db,
		notes: services.NewNoteService(repositories.NewGORMNoteRepository(db), nil),
		users: users,
		owner: owner,
	}
}

const shoppingDelta = `{"ops":[{"insert":"milk\n"}]}`
