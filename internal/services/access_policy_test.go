package services_test

import (
	"testing"

	"notes/internal/models"
	"notes/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessPolicies(t *testing.T) {
	note := &models.Note{ID: "n1", OwnerID: "alice"}

	assert.NoError(t, services.OpenAccess{}.Authorize("bob", note))
	assert.NoError(t, services.OpenAccess{}.Authorize("", note))

	assert.NoError(t, services.OwnerOnly{}.Authorize("alice", note))
	assert.ErrorIs(t, services.OwnerOnly{}.Authorize("bob", note), services.ErrForbidden)
	assert.ErrorIs(t, services.OwnerOnly{}.Authorize("", note), services.ErrForbidden)
	assert.ErrorIs(t, services.OwnerOnly{}.Authorize("alice", nil), services.ErrForbidden)
}

func TestPolicyByName(t *testing.T) {
	for name, want := range map[string]services.NoteAccessPolicy{
		"":      services.OpenAccess{},
		"open":  services.OpenAccess{},
		"owner": services.OwnerOnly{},
	} {
		got, err := services.PolicyByName(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := services.PolicyByName("admins")
	assert.Error(t, err)
}
