package repositories_test

import (
	"testing"

	"autobooks/src/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeFilter(t *testing.T) {
	t.Run("user scope restricts to memberships", func(t *testing.T) {
		filter, arg, err := repositories.UserScope("u1").Filter("a.workspace_id", 3)
		require.NoError(t, err)
		assert.Equal(t, "a.workspace_id IN (SELECT wm.workspace_id FROM workspace_members wm WHERE wm.user_id = $3)", filter)
		assert.Equal(t, "u1", arg)
	})

	t.Run("workspace scope restricts to one workspace", func(t *testing.T) {
		filter, arg, err := repositories.WorkspaceScope("w1").Filter("workspace_id", 2)
		require.NoError(t, err)
		assert.Equal(t, "workspace_id = $2", filter)
		assert.Equal(t, "w1", arg)
	})

	t.Run("zero scope is rejected", func(t *testing.T) {
		_, _, err := repositories.Scope{}.Filter("workspace_id", 1)
		assert.ErrorIs(t, err, repositories.ErrInvalidScope)
	})
}

func TestScopePermits(t *testing.T) {
	members := map[string]string{"w1": "u1"}
	isMember := func(userID, workspaceID string) bool { return members[workspaceID] == userID }

	assert.True(t, repositories.UserScope("u1").Permits("w1", isMember))
	assert.False(t, repositories.UserScope("u2").Permits("w1", isMember))
	assert.True(t, repositories.WorkspaceScope("w1").Permits("w1", isMember))
	assert.False(t, repositories.WorkspaceScope("w2").Permits("w1", isMember))
	assert.False(t, repositories.Scope{}.Permits("w1", isMember))
}
