package repositories

import (
	"errors"
	"fmt"
)

var ErrInvalidScope = errors.New("repository call without a tenant scope")

// Scope restricts every repository call to the rows of one tenant. A user scope
// sees the workspaces the user is a member of; a workspace scope sees exactly one
// workspace and is reserved for system jobs.
type Scope struct {
	userID      string
	workspaceID string
}

func UserScope(userID string) Scope {
	return Scope{userID: userID}
}

func WorkspaceScope(workspaceID string) Scope {
	return Scope{workspaceID: workspaceID}
}

func (s Scope) Valid() bool {
	return (s.userID == "") != (s.workspaceID == "")
}

func (s Scope) UserID() string {
	return s.userID
}

func (s Scope) WorkspaceID() string {
	return s.workspaceID
}

// Filter returns a SQL predicate limiting workspaceColumn to the scope, bound to
// placeholder $n, together with its argument.
func (s Scope) Filter(workspaceColumn string, n int) (string, any, error) {
	if !s.Valid() {
		return "", nil, ErrInvalidScope
	}
	if s.workspaceID != "" {
		return fmt.Sprintf("%s = $%d", workspaceColumn, n), s.workspaceID, nil
	}
	return fmt.Sprintf("%s IN (SELECT wm.workspace_id FROM workspace_members wm WHERE wm.user_id = $%d)", workspaceColumn, n), s.userID, nil
}

// Permits reports whether a row of workspaceID is visible in the scope.
func (s Scope) Permits(workspaceID string, isMember func(userID, workspaceID string) bool) bool {
	if !s.Valid() {
		return false
	}
	if s.workspaceID != "" {
		return s.workspaceID == workspaceID
	}
	return isMember(s.userID, workspaceID)
}
