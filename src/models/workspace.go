package models

type WorkspaceType string

const (
	WorkspacePersonal WorkspaceType = "personal"
	WorkspaceBusiness WorkspaceType = "business"
	// WorkspaceBoth is only valid as a category type; it matches either workspace kind.
	WorkspaceBoth WorkspaceType = "both"
)

// IsQueryKind reports whether t may be used to query categories.
func (t WorkspaceType) IsQueryKind() bool {
	return t == WorkspacePersonal || t == WorkspaceBusiness
}

// Matches reports whether a category of type t is visible to a workspace of kind k.
func (t WorkspaceType) Matches(k WorkspaceType) bool {
	return t == k || t == WorkspaceBoth
}

type Workspace struct {
	ID   string        `json:"id"`
	Name string        `json:"name"`
	Type WorkspaceType `json:"type"`
}

// AccountRef is the summary of an external ledger account joined onto an asset.
type AccountRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
