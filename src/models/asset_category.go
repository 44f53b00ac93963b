package models

type AssetCategory struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Type          WorkspaceType `json:"type"`
	ParentID      *string       `json:"parent_id"`
	SystemDefined bool          `json:"system_defined"`
}

// CategoryRef is the summary of a category joined onto an asset.
type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CategoryNode is a top-level category with its direct children.
type CategoryNode struct {
	AssetCategory
	Children []AssetCategory `json:"children"`
}
