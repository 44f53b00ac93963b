package graph

import (
	"autobooks/src/models"

	"github.com/graphql-go/graphql"
	"github.com/shopspring/decimal"
)

var workspaceTypeEnum = graphql.NewEnum(graphql.EnumConfig{
	Name: "WorkspaceType",
	Values: graphql.EnumValueConfigMap{
		"personal": &graphql.EnumValueConfig{Value: string(models.WorkspacePersonal)},
		"business": &graphql.EnumValueConfig{Value: string(models.WorkspaceBusiness)},
		"both":     &graphql.EnumValueConfig{Value: string(models.WorkspaceBoth)},
	},
})

var categoryFields = graphql.Fields{
	"id":             &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
	"name":           &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
	"type":           &graphql.Field{Type: workspaceTypeEnum},
	"parent_id":      &graphql.Field{Type: graphql.ID},
	"system_defined": &graphql.Field{Type: graphql.Boolean},
}

var childCategoryType = graphql.NewObject(graphql.ObjectConfig{
	Name:   "AssetSubcategory",
	Fields: categoryFields,
})

var assetCategoryType = graphql.NewObject(graphql.ObjectConfig{
	Name: "AssetCategory",
	Fields: graphql.FieldsThunk(func() graphql.Fields {
		fields := graphql.Fields{
			"children": &graphql.Field{Type: graphql.NewList(graphql.NewNonNull(childCategoryType))},
		}
		for name, field := range categoryFields {
			fields[name] = field
		}
		return fields
	}),
})

var accountType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Account",
	Fields: graphql.Fields{
		"id":   &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"name": &graphql.Field{Type: graphql.String},
	},
})

var assetTransactionType = graphql.NewObject(graphql.ObjectConfig{
	Name: "AssetTransaction",
	Fields: graphql.Fields{
		"id":               &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"asset_id":         &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"transaction_id":   &graphql.Field{Type: graphql.ID},
		"type":             &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"amount":           &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
		"transaction_date": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"notes":            &graphql.Field{Type: graphql.String},
		"created_at":       &graphql.Field{Type: graphql.DateTime},
	},
})

var assetInputFields = graphql.InputObjectConfigFieldMap{
	"category_id":         &graphql.InputObjectFieldConfig{Type: graphql.ID},
	"account_id":          &graphql.InputObjectFieldConfig{Type: graphql.ID},
	"name":                &graphql.InputObjectFieldConfig{Type: graphql.String},
	"description":         &graphql.InputObjectFieldConfig{Type: graphql.String},
	"purchase_date":       &graphql.InputObjectFieldConfig{Type: graphql.String},
	"purchase_value":      &graphql.InputObjectFieldConfig{Type: graphql.Float},
	"current_value":       &graphql.InputObjectFieldConfig{Type: graphql.Float},
	"depreciation_method": &graphql.InputObjectFieldConfig{Type: graphql.String},
	"depreciation_rate":   &graphql.InputObjectFieldConfig{Type: graphql.Float},
	"depreciation_period": &graphql.InputObjectFieldConfig{Type: graphql.Int},
	"currency":            &graphql.InputObjectFieldConfig{Type: graphql.String},
}

var createAssetInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "CreateAssetInput",
	Fields: func() graphql.InputObjectConfigFieldMap {
		fields := graphql.InputObjectConfigFieldMap{
			"workspace_id": &graphql.InputObjectFieldConfig{Type: graphql.ID},
		}
		for name, field := range assetInputFields {
			fields[name] = field
		}
		return fields
	}(),
})

var updateAssetInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name:   "UpdateAssetInput",
	Fields: assetInputFields,
})

var addTransactionInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "AddAssetTransactionInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"asset_id":         &graphql.InputObjectFieldConfig{Type: graphql.ID},
		"transaction_id":   &graphql.InputObjectFieldConfig{Type: graphql.ID},
		"type":             &graphql.InputObjectFieldConfig{Type: graphql.String},
		"amount":           &graphql.InputObjectFieldConfig{Type: graphql.Float},
		"transaction_date": &graphql.InputObjectFieldConfig{Type: graphql.String},
		"notes":            &graphql.InputObjectFieldConfig{Type: graphql.String},
	},
})

// The encoders below flatten models into maps so the default field resolver
// can serve them; money travels as Float and dates as YYYY-MM-DD strings.

func money(d decimal.NullDecimal) interface{} {
	if !d.Valid {
		return nil
	}
	return d.Decimal.InexactFloat64()
}

func date(d *models.Date) interface{} {
	if d == nil {
		return nil
	}
	return d.String()
}

func str(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

func integer(i *int) interface{} {
	if i == nil {
		return nil
	}
	return *i
}

func category(c models.AssetCategory) map[string]interface{} {
	return map[string]interface{}{
		"id":             c.ID,
		"name":           c.Name,
		"type":           string(c.Type),
		"parent_id":      str(c.ParentID),
		"system_defined": c.SystemDefined,
	}
}

func categoryNode(n models.CategoryNode) map[string]interface{} {
	node := category(n.AssetCategory)
	children := make([]map[string]interface{}, 0, len(n.Children))
	for _, child := range n.Children {
		children = append(children, category(child))
	}
	node["children"] = children
	return node
}

func asset(a models.Asset) map[string]interface{} {
	out := map[string]interface{}{
		"id":                  a.ID,
		"workspace_id":        a.WorkspaceID,
		"category_id":         a.CategoryID,
		"account_id":          a.AccountID,
		"name":                a.Name,
		"description":         str(a.Description),
		"purchase_date":       date(a.PurchaseDate),
		"purchase_value":      money(a.PurchaseValue),
		"current_value":       money(a.CurrentValue),
		"depreciation_method": nil,
		"depreciation_rate":   money(a.DepreciationRate),
		"depreciation_period": integer(a.DepreciationPeriod),
		"currency":            a.Currency,
		"is_deleted":          a.IsDeleted,
		"created_at":          a.CreatedAt,
		"updated_at":          a.UpdatedAt,
		"_category":           a.Category,
		"_account":            a.Account,
	}
	if a.DepreciationMethod != nil {
		out["depreciation_method"] = string(*a.DepreciationMethod)
	}
	return out
}

func transaction(t models.AssetTransaction) map[string]interface{} {
	return map[string]interface{}{
		"id":               t.ID,
		"asset_id":         t.AssetID,
		"transaction_id":   str(t.TransactionID),
		"type":             string(t.Type),
		"amount":           t.Amount.InexactFloat64(),
		"transaction_date": t.TransactionDate.String(),
		"notes":            str(t.Notes),
		"created_at":       t.CreatedAt,
	}
}
