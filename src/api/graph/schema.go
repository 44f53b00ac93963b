package graph

import (
	"context"

	"autobooks/src/schemas"

	"github.com/graphql-go/graphql"
)

// Schema is the executable GraphQL façade over the asset services.
type Schema struct {
	schema graphql.Schema
}

func NewSchema(r *Resolver) (*Schema, error) {
	assetType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Asset",
		Fields: graphql.Fields{
			"id":                  &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"workspace_id":        &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"category_id":         &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"account_id":          &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"name":                &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"description":         &graphql.Field{Type: graphql.String},
			"purchase_date":       &graphql.Field{Type: graphql.String},
			"purchase_value":      &graphql.Field{Type: graphql.Float},
			"current_value":       &graphql.Field{Type: graphql.Float},
			"depreciation_method": &graphql.Field{Type: graphql.String},
			"depreciation_rate":   &graphql.Field{Type: graphql.Float},
			"depreciation_period": &graphql.Field{Type: graphql.Int},
			"currency":            &graphql.Field{Type: graphql.String},
			"is_deleted":          &graphql.Field{Type: graphql.Boolean},
			"created_at":          &graphql.Field{Type: graphql.DateTime},
			"updated_at":          &graphql.Field{Type: graphql.DateTime},
			"category":            &graphql.Field{Type: assetCategoryType, Resolve: r.assetCategory},
			"account":             &graphql.Field{Type: accountType, Resolve: r.assetAccount},
			"transactions": &graphql.Field{
				Type:    graphql.NewList(graphql.NewNonNull(assetTransactionType)),
				Resolve: r.assetTransactions,
			},
		},
	})

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"assetCategories": &graphql.Field{
				Type: graphql.NewList(graphql.NewNonNull(assetCategoryType)),
				Args: graphql.FieldConfigArgument{
					"workspace_type": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.assetCategories,
			},
			"assets": &graphql.Field{
				Type: graphql.NewList(graphql.NewNonNull(assetType)),
				Args: graphql.FieldConfigArgument{
					"workspace_id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: r.assets,
			},
			"asset": &graphql.Field{
				Type: assetType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: r.asset,
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createAsset": &graphql.Field{
				Type: assetType,
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(createAssetInput)},
				},
				Resolve: r.createAsset,
			},
			"updateAsset": &graphql.Field{
				Type: assetType,
				Args: graphql.FieldConfigArgument{
					"id":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(updateAssetInput)},
				},
				Resolve: r.updateAsset,
			},
			"deleteAsset": &graphql.Field{
				Type: graphql.Boolean,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: r.deleteAsset,
			},
			"addAssetTransaction": &graphql.Field{
				Type: assetTransactionType,
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(addTransactionInput)},
				},
				Resolve: r.addAssetTransaction,
			},
		},
	})

	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
	})
	if err != nil {
		return nil, err
	}
	return &Schema{schema: schema}, nil
}

func (s *Schema) Execute(ctx context.Context, req schemas.GraphQLRequest) *graphql.Result {
	return graphql.Do(graphql.Params{
		Schema:         s.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        ctx,
	})
}
