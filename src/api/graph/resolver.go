package graph

import (
	"encoding/json"

	"autobooks/src/auth"
	"autobooks/src/models"
	"autobooks/src/repositories"
	"autobooks/src/schemas"
	"autobooks/src/services"
	"autobooks/src/utils"

	"github.com/graphql-go/graphql"
)

// Resolver adapts GraphQL fields onto the same services the REST handlers use.
type Resolver struct {
	Categories services.CategoryServiceI
	Assets     services.AssetServiceI
	Valuation  services.ValuationServiceI
}

func scope(p graphql.ResolveParams) (repositories.Scope, error) {
	session, ok := auth.SessionFromContext(p.Context)
	if !ok {
		return repositories.Scope{}, auth.ErrUnauthorized
	}
	return repositories.UserScope(session.UserID), nil
}

// bind decodes a GraphQL input object into a request struct through its JSON tags.
func bind(input interface{}, v interface{}) error {
	raw, err := json.Marshal(input)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return utils.BadRequest("Invalid input: " + err.Error())
	}
	return nil
}

func (r *Resolver) assetCategories(p graphql.ResolveParams) (interface{}, error) {
	kind, _ := p.Args["workspace_type"].(string)
	nodes, err := r.Categories.ListCategories(p.Context, models.WorkspaceType(kind))
	if err != nil {
		return nil, err
	}
	out := make([]map[string]interface{}, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, categoryNode(n))
	}
	return out, nil
}

func (r *Resolver) assets(p graphql.ResolveParams) (interface{}, error) {
	sc, err := scope(p)
	if err != nil {
		return nil, err
	}
	workspaceID, _ := p.Args["workspace_id"].(string)
	assets, err := r.Assets.ListAssets(p.Context, sc, workspaceID)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]interface{}, 0, len(assets))
	for _, a := range assets {
		out = append(out, asset(a))
	}
	return out, nil
}

func (r *Resolver) asset(p graphql.ResolveParams) (interface{}, error) {
	sc, err := scope(p)
	if err != nil {
		return nil, err
	}
	id, _ := p.Args["id"].(string)
	detail, err := r.Assets.GetAsset(p.Context, sc, id)
	if err != nil {
		return nil, err
	}
	out := asset(detail.Asset)
	out["_transactions"] = detail.Transactions
	return out, nil
}

func (r *Resolver) assetCategory(p graphql.ResolveParams) (interface{}, error) {
	src, _ := p.Source.(map[string]interface{})
	ref, _ := src["_category"].(*models.CategoryRef)
	if ref == nil {
		return nil, nil
	}
	return map[string]interface{}{"id": ref.ID, "name": ref.Name}, nil
}

func (r *Resolver) assetAccount(p graphql.ResolveParams) (interface{}, error) {
	src, _ := p.Source.(map[string]interface{})
	ref, _ := src["_account"].(*models.AccountRef)
	if ref == nil {
		return nil, nil
	}
	return map[string]interface{}{"id": ref.ID, "name": ref.Name}, nil
}

// assetTransactions reuses the transactions loaded with the asset detail and
// fetches them otherwise.
func (r *Resolver) assetTransactions(p graphql.ResolveParams) (interface{}, error) {
	src, _ := p.Source.(map[string]interface{})
	transactions, loaded := src["_transactions"].([]models.AssetTransaction)
	if !loaded {
		sc, err := scope(p)
		if err != nil {
			return nil, err
		}
		id, _ := src["id"].(string)
		transactions, err = r.Valuation.ListTransactions(p.Context, sc, id)
		if err != nil {
			return nil, err
		}
	}
	out := make([]map[string]interface{}, 0, len(transactions))
	for _, t := range transactions {
		out = append(out, transaction(t))
	}
	return out, nil
}

func (r *Resolver) createAsset(p graphql.ResolveParams) (interface{}, error) {
	sc, err := scope(p)
	if err != nil {
		return nil, err
	}
	var req schemas.CreateAssetRequest
	if err := bind(p.Args["input"], &req); err != nil {
		return nil, err
	}
	created, err := r.Assets.CreateAsset(p.Context, sc, &req)
	if err != nil {
		return nil, err
	}
	return asset(*created), nil
}

func (r *Resolver) updateAsset(p graphql.ResolveParams) (interface{}, error) {
	sc, err := scope(p)
	if err != nil {
		return nil, err
	}
	var req schemas.UpdateAssetRequest
	if err := bind(p.Args["input"], &req); err != nil {
		return nil, err
	}
	req.ID, _ = p.Args["id"].(string)
	updated, err := r.Assets.UpdateAsset(p.Context, sc, &req)
	if err != nil {
		return nil, err
	}
	return asset(*updated), nil
}

func (r *Resolver) deleteAsset(p graphql.ResolveParams) (interface{}, error) {
	sc, err := scope(p)
	if err != nil {
		return nil, err
	}
	id, _ := p.Args["id"].(string)
	if err := r.Assets.DeleteAsset(p.Context, sc, id); err != nil {
		return nil, err
	}
	return true, nil
}

func (r *Resolver) addAssetTransaction(p graphql.ResolveParams) (interface{}, error) {
	sc, err := scope(p)
	if err != nil {
		return nil, err
	}
	var req schemas.AddTransactionRequest
	if err := bind(p.Args["input"], &req); err != nil {
		return nil, err
	}
	created, err := r.Valuation.AddTransaction(p.Context, sc, &req)
	if err != nil {
		return nil, err
	}
	return transaction(*created), nil
}
