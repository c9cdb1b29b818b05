// Package schema defines the read-only catalog GraphQL schema served at
// /api/graphql.
package schema

import (
	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/mockshop/app/repositories"
	"github.com/shashiranjanraj/mockshop/app/services"
	gql "github.com/shashiranjanraj/mockshop/pkg/graphql"
)

var categoryType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Category",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"name":        &graphql.Field{Type: graphql.String},
		"description": &graphql.Field{Type: graphql.String},
		"slug":        &graphql.Field{Type: graphql.String},
	},
})

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id":            &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"name":          &graphql.Field{Type: graphql.String},
		"description":   &graphql.Field{Type: graphql.String},
		"price":         &graphql.Field{Type: graphql.Float},
		"stockQuantity": &graphql.Field{Type: graphql.Int},
		"images":        &graphql.Field{Type: graphql.NewList(graphql.String)},
		"category":      &graphql.Field{Type: categoryType},
		"averageRating": &graphql.Field{Type: graphql.Float},
		"reviewCount":   &graphql.Field{Type: graphql.Int},
	},
})

func productMap(p services.ProductSummary) map[string]any {
	out := map[string]any{
		"id":            int(p.ID),
		"name":          p.Name,
		"description":   p.Description,
		"price":         p.Price,
		"stockQuantity": p.StockQuantity,
		"images":        p.Images,
		"averageRating": p.AverageRating,
		"reviewCount":   int(p.ReviewCount),
	}
	if p.Category != nil {
		out["category"] = map[string]any{
			"id":          int(p.Category.ID),
			"name":        p.Category.Name,
			"description": p.Category.Description,
			"slug":        p.Category.Slug,
		}
	}
	return out
}

func optionalFloat(args map[string]any, key string) *float64 {
	if v, ok := args[key].(float64); ok {
		return &v
	}
	return nil
}

// Catalog builds the schema over the public catalog service, so GraphQL and
// REST reads share the same cache and filters.
func Catalog(catalog *services.CatalogService) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"categories": &graphql.Field{
				Type: graphql.NewList(categoryType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					list, err := catalog.Categories(p.Context)
					if err != nil {
						return nil, err
					}
					out := make([]map[string]any, len(list))
					for i, c := range list {
						out[i] = map[string]any{
							"id": int(c.ID), "name": c.Name,
							"description": c.Description, "slug": c.Slug,
						}
					}
					return out, nil
				},
			},
			"products": &graphql.Field{
				Type: graphql.NewList(productType),
				Args: graphql.FieldConfigArgument{
					"category": &graphql.ArgumentConfig{Type: graphql.String},
					"search":   &graphql.ArgumentConfig{Type: graphql.String},
					"minPrice": &graphql.ArgumentConfig{Type: graphql.Float},
					"maxPrice": &graphql.ArgumentConfig{Type: graphql.Float},
					"sortBy":   &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					f := repositories.ProductFilter{
						MinPrice: optionalFloat(p.Args, "minPrice"),
						MaxPrice: optionalFloat(p.Args, "maxPrice"),
					}
					f.CategorySlug, _ = p.Args["category"].(string)
					f.Search, _ = p.Args["search"].(string)
					f.SortBy, _ = p.Args["sortBy"].(string)

					list, err := catalog.Products(p.Context, f)
					if err != nil {
						return nil, err
					}
					out := make([]map[string]any, len(list))
					for i, prod := range list {
						out[i] = productMap(prod)
					}
					return out, nil
				},
			},
			"product": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					id, _ := p.Args["id"].(int)
					prod, err := catalog.Product(p.Context, uint(id))
					if err != nil {
						return nil, err
					}
					return productMap(prod), nil
				},
			},
		},
	})
	return gql.NewSchema(query)
}
