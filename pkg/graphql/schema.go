// Package graphql exposes a graphql-go schema over HTTP.
package graphql

import (
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/mockshop/pkg/bind"
	"github.com/shashiranjanraj/mockshop/pkg/logger"
	"github.com/shashiranjanraj/mockshop/pkg/response"
)

// NewSchema builds a read-only schema from its root query.
func NewSchema(query *graphql.Object) (graphql.Schema, error) {
	return graphql.NewSchema(graphql.SchemaConfig{Query: query})
}

// Request is the standard GraphQL-over-HTTP body.
type Request struct {
	Query         string         `json:"query" validate:"required"`
	Variables     map[string]any `json:"variables"`
	OperationName string         `json:"operationName"`
}

// Handler executes POSTed queries against schema. Results, including
// resolver errors, are written as the standard {data, errors} document.
func Handler(schema graphql.Schema) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req Request
		errs, err := bind.JSON(r, &req)
		if err != nil {
			response.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		if len(errs) > 0 {
			response.ValidationError(w, errs)
			return
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        r.Context(),
		})
		if result.HasErrors() {
			logger.WithCtx(r.Context()).Debug("graphql: query errors", "errors", len(result.Errors))
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			logger.WithCtx(r.Context()).Warn("graphql: encode result", "error", err)
		}
	}
}
