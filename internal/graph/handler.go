package graph

import (
	"net/http"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/handler"
)

// NewHTTPHandler wraps the schema in a standard GraphQL HTTP handler.
// The handler executes against the request context, so the identity
// middleware upstream is all it takes to authenticate resolvers.
func NewHTTPHandler(schema graphql.Schema, enableGraphiQL bool) http.Handler {
	return handler.New(&handler.Config{
		Schema:   &schema,
		Pretty:   true,
		GraphiQL: enableGraphiQL,
	})
}
