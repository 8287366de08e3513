package client

import (
	"context"
	"net/http"
)

// PostGraphQL sends an already serialized GraphQL request body to the GraphQL endpoint.
// Non-2xx responses are not errors here: load checks need to see them.
func (c *Client) PostGraphQL(ctx context.Context, payload []byte) (*Response, error) {
	return c.do(ctx, http.MethodPost, c.details.GraphqlUrl(), payload)
}
