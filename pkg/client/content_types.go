package client

import (
	"context"
	"net/http"

	"github.com/pkg/errors"

	"github.com/armadaproject/cmsbench/internal/common/cmserrors"
)

const contentTypesPath = "/content-type-builder/content-types"

// CreateContentType posts a content-type definition to the admin content-type builder.
// name is only used for error reporting.
func (c *Client) CreateContentType(ctx context.Context, name string, definition interface{}) error {
	return c.contentTypeCall(ctx, http.MethodPost, c.details.Url(contentTypesPath), "create", name, definition)
}

// UpdateContentType replaces the definition of the content type with the given uid,
// e.g. "application::author.author".
func (c *Client) UpdateContentType(ctx context.Context, uid string, definition interface{}) error {
	return c.contentTypeCall(ctx, http.MethodPut, c.details.Url(contentTypesPath+"/"+uid), "update", uid, definition)
}

func (c *Client) contentTypeCall(ctx context.Context, method, url, operation, name string, definition interface{}) error {
	resp, err := c.do(ctx, method, url, definition)
	if err != nil {
		return errors.WithStack(&cmserrors.ErrSchemaOperation{
			Operation:   operation,
			ContentType: name,
			Message:     err.Error(),
		})
	}
	if !resp.OK() {
		return errors.WithStack(&cmserrors.ErrSchemaOperation{
			Operation:   operation,
			ContentType: name,
			Status:      resp.StatusCode,
			Message:     errorMessage(resp.Body),
		})
	}
	return nil
}
