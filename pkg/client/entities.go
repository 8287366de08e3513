package client

import (
	"context"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/armadaproject/cmsbench/internal/common/cmserrors"
	"github.com/armadaproject/cmsbench/pkg/client/domain"
)

// CreateEntity posts record to /<collection> and returns the id the backend assigned to it.
// Rejections are returned as *cmserrors.ErrEntityCreation.
func (c *Client) CreateEntity(ctx context.Context, collection string, record interface{}) (domain.CreatedRecord, error) {
	resp, err := c.do(ctx, http.MethodPost, c.details.Url("/"+strings.Trim(collection, "/")), record)
	if err != nil {
		return domain.CreatedRecord{}, errors.WithStack(&cmserrors.ErrEntityCreation{
			Collection: collection,
			Message:    err.Error(),
		})
	}
	if !resp.OK() {
		return domain.CreatedRecord{}, errors.WithStack(&cmserrors.ErrEntityCreation{
			Collection: collection,
			Status:     resp.StatusCode,
			Message:    errorMessage(resp.Body),
		})
	}

	// Older backends return the record itself, newer ones wrap it in data.
	id := gjson.GetBytes(resp.Body, "id")
	if !id.Exists() {
		id = gjson.GetBytes(resp.Body, "data.id")
	}
	if !id.Exists() || id.String() == "" {
		return domain.CreatedRecord{}, errors.WithStack(&cmserrors.ErrEntityCreation{
			Collection: collection,
			Status:     resp.StatusCode,
			Message:    "response has no id",
		})
	}
	return domain.CreatedRecord{
		Id:         domain.Id(id.String()),
		Collection: collection,
	}, nil
}
