package client

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/armadaproject/cmsbench/internal/common/cmserrors"
)

const loginPath = "/admin/login"

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates with the admin credentials and returns the bearer token found at data.token.
// It makes exactly one attempt; retrying is left to the caller.
func (c *Client) Login(ctx context.Context) (string, error) {
	log.Info("Logging in...")
	resp, err := c.do(ctx, http.MethodPost, c.details.Url(loginPath), loginRequest{
		Email:    c.details.Email,
		Password: c.details.Password,
	})
	if err != nil {
		return "", errors.WithStack(&cmserrors.ErrAuthentication{
			Email:   c.details.Email,
			Message: err.Error(),
		})
	}
	if !resp.OK() {
		return "", errors.WithStack(&cmserrors.ErrAuthentication{
			Email:   c.details.Email,
			Status:  resp.StatusCode,
			Message: errorMessage(resp.Body),
		})
	}

	token := gjson.GetBytes(resp.Body, "data.token")
	if token.Type != gjson.String || token.String() == "" {
		return "", errors.WithStack(&cmserrors.ErrAuthentication{
			Email:   c.details.Email,
			Status:  resp.StatusCode,
			Message: "response has no data.token field",
		})
	}
	log.Info("Login successful!")
	return token.String(), nil
}
