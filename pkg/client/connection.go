package client

import (
	"strings"
	"time"
)

const (
	DefaultBaseUrl  = "http://localhost:1337"
	DefaultEmail    = "admin@mail.com"
	DefaultPassword = "Admin123"
	DefaultTimeout  = 30 * time.Second
)

// ApiConnectionDetails describes how to reach and authenticate against the content backend.
type ApiConnectionDetails struct {
	// Root of the REST and admin API, e.g. http://localhost:1337
	BaseUrl string
	// Full URL of the GraphQL endpoint. Defaults to BaseUrl + "/graphql". It may point at a caching proxy
	// in front of the backend rather than the backend itself.
	GraphqlEndpoint string
	Email           string
	Password        string
	// Per-request timeout.
	Timeout time.Duration
}

// Url joins path onto BaseUrl.
func (d *ApiConnectionDetails) Url(path string) string {
	base := d.BaseUrl
	if base == "" {
		base = DefaultBaseUrl
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimRight(base, "/") + path
}

func (d *ApiConnectionDetails) GraphqlUrl() string {
	if d.GraphqlEndpoint != "" {
		return d.GraphqlEndpoint
	}
	return d.Url("/graphql")
}

func (d *ApiConnectionDetails) timeout() time.Duration {
	if d.Timeout <= 0 {
		return DefaultTimeout
	}
	return d.Timeout
}
