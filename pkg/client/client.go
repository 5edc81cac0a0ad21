// Package client implements the REST client for the metadata catalog
// service. The identity caches consume only its filtered Search and the
// name-based FindConnectionsByName.
package client

import (
	"context"
	"time"

	"github.com/google/uuid"
	"resty.dev/v3"

	"github.com/txn2/catalog-client/pkg/assets"
)

const (
	searchPath          = "/api/catalog/search"
	findConnectionsPath = "/api/catalog/connections/find"

	headerRequestID = "X-Request-ID"
)

// Exact-match term fields understood by the search endpoint.
const (
	FieldGUID          = "guid"
	FieldQualifiedName = "qualifiedName"
)

// Client talks to the catalog service.
type Client struct {
	cfg  Config
	http *resty.Client
}

// New creates a catalog client.
func New(cfg Config) (*Client, error) {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	httpc := resty.New().
		SetBaseURL(cfg.URL).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json")
	if cfg.Token != "" {
		httpc.SetAuthToken(cfg.Token)
	}
	if cfg.Debug {
		httpc.SetDebug(true)
	}

	return &Client{cfg: cfg, http: httpc}, nil
}

// SearchRequest describes a filtered catalog search. Terms are exact-match
// filters on entity fields; Attributes is the projection populated on each
// returned entity.
type SearchRequest struct {
	SuperType  string            `json:"superType,omitempty"`
	ActiveOnly bool              `json:"activeOnly,omitempty"`
	Terms      map[string]string `json:"terms,omitempty"`
	Attributes []string          `json:"attributes,omitempty"`
	Limit      int               `json:"limit,omitempty"`
}

// SearchResponse is the catalog search result envelope.
type SearchResponse struct {
	Entities []assets.Asset `json:"entities"`
}

// Search executes a filtered search and returns candidate entities in
// service order.
func (c *Client) Search(ctx context.Context, req SearchRequest) ([]assets.Asset, error) {
	var out SearchResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader(headerRequestID, uuid.NewString()).
		SetBody(req).
		SetResult(&out).
		Post(searchPath)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, newRemoteError(resp)
	}
	return out.Entities, nil
}

type findConnectionsRequest struct {
	Name       string   `json:"name"`
	Connector  string   `json:"connector"`
	Attributes []string `json:"attributes,omitempty"`
}

// FindConnectionsByName returns the connections matching a simple name and
// connector type. Duplicate simple names under one connector are legal, so
// more than one result is possible.
func (c *Client) FindConnectionsByName(ctx context.Context, name string, connector assets.ConnectorType, attributes []string) ([]assets.Asset, error) {
	var out SearchResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader(headerRequestID, uuid.NewString()).
		SetBody(findConnectionsRequest{
			Name:       name,
			Connector:  connector.Value,
			Attributes: attributes,
		}).
		SetResult(&out).
		Post(findConnectionsPath)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, newRemoteError(resp)
	}
	return out.Entities, nil
}

// Close releases transport resources.
func (c *Client) Close() error {
	return c.http.Close()
}
