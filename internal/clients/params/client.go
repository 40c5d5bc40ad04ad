// Package params is the typed client for the application parameter sets:
// the administrative parameters and the system-wide DrGestão parameters,
// each a free-form JSON document edited as a whole.
package params

import (
	"context"
	"encoding/json"

	"github.com/marcostaira/drgestao-admcli/internal/clients/api"
)

const (
	adminEndpoint  = "/settings"
	systemEndpoint = "/appsettings"
)

type Type string

const (
	TypeAdmin  Type = "admin"
	TypeSystem Type = "system"
)

// Data is a parameter document. The backend imposes no schema on it.
type Data map[string]any

type Client struct {
	api *api.Client
}

func NewClient(apiClient *api.Client) *Client {
	return &Client{api: apiClient}
}

func (c *Client) Admin(ctx context.Context) (Data, error) {
	return api.Decode[Data](c.api.Get(ctx, adminEndpoint))
}

func (c *Client) SaveAdmin(ctx context.Context, data Data) (Data, error) {
	return api.Decode[Data](c.api.Post(ctx, adminEndpoint, data))
}

func (c *Client) System(ctx context.Context) (Data, error) {
	return api.Decode[Data](c.api.Get(ctx, systemEndpoint))
}

func (c *Client) SaveSystem(ctx context.Context, data Data) (Data, error) {
	return api.Decode[Data](c.api.Post(ctx, systemEndpoint, data))
}

// Get fetches the parameter document of the given type.
func (c *Client) Get(ctx context.Context, t Type) (Data, error) {
	if t == TypeAdmin {
		return c.Admin(ctx)
	}

	return c.System(ctx)
}

// Save stores the parameter document of the given type.
func (c *Client) Save(ctx context.Context, t Type, data Data) (Data, error) {
	if t == TypeAdmin {
		return c.SaveAdmin(ctx, data)
	}

	return c.SaveSystem(ctx, data)
}

// ParseJSON validates a raw parameter document before it is sent.
func ParseJSON(raw string) (Data, error) {
	var data Data
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, err
	}

	return data, nil
}

// FormatJSON renders a parameter document indented for editing.
func FormatJSON(data Data) string {
	if data == nil {
		return "{}"
	}

	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "{}"
	}

	return string(out)
}
