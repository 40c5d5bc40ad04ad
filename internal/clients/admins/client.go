// Package admins is the typed client for the administrative user CRUD
// endpoints.
package admins

import (
	"context"
	"fmt"

	"github.com/marcostaira/drgestao-admcli/internal/clients/api"
	"github.com/marcostaira/drgestao-admcli/internal/permissions"
)

const baseEndpoint = "/admins"

// AdminUser mirrors the gas_admusr row shape the API exposes: active is a
// tinyint, level follows the 1-4 privilege order.
type AdminUser struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Login  string `json:"login"`
	Active int    `json:"active"`
	Level  int    `json:"level"`
}

type CreateRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Login  string `json:"login"`
	Pwd    string `json:"pwd"`
	Active int    `json:"active"`
	Level  int    `json:"level"`
}

type UpdateRequest struct {
	Name   *string `json:"name,omitempty"`
	Email  *string `json:"email,omitempty"`
	Login  *string `json:"login,omitempty"`
	Pwd    *string `json:"pwd,omitempty"`
	Active *int    `json:"active,omitempty"`
	Level  *int    `json:"level,omitempty"`
}

type Client struct {
	api *api.Client
}

func NewClient(apiClient *api.Client) *Client {
	return &Client{api: apiClient}
}

func (c *Client) List(ctx context.Context) ([]AdminUser, error) {
	return api.Decode[[]AdminUser](c.api.Get(ctx, baseEndpoint))
}

func (c *Client) Get(ctx context.Context, id int) (AdminUser, error) {
	return api.Decode[AdminUser](c.api.Get(ctx, fmt.Sprintf("%s/%d", baseEndpoint, id)))
}

func (c *Client) Create(ctx context.Context, req CreateRequest) (AdminUser, error) {
	return api.Decode[AdminUser](c.api.Post(ctx, baseEndpoint, req))
}

func (c *Client) Update(ctx context.Context, id int, req UpdateRequest) (AdminUser, error) {
	return api.Decode[AdminUser](c.api.Put(ctx, fmt.Sprintf("%s/%d", baseEndpoint, id), req))
}

func (c *Client) Delete(ctx context.Context, id int) error {
	_, err := api.Decode[struct{}](c.api.Delete(ctx, fmt.Sprintf("%s/%d", baseEndpoint, id)))

	return err
}

func LevelLabel(level int) string {
	return permissions.LevelDescription(level)
}

func StatusLabel(active int) string {
	if active == 1 {
		return "Ativo"
	}

	return "Inativo"
}
