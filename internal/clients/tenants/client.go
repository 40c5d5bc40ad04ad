// Package tenants is the typed client for the tenant (clinic) resources:
// the tenant records themselves and their users.
package tenants

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/marcostaira/drgestao-admcli/internal/clients/api"
)

const baseEndpoint = "/tenants"

// Tenant status values as stored by the backend.
const (
	StatusCancelled = 0
	StatusActive    = 1
	StatusInactive  = 3
)

const defaultPageSize = 20

type Tenant struct {
	ID           int    `json:"id"`
	DateAdd      string `json:"date_add"`
	ClientName   string `json:"client_name"`
	Email        string `json:"email"`
	Tel1         string `json:"tel1"`
	FriendlyName string `json:"friendly_name,omitempty"`
	Active       int    `json:"active"`
	WaActive     int    `json:"waactive"`
	Patients     int    `json:"pacientes"`
	Users        int    `json:"usuarios"`

	ClientDocCNPJ string `json:"client_doc_cnpj,omitempty"`
	AddrCEP       string `json:"addr_cep,omitempty"`
	AddrStreet    string `json:"addr_addr,omitempty"`
	AddrUF        string `json:"addr_uf,omitempty"`
	AddrNumber    string `json:"addr_number,omitempty"`
	AddrPlus      string `json:"addr_plus,omitempty"`
	AddrArea      string `json:"addr_area,omitempty"`
	AddrCity      string `json:"addr_city,omitempty"`
	FreeDays      int    `json:"free_days,omitempty"`
}

// CreateRequest carries the tenant fields plus the principal user created
// alongside a new tenant.
type CreateRequest struct {
	ClientName   string `json:"client_name,omitempty"`
	Email        string `json:"email"`
	Tel1         string `json:"tel1,omitempty"`
	FriendlyName string `json:"friendly_name"`
	Active       int    `json:"active,omitempty"`
	WaActive     int    `json:"waactive,omitempty"`

	ClientDocCNPJ string `json:"client_doc_cnpj,omitempty"`
	AddrCEP       string `json:"addr_cep,omitempty"`
	AddrStreet    string `json:"addr_addr,omitempty"`
	AddrUF        string `json:"addr_uf,omitempty"`
	AddrNumber    string `json:"addr_number,omitempty"`
	AddrPlus      string `json:"addr_plus,omitempty"`
	AddrArea      string `json:"addr_area,omitempty"`
	AddrCity      string `json:"addr_city,omitempty"`
	FreeDays      int    `json:"free_days,omitempty"`

	UserName     string `json:"userName,omitempty"`
	UserLogin    string `json:"userLogin,omitempty"`
	UserPassword string `json:"userPassword,omitempty"`
}

type UpdateRequest struct {
	ClientName   *string `json:"client_name,omitempty"`
	Email        *string `json:"email,omitempty"`
	Tel1         *string `json:"tel1,omitempty"`
	FriendlyName *string `json:"friendly_name,omitempty"`
	Active       *int    `json:"active,omitempty"`
	WaActive     *int    `json:"waactive,omitempty"`

	ClientDocCNPJ *string `json:"client_doc_cnpj,omitempty"`
	AddrCEP       *string `json:"addr_cep,omitempty"`
	AddrStreet    *string `json:"addr_addr,omitempty"`
	AddrUF        *string `json:"addr_uf,omitempty"`
	AddrNumber    *string `json:"addr_number,omitempty"`
	AddrPlus      *string `json:"addr_plus,omitempty"`
	AddrArea      *string `json:"addr_area,omitempty"`
	AddrCity      *string `json:"addr_city,omitempty"`
	FreeDays      *int    `json:"free_days,omitempty"`
}

type User struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Login    string `json:"login"`
	Active   int    `json:"active"`
	Level    int    `json:"level"`
	TenantID int    `json:"tenant_id"`
	DateAdd  string `json:"date_add"`
}

// Page is the paginated listing shape returned by the tenants endpoint.
type Page struct {
	Data     []Tenant `json:"data"`
	Total    int      `json:"total"`
	Page     int      `json:"page"`
	PageSize int      `json:"pageSize"`
}

// ListFilter narrows a paginated listing. A nil Status means all statuses.
type ListFilter struct {
	Page     int
	PageSize int
	Status   *int
}

type Client struct {
	api *api.Client
}

func NewClient(apiClient *api.Client) *Client {
	return &Client{api: apiClient}
}

func (c *Client) List(ctx context.Context, filter ListFilter) (Page, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = defaultPageSize
	}

	params := url.Values{}
	params.Set("page", strconv.Itoa(filter.Page))
	params.Set("pageSize", strconv.Itoa(filter.PageSize))
	if filter.Status != nil {
		params.Set("status", strconv.Itoa(*filter.Status))
	}

	return api.Decode[Page](c.api.Get(ctx, baseEndpoint+"?"+params.Encode()))
}

// All fetches every tenant without pagination.
func (c *Client) All(ctx context.Context) ([]Tenant, error) {
	return api.Decode[[]Tenant](c.api.Get(ctx, baseEndpoint+"/all"))
}

func (c *Client) Get(ctx context.Context, id int) (Tenant, error) {
	return api.Decode[Tenant](c.api.Get(ctx, fmt.Sprintf("%s/%d", baseEndpoint, id)))
}

func (c *Client) Create(ctx context.Context, req CreateRequest) (Tenant, error) {
	return api.Decode[Tenant](c.api.Post(ctx, baseEndpoint, req))
}

func (c *Client) Update(ctx context.Context, id int, req UpdateRequest) (Tenant, error) {
	return api.Decode[Tenant](c.api.Put(ctx, fmt.Sprintf("%s/%d", baseEndpoint, id), req))
}

func (c *Client) Delete(ctx context.Context, id int) error {
	_, err := api.Decode[struct{}](c.api.Delete(ctx, fmt.Sprintf("%s/%d", baseEndpoint, id)))

	return err
}

// Users lists the users that belong to a tenant.
func (c *Client) Users(ctx context.Context, tenantID int) ([]User, error) {
	return api.Decode[[]User](c.api.Get(ctx, fmt.Sprintf("%s/users/%d", baseEndpoint, tenantID)))
}

// SetUserActive flips the active flag of a tenant user.
func (c *Client) SetUserActive(ctx context.Context, userID, active int) (User, error) {
	body := struct {
		Active int `json:"active"`
	}{Active: active}

	return api.Decode[User](c.api.Put(ctx, fmt.Sprintf("%s/users/%d", baseEndpoint, userID), body))
}

func StatusLabel(status int) string {
	switch status {
	case StatusActive:
		return "Ativo"
	case StatusInactive:
		return "Inativo"
	case StatusCancelled:
		return "Cancelado"
	default:
		return "Desconhecido"
	}
}
