// Package templates manages the default notification message templates and
// the per-tenant overrides, including the {{variable}} placeholder checks
// applied before a template is saved.
package templates

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/marcostaira/drgestao-admcli/internal/clients/api"
)

const (
	defaultsEndpoint = "/templates/def"
	tenantsEndpoint  = "/tenants"
)

var variablePattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// Variable is a placeholder the messaging pipeline can substitute.
type Variable struct {
	Name        string
	Description string
}

// AvailableVariables lists every placeholder accepted in template content.
func AvailableVariables() []Variable {
	return []Variable{
		{Name: "nome_clinica", Description: "Nome da clínica"},
		{Name: "tel_clinica", Description: "Telefone da clínica"},
		{Name: "data", Description: "Data do agendamento"},
		{Name: "hora", Description: "Hora do agendamento"},
		{Name: "nome_paciente", Description: "Nome do paciente"},
		{Name: "nome_completo", Description: "Nome completo do paciente"},
		{Name: "primeiro_nome_profissional", Description: "Primeiro nome do profissional"},
		{Name: "nome_profissional", Description: "Nome completo do profissional"},
	}
}

type Template struct {
	ID       int    `json:"id"`
	Type     string `json:"type"`
	Content  string `json:"content"`
	Active   bool   `json:"active"`
	TenantID int    `json:"tenant_id,omitempty"`
}

type UpdateRequest struct {
	Content string `json:"content"`
	Active  bool   `json:"active"`
}

type CreateRequest struct {
	Type    string `json:"type"`
	Content string `json:"content"`
	Active  bool   `json:"active"`
}

type Client struct {
	api *api.Client
}

func NewClient(apiClient *api.Client) *Client {
	return &Client{api: apiClient}
}

// Defaults fetches the default templates applied to tenants without
// overrides.
func (c *Client) Defaults(ctx context.Context) ([]Template, error) {
	return api.Decode[[]Template](c.api.Get(ctx, defaultsEndpoint))
}

// UpdateDefault saves the content and active flag of a default template.
func (c *Client) UpdateDefault(ctx context.Context, id int, req UpdateRequest) (Template, error) {
	return api.Decode[Template](c.api.Put(ctx, fmt.Sprintf("%s/%d", defaultsEndpoint, id), req))
}

// ByTenant lists the template overrides of a single tenant.
func (c *Client) ByTenant(ctx context.Context, tenantID int) ([]Template, error) {
	return api.Decode[[]Template](c.api.Get(ctx, fmt.Sprintf("%s/%d/templates", tenantsEndpoint, tenantID)))
}

// CreateForTenant adds a template override for a tenant.
func (c *Client) CreateForTenant(ctx context.Context, tenantID int, req CreateRequest) (Template, error) {
	return api.Decode[Template](c.api.Post(ctx, fmt.Sprintf("%s/%d/templates", tenantsEndpoint, tenantID), req))
}

// UpdateForTenant saves a tenant template override.
func (c *Client) UpdateForTenant(ctx context.Context, templateID int, req UpdateRequest) (Template, error) {
	return api.Decode[Template](c.api.Put(ctx, fmt.Sprintf("/templates/%d", templateID), req))
}

// DeleteForTenant removes a tenant template override.
func (c *Client) DeleteForTenant(ctx context.Context, templateID int) error {
	_, err := api.Decode[struct{}](c.api.Delete(ctx, fmt.Sprintf("/templates/%d", templateID)))

	return err
}

// Validation is the outcome of checking the placeholders of a template.
type Validation struct {
	Valid            bool
	ValidVariables   []string
	InvalidVariables []string
}

// ValidateVariables extracts every {{name}} placeholder from content and
// splits it into known and unknown names, deduplicated in first-seen order.
func ValidateVariables(content string) Validation {
	known := make(map[string]bool, len(AvailableVariables()))
	for _, v := range AvailableVariables() {
		known[v.Name] = true
	}

	seenValid := make(map[string]bool)
	seenInvalid := make(map[string]bool)
	result := Validation{Valid: true}

	for _, match := range variablePattern.FindAllStringSubmatch(content, -1) {
		name := strings.TrimSpace(match[1])
		if known[name] {
			if !seenValid[name] {
				seenValid[name] = true
				result.ValidVariables = append(result.ValidVariables, name)
			}

			continue
		}

		if !seenInvalid[name] {
			seenInvalid[name] = true
			result.InvalidVariables = append(result.InvalidVariables, name)
		}
		result.Valid = false
	}

	return result
}

// FormatType renders a snake_case template type as a display label, one
// capitalized word per segment.
func FormatType(templateType string) string {
	parts := strings.Split(templateType, "_")
	for i, part := range parts {
		if part == "" {
			continue
		}

		parts[i] = strings.ToUpper(part[:1]) + strings.ToLower(part[1:])
	}

	return strings.Join(parts, " ")
}
