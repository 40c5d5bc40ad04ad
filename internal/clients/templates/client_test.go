package templates_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcostaira/drgestao-admcli/internal/clients/api"
	"github.com/marcostaira/drgestao-admcli/internal/clients/templates"
)

type staticTokens string

func (s staticTokens) Token() string { return string(s) }

func newTestClient(t *testing.T, handler http.HandlerFunc) *templates.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return templates.NewClient(api.NewClient(srv.URL, 5*time.Second, 0, staticTokens("tok")))
}

func TestDefaults(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/templates/def", r.URL.Path)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": []map[string]any{
				{"id": 1, "type": "confirmacao_agendamento", "content": "Olá {{nome_paciente}}", "active": true},
				{"id": 2, "type": "lembrete", "content": "Consulta às {{hora}}", "active": false},
			},
		})
	})

	defs, err := client.Defaults(context.Background())
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, "confirmacao_agendamento", defs[0].Type)
	assert.False(t, defs[1].Active)
}

func TestUpdateDefault(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/templates/def/1", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Olá {{nome_completo}}", body["content"])
		assert.Equal(t, true, body["active"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string]any{"id": 1, "type": "confirmacao_agendamento", "content": "Olá {{nome_completo}}", "active": true},
		})
	})

	tpl, err := client.UpdateDefault(context.Background(), 1, templates.UpdateRequest{
		Content: "Olá {{nome_completo}}",
		Active:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Olá {{nome_completo}}", tpl.Content)
}

func TestTenantOverrides(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			assert.Equal(t, "/tenants/7/templates", r.URL.Path)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"success": true,
				"data":    []map[string]any{{"id": 40, "type": "lembrete", "tenant_id": 7, "active": true}},
			})
		case r.Method == http.MethodPost:
			assert.Equal(t, "/tenants/7/templates", r.URL.Path)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"success": true,
				"data":    map[string]any{"id": 41, "type": "boas_vindas", "tenant_id": 7, "active": true},
			})
		case r.Method == http.MethodDelete:
			assert.Equal(t, "/templates/41", r.URL.Path)
			_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "message": "Removido"})
		}
	})

	ctx := context.Background()

	overrides, err := client.ByTenant(ctx, 7)
	require.NoError(t, err)
	require.Len(t, overrides, 1)
	assert.Equal(t, 7, overrides[0].TenantID)

	created, err := client.CreateForTenant(ctx, 7, templates.CreateRequest{
		Type:    "boas_vindas",
		Content: "Bem-vindo à {{nome_clinica}}",
		Active:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, 41, created.ID)

	require.NoError(t, client.DeleteForTenant(ctx, 41))
}

func TestValidateVariables(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		valid   bool
		good    []string
		bad     []string
	}{
		{
			name:    "only known variables",
			content: "Olá {{nome_paciente}}, sua consulta é {{data}} às {{hora}}",
			valid:   true,
			good:    []string{"nome_paciente", "data", "hora"},
		},
		{
			name:    "unknown variable",
			content: "Olá {{nome_paciente}}, código {{codigo_secreto}}",
			valid:   false,
			good:    []string{"nome_paciente"},
			bad:     []string{"codigo_secreto"},
		},
		{
			name:    "duplicates collapse",
			content: "{{hora}} {{hora}} {{foo}} {{foo}}",
			valid:   false,
			good:    []string{"hora"},
			bad:     []string{"foo"},
		},
		{
			name:    "whitespace inside braces is trimmed",
			content: "{{ nome_clinica }}",
			valid:   true,
			good:    []string{"nome_clinica"},
		},
		{
			name:    "no variables",
			content: "mensagem fixa",
			valid:   true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := templates.ValidateVariables(tt.content)

			assert.Equal(t, tt.valid, result.Valid)
			assert.Equal(t, tt.good, result.ValidVariables)
			assert.Equal(t, tt.bad, result.InvalidVariables)
		})
	}
}

func TestFormatType(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Confirmacao Agendamento", templates.FormatType("confirmacao_agendamento"))
	assert.Equal(t, "Lembrete", templates.FormatType("LEMBRETE"))
	assert.Equal(t, "Boas Vindas", templates.FormatType("boas_vindas"))
}

func TestAvailableVariablesStable(t *testing.T) {
	t.Parallel()

	vars := templates.AvailableVariables()
	require.Len(t, vars, 8)
	assert.Equal(t, "nome_clinica", vars[0].Name)
	assert.NotEmpty(t, vars[0].Description)
}
