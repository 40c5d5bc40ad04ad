package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcostaira/drgestao-admcli/internal/clients/api"
	"github.com/marcostaira/drgestao-admcli/internal/clients/params"
	"github.com/marcostaira/drgestao-admcli/internal/clients/templates"
	"github.com/marcostaira/drgestao-admcli/internal/guard"
	"github.com/marcostaira/drgestao-admcli/internal/permissions"
)

type staticTokens string

func (s staticTokens) Token() string { return string(s) }

type fakeAuthz struct {
	level int
}

func (f fakeAuthz) Ready() bool           { return true }
func (f fakeAuthz) IsAuthenticated() bool { return true }
func (f fakeAuthz) HasLevel(required int) bool {
	return permissions.CanAccessLevel(f.level, required)
}
func (f fakeAuthz) HasPermission(string) bool { return true }

func newTestConsole(t *testing.T, level int, handler http.Handler) (*console, *bytes.Buffer, *atomic.Int64) {
	t.Helper()

	var calls atomic.Int64

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	apiClient := api.NewClient(srv.URL, 5*time.Second, 0, staticTokens("tok"))

	out := &bytes.Buffer{}
	c := &console{
		gate:      guard.NewGate(fakeAuthz{level: level}),
		templates: templates.NewClient(apiClient),
		params:    params.NewClient(apiClient),
		out:       out,
	}

	return c, out, &calls
}

func TestUpdateTemplateRejectsUnknownVariables(t *testing.T) {
	t.Parallel()

	c, out, calls := newTestConsole(t, permissions.LevelAdmin, http.NotFoundHandler())

	c.updateTemplate(context.Background(), []string{"1", "Olá", "{{variavel_inexistente}}"})

	assert.Contains(t, out.String(), "Variáveis inválidas: variavel_inexistente")
	assert.Zero(t, calls.Load())
}

func TestUpdateTemplatePreservesActiveFlag(t *testing.T) {
	t.Parallel()

	var gotBody map[string]any

	c, out, _ := newTestConsole(t, permissions.LevelAdmin, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/templates/def":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"success": true,
				"data": []map[string]any{
					{"id": 2, "type": "lembrete", "content": "antigo", "active": false},
				},
			})
		case r.Method == http.MethodPut && r.URL.Path == "/templates/def/2":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			_ = json.NewEncoder(w).Encode(map[string]any{
				"success": true,
				"data":    map[string]any{"id": 2, "type": "lembrete", "content": gotBody["content"], "active": false},
			})
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))

	c.updateTemplate(context.Background(), []string{"2", "Consulta", "às", "{{hora}}"})

	assert.Contains(t, out.String(), "Template atualizado com sucesso")
	assert.Equal(t, "Consulta às {{hora}}", gotBody["content"])
	assert.Equal(t, false, gotBody["active"])
}

func TestRunParamsSystemRequiresSuperAdmin(t *testing.T) {
	t.Parallel()

	c, out, calls := newTestConsole(t, permissions.LevelAdmin, http.NotFoundHandler())

	c.runParams(context.Background(), []string{"system"})

	assert.Contains(t, out.String(), "Nível de acesso insuficiente")
	assert.Zero(t, calls.Load())
}

func TestRunParamsSaveRoundTrip(t *testing.T) {
	t.Parallel()

	c, out, _ := newTestConsole(t, permissions.LevelSuperAdmin, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/appsettings", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "data": body})
	}))

	c.runParams(context.Background(), []string{"system", `{"trial_days":`, `14}`})

	assert.Contains(t, out.String(), "Parâmetros salvos com sucesso")
	assert.Contains(t, out.String(), `"trial_days": 14`)
}

func TestRunParamsRejectsBadJSON(t *testing.T) {
	t.Parallel()

	c, out, calls := newTestConsole(t, permissions.LevelSuperAdmin, http.NotFoundHandler())

	c.runParams(context.Background(), []string{"admin", `{"broken":`})

	assert.Contains(t, out.String(), "JSON inválido")
	assert.Zero(t, calls.Load())
}
