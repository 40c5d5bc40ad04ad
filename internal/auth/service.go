// Package auth holds the client session: login, logout and every
// authorization query the console asks before rendering a view.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/marcostaira/drgestao-admcli/internal/clients/api"
	"github.com/marcostaira/drgestao-admcli/internal/entity"
	"github.com/marcostaira/drgestao-admcli/internal/permissions"
	"github.com/marcostaira/drgestao-admcli/internal/session"
)

const (
	loginEndpoint   = "/auth/login"
	logoutEndpoint  = "/auth/logout"
	refreshEndpoint = "/auth/refresh"
)

const (
	msgInvalidData  = "Dados inválidos"
	msgInactiveUser = "Usuário inativo. Entre em contato com o administrador."
	msgLoginFailed  = "Login ou senha incorretos"
	msgLoginOK      = "Login realizado com sucesso"
	msgSessionSave  = "Erro ao salvar a sessão. Tente novamente."
	msgBadResponse  = "Resposta inesperada do servidor. Tente novamente."
)

// Service is constructed explicitly and passed to whoever needs
// authorization decisions. There is no package-level session state.
type Service struct {
	client *api.Client
	store  *session.Store
	now    func() time.Time
	ready  atomic.Bool
}

func NewService(client *api.Client, store *session.Store) *Service {
	return &Service{
		client: client,
		store:  store,
		now:    time.Now,
	}
}

// Bootstrap warms the session from persisted storage. The access guard
// reports Checking until this has run once.
func (s *Service) Bootstrap() {
	_ = s.store.Token()
	s.ready.Store(true)
}

func (s *Service) Ready() bool {
	return s.ready.Load()
}

type LoginResult struct {
	Success bool
	Message string
	Errors  map[string][]string
}

type loginRequest struct {
	Login string `json:"login"`
	Pwd   string `json:"pwd"`
}

// apiUser mirrors the login endpoint's user payload. The active flag is
// normalized at this boundary; nothing past this struct sees the raw
// encoding.
type apiUser struct {
	ID     int               `json:"id"`
	Name   string            `json:"name"`
	Email  string            `json:"email"`
	Login  string            `json:"login"`
	Active entity.ActiveFlag `json:"active"`
	Level  int               `json:"level"`
}

type loginResponse struct {
	Token        string  `json:"token"`
	RefreshToken string  `json:"refreshToken"`
	User         apiUser `json:"user"`
}

// Login validates and sanitizes credentials, and only then posts them. A
// validation failure never reaches the network.
func (s *Service) Login(ctx context.Context, creds entity.Credentials) LoginResult {
	validation := ValidateLogin(creds)
	if !validation.Valid {
		return LoginResult{Success: false, Message: msgInvalidData, Errors: validation.Errors}
	}

	env := s.client.Post(ctx, loginEndpoint, loginRequest{
		Login: validation.Login,
		Pwd:   validation.Password,
	})

	if !env.Success {
		message := env.Message
		if message == "" {
			message = msgLoginFailed
		}

		return LoginResult{Success: false, Message: message, Errors: env.Errors}
	}

	resp, err := api.Decode[loginResponse](env)
	if err != nil {
		slog.ErrorContext(ctx, "login response decode failed", "error", err.Error())
		return LoginResult{Success: false, Message: msgBadResponse}
	}

	if !resp.User.Active.Bool() {
		slog.WarnContext(ctx, "login rejected for inactive user", "login", validation.Login)
		return LoginResult{Success: false, Message: msgInactiveUser}
	}

	user := userFromAPI(resp.User)

	if err := s.persistSession(resp, user); err != nil {
		slog.ErrorContext(ctx, "session persist failed", "error", err.Error())

		_ = s.store.Clear()

		return LoginResult{Success: false, Message: msgSessionSave}
	}

	return LoginResult{Success: true, Message: msgLoginOK}
}

func userFromAPI(u apiUser) entity.User {
	login := u.Login
	if login == "" {
		login = u.Email
	}

	return entity.User{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Login:       login,
		Active:      u.Active.Bool(),
		Level:       u.Level,
		Role:        permissions.LevelToRole(u.Level),
		Permissions: permissions.ByLevel(u.Level),
	}
}

func (s *Service) persistSession(resp loginResponse, user entity.User) error {
	if err := s.store.SetToken(resp.Token); err != nil {
		return err
	}

	if resp.RefreshToken != "" {
		if err := s.store.SetRefreshToken(resp.RefreshToken); err != nil {
			return err
		}
	}

	userJSON, err := json.Marshal(user)
	if err != nil {
		return err
	}

	return s.store.SetUser(userJSON)
}

// Logout notifies the server best-effort and then clears the persisted
// session unconditionally. Calling it twice is safe.
func (s *Service) Logout(ctx context.Context) {
	env := s.client.Post(ctx, logoutEndpoint, nil)
	if !env.Success {
		slog.WarnContext(ctx, "logout notification failed", "message", env.Message)
	}

	if err := s.store.Clear(); err != nil {
		slog.ErrorContext(ctx, "session clear failed", "error", err.Error())
	}
}

// IsAuthenticated is a UX gate: token present, three-part shape, embedded
// expiry (when decodable) in the future. The server still verifies the
// signature on every API call.
func (s *Service) IsAuthenticated() bool {
	token := s.store.Token()
	if token == "" {
		return false
	}

	return TokenValid(token, s.now())
}

// CurrentUser loads the persisted user record, normalizing the active flag
// and recomputing role and permissions from the stored level.
func (s *Service) CurrentUser() *entity.User {
	raw := s.store.User()
	if raw == nil {
		return nil
	}

	var stored struct {
		ID     int               `json:"id"`
		Name   string            `json:"name"`
		Email  string            `json:"email"`
		Login  string            `json:"login"`
		Active entity.ActiveFlag `json:"active"`
		Level  int               `json:"level"`
	}

	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil
	}

	// a stored blob without an active flag is untrusted: inactive
	active := stored.Active.Present && stored.Active.Value

	return &entity.User{
		ID:          stored.ID,
		Name:        stored.Name,
		Email:       stored.Email,
		Login:       stored.Login,
		Active:      active,
		Level:       stored.Level,
		Role:        permissions.LevelToRole(stored.Level),
		Permissions: permissions.ByLevel(stored.Level),
	}
}

// HasPermission is false for a missing or inactive user. The wildcard
// capability grants everything.
func (s *Service) HasPermission(permission string) bool {
	user := s.CurrentUser()
	if user == nil || !user.Active {
		return false
	}

	for _, p := range user.Permissions {
		if p == permissions.Wildcard || p == permission {
			return true
		}
	}

	return false
}

func (s *Service) HasRole(role entity.Role) bool {
	user := s.CurrentUser()

	return user != nil && user.Active && user.Role == role
}

// HasLevel reports whether the current user is at least as powerful as
// requiredLevel (lower number = more power).
func (s *Service) HasLevel(requiredLevel int) bool {
	user := s.CurrentUser()
	if user == nil || !user.Active {
		return false
	}

	return permissions.CanAccessLevel(user.Level, requiredLevel)
}

// CanAccess gates a named area by its minimum level. Unknown areas require
// only an authenticated, active user.
func (s *Service) CanAccess(area string) bool {
	return s.HasLevel(permissions.MinLevelForArea(area))
}

// Refresh exchanges the stored refresh token for a new bearer token.
// Returns entity.ErrNoRefreshToken when the session never stored one.
func (s *Service) Refresh(ctx context.Context) error {
	refreshToken := s.store.RefreshToken()
	if refreshToken == "" {
		return entity.ErrNoRefreshToken
	}

	env := s.client.Post(ctx, refreshEndpoint, map[string]string{"refreshToken": refreshToken})

	resp, err := api.Decode[struct {
		Token string `json:"token"`
	}](env)
	if err != nil {
		return err
	}

	if resp.Token == "" {
		return entity.ErrTokenMalformed
	}

	if err := s.store.SetToken(resp.Token); err != nil {
		slog.ErrorContext(ctx, "refreshed token persist failed", "error", err.Error())

		return fmt.Errorf("persist refreshed token: %w", err)
	}

	return nil
}
