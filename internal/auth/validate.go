package auth

import (
	"regexp"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/marcostaira/drgestao-admcli/internal/entity"
	"github.com/marcostaira/drgestao-admcli/internal/sanitize"
)

const (
	loginMinLen    = 3
	loginMaxLen    = 100
	usernameMaxLen = 50
	passwordMinLen = 6
	passwordMaxLen = 128

	jwtPartsCount = 3
)

const (
	errLoginText    = "Login deve ser um email válido ou username (3-50 caracteres)"
	errPasswordText = "Senha deve ter entre 6 e 128 caracteres"
	errSameText     = "Login e senha não podem ser iguais"
	errUnsafeText   = "Caracteres não permitidos detectados"
)

var (
	usernameRegexp = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

	sqlInjectionRegexp = regexp.MustCompile(
		`(?i)('|('')|;|--|/\*|\*/|xp_|sp_|UNION|SELECT|INSERT|UPDATE|DELETE|DROP|CREATE|ALTER|EXEC|EXECUTE)`)
)

type LoginValidation struct {
	Valid    bool
	Login    string
	Password string
	Errors   map[string][]string
}

// ValidateLogin sanitizes and validates credentials before any network
// call. The login field is tried as an email first; a value that fails the
// email shape falls back to the username shape.
func ValidateLogin(creds entity.Credentials) LoginValidation {
	errs := map[string][]string{}

	loginResult := sanitize.ValidateAndSanitize(creds.Login, sanitize.Rules{
		Required:  true,
		MinLength: loginMinLen,
		MaxLength: loginMaxLen,
		Type:      sanitize.TypeEmail,
	})

	if !loginResult.Valid && creds.Login != "" {
		usernameResult := sanitize.ValidateAndSanitize(creds.Login, sanitize.Rules{
			Required:  true,
			MinLength: loginMinLen,
			MaxLength: usernameMaxLen,
			Pattern:   usernameRegexp,
			Type:      sanitize.TypeText,
		})

		if usernameResult.Valid {
			loginResult = usernameResult
		}
	}

	if !loginResult.Valid {
		loginErrs := loginResult.Errors
		if len(loginErrs) == 0 {
			loginErrs = []string{errLoginText}
		}

		errs["login"] = loginErrs
	}

	passwordResult := sanitize.ValidateAndSanitize(creds.Password, sanitize.Rules{
		Required:  true,
		MinLength: passwordMinLen,
		MaxLength: passwordMaxLen,
		Type:      sanitize.TypePassword,
	})

	if !passwordResult.Valid {
		passwordErrs := passwordResult.Errors
		if len(passwordErrs) == 0 {
			passwordErrs = []string{errPasswordText}
		}

		errs["pwd"] = passwordErrs
	}

	if creds.Login != "" && creds.Password != "" && creds.Login == creds.Password {
		errs["general"] = append(errs["general"], errSameText)
	}

	if sqlInjectionRegexp.MatchString(creds.Login) || sqlInjectionRegexp.MatchString(creds.Password) {
		errs["general"] = append(errs["general"], errUnsafeText)
	}

	return LoginValidation{
		Valid:    len(errs) == 0,
		Login:    loginResult.Sanitized,
		Password: passwordResult.Sanitized,
		Errors:   errs,
	}
}

// ValidateToken checks the structural shape of a bearer token and, when the
// claims decode, its embedded expiry. The signature is deliberately not
// verified here: this is a UX gate only, the server authoritatively
// verifies every request.
func ValidateToken(token string, now time.Time) error {
	if token == "" {
		return entity.ErrTokenMalformed
	}

	if len(strings.Split(token, ".")) != jwtPartsCount {
		return entity.ErrTokenMalformed
	}

	claims := jwt.MapClaims{}

	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return entity.ErrTokenMalformed
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return entity.ErrTokenMalformed
	}

	if exp != nil && exp.Before(now) {
		return entity.ErrTokenExpired
	}

	return nil
}

// TokenValid reports whether ValidateToken accepts the token.
func TokenValid(token string, now time.Time) bool {
	return ValidateToken(token, now) == nil
}
