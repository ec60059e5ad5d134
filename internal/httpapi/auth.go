package httpapi

import (
	"context"
	"errors"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"frenz/gateway/internal/domain"
)

// AuthManager exchanges upstream logins for gateway sessions. The
// gateway signs its own HS256 token that carries the upstream bearer
// token along with the employee's role, so later requests can reach
// the retail API on the caller's behalf without re-authenticating.
type AuthManager struct {
	secret    []byte
	tokenTTL  time.Duration
	rejectPIN string
	upstream  LoginProvider
}

type LoginProvider interface {
	Login(ctx context.Context, req domain.LoginRequest) (domain.UpstreamSession, error)
}

type gatewayClaims struct {
	jwtlib.RegisteredClaims
	Role          string `json:"role"`
	Name          string `json:"name,omitempty"`
	UpstreamToken string `json:"upstream_token"`
}

var allowedRoles = map[string]bool{
	"employee":   true,
	"admin":      true,
	"supervisor": true,
}

func NewAuthManager(secret string, tokenTTL time.Duration, rejectPIN string, upstream LoginProvider) *AuthManager {
	if secret == "" {
		secret = "dev-change-me"
	}
	if tokenTTL <= 0 {
		tokenTTL = 8 * time.Hour
	}
	rejectPIN = strings.TrimSpace(rejectPIN)
	if rejectPIN != "" {
		if hashed, err := hashSecret(rejectPIN); err == nil {
			rejectPIN = hashed
		}
	}

	return &AuthManager{
		secret:    []byte(secret),
		tokenTTL:  tokenTTL,
		rejectPIN: rejectPIN,
		upstream:  upstream,
	}
}

// Login authenticates against the upstream API and wraps the result in
// a gateway session. An upstream role outside the known portal roles
// is refused outright.
func (a *AuthManager) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.Password) == "" {
		return domain.LoginResponse{}, errors.New("username and password are required")
	}

	session, err := a.upstream.Login(ctx, req)
	if err != nil {
		return domain.LoginResponse{}, err
	}

	role := strings.ToLower(strings.TrimSpace(session.Employee.Role))
	if !allowedRoles[role] {
		return domain.LoginResponse{}, errors.New("unrecognized role")
	}

	username := strings.TrimSpace(session.Employee.Username)
	if username == "" {
		username = strings.TrimSpace(req.Username)
	}

	expiresAt := time.Now().UTC().Add(a.tokenTTL)
	token, err := a.sign(username, role, session.Employee.Name, session.Token, expiresAt)
	if err != nil {
		return domain.LoginResponse{}, err
	}

	return domain.LoginResponse{
		AccessToken: token,
		Role:        role,
		Name:        session.Employee.Name,
		ExpiresAt:   expiresAt.Format(time.RFC3339),
	}, nil
}

func (a *AuthManager) ParseToken(tokenStr string) (domain.Actor, error) {
	claims := &gatewayClaims{}
	token, err := jwtlib.ParseWithClaims(tokenStr, claims, func(t *jwtlib.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return a.secret, nil
	}, jwtlib.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return domain.Actor{}, errors.New("invalid or expired token")
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return domain.Actor{}, errors.New("invalid token subject")
	}
	if claims.UpstreamToken == "" {
		return domain.Actor{}, errors.New("session carries no upstream credential")
	}
	return domain.Actor{
		Username:      sub,
		Role:          claims.Role,
		UpstreamToken: claims.UpstreamToken,
	}, nil
}

func (a *AuthManager) sign(username string, role string, name string, upstreamToken string, expiresAt time.Time) (string, error) {
	claims := gatewayClaims{
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwtlib.NewNumericDate(time.Now().UTC()),
			ExpiresAt: jwtlib.NewNumericDate(expiresAt),
			Issuer:    "frenz-gateway",
		},
		Role:          role,
		Name:          name,
		UpstreamToken: upstreamToken,
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// RequireRejectPIN reports whether rejections must present the
// supervisor PIN. The PIN is optional; deployments without REJECT_PIN
// rely on the confirmation flag alone.
func (a *AuthManager) RequireRejectPIN() bool {
	return a.rejectPIN != ""
}

func (a *AuthManager) ValidateRejectPIN(pin string) bool {
	input := strings.TrimSpace(pin)
	if input == "" || !isSecretHash(a.rejectPIN) {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(a.rejectPIN), []byte(input)) == nil
}

func hashSecret(secret string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func isSecretHash(value string) bool {
	return strings.HasPrefix(value, "$2a$") || strings.HasPrefix(value, "$2b$") || strings.HasPrefix(value, "$2y$")
}
