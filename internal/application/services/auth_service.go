package services

import (
	"crypto/subtle"
	"time"

	"github.com/AtRiskMedia/admini-go/internal/domain/entities/content"
	"github.com/AtRiskMedia/admini-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/admini-go/internal/infrastructure/observability/metrics"
	"github.com/AtRiskMedia/admini-go/internal/infrastructure/security"
)

const (
	realmAdmin = "admin"
	realmUser  = "user"
)

// AuthConfig holds the admin credentials and token settings.
type AuthConfig struct {
	AdminUsername string
	AdminPassword string // bcrypt hash or plaintext
	JWTSecret     string
	SessionTTL    time.Duration
}

// AuthService handles admin and end-user login and session tokens
type AuthService struct {
	config  AuthConfig
	logger  *logging.ChanneledLogger
	metrics *metrics.Registry
}

// NewAuthService creates a new authentication service
func NewAuthService(config AuthConfig, logger *logging.ChanneledLogger) *AuthService {
	if config.SessionTTL <= 0 {
		config.SessionTTL = 24 * time.Hour
	}
	return &AuthService{config: config, logger: logger, metrics: metrics.Get()}
}

// AuthResult holds authentication result data
type AuthResult struct {
	Token   string `json:"token"`
	Role    string `json:"role"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// SessionTTL is the lifetime of issued tokens.
func (a *AuthService) SessionTTL() time.Duration {
	return a.config.SessionTTL
}

// AuthenticateAdmin checks the configured admin credentials.
func (a *AuthService) AuthenticateAdmin(username, password string) *AuthResult {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.config.AdminUsername)) == 1
	passOK := security.CheckPassword(a.config.AdminPassword, password)
	if !userOK || !passOK {
		a.record(realmAdmin, false)
		a.logger.LogAuthOperation("admin_login", username, false)
		return &AuthResult{Success: false, Error: "Invalid credentials"}
	}
	return a.issue(realmAdmin, username, security.RoleAdmin, username)
}

// AuthenticateUser checks end-user credentials against the stored users.
func (a *AuthService) AuthenticateUser(doc *content.Document, username, password string) *AuthResult {
	var match *content.User
	for i := range doc.Users {
		if doc.Users[i].Username == username {
			match = &doc.Users[i]
			break
		}
	}
	if match == nil || !security.CheckPassword(match.Password, password) {
		a.record(realmUser, false)
		a.logger.LogAuthOperation("user_login", username, false)
		return &AuthResult{Success: false, Error: "Invalid credentials"}
	}
	return a.issue(realmUser, match.ID, security.RoleUser, username)
}

func (a *AuthService) issue(realm, subject, role, username string) *AuthResult {
	token, err := security.GenerateSessionToken(subject, role, a.config.JWTSecret, a.config.SessionTTL)
	if err != nil {
		a.record(realm, false)
		a.logger.LogError(logging.ChannelAuth, realm+"_login", err, nil)
		return &AuthResult{Success: false, Error: "Token generation failed"}
	}
	a.record(realm, true)
	a.logger.LogAuthOperation(realm+"_login", username, true)
	return &AuthResult{Token: token, Role: role, Success: true}
}

// ValidateAdminToken reports whether token is a live admin session.
func (a *AuthService) ValidateAdminToken(token string) bool {
	if token == "" {
		return false
	}
	_, err := security.ParseSessionToken(token, security.RoleAdmin, a.config.JWTSecret)
	return err == nil
}

// UserFromToken returns the user behind an auth-token. Invalid tokens and
// deleted users yield a user without scopes, who sees no sidebar sections.
func (a *AuthService) UserFromToken(doc *content.Document, token string) *content.User {
	claims, err := security.ParseSessionToken(token, security.RoleUser, a.config.JWTSecret)
	if err != nil {
		a.logger.Auth().Debug("Rejected end-user token", "error", err)
		return &content.User{Scopes: []string{}}
	}
	user, ok := doc.FindUser(claims.Subject)
	if !ok {
		return &content.User{Scopes: []string{}}
	}
	out := *user
	out.Password = ""
	return &out
}

func (a *AuthService) record(realm string, success bool) {
	if a.metrics == nil {
		return
	}
	outcome := "ok"
	if !success {
		outcome = "error"
	}
	a.metrics.AuthAttempts.WithLabelValues(realm, outcome).Inc()
}
