package middleware

import (
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	apierrors "github.com/feral-file/propfi-txbuilder/internal/api/shared/errors"
	"github.com/feral-file/propfi-txbuilder/internal/logger"
)

// Credential schemes accepted by the journal endpoints
const (
	SCHEME_BEARER = "bearer"
	SCHEME_APIKEY = "apikey"
)

// READER_KEY is the gin context key holding the authenticated Reader
const READER_KEY = "journal_reader"

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTPublicKey string // RSA public key in PEM format
	APIKeys      []string
}

// Reader is an authenticated caller of the journal endpoints
type Reader struct {
	Scheme  string
	Subject string
	Claims  *jwt.RegisteredClaims
}

// Authenticator verifies journal credentials against a parsed key set
type Authenticator struct {
	publicKey *rsa.PublicKey
	keyErr    error
	apiKeys   map[string]struct{}
}

// NewAuthenticator parses the configured RSA key and API keys once.
// An unparseable key only fails bearer credentials, API keys keep working.
func NewAuthenticator(cfg AuthConfig) *Authenticator {
	a := &Authenticator{apiKeys: make(map[string]struct{}, len(cfg.APIKeys))}
	for _, key := range cfg.APIKeys {
		if key != "" {
			a.apiKeys[key] = struct{}{}
		}
	}

	if cfg.JWTPublicKey == "" {
		a.keyErr = errors.New("JWT public key not configured")
	} else if a.publicKey, a.keyErr = parseRSAPublicKey(cfg.JWTPublicKey); a.keyErr != nil {
		a.keyErr = fmt.Errorf("failed to parse RSA public key: %w", a.keyErr)
	}
	return a
}

// Authenticate resolves the journal reader named by an Authorization header
func (a *Authenticator) Authenticate(header string) (Reader, error) {
	if header == "" {
		return Reader{}, errors.New("missing Authorization header")
	}

	scheme, credentials, ok := strings.Cut(header, " ")
	if !ok {
		return Reader{}, errors.New("invalid Authorization header format")
	}

	switch scheme = strings.ToLower(scheme); scheme {
	case SCHEME_BEARER:
		claims, err := a.verifyToken(credentials)
		if err != nil {
			return Reader{}, err
		}
		return Reader{Scheme: scheme, Subject: claims.Subject, Claims: claims}, nil

	case SCHEME_APIKEY:
		if len(a.apiKeys) == 0 {
			return Reader{}, errors.New("no API keys configured")
		}
		if _, known := a.apiKeys[credentials]; !known {
			return Reader{}, errors.New("invalid API key")
		}
		return Reader{Scheme: scheme, Subject: apiKeySubject(credentials)}, nil

	default:
		return Reader{}, fmt.Errorf("unsupported authorization type: %s", scheme)
	}
}

// verifyToken checks an RS-signed JWT; expiry and not-before are enforced by the parser
func (a *Authenticator) verifyToken(token string) (*jwt.RegisteredClaims, error) {
	if a.keyErr != nil {
		return nil, a.keyErr
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (interface{}, error) { return a.publicKey, nil },
		jwt.WithValidMethods([]string{"RS256", "RS384", "RS512"}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// Auth returns a gin middleware guarding the journal endpoints. The reader is stored on the
// gin context and on the request context, so journal log lines name who read them.
func Auth(cfg AuthConfig) gin.HandlerFunc {
	authenticator := NewAuthenticator(cfg)

	return func(c *gin.Context) {
		reader, err := authenticator.Authenticate(c.GetHeader("Authorization"))
		if err != nil {
			logger.WarnCtx(c.Request.Context(), "Authentication failed",
				zap.Error(err),
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierrors.NewUnauthorizedError("Authentication failed", err.Error()))
			return
		}

		c.Set(READER_KEY, reader)
		if reader.Subject != "" {
			c.Request = c.Request.WithContext(logger.WithReader(c.Request.Context(), reader.Subject))
		}
		logger.DebugCtx(c.Request.Context(), "Journal reader authenticated",
			zap.String("scheme", reader.Scheme),
			zap.String("path", c.Request.URL.Path),
		)

		c.Next()
	}
}

// ReaderFrom returns the reader stored by Auth
func ReaderFrom(c *gin.Context) (Reader, bool) {
	v, ok := c.Get(READER_KEY)
	if !ok {
		return Reader{}, false
	}
	reader, ok := v.(Reader)
	return reader, ok
}

// parseRSAPublicKey parses a PKIX or PKCS1 RSA public key from PEM
func parseRSAPublicKey(publicKeyPEM string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(publicKeyPEM))
	if block == nil {
		return nil, errors.New("failed to parse PEM block containing public key")
	}

	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return x509.ParsePKCS1PublicKey(block.Bytes)
	}
	rsaKey, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("public key is not an RSA key")
	}
	return rsaKey, nil
}

// apiKeySubject identifies an API key caller without exposing the key
func apiKeySubject(apiKey string) string {
	sum := sha256.Sum256([]byte(apiKey))
	return "apikey:" + hex.EncodeToString(sum[:4])
}
