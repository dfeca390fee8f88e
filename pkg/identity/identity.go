package identity

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleAdmin  string = "admin"
	RoleMember string = "member"
)

// ErrInvalidCredential means the credential could not be decoded. Monitoring
// must not start without an identity; there is nothing to retry.
var ErrInvalidCredential = errors.New("invalid credential")

// Claims is the payload of the dashboard session token. The server issues
// tokens with a numeric user id under "user_id" (older tokens used "id") and
// the role under "rol".
type Claims struct {
	jwt.RegisteredClaims
	UserID   int    `json:"user_id"`
	LegacyID int    `json:"id"`
	Role     string `json:"rol"`
	Name     string `json:"nombre"`
}

// Context is the decoded identity of the current session.
type Context struct {
	UserID   int
	Role     string
	UserName string
}

// FromCredential decodes an opaque credential string into a Context. The
// signature is not verified here: the server owns verification, this client
// only needs the identity carried in the payload.
func FromCredential(credential string) (*Context, error) {
	if credential == "" {
		return nil, ErrInvalidCredential
	}

	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(credential, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}

	userID := claims.UserID
	if userID == 0 {
		userID = claims.LegacyID
	}

	role := RoleMember
	if claims.Role == RoleAdmin {
		role = RoleAdmin
	}

	return &Context{UserID: userID, Role: role, UserName: claims.Name}, nil
}

// ScopeKey is the "{role}_{userId}" composite that isolates persisted state
// per logged-in identity, with "anon" when no user id is known.
func (c *Context) ScopeKey() string {
	uid := "anon"
	if c.UserID != 0 {
		uid = strconv.Itoa(c.UserID)
	}
	return c.Role + "_" + uid
}
