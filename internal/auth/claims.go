package auth

import "infinite-experiment/flightdeck/internal/constants"

// UserClaims is what the rest of the service knows about a caller: an account
// id and a role. How they were proven is the middleware's concern.
type UserClaims interface {
	AccountID() string
	Role() constants.Role
	Source() constants.RequestSource
	IsOperator() bool
}

type JWTClaims struct {
	Subject   string
	RoleValue constants.Role
}

func (c *JWTClaims) AccountID() string               { return c.Subject }
func (c *JWTClaims) Role() constants.Role            { return c.RoleValue }
func (c *JWTClaims) Source() constants.RequestSource { return constants.RequestSourceJWT }
func (c *JWTClaims) IsOperator() bool                { return c.RoleValue == constants.RoleOperator }

type APIKeyClaims struct {
	AccountIDValue string
	RoleValue      constants.Role
}

func (c *APIKeyClaims) AccountID() string               { return c.AccountIDValue }
func (c *APIKeyClaims) Role() constants.Role            { return c.RoleValue }
func (c *APIKeyClaims) Source() constants.RequestSource { return constants.RequestSourceAPIKey }
func (c *APIKeyClaims) IsOperator() bool                { return c.RoleValue == constants.RoleOperator }
