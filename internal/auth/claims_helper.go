package auth

import (
	"strconv"

	"infinite-experiment/flightdeck/internal/models/entities"
)

func MakeClaimsFromApiKey(key *entities.ApiKey) *APIKeyClaims {
	return &APIKeyClaims{
		AccountIDValue: key.AccountID,
		RoleValue:      key.Role,
	}
}

// CanActFor reports whether the caller may book or list tickets for passengerID.
// Operators act for anyone; passengers only for their own account.
func CanActFor(claims UserClaims, passengerID int64) bool {
	if claims == nil {
		return false
	}
	if claims.IsOperator() {
		return true
	}
	return claims.AccountID() == strconv.FormatInt(passengerID, 10)
}
