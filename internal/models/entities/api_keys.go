package entities

import "infinite-experiment/flightdeck/internal/constants"

type ApiKey struct {
	Key       string         `db:"key"`
	Status    bool           `db:"status"`
	AccountID string         `db:"account_id"`
	Role      constants.Role `db:"role"`
}
