package constants

const (
	GetStatusByApiKey = `
	SELECT key, status, account_id, role FROM api_keys WHERE key = $1
	`

	InsertApiKey = `
	INSERT INTO api_keys (key, status, account_id, role, created_at) VALUES ($1, true, $2, $3, CURRENT_TIMESTAMP)
	`
)
