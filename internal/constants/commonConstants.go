package constants

type (
	RequestSource string
	APIStatus     string
	CachePrefix   string
)

const (
	RequestSourceAPIKey RequestSource = "API_KEY"
	RequestSourceJWT    RequestSource = "JWT"

	APIStatusOk    APIStatus = "ok"
	APIStatusError APIStatus = "error"

	CachePrefixRoute     CachePrefix = "ROUTE_"
	CachePrefixRouteList CachePrefix = "ROUTE_LIST"
)

// DateLayout is the calendar-day format accepted by instance search.
const DateLayout = "2006-01-02"
