package constants

// Pagination Query Parameters
const (
	QueryParamPage   = "page"
	QueryParamLimit  = "limit"
	QueryParamSearch = "search"
	QueryParamStatus = "status"
	QueryParamSort   = "sort_by"
	QueryParamOrder  = "sort_order"
)

// Default Pagination Values (as strings for query parsing)
const (
	DefaultPage   = "1"
	DefaultLimit  = "10"
	DefaultSearch = ""
)

// Pagination Limits
const (
	MinPage  = 1
	MinLimit = 1
	MaxLimit = 50
)

// Sort Orders
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// Account status filters
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusAll      = "all"
)

// Subscription filters and states
const (
	SubscriptionFilterActive   = "active"
	SubscriptionFilterExpiring = "expiring"
	SubscriptionFilterExpired  = "expired"

	SubscriptionNone         = "NO_SUBSCRIPTION"
	SubscriptionExpired      = "EXPIRED"
	SubscriptionExpiringSoon = "EXPIRING_SOON"
	SubscriptionActive       = "ACTIVE"
)
