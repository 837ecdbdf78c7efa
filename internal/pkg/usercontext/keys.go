package usercontext

// Shared Locals/session keys used across controllers and middlewares
const (
	AuthKey               = "authenticated"
	KeyUserContext        = "USER_CONTEXT"
	KeyUserID             = "user_id"
	KeyUsername           = "username"
	KeyCustomerID         = "customer_id"
	KeyIsAdmin            = "isAdmin"
	KeyFromProtected      = "from_protected"
	KeySubscriptionActive = "subscription_active"
)
