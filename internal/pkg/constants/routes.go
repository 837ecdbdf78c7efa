package constants

// Static route constants
const (
	PublicRoute    = "/"
	LoginRoute     = "/login"
	PricingRoute   = "/pricing"
	ReportsRoute   = "/reports"
	DashboardRoute = "/dashboard"
)
