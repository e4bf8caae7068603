package domain

// Stat dimensions accepted by GET /user/userGrowth.
const (
	StatDaily   = "daily"
	StatWeekly  = "weekly"
	StatMonthly = "monthly"
)

// GrowthQuery selects the time window and bucketing of the growth series.
type GrowthQuery struct {
	StartTime     string
	EndTime       string
	StatDimension string
}

// GrowthPoint is one bucket of the user growth / activity series.
type GrowthPoint struct {
	StatDateDesc string  `json:"statDateDesc"`
	NewUserCount int     `json:"newUserCount"`
	ActivityRate float64 `json:"activityRate"`
}

// UserStatistics is the data portion of GET /user/userStatistics.
type UserStatistics struct {
	TodayActiveUserCount int   `json:"todayActiveUserCount"`
	TodayNewUserCount    int   `json:"todayNewUserCount"`
	UserCount            int64 `json:"userCount"`
	WeekNewUserCount     int   `json:"weekNewUserCount"`
}

// DashboardOverview bundles the statistics and the growth series the
// dashboard view renders on first paint.
type DashboardOverview struct {
	Statistics *UserStatistics `json:"statistics"`
	Growth     []GrowthPoint   `json:"growth"`
}

// MetricsSnapshot is a JSON-friendly summary of the gateway's own counters,
// served on the console's system endpoint.
type MetricsSnapshot struct {
	GuardProceed     int64   `json:"guardProceed"`
	GuardRedirects   int64   `json:"guardRedirects"`
	BackendErrors    int64   `json:"backendErrors"`
	Notifications    int64   `json:"notifications"`
	CacheHitRate     float64 `json:"cacheHitRate"`
	SessionResets    int64   `json:"sessionResets"`
	TenantResolves   int64   `json:"tenantResolves"`
	TenantResolveErr int64   `json:"tenantResolveErrors"`
}
