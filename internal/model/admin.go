package model

// GrowthPoint is one day of a dashboard time series.
type GrowthPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// TopUser is a most-active-users dashboard entry.
type TopUser struct {
	UserID        int    `json:"userId"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Picture       string `json:"picture"`
	TrackingCount int    `json:"trackingCount"`
}

// DashboardStats is the admin dashboard aggregate.
type DashboardStats struct {
	TotalUsers             int           `json:"totalUsers"`
	ActiveUsers            int           `json:"activeUsers"`
	DeactivatedUsers       int           `json:"deactivatedUsers"`
	PendingSubscriptions   int           `json:"pendingSubscriptions"`
	ActiveSubscriptions    int           `json:"activeSubscriptions"`
	NewUsersThisWeek       int           `json:"newUsersThisWeek"`
	NewUsersThisMonth      int           `json:"newUsersThisMonth"`
	RecentActivity         int           `json:"recentActivity"`
	GrowthData             []GrowthPoint `json:"growthData"`
	SubscriptionGrowthData []GrowthPoint `json:"subscriptionGrowthData"`
	TopUsers               []TopUser     `json:"topUsers"`
}

// UserWithStats decorates a user with per-user usage counts for admin lists.
type UserWithStats struct {
	User
	HabitCount    int `json:"habitCount"`
	TrackingCount int `json:"trackingCount"`
}

// UserPage is one page of the admin user list.
type UserPage struct {
	Users       []UserWithStats `json:"users"`
	Total       int             `json:"total"`
	Pages       int             `json:"pages"`
	CurrentPage int             `json:"currentPage"`
}

// SubscriptionUser decorates a user with the remaining entitlement in days,
// floored at zero.
type SubscriptionUser struct {
	User
	DaysLeft int `json:"daysLeft"`
}
