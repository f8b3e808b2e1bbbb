package models

// UserStats is the admin-facing aggregate over the users collection.
type UserStats struct {
	TotalUsers      int64           `json:"total_users"`
	RoleBreakdown   RoleBreakdown   `json:"role_breakdown"`
	StatusBreakdown StatusBreakdown `json:"status_breakdown"`
	RecentActivity  RecentActivity  `json:"recent_activity"`
	ApprovalRate    float64         `json:"approval_rate"`
}

type RoleBreakdown struct {
	Customers int64 `json:"customers"`
	Mechanics int64 `json:"mechanics"`
	Admins    int64 `json:"admins"`
}

type StatusBreakdown struct {
	Approved int64 `json:"approved"`
	Pending  int64 `json:"pending"`
	Banned   int64 `json:"banned"`
}

type RecentActivity struct {
	SignupsLast30Days int64 `json:"signups_last_30_days"`
}
