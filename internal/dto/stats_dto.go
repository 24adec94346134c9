package dto

// ContributorSummary is one row of a house contribution leaderboard.
type ContributorSummary struct {
	Wallet            string `json:"wallet"`
	AvatarRef         string `json:"avatar_ref"`
	ContributionScore int64  `json:"contribution_score"`
}

// HouseStatsResponse is the aggregated dashboard view of a house.
type HouseStatsResponse struct {
	House              HouseResponse        `json:"house"`
	PendingActivities  int64                `json:"pending_activities"`
	ApprovedActivities int64                `json:"approved_activities"`
	RejectedActivities int64                `json:"rejected_activities"`
	TopContributors    []ContributorSummary `json:"top_contributors"`
}
