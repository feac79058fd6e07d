package model

// DashboardStats summarises a recruiter's hiring activity
type DashboardStats struct {
	TotalJobs           int64   `json:"totalJobs"`
	ActiveJobs          int64   `json:"activeJobs"`
	TotalInterviews     int64   `json:"totalInterviews"`
	CompletedInterviews int64   `json:"completedInterviews"`
	TotalApplicants     int64   `json:"totalApplicants"`
	AvgRating           float64 `json:"avgRating"`
}
