package dto

type ForumStats struct {
	TotalUsers   int64 `json:"total_users"`
	TotalThreads int64 `json:"total_threads"`
	TotalPosts   int64 `json:"total_posts"`
}
