package dto

type SearchQuery struct {
	Query      string `form:"q" binding:"required,max=200"`
	CategoryID string `form:"categoryId" binding:"omitempty,uuid"`
	Limit      int    `form:"limit"`
}

type ThreadHit struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Slug         string `json:"slug"`
	Content      string `json:"content"`
	CategoryID   string `json:"category_id"`
	CategoryName string `json:"category_name"`
	Author       string `json:"author"`
	ViewCount    int    `json:"view_count"`
	CreatedAt    int64  `json:"created_at"`
}

type SearchResponse struct {
	Query string      `json:"query"`
	Hits  []ThreadHit `json:"hits"`
	Total int64       `json:"total"`
}
