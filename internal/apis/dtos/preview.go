package dtos

type LinkPreviewResponse struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
}
