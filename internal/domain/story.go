package domain

// Story is the structured record returned by the generative-content service.
type Story struct {
	Title   string   `json:"title" validate:"required"`
	Content string   `json:"content" validate:"required"`
	Summary string   `json:"summary" validate:"required"`
	Tags    []string `json:"tags" validate:"required"`
}

type StoryRequest struct {
	Seed string `json:"seed" validate:"required"`
}
