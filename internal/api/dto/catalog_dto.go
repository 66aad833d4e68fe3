package dto

// CreateNamedRequest payload for tag and department creation.
type CreateNamedRequest struct {
	Name string `json:"name"`
}

// TagResponse is the tag wire shape.
type TagResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DepartmentResponse is the department wire shape.
type DepartmentResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
