package dto

// EmployeeWriteRequest is the full-write payload for create and PUT. On a
// full update, omitted relation arrays clear the stored sets.
type EmployeeWriteRequest struct {
	Title       string   `json:"title"`
	Experience  int      `json:"experience"`
	Salary      string   `json:"salary"`
	Link        string   `json:"link"`
	Tags        []string `json:"tags"`
	Departments []string `json:"department"`
}

// EmployeePatchRequest is the partial-update payload. Nil fields are left
// untouched; a present relation array replaces the whole set.
type EmployeePatchRequest struct {
	Title       *string   `json:"title"`
	Experience  *int      `json:"experience"`
	Salary      *string   `json:"salary"`
	Link        *string   `json:"link"`
	Tags        *[]string `json:"tags"`
	Departments *[]string `json:"department"`
}

// EmployeeSummary is the list/write output shape: relations as bare ids.
type EmployeeSummary struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Experience  int      `json:"experience"`
	Salary      string   `json:"salary"`
	Link        string   `json:"link"`
	Tags        []string `json:"tags"`
	Departments []string `json:"department"`
	Image       *string  `json:"image,omitempty"`
}

// EmployeeDetail is the retrieve output shape: relations embedded inline.
type EmployeeDetail struct {
	ID          string               `json:"id"`
	Title       string               `json:"title"`
	Experience  int                  `json:"experience"`
	Salary      string               `json:"salary"`
	Link        string               `json:"link"`
	Tags        []TagResponse        `json:"tags"`
	Departments []DepartmentResponse `json:"department"`
	Image       *string              `json:"image,omitempty"`
}

// EmployeeImageResponse is the narrow shape returned by the upload action.
type EmployeeImageResponse struct {
	ID    string  `json:"id"`
	Image *string `json:"image"`
}
