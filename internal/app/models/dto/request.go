package dto

// PaginationInfo represents pagination metadata
type PaginationInfo struct {
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	PageSize    int `json:"pageSize"`
	TotalItems  int `json:"totalItems"`
}
