package dto

type CreateTaskRequest struct {
	Code        *int   `json:"code"`
	Name        string `json:"name"`
	RepUserCode *int   `json:"rep_user_code"`
}

type ChangeStatusRequest struct {
	Status *int `json:"status"`
}
