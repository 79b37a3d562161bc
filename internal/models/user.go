package model

type User struct {
	Code     int    `json:"code"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"-"`
}
