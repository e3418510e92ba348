// Package dto defines data transfer objects for the auth feature's HTTP transport layer.
package dto

// RegisterReq is the body of POST /api/users/register.
type RegisterReq struct {
	Username string `json:"username" binding:"required,max=255"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// TokenRes is returned by register and login.
type TokenRes struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}
