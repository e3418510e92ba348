package dto

import "time"

// FavoritesReq is the body of PUT /api/users/favorites.
// An empty array clears the list; a missing field is rejected.
type FavoritesReq struct {
	Favorites []uint `json:"favorites" binding:"required"`
}

// FavoritesRes echoes the stored list.
type FavoritesRes struct {
	Message   string `json:"message"`
	Favorites []uint `json:"favorites"`
}

// UserRes is the public view of a user. The password digest is never included.
type UserRes struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Favorites []uint    `json:"favorites"`
	CreatedAt time.Time `json:"createdAt"`
}
