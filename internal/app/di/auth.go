package di

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	authadapters "shop_backend/internal/feature/auth/adapters"
	authhandler "shop_backend/internal/feature/auth/transport/handler"
	authusecase "shop_backend/internal/feature/auth/usecase"
	jwtmw "shop_backend/internal/platform/jwt"
	"shop_backend/internal/platform/password"
)

// NewAuthUsecase wires the user repository with bcrypt and the token manager.
func NewAuthUsecase(db *gorm.DB, tokens *jwtmw.Manager) authhandler.AuthUsecase {
	return authusecase.NewAuthUsecase(
		authadapters.NewUserGorm(db),
		password.NewBcryptHasher(bcrypt.DefaultCost),
		tokens,
	)
}
