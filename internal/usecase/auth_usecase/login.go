package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	repo "github.com/MahyaarMaleki/storetrack/internal/repository"
	"github.com/MahyaarMaleki/storetrack/internal/usecase"
)

// handlerからusecaseに渡す入力
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handlerがJSONとCookieにする
type LoginOutput struct {
	Token     string
	ExpiresAt time.Time
	Identity  Identity
}

// JWTを発行する約束
type TokenIssuer interface {
	Issue(id Identity) (token string, expiresAt time.Time, err error)
}

type LoginUsecase struct {
	admins   repo.AdminRepository
	verifier PasswordVerifier
	issuer   TokenIssuer
}

func NewLoginUsecase(admins repo.AdminRepository, verifier PasswordVerifier, issuer TokenIssuer) *LoginUsecase {
	return &LoginUsecase{admins: admins, verifier: verifier, issuer: issuer}
}

// ログイン処理を実行する
// emailが無い・パスワード違いはどちらも同じ401
func (u *LoginUsecase) Execute(ctx context.Context, in LoginInput) (LoginOutput, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return LoginOutput{}, usecase.NewValidationError("email and password are required")
	}

	admin, err := u.admins.FindByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return LoginOutput{}, usecase.NewUnauthorizedError("invalid credentials")
	}
	if err != nil {
		return LoginOutput{}, usecase.NewInternalError(err)
	}

	if !u.verifier.Verify(in.Password, admin.HashedPassword) {
		return LoginOutput{}, usecase.NewUnauthorizedError("invalid credentials")
	}

	id := Identity{SubjectID: admin.ID, Email: admin.Email}
	token, expiresAt, err := u.issuer.Issue(id)
	if err != nil {
		return LoginOutput{}, usecase.NewInternalError(err)
	}

	return LoginOutput{Token: token, ExpiresAt: expiresAt, Identity: id}, nil
}
