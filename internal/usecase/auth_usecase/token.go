package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// トークンが無い・壊れている・期限切れ
var ErrInvalidToken = errors.New("invalid or expired token")

// 検証済みトークンの持ち主
type Identity struct {
	SubjectID int64  `json:"subjectId"`
	Email     string `json:"email"`
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

type tokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenService はHS256のJWTを発行・検証する。
// 署名鍵は設定から渡す。
type TokenService struct {
	secret []byte
	ttl    time.Duration
	clock  Clock
}

func NewTokenService(secret string, ttl time.Duration, clock Clock) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	if ttl <= 0 {
		return nil, errors.New("jwt ttl must be positive")
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, clock: clock}, nil
}

// Issue はsub/email/iat/expを入れて署名する
func (s *TokenService) Issue(id Identity) (string, time.Time, error) {
	now := s.clock.Now()
	expiresAt := now.Add(s.ttl)

	claims := tokenClaims{
		Email: id.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(id.SubjectID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verify は署名と期限を確認してIdentityを返す
func (s *TokenService) Verify(raw string) (Identity, error) {
	if raw == "" {
		return Identity{}, ErrInvalidToken
	}

	//期限はClockで見るので、ここでは署名だけ確認する
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	claims := &tokenClaims{}
	token, err := parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || token == nil || !token.Valid {
		return Identity{}, ErrInvalidToken
	}

	//expなしは受け付けない
	now := s.clock.Now()
	if !claims.VerifyExpiresAt(now, true) || !claims.VerifyNotBefore(now, false) {
		return Identity{}, ErrInvalidToken
	}

	subjectID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || subjectID <= 0 {
		return Identity{}, ErrInvalidToken
	}

	return Identity{SubjectID: subjectID, Email: claims.Email}, nil
}
