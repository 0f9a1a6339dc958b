package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type movableClock struct{ t time.Time }

func (c *movableClock) Now() time.Time { return c.t }

func TestTokenService_IssueVerify(t *testing.T) {
	svc, err := NewTokenService("secret", 12*time.Hour, nil)
	require.NoError(t, err)

	token, exp, err := svc.Issue(Identity{SubjectID: 7, Email: "admin@storetrack.com"})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(12*time.Hour), exp, 5*time.Second)

	id, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, Identity{SubjectID: 7, Email: "admin@storetrack.com"}, id)
}

func TestTokenService_Verify_Rejects(t *testing.T) {
	svc, err := NewTokenService("secret", 12*time.Hour, nil)
	require.NoError(t, err)

	other, err := NewTokenService("other-secret", 12*time.Hour, nil)
	require.NoError(t, err)
	foreign, _, err := other.Issue(Identity{SubjectID: 1, Email: "a@b.c"})
	require.NoError(t, err)

	past, err := NewTokenService("secret", 12*time.Hour, fixedClock{t: time.Now().Add(-13 * time.Hour)})
	require.NoError(t, err)
	expired, _, err := past.Issue(Identity{SubjectID: 1, Email: "a@b.c"})
	require.NoError(t, err)

	hs512 := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	wrongAlg, err := hs512.SignedString([]byte("secret"))
	require.NoError(t, err)

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "1"})
	noExpToken, err := noExp.SignedString([]byte("secret"))
	require.NoError(t, err)

	for name, raw := range map[string]string{
		"empty":        "",
		"garbage":      "not-a-jwt",
		"wrong secret": foreign,
		"expired":      expired,
		"wrong alg":    wrongAlg,
		"missing exp":  noExpToken,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Verify(raw)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestNewTokenService_RequiresSecret(t *testing.T) {
	_, err := NewTokenService("", time.Hour, nil)
	assert.Error(t, err)

	_, err = NewTokenService("secret", 0, nil)
	assert.Error(t, err)
}

func TestTokenService_Verify_UsesClock(t *testing.T) {
	clock := &movableClock{t: time.Date(2020, 1, 1, 9, 0, 0, 0, time.UTC)}
	svc, err := NewTokenService("secret", time.Hour, clock)
	require.NoError(t, err)

	// 実時間ではとっくに期限切れでも、Clockの時刻で見れば有効
	token, _, err := svc.Issue(Identity{SubjectID: 3, Email: "a@b.c"})
	require.NoError(t, err)

	id, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(3), id.SubjectID)

	clock.t = clock.t.Add(time.Hour + time.Second)
	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_Verify_NotBefore(t *testing.T) {
	svc, err := NewTokenService("secret", time.Hour, nil)
	require.NoError(t, err)

	future := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "1",
		NotBefore: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(2 * time.Hour)),
	})
	raw, err := future.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = svc.Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
