package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/erazemk/arsenal/internal/model"
)

func TestGenerateAndValidateToken(t *testing.T) {
	secret := "test-secret-key"
	baseID := int64(7)
	user := &model.User{ID: 1, Username: "cmdr", Role: model.RoleBaseCommander, BaseID: &baseID}

	token, err := GenerateToken(secret, user)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ValidateToken(secret, token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != 1 || claims.Username != "cmdr" || claims.Role != model.RoleBaseCommander {
		t.Errorf("unexpected claims %+v", claims)
	}
	if claims.BaseID == nil || *claims.BaseID != 7 {
		t.Errorf("expected base 7, got %v", claims.BaseID)
	}
	if claims.ID == "" {
		t.Error("expected a token id")
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, _ := GenerateToken("secret1", &model.User{ID: 1, Username: "admin", Role: model.RoleAdmin})

	if _, err := ValidateToken("secret2", token); err == nil {
		t.Error("expected error for wrong secret")
	}
}

func TestValidateTokenInvalid(t *testing.T) {
	if _, err := ValidateToken("secret", "not-a-token"); err == nil {
		t.Error("expected error for invalid token")
	}
}

func TestValidateTokenRejectsForeignClaims(t *testing.T) {
	sign := func(c Claims) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte("secret"))
		if err != nil {
			t.Fatal(err)
		}
		return s
	}
	exp := jwt.NewNumericDate(time.Now().Add(time.Hour))

	tests := map[string]Claims{
		"wrong issuer": {UserID: 1, Role: model.RoleAdmin,
			RegisteredClaims: jwt.RegisteredClaims{Issuer: "someone", ExpiresAt: exp}},
		"no expiry": {UserID: 1, Role: model.RoleAdmin,
			RegisteredClaims: jwt.RegisteredClaims{Issuer: Issuer}},
		"unknown role": {UserID: 1, Role: "superuser",
			RegisteredClaims: jwt.RegisteredClaims{Issuer: Issuer, ExpiresAt: exp}},
		"expired": {UserID: 1, Role: model.RoleAdmin,
			RegisteredClaims: jwt.RegisteredClaims{Issuer: Issuer, ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour))}},
	}
	for name, c := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ValidateToken("secret", sign(c)); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestTokenExpiry(t *testing.T) {
	secret := "test"
	token, _ := GenerateToken(secret, &model.User{ID: 1, Username: "test", Role: model.RoleLogisticsOfficer})
	claims, _ := ValidateToken(secret, token)

	diff := time.Now().Add(TokenExpiry).Sub(claims.ExpiresAt.Time)
	if diff < -5*time.Second || diff > 5*time.Second {
		t.Errorf("token expiry too far from expected: diff=%v", diff)
	}
}
