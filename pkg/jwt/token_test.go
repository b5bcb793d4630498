package jwtPkg

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func parseWithSecret(t *testing.T, token, secret string) jwt.MapClaims {
	t.Helper()

	parsed, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if !parsed.Valid {
		t.Fatalf("token is not valid")
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatalf("claims are not a map, got %T", parsed.Claims)
	}
	return claims
}

func TestNewRoomTokenCarriesGrant(t *testing.T) {
	t.Setenv("LIVEKIT_API_KEY", "devkey")
	t.Setenv("LIVEKIT_API_SECRET", "devsecret")

	token, err := NewRoomToken("feedback-abc123", "riya-agent", time.Hour)
	if err != nil {
		t.Fatalf("NewRoomToken: %v", err)
	}

	claims := parseWithSecret(t, token, "devsecret")

	if got := claims["iss"]; got != "devkey" {
		t.Fatalf("iss = %v, want devkey", got)
	}
	if got := claims["sub"]; got != "riya-agent" {
		t.Fatalf("sub = %v, want riya-agent", got)
	}
	if got := claims["name"]; got != "riya-agent" {
		t.Fatalf("name = %v, want riya-agent", got)
	}

	grant, ok := claims["video"].(map[string]interface{})
	if !ok {
		t.Fatalf("video claim missing, got %T", claims["video"])
	}
	if got := grant["room"]; got != "feedback-abc123" {
		t.Fatalf("video.room = %v, want feedback-abc123", got)
	}
	for _, key := range []string{"roomJoin", "canPublish", "canSubscribe"} {
		if got, _ := grant[key].(bool); !got {
			t.Fatalf("video.%s = %v, want true", key, grant[key])
		}
	}
}

func TestNewRoomTokenRequiresCredentials(t *testing.T) {
	t.Setenv("LIVEKIT_API_KEY", "")
	t.Setenv("LIVEKIT_API_SECRET", "")

	if _, err := NewRoomToken("room", "user", time.Hour); err == nil {
		t.Fatalf("expected error when credentials are unset")
	}
}

func TestSignMergesOperatorClaims(t *testing.T) {
	t.Setenv("JWT_ACCESS_TOKEN_SECRET", "opsecret")

	token, expiresAt, err := Sign(map[string]interface{}{
		"id":       "01HZXW0000000000000000TEST",
		"username": "admin",
		"role":     "operator",
	}, time.Hour)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if expiresAt <= time.Now().Unix() {
		t.Fatalf("expiresAt = %d, want a future timestamp", expiresAt)
	}

	claims := parseWithSecret(t, token, "opsecret")

	if got := claims["username"]; got != "admin" {
		t.Fatalf("username = %v, want admin", got)
	}
	if got := claims["role"]; got != "operator" {
		t.Fatalf("role = %v, want operator", got)
	}
	if got, _ := claims["authorization"].(bool); !got {
		t.Fatalf("authorization = %v, want true", claims["authorization"])
	}
	if got := int64(claims["exp"].(float64)); got != expiresAt {
		t.Fatalf("exp = %d, want %d", got, expiresAt)
	}
}
