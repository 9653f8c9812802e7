package auth

import (
	"context"
	"testing"
	"time"

	"mepapp/calltrack/internal/constants"
)

func TestIssueAndParseToken(t *testing.T) {
	secret := []byte("test-secret")

	raw, err := IssueToken(secret, "staff-1", constants.RoleStaff, time.Hour)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	claims, err := ParseToken(secret, raw)
	if err != nil {
		t.Fatalf("Expected valid token, got %v", err)
	}
	if claims.UserID() != "staff-1" {
		t.Errorf("Expected staff-1, got %s", claims.UserID())
	}
	if claims.IsAdmin() {
		t.Error("Expected STAFF role, got admin")
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	raw, _ := IssueToken([]byte("a"), "staff-1", constants.RoleAdmin, time.Hour)

	if _, err := ParseToken([]byte("b"), raw); err == nil {
		t.Error("Expected error for wrong secret")
	}
}

func TestParseToken_Expired(t *testing.T) {
	secret := []byte("test-secret")
	raw, _ := IssueToken(secret, "staff-1", constants.RoleStaff, -time.Minute)

	if _, err := ParseToken(secret, raw); err == nil {
		t.Error("Expected error for expired token")
	}
}

func TestUserClaimsContext(t *testing.T) {
	ctx := SetUserClaims(context.Background(), &JWTClaims{StaffUUID: "s", RoleValue: constants.RoleAdmin})

	claims := GetUserClaims(ctx)
	if claims == nil || !claims.IsAdmin() {
		t.Fatalf("Expected admin claims, got %v", claims)
	}
	if GetUserClaims(context.Background()) != nil {
		t.Error("Expected nil claims on empty context")
	}
}
