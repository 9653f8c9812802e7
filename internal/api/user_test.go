package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"mepapp/calltrack/internal/auth"
	"mepapp/calltrack/internal/constants"
	gormModels "mepapp/calltrack/internal/models/gorm"
)

type mockUserFinder struct {
	findByIDFunc func(ctx context.Context, id string) (*gormModels.User, error)
}

func (m *mockUserFinder) FindByID(ctx context.Context, id string) (*gormModels.User, error) {
	return m.findByIDFunc(ctx, id)
}

func TestWhoAmIHandler(t *testing.T) {
	users := map[string]*gormModels.User{
		"staff-1": {ID: "staff-1", Name: "Ravi", Phone: "+1", Role: constants.RoleStaff, Status: constants.UserStatusActive},
		"staff-2": {ID: "staff-2", Name: "Old", Phone: "+2", Role: constants.RoleStaff, Status: constants.UserStatusInactive},
	}
	handler := WhoAmIHandler(&mockUserFinder{
		findByIDFunc: func(ctx context.Context, id string) (*gormModels.User, error) {
			return users[id], nil
		},
	})

	tests := []struct {
		name   string
		claims auth.UserClaims
		want   int
	}{
		{"no claims", nil, http.StatusUnauthorized},
		{"active", &auth.JWTClaims{StaffUUID: "staff-1", RoleValue: constants.RoleStaff}, http.StatusOK},
		{"inactive", &auth.JWTClaims{StaffUUID: "staff-2", RoleValue: constants.RoleStaff}, http.StatusUnauthorized},
		{"missing", &auth.JWTClaims{StaffUUID: "staff-3", RoleValue: constants.RoleStaff}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			if tt.claims != nil {
				req = req.WithContext(auth.SetUserClaims(req.Context(), tt.claims))
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			if rr.Code != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, rr.Code)
			}
		})
	}
}
