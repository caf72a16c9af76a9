package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"clinic-management/internal/delivery/dto"
	"clinic-management/internal/domain/entity"
	"clinic-management/internal/usecase"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAuthUsecase struct {
	mock.Mock
}

func (m *MockAuthUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TokenResponse), args.Error(1)
}

func (m *MockAuthUsecase) Logout(ctx context.Context, session dto.Session, req *dto.LogoutRequest) error {
	return m.Called(ctx, session, req).Error(0)
}

func (m *MockAuthUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TokenResponse), args.Error(1)
}

func (m *MockAuthUsecase) Me(ctx context.Context, actor entity.Actor) (*dto.UserResponse, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UserResponse), args.Error(1)
}

func (m *MockAuthUsecase) Authenticate(ctx context.Context, accessToken string) (*dto.Session, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Session), args.Error(1)
}

func (m *MockAuthUsecase) ResolveActor(ctx context.Context, session dto.Session, branchHeader string) (entity.Actor, error) {
	args := m.Called(ctx, session, branchHeader)
	return args.Get(0).(entity.Actor), args.Error(1)
}

func newTestMiddleware() (*AuthMiddleware, *MockAuthUsecase) {
	log, _ := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	uc := new(MockAuthUsecase)
	return NewAuthMiddleware(uc, log), uc
}

func echoActor(t *testing.T, seen *entity.Actor) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := GetActorFromContext(r.Context())
		require.True(t, ok)
		_, ok = GetSessionFromContext(r.Context())
		require.True(t, ok)
		*seen = actor
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthenticate_ResolvesActorWithBranchHeader(t *testing.T) {
	m, uc := newTestMiddleware()
	session := &dto.Session{UserID: uuid.New(), TokenID: "tok"}
	branchID := uuid.New()
	actor := entity.Actor{UserID: session.UserID, Role: entity.RoleAdmin, BranchID: branchID}

	uc.On("Authenticate", mock.Anything, "abc").Return(session, nil)
	uc.On("ResolveActor", mock.Anything, *session, branchID.String()).Return(actor, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/patients", nil)
	req.Header.Set("Authorization", "Bearer abc")
	req.Header.Set(BranchHeader, branchID.String())
	rec := httptest.NewRecorder()

	var seen entity.Actor
	m.Authenticate(echoActor(t, &seen)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, actor, seen)
}

func TestAuthenticate_Rejections(t *testing.T) {
	t.Run("missing header", func(t *testing.T) {
		m, _ := newTestMiddleware()
		rec := httptest.NewRecorder()
		m.Authenticate(http.NotFoundHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("revoked token", func(t *testing.T) {
		m, uc := newTestMiddleware()
		uc.On("Authenticate", mock.Anything, "old").Return(nil, usecase.ErrTokenRevoked)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer old")
		rec := httptest.NewRecorder()
		m.Authenticate(http.NotFoundHandler()).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "revoked")
	})

	t.Run("branch switch denied", func(t *testing.T) {
		m, uc := newTestMiddleware()
		session := &dto.Session{UserID: uuid.New()}
		uc.On("Authenticate", mock.Anything, "abc").Return(session, nil)
		uc.On("ResolveActor", mock.Anything, *session, mock.Anything).Return(entity.Actor{}, usecase.ErrBranchSwitchDenied)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer abc")
		req.Header.Set(BranchHeader, uuid.NewString())
		rec := httptest.NewRecorder()
		m.Authenticate(http.NotFoundHandler()).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func withActor(r *http.Request, role entity.Role) *http.Request {
	ctx := context.WithValue(r.Context(), ActorKey, entity.Actor{UserID: uuid.New(), Role: role})
	return r.WithContext(ctx)
}

func TestRequireRoute(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	cases := []struct {
		role  entity.Role
		route string
		want  int
	}{
		{entity.RoleAccountant, "/dashboard/invoices", http.StatusOK},
		{entity.RoleDoctor, "/dashboard/invoices", http.StatusForbidden},
		{entity.RoleReceptionist, "/dashboard/audit-logs", http.StatusForbidden},
		{entity.RoleAccountant, "/dashboard/audit-logs", http.StatusOK},
		{entity.RoleXRayTechnician, "/dashboard", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(string(tc.role)+tc.route, func(t *testing.T) {
			rec := httptest.NewRecorder()
			RequireRoute(tc.route)(ok).ServeHTTP(rec, withActor(httptest.NewRequest(http.MethodGet, "/", nil), tc.role))
			assert.Equal(t, tc.want, rec.Code)
		})
	}

	rec := httptest.NewRecorder()
	RequireRoute("/dashboard")(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	gate := RequireRole(entity.RoleSuperAdmin, entity.RoleAdmin)

	rec := httptest.NewRecorder()
	gate(ok).ServeHTTP(rec, withActor(httptest.NewRequest(http.MethodGet, "/", nil), entity.RoleAdmin))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	gate(ok).ServeHTTP(rec, withActor(httptest.NewRequest(http.MethodGet, "/", nil), entity.RoleDoctor))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCORS_PreflightAndOrigins(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) })

	rec := httptest.NewRecorder()
	NewCORSMiddleware(nil).Handle(next).ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), BranchHeader)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPatch)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://admin.clinic.test")
	rec = httptest.NewRecorder()
	NewCORSMiddleware([]string{"https://clinic.test", "https://admin.clinic.test"}).Handle(next).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "https://admin.clinic.test", rec.Header().Get("Access-Control-Allow-Origin"))
}
