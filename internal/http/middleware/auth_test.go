package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/studyhall/lms-backend/internal/domain"
	"github.com/studyhall/lms-backend/internal/platform/ctxutil"
	"github.com/studyhall/lms-backend/internal/platform/logger"
	"github.com/studyhall/lms-backend/internal/services"
)

func testRouter(t *testing.T, authService services.AuthService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("build logger: %v", err)
	}
	am := NewAuthMiddleware(log, authService)

	r := gin.New()
	protected := r.Group("/", am.RequireAuth())
	protected.GET("/me", func(c *gin.Context) {
		rd := ctxutil.GetRequestData(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"user_id": rd.UserID.String(), "role": rd.Role})
	})
	instructor := protected.Group("/", am.RequireRole(domain.RoleInstructor))
	instructor.GET("/teach", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

const testJWTSecret = "middleware-test-secret"

// issueToken signs a token the way AuthService does, with the shared test
// secret, so RequireAuth accepts it.
func issueToken(t *testing.T, role string) string {
	t.Helper()

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  uuid.NewString(),
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestRequireAuth_RejectsMissingToken(t *testing.T) {
	authService := newTestAuthService(t)
	r := testRouter(t, authService)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestRequireAuth_RejectsMalformedHeader(t *testing.T) {
	authService := newTestAuthService(t)
	r := testRouter(t, authService)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Token abcdef")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestRequireAuth_AcceptsValidBearer(t *testing.T) {
	authService := newTestAuthService(t)
	r := testRouter(t, authService)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, domain.RoleStudent))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", w.Code, w.Body.String())
	}
}

func TestRequireRole_EnforcesRole(t *testing.T) {
	authService := newTestAuthService(t)
	r := testRouter(t, authService)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/teach", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, domain.RoleStudent))
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("student on instructor route: status = %d, want 403", w.Code)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/teach", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, domain.RoleInstructor))
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("instructor on instructor route: status = %d, want 200", w.Code)
	}

	// Admins pass every role gate.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/teach", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, domain.RoleAdmin))
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("admin on instructor route: status = %d, want 200", w.Code)
	}
}

func newTestAuthService(t *testing.T) services.AuthService {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("build logger: %v", err)
	}
	return services.NewAuthService(nil, log, nil, testJWTSecret, time.Hour)
}
