package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"krishisaarthi/internal/config"
	"krishisaarthi/internal/db"
	"krishisaarthi/internal/domain"
	"krishisaarthi/internal/session"
	"krishisaarthi/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func init() { gin.SetMode(gin.TestMode) }

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := db.Open(&config.Config{DBDriver: "sqlite", DBPath: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	return gdb
}

func sessionCookie(t *testing.T, p utils.Principal) *http.Cookie {
	t.Helper()
	token, err := utils.GenerateJWT(p, testSecret)
	require.NoError(t, err)
	return &http.Cookie{Name: session.CookieName, Value: token}
}

func serve(r *gin.Engine, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireSession(t *testing.T) {
	carrier := session.NewCarrier(testSecret, false)
	r := gin.New()
	r.GET("/me", RequireSession(carrier), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.MustGet(ContextUserID)})
	})

	w := serve(r, "/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = serve(r, "/me", &http.Cookie{Name: session.CookieName, Value: "garbage"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = serve(r, "/me", sessionCookie(t, utils.Principal{UserID: 7, Email: "a@farm.in", Role: domain.RoleFarmer}))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":7}`, w.Body.String())
}

func TestRequireRoleReadsStoredRole(t *testing.T) {
	gdb := newTestDB(t)
	carrier := session.NewCarrier(testSecret, false)
	user := domain.User{Email: "agent@mandi.in", Password: "x", Role: domain.RoleFarmer}
	require.NoError(t, gdb.Create(&user).Error)

	r := gin.New()
	r.GET("/prices", RequireSession(carrier), RequireRole(gdb, "Only market agents can add prices", domain.RoleMarketAgent),
		func(c *gin.Context) { c.Status(http.StatusNoContent) })

	// The token claims MARKET_AGENT but the stored role is FARMER
	cookie := sessionCookie(t, utils.Principal{UserID: user.ID, Email: user.Email, Role: domain.RoleMarketAgent})
	w := serve(r, "/prices", cookie)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"Only market agents can add prices"}`, w.Body.String())

	require.NoError(t, gdb.Model(&user).Update("role", domain.RoleMarketAgent).Error)
	w = serve(r, "/prices", cookie)
	assert.Equal(t, http.StatusNoContent, w.Code)

	ghost := sessionCookie(t, utils.Principal{UserID: user.ID + 1, Role: domain.RoleMarketAgent})
	w = serve(r, "/prices", ghost)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDashboardRedirects(t *testing.T) {
	carrier := session.NewCarrier(testSecret, false)
	r := gin.New()
	r.GET("/dashboard", DashboardGuard(carrier), func(c *gin.Context) { c.String(http.StatusOK, "dashboard") })
	r.GET("/login", RedirectIfAuthenticated(carrier), func(c *gin.Context) { c.String(http.StatusOK, "login") })

	w := serve(r, "/dashboard", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	w = serve(r, "/login", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	cookie := sessionCookie(t, utils.Principal{UserID: 1, Email: "a@farm.in", Role: domain.RoleFarmer})
	w = serve(r, "/dashboard", cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	w = serve(r, "/login", cookie)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))
}
