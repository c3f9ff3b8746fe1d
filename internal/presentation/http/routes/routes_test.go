package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AtRiskMedia/admini-go/internal/application/container"
	domainsvc "github.com/AtRiskMedia/admini-go/internal/domain/services"
	"github.com/AtRiskMedia/admini-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/admini-go/internal/infrastructure/outbound"
	"github.com/AtRiskMedia/admini-go/internal/infrastructure/persistence/document"
	"github.com/AtRiskMedia/admini-go/internal/presentation/http/middleware"
	"github.com/AtRiskMedia/admini-go/internal/presentation/i18n"
)

type stubExecutor struct{}

func (stubExecutor) Do(ctx context.Context, req domainsvc.BoundRequest) (*outbound.Response, error) {
	return &outbound.Response{StatusCode: http.StatusOK, Body: []byte(`[{"id":1,"title":"Widget"}]`)}, nil
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := logging.NewDiscardLogger()
	repo := document.NewFileRepository(filepath.Join(t.TempDir(), "data.json"), logger)
	c := container.NewContainerWithExecutor(repo, stubExecutor{}, logger)
	require.NoError(t, c.DocumentService.Load(context.Background()))
	return SetupRoutes(c)
}

func do(r *gin.Engine, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func cookieNamed(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func login(t *testing.T, r *gin.Engine, path, cookie, username, password string) *http.Cookie {
	t.Helper()
	w := do(r, http.MethodPost, path, `{"username":"`+username+`","password":"`+password+`"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	session := cookieNamed(w, cookie)
	require.NotNil(t, session)
	return &http.Cookie{Name: session.Name, Value: session.Value}
}

func TestHealthAndMetricsArePublic(t *testing.T) {
	r := newTestRouter(t)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/healthz", "").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/metrics", "").Code)
}

func TestAdminAPIRequiresSession(t *testing.T) {
	r := newTestRouter(t)
	w := do(r, http.MethodGet, "/api/admin/pages", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodPost, "/api/auth/admin/login", `{"username":"admini","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Invalid credentials"}`, w.Body.String())
}

func TestBuildAndPublishPage(t *testing.T) {
	r := newTestRouter(t)
	admin := login(t, r, "/api/auth/admin/login", middleware.AdminCookie, "admini", "admini")

	w := do(r, http.MethodPost, "/api/admin/apis", `{"name":"Orders","url":"https://x/orders","method":"get"}`, admin)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var api struct {
		ID     string `json:"id"`
		Method string `json:"method"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &api))
	assert.Equal(t, "GET", api.Method)

	w = do(r, http.MethodPost, "/api/admin/pages", `{"name":"Orders","slug":"/Orders"}`, admin)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var page struct {
		ID   string `json:"id"`
		Slug string `json:"slug"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, "orders", page.Slug)

	w = do(r, http.MethodPost, "/api/admin/pages/"+page.ID+"/components", `{"type":"table"}`, admin)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var node struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &node))

	w = do(r, http.MethodPut, "/api/admin/pages/"+page.ID+"/components/"+node.ID, `{"apiId":"`+api.ID+`"}`, admin)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	user := login(t, r, "/api/auth/login", middleware.UserCookie, "admin", "password")

	w = do(r, http.MethodGet, "/orders", "", user)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")

	w = do(r, http.MethodGet, "/app/content?path=orders", "", user)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Widget")

	w = do(r, http.MethodGet, "/nowhere", "", user)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAnonymousPageRedirectsToLogin(t *testing.T) {
	r := newTestRouter(t)
	w := do(r, http.MethodGet, "/orders", "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, middleware.UserLoginPath, w.Header().Get("Location"))

	w = do(r, http.MethodGet, middleware.UserLoginPath, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Sign in")
}

func TestEditorLanguageSwitcher(t *testing.T) {
	r := newTestRouter(t)
	admin := login(t, r, "/api/auth/admin/login", middleware.AdminCookie, "admini", "admini")

	w := do(r, http.MethodPost, "/api/admin/pages", `{"name":"Orders","slug":"orders"}`, admin)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var page struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	editorPath := "/admin/editor/" + page.ID

	w = do(r, http.MethodGet, editorPath, "", admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Data Table")
	assert.Contains(t, w.Body.String(), `<option value="en" selected>English</option>`)

	form := url.Values{"lang": {"vi"}, "next": {editorPath}}
	req := httptest.NewRequest(http.MethodPost, "/admin/language", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(admin)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, editorPath, w.Header().Get("Location"))
	lang := cookieNamed(w, i18n.CookieName)
	require.NotNil(t, lang)
	assert.Equal(t, "vi", lang.Value)

	w = do(r, http.MethodGet, editorPath, "", admin, &http.Cookie{Name: lang.Name, Value: lang.Value})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Bảng dữ liệu")
	assert.Contains(t, w.Body.String(), `<option value="vi" selected>Tiếng Việt</option>`)

	form = url.Values{"lang": {"vi"}, "next": {"https://evil.example"}}
	req = httptest.NewRequest(http.MethodPost, "/admin/language", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(admin)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, middleware.AdminHomePath, w.Header().Get("Location"))
}
