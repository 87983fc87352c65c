package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"slotskolan.se/forum/internal/config"
	"slotskolan.se/forum/internal/entity"
	"slotskolan.se/forum/internal/testutil"
	"slotskolan.se/forum/pkg/token"
)

const testSecret = "test-secret"

type client struct {
	t       *testing.T
	handler http.Handler
}

func (c client) do(method, path, bearer string, body any) (int, map[string]any) {
	c.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			c.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)

	out := map[string]any{}
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
			c.t.Fatalf("%s %s: decode %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w.Code, out
}

func (c client) expect(want int, method, path, bearer string, body any) map[string]any {
	c.t.Helper()
	code, out := c.do(method, path, bearer, body)
	if code != want {
		c.t.Fatalf("%s %s = %d, want %d (%v)", method, path, code, want, out)
	}
	return out
}

func (c client) register(username string) (string, string) {
	c.t.Helper()
	out := c.expect(http.StatusCreated, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@slotskolan.test",
		"password": "hemligt123",
	})
	user := out["user"].(map[string]any)
	return out["access_token"].(string), user["id"].(string)
}

func TestForumOverHTTP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(t)
	cfg := &config.Config{
		AllowedOrigins: []string{"http://localhost:3000"},
		JWTSecret:      testSecret,
		JWTTTL:         time.Hour,
	}
	c := client{t: t, handler: NewServer(cfg, db, nil, nil).Handler()}

	admin := testutil.CreateUser(t, db, "Admin", entity.RoleAdmin)
	adminToken, err := token.NewManager(testSecret, time.Hour).Issue(admin.ID)
	if err != nil {
		t.Fatalf("issue admin token: %v", err)
	}

	alice, _ := c.register("alice")
	bob, bobID := c.register("bob")

	c.expect(http.StatusForbidden, http.MethodPost, "/api/admin/categories", alice, map[string]any{"name": "Slots"})
	category := c.expect(http.StatusCreated, http.MethodPost, "/api/admin/categories", adminToken, map[string]any{"name": "Slots"})
	categoryID := category["id"].(string)

	c.expect(http.StatusUnauthorized, http.MethodPost, "/api/threads", "", map[string]any{
		"categoryId": categoryID, "title": "Bästa slots?", "content": "Tips?",
	})
	thread := c.expect(http.StatusCreated, http.MethodPost, "/api/threads", alice, map[string]any{
		"categoryId": categoryID, "title": "Bästa slots?", "content": "Tips?",
	})
	threadID := thread["id"].(string)
	if thread["slug"] != "basta-slots" {
		t.Errorf("slug = %v, want basta-slots", thread["slug"])
	}

	reply := c.expect(http.StatusCreated, http.MethodPost, "/api/threads/"+threadID+"/posts", bob, map[string]any{"content": "Book of Dead"})
	postID := reply["id"].(string)

	detail := c.expect(http.StatusOK, http.MethodGet, "/api/threads/"+threadID, "", nil)
	if posts := detail["posts"].([]any); len(posts) != 2 {
		t.Errorf("posts = %d, want 2", len(posts))
	}

	c.expect(http.StatusForbidden, http.MethodPatch, "/api/threads/"+threadID+"/accept-post", bob, map[string]any{"postId": postID})
	accepted := c.expect(http.StatusOK, http.MethodPost, "/api/threads/"+threadID+"/accept-post", alice, map[string]any{"postId": postID})
	if accepted["accepted"] != true {
		t.Errorf("accept response %v", accepted)
	}

	me := c.expect(http.StatusOK, http.MethodGet, "/api/users/me", bob, nil)
	if me["reputation"].(float64) != 16 {
		t.Errorf("bob reputation = %v, want 16", me["reputation"])
	}
	profile := c.expect(http.StatusOK, http.MethodGet, "/api/users/"+bobID, "", nil)
	if profile["username"] != "bob" {
		t.Errorf("public profile %v", profile)
	}

	liked := c.expect(http.StatusOK, http.MethodPost, "/api/posts/"+postID+"/like", alice, nil)
	if liked["liked"] != true || liked["like_count"].(float64) != 1 {
		t.Errorf("like response %v", liked)
	}

	c.expect(http.StatusForbidden, http.MethodPatch, "/api/threads/"+threadID, alice, map[string]any{"isLocked": true})
	c.expect(http.StatusOK, http.MethodPatch, "/api/threads/"+threadID, adminToken, map[string]any{"isLocked": true})
	c.expect(http.StatusForbidden, http.MethodPost, "/api/threads/"+threadID+"/posts", bob, map[string]any{"content": "sent"})

	report := c.expect(http.StatusCreated, http.MethodPost, "/api/reports", alice, map[string]any{"postId": postID, "reason": "Reklam"})
	reportID := report["id"].(string)

	c.expect(http.StatusForbidden, http.MethodGet, "/api/reports", bob, nil)
	queue := c.expect(http.StatusOK, http.MethodGet, "/api/reports?status=pending", adminToken, nil)
	if items := queue["data"].([]any); len(items) != 1 {
		t.Errorf("pending reports = %d, want 1", len(items))
	}

	resolve := map[string]any{"reportId": reportID, "status": "REJECTED", "resolution": "Inget regelbrott"}
	c.expect(http.StatusBadRequest, http.MethodPatch, "/api/reports", adminToken, map[string]any{"reportId": reportID, "status": "PENDING", "resolution": "x"})
	c.expect(http.StatusOK, http.MethodPatch, "/api/reports", adminToken, resolve)
	c.expect(http.StatusConflict, http.MethodPatch, "/api/reports", adminToken, resolve)

	unread := c.expect(http.StatusOK, http.MethodGet, "/api/notifications/unread-count", alice, nil)
	if unread["count"].(float64) < 1 {
		t.Errorf("alice unread = %v, want at least 1", unread)
	}

	stats := c.expect(http.StatusOK, http.MethodGet, "/api/stats", "", nil)
	if stats["total_users"].(float64) != 3 || stats["total_posts"].(float64) != 2 {
		t.Errorf("unexpected stats %v", stats)
	}

	c.expect(http.StatusServiceUnavailable, http.MethodGet, "/api/search?q=slots", "", nil)

	c.expect(http.StatusOK, http.MethodDelete, "/api/threads/"+threadID, alice, nil)
	c.expect(http.StatusNotFound, http.MethodGet, "/api/threads/"+threadID, "", nil)
}

func TestAuthThrottleIgnoresSpoofedForwardedFor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		JWTSecret:     testSecret,
		JWTTTL:        time.Hour,
		AuthRateEvery: time.Hour,
		AuthRateBurst: 1,
	}
	handler := NewServer(cfg, testutil.NewDB(t), nil, nil).Handler()

	codes := make([]int, 0, 5)
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader([]byte(`{}`)))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.100.%d", i+1))
		req.RemoteAddr = "192.0.2.10:40000"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	if codes[0] == http.StatusTooManyRequests {
		t.Fatalf("first login attempt throttled: %v", codes)
	}
	for i, code := range codes[1:] {
		if code != http.StatusTooManyRequests {
			t.Errorf("attempt %d = %d, want 429 (all: %v)", i+2, code, codes)
		}
	}
}
