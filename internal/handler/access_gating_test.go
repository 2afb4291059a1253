package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"travelkang/internal/domain"
	"travelkang/internal/models"
	"travelkang/internal/service"
	"travelkang/pkg/assistant"

	"github.com/gin-gonic/gin"
)

// fakeEntitlementOrders serves ListByUserUUID for the resolver.
type fakeEntitlementOrders struct {
	orders []models.Order
}

func (f *fakeEntitlementOrders) ListByUserUUID(userUUID string) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.orders {
		if o.UserUUID == userUUID {
			out = append(out, o)
		}
	}
	return out, nil
}

// asUser injects the auth context values the way the middleware does.
func asUser(userUUID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userUUID != "" {
			c.Set("user_uuid", userUUID)
			c.Set("email", userUUID+"@example.com")
		}
		c.Next()
	}
}

func gatingRouter(userUUID string, orders ...models.Order) *gin.Engine {
	gin.SetMode(gin.TestMode)
	resolver := service.NewEntitlementResolver(&fakeEntitlementOrders{orders: orders})
	chat := NewChatHandler(resolver, assistant.NewClient("", "", "", "", ""))
	guides := NewGuideHandler(nil, resolver, nil)
	r := gin.New()
	r.Use(asUser(userUUID))
	r.GET("/api/v1/chat/access", chat.Access)
	r.POST("/api/v1/chat", chat.Chat)
	r.POST("/api/v1/guides/download", guides.Download)
	return r
}

func getJSON(t *testing.T, r *gin.Engine, method, path string, body []byte) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var out map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json response %q: %v", w.Body.String(), err)
	}
	return w.Code, out
}

func TestChatAccessReasons(t *testing.T) {
	t.Run("Given anonymous caller Then not_logged_in", func(t *testing.T) {
		code, body := getJSON(t, gatingRouter(""), http.MethodGet, "/api/v1/chat/access", nil)
		if code != http.StatusOK {
			t.Fatalf("expected 200, got %d", code)
		}
		if body["reason"] != domain.AccessNotLoggedIn || body["has_access"] != false {
			t.Errorf("unexpected body: %v", body)
		}
	})

	t.Run("Given user without purchases Then purchase_required", func(t *testing.T) {
		_, body := getJSON(t, gatingRouter("user-1"), http.MethodGet, "/api/v1/chat/access", nil)
		if body["reason"] != domain.AccessPurchaseRequired {
			t.Errorf("expected purchase_required, got %v", body["reason"])
		}
	})

	t.Run("Given paid premium Then has_access", func(t *testing.T) {
		r := gatingRouter("user-1", models.Order{
			UserUUID: "user-1", ProductID: domain.ProductPremium, Status: domain.OrderStatusPaid,
		})
		_, body := getJSON(t, r, http.MethodGet, "/api/v1/chat/access", nil)
		if body["reason"] != domain.AccessGranted || body["has_access"] != true {
			t.Errorf("unexpected body: %v", body)
		}
	})

	t.Run("Given pdf-only buyer Then upgrade_required", func(t *testing.T) {
		r := gatingRouter("user-1", models.Order{
			UserUUID: "user-1", ProductID: domain.ProductPDFBundle, Status: domain.OrderStatusPaid,
		})
		_, body := getJSON(t, r, http.MethodGet, "/api/v1/chat/access", nil)
		if body["reason"] != domain.AccessUpgradeRequired {
			t.Errorf("expected upgrade_required, got %v", body["reason"])
		}
	})

	t.Run("Given ungated POST chat Then 403 with reason", func(t *testing.T) {
		r := gatingRouter("user-1")
		code, body := getJSON(t, r, http.MethodPost, "/api/v1/chat", []byte(`{"messages":[{"role":"user","content":"hi"}]}`))
		if code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", code)
		}
		if body["reason"] != domain.AccessPurchaseRequired {
			t.Errorf("expected purchase_required, got %v", body["reason"])
		}
	})
}

func TestGuideDownloadGating(t *testing.T) {
	reqBody := []byte(`{"uuid":"guide-1"}`)

	t.Run("Given anonymous caller Then 401 not_logged_in", func(t *testing.T) {
		code, body := getJSON(t, gatingRouter(""), http.MethodPost, "/api/v1/guides/download", reqBody)
		if code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", code)
		}
		if body["reason"] != domain.AccessNotLoggedIn {
			t.Errorf("expected not_logged_in, got %v", body["reason"])
		}
	})

	t.Run("Given no purchases Then 403 purchase_required", func(t *testing.T) {
		code, body := getJSON(t, gatingRouter("user-1"), http.MethodPost, "/api/v1/guides/download", reqBody)
		if code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", code)
		}
		if body["reason"] != domain.AccessPurchaseRequired {
			t.Errorf("expected purchase_required, got %v", body["reason"])
		}
	})

	t.Run("Given chat-only subscription Then 403 upgrade_required", func(t *testing.T) {
		r := gatingRouter("user-1", models.Order{
			UserUUID: "user-1", ProductID: domain.ProductChatbotAccess, Status: domain.OrderStatusPaid,
		})
		code, body := getJSON(t, r, http.MethodPost, "/api/v1/guides/download", reqBody)
		if code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", code)
		}
		if body["reason"] != domain.AccessUpgradeRequired {
			t.Errorf("expected upgrade_required, got %v", body["reason"])
		}
	})

	t.Run("Given missing uuid Then 400", func(t *testing.T) {
		code, _ := getJSON(t, gatingRouter("user-1"), http.MethodPost, "/api/v1/guides/download", []byte(`{}`))
		if code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", code)
		}
	})
}
