package public

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	handlershared "github.com/foodkart-next/internal/http/handlers/shared"
	"github.com/foodkart-next/internal/provider"
	"github.com/foodkart-next/internal/service"

	"github.com/gin-gonic/gin"
)

func TestUpdateCartItemRejectsOutOfRangeDelta(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := New(&provider.Container{})
	r := gin.New()
	r.PATCH("/cart/items/:item_id", func(c *gin.Context) {
		c.Set(handlershared.ContextKeyIdentity, service.GuestIdentity("8d7c1e8e-2b1f-4a53-9f3e-2f7f1c1a0b11"))
		c.Next()
	}, h.UpdateCartItem)

	for _, body := range []string{`{"delta": 1001}`, `{"delta": -1001}`, `{"delta": 9223372036854775807}`} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPatch, "/cart/items/101", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		var resp struct {
			StatusCode int `json:"status_code"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal response failed: %v (%s)", err, w.Body.String())
		}
		if resp.StatusCode != 400 {
			t.Fatalf("body %s should be rejected with 400, got %d", body, resp.StatusCode)
		}
	}
}
