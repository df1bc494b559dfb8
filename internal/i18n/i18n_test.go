package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestCatalogsHaveSameKeys(t *testing.T) {
	base := catalog[DefaultLocale]
	for locale, table := range catalog {
		if len(table) != len(base) {
			t.Fatalf("locale %s has %d keys, default has %d", locale, len(table), len(base))
		}
		for key := range base {
			if _, ok := table[key]; !ok {
				t.Fatalf("locale %s missing key %s", locale, key)
			}
		}
	}
}

func TestTFallsBack(t *testing.T) {
	if got := T("en", "error.cart_empty"); got != "Your cart is empty" {
		t.Fatalf("unexpected en message: %s", got)
	}
	if got := T("fr-FR", "error.cart_empty"); got != catalog[DefaultLocale]["error.cart_empty"] {
		t.Fatalf("unknown locale should use default, got %s", got)
	}
	if got := T(LocaleEnUS, "error.unknown_key"); got != "error.unknown_key" {
		t.Fatalf("missing key should echo key, got %s", got)
	}
	if got := Sprintf(LocaleEnUS, "error.confirmation_mismatch", "12.99"); got != "Incorrect amount. Please enter exactly $12.99" {
		t.Fatalf("unexpected sprintf: %s", got)
	}
}

func TestResolveLocalePriority(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name   string
		url    string
		header map[string]string
		want   string
	}{
		{name: "default", url: "/", want: DefaultLocale},
		{name: "accept language", url: "/", header: map[string]string{"Accept-Language": "en-GB,en;q=0.9"}, want: LocaleEnUS},
		{name: "header beats accept", url: "/", header: map[string]string{"X-Locale": "zh_CN", "Accept-Language": "en-US"}, want: LocaleZhCN},
		{name: "query wins", url: "/?lang=en-US", header: map[string]string{"X-Locale": "zh-CN"}, want: LocaleEnUS},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, tc.url, nil)
		for k, v := range tc.header {
			c.Request.Header.Set(k, v)
		}
		if got := ResolveLocale(c); got != tc.want {
			t.Fatalf("%s: want %s got %s", tc.name, tc.want, got)
		}
	}
}
