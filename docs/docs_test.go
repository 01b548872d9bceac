package docs

import (
	"strings"
	"testing"
)

func TestSwaggerInfoRegistered(t *testing.T) {
	if SwaggerInfo == nil {
		t.Fatal("swagger info not initialized")
	}
	if SwaggerInfo.Title == "" {
		t.Fatal("swagger info missing title")
	}
}

func TestSwaggerDocumentsTickerRoute(t *testing.T) {
	doc := SwaggerInfo.ReadDoc()
	for _, path := range []string{"/api/ticker/{symbol}", "/api/pools", "/api/swap", "/health", "/ready"} {
		if !strings.Contains(doc, path) {
			t.Fatalf("swagger doc missing %s", path)
		}
	}
}
