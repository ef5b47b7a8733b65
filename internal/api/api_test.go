package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestHealthRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := NewRouter(nil, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestNormalizeAllowedOrigins(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		want     []string
		allowAll bool
	}{
		{
			name:  "single origin",
			input: []string{"https://app.example.com"},
			want:  []string{"https://app.example.com"},
		},
		{
			name:  "comma separated",
			input: []string{"https://a.example.com, https://b.example.com"},
			want:  []string{"https://a.example.com", "https://b.example.com"},
		},
		{
			name:     "wildcard",
			input:    []string{"*"},
			allowAll: true,
		},
		{
			name:     "wildcard mixed with origins",
			input:    []string{"https://a.example.com", "*"},
			want:     []string{"https://a.example.com"},
			allowAll: true,
		},
		{
			name:  "blank entries dropped",
			input: []string{" ", "", "https://a.example.com"},
			want:  []string{"https://a.example.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, allowAll := normalizeAllowedOrigins(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.allowAll, allowAll)
		})
	}
}
