package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func performRequest(handler gin.HandlerFunc) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	handler(c)
	return w
}

func TestJSONEnvelope(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		JSON(c, http.StatusCreated, "Order placed successfully", gin.H{"id": "abc"})
	})

	if w.Code != http.StatusCreated {
		t.Errorf("HTTP code = %d, want %d", w.Code, http.StatusCreated)
	}

	var envelope struct {
		Status  int                    `json:"status"`
		Message string                 `json:"message"`
		Data    map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if envelope.Status != http.StatusCreated {
		t.Errorf("envelope status = %d, want %d", envelope.Status, http.StatusCreated)
	}
	if envelope.Message != "Order placed successfully" {
		t.Errorf("envelope message = %q", envelope.Message)
	}
	if envelope.Data["id"] != "abc" {
		t.Errorf("envelope data = %v", envelope.Data)
	}
}

func TestErrorEnvelopeHasNullData(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		Error(c, http.StatusNotFound, "Product not found.")
	})

	if w.Code != http.StatusNotFound {
		t.Errorf("HTTP code = %d, want %d", w.Code, http.StatusNotFound)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &raw); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if string(raw["data"]) != "null" {
		t.Errorf("data = %s, want null", raw["data"])
	}
}
