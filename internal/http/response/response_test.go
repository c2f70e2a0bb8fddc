package response

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestErrorAttachesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("request_id", "req-1")

	Error(c, CodeConflict, "Cart changed during checkout, please retry")

	if w.Code != CodeConflict {
		t.Fatalf("status want %d got %d", CodeConflict, w.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body failed: %v", err)
	}
	if body["success"] != false || body["request_id"] != "req-1" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestPageEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Page(c, "orders", []string{"a"}, 11, 2, 1)

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body failed: %v", err)
	}
	if body["success"] != true || body["totalPages"] != float64(2) || body["total"] != float64(11) || body["currentPage"] != float64(1) {
		t.Fatalf("unexpected body: %v", body)
	}
	if _, ok := body["message"]; ok {
		t.Fatalf("message should be omitted when empty")
	}
}

func TestWrapErrorClampsStatus(t *testing.T) {
	cause := errors.New("db down")
	appErr := WrapError(CodeOK, "Failed to fetch orders", cause)
	if appErr.Code != CodeInternal {
		t.Fatalf("non-error status should become 500, got %d", appErr.Code)
	}
	if !errors.Is(appErr, cause) {
		t.Fatalf("wrapped error should unwrap to cause")
	}
	if got := WrapError(CodeNotFound, "Order not found", nil).Error(); got != "404 Order not found" {
		t.Fatalf("unexpected error text: %s", got)
	}
}
