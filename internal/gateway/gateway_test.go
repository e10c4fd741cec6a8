package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSuccess(t *testing.T) {
	for _, status := range []string{"SUCCESS", "PAID", "CAPTURED", "COMPLETED", "success", " paid ", "Captured"} {
		assert.True(t, IsSuccess(status), "status %q", status)
	}
	for _, status := range []string{"FAILED", "PENDING", "USER_DROPPED", "CANCELLED", "REFUNDED", "", "PAID_OUT"} {
		assert.False(t, IsSuccess(status), "status %q", status)
	}
}
