package gateway

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSandboxFlow(t *testing.T) {
	sandbox := NewSandbox(0)

	order, err := sandbox.CreateOrder(context.Background(), CreateOrderRequest{
		OrderID:     "wsorder_abc",
		AmountCents: 150000,
		Currency:    "INR",
		Tags:        map[string]string{TagStudentID: "s1"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, order.SessionToken)

	fetched, err := sandbox.GetOrder(context.Background(), "wsorder_abc")
	require.NoError(t, err)
	assert.Equal(t, "PAID", fetched.Status)
	assert.Equal(t, "s1", fetched.Tags[TagStudentID])

	payments, err := sandbox.GetOrderPayments(context.Background(), "wsorder_abc")
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.True(t, IsSuccess(payments[0].Status))
	assert.Equal(t, int64(150000), payments[0].AmountCents)
}

func TestSandboxDelayHidesPayments(t *testing.T) {
	sandbox := NewSandbox(time.Hour)

	_, err := sandbox.CreateOrder(context.Background(), CreateOrderRequest{OrderID: "wsorder_new", AmountCents: 100})
	require.NoError(t, err)

	payments, err := sandbox.GetOrderPayments(context.Background(), "wsorder_new")
	require.NoError(t, err)
	assert.Empty(t, payments)

	order, err := sandbox.GetOrder(context.Background(), "wsorder_new")
	require.NoError(t, err)
	assert.Equal(t, "ACTIVE", order.Status)
}

func TestSandboxUnknownOrder(t *testing.T) {
	sandbox := NewSandbox(0)
	_, err := sandbox.GetOrder(context.Background(), "missing")
	require.Error(t, err)
}
