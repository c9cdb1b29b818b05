package jobs_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/mockshop/app/jobs"
	"github.com/shashiranjanraj/mockshop/app/models"
	"github.com/shashiranjanraj/mockshop/app/payment"
	fixtures "github.com/shashiranjanraj/mockshop/internal/testutil"
	"github.com/shashiranjanraj/mockshop/pkg/mail"
	"github.com/shashiranjanraj/mockshop/pkg/metrics"
	"github.com/shashiranjanraj/mockshop/pkg/queue"
)

func TestConfirmOrderJob(t *testing.T) {
	db := fixtures.NewDB(t)
	fx := fixtures.NewFixtures(t, db)
	p := fx.Product("Lamp", 30, 3)
	pending := fx.Order(nil, models.OrderPending, map[*models.Product]int{&p: 1})
	shipped := fx.Order(nil, models.OrderShipped, map[*models.Product]int{&p: 1})
	ctx := context.Background()

	charges := 0
	payment.Use(payment.ProcessorFunc(func(context.Context, models.Order) error {
		charges++
		return nil
	}))
	t.Cleanup(func() { payment.Use(nil) })

	before := testutil.ToFloat64(metrics.OrdersConfirmed.WithLabelValues("queue"))
	require.NoError(t, (&jobs.ConfirmOrderJob{OrderID: pending.ID}).Handle(ctx))
	require.NoError(t, (&jobs.ConfirmOrderJob{OrderID: pending.ID}).Handle(ctx))
	require.NoError(t, (&jobs.ConfirmOrderJob{OrderID: shipped.ID}).Handle(ctx))
	require.NoError(t, (&jobs.ConfirmOrderJob{OrderID: 9999}).Handle(ctx))

	var confirmed, untouched models.Order
	require.NoError(t, db.First(&confirmed, pending.ID).Error)
	assert.Equal(t, models.OrderConfirmed, confirmed.Status)
	require.NoError(t, db.First(&untouched, shipped.ID).Error)
	assert.Equal(t, models.OrderShipped, untouched.Status)
	assert.Equal(t, 1, charges, "only the pending order is charged")
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.OrdersConfirmed.WithLabelValues("queue")))
}

func TestConfirmOrderJobRetriesOnPaymentFailure(t *testing.T) {
	db := fixtures.NewDB(t)
	fx := fixtures.NewFixtures(t, db)
	p := fx.Product("Lamp", 30, 3)
	o := fx.Order(nil, models.OrderPending, map[*models.Product]int{&p: 1})

	payment.Use(payment.ProcessorFunc(func(context.Context, models.Order) error {
		return errors.New("gateway timeout")
	}))
	t.Cleanup(func() { payment.Use(nil) })

	err := (&jobs.ConfirmOrderJob{OrderID: o.ID}).Handle(context.Background())
	assert.ErrorContains(t, err, "gateway timeout")

	var got models.Order
	require.NoError(t, db.First(&got, o.ID).Error)
	assert.Equal(t, models.OrderPending, got.Status)
}

func TestSweepPendingQueuesStaleOrders(t *testing.T) {
	db := fixtures.NewDB(t)
	fx := fixtures.NewFixtures(t, db)
	p := fx.Product("Lamp", 30, 3)
	stale := fx.Order(nil, models.OrderPending, map[*models.Product]int{&p: 1})
	fx.Order(nil, models.OrderPending, map[*models.Product]int{&p: 1})
	fx.Order(nil, models.OrderConfirmed, map[*models.Product]int{&p: 1})
	require.NoError(t, db.Model(&stale).Update("created_at", time.Now().Add(-time.Hour)).Error)

	driver := queue.NewMemoryDriver(10)
	queue.SetDriver(driver)
	t.Cleanup(func() { queue.SetDriver(queue.NewMemoryDriver(1000)) })

	n, err := jobs.SweepPending(context.Background(), 10*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, driver.Len())
}

func TestSendOrderMailJob(t *testing.T) {
	db := fixtures.NewDB(t)
	fx := fixtures.NewFixtures(t, db)
	u := fx.Customer()
	p := fx.Product("Lamp", 30, 3)
	o := fx.Order(&u, models.OrderConfirmed, map[*models.Product]int{&p: 2})
	guest := fx.Order(nil, models.OrderConfirmed, map[*models.Product]int{&p: 1})

	rec := &mail.Recorder{}
	mail.Use(rec)
	t.Cleanup(func() { mail.Use(nil) })

	ctx := context.Background()
	require.NoError(t, (&jobs.SendOrderMailJob{OrderID: o.ID}).Handle(ctx))
	require.NoError(t, (&jobs.SendOrderMailJob{OrderID: guest.ID}).Handle(ctx))

	sent := rec.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, []string{u.Email}, sent[0].To)
	assert.Contains(t, sent[0].Subject, "order #")
	assert.Contains(t, sent[0].Body, "Lamp")
	assert.Contains(t, sent[0].Body, "Total: $60.00")
}
