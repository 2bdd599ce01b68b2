package scheduler

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/PelvK/club-sarmiento-management-sub000/internal/clock"
	duesdomain "github.com/PelvK/club-sarmiento-management-sub000/internal/dues/domain"
	paymentdomain "github.com/PelvK/club-sarmiento-management-sub000/internal/payment/domain"
	paymentrepo "github.com/PelvK/club-sarmiento-management-sub000/internal/payment/repository"
	paymentservice "github.com/PelvK/club-sarmiento-management-sub000/internal/payment/service"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newScheduler(t *testing.T) (*Scheduler, *gorm.DB, *clock.FakeClock, *snowflake.Node) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&duesdomain.Due{}, &paymentdomain.Receipt{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fake := clock.NewFakeClock(time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC))

	paymentSvc := paymentservice.New(paymentservice.Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: fake,
		Repo:  paymentrepo.Provide(),
	})

	sched, err := New(Params{
		Log:        zap.NewNop(),
		Clock:      fake,
		PaymentSvc: paymentSvc,
	})
	require.NoError(t, err)
	return sched, db, fake, node
}

func addDue(t *testing.T, db *gorm.DB, node *snowflake.Node, dueDate time.Time, status duesdomain.DueStatus) snowflake.ID {
	t.Helper()
	due := duesdomain.Due{
		ID:           node.Generate(),
		GenerationID: node.Generate(),
		MemberID:     node.Generate(),
		Type:         duesdomain.DueTypeSocietary,
		Description:  "Cuota Social",
		Amount:       decimal.NewFromInt(8000),
		PaidAmount:   decimal.Zero,
		DueDate:      dueDate,
		Status:       status,
	}
	require.NoError(t, db.Create(&due).Error)
	return due.ID
}

func TestRunOnce_SweepsOverdueWithFakeClock(t *testing.T) {
	sched, db, fake, node := newScheduler(t)
	dueDate := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	pending := addDue(t, db, node, dueDate, duesdomain.DueStatusPending)
	paid := addDue(t, db, node, dueDate, duesdomain.DueStatusPaid)

	require.NoError(t, sched.RunOnce(context.Background()))

	var due duesdomain.Due
	require.NoError(t, db.First(&due, "id = ?", pending).Error)
	assert.Equal(t, duesdomain.DueStatusPending, due.Status)

	fake.Advance(15 * 24 * time.Hour)
	require.NoError(t, sched.RunOnce(context.Background()))

	require.NoError(t, db.First(&due, "id = ?", pending).Error)
	assert.Equal(t, duesdomain.DueStatusOverdue, due.Status)
	due = duesdomain.Due{}
	require.NoError(t, db.First(&due, "id = ?", paid).Error)
	assert.Equal(t, duesdomain.DueStatusPaid, due.Status)
}

func TestNew_RequiresDependencies(t *testing.T) {
	_, err := New(Params{Log: zap.NewNop()})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestConfig_Defaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	assert.Equal(t, time.Minute, cfg.RunInterval)
	assert.Equal(t, 30*time.Second, cfg.JobTimeout)
}
