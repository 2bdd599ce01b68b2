package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/PelvK/club-sarmiento-management-sub000/internal/clock"
	duesdomain "github.com/PelvK/club-sarmiento-management-sub000/internal/dues/domain"
	"github.com/PelvK/club-sarmiento-management-sub000/internal/payment/domain"
	"github.com/PelvK/club-sarmiento-management-sub000/internal/payment/repository"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db    *gorm.DB
	node  *snowflake.Node
	clock *clock.FakeClock
	svc   domain.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&duesdomain.Due{}, &domain.Receipt{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fake := clock.NewFakeClock(time.Date(2026, time.March, 5, 12, 0, 0, 0, time.UTC))

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: fake,
		Repo:  repository.Provide(),
	})
	return &fixture{db: db, node: node, clock: fake, svc: svc}
}

func (f *fixture) addDue(t *testing.T, amount int64, status duesdomain.DueStatus) duesdomain.Due {
	t.Helper()
	due := duesdomain.Due{
		ID:           f.node.Generate(),
		GenerationID: f.node.Generate(),
		MemberID:     f.node.Generate(),
		Type:         duesdomain.DueTypeSocietary,
		Description:  "Cuota Social",
		Amount:       decimal.NewFromInt(amount),
		PaidAmount:   decimal.Zero,
		DueDate:      time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC),
		Status:       status,
	}
	require.NoError(t, f.db.Create(&due).Error)
	return due
}

func TestRegister_FullPayment(t *testing.T) {
	f := newFixture(t)
	due := f.addDue(t, 8000, duesdomain.DueStatusPending)

	resp, err := f.svc.Register(context.Background(), domain.RegisterPaymentRequest{
		DueID:  due.ID.String(),
		Amount: decimal.NewFromInt(8000),
		Method: "cash",
	})
	require.NoError(t, err)
	assert.Equal(t, duesdomain.DueStatusPaid, resp.Due.Status)
	assert.True(t, resp.Due.PaidAmount.Equal(decimal.NewFromInt(8000)))
	assert.Equal(t, due.ID, resp.Receipt.DueID)
	assert.Equal(t, due.MemberID, resp.Receipt.MemberID)

	var stored duesdomain.Due
	require.NoError(t, f.db.First(&stored, "id = ?", due.ID).Error)
	assert.Equal(t, duesdomain.DueStatusPaid, stored.Status)
	// The due is stamped with the service clock, not wall time.
	assert.True(t, stored.UpdatedAt.Equal(f.clock.Now()))
	assert.True(t, resp.Receipt.PaidAt.Equal(f.clock.Now()))
}

func TestRegister_PartialAccumulates(t *testing.T) {
	f := newFixture(t)
	due := f.addDue(t, 10000, duesdomain.DueStatusPending)

	resp, err := f.svc.Register(context.Background(), domain.RegisterPaymentRequest{
		DueID:  due.ID.String(),
		Amount: decimal.NewFromInt(4000),
	})
	require.NoError(t, err)
	assert.Equal(t, duesdomain.DueStatusPartial, resp.Due.Status)

	resp, err = f.svc.Register(context.Background(), domain.RegisterPaymentRequest{
		DueID:  due.ID.String(),
		Amount: decimal.NewFromInt(6000),
	})
	require.NoError(t, err)
	assert.Equal(t, duesdomain.DueStatusPaid, resp.Due.Status)
	assert.True(t, resp.Due.PaidAmount.Equal(decimal.NewFromInt(10000)))

	var receipts int64
	f.db.Model(&domain.Receipt{}).Where("due_id = ?", due.ID).Count(&receipts)
	assert.Equal(t, int64(2), receipts)
}

func TestRegister_OverdueStaysOverdueOnPartial(t *testing.T) {
	f := newFixture(t)
	due := f.addDue(t, 10000, duesdomain.DueStatusOverdue)

	resp, err := f.svc.Register(context.Background(), domain.RegisterPaymentRequest{
		DueID:  due.ID.String(),
		Amount: decimal.NewFromInt(4000),
	})
	require.NoError(t, err)
	assert.Equal(t, duesdomain.DueStatusOverdue, resp.Due.Status)

	resp, err = f.svc.Register(context.Background(), domain.RegisterPaymentRequest{
		DueID:  due.ID.String(),
		Amount: decimal.NewFromInt(6000),
	})
	require.NoError(t, err)
	assert.Equal(t, duesdomain.DueStatusPaid, resp.Due.Status)
}

func TestRegister_Refusals(t *testing.T) {
	f := newFixture(t)
	cancelled := f.addDue(t, 8000, duesdomain.DueStatusCancelled)
	pending := f.addDue(t, 8000, duesdomain.DueStatusPending)

	_, err := f.svc.Register(context.Background(), domain.RegisterPaymentRequest{
		DueID:  cancelled.ID.String(),
		Amount: decimal.NewFromInt(8000),
	})
	assert.ErrorIs(t, err, domain.ErrDueCancelled)

	_, err = f.svc.Register(context.Background(), domain.RegisterPaymentRequest{
		DueID:  pending.ID.String(),
		Amount: decimal.NewFromInt(-1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = f.svc.Register(context.Background(), domain.RegisterPaymentRequest{
		DueID:  pending.ID.String(),
		Amount: decimal.NewFromInt(9000),
	})
	assert.ErrorIs(t, err, domain.ErrExceedsBalance)

	_, err = f.svc.Register(context.Background(), domain.RegisterPaymentRequest{
		DueID:  f.node.Generate().String(),
		Amount: decimal.NewFromInt(100),
	})
	assert.ErrorIs(t, err, domain.ErrDueNotFound)

	// Settle it, then refuse further payments.
	_, err = f.svc.Register(context.Background(), domain.RegisterPaymentRequest{
		DueID:  pending.ID.String(),
		Amount: decimal.NewFromInt(8000),
	})
	require.NoError(t, err)
	_, err = f.svc.Register(context.Background(), domain.RegisterPaymentRequest{
		DueID:  pending.ID.String(),
		Amount: decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, domain.ErrDueSettled)
}

func TestMarkOverdue_SweepsPastDue(t *testing.T) {
	f := newFixture(t)
	pastPending := f.addDue(t, 8000, duesdomain.DueStatusPending)
	pastPartial := f.addDue(t, 8000, duesdomain.DueStatusPartial)
	paid := f.addDue(t, 8000, duesdomain.DueStatusPaid)

	// Clock starts before the due date; nothing to sweep yet.
	marked, err := f.svc.MarkOverdue(context.Background())
	require.NoError(t, err)
	assert.Zero(t, marked)

	f.clock.Advance(10 * 24 * time.Hour)

	marked, err = f.svc.MarkOverdue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), marked)

	for _, id := range []snowflake.ID{pastPending.ID, pastPartial.ID} {
		var due duesdomain.Due
		require.NoError(t, f.db.First(&due, "id = ?", id).Error)
		assert.Equal(t, duesdomain.DueStatusOverdue, due.Status)
		assert.True(t, due.UpdatedAt.Equal(f.clock.Now()))
	}
	var untouched duesdomain.Due
	require.NoError(t, f.db.First(&untouched, "id = ?", paid.ID).Error)
	assert.Equal(t, duesdomain.DueStatusPaid, untouched.Status)

	// Second sweep finds nothing new.
	marked, err = f.svc.MarkOverdue(context.Background())
	require.NoError(t, err)
	assert.Zero(t, marked)
}

func TestListReceipts_ByMember(t *testing.T) {
	f := newFixture(t)
	due := f.addDue(t, 8000, duesdomain.DueStatusPending)
	other := f.addDue(t, 5000, duesdomain.DueStatusPending)

	_, err := f.svc.Register(context.Background(), domain.RegisterPaymentRequest{
		DueID:  due.ID.String(),
		Amount: decimal.NewFromInt(8000),
	})
	require.NoError(t, err)
	_, err = f.svc.Register(context.Background(), domain.RegisterPaymentRequest{
		DueID:  other.ID.String(),
		Amount: decimal.NewFromInt(5000),
	})
	require.NoError(t, err)

	resp, err := f.svc.ListReceipts(context.Background(), domain.ListReceiptRequest{
		MemberID: due.MemberID.String(),
	})
	require.NoError(t, err)
	require.Len(t, resp.Receipts, 1)
	assert.Equal(t, due.ID, resp.Receipts[0].DueID)
}

func TestListMemberDues_FiltersByStatus(t *testing.T) {
	f := newFixture(t)
	due := f.addDue(t, 8000, duesdomain.DueStatusPending)

	resp, err := f.svc.ListMemberDues(context.Background(), domain.ListMemberDuesRequest{
		MemberID: due.MemberID.String(),
		Status:   "pending",
	})
	require.NoError(t, err)
	require.Len(t, resp.Dues, 1)

	resp, err = f.svc.ListMemberDues(context.Background(), domain.ListMemberDuesRequest{
		MemberID: due.MemberID.String(),
		Status:   "paid",
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Dues)

	_, err = f.svc.ListMemberDues(context.Background(), domain.ListMemberDuesRequest{
		MemberID: due.MemberID.String(),
		Status:   "bogus",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}
