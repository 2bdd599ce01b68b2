package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/PelvK/club-sarmiento-management-sub000/internal/clock"
	"github.com/PelvK/club-sarmiento-management-sub000/internal/dues/domain"
	"github.com/PelvK/club-sarmiento-management-sub000/internal/dues/engine"
	duesrepo "github.com/PelvK/club-sarmiento-management-sub000/internal/dues/repository"
	memberdomain "github.com/PelvK/club-sarmiento-management-sub000/internal/member/domain"
	memberrepo "github.com/PelvK/club-sarmiento-management-sub000/internal/member/repository"
	quotedomain "github.com/PelvK/club-sarmiento-management-sub000/internal/quote/domain"
	quoterepo "github.com/PelvK/club-sarmiento-management-sub000/internal/quote/repository"
	sportdomain "github.com/PelvK/club-sarmiento-management-sub000/internal/sport/domain"
	sportrepo "github.com/PelvK/club-sarmiento-management-sub000/internal/sport/repository"
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
	require.NoError(t, db.AutoMigrate(
		&memberdomain.Member{},
		&memberdomain.SportEnrollment{},
		&sportdomain.Sport{},
		&quotedomain.Quote{},
		&domain.PaymentGeneration{},
		&domain.Due{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fake := clock.NewFakeClock(time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC))

	svc := New(Params{
		DB:         db,
		Log:        zap.NewNop(),
		GenID:      node,
		Clock:      fake,
		Repo:       duesrepo.Provide(),
		MemberRepo: memberrepo.Provide(),
		SportRepo:  sportrepo.Provide(),
		QuoteRepo:  quoterepo.Provide(),
	})
	return &fixture{db: db, node: node, clock: fake, svc: svc}
}

func (f *fixture) addSport(t *testing.T, name string) snowflake.ID {
	t.Helper()
	sport := sportdomain.Sport{ID: f.node.Generate(), Name: name}
	require.NoError(t, f.db.Create(&sport).Error)
	return sport.ID
}

func (f *fixture) addQuote(t *testing.T, sportID *snowflake.ID, name string, price int64) snowflake.ID {
	t.Helper()
	quote := quotedomain.Quote{
		ID:             f.node.Generate(),
		SportID:        sportID,
		Name:           name,
		Price:          decimal.NewFromInt(price),
		DurationMonths: 1,
	}
	require.NoError(t, f.db.Create(&quote).Error)
	return quote.ID
}

func (f *fixture) addMember(t *testing.T, name, dni string, societaryQuote *snowflake.ID) snowflake.ID {
	t.Helper()
	member := memberdomain.Member{
		ID:               f.node.Generate(),
		Name:             name,
		DNI:              dni,
		SocietaryQuoteID: societaryQuote,
	}
	require.NoError(t, f.db.Create(&member).Error)
	return member.ID
}

func (f *fixture) enroll(t *testing.T, memberID, sportID snowflake.ID, quoteID *snowflake.ID, principal bool) {
	t.Helper()
	enrollment := memberdomain.SportEnrollment{
		ID:        f.node.Generate(),
		MemberID:  memberID,
		SportID:   sportID,
		QuoteID:   quoteID,
		Principal: principal,
	}
	require.NoError(t, f.db.Create(&enrollment).Error)
}

func allMembersRequest(month, year int) domain.GenerateRequest {
	return domain.GenerateRequest{
		Month:                     month,
		Year:                      year,
		IncludeSocietary:          true,
		IncludeNonPrincipalSports: true,
		Selection:                 domain.Selection{Mode: domain.SelectionAll},
	}
}

func TestPreview_DoesNotPersist(t *testing.T) {
	f := newFixture(t)
	societary := f.addQuote(t, nil, "Cuota Social", 8000)
	f.addMember(t, "Ana", "30111222", &societary)

	preview, err := f.svc.Preview(context.Background(), allMembersRequest(3, 2026))
	require.NoError(t, err)
	assert.Equal(t, int64(1), preview.Result.TotalPayments)
	assert.True(t, preview.Result.TotalAmount.Equal(decimal.NewFromInt(8000)))

	var count int64
	f.db.Model(&domain.PaymentGeneration{}).Count(&count)
	assert.Zero(t, count)
	f.db.Model(&domain.Due{}).Count(&count)
	assert.Zero(t, count)
}

func TestConfirm_PersistsGenerationAndDues(t *testing.T) {
	f := newFixture(t)
	futbol := f.addSport(t, "Futbol")
	societary := f.addQuote(t, nil, "Cuota Social", 8000)
	fee := f.addQuote(t, &futbol, "Futbol Mayores", 15000)

	ana := f.addMember(t, "Ana", "30111222", &societary)
	f.enroll(t, ana, futbol, &fee, true)

	detail, err := f.svc.Confirm(context.Background(), allMembersRequest(3, 2026))
	require.NoError(t, err)

	assert.Equal(t, domain.GenerationStatusActive, detail.Generation.Status)
	assert.Equal(t, 3, detail.Generation.Month)
	assert.Equal(t, 2026, detail.Generation.Year)
	require.Len(t, detail.Dues, 1)

	due := detail.Dues[0]
	assert.Equal(t, domain.DueTypePrincipal, due.Type)
	assert.True(t, due.Amount.Equal(decimal.NewFromInt(23000)))
	assert.Equal(t, domain.DueStatusPending, due.Status)
	assert.Equal(t, time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC), due.DueDate)

	// Societary rides the principal due's breakdown.
	var breakdown engine.ItemBreakdown
	require.NoError(t, json.Unmarshal(due.Breakdown, &breakdown))
	require.Len(t, breakdown.Items, 2)
	assert.True(t, breakdown.Total.Equal(decimal.NewFromInt(23000)))

	var stats domain.GenerationStats
	require.NoError(t, json.Unmarshal(detail.Generation.Stats, &stats))
	assert.Equal(t, int64(1), stats.TotalPayments)
	assert.True(t, stats.TotalAmount.Equal(decimal.NewFromInt(23000)))

	var stored int64
	f.db.Model(&domain.Due{}).Where("generation_id = ?", detail.Generation.ID).Count(&stored)
	assert.Equal(t, int64(1), stored)
}

func TestConfirm_EmptyGenerationRefused(t *testing.T) {
	f := newFixture(t)
	f.addMember(t, "Ana", "30111222", nil)

	_, err := f.svc.Confirm(context.Background(), allMembersRequest(3, 2026))
	assert.ErrorIs(t, err, domain.ErrEmptyGeneration)

	var count int64
	f.db.Model(&domain.PaymentGeneration{}).Count(&count)
	assert.Zero(t, count)
}

func TestConfirm_SelectionBySports(t *testing.T) {
	f := newFixture(t)
	futbol := f.addSport(t, "Futbol")
	tenis := f.addSport(t, "Tenis")
	futbolFee := f.addQuote(t, &futbol, "Futbol Mayores", 15000)
	tenisFee := f.addQuote(t, &tenis, "Tenis", 12000)

	ana := f.addMember(t, "Ana", "30111222", nil)
	f.enroll(t, ana, futbol, &futbolFee, true)
	bruno := f.addMember(t, "Bruno", "28999000", nil)
	f.enroll(t, bruno, tenis, &tenisFee, true)

	req := allMembersRequest(3, 2026)
	req.Selection = domain.Selection{Mode: domain.SelectionBySports}
	req.SelectedSports = []string{futbol.String()}

	detail, err := f.svc.Confirm(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, detail.Dues, 1)
	assert.Equal(t, ana, detail.Dues[0].MemberID)
	assert.True(t, detail.Dues[0].Amount.Equal(decimal.NewFromInt(15000)))
}

func TestConfirm_SelectionMembers(t *testing.T) {
	f := newFixture(t)
	societary := f.addQuote(t, nil, "Cuota Social", 8000)
	ana := f.addMember(t, "Ana", "30111222", &societary)
	f.addMember(t, "Bruno", "28999000", &societary)

	req := allMembersRequest(3, 2026)
	req.Selection = domain.Selection{
		Mode:      domain.SelectionMembers,
		MemberIDs: []string{ana.String()},
	}

	detail, err := f.svc.Confirm(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, detail.Dues, 1)
	assert.Equal(t, ana, detail.Dues[0].MemberID)
}

func TestPreview_SelectionModeEquivalence(t *testing.T) {
	f := newFixture(t)
	futbol := f.addSport(t, "Futbol")
	tenis := f.addSport(t, "Tenis")
	futbolFee := f.addQuote(t, &futbol, "Futbol Mayores", 15000)
	tenisFee := f.addQuote(t, &tenis, "Tenis", 12000)

	ana := f.addMember(t, "Ana", "30111222", nil)
	f.enroll(t, ana, futbol, &futbolFee, true)
	bruno := f.addMember(t, "Bruno", "28999000", nil)
	f.enroll(t, bruno, futbol, &futbolFee, false)
	f.enroll(t, bruno, tenis, &tenisFee, true)
	carla := f.addMember(t, "Carla", "27555111", nil)
	f.enroll(t, carla, tenis, &tenisFee, true)

	bySports := allMembersRequest(3, 2026)
	bySports.Selection = domain.Selection{Mode: domain.SelectionBySports}
	bySports.SelectedSports = []string{futbol.String()}

	// The member list names exactly the members enrolled in the sport, so
	// both runs must price the same items despite resolving their rosters
	// through different queries.
	individual := allMembersRequest(3, 2026)
	individual.Selection = domain.Selection{
		Mode:      domain.SelectionMembers,
		MemberIDs: []string{ana.String(), bruno.String()},
	}
	individual.SelectedSports = []string{futbol.String()}

	first, err := f.svc.Preview(context.Background(), bySports)
	require.NoError(t, err)
	second, err := f.svc.Preview(context.Background(), individual)
	require.NoError(t, err)

	assert.Equal(t, first.Result, second.Result)
	assert.Equal(t, int64(2), first.Result.TotalPayments)
	// Ana's principal 15000 plus Bruno's secondary 15000; Bruno's Tenis
	// principal and Carla never bill.
	assert.True(t, first.Result.TotalAmount.Equal(decimal.NewFromInt(30000)))
	for _, mb := range first.Result.Breakdown {
		assert.NotEqual(t, carla, mb.MemberID)
	}
}

func TestConfirm_OverrideApplied(t *testing.T) {
	f := newFixture(t)
	futbol := f.addSport(t, "Futbol")
	fee := f.addQuote(t, &futbol, "Futbol Mayores", 15000)
	ana := f.addMember(t, "Ana", "30111222", nil)
	f.enroll(t, ana, futbol, &fee, true)

	req := allMembersRequest(3, 2026)
	req.Overrides = []domain.Override{{
		MemberID: ana.String(),
		SportID:  futbol.String(),
		Amount:   decimal.NewFromInt(10000),
	}}

	detail, err := f.svc.Confirm(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, detail.Dues, 1)
	assert.True(t, detail.Dues[0].Amount.Equal(decimal.NewFromInt(10000)))
}

func TestConfirm_ValidationErrors(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Confirm(context.Background(), allMembersRequest(0, 2026))
	assert.ErrorIs(t, err, domain.ErrInvalidMonth)

	_, err = f.svc.Confirm(context.Background(), allMembersRequest(13, 2026))
	assert.ErrorIs(t, err, domain.ErrInvalidMonth)

	_, err = f.svc.Confirm(context.Background(), allMembersRequest(3, 1999))
	assert.ErrorIs(t, err, domain.ErrInvalidYear)

	req := allMembersRequest(3, 2026)
	req.Selection = domain.Selection{Mode: domain.SelectionBySports}
	_, err = f.svc.Confirm(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrInvalidSelection)

	req = allMembersRequest(3, 2026)
	req.Selection = domain.Selection{Mode: domain.SelectionMembers}
	_, err = f.svc.Confirm(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrInvalidSelection)

	req = allMembersRequest(3, 2026)
	req.Overrides = []domain.Override{{MemberID: "nope", SportID: "nope"}}
	_, err = f.svc.Confirm(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrInvalidOverride)
}

func TestRevert_CancelsUnpaidKeepsPaid(t *testing.T) {
	f := newFixture(t)
	futbol := f.addSport(t, "Futbol")
	fee := f.addQuote(t, &futbol, "Futbol Mayores", 15000)
	societary := f.addQuote(t, nil, "Cuota Social", 8000)

	ana := f.addMember(t, "Ana", "30111222", nil)
	f.enroll(t, ana, futbol, &fee, true)
	f.addMember(t, "Bruno", "28999000", &societary)

	detail, err := f.svc.Confirm(context.Background(), allMembersRequest(3, 2026))
	require.NoError(t, err)
	require.Len(t, detail.Dues, 2)

	// Simulate one due fully paid before the revert.
	paid := detail.Dues[0]
	require.NoError(t, f.db.Model(&domain.Due{}).
		Where("id = ?", paid.ID).
		Updates(map[string]any{"status": domain.DueStatusPaid, "paid_amount": paid.Amount}).Error)

	reverted, err := f.svc.Revert(context.Background(), domain.RevertRequest{ID: detail.Generation.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, domain.GenerationStatusReverted, reverted.Status)

	var dues []domain.Due
	require.NoError(t, f.db.Where("generation_id = ?", detail.Generation.ID).Order("id").Find(&dues).Error)
	require.Len(t, dues, 2)
	statuses := map[snowflake.ID]domain.DueStatus{}
	for _, due := range dues {
		statuses[due.ID] = due.Status
	}
	assert.Equal(t, domain.DueStatusPaid, statuses[paid.ID])
	assert.Equal(t, domain.DueStatusCancelled, statuses[detail.Dues[1].ID])
}

func TestRevert_StampsClockTime(t *testing.T) {
	f := newFixture(t)
	societary := f.addQuote(t, nil, "Cuota Social", 8000)
	f.addMember(t, "Ana", "30111222", &societary)

	detail, err := f.svc.Confirm(context.Background(), allMembersRequest(3, 2026))
	require.NoError(t, err)

	f.clock.Advance(48 * time.Hour)
	revertedAt := f.clock.Now()

	reverted, err := f.svc.Revert(context.Background(), domain.RevertRequest{ID: detail.Generation.ID.String()})
	require.NoError(t, err)
	assert.True(t, reverted.UpdatedAt.Equal(revertedAt))

	var generation domain.PaymentGeneration
	require.NoError(t, f.db.First(&generation, "id = ?", detail.Generation.ID).Error)
	assert.True(t, generation.UpdatedAt.Equal(revertedAt))

	var due domain.Due
	require.NoError(t, f.db.First(&due, "generation_id = ?", detail.Generation.ID).Error)
	assert.Equal(t, domain.DueStatusCancelled, due.Status)
	assert.True(t, due.UpdatedAt.Equal(revertedAt))
}

func TestRevert_Twice(t *testing.T) {
	f := newFixture(t)
	societary := f.addQuote(t, nil, "Cuota Social", 8000)
	f.addMember(t, "Ana", "30111222", &societary)

	detail, err := f.svc.Confirm(context.Background(), allMembersRequest(3, 2026))
	require.NoError(t, err)

	_, err = f.svc.Revert(context.Background(), domain.RevertRequest{ID: detail.Generation.ID.String()})
	require.NoError(t, err)

	_, err = f.svc.Revert(context.Background(), domain.RevertRequest{ID: detail.Generation.ID.String()})
	assert.ErrorIs(t, err, domain.ErrAlreadyReverted)
}

func TestRevert_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Revert(context.Background(), domain.RevertRequest{ID: f.node.Generate().String()})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.Revert(context.Background(), domain.RevertRequest{ID: "garbage"})
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestGetByID_ReturnsDues(t *testing.T) {
	f := newFixture(t)
	societary := f.addQuote(t, nil, "Cuota Social", 8000)
	f.addMember(t, "Ana", "30111222", &societary)

	detail, err := f.svc.Confirm(context.Background(), allMembersRequest(3, 2026))
	require.NoError(t, err)

	got, err := f.svc.GetByID(context.Background(), domain.GetGenerationRequest{ID: detail.Generation.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, detail.Generation.ID, got.Generation.ID)
	require.Len(t, got.Dues, 1)
	assert.Equal(t, domain.DueTypeSocietary, got.Dues[0].Type)
}

func TestList_FiltersByPeriodAndStatus(t *testing.T) {
	f := newFixture(t)
	societary := f.addQuote(t, nil, "Cuota Social", 8000)
	f.addMember(t, "Ana", "30111222", &societary)

	march, err := f.svc.Confirm(context.Background(), allMembersRequest(3, 2026))
	require.NoError(t, err)
	_, err = f.svc.Confirm(context.Background(), allMembersRequest(4, 2026))
	require.NoError(t, err)

	_, err = f.svc.Revert(context.Background(), domain.RevertRequest{ID: march.Generation.ID.String()})
	require.NoError(t, err)

	month := 3
	resp, err := f.svc.List(context.Background(), domain.ListGenerationRequest{Month: &month})
	require.NoError(t, err)
	require.Len(t, resp.Generations, 1)
	assert.Equal(t, march.Generation.ID, resp.Generations[0].ID)

	resp, err = f.svc.List(context.Background(), domain.ListGenerationRequest{Status: "active"})
	require.NoError(t, err)
	require.Len(t, resp.Generations, 1)
	assert.Equal(t, 4, resp.Generations[0].Month)

	_, err = f.svc.List(context.Background(), domain.ListGenerationRequest{Status: "bogus"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestConfirm_MissingQuoteBilledZero(t *testing.T) {
	f := newFixture(t)
	futbol := f.addSport(t, "Futbol")
	ana := f.addMember(t, "Ana", "30111222", nil)
	f.enroll(t, ana, futbol, nil, true)

	preview, err := f.svc.Preview(context.Background(), allMembersRequest(3, 2026))
	require.NoError(t, err)
	require.Len(t, preview.Result.Incomplete, 1)
	assert.Equal(t, ana, preview.Result.Incomplete[0].MemberID)
	assert.True(t, preview.Result.TotalAmount.IsZero())
}
