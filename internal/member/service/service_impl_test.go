package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/PelvK/club-sarmiento-management-sub000/internal/member/domain"
	"github.com/PelvK/club-sarmiento-management-sub000/internal/member/repository"
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
	db   *gorm.DB
	node *snowflake.Node
	svc  domain.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.Member{},
		&domain.SportEnrollment{},
		&sportdomain.Sport{},
		&quotedomain.Quote{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:        db,
		Log:       zap.NewNop(),
		GenID:     node,
		Repo:      repository.Provide(),
		SportRepo: sportrepo.Provide(),
		QuoteRepo: quoterepo.Provide(),
	})
	return &fixture{db: db, node: node, svc: svc}
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

func TestCreate_Validations(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), domain.CreateMemberRequest{DNI: "30111222"})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = f.svc.Create(context.Background(), domain.CreateMemberRequest{Name: "Ana"})
	assert.ErrorIs(t, err, domain.ErrInvalidDNI)

	_, err = f.svc.Create(context.Background(), domain.CreateMemberRequest{Name: "Ana", DNI: "30111222"})
	require.NoError(t, err)

	_, err = f.svc.Create(context.Background(), domain.CreateMemberRequest{Name: "Otra Ana", DNI: "30111222"})
	assert.ErrorIs(t, err, domain.ErrDNITaken)
}

func TestCreate_SocietaryQuoteMustBeClubWide(t *testing.T) {
	f := newFixture(t)
	futbol := f.addSport(t, "Futbol")
	sportQuote := f.addQuote(t, &futbol, "Futbol Mayores", 15000)
	societary := f.addQuote(t, nil, "Cuota Social", 8000)

	_, err := f.svc.Create(context.Background(), domain.CreateMemberRequest{
		Name: "Ana", DNI: "30111222",
		SocietaryQuoteID: sportQuote.String(),
	})
	assert.ErrorIs(t, err, domain.ErrSocietaryQuoteShape)

	member, err := f.svc.Create(context.Background(), domain.CreateMemberRequest{
		Name: "Ana", DNI: "30111222",
		SocietaryQuoteID: societary.String(),
	})
	require.NoError(t, err)
	require.NotNil(t, member.SocietaryQuoteID)
	assert.Equal(t, societary, *member.SocietaryQuoteID)

	cleared, err := f.svc.SetSocietaryQuote(context.Background(), domain.SetSocietaryQuoteRequest{
		MemberID: member.ID.String(),
	})
	require.NoError(t, err)
	assert.Nil(t, cleared.SocietaryQuoteID)
}

func TestEnroll_PrincipalDemotesPrevious(t *testing.T) {
	f := newFixture(t)
	futbol := f.addSport(t, "Futbol")
	tenis := f.addSport(t, "Tenis")
	futbolFee := f.addQuote(t, &futbol, "Futbol Mayores", 15000)
	tenisFee := f.addQuote(t, &tenis, "Tenis", 12000)

	member, err := f.svc.Create(context.Background(), domain.CreateMemberRequest{Name: "Ana", DNI: "30111222"})
	require.NoError(t, err)

	first, err := f.svc.Enroll(context.Background(), domain.EnrollRequest{
		MemberID: member.ID.String(), SportID: futbol.String(),
		QuoteID: futbolFee.String(), Principal: true,
	})
	require.NoError(t, err)
	assert.True(t, first.Principal)

	second, err := f.svc.Enroll(context.Background(), domain.EnrollRequest{
		MemberID: member.ID.String(), SportID: tenis.String(),
		QuoteID: tenisFee.String(), Principal: true,
	})
	require.NoError(t, err)
	assert.True(t, second.Principal)

	var stored domain.SportEnrollment
	require.NoError(t, f.db.First(&stored, "id = ?", first.ID).Error)
	assert.False(t, stored.Principal)
}

func TestEnroll_QuoteMustMatchSport(t *testing.T) {
	f := newFixture(t)
	futbol := f.addSport(t, "Futbol")
	tenis := f.addSport(t, "Tenis")
	tenisFee := f.addQuote(t, &tenis, "Tenis", 12000)

	member, err := f.svc.Create(context.Background(), domain.CreateMemberRequest{Name: "Ana", DNI: "30111222"})
	require.NoError(t, err)

	_, err = f.svc.Enroll(context.Background(), domain.EnrollRequest{
		MemberID: member.ID.String(), SportID: futbol.String(),
		QuoteID: tenisFee.String(),
	})
	assert.ErrorIs(t, err, domain.ErrQuoteSportMismatch)
}

func TestEnroll_DuplicateRefused(t *testing.T) {
	f := newFixture(t)
	futbol := f.addSport(t, "Futbol")

	member, err := f.svc.Create(context.Background(), domain.CreateMemberRequest{Name: "Ana", DNI: "30111222"})
	require.NoError(t, err)

	_, err = f.svc.Enroll(context.Background(), domain.EnrollRequest{
		MemberID: member.ID.String(), SportID: futbol.String(),
	})
	require.NoError(t, err)

	_, err = f.svc.Enroll(context.Background(), domain.EnrollRequest{
		MemberID: member.ID.String(), SportID: futbol.String(),
	})
	assert.ErrorIs(t, err, domain.ErrAlreadyEnrolled)
}

func TestSetPrincipal_MovesFlag(t *testing.T) {
	f := newFixture(t)
	futbol := f.addSport(t, "Futbol")
	tenis := f.addSport(t, "Tenis")

	member, err := f.svc.Create(context.Background(), domain.CreateMemberRequest{Name: "Ana", DNI: "30111222"})
	require.NoError(t, err)

	_, err = f.svc.Enroll(context.Background(), domain.EnrollRequest{
		MemberID: member.ID.String(), SportID: futbol.String(), Principal: true,
	})
	require.NoError(t, err)
	_, err = f.svc.Enroll(context.Background(), domain.EnrollRequest{
		MemberID: member.ID.String(), SportID: tenis.String(),
	})
	require.NoError(t, err)

	updated, err := f.svc.SetPrincipal(context.Background(), domain.SetPrincipalRequest{
		MemberID: member.ID.String(), SportID: tenis.String(),
	})
	require.NoError(t, err)
	assert.True(t, updated.Principal)

	got, err := f.svc.GetByID(context.Background(), domain.GetMemberRequest{ID: member.ID.String()})
	require.NoError(t, err)
	principals := 0
	for _, enrollment := range got.Enrollments {
		if enrollment.Principal {
			principals++
			assert.Equal(t, tenis, enrollment.SportID)
		}
	}
	assert.Equal(t, 1, principals)
}

func TestUnenroll(t *testing.T) {
	f := newFixture(t)
	futbol := f.addSport(t, "Futbol")

	member, err := f.svc.Create(context.Background(), domain.CreateMemberRequest{Name: "Ana", DNI: "30111222"})
	require.NoError(t, err)

	err = f.svc.Unenroll(context.Background(), domain.UnenrollRequest{
		MemberID: member.ID.String(), SportID: futbol.String(),
	})
	assert.ErrorIs(t, err, domain.ErrEnrollmentNotFound)

	_, err = f.svc.Enroll(context.Background(), domain.EnrollRequest{
		MemberID: member.ID.String(), SportID: futbol.String(),
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Unenroll(context.Background(), domain.UnenrollRequest{
		MemberID: member.ID.String(), SportID: futbol.String(),
	}))

	got, err := f.svc.GetByID(context.Background(), domain.GetMemberRequest{ID: member.ID.String()})
	require.NoError(t, err)
	assert.Empty(t, got.Enrollments)
}

func TestList_FiltersBySport(t *testing.T) {
	f := newFixture(t)
	futbol := f.addSport(t, "Futbol")

	ana, err := f.svc.Create(context.Background(), domain.CreateMemberRequest{Name: "Ana", DNI: "30111222"})
	require.NoError(t, err)
	_, err = f.svc.Create(context.Background(), domain.CreateMemberRequest{Name: "Bruno", DNI: "28999000"})
	require.NoError(t, err)

	_, err = f.svc.Enroll(context.Background(), domain.EnrollRequest{
		MemberID: ana.ID.String(), SportID: futbol.String(),
	})
	require.NoError(t, err)

	resp, err := f.svc.List(context.Background(), domain.ListMemberRequest{SportID: futbol.String()})
	require.NoError(t, err)
	require.Len(t, resp.Members, 1)
	assert.Equal(t, ana.ID, resp.Members[0].ID)

	resp, err = f.svc.List(context.Background(), domain.ListMemberRequest{Name: "Bru"})
	require.NoError(t, err)
	require.Len(t, resp.Members, 1)
	assert.Equal(t, "Bruno", resp.Members[0].Name)
}
