package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"krishisaarthi/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSoilTestLifecycleVisibility(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewSoilTestService(gdb)
	ctx := context.Background()
	farmer := seedUser(t, gdb, domain.RoleFarmer, "a@farm.in")
	b := seedUser(t, gdb, domain.RoleSoilTestCompany, "b@lab.in")
	c := seedUser(t, gdb, domain.RoleSoilTestCompany, "c@lab.in")

	req, err := svc.Submit(ctx, farmer.ID, SubmitSoilTestInput{Location: "12 River Rd", ContactNumber: "98765"})
	require.NoError(t, err)
	assert.Equal(t, domain.SoilTestPending, req.Status)

	// Any company may see the open request
	_, err = svc.Get(ctx, c.ID, req.ID)
	require.NoError(t, err)

	accepted, err := svc.Accept(ctx, b.ID, req.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SoilTestAccepted, accepted.Status)
	require.NotNil(t, accepted.AcceptedByID)
	assert.Equal(t, b.ID, *accepted.AcceptedByID)

	_, err = svc.Get(ctx, c.ID, req.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.Accept(ctx, c.ID, req.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	report, err := svc.SubmitReport(ctx, b.ID, req.ID, artifacts())
	require.NoError(t, err)
	assert.Equal(t, b.ID, report.SoilTesterID)

	got, err := svc.Get(ctx, b.ID, req.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SoilTestCompleted, got.Status)
	require.Len(t, got.Reports, 1)
	require.NotNil(t, got.Farmer)
	assert.Equal(t, farmer.ID, got.Farmer.ID)

	_, err = svc.Get(ctx, c.ID, req.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.Get(ctx, farmer.ID, req.ID)
	require.NoError(t, err)

	var stored domain.User
	require.NoError(t, gdb.First(&stored, b.ID).Error)
	assert.Equal(t, domain.KrishiStarsPerReport, stored.KrishiStars)
}

func TestSubmitRequiresFarmer(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewSoilTestService(gdb)
	buyer := seedUser(t, gdb, domain.RoleBuyer, "buyer@mandi.in")

	_, err := svc.Submit(context.Background(), buyer.ID, SubmitSoilTestInput{Location: "12 River Rd", ContactNumber: "98765"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	var n int64
	require.NoError(t, gdb.Model(&domain.SoilTestRequest{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestSubmitValidatesFields(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewSoilTestService(gdb)
	farmer := seedUser(t, gdb, domain.RoleFarmer, "a@farm.in")

	_, err := svc.Submit(context.Background(), farmer.ID, SubmitSoilTestInput{Location: "  Rd ", ContactNumber: "123"})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "location")
	assert.Contains(t, ve.Fields, "contact_number")
}

func TestAcceptMissingRequest(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewSoilTestService(gdb)
	lab := seedUser(t, gdb, domain.RoleSoilTestCompany, "b@lab.in")

	_, err := svc.Accept(context.Background(), lab.ID, 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAcceptUsesStoredRole(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewSoilTestService(gdb)
	ctx := context.Background()
	farmer := seedUser(t, gdb, domain.RoleFarmer, "a@farm.in")
	lab := seedUser(t, gdb, domain.RoleSoilTestCompany, "b@lab.in")
	req, err := svc.Submit(ctx, farmer.ID, SubmitSoilTestInput{Location: "12 River Rd", ContactNumber: "98765"})
	require.NoError(t, err)

	require.NoError(t, gdb.Model(lab).Update("role", domain.RoleBuyer).Error)
	_, err = svc.Accept(ctx, lab.ID, req.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestConcurrentAcceptsHaveOneWinner(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewSoilTestService(gdb)
	ctx := context.Background()
	farmer := seedUser(t, gdb, domain.RoleFarmer, "a@farm.in")
	req, err := svc.Submit(ctx, farmer.ID, SubmitSoilTestInput{Location: "12 River Rd", ContactNumber: "98765"})
	require.NoError(t, err)

	const companies = 8
	labs := make([]*domain.User, companies)
	for i := range labs {
		labs[i] = seedUser(t, gdb, domain.RoleSoilTestCompany, fmt.Sprintf("lab%d@lab.in", i))
	}

	var wg sync.WaitGroup
	errs := make([]error, companies)
	for i, lab := range labs {
		wg.Add(1)
		go func(i int, id uint) {
			defer wg.Done()
			_, errs[i] = svc.Accept(ctx, id, req.ID)
		}(i, lab.ID)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrInvalidState)
	}
	assert.Equal(t, 1, wins)
}

func TestReportRequiresPriorAccept(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewSoilTestService(gdb)
	ctx := context.Background()
	farmer := seedUser(t, gdb, domain.RoleFarmer, "a@farm.in")
	b := seedUser(t, gdb, domain.RoleSoilTestCompany, "b@lab.in")
	c := seedUser(t, gdb, domain.RoleSoilTestCompany, "c@lab.in")
	req, err := svc.Submit(ctx, farmer.ID, SubmitSoilTestInput{Location: "12 River Rd", ContactNumber: "98765"})
	require.NoError(t, err)

	_, err = svc.SubmitReport(ctx, b.ID, req.ID, artifacts())
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = svc.Accept(ctx, b.ID, req.ID)
	require.NoError(t, err)

	_, err = svc.SubmitReport(ctx, c.ID, req.ID, artifacts())
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.SubmitReport(ctx, b.ID, req.ID, artifacts())
	require.NoError(t, err)

	_, err = svc.SubmitReport(ctx, b.ID, req.ID, artifacts())
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	var stored domain.User
	require.NoError(t, gdb.First(&stored, b.ID).Error)
	assert.Equal(t, domain.KrishiStarsPerReport, stored.KrishiStars)
}

func TestRejectedReportLeavesRequestAccepted(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewSoilTestService(gdb)
	ctx := context.Background()
	farmer := seedUser(t, gdb, domain.RoleFarmer, "a@farm.in")
	lab := seedUser(t, gdb, domain.RoleSoilTestCompany, "b@lab.in")
	req, err := svc.Submit(ctx, farmer.ID, SubmitSoilTestInput{Location: "12 River Rd", ContactNumber: "98765"})
	require.NoError(t, err)
	_, err = svc.Accept(ctx, lab.ID, req.ID)
	require.NoError(t, err)

	bad := artifacts()
	bad.ReportURL = "reports/2/report.pdf"
	_, err = svc.SubmitReport(ctx, lab.ID, req.ID, bad)
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "report_url")

	var stored domain.SoilTestRequest
	require.NoError(t, gdb.First(&stored, req.ID).Error)
	assert.Equal(t, domain.SoilTestAccepted, stored.Status)
	var reports int64
	require.NoError(t, gdb.Model(&domain.SoilTestReport{}).Count(&reports).Error)
	assert.Zero(t, reports)
}

func TestGetForbidsOtherRoles(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewSoilTestService(gdb)
	ctx := context.Background()
	farmer := seedUser(t, gdb, domain.RoleFarmer, "a@farm.in")
	other := seedUser(t, gdb, domain.RoleFarmer, "z@farm.in")
	agent := seedUser(t, gdb, domain.RoleMarketAgent, "agent@mandi.in")
	req, err := svc.Submit(ctx, farmer.ID, SubmitSoilTestInput{Location: "12 River Rd", ContactNumber: "98765"})
	require.NoError(t, err)

	_, err = svc.Get(ctx, other.ID, req.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = svc.Get(ctx, agent.ID, req.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = svc.Get(ctx, farmer.ID, req.ID+1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListForViewer(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewSoilTestService(gdb)
	ctx := context.Background()
	farmer := seedUser(t, gdb, domain.RoleFarmer, "a@farm.in")
	b := seedUser(t, gdb, domain.RoleSoilTestCompany, "b@lab.in")
	c := seedUser(t, gdb, domain.RoleSoilTestCompany, "c@lab.in")

	first, err := svc.Submit(ctx, farmer.ID, SubmitSoilTestInput{Location: "12 River Rd", ContactNumber: "98765"})
	require.NoError(t, err)
	second, err := svc.Submit(ctx, farmer.ID, SubmitSoilTestInput{Location: "40 Canal St", ContactNumber: "98765"})
	require.NoError(t, err)
	_, err = svc.Accept(ctx, b.ID, first.ID)
	require.NoError(t, err)
	_, err = svc.SubmitReport(ctx, b.ID, first.ID, artifacts())
	require.NoError(t, err)

	own, err := svc.ListForViewer(ctx, farmer.ID)
	require.NoError(t, err)
	require.Len(t, own.Pending, 1)
	assert.Equal(t, second.ID, own.Pending[0].ID)
	require.Len(t, own.Completed, 1)
	assert.Equal(t, first.ID, own.Completed[0].ID)

	labB, err := svc.ListForViewer(ctx, b.ID)
	require.NoError(t, err)
	assert.Len(t, labB.Pending, 1)
	require.Len(t, labB.Completed, 1)
	assert.Equal(t, first.ID, labB.Completed[0].ID)

	labC, err := svc.ListForViewer(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, labC.Pending, 1)
	assert.Empty(t, labC.Completed)
}
