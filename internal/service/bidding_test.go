package service

import (
	"context"
	"testing"
	"time"

	"krishisaarthi/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newBiddingService(gdb *gorm.DB, now time.Time) *BiddingService {
	svc := NewBiddingService(gdb)
	svc.now = func() time.Time { return now }
	return svc
}

func TestBiddingFlow(t *testing.T) {
	gdb := newTestDB(t)
	now := time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)
	svc := newBiddingService(gdb, now)
	ctx := context.Background()
	farmer := seedUser(t, gdb, domain.RoleFarmer, "a@farm.in")
	buyer1 := seedUser(t, gdb, domain.RoleBuyer, "b1@mandi.in")
	buyer2 := seedUser(t, gdb, domain.RoleBuyer, "b2@mandi.in")

	wheat, err := svc.CreateEntry(ctx, farmer.ID, CreateEntryInput{CropName: "Wheat", BasePrice: 2000, EndDate: now.Add(48 * time.Hour)})
	require.NoError(t, err)
	onion, err := svc.CreateEntry(ctx, farmer.ID, CreateEntryInput{CropName: "Onion", BasePrice: 1500, EndDate: now.Add(24 * time.Hour)})
	require.NoError(t, err)

	_, err = svc.PlaceBid(ctx, buyer1.ID, wheat.ID, 2000)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "amount")

	_, err = svc.PlaceBid(ctx, buyer1.ID, onion.ID, 2600)
	require.NoError(t, err)
	_, err = svc.PlaceBid(ctx, buyer2.ID, onion.ID, 2600)
	require.NoError(t, err)
	_, err = svc.PlaceBid(ctx, buyer2.ID, wheat.ID, 2100)
	require.NoError(t, err)

	_, err = svc.PlaceBid(ctx, farmer.ID, wheat.ID, 2500)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = svc.PlaceBid(ctx, buyer1.ID, 999, 2500)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	entries, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, onion.ID, entries[0].ID)
	require.NotNil(t, entries[0].HighestBid)
	assert.Equal(t, buyer1.ID, entries[0].HighestBid.BuyerID)
	assert.Equal(t, 2600.0, entries[0].CurrentPrice)
	assert.Equal(t, 2, entries[0].BidCount)
	assert.Equal(t, farmer.ID, entries[1].Farmer.ID)
}

func TestBiddingClosedEntries(t *testing.T) {
	gdb := newTestDB(t)
	now := time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)
	svc := newBiddingService(gdb, now)
	ctx := context.Background()
	farmer := seedUser(t, gdb, domain.RoleFarmer, "a@farm.in")
	other := seedUser(t, gdb, domain.RoleFarmer, "z@farm.in")
	buyer := seedUser(t, gdb, domain.RoleBuyer, "b@mandi.in")

	entry, err := svc.CreateEntry(ctx, farmer.ID, CreateEntryInput{CropName: "Wheat", BasePrice: 2000, EndDate: now.Add(time.Hour)})
	require.NoError(t, err)

	_, err = svc.Close(ctx, other.ID, entry.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	closed, err := svc.Close(ctx, farmer.ID, entry.ID)
	require.NoError(t, err)
	assert.False(t, closed.IsActive)
	_, err = svc.Close(ctx, farmer.ID, entry.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = svc.PlaceBid(ctx, buyer.ID, entry.ID, 2500)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	open, err := svc.CreateEntry(ctx, farmer.ID, CreateEntryInput{CropName: "Maize", BasePrice: 1000, EndDate: now.Add(time.Hour)})
	require.NoError(t, err)
	later := newBiddingService(gdb, now.Add(2*time.Hour))
	_, err = later.PlaceBid(ctx, buyer.ID, open.ID, 1200)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	listed, err := later.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestCreateEntryValidation(t *testing.T) {
	gdb := newTestDB(t)
	now := time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)
	svc := newBiddingService(gdb, now)
	farmer := seedUser(t, gdb, domain.RoleFarmer, "a@farm.in")
	buyer := seedUser(t, gdb, domain.RoleBuyer, "b@mandi.in")

	_, err := svc.CreateEntry(context.Background(), farmer.ID, CreateEntryInput{CropName: "W", BasePrice: -1, EndDate: now})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "crop_name")
	assert.Contains(t, ve.Fields, "base_price")
	assert.Contains(t, ve.Fields, "end_date")

	_, err = svc.CreateEntry(context.Background(), buyer.ID, CreateEntryInput{CropName: "Wheat", BasePrice: 10, EndDate: now.Add(time.Hour)})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
