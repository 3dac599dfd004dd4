package service

import (
	"context"
	"testing"

	"krishisaarthi/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestRegisterAndAuthenticate(t *testing.T) {
	svc := NewUserService(newTestDB(t))
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{
		Email:            "  Ravi@Farm.IN ",
		Password:         "harvest-2024",
		Role:             domain.RoleFarmer,
		Name:             strPtr("Ravi"),
		FarmerCardNumber: strPtr("KCC-1001"),
	})
	require.NoError(t, err)
	assert.Equal(t, "ravi@farm.in", user.Email)
	assert.NotEqual(t, "harvest-2024", user.Password)

	got, err := svc.Authenticate(ctx, "RAVI@farm.in", "harvest-2024")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = svc.Authenticate(ctx, "ravi@farm.in", "wrong-password")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	_, err = svc.Authenticate(ctx, "nobody@farm.in", "harvest-2024")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestRegisterRoleRequirements(t *testing.T) {
	svc := NewUserService(newTestDB(t))
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "f@farm.in", Password: "harvest-2024", Role: domain.RoleFarmer})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "farmer_card_number")

	_, err = svc.Register(ctx, RegisterInput{Email: "lab@lab.in", Password: "harvest-2024", Role: domain.RoleSoilTestCompany})
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "company_name")

	_, err = svc.Register(ctx, RegisterInput{Email: "x@lab.in", Password: "short", Role: "ADMIN"})
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "password")
	assert.Contains(t, ve.Fields, "role")

	buyer, err := svc.Register(ctx, RegisterInput{Email: "b@mandi.in", Password: "harvest-2024", Role: domain.RoleBuyer, FarmerCardNumber: strPtr("KCC-9")})
	require.NoError(t, err)
	assert.Nil(t, buyer.FarmerCardNumber)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	svc := NewUserService(newTestDB(t))
	ctx := context.Background()
	in := RegisterInput{Email: "ravi@farm.in", Password: "harvest-2024", Role: domain.RoleFarmer, FarmerCardNumber: strPtr("KCC-1001")}
	_, err := svc.Register(ctx, in)
	require.NoError(t, err)

	_, err = svc.Register(ctx, in)
	assert.ErrorIs(t, err, domain.ErrConflict)

	in.Email = "other@farm.in"
	_, err = svc.Register(ctx, in)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestGetUser(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewUserService(gdb)
	u := seedUser(t, gdb, domain.RoleBuyer, "b@mandi.in")

	got, err := svc.Get(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)

	_, err = svc.Get(context.Background(), u.ID+100)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
