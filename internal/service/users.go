package service

import (
	"context" // Request scoped cancellation
	"errors"  // Error inspection
	"strings" // Input normalisation

	"krishisaarthi/internal/domain" // Domain models

	"github.com/sirupsen/logrus" // Logging library
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// MinPasswordLength is the shortest password accepted at registration
const MinPasswordLength = 8

// RegisterInput is a new account as submitted by the caller
type RegisterInput struct {
	Email            string
	Password         string
	Role             domain.Role
	Name             *string
	FarmerCardNumber *string
	CompanyName      *string
	Address          *string
	ContactNumber    *string
}

// UserService manages accounts and credentials
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a UserService
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Register creates an account with a bcrypt hashed password
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email)) // Emails are unique case-insensitively
	fe := fieldErrors{}
	if email == "" || !strings.Contains(email, "@") {
		fe["email"] = "must be a valid email address"
	}
	if len(in.Password) < MinPasswordLength {
		fe["password"] = "must be at least 8 characters"
	}
	if !in.Role.Valid() {
		fe["role"] = "must be one of FARMER SOIL_TEST_COMPANY SEED_PROVIDER MARKET_AGENT BUYER"
	}
	card := trimmedPtr(in.FarmerCardNumber)
	company := trimmedPtr(in.CompanyName)
	if in.Role == domain.RoleFarmer && card == nil {
		fe["farmer_card_number"] = "is required for farmers"
	}
	if in.Role.IsCompany() && company == nil {
		fe["company_name"] = "is required for companies"
	}
	if err := fe.err(); err != nil {
		return nil, err
	}
	if in.Role != domain.RoleFarmer {
		card = nil // Card numbers identify farmers only
	}

	db := s.db.WithContext(ctx)
	var count int64
	if err := db.Model(&domain.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, domain.Conflict("User with this email already exists")
	}
	if card != nil {
		if err := db.Model(&domain.User{}).Where("farmer_card_number = ?", *card).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, domain.Conflict("This farmer card number is already registered")
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := domain.User{
		Email:            email,
		Password:         string(hash),
		Role:             in.Role,
		Name:             trimmedPtr(in.Name),
		FarmerCardNumber: card,
		CompanyName:      company,
		Address:          trimmedPtr(in.Address),
		ContactNumber:    trimmedPtr(in.ContactNumber),
	}
	if err := db.Create(&user).Error; err != nil {
		// A concurrent registration can still win the unique index
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.Conflict("User already exists")
		}
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"user_id": user.ID,   // New user ID
		"role":    user.Role, // Registered role
	}).Info("User registered")
	return &user, nil
}

// Authenticate checks an email and password pair
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	var user domain.User
	err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.Unauthenticated("Invalid email or password")
	} else if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, domain.Unauthenticated("Invalid email or password")
	}
	return &user, nil
}

// Get loads a user by ID
func (s *UserService) Get(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFoundOr(err, "User not found")
	}
	return &user, nil
}
