package service

import (
	"context" // Request scoped cancellation
	"errors"  // Error inspection
	"strings" // Input normalisation
	"time"    // Event timestamps

	"krishisaarthi/internal/domain" // Domain models

	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// SubmitSoilTestInput is a farmer's request for a soil test
type SubmitSoilTestInput struct {
	Location       string
	ContactNumber  string
	AdditionalInfo *string
}

// ReportArtifacts are the uploaded documents that complete a soil test
type ReportArtifacts struct {
	ReportURL         string
	SoilCollectionURL string
	FarmerPhotoURL    string
}

// SoilTestBoard is a viewer's dashboard split of soil test requests
type SoilTestBoard struct {
	Pending   []domain.SoilTestRequest `json:"pending"`   // Awaiting action
	Accepted  []domain.SoilTestRequest `json:"accepted"`  // Accepted, report outstanding
	Completed []domain.SoilTestRequest `json:"completed"` // Report filed
}

// SoilTestService drives the PENDING -> ACCEPTED -> COMPLETED lifecycle
type SoilTestService struct {
	db *gorm.DB
}

// NewSoilTestService creates a SoilTestService
func NewSoilTestService(db *gorm.DB) *SoilTestService {
	return &SoilTestService{db: db}
}

// Submit files a new PENDING request on behalf of a farmer
func (s *SoilTestService) Submit(ctx context.Context, actorID uint, in SubmitSoilTestInput) (*domain.SoilTestRequest, error) {
	db := s.db.WithContext(ctx)
	if _, err := authorize(db, actorID, "Only farmers can request soil tests", domain.RoleFarmer); err != nil {
		return nil, err
	}
	fe := fieldErrors{}
	fe.minLen("location", in.Location, 5, "must be at least 5 characters")
	fe.minLen("contact_number", in.ContactNumber, 5, "must be at least 5 characters")
	if err := fe.err(); err != nil {
		return nil, err
	}
	req := domain.SoilTestRequest{
		FarmerID:       actorID,
		Location:       strings.TrimSpace(in.Location),
		ContactNumber:  strings.TrimSpace(in.ContactNumber),
		AdditionalInfo: trimmedPtr(in.AdditionalInfo),
		Status:         domain.SoilTestPending,
	}
	if err := db.Create(&req).Error; err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"request_id": req.ID,  // New request ID
		"farmer_id":  actorID, // Requesting farmer
	}).Info("Soil test requested")
	return &req, nil
}

// Accept claims a PENDING request for the acting company. The transition is a
// conditional update, so of two concurrent accepts exactly one succeeds.
func (s *SoilTestService) Accept(ctx context.Context, actorID, requestID uint) (*domain.SoilTestRequest, error) {
	db := s.db.WithContext(ctx)
	if _, err := authorize(db, actorID, "Only soil testing companies can accept requests", domain.RoleSoilTestCompany); err != nil {
		return nil, err
	}
	var req domain.SoilTestRequest
	if err := db.First(&req, requestID).Error; err != nil {
		return nil, notFoundOr(err, "Soil test request not found")
	}
	res := db.Model(&domain.SoilTestRequest{}).
		Where("id = ? AND status = ?", requestID, domain.SoilTestPending).
		Updates(map[string]any{"status": domain.SoilTestAccepted, "accepted_by_id": actorID})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, domain.InvalidState("This request has already been accepted")
	}
	if err := db.First(&req, requestID).Error; err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"request_id": requestID,                       // Accepted request
		"company_id": actorID,                         // Accepting company
		"timestamp":  time.Now().Format(time.RFC3339), // Current timestamp
	}).Info("Soil test request accepted")
	return &req, nil
}

// SubmitReport files the accepting company's report, completes the request
// and awards the company its Krishi stars in a single transaction
func (s *SoilTestService) SubmitReport(ctx context.Context, actorID, requestID uint, in ReportArtifacts) (*domain.SoilTestReport, error) {
	fe := fieldErrors{}
	fe.absoluteURL("report_url", in.ReportURL)
	fe.absoluteURL("soil_collection_url", in.SoilCollectionURL)
	fe.absoluteURL("farmer_photo_url", in.FarmerPhotoURL)

	var report domain.SoilTestReport
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := authorize(tx, actorID, "Only soil testing companies can submit reports", domain.RoleSoilTestCompany); err != nil {
			return err
		}
		var req domain.SoilTestRequest
		if err := tx.First(&req, requestID).Error; err != nil {
			return notFoundOr(err, "Soil test request not found")
		}
		switch req.Status {
		case domain.SoilTestPending:
			return domain.InvalidState("You must first accept this request before submitting a report")
		case domain.SoilTestCompleted:
			return domain.InvalidState("A report has already been submitted for this request")
		}
		if req.AcceptedByID == nil || *req.AcceptedByID != actorID {
			return domain.Forbidden("This request was accepted by another company")
		}
		if err := fe.err(); err != nil {
			return err
		}
		// Complete only if still ACCEPTED by this company
		res := tx.Model(&domain.SoilTestRequest{}).
			Where("id = ? AND status = ? AND accepted_by_id = ?", requestID, domain.SoilTestAccepted, actorID).
			Update("status", domain.SoilTestCompleted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.InvalidState("This request is no longer awaiting a report")
		}
		report = domain.SoilTestReport{
			RequestID:         requestID,
			SoilTesterID:      actorID,
			ReportURL:         strings.TrimSpace(in.ReportURL),
			SoilCollectionURL: strings.TrimSpace(in.SoilCollectionURL),
			FarmerPhotoURL:    strings.TrimSpace(in.FarmerPhotoURL),
		}
		if err := tx.Create(&report).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.Conflict("A report has already been submitted for this request")
			}
			return err
		}
		// Award reputation
		return tx.Model(&domain.User{}).Where("id = ?", actorID).
			Update("krishi_stars", gorm.Expr("krishi_stars + ?", domain.KrishiStarsPerReport)).Error
	})
	if err != nil {
		var de *domain.Error
		var ve *domain.ValidationError
		if !errors.As(err, &de) && !errors.As(err, &ve) {
			logrus.WithFields(logrus.Fields{
				"request_id": requestID,   // Target request
				"company_id": actorID,     // Submitting company
				"error":      err.Error(), // Error message
			}).Error("Soil test report failed")
		}
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"request_id":   requestID,                   // Completed request
		"company_id":   actorID,                     // Submitting company
		"report_id":    report.ID,                   // New report
		"krishi_stars": domain.KrishiStarsPerReport, // Stars awarded
	}).Info("Soil test report submitted")
	return &report, nil
}

// Get returns a request with its farmer and reports if the viewer may see it.
// Farmers see their own requests. Soil testing companies see PENDING requests,
// ACCEPTED requests they accepted and COMPLETED requests they reported on.
func (s *SoilTestService) Get(ctx context.Context, viewerID, requestID uint) (*domain.SoilTestRequest, error) {
	db := s.db.WithContext(ctx)
	var viewer domain.User
	if err := db.First(&viewer, viewerID).Error; err != nil {
		return nil, notFoundOr(err, "User not found")
	}
	var req domain.SoilTestRequest
	if err := db.Preload("Farmer").Preload("Reports").First(&req, requestID).Error; err != nil {
		return nil, notFoundOr(err, "Soil test request not found")
	}
	if !canView(&viewer, &req) {
		return nil, domain.Forbidden("You do not have access to this soil test request")
	}
	return &req, nil
}

func canView(viewer *domain.User, req *domain.SoilTestRequest) bool {
	switch viewer.Role {
	case domain.RoleFarmer:
		return req.FarmerID == viewer.ID
	case domain.RoleSoilTestCompany:
		switch req.Status {
		case domain.SoilTestPending:
			return true
		case domain.SoilTestAccepted:
			return req.AcceptedByID != nil && *req.AcceptedByID == viewer.ID
		case domain.SoilTestCompleted:
			for _, r := range req.Reports {
				if r.SoilTesterID == viewer.ID {
					return true
				}
			}
		}
	}
	return false
}

// ListForViewer builds the viewer's soil test dashboard. Farmers get their own
// requests; companies get the open queue plus their accepted and reported work.
func (s *SoilTestService) ListForViewer(ctx context.Context, viewerID uint) (*SoilTestBoard, error) {
	db := s.db.WithContext(ctx)
	var viewer domain.User
	if err := db.First(&viewer, viewerID).Error; err != nil {
		return nil, notFoundOr(err, "User not found")
	}
	board := &SoilTestBoard{
		Pending:   []domain.SoilTestRequest{},
		Accepted:  []domain.SoilTestRequest{},
		Completed: []domain.SoilTestRequest{},
	}
	switch viewer.Role {
	case domain.RoleFarmer:
		var all []domain.SoilTestRequest
		if err := db.Preload("Reports").Where("farmer_id = ?", viewerID).
			Order("created_at DESC").Order("id DESC").Find(&all).Error; err != nil {
			return nil, err
		}
		for _, r := range all {
			switch r.Status {
			case domain.SoilTestCompleted:
				board.Completed = append(board.Completed, r)
			case domain.SoilTestAccepted:
				board.Accepted = append(board.Accepted, r)
			default:
				board.Pending = append(board.Pending, r)
			}
		}
	case domain.RoleSoilTestCompany:
		if err := db.Preload("Farmer").Where("status = ?", domain.SoilTestPending).
			Order("created_at DESC").Order("id DESC").Find(&board.Pending).Error; err != nil {
			return nil, err
		}
		if err := db.Preload("Farmer").Where("status = ? AND accepted_by_id = ?", domain.SoilTestAccepted, viewerID).
			Order("updated_at DESC").Order("id DESC").Find(&board.Accepted).Error; err != nil {
			return nil, err
		}
		reported := db.Model(&domain.SoilTestReport{}).Select("request_id").Where("soil_tester_id = ?", viewerID)
		if err := db.Preload("Farmer").Preload("Reports", "soil_tester_id = ?", viewerID).
			Where("id IN (?)", reported).
			Order("updated_at DESC").Order("id DESC").Find(&board.Completed).Error; err != nil {
			return nil, err
		}
	}
	return board, nil
}
