package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"medreps/internal/directory"
	"medreps/internal/events"
	"medreps/internal/ids"
	"medreps/internal/metrics"
	"medreps/internal/models"
	"medreps/internal/repository"
)

type HospitalService struct {
	dir       *directory.Directory
	hospitals repository.Hospitals
	events    events.Publisher
	log       zerolog.Logger
}

func NewHospitalService(dir *directory.Directory, hospitals repository.Hospitals, publisher events.Publisher, log zerolog.Logger) *HospitalService {
	return &HospitalService{dir: dir, hospitals: hospitals, events: publisher, log: log}
}

type HospitalInput struct {
	Name           string
	Location       string
	ContactPerson  string
	Phone          string
	Representative string
}

// Add stores a hospital with every tracked product pending and no visits.
func (s *HospitalService) Add(ctx context.Context, input HospitalInput) (string, error) {
	code, name, err := owner(ctx, s.dir, input.Representative)
	if err != nil {
		return "", err
	}

	hospital := models.Hospital{
		ID:             ids.New(),
		Name:           input.Name,
		Location:       input.Location,
		ContactPerson:  input.ContactPerson,
		Phone:          input.Phone,
		Representative: code,
		RepName:        name,
		Products:       models.InitialProducts(),
		Visits:         []models.HospitalVisit{},
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.hospitals.Create(ctx, hospital); err != nil {
		return "", fmt.Errorf("add hospital: %w", err)
	}
	metrics.RecordsCreated.WithLabelValues("hospital").Inc()

	publish(ctx, s.events, s.log, events.Event{
		Type:           events.TypeHospitalAdded,
		ID:             hospital.ID,
		Representative: code,
	})
	return hospital.ID, nil
}

func (s *HospitalService) List(ctx context.Context, representative string) ([]models.Hospital, error) {
	code, all, err := readScope(ctx, representative)
	if err != nil {
		return nil, err
	}
	if all {
		return s.hospitals.List(ctx)
	}
	return s.hospitals.ListByRepresentative(ctx, code)
}

type VisitInput struct {
	HospitalID string
	Date       string
	Feedback   string
	VisitedBy  string
}

// LogVisit appends one visit. visitedBy defaults to the caller's name.
func (s *HospitalService) LogVisit(ctx context.Context, input VisitInput) error {
	hospital, err := s.hospitals.GetByID(ctx, input.HospitalID)
	if err != nil {
		return err
	}
	if err := canModify(ctx, hospital.Representative); err != nil {
		return err
	}

	visitedBy := input.VisitedBy
	if visitedBy == "" {
		actor, _ := ActorFrom(ctx)
		visitedBy = actor.Name
	}

	visit := models.HospitalVisit{
		Date:      input.Date,
		Feedback:  input.Feedback,
		VisitedBy: visitedBy,
	}
	if err := s.hospitals.AppendVisit(ctx, hospital.ID, visit); err != nil {
		return err
	}
	metrics.RecordsCreated.WithLabelValues("hospital_visit").Inc()

	publish(ctx, s.events, s.log, events.Event{
		Type:           events.TypeHospitalVisited,
		ID:             hospital.ID,
		Representative: hospital.Representative,
		Count:          1,
	})
	return nil
}

// SetProductStatus replaces one products entry. Neither the key nor the
// status is restricted to the tracked sets; departures are logged.
func (s *HospitalService) SetProductStatus(ctx context.Context, hospitalID, product, status string) error {
	hospital, err := s.hospitals.GetByID(ctx, hospitalID)
	if err != nil {
		return err
	}
	if err := canModify(ctx, hospital.Representative); err != nil {
		return err
	}

	ps := models.ProductStatus(status)
	if !models.IsProductKey(product) || !ps.Valid() {
		s.log.Warn().
			Str("hospital_id", hospital.ID).
			Str("product", product).
			Str("status", status).
			Msg("product status outside tracked set")
	}

	return s.hospitals.SetProductStatus(ctx, hospital.ID, product, ps)
}
