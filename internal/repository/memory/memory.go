// Package memory keeps every collection in process. It backs the "memory"
// storage driver used for local runs and tests.
package memory

import (
	"context"
	"sync"

	"medreps/internal/models"
	"medreps/internal/repository"
)

func NewSet() repository.Set {
	return repository.Set{
		Sessions:  NewSessionStore(),
		Plans:     NewPlanStore(),
		Reports:   NewReportStore(),
		Hospitals: NewHospitalStore(),
	}
}

type SessionStore struct {
	mu   sync.RWMutex
	seq  int64
	rows []models.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

func (s *SessionStore) Create(_ context.Context, session models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	session.Seq = s.seq
	s.rows = append(s.rows, session)
	return nil
}

func (s *SessionStore) GetByID(_ context.Context, id string) (models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, row := range s.rows {
		if row.ID == id {
			return row, nil
		}
	}
	return models.Session{}, repository.ErrSessionNotFound
}

func (s *SessionStore) FirstActive(_ context.Context, userCode string) (models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, row := range s.rows {
		if row.UserCode == userCode && row.IsActive {
			return row, nil
		}
	}
	return models.Session{}, repository.ErrSessionNotFound
}

func (s *SessionStore) Deactivate(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rows {
		if s.rows[i].ID == id {
			s.rows[i].IsActive = false
			return nil
		}
	}
	return repository.ErrSessionNotFound
}

type PlanStore struct {
	mu   sync.RWMutex
	seq  int64
	rows []models.WeeklyPlan
}

func NewPlanStore() *PlanStore {
	return &PlanStore{}
}

func (s *PlanStore) Create(_ context.Context, plan models.WeeklyPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	plan.Seq = s.seq
	s.rows = append(s.rows, clonePlan(plan))
	return nil
}

func (s *PlanStore) List(_ context.Context) ([]models.WeeklyPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter(s.rows, func(models.WeeklyPlan) bool { return true }, clonePlan), nil
}

func (s *PlanStore) ListByRepresentative(_ context.Context, code string) ([]models.WeeklyPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter(s.rows, func(p models.WeeklyPlan) bool { return p.Representative == code }, clonePlan), nil
}

func (s *PlanStore) Recent(_ context.Context, limit int) ([]models.WeeklyPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newestFirst(s.rows, limit, clonePlan), nil
}

type ReportStore struct {
	mu   sync.RWMutex
	seq  int64
	rows []models.DailyReport
}

func NewReportStore() *ReportStore {
	return &ReportStore{}
}

func (s *ReportStore) Create(_ context.Context, report models.DailyReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	report.Seq = s.seq
	s.rows = append(s.rows, cloneReport(report))
	return nil
}

func (s *ReportStore) List(_ context.Context) ([]models.DailyReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter(s.rows, func(models.DailyReport) bool { return true }, cloneReport), nil
}

func (s *ReportStore) ListByRepresentative(_ context.Context, code string) ([]models.DailyReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter(s.rows, func(r models.DailyReport) bool { return r.Representative == code }, cloneReport), nil
}

func (s *ReportStore) Recent(_ context.Context, limit int) ([]models.DailyReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newestFirst(s.rows, limit, cloneReport), nil
}

type HospitalStore struct {
	mu   sync.RWMutex
	seq  int64
	rows []models.Hospital
}

func NewHospitalStore() *HospitalStore {
	return &HospitalStore{}
}

func (s *HospitalStore) Create(_ context.Context, hospital models.Hospital) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	hospital.Seq = s.seq
	s.rows = append(s.rows, cloneHospital(hospital))
	return nil
}

func (s *HospitalStore) GetByID(_ context.Context, id string) (models.Hospital, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return models.Hospital{}, repository.ErrHospitalNotFound
	}
	return cloneHospital(s.rows[i]), nil
}

func (s *HospitalStore) List(_ context.Context) ([]models.Hospital, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter(s.rows, func(models.Hospital) bool { return true }, cloneHospital), nil
}

func (s *HospitalStore) ListByRepresentative(_ context.Context, code string) ([]models.Hospital, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter(s.rows, func(h models.Hospital) bool { return h.Representative == code }, cloneHospital), nil
}

func (s *HospitalStore) AppendVisit(_ context.Context, id string, visit models.HospitalVisit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return repository.ErrHospitalNotFound
	}
	s.rows[i].Visits = append(s.rows[i].Visits, visit)
	return nil
}

func (s *HospitalStore) SetProductStatus(_ context.Context, id string, product string, status models.ProductStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return repository.ErrHospitalNotFound
	}
	if s.rows[i].Products == nil {
		s.rows[i].Products = map[string]models.ProductStatus{}
	}
	s.rows[i].Products[product] = status
	return nil
}

func (s *HospitalStore) indexOf(id string) int {
	for i := range s.rows {
		if s.rows[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneHospital(h models.Hospital) models.Hospital {
	products := make(map[string]models.ProductStatus, len(h.Products))
	for k, v := range h.Products {
		products[k] = v
	}
	h.Products = products
	h.Visits = append([]models.HospitalVisit{}, h.Visits...)
	return h
}

func clonePlan(p models.WeeklyPlan) models.WeeklyPlan {
	day := func(in []models.VisitIntent) []models.VisitIntent {
		if in == nil {
			return nil
		}
		out := make([]models.VisitIntent, len(in))
		for i, v := range in {
			if v.Products != nil {
				v.Products = append([]string{}, v.Products...)
			}
			out[i] = v
		}
		return out
	}
	p.Plan = models.WeekSchedule{
		Saturday:  day(p.Plan.Saturday),
		Sunday:    day(p.Plan.Sunday),
		Monday:    day(p.Plan.Monday),
		Tuesday:   day(p.Plan.Tuesday),
		Wednesday: day(p.Plan.Wednesday),
	}
	return p
}

func cloneReport(r models.DailyReport) models.DailyReport {
	r.Visits = append([]models.ReportVisit{}, r.Visits...)
	return r
}

// filter returns copies of the rows kept, in storage order.
func filter[T any](rows []T, keep func(T) bool, clone func(T) T) []T {
	out := []T{}
	for _, row := range rows {
		if keep(row) {
			out = append(out, clone(row))
		}
	}
	return out
}

func newestFirst[T any](rows []T, limit int, clone func(T) T) []T {
	out := []T{}
	for i := len(rows) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, clone(rows[i]))
	}
	return out
}
