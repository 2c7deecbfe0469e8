// Package mongorepo stores each record kind as documents in its own MongoDB collection.
package mongorepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"medreps/internal/models"
	"medreps/internal/repository"
)

const (
	colSessions  = "user_sessions"
	colPlans     = "weekly_plans"
	colReports   = "daily_reports"
	colHospitals = "hospitals"
	colCounters  = "counters"
)

var (
	ascBySeq  = bson.D{{Key: "seq", Value: 1}}
	descBySeq = bson.D{{Key: "seq", Value: -1}}
)

func NewSet(db *mongo.Database) repository.Set {
	seq := &sequencer{col: db.Collection(colCounters)}
	return repository.Set{
		Sessions:  &SessionRepository{col: db.Collection(colSessions), seq: seq},
		Plans:     &PlanRepository{col: db.Collection(colPlans), seq: seq},
		Reports:   &ReportRepository{col: db.Collection(colReports), seq: seq},
		Hospitals: &HospitalRepository{col: db.Collection(colHospitals), seq: seq},
	}
}

// EnsureIndexes creates the lookup indexes used by the repositories.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	byRep := []mongo.IndexModel{
		{Keys: bson.D{{Key: "representative", Value: 1}, {Key: "seq", Value: 1}}},
		{Keys: bson.D{{Key: "seq", Value: 1}}},
	}
	for _, name := range []string{colPlans, colReports, colHospitals} {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, byRep); err != nil {
			return fmt.Errorf("create indexes %s: %w", name, err)
		}
	}
	if _, err := db.Collection(colReports).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "reportDate", Value: 1}},
	}); err != nil {
		return fmt.Errorf("create indexes %s: %w", colReports, err)
	}
	if _, err := db.Collection(colSessions).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userCode", Value: 1}, {Key: "seq", Value: 1}},
	}); err != nil {
		return fmt.Errorf("create indexes %s: %w", colSessions, err)
	}
	return nil
}

// sequencer hands out per-collection insertion numbers from the counters collection.
type sequencer struct {
	col *mongo.Collection
}

func (s *sequencer) next(ctx context.Context, name string) (int64, error) {
	var doc struct {
		Seq int64 `bson:"seq"`
	}
	err := s.col.FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("next seq %s: %w", name, err)
	}
	return doc.Seq, nil
}

type SessionRepository struct {
	col *mongo.Collection
	seq *sequencer
}

func (r *SessionRepository) Create(ctx context.Context, session models.Session) error {
	n, err := r.seq.next(ctx, colSessions)
	if err != nil {
		return err
	}
	session.Seq = n
	_, err = r.col.InsertOne(ctx, session)
	return err
}

func (r *SessionRepository) GetByID(ctx context.Context, id string) (models.Session, error) {
	var session models.Session
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&session); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Session{}, repository.ErrSessionNotFound
		}
		return models.Session{}, err
	}
	return session, nil
}

func (r *SessionRepository) FirstActive(ctx context.Context, userCode string) (models.Session, error) {
	var session models.Session
	err := r.col.FindOne(ctx,
		bson.M{"userCode": userCode, "isActive": true},
		options.FindOne().SetSort(ascBySeq),
	).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Session{}, repository.ErrSessionNotFound
		}
		return models.Session{}, err
	}
	return session, nil
}

func (r *SessionRepository) Deactivate(ctx context.Context, id string) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"isActive": false}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrSessionNotFound
	}
	return nil
}

type PlanRepository struct {
	col *mongo.Collection
	seq *sequencer
}

func (r *PlanRepository) Create(ctx context.Context, plan models.WeeklyPlan) error {
	n, err := r.seq.next(ctx, colPlans)
	if err != nil {
		return err
	}
	plan.Seq = n
	_, err = r.col.InsertOne(ctx, plan)
	return err
}

func (r *PlanRepository) List(ctx context.Context) ([]models.WeeklyPlan, error) {
	return findAll[models.WeeklyPlan](ctx, r.col, bson.M{}, options.Find().SetSort(ascBySeq))
}

func (r *PlanRepository) ListByRepresentative(ctx context.Context, code string) ([]models.WeeklyPlan, error) {
	return findAll[models.WeeklyPlan](ctx, r.col, bson.M{"representative": code}, options.Find().SetSort(ascBySeq))
}

func (r *PlanRepository) Recent(ctx context.Context, limit int) ([]models.WeeklyPlan, error) {
	return findAll[models.WeeklyPlan](ctx, r.col, bson.M{}, options.Find().SetSort(descBySeq).SetLimit(int64(limit)))
}

type ReportRepository struct {
	col *mongo.Collection
	seq *sequencer
}

func (r *ReportRepository) Create(ctx context.Context, report models.DailyReport) error {
	n, err := r.seq.next(ctx, colReports)
	if err != nil {
		return err
	}
	report.Seq = n
	if report.Visits == nil {
		report.Visits = []models.ReportVisit{}
	}
	_, err = r.col.InsertOne(ctx, report)
	return err
}

func (r *ReportRepository) List(ctx context.Context) ([]models.DailyReport, error) {
	return findAll[models.DailyReport](ctx, r.col, bson.M{}, options.Find().SetSort(ascBySeq))
}

func (r *ReportRepository) ListByRepresentative(ctx context.Context, code string) ([]models.DailyReport, error) {
	return findAll[models.DailyReport](ctx, r.col, bson.M{"representative": code}, options.Find().SetSort(ascBySeq))
}

func (r *ReportRepository) Recent(ctx context.Context, limit int) ([]models.DailyReport, error) {
	return findAll[models.DailyReport](ctx, r.col, bson.M{}, options.Find().SetSort(descBySeq).SetLimit(int64(limit)))
}

type HospitalRepository struct {
	col *mongo.Collection
	seq *sequencer
}

func (r *HospitalRepository) Create(ctx context.Context, hospital models.Hospital) error {
	n, err := r.seq.next(ctx, colHospitals)
	if err != nil {
		return err
	}
	hospital.Seq = n
	if hospital.Visits == nil {
		hospital.Visits = []models.HospitalVisit{}
	}
	_, err = r.col.InsertOne(ctx, hospital)
	return err
}

func (r *HospitalRepository) GetByID(ctx context.Context, id string) (models.Hospital, error) {
	var hospital models.Hospital
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&hospital); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Hospital{}, repository.ErrHospitalNotFound
		}
		return models.Hospital{}, err
	}
	return hospital, nil
}

func (r *HospitalRepository) List(ctx context.Context) ([]models.Hospital, error) {
	return findAll[models.Hospital](ctx, r.col, bson.M{}, options.Find().SetSort(ascBySeq))
}

func (r *HospitalRepository) ListByRepresentative(ctx context.Context, code string) ([]models.Hospital, error) {
	return findAll[models.Hospital](ctx, r.col, bson.M{"representative": code}, options.Find().SetSort(ascBySeq))
}

func (r *HospitalRepository) AppendVisit(ctx context.Context, id string, visit models.HospitalVisit) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$push": bson.M{"visits": visit}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrHospitalNotFound
	}
	return nil
}

func (r *HospitalRepository) SetProductStatus(ctx context.Context, id string, product string, status models.ProductStatus) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, productUpdate(product, status))
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrHospitalNotFound
	}
	return nil
}

// productUpdate sets one products entry. Keys that cannot be written as a
// dotted field path go through a $setField pipeline (MongoDB 5.0+).
func productUpdate(product string, status models.ProductStatus) any {
	if product != "" && !strings.Contains(product, ".") && !strings.HasPrefix(product, "$") {
		return bson.M{"$set": bson.M{"products." + product: status}}
	}
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"products": bson.M{"$setField": bson.M{
				"field": bson.M{"$literal": product},
				"input": "$products",
				"value": bson.M{"$literal": string(status)},
			}},
		}}},
	}
}

func findAll[T any](ctx context.Context, col *mongo.Collection, filter bson.M, opts *options.FindOptions) ([]T, error) {
	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	out := []T{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
