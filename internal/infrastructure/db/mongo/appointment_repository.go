package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/medivault/clinical-portal/internal/core/domain"
)

const appointmentsCollection = "appointments"

// MongoAppointmentRepository implements ports.AppointmentRepository.
// Appointment IDs are service-generated UUIDs stored as the document _id;
// details holds ciphertext, date and status are plain.
type MongoAppointmentRepository struct {
	coll *mongo.Collection
}

func NewAppointmentRepository(db *mongo.Database) *MongoAppointmentRepository {
	return &MongoAppointmentRepository{coll: db.Collection(appointmentsCollection)}
}

type mongoAppointment struct {
	ID        string `bson:"_id"`
	PatientID string `bson:"patient_id"`
	MedicID   string `bson:"medic_id"`
	Date      string `bson:"date"`
	Status    string `bson:"status"`
	Details   string `bson:"details,omitempty"`
	CreatedAt int64  `bson:"created_at"`
	UpdatedAt int64  `bson:"updated_at"`
}

func (r *MongoAppointmentRepository) FindByID(ctx context.Context, id string) (*domain.Appointment, error) {
	var ma mongoAppointment
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&ma); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("find appointment: %w", err)
	}
	return ma.toDomain(), nil
}

func (r *MongoAppointmentRepository) ByPatient(ctx context.Context, patientID string) ([]*domain.Appointment, error) {
	return r.find(ctx, bson.M{"patient_id": patientID})
}

func (r *MongoAppointmentRepository) ByMedic(ctx context.Context, medicID string, status domain.AppointmentStatus) ([]*domain.Appointment, error) {
	filter := bson.M{"medic_id": medicID}
	if status != "" {
		filter["status"] = string(status)
	}
	return r.find(ctx, filter)
}

func (r *MongoAppointmentRepository) All(ctx context.Context) ([]*domain.Appointment, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoAppointmentRepository) Create(ctx context.Context, appt *domain.Appointment) error {
	if _, err := r.coll.InsertOne(ctx, fromDomain(appt)); err != nil {
		return fmt.Errorf("insert appointment: %w", err)
	}
	return nil
}

func (r *MongoAppointmentRepository) Update(ctx context.Context, appt *domain.Appointment) error {
	update := bson.M{"$set": bson.M{
		"status":     string(appt.Status),
		"details":    appt.Details,
		"date":       appt.Date,
		"updated_at": appt.UpdatedAt.Unix(),
	}}
	res, err := r.coll.UpdateByID(ctx, appt.ID, update)
	if err != nil {
		return fmt.Errorf("update appointment: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAppointmentNotFound
	}
	return nil
}

func (r *MongoAppointmentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrAppointmentNotFound
	}
	return nil
}

// CountByMonth groups appointments by the "YYYY-MM" prefix of their date.
func (r *MongoAppointmentRepository) CountByMonth(ctx context.Context) (map[string]int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"$substrBytes": bson.A{"$date", 0, 7}},
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate appointments: %w", err)
	}
	defer cursor.Close(ctx)

	report := make(map[string]int)
	for cursor.Next(ctx) {
		var row struct {
			Month string `bson:"_id"`
			Count int    `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode report row: %w", err)
		}
		report[row.Month] = row.Count
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("aggregate appointments: %w", err)
	}
	return report, nil
}

func (r *MongoAppointmentRepository) find(ctx context.Context, filter bson.M) ([]*domain.Appointment, error) {
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer cursor.Close(ctx)

	var appts []*domain.Appointment
	for cursor.Next(ctx) {
		var ma mongoAppointment
		if err := cursor.Decode(&ma); err != nil {
			return nil, fmt.Errorf("decode appointment: %w", err)
		}
		appts = append(appts, ma.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return appts, nil
}

func fromDomain(a *domain.Appointment) mongoAppointment {
	return mongoAppointment{
		ID:        a.ID,
		PatientID: a.PatientID,
		MedicID:   a.MedicID,
		Date:      a.Date,
		Status:    string(a.Status),
		Details:   a.Details,
		CreatedAt: a.CreatedAt.Unix(),
		UpdatedAt: a.UpdatedAt.Unix(),
	}
}

func (ma *mongoAppointment) toDomain() *domain.Appointment {
	return &domain.Appointment{
		ID:        ma.ID,
		PatientID: ma.PatientID,
		MedicID:   ma.MedicID,
		Date:      ma.Date,
		Status:    domain.AppointmentStatus(ma.Status),
		Details:   ma.Details,
		CreatedAt: unixToTime(ma.CreatedAt),
		UpdatedAt: unixToTime(ma.UpdatedAt),
	}
}
