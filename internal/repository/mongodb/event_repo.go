package mongodb

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"eventplanner/internal/domain"
)

type responseDocument struct {
	Email  string `bson:"email"`
	Status string `bson:"status"`
}

type eventDocument struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Title          string             `bson:"title"`
	Date           string             `bson:"date"`
	Time           string             `bson:"time"`
	Location       string             `bson:"location"`
	Description    string             `bson:"description"`
	OrganizerEmail string             `bson:"organizer_email"`
	Attendees      []string           `bson:"attendees"`
	Responses      []responseDocument `bson:"responses"`
	CreatedAt      time.Time          `bson:"created_at"`
}

func (d *eventDocument) toDomain() *domain.Event {
	e := &domain.Event{
		ID:             d.ID.Hex(),
		Title:          d.Title,
		Date:           d.Date,
		Time:           d.Time,
		Location:       d.Location,
		Description:    d.Description,
		OrganizerEmail: d.OrganizerEmail,
		Attendees:      d.Attendees,
		Responses:      make([]domain.Response, 0, len(d.Responses)),
		CreatedAt:      d.CreatedAt,
	}
	if e.Attendees == nil {
		e.Attendees = []string{}
	}
	for _, r := range d.Responses {
		e.Responses = append(e.Responses, domain.Response{Email: r.Email, Status: domain.RSVPStatus(r.Status)})
	}
	return e
}

type eventRepository struct {
	coll *mongo.Collection
}

func NewEventRepository(db *mongo.Database) domain.EventRepository {
	return &eventRepository{coll: db.Collection(EventsCollection)}
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.ErrInvalidID
	}
	return oid, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	doc := eventDocument{
		ID:             primitive.NewObjectID(),
		Title:          e.Title,
		Date:           e.Date,
		Time:           e.Time,
		Location:       e.Location,
		Description:    e.Description,
		OrganizerEmail: e.OrganizerEmail,
		Attendees:      []string{},
		Responses:      []responseDocument{},
		CreatedAt:      e.CreatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return err
	}
	e.ID = doc.ID.Hex()
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var doc eventDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *eventRepository) ListByOrganizer(ctx context.Context, email string) ([]*domain.Event, error) {
	return r.find(ctx, bson.M{"organizer_email": email})
}

func (r *eventRepository) ListByAttendee(ctx context.Context, email string) ([]*domain.Event, error) {
	return r.find(ctx, bson.M{"attendees": email})
}

func (r *eventRepository) ListAll(ctx context.Context) ([]*domain.Event, error) {
	return r.find(ctx, bson.M{})
}

// Search matches the keyword literally and case-insensitively against title or description.
func (r *eventRepository) Search(ctx context.Context, q domain.EventQuery) ([]*domain.Event, error) {
	return r.find(ctx, searchFilter(q))
}

func searchFilter(q domain.EventQuery) bson.M {
	filter := bson.M{}
	if q.Keyword != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(q.Keyword), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
		}
	}
	if q.Date != "" {
		filter["date"] = q.Date
	}
	return filter
}

func (r *eventRepository) AddAttendee(ctx context.Context, id, email string) error {
	return r.updateOne(ctx, id, bson.M{"$addToSet": bson.M{"attendees": email}})
}

func (r *eventRepository) RemoveResponse(ctx context.Context, id, email string) error {
	return r.updateOne(ctx, id, bson.M{"$pull": bson.M{"responses": bson.M{"email": email}}})
}

func (r *eventRepository) AppendResponse(ctx context.Context, id string, resp domain.Response) error {
	doc := responseDocument{Email: resp.Email, Status: string(resp.Status)}
	return r.updateOne(ctx, id, bson.M{"$push": bson.M{"responses": doc}})
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) updateOne(ctx context.Context, id string, update bson.M) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) find(ctx context.Context, filter bson.M) ([]*domain.Event, error) {
	cur, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	var docs []eventDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	events := make([]*domain.Event, 0, len(docs))
	for i := range docs {
		events = append(events, docs[i].toDomain())
	}
	return events, nil
}
