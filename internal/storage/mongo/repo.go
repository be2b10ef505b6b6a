package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"travel_hotels/internal/domain"
)

const hotelsCollection = "hotels"

type HotelRepository struct {
	col *mongo.Collection
}

func NewHotelRepository(db *mongo.Database) *HotelRepository {
	return &HotelRepository{col: db.Collection(hotelsCollection)}
}

// EnsureIndexes creates the lookup indexes used by FindHotels.
func (r *HotelRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "city", Value: 1}}},
		{Keys: bson.D{{Key: "pricePerNight", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}},
	})
	return err
}

func (r *HotelRepository) CreateHotel(ctx context.Context, h domain.Hotel) error {
	_, err := r.col.InsertOne(ctx, newHotelDocument(h))
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("mongo: hotel %s already exists", h.ID)
	}
	return err
}

// AppendReservation pushes the interval only when no stored interval
// overlaps it. The guard and the push are one single-document update, which
// MongoDB applies atomically, so concurrent writers serialize on the server.
func (r *HotelRepository) AppendReservation(ctx context.Context, hotelID string, res domain.Reservation) (domain.Hotel, error) {
	filter := bson.M{
		"_id": hotelID,
		"reservations": bson.M{"$not": bson.M{"$elemMatch": bson.M{
			"checkIn":  bson.M{"$lt": res.CheckOut.UTC()},
			"checkOut": bson.M{"$gt": res.CheckIn.UTC()},
		}}},
	}
	update := bson.M{
		"$push": bson.M{"reservations": newReservationDocument(res)},
		"$inc":  bson.M{"version": 1},
	}
	h, err := r.findOneAndUpdate(ctx, filter, update)
	if errors.Is(err, mongo.ErrNoDocuments) {
		if err := r.exists(ctx, hotelID); err != nil {
			return domain.Hotel{}, err
		}
		return domain.Hotel{}, domain.ErrHotelUnavailable
	}
	return h, err
}

func (r *HotelRepository) AppendReview(ctx context.Context, hotelID string, rv domain.Review) (domain.Hotel, error) {
	update := bson.M{
		"$push": bson.M{"reviews": newReviewDocument(rv)},
		"$inc":  bson.M{"version": 1},
	}
	h, err := r.findOneAndUpdate(ctx, bson.M{"_id": hotelID}, update)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Hotel{}, domain.ErrHotelNotFound
	}
	return h, err
}

func (r *HotelRepository) GetHotel(ctx context.Context, id string) (domain.Hotel, error) {
	var doc hotelDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Hotel{}, domain.ErrHotelNotFound
		}
		return domain.Hotel{}, err
	}
	return doc.toDomain(), nil
}

func (r *HotelRepository) FindHotels(ctx context.Context, f domain.HotelFilter) ([]domain.Hotel, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.col.Find(ctx, buildFilter(f), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []domain.Hotel{}
	for cur.Next(ctx) {
		var doc hotelDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toDomain())
	}
	return out, cur.Err()
}

func (r *HotelRepository) findOneAndUpdate(ctx context.Context, filter, update bson.M) (domain.Hotel, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc hotelDocument
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		return domain.Hotel{}, err
	}
	return doc.toDomain(), nil
}

func (r *HotelRepository) exists(ctx context.Context, id string) error {
	n, err := r.col.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrHotelNotFound
	}
	return nil
}

// buildFilter mirrors domain.HotelFilter.Matches as a MongoDB query.
func buildFilter(f domain.HotelFilter) bson.M {
	filter := bson.M{}
	if f.Stars != nil {
		filter["stars"] = *f.Stars
	}
	for field, v := range map[string]string{"city": f.City, "country": f.Country, "name": f.Name} {
		if v != "" {
			filter[field] = primitive.Regex{Pattern: regexp.QuoteMeta(v), Options: "i"}
		}
	}
	price := bson.M{}
	if f.MinPrice != nil {
		price["$gte"] = *f.MinPrice
	}
	if f.MaxPrice != nil {
		price["$lte"] = *f.MaxPrice
	}
	if len(price) > 0 {
		filter["pricePerNight"] = price
	}
	return filter
}
