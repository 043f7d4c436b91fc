package mongo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stayseek/venue-bookings/internal/observability"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CatalogRepository struct {
	coll   *mongo.Collection
	logger observability.Logger
}

func NewCatalogRepository(db *mongo.Database, logger observability.Logger) *CatalogRepository {
	return &CatalogRepository{
		coll:   db.Collection("venues"),
		logger: logger,
	}
}

type VenueDoc struct {
	ID          uuid.UUID   `bson:"_id" json:"id"`
	Name        string      `bson:"name" json:"name"`
	Description string      `bson:"description" json:"description"`
	Price       float64     `bson:"price" json:"price"`
	MaxGuests   int         `bson:"max_guests" json:"max_guests"`
	Rating      float64     `bson:"rating" json:"rating"`
	Owner       string      `bson:"owner" json:"owner"`
	Media       []MediaDoc  `bson:"media" json:"media"`
	Location    LocationDoc `bson:"location" json:"location"`
	Meta        MetaDoc     `bson:"meta" json:"meta"`
	CreatedAt   time.Time   `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time   `bson:"updated_at" json:"updated_at"`
}

type MediaDoc struct {
	URL string `bson:"url" json:"url"`
	Alt string `bson:"alt" json:"alt"`
}

type LocationDoc struct {
	Address string  `bson:"address" json:"address"`
	City    string  `bson:"city" json:"city"`
	Country string  `bson:"country" json:"country"`
	Lat     float64 `bson:"lat" json:"lat"`
	Lng     float64 `bson:"lng" json:"lng"`
}

// MetaDoc lists venue amenities.
type MetaDoc struct {
	Wifi      bool `bson:"wifi" json:"wifi"`
	Parking   bool `bson:"parking" json:"parking"`
	Breakfast bool `bson:"breakfast" json:"breakfast"`
	Pets      bool `bson:"pets" json:"pets"`
}

// ListParams mirrors the catalog's query surface: optional free-text search,
// sort field with direction, and limit/page pagination.
type ListParams struct {
	Query     string
	SortBy    string
	SortOrder string
	Limit     int64
	Page      int64
}

func (p ListParams) normalize() ListParams {
	if p.SortBy == "" {
		p.SortBy = "created_at"
	}
	if p.Limit <= 0 || p.Limit > 100 {
		p.Limit = 50
	}
	if p.Page < 1 {
		p.Page = 1
	}
	return p
}

var sortFields = map[string]string{
	"created": "created_at",
	"name":    "name",
	"price":   "price",
	"rating":  "rating",
}

func (c *CatalogRepository) ListVenues(ctx context.Context, params ListParams) ([]VenueDoc, error) {
	params = params.normalize()

	filter := bson.M{}
	if params.Query != "" {
		rx := primitive.Regex{Pattern: params.Query, Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": rx},
			bson.M{"description": rx},
		}
	}

	field, ok := sortFields[params.SortBy]
	if !ok {
		field = params.SortBy
	}
	dir := -1
	if params.SortOrder == "asc" {
		dir = 1
	}

	opts := options.Find().
		SetSort(bson.D{{Key: field, Value: dir}}).
		SetLimit(params.Limit).
		SetSkip((params.Page - 1) * params.Limit)

	cur, err := c.coll.Find(ctx, filter, opts)
	if err != nil {
		c.logger.WithError(err).Error("failed to list venues")
		return nil, err
	}
	defer cur.Close(ctx)

	var venues []VenueDoc
	if err := cur.All(ctx, &venues); err != nil {
		return nil, err
	}
	return venues, nil
}

func (c *CatalogRepository) GetVenue(ctx context.Context, id uuid.UUID) (*VenueDoc, error) {
	var venue VenueDoc
	err := c.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&venue)
	if err != nil {
		c.logger.WithError(err).Error("failed to get venue")
		return nil, err
	}
	return &venue, nil
}

func (c *CatalogRepository) CreateVenue(ctx context.Context, venue VenueDoc) error {
	venue.CreatedAt = time.Now()
	venue.UpdatedAt = time.Now()
	_, err := c.coll.InsertOne(ctx, venue)
	if err != nil {
		c.logger.WithError(err).Error("failed to create venue")
		return err
	}
	return nil
}

func (c *CatalogRepository) UpdateVenue(ctx context.Context, venue VenueDoc) error {
	venue.UpdatedAt = time.Now()
	_, err := c.coll.ReplaceOne(ctx, bson.M{"_id": venue.ID}, venue)
	if err != nil {
		c.logger.WithError(err).Error("failed to update venue")
		return err
	}
	return nil
}

func (c *CatalogRepository) DeleteVenue(ctx context.Context, id uuid.UUID) error {
	_, err := c.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		c.logger.WithError(err).Error("failed to delete venue")
		return err
	}
	return nil
}
