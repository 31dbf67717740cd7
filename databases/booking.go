package databases

//go generate: mockery --name BookingDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ceylonexplorer/rental-api/models"
)

const bookingCollectionName = "bookings"

// BookingDatabase contains the methods to use with the bookings collection
type BookingDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.Booking, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Booking, error)
	InsertOne(ctx context.Context, booking models.Booking, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
}

type bookingDatabase struct {
	db DatabaseHelper
}

// NewBookingDatabase initializes a new instance of booking database with the provided db connection
func NewBookingDatabase(db DatabaseHelper) BookingDatabase {
	return &bookingDatabase{
		db: db,
	}
}

func (c *bookingDatabase) FindOne(ctx context.Context, filter interface{}) (*models.Booking, error) {
	booking := &models.Booking{}
	err := c.db.Collection(bookingCollectionName).FindOne(ctx, filter).Decode(&booking)
	if err != nil {
		return nil, err
	}
	return booking, nil
}

func (c *bookingDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Booking, error) {
	var bookings []models.Booking
	err := c.db.Collection(bookingCollectionName).Find(ctx, filter, opts...).Decode(&bookings)
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (c *bookingDatabase) InsertOne(ctx context.Context, booking models.Booking, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return c.db.Collection(bookingCollectionName).InsertOne(ctx, booking, opts...)
}

func (c *bookingDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return c.db.Collection(bookingCollectionName).UpdateOne(ctx, filter, update, opts...)
}

func (c *bookingDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return c.db.Collection(bookingCollectionName).CountDocuments(ctx, filter, opts...)
}
