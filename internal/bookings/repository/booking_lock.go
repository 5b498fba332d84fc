package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "hostelhub/internal/bookings/errors"
	"hostelhub/pkg/config"
)

const (
	LockCollectionName = "BookingLocks"
)

// bookingLock is an advisory lock document. The _id encodes the room and the
// requested stay window, so two requests racing for the same room and dates
// collide on the unique _id index. A TTL index on expires_at reaps locks that
// were never released, e.g. after a crash mid-booking.
type bookingLock struct {
	ID        string    `bson:"_id"`
	RoomID    string    `bson:"room_id"`
	ExpiresAt time.Time `bson:"expires_at"`
}

type BookingLockRepository interface {
	Acquire(ctx context.Context, roomID string, checkIn, checkOut time.Time) (release func(), err error)
}

type mongoBookingLockRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoBookingLockRepository(cfg *config.Config) BookingLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingLockRepository{
		cfg:        cfg,
		collection: db.Collection(LockCollectionName),
	}
}

func lockID(roomID string, checkIn, checkOut time.Time) string {
	return fmt.Sprintf("%s:%s:%s",
		roomID,
		checkIn.UTC().Format("2006-01-02"),
		checkOut.UTC().Format("2006-01-02"),
	)
}

// Acquire inserts the lock document, failing fast with ErrRoomLocked when a
// concurrent request holds it. The returned release func is safe to call even
// when the booking attempt fails; the TTL index is the fallback.
func (r *mongoBookingLockRepository) Acquire(ctx context.Context, roomID string, checkIn, checkOut time.Time) (func(), error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	lock := bookingLock{
		ID:        lockID(roomID, checkIn, checkOut),
		RoomID:    roomID,
		ExpiresAt: time.Now().UTC().Add(r.cfg.BookingLockTTL),
	}

	if _, err := r.collection.InsertOne(ctx, lock); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, bookingserrors.ErrRoomLocked
		}
		return nil, fmt.Errorf("failed to acquire booking lock: %w", err)
	}

	release := func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.cfg.WriteTimeout)
		defer cancel()

		if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": lock.ID}); err != nil {
			r.cfg.Log.Warn("Failed to release booking lock; TTL index will reap it",
				"lock_id", lock.ID,
				"error", err,
			)
		}
	}

	return release, nil
}
