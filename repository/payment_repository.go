package repository

import (
	"context"
	"time"

	"github.com/Shakilofficial/nextmart-server/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	FindByTransactionID(ctx context.Context, tranID string) (*models.Payment, error)
	UpdateByTransactionID(ctx context.Context, tranID, status string, gatewayResponse bson.M) (*models.Payment, error)
}

type mongoPaymentRepo struct {
	collection *mongo.Collection
}

func NewPaymentRepository(db *mongo.Database) PaymentRepository {
	return &mongoPaymentRepo{collection: db.Collection("payments")}
}

func (r *mongoPaymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	now := time.Now().UTC()
	payment.CreatedAt = now
	payment.UpdatedAt = now
	res, err := r.collection.InsertOne(ctx, payment)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		payment.ID = oid
	}
	return nil
}

func (r *mongoPaymentRepo) FindByTransactionID(ctx context.Context, tranID string) (*models.Payment, error) {
	var payment models.Payment
	err := r.collection.FindOne(ctx, bson.M{"transactionId": tranID}).Decode(&payment)
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// UpdateByTransactionID sets the payment status and the raw gateway payload
// and returns the updated document.
func (r *mongoPaymentRepo) UpdateByTransactionID(ctx context.Context, tranID, status string, gatewayResponse bson.M) (*models.Payment, error) {
	update := bson.M{"$set": bson.M{
		"status":          status,
		"gatewayResponse": gatewayResponse,
		"updatedAt":       time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var payment models.Payment
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"transactionId": tranID}, update, opts).Decode(&payment)
	if err != nil {
		return nil, err
	}
	return &payment, nil
}
