package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Shakilofficial/nextmart-server/database"
	"github.com/Shakilofficial/nextmart-server/gateway"
	"github.com/Shakilofficial/nextmart-server/models"
	"github.com/Shakilofficial/nextmart-server/notification"
	"github.com/Shakilofficial/nextmart-server/repository"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Outcome is the result of a reconciliation attempt. A declined payment is a
// business outcome, not a fault: callers can tell "the customer's card was
// declined" apart from "our update broke".
type Outcome int

const (
	OutcomeUnknown Outcome = iota
	OutcomePaid
	OutcomeDeclined
)

func (o Outcome) String() string {
	switch o {
	case OutcomePaid:
		return "Paid"
	case OutcomeDeclined:
		return "Declined"
	default:
		return "Unknown"
	}
}

var (
	ErrPaymentNotFound = errors.New("payment not found")
	ErrOrderNotFound   = errors.New("order not found")

	// errDeclined aborts the update transaction when the gateway reports a
	// non-success status.
	errDeclined = errors.New("payment declined by gateway")
)

// GatewayClient is the slice of the payment gateway the reconciliation flow
// depends on.
type GatewayClient interface {
	InitiateSession(ctx context.Context, totalAmount float64, tranID string) (string, error)
	QueryTransaction(ctx context.Context, tranID string) (gateway.Transaction, error)
}

// InvoiceRenderer produces the PDF attached to the confirmation email.
type InvoiceRenderer interface {
	Render(ctx context.Context, detail models.OrderDetail) ([]byte, error)
}

type ReconciliationService interface {
	InitiatePayment(ctx context.Context, orderID string) (string, error)
	Reconcile(ctx context.Context, tranID string) (Outcome, error)
}

type reconciliationService struct {
	gateway   GatewayClient
	payments  repository.PaymentRepository
	orders    repository.OrderRepository
	users     repository.UserRepository
	products  repository.ProductRepository
	txn       database.TxnRunner
	guard     repository.NotificationGuard
	renderer  InvoiceRenderer
	mailer    notification.EmailSender
	publisher EventPublisher
	logger    *zap.Logger
}

func NewReconciliationService(
	gw GatewayClient,
	payments repository.PaymentRepository,
	orders repository.OrderRepository,
	users repository.UserRepository,
	products repository.ProductRepository,
	txn database.TxnRunner,
	guard repository.NotificationGuard,
	renderer InvoiceRenderer,
	mailer notification.EmailSender,
	publisher EventPublisher,
	logger *zap.Logger,
) ReconciliationService {
	return &reconciliationService{
		gateway:   gw,
		payments:  payments,
		orders:    orders,
		users:     users,
		products:  products,
		txn:       txn,
		guard:     guard,
		renderer:  renderer,
		mailer:    mailer,
		publisher: publisher,
		logger:    logger,
	}
}

// InitiatePayment records a pending payment attempt for the order and opens
// a gateway session, returning the hosted checkout URL.
func (s *reconciliationService) InitiatePayment(ctx context.Context, orderID string) (string, error) {
	oid, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return "", fmt.Errorf("invalid order id %q: %w", orderID, err)
	}

	order, err := s.orders.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", ErrOrderNotFound
		}
		return "", fmt.Errorf("load order: %w", err)
	}

	tranID := uuid.NewString()
	payment := &models.Payment{
		OrderID:       order.ID,
		TransactionID: tranID,
		Amount:        order.FinalAmount,
		Status:        models.PaymentStatusPending,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return "", fmt.Errorf("create payment record: %w", err)
	}

	gatewayURL, err := s.gateway.InitiateSession(ctx, order.FinalAmount, tranID)
	if err != nil {
		return "", err
	}

	s.logger.Info("Payment session initiated",
		zap.String("order_id", order.ID.Hex()),
		zap.String("transaction_id", tranID),
	)
	return gatewayURL, nil
}

// Reconcile verifies a transaction against the gateway and moves the payment
// and its order to the verified state atomically. The invoice email and the
// payment event are sent after commit, best-effort: their failure never
// affects the committed financial state.
func (s *reconciliationService) Reconcile(ctx context.Context, tranID string) (Outcome, error) {
	tx, err := s.gateway.QueryTransaction(ctx, tranID)
	if err != nil {
		return OutcomeUnknown, fmt.Errorf("gateway verification: %w", err)
	}
	if tx.TranID == "" {
		return OutcomeUnknown, fmt.Errorf("gateway response for %s is missing tran_id", tranID)
	}

	status := models.PaymentStatusFailed
	if tx.Status == "VALID" || tx.Status == "VALIDATED" {
		status = models.PaymentStatusPaid
	}

	var updatedOrder models.Order
	err = s.txn.WithTransaction(ctx, func(ctx context.Context) error {
		payment, err := s.payments.UpdateByTransactionID(ctx, tx.TranID, status, bson.M(tx.Raw))
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return ErrPaymentNotFound
			}
			return fmt.Errorf("update payment: %w", err)
		}

		order, err := s.orders.UpdatePaymentStatus(ctx, payment.OrderID, status)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("update order: %w", err)
		}

		if status == models.PaymentStatusFailed {
			return errDeclined
		}

		updatedOrder = *order
		return nil
	})
	if errors.Is(err, errDeclined) {
		s.logger.Info("Payment declined by gateway",
			zap.String("transaction_id", tranID),
			zap.String("gateway_status", tx.Status),
		)
		return OutcomeDeclined, nil
	}
	if err != nil {
		return OutcomeUnknown, fmt.Errorf("reconciliation transaction: %w", err)
	}

	s.notify(ctx, tranID, updatedOrder)
	return OutcomePaid, nil
}

// notify runs the post-commit side effects: invoice email and payment event.
// Deduplicated by transaction id so a replayed gateway callback does not
// re-send the invoice. Failures are logged and swallowed.
func (s *reconciliationService) notify(ctx context.Context, tranID string, order models.Order) {
	first, err := s.guard.MarkNotified(ctx, tranID)
	if err != nil {
		// Fail open: a broken guard store must not block the invoice.
		s.logger.Warn("Notification guard unavailable, proceeding without dedup",
			zap.String("transaction_id", tranID),
			zap.Error(err),
		)
	} else if !first {
		s.logger.Info("Skipping duplicate notification",
			zap.String("transaction_id", tranID),
			zap.String("order_id", order.ID.Hex()),
		)
		return
	}

	detail, err := s.loadOrderDetail(ctx, order)
	if err != nil {
		s.logger.Error("Failed to assemble order details for invoice",
			zap.String("order_id", order.ID.Hex()),
			zap.Error(err),
		)
		return
	}

	pdfBytes, err := s.renderer.Render(ctx, *detail)
	if err != nil {
		s.logger.Error("Invoice rendering failed",
			zap.String("order_id", order.ID.Hex()),
			zap.Error(err),
		)
		return
	}

	body, err := notification.OrderInvoiceBody(detail.User.Name)
	if err != nil {
		s.logger.Error("Invoice email template failed", zap.Error(err))
		return
	}

	attachment := &notification.Attachment{
		Filename:    fmt.Sprintf("Invoice_%s.pdf", order.ID.Hex()),
		ContentType: "application/pdf",
		Content:     pdfBytes,
	}
	if err := s.mailer.Send(ctx, detail.User.Email, notification.OrderInvoiceSubject, body, attachment); err != nil {
		s.logger.Error("Invoice email sending failed",
			zap.String("order_id", order.ID.Hex()),
			zap.String("to", detail.User.Email),
			zap.Error(err),
		)
	}

	s.publishPaymentEvent(ctx, tranID, order)
}

// loadOrderDetail populates the order snapshot with its user and product
// details, validating the fields the invoice and email require.
func (s *reconciliationService) loadOrderDetail(ctx context.Context, order models.Order) (*models.OrderDetail, error) {
	user, err := s.users.FindByID(ctx, order.UserID)
	if err != nil {
		return nil, fmt.Errorf("load user %s: %w", order.UserID.Hex(), err)
	}
	if user.Email == "" {
		return nil, fmt.Errorf("user %s has no email address", order.UserID.Hex())
	}

	ids := make([]primitive.ObjectID, 0, len(order.Products))
	for _, item := range order.Products {
		ids = append(ids, item.ProductID)
	}
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}

	items := make([]models.InvoiceItem, 0, len(order.Products))
	for _, item := range order.Products {
		product, ok := products[item.ProductID]
		if !ok {
			return nil, fmt.Errorf("product %s referenced by order %s not found", item.ProductID.Hex(), order.ID.Hex())
		}
		items = append(items, models.InvoiceItem{
			ProductName: product.Name,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}

	return &models.OrderDetail{
		Order: order,
		User:  *user,
		Items: items,
	}, nil
}

func (s *reconciliationService) publishPaymentEvent(ctx context.Context, tranID string, order models.Order) {
	event := models.PaymentEvent{
		Type:          models.EventPaymentSucceeded,
		OrderID:       order.ID.Hex(),
		TransactionID: tranID,
		Amount:        order.FinalAmount,
		Currency:      "BDT",
		Timestamp:     time.Now().UTC(),
	}
	payload, _ := json.Marshal(event)
	if err := s.publisher.Publish(ctx, payload); err != nil {
		s.logger.Error("Failed to publish payment event",
			zap.String("order_id", event.OrderID),
			zap.Error(err),
		)
		return
	}
	s.logger.Info("Payment event published",
		zap.String("order_id", event.OrderID),
		zap.String("transaction_id", tranID),
	)
}
