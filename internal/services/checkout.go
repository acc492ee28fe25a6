package services

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"event-checkout-backend/internal/models"
	"event-checkout-backend/internal/repositories"

	"go.uber.org/zap"
)

// CheckoutService turns a user's cart into durable transaction,
// reservation and ticket records. One call is one checkout attempt; the
// whole pipeline runs inside a single database transaction so a failure at
// any step leaves no partial state behind.
type CheckoutService struct {
	db              *sql.DB
	userRepo        UserRepository
	cartRepo        CartRepository
	eventRepo       EventRepository
	reservationRepo ReservationRepository
	payment         PaymentProcessor
	recorder        *TransactionRecorder
	issuer          *TicketIssuer
	events          *EventService
	logger          *zap.Logger
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	db *sql.DB,
	userRepo UserRepository,
	cartRepo CartRepository,
	eventRepo EventRepository,
	reservationRepo ReservationRepository,
	payment PaymentProcessor,
	recorder *TransactionRecorder,
	issuer *TicketIssuer,
	events *EventService,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		db:              db,
		userRepo:        userRepo,
		cartRepo:        cartRepo,
		eventRepo:       eventRepo,
		reservationRepo: reservationRepo,
		payment:         payment,
		recorder:        recorder,
		issuer:          issuer,
		events:          events,
		logger:          logger,
	}
}

// CheckoutResult is the outcome of one checkout attempt
type CheckoutResult struct {
	Transaction  *models.Transaction   `json:"transaction"`
	Reservations []*models.Reservation `json:"reservations"`
	Tickets      []*models.Ticket      `json:"tickets,omitempty"`
	Detail       string                `json:"detail"`
}

// eventDeduction aggregates all cart lines touching one event, so the
// event row is locked and written once per checkout regardless of how many
// lines reference it.
type eventDeduction struct {
	units   int
	revenue int
}

// ProcessUserReservation runs the checkout pipeline for (userID, cartID):
// load the cart snapshot, charge the simulated gateway, record the
// transaction, expand every cart line into per-unit reservations with
// booking-time event snapshots, and on approval deduct inventory, accrue
// revenue and issue tickets. The cart is reset whatever the payment
// outcome. An empty cart charges a zero total, which the gateway rejects.
func (s *CheckoutService) ProcessUserReservation(ctx context.Context, userID, cartID int) (*CheckoutResult, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	cart, err := s.cartRepo.GetByID(cartID)
	if err != nil {
		return nil, err
	}
	if cart.UserID != userID {
		return nil, models.ErrCartNotFound
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin checkout transaction: %w", err)
	}
	defer tx.Rollback()

	items, err := s.cartRepo.GetItems(tx, cartID)
	if err != nil {
		return nil, err
	}

	total := models.CartTotal(items)
	paymentResult := s.payment.Charge(total)

	txn, err := s.recorder.Record(tx, user, total, paymentResult)
	if err != nil {
		return nil, err
	}

	// Fail-fast duplicate guard before any row is written for the items.
	// The unique constraint on reservations closes the remaining window
	// between two concurrent checkouts of the same cart line.
	for _, item := range items {
		exists, err := s.reservationRepo.ExistsForCartItem(tx, item.ID, userID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, &models.DuplicateReservationError{CartItemID: item.ID, UserID: userID}
		}
	}

	status := models.StatusForPayment(paymentResult.Status)

	var reservations []*models.Reservation
	for _, item := range items {
		event, err := s.eventRepo.Get(tx, item.EventID)
		if err != nil {
			return nil, err
		}

		// One reservation per formula-unit: a DUO line with quantity 2
		// yields two rows, each standing for one DUO bundle, numbered by
		// unit index within the line.
		for unit := 0; unit < item.Quantity; unit++ {
			res, err := s.reservationRepo.Create(tx, &models.Reservation{
				UserID:        userID,
				CartItemID:    item.ID,
				TransactionID: txn.ID,
				Status:        status,
				UnitIndex:     unit,
			})
			if err != nil {
				return nil, err
			}

			// Snapshot the event at booking time so later edits never
			// retroactively change this reservation's record.
			_, err = s.reservationRepo.CreateDetails(tx, &models.ReservationDetails{
				ReservationID: res.ID,
				EventID:       event.ID,
				Title:         event.Title,
				Description:   event.Description,
				UnitPrice:     item.UnitPrice,
				PriceFormula:  item.PriceFormula,
			})
			if err != nil {
				return nil, err
			}

			reservations = append(reservations, res)
		}
	}

	var tickets []*models.Ticket
	var touchedEvents []int
	if txn.IsApproved() {
		touchedEvents, err = s.deductInventory(tx, items)
		if err != nil {
			return nil, err
		}

		for _, res := range reservations {
			ticket, err := s.issuer.Issue(tx, user, res)
			if err != nil {
				return nil, err
			}
			res.Status = models.ReservationTicketed
			res.TicketID = sql.NullInt64{Int64: int64(ticket.ID), Valid: true}
			tickets = append(tickets, ticket)
		}
	}

	// Cleanup runs for every payment outcome so the cart never retains
	// stale items after a checkout.
	if err := s.cartRepo.Reset(tx, userID, cartID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit checkout: %w", err)
	}

	if len(touchedEvents) > 0 {
		s.events.InvalidateEvents(ctx, touchedEvents...)
	}

	s.logger.Info("checkout processed",
		zap.Int("user_id", userID),
		zap.Int("cart_id", cartID),
		zap.Int("transaction_id", txn.ID),
		zap.String("payment_status", string(txn.StatusPayment)),
		zap.Int("reservations", len(reservations)),
		zap.Int("tickets", len(tickets)),
	)

	return &CheckoutResult{
		Transaction:  txn,
		Reservations: reservations,
		Tickets:      tickets,
		Detail:       paymentResult.Detail,
	}, nil
}

// deductInventory aggregates the cart lines per event and applies one
// atomic deduction per distinct event. Units are the line quantity times
// the formula factor; revenue is unit price times quantity. Events are
// locked in ascending id order so two checkouts touching the same pair of
// events cannot deadlock.
func (s *CheckoutService) deductInventory(q repositories.Querier, items []*models.CartItem) ([]int, error) {
	deductions := make(map[int]*eventDeduction)
	for _, item := range items {
		d, ok := deductions[item.EventID]
		if !ok {
			d = &eventDeduction{}
			deductions[item.EventID] = d
		}
		d.units += item.InventoryUnits()
		d.revenue += item.Subtotal()
	}

	eventIDs := make([]int, 0, len(deductions))
	for eventID := range deductions {
		eventIDs = append(eventIDs, eventID)
	}
	sort.Ints(eventIDs)

	for _, eventID := range eventIDs {
		d := deductions[eventID]
		if err := s.eventRepo.DeductInventory(q, eventID, d.units, d.revenue); err != nil {
			return nil, err
		}
	}

	return eventIDs, nil
}
