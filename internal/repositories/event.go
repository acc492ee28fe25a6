package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"event-checkout-backend/internal/models"
)

// EventRepository handles event data operations
type EventRepository struct {
	db *sql.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

const eventColumns = `id, title, description, base_price, quantity_available, quantity_sold, revenue_generated, starts_at, created_at, updated_at`

func scanEvent(row *sql.Row) (*models.Event, error) {
	event := &models.Event{}
	err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.BasePrice,
		&event.QuantityAvailable,
		&event.QuantitySold,
		&event.RevenueGenerated,
		&event.StartsAt,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return event, nil
}

// Create creates a new event
func (r *EventRepository) Create(req *models.EventCreateRequest) (*models.Event, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO events (title, description, base_price, quantity_available, quantity_sold, revenue_generated, starts_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 0, 0, $5, $6, $6)
		RETURNING ` + eventColumns

	event, err := scanEvent(r.db.QueryRow(
		query,
		req.Title,
		req.Description,
		req.BasePrice,
		req.QuantityAvailable,
		req.StartsAt,
		time.Now(),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	return event, nil
}

// GetByID retrieves an event by ID
func (r *EventRepository) GetByID(id int) (*models.Event, error) {
	return r.Get(r.db, id)
}

// Get retrieves an event through the caller's transaction, so a
// booking-time snapshot is read inside the same tx that later deducts.
func (r *EventRepository) Get(q Querier, id int) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	event, err := scanEvent(q.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	return event, nil
}

// List retrieves all events ordered by start date
func (r *EventRepository) List() ([]*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY starts_at`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		event := &models.Event{}
		err := rows.Scan(
			&event.ID,
			&event.Title,
			&event.Description,
			&event.BasePrice,
			&event.QuantityAvailable,
			&event.QuantitySold,
			&event.RevenueGenerated,
			&event.StartsAt,
			&event.CreatedAt,
			&event.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}

	return events, rows.Err()
}

// DeductInventory atomically moves units from available to sold and accrues
// revenue for one event. The row lock makes concurrent checkouts against the
// same event serialize on the availability check, so two of them cannot
// jointly oversell.
func (r *EventRepository) DeductInventory(q Querier, eventID, units, revenue int) error {
	var available int
	err := q.QueryRow(`
		SELECT quantity_available
		FROM events
		WHERE id = $1
		FOR UPDATE`, eventID).Scan(&available)

	if err != nil {
		if err == sql.ErrNoRows {
			return models.ErrEventNotFound
		}
		return fmt.Errorf("failed to check event availability: %w", err)
	}

	if units > available {
		return &models.InsufficientInventoryError{
			EventID:   eventID,
			Requested: units,
			Available: available,
		}
	}

	_, err = q.Exec(`
		UPDATE events
		SET quantity_available = quantity_available - $2,
		    quantity_sold = quantity_sold + $2,
		    revenue_generated = revenue_generated + $3,
		    updated_at = $4
		WHERE id = $1`, eventID, units, revenue, time.Now())

	if err != nil {
		return fmt.Errorf("failed to deduct inventory for event %d: %w", eventID, err)
	}

	return nil
}
