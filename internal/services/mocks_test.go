package services

import (
	"sync"

	"event-checkout-backend/internal/models"
	"event-checkout-backend/internal/repositories"
)

// In-memory repository fakes used across the service tests.

type mockUserRepository struct {
	users map[int]*models.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[int]*models.User)}
}

func (m *mockUserRepository) add(user *models.User) {
	m.users[user.ID] = user
}

func (m *mockUserRepository) Create(req *models.UserCreateRequest, passwordHash, accountKey string) (*models.User, error) {
	user := &models.User{
		ID:           len(m.users) + 1,
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: passwordHash,
		AccountKey:   accountKey,
	}
	m.users[user.ID] = user
	return user, nil
}

func (m *mockUserRepository) GetByID(id int) (*models.User, error) {
	if user, ok := m.users[id]; ok {
		return user, nil
	}
	return nil, models.ErrUserNotFound
}

func (m *mockUserRepository) GetByEmail(email string) (*models.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, models.ErrUserNotFound
}

type mockEventRepository struct {
	mu           sync.Mutex
	events       map[int]*models.Event
	snapshotVia  repositories.Querier
	deductionVia repositories.Querier
}

func newMockEventRepository() *mockEventRepository {
	return &mockEventRepository{events: make(map[int]*models.Event)}
}

func (m *mockEventRepository) add(event *models.Event) {
	m.events[event.ID] = event
}

func (m *mockEventRepository) Create(req *models.EventCreateRequest) (*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	event := &models.Event{
		ID:                len(m.events) + 1,
		Title:             req.Title,
		Description:       req.Description,
		BasePrice:         req.BasePrice,
		QuantityAvailable: req.QuantityAvailable,
		StartsAt:          req.StartsAt,
	}
	m.events[event.ID] = event
	return event, nil
}

func (m *mockEventRepository) GetByID(id int) (*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if event, ok := m.events[id]; ok {
		copied := *event
		return &copied, nil
	}
	return nil, models.ErrEventNotFound
}

func (m *mockEventRepository) Get(q repositories.Querier, id int) (*models.Event, error) {
	m.mu.Lock()
	m.snapshotVia = q
	m.mu.Unlock()
	return m.GetByID(id)
}

func (m *mockEventRepository) List() ([]*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var events []*models.Event
	for _, event := range m.events {
		copied := *event
		events = append(events, &copied)
	}
	return events, nil
}

// DeductInventory mirrors the row-locked read-modify-write: the mutex
// serializes the availability check and the counter update.
func (m *mockEventRepository) DeductInventory(q repositories.Querier, eventID, units, revenue int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deductionVia = q

	event, ok := m.events[eventID]
	if !ok {
		return models.ErrEventNotFound
	}

	if units > event.QuantityAvailable {
		return &models.InsufficientInventoryError{
			EventID:   eventID,
			Requested: units,
			Available: event.QuantityAvailable,
		}
	}

	event.QuantityAvailable -= units
	event.QuantitySold += units
	event.RevenueGenerated += revenue
	return nil
}

type mockCartRepository struct {
	mu     sync.Mutex
	carts  map[int]*models.Cart
	items  map[int]*models.CartItem
	nextID int
	resets int
}

func newMockCartRepository() *mockCartRepository {
	return &mockCartRepository{
		carts:  make(map[int]*models.Cart),
		items:  make(map[int]*models.CartItem),
		nextID: 1,
	}
}

func (m *mockCartRepository) addCart(cart *models.Cart) {
	m.carts[cart.ID] = cart
}

func (m *mockCartRepository) addItem(item *models.CartItem) {
	m.items[item.ID] = item
}

func (m *mockCartRepository) GetOrCreateByUser(userID int) (*models.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, cart := range m.carts {
		if cart.UserID == userID {
			return cart, nil
		}
	}
	cart := &models.Cart{ID: m.nextID, UserID: userID}
	m.nextID++
	m.carts[cart.ID] = cart
	return cart, nil
}

func (m *mockCartRepository) GetByID(id int) (*models.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cart, ok := m.carts[id]; ok {
		return cart, nil
	}
	return nil, models.ErrCartNotFound
}

func (m *mockCartRepository) AddItem(cartID, eventID int, formula models.PriceFormula, unitPrice, quantity int) (*models.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item := &models.CartItem{
		ID:           m.nextID,
		CartID:       cartID,
		EventID:      eventID,
		PriceFormula: formula,
		UnitPrice:    unitPrice,
		Quantity:     quantity,
	}
	m.nextID++
	m.items[item.ID] = item
	return item, nil
}

func (m *mockCartRepository) GetItemByID(id int) (*models.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if item, ok := m.items[id]; ok {
		return item, nil
	}
	return nil, models.ErrCartItemNotFound
}

func (m *mockCartRepository) GetItems(q repositories.Querier, cartID int) ([]*models.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var items []*models.CartItem
	for _, item := range m.items {
		if item.CartID == cartID {
			items = append(items, item)
		}
	}
	return items, nil
}

func (m *mockCartRepository) UpdateItemQuantity(id, quantity int) (*models.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[id]
	if !ok {
		return nil, models.ErrCartItemNotFound
	}
	item.Quantity = quantity
	return item, nil
}

func (m *mockCartRepository) DeleteItem(id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return models.ErrCartItemNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *mockCartRepository) Reset(q repositories.Querier, userID, cartID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, item := range m.items {
		if item.CartID == cartID {
			delete(m.items, id)
		}
	}
	delete(m.carts, cartID)
	cart := &models.Cart{ID: m.nextID, UserID: userID}
	m.nextID++
	m.carts[cart.ID] = cart
	m.resets++
	return nil
}

type mockTransactionRepository struct {
	mu   sync.Mutex
	txns []*models.Transaction
}

func newMockTransactionRepository() *mockTransactionRepository {
	return &mockTransactionRepository{}
}

func (m *mockTransactionRepository) Create(q repositories.Querier, txn *models.Transaction) (*models.Transaction, error) {
	if err := txn.Validate(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	created := *txn
	created.ID = len(m.txns) + 1
	m.txns = append(m.txns, &created)
	return &created, nil
}

func (m *mockTransactionRepository) GetByID(id int) (*models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, txn := range m.txns {
		if txn.ID == id {
			return txn, nil
		}
	}
	return nil, models.ErrInvalidInput
}

func (m *mockTransactionRepository) GetByUser(userID int) ([]*models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var txns []*models.Transaction
	for _, txn := range m.txns {
		if txn.UserID == userID {
			txns = append(txns, txn)
		}
	}
	return txns, nil
}

type mockReservationRepository struct {
	mu           sync.Mutex
	reservations map[int]*models.Reservation
	details      []*models.ReservationDetails
	nextID       int
}

func newMockReservationRepository() *mockReservationRepository {
	return &mockReservationRepository{
		reservations: make(map[int]*models.Reservation),
		nextID:       1,
	}
}

func (m *mockReservationRepository) ExistsForCartItem(q repositories.Querier, cartItemID, userID int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, res := range m.reservations {
		if res.CartItemID == cartItemID && res.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

// Create enforces the same key the table does: unit rows within one
// checkout differ by unit index, repeats of a converted line collide.
func (m *mockReservationRepository) Create(q repositories.Querier, res *models.Reservation) (*models.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.reservations {
		if existing.CartItemID == res.CartItemID && existing.UserID == res.UserID && existing.UnitIndex == res.UnitIndex {
			return nil, &models.DuplicateReservationError{CartItemID: res.CartItemID, UserID: res.UserID}
		}
	}
	created := *res
	created.ID = m.nextID
	m.nextID++
	m.reservations[created.ID] = &created
	return &created, nil
}

func (m *mockReservationRepository) CreateDetails(q repositories.Querier, details *models.ReservationDetails) (*models.ReservationDetails, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	created := *details
	created.ID = len(m.details) + 1
	m.details = append(m.details, &created)
	return &created, nil
}

func (m *mockReservationRepository) MarkTicketed(q repositories.Querier, reservationID, ticketID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	res, ok := m.reservations[reservationID]
	if !ok {
		return models.ErrReservationNotFound
	}
	if res.Status != models.ReservationApproved {
		return models.ErrInvalidInput
	}
	res.Status = models.ReservationTicketed
	return nil
}

func (m *mockReservationRepository) GetByID(id int) (*models.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if res, ok := m.reservations[id]; ok {
		return res, nil
	}
	return nil, models.ErrReservationNotFound
}

func (m *mockReservationRepository) GetByUser(userID int) ([]*models.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Reservation
	for _, res := range m.reservations {
		if res.UserID == userID {
			out = append(out, res)
		}
	}
	return out, nil
}

type mockTicketRepository struct {
	mu      sync.Mutex
	tickets map[string]*models.Ticket
	nextID  int
}

func newMockTicketRepository() *mockTicketRepository {
	return &mockTicketRepository{
		tickets: make(map[string]*models.Ticket),
		nextID:  1,
	}
}

func (m *mockTicketRepository) Create(q repositories.Querier, ticket *models.Ticket) (*models.Ticket, error) {
	if err := ticket.Validate(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tickets[ticket.PurchaseKey]; ok {
		return nil, models.ErrInvalidInput
	}
	created := *ticket
	created.ID = m.nextID
	m.nextID++
	m.tickets[created.PurchaseKey] = &created
	return &created, nil
}

func (m *mockTicketRepository) GetByPurchaseKey(purchaseKey string) (*models.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ticket, ok := m.tickets[purchaseKey]; ok {
		return ticket, nil
	}
	return nil, models.ErrTicketNotFound
}

func (m *mockTicketRepository) GetByReservation(reservationID int) (*models.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ticket := range m.tickets {
		if ticket.ReservationID == reservationID {
			return ticket, nil
		}
	}
	return nil, models.ErrTicketNotFound
}

// fixedRand always returns the same draw, forcing a payment outcome
type fixedRand struct {
	value float64
}

func (f fixedRand) Float64() float64 {
	return f.value
}
