// Package checkout turns the cart into an order, either submitted right away
// or parked in the offline queue when the API cannot be reached.
package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/Kariqs/tablefy/cart"
	"github.com/Kariqs/tablefy/gateway"
	"github.com/Kariqs/tablefy/models"
	"github.com/Kariqs/tablefy/notify"
	"github.com/Kariqs/tablefy/offline"
	"github.com/Kariqs/tablefy/storage"
	"go.uber.org/zap"
)

var (
	ErrEmptyCart = errors.New("checkout: cart is empty")
	ErrNoTable   = errors.New("checkout: no table selected")
)

// API is the subset of the gateway checkout needs.
type API interface {
	CreateOrder(ctx context.Context, p models.OrderPayload) (models.Order, error)
	GetTable(ctx context.Context, id string) (models.Table, error)
}

// Reachability reports and records whether the API can be reached.
type Reachability interface {
	Online() bool
	MarkOffline()
}

type Request struct {
	Restaurant    string `json:"restaurant"`
	Table         string `json:"table"`
	PaymentMethod string `json:"paymentMethod" binding:"omitempty,oneof=cash card"`
	CustomerName  string `json:"customerName"`
	CustomerPhone string `json:"customerPhone"`
	Notes         string `json:"notes"`
}

// Result holds exactly one of Order (submitted) or Queued (saved offline).
type Result struct {
	Order  *models.Order       `json:"order,omitempty"`
	Queued *models.QueuedOrder `json:"queued,omitempty"`
}

type Service struct {
	cart        *cart.Store
	queue       *offline.Queue
	api         API
	net         Reachability
	breadcrumbs *storage.Breadcrumbs
	notifier    notify.Notifier
	log         *zap.Logger

	// restaurant is used when a request names none.
	restaurant string
}

type Deps struct {
	Cart        *cart.Store
	Queue       *offline.Queue
	API         API
	Net         Reachability
	Breadcrumbs *storage.Breadcrumbs
	Notifier    notify.Notifier
	Log         *zap.Logger
	Restaurant  string
}

func New(d Deps) *Service {
	if d.Notifier == nil {
		d.Notifier = notify.Discard{}
	}
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	return &Service{
		cart:        d.Cart,
		queue:       d.Queue,
		api:         d.API,
		net:         d.Net,
		breadcrumbs: d.Breadcrumbs,
		notifier:    d.Notifier,
		log:         d.Log,
		restaurant:  d.Restaurant,
	}
}

// PlaceOrder submits the cart. The cart is cleared once the order is either
// accepted or queued; on any other failure it is left untouched.
func (s *Service) PlaceOrder(ctx context.Context, req Request) (Result, error) {
	if s.cart.IsEmpty() {
		return Result{}, ErrEmptyCart
	}
	payload, err := s.buildPayload(req)
	if err != nil {
		return Result{}, err
	}

	if !s.net.Online() {
		return s.enqueue(payload)
	}

	order, err := s.api.CreateOrder(gateway.Quiet(ctx), payload)
	if err != nil {
		if gateway.IsUnreachable(err) {
			s.net.MarkOffline()
			return s.enqueue(payload)
		}
		s.notifier.Error(gateway.UserMessage(err))
		return Result{}, fmt.Errorf("place order: %w", err)
	}

	s.cart.ClearCart()
	if err := s.breadcrumbs.SetLastOrderID(order.ID); err != nil {
		s.log.Warn("last order id not stored", zap.Error(err))
	}
	s.log.Info("order placed",
		zap.String("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.Float64("total", payload.Totals.Total))
	s.notifier.Success(fmt.Sprintf("Order #%s placed", order.OrderNumber))
	return Result{Order: &order}, nil
}

func (s *Service) enqueue(p models.OrderPayload) (Result, error) {
	entry, err := s.queue.Enqueue(p)
	if err != nil {
		s.log.Error("offline order not persisted", zap.String("queued_id", entry.ID), zap.Error(err))
	}
	s.cart.ClearCart()
	return Result{Queued: &entry}, nil
}

func (s *Service) buildPayload(req Request) (models.OrderPayload, error) {
	table := req.Table
	if table == "" {
		table = s.breadcrumbs.LastTableID()
	}
	if table == "" {
		return models.OrderPayload{}, ErrNoTable
	}
	restaurant := req.Restaurant
	if restaurant == "" {
		restaurant = s.restaurant
	}
	method := req.PaymentMethod
	if method == "" {
		method = models.PaymentMethodCash
	}

	lines := s.cart.Lines()
	items := make([]models.OrderItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, models.OrderItem{
			MenuItem:            l.ItemID,
			Name:                l.Name,
			Price:               l.Price,
			Quantity:            l.Quantity,
			SpecialInstructions: l.SpecialInstructions,
		})
	}
	subtotal := s.cart.CartTotal()
	return models.OrderPayload{
		Restaurant: restaurant,
		Table:      table,
		Items:      items,
		Totals: models.OrderTotals{
			Subtotal:  subtotal,
			ItemCount: s.cart.CartCount(),
			Total:     subtotal,
		},
		PaymentMethod: method,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Notes:         req.Notes,
	}, nil
}

// SelectTable resolves the scanned table and remembers it for checkout.
func (s *Service) SelectTable(ctx context.Context, tableID string) (models.Table, error) {
	table, err := s.api.GetTable(ctx, tableID)
	if err != nil {
		return models.Table{}, fmt.Errorf("select table %s: %w", tableID, err)
	}
	if err := s.breadcrumbs.SetLastTableID(table.ID); err != nil {
		s.log.Warn("last table id not stored", zap.Error(err))
	}
	return table, nil
}

func (s *Service) LastOrderID() string { return s.breadcrumbs.LastOrderID() }
func (s *Service) LastTableID() string { return s.breadcrumbs.LastTableID() }

// Online reports whether orders currently go straight to the API.
func (s *Service) Online() bool { return s.net.Online() }
