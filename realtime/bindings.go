package realtime

import (
	"encoding/json"

	"github.com/Kariqs/tablefy/querycache"
)

// Cache keys dropped by events. Reads in the server are cached under these
// prefixes, e.g. "orders:<restaurant>:<status>".
const (
	KeyOrders          = "orders"
	KeyKitchen         = "kitchen"
	KeyBilling         = "billing"
	KeyServiceRequests = "service-requests"
	KeyMenu            = "menu"
)

// OrderKey is the cache key of a single order.
func OrderKey(id string) string { return "order:" + id }

type orderRef struct {
	OrderID string `json:"orderId"`
	ID      string `json:"id"`
}

func (r orderRef) id() string {
	if r.OrderID != "" {
		return r.OrderID
	}
	return r.ID
}

// BindInvalidations drops the cached queries each event makes stale. It
// returns a func that removes the subscriptions.
func BindInvalidations(ch *Channel, cache *querycache.Cache) func() {
	unsubs := []func(){
		ch.On(EventOrderNew, func(Event) {
			cache.Invalidate(KeyOrders, KeyKitchen)
		}),
		ch.On(EventOrderStatus, func(ev Event) {
			keys := []string{KeyOrders, KeyKitchen}
			var ref orderRef
			if json.Unmarshal(ev.Data, &ref) == nil && ref.id() != "" {
				keys = append(keys, OrderKey(ref.id()))
			}
			cache.Invalidate(keys...)
		}),
		ch.On(EventOrderPayment, func(ev Event) {
			keys := []string{KeyOrders, KeyBilling}
			var ref orderRef
			if json.Unmarshal(ev.Data, &ref) == nil && ref.id() != "" {
				keys = append(keys, OrderKey(ref.id()))
			}
			cache.Invalidate(keys...)
		}),
		ch.On(EventServiceRequest, func(Event) {
			cache.Invalidate(KeyServiceRequests)
		}),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}
