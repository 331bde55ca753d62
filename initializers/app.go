package initializers

import (
	"context"

	"github.com/Kariqs/tablefy/cart"
	"github.com/Kariqs/tablefy/checkout"
	"github.com/Kariqs/tablefy/gateway"
	"github.com/Kariqs/tablefy/models"
	"github.com/Kariqs/tablefy/network"
	"github.com/Kariqs/tablefy/notify"
	"github.com/Kariqs/tablefy/offline"
	"github.com/Kariqs/tablefy/querycache"
	"github.com/Kariqs/tablefy/realtime"
	"github.com/Kariqs/tablefy/storage"
	"go.uber.org/zap"
)

// App is every long-lived component of the device client, built once and
// handed to the controllers.
type App struct {
	Config      *Config
	Log         *zap.Logger
	Feed        *notify.Feed
	API         *gateway.Client
	Monitor     *network.Monitor
	Cart        *cart.Store
	Queue       *offline.Queue
	Cache       *querycache.Cache
	Channel     *realtime.Channel
	Breadcrumbs *storage.Breadcrumbs
	Checkout    *checkout.Service

	unbind func()
}

func NewApp(cfg *Config, store storage.Storage, log *zap.Logger) *App {
	app := &App{Config: cfg, Log: log}

	app.Feed = notify.NewFeed(cfg.NotifyCapacity, log.Named("notify"))
	app.Cache = querycache.New(
		querycache.WithStaleTime(cfg.CacheStaleTime),
		querycache.WithLogger(log.Named("cache")),
	)
	app.API = gateway.New(cfg.APIBaseURL, gateway.NewTokenStore(store),
		gateway.WithNotifier(app.Feed),
		gateway.WithLogger(log.Named("gateway")),
		gateway.WithTimeout(cfg.RequestTimeout),
		gateway.OnSessionExpired(app.sessionExpired),
	)
	app.Monitor = network.NewMonitor(app.API.Ping, cfg.ProbeInterval, log.Named("network"))
	app.Breadcrumbs = storage.NewBreadcrumbs(store)
	app.Cart = cart.New(store, app.Feed, log.Named("cart"))
	app.Queue = offline.New(store, offline.SubmitFunc(app.submitQueued), app.Feed, log.Named("offline"),
		offline.OnSubmitted(app.queuedOrderSubmitted),
	)
	app.Checkout = checkout.New(checkout.Deps{
		Cart:        app.Cart,
		Queue:       app.Queue,
		API:         app.API,
		Net:         app.Monitor,
		Breadcrumbs: app.Breadcrumbs,
		Notifier:    app.Feed,
		Log:         log.Named("checkout"),
		Restaurant:  cfg.RestaurantID,
	})
	app.Channel = realtime.New(cfg.SocketURL, app.API.Tokens().AccessToken, log.Named("realtime"))
	app.unbind = realtime.BindInvalidations(app.Channel, app.Cache)

	app.Monitor.OnReconnect(func(ctx context.Context) {
		app.Queue.Sync(ctx)
	})
	return app
}

// Start runs the reachability probe and the event channel until ctx ends,
// and flushes anything left in the offline queue from a previous run. It
// returns without waiting for any of them.
func (a *App) Start(ctx context.Context) {
	if id := a.Config.RestaurantID; id != "" {
		a.Channel.Join(realtime.RestaurantRoom(id))
		a.Channel.Join(realtime.KitchenRoom(id))
	}
	if id := a.Breadcrumbs.LastOrderID(); id != "" {
		a.Channel.Join(realtime.OrderRoom(id))
	}

	go a.Monitor.Run(ctx)
	go a.Channel.Run(ctx)
	go a.flushQueue(ctx)
}

// flushQueue sends orders left over from a previous run. It serializes with
// reconnect passes inside Queue.Sync.
func (a *App) flushQueue(ctx context.Context) {
	if a.Queue.Len() > 0 && a.Monitor.Check(ctx) {
		a.Queue.Sync(ctx)
	}
}

func (a *App) Close() {
	if a.unbind != nil {
		a.unbind()
	}
	a.Log.Sync()
}

// submitQueued sends a queued order without notifying per-entry failures;
// the queue reports the outcome of the whole pass.
func (a *App) submitQueued(ctx context.Context, p models.OrderPayload) (models.Order, error) {
	order, err := a.API.CreateOrder(gateway.Quiet(ctx), p)
	if gateway.IsUnreachable(err) {
		a.Monitor.MarkOffline()
	}
	return order, err
}

func (a *App) queuedOrderSubmitted(_ models.QueuedOrder, order models.Order) {
	if err := a.Breadcrumbs.SetLastOrderID(order.ID); err != nil {
		a.Log.Warn("last order id not stored", zap.Error(err))
	}
	a.Channel.Join(realtime.OrderRoom(order.ID))
	a.Cache.Invalidate(realtime.KeyOrders, realtime.KeyKitchen)
}

func (a *App) sessionExpired() {
	a.Log.Warn("session expired, staff must log in again")
	a.Cache.Invalidate(realtime.KeyOrders, realtime.KeyKitchen, realtime.KeyBilling, realtime.KeyServiceRequests)
}
