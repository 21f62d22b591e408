// Package metrics provides Prometheus instrumentation for a run. Every run
// owns its registry so parallel runs never share collectors
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/thrasher-corp/papertrader/engine"
	"github.com/thrasher-corp/papertrader/log"
	"github.com/thrasher-corp/papertrader/order"
	"github.com/thrasher-corp/papertrader/runner"
)

const namespace = "papertrader"

var errEmptyAddress = errors.New("metrics listen address is empty")

// Collector records order results, liquidations and tick outcomes. It
// implements both runner.Observer and engine.Observer
type Collector struct {
	registry *prometheus.Registry

	orders       *prometheus.CounterVec
	volume       *prometheus.CounterVec
	fees         prometheus.Counter
	liquidations prometheus.Counter
	ticks        prometheus.Counter
	tickIndex    prometheus.Gauge
	equity       prometheus.Gauge
	netPNL       prometheus.Gauge
}

// New returns a Collector whose series carry the run and strategy labels
func New(runID, strategy string) *Collector {
	reg := prometheus.NewRegistry()
	f := promauto.With(prometheus.WrapRegistererWith(prometheus.Labels{
		"run_id":   runID,
		"strategy": strategy,
	}, reg))
	return &Collector{
		registry: reg,
		orders: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_total",
			Help:      "Order results by account, direction, action and status",
		}, []string{"account", "direction", "action", "status"}),
		volume: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "filled_quantity_total",
			Help:      "Filled base quantity by account and direction",
		}, []string{"account", "direction"}),
		fees: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fees_total",
			Help:      "Quote amount lost to trading fees",
		}),
		liquidations: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "liquidations_total",
			Help:      "Forced liquidations of the margin account",
		}),
		ticks: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Committed ticks",
		}),
		tickIndex: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tick_index",
			Help:      "Index of the last committed tick",
		}),
		equity: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "equity",
			Help:      "Value of both accounts at the last committed tick",
		}),
		netPNL: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "net_pnl",
			Help:      "Cumulative profit and loss",
		}),
	}
}

// Registry returns the collector's registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// OnOrderResult counts an order result
func (c *Collector) OnOrderResult(r order.Result) {
	c.orders.WithLabelValues(
		r.Request.Account.String(),
		r.Request.Direction.String(),
		r.Request.Action.String(),
		r.Status.String(),
	).Inc()
	if r.Status != order.Filled {
		return
	}
	c.volume.WithLabelValues(r.Request.Account.String(), r.Request.Direction.String()).Add(r.Fill.Quantity.InexactFloat64())
	c.fees.Add(r.Fill.Fee.InexactFloat64())
}

// OnLiquidation counts a liquidation
func (c *Collector) OnLiquidation(engine.Liquidation) {
	c.liquidations.Inc()
}

// OnTickOutcome records a committed tick
func (c *Collector) OnTickOutcome(o *runner.TickOutcome) {
	c.ticks.Inc()
	c.tickIndex.Set(float64(o.Tick.Index))
	c.equity.Set(o.Equity.InexactFloat64())
	c.netPNL.Set(o.NetPNL.InexactFloat64())
}

// Handler returns the Prometheus metrics HTTP handler for the registry
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done
func (c *Collector) Serve(ctx context.Context, addr string) error {
	if addr == "" {
		return errEmptyAddress
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Errorf(log.Global, "metrics server shutdown: %v", err)
		}
	}()
	log.Infof(log.Global, "metrics listening on %s/metrics", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
