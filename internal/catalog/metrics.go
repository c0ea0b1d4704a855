package catalog

import "github.com/prometheus/client_golang/prometheus"

const labelWarehouse = "warehouse"

type Metrics struct {
	Products     *prometheus.GaugeVec
	Added        *prometheus.CounterVec
	PriceUpdates *prometheus.CounterVec
}

func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		Products: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "warehouse_products",
				Help: "Current number of products per warehouse",
			},
			[]string{labelWarehouse},
		),
		Added: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "warehouse_products_added_total",
				Help: "Products added per warehouse",
			},
			[]string{labelWarehouse},
		),
		PriceUpdates: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "warehouse_price_updates_total",
				Help: "Product price updates per warehouse",
			},
			[]string{labelWarehouse},
		),
	}

	reg.MustRegister(m.Products, m.Added, m.PriceUpdates)
	return m
}

// The helpers below accept a nil receiver so the server runs without metrics.

func (m *Metrics) observeSize(w *Warehouse) {
	if m == nil {
		return
	}
	m.Products.WithLabelValues(w.Name()).Set(float64(w.Len()))
}

func (m *Metrics) productAdded(w *Warehouse) {
	if m == nil {
		return
	}
	m.Added.WithLabelValues(w.Name()).Inc()
	m.observeSize(w)
}

func (m *Metrics) priceUpdated(w *Warehouse) {
	if m == nil {
		return
	}
	m.PriceUpdates.WithLabelValues(w.Name()).Inc()
}
