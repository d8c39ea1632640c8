package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/pscheid92/memorytrail/internal/domain"
)

// KioskMetrics counts controller activity. Labels carry screen and event
// names only; nothing a visitor chose is ever recorded.
type KioskMetrics struct {
	EventsTotal      *prometheus.CounterVec
	TransitionsTotal *prometheus.CounterVec
	TimerFiresTotal  *prometheus.CounterVec
	StaleTimersTotal *prometheus.CounterVec
	VisitsStarted    prometheus.Counter
	VisitsCompleted  prometheus.Counter
	ContractFaults   prometheus.Counter
	CurrentScreen    *prometheus.GaugeVec
}

// NewKioskMetrics creates and registers controller metrics on the given registry.
func NewKioskMetrics(reg prometheus.Registerer) *KioskMetrics {
	m := &KioskMetrics{
		EventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "kiosk",
			Name:      "events_total",
			Help:      "Inbound and timer events, by event type and outcome.",
		}, []string{"event", "outcome"}),
		TransitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "kiosk",
			Name:      "transitions_total",
			Help:      "Screen changes, by source and target screen.",
		}, []string{"from", "to"}),
		TimerFiresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "kiosk",
			Name:      "timer_fires_total",
			Help:      "Scheduled timer callbacks that executed, by timer.",
		}, []string{"timer"}),
		StaleTimersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "kiosk",
			Name:      "stale_timers_total",
			Help:      "Timer fires dropped because the screen they targeted was no longer active.",
		}, []string{"timer"}),
		VisitsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "kiosk",
			Name:      "visits_started_total",
			Help:      "Visits started by a tap on the idle screen.",
		}),
		VisitsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "kiosk",
			Name:      "visits_completed_total",
			Help:      "Visits that ran the end countdown to zero.",
		}),
		ContractFaults: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "kiosk",
			Name:      "contract_faults_total",
			Help:      "Store/controller desynchronisations degraded to a no-op.",
		}),
		CurrentScreen: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "kiosk",
			Name:      "current_screen",
			Help:      "1 for the screen currently displayed, 0 otherwise.",
		}, []string{"screen"}),
	}

	reg.MustRegister(
		m.EventsTotal,
		m.TransitionsTotal,
		m.TimerFiresTotal,
		m.StaleTimersTotal,
		m.VisitsStarted,
		m.VisitsCompleted,
		m.ContractFaults,
		m.CurrentScreen,
	)

	for _, s := range domain.Screens {
		m.CurrentScreen.WithLabelValues(s.String()).Set(0)
	}
	m.CurrentScreen.WithLabelValues(domain.ScreenIdle.String()).Set(1)

	return m
}

func (m *KioskMetrics) EventAccepted(event domain.EventType) {
	m.EventsTotal.WithLabelValues(string(event), "accepted").Inc()
}

func (m *KioskMetrics) EventIgnored(event domain.EventType, reason string) {
	m.EventsTotal.WithLabelValues(string(event), reason).Inc()
}

func (m *KioskMetrics) ScreenChanged(from, to domain.Screen) {
	m.TransitionsTotal.WithLabelValues(from.String(), to.String()).Inc()
	m.CurrentScreen.WithLabelValues(from.String()).Set(0)
	m.CurrentScreen.WithLabelValues(to.String()).Set(1)
}

func (m *KioskMetrics) TimerFired(timer string) {
	m.TimerFiresTotal.WithLabelValues(timer).Inc()
}

func (m *KioskMetrics) TimerStale(timer string) {
	m.StaleTimersTotal.WithLabelValues(timer).Inc()
}

func (m *KioskMetrics) VisitStarted()   { m.VisitsStarted.Inc() }
func (m *KioskMetrics) VisitCompleted() { m.VisitsCompleted.Inc() }
func (m *KioskMetrics) ContractFault()  { m.ContractFaults.Inc() }
