package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	workoutsLogged = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mapty",
		Name:      "workouts_logged_total",
		Help:      "Workouts created and added to the log, by kind.",
	}, []string{"kind"})
	workoutsDeleted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "mapty",
		Name:      "workouts_deleted_total",
		Help:      "Workouts removed from the log.",
	})
	workoutsStored = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "mapty",
		Name:      "workouts_stored",
		Help:      "Workouts currently held in the log.",
	})
	persistenceFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mapty",
		Subsystem: "persistence",
		Name:      "failures_total",
		Help:      "Failed loads, saves and clears of the persisted log, by operation.",
	}, []string{"op"})
)

func init() {
	prometheus.MustRegister(workoutsLogged, workoutsDeleted, workoutsStored, persistenceFailures)
}

// RecordWorkoutLogged counts one new workout of the given kind.
func RecordWorkoutLogged(kind string) {
	workoutsLogged.WithLabelValues(kind).Inc()
}

// RecordWorkoutDeleted counts one removed workout.
func RecordWorkoutDeleted() {
	workoutsDeleted.Inc()
}

// SetWorkoutsStored updates the log size gauge.
func SetWorkoutsStored(n int) {
	workoutsStored.Set(float64(n))
}

// RecordPersistenceFailure counts a failed load, save or clear.
func RecordPersistenceFailure(op string) {
	persistenceFailures.WithLabelValues(op).Inc()
}
