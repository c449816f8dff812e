package metrics

import (
	"database/sql"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

const namespace = "travelmap"

type poolMetric struct {
	desc      *prometheus.Desc
	valueType prometheus.ValueType
}

func newPoolMetric(subsystem, name, help string, valueType prometheus.ValueType) poolMetric {
	return poolMetric{
		desc:      prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystem, name), help, nil, nil),
		valueType: valueType,
	}
}

// PostgresPoolCollector reports sql.DB pool statistics at scrape time
type PostgresPoolCollector struct {
	db *sql.DB

	maxOpen      poolMetric
	open         poolMetric
	inUse        poolMetric
	idle         poolMetric
	waitCount    poolMetric
	waitDuration poolMetric
}

func NewPostgresPoolCollector(db *sql.DB) *PostgresPoolCollector {
	const subsystem = "postgres_pool"

	return &PostgresPoolCollector{
		db:           db,
		maxOpen:      newPoolMetric(subsystem, "max_open_connections", "Configured connection limit of the postgres pool", prometheus.GaugeValue),
		open:         newPoolMetric(subsystem, "open_connections", "Established postgres connections, in use and idle", prometheus.GaugeValue),
		inUse:        newPoolMetric(subsystem, "in_use_connections", "Postgres connections currently serving a query", prometheus.GaugeValue),
		idle:         newPoolMetric(subsystem, "idle_connections", "Idle postgres connections", prometheus.GaugeValue),
		waitCount:    newPoolMetric(subsystem, "wait_count_total", "Queries that had to wait for a free connection", prometheus.CounterValue),
		waitDuration: newPoolMetric(subsystem, "wait_seconds_total", "Time spent waiting for a free connection", prometheus.CounterValue),
	}
}

func (c *PostgresPoolCollector) metrics() []poolMetric {
	return []poolMetric{c.maxOpen, c.open, c.inUse, c.idle, c.waitCount, c.waitDuration}
}

// Describe implements prometheus.Collector
func (c *PostgresPoolCollector) Describe(ch chan<- *prometheus.Desc) {
	for _, m := range c.metrics() {
		ch <- m.desc
	}
}

// Collect implements prometheus.Collector
func (c *PostgresPoolCollector) Collect(ch chan<- prometheus.Metric) {
	stats := c.db.Stats()
	values := []float64{
		float64(stats.MaxOpenConnections),
		float64(stats.OpenConnections),
		float64(stats.InUse),
		float64(stats.Idle),
		float64(stats.WaitCount),
		stats.WaitDuration.Seconds(),
	}

	for i, m := range c.metrics() {
		ch <- prometheus.MustNewConstMetric(m.desc, m.valueType, values[i])
	}
}

// SessionPoolCollector reports the go-redis pool behind the shared session state
type SessionPoolCollector struct {
	client *redis.Client

	hits       poolMetric
	misses     poolMetric
	timeouts   poolMetric
	totalConns poolMetric
	idleConns  poolMetric
}

func NewSessionPoolCollector(client *redis.Client) *SessionPoolCollector {
	const subsystem = "session_redis_pool"

	return &SessionPoolCollector{
		client:     client,
		hits:       newPoolMetric(subsystem, "hits_total", "Session lookups served by a pooled redis connection", prometheus.CounterValue),
		misses:     newPoolMetric(subsystem, "misses_total", "Session lookups that had to dial redis", prometheus.CounterValue),
		timeouts:   newPoolMetric(subsystem, "timeouts_total", "Waits for a redis connection that timed out", prometheus.CounterValue),
		totalConns: newPoolMetric(subsystem, "connections", "Redis connections held by the pool", prometheus.GaugeValue),
		idleConns:  newPoolMetric(subsystem, "idle_connections", "Idle redis connections", prometheus.GaugeValue),
	}
}

func (c *SessionPoolCollector) metrics() []poolMetric {
	return []poolMetric{c.hits, c.misses, c.timeouts, c.totalConns, c.idleConns}
}

// Describe implements prometheus.Collector
func (c *SessionPoolCollector) Describe(ch chan<- *prometheus.Desc) {
	for _, m := range c.metrics() {
		ch <- m.desc
	}
}

// Collect implements prometheus.Collector
func (c *SessionPoolCollector) Collect(ch chan<- prometheus.Metric) {
	stats := c.client.PoolStats()
	values := []float64{
		float64(stats.Hits),
		float64(stats.Misses),
		float64(stats.Timeouts),
		float64(stats.TotalConns),
		float64(stats.IdleConns),
	}

	for i, m := range c.metrics() {
		ch <- prometheus.MustNewConstMetric(m.desc, m.valueType, values[i])
	}
}

// RegisterCollectors registers the pool collectors; a nil redis client is skipped
func RegisterCollectors(db *sql.DB, redisClient *redis.Client) {
	if db != nil {
		prometheus.MustRegister(NewPostgresPoolCollector(db))
	}

	if redisClient != nil {
		prometheus.MustRegister(NewSessionPoolCollector(redisClient))
	}
}
