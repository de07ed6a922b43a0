package enquiry

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics tracks parsing performance metrics using lock-free atomic
// operations. All methods are safe for concurrent use, so one Metrics
// instance can serve parallel parses of independent documents.
type Metrics struct {
	// Document counts
	documentsTotal  atomic.Uint64
	documentsFailed atomic.Uint64

	// Timing (stored as nanoseconds)
	parseTimeTotal atomic.Uint64
	parseTimeMin   atomic.Uint64
	parseTimeMax   atomic.Uint64

	// Entity and code counts
	entitiesTotal  atomic.Uint64
	codesTotal     atomic.Uint64
	codeDedupHits  atomic.Uint64
	warningsTotal  atomic.Uint64
	flagDropsTotal atomic.Uint64

	// Detector failures recovered as non-matches
	detectorPanics atomic.Uint64

	// Per-detector timing (map access is lock-free via sync.Map)
	detectorTiming sync.Map // map[string]*detectorMetrics
}

// detectorMetrics tracks metrics for a single pattern detector.
type detectorMetrics struct {
	invocations atomic.Uint64
	matches     atomic.Uint64
	totalTime   atomic.Uint64 // nanoseconds
}

// NewMetrics creates a new Metrics instance.
func NewMetrics() *Metrics {
	m := &Metrics{}
	// Initialize min to max uint64 so first value becomes the minimum
	m.parseTimeMin.Store(^uint64(0))
	return m
}

// --- Recording Methods ---

// RecordParse records a completed document parse.
func (m *Metrics) RecordParse(duration time.Duration, failed bool) {
	m.documentsTotal.Add(1)
	if failed {
		m.documentsFailed.Add(1)
	}

	ns := uint64(duration.Nanoseconds())
	m.parseTimeTotal.Add(ns)

	// Update min (CAS loop)
	for {
		old := m.parseTimeMin.Load()
		if ns >= old {
			break
		}
		if m.parseTimeMin.CompareAndSwap(old, ns) {
			break
		}
	}

	// Update max (CAS loop)
	for {
		old := m.parseTimeMax.Load()
		if ns <= old {
			break
		}
		if m.parseTimeMax.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordEntities adds to the total parsed entity count.
func (m *Metrics) RecordEntities(n int) {
	if n > 0 {
		m.entitiesTotal.Add(uint64(n))
	}
}

// RecordCodeInsert records a first sighting of a code key.
func (m *Metrics) RecordCodeInsert() {
	m.codesTotal.Add(1)
}

// RecordCodeDedup records a repeat sighting collapsed into an existing entry.
func (m *Metrics) RecordCodeDedup() {
	m.codeDedupHits.Add(1)
}

// RecordWarning records a recovered parse warning.
func (m *Metrics) RecordWarning() {
	m.warningsTotal.Add(1)
}

// RecordFlagDrop records a flag dropped by validation. A nonzero count
// indicates a registry/plugin mismatch worth investigating.
func (m *Metrics) RecordFlagDrop() {
	m.flagDropsTotal.Add(1)
}

// RecordDetectorPanic records a detector failure recovered as a non-match.
func (m *Metrics) RecordDetectorPanic() {
	m.detectorPanics.Add(1)
}

// RecordDetector records one detector invocation.
func (m *Metrics) RecordDetector(patternID string, duration time.Duration, matched bool) {
	dm := m.getOrCreateDetectorMetrics(patternID)
	dm.invocations.Add(1)
	if matched {
		dm.matches.Add(1)
	}
	dm.totalTime.Add(uint64(duration.Nanoseconds()))
}

func (m *Metrics) getOrCreateDetectorMetrics(id string) *detectorMetrics {
	if v, ok := m.detectorTiming.Load(id); ok {
		return v.(*detectorMetrics)
	}
	dm := &detectorMetrics{}
	actual, _ := m.detectorTiming.LoadOrStore(id, dm)
	return actual.(*detectorMetrics)
}

// --- Query Methods ---

// DocumentsTotal returns the total number of documents parsed.
func (m *Metrics) DocumentsTotal() uint64 {
	return m.documentsTotal.Load()
}

// DocumentsFailed returns the number of documents that failed as malformed.
func (m *Metrics) DocumentsFailed() uint64 {
	return m.documentsFailed.Load()
}

// EntitiesTotal returns the total number of entities parsed.
func (m *Metrics) EntitiesTotal() uint64 {
	return m.entitiesTotal.Load()
}

// CodesTotal returns the number of distinct codes stored.
func (m *Metrics) CodesTotal() uint64 {
	return m.codesTotal.Load()
}

// CodeDedupHits returns the number of repeat code sightings deduplicated.
func (m *Metrics) CodeDedupHits() uint64 {
	return m.codeDedupHits.Load()
}

// WarningsTotal returns the total recovered warnings.
func (m *Metrics) WarningsTotal() uint64 {
	return m.warningsTotal.Load()
}

// FlagDropsTotal returns the total flags dropped by validation.
func (m *Metrics) FlagDropsTotal() uint64 {
	return m.flagDropsTotal.Load()
}

// DetectorPanics returns the number of recovered detector failures.
func (m *Metrics) DetectorPanics() uint64 {
	return m.detectorPanics.Load()
}

// AverageParseTime returns the average document parse duration.
func (m *Metrics) AverageParseTime() time.Duration {
	total := m.documentsTotal.Load()
	if total == 0 {
		return 0
	}
	return time.Duration(m.parseTimeTotal.Load() / total)
}

// MinParseTime returns the minimum document parse duration.
func (m *Metrics) MinParseTime() time.Duration {
	minVal := m.parseTimeMin.Load()
	if minVal == ^uint64(0) {
		return 0
	}
	return time.Duration(minVal)
}

// MaxParseTime returns the maximum document parse duration.
func (m *Metrics) MaxParseTime() time.Duration {
	return time.Duration(m.parseTimeMax.Load())
}

// DetectorStats holds statistics for one pattern detector.
type DetectorStats struct {
	PatternID   string
	Invocations uint64
	Matches     uint64
	TotalTime   time.Duration
	AvgTime     time.Duration
}

// DetectorStats returns statistics for a specific detector.
func (m *Metrics) DetectorStats(patternID string) (DetectorStats, bool) {
	v, ok := m.detectorTiming.Load(patternID)
	if !ok {
		return DetectorStats{PatternID: patternID}, false
	}
	dm := v.(*detectorMetrics)
	return m.buildDetectorStats(patternID, dm), true
}

// AllDetectorStats returns statistics for every detector that ran.
func (m *Metrics) AllDetectorStats() []DetectorStats {
	var stats []DetectorStats
	m.detectorTiming.Range(func(key, value any) bool {
		stats = append(stats, m.buildDetectorStats(key.(string), value.(*detectorMetrics)))
		return true
	})
	return stats
}

func (m *Metrics) buildDetectorStats(id string, dm *detectorMetrics) DetectorStats {
	invocations := dm.invocations.Load()
	totalTime := dm.totalTime.Load()

	var avgTime time.Duration
	if invocations > 0 {
		avgTime = time.Duration(totalTime / invocations)
	}

	return DetectorStats{
		PatternID:   id,
		Invocations: invocations,
		Matches:     dm.matches.Load(),
		TotalTime:   time.Duration(totalTime),
		AvgTime:     avgTime,
	}
}

// Snapshot represents a point-in-time snapshot of all metrics.
type Snapshot struct {
	Timestamp time.Time `json:"timestamp"`

	DocumentsTotal  uint64 `json:"documents_total"`
	DocumentsFailed uint64 `json:"documents_failed"`

	AvgParseTimeNs uint64 `json:"avg_parse_time_ns"`
	MinParseTimeNs uint64 `json:"min_parse_time_ns"`
	MaxParseTimeNs uint64 `json:"max_parse_time_ns"`

	EntitiesTotal  uint64 `json:"entities_total"`
	CodesTotal     uint64 `json:"codes_total"`
	CodeDedupHits  uint64 `json:"code_dedup_hits"`
	WarningsTotal  uint64 `json:"warnings_total"`
	FlagDropsTotal uint64 `json:"flag_drops_total"`
	DetectorPanics uint64 `json:"detector_panics"`

	Detectors []DetectorStats `json:"detectors,omitempty"`
}

// Snapshot returns a point-in-time snapshot of all metrics.
func (m *Metrics) Snapshot() Snapshot {
	total := m.documentsTotal.Load()

	var avgTime float64
	if total > 0 {
		avgTime = float64(m.parseTimeTotal.Load()) / float64(total)
	}

	minTime := m.parseTimeMin.Load()
	if minTime == ^uint64(0) {
		minTime = 0
	}

	return Snapshot{
		Timestamp:       time.Now(),
		DocumentsTotal:  total,
		DocumentsFailed: m.documentsFailed.Load(),
		AvgParseTimeNs:  uint64(avgTime),
		MinParseTimeNs:  minTime,
		MaxParseTimeNs:  m.parseTimeMax.Load(),
		EntitiesTotal:   m.entitiesTotal.Load(),
		CodesTotal:      m.codesTotal.Load(),
		CodeDedupHits:   m.codeDedupHits.Load(),
		WarningsTotal:   m.warningsTotal.Load(),
		FlagDropsTotal:  m.flagDropsTotal.Load(),
		DetectorPanics:  m.detectorPanics.Load(),
		Detectors:       m.AllDetectorStats(),
	}
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.documentsTotal.Store(0)
	m.documentsFailed.Store(0)
	m.parseTimeTotal.Store(0)
	m.parseTimeMin.Store(^uint64(0))
	m.parseTimeMax.Store(0)
	m.entitiesTotal.Store(0)
	m.codesTotal.Store(0)
	m.codeDedupHits.Store(0)
	m.warningsTotal.Store(0)
	m.flagDropsTotal.Store(0)
	m.detectorPanics.Store(0)

	m.detectorTiming.Range(func(key, _ any) bool {
		m.detectorTiming.Delete(key)
		return true
	})
}
