// Package metrics holds the Prometheus collectors for storage activity.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Upload modes for Storage.ObserveUpload.
const (
	ModeSingle = "single"
	ModeBatch  = "batch"
	ModeChunk  = "chunk"
)

// Merge results for Storage.ObserveMerge.
const (
	MergeCompleted = "completed"
	MergeFailed    = "failed"
	MergeDuplicate = "already_finalized"
)

// Storage groups counters for uploads, chunk merges and archive exports.
// A nil *Storage is valid and records nothing.
type Storage struct {
	uploads     *prometheus.CounterVec
	bytesStored prometheus.Counter
	merges      *prometheus.CounterVec
	skipped     prometheus.Counter
}

// NewStorage creates the storage collectors and registers them with reg.
func NewStorage(reg prometheus.Registerer) (*Storage, error) {
	s := &Storage{
		uploads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docvault_documents_uploaded_total",
				Help: "Total number of documents created, by upload mode.",
			},
			[]string{"mode"},
		),
		bytesStored: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "docvault_bytes_stored_total",
			Help: "Total bytes written to the file store.",
		}),
		merges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docvault_chunk_merges_total",
				Help: "Chunk session merge attempts, by result.",
			},
			[]string{"result"},
		),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "docvault_archive_entries_skipped_total",
			Help: "Documents left out of an archive export because they could not be read.",
		}),
	}

	for _, c := range []prometheus.Collector{s.uploads, s.bytesStored, s.merges, s.skipped} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// ObserveUpload counts one created document of size bytes.
func (s *Storage) ObserveUpload(mode string, size int64) {
	if s == nil {
		return
	}
	s.uploads.WithLabelValues(mode).Inc()
	if size > 0 {
		s.bytesStored.Add(float64(size))
	}
}

// ObserveMerge counts one chunk merge attempt.
func (s *Storage) ObserveMerge(result string) {
	if s == nil {
		return
	}
	s.merges.WithLabelValues(result).Inc()
}

// ObserveArchiveSkip counts one document skipped during an archive export.
func (s *Storage) ObserveArchiveSkip() {
	if s == nil {
		return
	}
	s.skipped.Inc()
}
