package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/roomboard/roomboard-core/internal/booking"
)

// handleListBookings returns stored booking records within a time window.
func (s *Server) handleListBookings(w http.ResponseWriter, r *http.Request) {
	start, end, err := s.parseWindow(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	records, err := s.store.ListRange(r.Context(), start, end)
	if err != nil {
		s.logger.Error("listing bookings failed", "error", err)
		writeInternalError(w, "failed to list bookings")
		return
	}

	if records == nil {
		records = []booking.Record{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"bookings": records,
		"count":    len(records),
		"start":    start.Format(time.RFC3339),
		"end":      end.Format(time.RFC3339),
	})
}

// handleMonthBookings returns the stored contents of one month bucket along
// with its sync metadata.
func (s *Server) handleMonthBookings(w http.ResponseWriter, r *http.Request) {
	bucketKey := chi.URLParam(r, "bucketKey")
	if _, err := booking.ParseBucketKey(bucketKey, s.loc); err != nil {
		writeBadRequest(w, "invalid bucket key: "+bucketKey)
		return
	}

	meta, err := s.store.MonthMeta(r.Context(), bucketKey)
	if err != nil {
		if errors.Is(err, booking.ErrMonthNotSynced) {
			writeNotFound(w, "month not synced: "+bucketKey)
			return
		}
		s.logger.Error("loading bucket metadata failed", "bucket", bucketKey, "error", err)
		writeInternalError(w, "failed to load bucket metadata")
		return
	}

	records, err := s.store.ListMonth(r.Context(), bucketKey)
	if err != nil {
		s.logger.Error("listing bucket failed", "bucket", bucketKey, "error", err)
		writeInternalError(w, "failed to list bucket")
		return
	}

	if records == nil {
		records = []booking.Record{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"bucket_key": bucketKey,
		"meta":       meta,
		"bookings":   records,
		"count":      len(records),
	})
}

// pushSyncRequest is one externally-fetched month bucket.
type pushSyncRequest struct {
	BucketKey string           `json:"bucket_key"`
	Bookings  []booking.Record `json:"bookings"`
}

// pushSyncBatchRequest carries several month buckets in one call.
type pushSyncBatchRequest struct {
	Months []pushSyncRequest `json:"months"`
}

// handlePushSync accepts one month bucket fetched by an external client and
// replaces the stored bucket with it. Companion apps that hold their own
// credentials use this instead of the service's pull sync.
func (s *Server) handlePushSync(w http.ResponseWriter, r *http.Request) {
	var req pushSyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	stored, err := s.replaceBucket(r, req)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"bucket_key": req.BucketKey,
		"stored":     stored,
	})
}

// handlePushSyncBatch accepts several month buckets in one request. Buckets
// are replaced independently; the first failure aborts the remainder.
func (s *Server) handlePushSyncBatch(w http.ResponseWriter, r *http.Request) {
	var req pushSyncBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if len(req.Months) == 0 {
		writeBadRequest(w, "months must not be empty")
		return
	}

	totalStored := 0
	for _, month := range req.Months {
		stored, err := s.replaceBucket(r, month)
		if err != nil {
			writeBadRequest(w, err.Error())
			return
		}
		totalStored += stored
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"months_processed": len(req.Months),
		"total_stored":     totalStored,
	})
}

// replaceBucket validates and stores one pushed month bucket.
func (s *Server) replaceBucket(r *http.Request, req pushSyncRequest) (int, error) {
	if _, err := booking.ParseBucketKey(req.BucketKey, s.loc); err != nil {
		return 0, errors.New("invalid bucket key: " + req.BucketKey)
	}
	if err := s.sync.ReplaceBucket(r.Context(), req.BucketKey, req.Bookings); err != nil {
		s.logger.Error("push sync failed", "bucket", req.BucketKey, "error", err)
		return 0, errors.New("failed to store bucket " + req.BucketKey)
	}
	return len(req.Bookings), nil
}
