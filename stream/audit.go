// Package stream provides a DynamoDB Streams handler that audits changes
// to the inventory snapshot stored by kv/dynamokv.
package stream

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/jacentio/shoetally/internal/fingerprint"
	"github.com/jacentio/shoetally/store"
)

// Audit describes one write of an entries slot.
type Audit struct {
	EventID   string
	EventName string

	// Owner is the key prefix of the slot ("" when unprefixed).
	Owner   string
	Version int64
	At      time.Time

	BeforeItems int
	AfterItems  int
	Changes     []store.Change
}

// Sink receives audits.
type Sink interface {
	Record(ctx context.Context, a Audit) error
}

// LogSink writes audits to a zap logger.
type LogSink struct {
	Logger *zap.Logger
}

// Record implements Sink.
func (s LogSink) Record(_ context.Context, a Audit) error {
	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(
		zap.String("eventID", a.EventID),
		zap.String("owner", a.Owner),
		zap.Int64("version", a.Version),
		zap.String("trace", fingerprint.Short(a.EventID)),
	)
	logger.Info("inventory changed",
		zap.String("event", a.EventName),
		zap.Int("changes", len(a.Changes)),
		zap.Int("itemsBefore", a.BeforeItems),
		zap.Int("itemsAfter", a.AfterItems),
	)
	for _, c := range a.Changes {
		logger.Info("row changed",
			zap.String("kind", string(c.Kind)),
			zap.String("brand", c.Brand),
			zap.String("color", c.Color),
			zap.String("size", c.Size),
			zap.Int("before", c.Before),
			zap.Int("after", c.After),
		)
	}
	return nil
}

// Handler processes DynamoDB stream events of the slot table.
type Handler struct {
	entriesKey string
	sink       Sink
	logger     *zap.Logger
}

// NewHandler creates a new stream handler auditing the slot named
// entriesKey (store.DefaultConfig().EntriesKey when empty). A nil sink logs
// audits to logger.
func NewHandler(entriesKey string, sink Sink, logger *zap.Logger) *Handler {
	if entriesKey == "" {
		entriesKey = store.DefaultConfig().EntriesKey
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if sink == nil {
		sink = LogSink{Logger: logger}
	}
	return &Handler{
		entriesKey: entriesKey,
		sink:       sink,
		logger:     logger,
	}
}

// HandleSnapshotChanges audits every entries-slot record in event.
// This function is designed to be used as an AWS Lambda handler.
func (h *Handler) HandleSnapshotChanges(ctx context.Context, event events.DynamoDBEvent) error {
	for _, record := range event.Records {
		if err := h.processRecord(ctx, record); err != nil {
			h.logger.Error("failed to process record",
				zap.String("eventID", record.EventID),
				zap.Error(err),
			)
			return err // Will retry, eventually DLQ
		}
	}
	return nil
}

// processRecord audits a single DynamoDB stream record.
func (h *Handler) processRecord(ctx context.Context, record events.DynamoDBEventRecord) error {
	pk := getStringAttr(record.Change.Keys, "pk")
	if pk == "" {
		pk = getStringAttr(record.Change.NewImage, "pk")
	}
	if pk == "" {
		pk = getStringAttr(record.Change.OldImage, "pk")
	}
	owner, ok := strings.CutSuffix(pk, h.entriesKey)
	if !ok {
		return nil
	}

	before := h.snapshot(record, record.Change.OldImage)
	after := h.snapshot(record, record.Change.NewImage)
	changes := store.Diff(before, after)
	if len(changes) == 0 {
		h.logger.Debug("snapshot rewritten without row changes",
			zap.String("eventID", record.EventID),
			zap.String("owner", owner),
		)
		return nil
	}

	version := getNumberAttr(record.Change.NewImage, "version")
	if version == 0 {
		version = getNumberAttr(record.Change.OldImage, "version")
	}
	audit := Audit{
		EventID:     record.EventID,
		EventName:   record.EventName,
		Owner:       owner,
		Version:     version,
		At:          record.Change.ApproximateCreationDateTime.Time,
		BeforeItems: store.TotalItems(before),
		AfterItems:  store.TotalItems(after),
		Changes:     changes,
	}
	if err := h.sink.Record(ctx, audit); err != nil {
		return fmt.Errorf("record audit: %w", err)
	}
	return nil
}

// snapshot decodes the entries held by an item image. Missing or corrupt
// values count as an empty collection, as they do for the store.
func (h *Handler) snapshot(record events.DynamoDBEventRecord, image map[string]events.DynamoDBAttributeValue) []store.Entry {
	value := getBinaryAttr(image, "value")
	if len(value) == 0 {
		return nil
	}
	entries, err := store.DecodeSnapshot(value)
	if err != nil {
		h.logger.Warn("undecodable snapshot in stream record",
			zap.String("eventID", record.EventID),
			zap.Error(err),
		)
		return nil
	}
	return entries
}

// getStringAttr extracts a string attribute from a DynamoDB stream image.
func getStringAttr(image map[string]events.DynamoDBAttributeValue, key string) string {
	if v, ok := image[key]; ok && v.DataType() == events.DataTypeString {
		return v.String()
	}
	return ""
}

// getNumberAttr extracts an integer attribute from a DynamoDB stream image.
func getNumberAttr(image map[string]events.DynamoDBAttributeValue, key string) int64 {
	if v, ok := image[key]; ok && v.DataType() == events.DataTypeNumber {
		n, _ := strconv.ParseInt(v.Number(), 10, 64)
		return n
	}
	return 0
}

// getBinaryAttr extracts a binary attribute from a DynamoDB stream image.
func getBinaryAttr(image map[string]events.DynamoDBAttributeValue, key string) []byte {
	if v, ok := image[key]; ok && v.DataType() == events.DataTypeBinary {
		return v.Binary()
	}
	return nil
}
