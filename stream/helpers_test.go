package stream

import (
	"context"
	"testing"

	"github.com/aws/aws-lambda-go/events"
)

// --- getStringAttr Tests ---

func TestGetStringAttr_ExistingString(t *testing.T) {
	image := map[string]events.DynamoDBAttributeValue{
		"pk": events.NewStringAttribute("alice#shoe_entries_json_v11.0"),
	}

	result := getStringAttr(image, "pk")
	if result != "alice#shoe_entries_json_v11.0" {
		t.Errorf("expected 'alice#shoe_entries_json_v11.0', got %q", result)
	}
}

func TestGetStringAttr_MissingKey(t *testing.T) {
	image := map[string]events.DynamoDBAttributeValue{
		"other": events.NewStringAttribute("value"),
	}

	result := getStringAttr(image, "pk")
	if result != "" {
		t.Errorf("expected empty string for missing key, got %q", result)
	}
}

func TestGetStringAttr_NilImage(t *testing.T) {
	var image map[string]events.DynamoDBAttributeValue

	result := getStringAttr(image, "pk")
	if result != "" {
		t.Errorf("expected empty string for nil image, got %q", result)
	}
}

func TestGetStringAttr_WrongType(t *testing.T) {
	image := map[string]events.DynamoDBAttributeValue{
		"pk": events.NewNumberAttribute("7"),
	}

	result := getStringAttr(image, "pk")
	if result != "" {
		t.Errorf("expected empty string for number attribute, got %q", result)
	}
}

// --- getNumberAttr Tests ---

func TestGetNumberAttr_ValidNumber(t *testing.T) {
	image := map[string]events.DynamoDBAttributeValue{
		"version": events.NewNumberAttribute("12"),
	}

	result := getNumberAttr(image, "version")
	if result != 12 {
		t.Errorf("expected 12, got %d", result)
	}
}

func TestGetNumberAttr_MissingKey(t *testing.T) {
	image := map[string]events.DynamoDBAttributeValue{}

	result := getNumberAttr(image, "version")
	if result != 0 {
		t.Errorf("expected 0 for missing key, got %d", result)
	}
}

func TestGetNumberAttr_StringAttribute(t *testing.T) {
	image := map[string]events.DynamoDBAttributeValue{
		"version": events.NewStringAttribute("12"),
	}

	result := getNumberAttr(image, "version")
	if result != 0 {
		t.Errorf("expected 0 for string attribute, got %d", result)
	}
}

func TestGetNumberAttr_NotInteger(t *testing.T) {
	image := map[string]events.DynamoDBAttributeValue{
		"version": events.NewNumberAttribute("1.5"),
	}

	result := getNumberAttr(image, "version")
	if result != 0 {
		t.Errorf("expected 0 for non-integer number, got %d", result)
	}
}

// --- getBinaryAttr Tests ---

func TestGetBinaryAttr_Valid(t *testing.T) {
	image := map[string]events.DynamoDBAttributeValue{
		"value": events.NewBinaryAttribute([]byte(`[]`)),
	}

	result := getBinaryAttr(image, "value")
	if string(result) != "[]" {
		t.Errorf("expected '[]', got %q", result)
	}
}

func TestGetBinaryAttr_WrongType(t *testing.T) {
	image := map[string]events.DynamoDBAttributeValue{
		"value": events.NewStringAttribute("[]"),
	}

	if result := getBinaryAttr(image, "value"); result != nil {
		t.Errorf("expected nil for string attribute, got %q", result)
	}
}

// --- processRecord Tests ---

func TestProcessRecord_SkipsOtherSlots(t *testing.T) {
	sink := &captureSink{}
	h := NewHandler("", sink, nil)

	record := events.DynamoDBEventRecord{
		EventName: "MODIFY",
		Change: events.DynamoDBStreamRecord{
			Keys: map[string]events.DynamoDBAttributeValue{
				"pk": events.NewStringAttribute("shoe_tracker_notes_v1"),
			},
			NewImage: map[string]events.DynamoDBAttributeValue{
				"value": events.NewBinaryAttribute([]byte("remember laces")),
			},
		},
	}

	if err := h.processRecord(context.Background(), record); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sink.audits) != 0 {
		t.Errorf("expected no audits for notes slot, got %d", len(sink.audits))
	}
}

func TestProcessRecord_FallsBackToImageKey(t *testing.T) {
	sink := &captureSink{}
	h := NewHandler("", sink, nil)

	record := events.DynamoDBEventRecord{
		EventName: "INSERT",
		Change: events.DynamoDBStreamRecord{
			NewImage: map[string]events.DynamoDBAttributeValue{
				"pk":    events.NewStringAttribute("shoe_entries_json_v11.0"),
				"value": events.NewBinaryAttribute([]byte(`[{"id":"a","brand":"Nike","color":"Red","size":"9"}]`)),
			},
		},
	}

	if err := h.processRecord(context.Background(), record); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sink.audits) != 1 {
		t.Fatalf("expected 1 audit, got %d", len(sink.audits))
	}
}

type captureSink struct {
	audits []Audit
	err    error
}

func (c *captureSink) Record(_ context.Context, a Audit) error {
	if c.err != nil {
		return c.err
	}
	c.audits = append(c.audits, a)
	return nil
}
