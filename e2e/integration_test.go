//go:build e2e

// Package e2e contains end-to-end integration tests using a real DynamoDB table.
// Run with: go test -tags=e2e -v ./e2e/...
//
// AWS credentials come from the default chain. Set SHOETALLY_E2E_PROFILE to
// use a named profile, or SHOETALLY_DYNAMODB_ENDPOINT to target DynamoDB Local.
package e2e

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/google/uuid"

	"github.com/jacentio/shoetally/catalog"
	"github.com/jacentio/shoetally/kv"
	"github.com/jacentio/shoetally/kv/dynamokv"
	"github.com/jacentio/shoetally/store"
)

// Table name prefix; the table is unique per test run to avoid conflicts.
const tablePrefix = "shoetally-e2e-test"

var (
	testID    string
	slotTable string

	ddbClient *dynamodb.Client
)

// --- Test Setup & Teardown ---

func TestMain(m *testing.M) {
	testID = uuid.New().String()[:8]
	slotTable = fmt.Sprintf("%s-%s-slots", tablePrefix, testID)

	fmt.Printf("Test ID: %s\n", testID)
	fmt.Printf("Table: %s\n", slotTable)

	ctx := context.Background()
	var opts []func(*config.LoadOptions) error
	if profile := os.Getenv("SHOETALLY_E2E_PROFILE"); profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		fmt.Printf("Failed to load AWS config: %v\n", err)
		os.Exit(1)
	}

	ddbClient = dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint := os.Getenv("SHOETALLY_DYNAMODB_ENDPOINT"); endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	fmt.Println("Creating test table...")
	if err := dynamokv.EnsureTable(ctx, ddbClient, slotTable, 2*time.Minute); err != nil {
		fmt.Printf("Failed to create table: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()

	fmt.Println("Deleting test table...")
	if _, err := ddbClient.DeleteTable(ctx, &dynamodb.DeleteTableInput{TableName: aws.String(slotTable)}); err != nil {
		fmt.Printf("Warning: failed to delete table %s: %v\n", slotTable, err)
	}

	os.Exit(code)
}

// newSlots returns slots namespaced to a fresh owner so tests do not share state.
func newSlots(t *testing.T) (*dynamokv.Store, string) {
	t.Helper()
	prefix := uuid.New().String()[:8] + "#"
	return dynamokv.New(ddbClient, dynamokv.Config{Table: slotTable, KeyPrefix: prefix}), prefix
}

// --- Slot Tests ---

func TestEnsureTable_Idempotent(t *testing.T) {
	if err := dynamokv.EnsureTable(context.Background(), ddbClient, slotTable, time.Minute); err != nil {
		t.Fatalf("EnsureTable on existing table failed: %v", err)
	}
}

func TestSlots_RoundTrip(t *testing.T) {
	ctx := context.Background()
	slots, _ := newSlots(t)

	if _, err := slots.Get(ctx, "notes"); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := slots.Put(ctx, "notes", []byte("hello")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	got, err := slots.Get(ctx, "notes")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != "hello" {
		t.Errorf("expected 'hello', got %q", got)
	}
	if err := slots.Delete(ctx, "notes"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := slots.Get(ctx, "notes"); !errors.Is(err, kv.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestSlots_OptimisticLock(t *testing.T) {
	ctx := context.Background()
	a, prefix := newSlots(t)
	b := dynamokv.New(ddbClient, dynamokv.Config{Table: slotTable, KeyPrefix: prefix})

	if err := a.Put(ctx, "entries", []byte("[]")); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if _, err := a.Get(ctx, "entries"); err != nil {
		t.Fatalf("Get a failed: %v", err)
	}
	if _, err := b.Get(ctx, "entries"); err != nil {
		t.Fatalf("Get b failed: %v", err)
	}

	if err := a.Put(ctx, "entries", []byte(`["a"]`)); err != nil {
		t.Fatalf("Put a failed: %v", err)
	}
	if err := b.Put(ctx, "entries", []byte(`["b"]`)); !errors.Is(err, kv.ErrConcurrentModification) {
		t.Errorf("expected ErrConcurrentModification, got %v", err)
	}
}

// --- Inventory Tests ---

func TestStore_AddAndMerge(t *testing.T) {
	ctx := context.Background()
	slots, _ := newSlots(t)
	s := store.New(slots, store.DefaultConfig(), nil)

	res, err := s.AddExpression(ctx, "Nike", "Red", "38-40, 39")
	if err != nil {
		t.Fatalf("AddExpression failed: %v", err)
	}
	if len(res.NewIDs) != 3 || res.Merged != 1 {
		t.Errorf("expected 3 new and 1 merged, got %d new and %d merged", len(res.NewIDs), res.Merged)
	}

	if _, err := s.Increment(ctx, res.NewIDs[0]); err != nil {
		t.Fatalf("Increment failed: %v", err)
	}

	entries, err := s.Entries(ctx)
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}
	if total := store.TotalItems(entries); total != 5 {
		t.Errorf("expected 5 items, got %d", total)
	}

	half, err := s.IncludeHalfSizes(ctx)
	if err != nil {
		t.Fatalf("IncludeHalfSizes failed: %v", err)
	}
	if half {
		t.Error("expected half sizes to default to false")
	}
}

func TestStore_ConcurrentWritersDoNotLoseUpdates(t *testing.T) {
	ctx := context.Background()
	_, prefix := newSlots(t)

	const writers = 4
	var wg sync.WaitGroup
	conflicts := make(chan error, writers*10)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			slots := dynamokv.New(ddbClient, dynamokv.Config{Table: slotTable, KeyPrefix: prefix})
			s := store.New(slots, store.DefaultConfig(), nil)
			for attempt := 0; attempt < 10; attempt++ {
				_, err := s.AddParsedSizes(ctx, "Vans", "Black", []string{fmt.Sprint(i)})
				if err == nil {
					return
				}
				conflicts <- err
			}
		}(i)
	}
	wg.Wait()
	close(conflicts)

	for err := range conflicts {
		if !errors.Is(err, kv.ErrConcurrentModification) {
			t.Errorf("unexpected error: %v", err)
		}
	}

	s := store.New(dynamokv.New(ddbClient, dynamokv.Config{Table: slotTable, KeyPrefix: prefix}), store.DefaultConfig(), nil)
	entries, err := s.Entries(ctx)
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}
	if len(entries) != writers {
		t.Errorf("expected %d rows, got %d", writers, len(entries))
	}
}

func TestCatalog_RoundTrip(t *testing.T) {
	ctx := context.Background()
	slots, _ := newSlots(t)
	c := catalog.NewStore(slots, "", nil)

	st, err := c.Import(ctx, []byte(`const c = {"Nike": ["Red", "Black"]};`))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if st.Brands != 1 || st.Colors != 2 {
		t.Errorf("unexpected stats: %+v", st)
	}

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	loaded, err := c.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded != nil {
		t.Errorf("expected no catalog after clear, got %v", loaded)
	}
}
