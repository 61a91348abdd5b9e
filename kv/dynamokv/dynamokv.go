// Package dynamokv stores slots as items of a DynamoDB table.
//
// Each slot is one item keyed by "pk" (string). Items carry a "version"
// number used for optimistic locking: a Put after a Get only succeeds if
// nobody replaced the item in between, otherwise it fails with
// [kv.ErrConcurrentModification] and the stored value is left untouched.
//
// # Table Layout
//
//	pk          S  slot key (with the configured prefix)
//	value       B  slot value
//	version     N  incremented on every write
//	updated_at  S  RFC 3339 timestamp of the last write
//
// [EnsureTable] creates a matching on-demand table with a NEW_AND_OLD_IMAGES
// stream, which the stream package consumes.
package dynamokv

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/shoetally/kv"
)

// API is the subset of the DynamoDB client used by Store.
type API interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// Config holds configuration for the Store.
type Config struct {
	// Table is the DynamoDB table name.
	// Default: "shoetally_slots"
	Table string

	// KeyPrefix namespaces slot keys, e.g. per user or device ("alice#").
	// Default: "" (no prefix)
	KeyPrefix string
}

// DefaultConfig returns the default table settings.
func DefaultConfig() Config {
	return Config{Table: "shoetally_slots"}
}

// validate fills in defaults for empty values.
func (c *Config) validate() {
	if c.Table == "" {
		c.Table = "shoetally_slots"
	}
}

// record is the decoded form of a slot item.
type record struct {
	PK        string `dynamodbav:"pk"`
	Value     []byte `dynamodbav:"value"`
	Version   int64  `dynamodbav:"version"`
	UpdatedAt string `dynamodbav:"updated_at"`
}

// Store is a DynamoDB-backed kv.Slots.
type Store struct {
	client API
	config Config

	mu sync.Mutex
	// versions holds the last observed version per slot key; 0 means the
	// slot was observed absent. Keys never observed are written blind.
	versions map[string]int64
}

var _ kv.Slots = (*Store)(nil)

// New creates a new Store.
func New(client API, config Config) *Store {
	config.validate()
	return &Store{
		client:   client,
		config:   config,
		versions: make(map[string]int64),
	}
}

// Table returns the configured table name.
func (s *Store) Table() string { return s.config.Table }

func (s *Store) itemKey(key string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"pk": &types.AttributeValueMemberS{Value: s.config.KeyPrefix + key},
	}
}

// Get implements kv.Slots.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if !kv.ValidKey(key) {
		return nil, kv.ErrInvalidKey
	}
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.config.Table),
		Key:            s.itemKey(key),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if result.Item == nil {
		s.observe(key, 0)
		return nil, kv.ErrNotFound
	}

	var rec record
	if err := attributevalue.UnmarshalMap(result.Item, &rec); err != nil {
		return nil, err
	}
	s.observe(key, rec.Version)
	if rec.Value == nil {
		rec.Value = []byte{}
	}
	return rec.Value, nil
}

// Put implements kv.Slots.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	if !kv.ValidKey(key) {
		return kv.ErrInvalidKey
	}
	if value == nil {
		value = []byte{}
	}

	expected, known := s.observed(key)
	item := s.itemKey(key)
	item["value"] = &types.AttributeValueMemberB{Value: value}
	item["version"] = &types.AttributeValueMemberN{Value: strconv.FormatInt(expected+1, 10)}
	item["updated_at"] = &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339)}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(s.config.Table),
		Item:      item,
	}
	switch {
	case known && expected == 0:
		input.ConditionExpression = aws.String("attribute_not_exists(pk)")
	case known:
		input.ConditionExpression = aws.String("#version = :expected_version")
		input.ExpressionAttributeNames = map[string]string{"#version": "version"}
		input.ExpressionAttributeValues = map[string]types.AttributeValue{
			":expected_version": &types.AttributeValueMemberN{Value: strconv.FormatInt(expected, 10)},
		}
	}

	if _, err := s.client.PutItem(ctx, input); err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			s.forget(key)
			return kv.ErrConcurrentModification
		}
		return err
	}

	if known {
		s.observe(key, expected+1)
	} else {
		// Blind write: the stored version is unknown until the next Get.
		s.forget(key)
	}
	return nil
}

// Delete implements kv.Slots.
func (s *Store) Delete(ctx context.Context, key string) error {
	if !kv.ValidKey(key) {
		return kv.ErrInvalidKey
	}
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.config.Table),
		Key:       s.itemKey(key),
	})
	if err != nil {
		return err
	}
	s.observe(key, 0)
	return nil
}

func (s *Store) observe(key string, version int64) {
	s.mu.Lock()
	s.versions[key] = version
	s.mu.Unlock()
}

func (s *Store) observed(key string) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.versions[key]
	return v, ok
}

func (s *Store) forget(key string) {
	s.mu.Lock()
	delete(s.versions, key)
	s.mu.Unlock()
}
