package main

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"

	"github.com/jacentio/shoetally/internal/config"
	"github.com/jacentio/shoetally/kv"
	"github.com/jacentio/shoetally/kv/dynamokv"
	"github.com/jacentio/shoetally/kv/filekv"
	"github.com/jacentio/shoetally/kv/sqlitekv"
)

// memorySlots is shared across commands so the memory backend survives
// between invocations within one process (the shell, tests).
var memorySlots = kv.NewMemory()

func noClose() error { return nil }

// openSlots opens the slot backend selected by sc. The returned function
// releases it.
func openSlots(ctx context.Context, sc config.StorageConfig, logger *zap.Logger) (kv.Slots, func() error, error) {
	switch sc.Backend {
	case config.BackendFile:
		s, err := filekv.New(filekv.Options{Dir: sc.DataDir})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open data directory: %w", err)
		}
		logger.Debug("using file backend", zap.String("dir", s.Dir()))
		return s, noClose, nil

	case config.BackendSQLite:
		s, err := sqlitekv.Open(sc.SQLitePath, logger.Named("sqlite"))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		return s, s.Close, nil

	case config.BackendDynamoDB:
		client, err := newDynamoClient(ctx, sc.DynamoDB)
		if err != nil {
			return nil, nil, err
		}
		s := dynamokv.New(client, dynamokv.Config{
			Table:     sc.DynamoDB.Table,
			KeyPrefix: sc.DynamoDB.KeyPrefix,
		})
		logger.Debug("using dynamodb backend",
			zap.String("table", s.Table()),
			zap.String("endpoint", sc.DynamoDB.Endpoint),
		)
		return s, noClose, nil

	case config.BackendMemory:
		return memorySlots, noClose, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", sc.Backend)
	}
}

// newDynamoClient builds a DynamoDB client from the dynamodb settings.
func newDynamoClient(ctx context.Context, sc config.DynamoDBConfig) (*dynamodb.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if sc.Region != "" {
		opts = append(opts, awsconfig.WithRegion(sc.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if sc.Endpoint != "" {
			o.BaseEndpoint = aws.String(sc.Endpoint)
		}
	}), nil
}
