// Command shoetally-stream is an AWS Lambda function consuming the DynamoDB
// stream of the slot table. It logs an audit of every change to the
// inventory snapshot.
//
// Environment:
//
//	SHOETALLY_CONFIG       configuration file (optional)
//	SHOETALLY_ENTRIES_KEY  entries slot name, without key prefix (optional)
//	SHOETALLY_LOG_LEVEL    debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/jacentio/shoetally/internal/config"
	"github.com/jacentio/shoetally/internal/logging"
	"github.com/jacentio/shoetally/stream"
)

func main() {
	path := os.Getenv("SHOETALLY_CONFIG")
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if cfg.Logging.Level == "warn" && os.Getenv("SHOETALLY_LOG_LEVEL") == "" {
		cfg.Logging.Level = "info"
	}
	cfg.Logging.Format = "json"

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	handler := stream.NewHandler(os.Getenv("SHOETALLY_ENTRIES_KEY"), nil, logger.Named("stream"))
	logger.Info("starting stream handler", zap.String("config", path))
	lambda.Start(handler.HandleSnapshotChanges)
}
