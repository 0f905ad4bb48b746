package main

import (
	"context"
	"log"
	"os"

	"glamgo/internal/cognito"
	"glamgo/internal/trigger"
	"glamgo/internal/util"

	"github.com/aws/aws-lambda-go/lambda"
)

func main() {
	if err := util.InitLogger(getEnv("ENV", "production")); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	// Created once per execution environment and reused across invocations.
	client, err := cognito.New(context.Background(), os.Getenv("AWS_REGION"))
	if err != nil {
		log.Fatalf("Failed to create Cognito client: %v", err)
	}

	handler := trigger.NewHandler(client, util.GetLogger())
	lambda.Start(handler.Handle)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
