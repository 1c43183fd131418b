package config

import (
	"os"
	"strconv"

	"allai/services"
)

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func GetPort() string {
	return getenv("PORT", getenv("JS_PORT", "4000"))
}

func GetJWTSecret() string {
	return getenv("JWT_SECRET", "dev_secret_change_me")
}

func GetOpenAIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}

func GetOpenAIModel() string {
	return getenv("OPENAI_MODEL", "gpt-4o-mini")
}

// GetUserStore returns "dynamodb", "postgres" or "memory".
func GetUserStore() string {
	return getenv("USER_STORE", "dynamodb")
}

func GetAWSRegion() string {
	return getenv("AWS_REGION", "us-east-1")
}

// GetDynamoEndpoint defaults to DynamoDB Local. Set it to "aws" to use the
// regular AWS endpoint resolution.
func GetDynamoEndpoint() string {
	v := getenv("DYNAMODB_ENDPOINT", "http://localhost:8000")
	if v == "aws" {
		return ""
	}
	return v
}

func GetDynamoTable() string {
	return getenv("DYNAMODB_TABLE", "Users")
}

func GetPostgresURI() string {
	return getenv("POSTGRES_URI", "host=localhost port=5432 user=postgres password=postgres dbname=allai sslmode=disable")
}

// GetAuthRateLimit is the sustained auth requests per second allowed per client IP.
func GetAuthRateLimit() float64 {
	v, err := strconv.ParseFloat(os.Getenv("AUTH_RATE_LIMIT"), 64)
	if err != nil || v <= 0 {
		return 5
	}
	return v
}

// GetStoreOptions collects the user store settings from the environment.
func GetStoreOptions() services.StoreOptions {
	return services.StoreOptions{
		Kind:           GetUserStore(),
		AWSRegion:      GetAWSRegion(),
		DynamoEndpoint: GetDynamoEndpoint(),
		DynamoTable:    GetDynamoTable(),
		PostgresURI:    GetPostgresURI(),
	}
}
