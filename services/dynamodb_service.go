package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"allai/models"
)

// DynamoUserStore keeps users in a DynamoDB table with Email as the hash key.
type DynamoUserStore struct {
	db    *dynamodb.Client
	table string
}

func NewDynamoUserStore(db *dynamodb.Client, table string) *DynamoUserStore {
	return &DynamoUserStore{db: db, table: table}
}

// GetDynamoDBClient builds a client against endpoint. An empty endpoint uses
// the default AWS resolution and credential chain; a set endpoint (DynamoDB
// Local) uses static dummy credentials.
func GetDynamoDBClient(ctx context.Context, region, endpoint string) (*dynamodb.Client, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if endpoint != "" {
		customResolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			return aws.Endpoint{URL: endpoint}, nil
		})
		opts = append(opts,
			config.WithEndpointResolverWithOptions(customResolver),
			config.WithCredentialsProvider(credentials.StaticCredentialsProvider{
				Value: aws.Credentials{
					AccessKeyID: "dummy", SecretAccessKey: "dummy", SessionToken: "dummy",
				},
			}),
		)
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	return dynamodb.NewFromConfig(cfg), nil
}

func (s *DynamoUserStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(s.table),
		AttributeDefinitions: []types.AttributeDefinition{
			{
				AttributeName: aws.String("Email"),
				AttributeType: types.ScalarAttributeTypeS,
			},
		},
		KeySchema: []types.KeySchemaElement{
			{
				AttributeName: aws.String("Email"),
				KeyType:       types.KeyTypeHash,
			},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	var inUse *types.ResourceInUseException
	if errors.As(err, &inUse) {
		log.Printf("DynamoDB table %s already exists", s.table)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create table %s: %w", s.table, err)
	}
	return nil
}

func (s *DynamoUserStore) Create(ctx context.Context, user models.User) error {
	_, err := s.db.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item: map[string]types.AttributeValue{
			"Email":        &types.AttributeValueMemberS{Value: NormalizeEmail(user.Email)},
			"ID":           &types.AttributeValueMemberS{Value: user.ID},
			"Name":         &types.AttributeValueMemberS{Value: user.Name},
			"PasswordHash": &types.AttributeValueMemberS{Value: user.PasswordHash},
			"UserClass":    &types.AttributeValueMemberS{Value: user.UserClass},
			"CreatedAt":    &types.AttributeValueMemberS{Value: user.CreatedAt.Format(time.RFC3339)},
		},
		ConditionExpression: aws.String("attribute_not_exists(Email)"),
	})
	var conflict *types.ConditionalCheckFailedException
	if errors.As(err, &conflict) {
		return ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("failed to put user: %w", err)
	}
	return nil
}

func (s *DynamoUserStore) FindByEmail(ctx context.Context, email string) (models.User, error) {
	result, err := s.db.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			"Email": &types.AttributeValueMemberS{Value: NormalizeEmail(email)},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return models.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	if len(result.Item) == 0 {
		return models.User{}, ErrUserNotFound
	}

	createdAt, _ := time.Parse(time.RFC3339, stringAttr(result.Item, "CreatedAt"))
	return models.User{
		ID:           stringAttr(result.Item, "ID"),
		Email:        stringAttr(result.Item, "Email"),
		Name:         stringAttr(result.Item, "Name"),
		PasswordHash: stringAttr(result.Item, "PasswordHash"),
		UserClass:    stringAttr(result.Item, "UserClass"),
		CreatedAt:    createdAt,
	}, nil
}

func stringAttr(item map[string]types.AttributeValue, name string) string {
	if v, ok := item[name].(*types.AttributeValueMemberS); ok {
		return v.Value
	}
	return ""
}
