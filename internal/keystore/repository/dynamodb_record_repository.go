// Package repository implements keystore record persistence on DynamoDB,
// PostgreSQL and MySQL. Every implementation stores the flat credstash attribute
// layout and leaves version ordering to keystoreDomain.LatestItem.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	apperrors "github.com/allisson/keystore/internal/errors"
	keystoreDomain "github.com/allisson/keystore/internal/keystore/domain"
)

const (
	// dynamoHashKey and dynamoRangeKey form the table's primary key.
	dynamoHashKey  = "ParameterName"
	dynamoRangeKey = "version"

	// dynamoV1Version is the range key of v1 items. Key attributes cannot be empty,
	// and validation.Version rejects surrounding whitespace, so no v2 version can
	// share this key with a v1 item.
	dynamoV1Version = " "

	tableActiveTimeout = 5 * time.Minute
)

// DynamoDBAPI is the subset of *dynamodb.Client used by DynamoDBRecordRepository.
type DynamoDBAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (
		*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (
		*dynamodb.GetItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (
		*dynamodb.QueryOutput, error)
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (
		*dynamodb.CreateTableOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (
		*dynamodb.DescribeTableOutput, error)
}

// dynamoItem maps keystoreDomain.Item onto the credstash attribute names.
type dynamoItem struct {
	ParameterName  string `dynamodbav:"ParameterName"`
	Version        string `dynamodbav:"version"`
	Name           string `dynamodbav:"name,omitempty"`
	Value          string `dynamodbav:"Value,omitempty"`
	Key            string `dynamodbav:"key,omitempty"`
	Contents       string `dynamodbav:"contents,omitempty"`
	HMAC           string `dynamodbav:"hmac,omitempty"`
	KeystoreFormat string `dynamodbav:"keystore_format,omitempty"`
}

func toDynamoItem(item keystoreDomain.Item) dynamoItem {
	version := item.Version
	if version == "" {
		version = dynamoV1Version
	}
	return dynamoItem{
		ParameterName:  item.ParameterName,
		Version:        version,
		Name:           item.Name,
		Value:          item.Value,
		Key:            item.Key,
		Contents:       item.Contents,
		HMAC:           item.HMAC,
		KeystoreFormat: item.KeystoreFormat,
	}
}

func (d dynamoItem) toDomain() keystoreDomain.Item {
	version := d.Version
	if keystoreDomain.Format(d.KeystoreFormat) != keystoreDomain.FormatV2 {
		version = ""
	}
	return keystoreDomain.Item{
		ParameterName:  d.ParameterName,
		Version:        version,
		Name:           d.Name,
		Value:          d.Value,
		Key:            d.Key,
		Contents:       d.Contents,
		HMAC:           d.HMAC,
		KeystoreFormat: d.KeystoreFormat,
	}
}

// DynamoDBRecordRepository implements record persistence on DynamoDB tables keyed by
// ParameterName (hash) and version (range).
type DynamoDBRecordRepository struct {
	client DynamoDBAPI
}

// Put writes item unconditionally.
func (d *DynamoDBRecordRepository) Put(ctx context.Context, table string, item keystoreDomain.Item) error {
	av, err := attributevalue.MarshalMap(toDynamoItem(item))
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal record")
	}

	_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(table),
		Item:      av,
	})
	if err != nil {
		return apperrors.Wrap(err, "failed to put record")
	}
	return nil
}

// PutIfAbsent writes item unless an item with the same name and version exists.
func (d *DynamoDBRecordRepository) PutIfAbsent(ctx context.Context, table string, item keystoreDomain.Item) error {
	av, err := attributevalue.MarshalMap(toDynamoItem(item))
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal record")
	}

	// The condition is evaluated against the item at the full primary key, so it
	// only fails for an existing name and version pair.
	_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(table),
		Item:                     av,
		ConditionExpression:      aws.String("attribute_not_exists(#pn)"),
		ExpressionAttributeNames: map[string]string{"#pn": dynamoHashKey},
	})
	if err != nil {
		var conditionErr *types.ConditionalCheckFailedException
		if errors.As(err, &conditionErr) {
			return fmt.Errorf("%w: %s version %s", keystoreDomain.ErrRecordExists, item.ParameterName, item.Version)
		}
		return apperrors.Wrap(err, "failed to put record")
	}
	return nil
}

// GetByVersion reads the item at name and version with a consistent read.
func (d *DynamoDBRecordRepository) GetByVersion(
	ctx context.Context,
	table, name, version string,
) (keystoreDomain.Item, error) {
	out, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(table),
		Key: map[string]types.AttributeValue{
			dynamoHashKey:  &types.AttributeValueMemberS{Value: name},
			dynamoRangeKey: &types.AttributeValueMemberS{Value: version},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return keystoreDomain.Item{}, apperrors.Wrap(err, "failed to get record")
	}
	if len(out.Item) == 0 {
		return keystoreDomain.Item{}, keystoreDomain.ErrKeyNotFound
	}

	var item dynamoItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return keystoreDomain.Item{}, apperrors.Wrap(err, "failed to unmarshal record")
	}
	return item.toDomain(), nil
}

// GetLatest queries every item stored under name and returns the highest version.
// The range key sorts as a string ("10" < "9"), so all pages are read and ordered
// with keystoreDomain.LatestItem instead of trusting Limit=1.
func (d *DynamoDBRecordRepository) GetLatest(
	ctx context.Context,
	table, name string,
) (keystoreDomain.Item, error) {
	paginator := dynamodb.NewQueryPaginator(d.client, &dynamodb.QueryInput{
		TableName:                aws.String(table),
		KeyConditionExpression:   aws.String("#pn = :name"),
		ExpressionAttributeNames: map[string]string{"#pn": dynamoHashKey},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":name": &types.AttributeValueMemberS{Value: name},
		},
		ScanIndexForward: aws.Bool(false),
		ConsistentRead:   aws.Bool(true),
	})

	var items []keystoreDomain.Item
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return keystoreDomain.Item{}, apperrors.Wrap(err, "failed to query records")
		}

		var pageItems []dynamoItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &pageItems); err != nil {
			return keystoreDomain.Item{}, apperrors.Wrap(err, "failed to unmarshal records")
		}
		for _, item := range pageItems {
			items = append(items, item.toDomain())
		}
	}

	latest, ok := keystoreDomain.LatestItem(items)
	if !ok {
		return keystoreDomain.Item{}, keystoreDomain.ErrKeyNotFound
	}
	return latest, nil
}

// CreateTable creates a keystore table and waits until it is active. An existing
// table is left untouched.
func (d *DynamoDBRecordRepository) CreateTable(ctx context.Context, table string) error {
	_, err := d.client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(table),
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String(dynamoHashKey), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String(dynamoRangeKey), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(dynamoHashKey), KeyType: types.KeyTypeHash},
			{AttributeName: aws.String(dynamoRangeKey), KeyType: types.KeyTypeRange},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	if err != nil {
		var inUseErr *types.ResourceInUseException
		if errors.As(err, &inUseErr) {
			return nil
		}
		return apperrors.Wrap(err, "failed to create table")
	}

	waiter := dynamodb.NewTableExistsWaiter(d.client)
	if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(table)}, tableActiveTimeout); err != nil {
		return apperrors.Wrap(err, "failed waiting for table")
	}
	return nil
}

// Ping reports whether table exists and is usable.
func (d *DynamoDBRecordRepository) Ping(ctx context.Context, table string) error {
	out, err := d.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(table)})
	if err != nil {
		return apperrors.Wrap(err, "failed to describe table")
	}
	if out.Table == nil || out.Table.TableStatus != types.TableStatusActive {
		return fmt.Errorf("table %s is not active", table)
	}
	return nil
}

// NewDynamoDBRecordRepository creates a new DynamoDB record repository.
func NewDynamoDBRecordRepository(client DynamoDBAPI) *DynamoDBRecordRepository {
	return &DynamoDBRecordRepository{client: client}
}
