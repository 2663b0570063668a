/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/dynarest/datastore"
	dserrors "github.com/suparena/dynarest/errors"
	"github.com/suparena/dynarest/schema"
)

// Store implements datastore.Store on a DynamoDB table. One Store serves
// one table with one key schema; it holds no other state between requests.
type Store struct {
	client    *sdk.Client
	tableName string
	keys      schema.KeySchema
}

// NewClient initializes a DynamoDB client using static AWS credentials.
func NewClient(awsAccessKey, awsSecretKey, awsRegion string) (*sdk.Client, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(awsRegion),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(awsAccessKey, awsSecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return sdk.NewFromConfig(cfg), nil
}

// New constructs a Store for the given table and key schema.
func New(client *sdk.Client, tableName string, keys schema.KeySchema) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		keys:      keys,
	}
}

// KeySchema returns the table's key layout.
func (s *Store) KeySchema() schema.KeySchema { return s.keys }

// GetItem retrieves a single item by key. Returns ErrNotFound when no item
// matches.
func (s *Store) GetItem(ctx context.Context, key datastore.Key) (datastore.Item, error) {
	keyAV, err := attributevalue.MarshalMap(key)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal key: %w", err)
	}

	out, err := s.client.GetItem(ctx, &sdk.GetItemInput{
		TableName: &s.tableName,
		Key:       keyAV,
	})
	if err != nil {
		return nil, fmt.Errorf("GetItem error: %w", err)
	}
	if out.Item == nil {
		return nil, dserrors.NewNotFoundError(s.tableName, s.formatKey(key))
	}

	var item datastore.Item
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal item: %w", err)
	}
	return item, nil
}

// PutItem stores a new item, conditioned on the key not already being
// taken. Returns ErrAlreadyExists on a key collision.
func (s *Store) PutItem(ctx context.Context, item datastore.Item) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}

	_, err = s.client.PutItem(ctx, &sdk.PutItemInput{
		TableName:           &s.tableName,
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#hk)"),
		ExpressionAttributeNames: map[string]string{
			"#hk": s.keys.HashKey,
		},
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return dserrors.NewAlreadyExistsError(s.tableName, s.formatKey(item))
		}
		return fmt.Errorf("PutItem failed: %w", err)
	}
	return nil
}

// UpdateItem merges the given fields into an existing item and returns the
// item's new state. Unmentioned fields retain their prior values. Returns
// ErrNotFound when the key does not exist.
func (s *Store) UpdateItem(ctx context.Context, key datastore.Key, updates datastore.Item) (datastore.Item, error) {
	keyAV, err := attributevalue.MarshalMap(key)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal key: %w", err)
	}

	updateExpr, exprAttrNames, exprAttrValues, err := buildUpdateExpression(updates)
	if err != nil {
		return nil, fmt.Errorf("failed to build update expression: %w", err)
	}
	exprAttrNames["#hk"] = s.keys.HashKey

	out, err := s.client.UpdateItem(ctx, &sdk.UpdateItemInput{
		TableName:                 &s.tableName,
		Key:                       keyAV,
		UpdateExpression:          &updateExpr,
		ExpressionAttributeNames:  exprAttrNames,
		ExpressionAttributeValues: exprAttrValues,
		ConditionExpression:       aws.String("attribute_exists(#hk)"),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return nil, dserrors.NewNotFoundError(s.tableName, s.formatKey(key))
		}
		return nil, fmt.Errorf("UpdateItem failed: %w", err)
	}

	var item datastore.Item
	if err := attributevalue.UnmarshalMap(out.Attributes, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal updated item: %w", err)
	}
	return item, nil
}

// DeleteItem removes an item by key. Unconditional, so repeated deletes of
// the same key succeed.
func (s *Store) DeleteItem(ctx context.Context, key datastore.Key) error {
	keyAV, err := attributevalue.MarshalMap(key)
	if err != nil {
		return fmt.Errorf("failed to marshal key: %w", err)
	}

	_, err = s.client.DeleteItem(ctx, &sdk.DeleteItemInput{
		TableName: &s.tableName,
		Key:       keyAV,
	})
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}

// formatKey renders a key (or an item containing one) for error messages.
func (s *Store) formatKey(key datastore.Key) string {
	parts := []string{fmt.Sprintf("%v", key[s.keys.HashKey])}
	if s.keys.RangeKey != "" {
		if v, ok := key[s.keys.RangeKey]; ok {
			parts = append(parts, fmt.Sprintf("%v", v))
		}
	}
	return strings.Join(parts, "/")
}
