/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/dynarest/datastore"
)

// Query performs a key-scoped read, optionally against a secondary index.
// One call returns one page; the caller resumes with the returned cursor.
func (s *Store) Query(ctx context.Context, in *datastore.QueryInput) (*datastore.Page, error) {
	builder := expression.NewBuilder().
		WithKeyCondition(buildKeyCondition(in.KeyConditions))
	if len(in.Filters) > 0 {
		builder = builder.WithFilter(buildFilter(in.Filters))
	}
	expr, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build query expression: %w", err)
	}

	input := &sdk.QueryInput{
		TableName:                 &s.tableName,
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}
	if in.IndexName != "" {
		input.IndexName = &in.IndexName
	}
	if in.Limit > 0 {
		input.Limit = &in.Limit
	}
	if in.Cursor != "" {
		startKey, err := decodeCursor(in.Cursor)
		if err != nil {
			return nil, fmt.Errorf("invalid cursor: %w", err)
		}
		input.ExclusiveStartKey = startKey
	}

	out, err := s.client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	return s.page(out.Items, out.LastEvaluatedKey)
}

// Scan performs an unscoped read over the whole table.
func (s *Store) Scan(ctx context.Context, in *datastore.ScanInput) (*datastore.Page, error) {
	input := &sdk.ScanInput{
		TableName: &s.tableName,
	}
	if len(in.Filters) > 0 {
		expr, err := expression.NewBuilder().
			WithFilter(buildFilter(in.Filters)).
			Build()
		if err != nil {
			return nil, fmt.Errorf("failed to build scan expression: %w", err)
		}
		input.FilterExpression = expr.Filter()
		input.ExpressionAttributeNames = expr.Names()
		input.ExpressionAttributeValues = expr.Values()
	}
	if in.Limit > 0 {
		input.Limit = &in.Limit
	}
	if in.Cursor != "" {
		startKey, err := decodeCursor(in.Cursor)
		if err != nil {
			return nil, fmt.Errorf("invalid cursor: %w", err)
		}
		input.ExclusiveStartKey = startKey
	}

	out, err := s.client.Scan(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("scan error: %w", err)
	}
	return s.page(out.Items, out.LastEvaluatedKey)
}

func (s *Store) page(rawItems []map[string]types.AttributeValue, lastKey map[string]types.AttributeValue) (*datastore.Page, error) {
	items := make([]datastore.Item, 0, len(rawItems))
	for _, raw := range rawItems {
		var item datastore.Item
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			return nil, fmt.Errorf("failed to unmarshal item: %w", err)
		}
		items = append(items, item)
	}

	page := &datastore.Page{Items: items}
	if len(lastKey) > 0 {
		cursor, err := encodeCursor(lastKey)
		if err != nil {
			return nil, fmt.Errorf("failed to encode cursor: %w", err)
		}
		page.Cursor = cursor
	}
	return page, nil
}
