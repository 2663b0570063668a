/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/dynarest/datastore"
)

// buildUpdateExpression transforms a map of field->value into:
//   - an "update expression" (e.g., "SET #f0 = :v0, #f1 = :v1")
//   - a corresponding map of expression attribute names
//   - a corresponding map of expression attribute values
//
// Fields are processed in sorted order so the expression is deterministic.
func buildUpdateExpression(updates datastore.Item) (string,
	map[string]string,
	map[string]types.AttributeValue,
	error) {

	if len(updates) == 0 {
		return "", nil, nil, errors.New("no updates provided")
	}

	fields := make([]string, 0, len(updates))
	for field := range updates {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	setClauses := make([]string, 0, len(updates))
	exprAttrNames := make(map[string]string, len(updates)+1)
	exprAttrValues := make(map[string]types.AttributeValue, len(updates))

	for i, field := range fields {
		placeholderName := fmt.Sprintf("#f%d", i)
		placeholderValue := fmt.Sprintf(":v%d", i)

		av, err := attributevalue.Marshal(updates[field])
		if err != nil {
			return "", nil, nil, fmt.Errorf("failed to marshal value for field %q: %w", field, err)
		}

		setClauses = append(setClauses, fmt.Sprintf("%s = %s", placeholderName, placeholderValue))
		exprAttrNames[placeholderName] = field
		exprAttrValues[placeholderValue] = av
	}

	updateExpr := "SET " + strings.Join(setClauses, ", ")
	return updateExpr, exprAttrNames, exprAttrValues, nil
}

// buildFilter chains equality conditions over the filter map, in sorted
// field order.
func buildFilter(filters datastore.Item) expression.ConditionBuilder {
	fields := make([]string, 0, len(filters))
	for field := range filters {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var cond expression.ConditionBuilder
	for i, field := range fields {
		eq := expression.Name(field).Equal(expression.Value(filters[field]))
		if i == 0 {
			cond = eq
		} else {
			cond = cond.And(eq)
		}
	}
	return cond
}

// buildKeyCondition chains equality conditions over the key condition map,
// in sorted field order.
func buildKeyCondition(conditions datastore.Key) expression.KeyConditionBuilder {
	fields := make([]string, 0, len(conditions))
	for field := range conditions {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var cond expression.KeyConditionBuilder
	for i, field := range fields {
		eq := expression.Key(field).Equal(expression.Value(conditions[field]))
		if i == 0 {
			cond = eq
		} else {
			cond = cond.And(eq)
		}
	}
	return cond
}
