/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/dynarest/datastore"
)

func TestBuildUpdateExpression(t *testing.T) {
	expr, names, values, err := buildUpdateExpression(datastore.Item{
		"views":   int64(5),
		"subject": "hello",
	})
	if err != nil {
		t.Fatalf("buildUpdateExpression failed: %v", err)
	}

	// Fields sort alphabetically, so subject is #f0 and views is #f1.
	want := "SET #f0 = :v0, #f1 = :v1"
	if expr != want {
		t.Errorf("expression = %q, want %q", expr, want)
	}
	if names["#f0"] != "subject" || names["#f1"] != "views" {
		t.Errorf("unexpected names: %v", names)
	}

	s, ok := values[":v0"].(*types.AttributeValueMemberS)
	if !ok || s.Value != "hello" {
		t.Errorf("values[:v0] = %v, want S hello", values[":v0"])
	}
	n, ok := values[":v1"].(*types.AttributeValueMemberN)
	if !ok || n.Value != "5" {
		t.Errorf("values[:v1] = %v, want N 5", values[":v1"])
	}
}

func TestBuildUpdateExpressionEmpty(t *testing.T) {
	if _, _, _, err := buildUpdateExpression(datastore.Item{}); err == nil {
		t.Error("expected error for empty update set")
	}
}

func TestBuildFilterExpression(t *testing.T) {
	builder := expression.NewBuilder().WithFilter(buildFilter(datastore.Item{
		"views":      int64(5),
		"forum_name": "general",
	}))
	expr, err := builder.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if expr.Filter() == nil || *expr.Filter() == "" {
		t.Fatal("expected a filter expression")
	}
	if len(expr.Values()) != 2 {
		t.Errorf("expected 2 expression values, got %d", len(expr.Values()))
	}
}

func TestBuildKeyConditionExpression(t *testing.T) {
	builder := expression.NewBuilder().WithKeyCondition(buildKeyCondition(datastore.Key{
		"forum_name": "general",
		"subject":    "hello",
	}))
	expr, err := builder.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if expr.KeyCondition() == nil || *expr.KeyCondition() == "" {
		t.Fatal("expected a key condition expression")
	}
}
