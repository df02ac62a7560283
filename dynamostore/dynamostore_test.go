package dynamostore_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/lattice/dynamostore"
	"github.com/jacentio/lattice/store"
)

// fakeDynamo implements dynamostore.DynamoAPI over a plain map, honoring
// the conditional expressions the store relies on.
type fakeDynamo struct {
	items map[string]map[string]types.AttributeValue

	// failWith, when set, is returned from every call.
	failWith error
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{items: make(map[string]map[string]types.AttributeValue)}
}

func itemID(item map[string]types.AttributeValue) string {
	if v, ok := item["id"].(*types.AttributeValueMemberS); ok {
		return v.Value
	}
	return ""
}

func keyID(key map[string]types.AttributeValue) string {
	return itemID(key)
}

func condFailed() error {
	return &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}
}

func copyItem(item map[string]types.AttributeValue) map[string]types.AttributeValue {
	out := make(map[string]types.AttributeValue, len(item))
	for k, v := range item {
		out[k] = v
	}
	return out
}

func (f *fakeDynamo) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	id := itemID(params.Item)
	if params.ConditionExpression != nil {
		if _, exists := f.items[id]; exists {
			return nil, condFailed()
		}
	}
	f.items[id] = copyItem(params.Item)
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	item, ok := f.items[keyID(params.Key)]
	if !ok {
		return &dynamodb.GetItemOutput{}, nil
	}
	return &dynamodb.GetItemOutput{Item: copyItem(item)}, nil
}

func (f *fakeDynamo) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	id := keyID(params.Key)
	item, ok := f.items[id]
	if !ok {
		return nil, condFailed()
	}
	// The store's only update expression is SET #fields = :fields.
	item = copyItem(item)
	item["fields"] = params.ExpressionAttributeValues[":fields"]
	f.items[id] = item
	return &dynamodb.UpdateItemOutput{Attributes: copyItem(item)}, nil
}

func (f *fakeDynamo) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	id := keyID(params.Key)
	item, ok := f.items[id]
	if !ok {
		return nil, condFailed()
	}
	delete(f.items, id)
	return &dynamodb.DeleteItemOutput{Attributes: item}, nil
}

func (f *fakeDynamo) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	var out []map[string]types.AttributeValue
	for _, item := range f.items {
		out = append(out, copyItem(item))
	}
	return &dynamodb.ScanOutput{Items: out, Count: int32(len(out))}, nil
}

func newStore(t *testing.T) (*dynamostore.Store, *fakeDynamo) {
	t.Helper()
	fake := newFakeDynamo()
	return dynamostore.New(fake, "lattice-test", store.DefaultConfig()), fake
}

func entry(key, title string) store.Entity {
	return store.Entity{
		Key:    key,
		Fields: map[string]any{"title": title},
	}
}

func title(e store.Entity) string {
	s, _ := e.Fields["title"].(string)
	return s
}

func TestStore_InsertThenGet(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	stored, err := s.Insert(ctx, entry("1", "A"))
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if stored.Key != "1" {
		t.Errorf("expected key 1, got %q", stored.Key)
	}

	got, err := s.Get(ctx, "1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Key != "1" || title(got) != "A" {
		t.Errorf("expected {1, A}, got {%s, %s}", got.Key, title(got))
	}
}

func TestStore_InsertDuplicate(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	if _, err := s.Insert(ctx, entry("1", "A")); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if _, err := s.Insert(ctx, entry("1", "B")); !errors.Is(err, store.ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestStore_AbsentKey(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	tests := []struct {
		name string
		op   func() error
	}{
		{"Get", func() error { _, err := s.Get(ctx, "missing"); return err }},
		{"Update", func() error { _, err := s.Update(ctx, "missing", entry("missing", "X")); return err }},
		{"Delete", func() error { _, err := s.Delete(ctx, "missing"); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.op(); !errors.Is(err, store.ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestStore_UpdateReplacesFields(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	if _, err := s.Insert(ctx, store.Entity{
		Key:    "1",
		Fields: map[string]any{"title": "A", "content": "body"},
	}); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	updated, err := s.Update(ctx, "1", entry("1", "A2"))
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if title(updated) != "A2" {
		t.Errorf("expected title A2, got %q", title(updated))
	}
	if _, hasContent := updated.Fields["content"]; hasContent {
		t.Error("expected full replace, but old field survived the update")
	}
}

func TestStore_DeleteReturnsRemoved(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	if _, err := s.Insert(ctx, entry("1", "A")); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	removed, err := s.Delete(ctx, "1")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if removed.Key != "1" || title(removed) != "A" {
		t.Errorf("expected removed {1, A}, got {%s, %s}", removed.Key, title(removed))
	}

	if _, err := s.Get(ctx, "1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestStore_ListInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	for i := 1; i <= 3; i++ {
		key := fmt.Sprintf("%d", i)
		if _, err := s.Insert(ctx, entry(key, "v"+key)); err != nil {
			t.Fatalf("Insert %s: %v", key, err)
		}
	}

	got, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 entities, got %d", len(got))
	}
	for i, e := range got {
		want := fmt.Sprintf("%d", i+1)
		if e.Key != want {
			t.Errorf("position %d: expected key %s, got %s", i, want, e.Key)
		}
	}
}

func TestStore_EmptyKey(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	if _, err := s.Insert(ctx, entry("", "A")); !errors.Is(err, store.ErrEmptyKey) {
		t.Errorf("Insert: expected ErrEmptyKey, got %v", err)
	}
	if _, err := s.Get(ctx, ""); !errors.Is(err, store.ErrEmptyKey) {
		t.Errorf("Get: expected ErrEmptyKey, got %v", err)
	}
}

func TestStore_AssignKeys(t *testing.T) {
	ctx := context.Background()

	cfg := store.DefaultConfig()
	cfg.AssignKeys = true
	cfg.KeyFunc = func() string { return "generated" }
	s := dynamostore.New(newFakeDynamo(), "lattice-test", cfg)

	stored, err := s.Insert(ctx, entry("", "A"))
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if stored.Key != "generated" {
		t.Errorf("expected assigned key, got %q", stored.Key)
	}
}

func TestStore_ClientErrorPassesThrough(t *testing.T) {
	ctx := context.Background()
	fake := newFakeDynamo()
	fake.failWith = errors.New("throttled")
	s := dynamostore.New(fake, "lattice-test", store.DefaultConfig())

	if _, err := s.Get(ctx, "1"); err == nil || errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected raw client error, got %v", err)
	}
}
