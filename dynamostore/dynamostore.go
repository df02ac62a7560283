// Package dynamostore provides a DynamoDB-backed implementation of the
// lattice store contract.
//
// Entities live in a single table keyed by "id". Entity fields are kept in
// a nested "fields" map attribute; an "inserted_at" timestamp preserves the
// insertion order that List reports. Reads use strongly consistent
// operations so the CRUD contract holds immediately after a write.
//
// Every operation is a blocking DynamoDB call with no implied timeout;
// callers impose their own deadline through the context.
package dynamostore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/lattice/store"
)

// DynamoAPI is the subset of the DynamoDB client used by Store.
// *dynamodb.Client satisfies it; tests substitute a fake.
type DynamoAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// Store implements store.Store against a DynamoDB table.
type Store struct {
	client DynamoAPI
	table  string
	config store.Config
}

var _ store.Store = (*Store)(nil)

// New creates a Store backed by the given table.
func New(client DynamoAPI, table string, config store.Config) *Store {
	config.Validate()
	return &Store{
		client: client,
		table:  table,
		config: config,
	}
}

// Insert adds a new entity with a conditional put, so a key collision fails
// atomically with store.ErrDuplicateKey.
func (s *Store) Insert(ctx context.Context, e store.Entity) (store.Entity, error) {
	key, err := s.config.ResolveKey(e.Key)
	if err != nil {
		return store.Entity{}, err
	}

	fields, err := attributevalue.MarshalMap(e.Fields)
	if err != nil {
		return store.Entity{}, fmt.Errorf("marshal fields: %w", err)
	}

	item := map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: key},
		"inserted_at": &types.AttributeValueMemberN{
			Value: strconv.FormatInt(time.Now().UnixNano(), 10),
		},
		"fields": &types.AttributeValueMemberM{Value: fields},
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return store.Entity{}, store.ErrDuplicateKey
		}
		return store.Entity{}, err
	}

	stored := store.Entity{Key: key, Fields: e.Fields}
	return stored, nil
}

// Get retrieves an entity by key with a strongly consistent read.
func (s *Store) Get(ctx context.Context, key string) (store.Entity, error) {
	if key == "" {
		return store.Entity{}, store.ErrEmptyKey
	}

	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.table),
		Key:            s.key(key),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return store.Entity{}, err
	}
	if result.Item == nil {
		return store.Entity{}, store.ErrNotFound
	}

	e, _, err := unmarshalItem(result.Item)
	return e, err
}

// List scans the table and returns all entities ordered by insertion time.
func (s *Store) List(ctx context.Context) ([]store.Entity, error) {
	type row struct {
		entity     store.Entity
		insertedAt int64
	}

	var rows []row
	paginator := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName:      aws.String(s.table),
		ConsistentRead: aws.Bool(true),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, raw := range page.Items {
			e, insertedAt, err := unmarshalItem(raw)
			if err != nil {
				return nil, err
			}
			rows = append(rows, row{entity: e, insertedAt: insertedAt})
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].insertedAt != rows[j].insertedAt {
			return rows[i].insertedAt < rows[j].insertedAt
		}
		return rows[i].entity.Key < rows[j].entity.Key
	})

	entities := make([]store.Entity, 0, len(rows))
	for _, r := range rows {
		entities = append(entities, r.entity)
	}
	return entities, nil
}

// Update replaces the stored fields wholesale. The conditional update keeps
// the original inserted_at, so the entity keeps its List position.
func (s *Store) Update(ctx context.Context, key string, e store.Entity) (store.Entity, error) {
	if key == "" {
		return store.Entity{}, store.ErrEmptyKey
	}

	fields, err := attributevalue.MarshalMap(e.Fields)
	if err != nil {
		return store.Entity{}, fmt.Errorf("marshal fields: %w", err)
	}

	result, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(s.table),
		Key:                 s.key(key),
		UpdateExpression:    aws.String("SET #fields = :fields"),
		ConditionExpression: aws.String("attribute_exists(id)"),
		ExpressionAttributeNames: map[string]string{
			"#fields": "fields",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":fields": &types.AttributeValueMemberM{Value: fields},
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return store.Entity{}, store.ErrNotFound
		}
		return store.Entity{}, err
	}

	updated, _, err := unmarshalItem(result.Attributes)
	return updated, err
}

// Delete removes an entity, returning the removed value from ALL_OLD.
func (s *Store) Delete(ctx context.Context, key string) (store.Entity, error) {
	if key == "" {
		return store.Entity{}, store.ErrEmptyKey
	}

	result, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(s.table),
		Key:                 s.key(key),
		ConditionExpression: aws.String("attribute_exists(id)"),
		ReturnValues:        types.ReturnValueAllOld,
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return store.Entity{}, store.ErrNotFound
		}
		return store.Entity{}, err
	}

	removed, _, err := unmarshalItem(result.Attributes)
	return removed, err
}

// key builds the primary key for an entity id.
func (s *Store) key(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
}

// unmarshalItem converts a raw DynamoDB item into an entity plus its
// insertion timestamp.
func unmarshalItem(raw map[string]types.AttributeValue) (store.Entity, int64, error) {
	var e store.Entity

	id, ok := raw["id"].(*types.AttributeValueMemberS)
	if !ok {
		return store.Entity{}, 0, fmt.Errorf("item has no string id attribute")
	}
	e.Key = id.Value

	if m, ok := raw["fields"].(*types.AttributeValueMemberM); ok {
		fields := make(map[string]any, len(m.Value))
		if err := attributevalue.UnmarshalMap(m.Value, &fields); err != nil {
			return store.Entity{}, 0, fmt.Errorf("unmarshal fields: %w", err)
		}
		e.Fields = fields
	}

	var insertedAt int64
	if n, ok := raw["inserted_at"].(*types.AttributeValueMemberN); ok {
		insertedAt, _ = strconv.ParseInt(n.Value, 10, 64)
	}

	return e, insertedAt, nil
}
