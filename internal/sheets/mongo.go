package sheets

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Default connection timeout
const defaultTimeout = 10 * time.Second

// MongoStore keeps each table as a single ordered document in one
// collection, preserving the read/append/overwrite semantics the rest of
// the app expects from a spreadsheet tab.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type tableDoc struct {
	Table string     `bson:"table"`
	Rows  [][]string `bson:"rows"`
}

// ConnectMongoStore establishes a connection and pings the primary before
// handing the store back.
func ConnectMongoStore(uri, database string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, err
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection("tables"),
	}, nil
}

// Close gracefully disconnects the underlying client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) ReadTable(ctx context.Context, table string) ([][]string, error) {
	var doc tableDoc
	err := s.coll.FindOne(ctx, bson.M{"table": table}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadFailed, table, err)
	}
	return dropGhostRows(doc.Rows), nil
}

func (s *MongoStore) AppendRows(ctx context.Context, table string, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"table": table},
		bson.M{"$push": bson.M{"rows": bson.M{"$each": rows}}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("%w: append %s: %v", ErrWriteFailed, table, err)
	}
	return nil
}

func (s *MongoStore) OverwriteTable(ctx context.Context, table string, rows [][]string) error {
	if rows == nil {
		rows = [][]string{}
	}
	_, err := s.coll.ReplaceOne(ctx,
		bson.M{"table": table},
		tableDoc{Table: table, Rows: rows},
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("%w: overwrite %s: %v", ErrWriteFailed, table, err)
	}
	return nil
}
