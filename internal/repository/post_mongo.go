package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/d60-Lab/restful-blog/internal/model"
)

// postDocument 集合中的文档结构；_id 由驱动生成
type postDocument struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	Title   string             `bson:"title"`
	Image   string             `bson:"image"`
	Body    string             `bson:"body"`
	Created time.Time          `bson:"created"`
}

func (d *postDocument) toModel() *model.Post {
	return &model.Post{
		ID:      d.ID.Hex(),
		Title:   d.Title,
		Image:   d.Image,
		Body:    d.Body,
		Created: d.Created,
	}
}

// MongoPostRepository 文档存储实现
type MongoPostRepository struct {
	coll *mongo.Collection
}

// NewMongoPostRepository 基于集合创建仓储
func NewMongoPostRepository(coll *mongo.Collection) *MongoPostRepository {
	return &MongoPostRepository{coll: coll}
}

// parseObjectID 非法的 hex 视同不存在
func parseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrNotFound
	}
	return oid, nil
}

func (r *MongoPostRepository) FindAll(ctx context.Context) ([]*model.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []postDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	posts := make([]*model.Post, len(docs))
	for i := range docs {
		posts[i] = docs[i].toModel()
	}
	return posts, nil
}

func (r *MongoPostRepository) FindByID(ctx context.Context, id string) (*model.Post, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	var doc postDocument
	err = r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *MongoPostRepository) Create(ctx context.Context, post *model.Post) error {
	doc := postDocument{
		Title:   post.Title,
		Image:   post.Image,
		Body:    post.Body,
		Created: post.Created,
	}
	res, err := r.coll.InsertOne(ctx, &doc)
	if err != nil {
		return err
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	post.ID = oid.Hex()
	return nil
}

func (r *MongoPostRepository) UpdateByID(ctx context.Context, id string, fields model.PostFields) (*model.Post, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "title", Value: fields.Title},
		{Key: "image", Value: fields.Image},
		{Key: "body", Value: fields.Body},
	}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc postDocument
	err = r.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, update, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *MongoPostRepository) DeleteByID(ctx context.Context, id string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// InitSchema 在 created 上建索引，用于列表排序
func (r *MongoPostRepository) InitSchema(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "created", Value: 1}},
		Options: options.Index().SetName("idx_post_created"),
	})
	if err != nil {
		return fmt.Errorf("failed to create posts index: %w", err)
	}
	return nil
}

func (r *MongoPostRepository) Ping(ctx context.Context) error {
	return r.coll.Database().Client().Ping(ctx, readpref.Primary())
}

// Close 断开客户端连接
func (r *MongoPostRepository) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return r.coll.Database().Client().Disconnect(ctx)
}
