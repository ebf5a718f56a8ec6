// Package mongo implementa el adapter MongoDB.
//
// Un documento por usuario en la colección "users"; el historial es un array
// embebido (mail_history) que solo crece vía $push.
package mongo

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

	"github.com/dropDatabas3/hellomail/internal/domain/repository"
	store "github.com/dropDatabas3/hellomail/internal/store"
)

func init() {
	store.RegisterAdapter(&mongoAdapter{})
}

const (
	defaultDatabase = "hellomail"
	usersCollection = "users"
)

type mongoAdapter struct{}

func (a *mongoAdapter) Name() string { return "mongo" }

func (a *mongoAdapter) Connect(ctx context.Context, cfg store.AdapterConfig) (store.AdapterConnection, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("mongo: URI required")
	}

	opts := options.Client().ApplyURI(cfg.DSN)
	if cfg.MaxOpenConns > 0 {
		opts.SetMaxPoolSize(uint64(cfg.MaxOpenConns))
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo: ping failed: %w", err)
	}

	dbName := cfg.Database
	if dbName == "" {
		dbName = defaultDatabase
	}

	return &mongoConnection{
		client: client,
		users:  client.Database(dbName).Collection(usersCollection),
	}, nil
}

type mongoConnection struct {
	client *mongo.Client
	users  *mongo.Collection
}

func (c *mongoConnection) Name() string { return "mongo" }

func (c *mongoConnection) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

func (c *mongoConnection) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return c.client.Disconnect(ctx)
}

// Migrate asegura el índice único por email.
func (c *mongoConnection) Migrate(ctx context.Context) error {
	_, err := c.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	if err != nil {
		return fmt.Errorf("mongo: create email index: %w", err)
	}
	return nil
}

func (c *mongoConnection) Users() repository.UserRepository { return &userRepo{coll: c.users} }

// ─── Documento ───

// userDoc es el layout persistido; los nombres de campo siguen el esquema histórico.
type userDoc struct {
	ID          primitive.ObjectID        `bson:"_id,omitempty"`
	Name        string                    `bson:"name"`
	Email       string                    `bson:"email"`
	Password    string                    `bson:"password"`
	FromMail    string                    `bson:"from_mail"`
	AppPassword string                    `bson:"app_password"`
	Provider    string                    `bson:"provider"`
	MailHistory []repository.HistoryEntry `bson:"mail_history"`
	CreatedAt   time.Time                 `bson:"createdAt"`
	UpdatedAt   time.Time                 `bson:"updatedAt"`
}

func (d *userDoc) toDomain() *repository.User {
	history := d.MailHistory
	if history == nil {
		history = []repository.HistoryEntry{}
	}
	return &repository.User{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.Password,
		Sender: repository.SenderSettings{
			FromMail:    d.FromMail,
			AppPassword: d.AppPassword,
			Provider:    d.Provider,
		},
		History:   history,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// senderSet arma el $set de UpdateSender; solo incluye los campos presentes.
func senderSet(upd repository.SenderUpdate, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	if upd.FromMail != nil {
		set["from_mail"] = *upd.FromMail
	}
	if upd.AppPassword != nil {
		set["app_password"] = *upd.AppPassword
	}
	if upd.Provider != nil {
		set["provider"] = *upd.Provider
	}
	return set
}

// ─── UserRepository ───

type userRepo struct {
	coll *mongo.Collection
}

func (r *userRepo) Create(ctx context.Context, in repository.CreateUserInput) (*repository.User, error) {
	email := repository.NormalizeEmail(in.Email)
	if email == "" {
		return nil, repository.ErrInvalidInput
	}

	now := time.Now().UTC()
	doc := userDoc{
		ID:          primitive.NewObjectID(),
		Name:        in.Name,
		Email:       email,
		Password:    in.PasswordHash,
		MailHistory: []repository.HistoryEntry{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, repository.ErrEmailTaken
		}
		return nil, fmt.Errorf("mongo: insert user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*repository.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*repository.User, error) {
	return r.findOne(ctx, bson.M{"email": repository.NormalizeEmail(email)})
}

func (r *userRepo) findOne(ctx context.Context, filter bson.M) (*repository.User, error) {
	var doc userDoc
	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongo: find user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *userRepo) UpdateSender(ctx context.Context, id string, upd repository.SenderUpdate) (*repository.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc userDoc
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": senderSet(upd, time.Now().UTC())}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongo: update sender: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *userRepo) AppendHistory(ctx context.Context, id string, entry repository.HistoryEntry) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrNotFound
	}

	update := bson.M{
		"$push": bson.M{"mail_history": entry},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("mongo: append history: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *userRepo) ListHistory(ctx context.Context, id string) ([]repository.HistoryEntry, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}

	var doc userDoc
	opts := options.FindOne().SetProjection(bson.M{"mail_history": 1})
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongo: list history: %w", err)
	}
	if doc.MailHistory == nil {
		return []repository.HistoryEntry{}, nil
	}
	return doc.MailHistory, nil
}
