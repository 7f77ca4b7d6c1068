package mongorepos

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/trezcool/studentportal/core/user"
)

type userDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Email     string             `bson:"email"`
	Password  []byte             `bson:"password"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func newUserDoc(usr user.User) userDoc {
	doc := userDoc{
		Email:     usr.Email,
		Password:  usr.PasswordHash,
		CreatedAt: usr.CreatedAt,
		UpdatedAt: usr.UpdatedAt,
	}
	if oid, err := primitive.ObjectIDFromHex(usr.ID); err == nil {
		doc.ID = oid
	}
	return doc
}

func (doc userDoc) user() user.User {
	return user.User{
		ID:           doc.ID.Hex(),
		Email:        doc.Email,
		PasswordHash: doc.Password,
		CreatedAt:    utc(doc.CreatedAt),
		UpdatedAt:    utc(doc.UpdatedAt),
	}
}

type userRepository struct {
	coll *mongo.Collection
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *mongo.Database) user.Repository {
	return &userRepository{coll: db.Collection(usersCollection)}
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	doc := newUserDoc(usr)
	doc.ID = primitive.NewObjectID()
	if _, err := repo.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return doc.user(), nil
}

func (repo *userRepository) get(ctx context.Context, filter bson.M) (user.User, error) {
	var doc userDoc
	if err := repo.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "finding user")
	}
	return doc.user(), nil
}

func (repo *userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	oid, err := parseID(id)
	if err != nil {
		return user.User{}, err
	}
	return repo.get(ctx, bson.M{"_id": oid})
}

func (repo *userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	return repo.get(ctx, bson.M{"email": email})
}

func (repo *userRepository) CountUsersByEmail(ctx context.Context, email string) (int64, error) {
	count, err := repo.coll.CountDocuments(ctx, bson.M{"email": email})
	return count, errors.Wrap(err, "counting users")
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	oid, err := parseID(usr.ID)
	if err != nil {
		return user.User{}, err
	}
	update := bson.M{"$set": bson.M{
		"email":     usr.Email,
		"password":  usr.PasswordHash,
		"updatedAt": usr.UpdatedAt,
	}}
	res, err := repo.coll.UpdateByID(ctx, oid, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, errors.Wrap(err, "updating user")
	}
	if res.MatchedCount == 0 {
		return user.User{}, user.ErrNotFound
	}
	return repo.get(ctx, bson.M{"_id": oid})
}
