package mongorepos

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/trezcool/studentportal/core"
	"github.com/trezcool/studentportal/core/announcement"
)

type announcementDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Content   string             `bson:"content"`
	Author    string             `bson:"author"`
	Priority  string             `bson:"priority"`
	IsActive  bool               `bson:"isActive"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func newAnnouncementDoc(ann announcement.Announcement) announcementDoc {
	return announcementDoc{
		Title:     ann.Title,
		Content:   ann.Content,
		Author:    ann.Author,
		Priority:  ann.Priority,
		IsActive:  ann.IsActive,
		CreatedAt: ann.CreatedAt,
		UpdatedAt: ann.UpdatedAt,
	}
}

func (doc announcementDoc) announcement() announcement.Announcement {
	return announcement.Announcement{
		ID:        doc.ID.Hex(),
		Title:     doc.Title,
		Content:   doc.Content,
		Author:    doc.Author,
		Priority:  doc.Priority,
		IsActive:  doc.IsActive,
		CreatedAt: utc(doc.CreatedAt),
		UpdatedAt: utc(doc.UpdatedAt),
	}
}

type announcementRepository struct {
	coll *mongo.Collection
}

var _ announcement.Repository = (*announcementRepository)(nil)

func NewAnnouncementRepository(db *mongo.Database) announcement.Repository {
	return &announcementRepository{coll: db.Collection(announcementsCollection)}
}

func (repo *announcementRepository) CreateAnnouncement(ctx context.Context, ann announcement.Announcement) (announcement.Announcement, error) {
	doc := newAnnouncementDoc(ann)
	doc.ID = primitive.NewObjectID()
	if _, err := repo.coll.InsertOne(ctx, doc); err != nil {
		return announcement.Announcement{}, errors.Wrap(err, "inserting announcement")
	}
	return doc.announcement(), nil
}

func (repo *announcementRepository) GetAnnouncement(ctx context.Context, id string) (announcement.Announcement, error) {
	oid, err := parseID(id)
	if err != nil {
		return announcement.Announcement{}, err
	}

	var doc announcementDoc
	if err = repo.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return announcement.Announcement{}, announcement.ErrNotFound
		}
		return announcement.Announcement{}, errors.Wrap(err, "finding announcement")
	}
	return doc.announcement(), nil
}

func (repo *announcementRepository) QueryAnnouncements(
	ctx context.Context,
	filter announcement.QueryFilter,
	page core.PageRequest,
) ([]announcement.Announcement, int64, error) {
	query := bson.M{}
	if filter.Priority != "" {
		query["priority"] = filter.Priority
	}
	if filter.IsActive != nil {
		query["isActive"] = *filter.IsActive
	}

	total, err := repo.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, errors.Wrap(err, "counting announcements")
	}

	cur, err := repo.coll.Find(ctx, query, findOptions(page, newestFirst))
	if err != nil {
		return nil, 0, errors.Wrap(err, "finding announcements")
	}
	var docs []announcementDoc
	if err = cur.All(ctx, &docs); err != nil {
		return nil, 0, errors.Wrap(err, "decoding announcements")
	}

	anns := make([]announcement.Announcement, 0, len(docs))
	for _, doc := range docs {
		anns = append(anns, doc.announcement())
	}
	return anns, total, nil
}

func (repo *announcementRepository) UpdateAnnouncement(ctx context.Context, ann announcement.Announcement) (announcement.Announcement, error) {
	oid, err := parseID(ann.ID)
	if err != nil {
		return announcement.Announcement{}, err
	}

	doc := newAnnouncementDoc(ann)
	update := bson.M{"$set": bson.M{
		"title":     doc.Title,
		"content":   doc.Content,
		"author":    doc.Author,
		"priority":  doc.Priority,
		"isActive":  doc.IsActive,
		"updatedAt": doc.UpdatedAt,
	}}
	res, err := repo.coll.UpdateByID(ctx, oid, update)
	if err != nil {
		return announcement.Announcement{}, errors.Wrap(err, "updating announcement")
	}
	if res.MatchedCount == 0 {
		return announcement.Announcement{}, announcement.ErrNotFound
	}
	return repo.GetAnnouncement(ctx, ann.ID)
}

func (repo *announcementRepository) DeleteAnnouncement(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := repo.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return errors.Wrap(err, "deleting announcement")
	}
	if res.DeletedCount == 0 {
		return announcement.ErrNotFound
	}
	return nil
}
