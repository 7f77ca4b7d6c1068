package inmemdb

import (
	"context"

	"github.com/trezcool/studentportal/core"
	"github.com/trezcool/studentportal/core/announcement"
)

type announcementRepository struct {
	db *table[announcement.Announcement]
}

var _ announcement.Repository = (*announcementRepository)(nil)

func NewAnnouncementRepository(db *DB) announcement.Repository {
	return &announcementRepository{db: db.announcement}
}

func (repo *announcementRepository) CreateAnnouncement(_ context.Context, ann announcement.Announcement) (announcement.Announcement, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.seq++
	ann.ID = newID()
	repo.db.rows[ann.ID] = &record[announcement.Announcement]{seq: repo.db.seq, val: ann}
	return ann, nil
}

func (repo *announcementRepository) GetAnnouncement(_ context.Context, id string) (announcement.Announcement, error) {
	if err := checkID(id); err != nil {
		return announcement.Announcement{}, err
	}

	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if r, ok := repo.db.rows[id]; ok {
		return r.val, nil
	}
	return announcement.Announcement{}, announcement.ErrNotFound
}

func (repo *announcementRepository) QueryAnnouncements(
	_ context.Context,
	filter announcement.QueryFilter,
	page core.PageRequest,
) ([]announcement.Announcement, int64, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	keep := func(ann announcement.Announcement) bool {
		if filter.Priority != "" && ann.Priority != filter.Priority {
			return false
		}
		if filter.IsActive != nil && ann.IsActive != *filter.IsActive {
			return false
		}
		return true
	}
	anns := repo.db.sorted(keep, func(a, b announcement.Announcement) bool {
		return newestFirst(a.CreatedAt, b.CreatedAt)
	})
	return paginate(anns, page), int64(len(anns)), nil
}

func (repo *announcementRepository) UpdateAnnouncement(_ context.Context, ann announcement.Announcement) (announcement.Announcement, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	r, ok := repo.db.rows[ann.ID]
	if !ok {
		return announcement.Announcement{}, announcement.ErrNotFound
	}
	ann.CreatedAt = r.val.CreatedAt
	r.val = ann
	return ann, nil
}

func (repo *announcementRepository) DeleteAnnouncement(_ context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}

	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.rows[id]; !ok {
		return announcement.ErrNotFound
	}
	delete(repo.db.rows, id)
	return nil
}
