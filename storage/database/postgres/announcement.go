package sqlxrepos

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/studentportal/core"
	"github.com/trezcool/studentportal/core/announcement"
)

type announcementRow struct {
	ID        string    `db:"id"`
	Title     string    `db:"title"`
	Content   string    `db:"content"`
	Author    string    `db:"author"`
	Priority  string    `db:"priority"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func newAnnouncementRow(ann announcement.Announcement) announcementRow {
	return announcementRow{
		ID:        ann.ID,
		Title:     ann.Title,
		Content:   ann.Content,
		Author:    ann.Author,
		Priority:  ann.Priority,
		IsActive:  ann.IsActive,
		CreatedAt: ann.CreatedAt.UTC(),
		UpdatedAt: ann.UpdatedAt.UTC(),
	}
}

func (r announcementRow) announcement() announcement.Announcement {
	return announcement.Announcement{
		ID:        r.ID,
		Title:     r.Title,
		Content:   r.Content,
		Author:    r.Author,
		Priority:  r.Priority,
		IsActive:  r.IsActive,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

type announcementRepository struct {
	db *sqlx.DB
}

var _ announcement.Repository = (*announcementRepository)(nil)

func NewAnnouncementRepository(db *sqlx.DB) announcement.Repository {
	return &announcementRepository{db: db}
}

func (repo *announcementRepository) trapNoRowsErr(err error, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return announcement.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo *announcementRepository) CreateAnnouncement(ctx context.Context, ann announcement.Announcement) (announcement.Announcement, error) {
	ann.ID = uuid.NewString()
	row := newAnnouncementRow(ann)
	q := `INSERT INTO announcements (id, title, content, author, priority, is_active, created_at, updated_at)
		VALUES (:id, :title, :content, :author, :priority, :is_active, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, row); err != nil {
		return announcement.Announcement{}, errors.Wrap(err, "inserting announcement")
	}
	return row.announcement(), nil
}

func (repo *announcementRepository) GetAnnouncement(ctx context.Context, id string) (announcement.Announcement, error) {
	if err := checkID(id); err != nil {
		return announcement.Announcement{}, err
	}
	var row announcementRow
	if err := repo.db.GetContext(ctx, &row, "SELECT * FROM announcements WHERE id = $1", id); err != nil {
		return announcement.Announcement{}, repo.trapNoRowsErr(err, "finding announcement")
	}
	return row.announcement(), nil
}

func (repo *announcementRepository) QueryAnnouncements(
	ctx context.Context,
	filter announcement.QueryFilter,
	page core.PageRequest,
) ([]announcement.Announcement, int64, error) {
	var (
		conds []string
		args  []interface{}
	)
	if filter.Priority != "" {
		args = append(args, filter.Priority)
		conds = append(conds, "priority = $"+strconv.Itoa(len(args)))
	}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		conds = append(conds, "is_active = $"+strconv.Itoa(len(args)))
	}
	where := whereClause(conds)

	var total int64
	if err := repo.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM announcements"+where, args...); err != nil {
		return nil, 0, errors.Wrap(err, "counting announcements")
	}

	q, args := paginate("SELECT * FROM announcements"+where+" ORDER BY created_at DESC, id DESC", args, page)
	var rows []announcementRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, 0, errors.Wrap(err, "querying announcements")
	}

	anns := make([]announcement.Announcement, 0, len(rows))
	for _, r := range rows {
		anns = append(anns, r.announcement())
	}
	return anns, total, nil
}

func (repo *announcementRepository) UpdateAnnouncement(ctx context.Context, ann announcement.Announcement) (announcement.Announcement, error) {
	if err := checkID(ann.ID); err != nil {
		return announcement.Announcement{}, err
	}
	row := newAnnouncementRow(ann)
	q := `UPDATE announcements
		SET title = :title, content = :content, author = :author, priority = :priority,
			is_active = :is_active, updated_at = :updated_at
		WHERE id = :id RETURNING *`
	rows, err := repo.db.NamedQueryContext(ctx, q, row)
	if err != nil {
		return announcement.Announcement{}, errors.Wrap(err, "updating announcement")
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return announcement.Announcement{}, errors.Wrap(err, "updating announcement")
		}
		return announcement.Announcement{}, announcement.ErrNotFound
	}
	var updated announcementRow
	if err = rows.StructScan(&updated); err != nil {
		return announcement.Announcement{}, errors.Wrap(err, "scanning announcement")
	}
	return updated.announcement(), nil
}

func (repo *announcementRepository) DeleteAnnouncement(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	res, err := repo.db.ExecContext(ctx, "DELETE FROM announcements WHERE id = $1", id)
	if err != nil {
		return errors.Wrap(err, "deleting announcement")
	}
	if n, err := res.RowsAffected(); err != nil {
		return errors.Wrap(err, "deleting announcement")
	} else if n == 0 {
		return announcement.ErrNotFound
	}
	return nil
}

func whereClause(conds []string) string {
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

// paginate appends LIMIT/OFFSET placeholders to q.
func paginate(q string, args []interface{}, page core.PageRequest) (string, []interface{}) {
	if page.Limit > 0 {
		args = append(args, page.Limit)
		q += " LIMIT $" + strconv.Itoa(len(args))
	}
	args = append(args, page.Offset())
	q += " OFFSET $" + strconv.Itoa(len(args))
	return q, args
}
