// Package database opens the storage engine selected by the configuration.
package database

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/studentportal/core"
	"github.com/trezcool/studentportal/core/announcement"
	"github.com/trezcool/studentportal/core/quiz"
	"github.com/trezcool/studentportal/core/user"
	inmemdb "github.com/trezcool/studentportal/storage/database/inmem"
	mongorepos "github.com/trezcool/studentportal/storage/database/mongo"
	sqlxrepos "github.com/trezcool/studentportal/storage/database/postgres"
)

var ErrUnknownEngine = errors.New("unknown database engine")

// Repositories groups the repositories of one storage engine.
type Repositories struct {
	Engine       string
	User         user.Repository
	Announcement announcement.Repository
	Quiz         quiz.Repository

	close func() error
}

// Close releases the underlying connection.
func (r *Repositories) Close() error {
	if r.close == nil {
		return nil
	}
	return r.close()
}

// Open connects to conf.Database.Engine, prepares it (indexes or migrations) and returns its repositories.
func Open(ctx context.Context, conf *core.Config, logger core.Logger) (*Repositories, error) {
	switch conf.Database.Engine {
	case core.EngineMongo:
		client, db, err := mongorepos.Connect(ctx, conf)
		if err != nil {
			return nil, err
		}
		if err = mongorepos.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		logger.Info(fmt.Sprintf("connected to mongodb database %q", conf.Database.Name))
		return &Repositories{
			Engine:       core.EngineMongo,
			User:         mongorepos.NewUserRepository(db),
			Announcement: mongorepos.NewAnnouncementRepository(db),
			Quiz:         mongorepos.NewQuizRepository(db),
			close:        func() error { return client.Disconnect(context.Background()) },
		}, nil

	case core.EnginePostgres:
		db, err := sqlxrepos.Setup(ctx, conf)
		if err != nil {
			return nil, err
		}
		logger.Info(fmt.Sprintf("connected to postgres database %q", conf.Database.Name))
		return &Repositories{
			Engine:       core.EnginePostgres,
			User:         sqlxrepos.NewUserRepository(db),
			Announcement: sqlxrepos.NewAnnouncementRepository(db),
			Quiz:         sqlxrepos.NewQuizRepository(db),
			close:        db.Close,
		}, nil

	case core.EngineMemory:
		logger.Warn("using the in-memory database: data is lost on exit")
		return NewInMemory(), nil
	}
	return nil, errors.Wrapf(ErrUnknownEngine, "%q", conf.Database.Engine)
}

// NewInMemory returns repositories backed by process memory.
func NewInMemory() *Repositories {
	db := inmemdb.New()
	return &Repositories{
		Engine:       core.EngineMemory,
		User:         inmemdb.NewUserRepository(db),
		Announcement: inmemdb.NewAnnouncementRepository(db),
		Quiz:         inmemdb.NewQuizRepository(db),
		close:        db.Close,
	}
}
