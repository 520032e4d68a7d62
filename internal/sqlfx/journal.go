package sqlfx

import (
	"github.com/jmoiron/sqlx"

	"github.com/yurykabanov/logrotated/pkg/catalog"
	"github.com/yurykabanov/logrotated/pkg/http/handler"
	"github.com/yurykabanov/logrotated/pkg/storage"
)

func JournalRepository(db *sqlx.DB) (
	*storage.JournalRepository,
	catalog.JournalRepository,
	handler.JournalRepository,
) {
	repo := storage.NewJournalRepository(db)

	return repo, repo, repo
}
