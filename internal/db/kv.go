package db

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/pgxscan"
	"github.com/jackc/pgx/v4/pgxpool"

	"gitlab.com/agorahq/agora/internal/poll"
)

const pollVotesTree = "poll_votes"

// PollVotes returns the key-value namespace holding poll submissions. It
// satisfies poll.KV, keeping the poll engine ignorant of Postgres.
func (sdb *SharedDB) PollVotes() *KVTree {
	return &KVTree{name: pollVotesTree, db: sdb.db}
}

// KVTree is a byte-keyed namespace backed by a two-column table. Insert
// overwrites on duplicate key; ScanPrefix walks keys in ascending order.
type KVTree struct {
	name string
	db   *pgxpool.Pool
}

func (t *KVTree) Insert(ctx context.Context, key, value []byte) error {
	sql, args, _ := psql.
		Insert(t.name).
		Columns("key", "value").
		Values(key, value).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value").
		ToSql()
	_, err := t.db.Exec(ctx, sql, args...)
	return err
}

func (t *KVTree) ScanPrefix(ctx context.Context, prefix []byte) ([]poll.KVPair, error) {
	q := psql.
		Select("key", "value").
		From(t.name).
		Where(sq.GtOrEq{"key": prefix}).
		OrderBy("key")
	if end := prefixEnd(prefix); end != nil {
		q = q.Where(sq.Lt{"key": end})
	}
	sql, args, _ := q.ToSql()

	pairs := []poll.KVPair{}
	err := pgxscan.Select(ctx, t.db, &pairs, sql, args...)
	if err != nil {
		return nil, err
	}
	return pairs, nil
}

// prefixEnd is the smallest key ordered after every key sharing prefix, or
// nil when no such key exists (prefix is all 0xff).
func prefixEnd(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
