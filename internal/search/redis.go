// Package search maintains a full-text index of posts outside the store of
// record.
package search

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sbilibin2017/microblog/internal/logger"
)

// ErrEmptyQuery is returned by Query when the query has no tokens.
var ErrEmptyQuery = errors.New("search query has no terms")

const queryKeyTTL = 30 * time.Second

// RedisIndex is an inverted index kept in Redis.
//
// Layout per index name:
//
//	search:<index>:doc:<id>         hash of indexed fields
//	search:<index>:doc:<id>:terms   set of terms the document was indexed under
//	search:<index>:term:<term>      sorted set of document ids, score = id
//
// Scoring by id means results come back newest document first.
type RedisIndex struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisIndex creates a RedisIndex.
func NewRedisIndex(client redis.UniversalClient) *RedisIndex {
	return &RedisIndex{client: client, prefix: "search"}
}

func (ix *RedisIndex) docKey(index string, id int64) string {
	return fmt.Sprintf("%s:%s:doc:%d", ix.prefix, index, id)
}

func (ix *RedisIndex) termsKey(index string, id int64) string {
	return ix.docKey(index, id) + ":terms"
}

func (ix *RedisIndex) termKey(index, term string) string {
	return fmt.Sprintf("%s:%s:term:%s", ix.prefix, index, term)
}

// Add upserts a document. Terms it was previously indexed under and no
// longer contains are dropped.
func (ix *RedisIndex) Add(ctx context.Context, index string, id int64, fields map[string]string) error {
	oldTerms, err := ix.client.SMembers(ctx, ix.termsKey(index, id)).Result()
	if err != nil {
		return fmt.Errorf("read terms of %s/%d: %w", index, id, err)
	}

	terms := termsOf(fields)
	member := strconv.FormatInt(id, 10)

	_, err = ix.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, t := range oldTerms {
			pipe.ZRem(ctx, ix.termKey(index, t), member)
		}
		pipe.Del(ctx, ix.docKey(index, id), ix.termsKey(index, id))

		values := make([]any, 0, len(fields)*2)
		for k, v := range fields {
			values = append(values, k, v)
		}
		if len(values) > 0 {
			pipe.HSet(ctx, ix.docKey(index, id), values...)
		}
		if len(terms) > 0 {
			members := make([]any, len(terms))
			for i, t := range terms {
				members[i] = t
				pipe.ZAdd(ctx, ix.termKey(index, t), redis.Z{Score: float64(id), Member: member})
			}
			pipe.SAdd(ctx, ix.termsKey(index, id), members...)
		}
		return nil
	})

	logger.Log.Debugw("index add", "index", index, "id", id, "terms", len(terms), "error", err)

	if err != nil {
		return fmt.Errorf("index %s/%d: %w", index, id, err)
	}
	return nil
}

// Remove deletes a document. Removing an unknown id is not an error.
func (ix *RedisIndex) Remove(ctx context.Context, index string, id int64) error {
	terms, err := ix.client.SMembers(ctx, ix.termsKey(index, id)).Result()
	if err != nil {
		return fmt.Errorf("read terms of %s/%d: %w", index, id, err)
	}

	member := strconv.FormatInt(id, 10)
	_, err = ix.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, t := range terms {
			pipe.ZRem(ctx, ix.termKey(index, t), member)
		}
		pipe.Del(ctx, ix.docKey(index, id), ix.termsKey(index, id))
		return nil
	})

	logger.Log.Debugw("index remove", "index", index, "id", id, "error", err)

	if err != nil {
		return fmt.Errorf("remove %s/%d: %w", index, id, err)
	}
	return nil
}

// Query returns one page of ids of documents containing every term of
// query, highest id first, and the total number of matches. page is
// 1-based.
func (ix *RedisIndex) Query(ctx context.Context, index, query string, page, perPage int) ([]int64, int64, error) {
	terms := Tokenize(query)
	if len(terms) == 0 {
		return nil, 0, ErrEmptyQuery
	}
	if page < 1 {
		page = 1
	}

	key, err := ix.resultKey(ctx, index, terms)
	if err != nil {
		return nil, 0, err
	}

	start := int64((page - 1) * perPage)
	stop := start + int64(perPage) - 1

	var (
		total   *redis.IntCmd
		members *redis.StringSliceCmd
	)
	_, err = ix.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		total = pipe.ZCard(ctx, key)
		members = pipe.ZRevRange(ctx, key, start, stop)
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("query %s: %w", index, err)
	}

	ids := make([]int64, 0, len(members.Val()))
	for _, m := range members.Val() {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			return nil, 0, fmt.Errorf("corrupt member %q in %s: %w", m, key, err)
		}
		ids = append(ids, id)
	}

	logger.Log.Debugw("index query", "index", index, "terms", terms, "total", total.Val(), "page", page)

	return ids, total.Val(), nil
}

// resultKey returns a sorted set holding the matches of terms. A single
// term is served from its posting list directly; several terms are
// intersected into a short-lived cache key.
func (ix *RedisIndex) resultKey(ctx context.Context, index string, terms []string) (string, error) {
	if len(terms) == 1 {
		return ix.termKey(index, terms[0]), nil
	}

	sorted := append([]string(nil), terms...)
	sort.Strings(sorted)
	sum := sha1.Sum([]byte(strings.Join(sorted, "\x00")))
	dest := fmt.Sprintf("%s:%s:query:%s", ix.prefix, index, hex.EncodeToString(sum[:]))

	keys := make([]string, len(sorted))
	for i, t := range sorted {
		keys[i] = ix.termKey(index, t)
	}

	_, err := ix.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZInterStore(ctx, dest, &redis.ZStore{Keys: keys, Aggregate: "MAX"})
		pipe.Expire(ctx, dest, queryKeyTTL)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("intersect terms: %w", err)
	}
	return dest, nil
}

// Ping checks the index is reachable.
func (ix *RedisIndex) Ping(ctx context.Context) error {
	return ix.client.Ping(ctx).Err()
}

func termsOf(fields map[string]string) []string {
	names := make([]string, 0, len(fields))
	for k := range fields {
		names = append(names, k)
	}
	sort.Strings(names)

	var parts []string
	for _, k := range names {
		parts = append(parts, fields[k])
	}
	return Tokenize(strings.Join(parts, " "))
}
