package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sbilibin2017/microblog/internal/logger"
	"github.com/sbilibin2017/microblog/internal/models"
	"github.com/sbilibin2017/microblog/internal/search"
)

const reindexBatch = 500

// SearchResult is one page of matching posts plus the total match count.
type SearchResult struct {
	models.Page[models.PostDB]
	Total int64 `json:"total"`
}

// SearchService answers text queries through the index and hydrates hits
// from the store.
type SearchService struct {
	index   SearchIndex
	posts   PostStore
	perPage int
}

func NewSearchService(index SearchIndex, posts PostStore, perPage int) *SearchService {
	return &SearchService{index: index, posts: posts, perPage: perPage}
}

// Search returns posts matching query, highest id first. With no matches
// the store is not consulted.
func (svc *SearchService) Search(ctx context.Context, query string, page int) (SearchResult, error) {
	if len(search.Tokenize(query)) == 0 {
		return SearchResult{}, ErrInvalidQuery
	}
	page, _ = models.Offset(page, svc.perPage)

	ids, total, err := svc.index.Query(ctx, models.PostIndex, query, page, svc.perPage)
	if errors.Is(err, search.ErrEmptyQuery) {
		return SearchResult{}, ErrInvalidQuery
	}
	if err != nil {
		logger.Log.Errorw("search index query failed", "query", query, "err", err)
		return SearchResult{}, fmt.Errorf("%w: %v", ErrSearchUnavailable, err)
	}

	result := SearchResult{
		Page: models.Page[models.PostDB]{
			Items:   []models.PostDB{},
			Page:    page,
			HasPrev: page > 1,
			HasNext: int64(page*svc.perPage) < total,
		},
		Total: total,
	}
	if total == 0 || len(ids) == 0 {
		return result, nil
	}

	posts, err := svc.posts.GetByIDs(ctx, ids)
	if err != nil {
		return SearchResult{}, err
	}
	result.Items = posts
	return result, nil
}

// Reindex re-upserts every stored post into the index and returns how
// many were written.
func (svc *SearchService) Reindex(ctx context.Context) (int, error) {
	var (
		afterID int64
		count   int
	)
	for {
		batch, err := svc.posts.AfterID(ctx, afterID, reindexBatch)
		if err != nil {
			return count, err
		}
		for i := range batch {
			p := &batch[i]
			if err := svc.index.Add(ctx, p.IndexName(), p.IndexID(), p.IndexFields()); err != nil {
				return count, fmt.Errorf("%w: %v", ErrSearchUnavailable, err)
			}
			count++
			afterID = p.ID
		}
		if len(batch) < reindexBatch {
			break
		}
	}
	logger.Log.Infow("reindex finished", "posts", count)
	return count, nil
}
