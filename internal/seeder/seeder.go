// Package seeder populates the content backend with synthetic authors, tags and articles.
//
// Batches are best-effort: a rejected record is logged and recorded in the BatchResult, and the batch
// carries on with the next one. Only cancelling the context stops a batch early.
package seeder

import (
	"context"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/armadaproject/cmsbench/internal/common/cmserrors"
	"github.com/armadaproject/cmsbench/internal/common/logging"
	"github.com/armadaproject/cmsbench/pkg/client/domain"
)

const (
	AuthorsCollection  = "authors"
	TagsCollection     = "tags"
	ArticlesCollection = "articles"
)

type EntityCreator interface {
	CreateEntity(ctx context.Context, collection string, record interface{}) (domain.CreatedRecord, error)
}

// RelationPool holds the ids articles may refer to.
type RelationPool struct {
	AuthorIds         []domain.Id
	TagIds            []domain.Id
	MaxTagsPerArticle int
}

type Seeder struct {
	creator EntityCreator
	faker   *Faker
}

func NewSeeder(creator EntityCreator, faker *Faker) *Seeder {
	return &Seeder{
		creator: creator,
		faker:   faker,
	}
}

func (s *Seeder) CreateAuthors(ctx context.Context, n int) *BatchResult {
	log.Info("Creating authors...")
	return s.createBatch(ctx, AuthorsCollection, n, func(i int) (interface{}, string, error) {
		author := s.faker.Author()
		return author, author.Name, nil
	})
}

func (s *Seeder) CreateTags(ctx context.Context, names []string) *BatchResult {
	log.Info("Creating tags...")
	return s.createBatch(ctx, TagsCollection, len(names), func(i int) (interface{}, string, error) {
		return domain.Tag{Name: names[i]}, names[i], nil
	})
}

// CreateArticles creates n articles, each by one author from pool and with 1 to pool.MaxTagsPerArticle
// tags from pool. Articles cannot be created without authors; an empty tag pool yields untagged articles.
func (s *Seeder) CreateArticles(ctx context.Context, n int, pool RelationPool) *BatchResult {
	log.Info("Creating articles...")
	if len(pool.TagIds) == 0 && n > 0 {
		log.Warn("No tag ids available, articles will be created without tags")
	}
	return s.createBatch(ctx, ArticlesCollection, n, func(i int) (interface{}, string, error) {
		if len(pool.AuthorIds) == 0 {
			return nil, "", errors.WithStack(&cmserrors.ErrEntityCreation{
				Collection: ArticlesCollection,
				Index:      i,
				Message:    "no author ids available",
			})
		}
		article := s.faker.Article(s.faker.PickOne(pool.AuthorIds), s.faker.PickSome(pool.TagIds, pool.MaxTagsPerArticle))
		return article, article.Title, nil
	})
}

// Run seeds authors, then tags, then articles. Kinds that are skipped contribute the ids configured for them
// to the relation pool instead of freshly created ones. The only error returned is context cancellation;
// item failures are in the report.
func (s *Seeder) Run(ctx context.Context, config SeedConfig) (*Report, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	report := &Report{}
	pool := RelationPool{MaxTagsPerArticle: config.MaxTagsPerArticle}

	if config.SkipAuthors {
		pool.AuthorIds = domain.IdsFromStrings(config.AuthorIds)
	} else {
		report.Authors = s.CreateAuthors(ctx, config.Authors)
		pool.AuthorIds = report.Authors.Ids()
	}
	if err := ctx.Err(); err != nil {
		return report, errors.WithStack(err)
	}

	if config.SkipTags {
		pool.TagIds = domain.IdsFromStrings(config.TagIds)
	} else {
		report.Tags = s.CreateTags(ctx, config.TagNames)
		pool.TagIds = report.Tags.Ids()
	}
	if err := ctx.Err(); err != nil {
		return report, errors.WithStack(err)
	}

	report.Articles = s.CreateArticles(ctx, config.Articles, pool)
	return report, errors.WithStack(ctx.Err())
}

// createBatch runs n create calls. next builds the i-th record and its label; an error from next is recorded
// as the item's failure without calling the backend.
func (s *Seeder) createBatch(ctx context.Context, collection string, n int, next func(i int) (interface{}, string, error)) *BatchResult {
	result := &BatchResult{Collection: collection, Requested: n}
	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			log.Warnf("Stopping %s batch after %d of %d records: %s", collection, i, n, ctx.Err())
			break
		}

		record, label, err := next(i)
		if err == nil {
			var created domain.CreatedRecord
			created, err = s.creator.CreateEntity(ctx, collection, record)
			if err == nil {
				created.Label = label
				result.Items = append(result.Items, ItemResult{Index: i, Record: created})
				log.Infof("Created %s: %s", collection, label)
				continue
			}
		}

		var creationErr *cmserrors.ErrEntityCreation
		if errors.As(err, &creationErr) {
			creationErr.Index = i
		}
		result.Items = append(result.Items, ItemResult{Index: i, Err: err})
		logging.WithStacktrace(log.WithField("collection", collection), err).Errorf("Error creating record %d", i)
	}
	log.Infof("Created %d of %d %s", len(result.Created()), n, collection)
	return result
}
