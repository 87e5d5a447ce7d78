package search

import (
	"context"
	"fmt"
	"time"

	"github.com/olivere/elastic/v7"
	"go.mongodb.org/mongo-driver/v2/bson"

	"vidtube/domain/model"
	"vidtube/infrastructure/logger"
	"vidtube/infrastructure/metrics"
)

// MaxHits bounds how many ids a text query can contribute to a listing.
const MaxHits = 1000

type IVideoIndex interface {
	Index(ctx context.Context, video *model.Video) error
	Remove(ctx context.Context, id bson.ObjectID) error
	// Search returns ids of published videos matching text, best match first.
	Search(ctx context.Context, text string) ([]bson.ObjectID, error)
}

const mapping = `{
	"mappings": {
		"properties": {
			"title":       {"type": "text"},
			"description": {"type": "text"},
			"owner":       {"type": "keyword"},
			"isPublished": {"type": "boolean"},
			"createdAt":   {"type": "date"}
		}
	}
}`

type videoDocument struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Owner       string    `json:"owner"`
	IsPublished bool      `json:"isPublished"`
	CreatedAt   time.Time `json:"createdAt"`
}

func newDocument(video *model.Video) videoDocument {
	return videoDocument{
		Title:       video.Title,
		Description: video.Description,
		Owner:       video.Owner.Hex(),
		IsPublished: video.IsPublished,
		CreatedAt:   video.CreatedAt,
	}
}

type ElasticIndex struct {
	client  *elastic.Client
	index   string
	timeout time.Duration
}

func NewElasticIndex(ctx context.Context, url, index string, timeout time.Duration) (IVideoIndex, error) {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	client, err := elastic.NewClient(
		elastic.SetURL(url),
		elastic.SetSniff(false),
		elastic.SetHealthcheckTimeoutStartup(timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("connect elasticsearch %s: %w", url, err)
	}
	e := &ElasticIndex{client: client, index: index, timeout: timeout}
	if err := e.ensureIndex(ctx); err != nil {
		return nil, err
	}
	logger.GetLogger().WithFields(map[string]interface{}{"url": url, "index": index}).Info("Elasticsearch connected")
	return e, nil
}

func (e *ElasticIndex) ensureIndex(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	exists, err := e.client.IndexExists(e.index).Do(ctx)
	if err != nil {
		return fmt.Errorf("check index %s: %w", e.index, err)
	}
	if exists {
		return nil
	}
	if _, err := e.client.CreateIndex(e.index).BodyString(mapping).Do(ctx); err != nil {
		return fmt.Errorf("create index %s: %w", e.index, err)
	}
	return nil
}

func (e *ElasticIndex) Index(ctx context.Context, video *model.Video) (err error) {
	defer metrics.Upstream("search", time.Now(), &err)
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	_, err = e.client.Index().
		Index(e.index).
		Id(video.ID.Hex()).
		BodyJson(newDocument(video)).
		Do(ctx)
	return err
}

func (e *ElasticIndex) Remove(ctx context.Context, id bson.ObjectID) (err error) {
	defer metrics.Upstream("search", time.Now(), &err)
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	_, err = e.client.Delete().Index(e.index).Id(id.Hex()).Do(ctx)
	if elastic.IsNotFound(err) {
		return nil
	}
	return err
}

func Query(text string) elastic.Query {
	return elastic.NewBoolQuery().
		Must(elastic.NewMultiMatchQuery(text, "title^2", "description").Fuzziness("AUTO")).
		Filter(elastic.NewTermQuery("isPublished", true))
}

func (e *ElasticIndex) Search(ctx context.Context, text string) (ids []bson.ObjectID, err error) {
	defer metrics.Upstream("search", time.Now(), &err)
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	res, err := e.client.Search().
		Index(e.index).
		Query(Query(text)).
		Size(MaxHits).
		FetchSource(false).
		Do(ctx)
	if err != nil {
		return nil, err
	}
	ids = make([]bson.ObjectID, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		id, perr := bson.ObjectIDFromHex(hit.Id)
		if perr != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}
