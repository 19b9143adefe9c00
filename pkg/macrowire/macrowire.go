package macrowire

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/cognicore/macrowire/internal/logging"
	"github.com/cognicore/macrowire/pkg/macrowire/internalerr"
	"github.com/cognicore/macrowire/pkg/macrowire/status"
	"github.com/cognicore/macrowire/pkg/macrowire/store"
)

// Reader is the read-side facade the site renders from. Every method
// re-reads its backing file; nothing is cached between calls, and no method
// fails: missing or broken inputs read as empty.
type Reader struct {
	store     store.Store
	indexPath string
	logger    *log.Logger
}

// Options configures a Reader
type Options struct {
	// Store holds the news records.
	Store store.Store
	// IndexPath is the status index written by the pipeline.
	IndexPath string
	Logger    *log.Logger
}

// New creates a Reader with the given dependencies
func New(opts Options) *Reader {
	return &Reader{
		store:     opts.Store,
		indexPath: opts.IndexPath,
		logger:    logging.OrDiscard(opts.Logger),
	}
}

// Close releases the underlying store
func (r *Reader) Close() error {
	if r.store == nil {
		return nil
	}
	return r.store.Close()
}

// LoadNews returns all records, newest first by published_at string order.
func (r *Reader) LoadNews(ctx context.Context) []store.Item {
	if r.store == nil {
		return []store.Item{}
	}

	items, err := r.store.Load(ctx)
	if err != nil {
		r.logger.Warn("news store unreadable, serving empty corpus", "err", err)
		return []store.Item{}
	}
	if items == nil {
		items = []store.Item{}
	}

	store.SortByRecency(items)
	r.logger.Debug("loaded news", "items", len(items))
	return items
}

// NewsPage returns one page of the feed. See Paginate.
func (r *Reader) NewsPage(ctx context.Context, page, perPage int) Page {
	return Paginate(r.LoadNews(ctx), page, perPage)
}

// LatestBySource returns the newest items of each source. See GroupBySource.
func (r *Reader) LatestBySource(ctx context.Context, limitPerSource int) []SourceBucket {
	return GroupBySource(r.LoadNews(ctx), limitPerSource)
}

// SourcesSummary counts items per source. See SummarizeSources.
func (r *Reader) SourcesSummary(ctx context.Context) []SourceSummary {
	return SummarizeSources(r.LoadNews(ctx))
}

// LatestByTopic returns the newest items of each topic. See GroupByTopic.
func (r *Reader) LatestByTopic(ctx context.Context, limitPerTopic int) []TopicBucket {
	return GroupByTopic(r.LoadNews(ctx), limitPerTopic)
}

// SourceStatusMap returns the pipeline's per-source run status verbatim,
// keyed by source id. A missing or unparsable index yields an empty map.
func (r *Reader) SourceStatusMap(ctx context.Context) map[string]status.SourceRunStatus {
	return r.Index(ctx).Sources
}

// Index returns the whole decoded status index, alerts included.
func (r *Reader) Index(ctx context.Context) status.Index {
	idx, err := r.ReadIndex(ctx)
	if err != nil {
		r.logger.Debug("status index unavailable", "path", r.indexPath, "err", err)
	}
	return idx
}

// ReadIndex is Index with the reason the index could not be used. The
// returned index is always usable, empty on error.
func (r *Reader) ReadIndex(ctx context.Context) (status.Index, error) {
	if err := ctx.Err(); err != nil {
		return status.Load(""), err
	}
	if r.indexPath == "" {
		return status.Load(""), fmt.Errorf("%w: no index path configured", internalerr.ErrNotFound)
	}
	return status.Read(r.indexPath)
}
