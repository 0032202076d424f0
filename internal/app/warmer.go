package app

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"hotellink/internal/domain"
)

// WarmReport counts what a warm-up run did. Missing are 404/401/403 answers,
// which the content API uses for unpublished sections; they are not failures.
type WarmReport struct {
	Tasks   int64 `json:"tasks"`
	OK      int64 `json:"ok"`
	Missing int64 `json:"missing"`
	Failed  int64 `json:"failed"`
}

// Warmer prefetches site state and every list into the cache.
type Warmer struct {
	content *ContentService
	site    *SiteService
	workers int64
}

func NewWarmer(c *ContentService, site *SiteService, workers int) *Warmer {
	if workers <= 0 {
		workers = 4
	}
	return &Warmer{content: c, site: site, workers: int64(workers)}
}

type warmTask struct {
	name   string
	locale string
	run    func(ctx context.Context) error
}

// Warm loads everything for locales; an empty list means every site locale.
// With refresh set, cached entries are dropped first.
func (w *Warmer) Warm(ctx context.Context, locales []string, refresh bool) (WarmReport, error) {
	if refresh {
		w.content.Invalidate(ctx, locales)
		if _, err := w.site.Refresh(ctx); err != nil {
			return WarmReport{}, err
		}
	}
	// property and locales first; nothing else is worth fetching without them
	site, err := w.site.Load(ctx, "")
	if err != nil {
		return WarmReport{}, err
	}
	if len(locales) == 0 {
		locales = site.LocaleCodes()
		if refresh {
			w.content.Invalidate(ctx, locales)
		}
	}

	tasks := []warmTask{
		{name: "gallery", run: func(ctx context.Context) error { _, err := w.content.Gallery(ctx); return err }},
	}
	for _, l := range locales {
		l := l // per-iteration copy; the closures below capture it
		for _, k := range domain.Kinds {
			k := k
			tasks = append(tasks, warmTask{name: string(k), locale: l, run: func(ctx context.Context) error {
				_, err := w.content.List(ctx, Query{Kind: k, Locale: l})
				return err
			}})
		}
		for _, p := range []domain.PageKind{domain.PageIntroduction, domain.PagePolicy, domain.PageRegulation} {
			p := p
			tasks = append(tasks, warmTask{name: string(p), locale: l, run: func(ctx context.Context) error {
				_, err := w.content.Page(ctx, p, l)
				return err
			}})
		}
		tasks = append(tasks,
			warmTask{name: "posts", locale: l, run: func(ctx context.Context) error { _, err := w.content.Posts(ctx, l); return err }},
			warmTask{name: "contact", locale: l, run: func(ctx context.Context) error { _, err := w.content.Contact(ctx, l); return err }},
		)
	}

	var (
		rep WarmReport
		wg  sync.WaitGroup
	)
	sem := semaphore.NewWeighted(w.workers)
	for _, t := range tasks {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		atomic.AddInt64(&rep.Tasks, 1)
		wg.Add(1)
		go func(t warmTask) {
			defer wg.Done()
			defer sem.Release(1)
			err := t.run(ctx)
			switch {
			case err == nil:
				atomic.AddInt64(&rep.OK, 1)
			case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrUnauthorized):
				atomic.AddInt64(&rep.Missing, 1)
				log.Info().Str("what", t.name).Str("locale", t.locale).Msg("warm: section not published")
			default:
				atomic.AddInt64(&rep.Failed, 1)
				log.Warn().Err(err).Str("what", t.name).Str("locale", t.locale).Msg("warm failed")
			}
		}(t)
	}
	wg.Wait()

	log.Info().
		Int64("tasks", rep.Tasks).
		Int64("ok", rep.OK).
		Int64("missing", rep.Missing).
		Int64("failed", rep.Failed).
		Msg("warm completed")
	return rep, ctx.Err()
}
