package solver

import (
	"context"

	"go.uber.org/zap"

	"github.com/edusolve/solvex/internal/domain"
	"github.com/edusolve/solvex/internal/metrics"
	"github.com/edusolve/solvex/internal/usecase/search"
)

const maxFetchURLs = 3

type fanResult struct {
	pages  []domain.FetchedPage
	videos []domain.VideoHit
	report domain.ConfidenceReport
}

// fanOut runs content fetch, video lookup and confidence scoring in
// parallel, joining all branches under one deadline. Branches that miss the
// deadline fall back to their neutral value; a slow branch never blocks the
// others from landing in the response.
func (s *Service) fanOut(ctx context.Context, query string, ocrConfidence float64, outcome search.Outcome) fanResult {
	fanCtx, cancel := context.WithTimeout(ctx, s.opts.FanoutTimeout)
	defer cancel()

	log := s.log(ctx)

	pagesCh := make(chan []domain.FetchedPage, 1)
	videosCh := make(chan []domain.VideoHit, 1)
	reportCh := make(chan domain.ConfidenceReport, 1)

	go func() {
		defer branchRecover(log, "fetch")
		var urls []string
		for _, r := range outcome.Results {
			urls = append(urls, r.URL)
			if len(urls) == maxFetchURLs {
				break
			}
		}
		pagesCh <- s.fetcher.FetchAll(fanCtx, urls)
	}()

	go func() {
		defer branchRecover(log, "video")
		videosCh <- s.videos.Lookup(fanCtx, query)
	}()

	go func() {
		defer branchRecover(log, "confidence")
		reportCh <- s.scorer.Score(ocrConfidence, query, outcome.Results)
	}()

	// Defaults applied when a branch misses the deadline.
	res := fanResult{report: domain.NeutralReport()}
	done := map[string]bool{}

	for len(done) < 3 {
		select {
		case p := <-pagesCh:
			res.pages = p
			done["fetch"] = true
			metrics.FanoutBranchTotal.WithLabelValues("fetch", "ok").Inc()
		case v := <-videosCh:
			res.videos = v
			done["video"] = true
			metrics.FanoutBranchTotal.WithLabelValues("video", "ok").Inc()
		case r := <-reportCh:
			res.report = r
			done["confidence"] = true
			metrics.FanoutBranchTotal.WithLabelValues("confidence", "ok").Inc()
		case <-fanCtx.Done():
			for _, branch := range []string{"fetch", "video", "confidence"} {
				if !done[branch] {
					metrics.FanoutBranchTotal.WithLabelValues(branch, "timeout").Inc()
					log.Warn("pipeline branch missed fan out deadline",
						zap.String("branch", branch))
				}
			}
			return res
		}
	}
	return res
}

func branchRecover(logger *zap.Logger, branch string) {
	if r := recover(); r != nil {
		metrics.FanoutBranchTotal.WithLabelValues(branch, "panic").Inc()
		logger.Error("pipeline branch panicked",
			zap.String("branch", branch), zap.Any("panic", r))
	}
}
