package service

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// TitleChecker throttles the as-you-type availability probe. Calls are
// spaced out by a minimum pause and concurrent checks for the same title
// collapse into one request. Results are advisory; submission is never
// blocked on them.
type TitleChecker struct {
	videos  *VideoService
	limiter *rate.Limiter
	group   singleflight.Group
}

func NewTitleChecker(videos *VideoService) *TitleChecker {
	return &TitleChecker{
		videos:  videos,
		limiter: rate.NewLimiter(rate.Every(500*time.Millisecond), 1),
	}
}

func (t *TitleChecker) Available(ctx context.Context, title string) (bool, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return false, nil
	}

	if err := t.limiter.Wait(ctx); err != nil {
		return false, err
	}

	v, err, _ := t.group.Do(title, func() (any, error) {
		return t.videos.CheckTitle(ctx, title)
	})
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}
