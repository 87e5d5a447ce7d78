package usecase

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
)

type Check func(ctx context.Context) error

type HealthReport struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
}

type IHealthUsecase interface {
	Check(ctx context.Context) HealthReport
}

type HealthUsecase struct {
	checks  map[string]Check
	timeout time.Duration
}

func NewHealthUsecase(checks map[string]Check, timeout time.Duration) IHealthUsecase {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &HealthUsecase{checks: checks, timeout: timeout}
}

// Check runs every dependency probe concurrently under one deadline.
func (u *HealthUsecase) Check(ctx context.Context) HealthReport {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	names := make([]string, 0, len(u.checks))
	for name := range u.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make([]string, len(names))
	var g errgroup.Group
	for i, name := range names {
		check := u.checks[name]
		g.Go(func() error {
			if err := check(ctx); err != nil {
				results[i] = "down: " + err.Error()
				return nil
			}
			results[i] = "up"
			return nil
		})
	}
	_ = g.Wait()

	report := HealthReport{Status: "ok", Components: make(map[string]string, len(names))}
	for i, name := range names {
		report.Components[name] = results[i]
		if results[i] != "up" {
			report.Status = "degraded"
		}
	}
	return report
}
