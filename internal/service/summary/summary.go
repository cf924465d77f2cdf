package summary

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"plant-logbook/internal/service/jobs"
	"plant-logbook/internal/service/lifecycle"
	"plant-logbook/internal/storage"
)

type JobStorage interface {
	Plants(ctx context.Context) []string
	GetJobs(ctx context.Context, plant string) ([]storage.Job, error)
	Views(plant string, list []storage.Job, ref time.Time) jobs.Views
}

type OfficerLog interface {
	GetOfficerEntriesByView(ctx context.Context, view jobs.View, plant string, ref time.Time) ([]storage.OfficerEntry, error)
}

type Service struct {
	storage    JobStorage
	officer    OfficerLog
	thresholds lifecycle.Thresholds
}

func NewService(storage JobStorage, officer OfficerLog, thresholds lifecycle.Thresholds) *Service {
	return &Service{storage: storage, officer: officer, thresholds: thresholds}
}

type PlantSummary struct {
	Plant        string                 `json:"plant"`
	Today        int                    `json:"today"`
	Tomorrow     int                    `json:"tomorrow"`
	Prev         int                    `json:"prev"`
	Weekly       int                    `json:"weekly"`
	Monthly      int                    `json:"monthly"`
	Total        int                    `json:"total"`
	Pending      int                    `json:"pending"`
	Closed       int                    `json:"closed"`
	Emergency    int                    `json:"emergency"`
	Abnormality  int                    `json:"abnormality"`
	OfficerToday int                    `json:"officerToday"`
	Backlog      lifecycle.BacklogLevel `json:"backlog"`
}

// Dashboard builds one summary per known plant, in plant order.
func (s *Service) Dashboard(ctx context.Context, ref time.Time) ([]PlantSummary, error) {
	const op = "service.summary.Dashboard"

	plants := s.storage.Plants(ctx)
	out := make([]PlantSummary, len(plants))

	// каждый завод считаем в своей горутине, порядок сохраняется по индексу
	g, gCtx := errgroup.WithContext(ctx)
	for i, plant := range plants {
		g.Go(func() error {
			sum, err := s.Plant(gCtx, plant, ref)
			if err != nil {
				return fmt.Errorf("plant %s: %w", plant, err)
			}
			out[i] = sum
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

func (s *Service) Plant(ctx context.Context, plant string, ref time.Time) (PlantSummary, error) {
	var (
		list    []storage.Job
		entries []storage.OfficerEntry
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		list, err = s.storage.GetJobs(gCtx, plant)
		if err != nil {
			return fmt.Errorf("jobs: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		entries, err = s.officer.GetOfficerEntriesByView(gCtx, jobs.ViewToday, plant, ref)
		if err != nil {
			return fmt.Errorf("officer: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return PlantSummary{}, err
	}

	v := s.storage.Views(plant, list, ref)

	sum := PlantSummary{
		Plant:        jobs.PlantCode(plant),
		Today:        len(v.Today),
		Tomorrow:     len(v.Tomorrow),
		Prev:         len(v.Prev),
		Weekly:       len(v.Weekly),
		Monthly:      len(v.Monthly),
		Total:        len(list),
		Pending:      jobs.CountPending(list),
		OfficerToday: len(entries),
	}
	for _, j := range list {
		if j.Closed() {
			sum.Closed++
		}
		if j.Emergency {
			sum.Emergency++
		}
		if j.Abnormality {
			sum.Abnormality++
		}
	}
	sum.Backlog = s.thresholds.Level(sum.Pending)

	return sum, nil
}
