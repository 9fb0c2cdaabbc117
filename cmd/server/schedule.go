package main

import (
	"context"
	"errors"
	"io"
	"mime/multipart"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rhyrak/pick-scheduler/internal/csvio"
	"github.com/rhyrak/pick-scheduler/internal/scheduler"
	"github.com/rhyrak/pick-scheduler/internal/weight"
	appErrors "github.com/rhyrak/pick-scheduler/pkg/errors"
	"github.com/rhyrak/pick-scheduler/pkg/model"
)

type stored struct {
	id        string
	status    scheduler.Status
	objective int
}

func (s *server) createAndExportSchedule(ctx context.Context, rosterFile, capacityFile *multipart.FileHeader, policyName string) (*stored, error) {
	if policyName == "" {
		policyName = s.cfg.Policy
	}
	policy, err := weight.New(policyName, s.cfg.Weights)
	if err != nil {
		return nil, err
	}

	var roster *model.Roster
	err = withUpload(rosterFile, func(r io.Reader) (err error) {
		roster, err = csvio.LoadRoster(r, s.cfg.Roster, policy)
		return err
	})
	if err != nil {
		return nil, err
	}
	if capacityFile != nil {
		err = withUpload(capacityFile, func(r io.Reader) error {
			return csvio.LoadCapacities(r, s.cfg.Roster.Delimiter, roster)
		})
		if err != nil {
			return nil, err
		}
	}

	id := uuid.NewString()
	log := s.log.With(zap.String("schedule_id", id), zap.String("policy", string(policy.Kind())))
	res, runErr := scheduler.Run(ctx, roster, &s.cfg.Scheduler, s.solver, log)
	if res == nil {
		return nil, runErr
	}
	s.recorder.Observe(res.Diagnostics)
	if res.Schedule == nil || (runErr != nil && !errors.Is(runErr, appErrors.ErrIncomplete)) {
		return nil, runErr
	}

	if _, err := csvio.ExportSchedule(res.Schedule, s.schedulePath(id)); err != nil {
		return nil, err
	}
	return &stored{id: id, status: res.Solution.Status, objective: res.Solution.Objective}, runErr
}

func withUpload(fh *multipart.FileHeader, fn func(io.Reader) error) error {
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()
	return fn(f)
}
