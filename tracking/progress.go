package tracking

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/warp/trainee-engine/engine"
)

// ProgressService computes OJT completion views. Progress is never cached:
// it is recomputed from the lifetime record set on every call.
type ProgressService struct {
	store  engine.Store
	logger *logrus.Logger
}

func NewProgressService(store engine.Store, logger *logrus.Logger) *ProgressService {
	return &ProgressService{store: store, logger: logger}
}

// Progress computes the completion view for one ojt trainee.
func (s *ProgressService) Progress(ctx context.Context, traineeID engine.TraineeID) (engine.OJTProgress, error) {
	t, err := s.store.GetTrainee(ctx, traineeID)
	if err != nil {
		return engine.OJTProgress{}, err
	}

	records, err := s.store.TimeRecords(ctx, traineeID)
	if err != nil {
		return engine.OJTProgress{}, err
	}

	return engine.ComputeOJTProgress(t, records)
}

// ActiveProgress maps the single-trainee computation over all active ojt
// trainees. No cross-trainee aggregation; one entry per trainee. A trainee
// with corrupt config is logged and skipped so one bad row cannot hide the
// rest of the batch.
func (s *ProgressService) ActiveProgress(ctx context.Context) ([]engine.OJTProgress, error) {
	trainees, err := s.store.ActiveOJTTrainees(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]engine.OJTProgress, 0, len(trainees))
	for _, t := range trainees {
		records, err := s.store.TimeRecords(ctx, t.ID)
		if err != nil {
			return nil, err
		}
		p, err := engine.ComputeOJTProgress(t, records)
		if err != nil {
			s.logger.WithError(err).WithField("trainee_id", t.ID).Warn("progress skipped")
			continue
		}
		out = append(out, p)
	}
	return out, nil
}
