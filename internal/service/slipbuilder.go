package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/sharp-picks/internal/calibration"
	"github.com/yourusername/sharp-picks/internal/config"
	"github.com/yourusername/sharp-picks/internal/logger"
	"github.com/yourusername/sharp-picks/internal/metrics"
	"github.com/yourusername/sharp-picks/internal/models"
	"github.com/yourusername/sharp-picks/internal/selection"
)

// CycleRequest is one decision cycle: a segment (for mapping lookup)
// and the candidate pool materialized from the live snapshot.
type CycleRequest struct {
	Key        models.MappingKey
	Candidates []*models.Candidate
}

// SlipService runs decision cycles: it applies the segment's derived
// mapping to raw confidences, gates the pool and assigns slots. Cycles
// share no mutable state and may run concurrently.
type SlipService struct {
	mappings MappingProvider
	pipeline *selection.Pipeline
	log      *logrus.Logger
	cycleLog *logger.SelectionLogger
}

// NewSlipService creates a slip service; the slot table is validated
// here at startup.
func NewSlipService(mappings MappingProvider, gatesCfg *config.GatesConfig, slotsCfg *config.SlotsConfig, log *logrus.Logger) (*SlipService, error) {
	pipeline, err := selection.NewPipeline(gatesCfg, slotsCfg)
	if err != nil {
		return nil, fmt.Errorf("invalid slot table: %w", err)
	}
	return &SlipService{
		mappings: mappings,
		pipeline: pipeline,
		log:      log,
		cycleLog: logger.NewSelectionLogger(log),
	}, nil
}

// BuildSlip runs one cycle. Both terminal slip states are legitimate
// decisions; only collaborator failures (mapping load) return an error.
func (s *SlipService) BuildSlip(ctx context.Context, req CycleRequest) (*selection.Outcome, error) {
	start := time.Now()
	segment := req.Key.String()
	s.cycleLog.LogCycleStarted(segment, len(req.Candidates))

	mapping, err := s.mappings.Mapping(ctx, req.Key)
	if err != nil {
		return nil, fmt.Errorf("failed to load mapping for %s: %w", segment, err)
	}

	// Raw model confidence is a percentage; the mapping is fitted on
	// probabilities, so remap in probability space.
	for _, c := range req.Candidates {
		c.CalibratedConfidence = calibration.Apply(c.RawConfidence/100, mapping) * 100
	}

	outcome := s.pipeline.Run(req.Candidates)

	eligible := 0
	for _, eval := range outcome.Evaluations {
		if eval.Eligible {
			eligible++
			continue
		}
		for _, result := range eval.Results {
			if !result.Passed {
				metrics.RecordGateRejection(result.Gate)
				s.cycleLog.LogGateRejection(segment, eval.Candidate.PlayerName, result.Gate, result.Reason)
			}
		}
	}

	metrics.RecordSlipBuilt(outcome.Slip.Valid, time.Since(start).Seconds())
	if outcome.Slip.Valid {
		s.cycleLog.LogValidSlip(segment, len(outcome.Slip.Legs), eligible)
	} else {
		s.cycleLog.LogInvalidSlip(segment, outcome.Slip.MissingSlots, eligible)
	}

	return &outcome, nil
}
