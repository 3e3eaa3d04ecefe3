package logger

import (
	"github.com/sirupsen/logrus"
)

// CalibrationLogger provides structured logging for recalibration batches
type CalibrationLogger struct {
	logger *logrus.Logger
}

// NewCalibrationLogger creates a calibration component logger
func NewCalibrationLogger(log *logrus.Logger) *CalibrationLogger {
	return &CalibrationLogger{logger: log}
}

// LogBatchStarted records the start of a recalibration batch
func (l *CalibrationLogger) LogBatchStarted(segment string, sampleCount int) {
	l.logger.WithFields(logrus.Fields{
		"component": "calibration",
		"segment":   segment,
		"samples":   sampleCount,
	}).Info("Recalibration batch started")
}

// LogBatchCompleted records the outcome of a recalibration batch
func (l *CalibrationLogger) LogBatchCompleted(segment string, brier, ece float64, mappingPoints, bucketCount int, grade string) {
	l.logger.WithFields(logrus.Fields{
		"component":      "calibration",
		"segment":        segment,
		"brier_score":    brier,
		"ece":            ece,
		"mapping_points": mappingPoints,
		"buckets":        bucketCount,
		"grade":          grade,
	}).Info("Recalibration batch completed")
}

// LogDegenerateBatch records a cold-start batch with no samples
func (l *CalibrationLogger) LogDegenerateBatch(segment string) {
	l.logger.WithFields(logrus.Fields{
		"component": "calibration",
		"segment":   segment,
	}).Warn("No settled samples for segment; derived outputs are degenerate")
}
