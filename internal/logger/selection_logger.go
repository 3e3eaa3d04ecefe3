package logger

import (
	"github.com/sirupsen/logrus"
)

// SelectionLogger provides structured logging for slip-building cycles
type SelectionLogger struct {
	logger *logrus.Logger
}

// NewSelectionLogger creates a selection component logger
func NewSelectionLogger(log *logrus.Logger) *SelectionLogger {
	return &SelectionLogger{logger: log}
}

// LogCycleStarted records the start of a decision cycle
func (l *SelectionLogger) LogCycleStarted(segment string, candidateCount int) {
	l.logger.WithFields(logrus.Fields{
		"component":  "selection",
		"segment":    segment,
		"candidates": candidateCount,
	}).Info("Decision cycle started")
}

// LogValidSlip records a successfully filled slip
func (l *SelectionLogger) LogValidSlip(segment string, legCount, eligibleCount int) {
	l.logger.WithFields(logrus.Fields{
		"component": "selection",
		"segment":   segment,
		"legs":      legCount,
		"eligible":  eligibleCount,
	}).Info("Slip built")
}

// LogInvalidSlip records a cycle that could not fill every slot
func (l *SelectionLogger) LogInvalidSlip(segment string, missingSlots []string, eligibleCount int) {
	l.logger.WithFields(logrus.Fields{
		"component":     "selection",
		"segment":       segment,
		"missing_slots": missingSlots,
		"eligible":      eligibleCount,
	}).Warn("Slip infeasible")
}

// LogGateRejection records a single gate failure for tuning diagnostics
func (l *SelectionLogger) LogGateRejection(segment, player, gate, reason string) {
	l.logger.WithFields(logrus.Fields{
		"component": "selection",
		"segment":   segment,
		"player":    player,
		"gate":      gate,
		"reason":    reason,
	}).Debug("Candidate rejected by gate")
}
