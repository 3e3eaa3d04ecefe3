package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		return nil
	}
	return logEntry
}

func TestNewLoggerLevels(t *testing.T) {
	log := NewLogger("debug")
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())

	log = NewLogger("error")
	assert.Equal(t, logrus.ErrorLevel, log.GetLevel())
}

func TestNewLoggerInvalidLevelDefaultsToInfo(t *testing.T) {
	log := NewLogger("chatty")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestCalibrationLoggerBatchCompleted(t *testing.T) {
	log, buf := setupTestLogger()
	calLogger := NewCalibrationLogger(log)

	calLogger.LogBatchCompleted("props_v2:nba:player_prop", 0.18, 0.04, 7, 9, "B")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "calibration", logEntry["component"])
	assert.Equal(t, "props_v2:nba:player_prop", logEntry["segment"])
	assert.Equal(t, "B", logEntry["grade"])
	assert.Equal(t, float64(7), logEntry["mapping_points"])
}

func TestCalibrationLoggerDegenerateBatch(t *testing.T) {
	log, buf := setupTestLogger()
	calLogger := NewCalibrationLogger(log)

	calLogger.LogDegenerateBatch("props_v2:nba:player_prop")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "warning", logEntry["level"])
	assert.Equal(t, "calibration", logEntry["component"])
}

func TestSelectionLoggerValidSlip(t *testing.T) {
	log, buf := setupTestLogger()
	selLogger := NewSelectionLogger(log)

	selLogger.LogValidSlip("props_v2:nba:player_prop", 3, 5)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "selection", logEntry["component"])
	assert.Equal(t, float64(3), logEntry["legs"])
	assert.Equal(t, float64(5), logEntry["eligible"])
}

func TestSelectionLoggerGateRejection(t *testing.T) {
	log, buf := setupTestLogger()
	selLogger := NewSelectionLogger(log)

	selLogger.LogGateRejection("props_v2:nba:player_prop", "Test Player", "edge", "edge 1.00 below uncertainty-scaled minimum 2.50")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "edge", logEntry["gate"])
	assert.Equal(t, "Test Player", logEntry["player"])
	assert.NotEmpty(t, logEntry["reason"])
}

func TestSelectionLoggerInvalidSlip(t *testing.T) {
	log, buf := setupTestLogger()
	selLogger := NewSelectionLogger(log)

	selLogger.LogInvalidSlip("props_v2:nba:player_prop", []string{"glass", "flex"}, 1)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "warning", logEntry["level"])
	missing, ok := logEntry["missing_slots"].([]interface{})
	require.True(t, ok)
	assert.Len(t, missing, 2)
}
