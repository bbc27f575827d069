package services

import (
	"encoding/json"
	"strings"

	"github.com/joannescode/etllm-pagbank/internal/database/models"
	"gorm.io/gorm"
)

// LogService persists pipeline log entries per run
type LogService struct {
	db       *gorm.DB
	logLevel models.LogLevel
}

// NewLogService creates a new LogService instance
func NewLogService(db *gorm.DB) *LogService {
	return &LogService{
		db:       db,
		logLevel: models.LogLevelInfo,
	}
}

// NewLogServiceWithLevel creates a new LogService instance with specified log level
func NewLogServiceWithLevel(db *gorm.DB, level string) *LogService {
	return &LogService{
		db:       db,
		logLevel: parseLogLevel(level),
	}
}

// parseLogLevel converts a string to LogLevel
func parseLogLevel(level string) models.LogLevel {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return models.LogLevelDebug
	case "INFO":
		return models.LogLevelInfo
	case "WARN", "WARNING":
		return models.LogLevelWarn
	case "ERROR":
		return models.LogLevelError
	default:
		return models.LogLevelInfo
	}
}

// shouldLog checks if a log entry should be recorded based on log level
func (s *LogService) shouldLog(level models.LogLevel) bool {
	levelPriority := map[models.LogLevel]int{
		models.LogLevelDebug: 0,
		models.LogLevelInfo:  1,
		models.LogLevelWarn:  2,
		models.LogLevelError: 3,
	}
	return levelPriority[level] >= levelPriority[s.logLevel]
}

// LogEntry represents a log entry to be created
type LogEntry struct {
	RunID   string
	Level   models.LogLevel
	Module  models.LogModule
	Action  string
	Message string
	Details interface{} // Will be serialized to JSON
}

// Log creates a new log entry
func (s *LogService) Log(entry LogEntry) error {
	if !s.shouldLog(entry.Level) {
		return nil
	}

	var detailsJSON string
	if entry.Details != nil {
		bytes, err := json.Marshal(entry.Details)
		if err != nil {
			detailsJSON = "{}"
		} else {
			detailsJSON = string(bytes)
		}
	}

	log := &models.Log{
		RunID:   entry.RunID,
		Level:   string(entry.Level),
		Module:  string(entry.Module),
		Action:  entry.Action,
		Message: entry.Message,
		Details: detailsJSON,
	}

	return s.db.Create(log).Error
}

// LogInfo creates an INFO level log entry
func (s *LogService) LogInfo(runID string, module models.LogModule, action, message string, details interface{}) error {
	return s.Log(LogEntry{RunID: runID, Level: models.LogLevelInfo, Module: module, Action: action, Message: message, Details: details})
}

// LogWarn creates a WARN level log entry
func (s *LogService) LogWarn(runID string, module models.LogModule, action, message string, details interface{}) error {
	return s.Log(LogEntry{RunID: runID, Level: models.LogLevelWarn, Module: module, Action: action, Message: message, Details: details})
}

// LogError creates an ERROR level log entry
func (s *LogService) LogError(runID string, module models.LogModule, action, message string, details interface{}) error {
	return s.Log(LogEntry{RunID: runID, Level: models.LogLevelError, Module: module, Action: action, Message: message, Details: details})
}

// GetLogs returns the most recent log entries for a run
func (s *LogService) GetLogs(runID string, limit int) ([]models.Log, error) {
	if limit <= 0 {
		limit = 100
	}
	var logs []models.Log
	err := s.db.Where("run_id = ?", runID).Order("created_at DESC").Limit(limit).Find(&logs).Error
	return logs, err
}
