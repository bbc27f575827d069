package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/joannescode/etllm-pagbank/internal/config"
	"github.com/joannescode/etllm-pagbank/internal/database/models"
	"github.com/joannescode/etllm-pagbank/internal/extract"
	"github.com/joannescode/etllm-pagbank/internal/extract/ai"
	"github.com/joannescode/etllm-pagbank/internal/logger"
	"github.com/joannescode/etllm-pagbank/internal/mailbox"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// mailFetcher is the mailbox boundary, satisfied by *mailbox.Fetcher
type mailFetcher interface {
	FetchFromSender(ctx context.Context) ([]mailbox.Message, error)
}

// fieldExtractor is the model-extraction boundary, satisfied by
// *extract.Processor
type fieldExtractor interface {
	ProcessText(ctx context.Context, text string) (extract.Fields, error)
}

// StatementService orchestrates one pipeline pass: fetch notification
// emails, render each HTML body to text, run the model extraction, parse
// the replies and assemble the result table. Each pass is recorded as a Run
// with its assembled rows.
type StatementService struct {
	db         *gorm.DB
	fetcher    mailFetcher
	processor  fieldExtractor
	logService *LogService
}

// NewStatementService wires the mailbox fetcher and the extraction
// processor from the loaded configuration.
func NewStatementService(db *gorm.DB, cfg *config.Config) *StatementService {
	opts := mailbox.Options{
		Addr:     cfg.Addr(),
		Host:     cfg.IMAPHost,
		Folder:   cfg.Folder,
		Sender:   cfg.SenderFilter,
		Username: cfg.MailUser,
		Password: cfg.MailPassword,
	}
	if cfg.UseOAuth() {
		opts.OAuth = &mailbox.OAuth{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RefreshToken: cfg.GoogleRefreshToken,
		}
	}

	client := ai.NewClient(cfg.GroqAPIKey, cfg.AIModel, cfg.AIBaseURL)

	return &StatementService{
		db:         db,
		fetcher:    mailbox.NewFetcher(opts),
		processor:  extract.NewProcessor(client),
		logService: NewLogServiceWithLevel(db, cfg.LogLevel),
	}
}

// Run executes the pipeline once. Mailbox and model-call failures abort the
// run and are recorded on its row; parsing gaps are not failures. Already
// stored messages are skipped, everything else from the sender is
// processed.
func (s *StatementService) Run(ctx context.Context) (*models.Run, extract.Table, error) {
	run := &models.Run{
		ID:        uuid.NewString(),
		Status:    string(models.RunStatusRunning),
		StartedAt: time.Now(),
	}
	if err := s.db.Create(run).Error; err != nil {
		return nil, extract.Table{}, err
	}

	messages, err := s.fetcher.FetchFromSender(ctx)
	if err != nil {
		s.logService.LogError(run.ID, models.LogModuleMailbox, "fetch", "mailbox fetch failed", map[string]interface{}{"error": err.Error()})
		return s.failRun(run, err)
	}
	run.EmailsFetched = len(messages)

	s.logService.LogInfo(run.ID, models.LogModuleMailbox, "fetch", "mailbox fetch completed", map[string]interface{}{
		"fetched": len(messages),
	})

	newMessages, err := s.filterNew(messages)
	if err != nil {
		s.logService.LogError(run.ID, models.LogModuleExtract, "dedup", "stored-message lookup failed", map[string]interface{}{"error": err.Error()})
		return s.failRun(run, err)
	}
	run.EmailsNew = len(newMessages)

	var fields extract.Fields
	for _, msg := range newMessages {
		if msg.HTMLBody == "" {
			continue
		}

		text := extract.HTMLToText(msg.HTMLBody)

		parsed, err := s.processor.ProcessText(ctx, text)
		if err != nil {
			s.logService.LogError(run.ID, models.LogModuleExtract, "process", "model extraction failed", map[string]interface{}{
				"message_id": msg.MessageID,
				"error":      err.Error(),
			})
			return s.failRun(run, err)
		}

		// Stored only after extraction succeeds, so an aborted run leaves
		// the message eligible for the next pass.
		email := &models.Email{
			MessageID: msg.MessageID,
			UID:       msg.UID,
			Subject:   msg.Subject,
			FromAddr:  msg.From,
			Date:      msg.Date,
			HTMLBody:  msg.HTMLBody,
			TextBody:  text,
		}
		if err := s.db.Create(email).Error; err != nil {
			logger.Logger.Warn("failed to store email", zap.String("message_id", msg.MessageID), zap.Error(err))
		}

		fields = fields.Join(parsed)
	}

	table := extract.Assemble(fields)
	run.Rows = len(table.Rows)

	for _, rec := range table.Rows {
		txn := &models.Transaction{
			RunID:  run.ID,
			Buyer:  rec.Buyer,
			Bank:   rec.Bank,
			Amount: rec.Amount,
		}
		if err := s.db.Create(txn).Error; err != nil {
			logger.Logger.Warn("failed to store transaction", zap.Error(err))
		}
	}

	now := time.Now()
	run.Status = string(models.RunStatusCompleted)
	run.FinishedAt = &now
	if err := s.db.Save(run).Error; err != nil {
		return nil, extract.Table{}, err
	}

	s.logService.LogInfo(run.ID, models.LogModuleExtract, "run", "extraction run completed", map[string]interface{}{
		"emails_new": run.EmailsNew,
		"rows":       run.Rows,
	})

	return run, table, nil
}

// failRun marks a run as failed and returns the original error
func (s *StatementService) failRun(run *models.Run, err error) (*models.Run, extract.Table, error) {
	now := time.Now()
	run.Status = string(models.RunStatusFailed)
	run.Error = err.Error()
	run.FinishedAt = &now
	s.db.Save(run)
	return run, extract.Table{}, err
}

// filterNew drops messages whose MessageID is already stored. A failed
// lookup is an error, not an empty result: treating every message as new
// would re-process already extracted emails.
func (s *StatementService) filterNew(messages []mailbox.Message) ([]mailbox.Message, error) {
	if len(messages) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(messages))
	for _, m := range messages {
		ids = append(ids, m.MessageID)
	}

	existing := make(map[string]bool)
	var stored []models.Email
	if err := s.db.Select("message_id").Where("message_id IN ?", ids).Find(&stored).Error; err != nil {
		return nil, err
	}
	for _, e := range stored {
		existing[e.MessageID] = true
	}

	var fresh []mailbox.Message
	for _, m := range messages {
		if !existing[m.MessageID] {
			fresh = append(fresh, m)
		}
	}
	return fresh, nil
}

// ListTransactions returns stored transactions, newest run first
func (s *StatementService) ListTransactions(limit, offset int) ([]models.Transaction, int64, error) {
	if limit <= 0 {
		limit = 50
	}

	var total int64
	if err := s.db.Model(&models.Transaction{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var txns []models.Transaction
	err := s.db.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&txns).Error
	return txns, total, err
}

// ListRuns returns recent extraction runs
func (s *StatementService) ListRuns(limit int) ([]models.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []models.Run
	err := s.db.Order("started_at DESC").Limit(limit).Find(&runs).Error
	return runs, err
}
