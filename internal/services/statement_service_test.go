package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/joannescode/etllm-pagbank/internal/database/models"
	"github.com/joannescode/etllm-pagbank/internal/extract"
	"github.com/joannescode/etllm-pagbank/internal/mailbox"
)

type stubFetcher struct {
	messages []mailbox.Message
	err      error
}

func (f *stubFetcher) FetchFromSender(context.Context) ([]mailbox.Message, error) {
	return f.messages, f.err
}

type stubExtractor struct {
	fields   extract.Fields
	failures int
	calls    int
}

func (e *stubExtractor) ProcessText(context.Context, string) (extract.Fields, error) {
	e.calls++
	if e.failures > 0 {
		e.failures--
		return extract.Fields{}, errors.New("rate limited")
	}
	return e.fields, nil
}

func TestFilterNew(t *testing.T) {
	db := testDB(t)
	svc := &StatementService{db: db}

	stored := &models.Email{MessageID: "<seen@pagbank.com.br>", Subject: "old", Date: time.Now()}
	if err := db.Create(stored).Error; err != nil {
		t.Fatalf("seeding email: %v", err)
	}

	messages := []mailbox.Message{
		{MessageID: "<seen@pagbank.com.br>", Subject: "old"},
		{MessageID: "<fresh@pagbank.com.br>", Subject: "new"},
	}

	fresh, err := svc.filterNew(messages)
	if err != nil {
		t.Fatalf("filterNew: %v", err)
	}
	if len(fresh) != 1 {
		t.Fatalf("fresh = %d, want 1", len(fresh))
	}
	if fresh[0].MessageID != "<fresh@pagbank.com.br>" {
		t.Errorf("kept %q", fresh[0].MessageID)
	}

	got, err := svc.filterNew(nil)
	if err != nil || got != nil {
		t.Errorf("filterNew(nil) = %v, %v, want nil, nil", got, err)
	}
}

func TestFilterNewLookupFailure(t *testing.T) {
	db := testDB(t)
	svc := &StatementService{db: db}

	if err := db.Migrator().DropTable(&models.Email{}); err != nil {
		t.Fatalf("dropping table: %v", err)
	}

	_, err := svc.filterNew([]mailbox.Message{{MessageID: "<x@pagbank.com.br>"}})
	if err == nil {
		t.Fatal("filterNew succeeded against a missing table")
	}
}

func TestRunRetriesMessageAfterModelFailure(t *testing.T) {
	db := testDB(t)

	msg := mailbox.Message{
		MessageID: "<pix-1@pagbank.com.br>",
		Subject:   "Você recebeu um Pix",
		HTMLBody:  "<p>Pagador: Maria Silva</p>",
		Date:      time.Now(),
	}
	extractor := &stubExtractor{
		fields: extract.Fields{
			Buyers:  []string{"Maria Silva"},
			Banks:   []string{"Banco do Brasil"},
			Amounts: []string{"1.234,56"},
		},
		failures: 1,
	}
	svc := &StatementService{
		db:         db,
		fetcher:    &stubFetcher{messages: []mailbox.Message{msg}},
		processor:  extractor,
		logService: NewLogService(db),
	}

	run, _, err := svc.Run(context.Background())
	if err == nil {
		t.Fatal("first run should fail on the model call")
	}
	if run.Status != string(models.RunStatusFailed) {
		t.Errorf("first run status = %q", run.Status)
	}

	// The failed run must not claim the message
	var emails int64
	db.Model(&models.Email{}).Count(&emails)
	if emails != 0 {
		t.Fatalf("emails stored after failed run = %d, want 0", emails)
	}

	run, table, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if run.EmailsNew != 1 {
		t.Errorf("second run EmailsNew = %d, want 1", run.EmailsNew)
	}
	if len(table.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(table.Rows))
	}
	if table.Rows[0].Buyer != "Maria Silva" {
		t.Errorf("buyer = %q", table.Rows[0].Buyer)
	}

	db.Model(&models.Email{}).Count(&emails)
	if emails != 1 {
		t.Errorf("emails stored after successful run = %d, want 1", emails)
	}
	var txns int64
	db.Model(&models.Transaction{}).Count(&txns)
	if txns != 1 {
		t.Errorf("transactions = %d, want 1", txns)
	}
	if extractor.calls != 2 {
		t.Errorf("model calls = %d, want 2", extractor.calls)
	}
}

func TestListTransactions(t *testing.T) {
	db := testDB(t)
	svc := &StatementService{db: db}

	for _, txn := range []models.Transaction{
		{RunID: "run-1", Buyer: "Maria Silva", Bank: "Banco do Brasil", Amount: "R$ 10,00"},
		{RunID: "run-1", Buyer: "Ana Lima", Bank: "Nubank", Amount: "R$ 50,00"},
		{RunID: "run-2", Buyer: "Bruno Rocha", Bank: "Itaú", Amount: "R$ 75,50"},
	} {
		if err := db.Create(&txn).Error; err != nil {
			t.Fatalf("seeding transaction: %v", err)
		}
	}

	txns, total, err := svc.ListTransactions(2, 0)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	if len(txns) != 2 {
		t.Errorf("page size = %d, want 2", len(txns))
	}

	// Newest first
	if txns[0].Buyer != "Bruno Rocha" {
		t.Errorf("first row buyer = %q", txns[0].Buyer)
	}

	rest, _, err := svc.ListTransactions(2, 2)
	if err != nil {
		t.Fatalf("ListTransactions offset: %v", err)
	}
	if len(rest) != 1 {
		t.Errorf("second page = %d rows, want 1", len(rest))
	}
}

func TestListRuns(t *testing.T) {
	db := testDB(t)
	svc := &StatementService{db: db}

	earlier := time.Now().Add(-time.Hour)
	for _, run := range []models.Run{
		{ID: "run-old", Status: string(models.RunStatusCompleted), StartedAt: earlier},
		{ID: "run-new", Status: string(models.RunStatusFailed), StartedAt: time.Now()},
	} {
		if err := db.Create(&run).Error; err != nil {
			t.Fatalf("seeding run: %v", err)
		}
	}

	runs, err := svc.ListRuns(10)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("runs = %d, want 2", len(runs))
	}
	if runs[0].ID != "run-new" {
		t.Errorf("first run = %q, want newest", runs[0].ID)
	}
}

func TestFailRun(t *testing.T) {
	db := testDB(t)
	svc := &StatementService{db: db}

	run := &models.Run{ID: "run-fail", Status: string(models.RunStatusRunning), StartedAt: time.Now()}
	if err := db.Create(run).Error; err != nil {
		t.Fatalf("seeding run: %v", err)
	}

	_, _, err := svc.failRun(run, mailbox.ErrLoginFailed)
	if err != mailbox.ErrLoginFailed {
		t.Errorf("err = %v, want the original error back", err)
	}

	var stored models.Run
	if err := db.First(&stored, "id = ?", "run-fail").Error; err != nil {
		t.Fatalf("loading run: %v", err)
	}
	if stored.Status != string(models.RunStatusFailed) {
		t.Errorf("status = %q", stored.Status)
	}
	if stored.Error == "" {
		t.Error("run error message not recorded")
	}
	if stored.FinishedAt == nil {
		t.Error("finished_at not set")
	}
}
