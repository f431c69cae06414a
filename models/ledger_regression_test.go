package models_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/moneydesk/ledger_backend/config"
	"github.com/moneydesk/ledger_backend/models"
	"github.com/moneydesk/ledger_backend/utils"
	"github.com/moneydesk/ledger_backend/workflow"
	"github.com/shopspring/decimal"
)

// setupLedgerDB starts a disposable MySQL container, connects and
// migrates, and returns a context scoped to a fresh user.
func setupLedgerDB(t *testing.T) context.Context {
	t.Helper()
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	mysqlName, mysqlPort := startMySQLContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(mysqlName) })

	t.Setenv("DB_USER", "root")
	t.Setenv("DB_PASSWORD", "testpw")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", mysqlPort)
	t.Setenv("DB_NAME", "ledger_test")

	config.ConnectDatabaseWithRetry()
	if err := models.AutoMigrate(); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}

	ctx := context.Background()
	user, err := models.CreateUser(ctx, &models.NewUser{
		Username: fmt.Sprintf("test-%d", time.Now().UnixNano()),
		Email:    fmt.Sprintf("test-%d@local", time.Now().UnixNano()),
		Password: "test-password",
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	ctx = utils.SetUserIdInContext(ctx, user.ID)
	ctx = utils.SetUsernameInContext(ctx, user.Username)
	return ctx
}

func mustAccount(t *testing.T, ctx context.Context, name string, initial string) *models.Account {
	t.Helper()
	account, err := models.CreateAccount(ctx, &models.NewAccount{
		Name:           name,
		AccountType:    models.AccountTypeChecking,
		Currency:       "USD",
		InitialBalance: mustDecimal(t, initial),
	})
	if err != nil {
		t.Fatalf("CreateAccount %s: %v", name, err)
	}
	return account
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	v, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return v
}

func currentBalance(t *testing.T, ctx context.Context, accountId int) decimal.Decimal {
	t.Helper()
	account, err := models.GetAccount(ctx, accountId)
	if err != nil {
		t.Fatalf("GetAccount %d: %v", accountId, err)
	}
	return account.CurrentBalance
}

// Regression: current_balance must track initial_balance plus the
// signed sum of live transactions through create, update and delete.
func TestTransactionLifecycle_KeepsCurrentBalanceConsistent(t *testing.T) {
	ctx := setupLedgerDB(t)
	account := mustAccount(t, ctx, "Checking", "1000")

	created, err := models.CreateTransaction(ctx, &models.NewTransaction{
		AccountId:       account.ID,
		Amount:          mustDecimal(t, "-250.50"),
		TransactionType: models.TransactionTypeExpense,
		Description:     "groceries",
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if got := currentBalance(t, ctx, account.ID); !got.Equal(mustDecimal(t, "749.50")) {
		t.Fatalf("balance after create = %s, want 749.50", got)
	}

	if _, err := models.UpdateTransaction(ctx, created.ID, &models.NewTransaction{
		AccountId:       account.ID,
		Amount:          mustDecimal(t, "-100"),
		TransactionType: models.TransactionTypeExpense,
		Description:     "groceries (corrected)",
	}); err != nil {
		t.Fatalf("UpdateTransaction: %v", err)
	}
	if got := currentBalance(t, ctx, account.ID); !got.Equal(mustDecimal(t, "900")) {
		t.Fatalf("balance after update = %s, want 900", got)
	}

	if _, err := models.DeleteTransaction(ctx, created.ID); err != nil {
		t.Fatalf("DeleteTransaction: %v", err)
	}
	if got := currentBalance(t, ctx, account.ID); !got.Equal(mustDecimal(t, "1000")) {
		t.Fatalf("balance after delete = %s, want 1000", got)
	}
}

// Regression: splits must persist with the transaction and reject
// sums outside the tolerance.
func TestTransactionSplits_PersistAndValidate(t *testing.T) {
	ctx := setupLedgerDB(t)
	account := mustAccount(t, ctx, "Checking", "500")

	groceries, err := models.CreateCategory(ctx, &models.NewCategory{Name: "Groceries"})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	household, err := models.CreateCategory(ctx, &models.NewCategory{Name: "Household"})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}

	created, err := models.CreateTransaction(ctx, &models.NewTransaction{
		AccountId:       account.ID,
		Amount:          mustDecimal(t, "-80"),
		TransactionType: models.TransactionTypeExpense,
		Categories: []models.CategoryAmount{
			{CategoryId: groceries.ID, Amount: mustDecimal(t, "-50")},
			{CategoryId: household.ID, Amount: mustDecimal(t, "-30")},
		},
	})
	if err != nil {
		t.Fatalf("CreateTransaction with splits: %v", err)
	}
	loaded, err := models.GetTransaction(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetTransaction: %v", err)
	}
	if len(loaded.Categories) != 2 {
		t.Fatalf("splits = %d, want 2", len(loaded.Categories))
	}

	if _, err := models.CreateTransaction(ctx, &models.NewTransaction{
		AccountId:       account.ID,
		Amount:          mustDecimal(t, "-80"),
		TransactionType: models.TransactionTypeExpense,
		Categories: []models.CategoryAmount{
			{CategoryId: groceries.ID, Amount: mustDecimal(t, "-50")},
		},
	}); err == nil {
		t.Fatal("split sum 30 short must be rejected")
	}
}

// Regression: processing creates the transaction dated at the
// occurrence, advances one period, and deactivates once the next
// occurrence passes the end date. A second pass is a no-op.
func TestProcessDueRecurring_AdvancesAndDeactivates(t *testing.T) {
	ctx := setupLedgerDB(t)
	account := mustAccount(t, ctx, "Checking", "1000")

	start := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 14)
	recurring, err := models.CreateRecurringTransaction(ctx, &models.NewRecurringTransaction{
		AccountId:       account.ID,
		Amount:          mustDecimal(t, "-1450"),
		TransactionType: models.TransactionTypeExpense,
		Description:     "rent",
		Frequency:       models.FrequencyMonthly,
		StartDate:       start,
		EndDate:         &end,
	})
	if err != nil {
		t.Fatalf("CreateRecurringTransaction: %v", err)
	}

	now := start.AddDate(0, 0, 2)
	report, err := workflow.ProcessDueRecurring(ctx, now)
	if err != nil {
		t.Fatalf("ProcessDueRecurring: %v", err)
	}
	if report.Due != 1 || report.Processed != 1 {
		t.Fatalf("report = %+v, want one due, one processed", report)
	}
	if len(report.Created) != 1 {
		t.Fatalf("created = %v, want one transaction", report.Created)
	}

	posted, err := models.GetTransaction(ctx, report.Created[0])
	if err != nil {
		t.Fatalf("GetTransaction: %v", err)
	}
	if !posted.TransactionDate.Equal(start) {
		t.Errorf("transaction dated %s, want the occurrence %s", posted.TransactionDate, start)
	}
	if got := currentBalance(t, ctx, account.ID); !got.Equal(mustDecimal(t, "-450")) {
		t.Errorf("balance = %s, want -450", got)
	}

	// Feb 28 is past the Feb 14 end date, so the template must now be
	// inactive with its advanced occurrence preserved.
	after, err := models.GetRecurringTransaction(ctx, recurring.ID)
	if err != nil {
		t.Fatalf("GetRecurringTransaction: %v", err)
	}
	if after.IsActive != nil && *after.IsActive {
		t.Error("template should be deactivated after advancing past end date")
	}
	if want := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC); !after.NextOccurrence.Equal(want) {
		t.Errorf("next occurrence = %s, want %s", after.NextOccurrence, want)
	}

	second, err := workflow.ProcessDueRecurring(ctx, now)
	if err != nil {
		t.Fatalf("second ProcessDueRecurring: %v", err)
	}
	if second.Due != 0 || second.Processed != 0 {
		t.Errorf("second run = %+v, want nothing due", second)
	}
	if got := currentBalance(t, ctx, account.ID); !got.Equal(mustDecimal(t, "-450")) {
		t.Errorf("balance after second run = %s, want unchanged -450", got)
	}
}

// Regression: one failing template must not stop the rest of the
// batch or leave partial writes behind.
func TestProcessDueRecurring_PartialFailureIsolation(t *testing.T) {
	ctx := setupLedgerDB(t)
	good := mustAccount(t, ctx, "Good", "100")
	doomed := mustAccount(t, ctx, "Doomed", "100")

	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	if _, err := models.CreateRecurringTransaction(ctx, &models.NewRecurringTransaction{
		AccountId:       good.ID,
		Amount:          mustDecimal(t, "50"),
		TransactionType: models.TransactionTypeIncome,
		Description:     "stipend",
		Frequency:       models.FrequencyWeekly,
		StartDate:       start,
	}); err != nil {
		t.Fatalf("CreateRecurringTransaction good: %v", err)
	}
	if _, err := models.CreateRecurringTransaction(ctx, &models.NewRecurringTransaction{
		AccountId:       doomed.ID,
		Amount:          mustDecimal(t, "-25"),
		TransactionType: models.TransactionTypeExpense,
		Description:     "subscription",
		Frequency:       models.FrequencyWeekly,
		StartDate:       start,
	}); err != nil {
		t.Fatalf("CreateRecurringTransaction doomed: %v", err)
	}

	// Deleting the account out from under its template makes that
	// template fail at posting time.
	if _, err := models.DeleteAccount(ctx, doomed.ID); err != nil {
		t.Fatalf("DeleteAccount: %v", err)
	}

	report, err := workflow.ProcessDueRecurring(ctx, start.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("ProcessDueRecurring: %v", err)
	}
	if report.Due != 2 {
		t.Fatalf("due = %d, want 2", report.Due)
	}
	if report.Processed != 1 {
		t.Errorf("processed = %d, want 1", report.Processed)
	}
	if len(report.Failures) != 1 {
		t.Fatalf("failures = %+v, want exactly one", report.Failures)
	}
	if report.Failures[0].AccountId != doomed.ID {
		t.Errorf("failed account = %d, want %d", report.Failures[0].AccountId, doomed.ID)
	}
	if got := currentBalance(t, ctx, good.ID); !got.Equal(mustDecimal(t, "150")) {
		t.Errorf("good account balance = %s, want 150", got)
	}
}

// Regression: rate creation is idempotent per (from, to, rate_date)
// and conversion prefers fresher observations.
func TestExchangeRates_DedupAndConvert(t *testing.T) {
	ctx := setupLedgerDB(t)

	day := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	first, err := models.CreateExchangeRate(ctx, &models.NewExchangeRate{
		FromCurrency: "US Dollar (USD)",
		ToCurrency:   "Euro (EUR)",
		Rate:         mustDecimal(t, "0.92"),
		RateDate:     &day,
		Source:       models.RateSourceScraper,
	})
	if err != nil {
		t.Fatalf("CreateExchangeRate: %v", err)
	}
	again, err := models.CreateExchangeRate(ctx, &models.NewExchangeRate{
		FromCurrency: "US Dollar (USD)",
		ToCurrency:   "Euro (EUR)",
		Rate:         mustDecimal(t, "0.99"),
		RateDate:     &day,
		Source:       models.RateSourceScraper,
	})
	if err != nil {
		t.Fatalf("CreateExchangeRate repeat: %v", err)
	}
	if again.ID != first.ID {
		t.Errorf("repeat insert created id %d, want existing %d", again.ID, first.ID)
	}
	if !again.Rate.Equal(mustDecimal(t, "0.92")) {
		t.Errorf("rate = %s, want original 0.92", again.Rate)
	}

	result, err := models.ConvertCurrency(ctx, mustDecimal(t, "50"), "eur", "USD")
	if err != nil {
		t.Fatalf("ConvertCurrency: %v", err)
	}
	if result.Path != "inverse" {
		t.Errorf("path = %q, want inverse", result.Path)
	}
}

func startMySQLContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("ledger-test-mysql-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-e", "MYSQL_ROOT_PASSWORD=testpw",
		"-e", "MYSQL_DATABASE=ledger_test",
		"-p", "127.0.0.1:0:3306",
		"mysql:8.0",
		"--default-authentication-plugin=mysql_native_password",
	)
	if err != nil {
		t.Fatalf("start mysql container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "3306/tcp")
	if err != nil {
		t.Fatalf("mysql docker port: %v", err)
	}
	deadline := time.Now().Add(120 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "mysqladmin", "ping", "-h", "127.0.0.1", "-ptestpw", "--silent")
		if err == nil {
			return name, port
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("mysql did not become ready")
	return "", ""
}

func dockerHostPort(container, portProto string) (string, error) {
	out, err := dockerRun("port", container, portProto)
	if err != nil {
		return "", fmt.Errorf("docker port: %w: %s", err, out)
	}
	re := regexp.MustCompile(`:(\d+)`)
	m := re.FindStringSubmatch(out)
	if len(m) != 2 {
		return "", fmt.Errorf("unexpected docker port output: %q", out)
	}
	return m[1], nil
}

func dockerRmForce(container string) error {
	if strings.TrimSpace(container) == "" {
		return nil
	}
	_, err := dockerRun("rm", "-f", container)
	return err
}

func dockerRun(args ...string) (string, error) {
	cmd := exec.Command("docker", args...)
	b, err := cmd.CombinedOutput()
	return string(b), err
}
