package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"vaadly/internal/models"
	"vaadly/internal/testutil"
)

func TestCheckCategoryAlerts(t *testing.T) {
	t.Run("under_threshold_is_silent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAlertService(db)
		project := testutil.CreateTestProject(t, db)
		testutil.CreateTestBudget(t, db, project.ID, "maintenance", decimal.NewFromInt(1000), models.BudgetPeriodMonthly, testutil.Date(2024, time.January, 1))
		testutil.CreateTestEntry(t, db, project.ID, models.DirectionExpense, decimal.NewFromInt(500), testutil.Date(2024, time.March, 5))

		alerts, err := svc.CheckCategoryAlerts(project.ID, testutil.Date(2024, time.March, 20))
		testutil.AssertNoError(t, err)
		if len(alerts) != 0 {
			t.Fatalf("expected no alerts at 50%%, got %d", len(alerts))
		}
	})

	t.Run("warning_at_70_percent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAlertService(db)
		project := testutil.CreateTestProject(t, db)
		budget := testutil.CreateTestBudget(t, db, project.ID, "maintenance", decimal.NewFromInt(1000), models.BudgetPeriodMonthly, testutil.Date(2024, time.January, 1))
		testutil.CreateTestEntry(t, db, project.ID, models.DirectionExpense, decimal.NewFromInt(700), testutil.Date(2024, time.March, 5))

		alerts, err := svc.CheckCategoryAlerts(project.ID, testutil.Date(2024, time.March, 20))
		testutil.AssertNoError(t, err)
		if len(alerts) != 1 {
			t.Fatalf("expected 1 alert, got %d", len(alerts))
		}
		alert := alerts[0]
		if alert.Severity != SeverityWarning {
			t.Errorf("expected warning severity, got %s", alert.Severity)
		}
		if alert.BudgetID != budget.ID || alert.Category != "maintenance" {
			t.Errorf("alert points at wrong budget: %+v", alert)
		}
		if alert.Percent != 70 {
			t.Errorf("expected 70 percent, got %f", alert.Percent)
		}
	})

	t.Run("overrun_above_100_percent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAlertService(db)
		project := testutil.CreateTestProject(t, db)
		testutil.CreateTestBudget(t, db, project.ID, "maintenance", decimal.NewFromInt(1000), models.BudgetPeriodMonthly, testutil.Date(2024, time.January, 1))
		testutil.CreateTestEntry(t, db, project.ID, models.DirectionExpense, decimal.NewFromInt(1200), testutil.Date(2024, time.March, 5))

		alerts, err := svc.CheckCategoryAlerts(project.ID, testutil.Date(2024, time.March, 20))
		testutil.AssertNoError(t, err)
		if len(alerts) != 1 {
			t.Fatalf("expected 1 alert, got %d", len(alerts))
		}
		if alerts[0].Severity != SeverityOverrun {
			t.Errorf("expected overrun severity, got %s", alerts[0].Severity)
		}
	})

	t.Run("exactly_100_percent_is_warning_not_overrun", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAlertService(db)
		project := testutil.CreateTestProject(t, db)
		testutil.CreateTestBudget(t, db, project.ID, "maintenance", decimal.NewFromInt(1000), models.BudgetPeriodMonthly, testutil.Date(2024, time.January, 1))
		testutil.CreateTestEntry(t, db, project.ID, models.DirectionExpense, decimal.NewFromInt(1000), testutil.Date(2024, time.March, 5))

		alerts, err := svc.CheckCategoryAlerts(project.ID, testutil.Date(2024, time.March, 20))
		testutil.AssertNoError(t, err)
		if len(alerts) != 1 {
			t.Fatalf("expected 1 alert, got %d", len(alerts))
		}
		if alerts[0].Severity != SeverityWarning {
			t.Errorf("expected warning at exactly 100%%, got %s", alerts[0].Severity)
		}
	})

	t.Run("monthly_window_ignores_other_months", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAlertService(db)
		project := testutil.CreateTestProject(t, db)
		testutil.CreateTestBudget(t, db, project.ID, "maintenance", decimal.NewFromInt(1000), models.BudgetPeriodMonthly, testutil.Date(2024, time.January, 1))
		testutil.CreateTestEntry(t, db, project.ID, models.DirectionExpense, decimal.NewFromInt(900), testutil.Date(2024, time.February, 5))

		alerts, err := svc.CheckCategoryAlerts(project.ID, testutil.Date(2024, time.March, 20))
		testutil.AssertNoError(t, err)
		if len(alerts) != 0 {
			t.Fatalf("expected February spend to be outside the March window, got %d alerts", len(alerts))
		}
	})

	t.Run("annual_window_accumulates_across_months", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAlertService(db)
		project := testutil.CreateTestProject(t, db)
		testutil.CreateTestBudget(t, db, project.ID, "insurance", decimal.NewFromInt(1000), models.BudgetPeriodAnnual, testutil.Date(2024, time.January, 1))
		for _, d := range []time.Time{
			testutil.Date(2024, time.January, 10),
			testutil.Date(2024, time.April, 10),
			testutil.Date(2024, time.August, 10),
		} {
			entry := testutil.CreateTestEntry(t, db, project.ID, models.DirectionExpense, decimal.NewFromInt(300), d)
			db.Model(entry).Update("category", "insurance")
		}

		alerts, err := svc.CheckCategoryAlerts(project.ID, testutil.Date(2024, time.September, 1))
		testutil.AssertNoError(t, err)
		if len(alerts) != 1 {
			t.Fatalf("expected 1 alert from accumulated annual spend, got %d", len(alerts))
		}
		if !alerts[0].Consumed.Equal(decimal.NewFromInt(900)) {
			t.Errorf("expected consumed 900, got %s", alerts[0].Consumed)
		}
	})

	t.Run("other_categories_do_not_consume", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAlertService(db)
		project := testutil.CreateTestProject(t, db)
		testutil.CreateTestBudget(t, db, project.ID, "gardening", decimal.NewFromInt(1000), models.BudgetPeriodMonthly, testutil.Date(2024, time.January, 1))
		// Fixture entries land in the maintenance category.
		testutil.CreateTestEntry(t, db, project.ID, models.DirectionExpense, decimal.NewFromInt(950), testutil.Date(2024, time.March, 5))

		alerts, err := svc.CheckCategoryAlerts(project.ID, testutil.Date(2024, time.March, 20))
		testutil.AssertNoError(t, err)
		if len(alerts) != 0 {
			t.Fatalf("expected no alerts for the gardening budget, got %d", len(alerts))
		}
	})

	t.Run("fund_entries_do_not_consume", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAlertService(db)
		project := testutil.CreateTestProject(t, db)
		testutil.CreateTestBudget(t, db, project.ID, "maintenance", decimal.NewFromInt(1000), models.BudgetPeriodMonthly, testutil.Date(2024, time.January, 1))
		entry := testutil.CreateTestEntry(t, db, project.ID, models.DirectionExpense, decimal.NewFromInt(950), testutil.Date(2024, time.March, 5))
		db.Model(entry).Update("from_fund", true)

		alerts, err := svc.CheckCategoryAlerts(project.ID, testutil.Date(2024, time.March, 20))
		testutil.AssertNoError(t, err)
		if len(alerts) != 0 {
			t.Fatalf("expected fund spend excluded from budget consumption, got %d alerts", len(alerts))
		}
	})

	t.Run("inactive_budget_skipped", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAlertService(db)
		project := testutil.CreateTestProject(t, db)
		budget := testutil.CreateTestBudget(t, db, project.ID, "maintenance", decimal.NewFromInt(1000), models.BudgetPeriodMonthly, testutil.Date(2024, time.January, 1))
		db.Model(budget).Update("is_active", false)
		testutil.CreateTestEntry(t, db, project.ID, models.DirectionExpense, decimal.NewFromInt(1500), testutil.Date(2024, time.March, 5))

		alerts, err := svc.CheckCategoryAlerts(project.ID, testutil.Date(2024, time.March, 20))
		testutil.AssertNoError(t, err)
		if len(alerts) != 0 {
			t.Fatalf("expected inactive budget skipped, got %d alerts", len(alerts))
		}
	})

	t.Run("asof_outside_budget_lifetime", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAlertService(db)
		project := testutil.CreateTestProject(t, db)
		budget := testutil.CreateTestBudget(t, db, project.ID, "maintenance", decimal.NewFromInt(1000), models.BudgetPeriodMonthly, testutil.Date(2024, time.January, 1))
		endDate := testutil.Date(2024, time.February, 29)
		db.Model(budget).Update("end_date", endDate)
		testutil.CreateTestEntry(t, db, project.ID, models.DirectionExpense, decimal.NewFromInt(1500), testutil.Date(2024, time.March, 5))

		alerts, err := svc.CheckCategoryAlerts(project.ID, testutil.Date(2024, time.March, 20))
		testutil.AssertNoError(t, err)
		if len(alerts) != 0 {
			t.Fatalf("expected expired budget to raise nothing, got %d alerts", len(alerts))
		}
	})
}
