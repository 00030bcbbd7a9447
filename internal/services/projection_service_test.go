package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"vaadly/internal/models"
	"vaadly/internal/testutil"
)

func TestComputeProjectTotals(t *testing.T) {
	t.Run("actual_entries_only", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProjectionService(db)
		project := testutil.CreateTestProject(t, db)
		testutil.CreateTestEntry(t, db, project.ID, models.DirectionIncome, decimal.NewFromInt(2000), testutil.Date(2024, time.February, 1))
		testutil.CreateTestEntry(t, db, project.ID, models.DirectionExpense, decimal.NewFromInt(800), testutil.Date(2024, time.February, 10))

		totals, err := svc.ComputeProjectTotals(project.ID, testutil.Date(2024, time.March, 1))
		testutil.AssertNoError(t, err)

		if !totals.ActualIncome.Equal(decimal.NewFromInt(2000)) {
			t.Errorf("expected actual income 2000, got %s", totals.ActualIncome)
		}
		if !totals.ActualExpense.Equal(decimal.NewFromInt(800)) {
			t.Errorf("expected actual expense 800, got %s", totals.ActualExpense)
		}
		if !totals.Profit.Equal(decimal.NewFromInt(1200)) {
			t.Errorf("expected profit 1200, got %s", totals.Profit)
		}
		if totals.StatusColor != StatusGreen {
			t.Errorf("expected green status, got %s", totals.StatusColor)
		}
	})

	t.Run("monthly_budget_counts_inclusive_months", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProjectionService(db)
		project := testutil.CreateTestProjectWithContract(t, db,
			testutil.Date(2024, time.January, 1), testutil.Date(2024, time.December, 31))
		monthly := decimal.NewFromInt(1000)
		db.Model(project).Update("budget_monthly", monthly)

		// Jan 1 through Mar 15 touches Jan, Feb, Mar.
		totals, err := svc.ComputeProjectTotals(project.ID, testutil.Date(2024, time.March, 15))
		testutil.AssertNoError(t, err)

		if !totals.BudgetIncome.Equal(decimal.NewFromInt(3000)) {
			t.Errorf("expected budget income 3000, got %s", totals.BudgetIncome)
		}
		if !totals.TotalIncome.Equal(decimal.NewFromInt(3000)) {
			t.Errorf("expected total income 3000, got %s", totals.TotalIncome)
		}
	})

	t.Run("monthly_budget_takes_precedence_over_annual", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProjectionService(db)
		project := testutil.CreateTestProjectWithContract(t, db,
			testutil.Date(2024, time.January, 1), testutil.Date(2024, time.December, 31))
		db.Model(project).Updates(map[string]interface{}{
			"budget_monthly": decimal.NewFromInt(1000),
			"budget_annual":  decimal.NewFromInt(99999),
		})

		totals, err := svc.ComputeProjectTotals(project.ID, testutil.Date(2024, time.February, 1))
		testutil.AssertNoError(t, err)

		if !totals.BudgetIncome.Equal(decimal.NewFromInt(2000)) {
			t.Errorf("expected monthly budget to win with 2000, got %s", totals.BudgetIncome)
		}
	})

	t.Run("annual_budget_prorated_by_days", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProjectionService(db)
		project := testutil.CreateTestProjectWithContract(t, db,
			testutil.Date(2024, time.January, 1), testutil.Date(2024, time.December, 31))
		db.Model(project).Update("budget_annual", decimal.NewFromInt(36500))

		// 31 days elapsed inclusive: 36500 * 31 / 365 = 3100.
		totals, err := svc.ComputeProjectTotals(project.ID, testutil.Date(2024, time.January, 31))
		testutil.AssertNoError(t, err)

		if !totals.BudgetIncome.Equal(decimal.NewFromInt(3100)) {
			t.Errorf("expected prorated budget income 3100, got %s", totals.BudgetIncome)
		}
	})

	t.Run("zero_income_with_expense_is_full_loss", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProjectionService(db)
		project := testutil.CreateTestProject(t, db)
		testutil.CreateTestEntry(t, db, project.ID, models.DirectionExpense, decimal.NewFromInt(500), testutil.Date(2024, time.February, 1))

		totals, err := svc.ComputeProjectTotals(project.ID, testutil.Date(2024, time.March, 1))
		testutil.AssertNoError(t, err)

		if totals.ProfitPercent != -100 {
			t.Errorf("expected profit percent -100, got %f", totals.ProfitPercent)
		}
		if totals.StatusColor != StatusRed {
			t.Errorf("expected red status, got %s", totals.StatusColor)
		}
	})

	t.Run("empty_project_is_yellow", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProjectionService(db)
		project := testutil.CreateTestProject(t, db)

		totals, err := svc.ComputeProjectTotals(project.ID, testutil.Date(2024, time.March, 1))
		testutil.AssertNoError(t, err)

		if totals.ProfitPercent != 0 {
			t.Errorf("expected profit percent 0, got %f", totals.ProfitPercent)
		}
		if totals.StatusColor != StatusYellow {
			t.Errorf("expected yellow status, got %s", totals.StatusColor)
		}
	})

	t.Run("fund_entries_excluded_from_totals", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProjectionService(db)
		project := testutil.CreateTestProject(t, db)
		testutil.CreateTestEntry(t, db, project.ID, models.DirectionIncome, decimal.NewFromInt(1000), testutil.Date(2024, time.February, 1))
		fundEntry := testutil.CreateTestEntry(t, db, project.ID, models.DirectionExpense, decimal.NewFromInt(600), testutil.Date(2024, time.February, 5))
		db.Model(fundEntry).Update("from_fund", true)

		totals, err := svc.ComputeProjectTotals(project.ID, testutil.Date(2024, time.March, 1))
		testutil.AssertNoError(t, err)

		if !totals.ActualExpense.IsZero() {
			t.Errorf("expected fund expense excluded, got %s", totals.ActualExpense)
		}
		if !totals.Profit.Equal(decimal.NewFromInt(1000)) {
			t.Errorf("expected profit 1000, got %s", totals.Profit)
		}
	})

	t.Run("project_not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProjectionService(db)

		_, err := svc.ComputeProjectTotals("00000000-0000-0000-0000-000000000000", testutil.Date(2024, time.March, 1))
		testutil.AssertAppError(t, err, "PROJECT_NOT_FOUND")
	})
}

func TestProjectionNoDoubleCounting(t *testing.T) {
	t.Run("materialized_occurrences_not_projected_again", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		gen := NewGenerationService(db)
		svc := NewProjectionService(db)
		project := testutil.CreateTestProjectWithContract(t, db,
			testutil.Date(2024, time.January, 1), testutil.Date(2024, time.December, 31))
		testutil.CreateTestTemplate(t, db, project.ID, decimal.NewFromInt(500), 15, testutil.Date(2024, time.January, 1))

		// Materialize Jan and Feb; Mar stays projected.
		_, err := gen.GenerateForRange(context.Background(), testutil.Date(2024, time.January, 1), testutil.Date(2024, time.February, 29))
		testutil.AssertNoError(t, err)

		totals, err := svc.ComputeProjectTotals(project.ID, testutil.Date(2024, time.March, 31))
		testutil.AssertNoError(t, err)

		if !totals.ActualExpense.Equal(decimal.NewFromInt(1000)) {
			t.Errorf("expected actual expense 1000, got %s", totals.ActualExpense)
		}
		if !totals.ProjectedExpense.Equal(decimal.NewFromInt(500)) {
			t.Errorf("expected projected expense 500, got %s", totals.ProjectedExpense)
		}
	})

	t.Run("edited_amount_counts_once_at_actual_value", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		gen := NewGenerationService(db)
		svc := NewProjectionService(db)
		project := testutil.CreateTestProjectWithContract(t, db,
			testutil.Date(2024, time.January, 1), testutil.Date(2024, time.December, 31))
		tmpl := testutil.CreateTestTemplate(t, db, project.ID, decimal.NewFromInt(500), 15, testutil.Date(2024, time.January, 1))

		_, err := gen.GenerateForDate(context.Background(), testutil.Date(2024, time.January, 15))
		testutil.AssertNoError(t, err)

		// Override the January instance away from the template default.
		err = db.Model(&models.LedgerEntry{}).
			Where("recurring_template_id = ?", tmpl.ID).
			Update("amount", decimal.NewFromInt(650)).Error
		testutil.AssertNoError(t, err)

		totals, err := svc.ComputeProjectTotals(project.ID, testutil.Date(2024, time.February, 29))
		testutil.AssertNoError(t, err)

		// Jan at 650 actual, Feb at 500 projected. The template default for
		// Jan must not reappear anywhere.
		if !totals.ActualExpense.Equal(decimal.NewFromInt(650)) {
			t.Errorf("expected actual expense 650, got %s", totals.ActualExpense)
		}
		if !totals.ProjectedExpense.Equal(decimal.NewFromInt(500)) {
			t.Errorf("expected projected expense 500, got %s", totals.ProjectedExpense)
		}
		if !totals.TotalExpense.Equal(decimal.NewFromInt(1150)) {
			t.Errorf("expected total expense 1150, got %s", totals.TotalExpense)
		}
	})

	t.Run("after_occurrences_cap_spans_actual_and_projected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		gen := NewGenerationService(db)
		svc := NewProjectionService(db)
		project := testutil.CreateTestProjectWithContract(t, db,
			testutil.Date(2024, time.January, 1), testutil.Date(2024, time.December, 31))
		tmpl := testutil.CreateTestTemplate(t, db, project.ID, decimal.NewFromInt(500), 15, testutil.Date(2024, time.January, 1))
		db.Model(tmpl).Updates(map[string]interface{}{"end_type": models.EndAfterOccurrences, "max_occurrences": 3})

		// Two materialized, so only one more may be projected regardless of
		// how long the window runs.
		_, err := gen.GenerateForRange(context.Background(), testutil.Date(2024, time.January, 1), testutil.Date(2024, time.February, 29))
		testutil.AssertNoError(t, err)

		totals, err := svc.ComputeProjectTotals(project.ID, testutil.Date(2024, time.December, 31))
		testutil.AssertNoError(t, err)

		if !totals.ProjectedExpense.Equal(decimal.NewFromInt(500)) {
			t.Errorf("expected one projected occurrence (500), got %s", totals.ProjectedExpense)
		}
	})
}

func TestFutureOccurrences(t *testing.T) {
	t.Run("previews_unmaterialized_dates", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		gen := NewGenerationService(db)
		svc := NewProjectionService(db)
		project := testutil.CreateTestProject(t, db)
		tmpl := testutil.CreateTestTemplate(t, db, project.ID, decimal.NewFromInt(500), 15, testutil.Date(2024, time.January, 1))

		_, err := gen.GenerateForDate(context.Background(), testutil.Date(2024, time.January, 15))
		testutil.AssertNoError(t, err)

		occurrences, err := svc.FutureOccurrences(tmpl.ID, testutil.Date(2024, time.January, 1), 3)
		testutil.AssertNoError(t, err)

		// January is materialized; February and March remain.
		if len(occurrences) != 2 {
			t.Fatalf("expected 2 occurrences, got %d", len(occurrences))
		}
		if !occurrences[0].Date.Equal(testutil.Date(2024, time.February, 15)) {
			t.Errorf("expected first occurrence Feb 15, got %s", occurrences[0].Date)
		}
	})

	t.Run("respects_end_date", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProjectionService(db)
		project := testutil.CreateTestProject(t, db)
		tmpl := testutil.CreateTestTemplate(t, db, project.ID, decimal.NewFromInt(500), 15, testutil.Date(2024, time.January, 1))
		endDate := testutil.Date(2024, time.February, 28)
		db.Model(tmpl).Updates(map[string]interface{}{"end_type": models.EndOnDate, "end_date": endDate})

		occurrences, err := svc.FutureOccurrences(tmpl.ID, testutil.Date(2024, time.January, 1), 12)
		testutil.AssertNoError(t, err)

		if len(occurrences) != 2 {
			t.Fatalf("expected Jan and Feb occurrences only, got %d", len(occurrences))
		}
	})

	t.Run("template_not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProjectionService(db)

		_, err := svc.FutureOccurrences("00000000-0000-0000-0000-000000000000", testutil.Date(2024, time.January, 1), 3)
		testutil.AssertAppError(t, err, "TEMPLATE_NOT_FOUND")
	})
}
