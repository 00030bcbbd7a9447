package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"vaadly/internal/middleware"
	"vaadly/internal/services"
	"vaadly/internal/validator"
)

// RouterConfig holds the dependencies for assembling the API router.
type RouterConfig struct {
	DB              *gorm.DB
	SchedulerAPIKey string
}

// NewRouter wires services, handlers, and middleware into a complete engine.
// Shared by cmd/api and the handler tests so both exercise the same routes.
func NewRouter(cfg RouterConfig) *gin.Engine {
	validator.Register()

	projectService := services.NewProjectService(cfg.DB)
	supplierService := services.NewSupplierService(cfg.DB)
	templateService := services.NewTemplateService(cfg.DB)
	entryService := services.NewEntryService(cfg.DB)
	budgetService := services.NewBudgetService(cfg.DB)
	generationService := services.NewGenerationService(cfg.DB)
	projectionService := services.NewProjectionService(cfg.DB)
	alertService := services.NewAlertService(cfg.DB)
	rolloverService := services.NewRolloverService(cfg.DB, projectionService)

	projectHandler := NewProjectHandler(projectService)
	supplierHandler := NewSupplierHandler(supplierService)
	templateHandler := NewTemplateHandler(templateService, projectionService)
	entryHandler := NewEntryHandler(entryService)
	budgetHandler := NewBudgetHandler(budgetService)
	dashboardHandler := NewDashboardHandler(projectionService, alertService, rolloverService)
	schedulerHandler := NewSchedulerHandler(generationService, rolloverService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	projects := v1.Group("/projects")
	projects.POST("", projectHandler.CreateProject)
	projects.GET("", projectHandler.GetProjects)
	projects.GET("/:id", projectHandler.GetProjectByID)
	projects.PUT("/:id", projectHandler.UpdateProject)
	projects.DELETE("/:id", projectHandler.DeactivateProject)
	projects.GET("/:id/templates", templateHandler.GetProjectTemplates)
	projects.GET("/:id/entries", entryHandler.GetProjectEntries)
	projects.GET("/:id/budgets", budgetHandler.GetProjectBudgets)
	projects.GET("/:id/totals", dashboardHandler.GetProjectTotals)
	projects.GET("/:id/alerts", dashboardHandler.GetProjectAlerts)
	projects.GET("/:id/periods", dashboardHandler.GetProjectPeriods)

	suppliers := v1.Group("/suppliers")
	suppliers.POST("", supplierHandler.CreateSupplier)
	suppliers.GET("", supplierHandler.GetSuppliers)
	suppliers.GET("/:id", supplierHandler.GetSupplierByID)
	suppliers.PUT("/:id", supplierHandler.UpdateSupplier)
	suppliers.DELETE("/:id", supplierHandler.DeleteSupplier)

	templates := v1.Group("/templates")
	templates.POST("", templateHandler.CreateTemplate)
	templates.GET("/:id", templateHandler.GetTemplateByID)
	templates.PUT("/:id", templateHandler.UpdateTemplate)
	templates.POST("/:id/deactivate", templateHandler.DeactivateTemplate)
	templates.DELETE("/:id", templateHandler.DeleteTemplate)
	templates.GET("/:id/entries", templateHandler.GetTemplateEntries)
	templates.GET("/:id/occurrences", templateHandler.GetFutureOccurrences)

	entries := v1.Group("/entries")
	entries.POST("", entryHandler.CreateEntry)
	entries.GET("/:id", entryHandler.GetEntryByID)
	entries.PUT("/:id", entryHandler.UpdateEntry)
	entries.DELETE("/:id", entryHandler.DeleteEntry)

	budgets := v1.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("/:id", budgetHandler.GetBudgetByID)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)

	scheduler := v1.Group("/scheduler")
	scheduler.Use(middleware.SchedulerAuthMiddleware(cfg.SchedulerAPIKey))
	scheduler.POST("/generate", schedulerHandler.Generate)
	scheduler.POST("/rollover", schedulerHandler.Rollover)

	return router
}
