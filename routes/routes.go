package routes

import (
	"github.com/gofiber/fiber/v2"

	"crm-backend/controllers"
	"crm-backend/middlewares"
)

// Register wires all HTTP routes.
func Register(app *fiber.App) {
	api := app.Group("/api")

	// Public auth endpoints
	api.Post("/registration", controllers.Register)
	api.Post("/login", controllers.Login)
	api.Post("/logout", controllers.Logout)

	// Protected endpoints (JWT auth)
	protected := api.Group("")
	protected.Use(middlewares.IsAuthenticatedHeader())

	// Idempotency guard FIRST (not tied to request TX)
	protected.Use(middlewares.Idempotency())

	// Then the per-request transaction (commits or rolls back wholesale)
	protected.Use(middlewares.Tx())

	// Customers
	protected.Post("/customer", controllers.CreateCustomer)
	protected.Get("/customers", controllers.GetCustomers)
	protected.Get("/customer/:id", controllers.GetCustomer)
	protected.Put("/customer/:id", controllers.UpdateCustomer)

	// Catalog
	protected.Post("/services", controllers.CreateService)
	protected.Get("/services", controllers.GetServices)
	protected.Get("/services/:id", controllers.GetService)
	protected.Put("/services/:id", controllers.UpdateService)
	protected.Delete("/services/:id", controllers.DeleteService)
	protected.Get("/tax-rates", controllers.GetTaxRates)
	protected.Post("/tax-rates", controllers.CreateTaxRate)

	// Invoices (priced items + settlement)
	protected.Post("/invoices", controllers.CreateInvoice)
	protected.Get("/invoices", controllers.GetInvoices)
	protected.Get("/invoices/:id", controllers.GetInvoice)
	protected.Put("/invoices/:id", controllers.UpdateInvoice)
	protected.Delete("/invoices/:id", controllers.DeleteInvoice)

	// Payments
	protected.Post("/payments", controllers.CreatePayment)
	protected.Get("/payments", controllers.GetPayments)
	protected.Get("/payments/:id", controllers.GetPayment)
	protected.Put("/payments/:id", controllers.UpdatePayment)
	protected.Delete("/payments/:id", controllers.DeletePayment)

	// Contracts + document generation
	protected.Post("/contracts", controllers.CreateContract)
	protected.Get("/contracts", controllers.GetContracts)
	protected.Get("/contracts/:id", controllers.GetContract)
	protected.Put("/contracts/:id", controllers.UpdateContract)
	protected.Delete("/contracts/:id", controllers.DeleteContract)
	protected.Post("/contracts/:id/generate-from-template", controllers.GenerateFromTemplate)

	// Templates
	protected.Post("/templates", controllers.CreateTemplate)
	protected.Get("/templates", controllers.GetTemplates)
	protected.Get("/templates/:id", controllers.GetTemplate)
	protected.Put("/templates/:id", controllers.UpdateTemplate)
	protected.Delete("/templates/:id", controllers.DeleteTemplate)

	// Settings
	protected.Get("/settings", controllers.GetSettings)
	protected.Put("/settings/:key", controllers.UpsertSetting)
}
