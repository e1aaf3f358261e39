package routes

import (
	"github.com/gofiber/fiber/v2"

	"pos-fbr-backend/controllers"
	"pos-fbr-backend/middlewares"
)

// Register wires all HTTP routes.
func Register(app *fiber.App) {
	api := app.Group("/api")

	// Public endpoints
	api.Post("/auth/login", controllers.Login)
	api.Get("/health", controllers.Health)
	api.Get("/fbr-status", controllers.FBRIntegrationStatus)

	// Protected endpoints (JWT auth)
	protected := api.Group("")
	protected.Use(middlewares.IsAuthenticatedHeader())

	// Idempotency guard for replay-safe mutations
	protected.Use(middlewares.Idempotency())

	// Branches
	protected.Post("/branches", controllers.CreateBranch)
	protected.Get("/branches", controllers.GetBranches)
	protected.Get("/branches/:id", controllers.GetBranch)
	protected.Put("/branches/:id", controllers.UpdateBranch)
	protected.Delete("/branches/:id", controllers.DeleteBranch)

	// Devices
	protected.Post("/devices", controllers.CreateDevice)
	protected.Get("/devices", controllers.GetDevices)
	protected.Get("/devices/:id", controllers.GetDevice)
	protected.Put("/devices/:id", controllers.UpdateDevice)
	protected.Delete("/devices/:id", controllers.DeleteDevice)

	// Categories
	protected.Post("/categories", controllers.CreateCategory)
	protected.Get("/categories", controllers.GetCategories)
	protected.Get("/categories/:id", controllers.GetCategory)
	protected.Put("/categories/:id", controllers.UpdateCategory)
	protected.Delete("/categories/:id", controllers.DeleteCategory)

	// Tax rates
	protected.Post("/tax-rates", controllers.CreateTaxRate)
	protected.Get("/tax-rates", controllers.GetTaxRates)
	protected.Get("/tax-rates/:id", controllers.GetTaxRate)
	protected.Put("/tax-rates/:id", controllers.UpdateTaxRate)
	protected.Delete("/tax-rates/:id", controllers.DeleteTaxRate)

	// Products
	protected.Post("/products", controllers.CreateProduct)
	protected.Get("/products", controllers.GetProducts)
	protected.Get("/products/code/:code", controllers.GetProductByCode)
	protected.Get("/products/:id", controllers.GetProduct)
	protected.Put("/products/:id", controllers.UpdateProduct)
	protected.Delete("/products/:id", controllers.DeleteProduct)

	// Customers
	protected.Post("/customers", controllers.CreateCustomer)
	protected.Get("/customers", controllers.GetCustomers)
	protected.Get("/customers/:id", controllers.GetCustomer)
	protected.Put("/customers/:id", controllers.UpdateCustomer)
	protected.Delete("/customers/:id", controllers.DeleteCustomer)

	// Users
	protected.Post("/users", controllers.CreateUser)
	protected.Get("/users", controllers.GetUsers)
	protected.Get("/users/:id", controllers.GetUser)
	protected.Put("/users/:id", controllers.UpdateUser)
	protected.Delete("/users/:id", controllers.DeleteUser)

	// Sales (create + sync, no update/delete: invoices are immutable)
	protected.Post("/sales", controllers.CreateSale)
	protected.Get("/sales", controllers.GetSales)
	protected.Get("/sales/stats/daily", controllers.GetDailyStats)
	protected.Get("/sales/stats/monthly", controllers.GetMonthlyStats)
	protected.Get("/sales/fbr-status/:id", controllers.GetFBRStatus)
	protected.Get("/sales/:id", controllers.GetSale)
	protected.Post("/sales/:id/sync-fbr", controllers.SyncSaleToFBR)
}
