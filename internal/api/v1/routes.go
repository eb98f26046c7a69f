package apiv1

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gigbookhq/gigbook/app/controllers"
	"github.com/gigbookhq/gigbook/internal/pkg/middleware"
)

// RegisterRoutes wires the versioned JSON API. Everything here requires a
// logged-in member; write operations on money and membership additionally
// require the admin role.
func RegisterRoutes(v1 fiber.Router) {
	v1.Get("/ping", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ping": "pong"})
	})

	v1.Use(middleware.RequireAuth)

	v1.Get("/me", controllers.HandleMe)
	v1.Get("/stats", controllers.HandleDashboardStats)

	// Gigs
	v1.Get("/gigs", controllers.HandleListGigs)
	v1.Post("/gigs", controllers.HandleCreateGig)
	v1.Get("/gigs/upcoming", controllers.HandleListUpcomingGigs)
	v1.Get("/gigs/:uuid", controllers.HandleGetGig)
	v1.Patch("/gigs/:uuid", controllers.HandleUpdateGig)
	v1.Post("/gigs/:uuid/cancel", middleware.RequireAdmin, controllers.HandleCancelGig)

	// Gig financials and payouts
	v1.Get("/gigs/:uuid/financials", controllers.HandleGigFinancials)
	v1.Get("/gigs/:uuid/payouts", controllers.HandleListPayoutsForGig)
	v1.Post("/gigs/:uuid/payouts", middleware.RequireAdmin, controllers.HandleGeneratePayouts)
	v1.Get("/payouts/me", controllers.HandleListMyPayouts)
	v1.Get("/payouts/pending", middleware.RequireAdmin, controllers.HandleListPendingPayouts)
	v1.Patch("/payouts/:uuid/status", middleware.RequireAdmin, controllers.HandleUpdatePayoutStatus)

	// Payments
	v1.Get("/payments", controllers.HandleListPayments)
	v1.Get("/gigs/:uuid/payments", controllers.HandleListPaymentsForGig)
	v1.Post("/gigs/:uuid/payments", middleware.RequireAdmin, controllers.HandleCreatePayment)
	v1.Delete("/payments/:id", middleware.RequireAdmin, controllers.HandleDeletePayment)

	// Expenses
	v1.Get("/expenses", controllers.HandleListExpenses)
	v1.Post("/expenses", controllers.HandleCreateExpense)
	v1.Patch("/expenses/:id", controllers.HandleUpdateExpense)
	v1.Delete("/expenses/:id", middleware.RequireAdmin, controllers.HandleDeleteExpense)
	v1.Post("/expenses/:id/receipt", controllers.HandleUploadReceipt)

	// Band-wide finance views
	v1.Get("/finance/summary", controllers.HandleFinancialSummary)
	v1.Get("/finance/expenses-by-category", controllers.HandleExpensesByCategory)
	v1.Get("/finance/ledger", controllers.HandleGigLedger)

	// Availability
	v1.Get("/gigs/:uuid/availability", controllers.HandleListAvailability)
	v1.Put("/gigs/:uuid/availability", controllers.HandleSetAvailability)
	v1.Get("/availability/me", controllers.HandleMyAvailability)

	// Songs and setlists
	v1.Get("/songs", controllers.HandleListSongs)
	v1.Post("/songs", controllers.HandleCreateSong)
	v1.Patch("/songs/:id", controllers.HandleUpdateSong)
	v1.Delete("/songs/:id", controllers.HandleDeleteSong)
	v1.Get("/gigs/:uuid/setlist", controllers.HandleGetSetlist)
	v1.Put("/gigs/:uuid/setlist", controllers.HandleSetSetlist)
	v1.Delete("/gigs/:uuid/setlist", controllers.HandleClearSetlist)

	// Members
	v1.Get("/members", controllers.HandleListMembers)
	v1.Post("/members", middleware.RequireAdmin, controllers.HandleCreateMember)
	v1.Patch("/members/:id", middleware.RequireAdmin, controllers.HandleUpdateMember)
}
