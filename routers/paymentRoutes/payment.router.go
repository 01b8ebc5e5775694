package paymentRoutes

import (
	controllers "learnhub/controllers/course"
	"learnhub/middleware"
	validators "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupPaymentRoutes sets up checkout routes for paid courses
func SetupPaymentRoutes(app *fiber.App) {
	paymentGroup := app.Group("/payment")

	paymentGroup.Post("/course/:id/order", middleware.JWTMiddleware, validators.CreatePaymentOrder(), controllers.CreatePaymentOrder)
	paymentGroup.Post("/verify", middleware.JWTMiddleware, validators.VerifyPayment(), controllers.VerifyPayment)
}
