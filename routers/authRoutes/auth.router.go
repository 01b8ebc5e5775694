package authRoutes

import (
	authControllers "learnhub/controllers/auth"
	"learnhub/middleware"
	authValidators "learnhub/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/auth")

	authGroup.Post("/signup", authValidators.SignupValidator(), authControllers.Signup)
	authGroup.Post("/login", authValidators.LoginValidator(), authControllers.Login)
	authGroup.Patch("/verify/otp", authControllers.VerifyEmailOTP)
	authGroup.Get("/profile", middleware.JWTMiddleware, authControllers.GetProfile)
	authGroup.Put("/profile", middleware.JWTMiddleware, authControllers.UpdateProfile)
}
