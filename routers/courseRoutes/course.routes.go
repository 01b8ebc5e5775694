package courseRoutes

import (
	controllers "learnhub/controllers/course"
	"learnhub/middleware"
	validators "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all learner-facing course routes
func SetupCourseRoutes(app *fiber.App) {
	userGroup := app.Group("/course")

	// Course listing and details (published courses)
	userGroup.Get("/list", middleware.JWTMiddleware, validators.AdminList(), controllers.ListCourses)
	userGroup.Get("/:id", middleware.JWTMiddleware, validators.CourseIDParam(), controllers.GetCourseDetails)

	// Enrollment
	userGroup.Post("/:id/enroll", middleware.JWTMiddleware, validators.EnrollCourse(), controllers.EnrollInCourse)
	userGroup.Get("/:course_id/progress", middleware.JWTMiddleware, validators.GetCourseProgress(), controllers.GetCourseProgress)
	userGroup.Post("/:course_id/lesson/:lesson_id/complete", middleware.JWTMiddleware, validators.MarkLessonComplete(), controllers.MarkLessonComplete)

	// Quiz taking
	userGroup.Get("/:course_id/quiz/:quiz_id", middleware.JWTMiddleware, validators.GetQuiz(), controllers.GetQuizForLearner)
	userGroup.Post("/:course_id/quiz/:quiz_id/submit", middleware.JWTMiddleware, validators.SubmitAttempt(), controllers.SubmitQuizAttempt)
	userGroup.Get("/:course_id/quiz/:quiz_id/attempts", middleware.JWTMiddleware, validators.GetQuiz(), controllers.GetAttemptHistory)

	// Reviews
	userGroup.Post("/:id/review", middleware.JWTMiddleware, validators.CreateReview(), controllers.CreateReview)
	userGroup.Get("/:id/reviews", middleware.JWTMiddleware, validators.CourseIDParam(), controllers.ListReviews)

	// Discussions
	userGroup.Post("/:course_id/lesson/:lesson_id/discussion", middleware.JWTMiddleware, validators.CreateDiscussionPost(), controllers.CreateDiscussionPost)
	userGroup.Get("/:course_id/lesson/:lesson_id/discussion", middleware.JWTMiddleware, validators.ListDiscussionPosts(), controllers.ListDiscussionPosts)

	// Certificate request
	userGroup.Post("/:course_id/certificate/request", middleware.JWTMiddleware, validators.RequestCertificateValidator(), controllers.RequestCertificate)

	// Invitations
	inviteGroup := app.Group("/invitation")
	inviteGroup.Post("/:token/accept", middleware.JWTMiddleware, validators.AcceptInvitation(), controllers.AcceptInvitation)

	// User enrollments, certificates and leaderboard
	userEnrollGroup := app.Group("/user")
	userEnrollGroup.Get("/enrollments", middleware.JWTMiddleware, controllers.GetMyEnrollments)
	userEnrollGroup.Get("/certificates", middleware.JWTMiddleware, controllers.GetUserCertificates)
	userEnrollGroup.Get("/payments", middleware.JWTMiddleware, controllers.GetPaymentHistory)

	app.Get("/leaderboard", middleware.JWTMiddleware, controllers.GetPointsLeaderboard)
}
