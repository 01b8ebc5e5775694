package courseRoutes

import (
	controllers "learnhub/controllers/course"
	"learnhub/middleware"
	validators "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminCourseRoutes sets up all course management routes
func SetupAdminCourseRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin/course")

	// Course CRUD
	adminGroup.Post("/create", middleware.JWTMiddleware, validators.CreateCourseAdmin(), controllers.AdminCreateCourse)
	adminGroup.Put("/:id", middleware.JWTMiddleware, validators.UpdateCourseAdmin(), controllers.AdminUpdateCourse)
	adminGroup.Delete("/:id", middleware.JWTMiddleware, validators.CourseIDParam(), controllers.AdminDeleteCourse)
	adminGroup.Get("/list", middleware.JWTMiddleware, validators.AdminList(), controllers.AdminGetAllCourses)
	adminGroup.Get("/:id", middleware.JWTMiddleware, validators.CourseIDParam(), controllers.AdminGetCourseDetails)
	adminGroup.Post("/:id/publish", middleware.JWTMiddleware, validators.PublishCourse(), controllers.AdminPublishCourse)

	// Lesson Management
	adminGroup.Post("/:id/lesson", middleware.JWTMiddleware, validators.CreateLesson(), controllers.AdminCreateLesson)
	adminGroup.Post("/:id/lessons/reorder", middleware.JWTMiddleware, validators.ReorderLessons(), controllers.AdminReorderLessons)

	lessonGroup := app.Group("/admin/lesson")
	lessonGroup.Put("/:lesson_id", middleware.JWTMiddleware, validators.UpdateLesson(), controllers.AdminUpdateLesson)
	lessonGroup.Delete("/:lesson_id", middleware.JWTMiddleware, validators.DeleteLesson(), controllers.AdminDeleteLesson)
	lessonGroup.Post("/:lesson_id/publish", middleware.JWTMiddleware, validators.PublishLesson(), controllers.AdminPublishLesson)

	// Quiz Authoring
	adminGroup.Post("/:course_id/quiz", middleware.JWTMiddleware, validators.CreateQuiz(), controllers.AdminCreateQuiz)
	adminGroup.Get("/:id/quizzes", middleware.JWTMiddleware, validators.CourseIDParam(), controllers.AdminListQuizzes)

	quizGroup := app.Group("/admin/quiz")
	quizGroup.Get("/:quiz_id", middleware.JWTMiddleware, validators.QuizIDParam(), controllers.AdminGetQuiz)
	quizGroup.Put("/:quiz_id", middleware.JWTMiddleware, validators.UpdateQuiz(), controllers.AdminUpdateQuiz)
	quizGroup.Delete("/:quiz_id", middleware.JWTMiddleware, validators.QuizIDParam(), controllers.AdminDeleteQuiz)
	quizGroup.Post("/:quiz_id/question", middleware.JWTMiddleware, validators.AddQuestion(), controllers.AdminAddQuestion)

	questionGroup := app.Group("/admin/question")
	questionGroup.Put("/:question_id", middleware.JWTMiddleware, validators.UpdateQuestion(), controllers.AdminUpdateQuestion)
	questionGroup.Delete("/:question_id", middleware.JWTMiddleware, validators.DeleteQuestion(), controllers.AdminDeleteQuestion)

	// Invitations
	adminGroup.Post("/:id/invite", middleware.JWTMiddleware, validators.InviteToCourse(), controllers.InviteToCourse)

	// Enrollment & Progress Tracking
	adminGroup.Get("/:id/enrollments", middleware.JWTMiddleware, validators.CourseIDParam(), controllers.AdminGetCourseEnrollments)
	adminGroup.Get("/:id/completed", middleware.JWTMiddleware, validators.CourseIDParam(), controllers.AdminGetCompletedStudents)

	studentGroup := app.Group("/admin/student")
	studentGroup.Get("/:user_id/progress", middleware.JWTMiddleware, validators.UserIDParam(), controllers.AdminGetStudentProgress)

	// Certificate Management
	certGroup := app.Group("/admin/certificates")
	certGroup.Get("/pending", middleware.JWTMiddleware, controllers.AdminListCertificateRequests)

	certRequestGroup := app.Group("/admin/certificate")
	certRequestGroup.Post("/:request_id/approve", middleware.JWTMiddleware, validators.ApproveCertificate(), controllers.AdminApproveCertificate)
	certRequestGroup.Post("/:request_id/reject", middleware.JWTMiddleware, validators.RejectCertificate(), controllers.AdminRejectCertificate)

	// User Management
	userGroup := app.Group("/admin/user")
	userGroup.Get("/list", middleware.JWTMiddleware, controllers.AdminListUsers)
	userGroup.Post("/:user_id/block", middleware.JWTMiddleware, validators.UserIDParam(), controllers.AdminBlockUser(true))
	userGroup.Post("/:user_id/unblock", middleware.JWTMiddleware, validators.UserIDParam(), controllers.AdminBlockUser(false))

	// Dashboard
	dashGroup := app.Group("/admin/dashboard")
	dashGroup.Get("/stats", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware("manage-courses"), controllers.AdminDashboardStats)
}
