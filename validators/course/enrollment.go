package courseValidator

import (
	"strings"

	"learnhub/middleware"

	"github.com/gofiber/fiber/v2"
)

// EnrollCourse validates course enrollment request
func EnrollCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}

// GetCourseProgress validates progress request
func GetCourseProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "course_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}

// MarkLessonComplete validates the manual completion request. QUIZ lessons
// cannot be completed this way; the controller enforces that.
func MarkLessonComplete() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "course_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}
		lessonID, ok := parseIDParam(c, "lesson_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Lesson ID!", nil)
		}

		c.Locals("courseID", courseID)
		c.Locals("lessonID", lessonID)
		return c.Next()
	}
}

// ============ Review Validators ============

// CreateReview validates a course review submission
func CreateReview() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		reqData := new(struct {
			Rating  int    `json:"rating"`
			Comment string `json:"comment"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if reqData.Rating < 1 || reqData.Rating > 5 {
			errors["rating"] = "Rating must be between 1 and 5!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("courseID", courseID)
		c.Locals("validatedReview", reqData)
		return c.Next()
	}
}

// ============ Discussion Validators ============

// CreateDiscussionPost validates a discussion post or reply
func CreateDiscussionPost() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "course_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}
		lessonID, ok := parseIDParam(c, "lesson_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Lesson ID!", nil)
		}

		reqData := new(struct {
			Body     string `json:"body"`
			ParentID *uint  `json:"parent_id"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Body = strings.TrimSpace(reqData.Body)
		if reqData.Body == "" {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"body": "Post body is required!",
			})
		}

		c.Locals("courseID", courseID)
		c.Locals("lessonID", lessonID)
		c.Locals("validatedPost", reqData)
		return c.Next()
	}
}

// ListDiscussionPosts validates a thread listing request
func ListDiscussionPosts() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "course_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}
		lessonID, ok := parseIDParam(c, "lesson_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Lesson ID!", nil)
		}

		c.Locals("courseID", courseID)
		c.Locals("lessonID", lessonID)
		return c.Next()
	}
}

// ============ Invitation Validators ============

// InviteToCourse validates a course invitation request
func InviteToCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		reqData := new(struct {
			Email string `json:"email"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Email = strings.TrimSpace(strings.ToLower(reqData.Email))
		if reqData.Email == "" {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"email": "Email is required!",
			})
		}

		c.Locals("courseID", courseID)
		c.Locals("inviteEmail", reqData.Email)
		return c.Next()
	}
}

// AcceptInvitation validates the invitation token param
func AcceptInvitation() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := strings.TrimSpace(c.Params("token"))
		if token == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invitation token is required!", nil)
		}

		c.Locals("inviteToken", token)
		return c.Next()
	}
}

// ============ Certificate Validators ============

// RequestCertificateValidator validates a certificate request
func RequestCertificateValidator() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "course_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}

// ApproveCertificate validates certificate approval request
func ApproveCertificate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID, ok := parseIDParam(c, "request_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Request ID!", nil)
		}

		c.Locals("requestID", requestID)
		return c.Next()
	}
}

// RejectCertificate validates certificate rejection request
func RejectCertificate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID, ok := parseIDParam(c, "request_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Request ID!", nil)
		}

		reqData := new(struct {
			Reason string `json:"reason"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		c.Locals("requestID", requestID)
		c.Locals("rejectionReason", strings.TrimSpace(reqData.Reason))
		return c.Next()
	}
}

// ============ Payment Validators ============

// CreatePaymentOrder validates a checkout request for a paid course
func CreatePaymentOrder() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}

// VerifyPayment validates the gateway callback payload
func VerifyPayment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			OrderID   string `json:"razorpay_order_id"`
			PaymentID string `json:"razorpay_payment_id"`
			Signature string `json:"razorpay_signature"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if strings.TrimSpace(reqData.OrderID) == "" {
			errors["razorpay_order_id"] = "Order ID is required!"
		}
		if strings.TrimSpace(reqData.PaymentID) == "" {
			errors["razorpay_payment_id"] = "Payment ID is required!"
		}
		if strings.TrimSpace(reqData.Signature) == "" {
			errors["razorpay_signature"] = "Signature is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedPaymentVerify", reqData)
		return c.Next()
	}
}
