package controllers

import (
	"learnhub/database"
	"learnhub/middleware"
	"learnhub/models"
	courseModels "learnhub/models/course"
	"learnhub/utils"

	"github.com/gofiber/fiber/v2"
)

// CreatePaymentOrder starts checkout for a paid course
func CreatePaymentOrder(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND status = ?", courseID, false, "ACTIVE").First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found or not active!", nil)
	}

	if course.Price <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "This course is free, enroll directly!", nil)
	}

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "User already enrolled in this course!", nil)
	}

	receipt := utils.GenerateReceipt()
	order, err := utils.CreatePaymentOrder(course.Price, course.Currency, receipt)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Failed to create payment order!", nil)
	}

	payment := models.Payment{
		UserID:         userID,
		CourseID:       uint(courseID),
		Amount:         course.Price,
		Currency:       course.Currency,
		Receipt:        receipt,
		GatewayOrderID: order.ID,
		Status:         "CREATED",
	}

	if err := database.Database.Db.Create(&payment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record payment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Payment order created successfully!", fiber.Map{
		"payment_id": payment.ID,
		"order_id":   order.ID,
		"amount":     order.Amount,
		"currency":   order.Currency,
		"receipt":    receipt,
	})
}

// VerifyPayment checks the gateway signature, captures the payment and
// enrolls the user in the purchased course
func VerifyPayment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	reqData, ok := c.Locals("validatedPaymentVerify").(*struct {
		OrderID   string `json:"razorpay_order_id"`
		PaymentID string `json:"razorpay_payment_id"`
		Signature string `json:"razorpay_signature"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var payment models.Payment
	if err := database.Database.Db.Where("gateway_order_id = ? AND user_id = ? AND is_deleted = ?", reqData.OrderID, userID, false).First(&payment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Payment not found!", nil)
	}

	if payment.Status == "CAPTURED" {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Payment already captured!", nil)
	}

	if !utils.VerifyPaymentSignature(reqData.OrderID, reqData.PaymentID, reqData.Signature) {
		payment.Status = "FAILED"
		payment.FailureReason = "Signature verification failed"
		database.Database.Db.Save(&payment)
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Payment verification failed!", nil)
	}

	var totalLessons int64
	database.Database.Db.Model(&courseModels.Lesson{}).
		Where("course_id = ? AND is_deleted = ? AND is_published = ?", payment.CourseID, false, true).Count(&totalLessons)

	tx := database.Database.Db.Begin()

	payment.Status = "CAPTURED"
	payment.GatewayPayment = reqData.PaymentID
	if err := tx.Save(&payment).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update payment!", nil)
	}

	var enrollment courseModels.Enrollment
	err := tx.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, payment.CourseID, false).First(&enrollment).Error
	if err != nil {
		enrollment = courseModels.Enrollment{
			UserID:       userID,
			CourseID:     payment.CourseID,
			Status:       "ENROLLED",
			Source:       "PURCHASE",
			TotalLessons: int(totalLessons),
		}
		if err := tx.Create(&enrollment).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll in course!", nil)
		}
	}

	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment verified and enrollment complete!", fiber.Map{
		"payment":    payment,
		"enrollment": enrollment,
	})
}

// GetPaymentHistory lists the user's payments
func GetPaymentHistory(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	var payments []models.Payment
	if err := database.Database.Db.Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("created_at desc").Find(&payments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch payments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payments fetched successfully!", payments)
}
