package controllers

import (
	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"
)

// AdminDashboardStats returns platform-wide numbers for the admin dashboard
func AdminDashboardStats(c *fiber.Ctx) error {
	db := database.Database.Db

	var totalCourses int64
	db.Model(&courseModels.Course{}).Where("is_deleted = ?", false).Count(&totalCourses)

	var publishedCourses int64
	db.Model(&courseModels.Course{}).Where("is_deleted = ? AND is_published = ?", false, true).Count(&publishedCourses)

	var totalEnrollments int64
	db.Model(&courseModels.Enrollment{}).Where("is_deleted = ?", false).Count(&totalEnrollments)

	var completedEnrollments int64
	db.Model(&courseModels.Enrollment{}).Where("is_deleted = ? AND status = ?", false, "COMPLETED").Count(&completedEnrollments)

	monthStart := now.BeginningOfMonth()
	monthEnd := now.EndOfMonth()

	var certificatesThisMonth int64
	db.Model(&courseModels.Certificate{}).
		Where("is_deleted = ? AND issued_at BETWEEN ? AND ?", false, monthStart, monthEnd).
		Count(&certificatesThisMonth)

	var pendingArtifacts int64
	db.Model(&courseModels.Certificate{}).
		Where("is_deleted = ? AND artifact_status = ?", false, "PENDING").
		Count(&pendingArtifacts)

	var failedTasks int64
	db.Model(&courseModels.CompletionTask{}).Where("status = ?", "FAILED").Count(&failedTasks)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard stats fetched successfully!", fiber.Map{
		"total_courses":           totalCourses,
		"published_courses":       publishedCourses,
		"total_enrollments":       totalEnrollments,
		"completed_enrollments":   completedEnrollments,
		"certificates_this_month": certificatesThisMonth,
		"pending_artifacts":       pendingArtifacts,
		"failed_completion_tasks": failedTasks,
	})
}
