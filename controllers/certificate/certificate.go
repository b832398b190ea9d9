package certificateController

import (
	"fmt"
	"strings"
	"time"

	"edutrek/database"
	"edutrek/middleware"
	"edutrek/models"
	course "edutrek/models/course"
	"edutrek/services/mailer"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func newCertificateNumber() string {
	return "EDU-" + strings.ToUpper(uuid.NewString()[:8]) + "-" + fmt.Sprintf("%d", time.Now().Year())
}

// IssueCertificate issues (or returns the existing) certificate for the
// requesting student's passed course. Requires certificate eligibility on
// the enrollment.
func IssueCertificate(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID, err := c.ParamsInt("courseId")
	if err != nil || courseID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course ID!", nil)
	}

	db := database.Database.Db
	var enrollment course.Enrollment
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}

	if !enrollment.CertificateEligible {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Pass the course assessment to earn a certificate!", nil)
	}

	var existing course.Certificate
	if err := db.Where("enrollment_id = ? AND is_deleted = ?", enrollment.ID, false).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate already issued!", existing)
	}

	cert := course.Certificate{
		CertificateNumber: newCertificateNumber(),
		UserID:            userID,
		CourseID:          uint(courseID),
		EnrollmentID:      enrollment.ID,
		IssuedAt:          time.Now(),
	}
	if err := db.Create(&cert).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to issue certificate!", nil)
	}

	db.Model(&enrollment).Update("certificate_id", cert.CertificateNumber)

	var user models.User
	var crs course.Course
	if db.First(&user, userID).Error == nil && db.First(&crs, courseID).Error == nil {
		go mailer.New().SendCertificateEmail(user.Name, user.Email, crs.Title, cert.CertificateNumber)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate issued successfully!", cert)
}

// GetMyCertificates lists the requesting student's certificates with course
// titles.
func GetMyCertificates(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db
	var certs []course.Certificate
	if err := db.Where("user_id = ? AND is_deleted = ?", userID, false).Order("issued_at desc").Find(&certs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	result := make([]fiber.Map, len(certs))
	for i, cert := range certs {
		var crs course.Course
		title := ""
		if db.First(&crs, cert.CourseID).Error == nil {
			title = crs.Title
		}
		result[i] = fiber.Map{
			"certificate": cert,
			"courseTitle": title,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched!", result)
}

// ValidateCertificate is the public verification endpoint: anyone holding a
// certificate number can confirm who it was issued to and for what course.
func ValidateCertificate(c *fiber.Ctx) error {
	number := strings.TrimSpace(c.Params("number"))
	if number == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Certificate number is required!", nil)
	}

	db := database.Database.Db
	var cert course.Certificate
	if err := db.Where("certificate_number = ? AND is_deleted = ?", number, false).First(&cert).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found!", fiber.Map{"valid": false})
	}

	var user models.User
	var crs course.Course
	db.First(&user, cert.UserID)
	db.First(&crs, cert.CourseID)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate is valid!", fiber.Map{
		"valid":             true,
		"certificateNumber": cert.CertificateNumber,
		"studentName":       user.Name,
		"courseTitle":       crs.Title,
		"issuedAt":          cert.IssuedAt,
	})
}

// DownloadCertificate returns the render payload the certificate service
// uses to produce the PDF.
func DownloadCertificate(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	number := strings.TrimSpace(c.Params("number"))
	db := database.Database.Db

	var cert course.Certificate
	if err := db.Where("certificate_number = ? AND user_id = ? AND is_deleted = ?", number, userID, false).First(&cert).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found!", nil)
	}

	var user models.User
	var crs course.Course
	db.First(&user, cert.UserID)
	db.First(&crs, cert.CourseID)

	var enrollment course.Enrollment
	db.First(&enrollment, cert.EnrollmentID)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate payload ready!", fiber.Map{
		"certificateNumber": cert.CertificateNumber,
		"studentName":       user.Name,
		"courseTitle":       crs.Title,
		"score":             enrollment.LastScore,
		"issuedAt":          cert.IssuedAt,
		"verifyUrl":         "/api/certificates/validate/" + cert.CertificateNumber,
	})
}
