package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"time"

	config "github.com/anjiri1684/mentor_hub/configs"
	"github.com/anjiri1684/mentor_hub/database"
	"github.com/anjiri1684/mentor_hub/models"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

const certificateCompletionCount = 10

// CheckAndGenerateCertificate awards a milestone certificate once a student
// has completed certificateCompletionCount sessions with the same mentor.
// Meant to run in a goroutine after a booking is marked completed.
func CheckAndGenerateCertificate(booking models.Booking) {
	var completedCount int64
	database.DB.Model(&models.Booking{}).
		Where("student_id = ? AND mentor_id = ? AND status = ?",
			booking.StudentID, booking.MentorID, models.StatusCompleted).
		Count(&completedCount)

	if completedCount < certificateCompletionCount {
		return
	}

	var student, mentor models.User
	if err := database.DB.First(&student, "id = ?", booking.StudentID).Error; err != nil {
		log.Printf("🔥 Certificate lookup failed for student %s: %v", booking.StudentID, err)
		return
	}
	if err := database.DB.First(&mentor, "id = ?", booking.MentorID).Error; err != nil {
		log.Printf("🔥 Certificate lookup failed for mentor %s: %v", booking.MentorID, err)
		return
	}

	title := fmt.Sprintf("Mentorship with %s - %d Sessions", mentor.Name, certificateCompletionCount)

	var existingCert models.Certificate
	if err := database.DB.Where("student_id = ? AND title = ?", booking.StudentID, title).First(&existingCert).Error; err == nil {
		return
	}

	htmlData, err := generateCertificateHTML(student.Name, mentor.Name, title)
	if err != nil {
		log.Printf("🔥 Failed to generate certificate HTML: %v", err)
		return
	}

	pdfBytes, err := generatePDFFromHTML(htmlData)
	if err != nil {
		log.Printf("🔥 Failed to generate PDF: %v", err)
		return
	}

	uploadURL, err := uploadToCloudinary(pdfBytes, booking.StudentID.String())
	if err != nil {
		log.Printf("🔥 Failed to upload certificate to Cloudinary: %v", err)
		return
	}

	newCertificate := models.Certificate{
		StudentID:      booking.StudentID,
		MentorID:       booking.MentorID,
		Title:          title,
		SessionsCount:  certificateCompletionCount,
		CompletionDate: time.Now(),
		CertificateURL: uploadURL,
	}

	if err := database.DB.Create(&newCertificate).Error; err != nil {
		log.Printf("🔥 Failed to create certificate record for student %s: %v", booking.StudentID, err)
	} else {
		log.Printf("✅ Generated and uploaded certificate '%s' for student %s.", title, booking.StudentID)
	}
}

func generateCertificateHTML(studentName, mentorName, title string) (string, error) {
	tmpl, err := template.ParseFiles("templates/certificate.html")
	if err != nil {
		return "", err
	}

	data := struct {
		StudentName    string
		MentorName     string
		Title          string
		CompletionDate string
	}{
		StudentName:    studentName,
		MentorName:     mentorName,
		Title:          title,
		CompletionDate: time.Now().Format("January 2, 2006"),
	}

	var renderedHTML bytes.Buffer
	if err := tmpl.Execute(&renderedHTML, data); err != nil {
		return "", err
	}
	return renderedHTML.String(), nil
}

func generatePDFFromHTML(htmlContent string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}

func uploadToCloudinary(fileBytes []byte, studentID string) (string, error) {
	cld, err := cloudinary.NewFromURL(config.Config("CLOUDINARY_URL"))
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	uploadParams := uploader.UploadParams{
		PublicID:     fmt.Sprintf("certificates/%s_%s", studentID, uuid.New().String()),
		Folder:       "mentor_hub_certificates",
		ResourceType: "raw",
	}

	uploadResult, err := cld.Upload.Upload(ctx, bytes.NewReader(fileBytes), uploadParams)
	if err != nil {
		return "", err
	}

	return uploadResult.SecureURL, nil
}
