package utils

import (
	"fmt"
	"lms/config"
	"os"
	"path/filepath"
	"time"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

// CertificateData carries everything printed on a certificate document
type CertificateData struct {
	CertificateNumber string
	StudentName       string
	CourseTitle       string
	Instructor        string
	Level             string
	Category          string
	IssuedAt          time.Time
}

const (
	certWidth  = 1200
	certHeight = 850
)

// RenderCertificatePNG renders the certificate document and returns the public
// URL path of the written file
func RenderCertificatePNG(data CertificateData) (string, error) {
	dc := gg.NewContext(certWidth, certHeight)

	// Background and double border
	dc.SetHexColor("#FFFFFF")
	dc.Clear()
	dc.SetHexColor("#00004D")
	dc.SetLineWidth(12)
	dc.DrawRectangle(30, 30, certWidth-60, certHeight-60)
	dc.Stroke()
	dc.SetHexColor("#d7b56d")
	dc.SetLineWidth(4)
	dc.DrawRectangle(50, 50, certWidth-100, certHeight-100)
	dc.Stroke()

	setFont := func(size float64) {
		fontPath := config.AppConfig.CertificateFontPath
		if fontPath != "" {
			if err := dc.LoadFontFace(fontPath, size); err == nil {
				return
			}
		}
		// Fallback face keeps rendering working without a font file
		dc.SetFontFace(basicfont.Face7x13)
	}

	centerX := float64(certWidth) / 2

	dc.SetHexColor("#00004D")
	setFont(48)
	dc.DrawStringAnchored("CERTIFICATE OF COMPLETION", centerX, 150, 0.5, 0.5)

	setFont(20)
	dc.DrawStringAnchored("This is to certify that", centerX, 250, 0.5, 0.5)

	setFont(56)
	dc.SetHexColor("#d7b56d")
	dc.DrawStringAnchored(data.StudentName, centerX, 330, 0.5, 0.5)

	dc.SetHexColor("#00004D")
	setFont(20)
	dc.DrawStringAnchored("has successfully completed the course", centerX, 410, 0.5, 0.5)

	setFont(36)
	dc.DrawStringAnchored(data.CourseTitle, centerX, 480, 0.5, 0.5)

	setFont(18)
	dc.DrawStringAnchored(fmt.Sprintf("%s | %s", data.Level, data.Category), centerX, 540, 0.5, 0.5)
	dc.DrawStringAnchored(fmt.Sprintf("Instructor: %s", data.Instructor), centerX, 590, 0.5, 0.5)
	dc.DrawStringAnchored(fmt.Sprintf("Issued on %s", data.IssuedAt.Format("January 2, 2006")), centerX, 660, 0.5, 0.5)

	setFont(16)
	dc.DrawStringAnchored(data.CertificateNumber, centerX, 740, 0.5, 0.5)

	if err := os.MkdirAll(config.AppConfig.CertificateDir, 0755); err != nil {
		return "", err
	}

	fileName := data.CertificateNumber + ".png"
	outPath := filepath.Join(config.AppConfig.CertificateDir, fileName)
	if err := dc.SavePNG(outPath); err != nil {
		return "", err
	}

	return "/certificates/" + fileName, nil
}
