package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// CertificateData carries everything printed on a study certificate.
type CertificateData struct {
	StudentName      string
	TotalHours       float64
	Objective        string
	VerificationCode string
	VerifyURL        string
	IssuerName       string
}

// CertificateRenderer draws study certificates as single-page A4 PDFs.
type CertificateRenderer struct{}

// NewCertificateRenderer constructs a certificate renderer.
func NewCertificateRenderer() *CertificateRenderer {
	return &CertificateRenderer{}
}

// Render produces the PDF bytes for the given certificate data.
func (r *CertificateRenderer) Render(data CertificateData) ([]byte, error) {
	if data.StudentName == "" {
		return nil, fmt.Errorf("certificate requires a student name")
	}
	if data.VerificationCode == "" {
		return nil, fmt.Errorf("certificate requires a verification code")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	width, height := pdf.GetPageSize()

	pdf.SetDrawColor(25, 25, 102)
	pdf.SetLineWidth(1.5)
	pdf.Rect(10, 10, width-20, height-20, "D")

	pdf.SetFont("Helvetica", "B", 28)
	pdf.SetTextColor(51, 51, 153)
	pdf.SetXY(0, 30)
	pdf.CellFormat(width, 14, data.IssuerName, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(0, 55)
	pdf.CellFormat(width, 12, "CERTIFICATE OF STUDY", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 14)
	pdf.SetXY(0, 90)
	pdf.CellFormat(width, 8, "This certifies that the student", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetXY(0, 105)
	pdf.CellFormat(width, 10, strings.ToUpper(data.StudentName), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 13)
	pdf.SetXY(0, 120)
	pdf.CellFormat(width, 8, fmt.Sprintf("successfully completed a total of %.1f hours of study", data.TotalHours), "", 1, "C", false, 0, "")
	if data.Objective != "" {
		pdf.SetXY(0, 130)
		pdf.CellFormat(width, 8, fmt.Sprintf("with focus on: %s", data.Objective), "", 1, "C", false, 0, "")
	}

	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetXY(0, height-50)
	pdf.CellFormat(width, 6, fmt.Sprintf("Verification code: %s", data.VerificationCode), "", 1, "C", false, 0, "")
	if data.VerifyURL != "" {
		pdf.CellFormat(width, 6, fmt.Sprintf("Validate at: %s", data.VerifyURL), "", 1, "C", false, 0, "")
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render certificate pdf: %w", err)
	}
	return buf.Bytes(), nil
}
