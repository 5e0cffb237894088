package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderCertificate(t *testing.T) {
	renderer := NewCertificateRenderer()

	pdf, err := renderer.Render(CertificateData{
		StudentName:      "Ada Lovelace",
		TotalHours:       12.5,
		Objective:        "Cloud certification",
		VerificationCode: "abc-123",
		VerifyURL:        "http://localhost/verify/abc-123",
		IssuerName:       "TARGET SaaS",
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
	assert.Greater(t, len(pdf), 500)
}

func TestRenderCertificateRequiresFields(t *testing.T) {
	renderer := NewCertificateRenderer()

	_, err := renderer.Render(CertificateData{VerificationCode: "abc"})
	require.Error(t, err)

	_, err = renderer.Render(CertificateData{StudentName: "Ada"})
	require.Error(t, err)
}
