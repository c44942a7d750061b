package notify

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
	"time"

	"employee-auth/internal/domain"
)

const OtpSubject = "Verification code"

const otpHTML = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #222;">
  <p>Hello {{.Name}},</p>
  <p>Use the code below to finish signing in:</p>
  <p style="font-size: 28px; font-weight: bold; letter-spacing: 6px;">{{.Code}}</p>
  <p>This code expires in {{.Minutes}} minutes.</p>
  <p>Do not share this code with anyone. Our team will never ask you for it.</p>
</body>
</html>
`

const otpText = `Hello {{.Name}},

Your verification code is {{.Code}}.
It expires in {{.Minutes}} minutes.

Do not share this code with anyone. Our team will never ask you for it.
`

var (
	otpHTMLTemplate = htmltemplate.Must(htmltemplate.New("otp.html").Parse(otpHTML))
	otpTextTemplate = texttemplate.Must(texttemplate.New("otp.txt").Parse(otpText))
)

type otpView struct {
	Name    string
	Code    string
	Minutes int
}

// RenderOtp builds the verification email for one recipient.
func RenderOtp(email, name, code string) (Message, error) {
	if name == "" {
		name = email
	}
	view := otpView{Name: name, Code: code, Minutes: int(domain.OtpTTL / time.Minute)}

	var html, text bytes.Buffer
	if err := otpHTMLTemplate.Execute(&html, view); err != nil {
		return Message{}, fmt.Errorf("render otp html: %w", err)
	}
	if err := otpTextTemplate.Execute(&text, view); err != nil {
		return Message{}, fmt.Errorf("render otp text: %w", err)
	}
	return Message{
		To:       email,
		ToName:   name,
		Subject:  OtpSubject,
		HTMLBody: html.String(),
		TextBody: text.String(),
		Tag:      "otp",
	}, nil
}
