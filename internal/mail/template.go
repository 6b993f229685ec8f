package mail

import (
	"bytes"
	"html/template"
)

// contactPageData provides the dynamic fields of the HTML notification.
type contactPageData struct {
	SiteName  string
	Intent    string
	Name      string
	Email     string
	Subject   string
	Source    string
	Submitted string
	IP        string
	Message   string
	UserAgent string
	Referrer  string
	URL       string
}

var contactEmailTmpl = template.Must(template.New("contact_email").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="utf-8" />
	<meta name="viewport" content="width=device-width, initial-scale=1" />
	<title>New Contact Form Submission</title>
</head>
<body style="margin:0;padding:0;background:#f5f5f4;font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,sans-serif;color:#262626;">
	<div style="max-width:600px;margin:0 auto;padding:24px;">
		<h2 style="margin:0 0 4px;">New Contact Form Submission</h2>
		<p style="margin:0 0 20px;color:#737373;">{{.Intent}}</p>

		<div style="background:#ffffff;border:1px solid #e5e5e5;border-radius:8px;padding:20px;margin-bottom:20px;">
			<p style="margin:4px 0;"><strong>From:</strong> {{.Name}}</p>
			<p style="margin:4px 0;"><strong>Email:</strong> <a href="mailto:{{.Email}}">{{.Email}}</a></p>
			<p style="margin:4px 0;"><strong>Subject:</strong> {{.Subject}}</p>
			<p style="margin:4px 0;"><strong>Source:</strong> {{.Source}}</p>
			<p style="margin:4px 0;"><strong>Submitted:</strong> {{.Submitted}}</p>
			<p style="margin:4px 0;"><strong>IP:</strong> {{.IP}}</p>
		</div>

		<div style="background:#ffffff;border-left:4px solid #171717;border-radius:4px;padding:20px;margin-bottom:20px;">
			<h3 style="margin-top:0;">Message</h3>
			<p style="white-space:pre-wrap;margin:0;">{{.Message}}</p>
		</div>

		<p style="font-size:12px;color:#a3a3a3;line-height:1.6;">
			This message was sent via the contact form on {{.SiteName}}<br>
			User Agent: {{.UserAgent}}<br>
			{{if .Referrer}}Referrer: {{.Referrer}}<br>{{end}}
			{{if .URL}}URL: {{.URL}}{{end}}
		</p>
	</div>
</body>
</html>
`))

func renderContactHTML(data contactPageData) (string, error) {
	var buf bytes.Buffer
	if err := contactEmailTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
