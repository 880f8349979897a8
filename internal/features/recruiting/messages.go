package recruiting

import (
	"bytes"
	"strings"
	"text/template"
)

var entryTemplates = map[Status]*template.Template{
	StatusInterviews: template.Must(template.New("interviews").Parse(
		"Hola {{.FirstName}}, gracias por tu interés en unirte a nuestro equipo de ventas. " +
			"Queremos agendar tu entrevista: respóndenos con el día y la hora que mejor te acomoden.")),
	StatusApproved: template.Must(template.New("approved").Parse(
		"¡Felicidades {{.FirstName}}! Fuiste aprobado para el equipo. " +
			"Para iniciar tu onboarding responde a este mensaje con la palabra {{.Keyword}}.")),
}

type messageData struct {
	FirstName string
	FullName  string
	Keyword   string
}

// entryMessage renders the message sent when c enters status. ok is false when the
// status has no entry action.
func entryMessage(status Status, c Candidate, keyword string) (text string, ok bool, err error) {
	tmpl, ok := entryTemplates[status]
	if !ok {
		return "", false, nil
	}

	first := c.FullName
	if fields := strings.Fields(c.FullName); len(fields) > 0 {
		first = fields[0]
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, messageData{FirstName: first, FullName: c.FullName, Keyword: keyword}); err != nil {
		return "", true, err
	}
	return buf.String(), true, nil
}
