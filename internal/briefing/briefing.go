// Package briefing assembles the plain-text body of the morning email.
package briefing

import "strings"

// DefaultSubject is the subject line of the morning email.
const DefaultSubject = "Sua atualização matinal 🚀"

const greeting = "Bom dia! Aqui está sua atualização:"

// Sections holds the already-rendered parts of the briefing.
// Tasks is only rendered when IncludeTasks is set.
type Sections struct {
	News         string
	Weather      string
	Tasks        string
	IncludeTasks bool
}

// Body concatenates the sections in their fixed order.
func (s Sections) Body() string {
	var sb strings.Builder

	sb.WriteString(greeting)
	sb.WriteString("\n\n")

	sb.WriteString("---- NOTÍCIAS ----\n\n")
	sb.WriteString(s.News)
	sb.WriteString("\n\n")

	sb.WriteString("---- CLIMA ----\n\n")
	sb.WriteString(s.Weather)
	sb.WriteString("\n\n")

	if s.IncludeTasks {
		sb.WriteString("---- TO-DO LIST ----\n\n")
		sb.WriteString(s.Tasks)
		sb.WriteString("\n")
	}

	return sb.String()
}
