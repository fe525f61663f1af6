package assistant

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xaenox/bdc-edge/internal/models"
)

const replyInstruction = "Please respond in a helpful, professional manner that addresses the lead's needs and moves the conversation forward. Focus on understanding what they are looking for and how the dealership can help."

// BuildPrompt renders the user-role prompt sent alongside the system prompt.
func BuildPrompt(message string, conv models.ConversationContext) string {
	history := make([]string, 0, len(conv.ConversationHistory))
	for _, entry := range conv.ConversationHistory {
		history = append(history, fmt.Sprintf("%s: %s", entry.Sender, entry.Message))
	}

	var b strings.Builder
	b.WriteString("Lead Information:\n")
	fmt.Fprintf(&b, "- Name: %s\n", conv.Lead.Name)
	fmt.Fprintf(&b, "- Email: %s\n", conv.Lead.Email)
	fmt.Fprintf(&b, "- Preferred Vehicle: %s\n", vehicleSummary(conv.Lead.PreferredVehicle))
	b.WriteString("\nConversation History:\n")
	b.WriteString(strings.Join(history, "\n"))
	b.WriteString("\n\nDealership Information:\n")
	fmt.Fprintf(&b, "- Name: %s\n", conv.DealershipContext.Name)
	fmt.Fprintf(&b, "- Location: %s\n", conv.DealershipContext.Location)
	fmt.Fprintf(&b, "- Specialties: %s\n", strings.Join(conv.DealershipContext.Specialties, ", "))
	fmt.Fprintf(&b, "\nCurrent message from lead: \"%s\"\n\n", message)
	b.WriteString(replyInstruction)

	return b.String()
}

func vehicleSummary(v *models.PreferredVehicle) string {
	if v == nil {
		return "None specified"
	}
	return fmt.Sprintf("%d %s %s - $%s", v.Year, v.Make, v.Model, strconv.FormatFloat(v.Price, 'f', -1, 64))
}
