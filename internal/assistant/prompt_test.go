package assistant

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPromptIncludesContext(t *testing.T) {
	prompt := BuildPrompt("Is financing available?", testContext())

	assert.Contains(t, prompt, "- Name: Jane Doe")
	assert.Contains(t, prompt, "- Email: jane@example.com")
	assert.Contains(t, prompt, "- Preferred Vehicle: 2022 Honda Civic - $24500")
	assert.Contains(t, prompt, "lead: Hi, is the Civic still available?\nai: Yes it is!")
	assert.Contains(t, prompt, "- Name: Metro Honda")
	assert.Contains(t, prompt, "- Location: Austin, TX")
	assert.Contains(t, prompt, "- Specialties: new, certified pre-owned")
	assert.Contains(t, prompt, `Current message from lead: "Is financing available?"`)
	assert.True(t, strings.HasSuffix(prompt, replyInstruction))
}

func TestBuildPromptWithoutPreferredVehicle(t *testing.T) {
	conv := testContext()
	conv.Lead.PreferredVehicle = nil
	conv.ConversationHistory = nil

	prompt := BuildPrompt("Hello", conv)

	assert.Contains(t, prompt, "- Preferred Vehicle: None specified")
	assert.Contains(t, prompt, "Conversation History:\n\n")
}

func TestVehicleSummaryKeepsFractionalPrice(t *testing.T) {
	conv := testContext()
	conv.Lead.PreferredVehicle.Price = 19999.99

	assert.Contains(t, BuildPrompt("Hi", conv), "2022 Honda Civic - $19999.99")
}
