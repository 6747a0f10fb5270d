package agent

// systemPrompt is the fixed preamble every free-text prompt is wrapped in.
const systemPrompt = `You are a system architecture assistant.
You respond with detailed, step-by-step solutions about software architecture.
`

// BuildPrompt wraps a user message in the prompt template.
func BuildPrompt(userMessage string) string {
	return systemPrompt + "\nUser: " + userMessage + "\nAssistant:"
}
