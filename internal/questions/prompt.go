package questions

import "fmt"

// Prompt asks for a progressive learning guide on topic as a JSON array of
// plain question strings.
func Prompt(topic string) string {
	return fmt.Sprintf(`Please generate a comprehensive step-by-step learning guide on %s, formatted as an array of questions. `+
		`Each question should be clear, relevant, and designed to build understanding progressively. `+
		`The array should include approximately 50 questions covering the subject in detail. `+
		`Give the questions in plain text, without numbering, symbols, special characters, or any other information. `+
		`End every question with the phrase "in English". `+
		`Respond with a JSON array where each element is a question string, like this: `+
		`["What is the basic concept and why is it important? in English", "What are the core components? in English", "How do I set up a development environment? in English"]`, topic)
}
