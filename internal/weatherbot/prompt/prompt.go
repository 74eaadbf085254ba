package prompt

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

const (
	DefaultSystem   = "You are a helpful weather assistant. When users ask about weather, extract the location from the user's message and respond with weather information in Celsius."
	DefaultGreeting = "Hello! Ask me about the weather by typing the city name or something like (What's the weather like in Berlin). (Type 'quit' anytime to exit)"
)

// Prompt represents the structure of a TOML prompt file
type Prompt struct {
	System   string  `toml:"system"`
	Greeting string  `toml:"greeting"`
	Model    *string `toml:"model,omitempty"`
}

// Default returns the built-in prompt
func Default() *Prompt {
	return &Prompt{
		System:   DefaultSystem,
		Greeting: DefaultGreeting,
	}
}

// LoadPrompt loads a prompt file and returns its contents.
// Fields missing from the file keep their built-in values.
func LoadPrompt(filePath string) (*Prompt, error) {
	prompt := Default()
	if _, err := toml.DecodeFile(filePath, prompt); err != nil {
		return nil, fmt.Errorf("error decoding prompt file: %v", err)
	}
	return prompt, nil
}
