package interview

import (
	"fmt"
	"math/rand/v2"

	_ "embed"

	"gopkg.in/yaml.v3"
)

//go:embed questions.yaml
var questionsYAML []byte

type questionBanks struct {
	Banks   map[string][]string `yaml:"banks"`
	Generic []string            `yaml:"generic"`
}

var banks = mustLoadBanks()

func mustLoadBanks() *questionBanks {
	var loaded questionBanks
	if err := yaml.Unmarshal(questionsYAML, &loaded); err != nil {
		panic(fmt.Sprintf("interview: parsing embedded question banks: %v", err))
	}
	if len(loaded.Generic) == 0 {
		panic("interview: embedded generic question bank is empty")
	}
	return &loaded
}

// bankFor returns the scripted questions for a role, falling back to the
// generic bank when the role is unknown.
func bankFor(role string) []string {
	if questions, ok := banks.Banks[role]; ok && len(questions) > 0 {
		return questions
	}
	return banks.Generic
}

func randomQuestion(bank []string) string {
	return bank[rand.IntN(len(bank))]
}
