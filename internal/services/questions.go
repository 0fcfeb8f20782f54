package services

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultQuestions is the built-in Excel question bank.
var DefaultQuestions = []string{
	"How do you use VLOOKUP in Excel?",
	"Explain pivot tables and how you would use them.",
	"What is conditional formatting in Excel and provide an example use-case?",
	"How do you protect cells in an Excel worksheet?",
	"What is the difference between relative and absolute cell references in Excel?",
	"How do you use the IF function in Excel?",
	"What are named ranges and why are they useful?",
	"Explain data validation in Excel with an example.",
	"How do you create a chart in Excel?",
	"What is the purpose of the CONCATENATE function in Excel?",
}

type questionBankFile struct {
	Questions []string `yaml:"questions"`
}

// LoadQuestionBank reads a YAML question bank. An empty path returns the
// built-in bank.
func LoadQuestionBank(path string) ([]string, error) {
	if path == "" {
		return append([]string(nil), DefaultQuestions...), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read question bank: %w", err)
	}

	return ParseQuestionBank(data)
}

func ParseQuestionBank(data []byte) ([]string, error) {
	var file questionBankFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse question bank: %w", err)
	}

	if err := ValidateQuestionBank(file.Questions); err != nil {
		return nil, err
	}

	questions := make([]string, len(file.Questions))
	for i, q := range file.Questions {
		questions[i] = strings.TrimSpace(q)
	}
	return questions, nil
}

// ValidateQuestionBank rejects empty banks, blank entries and duplicates.
func ValidateQuestionBank(questions []string) error {
	if len(questions) == 0 {
		return fmt.Errorf("question bank is empty")
	}

	seen := make(map[string]int, len(questions))
	for i, q := range questions {
		q = strings.TrimSpace(q)
		if q == "" {
			return fmt.Errorf("question %d is blank", i+1)
		}
		if prev, ok := seen[q]; ok {
			return fmt.Errorf("question %d duplicates question %d", i+1, prev+1)
		}
		seen[q] = i
	}

	return nil
}
