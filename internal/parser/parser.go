// Package parser reads flashcards written as Q:/A: blocks in markdown files.
//
//	Q: What is the capital of France?
//	A: Paris
//	---
//	Q: Primary colours?
//	A: Red
//	Blue
//	Yellow
//
// A block runs until the next Q:, a "---" line or the end of the file.
// Lines after an A: belong to the answer. Blocks without a question or an
// answer are skipped.
package parser

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	questionPrefix = "Q:"
	answerPrefix   = "A:"
	separator      = "---"
)

// Entry is a parsed question and answer pair.
type Entry struct {
	Question string
	Answer   string
	Line     int // line of the Q: that started the entry
}

type state int

const (
	seeking state = iota
	readingQuestion
	readingAnswer
)

// ParseFile reads the file at path and extracts all entries.
func ParseFile(path string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	entries, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return entries, nil
}

// Parse extracts all entries from r.
func Parse(r io.Reader) ([]Entry, error) {
	var (
		entries  []Entry
		current  Entry
		question []string
		answer   []string
		st       = seeking
		lineNo   int
	)

	flush := func() {
		current.Question = strings.TrimSpace(strings.Join(question, "\n"))
		current.Answer = strings.TrimSpace(strings.Join(answer, "\n"))
		if current.Question != "" && current.Answer != "" {
			entries = append(entries, current)
		}
		current, question, answer, st = Entry{}, nil, nil, seeking
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")

		switch {
		case line == separator:
			flush()
		case strings.HasPrefix(line, questionPrefix):
			if st != seeking {
				flush()
			}
			st = readingQuestion
			current.Line = lineNo
			question = append(question, stripPrefix(line, questionPrefix))
		case strings.HasPrefix(line, answerPrefix) && st != seeking:
			st = readingAnswer
			answer = append(answer, stripPrefix(line, answerPrefix))
		case st == readingQuestion:
			question = append(question, line)
		case st == readingAnswer:
			answer = append(answer, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()

	return entries, nil
}

func stripPrefix(line, prefix string) string {
	return strings.TrimPrefix(line[len(prefix):], " ")
}
