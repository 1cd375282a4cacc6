package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"studypartner"
)

func main() {
	var (
		text         = flag.String("text", "", "Study text to generate questions from")
		file         = flag.String("file", "", "Read study text from a file instead")
		numQuestions = flag.Int("questions", studypartner.DefaultQuestions, "Number of questions to generate (1-20)")
		outputFile   = flag.String("output", "", "Output file for quiz JSON (default: stdout)")
		apiKey       = flag.String("api-key", "", "OpenAI API key (or set OPENAI_API_KEY env var)")
		playMode     = flag.Bool("play", false, "Play the quiz interactively")
		trace        = flag.Bool("trace", false, "Write the prompt and raw model response to log/")
		verbose      = flag.Bool("verbose", false, "Enable verbose debugging output")
	)

	flag.Parse()

	studypartner.SetVerbose(*verbose)

	if *file != "" {
		data, err := os.ReadFile(*file)
		if err != nil {
			log.Fatalf("Failed to read %s: %v", *file, err)
		}
		*text = string(data)
	}
	if strings.TrimSpace(*text) == "" {
		log.Fatal("Study text is required. Use -text or -file.")
	}

	if *apiKey == "" {
		*apiKey = os.Getenv("OPENAI_API_KEY")
		if *apiKey == "" {
			log.Fatal("OpenAI API key is required. Use -api-key flag or set the OPENAI_API_KEY environment variable.")
		}
	}

	generator := studypartner.NewQuizGenerator(*apiKey)

	if *trace {
		traceLog, err := studypartner.NewTraceLog()
		if err != nil {
			log.Printf("Failed to create trace log: %v", err)
		} else {
			generator.SetTraceLog(traceLog)
			defer traceLog.Close()
		}
	}

	quiz, err := generator.GenerateQuiz(context.Background(), *text, studypartner.ClampQuestions(*numQuestions))
	if err != nil {
		log.Fatalf("Failed to generate quiz: %v", err)
	}
	log.Printf("Generated %d questions", len(quiz))

	if *playMode {
		playQuiz(quiz)
		return
	}

	data, err := json.MarshalIndent(quiz, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal quiz: %v", err)
	}

	if *outputFile == "" {
		fmt.Println(string(data))
		return
	}
	if err := os.WriteFile(*outputFile, data, 0644); err != nil {
		log.Fatalf("Failed to write %s: %v", *outputFile, err)
	}
	log.Printf("Quiz written to %s", *outputFile)
}

// playQuiz runs the quiz in the terminal: one question at a time, answered
// by option letter, graded by the full option string at the end.
func playQuiz(quiz []studypartner.QuizQuestion) {
	session := studypartner.NewSession()
	session.StoreQuiz(quiz)

	reader := bufio.NewReader(os.Stdin)
	letters := "abcdefghij"

	for i, q := range quiz {
		fmt.Printf("\nQuestion %d/%d: %s\n", i+1, len(quiz), q.Question)
		for j, option := range q.Options {
			fmt.Printf("  %c) %s\n", letters[j], option)
		}

		for {
			fmt.Print("Your answer: ")
			line, err := reader.ReadString('\n')
			if err != nil {
				log.Fatalf("Failed to read answer: %v", err)
			}
			choice := strings.ToLower(strings.TrimSpace(line))
			idx := strings.IndexByte(letters[:len(q.Options)], byteOf(choice))
			if idx < 0 {
				fmt.Printf("Please answer with a letter a-%c.\n", letters[len(q.Options)-1])
				continue
			}
			if err := session.SelectAnswer(i, q.Options[idx]); err != nil {
				log.Fatalf("Failed to record answer: %v", err)
			}
			break
		}
	}

	score, err := session.Submit()
	if err != nil {
		log.Fatalf("Failed to submit quiz: %v", err)
	}

	fmt.Printf("\n=== Results ===\n")
	for i, q := range quiz {
		if session.Answers[i] == q.Answer {
			fmt.Printf("Question %d: correct\n", i+1)
		} else {
			fmt.Printf("Question %d: incorrect (correct answer: %s)\n", i+1, q.Answer)
			if q.Explanation != "" {
				fmt.Printf("  %s\n", q.Explanation)
			}
		}
	}
	fmt.Printf("\nScore: %d/%d (%.1f%%)\n%s\n", score.Correct, score.Total, score.Percentage, studypartner.Band(score.Percentage))
}

func byteOf(s string) byte {
	if len(s) != 1 {
		return 0
	}
	return s[0]
}
