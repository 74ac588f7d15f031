package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/fieldmed/dictation-platform/internal/assistant"
	"github.com/fieldmed/dictation-platform/internal/record"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	geminiKey := os.Getenv("GEMINI_API_KEY")
	if geminiKey == "" {
		log.Fatal("GEMINI_API_KEY not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fmt.Println("Dictation Assistant Smoke Test")
	fmt.Println("==============================")

	llm, err := assistant.NewGeminiLLMClient(ctx, geminiKey, "gemini-2.5-flash")
	if err != nil {
		log.Fatalf("failed to create Gemini client: %v", err)
	}
	defer llm.Close()

	rec := record.New()
	outstanding := record.NextPrompt(rec)
	if outstanding != nil {
		fmt.Printf("First prompt: %s\n\n", outstanding.Prompt)
	}

	userMessage := "The patient is Sergeant John Doe, 28 year old male, treated at " +
		"Camp Bastion Role 2 on 2023-10-27 for a gunshot wound to the left thigh."

	prompt := assistant.BuildPrompt(userMessage, rec, outstanding)

	start := time.Now()
	resp, err := llm.Complete(ctx, assistant.LLMRequest{
		Model:          "gemini-2.5-flash",
		Prompt:         prompt,
		MaxTokens:      1024,
		Temperature:    0,
		TopP:           0.8,
		TopK:           40,
		CandidateCount: 1,
	})
	elapsed := time.Since(start)
	if err != nil {
		log.Fatalf("Gemini error: %v", err)
	}

	fmt.Printf("Response (%v):\n%s\n", elapsed.Round(time.Millisecond), resp.Text)
	fmt.Printf("Tokens: in=%d, out=%d\n", resp.Usage.InputTokens, resp.Usage.OutputTokens)

	sanitized, err := assistant.SanitizeModelJSON(resp.Text)
	if err != nil {
		log.Fatalf("response failed sanitization: %v", err)
	}
	fmt.Printf("\nSanitized JSON:\n%s\n", sanitized)
}
