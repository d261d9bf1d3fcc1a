// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/bitext"
	"github.com/poiesic/bitext/lookup"
)

func init() {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})
	slog.SetDefault(slog.New(handler))
}

func main() {
	dbPath := "./corpus_db"
	if len(os.Args) > 1 {
		dbPath = os.Args[1]
	}

	store, err := bitext.Open(dbPath)
	if err != nil {
		panic(err)
	}
	defer store.Close()

	service, err := store.NewLookupService()
	if err != nil {
		panic(err)
	}

	ctx := context.Background()
	fmt.Println("Enter an excerpt to look up (empty line to quit)")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		excerpt := strings.TrimSpace(scanner.Text())
		if excerpt == "" {
			break
		}

		result, err := service.Lookup(ctx, excerpt)
		if err != nil {
			fmt.Fprintf(os.Stderr, "lookup failed: %v\n", err)
			continue
		}
		printResult(result)
	}
}

func printResult(result lookup.Result) {
	if !result.Found {
		fmt.Printf("Not found: %s\n", result.Reason)
		return
	}
	fmt.Printf("Found (%s)\n", result.Reason)
	fmt.Printf("  chunk %d (%s)\n", result.QueryChunkID, result.QueryLanguage)
	fmt.Printf("  en: %s\n", result.Alignment.SrcText)
	fmt.Printf("  it: %s\n", result.Alignment.TgtText)
	if verdict := result.Alignment.Validation; verdict.ValidationSuccess {
		fmt.Printf("  confidence: %.2f\n", verdict.Confidence)
	}
}
