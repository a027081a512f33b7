// Command validate re-reports quality for an already-processed output
// directory by reading the JSON sidecars, without reprocessing the grids.
// It prints a priority breakdown and the tables flagged for review.
// Usage: go run ./cmd/validate -dir ./out
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"soltab/internal/domain"
	"soltab/internal/gridio"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	dir := flag.String("dir", "", "output directory holding sidecar .json files")
	flag.Parse()
	if *dir == "" {
		flag.Usage()
		return fmt.Errorf("-dir is required")
	}

	paths, err := filepath.Glob(filepath.Join(*dir, "*.json"))
	if err != nil {
		return fmt.Errorf("listing %s: %w", *dir, err)
	}
	sort.Strings(paths)

	counts := make(map[domain.ReviewPriority]int)
	flagKinds := make(map[domain.FlagKind]int)
	var review []*gridio.Sidecar
	total := 0

	for _, path := range paths {
		if filepath.Base(path) == "run_summary.json" {
			continue
		}
		s, err := readSidecarFile(path)
		if err != nil {
			log.Printf("validate: skipping %s: %v", path, err)
			continue
		}
		total++
		counts[s.Quality.Priority]++
		for _, f := range s.Quality.Flags {
			flagKinds[f.Kind]++
		}
		if s.Quality.NeedsReview {
			review = append(review, s)
		}
	}
	if total == 0 {
		return fmt.Errorf("no sidecars found in %s", *dir)
	}

	fmt.Printf("validated %d tables\n\n", total)
	fmt.Println("priority breakdown:")
	for _, p := range []domain.ReviewPriority{
		domain.PriorityCritical, domain.PriorityHigh, domain.PriorityMedium,
		domain.PriorityLow, domain.PriorityPassed,
	} {
		fmt.Printf("  %-10s %d\n", p, counts[p])
	}

	if len(flagKinds) > 0 {
		kinds := make([]string, 0, len(flagKinds))
		for k := range flagKinds {
			kinds = append(kinds, string(k))
		}
		sort.Strings(kinds)
		fmt.Println("\nflag totals:")
		for _, k := range kinds {
			fmt.Printf("  %-26s %d\n", k, flagKinds[domain.FlagKind(k)])
		}
	}

	if len(review) > 0 {
		fmt.Println("\nneeds review:")
		for _, s := range review {
			msgs := make([]string, 0, len(s.Quality.Flags))
			for _, f := range s.Quality.Flags {
				if f.Severity == domain.SeverityCritical {
					msgs = append(msgs, f.Message)
				}
			}
			fmt.Printf("  %s (%s, score %.2f)", gridio.Stem(s.SourceID, s.Page, s.Index),
				s.Quality.Priority, s.Quality.OverallScore)
			if len(msgs) > 0 {
				fmt.Printf(": %s", strings.Join(msgs, "; "))
			}
			fmt.Println()
		}
	}
	return nil
}

func readSidecarFile(path string) (*gridio.Sidecar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return gridio.ReadSidecar(f)
}
