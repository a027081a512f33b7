// Command soltab reconstructs semantic structure for a directory of raw
// extracted table grids. For every input CSV it emits a clean CSV with
// inferred headers plus a JSON sidecar carrying column semantics and the
// quality report, and finishes with a batch summary.
// Usage: go run ./cmd/soltab -input ./grids -output ./out
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"soltab/internal/config"
	"soltab/internal/domain"
	"soltab/internal/gridio"
	"soltab/internal/pipeline"
	"soltab/internal/xlsxexport"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

// runSummary is written to the output directory after a batch completes.
type runSummary struct {
	Tables       int                           `json:"tables"`
	Failed       int                           `json:"failed"`
	NeedsReview  int                           `json:"needs_review"`
	AvgScore     float64                       `json:"avg_overall_score"`
	HeaderMethod map[domain.HeaderMethod]int   `json:"header_methods"`
	Priority     map[domain.ReviewPriority]int `json:"priorities"`
	Failures     []string                      `json:"failures,omitempty"`
}

func run() error {
	inputDir := flag.String("input", "", "directory of raw table CSVs")
	outputDir := flag.String("output", "", "directory for clean CSVs and sidecars")
	xlsx := flag.Bool("xlsx", false, "also write a review workbook (tables.xlsx)")
	flag.Parse()

	if *inputDir == "" || *outputDir == "" {
		flag.Usage()
		return fmt.Errorf("both -input and -output are required")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *xlsx {
		cfg.Export.XLSX = true
	}

	raws, err := gridio.ReadGridDir(*inputDir)
	if err != nil {
		return fmt.Errorf("reading input grids: %w", err)
	}
	if len(raws) == 0 {
		return fmt.Errorf("no .csv grids found in %s", *inputDir)
	}
	log.Printf("soltab: processing %d tables from %s with concurrency %d",
		len(raws), *inputDir, cfg.Pipeline.Concurrency)

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	proc := pipeline.New(cfg)
	outcomes := proc.RunBatch(context.Background(), raws, cfg.Pipeline.Concurrency)

	summary := runSummary{
		HeaderMethod: make(map[domain.HeaderMethod]int),
		Priority:     make(map[domain.ReviewPriority]int),
	}
	var scoreSum float64

	var wb *xlsxexport.Writer
	if cfg.Export.XLSX {
		wb, err = xlsxexport.New()
		if err != nil {
			return fmt.Errorf("initializing workbook: %w", err)
		}
		defer func() { _ = wb.Close() }()
	}

	for _, o := range outcomes {
		stem := gridio.Stem(o.Raw.SourceID, o.Raw.Page, o.Raw.Index)
		if o.Err != nil {
			summary.Failed++
			summary.Failures = append(summary.Failures, fmt.Sprintf("%s: %v", stem, o.Err))
			log.Printf("soltab: %s failed: %v", stem, o.Err)
			continue
		}
		t := o.Table
		if err := writeArtifacts(*outputDir, t); err != nil {
			return err
		}
		if wb != nil {
			if err := wb.Add(t); err != nil {
				return fmt.Errorf("adding %s to workbook: %w", stem, err)
			}
		}

		summary.Tables++
		scoreSum += t.Quality.OverallScore
		summary.Priority[t.Quality.Priority]++
		if t.Quality.NeedsReview {
			summary.NeedsReview++
		}
		for i := range t.Columns {
			summary.HeaderMethod[t.Columns[i].HeaderMethod]++
		}
		log.Printf("soltab: %s done: %d columns, score %.2f, priority %s",
			stem, len(t.Columns), t.Quality.OverallScore, t.Quality.Priority)
	}
	if summary.Tables > 0 {
		summary.AvgScore = scoreSum / float64(summary.Tables)
	}

	if wb != nil {
		f, err := os.Create(filepath.Join(*outputDir, "tables.xlsx"))
		if err != nil {
			return fmt.Errorf("creating workbook file: %w", err)
		}
		if err := wb.SaveTo(f); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}

	if err := writeSummary(*outputDir, summary); err != nil {
		return err
	}
	log.Printf("soltab: finished: %d processed, %d failed, %d flagged for review, avg score %.2f",
		summary.Tables, summary.Failed, summary.NeedsReview, summary.AvgScore)
	return nil
}

func writeArtifacts(dir string, t *domain.Table) error {
	stem := gridio.ArtifactStem(t)

	csvPath := filepath.Join(dir, stem+".csv")
	f, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", csvPath, err)
	}
	if err := gridio.WriteTable(f, t); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %s: %w", csvPath, err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	sidecarPath := filepath.Join(dir, stem+".json")
	sf, err := os.Create(sidecarPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", sidecarPath, err)
	}
	if err := gridio.WriteSidecar(sf, t); err != nil {
		_ = sf.Close()
		return fmt.Errorf("writing %s: %w", sidecarPath, err)
	}
	return sf.Close()
}

func writeSummary(dir string, s runSummary) error {
	path := filepath.Join(dir, "run_summary.json")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
