package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// BenchResult represents one parsed benchmark line.
type BenchResult struct {
	Name        string
	Family      string // BenchmarkArena -> "Arena"
	Case        string // sub-benchmark path, "" when flat
	Iterations  int
	NsPerOp     float64
	BytesPerOp  int64
	AllocsPerOp int64
	Extra       map[string]float64 // perf counters etc. (cycles/op, ...)
}

var (
	inputFile = flag.String(
		"input",
		"",
		"Input file with benchmark output (stdin if not specified)",
	)
	outputFile = flag.String("output", "", "Output markdown file (stdout if not specified)")
	quiet      = flag.Bool("quiet", false, "Suppress progress output")
)

func main() {
	flag.Parse()

	var scanner *bufio.Scanner
	var inputF *os.File
	if *inputFile != "" {
		f, err := os.Open(*inputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening input file: %v\n", err)
			os.Exit(1)
		}
		inputF = f
		scanner = bufio.NewScanner(f)
	} else {
		scanner = bufio.NewScanner(os.Stdin)
	}

	results := parseBenchmarks(scanner)

	if !*quiet {
		fmt.Fprintf(os.Stderr, "Parsed %d benchmark results\n", len(results))
	}

	report := generateMarkdownReport(results)

	if *outputFile != "" {
		err := os.WriteFile(*outputFile, []byte(report), 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			if inputF != nil {
				inputF.Close()
			}
			os.Exit(1)
		}
		if !*quiet {
			fmt.Fprintf(os.Stderr, "Report written to %s\n", *outputFile)
		}
	} else {
		fmt.Fprint(os.Stdout, report)
	}

	if inputF != nil {
		inputF.Close()
	}
}

func parseBenchmarks(scanner *bufio.Scanner) []BenchResult {
	var results []BenchResult

	// Regex to parse the fixed prefix of a benchmark output line
	// BenchmarkArena/AllocFree64-8    10000    124.5 ns/op    0 B/op    0 allocs/op    412 cycles/op
	benchRegex := regexp.MustCompile(`^(Benchmark\S+)\s+(\d+)\s+([\d.]+)\s+ns/op(.*)$`)
	metricRegex := regexp.MustCompile(`([\d.]+)\s+(\S+)/op`)

	for scanner.Scan() {
		line := scanner.Text()

		// Unwrap test2json events (from go test -json)
		var testEvent map[string]any
		if err := json.Unmarshal([]byte(line), &testEvent); err == nil {
			if output, ok := testEvent["Output"].(string); ok {
				line = output
			}
		}

		matches := benchRegex.FindStringSubmatch(strings.TrimSpace(line))
		if matches == nil {
			continue
		}

		name := matches[1]
		iterations, _ := strconv.Atoi(matches[2])
		nsPerOp, _ := strconv.ParseFloat(matches[3], 64)

		result := BenchResult{
			Name:       name,
			Iterations: iterations,
			NsPerOp:    nsPerOp,
			Extra:      map[string]float64{},
		}

		// Remaining columns are "<value> <unit>/op" pairs
		for _, m := range metricRegex.FindAllStringSubmatch(matches[4], -1) {
			value, _ := strconv.ParseFloat(m[1], 64)
			switch m[2] {
			case "B":
				result.BytesPerOp = int64(value)
			case "allocs":
				result.AllocsPerOp = int64(value)
			default:
				result.Extra[m[2]] = value
			}
		}

		// Split Benchmark<Family>/<case...>-<procs>
		trimmed := strings.TrimPrefix(name, "Benchmark")
		if dashIdx := strings.LastIndex(trimmed, "-"); dashIdx > 0 {
			if _, err := strconv.Atoi(trimmed[dashIdx+1:]); err == nil {
				trimmed = trimmed[:dashIdx]
			}
		}
		if slashIdx := strings.Index(trimmed, "/"); slashIdx >= 0 {
			result.Family = trimmed[:slashIdx]
			result.Case = trimmed[slashIdx+1:]
		} else {
			result.Family = trimmed
		}

		results = append(results, result)
	}

	return results
}

func generateMarkdownReport(results []BenchResult) string {
	var sb strings.Builder

	sb.WriteString("# Benchmark Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", time.Now().Format("2006-01-02 15:04:05")))

	if len(results) == 0 {
		sb.WriteString("No benchmark results found.\n")
		return sb.String()
	}

	// Group by family, keeping input order for families and cases
	families := make([]string, 0)
	byFamily := make(map[string][]BenchResult)
	for _, r := range results {
		if _, seen := byFamily[r.Family]; !seen {
			families = append(families, r.Family)
		}
		byFamily[r.Family] = append(byFamily[r.Family], r)
	}

	for _, family := range families {
		rows := byFamily[family]
		sb.WriteString(fmt.Sprintf("## %s\n\n", family))

		// Union of extra metric names for this family's columns
		extraNames := make([]string, 0)
		seen := map[string]bool{}
		for _, r := range rows {
			for name := range r.Extra {
				if !seen[name] {
					seen[name] = true
					extraNames = append(extraNames, name)
				}
			}
		}
		sort.Strings(extraNames)

		sb.WriteString("| Case | ns/op | B/op | allocs/op |")
		for _, n := range extraNames {
			sb.WriteString(fmt.Sprintf(" %s/op |", n))
		}
		sb.WriteString("\n")

		sb.WriteString("|------|------:|-----:|----------:|")
		for range extraNames {
			sb.WriteString("----:|")
		}
		sb.WriteString("\n")

		for _, r := range rows {
			caseName := r.Case
			if caseName == "" {
				caseName = "(flat)"
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %d | %d |",
				caseName, formatNs(r.NsPerOp), r.BytesPerOp, r.AllocsPerOp))
			for _, n := range extraNames {
				if v, ok := r.Extra[n]; ok {
					sb.WriteString(fmt.Sprintf(" %.1f |", v))
				} else {
					sb.WriteString(" - |")
				}
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func formatNs(ns float64) string {
	switch {
	case ns >= 1e6:
		return fmt.Sprintf("%.2fms", ns/1e6)
	case ns >= 1e3:
		return fmt.Sprintf("%.2fµs", ns/1e3)
	default:
		return fmt.Sprintf("%.1fns", ns)
	}
}
