package output

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// RunInfo carries every key RUNINFO reports (see SPEC_FULL.md §12 for the
// full field list and provenance). Fields are plain and pre-computed;
// WriteRunInfo only formats and writes them.
type RunInfo struct {
	RunID   string    `json:"run_id"`
	Project string    `json:"project"`
	RunDate time.Time `json:"run_date"`
	Version string    `json:"version"`

	RootAlignment           string `json:"root_alignment"`
	OutputDirectory         string `json:"output_directory"`
	NodesDirectory          string `json:"nodes_directory"`
	InfoFilePath            string `json:"info_file_path"`
	CmdLine                 string `json:"cmd_line"`
	MinActualAbundance      int    `json:"min_actual_abundance"`
	MinSubstantiveAbundance int    `json:"min_substantive_abundance"`

	TotalSeq                        int  `json:"total_seq"`
	NumSequencesAfterQC             int  `json:"num_sequences_after_qc"`
	NumOutliersAfterRawTopology     int  `json:"num_outliers_after_raw_topology"`
	NumFinalNodes                   int  `json:"num_final_nodes"`
	NumOutliersAfterRefineNodes     int  `json:"num_outliers_after_refine_nodes,omitempty"`
	NumSequencesAfterQCAfterRefresh int  `json:"num_sequences_after_qc_after_refresh,omitempty"`
	Refreshed                       bool `json:"refreshed"`
	OutliersRelocated               int  `json:"outliers_relocated"`
}

// WriteRunInfo writes path as a tab-separated key/value text file. Integer
// counters are rendered with thousands separators via x/text/message for
// a human reader.
func WriteRunInfo(path string, info RunInfo) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("output: creating %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	p := message.NewPrinter(language.English)

	line := func(key, value string) { fmt.Fprintf(w, "%s\t%s\n", key, value) }
	lineInt := func(key string, value int) { line(key, p.Sprintf("%d", value)) }

	line("run_id", info.RunID)
	line("project", info.Project)
	line("run_date", info.RunDate.Format(time.RFC3339))
	line("version", info.Version)
	line("root_alignment", info.RootAlignment)
	line("output_directory", info.OutputDirectory)
	line("nodes_directory", info.NodesDirectory)
	line("info_file_path", info.InfoFilePath)
	line("cmd_line", info.CmdLine)
	lineInt("A", info.MinActualAbundance)
	lineInt("M", info.MinSubstantiveAbundance)
	lineInt("total_seq", info.TotalSeq)
	lineInt("num_sequences_after_qc", info.NumSequencesAfterQC)
	lineInt("num_outliers_after_raw_topology", info.NumOutliersAfterRawTopology)
	lineInt("num_final_nodes", info.NumFinalNodes)
	if info.Refreshed {
		lineInt("num_outliers_after_refine_nodes", info.NumOutliersAfterRefineNodes)
		lineInt("num_sequences_after_qc", info.NumSequencesAfterQCAfterRefresh)
	}
	lineInt("outliers_relocated", info.OutliersRelocated)

	return w.Flush()
}

// WriteRunInfoJSON serializes info as indented JSON, a portable
// round-trippable companion to the plain-text RUNINFO record.
func WriteRunInfoJSON(path string, info RunInfo) error {
	body, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("output: marshaling run info: %w", err)
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return fmt.Errorf("output: writing %s: %w", path, err)
	}
	return nil
}
