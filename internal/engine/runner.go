/*
PURPOSE:
  High-level runner that orchestrates one validation run.
  Loads the policy, opens the project and runs the contract stages in order.

REQUIREMENTS:
  User-specified:
  - JSON contracts, then HTML and links, then content contract.
  - Stop at the first violation.

  Implementation-discovered:
  - Optional JSON Lines / CSV reports record each stage's outcome.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli
  - Uses: internal/contract, internal/config, internal/output

ERROR HANDLING:
  - Returns the first violation unchanged so callers can errors.As it.
  - Report write failures are logged and do not change the verdict.

IMPLEMENTATION RULES:
  - Sequential; no retries.

USAGE:
  err := engine.Run(cfg)

SELF-HEALING INSTRUCTIONS:
  - None.

RELATED FILES:
  - internal/engine/loader.go
  - internal/contract/checker.go

MAINTENANCE:
  - Update if a stage is added to contract.Checker.Stages.
*/

package engine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/daryltucker/sitecheck/internal/config"
	"github.com/daryltucker/sitecheck/internal/contract"
	"github.com/daryltucker/sitecheck/internal/model"
	"github.com/daryltucker/sitecheck/internal/output"
)

// Report file names inside the report directory.
const (
	ReportJSONName = "sitecheck_report.jsonl"
	ReportCSVName  = "sitecheck_report.csv"
)

// Run executes the full validation.
func Run(cfg *config.Config) error {
	policy, err := config.LoadPolicy(cfg.PolicyFile)
	if err != nil {
		return err
	}

	project, err := Open(cfg.Root)
	if err != nil {
		return err
	}

	rep, err := openReports(cfg.ReportDir)
	if err != nil {
		return err
	}
	defer rep.Close()

	_, err = RunStages(contract.New(project, policy), project.Root, rep.Write)
	return err
}

// RunStages runs each stage of c in order, passing every outcome to record,
// and stops at the first failure.
func RunStages(c *contract.Checker, root string, record func(model.CheckResult)) ([]model.CheckResult, error) {
	var results []model.CheckResult
	for _, stage := range c.Stages() {
		output.Logger.Info("Running check", "check", stage.Name, "root", root)

		start := time.Now()
		err := stage.Run()
		res := model.CheckResult{
			Check:     stage.Name,
			Root:      root,
			Status:    model.StatusPass,
			StartedAt: start,
			Duration:  time.Since(start),
		}
		if err != nil {
			res.Status = model.StatusFail
			res.Message = err.Error()
			var v *contract.Violation
			if errors.As(err, &v) {
				res.Document = v.Document
			}
		}

		results = append(results, res)
		if record != nil {
			record(res)
		}

		if err != nil {
			output.Logger.Debug("Check failed", "check", stage.Name, "error", err)
			return results, err
		}
		output.Logger.Info("Check passed", "check", stage.Name, "duration", res.Duration)
	}
	return results, nil
}

// reports fans check results out to the JSON Lines and CSV writers.
type reports struct {
	json *output.JSONWriter
	csv  *output.CSVWriter
}

// openReports returns an inert reports value when dir is empty.
func openReports(dir string) (*reports, error) {
	rep := &reports{}
	if dir == "" {
		return rep, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create report directory %s: %w", dir, err)
	}

	jsonPath := filepath.Join(dir, ReportJSONName)
	jw, err := output.NewJSONWriter(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("failed to init JSON writer at %s: %w", jsonPath, err)
	}
	rep.json = jw

	csvPath := filepath.Join(dir, ReportCSVName)
	cw, err := output.NewCSVWriter(csvPath)
	if err != nil {
		jw.Close()
		return nil, fmt.Errorf("failed to init CSV writer at %s: %w", csvPath, err)
	}
	rep.csv = cw

	return rep, nil
}

func (r *reports) Write(res model.CheckResult) {
	if r.json != nil {
		if err := r.json.Write(res); err != nil {
			output.Logger.Error("Failed to write result to JSON", "error", err)
		}
	}
	if r.csv != nil {
		if err := r.csv.Write(res); err != nil {
			output.Logger.Error("Failed to write result to CSV", "error", err)
		}
	}
}

func (r *reports) Close() {
	if r.json != nil {
		r.json.Close()
	}
	if r.csv != nil {
		r.csv.Close()
	}
}
