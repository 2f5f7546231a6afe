package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	service "github.com/okian/podium/internal/app"
	"github.com/okian/podium/internal/domain/dataset"
	"github.com/okian/podium/internal/domain/filter"
	"github.com/okian/podium/internal/domain/merge"
	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/internal/domain/types"
	"github.com/okian/podium/pkg/logger"
)

// stdinPath marks a source read from standard input.
const stdinPath = "-"

// Report is what the tool prints.
type Report struct {
	Summary types.Summary          `json:"summary"`
	Records []model.EnrichedRecord `json:"records,omitempty"`
}

// Run computes the report for config and writes it to out as indented JSON.
func Run(ctx context.Context, config *Config, stdin io.Reader, out io.Writer) error {
	sel, err := filter.NewSelection(config.Sports, config.RegionSel, config.Medals)
	if err != nil {
		return err
	}

	var report Report
	if config.BaseURL != "" {
		report, err = fetchReport(ctx, config)
	} else {
		report, err = localReport(ctx, config, sel, stdin)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func localReport(ctx context.Context, config *Config, sel filter.Selection, stdin io.Reader) (Report, error) {
	policy, ok := merge.ParsePolicy(config.Policy)
	if !ok {
		return Report{}, fmt.Errorf("unknown policy %q", config.Policy)
	}
	src, err := sources(config, stdin)
	if err != nil {
		return Report{}, err
	}

	log := logger.Get()
	log.Debug(ctx, "loading sources", logger.String("sources", src.Key()))

	tables, err := dataset.Load(ctx, src)
	if err != nil {
		return Report{}, err
	}
	merged, err := merge.Merge(tables.Athletes, tables.Regions, merge.WithPolicy(policy))
	if err != nil {
		return Report{}, err
	}
	if len(merged.Duplicates) > 0 {
		log.Warn(ctx, "region lookup repeats codes; first row kept", logger.Strings("codes", merged.Duplicates))
	}

	rows := filter.Apply(merged.Records, sel)
	report := Report{Summary: service.Summarize(rows, config.TopN)}
	report.Summary.Selection = types.ViewOf(sel)
	if config.Raw > 0 {
		report.Records = rows[:min(config.Raw, len(rows))]
	}
	return report, nil
}

// sources resolves the three inputs. At most one of them may be stdin.
func sources(config *Config, stdin io.Reader) (dataset.Sources, error) {
	var data []byte
	used := false
	resolve := func(path string) (dataset.Source, error) {
		if path != stdinPath {
			return dataset.FileSource{Path: path}, nil
		}
		if used {
			return nil, errors.New("only one source can be read from stdin")
		}
		used = true
		b, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		data = b
		return dataset.ReaderSource{Label: "stdin", Data: data}, nil
	}

	var src dataset.Sources
	var err error
	if src.Athletes[0], err = resolve(config.Athletes1); err != nil {
		return src, err
	}
	if src.Athletes[1], err = resolve(config.Athletes2); err != nil {
		return src, err
	}
	if src.Regions, err = resolve(config.Regions); err != nil {
		return src, err
	}
	return src, nil
}
