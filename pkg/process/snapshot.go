package process

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	log "github.com/eSKylezZ/CloudPriceFinder/pkg/logger"
	"github.com/eSKylezZ/CloudPriceFinder/pkg/schema"
)

const (
	combinedFile = "all_instances.json"
	summaryFile  = "summary.json"

	snapshotFileMode = 0o644
	snapshotDirMode  = 0o755
)

// Writer persists snapshot files: the combined instance list, one file per
// provider, and the summary. Files are replaced atomically so readers never
// observe a partial write.
type Writer struct {
	OutputDir string
	Logger    *zap.SugaredLogger
}

func NewWriter(outputDir string, logger *zap.SugaredLogger) *Writer {
	return &Writer{
		OutputDir: outputDir,
		Logger:    logger,
	}
}

// Write rewrites all snapshot files from the given per-provider catalogs.
func (w *Writer) Write(results map[schema.Provider][]schema.CloudInstance, summary *schema.Summary) error {
	if err := os.MkdirAll(w.OutputDir, snapshotDirMode); err != nil {
		return errors.Wrapf(err, "failed to create output dir %s", w.OutputDir)
	}

	combined := flatten(results)

	if err := w.writeJSON(combinedFile, combined); err != nil {
		return err
	}

	for name, instances := range results {
		if err := w.writeJSON(providerFileName(name), instances); err != nil {
			return err
		}
	}

	return w.writeJSON(summaryFile, summary)
}

// writeJSON writes to a temp file in the output dir and renames it over the
// target.
func (w *Writer) writeJSON(filename string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "failed to marshal %s", filename)
	}

	target := filepath.Join(w.OutputDir, filename)

	tmp, err := os.CreateTemp(w.OutputDir, filename+".tmp-*")
	if err != nil {
		return errors.Wrapf(err, "failed to create temp file for %s", filename)
	}

	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)

		return errors.Wrapf(err, "failed to write %s", filename)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)

		return errors.Wrapf(err, "failed to close temp file for %s", filename)
	}

	if err := os.Chmod(tmpName, snapshotFileMode); err != nil {
		_ = os.Remove(tmpName)

		return errors.Wrapf(err, "failed to chmod temp file for %s", filename)
	}

	if err := os.Rename(tmpName, target); err != nil {
		_ = os.Remove(tmpName)

		return errors.Wrapf(err, "failed to replace %s", filename)
	}

	return nil
}

func providerFileName(name schema.Provider) string {
	return fmt.Sprintf("%s.json", name)
}

// flatten merges per-provider catalogs into one deterministically ordered
// list: by provider, then instance type.
func flatten(results map[schema.Provider][]schema.CloudInstance) []schema.CloudInstance {
	var combined []schema.CloudInstance
	for _, instances := range results {
		combined = append(combined, instances...)
	}

	sort.SliceStable(combined, func(i, j int) bool {
		if combined[i].Provider != combined[j].Provider {
			return combined[i].Provider < combined[j].Provider
		}

		return combined[i].InstanceType < combined[j].InstanceType
	})

	return combined
}

// writeSnapshot assembles and persists all snapshot files from the cached
// per-provider catalogs.
func (p *Process) writeSnapshot(logger *zap.SugaredLogger) {
	p.mu.Lock()
	errs := make(map[string]string, len(p.errs))

	for name, msg := range p.errs {
		errs[string(name)] = msg
	}
	p.mu.Unlock()

	results := p.cachedInstances()
	summary := BuildSummary(results, errs, time.Now().UTC())

	if err := p.Writer.Write(results, summary); err != nil {
		logger.With(log.KeyResult, log.ValueFail).With(log.KeyError, err.Error()).
			Error("failed to write snapshot")

		return
	}

	recordSnapshotWritten(summary.TotalInstances)
	logger.With(log.KeyResult, log.ValueSuccess).
		Infof("snapshot written: %d instances from %d providers", summary.TotalInstances, summary.ProvidersCount)
}
