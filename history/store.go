// Package history persists coverage runs so trends can be tracked and
// compared between invocations.
package history

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pmezard/go-difflib/difflib"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/oxhq/covscope/models"
	"github.com/oxhq/covscope/render"
)

// Store reads and writes recorded runs.
type Store struct {
	db *gorm.DB
}

// NewStore wraps an open database handle.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Record persists one aggregation pass: the run row plus one snapshot per
// assembly, atomically.
func (s *Store) Record(summary render.Summary, label, merge, filter string) (*models.Run, error) {
	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return nil, fmt.Errorf("encoding summary: %w", err)
	}

	run := &models.Run{
		ID:            generateID("run"),
		Label:         label,
		MergeStrategy: merge,
		ProjectFilter: filter,
		TotalLines:    summary.Total,
		CoveredLines:  summary.Covered,
		Coverage:      summary.Percent,
		Summary:       datatypes.JSON(summaryJSON),
	}

	for _, asm := range summary.Assemblies {
		filesJSON, err := json.Marshal(asm.Files)
		if err != nil {
			return nil, fmt.Errorf("encoding files for %s: %w", asm.Name, err)
		}
		run.Assemblies = append(run.Assemblies, models.AssemblySnapshot{
			Name:         asm.Name,
			TotalLines:   asm.Total,
			CoveredLines: asm.Covered,
			Coverage:     asm.Percent,
			Status:       string(asm.Status),
			Files:        datatypes.JSON(filesJSON),
		})
	}

	if err := s.db.Create(run).Error; err != nil {
		return nil, fmt.Errorf("recording run: %w", err)
	}
	return run, nil
}

// List returns the most recent runs, newest first. limit <= 0 means all.
func (s *Store) List(limit int) ([]models.Run, error) {
	query := s.db.Order("recorded_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var runs []models.Run
	if err := query.Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	return runs, nil
}

// Get loads one run with its assembly snapshots.
func (s *Store) Get(id string) (*models.Run, error) {
	var run models.Run
	err := s.db.Preload("Assemblies").First(&run, "id = ?", id).Error
	if err != nil {
		return nil, fmt.Errorf("loading run %s: %w", id, err)
	}
	return &run, nil
}

// Compare renders both runs as text and returns a unified diff, empty when
// the runs are identical.
func (s *Store) Compare(oldID, newID string) (string, error) {
	oldRun, err := s.Get(oldID)
	if err != nil {
		return "", err
	}
	newRun, err := s.Get(newID)
	if err != nil {
		return "", err
	}

	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(runText(oldRun)),
		B:        difflib.SplitLines(runText(newRun)),
		FromFile: describe(oldRun),
		ToFile:   describe(newRun),
		Context:  3,
	}
	return difflib.GetUnifiedDiffString(diff)
}

// runText is the canonical line-per-assembly form both sides of a diff use.
func runText(run *models.Run) string {
	text := ""
	for _, asm := range run.Assemblies {
		text += fmt.Sprintf("%s %.1f%% %d/%d\n",
			asm.Name, asm.Coverage, asm.CoveredLines, asm.TotalLines)
	}
	text += fmt.Sprintf("OVERALL %.1f%% %d/%d\n",
		run.Coverage, run.CoveredLines, run.TotalLines)
	return text
}

func describe(run *models.Run) string {
	label := run.Label
	if label == "" {
		label = run.ID
	}
	return fmt.Sprintf("%s (%s)", label, run.RecordedAt.Format(time.RFC3339))
}

// generateID creates a unique identifier with a prefix
func generateID(prefix string) string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp
		return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
	}
	return fmt.Sprintf("%s_%s", prefix, hex.EncodeToString(bytes))
}
