package service

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"quizdrill/internal/models"
	"quizdrill/internal/repository"
)

// CatalogFile is the on-disk format used by the qcatalog import/export tool.
type CatalogFile struct {
	Version    string            `json:"version"`
	ExportedAt time.Time         `json:"exported_at"`
	Questions  []CatalogQuestion `json:"questions"`
}

// CatalogQuestion is a question record in a catalog file. IDs are not
// carried: imports always create new rows.
type CatalogQuestion struct {
	Prompt     string   `json:"prompt"`
	Choices    []string `json:"choices"`
	Category   string   `json:"category"`
	Difficulty int      `json:"difficulty"`
	IsPublic   bool     `json:"is_public"`
}

// CatalogService imports and exports the question catalog as JSON
type CatalogService struct {
	questionRepo *repository.QuestionRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(questionRepo *repository.QuestionRepository) *CatalogService {
	return &CatalogService{questionRepo: questionRepo}
}

// Export writes all questions to the given writer as a catalog file
func (s *CatalogService) Export(w io.Writer) error {
	questions, err := s.questionRepo.ListAll()
	if err != nil {
		return fmt.Errorf("failed to list questions: %w", err)
	}

	file := CatalogFile{
		Version:    "1.0",
		ExportedAt: time.Now().UTC(),
		Questions:  make([]CatalogQuestion, 0, len(questions)),
	}
	for _, q := range questions {
		file.Questions = append(file.Questions, CatalogQuestion{
			Prompt:     q.Prompt,
			Choices:    q.Choices,
			Category:   q.Category,
			Difficulty: q.Difficulty,
			IsPublic:   q.IsPublic,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(file); err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}

	log.Printf("Exported %d questions", len(file.Questions))
	return nil
}

// ExportToFile exports the catalog to a file path
func (s *CatalogService) ExportToFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	return s.Export(f)
}

// Import reads a catalog file and inserts its questions. Records with an
// empty prompt or fewer than two choices are skipped with a warning.
// Returns the number of questions inserted.
func (s *CatalogService) Import(r io.Reader) (int, error) {
	var file CatalogFile
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return 0, fmt.Errorf("failed to decode catalog: %w", err)
	}

	inserted := 0
	for i, cq := range file.Questions {
		if cq.Prompt == "" || len(cq.Choices) < 2 {
			log.Printf("Skipping question %d: missing prompt or choices", i)
			continue
		}

		q := models.Question{
			Prompt:     cq.Prompt,
			Choices:    cq.Choices,
			Category:   cq.Category,
			Difficulty: cq.Difficulty,
			IsPublic:   cq.IsPublic,
		}
		if _, err := s.questionRepo.Insert(q); err != nil {
			return inserted, fmt.Errorf("failed to insert question %d: %w", i, err)
		}
		inserted++
	}

	log.Printf("Imported %d questions", inserted)
	return inserted, nil
}

// ImportFromFile imports a catalog from a file path
func (s *CatalogService) ImportFromFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return s.Import(f)
}
