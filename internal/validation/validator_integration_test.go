package validation

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/journal-content-api/internal/models"
)

func testdataPath(t *testing.T, filename string) string {
	t.Helper()
	_, currentFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine test file path")
	}
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(currentFile)))
	path := filepath.Join(projectRoot, "testdata", filename)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Skipf("testdata file not found: %s", path)
	}
	return path
}

func TestValidateArticleNDJSON_SampleFile(t *testing.T) {
	file, err := os.Open(testdataPath(t, "articles_sample.ndjson"))
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	validator := NewValidator()
	totalRecords := 0
	failedLines := map[int]bool{}
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		totalRecords++

		var article models.ArticleNDJSON
		if err := json.Unmarshal([]byte(line), &article); err != nil {
			failedLines[lineNum] = true
			continue
		}

		if errors := validator.ValidateArticleNDJSON(&article); len(errors) > 0 {
			failedLines[lineNum] = true
		} else if article.Slug != "" {
			validator.AddArticleSlug(article.Slug)
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatal(err)
	}

	if totalRecords != 9 {
		t.Errorf("Expected 9 records, got %d", totalRecords)
	}

	// Missing title, malformed slug, dated draft, unknown status, broken JSON
	for _, line := range []int{1, 5, 6, 7, 8} {
		if !failedLines[line] {
			t.Errorf("Line %d should fail validation", line)
		}
	}
	if len(failedLines) != 5 {
		t.Errorf("Expected 5 failed lines, got %d: %v", len(failedLines), failedLines)
	}
}

func TestValidateVideoNDJSON_SampleFile(t *testing.T) {
	file, err := os.Open(testdataPath(t, "videos_sample.ndjson"))
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	validator := NewValidator()
	valid, failed := 0, 0
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		var video models.VideoNDJSON
		if err := json.Unmarshal(scanner.Bytes(), &video); err != nil {
			t.Fatalf("line %d: %v", lineNum, err)
		}
		if errors := validator.ValidateVideoNDJSON(&video); len(errors) > 0 {
			failed++
		} else {
			valid++
		}
	}

	if valid != 2 || failed != 3 {
		t.Errorf("Expected 2 valid and 3 failed videos, got %d valid and %d failed", valid, failed)
	}
}
